package controller

import (
	"context"
	"log"
	"time"

	"go.opentelemetry.io/otel/attribute"
)

// requestSave wakes the saver. Pending requests collapse into one.
func (c *Controller) requestSave() {
	select {
	case c.saveReq <- struct{}{}:
	default:
	}
}

func (c *Controller) runSaver() {
	defer close(c.done)
	for {
		select {
		case <-c.stop:
			return
		case <-c.saveReq:
		}
		if c.saveDelay > 0 {
			timer := time.NewTimer(c.saveDelay)
			select {
			case <-timer.C:
			case <-c.stop:
				timer.Stop()
				return
			}
		}
		if err := c.persist(context.Background()); err != nil {
			log.Printf("save preference: %v", err)
		}
	}
}

// persist writes the current configuration unless that generation is
// already stored. Saves are serialized, and each one snapshots the state
// after taking saveMu, so the last write always carries the newest edit.
func (c *Controller) persist(ctx context.Context) error {
	c.saveMu.Lock()
	defer c.saveMu.Unlock()

	c.mu.RLock()
	generation := c.generation
	pref := c.cfg.ToPreference()
	c.mu.RUnlock()

	if generation == c.savedGeneration {
		return nil
	}

	ctx, span := c.tracer.Start(ctx, "controller.SavePreference")
	defer span.End()
	span.SetAttributes(attribute.Int64("zitie.generation", int64(generation)))

	err := c.prefs.Save(ctx, pref)

	c.mu.Lock()
	c.lastSaveErr = err
	c.mu.Unlock()
	if err != nil {
		recordError(span, err)
		return err
	}
	c.savedGeneration = generation
	return nil
}

// Flush saves any pending edit now.
func (c *Controller) Flush(ctx context.Context) error {
	c.mu.RLock()
	ready := c.state == StateReady
	c.mu.RUnlock()
	if !ready {
		return nil
	}
	return c.persist(ctx)
}

// Close stops the background saver and flushes the final configuration.
// Later operations report NOT_READY.
func (c *Controller) Close(ctx context.Context) error {
	var wait bool
	c.closeOnce.Do(func() {
		c.mu.Lock()
		c.closed = true
		wait = c.saverActive
		c.mu.Unlock()
		close(c.stop)
	})
	if wait {
		select {
		case <-c.done:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return c.Flush(ctx)
}
