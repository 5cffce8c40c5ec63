package controller

import (
	"context"

	apperrors "github.com/louisbranch/zitie/internal/platform/errors"
	"github.com/louisbranch/zitie/internal/services/worksheet/sheet"
	"go.opentelemetry.io/otel/attribute"
)

// UpdateConfig applies scalar edits and schedules a save. An invalid field
// rejects the whole patch and leaves the configuration unchanged.
func (c *Controller) UpdateConfig(ctx context.Context, patch sheet.Patch) (sheet.Config, error) {
	return c.Edit(ctx, patch, nil)
}

// Edit applies patch and, when selector is non-nil, switches the active font
// to that static family or cached id. Both parts are validated before either
// is applied, so a rejected selector leaves the patch unapplied too.
func (c *Controller) Edit(_ context.Context, patch sheet.Patch, selector *string) (sheet.Config, error) {
	c.mu.Lock()
	if err := c.requireReadyLocked(); err != nil {
		c.mu.Unlock()
		return sheet.Config{}, err
	}
	next, err := c.cfg.Apply(patch)
	if err != nil {
		cfg := c.cfg
		c.mu.Unlock()
		return cfg, err
	}
	active := c.active
	if selector != nil {
		if active, err = c.fontForSelectorLocked(*selector); err != nil {
			cfg := c.cfg
			c.mu.Unlock()
			return cfg, err
		}
		next = withActiveFont(next, active)
	}
	changed := next != c.cfg || active != c.active
	c.cfg = next
	c.active = active
	if changed {
		c.markDirtyLocked()
	}
	c.mu.Unlock()

	if changed {
		c.requestSave()
	}
	return next, nil
}

// SetContent replaces the practice text.
func (c *Controller) SetContent(ctx context.Context, content string) (sheet.Config, error) {
	return c.UpdateConfig(ctx, sheet.Patch{Content: &content})
}

// SelectStaticFont makes a catalog family active and clears any active
// cached font.
func (c *Controller) SelectStaticFont(ctx context.Context, family string) error {
	if _, ok := sheet.LookupStaticFont(family); !ok {
		return apperrors.WithMetadata(apperrors.CodeInvalidArgument, "unknown font family", map[string]string{"Field": "fontSelector"})
	}
	_, err := c.Edit(ctx, sheet.Patch{}, &family)
	return err
}

// SelectCachedFont makes a registered cached font active.
func (c *Controller) SelectCachedFont(ctx context.Context, assetID string) error {
	if _, ok := sheet.LookupStaticFont(assetID); ok {
		return cachedFontUnavailable(assetID)
	}
	_, err := c.Edit(ctx, sheet.Patch{}, &assetID)
	return err
}

// SelectFont switches to a static family or a cached font id.
func (c *Controller) SelectFont(ctx context.Context, selector string) error {
	_, err := c.Edit(ctx, sheet.Patch{}, &selector)
	return err
}

// fontForSelectorLocked resolves a static family or registered cached id.
// c.mu must be held.
func (c *Controller) fontForSelectorLocked(selector string) (ActiveFont, error) {
	if f, ok := sheet.LookupStaticFont(selector); ok {
		return staticActiveFont(f), nil
	}
	f, ok := findFont(c.fonts, selector)
	if !ok || !f.Registered {
		return ActiveFont{}, cachedFontUnavailable(selector)
	}
	return customActiveFont(f), nil
}

func cachedFontUnavailable(id string) error {
	return apperrors.WithMetadata(apperrors.CodeNotFound, "cached font is not available", map[string]string{"ID": id})
}

// withActiveFont points cfg's font fields at active.
func withActiveFont(cfg sheet.Config, active ActiveFont) sheet.Config {
	if active.Custom() {
		cfg.FontSelector = active.AssetID
		cfg.ActiveFontAssetID = active.AssetID
		return cfg
	}
	cfg.FontSelector = active.Family
	cfg.ActiveFontAssetID = ""
	return cfg
}

// Reset clears both stores and the registry and restores the defaults.
func (c *Controller) Reset(ctx context.Context) error {
	if err := c.requireReady(); err != nil {
		return err
	}

	ctx, span := c.tracer.Start(ctx, "controller.Reset")
	defer span.End()

	// Holding saveMu keeps an in-flight save from landing after the clear.
	c.saveMu.Lock()
	defer c.saveMu.Unlock()

	if err := c.prefs.Clear(ctx); err != nil {
		recordError(span, err)
		return err
	}
	if err := c.assets.Clear(ctx); err != nil {
		recordError(span, err)
		return err
	}
	c.registry.Clear()

	c.mu.Lock()
	defer c.mu.Unlock()
	span.SetAttributes(attribute.Int("zitie.cleared_fonts", len(c.fonts)))
	c.cfg = sheet.Defaults()
	c.active = defaultActiveFont()
	c.fonts = nil
	c.failures = nil
	c.lastSaveErr = nil
	c.markDirtyLocked()
	c.savedGeneration = c.generation
	return nil
}
