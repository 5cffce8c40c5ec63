package controller

import (
	"context"
	"fmt"
	"log"
	"runtime"
	"sync"
	"time"

	apperrors "github.com/louisbranch/zitie/internal/platform/errors"
	platformotel "github.com/louisbranch/zitie/internal/platform/otel"
	"github.com/louisbranch/zitie/internal/services/worksheet/fontreg"
	"github.com/louisbranch/zitie/internal/services/worksheet/sheet"
	"github.com/louisbranch/zitie/internal/services/worksheet/storage"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

// State is the controller lifecycle stage.
type State int

const (
	StateUninitialized State = iota
	StateLoading
	StateReady
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// ActiveFont is the resolved font applied to rendered characters.
//
// Family is the CSS family value: the asset id for cached fonts, the stack
// for static fonts.
type ActiveFont struct {
	Family        string
	DisplayName   string
	AssetID       string
	StylesheetURL string
}

// Custom reports whether the active font is a cached asset.
func (f ActiveFont) Custom() bool {
	return f.AssetID != ""
}

// CachedFont describes one stored font asset.
type CachedFont struct {
	ID          string
	DisplayName string
	SizeBytes   int64
	CreatedAt   time.Time
	Registered  bool
	Family      string
	Format      fontreg.Format
}

// RegistrationFailure records a cached font that could not be registered.
type RegistrationFailure struct {
	AssetID     string
	DisplayName string
	Err         error
}

// Snapshot is a consistent copy of the controller state.
type Snapshot struct {
	State         State
	Uploading     bool
	Config        sheet.Config
	Font          ActiveFont
	Fonts         []CachedFont
	Failures      []RegistrationFailure
	LastSaveError error
}

// Option customizes a Controller.
type Option func(*Controller)

// WithRegistry shares a font registry with other components.
func WithRegistry(reg *fontreg.Registry) Option {
	return func(c *Controller) {
		if reg != nil {
			c.registry = reg
		}
	}
}

// WithSaveDelay waits d after an edit before saving so bursts coalesce.
func WithSaveDelay(d time.Duration) Option {
	return func(c *Controller) {
		if d > 0 {
			c.saveDelay = d
		}
	}
}

// Controller reconciles the preference and asset stores into a live
// configuration. It is safe for concurrent use.
type Controller struct {
	assets    storage.AssetStore
	prefs     storage.PreferenceStore
	registry  *fontreg.Registry
	saveDelay time.Duration
	tracer    trace.Tracer

	mu          sync.RWMutex
	state       State
	closed      bool
	uploading   bool
	cfg         sheet.Config
	active      ActiveFont
	fonts       []CachedFont
	failures    []RegistrationFailure
	generation  uint64
	lastSaveErr error

	// saveMu serializes writes to the preference store. savedGeneration is
	// guarded by saveMu.
	saveMu          sync.Mutex
	savedGeneration uint64

	uploadMu sync.Mutex

	saveReq     chan struct{}
	stop        chan struct{}
	done        chan struct{}
	saverActive bool
	closeOnce   sync.Once
}

// New returns an uninitialized Controller over the given stores.
func New(assets storage.AssetStore, prefs storage.PreferenceStore, opts ...Option) *Controller {
	c := &Controller{
		assets:   assets,
		prefs:    prefs,
		registry: fontreg.New(),
		tracer:   platformotel.Tracer("worksheet/controller"),
		cfg:      sheet.Defaults(),
		active:   defaultActiveFont(),
		saveReq:  make(chan struct{}, 1),
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Registry returns the registry cached fonts are registered in.
func (c *Controller) Registry() *fontreg.Registry {
	return c.registry
}

// Start loads stored state and enters Ready. It may be called once.
//
// Read failures are logged and treated as absent data; one undecodable
// cached font never blocks the others.
func (c *Controller) Start(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return apperrors.New(apperrors.CodeNotReady, "worksheet is closed")
	}
	if c.state != StateUninitialized {
		c.mu.Unlock()
		return fmt.Errorf("controller already started")
	}
	c.state = StateLoading
	c.mu.Unlock()

	ctx, span := c.tracer.Start(ctx, "controller.Start")
	defer span.End()

	var (
		pref      storage.StoredPreference
		prefFound bool
		assets    []storage.FontAsset
	)
	var loads errgroup.Group
	loads.Go(func() error {
		loaded, found, err := c.prefs.Load(ctx)
		if err != nil {
			log.Printf("load preference: %v", err)
			return nil
		}
		pref, prefFound = loaded, found
		return nil
	})
	loads.Go(func() error {
		loaded, err := c.assets.GetAll(ctx)
		if err != nil {
			log.Printf("load cached fonts: %v", err)
			return nil
		}
		assets = loaded
		return nil
	})
	_ = loads.Wait()

	fonts, failures := c.registerAll(assets)

	cfg := sheet.Defaults()
	if prefFound {
		cfg = sheet.FromPreference(pref)
	}
	active, cfg := resolveActiveFont(cfg, fonts)

	span.SetAttributes(
		attribute.Bool("zitie.preference_found", prefFound),
		attribute.Int("zitie.cached_fonts", len(fonts)),
		attribute.Int("zitie.registration_failures", len(failures)),
		attribute.Bool("zitie.custom_font_active", active.Custom()),
	)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.cfg = cfg
	c.active = active
	c.fonts = fonts
	c.failures = failures
	c.state = StateReady
	if !c.closed {
		c.saverActive = true
		go c.runSaver()
	}
	return nil
}

// registerAll registers every asset concurrently. Results keep the store
// order.
func (c *Controller) registerAll(assets []storage.FontAsset) ([]CachedFont, []RegistrationFailure) {
	fonts := make([]CachedFont, len(assets))
	errs := make([]error, len(assets))

	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, asset := range assets {
		g.Go(func() error {
			font := CachedFont{
				ID:          asset.ID,
				DisplayName: asset.DisplayName,
				SizeBytes:   int64(len(asset.Data)),
				CreatedAt:   asset.CreatedAt,
			}
			info, err := c.registry.Register(asset.ID, asset.Data)
			if err != nil {
				errs[i] = err
			} else {
				font.Registered = true
				font.Family = info.Family
				font.Format = info.Format
			}
			fonts[i] = font
			return nil
		})
	}
	_ = g.Wait()

	var failures []RegistrationFailure
	for i, err := range errs {
		if err == nil {
			continue
		}
		log.Printf("skip cached font %s (%s): %v", assets[i].ID, assets[i].DisplayName, err)
		failures = append(failures, RegistrationFailure{
			AssetID:     assets[i].ID,
			DisplayName: assets[i].DisplayName,
			Err:         err,
		})
	}
	return fonts, failures
}

// Snapshot returns a copy of the current state. It is valid in every state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return Snapshot{
		State:         c.state,
		Uploading:     c.uploading,
		Config:        c.cfg,
		Font:          c.active,
		Fonts:         append([]CachedFont(nil), c.fonts...),
		Failures:      append([]RegistrationFailure(nil), c.failures...),
		LastSaveError: c.lastSaveErr,
	}
}

// requireReadyLocked reports NOT_READY outside Ready. c.mu must be held.
func (c *Controller) requireReadyLocked() error {
	if c.closed {
		return apperrors.New(apperrors.CodeNotReady, "worksheet is closed")
	}
	if c.state != StateReady {
		return apperrors.New(apperrors.CodeNotReady, "worksheet is not ready")
	}
	return nil
}

func (c *Controller) requireReady() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.requireReadyLocked()
}

// markDirtyLocked records an edit that must reach the preference store.
// c.mu must be held.
func (c *Controller) markDirtyLocked() {
	c.generation++
}

func recordError(span trace.Span, err error) {
	if err == nil {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
