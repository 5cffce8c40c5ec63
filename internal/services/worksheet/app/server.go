package app

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"net/http"
	"strings"

	"github.com/klauspost/compress/gzhttp"
	"github.com/louisbranch/zitie/internal/platform/timeouts"
	"github.com/louisbranch/zitie/internal/services/worksheet/controller"
	"github.com/louisbranch/zitie/internal/services/worksheet/fontreg"
)

// DefaultMaxUploadBytes bounds font uploads when Config leaves it unset.
const DefaultMaxUploadBytes int64 = 32 << 20

// previewFontID names the fallback face in the preview registry.
const previewFontID = "preview"

var subStaticFS = func() (fs.FS, error) {
	return fs.Sub(staticFS, "static")
}

// Config configures the worksheet HTTP surface.
type Config struct {
	HTTPAddr string
	// MaxUploadBytes bounds uploaded font files.
	MaxUploadBytes int64
	// PreviewFont is drawn in the PNG preview while a static family is
	// active. Without it the preview shows the grid only.
	PreviewFont []byte
}

// Server hosts the worksheet HTTP handler.
type Server struct {
	httpAddr   string
	httpServer *http.Server
}

type handler struct {
	worksheet      Worksheet
	maxUploadBytes int64
	preview        *fontreg.Registry
}

var _ Worksheet = (*controller.Controller)(nil)

// NewHandler builds the routed, compressed worksheet handler.
func NewHandler(config Config, worksheet Worksheet) (http.Handler, error) {
	if worksheet == nil {
		return nil, errors.New("worksheet is required")
	}
	static, err := subStaticFS()
	if err != nil {
		return nil, fmt.Errorf("resolve static assets: %w", err)
	}

	h := &handler{
		worksheet:      worksheet,
		maxUploadBytes: config.MaxUploadBytes,
		preview:        fontreg.New(),
	}
	if h.maxUploadBytes <= 0 {
		h.maxUploadBytes = DefaultMaxUploadBytes
	}
	if len(config.PreviewFont) > 0 {
		if _, err := h.preview.Register(previewFontID, config.PreviewFont); err != nil {
			return nil, fmt.Errorf("register preview font: %w", err)
		}
	}

	mux := http.NewServeMux()
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.FS(static))))

	mux.HandleFunc("GET /{$}", h.handleWorksheetPage)
	mux.HandleFunc("POST /config", h.handleConfigForm)
	mux.HandleFunc("POST /content/library", h.handleLibraryForm)
	mux.HandleFunc("POST /fonts", h.handleFontUpload)
	mux.HandleFunc("POST /fonts/select", h.handleFontSelect)
	mux.HandleFunc("POST /fonts/{id}/delete", h.handleFontDeleteForm)
	mux.HandleFunc("GET /fonts/{id}", h.handleFontData)
	mux.HandleFunc("POST /reset", h.handleReset)
	mux.HandleFunc("GET /worksheet.png", h.handlePreviewPNG)

	mux.HandleFunc("GET /repair", h.handleRepairPage)
	mux.HandleFunc("POST /repair", h.handleRepair)

	mux.HandleFunc("GET /api/config", h.handleAPIGetConfig)
	mux.HandleFunc("PATCH /api/config", h.handleAPIPatchConfig)
	mux.HandleFunc("GET /api/fonts", h.handleAPIListFonts)
	mux.HandleFunc("DELETE /api/fonts/{id}", h.handleAPIDeleteFont)

	return gzhttp.GzipHandler(mux), nil
}

// NewServer builds the worksheet HTTP server.
func NewServer(config Config, worksheet Worksheet) (*Server, error) {
	httpAddr := strings.TrimSpace(config.HTTPAddr)
	if httpAddr == "" {
		return nil, errors.New("http address is required")
	}
	handler, err := NewHandler(config, worksheet)
	if err != nil {
		return nil, fmt.Errorf("build handler: %w", err)
	}
	return &Server{
		httpAddr: httpAddr,
		httpServer: &http.Server{
			Addr:              httpAddr,
			Handler:           handler,
			ReadHeaderTimeout: timeouts.ReadHeader,
		},
	}, nil
}

// ListenAndServe runs the HTTP server until the context ends.
//
// On cancellation, it performs a bounded shutdown so in-flight requests
// are drained before hard close.
func (s *Server) ListenAndServe(ctx context.Context) error {
	if s == nil {
		return errors.New("worksheet server is nil")
	}
	if ctx == nil {
		return errors.New("context is required")
	}

	serveErr := make(chan error, 1)
	log.Printf("worksheet listening on %s", s.httpAddr)
	go func() {
		serveErr <- s.httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeouts.Shutdown)
		err := s.httpServer.Shutdown(shutdownCtx)
		cancel()
		if err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve http: %w", err)
	}
}
