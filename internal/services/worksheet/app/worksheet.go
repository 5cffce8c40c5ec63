package app

import (
	"context"

	"github.com/louisbranch/zitie/internal/services/worksheet/controller"
	"github.com/louisbranch/zitie/internal/services/worksheet/fontreg"
	"github.com/louisbranch/zitie/internal/services/worksheet/sheet"
	"github.com/louisbranch/zitie/internal/services/worksheet/storage"
	"golang.org/x/image/font"
)

// Worksheet is the controller surface the handlers drive.
type Worksheet interface {
	Snapshot() controller.Snapshot
	UpdateConfig(ctx context.Context, patch sheet.Patch) (sheet.Config, error)
	Edit(ctx context.Context, patch sheet.Patch, fontSelector *string) (sheet.Config, error)
	SetContent(ctx context.Context, content string) (sheet.Config, error)
	SelectFont(ctx context.Context, selector string) error
	UploadFont(ctx context.Context, displayName string, data []byte) (controller.CachedFont, error)
	DeleteFont(ctx context.Context, assetID string) error
	Reset(ctx context.Context) error
	FontData(ctx context.Context, assetID string) (storage.FontAsset, fontreg.Format, error)
	ActiveFace(size float64) (font.Face, error)
}
