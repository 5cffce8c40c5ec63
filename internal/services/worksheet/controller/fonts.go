package controller

import (
	"context"
	"log"
	"path"
	"strings"

	apperrors "github.com/louisbranch/zitie/internal/platform/errors"
	"github.com/louisbranch/zitie/internal/services/worksheet/fontreg"
	"github.com/louisbranch/zitie/internal/services/worksheet/sheet"
	"github.com/louisbranch/zitie/internal/services/worksheet/storage"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/image/font"
)

// UploadFont decodes data, stores it, registers it and makes it the active
// font, then saves the preference immediately.
//
// A decode failure returns FONT_DECODE_FAILURE and changes nothing. A
// storage failure on the asset write also changes nothing.
func (c *Controller) UploadFont(ctx context.Context, displayName string, data []byte) (CachedFont, error) {
	if err := c.requireReady(); err != nil {
		return CachedFont{}, err
	}
	displayName = cleanDisplayName(displayName)
	if displayName == "" {
		return CachedFont{}, apperrors.WithMetadata(apperrors.CodeInvalidArgument, "font file name is required", map[string]string{"Field": "displayName"})
	}

	c.uploadMu.Lock()
	defer c.uploadMu.Unlock()
	c.setUploading(true)
	defer c.setUploading(false)

	ctx, span := c.tracer.Start(ctx, "controller.UploadFont")
	defer span.End()
	span.SetAttributes(
		attribute.String("zitie.font_name", displayName),
		attribute.Int("zitie.font_bytes", len(data)),
	)

	info, _, err := fontreg.Decode(data)
	if err != nil {
		err = apperrors.WrapWithMetadata(apperrors.CodeFontDecodeFailure, "decode font", map[string]string{"Name": displayName}, err)
		recordError(span, err)
		return CachedFont{}, err
	}

	assetID, err := c.assets.Put(ctx, displayName, data)
	if err != nil {
		recordError(span, err)
		return CachedFont{}, err
	}
	if _, err := c.registry.Register(assetID, data); err != nil {
		// Drop the stored asset so a failed upload leaves nothing behind.
		if delErr := c.assets.Delete(ctx, assetID); delErr != nil {
			log.Printf("upload %q: remove unregistered asset %s: %v", displayName, assetID, delErr)
		}
		err = apperrors.WrapWithMetadata(apperrors.CodeFontDecodeFailure, "register font", map[string]string{"Name": displayName}, err)
		recordError(span, err)
		return CachedFont{}, err
	}
	span.SetAttributes(attribute.String("zitie.font_id", assetID))

	cached := CachedFont{
		ID:          assetID,
		DisplayName: displayName,
		SizeBytes:   int64(len(data)),
		Registered:  true,
		Family:      info.Family,
		Format:      info.Format,
	}
	if asset, found, err := c.assets.Get(ctx, assetID); err == nil && found {
		cached.CreatedAt = asset.CreatedAt
	}

	c.mu.Lock()
	c.fonts = append(c.fonts, cached)
	c.cfg.ActiveFontAssetID = assetID
	c.cfg.FontSelector = assetID
	c.active = customActiveFont(cached)
	c.markDirtyLocked()
	c.mu.Unlock()

	if err := c.persist(ctx); err != nil {
		recordError(span, err)
		return cached, err
	}
	return cached, nil
}

// DeleteFont removes a cached font. Deleting the active font reverts to the
// default family and saves immediately. Unknown ids are a no-op.
func (c *Controller) DeleteFont(ctx context.Context, assetID string) error {
	if err := c.requireReady(); err != nil {
		return err
	}

	ctx, span := c.tracer.Start(ctx, "controller.DeleteFont")
	defer span.End()
	span.SetAttributes(attribute.String("zitie.font_id", assetID))

	if err := c.assets.Delete(ctx, assetID); err != nil {
		recordError(span, err)
		return err
	}
	c.registry.Unregister(assetID)

	c.mu.Lock()
	c.fonts = removeFont(c.fonts, assetID)
	c.failures = removeFailure(c.failures, assetID)
	wasActive := c.cfg.ActiveFontAssetID == assetID || c.cfg.FontSelector == assetID
	if wasActive {
		c.cfg.ActiveFontAssetID = ""
		c.cfg.FontSelector = sheet.DefaultFontFamily
		c.active = defaultActiveFont()
		c.markDirtyLocked()
	}
	c.mu.Unlock()
	span.SetAttributes(attribute.Bool("zitie.was_active", wasActive))

	if !wasActive {
		return nil
	}
	if err := c.persist(ctx); err != nil {
		recordError(span, err)
		return err
	}
	return nil
}

// FontData returns the stored asset and its format.
func (c *Controller) FontData(ctx context.Context, assetID string) (storage.FontAsset, fontreg.Format, error) {
	if err := c.requireReady(); err != nil {
		return storage.FontAsset{}, "", err
	}
	asset, found, err := c.assets.Get(ctx, assetID)
	if err != nil {
		return storage.FontAsset{}, "", err
	}
	if !found {
		return storage.FontAsset{}, "", apperrors.WithMetadata(apperrors.CodeNotFound, "cached font not found", map[string]string{"ID": assetID})
	}
	format := fontreg.FormatTrueType
	if info, ok := c.registry.Lookup(assetID); ok {
		format = info.Format
	}
	return asset, format, nil
}

// ActiveFace returns a face for the active cached font at size pixels. It
// reports NOT_FOUND when the active font is a static family.
func (c *Controller) ActiveFace(size float64) (font.Face, error) {
	c.mu.RLock()
	assetID := c.active.AssetID
	c.mu.RUnlock()
	if assetID == "" {
		return nil, apperrors.New(apperrors.CodeNotFound, "active font is not a cached font")
	}
	return c.registry.Face(assetID, size)
}

func (c *Controller) setUploading(v bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.uploading = v
}

// cleanDisplayName keeps only the base name of an uploaded file.
func cleanDisplayName(name string) string {
	name = strings.TrimSpace(strings.ReplaceAll(name, `\`, "/"))
	if name == "" {
		return ""
	}
	base := path.Base(name)
	if base == "." || base == "/" {
		return ""
	}
	return base
}

func removeFont(fonts []CachedFont, id string) []CachedFont {
	out := fonts[:0:0]
	for _, f := range fonts {
		if f.ID != id {
			out = append(out, f)
		}
	}
	return out
}

func removeFailure(failures []RegistrationFailure, id string) []RegistrationFailure {
	out := failures[:0:0]
	for _, f := range failures {
		if f.AssetID != id {
			out = append(out, f)
		}
	}
	return out
}
