package app

import (
	"bytes"
	"io"
	"log"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/a-h/templ"
	apperrors "github.com/louisbranch/zitie/internal/platform/errors"
	"github.com/louisbranch/zitie/internal/services/worksheet/controller"
	"github.com/louisbranch/zitie/internal/services/worksheet/i18nhttp"
	"github.com/louisbranch/zitie/internal/services/worksheet/render"
	"github.com/louisbranch/zitie/internal/services/worksheet/repair"
	"github.com/louisbranch/zitie/internal/services/worksheet/sheet"
	"golang.org/x/image/font"
)

// uploadField is the multipart field carrying font files.
const uploadField = "font"

func (h *handler) page(w http.ResponseWriter, r *http.Request) pageContext {
	tag, setCookie := i18nhttp.ResolveTag(r)
	if setCookie {
		i18nhttp.SetLanguageCookie(w, tag)
	}
	return pageContext{
		Lang:      tag.String(),
		Loc:       i18nhttp.Printer(tag),
		Path:      r.URL.Path,
		Languages: i18nhttp.LanguageOptions(r.URL.Path, tag),
	}
}

func (h *handler) renderWorksheet(w http.ResponseWriter, r *http.Request, status int, failure error) {
	page := h.page(w, r)
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	view := worksheetView{
		Snapshot: h.worksheet.Snapshot(),
		Query:    query,
		Poems:    sheet.SearchPoems(query),
	}
	if failure != nil {
		view.Error = publicMessage(page.Lang, failure)
		view.RepairHint = apperrors.HasCode(failure, apperrors.CodeFontDecodeFailure)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := worksheetPage(page, view).Render(r.Context(), w); err != nil {
		log.Printf("render worksheet page: %v", err)
	}
}

// formResult redirects home on success and re-renders the page with the
// failure otherwise.
func (h *handler) formResult(w http.ResponseWriter, r *http.Request, err error) {
	if err == nil {
		redirectHome(w, r)
		return
	}
	logUnexpected(r, err)
	h.renderWorksheet(w, r, errorStatus(err), err)
}

func (h *handler) handleWorksheetPage(w http.ResponseWriter, r *http.Request) {
	h.renderWorksheet(w, r, http.StatusOK, nil)
}

func (h *handler) handleConfigForm(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.formResult(w, r, invalidForm("form", err))
		return
	}
	patch, err := patchFromForm(r)
	if err != nil {
		h.formResult(w, r, err)
		return
	}
	_, err = h.worksheet.UpdateConfig(r.Context(), patch)
	h.formResult(w, r, err)
}

// patchFromForm maps present form fields onto a patch. Absent fields stay
// unchanged, so an empty "content" value clears the text.
func patchFromForm(r *http.Request) (sheet.Patch, error) {
	var patch sheet.Patch
	form := r.PostForm
	if form.Has("content") {
		content := form.Get("content")
		patch.Content = &content
	}
	if form.Has("cellSize") {
		size, err := strconv.Atoi(strings.TrimSpace(form.Get("cellSize")))
		if err != nil {
			return sheet.Patch{}, invalidForm("cellSize", err)
		}
		patch.CellSize = &size
	}
	if form.Has("gridStyle") {
		style := form.Get("gridStyle")
		patch.GridStyle = &style
	}
	if form.Has("gridColor") {
		color := form.Get("gridColor")
		patch.GridColor = &color
	}
	if form.Has("textColor") {
		color := form.Get("textColor")
		patch.TextColor = &color
	}
	if form.Has("textOpacity") {
		opacity, err := strconv.ParseFloat(strings.TrimSpace(form.Get("textOpacity")), 64)
		if err != nil {
			return sheet.Patch{}, invalidForm("textOpacity", err)
		}
		patch.TextOpacity = &opacity
	}
	return patch, nil
}

func invalidForm(field string, cause error) error {
	return apperrors.WrapWithMetadata(apperrors.CodeInvalidArgument, "invalid form value", map[string]string{"Field": field}, cause)
}

func (h *handler) handleLibraryForm(w http.ResponseWriter, r *http.Request) {
	entry := r.PostFormValue("entry")
	content, ok := sheet.LibraryEntry(entry)
	if !ok {
		h.formResult(w, r, apperrors.WithMetadata(apperrors.CodeInvalidArgument, "unknown library entry", map[string]string{"Field": "entry"}))
		return
	}
	_, err := h.worksheet.SetContent(r.Context(), content)
	h.formResult(w, r, err)
}

func (h *handler) handleFontUpload(w http.ResponseWriter, r *http.Request) {
	name, data, err := h.readUpload(w, r)
	if err != nil {
		h.formResult(w, r, err)
		return
	}
	_, err = h.worksheet.UploadFont(r.Context(), name, data)
	h.formResult(w, r, err)
}

// readUpload returns the uploaded font's file name and bytes.
func (h *handler) readUpload(w http.ResponseWriter, r *http.Request) (string, []byte, error) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	file, header, err := r.FormFile(uploadField)
	if err != nil {
		return "", nil, invalidForm(uploadField, err)
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		return "", nil, invalidForm(uploadField, err)
	}
	return header.Filename, data, nil
}

func (h *handler) handleFontSelect(w http.ResponseWriter, r *http.Request) {
	h.formResult(w, r, h.worksheet.SelectFont(r.Context(), r.PostFormValue("font")))
}

func (h *handler) handleFontDeleteForm(w http.ResponseWriter, r *http.Request) {
	h.formResult(w, r, h.worksheet.DeleteFont(r.Context(), r.PathValue("id")))
}

func (h *handler) handleReset(w http.ResponseWriter, r *http.Request) {
	h.formResult(w, r, h.worksheet.Reset(r.Context()))
}

func (h *handler) handleFontData(w http.ResponseWriter, r *http.Request) {
	asset, format, err := h.worksheet.FontData(r.Context(), r.PathValue("id"))
	if err != nil {
		logUnexpected(r, err)
		h.renderError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Cache-Control", "private, max-age=31536000, immutable")
	w.Header().Set("Content-Length", strconv.Itoa(len(asset.Data)))
	if _, err := w.Write(asset.Data); err != nil {
		log.Printf("write font %s: %v", asset.ID, err)
	}
}

func (h *handler) handlePreviewPNG(w http.ResponseWriter, r *http.Request) {
	snap := h.worksheet.Snapshot()
	in := render.InputFrom(snap.Config, snap.Font.Family)
	if err := render.CheckSize(in); err != nil {
		h.renderError(w, r, err)
		return
	}
	face := h.previewFace(snap, float64(snap.Config.CellSize)*sheet.GlyphScale)
	if face != nil {
		defer face.Close()
	}

	var buf bytes.Buffer
	if err := render.EncodePNG(&buf, in, face); err != nil {
		logUnexpected(r, err)
		h.renderError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	if r.URL.Query().Get("download") != "" {
		w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": "zitie.png"}))
	}
	if _, err := buf.WriteTo(w); err != nil {
		log.Printf("write worksheet png: %v", err)
	}
}

// previewFace picks the face drawn in the PNG preview: the active cached
// font, else the configured preview font, else none.
func (h *handler) previewFace(snap controller.Snapshot, size float64) font.Face {
	if snap.Font.Custom() {
		face, err := h.worksheet.ActiveFace(size)
		if err == nil {
			return face
		}
		log.Printf("active face %s: %v", snap.Font.AssetID, err)
	}
	if !h.preview.Has(previewFontID) {
		return nil
	}
	face, err := h.preview.Face(previewFontID, size)
	if err != nil {
		log.Printf("preview face: %v", err)
		return nil
	}
	return face
}

func (h *handler) renderError(w http.ResponseWriter, r *http.Request, err error) {
	page := h.page(w, r)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(errorStatus(err))
	if renderErr := errorPage(page, publicMessage(page.Lang, err)).Render(r.Context(), w); renderErr != nil {
		log.Printf("render error page: %v", renderErr)
	}
}

func (h *handler) handleRepairPage(w http.ResponseWriter, r *http.Request) {
	h.renderRepair(w, r, http.StatusOK, "")
}

func (h *handler) renderRepair(w http.ResponseWriter, r *http.Request, status int, message string) {
	page := h.page(w, r)
	templ.Handler(repairPage(page, repairView{Error: message}), templ.WithStatus(status)).ServeHTTP(w, r)
}

func (h *handler) handleRepair(w http.ResponseWriter, r *http.Request) {
	name, data, err := h.readUpload(w, r)
	if err != nil {
		page := h.page(w, r)
		h.renderRepair(w, r, http.StatusBadRequest, page.Loc.Sprintf("repair.missing_file"))
		return
	}
	result, err := repair.Repair(name, data)
	if err != nil {
		page := h.page(w, r)
		reason := apperrors.MetadataOf(err)["Reason"]
		if reason == "" {
			reason = publicMessage(page.Lang, err)
		}
		h.renderRepair(w, r, errorStatus(err), page.Loc.Sprintf("repair.failed", reason))
		return
	}
	log.Printf("repaired font %q: %d glyphs, %s outlines", result.FileName, result.NumGlyphs, result.Outlines)
	w.Header().Set("Content-Type", repair.ContentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": result.FileName}))
	w.Header().Set("Content-Length", strconv.Itoa(len(result.Data)))
	if _, err := w.Write(result.Data); err != nil {
		log.Printf("write repaired font: %v", err)
	}
}
