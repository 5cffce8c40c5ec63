package app

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"strings"

	"github.com/a-h/templ"
	"github.com/dustin/go-humanize"
	"github.com/louisbranch/zitie/internal/services/worksheet/controller"
	"github.com/louisbranch/zitie/internal/services/worksheet/fontreg"
	"github.com/louisbranch/zitie/internal/services/worksheet/i18nhttp"
	"github.com/louisbranch/zitie/internal/services/worksheet/render"
	"github.com/louisbranch/zitie/internal/services/worksheet/sheet"
	"golang.org/x/text/message"
)

// pageContext carries request-scoped values shared by every page.
type pageContext struct {
	Lang      string
	Loc       *message.Printer
	Path      string
	Languages []i18nhttp.LanguageOption
}

type worksheetView struct {
	Snapshot controller.Snapshot
	Query    string
	Poems    []sheet.Poem
	// Error is a localized failure from the last form action.
	Error      string
	RepairHint bool
}

type repairView struct {
	Error string
}

// htmlWriter accumulates the first write error so page code stays linear.
type htmlWriter struct {
	w   io.Writer
	err error
}

func (h *htmlWriter) raw(parts ...string) {
	for _, part := range parts {
		if h.err != nil {
			return
		}
		_, h.err = io.WriteString(h.w, part)
	}
}

func (h *htmlWriter) text(value string) {
	h.raw(templ.EscapeString(value))
}

func (h *htmlWriter) component(ctx context.Context, c templ.Component) {
	if h.err != nil {
		return
	}
	h.err = c.Render(ctx, h.w)
}

func esc(value string) string {
	return templ.EscapeString(value)
}

func layout(page pageContext, title string, head, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(`<!DOCTYPE html><html lang="`, esc(page.Lang), `"><head><meta charset="utf-8">`)
		h.raw(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		h.raw(`<title>`, esc(title), `</title>`)
		h.raw(`<link rel="stylesheet" href="/static/worksheet.css">`)
		if head != nil {
			h.component(ctx, head)
		}
		h.raw(`</head><body>`)
		h.component(ctx, body)
		h.raw(`</body></html>`)
		return h.err
	})
}

func languageLinks(page pageContext) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(`<nav class="languages" aria-label="`, esc(page.Loc.Sprintf("core.nav.language")), `">`)
		for _, option := range page.Languages {
			if option.Active {
				h.raw(`<strong>`, esc(option.Label), `</strong>`)
				continue
			}
			h.raw(`<a href="`, esc(option.URL), `">`, esc(option.Label), `</a>`)
		}
		h.raw(`</nav>`)
		return h.err
	})
}

// fontHead links stylesheets and declares faces for cached fonts.
func fontHead(snap controller.Snapshot) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		if url := snap.Font.StylesheetURL; url != "" {
			h.raw(`<link rel="stylesheet" href="`, esc(url), `">`)
		}
		var faces strings.Builder
		for _, f := range snap.Fonts {
			if !f.Registered || !cssIdent(f.ID) {
				continue
			}
			format := "truetype"
			if f.Format == fontreg.FormatOpenType {
				format = "opentype"
			}
			fmt.Fprintf(&faces, "@font-face{font-family:%q;src:url(\"/fonts/%s\") format(%q);font-display:swap;}", f.ID, f.ID, format)
		}
		if faces.Len() > 0 {
			h.raw(`<style>`, faces.String(), `</style>`)
		}
		return h.err
	})
}

// cssIdent reports whether id can be written unquoted into a stylesheet.
func cssIdent(id string) bool {
	if id == "" {
		return false
	}
	for _, r := range id {
		if !(r == '_' || r == '-' || r >= '0' && r <= '9' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z') {
			return false
		}
	}
	return true
}

func gridKey(style sheet.GridStyle) string {
	return "worksheet.grid." + strings.TrimSuffix(string(style), "-grid")
}

func fontLabel(loc *message.Printer, font controller.ActiveFont) string {
	if font.Custom() {
		if font.DisplayName != "" {
			return font.DisplayName
		}
		return loc.Sprintf("worksheet.preview.custom_font")
	}
	return font.DisplayName
}

// sheetTitle names the printed page after a library poem when the content
// is one.
func sheetTitle(loc *message.Printer, content string) string {
	if poem, ok := sheet.PoemByContent(content); ok {
		return poem.Title
	}
	return loc.Sprintf("worksheet.print.default_title")
}

func worksheetPage(page pageContext, view worksheetView) templ.Component {
	snap := view.Snapshot
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		loc := page.Loc
		cfg := snap.Config
		h := &htmlWriter{w: w}

		h.raw(`<div class="layout"><aside class="sidebar no-print">`)
		h.raw(`<header><h1>`, esc(loc.Sprintf("core.app.title")), `</h1>`)
		h.component(ctx, languageLinks(page))
		h.raw(`</header>`)

		if snap.State != controller.StateReady {
			h.raw(`<p class="notice">`, esc(loc.Sprintf("core.status.loading")), `</p>`)
		}
		if view.Error != "" {
			h.raw(`<div class="alert" role="alert"><p>`, esc(view.Error), `</p>`)
			if view.RepairHint {
				h.raw(`<a href="/repair">`, esc(loc.Sprintf("worksheet.font.repair_prompt")), `</a>`)
			}
			h.raw(`</div>`)
		}
		if n := len(snap.Failures); n > 0 {
			h.raw(`<div class="alert"><p>`, esc(loc.Sprintf("worksheet.font.startup_failures", n)), `</p>`)
			h.raw(`<a href="/repair">`, esc(loc.Sprintf("worksheet.font.repair_link")), `</a></div>`)
		}
		if snap.LastSaveError != nil {
			h.raw(`<div class="alert"><p>`, esc(loc.Sprintf("worksheet.save.failed")), `</p></div>`)
		}

		h.component(ctx, libraryPanel(page, view))
		h.component(ctx, inputPanel(page, cfg))
		h.component(ctx, stylePanel(page, snap))

		h.raw(`<section class="panel print-actions">`)
		h.raw(`<button type="button" onclick="window.print()">`, esc(loc.Sprintf("worksheet.print.button")), `</button>`)
		h.raw(`<a href="/worksheet.png?download=1">`, esc(loc.Sprintf("worksheet.print.download_png")), `</a>`)
		h.raw(`<p class="hint">`, esc(loc.Sprintf("worksheet.print.hint")), `</p></section>`)
		h.raw(`</aside>`)

		chars := sheet.Chars(cfg.Content)
		h.raw(`<main class="preview">`)
		h.raw(`<div class="preview-meta no-print"><h2>`, esc(loc.Sprintf("worksheet.preview.heading")), `</h2>`)
		h.raw(`<span>`, esc(loc.Sprintf("worksheet.preview.count", len(chars))), `</span>`)
		h.raw(`<span>`, esc(loc.Sprintf(gridKey(cfg.GridStyle))), `</span>`)
		h.raw(`<span>`, esc(fontLabel(loc, snap.Font)), `</span></div>`)
		h.component(ctx, render.PrintHeader(sheetTitle(loc, cfg.Content), loc.Sprintf("worksheet.print.date")))
		h.component(ctx, render.Sheet(render.InputFrom(cfg, snap.Font.Family)))
		h.raw(`<footer class="print-only">`, esc(loc.Sprintf("worksheet.print.footer")), `</footer>`)
		h.raw(`</main></div>`)
		return h.err
	})
	return layout(page, page.Loc.Sprintf("core.app.title"), fontHead(snap), body)
}

func libraryPanel(page pageContext, view worksheetView) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		loc := page.Loc
		h := &htmlWriter{w: w}
		h.raw(`<details class="panel" open><summary>`, esc(loc.Sprintf("worksheet.tab.library")), `</summary>`)
		h.raw(`<form method="get" action="/" class="search">`)
		h.raw(`<input type="search" name="q" value="`, esc(view.Query), `" placeholder="`, esc(loc.Sprintf("worksheet.library.search_placeholder")), `">`)
		h.raw(`<button type="submit">`, esc(loc.Sprintf("worksheet.library.search")), `</button></form>`)

		h.raw(`<form method="post" action="/content/library">`)
		if view.Query == "" {
			h.raw(`<h3>`, esc(loc.Sprintf("worksheet.library.basics")), `</h3><div class="chips">`)
			for i, set := range sheet.CharacterSets() {
				h.raw(`<button type="submit" name="entry" value="set:`, strconv.Itoa(i), `">`, esc(set.Category), `</button>`)
			}
			h.raw(`</div>`)
		}
		h.raw(`<h3>`, esc(loc.Sprintf("worksheet.library.poems")), `</h3>`)
		if len(view.Poems) == 0 {
			h.raw(`<p class="hint">`, esc(loc.Sprintf("worksheet.library.no_results")), `</p>`)
		}
		all := sheet.Poems()
		h.raw(`<ul class="poems">`)
		for _, poem := range view.Poems {
			index := poemIndex(all, poem)
			if index < 0 {
				continue
			}
			h.raw(`<li><button type="submit" name="entry" value="poem:`, strconv.Itoa(index), `">`)
			h.raw(`<strong>`, esc(poem.Title), `</strong> <span>`, esc(poem.Author), `</span></button></li>`)
		}
		h.raw(`</ul></form></details>`)
		return h.err
	})
}

func poemIndex(all []sheet.Poem, poem sheet.Poem) int {
	for i, p := range all {
		if p == poem {
			return i
		}
	}
	return -1
}

func inputPanel(page pageContext, cfg sheet.Config) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		loc := page.Loc
		h := &htmlWriter{w: w}
		h.raw(`<details class="panel" open><summary>`, esc(loc.Sprintf("worksheet.tab.input")), `</summary>`)
		h.raw(`<form method="post" action="/config">`)
		h.raw(`<label for="content">`, esc(loc.Sprintf("worksheet.input.label")), `</label>`)
		h.raw(`<textarea id="content" name="content" rows="6" placeholder="`, esc(loc.Sprintf("worksheet.input.placeholder")), `">`)
		h.text(cfg.Content)
		h.raw(`</textarea><button type="submit">`, esc(loc.Sprintf("worksheet.input.apply")), `</button></form>`)
		h.raw(`<form method="post" action="/config"><input type="hidden" name="content" value="">`)
		h.raw(`<button type="submit" class="secondary">`, esc(loc.Sprintf("worksheet.input.clear")), `</button></form>`)
		h.raw(`</details>`)
		return h.err
	})
}

func stylePanel(page pageContext, snap controller.Snapshot) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		loc := page.Loc
		cfg := snap.Config
		h := &htmlWriter{w: w}
		h.raw(`<details class="panel" open><summary>`, esc(loc.Sprintf("worksheet.tab.settings")), `</summary>`)

		h.raw(`<form method="post" action="/fonts/select"><label for="font">`, esc(loc.Sprintf("worksheet.font.label")), `</label>`)
		h.raw(`<select id="font" name="font"><optgroup label="`, esc(loc.Sprintf("worksheet.font.static_group")), `">`)
		for _, f := range sheet.StaticFonts() {
			h.raw(`<option value="`, esc(f.Family), `"`, selected(!snap.Font.Custom() && snap.Font.Family == f.Family), `>`, esc(f.Name), `</option>`)
		}
		h.raw(`</optgroup>`)
		registered := 0
		for _, f := range snap.Fonts {
			if f.Registered {
				registered++
			}
		}
		if registered > 0 {
			h.raw(`<optgroup label="`, esc(loc.Sprintf("worksheet.font.cached_group")), `">`)
			for _, f := range snap.Fonts {
				if !f.Registered {
					continue
				}
				h.raw(`<option value="`, esc(f.ID), `"`, selected(snap.Font.AssetID == f.ID), `>`, esc(f.DisplayName), `</option>`)
			}
			h.raw(`</optgroup>`)
		}
		h.raw(`</select><button type="submit">`, esc(loc.Sprintf("worksheet.font.select")), `</button></form>`)

		h.raw(`<form method="post" action="/fonts" enctype="multipart/form-data" class="upload">`)
		h.raw(`<label for="font-file">`, esc(loc.Sprintf("worksheet.font.upload")), `</label>`)
		h.raw(`<input id="font-file" type="file" name="font" accept=".ttf,.otf">`)
		if snap.Uploading {
			h.raw(`<p class="hint">`, esc(loc.Sprintf("worksheet.font.uploading")), `</p>`)
		}
		h.raw(`<button type="submit">`, esc(loc.Sprintf("worksheet.input.apply")), `</button></form>`)
		h.raw(`<a class="hint" href="/repair">`, esc(loc.Sprintf("worksheet.font.repair_link")), `</a>`)

		if len(snap.Fonts) > 0 {
			h.raw(`<h3>`, esc(loc.Sprintf("worksheet.font.cached_count", len(snap.Fonts))), `</h3><ul class="fonts">`)
			for _, f := range snap.Fonts {
				h.raw(`<li><span>`, esc(f.DisplayName), `</span> <small>`, esc(humanize.Bytes(uint64(f.SizeBytes))), `</small>`)
				h.raw(`<form method="post" action="/fonts/`, esc(url.PathEscape(f.ID)), `/delete" onsubmit="return confirm(this.dataset.confirm)" data-confirm="`,
					esc(loc.Sprintf("worksheet.font.delete_confirm", f.DisplayName)), `">`)
				h.raw(`<button type="submit" class="danger">`, esc(loc.Sprintf("worksheet.font.delete")), `</button></form></li>`)
			}
			h.raw(`</ul>`)
		}

		h.raw(`<form method="post" action="/config" class="style">`)
		h.raw(`<label for="gridStyle">`, esc(loc.Sprintf("worksheet.grid.label")), `</label><select id="gridStyle" name="gridStyle">`)
		for _, style := range sheet.GridStyles() {
			h.raw(`<option value="`, esc(string(style)), `"`, selected(cfg.GridStyle == style), `>`, esc(loc.Sprintf(gridKey(style))), `</option>`)
		}
		h.raw(`</select>`)
		h.raw(`<label for="gridColor">`, esc(loc.Sprintf("worksheet.grid.color")), `</label>`)
		h.raw(`<input id="gridColor" type="color" name="gridColor" value="`, esc(cfg.GridColor), `">`)
		h.raw(`<label for="cellSize">`, esc(loc.Sprintf("worksheet.style.cell_size")), ` (`, strconv.Itoa(cfg.CellSize), `px)</label>`)
		h.raw(`<input id="cellSize" type="range" name="cellSize" min="`, strconv.Itoa(sheet.CellSizeMin), `" max="`, strconv.Itoa(sheet.CellSizeMax),
			`" step="`, strconv.Itoa(sheet.CellSizeStep), `" value="`, strconv.Itoa(cfg.CellSize), `">`)
		h.raw(`<label for="textOpacity">`, esc(loc.Sprintf("worksheet.style.opacity")), ` (`, strconv.Itoa(int(cfg.TextOpacity*100+0.5)), `%)</label>`)
		h.raw(`<input id="textOpacity" type="range" name="textOpacity" min="`, formatFloat(sheet.OpacityMin), `" max="1" step="`, formatFloat(sheet.OpacityStep),
			`" value="`, formatFloat(cfg.TextOpacity), `">`)
		h.raw(`<label for="textColor">`, esc(loc.Sprintf("worksheet.style.text_color")), `</label>`)
		h.raw(`<input id="textColor" type="color" name="textColor" value="`, esc(cfg.TextColor), `">`)
		h.raw(`<button type="submit">`, esc(loc.Sprintf("worksheet.style.save")), `</button></form>`)

		h.raw(`<div class="chips">`)
		h.raw(`<form method="post" action="/config"><input type="hidden" name="textOpacity" value="`, formatFloat(sheet.TracingOpacity), `">`)
		h.raw(`<button type="submit">`, esc(loc.Sprintf("worksheet.style.tracing")), `</button></form>`)
		h.raw(`<form method="post" action="/config"><input type="hidden" name="textOpacity" value="`, formatFloat(sheet.CopyingOpacity), `">`)
		h.raw(`<button type="submit">`, esc(loc.Sprintf("worksheet.style.copying")), `</button></form>`)
		h.raw(`</div>`)

		h.raw(`<form method="post" action="/reset"><button type="submit" class="danger">`, esc(loc.Sprintf("worksheet.style.reset")), `</button></form>`)
		h.raw(`</details>`)
		return h.err
	})
}

func selected(on bool) string {
	if on {
		return ` selected`
	}
	return ""
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func repairPage(page pageContext, view repairView) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		loc := page.Loc
		h := &htmlWriter{w: w}
		h.raw(`<main class="repair"><header><h1>`, esc(loc.Sprintf("repair.title")), `</h1>`)
		h.component(ctx, languageLinks(page))
		h.raw(`<p>`, esc(loc.Sprintf("repair.subtitle")), `</p><a href="/">`, esc(loc.Sprintf("core.nav.home")), `</a></header>`)
		h.raw(`<form method="post" action="/repair" enctype="multipart/form-data" class="panel">`)
		h.raw(`<label for="font-file">`, esc(loc.Sprintf("repair.choose")), `</label>`)
		h.raw(`<input id="font-file" type="file" name="font" accept=".ttf,.otf,.woff,.ttc">`)
		h.raw(`<button type="submit">`, esc(loc.Sprintf("repair.submit")), `</button></form>`)
		if view.Error != "" {
			h.raw(`<p class="alert" role="alert">`, esc(view.Error), `</p>`)
		} else {
			h.raw(`<p class="status">`, esc(loc.Sprintf("repair.idle")), `</p>`)
		}
		h.raw(`<p class="hint">`, esc(loc.Sprintf("repair.note")), `</p></main>`)
		return h.err
	})
	return layout(page, page.Loc.Sprintf("repair.title"), nil, body)
}

func errorPage(page pageContext, message string) templ.Component {
	body := templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(`<main class="repair"><h1>`, esc(page.Loc.Sprintf("core.error.title")), `</h1>`)
		h.raw(`<p class="alert">`, esc(message), `</p><a href="/">`, esc(page.Loc.Sprintf("core.nav.home")), `</a></main>`)
		return h.err
	})
	return layout(page, page.Loc.Sprintf("core.error.title"), nil, body)
}
