// Package render draws worksheets: HTML fragments with inline SVG grids for
// the browser, and PNG rasters for previews.
package render
