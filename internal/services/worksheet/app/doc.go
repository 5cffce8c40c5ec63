// Package app serves the worksheet UI, its JSON API, the PNG preview, and
// the font repair page over HTTP.
package app
