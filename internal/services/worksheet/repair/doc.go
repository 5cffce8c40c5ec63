// Package repair re-serializes font files that browsers or the registry
// refuse to load.
//
// The font is parsed and written back with freshly generated tables. The
// package never touches the worksheet stores.
package repair
