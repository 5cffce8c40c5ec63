// Package controller owns the live worksheet configuration.
//
// A Controller moves from Uninitialized through Loading to Ready exactly
// once. Start reads the stored preference and every cached font in
// parallel, registers the fonts, and resolves the active font: a registered
// cached asset named by activeFontAssetId wins, then a static family named
// by fontSelector, then the built-in KaiTi stack.
//
// Scalar edits bump a generation counter and wake a background saver, which
// coalesces bursts and always writes the newest configuration. Uploads and
// deletion of the active font save synchronously so the caller sees storage
// failures.
package controller
