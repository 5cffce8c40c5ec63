// Package fontreg decodes font binaries and keeps them available to the
// renderer under a stable family id.
//
// Registration is all-or-nothing: a binary that does not parse, or that
// cannot produce a face, never reaches the registry.
package fontreg
