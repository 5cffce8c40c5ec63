// Package sqlite provides the font asset store backed by SQLite.
//
// Each asset is a single row written by one INSERT, so a rejected write never
// leaves a partial asset behind. Rows carry an xxh3 checksum of the font
// bytes; rows that fail verification are treated as absent.
package sqlite
