// Package bbolt persists the worksheet preference record in a BoltDB file.
//
// The store holds exactly one record, under storage.PreferenceKey, in the
// preferences bucket. Records that fail to decode are treated as absent so
// a corrupt file never blocks startup.
package bbolt
