// Package storage declares the persisted records and store contracts for
// worksheet state.
//
// Two stores exist and neither references the other: the preference store
// keeps one overwritten StoredPreference record, and the asset store keeps
// uploaded font binaries keyed by generated id. Reconciling the two is the
// controller's job.
package storage
