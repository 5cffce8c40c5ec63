// Package sheet defines the live worksheet configuration: scalar fields,
// grid styles, the static font catalog and the practice-text library.
//
// Configurations are plain values. Conversions to and from the persisted
// storage.StoredPreference fall back to defaults field by field, so a partial
// or damaged record always yields a usable Config.
package sheet
