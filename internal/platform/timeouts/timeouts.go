// Package timeouts defines shared timeout constants for the zitie commands.
package timeouts

import "time"

// ReadHeader limits how long the worksheet server waits for request headers.
const ReadHeader = 5 * time.Second

// Shutdown limits how long the worksheet server drains in-flight requests.
const Shutdown = 5 * time.Second

// FinalSave bounds the preference flush performed while the process exits.
const FinalSave = 3 * time.Second

// TelemetryFlush bounds exporting buffered spans at exit.
const TelemetryFlush = 5 * time.Second
