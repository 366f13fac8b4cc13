// Package models defines the documents and run configuration shared by the
// commands.
package models

import "time"

// LocateConfig holds runtime configuration for locate runs.
// Values come from CLI flags or FINCHUNK_* environment variables.
type LocateConfig struct {
	Sources     []string
	Period      string
	WorkerCount int
	Format      string
	OutputDir   string
	ConfigPath  string
	MaxAge      time.Duration
	Force       bool
	DBPath      string
	Pages       []string
}
