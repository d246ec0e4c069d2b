// Package ui renders human-readable console output for the synchronization
// run: git command feedback bridged from execshell events, severity-aware
// ANSI coloring gated on interactive terminals, and aligned summary tables.
// Detailed telemetry continues to flow through the structured loggers.
package ui
