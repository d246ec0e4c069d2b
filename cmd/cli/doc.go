// Package cli constructs the sync-submodules command-line interface, wiring
// the Cobra root command, configuration loader, and structured logging
// primitives around the submodule synchronization service.
package cli
