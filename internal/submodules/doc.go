// Package submodules discovers and classifies the submodules of a repository.
//
// It reads the declarative .gitmodules registry, parses submodule status
// markers into typed pointer states, and arranges recursively discovered
// submodules into deterministic traversal orders for the synchronization
// services.
package submodules
