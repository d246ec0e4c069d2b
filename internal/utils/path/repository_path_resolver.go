package pathutils

import (
	"path/filepath"
	"strings"
)

const (
	currentDirectoryPathConstant = "."
)

// RepositoryPathResolver normalizes the repository path argument supplied on the command line.
type RepositoryPathResolver struct {
	homeExpander *HomeExpander
}

// NewRepositoryPathResolver constructs a RepositoryPathResolver with operating system home lookup.
func NewRepositoryPathResolver() *RepositoryPathResolver {
	return NewRepositoryPathResolverWithExpander(nil)
}

// NewRepositoryPathResolverWithExpander constructs a RepositoryPathResolver using the provided expander.
func NewRepositoryPathResolverWithExpander(homeExpander *HomeExpander) *RepositoryPathResolver {
	resolvedExpander := homeExpander
	if resolvedExpander == nil {
		resolvedExpander = NewHomeExpander()
	}
	return &RepositoryPathResolver{homeExpander: resolvedExpander}
}

// Resolve trims whitespace, expands the user's home directory, and falls back to the current directory.
func (resolver *RepositoryPathResolver) Resolve(candidatePath string) string {
	trimmedCandidate := strings.TrimSpace(candidatePath)
	if len(trimmedCandidate) == 0 {
		return currentDirectoryPathConstant
	}

	expandedCandidate := trimmedCandidate
	if resolver != nil {
		expandedCandidate = resolver.homeExpander.Expand(trimmedCandidate)
	}

	return filepath.Clean(expandedCandidate)
}
