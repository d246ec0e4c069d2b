package submodules

import (
	"sort"
	"strings"
)

const (
	gitmodulesKeyPrefixConstant     = "submodule."
	gitmodulesPathKeySuffixConstant = ".path"
	gitmodulesURLKeySuffixConstant  = ".url"
	registryLineFieldNumberConstant = 2
)

// Definition describes one submodule declared in .gitmodules.
type Definition struct {
	// Name is the submodule section name inside .gitmodules.
	Name string
	// Path is the repository-relative checkout path of the submodule.
	Path string
	// URL is the configured remote of the submodule.
	URL string
}

// Registry holds every submodule declaration of a repository.
type Registry struct {
	definitionsByName map[string]Definition
	pathSet           map[string]struct{}
}

// Definitions returns the declared submodules ordered by path.
func (registry Registry) Definitions() []Definition {
	orderedDefinitions := make([]Definition, 0, len(registry.definitionsByName))
	for _, definition := range registry.definitionsByName {
		orderedDefinitions = append(orderedDefinitions, definition)
	}
	sort.Slice(orderedDefinitions, func(firstIndex int, secondIndex int) bool {
		return orderedDefinitions[firstIndex].Path < orderedDefinitions[secondIndex].Path
	})
	return orderedDefinitions
}

// ContainsPath reports whether the path is declared as a submodule.
func (registry Registry) ContainsPath(candidatePath string) bool {
	normalizedPath := strings.TrimSuffix(strings.TrimSpace(candidatePath), "/")
	_, pathDeclared := registry.pathSet[normalizedPath]
	return pathDeclared
}

// Empty reports whether the repository declares no submodules.
func (registry Registry) Empty() bool {
	return len(registry.pathSet) == 0
}

// ParseRegistryOutput converts `git config --file .gitmodules --get-regexp` output into a Registry.
func ParseRegistryOutput(output string) Registry {
	parsedRegistry := Registry{
		definitionsByName: map[string]Definition{},
		pathSet:           map[string]struct{}{},
	}

	for _, outputLine := range strings.Split(output, "\n") {
		trimmedLine := strings.TrimSpace(outputLine)
		if len(trimmedLine) == 0 {
			continue
		}

		lineFields := strings.SplitN(trimmedLine, " ", registryLineFieldNumberConstant)
		if len(lineFields) != registryLineFieldNumberConstant {
			continue
		}

		configurationKey := lineFields[0]
		configurationValue := strings.TrimSpace(lineFields[1])
		if !strings.HasPrefix(configurationKey, gitmodulesKeyPrefixConstant) {
			continue
		}

		switch {
		case strings.HasSuffix(configurationKey, gitmodulesPathKeySuffixConstant):
			submoduleName := strings.TrimSuffix(strings.TrimPrefix(configurationKey, gitmodulesKeyPrefixConstant), gitmodulesPathKeySuffixConstant)
			definition := parsedRegistry.definitionsByName[submoduleName]
			definition.Name = submoduleName
			definition.Path = strings.TrimSuffix(configurationValue, "/")
			parsedRegistry.definitionsByName[submoduleName] = definition
			parsedRegistry.pathSet[definition.Path] = struct{}{}
		case strings.HasSuffix(configurationKey, gitmodulesURLKeySuffixConstant):
			submoduleName := strings.TrimSuffix(strings.TrimPrefix(configurationKey, gitmodulesKeyPrefixConstant), gitmodulesURLKeySuffixConstant)
			definition := parsedRegistry.definitionsByName[submoduleName]
			definition.Name = submoduleName
			definition.URL = configurationValue
			parsedRegistry.definitionsByName[submoduleName] = definition
		}
	}

	return parsedRegistry
}
