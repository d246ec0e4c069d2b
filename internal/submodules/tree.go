package submodules

import (
	"strings"
)

const (
	displayPathSeparatorConstant = "/"
)

// TreeNode locates one discovered submodule inside the nesting hierarchy.
type TreeNode struct {
	// DisplayPath is the path of the submodule relative to the superrepo root.
	DisplayPath string
	// ParentDisplayPath is the display path of the enclosing submodule, empty for direct children of the superrepo.
	ParentDisplayPath string
	// Depth counts enclosing submodules, starting at 1 for direct children.
	Depth int
}

// Tree arranges recursively discovered submodules for deterministic traversal.
type Tree struct {
	nodes []TreeNode
}

// BuildTree derives the nesting hierarchy from display paths listed parent-before-child.
func BuildTree(displayPaths []string) Tree {
	builtTree := Tree{nodes: make([]TreeNode, 0, len(displayPaths))}
	knownPaths := make([]string, 0, len(displayPaths))

	for _, displayPath := range displayPaths {
		trimmedPath := strings.TrimSuffix(strings.TrimSpace(displayPath), displayPathSeparatorConstant)
		if len(trimmedPath) == 0 {
			continue
		}

		parentPath := resolveParentPath(trimmedPath, knownPaths)
		depth := 1
		for _, node := range builtTree.nodes {
			if node.DisplayPath == parentPath {
				depth = node.Depth + 1
				break
			}
		}

		builtTree.nodes = append(builtTree.nodes, TreeNode{
			DisplayPath:       trimmedPath,
			ParentDisplayPath: parentPath,
			Depth:             depth,
		})
		knownPaths = append(knownPaths, trimmedPath)
	}

	return builtTree
}

// ForwardOrder returns nodes parent-before-child, matching discovery order.
func (tree Tree) ForwardOrder() []TreeNode {
	forwardNodes := make([]TreeNode, len(tree.nodes))
	copy(forwardNodes, tree.nodes)
	return forwardNodes
}

// ReverseOrder returns nodes child-before-parent so nested repositories settle first.
func (tree Tree) ReverseOrder() []TreeNode {
	reversedNodes := make([]TreeNode, len(tree.nodes))
	for nodeIndex, node := range tree.nodes {
		reversedNodes[len(tree.nodes)-1-nodeIndex] = node
	}
	return reversedNodes
}

// Size reports the number of discovered submodules.
func (tree Tree) Size() int {
	return len(tree.nodes)
}

func resolveParentPath(candidatePath string, knownPaths []string) string {
	longestParent := ""
	for _, knownPath := range knownPaths {
		if !strings.HasPrefix(candidatePath, knownPath+displayPathSeparatorConstant) {
			continue
		}
		if len(knownPath) > len(longestParent) {
			longestParent = knownPath
		}
	}
	return longestParent
}
