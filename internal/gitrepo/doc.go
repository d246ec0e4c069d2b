// Package gitrepo contains helpers for interrogating and manipulating Git repositories.
//
// It exposes RepositoryManager for inspecting branches, upstream tracking, and
// worktree status, along with staging, commit, and transfer operations consumed
// by the synchronization services.
package gitrepo
