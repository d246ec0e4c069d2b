// Package execshell wraps external command execution with structured logging
// and lifecycle notifications for observers.
package execshell
