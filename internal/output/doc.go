// Package output provides terminal output utilities: a leveled logger for
// diagnostics on stderr and lipgloss styles for the user-facing summary
// printed on stdout.
package output
