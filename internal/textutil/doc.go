// Package textutil provides small text helpers for CLI output and preview
// file names.
package textutil
