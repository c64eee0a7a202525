package miner

import "errors"

var (
	// ErrPluginNotFound is returned when the shared library at the
	// given path cannot be opened.
	ErrPluginNotFound = errors.New("miner: plugin library not found")

	// ErrSymbolNotFound is returned when a loaded library is missing
	// one of the five required solver symbols.
	ErrSymbolNotFound = errors.New("miner: solver symbol not found")
)
