//go:build darwin

package main

// Registers the macOS backend via its init().
import _ "github.com/axlocate/axlocate/internal/platform/darwin"
