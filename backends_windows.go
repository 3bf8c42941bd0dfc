//go:build windows

package main

// Registers the Windows backend via its init().
import _ "github.com/axlocate/axlocate/internal/platform/windows"
