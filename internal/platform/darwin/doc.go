//go:build darwin

// Package darwin implements the accessibility backend for macOS on top of
// the ApplicationServices AXUIElement API. All functionality requires CGo
// (the AX API is C only). When CGo is disabled the package compiles as a
// no-op stub and no backend is registered.
package darwin
