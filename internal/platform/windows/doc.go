//go:build windows

// Package windows implements the accessibility backend for Windows on top
// of UI Automation (UIA). The COM client interfaces are called through
// hand-rolled vtables via go-ole, which keeps the package free of cgo.
package windows
