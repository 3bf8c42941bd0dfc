//go:build darwin && cgo

package darwin

import "github.com/axlocate/axlocate/internal/platform"

func init() {
	platform.NewBackendFunc = func() (platform.Backend, error) {
		return NewBackend()
	}
}
