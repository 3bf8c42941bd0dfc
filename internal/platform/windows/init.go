//go:build windows

package windows

import "github.com/axlocate/axlocate/internal/platform"

func init() {
	platform.NewBackendFunc = func() (platform.Backend, error) {
		return NewBackend()
	}
}
