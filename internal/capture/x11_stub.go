//go:build !(linux || freebsd || openbsd || netbsd || dragonfly)

package capture

import "fmt"

type stubBackend struct{}

func newBackend() platformBackend { return stubBackend{} }

func (stubBackend) ListMonitors() ([]MonitorInfo, error) {
	return nil, fmt.Errorf("monitor listing is not supported on this platform")
}
