//go:build !windows

package wts

// NewSystem reports session notifications as unavailable. The watcher only
// has a real backend on Windows; other platforms run in simulate mode.
func NewSystem() (System, error) {
	return nil, ErrUnsupported
}
