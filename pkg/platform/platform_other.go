//go:build !windows

package platform

func newHost() (*Host, error) {
	return nil, ErrUnsupported
}
