//go:build !linux

package capture

import (
	"fmt"
	"runtime"
)

// newPlatformListener has no system-wide listener on this platform; global
// mode reports unavailability at activate time and in-app mode keeps working.
func newPlatformListener(device string) (Listener, error) {
	return nil, fmt.Errorf("%w: system-wide capture is not supported on %s", ErrUnavailable, runtime.GOOS)
}
