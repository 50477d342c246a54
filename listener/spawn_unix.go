//go:build linux || darwin

package listener

import "syscall"

// detached places the successor in its own process group so it is not
// signalled along with the exiting generation.
func detached() *syscall.SysProcAttr {
	return &syscall.SysProcAttr{Setpgid: true}
}
