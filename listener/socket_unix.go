//go:build linux || darwin

package listener

import (
	"net"
	"os"
	"strconv"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

// openSocket creates a bound, listening TCP socket with SO_REUSEADDR set and
// the requested backlog. The returned file owns the descriptor.
func openSocket(address string, port int, backlog int) (*os.File, error) {
	addr, err := net.ResolveTCPAddr("tcp", net.JoinHostPort(address, strconv.Itoa(port)))
	if err != nil {
		return nil, errors.WithStack(err)
	}

	var sa unix.Sockaddr
	fam := unix.AF_INET
	if ip4 := addr.IP.To4(); ip4 != nil || addr.IP == nil {
		var sa4 unix.SockaddrInet4
		if ip4 != nil {
			copy(sa4.Addr[:], ip4)
		}
		sa4.Port = addr.Port
		sa = &sa4
	} else {
		fam = unix.AF_INET6
		var sa6 unix.SockaddrInet6
		copy(sa6.Addr[:], addr.IP.To16())
		sa6.Port = addr.Port
		sa = &sa6
	}

	fd, err := unix.Socket(fam, unix.SOCK_STREAM, 0)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	unix.CloseOnExec(fd)
	if err := unix.SetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_REUSEADDR, 1); err != nil {
		unix.Close(fd)
		return nil, errors.WithStack(err)
	}
	if err := unix.Bind(fd, sa); err != nil {
		unix.Close(fd)
		return nil, errors.WithStack(err)
	}
	if err := unix.Listen(fd, backlog); err != nil {
		unix.Close(fd)
		return nil, errors.WithStack(err)
	}
	return os.NewFile(uintptr(fd), "vampire-listener"), nil
}

// closeOnExec keeps an adopted descriptor from leaking into later children
// other than through ExtraFiles.
func closeOnExec(fd int) {
	unix.CloseOnExec(fd)
}
