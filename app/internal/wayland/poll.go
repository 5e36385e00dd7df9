// SPDX-License-Identifier: Unlicense OR MIT

package wayland

import (
	"github.com/go-errors/errors"
	syscall "golang.org/x/sys/unix"
)

type pollFunc func(fds []syscall.PollFd, timeout int) (int, error)

// waitReadable flushes the queued requests and blocks until fd has
// events to read. flush returns syscall.EAGAIN when the socket buffer
// is full; the rest of the requests then go out once fd is writable.
func waitReadable(fd int32, flush func() error) error {
	return pollReadable(fd, flush, syscall.Poll)
}

func pollReadable(fd int32, flush func() error, poll pollFunc) error {
	pollfds := []syscall.PollFd{
		{Fd: fd, Events: syscall.POLLIN | syscall.POLLERR},
	}
	dispFd := &pollfds[0]
	for {
		dispFd.Events &^= syscall.POLLOUT
		if err := flush(); err != nil {
			if err != syscall.EAGAIN {
				return err
			}
			dispFd.Events |= syscall.POLLOUT
		}
		dispFd.Revents = 0
		if _, err := poll(pollfds, -1); err != nil {
			if err == syscall.EINTR {
				continue
			}
			return errors.Errorf("wayland: poll failed: %v", err)
		}
		rev := dispFd.Revents
		switch {
		case rev&syscall.POLLIN != 0:
			return nil
		case rev&(syscall.POLLERR|syscall.POLLHUP) != 0:
			return errors.New("wayland: display connection closed")
		}
		// Writable only: flush again.
	}
}
