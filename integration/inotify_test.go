// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package integration_test

import (
	"context"
	"encoding/binary"
	"fmt"

	"golang.org/x/sys/unix"
)

// creationWatcher records, in kernel order, the names of entries created
// directly inside one directory.
type creationWatcher struct {
	fd int
}

// watchCreations starts watching directory. The caller must Close the
// watcher.
func watchCreations(directory string) (*creationWatcher, error) {
	fd, err := unix.InotifyInit1(unix.IN_CLOEXEC | unix.IN_NONBLOCK)
	if err != nil {
		return nil, fmt.Errorf("inotify_init1: %w (check fs.inotify.max_user_instances)", err)
	}
	// IN_CREATE covers mkdir(2) and open(2) with O_CREAT.
	if _, err := unix.InotifyAddWatch(fd, directory, unix.IN_CREATE); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("inotify_add_watch %s: %w", directory, err)
	}
	return &creationWatcher{fd: fd}, nil
}

// Close releases the inotify descriptor.
func (w *creationWatcher) Close() error {
	return unix.Close(w.fd)
}

// Collect reads creation events until done is closed or receives, then
// drains what is already queued and returns every name seen. Uses poll(2)
// with a 100ms timeout between checks.
func (w *creationWatcher) Collect(ctx context.Context, done <-chan struct{}) ([]string, error) {
	buffer := make([]byte, 4096)
	pollFds := []unix.PollFd{{Fd: int32(w.fd), Events: unix.POLLIN}}
	var names []string
	finishing := false

	for {
		if err := ctx.Err(); err != nil {
			return names, err
		}

		timeout := 100
		if finishing {
			timeout = 0
		}
		readyCount, err := unix.Poll(pollFds, timeout)
		if err != nil {
			if err == unix.EINTR {
				continue
			}
			return names, fmt.Errorf("poll: %w", err)
		}

		if readyCount > 0 {
			bytesRead, err := unix.Read(w.fd, buffer)
			if err != nil && err != unix.EAGAIN {
				return names, fmt.Errorf("read: %w", err)
			}
			if bytesRead > 0 {
				names = append(names, inotifyEventNames(buffer[:bytesRead])...)
				continue
			}
		}

		if finishing {
			return names, nil
		}
		select {
		case <-done:
			finishing = true
		default:
		}
	}
}

// inotifyEventNames parses raw inotify events from a read buffer and
// returns the filename of each, in order.
//
// The inotify_event struct layout (all little-endian):
//
//	offset  0: int32  wd      (watch descriptor)
//	offset  4: uint32 mask    (event type bitmask)
//	offset  8: uint32 cookie  (for rename pairing)
//	offset 12: uint32 len     (name length including null padding)
//	offset 16: []byte name    (null-terminated, padded to alignment)
func inotifyEventNames(buffer []byte) []string {
	var names []string
	offset := 0
	for offset+unix.SizeofInotifyEvent <= len(buffer) {
		nameLength := binary.LittleEndian.Uint32(buffer[offset+12 : offset+16])
		eventEnd := offset + unix.SizeofInotifyEvent + int(nameLength)
		if eventEnd > len(buffer) {
			break
		}
		if nameLength > 0 {
			names = append(names, nullTerminatedString(buffer[offset+unix.SizeofInotifyEvent:eventEnd]))
		}
		offset = eventEnd
	}
	return names
}

// nullTerminatedString extracts a Go string from a null-padded byte slice,
// stopping at the first null byte.
func nullTerminatedString(data []byte) string {
	for i, b := range data {
		if b == 0 {
			return string(data[:i])
		}
	}
	return string(data)
}
