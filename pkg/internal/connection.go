// SPDX-License-Identifier: Apache-2.0
// SPDX-FileCopyrightText: Copyright The CipherLite Authors

package internal

/*
#cgo pkg-config: sqlcipher
#cgo CFLAGS: -DSQLITE_HAS_CODEC
#include <sqlite3.h>
#include <stdlib.h>
*/
import "C"

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"unsafe"

	"github.com/cipherlite/cipherlite-go/pkg/contracts"
)

// Connection is the exclusive owner of one native database handle. All
// operations on the handle go through it, and exactly one native close is
// issued per handle, on whichever exit path runs first.
type Connection struct {
	handle *C.sqlite3
	path   string
	mu     sync.Mutex
	closed bool
}

var _ contracts.IConnection = (*Connection)(nil)

// Open opens a native handle against the target's path, sets the busy
// timeout, and applies the passphrase if one is present — in that order.
// Encoding validation runs before any native call, and any non-OK status
// closes the partially configured handle before returning, so a failed
// establishment never leaks a handle.
func Open(target contracts.ConnectionTarget, options *contracts.ConnectionOptions) (*Connection, error) {
	cPath, err := cString(target.Path, "database path")
	if err != nil {
		return nil, err
	}
	defer C.free(unsafe.Pointer(cPath))

	passphrase, hasKey := options.EffectivePassphrase(target)
	var cKey *C.char
	if hasKey {
		cKey, err = cString(passphrase, "passphrase")
		if err != nil {
			return nil, err
		}
		defer C.free(unsafe.Pointer(cKey))
	}

	var handle *C.sqlite3
	rc := C.sqlite3_open(cPath, &handle)
	if rc != C.SQLITE_OK {
		err := connError(rc, lastErrorMessage(handle))
		if handle != nil {
			C.sqlite3_close(handle)
		}
		return nil, err
	}

	// The timeout must be in place before any other operation so that
	// contention on a locked store blocks-and-retries instead of failing.
	rc = C.sqlite3_busy_timeout(handle, C.int(options.EffectiveBusyTimeout()))
	if rc != C.SQLITE_OK {
		err := connError(rc, lastErrorMessage(handle))
		C.sqlite3_close(handle)
		return nil, err
	}

	if hasKey {
		// Length includes the terminator, matching the engine's
		// passphrase convention.
		rc = C.sqlite3_key(handle, unsafe.Pointer(cKey), C.int(len(passphrase)+1))
		if rc != C.SQLITE_OK {
			err := connError(rc, lastErrorMessage(handle))
			C.sqlite3_close(handle)
			return nil, err
		}
	}

	conn := &Connection{handle: handle, path: target.Path}

	// Backstop for abandoned connections; Close clears it.
	runtime.SetFinalizer(conn, (*Connection).closeAbandoned)

	return conn, nil
}

// Exec submits a statement with no result-set callback. The authoritative
// success signal is the absence of a native error message, not a status
// comparison.
func (c *Connection) Exec(_ context.Context, statement string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed || c.handle == nil {
		return errClosed()
	}

	cSQL, err := cString(statement, "statement")
	if err != nil {
		return err
	}
	defer C.free(unsafe.Pointer(cSQL))

	var errMsg *C.char
	C.sqlite3_exec(c.handle, cSQL, nil, nil, &errMsg)
	if errMsg != nil {
		message := copyAndFreeErrorMessage(errMsg)
		return queryError(C.sqlite3_extended_errcode(c.handle), message)
	}

	return nil
}

// RowsAffected returns the native change counter for the most recent
// statement on this handle.
func (c *Connection) RowsAffected() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed || c.handle == nil {
		return 0
	}
	return int64(C.sqlite3_changes(c.handle))
}

// LastErrorMessage returns the handle's current error message.
func (c *Connection) LastErrorMessage() string {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed || c.handle == nil {
		return ""
	}
	return lastErrorMessage(c.handle)
}

// LastErrorCode returns the handle's current extended error code.
func (c *Connection) LastErrorCode() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed || c.handle == nil {
		return contracts.StatusMisuse
	}
	return int(C.sqlite3_extended_errcode(c.handle))
}

// Rekey re-encrypts the store under a new passphrase. The raw status code
// is returned alongside the translated error; StatusOK means success.
func (c *Connection) Rekey(passphrase string) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed || c.handle == nil {
		return contracts.StatusMisuse, errClosed()
	}

	cKey, err := cString(passphrase, "passphrase")
	if err != nil {
		return contracts.StatusMisuse, err
	}
	defer C.free(unsafe.Pointer(cKey))

	rc := C.sqlite3_rekey(c.handle, unsafe.Pointer(cKey), C.int(len(passphrase)+1))
	if rc != C.SQLITE_OK {
		return int(rc), queryError(rc, lastErrorMessage(c.handle))
	}

	return int(rc), nil
}

// Close releases the native handle. It is idempotent: the first call
// issues the one native close, later calls return nil.
func (c *Connection) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closeLocked()
}

func (c *Connection) closeLocked() error {
	if c.closed || c.handle == nil {
		return nil
	}

	rc := C.sqlite3_close(c.handle)
	c.handle = nil
	c.closed = true
	runtime.SetFinalizer(c, nil)

	if rc != C.SQLITE_OK {
		return connError(rc, "")
	}
	return nil
}

// MustClose closes the connection and panics if the native layer refuses.
// A handle that will not close means in-flight native resources leaked
// (unfinalized statements, open transactions), which is unrecoverable for
// an owner in an otherwise healthy state. Owners already handling a
// failure should call Close and treat the error as a diagnostic instead.
func (c *Connection) MustClose() {
	if err := c.Close(); err != nil {
		panic(fmt.Sprintf("cipherlite: closing connection to %s: %v", c.path, err))
	}
}

// closeAbandoned runs as a finalizer when a connection is dropped without
// Close. The program may be tearing down for unrelated reasons, so a close
// failure here is reported, never escalated.
func (c *Connection) closeAbandoned() {
	if err := c.Close(); err != nil {
		slog.Error("abandoned connection failed to close",
			"path", c.path,
			"error", err,
		)
	}
}

// IsClosed reports whether the native handle has been released.
func (c *Connection) IsClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// Path returns the filesystem path of the underlying store.
func (c *Connection) Path() string {
	return c.path
}

func lastErrorMessage(handle *C.sqlite3) string {
	if handle == nil {
		return ""
	}
	return C.GoString(C.sqlite3_errmsg(handle))
}

func errClosed() error {
	return &contracts.BadConnectionError{
		Code:    contracts.StatusMisuse,
		Message: "connection is closed",
	}
}
