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
	"strings"
	"unsafe"

	"github.com/cipherlite/cipherlite-go/pkg/contracts"
)

// connError translates a non-OK status from an open, configure, or close
// call. An empty message falls back to the engine's generic text for the
// code, since a failed open may leave no handle to ask.
func connError(code C.int, message string) error {
	if message == "" {
		message = C.GoString(C.sqlite3_errstr(code))
	}
	return &contracts.BadConnectionError{Code: int(code), Message: message}
}

// queryError translates a statement or table-query failure. The message
// must already be Go-owned: callers copy it out of any native buffer
// before freeing, because the free invalidates the pointer.
func queryError(code C.int, message string) error {
	if message == "" {
		message = C.GoString(C.sqlite3_errstr(code))
	}
	return &contracts.DatabaseError{Code: int(code), Message: message}
}

// copyAndFreeErrorMessage drains a one-shot native error buffer, as handed
// out by sqlite3_exec and sqlite3_get_table. The copy happens strictly
// before the free.
func copyAndFreeErrorMessage(errMsg *C.char) string {
	message := C.GoString(errMsg)
	C.sqlite3_free(unsafe.Pointer(errMsg))
	return message
}

// cString encodes a Go string for the native layer. Embedded NUL bytes
// cannot cross the C boundary, so they fail here, before any native call.
// The caller frees the returned pointer.
func cString(s, field string) (*C.char, error) {
	if strings.ContainsRune(s, 0) {
		return nil, &contracts.EncodingError{Field: field}
	}
	return C.CString(s), nil
}
