// SPDX-License-Identifier: Apache-2.0
// SPDX-FileCopyrightText: Copyright The CipherLite Authors

package contracts

import (
	"errors"
	"fmt"
)

// ErrInvalidConnectionURL is returned when a connection string fails
// syntactic validation (wrong scheme, unparsable URL). It is always
// reported before any native resource is touched.
var ErrInvalidConnectionURL = errors.New("invalid connection URL")

// EncodingError indicates a string destined for the native layer contains
// an embedded NUL byte, which the C string convention cannot represent.
// Construction fails before any native call is attempted.
type EncodingError struct {
	// Field names the offending value (path, passphrase, statement).
	Field string
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("%s contains an embedded NUL byte", e.Field)
}

// BadConnectionError is returned when a native open, configure, or close
// call reports a non-OK status. Message carries the native error text,
// copied into Go-owned memory before any native buffer is released.
type BadConnectionError struct {
	Code    int
	Message string
}

func (e *BadConnectionError) Error() string {
	return fmt.Sprintf("bad connection: %s (code %d)", e.Message, e.Code)
}

// DatabaseError is returned when statement execution or a table query
// fails. The kind is deliberately generic: this layer does not classify
// constraint violations, syntax errors, and so on. Callers that need the
// distinction can inspect Code, which holds the native extended error code.
type DatabaseError struct {
	Code    int
	Message string
}

func (e *DatabaseError) Error() string {
	return fmt.Sprintf("database error: %s (code %d)", e.Message, e.Code)
}
