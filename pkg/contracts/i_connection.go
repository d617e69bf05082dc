package contracts

import (
	"context"

	"github.com/apache/arrow/go/v17/arrow"
)

// IConnection is the surface higher layers (pooling, statement builders,
// typed row decoding) consume. Implementations own exactly one native
// handle and mediate every operation issued against it.
type IConnection interface {
	// Exec submits a statement with no result-set callback. Success is
	// exactly "the native layer produced no error message".
	Exec(ctx context.Context, statement string) error

	// ExecuteForString runs a statement that produces a full in-memory
	// result table and returns it as delimiter-joined, newline-separated
	// text. SQL NULLs render as the literal token "NULL".
	ExecuteForString(ctx context.Context, statement, delimiter string) (string, error)

	// QueryArrow runs a statement and returns the result table as an
	// Arrow record of nullable string columns, named from the header row.
	// The caller must Release the record.
	QueryArrow(ctx context.Context, statement string) (arrow.Record, error)

	// RowsAffected returns the native change counter for the most recent
	// statement on this handle. It has no error path.
	RowsAffected() int64

	// LastErrorMessage and LastErrorCode reflect the handle's current
	// error state, for diagnostics after a generic failure.
	LastErrorMessage() string
	LastErrorCode() int

	// Rekey re-encrypts the store under a new passphrase. It returns the
	// raw native status code alongside the translated error so callers
	// comparing against StatusOK keep working.
	Rekey(passphrase string) (int, error)

	// Close releases the native handle. It is idempotent; exactly one
	// native close is issued per handle.
	Close() error

	// MustClose closes the connection and panics on failure. A handle
	// that refuses to close indicates an unrecoverable leak of in-flight
	// native resources (unfinalized statements, open transactions).
	MustClose()

	IsClosed() bool

	// Path returns the filesystem path of the underlying store.
	Path() string
}
