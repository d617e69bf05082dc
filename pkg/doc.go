// SPDX-License-Identifier: Apache-2.0
// SPDX-FileCopyrightText: Copyright The CipherLite Authors

/*
Package cipherlite provides Go bindings for SQLCipher, an encrypted
embedded SQL engine, through CGO.

The package owns exactly one native connection handle per Connection and
mediates every operation issued against it: open, execute, query-to-text,
rekey, and close. It translates the engine's status-code/error-string
protocol into a structured error taxonomy and handles the C ownership
transfer protocol for dynamically sized result tables. Statement
preparation and binding, typed row decoding, and connection pooling are
the business of higher layers that consume the contracts.IConnection
interface.

# Basic Usage

Open a database and run statements:

	conn, err := cipherlite.EstablishURL(context.Background(), "sqlite://app.db?key=secret", nil)
	if err != nil {
		log.Fatal(err)
	}
	defer conn.Close()

	if err := conn.Exec(context.Background(), "CREATE TABLE t(a, b)"); err != nil {
		log.Fatal(err)
	}
	if err := conn.Exec(context.Background(), "INSERT INTO t VALUES(1, 2)"); err != nil {
		log.Fatal(err)
	}
	fmt.Println(conn.RowsAffected()) // 1

# Connection Strings

Two forms are supported. The URL form carries the passphrase as a query
parameter:

	sqlite://relative/path.db?key=passphrase
	sqlite:///absolute/path.db

The direct form takes a filesystem path and an out-of-band passphrase:

	conn, err := cipherlite.EstablishPath(ctx, "/var/lib/app/app.db", "passphrase", nil)

Absence of a key means no encryption is applied. Malformed connection
strings fail with contracts.ErrInvalidConnectionURL before any native
resource is acquired, and strings containing embedded NUL bytes fail with
a contracts.EncodingError.

Every handle gets a 5000 ms busy timeout immediately after open, so
contention on a locked store blocks-and-retries inside the native layer
instead of failing immediately. Override it through
contracts.ConnectionOptions.

# Result Tables

ExecuteForString renders an entire result table as delimited text for
human inspection or logging, with SQL NULLs as the literal token "NULL":

	text, err := conn.ExecuteForString(ctx, "SELECT a, b FROM t", ",")
	// "1,2\nNULL,4"

QueryArrow returns the same table as an Arrow record of nullable string
columns for programmatic interchange; release it when done:

	rec, err := conn.QueryArrow(ctx, "SELECT a, b FROM t")
	defer rec.Release()

# Re-encryption

Rekey re-encrypts the store under a new passphrase and returns the raw
native status code alongside the translated error:

	code, err := conn.Rekey("new-passphrase")
	if code != contracts.StatusOK {
		log.Fatal(err)
	}

# Error Handling

Failures surface as typed errors from package contracts:
ErrInvalidConnectionURL for malformed connection strings, EncodingError
for embedded NUL bytes, BadConnectionError for open/configure/close
failures, and DatabaseError for statement failures. DatabaseError is
deliberately generic; callers needing constraint/syntax classification can
inspect its Code or the connection's LastErrorCode.

# Resource Safety

Close is idempotent and exactly one native close is issued per handle. Use
MustClose when the owner is in a known-good state and a close failure
should be fatal; a finalizer backstops abandoned connections and logs a
diagnostic instead of escalating.

# Concurrency

A Connection serializes its own operations, but the engine assumes one
logical owner per handle: open one Connection per goroutine or pool above
this layer. Cross-process contention is handled by the engine's own
locking plus the busy timeout. Operations run to completion; cancellation
is not supported.

# Snapshots

Package snapshot ships database files to S3-compatible object storage and
restores them; see its documentation.

# Building

The package links against the system SQLCipher via pkg-config:

	apt-get install libsqlcipher-dev   # Debian/Ubuntu
	brew install sqlcipher             # macOS
*/
package cipherlite
