// SPDX-License-Identifier: Apache-2.0
// SPDX-FileCopyrightText: Copyright The CipherLite Authors

package tests

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	cipherlite "github.com/cipherlite/cipherlite-go/pkg"
	"github.com/cipherlite/cipherlite-go/pkg/contracts"
)

// setupTestDB creates a temporary database for testing
func setupTestDB(t *testing.T, passphrase string) (contracts.IConnection, string, func()) {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "cipherlite_test")
	if err != nil {
		t.Fatalf("❌Failed to create temp dir: %v", err)
	}

	dbPath := filepath.Join(tmpDir, "test.db")
	conn, err := cipherlite.EstablishPath(context.Background(), dbPath, passphrase, nil)
	if err != nil {
		os.RemoveAll(tmpDir)
		t.Fatalf("❌Failed to establish connection: %v", err)
	}

	cleanup := func() {
		conn.Close()
		os.RemoveAll(tmpDir)
	}

	return conn, dbPath, cleanup
}

func mustExec(t *testing.T, conn contracts.IConnection, statement string) {
	t.Helper()
	if err := conn.Exec(context.Background(), statement); err != nil {
		t.Fatalf("❌Failed to exec %q: %v", statement, err)
	}
}

func TestEstablishWithoutKey(t *testing.T) {
	conn, _, cleanup := setupTestDB(t, "")
	defer cleanup()

	if conn.IsClosed() {
		t.Fatal("❌Connection should not be marked as closed")
	}

	mustExec(t, conn, "CREATE TABLE t(a, b)")
	mustExec(t, conn, "INSERT INTO t VALUES(1, 2)")

	if got := conn.RowsAffected(); got != 1 {
		t.Fatalf("❌Expected 1 row affected, got %d", got)
	}
}

func TestEstablishURLWrongScheme(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "cipherlite_test_scheme")
	if err != nil {
		t.Fatalf("❌Failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tmpDir)

	dbPath := filepath.Join(tmpDir, "wrong_scheme.db")
	_, err = cipherlite.EstablishURL(context.Background(), "postgres://"+dbPath, nil)
	if !errors.Is(err, contracts.ErrInvalidConnectionURL) {
		t.Fatalf("❌Expected ErrInvalidConnectionURL, got %v", err)
	}

	// Validation failed before any native call, so no store was created.
	if _, statErr := os.Stat(dbPath); !os.IsNotExist(statErr) {
		t.Fatalf("❌Database file should not exist after failed validation: %v", statErr)
	}
}

func TestEstablishEmbeddedNULPassphrase(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "cipherlite_test_nul")
	if err != nil {
		t.Fatalf("❌Failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tmpDir)

	dbPath := filepath.Join(tmpDir, "nul_key.db")
	_, err = cipherlite.EstablishPath(context.Background(), dbPath, "bad\x00key", nil)

	var encErr *contracts.EncodingError
	if !errors.As(err, &encErr) {
		t.Fatalf("❌Expected EncodingError, got %v", err)
	}

	// The encoding check precedes the native open, so no file appeared.
	if _, statErr := os.Stat(dbPath); !os.IsNotExist(statErr) {
		t.Fatalf("❌Database file should not exist after encoding failure: %v", statErr)
	}
}

func TestEstablishURLWithKey(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "cipherlite_test_key")
	if err != nil {
		t.Fatalf("❌Failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tmpDir)

	dbPath := filepath.Join(tmpDir, "encrypted.db")
	url := "sqlite://" + dbPath + "?key=hunter2"

	conn, err := cipherlite.EstablishURL(context.Background(), url, nil)
	if err != nil {
		t.Fatalf("❌Failed to establish encrypted connection: %v", err)
	}
	mustExec(t, conn, "CREATE TABLE secrets(v)")
	mustExec(t, conn, "INSERT INTO secrets VALUES('classified')")
	if err := conn.Close(); err != nil {
		t.Fatalf("❌Failed to close: %v", err)
	}

	// Wrong key: the open itself succeeds, the first read fails.
	wrong, err := cipherlite.EstablishURL(context.Background(), "sqlite://"+dbPath+"?key=wrong", nil)
	if err != nil {
		t.Fatalf("❌Establish with wrong key should defer failure to first read: %v", err)
	}
	defer wrong.Close()
	if err := wrong.Exec(context.Background(), "SELECT count(*) FROM secrets"); err == nil {
		t.Fatal("❌Expected read with wrong key to fail")
	}

	// Right key round-trips.
	again, err := cipherlite.EstablishURL(context.Background(), url, nil)
	if err != nil {
		t.Fatalf("❌Failed to reopen with correct key: %v", err)
	}
	defer again.Close()

	text, err := again.ExecuteForString(context.Background(), "SELECT v FROM secrets", ",")
	if err != nil {
		t.Fatalf("❌Failed to read back: %v", err)
	}
	if text != "classified" {
		t.Fatalf("❌Expected 'classified', got %q", text)
	}
}

func TestExecSyntaxError(t *testing.T) {
	conn, _, cleanup := setupTestDB(t, "")
	defer cleanup()

	err := conn.Exec(context.Background(), "SELEC not sql")
	var dbErr *contracts.DatabaseError
	if !errors.As(err, &dbErr) {
		t.Fatalf("❌Expected DatabaseError, got %v", err)
	}
	if dbErr.Message == "" {
		t.Fatal("❌Expected a non-empty native error message")
	}

	if conn.LastErrorMessage() == "" {
		t.Fatal("❌Expected LastErrorMessage to reflect the failure")
	}
	if contracts.PrimaryStatus(conn.LastErrorCode()) == contracts.StatusOK {
		t.Fatal("❌Expected LastErrorCode to be non-OK after a failure")
	}
}

func TestExecuteForStringRendersNulls(t *testing.T) {
	conn, _, cleanup := setupTestDB(t, "")
	defer cleanup()

	mustExec(t, conn, "CREATE TABLE t(a, b)")
	mustExec(t, conn, "INSERT INTO t VALUES(1, 2)")
	mustExec(t, conn, "INSERT INTO t VALUES(NULL, 4)")

	text, err := conn.ExecuteForString(context.Background(), "SELECT a, b FROM t ORDER BY b", ",")
	if err != nil {
		t.Fatalf("❌Failed to dump table: %v", err)
	}
	if text != "1,2\nNULL,4" {
		t.Fatalf("❌Expected \"1,2\\nNULL,4\", got %q", text)
	}
}

func TestExecuteForStringDistinguishesEmptyString(t *testing.T) {
	conn, _, cleanup := setupTestDB(t, "")
	defer cleanup()

	mustExec(t, conn, "CREATE TABLE t(a, b)")
	mustExec(t, conn, "INSERT INTO t VALUES('', 5)")
	mustExec(t, conn, "INSERT INTO t VALUES(NULL, 6)")

	text, err := conn.ExecuteForString(context.Background(), "SELECT a, b FROM t ORDER BY b", "|")
	if err != nil {
		t.Fatalf("❌Failed to dump table: %v", err)
	}
	if text != "|5\nNULL|6" {
		t.Fatalf("❌Empty string and NULL must not collapse, got %q", text)
	}
}

func TestExecuteForStringEmptyResult(t *testing.T) {
	conn, _, cleanup := setupTestDB(t, "")
	defer cleanup()

	mustExec(t, conn, "CREATE TABLE t(a)")

	text, err := conn.ExecuteForString(context.Background(), "SELECT a FROM t", ",")
	if err != nil {
		t.Fatalf("❌Failed to dump empty table: %v", err)
	}
	if text != "" {
		t.Fatalf("❌Expected empty dump, got %q", text)
	}
}

func TestExecuteForStringSyntaxError(t *testing.T) {
	conn, _, cleanup := setupTestDB(t, "")
	defer cleanup()

	_, err := conn.ExecuteForString(context.Background(), "SELECT FROM nothing", ",")
	var dbErr *contracts.DatabaseError
	if !errors.As(err, &dbErr) {
		t.Fatalf("❌Expected DatabaseError, got %v", err)
	}
	if dbErr.Message == "" {
		t.Fatal("❌Expected a non-empty native error message")
	}
}

func TestRekeyRoundTrip(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "cipherlite_test_rekey")
	if err != nil {
		t.Fatalf("❌Failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tmpDir)

	dbPath := filepath.Join(tmpDir, "rekey.db")
	conn, err := cipherlite.EstablishPath(context.Background(), dbPath, "old-key", nil)
	if err != nil {
		t.Fatalf("❌Failed to establish: %v", err)
	}
	mustExec(t, conn, "CREATE TABLE t(v)")
	mustExec(t, conn, "INSERT INTO t VALUES(42)")

	code, err := conn.Rekey("new-key")
	if err != nil {
		t.Fatalf("❌Rekey failed: %v", err)
	}
	if code != contracts.StatusOK {
		t.Fatalf("❌Expected StatusOK from rekey, got %d", code)
	}
	if err := conn.Close(); err != nil {
		t.Fatalf("❌Failed to close: %v", err)
	}

	reopened, err := cipherlite.EstablishPath(context.Background(), dbPath, "new-key", nil)
	if err != nil {
		t.Fatalf("❌Failed to reopen under new key: %v", err)
	}
	defer reopened.Close()

	text, err := reopened.ExecuteForString(context.Background(), "SELECT v FROM t", ",")
	if err != nil {
		t.Fatalf("❌Failed to read back after rekey: %v", err)
	}
	if text != "42" {
		t.Fatalf("❌Expected \"42\", got %q", text)
	}
}

func TestRekeyEmbeddedNUL(t *testing.T) {
	conn, _, cleanup := setupTestDB(t, "initial")
	defer cleanup()

	_, err := conn.Rekey("bad\x00key")
	var encErr *contracts.EncodingError
	if !errors.As(err, &encErr) {
		t.Fatalf("❌Expected EncodingError, got %v", err)
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	conn, _, cleanup := setupTestDB(t, "")
	defer cleanup()

	if err := conn.Close(); err != nil {
		t.Fatalf("❌First close failed: %v", err)
	}
	if !conn.IsClosed() {
		t.Fatal("❌Connection should report closed")
	}
	if err := conn.Close(); err != nil {
		t.Fatalf("❌Second close should be a no-op, got %v", err)
	}

	err := conn.Exec(context.Background(), "SELECT 1")
	var badConn *contracts.BadConnectionError
	if !errors.As(err, &badConn) {
		t.Fatalf("❌Expected BadConnectionError on closed handle, got %v", err)
	}
}

func TestMustCloseOnHealthyHandle(t *testing.T) {
	conn, _, cleanup := setupTestDB(t, "")
	defer cleanup()

	// A healthy handle closes without panicking.
	conn.MustClose()
	if !conn.IsClosed() {
		t.Fatal("❌Connection should report closed after MustClose")
	}
}
