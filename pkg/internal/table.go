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
	"strings"
	"unsafe"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/array"
	"github.com/apache/arrow/go/v17/arrow/memory"
)

// nullToken is emitted for SQL NULL cells in text dumps. A NULL cell and
// an empty string must never collapse to the same output.
const nullToken = "NULL"

// ExecuteForString runs a statement that produces a full in-memory result
// table and renders it as text: cells joined with delimiter, rows joined
// with newlines. The native table allocation is released exactly once,
// after every cell has been copied into Go-owned strings.
func (c *Connection) ExecuteForString(_ context.Context, statement, delimiter string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed || c.handle == nil {
		return "", errClosed()
	}

	table, rows, cols, err := c.fetchTableLocked(statement)
	if err != nil {
		return "", err
	}
	if table == nil {
		return "", nil
	}
	defer C.sqlite3_free_table(table)

	if rows == 0 || cols == 0 {
		return "", nil
	}

	cells := tableCells(table, rows, cols)
	width := int(cols)

	var out strings.Builder
	for row := 1; row <= int(rows); row++ {
		if row > 1 {
			out.WriteByte('\n')
		}
		for col := 0; col < width; col++ {
			if col > 0 {
				out.WriteString(delimiter)
			}
			cell := cells[row*width+col]
			if cell == nil {
				out.WriteString(nullToken)
			} else {
				out.WriteString(C.GoString(cell))
			}
		}
	}

	return out.String(), nil
}

// QueryArrow runs a statement and returns the result table as an Arrow
// record: the header row supplies the field names, data rows become
// nullable string columns, and SQL NULLs stay null through the validity
// bitmap rather than the text token. The caller must Release the record.
func (c *Connection) QueryArrow(_ context.Context, statement string) (arrow.Record, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed || c.handle == nil {
		return nil, errClosed()
	}

	table, rows, cols, err := c.fetchTableLocked(statement)
	if err != nil {
		return nil, err
	}
	if table != nil {
		defer C.sqlite3_free_table(table)
	}

	width := int(cols)
	if width == 0 || table == nil {
		schema := arrow.NewSchema([]arrow.Field{}, nil)
		return array.NewRecord(schema, []arrow.Array{}, 0), nil
	}

	cells := tableCells(table, rows, cols)

	fields := make([]arrow.Field, width)
	for col := 0; col < width; col++ {
		name := ""
		if cells[col] != nil {
			name = C.GoString(cells[col])
		}
		fields[col] = arrow.Field{Name: name, Type: arrow.BinaryTypes.String, Nullable: true}
	}
	schema := arrow.NewSchema(fields, nil)

	builder := array.NewRecordBuilder(memory.NewGoAllocator(), schema)
	defer builder.Release()

	for row := 1; row <= int(rows); row++ {
		for col := 0; col < width; col++ {
			fb := builder.Field(col).(*array.StringBuilder)
			cell := cells[row*width+col]
			if cell == nil {
				fb.AppendNull()
			} else {
				fb.Append(C.GoString(cell))
			}
		}
	}

	return builder.NewRecord(), nil
}

// fetchTableLocked issues the native get-full-table call. On a native
// error the one-shot message buffer is copied and freed and the table
// pointer is never touched; it may not be valid. The caller owns the
// returned table and must free it exactly once. c.mu must be held.
func (c *Connection) fetchTableLocked(statement string) (**C.char, C.int, C.int, error) {
	cSQL, err := cString(statement, "statement")
	if err != nil {
		return nil, 0, 0, err
	}
	defer C.free(unsafe.Pointer(cSQL))

	var table **C.char
	var rows, cols C.int
	var errMsg *C.char
	C.sqlite3_get_table(c.handle, cSQL, &table, &rows, &cols, &errMsg)
	if errMsg != nil {
		message := copyAndFreeErrorMessage(errMsg)
		return nil, 0, 0, queryError(C.sqlite3_extended_errcode(c.handle), message)
	}

	return table, rows, cols, nil
}

// tableCells views the native flat array as a bounded Go slice. The array
// physically holds (rows+1)*cols entries; row 0 is the header, data rows
// run 1..rows.
func tableCells(table **C.char, rows, cols C.int) []*C.char {
	total := int(rows+1) * int(cols)
	// #nosec G103 - bounded view over a C array with known extent
	return (*[1 << 28]*C.char)(unsafe.Pointer(table))[:total:total]
}
