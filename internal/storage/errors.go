/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package storage

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// ErrNotFound is wrapped by a DBError when an update targets a missing identity.
var ErrNotFound = errors.New("record not found")

// DBError reports that the backing store was unavailable or rejected an operation.
type DBError struct {
	Op  string
	Err error
}

func (e *DBError) Error() string { return fmt.Sprintf("%s: %v", e.Op, e.Err) }
func (e *DBError) Unwrap() error { return e.Err }

// IntegrityError reports that a referential constraint blocked the operation,
// e.g. removing a department that sellers still reference.
type IntegrityError struct {
	Op  string
	Err error
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("%s: record is still referenced by other records", e.Op)
}
func (e *IntegrityError) Unwrap() error { return e.Err }

// IsIntegrity reports whether err is or wraps an *IntegrityError.
func IsIntegrity(err error) bool {
	var ie *IntegrityError
	return errors.As(err, &ie)
}

// classify wraps a driver error into the package's error taxonomy.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}
	if isForeignKeyViolation(err) {
		return &IntegrityError{Op: op, Err: err}
	}
	return &DBError{Op: op, Err: err}
}

// pgForeignKeyViolation is SQLSTATE foreign_key_violation.
const pgForeignKeyViolation = "23503"

func isForeignKeyViolation(err error) bool {
	var se *sqlite.Error
	if errors.As(err, &se) {
		if se.Code() == sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY {
			return true
		}
		// Without extended result codes only the primary code survives.
		return se.Code()&0xff == sqlite3.SQLITE_CONSTRAINT && strings.Contains(se.Error(), "FOREIGN KEY")
	}
	var pe *pgconn.PgError
	if errors.As(err, &pe) {
		return pe.Code == pgForeignKeyViolation
	}
	return false
}
