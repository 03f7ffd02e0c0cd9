/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package validation collects field-scoped form errors.
package validation

import (
	"fmt"
	"sort"
	"strings"
)

// MsgRequired is reported for required fields left empty.
const MsgRequired = "Field can't be empty."

// Error accumulates field name -> message pairs for one submission attempt.
// An Error with no entries means the input is valid.
type Error struct {
	msg    string
	fields map[string]string
}

// New returns an empty accumulator with a summary message.
func New(msg string) *Error {
	return &Error{msg: msg, fields: make(map[string]string)}
}

// Add records message for field, replacing any earlier message for the same field.
func (e *Error) Add(field, message string) {
	e.fields[field] = message
}

// Errors returns a copy of the collected field errors.
func (e *Error) Errors() map[string]string {
	out := make(map[string]string, len(e.fields))
	for k, v := range e.fields {
		out[k] = v
	}
	return out
}

// Message returns the message for field, or "" when the field is valid.
func (e *Error) Message(field string) string { return e.fields[field] }

func (e *Error) Has(field string) bool {
	_, ok := e.fields[field]
	return ok
}

func (e *Error) Len() int { return len(e.fields) }

func (e *Error) Empty() bool { return len(e.fields) == 0 }

// Fields returns the failing field names in sorted order.
func (e *Error) Fields() []string {
	keys := make([]string, 0, len(e.fields))
	for k := range e.fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (e *Error) Error() string {
	if e.Empty() {
		return e.msg
	}
	parts := make([]string, 0, len(e.fields))
	for _, k := range e.Fields() {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.fields[k]))
	}
	return fmt.Sprintf("%s (%s)", e.msg, strings.Join(parts, "; "))
}

// OrNil returns e when it holds at least one field error and nil otherwise,
// so callers can write `return v.OrNil()` without a typed-nil interface.
func (e *Error) OrNil() error {
	if e == nil || e.Empty() {
		return nil
	}
	return e
}
