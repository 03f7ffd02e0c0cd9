/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package gui

import (
	"regexp"
	"unicode/utf8"
)

// Constraint filters an edit: given the previous and proposed text it returns
// the text the field should hold.
type Constraint func(prev, next string) string

var (
	integerInput = regexp.MustCompile(`^\d*$`)
	decimalInput = regexp.MustCompile(`^\d*(\.\d*)?$`)
)

// IntegerOnly rejects edits that introduce anything but digits.
func IntegerOnly(prev, next string) string {
	if integerInput.MatchString(next) {
		return next
	}
	return prev
}

// DecimalOnly accepts digits with at most one decimal point.
func DecimalOnly(prev, next string) string {
	if decimalInput.MatchString(next) {
		return next
	}
	return prev
}

// MaxLength rejects edits that grow the text beyond n characters.
func MaxLength(n int) Constraint {
	return func(prev, next string) string {
		if utf8.RuneCountInString(next) > n {
			return prev
		}
		return next
	}
}

// Chain applies constraints in order.
func Chain(cs ...Constraint) Constraint {
	return func(prev, next string) string {
		for _, c := range cs {
			next = c(prev, next)
		}
		return next
	}
}
