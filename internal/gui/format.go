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
	"strconv"
	"strings"
	"time"
)

// DateLayout is the day/month/year layout used by the forms and tables.
const DateLayout = "02/01/2006"

// FormatID renders an optional identity, empty when absent.
func FormatID(id *int) string {
	if id == nil {
		return ""
	}
	return strconv.Itoa(*id)
}

// FormatSalary renders a salary with two decimals and a dot separator regardless of locale.
func FormatSalary(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', 2, 64)
}

// FormatDate renders an optional calendar date as dd/mm/yyyy.
func FormatDate(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.Format(DateLayout)
}

// TryParseInt returns nil when s is not an integer.
func TryParseInt(s string) *int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return nil
	}
	return &n
}

// TryParseFloat returns nil when s is not a finite decimal number.
func TryParseFloat(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &f
}

// TryParseDate returns nil when s is not a dd/mm/yyyy date.
func TryParseDate(s string) *time.Time {
	t, err := time.ParseInLocation(DateLayout, strings.TrimSpace(s), time.UTC)
	if err != nil {
		return nil
	}
	return &t
}

func blank(s string) bool { return strings.TrimSpace(s) == "" }
