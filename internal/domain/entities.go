/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package domain defines the records managed by the desk: departments and the
// sellers that belong to them. The types carry no behaviour beyond small helpers.
package domain

import "time"

// Field length limits enforced by the editing forms.
const (
	DepartmentNameMaxLength = 30
	SellerNameMaxLength     = 70
	EmailMaxLength          = 40
)

// Department is the owning side of the relationship.
// A nil ID means the record has not been persisted yet.
type Department struct {
	ID   *int   `json:"id,omitempty"`
	Name string `json:"name"`
}

// IsNew reports whether d has no identity yet.
func (d *Department) IsNew() bool { return d == nil || d.ID == nil }

func (d *Department) String() string {
	if d == nil {
		return ""
	}
	return d.Name
}

// Seller is the member side. Department is a shared reference; a seller never owns it.
type Seller struct {
	ID         *int        `json:"id,omitempty"`
	Name       string      `json:"name"`
	Email      string      `json:"email"`
	BirthDate  *time.Time  `json:"birthDate,omitempty"`
	BaseSalary *float64    `json:"baseSalary,omitempty"`
	Department *Department `json:"department,omitempty"`
}

// IsNew reports whether s has no identity yet.
func (s *Seller) IsNew() bool { return s == nil || s.ID == nil }

func (s *Seller) String() string {
	if s == nil {
		return ""
	}
	return s.Name
}

// SameID reports whether two optional identities are both set and equal.
func SameID(a, b *int) bool { return a != nil && b != nil && *a == *b }

// IntPtr, FloatPtr and DatePtr are conveniences for building records in code and tests.
func IntPtr(v int) *int { return &v }

func FloatPtr(v float64) *float64 { return &v }

// DatePtr returns a pointer to the calendar date y-m-d at midnight UTC.
func DatePtr(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}
