/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package exchange moves departments and sellers in and out of the store as a
// versioned JSON snapshot. Imports are validated against an embedded JSON Schema
// before anything is written.
package exchange

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"

	gojsonschema "github.com/xeipuuv/gojsonschema"

	"gosalesdesk/internal/domain"
	applog "gosalesdesk/internal/log"
	"gosalesdesk/internal/storage"
)

// FormatVersion is the snapshot version written by Export.
const FormatVersion = 1

const dateLayout = "2006-01-02"

//go:embed schema/snapshot.schema.json
var schemaJSON []byte

// Store is the subset of a data access object the exchange needs.
type Store[T any] interface {
	FindAll(ctx context.Context) ([]T, error)
	SaveOrUpdate(ctx context.Context, entity T) (T, error)
}

// Stores groups the two stores a snapshot touches.
type Stores struct {
	Departments Store[domain.Department]
	Sellers     Store[domain.Seller]
}

// Snapshot is the on-disk document.
type Snapshot struct {
	Version     int            `json:"version"`
	App         string         `json:"app,omitempty"`
	ExportedAt  string         `json:"exportedAt,omitempty"`
	Departments []Department   `json:"departments"`
	Sellers     []SellerRecord `json:"sellers"`
}

type Department struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// SellerRecord references its department by id.
type SellerRecord struct {
	ID           int     `json:"id,omitempty"`
	Name         string  `json:"name"`
	Email        string  `json:"email"`
	BirthDate    string  `json:"birthDate"`
	BaseSalary   float64 `json:"baseSalary"`
	DepartmentID *int    `json:"departmentId"`
}

// SchemaError lists every schema violation found in an import document.
type SchemaError struct {
	Problems []string
}

func (e *SchemaError) Error() string {
	return "snapshot does not conform to schema: " + strings.Join(e.Problems, "; ")
}

// Result counts the records an import created.
type Result struct {
	Departments int
	Sellers     int
}

// Build reads every record from the stores into a snapshot.
func Build(ctx context.Context, s Stores) (Snapshot, error) {
	deps, err := s.Departments.FindAll(ctx)
	if err != nil {
		return Snapshot{}, fmt.Errorf("read departments: %w", err)
	}
	sellers, err := s.Sellers.FindAll(ctx)
	if err != nil {
		return Snapshot{}, fmt.Errorf("read sellers: %w", err)
	}
	snap := Snapshot{
		Version:     FormatVersion,
		App:         "gosalesdesk",
		ExportedAt:  time.Now().UTC().Format(time.RFC3339),
		Departments: make([]Department, 0, len(deps)),
		Sellers:     make([]SellerRecord, 0, len(sellers)),
	}
	for _, d := range deps {
		if d.ID == nil {
			continue
		}
		snap.Departments = append(snap.Departments, Department{ID: *d.ID, Name: d.Name})
	}
	for _, sl := range sellers {
		rec := SellerRecord{Name: sl.Name, Email: sl.Email}
		if sl.ID != nil {
			rec.ID = *sl.ID
		}
		if sl.BirthDate != nil {
			rec.BirthDate = sl.BirthDate.Format(dateLayout)
		}
		if sl.BaseSalary != nil {
			rec.BaseSalary = *sl.BaseSalary
		}
		if sl.Department != nil && sl.Department.ID != nil {
			rec.DepartmentID = domain.IntPtr(*sl.Department.ID)
		}
		snap.Sellers = append(snap.Sellers, rec)
	}
	return snap, nil
}

// Export writes the current store contents as indented JSON.
func Export(ctx context.Context, s Stores, w io.Writer) error {
	snap, err := Build(ctx, s)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(snap); err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	applog.WithComponent("exchange").Info("snapshot exported",
		slog.Int("departments", len(snap.Departments)), slog.Int("sellers", len(snap.Sellers)))
	return nil
}

// ExportFile writes the snapshot to path through a temp file and rename, so a
// failed export never leaves a truncated file behind.
func ExportFile(ctx context.Context, s Stores, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("ensure out dir: %w", err)
	}
	temp := filepath.Join(dir, fmt.Sprintf(".%s.tmp-%d-%d", filepath.Base(path), os.Getpid(), rand.Int()))
	f, err := os.OpenFile(temp, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("create temp snapshot: %w", err)
	}
	if err := Export(ctx, s, f); err != nil {
		_ = f.Close()
		_ = os.Remove(temp)
		return err
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		_ = os.Remove(temp)
		return fmt.Errorf("sync snapshot: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(temp)
		return fmt.Errorf("close snapshot: %w", err)
	}
	if err := os.Rename(temp, path); err != nil {
		_ = os.Remove(temp)
		return fmt.Errorf("replace snapshot: %w", err)
	}
	return nil
}

// Validate checks data against the embedded snapshot schema.
func Validate(data []byte) error {
	result, err := gojsonschema.Validate(gojsonschema.NewBytesLoader(schemaJSON), gojsonschema.NewBytesLoader(data))
	if err != nil {
		return fmt.Errorf("schema validate: %w", err)
	}
	if result.Valid() {
		return nil
	}
	se := &SchemaError{}
	for _, e := range result.Errors() {
		se.Problems = append(se.Problems, e.String())
	}
	return se
}

// Decode validates and parses a snapshot, and checks seller references.
func Decode(data []byte) (Snapshot, error) {
	if err := Validate(data); err != nil {
		return Snapshot{}, err
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return Snapshot{}, fmt.Errorf("decode snapshot: %w", err)
	}
	known := make(map[int]bool, len(snap.Departments))
	for _, d := range snap.Departments {
		if known[d.ID] {
			return Snapshot{}, fmt.Errorf("duplicate department id %d", d.ID)
		}
		known[d.ID] = true
	}
	for i, s := range snap.Sellers {
		if s.DepartmentID != nil && !known[*s.DepartmentID] {
			return Snapshot{}, fmt.Errorf("seller %d (%s) references unknown department %d", i, s.Name, *s.DepartmentID)
		}
		if _, err := time.Parse(dateLayout, s.BirthDate); err != nil {
			return Snapshot{}, fmt.Errorf("seller %d (%s): %w", i, s.Name, err)
		}
	}
	return snap, nil
}

// Tx runs fn with stores whose writes are committed together or not at all.
type Tx func(ctx context.Context, fn func(Stores) error) error

// StorageTx scopes an import to one database transaction.
func StorageTx(db *storage.DB) Tx {
	return func(ctx context.Context, fn func(Stores) error) error {
		return db.WithTx(ctx, func(deps *storage.DepartmentDAO, sellers *storage.SellerDAO) error {
			return fn(Stores{Departments: deps, Sellers: sellers})
		})
	}
}

// Import creates every record of the snapshot as a new row inside one
// transaction. Departments are created first; seller references are remapped
// to the new identities. On any failure nothing is kept and the result is zero.
func Import(ctx context.Context, tx Tx, r io.Reader) (Result, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Result{}, fmt.Errorf("read snapshot: %w", err)
	}
	snap, err := Decode(data)
	if err != nil {
		return Result{}, err
	}
	if tx == nil {
		return Result{}, errors.New("import needs a transaction scope")
	}

	var res Result
	err = tx(ctx, func(s Stores) error {
		res = Result{}
		if s.Departments == nil || s.Sellers == nil {
			return errors.New("import needs both stores")
		}
		ids := make(map[int]domain.Department, len(snap.Departments))
		for _, d := range snap.Departments {
			saved, err := s.Departments.SaveOrUpdate(ctx, domain.Department{Name: d.Name})
			if err != nil {
				return fmt.Errorf("create department %q: %w", d.Name, err)
			}
			ids[d.ID] = saved
			res.Departments++
		}
		for _, rec := range snap.Sellers {
			bd, _ := time.Parse(dateLayout, rec.BirthDate)
			sl := domain.Seller{
				Name:       rec.Name,
				Email:      rec.Email,
				BirthDate:  &bd,
				BaseSalary: domain.FloatPtr(rec.BaseSalary),
			}
			if rec.DepartmentID != nil {
				dep := ids[*rec.DepartmentID]
				sl.Department = &dep
			}
			if _, err := s.Sellers.SaveOrUpdate(ctx, sl); err != nil {
				return fmt.Errorf("create seller %q: %w", rec.Name, err)
			}
			res.Sellers++
		}
		return nil
	})
	if err != nil {
		applog.WithComponent("exchange").Error("snapshot import rolled back", slog.Any("err", err))
		return Result{}, err
	}
	applog.WithComponent("exchange").Info("snapshot imported",
		slog.Int("departments", res.Departments), slog.Int("sellers", res.Sellers))
	return res, nil
}
