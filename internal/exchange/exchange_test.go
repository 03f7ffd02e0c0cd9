/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package exchange

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"gosalesdesk/internal/domain"
	"gosalesdesk/internal/storage"
)

func openStores(t *testing.T) (Stores, *storage.DB) {
	t.Helper()
	db, err := storage.Open(context.Background(), storage.Options{Path: filepath.Join(t.TempDir(), "x.db")})
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return Stores{Departments: db.Departments(), Sellers: db.Sellers()}, db
}

func seed(t *testing.T, s Stores) {
	t.Helper()
	ctx := context.Background()
	books, err := s.Departments.SaveOrUpdate(ctx, domain.Department{Name: "Books"})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	if _, err := s.Departments.SaveOrUpdate(ctx, domain.Department{Name: "Music"}); err != nil {
		t.Fatalf("seed: %v", err)
	}
	_, err = s.Sellers.SaveOrUpdate(ctx, domain.Seller{
		Name: "Ann", Email: "ann@x.io", BirthDate: domain.DatePtr(1990, time.March, 15),
		BaseSalary: domain.FloatPtr(3000.5), Department: &books,
	})
	if err != nil {
		t.Fatalf("seed seller: %v", err)
	}
}

func TestExportImportAcrossStores(t *testing.T) {
	src, _ := openStores(t)
	seed(t, src)

	var buf bytes.Buffer
	if err := Export(context.Background(), src, &buf); err != nil {
		t.Fatalf("Export: %v", err)
	}
	if err := Validate(buf.Bytes()); err != nil {
		t.Fatalf("exported snapshot must validate: %v", err)
	}

	dst, db := openStores(t)
	// Occupy id 1 so imported identities differ from the source.
	if _, err := dst.Departments.SaveOrUpdate(context.Background(), domain.Department{Name: "Existing"}); err != nil {
		t.Fatalf("pre-seed: %v", err)
	}
	res, err := Import(context.Background(), StorageTx(db), bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if res.Departments != 2 || res.Sellers != 1 {
		t.Fatalf("unexpected result %+v", res)
	}
	sellers, err := db.Sellers().FindAll(context.Background())
	if err != nil {
		t.Fatalf("FindAll: %v", err)
	}
	if len(sellers) != 1 {
		t.Fatalf("expected one seller, got %d", len(sellers))
	}
	got := sellers[0]
	if got.Department == nil || got.Department.Name != "Books" {
		t.Fatalf("department reference not remapped: %+v", got.Department)
	}
	if *got.Department.ID == 1 {
		t.Fatalf("expected remapped department id, got 1")
	}
	if *got.BaseSalary != 3000.5 || got.BirthDate.Format("02/01/2006") != "15/03/1990" {
		t.Fatalf("attributes differ: %+v", got)
	}
}

func TestValidateReportsSchemaProblems(t *testing.T) {
	doc := `{"version": 1, "departments": [{"id": 1, "name": ""}], "sellers": [{"name": "A", "email": "a@x", "birthDate": "15/03/1990", "baseSalary": 1}]}`
	err := Validate([]byte(doc))
	var se *SchemaError
	if !errors.As(err, &se) {
		t.Fatalf("expected *SchemaError, got %v", err)
	}
	if len(se.Problems) < 2 {
		t.Fatalf("expected problems for name and birthDate, got %v", se.Problems)
	}
}

func TestDecodeRejectsUnknownDepartment(t *testing.T) {
	doc := `{"version": 1, "departments": [], "sellers": [{"name": "A", "email": "a@x", "birthDate": "1990-03-15", "baseSalary": 1, "departmentId": 7}]}`
	if _, err := Decode([]byte(doc)); err == nil || !strings.Contains(err.Error(), "unknown department 7") {
		t.Fatalf("expected unknown department error, got %v", err)
	}
}

func TestImportInvalidWritesNothing(t *testing.T) {
	_, db := openStores(t)
	doc := `{"version": 2, "departments": [{"id": 1, "name": "Books"}], "sellers": []}`
	if _, err := Import(context.Background(), StorageTx(db), strings.NewReader(doc)); err == nil {
		t.Fatalf("expected version mismatch to fail")
	}
	deps, _ := db.Departments().FindAll(context.Background())
	if len(deps) != 0 {
		t.Fatalf("invalid import must not write, got %d departments", len(deps))
	}
}

// failingSellers rejects every write.
type failingSellers struct{ err error }

func (f failingSellers) FindAll(context.Context) ([]domain.Seller, error) { return nil, nil }
func (f failingSellers) SaveOrUpdate(context.Context, domain.Seller) (domain.Seller, error) {
	return domain.Seller{}, f.err
}

func TestImportSellerFailureKeepsNoDepartments(t *testing.T) {
	_, db := openStores(t)
	diskFull := errors.New("disk full")
	tx := func(ctx context.Context, fn func(Stores) error) error {
		return db.WithTx(ctx, func(deps *storage.DepartmentDAO, _ *storage.SellerDAO) error {
			return fn(Stores{Departments: deps, Sellers: failingSellers{err: diskFull}})
		})
	}
	doc := `{"version": 1,
	  "departments": [{"id": 1, "name": "Books"}, {"id": 2, "name": "Music"}],
	  "sellers": [{"name": "Ann", "email": "ann@x", "birthDate": "1990-03-15", "baseSalary": 1, "departmentId": 1}]}`

	res, err := Import(context.Background(), tx, strings.NewReader(doc))
	if !errors.Is(err, diskFull) {
		t.Fatalf("expected seller failure, got %v", err)
	}
	if res != (Result{}) {
		t.Fatalf("failed import must report nothing imported, got %+v", res)
	}
	deps, err := db.Departments().FindAll(context.Background())
	if err != nil {
		t.Fatalf("FindAll: %v", err)
	}
	if len(deps) != 0 {
		t.Fatalf("departments left after failed import: %d", len(deps))
	}
}

func TestImportWithoutTxIsRejected(t *testing.T) {
	doc := `{"version": 1, "departments": [], "sellers": []}`
	if _, err := Import(context.Background(), nil, strings.NewReader(doc)); err == nil {
		t.Fatalf("expected an error without a transaction scope")
	}
}

func TestExportFileIsAtomic(t *testing.T) {
	src, _ := openStores(t)
	seed(t, src)
	out := filepath.Join(t.TempDir(), "backup", "snapshot.json")
	if err := ExportFile(context.Background(), src, out); err != nil {
		t.Fatalf("ExportFile: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	snap, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(snap.Departments) != 2 || len(snap.Sellers) != 1 {
		t.Fatalf("unexpected snapshot %+v", snap)
	}
	entries, _ := os.ReadDir(filepath.Dir(out))
	if len(entries) != 1 {
		t.Fatalf("temp files left behind: %v", entries)
	}
}
