/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package export

import (
	"bytes"
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func sampleTable(rows int) Table {
	t := Table{Title: "Sellers", Header: []string{"Id", "Name", "Email", "Birth Date", "Base Salary", "Department"}}
	for i := 0; i < rows; i++ {
		t.Rows = append(t.Rows, []string{fmt.Sprint(i + 1), "Seller Müller", "s@x.io", "15/03/1990", "3000.00", "Books"})
	}
	return t
}

func TestWriteTablePDF(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteTablePDF(&buf, sampleTable(120), PDFOptions{}); err != nil {
		t.Fatalf("WriteTablePDF: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")) {
		t.Fatalf("output is not a PDF")
	}
	// 120 rows at default size do not fit on one A4 page.
	pages := bytes.Count(buf.Bytes(), []byte("/Type /Page")) - bytes.Count(buf.Bytes(), []byte("/Type /Pages"))
	if n := pages; n < 2 {
		t.Fatalf("expected several pages, got %d", n)
	}
}

func TestExportTablePDF_CreatesFile(t *testing.T) {
	out := filepath.Join(t.TempDir(), "exports", "departments.pdf")
	if err := ExportTablePDF(Table{Header: []string{"Id", "Name"}}, out, PDFOptions{Landscape: true}); err != nil {
		t.Fatalf("ExportTablePDF: %v", err)
	}
	fi, err := os.Stat(out)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if fi.Size() == 0 {
		t.Fatalf("empty pdf")
	}
}

func TestWriteTablePNG(t *testing.T) {
	var buf bytes.Buffer
	tbl := sampleTable(3)
	if err := WriteTablePNG(&buf, tbl, PNGOptions{}); err != nil {
		t.Fatalf("WriteTablePNG: %v", err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	b := img.Bounds()
	rowH := 13 + 2*6
	if want := rowH*(len(tbl.Rows)+2) + 1; b.Dy() != want {
		t.Fatalf("height: want %d got %d", want, b.Dy())
	}
	r, g, bl, _ := img.At(1, rowH+1).RGBA()
	if r>>8 != 230 || g>>8 != 230 || bl>>8 != 230 {
		t.Fatalf("expected shaded header cell, got %d,%d,%d", r>>8, g>>8, bl>>8)
	}
}

func TestBatch(t *testing.T) {
	dir := t.TempDir()
	paths, err := Batch(sampleTable(2), BatchOptions{Preset: PresetAll, OutDir: dir, Base: "sellers"})
	if err != nil {
		t.Fatalf("Batch: %v", err)
	}
	if len(paths) != 2 {
		t.Fatalf("expected 2 files, got %v", paths)
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			t.Fatalf("missing %s: %v", p, err)
		}
	}
	if _, err := Batch(sampleTable(1), BatchOptions{Formats: []string{"svg"}, OutDir: dir, Base: "x"}); err == nil || !strings.Contains(err.Error(), "unknown format") {
		t.Fatalf("expected unknown format error, got %v", err)
	}
	if _, err := Batch(sampleTable(1), BatchOptions{OutDir: dir}); err == nil {
		t.Fatalf("expected error for missing base name")
	}
}
