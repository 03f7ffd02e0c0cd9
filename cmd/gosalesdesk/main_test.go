/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gosalesdesk/internal/config"
	"gosalesdesk/internal/telemetry"
)

func testConfig(t *testing.T) config.AppConfig {
	t.Helper()
	cfg := config.Defaults()
	cfg.Database.Path = filepath.Join(t.TempDir(), "cli.db")
	return cfg
}

func runCLI(t *testing.T, cfg config.AppConfig, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	err := run(args, cfg, "", telemetry.New(telemetry.Config{}), &out)
	return out.String(), err
}

func TestRunVersionAndUsage(t *testing.T) {
	cfg := testConfig(t)
	out, err := runCLI(t, cfg, "version")
	if err != nil || !strings.Contains(out, "GoSalesDesk") {
		t.Fatalf("version: %v %q", err, out)
	}
	out, err = runCLI(t, cfg)
	if err != nil || !strings.Contains(out, "Usage:") {
		t.Fatalf("usage: %v %q", err, out)
	}
}

func TestRunRejectsBadInvocations(t *testing.T) {
	cfg := testConfig(t)
	var ue *usageError
	if _, err := runCLI(t, cfg, "frobnicate"); !errors.As(err, &ue) {
		t.Fatalf("unknown command: got %v", err)
	}
	if _, err := runCLI(t, cfg, "export-pdf", "sellers"); !errors.As(err, &ue) {
		t.Fatalf("missing args: got %v", err)
	}
	if _, err := runCLI(t, cfg, "list", "widgets"); !errors.As(err, &ue) {
		t.Fatalf("bad kind: got %v", err)
	}
}

func TestImportListAndExport(t *testing.T) {
	cfg := testConfig(t)
	dir := t.TempDir()
	in := filepath.Join(dir, "in.json")
	doc := `{"version": 1,
	  "departments": [{"id": 10, "name": "Books"}, {"id": 20, "name": "Computers"}],
	  "sellers": [{"name": "Alex Green", "email": "alex@gmail.com", "birthDate": "1990-03-15", "baseSalary": 3000, "departmentId": 20}]}`
	if err := os.WriteFile(in, []byte(doc), 0o600); err != nil {
		t.Fatal(err)
	}

	out, err := runCLI(t, cfg, "import-json", in)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if !strings.Contains(out, "Imported 2 departments and 1 sellers.") {
		t.Fatalf("import output %q", out)
	}

	out, err = runCLI(t, cfg, "list", "sellers")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	for _, want := range []string{"Alex Green", "15/03/1990", "3000.00", "Computers", "(1 rows)"} {
		if !strings.Contains(out, want) {
			t.Fatalf("list output missing %q:\n%s", want, out)
		}
	}

	pdf := filepath.Join(dir, "sellers.pdf")
	if _, err := runCLI(t, cfg, "export-pdf", "sellers", pdf); err != nil {
		t.Fatalf("export-pdf: %v", err)
	}
	if fi, err := os.Stat(pdf); err != nil || fi.Size() == 0 {
		t.Fatalf("pdf not written: %v", err)
	}

	js := filepath.Join(dir, "out.json")
	if _, err := runCLI(t, cfg, "export-json", js); err != nil {
		t.Fatalf("export-json: %v", err)
	}
	data, err := os.ReadFile(js)
	if err != nil || !bytes.Contains(data, []byte(`"Alex Green"`)) {
		t.Fatalf("snapshot: %v %s", err, data)
	}

	out, err = runCLI(t, cfg, "info")
	if err != nil || !strings.Contains(out, "Driver: sqlite") {
		t.Fatalf("info: %v %q", err, out)
	}
}
