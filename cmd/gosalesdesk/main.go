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
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gosalesdesk/internal/config"
	"gosalesdesk/internal/crash"
	"gosalesdesk/internal/domain"
	"gosalesdesk/internal/exchange"
	"gosalesdesk/internal/export"
	"gosalesdesk/internal/gui"
	applog "gosalesdesk/internal/log"
	"gosalesdesk/internal/storage"
	"gosalesdesk/internal/telemetry"
	"gosalesdesk/internal/ui"
	"gosalesdesk/internal/version"
)

func usage(w io.Writer) {
	_, _ = fmt.Fprintln(w, "GoSalesDesk, department and seller registry")
	_, _ = fmt.Fprintf(w, "Version: %s\n", version.String())
	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintln(w, "Usage:")
	_, _ = fmt.Fprintln(w, "  gosalesdesk version|-v|--version               Show version")
	_, _ = fmt.Fprintln(w, "  gosalesdesk info                               Show database driver and schema version")
	_, _ = fmt.Fprintln(w, "  gosalesdesk ui                                 Launch desktop UI (build with -tags fyne)")
	_, _ = fmt.Fprintln(w, "  gosalesdesk list departments|sellers [<depId>]  Print records")
	_, _ = fmt.Fprintln(w, "  gosalesdesk export-pdf departments|sellers <out.pdf>")
	_, _ = fmt.Fprintln(w, "  gosalesdesk export-png departments|sellers <out.png>")
	_, _ = fmt.Fprintln(w, "  gosalesdesk export-batch departments|sellers <dir> [print|screen|all]")
	_, _ = fmt.Fprintln(w, "  gosalesdesk export-json <out.json>             Write a JSON snapshot")
	_, _ = fmt.Fprintln(w, "  gosalesdesk import-json <in.json>              Load a JSON snapshot")
}

// usageError marks bad invocations; main exits with status 2 for them.
type usageError struct{ msg string }

func (e *usageError) Error() string { return e.msg }

func main() {
	cfg, password, cfgErr := config.Load()
	applog.Init(applog.Options{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		AddSource: cfg.Logging.Source,
		File:      cfg.Logging.File,
	})
	l := applog.WithComponent("cli")
	if cfgErr != nil {
		l.Warn("config not fully loaded, using defaults", slog.Any("err", cfgErr))
	}

	dataDir, _ := config.Dir()
	tel := telemetry.New(telemetry.FromEnv(cfg.General.TelemetryOptIn))
	defer crash.Recover(dataDir, tel)

	err := run(os.Args[1:], cfg, password, tel, os.Stdout)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	tel.Close(ctx)
	cancel()

	var ue *usageError
	switch {
	case err == nil:
	case errors.As(err, &ue):
		fmt.Println(ue.msg)
		usage(os.Stdout)
		os.Exit(2)
	default:
		l.Error("command failed", slog.Any("err", err))
		fmt.Println("Error:", err)
		os.Exit(1)
	}
}

// run executes one CLI command. Store-backed commands open the configured
// database for the duration of the call.
func run(args []string, cfg config.AppConfig, password string, tel *telemetry.Client, out io.Writer) error {
	if len(args) == 0 {
		usage(out)
		return nil
	}
	cmd := args[0]
	switch cmd {
	case "version", "--version", "-v":
		_, _ = fmt.Fprintln(out, "GoSalesDesk")
		_, _ = fmt.Fprintln(out, version.String())
		return nil
	case "help", "-h", "--help":
		usage(out)
		return nil
	}

	need := map[string]int{
		"info": 1, "ui": 1, "list": 2,
		"export-pdf": 3, "export-png": 3, "export-batch": 3,
		"export-json": 2, "import-json": 2,
	}
	n, ok := need[cmd]
	if !ok {
		return &usageError{msg: "unknown command " + strconv.Quote(cmd)}
	}
	if len(args) < n {
		return &usageError{msg: cmd + ": missing arguments"}
	}

	ctx := context.Background()
	db, err := openStore(ctx, cfg, password)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()
	tel.Event(telemetry.EventAppStart, map[string]string{"driver": db.Driver(), "view": cmd})

	stores := exchange.Stores{Departments: db.Departments(), Sellers: db.Sellers()}
	switch cmd {
	case "info":
		v, err := db.SchemaVersion(ctx)
		if err != nil {
			return err
		}
		path, _ := config.Path()
		_, _ = fmt.Fprintf(out, "Config: %s\nDriver: %s\nSchema version: %d\n", path, db.Driver(), v)
		return nil
	case "ui":
		dataDir, _ := config.Dir()
		return ui.Run(ui.Options{
			Departments: db.Departments(),
			Sellers:     db.Sellers(),
			Policy:      gui.ParseRefreshPolicy(cfg.UI.RemoveRefresh),
			Width:       cfg.UI.WindowWidth,
			Height:      cfg.UI.WindowHeight,
			ImportTx:    exchange.StorageTx(db),
			Events:      tel,
			DataDir:     dataDir,
			Crash:       tel,
		})
	case "list":
		t, err := listTable(ctx, db, args[1:])
		if err != nil {
			return err
		}
		printTable(out, t)
		return nil
	case "export-pdf", "export-png", "export-batch":
		t, err := listTable(ctx, db, args[1:2])
		if err != nil {
			return err
		}
		var paths []string
		switch cmd {
		case "export-pdf":
			err = export.ExportTablePDF(t, args[2], export.PDFOptions{Landscape: len(t.Header) > 3})
			paths = []string{args[2]}
		case "export-png":
			err = export.ExportTablePNG(t, args[2], export.PNGOptions{})
			paths = []string{args[2]}
		default:
			preset := export.PresetAll
			if len(args) > 3 {
				preset = export.PresetName(args[3])
			}
			paths, err = export.Batch(t, export.BatchOptions{Preset: preset, OutDir: args[2], Base: args[1]})
		}
		if err != nil {
			return err
		}
		tel.Event(telemetry.EventExport, map[string]string{"format": cmd})
		for _, p := range paths {
			_, _ = fmt.Fprintln(out, "Exported to", p)
		}
		return nil
	case "export-json":
		if err := exchange.ExportFile(ctx, stores, args[1]); err != nil {
			return err
		}
		tel.Event(telemetry.EventExport, map[string]string{"format": "json"})
		_, _ = fmt.Fprintln(out, "Exported to", args[1])
		return nil
	case "import-json":
		f, err := os.Open(args[1])
		if err != nil {
			return err
		}
		defer func() { _ = f.Close() }()
		res, err := exchange.Import(ctx, exchange.StorageTx(db), f)
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintf(out, "Imported %d departments and %d sellers.\n", res.Departments, res.Sellers)
		return nil
	}
	return nil
}

func openStore(ctx context.Context, cfg config.AppConfig, password string) (*storage.DB, error) {
	opts := storage.Options{
		Driver:   cfg.Database.Driver,
		DSN:      cfg.Database.DSN,
		User:     cfg.Database.User,
		Password: password,
	}
	if opts.Driver != storage.DriverPostgres {
		path, err := cfg.DatabasePath()
		if err != nil {
			return nil, err
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, err
		}
		opts.Path = path
	}
	return storage.Open(ctx, opts)
}

// listTable loads one entity kind into an export table. For sellers an
// optional department id narrows the rows.
func listTable(ctx context.Context, db *storage.DB, args []string) (export.Table, error) {
	switch args[0] {
	case "departments":
		items, err := db.Departments().FindAll(ctx)
		if err != nil {
			return export.Table{}, err
		}
		return tableOf("Departments", gui.DepartmentColumns(), items), nil
	case "sellers":
		var items []domain.Seller
		var err error
		if len(args) > 1 {
			id, perr := strconv.Atoi(args[1])
			if perr != nil {
				return export.Table{}, &usageError{msg: "department id must be a number"}
			}
			items, err = db.Sellers().FindByDepartment(ctx, domain.Department{ID: &id})
		} else {
			items, err = db.Sellers().FindAll(ctx)
		}
		if err != nil {
			return export.Table{}, err
		}
		return tableOf("Sellers", gui.SellerColumns(), items), nil
	}
	return export.Table{}, &usageError{msg: "expected departments or sellers, got " + strconv.Quote(args[0])}
}

func tableOf[T any](title string, cols []gui.Column[T], items []T) export.Table {
	t := export.Table{Title: title, Header: make([]string, len(cols))}
	for i, c := range cols {
		t.Header[i] = c.Title
	}
	for _, it := range items {
		row := make([]string, len(cols))
		for i, c := range cols {
			row[i] = c.Value(it)
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

func printTable(w io.Writer, t export.Table) {
	widths := make([]int, len(t.Header))
	for i, h := range t.Header {
		widths[i] = len([]rune(h))
	}
	for _, r := range t.Rows {
		for i, c := range r {
			if n := len([]rune(c)); i < len(widths) && n > widths[i] {
				widths[i] = n
			}
		}
	}
	line := func(cells []string) {
		for i, c := range cells {
			if i > 0 {
				_, _ = io.WriteString(w, "  ")
			}
			_, _ = fmt.Fprintf(w, "%-*s", widths[i], c)
		}
		_, _ = io.WriteString(w, "\n")
	}
	line(t.Header)
	for _, r := range t.Rows {
		line(r)
	}
	_, _ = fmt.Fprintf(w, "(%d rows)\n", len(t.Rows))
}
