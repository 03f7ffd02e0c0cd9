//go:build fyne && cgo

/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package ui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	fstorage "fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"

	"gosalesdesk/internal/crash"
	"gosalesdesk/internal/domain"
	"gosalesdesk/internal/exchange"
	"gosalesdesk/internal/export"
	"gosalesdesk/internal/gui"
	applog "gosalesdesk/internal/log"
)

// screen is the list currently shown in the main window.
type screen struct {
	title   string
	rows    func() ([]string, [][]string)
	refresh func()
}

// shell owns the main window and swaps list screens into it.
type shell struct {
	opts    Options
	win     fyne.Window
	host    *host
	dialogs *gui.Dialogs
	current *screen
	log     *slog.Logger
}

// Run starts the desktop UI and blocks until the main window closes.
func Run(opts Options) error {
	if opts.Departments == nil || opts.Sellers == nil {
		return fmt.Errorf("ui: department and seller stores are required")
	}
	l := applog.WithComponent("ui")
	l.Info("starting UI")
	defer crash.Recover(opts.DataDir, opts.Crash)

	fyneApp := app.NewWithID("gosalesdesk")
	w := fyneApp.NewWindow("GoSalesDesk")
	prefs := fyneApp.Preferences()
	winW := prefs.IntWithFallback("window.width", fallback(opts.Width, 900))
	winH := prefs.IntWithFallback("window.height", fallback(opts.Height, 600))
	if winW < 640 {
		winW = 640
	}
	if winH < 400 {
		winH = 400
	}
	w.Resize(fyne.NewSize(float32(winW), float32(winH)))

	h := &host{main: w}
	s := &shell{opts: opts, win: w, host: h, log: l}
	s.dialogs = gui.NewDialogs(views{}, h, h)
	if opts.Events != nil {
		s.dialogs.SetEvents(opts.Events)
	}

	w.SetMainMenu(s.menu())
	w.SetContent(container.NewCenter(widget.NewLabel("Choose Registration → Seller or Department")))

	w.SetCloseIntercept(func() {
		sz := w.Canvas().Size()
		prefs.SetInt("window.width", int(sz.Width))
		prefs.SetInt("window.height", int(sz.Height))
		w.Close()
	})

	w.ShowAndRun()
	return nil
}

func fallback(v, def int) int {
	if v > 0 {
		return v
	}
	return def
}

func (s *shell) menu() *fyne.MainMenu {
	sellerItem := fyne.NewMenuItem("Seller", func() {
		s.log.Info("menu: sellers")
		s.showSellers()
	})
	departmentItem := fyne.NewMenuItem("Department", func() {
		s.log.Info("menu: departments")
		s.showDepartments()
	})
	registration := fyne.NewMenu("Registration", sellerItem, departmentItem)

	pdfItem := fyne.NewMenuItem("Export List as PDF…", func() { s.exportList("pdf") })
	pngItem := fyne.NewMenuItem("Export List as PNG…", func() { s.exportList("png") })
	jsonOut := fyne.NewMenuItem("Export Data as JSON…", s.exportJSON)
	jsonIn := fyne.NewMenuItem("Import Data from JSON…", s.importJSON)
	data := fyne.NewMenu("Data", pdfItem, pngItem, fyne.NewMenuItemSeparator(), jsonOut, jsonIn)

	aboutItem := fyne.NewMenuItem("About", func() {
		s.log.Info("menu: about")
		about, err := gui.LoadView[fyne.CanvasObject](views{}, gui.ViewAbout)
		if err != nil {
			s.host.ShowAlert(gui.TitleErrorView, "", err.Error(), gui.AlertError)
			return
		}
		dialog.ShowCustom("About", "OK", about, s.win)
	})
	help := fyne.NewMenu("Help", aboutItem)

	return fyne.NewMainMenu(registration, data, help)
}

func (s *shell) showDepartments() {
	view, err := gui.LoadView[gui.ListView[domain.Department]](views{}, gui.ViewDepartmentList)
	if err != nil {
		s.host.ShowAlert(gui.TitleErrorView, "", err.Error(), gui.AlertError)
		return
	}
	ctl := gui.NewDepartmentList(s.dialogs, s.host, s.opts.Departments, s.opts.Policy)
	mountList(s, view.Root, "Departments", view.Table, ctl, view.OnNew)
}

func (s *shell) showSellers() {
	view, err := gui.LoadView[gui.ListView[domain.Seller]](views{}, gui.ViewSellerList)
	if err != nil {
		s.host.ShowAlert(gui.TitleErrorView, "", err.Error(), gui.AlertError)
		return
	}
	ctl := gui.NewSellerList(s.dialogs, s.host, s.opts.Sellers, s.opts.Departments, s.opts.Policy)
	mountList(s, view.Root, "Sellers", view.Table, ctl, view.OnNew)
}

// lister is the part of gui.ListController the shell drives.
type lister interface {
	SetEvents(gui.EventSink)
	Refresh()
	OnCreateRequested(parent gui.Window) error
	Rows() ([]string, [][]string)
}

func mountList[T any](s *shell, root gui.Content, title string, table gui.TableView[T], ctl *gui.ListController[T], onNew func(func())) {
	ctl.Initialize(table, s.win)
	s.attach(root, title, ctl, onNew)
}

func (s *shell) attach(root gui.Content, title string, ctl lister, onNew func(func())) {
	if s.opts.Events != nil {
		ctl.SetEvents(s.opts.Events)
	}
	onNew(func() {
		if err := ctl.OnCreateRequested(s.win); err != nil {
			s.log.Debug("form not opened", slog.Any("err", err))
		}
	})
	ctl.Refresh()
	s.current = &screen{title: title, rows: ctl.Rows, refresh: ctl.Refresh}
	s.win.SetContent(root.(fyne.CanvasObject))
}

func (s *shell) exportList(format string) {
	if s.current == nil {
		dialog.ShowInformation("Export", "Open a list first.", s.win)
		return
	}
	header, rows := s.current.rows()
	t := export.Table{Title: s.current.title, Header: header, Rows: rows}
	save := dialog.NewFileSave(func(uc fyne.URIWriteCloser, err error) {
		if err != nil {
			dialog.ShowError(err, s.win)
			return
		}
		if uc == nil {
			return
		}
		outPath := uc.URI().Path()
		_ = uc.Close()
		if format == "png" {
			err = export.ExportTablePNG(t, outPath, export.PNGOptions{})
		} else {
			err = export.ExportTablePDF(t, outPath, export.PDFOptions{Landscape: len(header) > 3})
		}
		if err != nil {
			s.log.Error("export failed", slog.String("format", format), slog.Any("err", err))
			dialog.ShowError(err, s.win)
			return
		}
		s.event(format)
		dialog.ShowInformation("Export", "Exported to "+outPath, s.win)
	}, s.win)
	save.SetFileName(strings.ToLower(s.current.title) + "." + format)
	save.SetFilter(fstorage.NewExtensionFileFilter([]string{"." + format}))
	save.Show()
}

func (s *shell) stores() exchange.Stores {
	return exchange.Stores{Departments: s.opts.Departments, Sellers: s.opts.Sellers}
}

func (s *shell) exportJSON() {
	save := dialog.NewFileSave(func(uc fyne.URIWriteCloser, err error) {
		if err != nil {
			dialog.ShowError(err, s.win)
			return
		}
		if uc == nil {
			return
		}
		outPath := uc.URI().Path()
		_ = uc.Close()
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := exchange.ExportFile(ctx, s.stores(), outPath); err != nil {
			dialog.ShowError(err, s.win)
			return
		}
		s.event("json")
		dialog.ShowInformation("Export", "Exported to "+outPath, s.win)
	}, s.win)
	save.SetFileName("salesdesk.json")
	save.SetFilter(fstorage.NewExtensionFileFilter([]string{".json"}))
	save.Show()
}

func (s *shell) importJSON() {
	open := dialog.NewFileOpen(func(rc fyne.URIReadCloser, err error) {
		if err != nil {
			dialog.ShowError(err, s.win)
			return
		}
		if rc == nil {
			return
		}
		defer func() { _ = rc.Close() }()
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		res, err := exchange.Import(ctx, s.opts.ImportTx, rc)
		if err != nil {
			s.log.Error("import failed", slog.Any("err", err))
			dialog.ShowError(err, s.win)
			return
		}
		if s.current != nil {
			s.current.refresh()
		}
		dialog.ShowInformation("Import",
			fmt.Sprintf("Imported %d departments and %d sellers.", res.Departments, res.Sellers), s.win)
	}, s.win)
	open.SetFilter(fstorage.NewExtensionFileFilter([]string{".json"}))
	open.Show()
}

func (s *shell) event(format string) {
	if s.opts.Events != nil {
		s.opts.Events.Event("export", map[string]string{"format": format})
	}
}
