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
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"gosalesdesk/internal/gui"
)

const (
	actionColumns = 2
	actionWidth   = 90
)

// tableView renders entities in a widget.Table. Row 0 holds the column titles;
// the last two columns carry the Edit and Remove buttons.
type tableView[T any] struct {
	table          *widget.Table
	cols           []gui.Column[T]
	items          []T
	onEdit, onDrop func(T)
	widths         []float32 // data column widths last applied
	fitted         float32   // width the data columns were last fitted to
}

func newTableView[T any]() *tableView[T] {
	v := &tableView[T]{}
	v.table = widget.NewTable(v.size, v.create, v.update)
	return v
}

// object wraps the table so that every resize refits the data columns.
func (v *tableView[T]) object() fyne.CanvasObject {
	return container.New(&fitLayout{onResize: v.fitWidth}, v.table)
}

// fitLayout fills its single child and reports each new width.
type fitLayout struct {
	onResize func(width float32)
}

func (l *fitLayout) Layout(objects []fyne.CanvasObject, size fyne.Size) {
	l.onResize(size.Width)
	for _, o := range objects {
		o.Move(fyne.NewPos(0, 0))
		o.Resize(size)
	}
}

func (l *fitLayout) MinSize(objects []fyne.CanvasObject) fyne.Size {
	var ms fyne.Size
	for _, o := range objects {
		ms = ms.Max(o.MinSize())
	}
	return ms
}

func (v *tableView[T]) SetColumns(cols []gui.Column[T]) {
	v.cols = cols
	v.fitted = 0
	v.widths = make([]float32, len(cols))
	for i := range cols {
		v.setWidth(i, 140)
	}
	v.table.SetColumnWidth(len(cols), actionWidth)
	v.table.SetColumnWidth(len(cols)+1, actionWidth)
	v.table.Refresh()
}

func (v *tableView[T]) setWidth(col int, w float32) {
	v.widths[col] = w
	v.table.SetColumnWidth(col, w)
}

func (v *tableView[T]) SetItems(items []T) {
	v.items = items
	v.table.Refresh()
}

func (v *tableView[T]) SetRowActions(edit, remove func(T)) {
	v.onEdit, v.onDrop = edit, remove
}

// FitTo spreads the data columns across the window width. Later resizes of
// the list screen refit them through fitLayout.
func (v *tableView[T]) FitTo(w gui.Window) {
	fw, ok := w.(fyne.Window)
	if !ok {
		return
	}
	v.fitWidth(fw.Canvas().Size().Width)
}

func (v *tableView[T]) fitWidth(width float32) {
	if len(v.cols) == 0 || width == v.fitted {
		return
	}
	avail := width - actionColumns*actionWidth - theme.Padding()*4
	if avail <= 0 {
		return
	}
	v.fitted = width
	per := avail / float32(len(v.cols))
	for i := range v.cols {
		v.setWidth(i, per)
	}
}

func (v *tableView[T]) size() (int, int) {
	return len(v.items) + 1, len(v.cols) + actionColumns
}

func (v *tableView[T]) create() fyne.CanvasObject {
	btn := widget.NewButton("", nil)
	btn.Hide()
	return container.NewStack(widget.NewLabel(""), btn)
}

func (v *tableView[T]) update(id widget.TableCellID, obj fyne.CanvasObject) {
	cell := obj.(*fyne.Container)
	label := cell.Objects[0].(*widget.Label)
	btn := cell.Objects[1].(*widget.Button)

	if id.Col >= len(v.cols) {
		label.Hide()
		if id.Row == 0 {
			btn.Hide()
			return
		}
		btn.Show()
		row := v.items[id.Row-1]
		if id.Col == len(v.cols) {
			btn.SetText("Edit")
			btn.Importance = widget.MediumImportance
			btn.OnTapped = func() { v.fire(v.onEdit, row) }
		} else {
			btn.SetText("Remove")
			btn.Importance = widget.DangerImportance
			btn.OnTapped = func() { v.fire(v.onDrop, row) }
		}
		btn.Refresh()
		return
	}

	btn.Hide()
	label.Show()
	if id.Row == 0 {
		label.TextStyle = fyne.TextStyle{Bold: true}
		label.SetText(v.cols[id.Col].Title)
		return
	}
	label.TextStyle = fyne.TextStyle{}
	label.SetText(v.cols[id.Col].Value(v.items[id.Row-1]))
}

func (v *tableView[T]) fire(f func(T), row T) {
	if f != nil {
		f(row)
	}
}

// newListView lays out a list screen: a "New" button above the table.
func newListView[T any](title string) gui.ListView[T] {
	table := newTableView[T]()
	newBtn := widget.NewButtonWithIcon("New", theme.ContentAddIcon(), nil)
	newBtn.Importance = widget.HighImportance
	header := container.NewHBox(widget.NewLabelWithStyle(title, fyne.TextAlignLeading, fyne.TextStyle{Bold: true}), newBtn)
	return gui.ListView[T]{
		Root:  container.NewBorder(header, nil, nil, nil, table.object()),
		Table: table,
		OnNew: func(f func()) { newBtn.OnTapped = f },
	}
}
