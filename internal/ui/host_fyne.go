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
	"fmt"
	"runtime"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"gosalesdesk/internal/domain"
	"gosalesdesk/internal/gui"
	"gosalesdesk/internal/version"
)

// textField adapts a widget.Entry. A constraint rewrites rejected edits back
// to the accepted text.
type textField struct {
	entry    *widget.Entry
	prev     string
	rule     gui.Constraint
	applying bool
}

func newTextField(placeholder string) *textField {
	f := &textField{entry: widget.NewEntry()}
	f.entry.SetPlaceHolder(placeholder)
	f.entry.OnChanged = f.changed
	return f
}

func (f *textField) Text() string { return f.entry.Text }

func (f *textField) SetText(s string) {
	f.applying = true
	f.entry.SetText(s)
	f.applying = false
	f.prev = s
}

func (f *textField) Constrain(c gui.Constraint) { f.rule = c }

func (f *textField) changed(s string) {
	if f.applying {
		return
	}
	next := s
	if f.rule != nil {
		next = f.rule(f.prev, s)
	}
	if next != s {
		f.applying = true
		f.entry.SetText(next)
		f.applying = false
	}
	f.prev = next
}

// errorLabel shows field errors in the danger colour.
type errorLabel struct{ label *widget.Label }

func newErrorLabel() *errorLabel {
	l := widget.NewLabel("")
	l.Importance = widget.DangerImportance
	return &errorLabel{label: l}
}

func (e *errorLabel) Show(msg string) { e.label.SetText(msg) }
func (e *errorLabel) Clear()          { e.label.SetText("") }

// departmentPicker adapts a widget.Select listing department names.
type departmentPicker struct {
	sel  *widget.Select
	opts []domain.Department
}

func newDepartmentPicker() *departmentPicker {
	return &departmentPicker{sel: widget.NewSelect(nil, nil)}
}

func (p *departmentPicker) SetOptions(opts []domain.Department) {
	p.opts = append([]domain.Department(nil), opts...)
	labels := make([]string, len(p.opts))
	for i := range p.opts {
		labels[i] = p.opts[i].Name
	}
	p.sel.ClearSelected()
	p.sel.SetOptions(labels)
}

func (p *departmentPicker) Select(d domain.Department) bool {
	for i := range p.opts {
		if domain.SameID(p.opts[i].ID, d.ID) {
			p.sel.SetSelectedIndex(i)
			return true
		}
	}
	return false
}

func (p *departmentPicker) SelectFirst() {
	if len(p.opts) > 0 {
		p.sel.SetSelectedIndex(0)
	}
}

func (p *departmentPicker) Selected() *domain.Department {
	i := p.sel.SelectedIndex()
	if i < 0 || i >= len(p.opts) {
		return nil
	}
	d := p.opts[i]
	return &d
}

// actionBar is the Save / Cancel row of a form.
type actionBar struct {
	save, cancel *widget.Button
}

func newActionBar() *actionBar {
	b := &actionBar{save: widget.NewButton("Save", nil), cancel: widget.NewButton("Cancel", nil)}
	b.save.Importance = widget.HighImportance
	return b
}

func (b *actionBar) OnSave(f func())   { b.save.OnTapped = f }
func (b *actionBar) OnCancel(f func()) { b.cancel.OnTapped = f }

func (b *actionBar) object() fyne.CanvasObject {
	return container.NewHBox(b.save, b.cancel)
}

// modal wraps a custom dialog; Hide fires the closed callback.
type modal struct {
	d *dialog.CustomDialog
}

func (m *modal) ShowAndWait(closed func()) {
	if closed != nil {
		m.d.SetOnClosed(closed)
	}
	m.d.Show()
}

func (m *modal) Close() { m.d.Hide() }

// host implements gui.DialogHost and gui.Alerter on top of one main window.
type host struct {
	main fyne.Window
}

func (h *host) window(parent gui.Window) fyne.Window {
	if w, ok := parent.(fyne.Window); ok {
		return w
	}
	return h.main
}

func (h *host) NewModal(parent gui.Window, title string, content gui.Content) gui.Modal {
	obj, ok := content.(fyne.CanvasObject)
	if !ok {
		obj = widget.NewLabel(fmt.Sprintf("unsupported content %T", content))
	}
	d := dialog.NewCustomWithoutButtons(title, obj, h.window(parent))
	d.Resize(fyne.NewSize(460, obj.MinSize().Height+80))
	return &modal{d: d}
}

// ShowAlert opens a titled message box; the icon follows kind.
func (h *host) ShowAlert(title, header, content string, kind gui.AlertKind) {
	h.alertDialog(title, header, content, kind).Show()
}

func (h *host) alertDialog(title, header, content string, kind gui.AlertKind) dialog.Dialog {
	msg := content
	if header != "" {
		msg = header + "\n" + content
	}
	icon := theme.InfoIcon()
	switch kind {
	case gui.AlertError:
		icon = theme.ErrorIcon()
	case gui.AlertWarning:
		icon = theme.WarningIcon()
	}
	body := widget.NewLabel(msg)
	body.Wrapping = fyne.TextWrapWord
	d := dialog.NewCustom(title, "OK", container.NewBorder(nil, nil, widget.NewIcon(icon), nil, body), h.main)
	d.Resize(fyne.NewSize(420, 0))
	return d
}

func (h *host) Confirm(title, message string, answer func(gui.Answer)) {
	dialog.NewConfirm(title, message, func(ok bool) {
		if ok {
			answer(gui.AnswerYes)
			return
		}
		answer(gui.AnswerNo)
	}, h.main).Show()
}

// views builds the form layouts by name.
type views struct{}

func (views) Load(name string) (any, error) {
	switch name {
	case gui.ViewDepartmentForm:
		return departmentFormView(), nil
	case gui.ViewSellerForm:
		return sellerFormView(), nil
	case gui.ViewDepartmentList:
		return newListView[domain.Department]("Departments"), nil
	case gui.ViewSellerList:
		return newListView[domain.Seller]("Sellers"), nil
	case gui.ViewAbout:
		return aboutView(), nil
	}
	return nil, fmt.Errorf("no view definition named %q", name)
}

func aboutView() fyne.CanvasObject {
	info := fmt.Sprintf("GoSalesDesk\nVersion: %s\nOS: %s\nArch: %s\nGo: %s",
		version.String(), runtime.GOOS, runtime.GOARCH, runtime.Version())
	return widget.NewLabel(info)
}

func departmentFormView() *gui.DepartmentFormView {
	id, name := newTextField(""), newTextField("Department name")
	id.entry.Disable()
	nameErr := newErrorLabel()
	actions := newActionBar()
	form := widget.NewForm(
		widget.NewFormItem("Id", id.entry),
		widget.NewFormItem("Name", container.NewVBox(name.entry, nameErr.label)),
	)
	return &gui.DepartmentFormView{
		Root:      container.NewVBox(form, actions.object()),
		ID:        id,
		Name:      name,
		NameError: nameErr,
		Actions:   actions,
	}
}

func sellerFormView() *gui.SellerFormView {
	id := newTextField("")
	id.entry.Disable()
	name, email := newTextField("Seller name"), newTextField("Email")
	birth, salary := newTextField("dd/mm/yyyy"), newTextField("0.00")
	dep := newDepartmentPicker()
	nameErr, emailErr, birthErr, salaryErr := newErrorLabel(), newErrorLabel(), newErrorLabel(), newErrorLabel()
	actions := newActionBar()
	form := widget.NewForm(
		widget.NewFormItem("Id", id.entry),
		widget.NewFormItem("Name", container.NewVBox(name.entry, nameErr.label)),
		widget.NewFormItem("Email", container.NewVBox(email.entry, emailErr.label)),
		widget.NewFormItem("Birth Date", container.NewVBox(birth.entry, birthErr.label)),
		widget.NewFormItem("Base Salary", container.NewVBox(salary.entry, salaryErr.label)),
		widget.NewFormItem("Department", dep.sel),
	)
	return &gui.SellerFormView{
		Root:            container.NewVBox(form, actions.object()),
		ID:              id,
		Name:            name,
		Email:           email,
		BirthDate:       birth,
		BaseSalary:      salary,
		Department:      dep,
		NameError:       nameErr,
		EmailError:      emailErr,
		BirthDateError:  birthErr,
		BaseSalaryError: salaryErr,
		Actions:         actions,
	}
}
