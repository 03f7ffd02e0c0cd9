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
	"context"
	"errors"

	"gosalesdesk/internal/domain"
)

type fakeField struct {
	text string
	c    Constraint
}

func (f *fakeField) Text() string           { return f.text }
func (f *fakeField) SetText(s string)       { f.text = s }
func (f *fakeField) Constrain(c Constraint) { f.c = c }

// Type simulates a user edit going through the installed constraint.
func (f *fakeField) Type(s string) {
	if f.c != nil {
		s = f.c(f.text, s)
	}
	f.text = s
}

type fakeLabel struct {
	msg    string
	clears int
}

func (l *fakeLabel) Show(msg string) { l.msg = msg }
func (l *fakeLabel) Clear()          { l.msg = ""; l.clears++ }

type fakePicker struct {
	opts []domain.Department
	sel  int
}

func (p *fakePicker) SetOptions(opts []domain.Department) { p.opts = opts; p.sel = -1 }
func (p *fakePicker) Select(d domain.Department) bool {
	for i := range p.opts {
		if domain.SameID(p.opts[i].ID, d.ID) {
			p.sel = i
			return true
		}
	}
	return false
}
func (p *fakePicker) SelectFirst() {
	if len(p.opts) > 0 {
		p.sel = 0
	}
}
func (p *fakePicker) Selected() *domain.Department {
	if p.sel < 0 || p.sel >= len(p.opts) {
		return nil
	}
	d := p.opts[p.sel]
	return &d
}

type fakeActions struct{ save, cancel func() }

func (a *fakeActions) OnSave(f func())   { a.save = f }
func (a *fakeActions) OnCancel(f func()) { a.cancel = f }

type fakeWindow struct{ title string }

func (w *fakeWindow) Title() string { return w.title }
func (w *fakeWindow) Close()        {}

type fakeModal struct {
	title   string
	parent  Window
	content Content
	shown   bool
	closes  int
	closed  func()
	onClose func()
}

func (m *fakeModal) ShowAndWait(closed func()) { m.shown = true; m.closed = closed }
func (m *fakeModal) Close() {
	m.closes++
	if m.onClose != nil {
		m.onClose()
	}
	if m.closed != nil {
		fn := m.closed
		m.closed = nil
		fn()
	}
}

type fakeHost struct {
	modals  []*fakeModal
	onClose func()
}

func (h *fakeHost) NewModal(parent Window, title string, content Content) Modal {
	m := &fakeModal{title: title, parent: parent, content: content, onClose: h.onClose}
	h.modals = append(h.modals, m)
	return m
}

func (h *fakeHost) last() *fakeModal {
	if len(h.modals) == 0 {
		return nil
	}
	return h.modals[len(h.modals)-1]
}

type alertCall struct {
	title, content string
	kind           AlertKind
}

type fakeAlerts struct {
	alerts   []alertCall
	answer   Answer
	confirms []string
}

func (a *fakeAlerts) ShowAlert(title, _, content string, kind AlertKind) {
	a.alerts = append(a.alerts, alertCall{title: title, content: content, kind: kind})
}

func (a *fakeAlerts) Confirm(title, message string, answer func(Answer)) {
	a.confirms = append(a.confirms, message)
	answer(a.answer)
}

func (a *fakeAlerts) titles() []string {
	out := make([]string, 0, len(a.alerts))
	for _, c := range a.alerts {
		out = append(out, c.title)
	}
	return out
}

type fakeEvents struct{ names []string }

func (e *fakeEvents) Event(name string, _ map[string]string) { e.names = append(e.names, name) }

// fakeLoader builds fresh fake views and remembers the last one per name.
type fakeLoader struct {
	err    map[string]error
	deptVw *DepartmentFormView
	sellVw *SellerFormView
	loads  []string
}

func (l *fakeLoader) Load(name string) (any, error) {
	l.loads = append(l.loads, name)
	if err := l.err[name]; err != nil {
		return nil, err
	}
	switch name {
	case ViewDepartmentForm:
		l.deptVw = newDepartmentView()
		return l.deptVw, nil
	case ViewSellerForm:
		l.sellVw = newSellerView()
		return l.sellVw, nil
	}
	return nil, errors.New("unknown view " + name)
}

func newDepartmentView() *DepartmentFormView {
	return &DepartmentFormView{
		Root:      "department-root",
		ID:        &fakeField{},
		Name:      &fakeField{},
		NameError: &fakeLabel{},
		Actions:   &fakeActions{},
	}
}

func newSellerView() *SellerFormView {
	return &SellerFormView{
		Root:            "seller-root",
		ID:              &fakeField{},
		Name:            &fakeField{},
		Email:           &fakeField{},
		BirthDate:       &fakeField{},
		BaseSalary:      &fakeField{},
		Department:      &fakePicker{sel: -1},
		NameError:       &fakeLabel{},
		EmailError:      &fakeLabel{},
		BirthDateError:  &fakeLabel{},
		BaseSalaryError: &fakeLabel{},
		Actions:         &fakeActions{},
	}
}

func field(f TextField) *fakeField  { return f.(*fakeField) }
func label(l ErrorLabel) *fakeLabel { return l.(*fakeLabel) }

type fakeTable[T any] struct {
	cols     []Column[T]
	setCols  int
	items    []T
	edit     func(T)
	remove   func(T)
	bindings int
	fitted   Window
}

func (t *fakeTable[T]) SetColumns(cols []Column[T]) { t.cols = cols; t.setCols++ }
func (t *fakeTable[T]) SetItems(items []T)          { t.items = items }
func (t *fakeTable[T]) SetRowActions(edit, remove func(T)) {
	t.edit, t.remove = edit, remove
	t.bindings++
}
func (t *fakeTable[T]) FitTo(w Window) { t.fitted = w }

// memStore is an in-memory store assigning sequential ids.
type memStore[T any] struct {
	items     []T
	getID     func(T) *int
	setID     func(T, int) T
	next      int
	finds     int
	saves     []T
	removes   []T
	findErr   error
	saveErr   error
	removeErr error
}

func newDepartmentStore(names ...string) *memStore[domain.Department] {
	s := &memStore[domain.Department]{
		getID: func(d domain.Department) *int { return d.ID },
		setID: func(d domain.Department, id int) domain.Department { d.ID = domain.IntPtr(id); return d },
	}
	for _, n := range names {
		_, _ = s.SaveOrUpdate(context.Background(), domain.Department{Name: n})
	}
	s.saves = nil
	return s
}

func newSellerStore() *memStore[domain.Seller] {
	return &memStore[domain.Seller]{
		getID: func(s domain.Seller) *int { return s.ID },
		setID: func(s domain.Seller, id int) domain.Seller { s.ID = domain.IntPtr(id); return s },
	}
}

func (s *memStore[T]) FindAll(context.Context) ([]T, error) {
	s.finds++
	if s.findErr != nil {
		return nil, s.findErr
	}
	return append([]T(nil), s.items...), nil
}

func (s *memStore[T]) SaveOrUpdate(_ context.Context, e T) (T, error) {
	if s.saveErr != nil {
		return e, s.saveErr
	}
	s.saves = append(s.saves, e)
	id := s.getID(e)
	if id == nil {
		s.next++
		e = s.setID(e, s.next)
		s.items = append(s.items, e)
		return e, nil
	}
	for i := range s.items {
		if domain.SameID(s.getID(s.items[i]), id) {
			s.items[i] = e
			return e, nil
		}
	}
	return e, errors.New("not found")
}

func (s *memStore[T]) Remove(_ context.Context, e T) error {
	if s.removeErr != nil {
		return s.removeErr
	}
	s.removes = append(s.removes, e)
	for i := range s.items {
		if domain.SameID(s.getID(s.items[i]), s.getID(e)) {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return nil
		}
	}
	return nil
}

func expectPrecondition(t interface {
	Helper()
	Fatalf(string, ...any)
}, missing string, fn func()) {
	t.Helper()
	defer func() {
		r := recover()
		pe, ok := r.(*PreconditionError)
		if !ok {
			t.Fatalf("expected *PreconditionError panic, got %v", r)
			return
		}
		if pe.Missing != missing {
			t.Fatalf("expected missing %q, got %q", missing, pe.Missing)
		}
	}()
	fn()
}
