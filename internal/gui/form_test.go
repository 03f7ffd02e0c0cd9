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
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"gosalesdesk/internal/domain"
	"gosalesdesk/internal/notify"
	"gosalesdesk/internal/validation"
)

func boundDepartmentForm(entity domain.Department, store Store[domain.Department]) (*DepartmentForm, *DepartmentFormView, *fakeAlerts, *fakeModal) {
	v := newDepartmentView()
	a := &fakeAlerts{}
	f := NewDepartmentForm(v, a)
	f.Bind(entity, store)
	m := &fakeModal{}
	f.Attach(m)
	return f, v, a, m
}

func boundSellerForm(entity domain.Seller, store Store[domain.Seller], deps *memStore[domain.Department]) (*SellerForm, *SellerFormView, *fakeAlerts, *fakeModal) {
	v := newSellerView()
	a := &fakeAlerts{}
	f := NewSellerForm(v, a)
	f.Bind(entity, store, deps)
	m := &fakeModal{}
	f.Attach(m)
	return f, v, a, m
}

func validationFields(t *testing.T, err error) []string {
	t.Helper()
	var ve *validation.Error
	require.ErrorAs(t, err, &ve)
	return ve.Fields()
}

func TestDepartmentForm_PreconditionsPanic(t *testing.T) {
	f := NewDepartmentForm(newDepartmentView(), &fakeAlerts{})
	expectPrecondition(t, "entity", f.PopulateFields)
	expectPrecondition(t, "entity", func() { _ = f.Submit() })

	f.Bind(domain.Department{Name: "x"}, nil)
	expectPrecondition(t, "store", func() { _ = f.Submit() })
}

func TestDepartmentForm_PopulateIsIdempotent(t *testing.T) {
	f, v, _, _ := boundDepartmentForm(domain.Department{ID: domain.IntPtr(4), Name: "Books"}, newDepartmentStore())
	f.PopulateFields()
	first := []string{field(v.ID).text, field(v.Name).text}
	f.PopulateFields()

	require.Equal(t, []string{"4", "Books"}, first)
	require.Equal(t, first, []string{field(v.ID).text, field(v.Name).text})
}

func TestDepartmentForm_BlankNameIsRejectedWithoutStoreCall(t *testing.T) {
	store := newDepartmentStore()
	f, v, _, m := boundDepartmentForm(domain.Department{}, store)
	f.PopulateFields()
	field(v.Name).Type("   ")

	err := f.Submit()

	require.Equal(t, []string{"name"}, validationFields(t, err))
	require.Equal(t, validation.MsgRequired, label(v.NameError).msg)
	require.Empty(t, store.saves)
	require.Zero(t, m.closes)

	field(v.Name).Type("Sales")
	require.NoError(t, f.Submit())
	require.Equal(t, "", label(v.NameError).msg)
	require.Equal(t, 1, label(v.NameError).clears)
	require.Len(t, store.saves, 1)
	require.Equal(t, 1, m.closes)

	saved, ok := f.Entity()
	require.True(t, ok)
	require.Equal(t, 1, *saved.ID)
}

func TestDepartmentForm_SaveFailureKeepsDialogOpen(t *testing.T) {
	store := newDepartmentStore()
	store.saveErr = errors.New("database is locked")
	f, v, alerts, m := boundDepartmentForm(domain.Department{}, store)
	notified := 0
	f.Subscribe(notify.ListenerFunc(func() { notified++ }))
	field(v.Name).Type("Sales")

	err := f.Submit()

	require.EqualError(t, err, "database is locked")
	require.Equal(t, []string{TitleErrorSaving}, alerts.titles())
	require.Zero(t, m.closes)
	require.Zero(t, notified)
	e, _ := f.Entity()
	require.Nil(t, e.ID, "bound entity unchanged on failure")
}

func TestDepartmentForm_NotifiesEveryListenerInOrderThenCloses(t *testing.T) {
	f, v, _, m := boundDepartmentForm(domain.Department{}, newDepartmentStore())
	var calls []string
	first := notify.ListenerFunc(func() { calls = append(calls, "first") })
	f.Subscribe(first)
	f.Subscribe(notify.ListenerFunc(func() { calls = append(calls, "second") }))
	f.Subscribe(first)
	m.onClose = func() { calls = append(calls, "close") }
	field(v.Name).Type("Sales")

	require.NoError(t, f.Submit())
	require.Equal(t, []string{"first", "second", "first", "close"}, calls)
}

func TestDepartmentForm_CancelClosesWithoutNotifying(t *testing.T) {
	store := newDepartmentStore()
	f, v, _, m := boundDepartmentForm(domain.Department{}, store)
	notified := false
	f.Subscribe(notify.ListenerFunc(func() { notified = true }))

	v.Actions.(*fakeActions).cancel()

	require.Equal(t, 1, m.closes)
	require.False(t, notified)
	require.Empty(t, store.saves)
}

func TestDepartmentForm_InputConstraints(t *testing.T) {
	_, v, _, _ := boundDepartmentForm(domain.Department{}, newDepartmentStore())
	id := field(v.ID)
	id.Type("12")
	id.Type("12a")
	require.Equal(t, "12", id.text)

	name := field(v.Name)
	name.Type("abcdefghijabcdefghijabcdefghij")
	name.Type("abcdefghijabcdefghijabcdefghijX")
	require.Len(t, name.text, domain.DepartmentNameMaxLength)
}

func TestSellerForm_PreconditionsPanic(t *testing.T) {
	f := NewSellerForm(newSellerView(), &fakeAlerts{})
	expectPrecondition(t, "department store", func() { _ = f.LoadReferenceOptions() })
	expectPrecondition(t, "entity", f.PopulateFields)
	f.Bind(domain.Seller{}, nil, newDepartmentStore())
	expectPrecondition(t, "store", func() { _ = f.Submit() })
}

func TestSellerForm_PopulateFormatsValues(t *testing.T) {
	deps := newDepartmentStore("Books", "Music")
	music := deps.items[1]
	s := domain.Seller{
		ID:         domain.IntPtr(7),
		Name:       "Ann",
		Email:      "ann@x.io",
		BirthDate:  domain.DatePtr(1990, time.March, 15),
		BaseSalary: domain.FloatPtr(3000),
		Department: &music,
	}
	f, v, _, _ := boundSellerForm(s, newSellerStore(), deps)
	require.NoError(t, f.LoadReferenceOptions())
	f.PopulateFields()

	require.Equal(t, "7", field(v.ID).text)
	require.Equal(t, "3000.00", field(v.BaseSalary).text)
	require.Equal(t, "15/03/1990", field(v.BirthDate).text)
	require.Equal(t, "Music", v.Department.Selected().Name)

	f.PopulateFields()
	require.Equal(t, "3000.00", field(v.BaseSalary).text)
	require.Equal(t, "Music", v.Department.Selected().Name)
}

func TestSellerForm_MissingValuesRenderEmptyAndDefaultDepartment(t *testing.T) {
	f, v, _, _ := boundSellerForm(domain.Seller{}, newSellerStore(), newDepartmentStore("Books", "Music"))
	require.NoError(t, f.LoadReferenceOptions())
	f.PopulateFields()

	for _, tf := range []TextField{v.ID, v.Name, v.Email, v.BirthDate, v.BaseSalary} {
		require.Equal(t, "", field(tf).text)
	}
	require.Equal(t, "Books", v.Department.Selected().Name)
}

func TestSellerForm_MissingNameAndEmailScenario(t *testing.T) {
	store := newSellerStore()
	deps := newDepartmentStore("Books")
	existing := domain.Seller{ID: domain.IntPtr(3), BirthDate: domain.DatePtr(1980, 1, 2), BaseSalary: domain.FloatPtr(10)}
	f, v, alerts, m := boundSellerForm(existing, store, deps)
	require.NoError(t, f.LoadReferenceOptions())
	f.PopulateFields()
	label(v.BaseSalaryError).Show("stale")

	err := f.Submit()

	var ve *validation.Error
	require.ErrorAs(t, err, &ve)
	require.Equal(t, map[string]string{"name": validation.MsgRequired, "email": validation.MsgRequired}, ve.Errors())
	require.Equal(t, validation.MsgRequired, label(v.NameError).msg)
	require.Equal(t, validation.MsgRequired, label(v.EmailError).msg)
	require.Equal(t, "", label(v.BaseSalaryError).msg, "stale error cleared")
	require.Equal(t, 1, label(v.BirthDateError).clears)
	require.Empty(t, store.saves)
	require.Empty(t, alerts.alerts)
	require.Zero(t, m.closes)
}

func TestSellerForm_UnparsableNumbersCountAsMissing(t *testing.T) {
	f, v, _, _ := boundSellerForm(domain.Seller{}, newSellerStore(), newDepartmentStore("Books"))
	require.NoError(t, f.LoadReferenceOptions())
	f.PopulateFields()
	field(v.Name).SetText("Ann")
	field(v.Email).SetText("ann@x.io")
	field(v.BirthDate).SetText("31/02/1990")
	field(v.BaseSalary).SetText("1.2.3")
	field(v.ID).SetText("x")

	err := f.Submit()

	require.Equal(t, []string{"baseSalary", "birthDate"}, validationFields(t, err))
}

func TestSellerForm_CompleteInputSaves(t *testing.T) {
	cases := []struct{ name, email, birth, salary string }{
		{"Ann", "ann@x.io", "15/03/1990", "3000"},
		{"Bob Grey", "bob@x.io", "01/01/2000", "0.5"},
		{"  Cy ", "c@x", "29/02/2004", "12.25"},
	}
	for _, tc := range cases {
		store := newSellerStore()
		f, v, _, m := boundSellerForm(domain.Seller{}, store, newDepartmentStore("Books"))
		require.NoError(t, f.LoadReferenceOptions())
		f.PopulateFields()
		field(v.Name).SetText(tc.name)
		field(v.Email).SetText(tc.email)
		field(v.BirthDate).SetText(tc.birth)
		field(v.BaseSalary).SetText(tc.salary)

		require.NoError(t, f.Submit(), tc.name)
		require.Len(t, store.saves, 1)
		require.Equal(t, 1, m.closes)
		saved := store.items[0]
		require.Equal(t, tc.name, saved.Name)
		require.Equal(t, "Books", saved.Department.Name)
		require.Equal(t, tc.birth, FormatDate(saved.BirthDate))
	}
}

func TestSellerForm_EditKeepsIdentity(t *testing.T) {
	store := newSellerStore()
	orig, _ := store.SaveOrUpdate(context.Background(), domain.Seller{Name: "Ann", Email: "a@x", BirthDate: domain.DatePtr(1990, 1, 1), BaseSalary: domain.FloatPtr(1)})
	f, v, _, _ := boundSellerForm(orig, store, newDepartmentStore("Books"))
	require.NoError(t, f.LoadReferenceOptions())
	f.PopulateFields()
	field(v.Email).Type("ann@x.io")

	require.NoError(t, f.Submit())
	require.Len(t, store.items, 1)
	require.Equal(t, "ann@x.io", store.items[0].Email)
	require.Equal(t, "a@x", orig.Email)
}

func TestSellerForm_InputConstraints(t *testing.T) {
	_, v, _, _ := boundSellerForm(domain.Seller{}, newSellerStore(), newDepartmentStore())
	salary := field(v.BaseSalary)
	salary.Type("12.5")
	salary.Type("12.5.")
	require.Equal(t, "12.5", salary.text)

	email := field(v.Email)
	long := "abcdefghijabcdefghijabcdefghijabcdefghij"
	email.Type(long)
	email.Type(long + "k")
	require.Len(t, email.text, domain.EmailMaxLength)
}
