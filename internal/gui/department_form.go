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
	"log/slog"

	"gosalesdesk/internal/domain"
	"gosalesdesk/internal/validation"
)

// DepartmentForm edits one department per dialog session.
type DepartmentForm struct {
	formBase
	view   *DepartmentFormView
	entity *domain.Department
	store  Store[domain.Department]
}

// NewDepartmentForm wires a controller to its view. Save and cancel buttons
// call Submit and Cancel.
func NewDepartmentForm(view *DepartmentFormView, alerts Alerter) *DepartmentForm {
	f := &DepartmentForm{formBase: newFormBase("department", alerts), view: view}
	constrain(view.ID, IntegerOnly)
	constrain(view.Name, MaxLength(domain.DepartmentNameMaxLength))
	if view.Actions != nil {
		view.Actions.OnSave(func() { _ = f.Submit() })
		view.Actions.OnCancel(f.Cancel)
	}
	return f
}

// Bind injects the editing target and its store.
func (f *DepartmentForm) Bind(entity domain.Department, store Store[domain.Department]) {
	f.entity = &entity
	f.store = store
}

// Entity returns the bound entity; after a successful save it is the saved record.
func (f *DepartmentForm) Entity() (domain.Department, bool) {
	if f.entity == nil {
		return domain.Department{}, false
	}
	return *f.entity, true
}

func (f *DepartmentForm) Content() Content { return f.view.Root }

// PopulateFields copies the bound entity into the inputs.
func (f *DepartmentForm) PopulateFields() {
	mustBind(f.entity != nil, "department form", "entity")
	f.view.ID.SetText(FormatID(f.entity.ID))
	f.view.Name.SetText(f.entity.Name)
}

// Submit validates the inputs and saves a new department value built from them.
// It returns a *validation.Error when required fields are empty and the store
// error when saving failed; the dialog stays open in both cases.
func (f *DepartmentForm) Submit() error {
	mustBind(f.entity != nil, "department form", "entity")
	mustBind(f.store != nil, "department form", "store")

	candidate, verr := f.candidate()
	showFieldError(f.view.NameError, verr, "name")
	if err := verr.OrNil(); err != nil {
		f.log.Debug("validation failed", slog.Any("fields", verr.Fields()))
		return err
	}
	saved, err := persist(&f.formBase, f.store, candidate)
	if err != nil {
		return err
	}
	f.entity = &saved
	f.finishSave(candidate.IsNew())
	return nil
}

func (f *DepartmentForm) candidate() (domain.Department, *validation.Error) {
	verr := validation.New("Validation error")
	d := domain.Department{
		ID:   TryParseInt(f.view.ID.Text()),
		Name: f.view.Name.Text(),
	}
	if blank(d.Name) {
		verr.Add("name", validation.MsgRequired)
	}
	return d, verr
}
