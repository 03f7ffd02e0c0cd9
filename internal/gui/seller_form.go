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

// SellerForm edits one seller per dialog session. Besides its own store it
// reads departments to offer them in the picker.
type SellerForm struct {
	formBase
	view        *SellerFormView
	entity      *domain.Seller
	store       Store[domain.Seller]
	departments Store[domain.Department]
}

func NewSellerForm(view *SellerFormView, alerts Alerter) *SellerForm {
	f := &SellerForm{formBase: newFormBase("seller", alerts), view: view}
	constrain(view.ID, IntegerOnly)
	constrain(view.Name, MaxLength(domain.SellerNameMaxLength))
	constrain(view.Email, MaxLength(domain.EmailMaxLength))
	constrain(view.BaseSalary, DecimalOnly)
	if view.Actions != nil {
		view.Actions.OnSave(func() { _ = f.Submit() })
		view.Actions.OnCancel(f.Cancel)
	}
	return f
}

// Bind injects the editing target, its store and the department store used
// for the picker options.
func (f *SellerForm) Bind(entity domain.Seller, store Store[domain.Seller], departments Store[domain.Department]) {
	f.entity = &entity
	f.store = store
	f.departments = departments
}

func (f *SellerForm) Entity() (domain.Seller, bool) {
	if f.entity == nil {
		return domain.Seller{}, false
	}
	return *f.entity, true
}

func (f *SellerForm) Content() Content { return f.view.Root }

// LoadReferenceOptions fills the department picker from the department store.
func (f *SellerForm) LoadReferenceOptions() error {
	mustBind(f.departments != nil, "seller form", "department store")
	ctx, cancel := storeContext()
	defer cancel()
	deps, err := f.departments.FindAll(ctx)
	if err != nil {
		f.log.Error("load departments failed", slog.Any("err", err))
		return err
	}
	f.view.Department.SetOptions(deps)
	return nil
}

// PopulateFields copies the bound entity into the inputs. Without a department
// reference the first option is preselected.
func (f *SellerForm) PopulateFields() {
	mustBind(f.entity != nil, "seller form", "entity")
	e := f.entity
	f.view.ID.SetText(FormatID(e.ID))
	f.view.Name.SetText(e.Name)
	f.view.Email.SetText(e.Email)
	f.view.BaseSalary.SetText(FormatSalary(e.BaseSalary))
	f.view.BirthDate.SetText(FormatDate(e.BirthDate))
	if e.Department == nil || !f.view.Department.Select(*e.Department) {
		f.view.Department.SelectFirst()
	}
}

// Submit validates the inputs and saves a new seller value built from them.
// All empty required fields are reported together.
func (f *SellerForm) Submit() error {
	mustBind(f.entity != nil, "seller form", "entity")
	mustBind(f.store != nil, "seller form", "store")

	candidate, verr := f.candidate()
	showFieldError(f.view.NameError, verr, "name")
	showFieldError(f.view.EmailError, verr, "email")
	showFieldError(f.view.BirthDateError, verr, "birthDate")
	showFieldError(f.view.BaseSalaryError, verr, "baseSalary")
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

func (f *SellerForm) candidate() (domain.Seller, *validation.Error) {
	verr := validation.New("Validation error")
	v := f.view
	s := domain.Seller{
		ID:         TryParseInt(v.ID.Text()),
		Name:       v.Name.Text(),
		Email:      v.Email.Text(),
		BirthDate:  TryParseDate(v.BirthDate.Text()),
		BaseSalary: TryParseFloat(v.BaseSalary.Text()),
	}
	if v.Department != nil {
		s.Department = v.Department.Selected()
	}
	if blank(s.Name) {
		verr.Add("name", validation.MsgRequired)
	}
	if blank(s.Email) {
		verr.Add("email", validation.MsgRequired)
	}
	if s.BirthDate == nil {
		verr.Add("birthDate", validation.MsgRequired)
	}
	if s.BaseSalary == nil {
		verr.Add("baseSalary", validation.MsgRequired)
	}
	return s, verr
}
