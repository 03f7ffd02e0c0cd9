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
	"errors"
	"log/slog"

	"gosalesdesk/internal/domain"
	applog "gosalesdesk/internal/log"
	"gosalesdesk/internal/notify"
)

// Dialogs opens form controllers inside modal surfaces owned by a parent window.
type Dialogs struct {
	loader ViewLoader
	host   DialogHost
	alerts Alerter
	events EventSink
	log    *slog.Logger
	open   int
}

func NewDialogs(loader ViewLoader, host DialogHost, alerts Alerter) *Dialogs {
	return &Dialogs{loader: loader, host: host, alerts: alerts, log: applog.WithComponent("dialogs")}
}

// SetEvents installs an optional sink handed to every form opened from now on.
func (d *Dialogs) SetEvents(e EventSink) { d.events = e }

// Loader returns the view loader used to build forms.
func (d *Dialogs) Loader() ViewLoader { return d.loader }

// OpenCount returns the number of dialogs currently shown.
func (d *Dialogs) OpenCount() int { return d.open }

// Open builds a form, subscribes observer, populates the fields and shows the
// form modally over parent. build must load the view, bind the entity and
// stores, and load reference options. If it fails the user is alerted, nothing
// is shown and the error is returned.
func (d *Dialogs) Open(parent Window, title string, build func() (Form, error), observer notify.Listener) error {
	mustBind(d.host != nil, "dialogs", "dialog host")
	l := applog.WithOperation(d.log, "open").With(slog.String("title", title))

	f, err := build()
	if err != nil {
		var ve *ViewError
		if errors.As(err, &ve) {
			l.Error("view load failed", slog.Any("err", err))
			d.alert(TitleErrorView, err)
		} else {
			l.Error("form setup failed", slog.Any("err", err))
			d.alert(TitleErrorLoading, err)
		}
		return err
	}
	if d.events != nil {
		if s, ok := f.(interface{ SetEvents(EventSink) }); ok {
			s.SetEvents(d.events)
		}
	}
	f.Subscribe(observer)
	f.PopulateFields()

	m := d.host.NewModal(parent, title, f.Content())
	f.Attach(m)
	d.open++
	l.Debug("dialog shown")
	m.ShowAndWait(func() {
		d.open--
		l.Debug("dialog closed")
	})
	return nil
}

func (d *Dialogs) alert(title string, err error) {
	if d.alerts != nil {
		d.alerts.ShowAlert(title, "", err.Error(), AlertError)
	}
}

// DepartmentFormBuilder returns a build function for Dialogs.Open that edits entity.
func DepartmentFormBuilder(loader ViewLoader, alerts Alerter, store Store[domain.Department]) func(domain.Department) (Form, error) {
	return func(entity domain.Department) (Form, error) {
		v, err := LoadView[*DepartmentFormView](loader, ViewDepartmentForm)
		if err != nil {
			return nil, err
		}
		f := NewDepartmentForm(v, alerts)
		f.Bind(entity, store)
		return f, nil
	}
}

// SellerFormBuilder returns a build function for Dialogs.Open that edits entity
// and offers the departments from deps.
func SellerFormBuilder(loader ViewLoader, alerts Alerter, store Store[domain.Seller], deps Store[domain.Department]) func(domain.Seller) (Form, error) {
	return func(entity domain.Seller) (Form, error) {
		v, err := LoadView[*SellerFormView](loader, ViewSellerForm)
		if err != nil {
			return nil, err
		}
		f := NewSellerForm(v, alerts)
		f.Bind(entity, store, deps)
		if err := f.LoadReferenceOptions(); err != nil {
			return nil, err
		}
		return f, nil
	}
}
