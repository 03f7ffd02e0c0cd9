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
	"fmt"

	"gosalesdesk/internal/domain"
)

// Content is an opaque root node produced by the host toolkit.
type Content = any

// Window is a top-level surface that can own modal dialogs.
type Window interface {
	Title() string
	Close()
}

// Modal is a dialog surface that blocks input to its parent window while shown.
// ShowAndWait displays it and calls closed exactly once after it is gone.
type Modal interface {
	ShowAndWait(closed func())
	Close()
}

// DialogHost creates modal surfaces owned by a parent window.
type DialogHost interface {
	NewModal(parent Window, title string, content Content) Modal
}

type AlertKind int

const (
	AlertError AlertKind = iota
	AlertWarning
	AlertInfo
)

// Answer is the outcome of a confirmation prompt.
type Answer int

const (
	AnswerDismissed Answer = iota
	AnswerYes
	AnswerNo
)

func (a Answer) String() string {
	switch a {
	case AnswerYes:
		return "yes"
	case AnswerNo:
		return "no"
	default:
		return "dismissed"
	}
}

// Alerter shows blocking alerts and yes/no prompts. Confirm reports the answer
// through the callback once the prompt is closed.
type Alerter interface {
	ShowAlert(title, header, content string, kind AlertKind)
	Confirm(title, message string, answer func(Answer))
}

// EventSink receives usage events such as saved or removed records. Optional.
type EventSink interface {
	Event(name string, props map[string]string)
}

// Store is the data access facade for one entity type.
type Store[T any] interface {
	FindAll(ctx context.Context) ([]T, error)
	SaveOrUpdate(ctx context.Context, entity T) (T, error)
	Remove(ctx context.Context, entity T) error
}

// Names of the view definitions a ViewLoader must resolve.
const (
	ViewDepartmentList = "DepartmentList"
	ViewSellerList     = "SellerList"
	ViewDepartmentForm = "DepartmentForm"
	ViewSellerForm     = "SellerForm"
	ViewAbout          = "About"
)

// ViewLoader resolves a named view definition into a freshly built view value.
type ViewLoader interface {
	Load(name string) (any, error)
}

// ViewError reports that a view definition could not be resolved or had the wrong shape.
type ViewError struct {
	View string
	Err  error
}

func (e *ViewError) Error() string { return fmt.Sprintf("load view %q: %v", e.View, e.Err) }
func (e *ViewError) Unwrap() error { return e.Err }

// LoadView loads name and asserts the result to V. Every failure is a *ViewError.
func LoadView[V any](l ViewLoader, name string) (V, error) {
	var zero V
	if l == nil {
		return zero, &ViewError{View: name, Err: errors.New("no view loader")}
	}
	raw, err := l.Load(name)
	if err != nil {
		var ve *ViewError
		if errors.As(err, &ve) {
			return zero, err
		}
		return zero, &ViewError{View: name, Err: err}
	}
	v, ok := raw.(V)
	if !ok {
		return zero, &ViewError{View: name, Err: fmt.Errorf("unexpected view type %T", raw)}
	}
	return v, nil
}

// TextField is an editable single-line input. Constrain installs a filter the
// host applies to every edit.
type TextField interface {
	Text() string
	SetText(string)
	Constrain(Constraint)
}

// ErrorLabel shows a field error next to its input.
type ErrorLabel interface {
	Show(msg string)
	Clear()
}

// DepartmentPicker offers the departments a seller may reference.
type DepartmentPicker interface {
	SetOptions(opts []domain.Department)
	// Select picks the option whose identity matches d and reports whether one did.
	Select(d domain.Department) bool
	SelectFirst()
	Selected() *domain.Department
}

// ActionBar carries the save and cancel buttons of a form.
type ActionBar interface {
	OnSave(func())
	OnCancel(func())
}

// TableView renders a list of entities with per-row edit and remove buttons.
type TableView[T any] interface {
	SetColumns(cols []Column[T])
	SetItems(items []T)
	SetRowActions(edit, remove func(T))
	FitTo(w Window)
}

// DepartmentFormView is the widget set of the department editing dialog.
type DepartmentFormView struct {
	Root      Content
	ID        TextField
	Name      TextField
	NameError ErrorLabel
	Actions   ActionBar
}

// SellerFormView is the widget set of the seller editing dialog.
type SellerFormView struct {
	Root            Content
	ID              TextField
	Name            TextField
	Email           TextField
	BirthDate       TextField
	BaseSalary      TextField
	Department      DepartmentPicker
	NameError       ErrorLabel
	EmailError      ErrorLabel
	BirthDateError  ErrorLabel
	BaseSalaryError ErrorLabel
	Actions         ActionBar
}

// ListView is the widget set of a list screen.
type ListView[T any] struct {
	Root  Content
	Table TableView[T]
	OnNew func(func())
}

// PreconditionError is raised (as a panic) when a controller is used before
// its dependencies were bound. It signals a programming defect.
type PreconditionError struct {
	Component string
	Missing   string
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("%s: %s is not bound", e.Component, e.Missing)
}

func mustBind(ok bool, component, missing string) {
	if !ok {
		panic(&PreconditionError{Component: component, Missing: missing})
	}
}
