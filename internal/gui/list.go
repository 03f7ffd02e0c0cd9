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
	applog "gosalesdesk/internal/log"
)

// Column projects one attribute of T into a table cell.
type Column[T any] struct {
	Title string
	Value func(T) string
}

// RefreshPolicy decides whether the list reloads after a removal prompt.
type RefreshPolicy string

const (
	// RefreshAlways reloads after every answered prompt unless the store failed.
	RefreshAlways RefreshPolicy = "always"
	// RefreshOnSuccess reloads only after a successful removal.
	RefreshOnSuccess RefreshPolicy = "success"
)

// ParseRefreshPolicy maps a config value to a policy, defaulting to RefreshAlways.
func ParseRefreshPolicy(s string) RefreshPolicy {
	if RefreshPolicy(s) == RefreshOnSuccess {
		return RefreshOnSuccess
	}
	return RefreshAlways
}

// ListConfig describes one entity type for a ListController.
type ListConfig[T any] struct {
	Kind      string // used in logs and events
	FormTitle string
	Columns   []Column[T]
	New       func() T
	Form      func(entity T) (Form, error)
	Policy    RefreshPolicy
}

// ListController keeps a table of T in sync with its store and opens edit dialogs.
type ListController[T any] struct {
	cfg         ListConfig[T]
	dialogs     *Dialogs
	alerts      Alerter
	events      EventSink
	store       Store[T]
	view        TableView[T]
	win         Window
	items       []T
	initialized bool
	log         *slog.Logger
}

func NewListController[T any](cfg ListConfig[T], dialogs *Dialogs, alerts Alerter) *ListController[T] {
	if cfg.Policy == "" {
		cfg.Policy = RefreshAlways
	}
	return &ListController[T]{
		cfg:     cfg,
		dialogs: dialogs,
		alerts:  alerts,
		log:     applog.WithComponent(cfg.Kind + "_list"),
	}
}

// SetStore attaches the data access facade.
func (c *ListController[T]) SetStore(s Store[T]) { c.store = s }

func (c *ListController[T]) SetEvents(e EventSink) { c.events = e }

// Initialize binds the column projections and sizes the table to the window.
// Later calls are no-ops.
func (c *ListController[T]) Initialize(view TableView[T], win Window) {
	if c.initialized {
		return
	}
	c.view = view
	c.win = win
	if view != nil {
		view.SetColumns(c.cfg.Columns)
		if win != nil {
			view.FitTo(win)
		}
	}
	c.initialized = true
}

// Items returns the current list. The slice is replaced on every refresh.
func (c *ListController[T]) Items() []T { return c.items }

// Refresh reloads every entity from the store and re-renders the table.
// On a store failure the user is alerted and the previous list is kept.
func (c *ListController[T]) Refresh() {
	mustBind(c.store != nil, c.cfg.Kind+" list", "store")
	ctx, cancel := storeContext()
	defer cancel()
	items, err := c.store.FindAll(ctx)
	if err != nil {
		c.log.Error("refresh failed", slog.Any("err", err))
		c.alert(TitleErrorLoading, err)
		return
	}
	c.items = append(make([]T, 0, len(items)), items...)
	c.log.Debug("refreshed", slog.Int("rows", len(c.items)))
	if c.view != nil {
		c.view.SetItems(c.items)
		// Row identity changes with every reload.
		c.view.SetRowActions(
			func(row T) { c.OnEditRequested(c.win, row) },
			c.OnRemoveRequested,
		)
	}
}

// OnDataChanged reloads the list; it makes the controller a notify.Listener.
func (c *ListController[T]) OnDataChanged() { c.Refresh() }

// OnCreateRequested opens the form for a new, unsaved entity.
func (c *ListController[T]) OnCreateRequested(parent Window) error {
	return c.openForm(parent, c.cfg.New())
}

// OnEditRequested opens the form for row. The form saves a new value and never
// mutates row.
func (c *ListController[T]) OnEditRequested(parent Window, row T) error {
	return c.openForm(parent, row)
}

func (c *ListController[T]) openForm(parent Window, entity T) error {
	mustBind(c.dialogs != nil, c.cfg.Kind+" list", "dialogs")
	c.log.Debug("open form")
	return c.dialogs.Open(parent, c.cfg.FormTitle, func() (Form, error) {
		return c.cfg.Form(entity)
	}, c)
}

// OnRemoveRequested asks for confirmation and removes row on yes. A failed
// removal is alerted and leaves the list untouched.
func (c *ListController[T]) OnRemoveRequested(row T) {
	mustBind(c.store != nil, c.cfg.Kind+" list", "store")
	mustBind(c.alerts != nil, c.cfg.Kind+" list", "alerter")
	c.alerts.Confirm("Confirmation", "Are you sure to delete?", func(a Answer) {
		if a == AnswerYes {
			ctx, cancel := storeContext()
			err := c.store.Remove(ctx, row)
			cancel()
			if err != nil {
				c.log.Error("remove failed", slog.Any("err", err))
				c.alert(TitleErrorRemoving, err)
				return
			}
			c.log.Info("record removed")
			if c.events != nil {
				c.events.Event("record_removed", map[string]string{"kind": c.cfg.Kind})
			}
		} else {
			c.log.Debug("remove declined", slog.String("answer", a.String()))
			if c.cfg.Policy == RefreshOnSuccess {
				return
			}
		}
		c.Refresh()
	})
}

// Rows returns the column titles and the formatted cells of the current list.
func (c *ListController[T]) Rows() ([]string, [][]string) {
	header := make([]string, len(c.cfg.Columns))
	for i, col := range c.cfg.Columns {
		header[i] = col.Title
	}
	rows := make([][]string, 0, len(c.items))
	for _, it := range c.items {
		row := make([]string, len(c.cfg.Columns))
		for i, col := range c.cfg.Columns {
			row[i] = col.Value(it)
		}
		rows = append(rows, row)
	}
	return header, rows
}

func (c *ListController[T]) alert(title string, err error) {
	if c.alerts != nil {
		c.alerts.ShowAlert(title, "", err.Error(), AlertError)
	}
}

// DepartmentColumns are the department table columns.
func DepartmentColumns() []Column[domain.Department] {
	return []Column[domain.Department]{
		{Title: "Id", Value: func(d domain.Department) string { return FormatID(d.ID) }},
		{Title: "Name", Value: func(d domain.Department) string { return d.Name }},
	}
}

// SellerColumns are the seller table columns.
func SellerColumns() []Column[domain.Seller] {
	return []Column[domain.Seller]{
		{Title: "Id", Value: func(s domain.Seller) string { return FormatID(s.ID) }},
		{Title: "Name", Value: func(s domain.Seller) string { return s.Name }},
		{Title: "Email", Value: func(s domain.Seller) string { return s.Email }},
		{Title: "Birth Date", Value: func(s domain.Seller) string { return FormatDate(s.BirthDate) }},
		{Title: "Base Salary", Value: func(s domain.Seller) string { return FormatSalary(s.BaseSalary) }},
		{Title: "Department", Value: func(s domain.Seller) string { return s.Department.String() }},
	}
}

// NewDepartmentList builds the department list controller.
func NewDepartmentList(d *Dialogs, alerts Alerter, store Store[domain.Department], policy RefreshPolicy) *ListController[domain.Department] {
	c := NewListController(ListConfig[domain.Department]{
		Kind:      "department",
		FormTitle: "Enter Department data",
		Columns:   DepartmentColumns(),
		New:       func() domain.Department { return domain.Department{} },
		Form:      DepartmentFormBuilder(d.Loader(), alerts, store),
		Policy:    policy,
	}, d, alerts)
	c.SetStore(store)
	return c
}

// NewSellerList builds the seller list controller.
func NewSellerList(d *Dialogs, alerts Alerter, store Store[domain.Seller], deps Store[domain.Department], policy RefreshPolicy) *ListController[domain.Seller] {
	c := NewListController(ListConfig[domain.Seller]{
		Kind:      "seller",
		FormTitle: "Enter Seller data",
		Columns:   SellerColumns(),
		New:       func() domain.Seller { return domain.Seller{} },
		Form:      SellerFormBuilder(d.Loader(), alerts, store, deps),
		Policy:    policy,
	}, d, alerts)
	c.SetStore(store)
	return c
}
