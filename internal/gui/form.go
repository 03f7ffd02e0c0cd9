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
	"log/slog"
	"time"

	applog "gosalesdesk/internal/log"
	"gosalesdesk/internal/notify"
	"gosalesdesk/internal/validation"
)

// Alert titles shown by the controllers.
const (
	TitleErrorSaving   = "Error saving object"
	TitleErrorRemoving = "Error removing object"
	TitleErrorLoading  = "Error loading data"
	TitleErrorView     = "Error loading view"
)

// storeTimeout bounds every synchronous store call made from the UI goroutine.
const storeTimeout = 10 * time.Second

func storeContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), storeTimeout)
}

// Form is an editing dialog controller as seen by the dialog manager.
type Form interface {
	Subscribe(l notify.Listener)
	PopulateFields()
	Content() Content
	Attach(stage Modal)
}

// formBase holds what every form controller shares: listeners, the owning
// modal, alerting and logging.
type formBase struct {
	kind      string
	alerts    Alerter
	events    EventSink
	listeners notify.Channel
	stage     Modal
	log       *slog.Logger
}

func newFormBase(kind string, alerts Alerter) formBase {
	return formBase{
		kind:   kind,
		alerts: alerts,
		log:    applog.WithComponent(kind + "_form"),
	}
}

// Subscribe registers l to be notified after every successful save.
func (b *formBase) Subscribe(l notify.Listener) { b.listeners.Subscribe(l) }

// Attach records the modal surface the form closes on success or cancel.
func (b *formBase) Attach(stage Modal) { b.stage = stage }

// SetEvents installs an optional usage event sink.
func (b *formBase) SetEvents(e EventSink) { b.events = e }

// Cancel closes the dialog without saving or notifying.
func (b *formBase) Cancel() {
	b.log.Debug("edit cancelled")
	b.closeStage()
}

func (b *formBase) closeStage() {
	if b.stage != nil {
		b.stage.Close()
	}
}

// persist saves candidate and alerts on failure. The dialog stays open on error.
func persist[T any](b *formBase, store Store[T], candidate T) (T, error) {
	ctx, cancel := storeContext()
	defer cancel()
	saved, err := store.SaveOrUpdate(ctx, candidate)
	if err != nil {
		b.log.Error("save failed", slog.Any("err", err))
		if b.alerts != nil {
			b.alerts.ShowAlert(TitleErrorSaving, "", err.Error(), AlertError)
		}
		return candidate, err
	}
	return saved, nil
}

// finishSave notifies listeners, then closes the stage.
func (b *formBase) finishSave(created bool) {
	b.log.Info("record saved", slog.Bool("created", created))
	b.listeners.Notify()
	if b.events != nil {
		b.events.Event("record_saved", map[string]string{"kind": b.kind})
	}
	b.closeStage()
}

// showFieldError sets label to the field's message or clears it.
func showFieldError(label ErrorLabel, v *validation.Error, field string) {
	if label == nil {
		return
	}
	if v != nil && v.Has(field) {
		label.Show(v.Message(field))
		return
	}
	label.Clear()
}

func constrain(f TextField, c Constraint) {
	if f != nil {
		f.Constrain(c)
	}
}
