/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package notify is an in-process change notification channel.
// Observers are told "the data changed" with no payload; delivery is
// synchronous and in subscription order.
package notify

// Listener is informed after underlying data has changed.
type Listener interface {
	OnDataChanged()
}

// ListenerFunc adapts a plain function to Listener.
type ListenerFunc func()

func (f ListenerFunc) OnDataChanged() { f() }

// Channel holds an ordered list of listeners. The zero value is ready to use.
// It is not safe for concurrent use; all calls happen on the UI goroutine.
type Channel struct {
	listeners []Listener
}

// Subscribe appends l. The same listener may be subscribed more than once
// and is then notified once per subscription.
func (c *Channel) Subscribe(l Listener) {
	if l == nil {
		return
	}
	c.listeners = append(c.listeners, l)
}

// Notify calls every listener in subscription order and returns after the last one.
func (c *Channel) Notify() {
	for _, l := range c.listeners {
		l.OnDataChanged()
	}
}

// Len returns the number of subscriptions.
func (c *Channel) Len() int { return len(c.listeners) }
