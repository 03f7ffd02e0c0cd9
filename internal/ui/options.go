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
	"gosalesdesk/internal/crash"
	"gosalesdesk/internal/domain"
	"gosalesdesk/internal/exchange"
	"gosalesdesk/internal/gui"
)

// Options carries what the desktop shell needs from the CLI.
type Options struct {
	Departments gui.Store[domain.Department]
	Sellers     gui.Store[domain.Seller]
	Policy      gui.RefreshPolicy
	ImportTx    exchange.Tx // scopes a JSON import to one transaction
	Width       int
	Height      int
	Events      gui.EventSink  // optional
	DataDir     string         // crash reports
	Crash       crash.Uploader // optional
}
