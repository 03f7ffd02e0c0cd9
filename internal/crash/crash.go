/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package crash turns an unrecovered panic into a report file and a non-zero exit.
package crash

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"runtime/debug"
	"time"

	applog "gosalesdesk/internal/log"
	"gosalesdesk/internal/version"
)

// exitFn is swapped in tests so Recover does not end the test binary.
var exitFn = os.Exit

// Uploader receives the serialized report when the user opted in.
type Uploader interface {
	UploadCrash(report []byte)
}

// ReportsDir is where crash reports go below the data directory.
const ReportsDir = "crash-reports"

// Recover captures a panic, logs it with a stack trace, writes a report under
// dataDir and exits with status 2. up may be nil.
//
// Usage: defer crash.Recover(dataDir, tel)
func Recover(dataDir string, up Uploader) {
	r := recover()
	if r == nil {
		return
	}
	l := applog.WithComponent("crash")
	stack := debug.Stack()
	l.Error("panic recovered", slog.Any("panic", r), slog.String("stack", string(stack)))

	report := buildReport(r, stack, time.Now())
	path, err := writeReport(dataDir, report)
	if err != nil {
		l.Error("write crash report failed", slog.Any("err", err))
	}
	if up != nil {
		up.UploadCrash(report)
	}

	_, _ = fmt.Fprintf(os.Stderr, "A fatal error occurred. A crash report was saved to: %s\n", path)
	_, _ = fmt.Fprintf(os.Stderr, "Version: %s\nOS/Arch: %s/%s\n", version.String(), runtime.GOOS, runtime.GOARCH)
	exitFn(2)
}

func buildReport(panicVal any, stack []byte, now time.Time) []byte {
	var buf bytes.Buffer
	_, _ = fmt.Fprintf(&buf, "GoSalesDesk Crash Report\n")
	_, _ = fmt.Fprintf(&buf, "Timestamp: %s\n", now.Format(time.RFC3339))
	_, _ = fmt.Fprintf(&buf, "Version: %s\n", version.String())
	_, _ = fmt.Fprintf(&buf, "OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
	if err, ok := panicVal.(error); ok {
		_, _ = fmt.Fprintf(&buf, "Error type: %T\n", err)
	}
	_, _ = fmt.Fprintf(&buf, "\nPanic: %v\n\n", panicVal)
	_, _ = fmt.Fprintf(&buf, "Stack:\n%s\n", stack)
	return buf.Bytes()
}

// writeReport stores report as crash-YYYYMMDD-HHMMSS.log, falling back to the
// temp dir when dataDir is empty or not writable.
func writeReport(dataDir string, report []byte) (string, error) {
	dir := os.TempDir()
	if dataDir != "" {
		d := filepath.Join(dataDir, ReportsDir)
		if err := os.MkdirAll(d, 0o755); err == nil {
			dir = d
		}
	}
	path := filepath.Join(dir, fmt.Sprintf("crash-%s.log", time.Now().Format("20060102-150405")))
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return path, err
	}
	if _, err := f.Write(report); err != nil {
		_ = f.Close()
		return path, err
	}
	_ = f.Sync()
	return path, f.Close()
}
