/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package telemetry sends anonymous, opt-in usage events and crash reports.
// Nothing is sent unless the user opted in and an endpoint is configured.
package telemetry

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	applog "gosalesdesk/internal/log"
	"gosalesdesk/internal/version"
)

// Event names.
const (
	EventAppStart      = "app_start"
	EventRecordSaved   = "record_saved"
	EventRecordRemoved = "record_removed"
	EventExport        = "export"
)

// allowedProps keeps free-form record data out of payloads.
var allowedProps = map[string]bool{"kind": true, "view": true, "driver": true, "format": true}

// Config holds endpoints and the opt-in flag.
//
// Environment (read by FromEnv):
//   - GSD_TELEMETRY_OPT_IN: 1/true/yes/on enables sending
//   - GSD_TELEMETRY_URL: endpoint receiving JSON events
//   - GSD_CRASH_UPLOAD_URL: endpoint receiving crash reports
//   - GSD_TELEMETRY_TIMEOUT_MS: request timeout, default 1500
type Config struct {
	OptIn     bool
	EventsURL string
	CrashURL  string
	Timeout   time.Duration
}

// FromEnv reads Config from the environment; optIn is the config file value,
// which the environment may override.
func FromEnv(optIn bool) Config {
	cfg := Config{
		OptIn:     optIn,
		EventsURL: strings.TrimSpace(os.Getenv("GSD_TELEMETRY_URL")),
		CrashURL:  strings.TrimSpace(os.Getenv("GSD_CRASH_UPLOAD_URL")),
		Timeout:   1500 * time.Millisecond,
	}
	if v, ok := os.LookupEnv("GSD_TELEMETRY_OPT_IN"); ok {
		cfg.OptIn = parseBool(v)
	}
	if ms := strings.TrimSpace(os.Getenv("GSD_TELEMETRY_TIMEOUT_MS")); ms != "" {
		if d, err := time.ParseDuration(ms + "ms"); err == nil && d > 0 {
			cfg.Timeout = d
		}
	}
	return cfg
}

func parseBool(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}

// Client queues events and posts them from one background goroutine.
// Event never blocks; when the queue is full the event is dropped.
type Client struct {
	cfg     Config
	session string
	log     *slog.Logger
	http    *http.Client
	q       chan map[string]any
	done    chan struct{}
	wg      sync.WaitGroup
	once    sync.Once
}

// New starts a client with a fresh anonymous session id.
func New(cfg Config) *Client {
	c := &Client{
		cfg:     cfg,
		session: uuid.NewString(),
		log:     applog.WithComponent("telemetry"),
		http:    &http.Client{Timeout: cfg.Timeout},
		q:       make(chan map[string]any, 64),
		done:    make(chan struct{}),
	}
	c.wg.Add(1)
	go c.loop()
	return c
}

// Enabled reports whether events will actually be sent.
func (c *Client) Enabled() bool { return c != nil && c.cfg.OptIn && c.cfg.EventsURL != "" }

// Session returns the anonymous id attached to every event of this run.
func (c *Client) Session() string {
	if c == nil {
		return ""
	}
	return c.session
}

// Event queues name with the allowed subset of props.
func (c *Client) Event(name string, props map[string]string) {
	if !c.Enabled() || name == "" {
		return
	}
	payload := map[string]any{
		"name":    name,
		"session": c.session,
		"ts":      time.Now().UTC().Format(time.RFC3339Nano),
		"version": version.String(),
		"os":      runtime.GOOS,
		"arch":    runtime.GOARCH,
	}
	for k, v := range props {
		if allowedProps[k] {
			payload[k] = v
		}
	}
	select {
	case c.q <- payload:
	default:
		c.log.Debug("telemetry queue full, event dropped", slog.String("event", name))
	}
}

// Close drains queued events, bounded by ctx, and stops the sender.
func (c *Client) Close(ctx context.Context) {
	if c == nil {
		return
	}
	c.once.Do(func() { close(c.done) })
	finished := make(chan struct{})
	go func() { c.wg.Wait(); close(finished) }()
	select {
	case <-finished:
	case <-ctx.Done():
	}
}

func (c *Client) loop() {
	defer c.wg.Done()
	for {
		select {
		case item := <-c.q:
			c.post(c.cfg.EventsURL, "application/json", item)
		case <-c.done:
			for {
				select {
				case item := <-c.q:
					c.post(c.cfg.EventsURL, "application/json", item)
				default:
					return
				}
			}
		}
	}
}

func (c *Client) post(url, contentType string, item any) {
	var body []byte
	switch v := item.(type) {
	case []byte:
		body = v
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return
		}
		body = b
	}
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return
	}
	req.Header.Set("Content-Type", contentType)
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Debug("telemetry send failed", slog.Any("err", err))
		return
	}
	_ = resp.Body.Close()
}

// UploadCrash posts a crash report synchronously when opted in. It is called
// right before the process exits, so it does not go through the queue.
func (c *Client) UploadCrash(report []byte) {
	if c == nil || !c.cfg.OptIn || c.cfg.CrashURL == "" {
		return
	}
	c.post(c.cfg.CrashURL, "text/plain; charset=utf-8", append([]byte(nil), report...))
}
