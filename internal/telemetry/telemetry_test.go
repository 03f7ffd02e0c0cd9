/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package telemetry

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"
)

type sink struct {
	mu      sync.Mutex
	events  []map[string]any
	crashes [][]byte
}

func (s *sink) server(t *testing.T) *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/events", func(w http.ResponseWriter, r *http.Request) {
		var m map[string]any
		_ = json.NewDecoder(r.Body).Decode(&m)
		s.mu.Lock()
		s.events = append(s.events, m)
		s.mu.Unlock()
	})
	mux.HandleFunc("/crash", func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		s.mu.Lock()
		s.crashes = append(s.crashes, b)
		s.mu.Unlock()
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_SendsEventsWithSessionAndFiltersProps(t *testing.T) {
	s := &sink{}
	srv := s.server(t)
	c := New(Config{OptIn: true, EventsURL: srv.URL + "/events", Timeout: 2 * time.Second})

	c.Event(EventRecordSaved, map[string]string{"kind": "seller", "name": "Alex Blue"})
	c.Event(EventAppStart, nil)
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	c.Close(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(s.events))
	}
	first := s.events[0]
	if first["name"] != EventRecordSaved || first["kind"] != "seller" {
		t.Fatalf("unexpected event %v", first)
	}
	if first["session"] != c.Session() || c.Session() == "" {
		t.Fatalf("session mismatch: %v vs %q", first["session"], c.Session())
	}
	if s.events[1]["session"] != c.Session() {
		t.Fatalf("session must be stable within a run")
	}
	for k := range first {
		if k == "Alex Blue" || first[k] == "Alex Blue" {
			t.Fatalf("record data leaked into payload: %v", first)
		}
	}
}

func TestClient_DisabledIsNoop(t *testing.T) {
	s := &sink{}
	srv := s.server(t)
	c := New(Config{OptIn: false, EventsURL: srv.URL + "/events", CrashURL: srv.URL + "/crash"})
	c.Event(EventAppStart, nil)
	c.UploadCrash([]byte("boom"))
	c.Close(context.Background())

	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.events) != 0 || len(s.crashes) != 0 {
		t.Fatalf("opted-out client must not send, got %d events %d crashes", len(s.events), len(s.crashes))
	}
	var nilClient *Client
	if nilClient.Enabled() {
		t.Fatalf("nil client must be disabled")
	}
	nilClient.Event(EventAppStart, nil)
	nilClient.Close(context.Background())
}

func TestClient_UploadCrash(t *testing.T) {
	s := &sink{}
	srv := s.server(t)
	c := New(Config{OptIn: true, CrashURL: srv.URL + "/crash", Timeout: 2 * time.Second})
	defer c.Close(context.Background())

	c.UploadCrash([]byte("panic: boom"))

	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.crashes) != 1 || string(s.crashes[0]) != "panic: boom" {
		t.Fatalf("unexpected crash uploads %q", s.crashes)
	}
}

func TestFromEnv(t *testing.T) {
	t.Setenv("GSD_TELEMETRY_URL", " https://t.example/e ")
	t.Setenv("GSD_TELEMETRY_TIMEOUT_MS", "250")
	cfg := FromEnv(true)
	if !cfg.OptIn || cfg.EventsURL != "https://t.example/e" || cfg.Timeout != 250*time.Millisecond {
		t.Fatalf("unexpected config %+v", cfg)
	}
	t.Setenv("GSD_TELEMETRY_OPT_IN", "no")
	if FromEnv(true).OptIn {
		t.Fatalf("env must be able to opt out")
	}
}
