/*
Copyright (C) 2026  Carl-Philip Hänsch

	This program is free software: you can redistribute it and/or modify
	it under the terms of the GNU General Public License as published by
	the Free Software Foundation, either version 3 of the License, or
	(at your option) any later version.

	This program is distributed in the hope that it will be useful,
	but WITHOUT ANY WARRANTY; without even the implied warranty of
	MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
	GNU General Public License for more details.

	You should have received a copy of the GNU General Public License
	along with this program.  If not, see <https://www.gnu.org/licenses/>.
*/

// Package server exposes HTTP and WebSocket endpoints to compile and run
// tape-language programs on demand. It is a development/demo surface: it
// does not sandbox submitted programs, so it must never be exposed to
// untrusted callers without a separate isolation layer in front of it.
package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/dc0d/onexit"
	"github.com/gorilla/websocket"

	"github.com/bfjit/bfjit/bf"
	"github.com/bfjit/bfjit/bf/cache"
	"github.com/bfjit/bfjit/bf/store"
)

// maxCachedArtifacts bounds how many distinct compiled programs the JIT
// cache keeps native code for at once.
const maxCachedArtifacts = 256

// Server serves /run, /stream and /metrics over HTTP. Engine is optional;
// when non-nil, every /run invocation is persisted as a RunRecord.
type Server struct {
	Addr   string
	Engine store.Engine

	httpServer *http.Server
	stopSample chan struct{}
	jitCache   *cache.Cache
}

func New(addr string, engine store.Engine) *Server {
	return &Server{Addr: addr, Engine: engine, jitCache: cache.New(maxCachedArtifacts)}
}

// ListenAndServe starts the HTTP server and blocks until it is shut down.
// A graceful shutdown hook is registered with onexit so process termination
// drains in-flight requests instead of dropping them.
func (s *Server) ListenAndServe() error {
	mux := http.NewServeMux()
	mux.HandleFunc("/run", s.handleRun)
	mux.HandleFunc("/stream", s.handleStream)
	mux.HandleFunc("/metrics", s.handleMetrics)

	s.httpServer = &http.Server{
		Addr:           s.Addr,
		Handler:        s.countingMiddleware(mux),
		ReadTimeout:    30 * time.Second,
		WriteTimeout:   30 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	s.stopSample = make(chan struct{})
	startMetricsSampler(s.stopSample)

	onexit.Register(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.httpServer.Shutdown(ctx)
		close(s.stopSample)
	})

	return s.httpServer.ListenAndServe()
}

func (s *Server) countingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&totalRequests, 1)
		atomic.AddInt64(&activeConnections, 1)
		defer atomic.AddInt64(&activeConnections, -1)
		next.ServeHTTP(w, r)
	})
}

// runRequest is the POST /run body.
type runRequest struct {
	Source string `json:"source"`
	Mode   string `json:"mode"` // "interpret" or "jit"
	Stdin  string `json:"stdin"`
}

type runResponse struct {
	Output     string `json:"output"`
	Status     string `json:"status"`
	Error      string `json:"error,omitempty"`
	DurationMS int64  `json:"duration_ms"`
}

func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "POST required", http.StatusMethodNotAllowed)
		return
	}
	var req runRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	resp, rec := s.run(req)
	if s.Engine != nil {
		s.Engine.WriteRun(rec)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

func (s *Server) run(req runRequest) (runResponse, store.RunRecord) {
	started := time.Now()
	mode := store.ModeInterpret
	if req.Mode == "jit" {
		mode = store.ModeJIT
	}

	prog, err := bf.Parse(req.Source)
	if err != nil {
		return s.fail(req, started, mode, store.StatusParseError, err)
	}

	var out bytes.Buffer
	in := bytes.NewBufferString(req.Stdin)

	if mode == store.ModeJIT {
		code, cerr := s.jitCache.Compile(req.Source, func() ([]byte, error) { return bf.Lower(prog) })
		if cerr != nil {
			return s.fail(req, started, mode, store.StatusLoaderError, cerr)
		}
		artifact, lerr := bf.LoadArtifact(code)
		if lerr != nil {
			return s.fail(req, started, mode, store.StatusLoaderError, lerr)
		}
		defer artifact.Close()
		tape := make([]byte, bf.JITTapeSize)
		if rerr := runJITCapturingStdout(artifact, tape, &out); rerr != nil {
			return s.fail(req, started, mode, store.StatusRuntimeError, rerr)
		}
	} else {
		vm := &bf.Interpreter{}
		if rerr := vm.Run(prog, in, &out); rerr != nil {
			return s.fail(req, started, mode, store.StatusRuntimeError, rerr)
		}
	}

	dur := time.Since(started)
	resp := runResponse{Output: out.String(), Status: string(store.StatusOK), DurationMS: dur.Milliseconds()}
	rec := store.RunRecord{
		ID:         store.NewRunID(),
		Mode:       mode,
		StartedAt:  started,
		Duration:   dur,
		Status:     store.StatusOK,
		Output:     out.Bytes(),
	}
	return resp, rec
}

func (s *Server) fail(req runRequest, started time.Time, mode store.Mode, status store.Status, err error) (runResponse, store.RunRecord) {
	dur := time.Since(started)
	resp := runResponse{Status: string(status), Error: err.Error(), DurationMS: dur.Milliseconds()}
	rec := store.RunRecord{
		ID:        store.NewRunID(),
		Mode:      mode,
		StartedAt: started,
		Duration:  dur,
		Status:    status,
	}
	return resp, rec
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	snap := loadSnapshot()
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"active_connections":    atomic.LoadInt64(&activeConnections),
		"total_requests":        atomic.LoadInt64(&totalRequests),
		"requests_per_second":   snap.rps,
		"max_connections_10min": snap.maxConn10min,
	})
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// handleStream upgrades to a WebSocket and runs the submitted program under
// the interpreter, pushing one text frame per internal output flush. The
// JIT path is synchronous machine code with no flush hook to intercept, so
// it is not offered here.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	source := r.URL.Query().Get("source")
	prog, err := bf.Parse(source)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer ws.Close()

	vm := &bf.Interpreter{}
	writer := &wsFrameWriter{ws: ws}
	if runErr := vm.Run(prog, bytes.NewReader(nil), writer); runErr != nil {
		ws.WriteMessage(websocket.TextMessage, []byte("error: "+runErr.Error()))
		return
	}
	ws.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}

// wsFrameWriter turns every Write call into one WebSocket text frame; since
// Interpreter.Run buffers output with bufio.Writer, one Write corresponds
// to one flush.
type wsFrameWriter struct {
	ws *websocket.Conn
}

func (w *wsFrameWriter) Write(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	if err := w.ws.WriteMessage(websocket.TextMessage, p); err != nil {
		return 0, err
	}
	return len(p), nil
}
