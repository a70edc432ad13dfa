package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/njchilds90/nthderiv"
)

const maxBodyBytes = 1 << 20 // 1 MiB

const requestIDHeader = "X-Request-ID"

func newMux(tools *nthderiv.ToolHandler, log logrus.FieldLogger) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/tool", toolHandler(tools, log))

	mux.HandleFunc("/schema", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, nthderiv.MCPToolSpec())
	})

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"status": "ok",
			"time":   time.Now().UTC().Format(time.RFC3339),
		})
	})
	return mux
}

// toolHandler serves POST /tool. Each call gets a request id, taken from
// the X-Request-ID header when the client sends one.
func toolHandler(tools *nthderiv.ToolHandler, log logrus.FieldLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)
		reqLog := log.WithField("request_id", id)

		defer func() {
			if rec := recover(); rec != nil {
				reqLog.WithField("stack", string(debug.Stack())).Errorf("panic in /tool: %v", rec)
				http.Error(w, "internal server error", http.StatusInternalServerError)
			}
		}()

		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
		defer r.Body.Close()

		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()

		var req nthderiv.ToolRequest
		if err := dec.Decode(&req); err != nil {
			writeBadRequest(w, err.Error())
			return
		}
		if dec.More() {
			writeBadRequest(w, "invalid JSON: trailing data")
			return
		}

		start := time.Now()
		resp := tools.Handle(req)
		entry := reqLog.WithFields(logrus.Fields{
			"tool":     req.Tool,
			"duration": time.Since(start).String(),
		})
		if resp.Error != "" {
			entry.WithField("code", string(resp.Code)).Warn(resp.Error)
		} else {
			entry.Info("tool call handled")
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}
}

func writeBadRequest(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg, "code": string(nthderiv.CodeInvalidRequest)})
}
