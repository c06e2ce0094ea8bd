// Package api exposes the conversation over HTTP (the web UI's backend) and
// over MCP stdio.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/kalambet/docchat/internal/chat"
	"github.com/kalambet/docchat/internal/extract"
	"github.com/kalambet/docchat/internal/storage"
)

const maxChatBodySize = 1 << 20 // 1MB

// Deps holds what the HTTP layer needs. Store is optional; without it the
// audit endpoints are not registered and uploads are not recorded.
type Deps struct {
	Session        *chat.Session
	Chat           *chat.Service
	Store          *storage.Store
	MaxUploadBytes int
	UI             http.Handler // optional embedded front-end, mounted at /
}

// NewHandler builds the router.
func NewHandler(deps Deps) http.Handler {
	r := chi.NewRouter()

	r.Get("/health", handleHealth)
	r.Post("/api/upload", handleUpload(deps))
	r.Post("/api/chat", handleChat(deps))
	r.Post("/api/chat/stream", handleChatStream(deps))
	r.Get("/api/transcript", handleTranscript(deps))
	r.Delete("/api/transcript", handleReset(deps))

	if deps.Store != nil {
		r.Get("/api/uploads", handleListUploads(deps))
		r.Delete("/api/uploads/{id}", handleDeleteUpload(deps))
		r.Get("/api/interactions", handleListInteractions(deps))
	}

	if deps.UI != nil {
		r.Handle("/*", deps.UI)
	}

	return r
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

// UploadResponse describes a processed upload back to the UI.
type UploadResponse struct {
	Filename string `json:"filename"`
	Kind     string `json:"kind"`
	Chars    int    `json:"chars,omitempty"`
	Width    int    `json:"width,omitempty"`
	Height   int    `json:"height,omitempty"`
}

func handleUpload(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, int64(deps.MaxUploadBytes))
		defer r.Body.Close()

		file, header, err := r.FormFile("file")
		if err != nil {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "missing file field: %v", err)
			return
		}
		defer file.Close()

		data, err := io.ReadAll(file)
		if err != nil {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "reading upload: %v", err)
			return
		}

		content, err := extract.Extract(header.Filename, data)
		if err != nil {
			// Extraction failures are shown to the user; the pending
			// context stays absent and the conversation continues.
			httpError(w, http.StatusUnprocessableEntity, "extraction_error", "could not process file: %v", err)
			return
		}
		if content.Kind == extract.KindNone {
			httpError(w, http.StatusUnsupportedMediaType, "unsupported_file_type", "unsupported file type: %s", header.Filename)
			return
		}

		deps.Session.SetPending(content)

		if deps.Store != nil {
			err := deps.Store.SaveUpload(storage.Upload{
				ID:        uuid.New().String(),
				Filename:  header.Filename,
				Kind:      content.Kind.String(),
				SizeBytes: int64(len(data)),
				Chars:     len(content.Text),
				CreatedAt: time.Now().UTC(),
			})
			if err != nil {
				slog.Warn("recording upload failed", "error", err)
			}
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(UploadResponse{
			Filename: header.Filename,
			Kind:     content.Kind.String(),
			Chars:    len(content.Text),
			Width:    content.Width,
			Height:   content.Height,
		})
	}
}

// ChatRequest is the body of POST /api/chat.
type ChatRequest struct {
	Message string `json:"message"`
}

func decodeChatRequest(w http.ResponseWriter, r *http.Request) (ChatRequest, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, maxChatBodySize)
	defer r.Body.Close()

	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpError(w, http.StatusBadRequest, "invalid_request_error", "invalid request body: %v", err)
		return ChatRequest{}, false
	}
	if req.Message == "" {
		httpError(w, http.StatusBadRequest, "invalid_request_error", "message is required")
		return ChatRequest{}, false
	}
	return req, true
}

func handleChat(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, ok := decodeChatRequest(w, r)
		if !ok {
			return
		}

		// Remote failures surface as an assistant turn, not an HTTP error.
		turn := deps.Chat.HandleTurn(r.Context(), deps.Session, req.Message)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(turn)
	}
}

func handleChatStream(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, ok := decodeChatRequest(w, r)
		if !ok {
			return
		}

		flusher, ok := w.(http.Flusher)
		if !ok {
			httpError(w, http.StatusInternalServerError, "api_error", "streaming not supported")
			return
		}

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")

		turn := deps.Chat.HandleTurnStream(r.Context(), deps.Session, req.Message, func(delta string) error {
			return writeSSE(w, flusher, "delta", map[string]string{"text": delta})
		})

		if err := writeSSE(w, flusher, "done", turn); err != nil {
			slog.Warn("writing final stream event failed", "error", err)
		}
	}
}

// TranscriptResponse is the body of GET /api/transcript.
type TranscriptResponse struct {
	SessionID string      `json:"session_id"`
	Turns     []chat.Turn `json:"turns"`
}

func handleTranscript(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		turns := deps.Session.Turns()
		if turns == nil {
			turns = []chat.Turn{}
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(TranscriptResponse{
			SessionID: deps.Session.ID(),
			Turns:     turns,
		})
	}
}

func handleReset(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		deps.Session.Reset()
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"status": "reset"})
	}
}

func handleListUploads(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := parseIntParam(r, "limit", 20, 100)
		offset := parseIntParam(r, "offset", 0, 0)

		uploads, err := deps.Store.ListUploads(limit, offset)
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to list uploads: %v", err)
			return
		}
		if uploads == nil {
			uploads = []storage.Upload{}
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(uploads)
	}
}

func handleListInteractions(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := parseIntParam(r, "limit", 20, 100)
		offset := parseIntParam(r, "offset", 0, 0)

		interactions, err := deps.Store.ListInteractions(limit, offset)
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to list interactions: %v", err)
			return
		}
		if interactions == nil {
			interactions = []storage.Interaction{}
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(interactions)
	}
}

func handleDeleteUpload(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		err := deps.Store.DeleteUpload(id)
		if errors.Is(err, storage.ErrNotFound) {
			httpError(w, http.StatusNotFound, "not_found", "upload not found")
			return
		}
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to delete upload: %v", err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"status": "deleted"})
	}
}

func writeSSE(w http.ResponseWriter, flusher http.Flusher, event string, data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshalling %s event: %w", event, err)
	}
	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, payload); err != nil {
		return err
	}
	flusher.Flush()
	return nil
}

func parseIntParam(r *http.Request, key string, defaultVal, maxVal int) int {
	s := r.URL.Query().Get(key)
	if s == "" {
		return defaultVal
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < 0 {
		return defaultVal
	}
	if maxVal > 0 && v > maxVal {
		return maxVal
	}
	return v
}

func httpError(w http.ResponseWriter, code int, errType string, format string, args ...any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	msg := fmt.Sprintf(format, args...)
	json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]any{
			"message": msg,
			"type":    errType,
		},
	})
}
