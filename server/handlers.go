package server

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/alan-mat/sway/internal/session"
	"github.com/alan-mat/sway/internal/syllabus"
)

// uploads larger than this are rejected outright
const maxUploadBytes = 32 << 20

func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Welcome to Sway Syllabus Generator API",
		"version": "1.0",
		"endpoints": map[string]any{
			"/SwaySyllabusGenerator": map[string]any{
				"method":      "POST",
				"description": "Generate syllabi for multiple subjects",
				"request_format": map[string]any{
					"type": "array",
					"items": map[string]any{
						"type": "object",
						"properties": map[string]any{
							"subject": map[string]any{
								"type":        "string",
								"description": "The subject name",
							},
						},
					},
				},
			},
		},
	})
}

func (s *Server) handleSyllabus(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		slog.Error("failed to read request body", "err", err)
		writeInternalError(w, err.Error())
		return
	}

	var raw json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		writeJSON(w, http.StatusBadRequest, apiError{Error: "Invalid JSON in request body"})
		return
	}

	if verrs := syllabus.Validate(raw); len(verrs) > 0 {
		writeJSON(w, http.StatusBadRequest, validationError{Errors: verrs})
		return
	}

	subjects, err := syllabus.Subjects(raw)
	if err != nil {
		slog.Error("failed to extract subjects from validated body", "err", err)
		writeInternalError(w, err.Error())
		return
	}

	results := s.syllabus.Run(r.Context(), subjects)
	writeJSON(w, http.StatusOK, results)
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	sess := session.New()
	if err := s.sessions.Put(r.Context(), sess); err != nil {
		slog.Error("failed to store new session", "err", err)
		writeInternalError(w, "could not create session")
		return
	}

	slog.Info("session created", "session", sess.ID)
	writeJSON(w, http.StatusCreated, map[string]string{"session_id": sess.ID})
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.loadSession(w, r)
	if !ok {
		return
	}

	if sess.Collection != "" {
		if err := s.vectors.DeleteCollection(r.Context(), sess.Collection); err != nil {
			slog.Warn("failed to delete session collection", "collection", sess.Collection, "err", err)
		}
	}

	if err := s.sessions.Delete(r.Context(), sess.ID); err != nil {
		slog.Error("failed to delete session", "session", sess.ID, "err", err)
		writeInternalError(w, "could not delete session")
		return
	}

	slog.Info("session deleted", "session", sess.ID)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleUploadDocument(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.loadSession(w, r)
	if !ok {
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeJSON(w, http.StatusBadRequest, apiError{Error: "Invalid multipart form", Details: err.Error()})
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, apiError{Error: "Missing 'file' field in form"})
		return
	}
	defer file.Close()

	name := filepath.Base(header.Filename)
	if !strings.EqualFold(filepath.Ext(name), ".pdf") {
		writeJSON(w, http.StatusBadRequest, apiError{Error: "Only PDF documents are supported"})
		return
	}

	// re-uploading the active document is a no-op, the index stands
	if sess.DocumentName == name {
		writeJSON(w, http.StatusOK, map[string]any{
			"document": name,
			"indexed":  false,
		})
		return
	}

	path, err := s.saveUpload(file, name)
	if err != nil {
		slog.Error("failed to save uploaded document", "document", name, "err", err)
		writeInternalError(w, "could not save uploaded document")
		return
	}

	chunks, err := s.indexer.BuildIndex(r.Context(), sess, path)
	if err != nil {
		slog.Error("failed to index document", "document", name, "session", sess.ID, "err", err)
		writeInternalError(w, "could not index document")
		return
	}

	if err := s.sessions.Put(r.Context(), sess); err != nil {
		slog.Error("failed to persist session after indexing", "session", sess.ID, "err", err)
		writeInternalError(w, "could not update session")
		return
	}

	slog.Info("document indexed", "document", name, "session", sess.ID, "chunks", chunks)
	writeJSON(w, http.StatusOK, map[string]any{
		"document": name,
		"indexed":  true,
		"chunks":   chunks,
	})
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.loadSession(w, r)
	if !ok {
		return
	}

	var req struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, apiError{Error: "Invalid JSON in request body"})
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		writeJSON(w, http.StatusBadRequest, apiError{Error: "'message' cannot be empty"})
		return
	}

	reply := s.chat.Answer(r.Context(), sess, req.Message)

	if err := s.sessions.Put(r.Context(), sess); err != nil {
		slog.Error("failed to persist session after chat turn", "session", sess.ID, "err", err)
	}

	writeJSON(w, http.StatusOK, map[string]string{"reply": reply})
}

func (s *Server) loadSession(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	id := chi.URLParam(r, "sessionID")
	sess, err := s.sessions.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, apiError{Error: "Session not found"})
			return nil, false
		}
		slog.Error("failed to load session", "session", id, "err", err)
		writeInternalError(w, "could not load session")
		return nil, false
	}
	return sess, true
}

func (s *Server) saveUpload(file io.Reader, name string) (string, error) {
	if err := os.MkdirAll(s.config.UploadDir, 0o755); err != nil {
		return "", err
	}

	path := filepath.Join(s.config.UploadDir, name)
	out, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer out.Close()

	if _, err := io.Copy(out, file); err != nil {
		return "", err
	}
	return path, nil
}
