package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"docchat/internal/app"
)

type statusResponse struct {
	Status string `json:"status"`
}

type uploadResponse struct {
	Message     string `json:"message"`
	ChunksAdded int    `json:"chunks_added"`
}

// Question указателем: отсутствующее поле отличается от пустой строки
type chatRequest struct {
	Question *string `json:"question"`
}

type chatResponse struct {
	Answer  string   `json:"answer"`
	Sources []string `json:"sources"`
}

type documentInfo struct {
	Name       string    `json:"name"`
	Size       int64     `json:"size"`
	Chunks     int       `json:"chunks"`
	Uploads    int       `json:"uploads"`
	UploadedAt time.Time `json:"uploaded_at"`
}

type documentsResponse struct {
	Documents   []documentInfo `json:"documents"`
	ChunksTotal int            `json:"chunks_total"`
}

// handleStatus не трогает сервис: отвечает даже при неудачном старте
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, statusResponse{Status: "Online"})
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Ready(); err != nil {
		writeJSONError(w, err.Error(), http.StatusServiceUnavailable)
		return
	}

	if err := r.ParseMultipartForm(s.cfg.MaxUploadMB << 20); err != nil {
		writeJSONError(w, "Failed to parse multipart form", http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSONError(w, "Failed to get file from form", http.StatusBadRequest)
		return
	}
	defer file.Close()

	s.logger.Debug("📥 upload received",
		slog.String("filename", header.Filename),
		slog.Int64("size", header.Size))

	n, err := s.svc.IngestDocument(r.Context(), header.Filename, file)
	if err != nil {
		s.logger.Error("❌ upload failed", "file", header.Filename, "error", err)
		writeJSONError(w, err.Error(), statusFor(err))
		return
	}

	writeJSON(w, http.StatusOK, uploadResponse{Message: "Success", ChunksAdded: n})
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Ready(); err != nil {
		writeJSONError(w, err.Error(), http.StatusServiceUnavailable)
		return
	}

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Question == nil {
		writeJSONError(w, "Field 'question' is required", http.StatusBadRequest)
		return
	}

	answer, err := s.svc.Ask(r.Context(), *req.Question)
	if err != nil {
		s.logger.Error("❌ chat failed", "error", err)
		writeJSONError(w, err.Error(), statusFor(err))
		return
	}

	sources := answer.Sources
	if sources == nil {
		sources = []string{}
	}
	writeJSON(w, http.StatusOK, chatResponse{Answer: answer.Text, Sources: sources})
}

func (s *Server) handleDocuments(w http.ResponseWriter, r *http.Request) {
	files, total, err := s.svc.Documents()
	if err != nil {
		writeJSONError(w, err.Error(), statusFor(err))
		return
	}

	docs := make([]documentInfo, 0, len(files))
	for _, f := range files {
		docs = append(docs, documentInfo{
			Name:       f.Name,
			Size:       f.Size,
			Chunks:     f.Chunks,
			Uploads:    f.Uploads,
			UploadedAt: f.UploadedAt,
		})
	}

	writeJSON(w, http.StatusOK, documentsResponse{Documents: docs, ChunksTotal: total})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, app.ErrNotReady):
		return http.StatusServiceUnavailable
	case errors.Is(err, app.ErrEmptyFilename):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, statusCode int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(v)
}

func writeJSONError(w http.ResponseWriter, message string, statusCode int) {
	writeJSON(w, statusCode, map[string]string{"error": message})
}
