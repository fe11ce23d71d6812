package notes

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// multipartMemory is the in-memory threshold for multipart parsing;
// larger uploads spill to temp files. It is not an upload size cap.
const multipartMemory = 32 << 20

type Handler struct {
	svc Servicer
	log *slog.Logger
}

func NewHandler(svc Servicer, log *slog.Logger) *Handler {
	return &Handler{svc: svc, log: log}
}

// --- REST API Handlers ---

// ListNotes handles GET /texts
func (h *Handler) ListNotes(w http.ResponseWriter, r *http.Request) {
	noteList, err := h.svc.List(r.Context())
	if err != nil {
		h.log.Error("failed to list notes", "error", err)
		h.jsonError(w, "internal error", http.StatusInternalServerError)
		return
	}

	h.jsonResponse(w, notesToResponses(noteList), http.StatusOK)
}

// CreateNote handles POST /text (multipart form: title, content, files)
func (h *Handler) CreateNote(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		h.jsonError(w, "invalid multipart body", http.StatusBadRequest)
		return
	}

	input := CreateNoteInput{
		Title:   r.FormValue("title"),
		Content: r.FormValue("content"),
	}

	for _, fh := range r.MultipartForm.File["files"] {
		f, err := fh.Open()
		if err != nil {
			h.jsonError(w, "unreadable file part", http.StatusBadRequest)
			return
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			h.jsonError(w, "unreadable file part", http.StatusBadRequest)
			return
		}

		input.Files = append(input.Files, Attachment{
			Filename: fh.Filename,
			MimeType: fh.Header.Get("Content-Type"),
			Data:     data,
		})
	}

	note, err := h.svc.Create(r.Context(), input)
	if err != nil {
		h.log.Error("failed to create note", "error", err)
		h.jsonError(w, "internal error", http.StatusInternalServerError)
		return
	}

	h.jsonResponse(w, noteToResponse(note), http.StatusCreated)
}

// GetNote handles GET /text/{id}
func (h *Handler) GetNote(w http.ResponseWriter, r *http.Request) {
	note, err := h.svc.GetByID(r.Context(), r.PathValue("id"))
	if errors.Is(err, ErrNoteNotFound) {
		h.jsonError(w, "note not found", http.StatusNotFound)
		return
	}
	if err != nil {
		h.log.Error("failed to get note", "error", err)
		h.jsonError(w, "internal error", http.StatusInternalServerError)
		return
	}

	h.jsonResponse(w, noteToResponse(note), http.StatusOK)
}

// DeleteNote handles DELETE /text/{id}. Deleting an id that matches
// nothing is still acknowledged as deleted.
func (h *Handler) DeleteNote(w http.ResponseWriter, r *http.Request) {
	err := h.svc.Delete(r.Context(), r.PathValue("id"))
	if errors.Is(err, ErrInvalidNoteID) {
		h.jsonError(w, "invalid note id", http.StatusBadRequest)
		return
	}
	if err != nil {
		h.log.Error("failed to delete note", "error", err)
		h.jsonError(w, "internal error", http.StatusInternalServerError)
		return
	}

	h.jsonResponse(w, map[string]string{"message": "Note deleted"}, http.StatusOK)
}

// GetAttachment handles GET /text/{id}/file/{filename}
func (h *Handler) GetAttachment(w http.ResponseWriter, r *http.Request) {
	att, err := h.svc.GetAttachment(r.Context(), r.PathValue("id"), r.PathValue("filename"))
	if errors.Is(err, ErrNoteNotFound) {
		h.jsonError(w, "note not found", http.StatusNotFound)
		return
	}
	if errors.Is(err, ErrAttachmentNotFound) {
		h.jsonError(w, "file not found", http.StatusNotFound)
		return
	}
	if err != nil {
		h.log.Error("failed to get attachment", "error", err)
		h.jsonError(w, "internal error", http.StatusInternalServerError)
		return
	}

	mimeType := att.MimeType
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", mimeType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", att.Filename))
	w.Write(att.Data)
}

// PreviewNote handles GET /text/{id}/preview, serving the note content
// rendered from markdown to HTML.
func (h *Handler) PreviewNote(w http.ResponseWriter, r *http.Request) {
	note, err := h.svc.GetByID(r.Context(), r.PathValue("id"))
	if errors.Is(err, ErrNoteNotFound) {
		h.jsonError(w, "note not found", http.StatusNotFound)
		return
	}
	if err != nil {
		h.log.Error("failed to get note", "error", err)
		h.jsonError(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	io.WriteString(w, h.svc.RenderMarkdown(note.Content))
}

// --- Helper methods ---

func (h *Handler) jsonResponse(w http.ResponseWriter, data any, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func (h *Handler) jsonError(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// --- Response converters ---

// Attachment payloads never appear in note JSON; clients fetch bytes
// through the attachment endpoint.

type fileRef struct {
	Filename string `json:"filename"`
}

type noteResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	Files     []fileRef `json:"files"`
}

func noteToResponse(n *Note) noteResponse {
	files := make([]fileRef, len(n.Files))
	for i, f := range n.Files {
		files[i] = fileRef{Filename: f.Filename}
	}
	return noteResponse{
		ID:        n.ID.Hex(),
		Title:     n.Title,
		Content:   n.Content,
		CreatedAt: n.CreatedAt,
		Files:     files,
	}
}

func notesToResponses(noteList []*Note) []noteResponse {
	responses := make([]noteResponse, len(noteList))
	for i, n := range noteList {
		responses[i] = noteToResponse(n)
	}
	return responses
}

// --- Middleware ---

// WithCORS lets the browser client call the API from another origin.
// All origins are allowed; there is no authentication to protect.
func WithCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
