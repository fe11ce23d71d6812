package notes

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/yuin/goldmark"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ErrInvalidNoteID marks an id that is not a well-formed ObjectID hex
// string. The UI never produces one; only hand-built requests do.
var ErrInvalidNoteID = errors.New("invalid note id")

// Store is the persistence surface the service needs. *Repo satisfies
// it against MongoDB; tests satisfy it in memory.
type Store interface {
	Insert(ctx context.Context, n *Note) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*Note, error)
	List(ctx context.Context) ([]*Note, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	Count(ctx context.Context) (int64, error)
}

// Servicer is the note service surface consumed by the HTTP handler
// and the MCP server.
type Servicer interface {
	Create(ctx context.Context, input CreateNoteInput) (*Note, error)
	List(ctx context.Context) ([]*Note, error)
	GetByID(ctx context.Context, id string) (*Note, error)
	GetAttachment(ctx context.Context, noteID, filename string) (*Attachment, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
	RenderMarkdown(content string) string
}

type Service struct {
	store Store
	md    goldmark.Markdown
}

var (
	_ Store    = (*Repo)(nil)
	_ Servicer = (*Service)(nil)
)

func NewService(store Store) *Service {
	return &Service{
		store: store,
		md:    goldmark.New(),
	}
}

// Create persists a new note. There is no validation: empty title and
// content are legal notes, and the attachment list may be empty.
func (s *Service) Create(ctx context.Context, input CreateNoteInput) (*Note, error) {
	note := &Note{
		Title:   input.Title,
		Content: input.Content,
		Files:   input.Files,
	}
	if note.Files == nil {
		note.Files = []Attachment{}
	}

	if err := s.store.Insert(ctx, note); err != nil {
		return nil, err
	}

	return note, nil
}

// GetByID retrieves a note by ID. A malformed id cannot name a stored
// note, so it reports ErrNoteNotFound like any other miss.
func (s *Service) GetByID(ctx context.Context, id string) (*Note, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNoteNotFound
	}
	return s.store.FindByID(ctx, oid)
}

// List retrieves every note, newest first
func (s *Service) List(ctx context.Context) ([]*Note, error) {
	return s.store.List(ctx)
}

// GetAttachment looks up a note by ID and scans its attachment list
// for an exact filename match.
func (s *Service) GetAttachment(ctx context.Context, noteID, filename string) (*Attachment, error) {
	note, err := s.GetByID(ctx, noteID)
	if err != nil {
		return nil, err
	}

	for i := range note.Files {
		if note.Files[i].Filename == filename {
			return &note.Files[i], nil
		}
	}
	return nil, ErrAttachmentNotFound
}

// Delete removes a note by ID. A well-formed id that matches nothing
// succeeds silently; a malformed id is rejected.
func (s *Service) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidNoteID, id)
	}
	return s.store.Delete(ctx, oid)
}

// Count returns total note count
func (s *Service) Count(ctx context.Context) (int64, error) {
	return s.store.Count(ctx)
}

// RenderMarkdown converts markdown content to HTML
func (s *Service) RenderMarkdown(content string) string {
	var buf bytes.Buffer
	if err := s.md.Convert([]byte(content), &buf); err != nil {
		return content // Return raw content on error
	}
	return buf.String()
}
