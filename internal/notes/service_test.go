package notes

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// memStore keeps notes newest-first, mirroring the Mongo repo's
// created_at descending sort and its tolerant delete.
type memStore struct {
	notes []*Note
}

func (m *memStore) Insert(_ context.Context, n *Note) error {
	n.ID = primitive.NewObjectID()
	n.CreatedAt = time.Now()
	m.notes = append([]*Note{n}, m.notes...)
	return nil
}

func (m *memStore) FindByID(_ context.Context, id primitive.ObjectID) (*Note, error) {
	for _, n := range m.notes {
		if n.ID == id {
			return n, nil
		}
	}
	return nil, ErrNoteNotFound
}

func (m *memStore) List(_ context.Context) ([]*Note, error) {
	return append([]*Note{}, m.notes...), nil
}

func (m *memStore) Delete(_ context.Context, id primitive.ObjectID) error {
	kept := make([]*Note, 0, len(m.notes))
	for _, n := range m.notes {
		if n.ID != id {
			kept = append(kept, n)
		}
	}
	m.notes = kept
	return nil
}

func (m *memStore) Count(_ context.Context) (int64, error) {
	return int64(len(m.notes)), nil
}

func TestServiceCreateAndList(t *testing.T) {
	svc := NewService(&memStore{})
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateNoteInput{
		Title:   "Groceries",
		Content: "milk, eggs",
		Files: []Attachment{
			{Filename: "list.txt", MimeType: "text/plain", Data: []byte("milk\neggs")},
		},
	})
	require.NoError(t, err)
	assert.False(t, created.ID.IsZero())
	assert.False(t, created.CreatedAt.IsZero())

	noteList, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, noteList, 1)
	assert.Equal(t, "Groceries", noteList[0].Title)
	assert.Equal(t, "milk, eggs", noteList[0].Content)
	require.Len(t, noteList[0].Files, 1)
	assert.Equal(t, "list.txt", noteList[0].Files[0].Filename)
}

func TestServiceListNewestFirst(t *testing.T) {
	svc := NewService(&memStore{})
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateNoteInput{Title: "first"})
	require.NoError(t, err)
	second, err := svc.Create(ctx, CreateNoteInput{Title: "second"})
	require.NoError(t, err)

	noteList, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, noteList, 2)
	assert.Equal(t, second.ID, noteList[0].ID)
	assert.Equal(t, "second", noteList[0].Title)
	assert.Equal(t, "first", noteList[1].Title)
}

func TestServiceCreateAllowsEmptyFields(t *testing.T) {
	svc := NewService(&memStore{})

	created, err := svc.Create(context.Background(), CreateNoteInput{})
	require.NoError(t, err)
	assert.Equal(t, "", created.Title)
	assert.Equal(t, "", created.Content)
	require.NotNil(t, created.Files)
	assert.Empty(t, created.Files)
}

func TestServiceAttachmentRoundTrip(t *testing.T) {
	svc := NewService(&memStore{})
	ctx := context.Background()

	payload := []byte{0x00, 0x01, 0xff, 0xfe}
	created, err := svc.Create(ctx, CreateNoteInput{
		Title: "binary",
		Files: []Attachment{
			{Filename: "blob.bin", MimeType: "application/octet-stream", Data: payload},
		},
	})
	require.NoError(t, err)

	att, err := svc.GetAttachment(ctx, created.ID.Hex(), "blob.bin")
	require.NoError(t, err)
	assert.Equal(t, payload, att.Data)
	assert.Equal(t, "application/octet-stream", att.MimeType)
}

func TestServiceGetAttachmentNotFound(t *testing.T) {
	svc := NewService(&memStore{})
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateNoteInput{
		Files: []Attachment{{Filename: "a.txt", MimeType: "text/plain", Data: []byte("a")}},
	})
	require.NoError(t, err)

	_, err = svc.GetAttachment(ctx, created.ID.Hex(), "missing.txt")
	assert.ErrorIs(t, err, ErrAttachmentNotFound)

	_, err = svc.GetAttachment(ctx, primitive.NewObjectID().Hex(), "a.txt")
	assert.ErrorIs(t, err, ErrNoteNotFound)

	_, err = svc.GetAttachment(ctx, "not-a-hex-id", "a.txt")
	assert.ErrorIs(t, err, ErrNoteNotFound)
}

func TestServiceDeleteCascades(t *testing.T) {
	svc := NewService(&memStore{})
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateNoteInput{
		Title: "doomed",
		Files: []Attachment{{Filename: "gone.txt", MimeType: "text/plain", Data: []byte("x")}},
	})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, created.ID.Hex()))

	noteList, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, noteList)

	_, err = svc.GetAttachment(ctx, created.ID.Hex(), "gone.txt")
	assert.ErrorIs(t, err, ErrNoteNotFound)
}

func TestServiceDeleteMissingIDSucceeds(t *testing.T) {
	svc := NewService(&memStore{})
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateNoteInput{Title: "keep"})
	require.NoError(t, err)

	err = svc.Delete(ctx, primitive.NewObjectID().Hex())
	assert.NoError(t, err)

	noteList, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, noteList, 1)
}

func TestServiceDeleteInvalidID(t *testing.T) {
	svc := NewService(&memStore{})

	err := svc.Delete(context.Background(), "not-a-hex-id")
	assert.ErrorIs(t, err, ErrInvalidNoteID)
}

func TestServiceGetByIDInvalidID(t *testing.T) {
	svc := NewService(&memStore{})

	_, err := svc.GetByID(context.Background(), "zzz")
	assert.ErrorIs(t, err, ErrNoteNotFound)
}

func TestServiceRenderMarkdown(t *testing.T) {
	svc := NewService(&memStore{})

	html := svc.RenderMarkdown("# Groceries\n\n- milk\n- eggs")
	assert.True(t, strings.Contains(html, "<h1>Groceries</h1>"))
	assert.True(t, strings.Contains(html, "<li>milk</li>"))
}

func TestServiceCount(t *testing.T) {
	svc := NewService(&memStore{})
	ctx := context.Background()

	for range 3 {
		_, err := svc.Create(ctx, CreateNoteInput{})
		require.NoError(t, err)
	}

	count, err := svc.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
}
