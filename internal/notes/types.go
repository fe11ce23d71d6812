package notes

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Note is one saved piece of text plus its embedded attachments.
// Attachments live inside the note document; deleting the note
// discards them with it.
type Note struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Title     string             `bson:"title"`
	Content   string             `bson:"content"` // markdown
	CreatedAt time.Time          `bson:"created_at"`
	Files     []Attachment       `bson:"files"`
}

// Attachment is a named byte payload owned by its note. The mime type
// is whatever the uploading client declared and is served back as-is.
type Attachment struct {
	Filename string `bson:"filename"`
	MimeType string `bson:"mimetype"`
	Data     []byte `bson:"data"`
}

// CreateNoteInput is the input for creating a note. All fields are
// optional; empty title and content are stored as empty strings.
type CreateNoteInput struct {
	Title   string
	Content string
	Files   []Attachment
}
