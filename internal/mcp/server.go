package mcp

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"time"

	"notebin/internal/notes"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewServer creates an MCP server exposing read-only tools over the
// note collection.
func NewServer(svc notes.Servicer) *server.MCPServer {
	s := server.NewMCPServer(
		"Notebin",
		"1.0.0",
		server.WithToolCapabilities(true),
	)

	// Tool: list_notes - List saved notes, newest first
	s.AddTool(
		mcp.NewTool("list_notes",
			mcp.WithDescription("List saved notes ordered by newest first. Returns note text and attachment filenames; attachment bytes are fetched with get_attachment."),
			mcp.WithNumber("limit",
				mcp.Description("Maximum number of notes to return (default: all)"),
			),
		),
		handleListNotes(svc),
	)

	// Tool: get_note - Get a specific note by ID
	s.AddTool(
		mcp.NewTool("get_note",
			mcp.WithDescription("Get a specific note by its ID. Use this when you have a note ID and need the full content."),
			mcp.WithString("id",
				mcp.Required(),
				mcp.Description("The note ID (24-character hex string)"),
			),
			mcp.WithString("format",
				mcp.Description("Content format: 'text' for raw markdown (default), 'html' for rendered HTML"),
			),
		),
		handleGetNote(svc),
	)

	// Tool: list_attachments - List one note's attachments
	s.AddTool(
		mcp.NewTool("list_attachments",
			mcp.WithDescription("List the attachments of a note: filename, mime type and size in bytes."),
			mcp.WithString("id",
				mcp.Required(),
				mcp.Description("The note ID (24-character hex string)"),
			),
		),
		handleListAttachments(svc),
	)

	// Tool: get_attachment - Fetch one attachment's bytes
	s.AddTool(
		mcp.NewTool("get_attachment",
			mcp.WithDescription("Fetch an attachment from a note by filename. The payload is returned base64-encoded together with its mime type."),
			mcp.WithString("id",
				mcp.Required(),
				mcp.Description("The note ID (24-character hex string)"),
			),
			mcp.WithString("filename",
				mcp.Required(),
				mcp.Description("The attachment filename, exactly as stored"),
			),
		),
		handleGetAttachment(svc),
	)

	return s
}

// NoteResult represents a note in tool results
type NoteResult struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	Files     []string  `json:"files"`
}

// AttachmentInfo describes an attachment without its payload
type AttachmentInfo struct {
	Filename string `json:"filename"`
	MimeType string `json:"mimeType"`
	Size     int    `json:"size"`
}

// AttachmentResult carries an attachment payload base64-encoded
type AttachmentResult struct {
	Filename   string `json:"filename"`
	MimeType   string `json:"mimeType"`
	DataBase64 string `json:"dataBase64"`
}

func handleListNotes(svc notes.Servicer) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		noteList, err := svc.List(ctx)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to list notes: %v", err)), nil
		}

		if limit := req.GetInt("limit", 0); limit > 0 && limit < len(noteList) {
			noteList = noteList[:limit]
		}

		results := notesToResults(noteList)
		data, _ := json.MarshalIndent(results, "", "  ")
		return mcp.NewToolResultText(string(data)), nil
	}
}

func handleGetNote(svc notes.Servicer) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := req.RequireString("id")
		if err != nil {
			return mcp.NewToolResultError("id is required"), nil
		}

		format := req.GetString("format", "text")
		if format != "text" && format != "html" {
			return mcp.NewToolResultError("format must be 'text' or 'html'"), nil
		}

		note, err := svc.GetByID(ctx, id)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to get note: %v", err)), nil
		}

		result := noteToResult(note)
		if format == "html" {
			result.Content = svc.RenderMarkdown(note.Content)
		}

		data, _ := json.MarshalIndent(result, "", "  ")
		return mcp.NewToolResultText(string(data)), nil
	}
}

func handleListAttachments(svc notes.Servicer) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := req.RequireString("id")
		if err != nil {
			return mcp.NewToolResultError("id is required"), nil
		}

		note, err := svc.GetByID(ctx, id)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to get note: %v", err)), nil
		}

		results := make([]AttachmentInfo, len(note.Files))
		for i, f := range note.Files {
			results[i] = AttachmentInfo{
				Filename: f.Filename,
				MimeType: f.MimeType,
				Size:     len(f.Data),
			}
		}

		data, _ := json.MarshalIndent(results, "", "  ")
		return mcp.NewToolResultText(string(data)), nil
	}
}

func handleGetAttachment(svc notes.Servicer) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := req.RequireString("id")
		if err != nil {
			return mcp.NewToolResultError("id is required"), nil
		}
		filename, err := req.RequireString("filename")
		if err != nil {
			return mcp.NewToolResultError("filename is required"), nil
		}

		att, err := svc.GetAttachment(ctx, id, filename)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to get attachment: %v", err)), nil
		}

		result := AttachmentResult{
			Filename:   att.Filename,
			MimeType:   att.MimeType,
			DataBase64: base64.StdEncoding.EncodeToString(att.Data),
		}

		data, _ := json.MarshalIndent(result, "", "  ")
		return mcp.NewToolResultText(string(data)), nil
	}
}

// Helper functions

func noteToResult(n *notes.Note) NoteResult {
	files := make([]string, len(n.Files))
	for i, f := range n.Files {
		files[i] = f.Filename
	}
	return NoteResult{
		ID:        n.ID.Hex(),
		Title:     n.Title,
		Content:   n.Content,
		CreatedAt: n.CreatedAt,
		Files:     files,
	}
}

func notesToResults(noteList []*notes.Note) []NoteResult {
	results := make([]NoteResult, len(noteList))
	for i, n := range noteList {
		results[i] = noteToResult(n)
	}
	return results
}
