package dto

import (
	"time"

	notesDomain "github.com/allisson/inkleaf/internal/notes/domain"
)

// NoteResponse represents a note in API responses. The embedding is never included.
type NoteResponse struct {
	ID         string    `json:"_id"`
	Title      string    `json:"title"`
	Markdown   string    `json:"markdown"`
	Tags       []string  `json:"tags"`
	NotebookID string    `json:"notebookId"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// DeleteResponse is returned by a successful delete.
type DeleteResponse struct {
	Success bool `json:"success"`
}

// MapNoteToResponse converts a domain note to an API response.
func MapNoteToResponse(note *notesDomain.Note) NoteResponse {
	tags := note.Tags
	if tags == nil {
		tags = []string{}
	}
	return NoteResponse{
		ID:         note.ID.Hex(),
		Title:      note.Title,
		Markdown:   note.Markdown,
		Tags:       tags,
		NotebookID: note.NotebookID,
		CreatedAt:  note.CreatedAt,
		UpdatedAt:  note.UpdatedAt,
	}
}

// MapNotesToResponse converts a list of notes. An empty list maps to [].
func MapNotesToResponse(notes []*notesDomain.Note) []NoteResponse {
	out := make([]NoteResponse, 0, len(notes))
	for _, note := range notes {
		out = append(out, MapNoteToResponse(note))
	}
	return out
}
