package dto

import (
	"time"

	vaultDomain "github.com/allisson/inkleaf/internal/vault/domain"
)

// VaultNoteResponse represents a decrypted vault note in API responses.
type VaultNoteResponse struct {
	ID        string    `json:"_id"`
	Title     string    `json:"title"`
	Markdown  string    `json:"markdown"`
	Tags      []string  `json:"tags"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// DeleteResponse is returned by a successful delete.
type DeleteResponse struct {
	Success bool `json:"success"`
}

// MapVaultNoteToResponse converts a domain vault note to an API response.
func MapVaultNoteToResponse(note *vaultDomain.VaultNote) VaultNoteResponse {
	tags := note.Tags
	if tags == nil {
		tags = []string{}
	}
	return VaultNoteResponse{
		ID:        note.ID.Hex(),
		Title:     note.Title,
		Markdown:  note.Markdown,
		Tags:      tags,
		CreatedAt: note.CreatedAt,
		UpdatedAt: note.UpdatedAt,
	}
}

// MapVaultNotesToResponse converts a list of vault notes. An empty list maps to [].
func MapVaultNotesToResponse(notes []*vaultDomain.VaultNote) []VaultNoteResponse {
	out := make([]VaultNoteResponse, 0, len(notes))
	for _, note := range notes {
		out = append(out, MapVaultNoteToResponse(note))
	}
	return out
}
