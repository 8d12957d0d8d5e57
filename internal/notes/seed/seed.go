// Package seed provides the sample notes loaded by the seed command.
package seed

import (
	_ "embed"
	"encoding/json"
	"fmt"
)

//go:embed notes.json
var notesJSON []byte

// SampleNote is one bundled sample note.
type SampleNote struct {
	Title      string   `json:"title"`
	Markdown   string   `json:"markdown"`
	Tags       []string `json:"tags"`
	NotebookID string   `json:"notebookId"`
}

// Notes returns the bundled sample notes.
func Notes() ([]SampleNote, error) {
	var notes []SampleNote
	if err := json.Unmarshal(notesJSON, &notes); err != nil {
		return nil, fmt.Errorf("failed to parse sample notes: %w", err)
	}
	return notes, nil
}
