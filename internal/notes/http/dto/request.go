// Package dto provides data transfer objects for note HTTP requests and responses.
package dto

import (
	validation "github.com/jellydator/validation"

	notesDomain "github.com/allisson/inkleaf/internal/notes/domain"
	customValidation "github.com/allisson/inkleaf/internal/validation"
)

// CreateNoteRequest contains the fields for creating a note.
type CreateNoteRequest struct {
	Title      string   `json:"title"`
	Markdown   string   `json:"markdown"`
	Tags       []string `json:"tags"`
	NotebookID string   `json:"notebookId"`
}

// Validate checks if the create request is valid.
func (r *CreateNoteRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Title, validation.RuneLength(0, customValidation.MaxTitleLength)),
		validation.Field(&r.Tags, customValidation.Tags...),
		validation.Field(&r.NotebookID, customValidation.NoWhitespace),
	)
}

// ToInput converts the request to a use case input.
func (r *CreateNoteRequest) ToInput() *notesDomain.CreateNoteInput {
	return &notesDomain.CreateNoteInput{
		Title:      r.Title,
		Markdown:   r.Markdown,
		Tags:       r.Tags,
		NotebookID: r.NotebookID,
	}
}

// UpdateNoteRequest is a partial update; absent fields are left unchanged.
type UpdateNoteRequest struct {
	Title      *string   `json:"title"`
	Markdown   *string   `json:"markdown"`
	Tags       *[]string `json:"tags"`
	NotebookID *string   `json:"notebookId"`
}

// Validate checks if the update request is valid.
func (r *UpdateNoteRequest) Validate() error {
	var tags []string
	if r.Tags != nil {
		tags = *r.Tags
	}
	return validation.Errors{
		"title":      validation.Validate(r.Title, validation.RuneLength(0, customValidation.MaxTitleLength)),
		"tags":       validation.Validate(tags, customValidation.Tags...),
		"notebookId": validation.Validate(
			r.NotebookID,
			validation.NilOrNotEmpty,
			customValidation.NotBlank,
			customValidation.NoWhitespace,
		),
	}.Filter()
}

// ToInput converts the request to a use case input.
func (r *UpdateNoteRequest) ToInput() *notesDomain.UpdateNoteInput {
	return &notesDomain.UpdateNoteInput{
		Title:      r.Title,
		Markdown:   r.Markdown,
		Tags:       r.Tags,
		NotebookID: r.NotebookID,
	}
}
