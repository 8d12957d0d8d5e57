// Package dto provides data transfer objects for HTTP request and response handling.
package dto

import (
	validation "github.com/jellydator/validation"

	customValidation "github.com/allisson/inkleaf/internal/validation"
	vaultDomain "github.com/allisson/inkleaf/internal/vault/domain"
)

// CreateVaultNoteRequest contains the fields for creating a vault note.
type CreateVaultNoteRequest struct {
	Title    string   `json:"title"`
	Markdown string   `json:"markdown"`
	Tags     []string `json:"tags"`
}

// Validate checks if the create request is valid.
func (r *CreateVaultNoteRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Title, validation.RuneLength(0, customValidation.MaxTitleLength)),
		validation.Field(&r.Tags, customValidation.Tags...),
	)
}

// ToInput converts the request to a use case input.
func (r *CreateVaultNoteRequest) ToInput() *vaultDomain.CreateVaultNoteInput {
	return &vaultDomain.CreateVaultNoteInput{
		Title:    r.Title,
		Markdown: r.Markdown,
		Tags:     r.Tags,
	}
}

// UpdateVaultNoteRequest is a partial update; absent fields are left unchanged.
type UpdateVaultNoteRequest struct {
	Title    *string   `json:"title"`
	Markdown *string   `json:"markdown"`
	Tags     *[]string `json:"tags"`
}

// Validate checks if the update request is valid.
func (r *UpdateVaultNoteRequest) Validate() error {
	var tags []string
	if r.Tags != nil {
		tags = *r.Tags
	}
	return validation.Errors{
		"title": validation.Validate(r.Title, validation.RuneLength(0, customValidation.MaxTitleLength)),
		"tags":  validation.Validate(tags, customValidation.Tags...),
	}.Filter()
}

// ToInput converts the request to a use case input.
func (r *UpdateVaultNoteRequest) ToInput() *vaultDomain.UpdateVaultNoteInput {
	return &vaultDomain.UpdateVaultNoteInput{
		Title:    r.Title,
		Markdown: r.Markdown,
		Tags:     r.Tags,
	}
}
