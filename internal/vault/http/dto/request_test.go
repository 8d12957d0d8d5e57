package dto

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCreateVaultNoteRequest_Validate(t *testing.T) {
	t.Run("Success_Minimal", func(t *testing.T) {
		req := CreateVaultNoteRequest{Title: "Bank", Markdown: "pin 1234"}
		assert.NoError(t, req.Validate())
		assert.Nil(t, req.ToInput().Tags)
	})

	t.Run("Error_TitleTooLong", func(t *testing.T) {
		req := CreateVaultNoteRequest{Title: strings.Repeat("x", 501)}
		assert.Error(t, req.Validate())
	})

	t.Run("Error_BlankTag", func(t *testing.T) {
		req := CreateVaultNoteRequest{Title: "Bank", Tags: []string{"ok", " "}}
		assert.Error(t, req.Validate())
	})
}

func TestUpdateVaultNoteRequest_Validate(t *testing.T) {
	t.Run("Success_Empty", func(t *testing.T) {
		req := UpdateVaultNoteRequest{}
		assert.NoError(t, req.Validate())

		input := req.ToInput()
		assert.Nil(t, input.Title)
		assert.Nil(t, input.Markdown)
		assert.Nil(t, input.Tags)
	})

	t.Run("Success_PartialFields", func(t *testing.T) {
		markdown := "new body"
		tags := []string{"finance"}
		req := UpdateVaultNoteRequest{Markdown: &markdown, Tags: &tags}
		assert.NoError(t, req.Validate())
		assert.Equal(t, &markdown, req.ToInput().Markdown)
	})

	t.Run("Error_InvalidTag", func(t *testing.T) {
		tags := []string{"a,b"}
		req := UpdateVaultNoteRequest{Tags: &tags}
		assert.Error(t, req.Validate())
	})
}
