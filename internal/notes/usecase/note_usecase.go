package usecase

import (
	"context"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/allisson/inkleaf/internal/docstore"
	notesDomain "github.com/allisson/inkleaf/internal/notes/domain"
)

// noteUseCase implements NoteUseCase.
type noteUseCase struct {
	repo      NoteRepository
	refresher EmbeddingRefresher
}

func parseID(id string) (bson.ObjectID, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return bson.NilObjectID, notesDomain.ErrInvalidID
	}
	return oid, nil
}

// List returns notes newest first. An empty notebookID lists every notebook.
func (n *noteUseCase) List(ctx context.Context, notebookID string) ([]*notesDomain.Note, error) {
	return n.repo.List(ctx, notebookID)
}

// Get returns a note by id.
func (n *noteUseCase) Get(ctx context.Context, id string) (*notesDomain.Note, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	return n.repo.Get(ctx, oid)
}

// Create stores a new note and schedules its embedding when it has a body.
func (n *noteUseCase) Create(ctx context.Context, input *notesDomain.CreateNoteInput) (*notesDomain.Note, error) {
	tags := input.Tags
	if tags == nil {
		tags = []string{}
	}
	notebookID := input.NotebookID
	if notebookID == "" {
		notebookID = notesDomain.DefaultNotebookID
	}

	ts := docstore.Now()
	note := &notesDomain.Note{
		ID:         bson.NewObjectID(),
		Title:      input.Title,
		Markdown:   input.Markdown,
		Tags:       tags,
		NotebookID: notebookID,
		CreatedAt:  ts,
		UpdatedAt:  ts,
	}

	if err := n.repo.Create(ctx, note); err != nil {
		return nil, err
	}

	if note.Markdown != "" {
		n.refresher.Refresh(ctx, note)
	}
	return note, nil
}

// Update applies a partial update and reschedules the embedding when title,
// markdown or tags changed.
func (n *noteUseCase) Update(
	ctx context.Context,
	id string,
	input *notesDomain.UpdateNoteInput,
) (*notesDomain.Note, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	note, err := n.repo.Update(ctx, oid, input, docstore.Now())
	if err != nil {
		return nil, err
	}

	if input.ChangesContent() {
		n.refresher.Refresh(ctx, note)
	}
	return note, nil
}

// Delete removes a note.
func (n *noteUseCase) Delete(ctx context.Context, id string) (bool, error) {
	oid, err := parseID(id)
	if err != nil {
		return false, err
	}
	return n.repo.Delete(ctx, oid)
}

// NewNoteUseCase creates a new NoteUseCase.
func NewNoteUseCase(repo NoteRepository, refresher EmbeddingRefresher) NoteUseCase {
	return &noteUseCase{repo: repo, refresher: refresher}
}
