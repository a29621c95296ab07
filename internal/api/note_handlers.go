package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (s *Server) registerNoteRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getNote",
		Method:      http.MethodGet,
		Path:        "/api/v1/notes/{id}",
		Summary:     "Get note",
		Description: "Returns a note. Only the owner of its book may view it.",
		Tags:        []string{"Notes"},
		Security:    bearerSecurity,
	}, s.handleGetNote)

	huma.Register(s.api, huma.Operation{
		OperationID:   "deleteNote",
		Method:        http.MethodDelete,
		Path:          "/api/v1/notes/{id}",
		Summary:       "Delete note",
		Description:   "Deletes a single note",
		Tags:          []string{"Notes"},
		Security:      bearerSecurity,
		DefaultStatus: http.StatusNoContent,
	}, s.handleDeleteNote)
}

// NoteIDInput identifies a note by path.
type NoteIDInput struct {
	ID string `path:"id" doc:"Note ID"`
}

func (s *Server) handleGetNote(ctx context.Context, input *NoteIDInput) (*NoteOutput, error) {
	note, err := s.services.Library.GetNote(ctx, actingUserID(ctx), input.ID)
	if err != nil {
		return nil, s.fail(ctx, "get note", err)
	}
	return &NoteOutput{Body: mapNoteResponse(note)}, nil
}

func (s *Server) handleDeleteNote(ctx context.Context, input *NoteIDInput) (*struct{}, error) {
	if err := s.services.Library.DeleteNote(ctx, actingUserID(ctx), input.ID); err != nil {
		return nil, s.fail(ctx, "delete note", err)
	}
	return nil, nil
}
