package main

import (
	"fmt"
	"net/http"

	"glowstash/internal/domain/products"
	"glowstash/internal/kanban"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// KanbanBoardResponse groups the cards by column. made for swagger doc success output
type KanbanBoardResponse struct {
	Columns map[products.UsageStatus][]*products.BoardCard `json:"columns"`
}

// getKanbanBoardHandler godoc
//
//	@Summary		Get kanban board
//	@Description	Returns the user's products grouped into the four status columns. Products without a status land in "new".
//	@Tags			kanban
//	@Produce		json
//	@Success		200	{object}	KanbanBoardResponse
//	@Failure		500	{object}	ErrorInternalServerResponse	"Internal Server Error"
//	@Security		ApiKeyAuth
//	@Router			/kanban [get]
func (app *application) getKanbanBoardHandler(w http.ResponseWriter, r *http.Request) {
	user := getUserFromContext(r)

	cards, err := app.store.Products.ListBoard(r.Context(), user.ID)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	board := kanban.NewBoard(user.ID, cards)

	response := KanbanBoardResponse{Columns: board.Columns()}

	if err := app.jsonResponse(w, http.StatusOK, response); err != nil {
		app.internalServerError(w, r, err)
	}
}

type MoveCardPayload struct {
	UsageStatus string `json:"usage_status" validate:"required"`
}

// MoveCardResponse is the post-move board state. made for swagger doc success output
type MoveCardResponse struct {
	Outcome kanban.MoveOutcome                             `json:"outcome"`
	Columns map[products.UsageStatus][]*products.BoardCard `json:"columns"`
}

// moveKanbanCardHandler godoc
//
//	@Summary		Move a kanban card
//	@Description	Moves a product to another status column. The move is applied optimistically and the whole board is restored if the database write fails.
//	@Tags			kanban
//	@Accept			json
//	@Produce		json
//	@Param			productID	path		string			true	"Product ID"
//	@Param			payload		body		MoveCardPayload	true	"Target column"
//	@Success		200			{object}	MoveCardResponse
//	@Failure		400			{object}	ErrorBadRequestResponse		"Bad request"
//	@Failure		404			{object}	error						"Not found"
//	@Failure		500			{object}	ErrorInternalServerResponse	"Internal Server Error"
//	@Security		ApiKeyAuth
//	@Router			/kanban/products/{productID} [patch]
func (app *application) moveKanbanCardHandler(w http.ResponseWriter, r *http.Request) {
	user := getUserFromContext(r)

	productID, err := uuid.Parse(chi.URLParam(r, "productID"))
	if err != nil {
		app.badRequestResponse(w, r, fmt.Errorf("invalid product id"))
		return
	}

	var payload MoveCardPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	cards, err := app.store.Products.ListBoard(r.Context(), user.ID)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	board := kanban.NewBoard(user.ID, cards)

	outcome, err := board.Move(r.Context(), productID, products.UsageStatus(payload.UsageStatus), app.store.Products)
	if err != nil {
		switch err {
		case kanban.ErrInvalidStatus:
			app.badRequestResponse(w, r, err)
		case kanban.ErrUnknownCard:
			app.notFoundResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	response := MoveCardResponse{
		Outcome: outcome,
		Columns: board.Columns(),
	}

	if err := app.jsonResponse(w, http.StatusOK, response); err != nil {
		app.internalServerError(w, r, err)
	}
}
