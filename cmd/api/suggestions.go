package main

import (
	"net/http"
)

// generateSuggestionsHandler godoc
//
//	@Summary		Generate product suggestions
//	@Description	Builds a taste profile from repurchase-worthy and highly rated products and asks the model for five similar products. The result always comes back with HTTP 200; failures are reported inside the payload.
//	@Tags			suggestions
//	@Produce		json
//	@Success		200	{object}	suggestions.Result
//	@Security		ApiKeyAuth
//	@Router			/suggestions [post]
func (app *application) generateSuggestionsHandler(w http.ResponseWriter, r *http.Request) {
	user := getUserFromContext(r)

	result := app.suggestions.Generate(r.Context(), user.ID)

	if err := app.jsonResponse(w, http.StatusOK, result); err != nil {
		app.internalServerError(w, r, err)
	}
}

// productStatsHandler godoc
//
//	@Summary		Product statistics
//	@Description	Counts, top categories and top brands over the user's shelf.
//	@Tags			suggestions
//	@Produce		json
//	@Success		200	{object}	suggestions.Stats
//	@Failure		500	{object}	ErrorInternalServerResponse	"Internal Server Error"
//	@Security		ApiKeyAuth
//	@Router			/suggestions/stats [get]
func (app *application) productStatsHandler(w http.ResponseWriter, r *http.Request) {
	user := getUserFromContext(r)

	stats, err := app.suggestions.Stats(r.Context(), user.ID)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, stats); err != nil {
		app.internalServerError(w, r, err)
	}
}
