package main

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"glowstash/internal/domain/products"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type CreateProductPayload struct {
	Name         string   `json:"name" validate:"required,max=255"`
	Brand        *string  `json:"brand" validate:"omitempty,max=255"`
	Price        *float64 `json:"price" validate:"omitempty,gte=0"`
	Category     *string  `json:"category"`
	PurchaseDate *string  `json:"purchase_date"`
	PhotoURL     *string  `json:"photo_url" validate:"omitempty,url,startswith=http"`
	UsageStatus  *string  `json:"usage_status"`
	Rating       *int16   `json:"rating" validate:"omitempty,gte=1,lte=5"`
}

// normalize trims the free-text fields before validation so a
// whitespace-only name fails the required check and a blank brand stores
// as null rather than an empty string.
func (p *CreateProductPayload) normalize() {
	p.Name = strings.TrimSpace(p.Name)
	p.Brand = trimOptional(p.Brand)
}

// trimOptional trims an optional text field; empty after trimming means the
// field is absent.
func trimOptional(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// createProductHandler godoc
//
//	@Summary		Create a product
//	@Description	Adds a product record to the authenticated user's shelf.
//	@Tags			products
//	@Accept			json
//	@Produce		json
//	@Param			payload	body		CreateProductPayload		true	"Product fields"
//	@Success		201		{object}	products.Product			"Product created"
//	@Failure		400		{object}	ErrorBadRequestResponse		"Bad request"
//	@Failure		500		{object}	ErrorInternalServerResponse	"Internal Server Error"
//	@Security		ApiKeyAuth
//	@Router			/products [post]
func (app *application) createProductHandler(w http.ResponseWriter, r *http.Request) {
	user := getUserFromContext(r)

	var payload CreateProductPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	payload.normalize()

	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if payload.Category != nil && !products.ValidCategory(*payload.Category) {
		app.badRequestResponse(w, r, fmt.Errorf("unknown category %q", *payload.Category))
		return
	}

	if payload.UsageStatus != nil && !products.UsageStatus(*payload.UsageStatus).Valid() {
		app.badRequestResponse(w, r, fmt.Errorf("unknown usage status %q", *payload.UsageStatus))
		return
	}

	purchaseDate, err := parsePurchaseDate(payload.PurchaseDate)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	product := &products.Product{
		UserID:       user.ID,
		Name:         payload.Name,
		Brand:        payload.Brand,
		Price:        payload.Price,
		Category:     payload.Category,
		PurchaseDate: purchaseDate,
		PhotoURL:     payload.PhotoURL,
		UsageStatus:  payload.UsageStatus,
		Rating:       payload.Rating,
	}

	if err := app.store.Products.Create(r.Context(), product); err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusCreated, product); err != nil {
		app.internalServerError(w, r, err)
	}
}

// ProductListResponse is the paginated inventory view. made for swagger doc success output
type ProductListResponse struct {
	Products   []*products.Product `json:"products"`
	TotalCount int                 `json:"total_count"`
}

// listProductsHandler godoc
//
//	@Summary		List products
//	@Description	Lists the user's products with optional search, filters, sorting and pagination.
//	@Tags			products
//	@Produce		json
//	@Param			search			query		string	false	"Substring match on name or brand"
//	@Param			category		query		string	false	"Category filter, 'all' disables"
//	@Param			brand			query		string	false	"Brand filter, 'all' disables"
//	@Param			rating			query		int		false	"Minimum rating floor"
//	@Param			usage_status	query		string	false	"Usage status filter, 'all' disables"
//	@Param			sort_by			query		string	false	"date_added, rating, name or price"
//	@Param			sort_order		query		string	false	"asc or desc"
//	@Param			limit			query		int		false	"Page size"
//	@Param			offset			query		int		false	"Page offset"
//	@Success		200				{object}	ProductListResponse
//	@Failure		400				{object}	ErrorBadRequestResponse		"Bad request"
//	@Failure		500				{object}	ErrorInternalServerResponse	"Internal Server Error"
//	@Security		ApiKeyAuth
//	@Router			/products [get]
func (app *application) listProductsHandler(w http.ResponseWriter, r *http.Request) {
	user := getUserFromContext(r)

	filter, err := products.Filter{}.Parse(r)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(filter); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	list, total, err := app.store.Products.ListFiltered(r.Context(), user.ID, filter)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	response := ProductListResponse{
		Products:   list,
		TotalCount: total,
	}

	if err := app.jsonResponse(w, http.StatusOK, response); err != nil {
		app.internalServerError(w, r, err)
	}
}

// filterOptionsHandler godoc
//
//	@Summary		Filter options
//	@Description	Returns the distinct categories, brands and usage statuses present in the user's products.
//	@Tags			products
//	@Produce		json
//	@Success		200	{object}	products.FilterOptions
//	@Failure		500	{object}	ErrorInternalServerResponse	"Internal Server Error"
//	@Security		ApiKeyAuth
//	@Router			/products/filter-options [get]
func (app *application) filterOptionsHandler(w http.ResponseWriter, r *http.Request) {
	user := getUserFromContext(r)

	options, err := app.store.Products.FilterOptions(r.Context(), user.ID)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, options); err != nil {
		app.internalServerError(w, r, err)
	}
}

// getProductHandler godoc
//
//	@Summary		Get a product
//	@Description	Fetches one product owned by the authenticated user.
//	@Tags			products
//	@Produce		json
//	@Param			productID	path		string	true	"Product ID"
//	@Success		200			{object}	products.Product
//	@Failure		400			{object}	ErrorBadRequestResponse		"Bad request"
//	@Failure		404			{object}	error						"Not found"
//	@Failure		500			{object}	ErrorInternalServerResponse	"Internal Server Error"
//	@Security		ApiKeyAuth
//	@Router			/products/{productID} [get]
func (app *application) getProductHandler(w http.ResponseWriter, r *http.Request) {
	user := getUserFromContext(r)

	productID, err := uuid.Parse(chi.URLParam(r, "productID"))
	if err != nil {
		app.badRequestResponse(w, r, fmt.Errorf("invalid product id"))
		return
	}

	product, err := app.store.Products.GetByID(r.Context(), user.ID, productID)
	if err != nil {
		switch err {
		case products.ErrNotFound:
			app.notFoundResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, product); err != nil {
		app.internalServerError(w, r, err)
	}
}

type UpdateProductPayload struct {
	Name         *string  `json:"name" validate:"omitempty,max=255"`
	Brand        *string  `json:"brand" validate:"omitempty,max=255"`
	Price        *float64 `json:"price" validate:"omitempty,gte=0"`
	Category     *string  `json:"category"`
	PurchaseDate *string  `json:"purchase_date"`
	PhotoURL     *string  `json:"photo_url" validate:"omitempty,url,startswith=http"`
	UsageStatus  *string  `json:"usage_status"`
	Rating       *int16   `json:"rating" validate:"omitempty,gte=1,lte=5"`
}

// normalize trims the free-text fields. A name provided but blank after
// trimming is rejected; it would otherwise wipe the stored name. A blank
// brand stays a non-nil pointer to "" so the handler can tell "clear the
// brand" apart from "brand not sent".
func (p *UpdateProductPayload) normalize() error {
	if p.Name != nil {
		trimmed := strings.TrimSpace(*p.Name)
		if trimmed == "" {
			return fmt.Errorf("name cannot be empty")
		}
		p.Name = &trimmed
	}
	if p.Brand != nil {
		trimmed := strings.TrimSpace(*p.Brand)
		p.Brand = &trimmed
	}
	return nil
}

// updateProductHandler godoc
//
//	@Summary		Update a product
//	@Description	Partially updates a product; only the provided fields change.
//	@Tags			products
//	@Accept			json
//	@Produce		json
//	@Param			productID	path		string					true	"Product ID"
//	@Param			payload		body		UpdateProductPayload	true	"Fields to update"
//	@Success		200			{object}	products.Product
//	@Failure		400			{object}	ErrorBadRequestResponse		"Bad request"
//	@Failure		404			{object}	error						"Not found"
//	@Failure		500			{object}	ErrorInternalServerResponse	"Internal Server Error"
//	@Security		ApiKeyAuth
//	@Router			/products/{productID} [patch]
func (app *application) updateProductHandler(w http.ResponseWriter, r *http.Request) {
	user := getUserFromContext(r)

	productID, err := uuid.Parse(chi.URLParam(r, "productID"))
	if err != nil {
		app.badRequestResponse(w, r, fmt.Errorf("invalid product id"))
		return
	}

	var payload UpdateProductPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := payload.normalize(); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if payload.Category != nil && !products.ValidCategory(*payload.Category) {
		app.badRequestResponse(w, r, fmt.Errorf("unknown category %q", *payload.Category))
		return
	}

	if payload.UsageStatus != nil && !products.UsageStatus(*payload.UsageStatus).Valid() {
		app.badRequestResponse(w, r, fmt.Errorf("unknown usage status %q", *payload.UsageStatus))
		return
	}

	product, err := app.store.Products.GetByID(r.Context(), user.ID, productID)
	if err != nil {
		switch err {
		case products.ErrNotFound:
			app.notFoundResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	if payload.Name != nil {
		product.Name = *payload.Name
	}
	if payload.Brand != nil {
		if *payload.Brand == "" {
			product.Brand = nil
		} else {
			product.Brand = payload.Brand
		}
	}
	if payload.Price != nil {
		product.Price = payload.Price
	}
	if payload.Category != nil {
		product.Category = payload.Category
	}
	if payload.PurchaseDate != nil {
		purchaseDate, err := parsePurchaseDate(payload.PurchaseDate)
		if err != nil {
			app.badRequestResponse(w, r, err)
			return
		}
		product.PurchaseDate = purchaseDate
	}
	if payload.PhotoURL != nil {
		product.PhotoURL = payload.PhotoURL
	}
	if payload.UsageStatus != nil {
		product.UsageStatus = payload.UsageStatus
	}
	if payload.Rating != nil {
		product.Rating = payload.Rating
	}

	if err := app.store.Products.Update(r.Context(), product); err != nil {
		switch err {
		case products.ErrNotFound:
			app.notFoundResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, product); err != nil {
		app.internalServerError(w, r, err)
	}
}

// deleteProductHandler godoc
//
//	@Summary		Delete a product
//	@Description	Deletes a product; its stored photo is removed best effort.
//	@Tags			products
//	@Produce		json
//	@Param			productID	path		string	true	"Product ID"
//	@Success		204			{string}	string	"No Content"
//	@Failure		400			{object}	ErrorBadRequestResponse		"Bad request"
//	@Failure		404			{object}	error						"Not found"
//	@Failure		500			{object}	ErrorInternalServerResponse	"Internal Server Error"
//	@Security		ApiKeyAuth
//	@Router			/products/{productID} [delete]
func (app *application) deleteProductHandler(w http.ResponseWriter, r *http.Request) {
	user := getUserFromContext(r)

	productID, err := uuid.Parse(chi.URLParam(r, "productID"))
	if err != nil {
		app.badRequestResponse(w, r, fmt.Errorf("invalid product id"))
		return
	}

	product, err := app.store.Products.GetByID(r.Context(), user.ID, productID)
	if err != nil {
		switch err {
		case products.ErrNotFound:
			app.notFoundResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	if err := app.store.Products.Delete(r.Context(), user.ID, productID); err != nil {
		switch err {
		case products.ErrNotFound:
			app.notFoundResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	// the record is gone; a leftover photo never blocks the delete
	if product.PhotoURL != nil {
		if result := app.photos.Delete(r.Context(), user.ID, *product.PhotoURL); result.Err != nil {
			app.logger.Warnw("photo cleanup failed", "product_id", productID, "error", result.Err)
		}
	}

	w.WriteHeader(http.StatusNoContent)
}

func parsePurchaseDate(s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}

	t, err := time.Parse("2006-01-02", *s)
	if err != nil {
		return nil, fmt.Errorf("invalid purchase_date, want YYYY-MM-DD: %w", err)
	}

	return &t, nil
}
