package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"glowstash/internal/photos"
)

// uploadProductPhotoHandler godoc
//
//	@Summary		Upload product photo
//	@Description	Uploads a product photo and returns its public URL. The file field name is "photo".
//	@Tags			photos
//	@Accept			mpfd
//	@Produce		json
//	@Param			photo	file		file	true	"Image file (jpeg, png, webp or gif, max 5MB)"
//	@Success		201		{object}	photos.UploadResult
//	@Failure		400		{object}	ErrorBadRequestResponse		"Bad request"
//	@Failure		500		{object}	ErrorInternalServerResponse	"Internal Server Error"
//	@Security		ApiKeyAuth
//	@Router			/products/photos [post]
func (app *application) uploadProductPhotoHandler(w http.ResponseWriter, r *http.Request) {
	user := getUserFromContext(r)

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	// a little headroom over the 5MB file cap for the multipart framing
	const maxBytes = photos.MaxFileSize + 1024*1024
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	if err := r.ParseMultipartForm(maxBytes); err != nil {
		app.badRequestResponse(w, r, fmt.Errorf("failed to parse form: %w", err))
		return
	}

	file, header, err := r.FormFile("photo")
	if err != nil {
		app.badRequestResponse(w, r, fmt.Errorf("photo file is required"))
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")

	result := app.photos.Upload(ctx, user.ID, header.Filename, contentType, header.Size, file)
	if !result.Success {
		app.badRequestResponse(w, r, errors.New(result.Error))
		return
	}

	if err := app.jsonResponse(w, http.StatusCreated, result); err != nil {
		app.internalServerError(w, r, err)
	}
}

// deleteProductPhotoHandler godoc
//
//	@Summary		Delete product photo
//	@Description	Removes a stored photo by its public URL. Always reports success; storage failures are logged, never surfaced.
//	@Tags			photos
//	@Produce		json
//	@Param			photo_url	query		string	true	"Public URL of the photo"
//	@Success		200			{object}	map[string]string
//	@Security		ApiKeyAuth
//	@Router			/products/photos [delete]
func (app *application) deleteProductPhotoHandler(w http.ResponseWriter, r *http.Request) {
	user := getUserFromContext(r)

	photoURL := r.URL.Query().Get("photo_url")

	result := app.photos.Delete(r.Context(), user.ID, photoURL)
	if result.Err != nil {
		app.logger.Warnw("photo delete error ignored", "url", photoURL, "error", result.Err)
	}

	response := map[string]string{"status": "success"}

	if err := app.jsonResponse(w, http.StatusOK, response); err != nil {
		app.internalServerError(w, r, err)
	}
}

// storageStatusHandler godoc
//
//	@Summary		Storage status
//	@Description	Reports whether photo uploads can work and which bucket they would use.
//	@Tags			storage
//	@Produce		json
//	@Success		200	{object}	photos.Status
//	@Security		ApiKeyAuth
//	@Router			/storage/status [get]
func (app *application) storageStatusHandler(w http.ResponseWriter, r *http.Request) {
	status := app.photos.CheckStatus(r.Context())

	if err := app.jsonResponse(w, http.StatusOK, status); err != nil {
		app.internalServerError(w, r, err)
	}
}

// createBucketHandler godoc
//
//	@Summary		Create storage bucket
//	@Description	Creates the canonical photo bucket if it does not exist yet.
//	@Tags			storage
//	@Produce		json
//	@Success		201	{object}	photos.Status
//	@Failure		500	{object}	ErrorInternalServerResponse	"Internal Server Error"
//	@Security		ApiKeyAuth
//	@Router			/storage/bucket [post]
func (app *application) createBucketHandler(w http.ResponseWriter, r *http.Request) {
	if err := app.photos.EnsureBucket(r.Context()); err != nil {
		app.internalServerError(w, r, err)
		return
	}

	status := app.photos.CheckStatus(r.Context())

	if err := app.jsonResponse(w, http.StatusCreated, status); err != nil {
		app.internalServerError(w, r, err)
	}
}

// refreshBucketHandler godoc
//
//	@Summary		Refresh bucket detection
//	@Description	Drops the cached bucket name and re-runs auto-detection.
//	@Tags			storage
//	@Produce		json
//	@Success		200	{object}	photos.Status
//	@Security		ApiKeyAuth
//	@Router			/storage/refresh [post]
func (app *application) refreshBucketHandler(w http.ResponseWriter, r *http.Request) {
	status := app.photos.RefreshBucket(r.Context())

	if err := app.jsonResponse(w, http.StatusOK, status); err != nil {
		app.internalServerError(w, r, err)
	}
}

// verifyPhotosHandler godoc
//
//	@Summary		Verify photo associations
//	@Description	Reports photo coverage over the user's products: how many have photos, how many URLs look wrong, and which hosts the URLs point at.
//	@Tags			storage
//	@Produce		json
//	@Success		200	{object}	photos.VerificationReport
//	@Failure		500	{object}	ErrorInternalServerResponse	"Internal Server Error"
//	@Security		ApiKeyAuth
//	@Router			/storage/verify-photos [get]
func (app *application) verifyPhotosHandler(w http.ResponseWriter, r *http.Request) {
	user := getUserFromContext(r)

	cards, err := app.store.Products.ListBoard(r.Context(), user.ID)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	records := make([]photos.PhotoRecord, 0, len(cards))
	for _, c := range cards {
		records = append(records, photos.PhotoRecord{
			ID:        c.ID.String(),
			Name:      c.Name,
			PhotoURL:  c.PhotoURL,
			CreatedAt: c.CreatedAt,
		})
	}

	report := photos.VerifyPhotoRecords(records, app.storageHost())

	if err := app.jsonResponse(w, http.StatusOK, report); err != nil {
		app.internalServerError(w, r, err)
	}
}

// storageHost is the hostname product photo URLs are expected to point at.
func (app *application) storageHost() string {
	if base := app.config.storage.publicBaseURL; base != "" {
		if u, err := url.Parse(base); err == nil && u.Hostname() != "" {
			return u.Hostname()
		}
		return base
	}
	return app.config.storage.endpoint
}

// photoDebugHandler godoc
//
//	@Summary		Photo pipeline debug log
//	@Description	Returns the recorded upload pipeline steps. Empty unless STORAGE_DEBUG_LOG is enabled.
//	@Tags			ops
//	@Produce		json
//	@Success		200	{array}	photos.DebugEntry
//	@Router			/debug/photos [get]
func (app *application) photoDebugHandler(w http.ResponseWriter, r *http.Request) {
	entries := app.photos.DebugEntries()

	if err := app.jsonResponse(w, http.StatusOK, entries); err != nil {
		app.internalServerError(w, r, err)
	}
}
