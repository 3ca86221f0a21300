// ContraVento - Cycling Trip Journal and Social Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/contravento

package api

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/tomtom215/contravento/internal/models"
	"github.com/tomtom215/contravento/internal/service"
)

const (
	// multipartOverhead is allowed on top of the file size for boundaries
	// and the other form fields.
	multipartOverhead = 1 << 20
	multipartMemory   = 8 << 20
)

// formFile reads the named file part of a multipart body of at most
// maxFile bytes. It writes the error response and returns ok=false on
// failure; the caller closes the file.
func formFile(w http.ResponseWriter, r *http.Request, field string, maxFile int64) (multipart.File, *multipart.FileHeader, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFile+multipartOverhead)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondError(w, r, http.StatusRequestEntityTooLarge, ErrorBody{Code: service.CodeFileTooLarge, Field: field, Message: "El archivo supera el tamaño máximo permitido"})
			return nil, nil, false
		}
		respondValidation(w, r, field, "Se esperaba un formulario multipart")
		return nil, nil, false
	}
	f, hdr, err := r.FormFile(field)
	if err != nil {
		respondValidation(w, r, field, "Falta el archivo "+field)
		return nil, nil, false
	}
	return f, hdr, true
}

// UploadPhoto adds a photo to a trip.
//
//	@Summary	Upload a trip photo
//	@Tags		photos
//	@Accept		multipart/form-data
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id		path		string	true	"Trip ID"
//	@Param		photo	formData	file	true	"JPEG, PNG or WebP"
//	@Param		caption	formData	string	false	"Caption"
//	@Success	201		{object}	Response{data=models.TripPhoto}
//	@Failure	400		{object}	Response
//	@Failure	413		{object}	Response
//	@Router		/trips/{id}/photos [post]
func (h *Handler) UploadPhoto(w http.ResponseWriter, r *http.Request) {
	f, _, ok := formFile(w, r, "photo", h.cfg.Uploads.MaxPhotoBytes)
	if !ok {
		return
	}
	defer func() { _ = f.Close() }()

	var caption *string
	if vals, present := r.MultipartForm.Value["caption"]; present && len(vals) > 0 && vals[0] != "" {
		caption = &vals[0]
	}
	photo, err := h.svc.UploadPhoto(r.Context(), viewerID(r), urlParam(r, "id"), f, caption)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondOK(w, r, http.StatusCreated, photo)
}

// UpdatePhotoCaption sets or clears a caption.
//
//	@Summary	Edit a photo caption
//	@Tags		photos
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id		path		string				true	"Trip ID"
//	@Param		photoID	path		string				true	"Photo ID"
//	@Param		body	body		models.CaptionInput	true	"Caption"
//	@Success	200		{object}	Response{data=models.TripPhoto}
//	@Router		/trips/{id}/photos/{photoID} [put]
func (h *Handler) UpdatePhotoCaption(w http.ResponseWriter, r *http.Request) {
	var in models.CaptionInput
	if !decodeJSON(w, r, &in) {
		return
	}
	photo, err := h.svc.UpdatePhotoCaption(r.Context(), viewerID(r), urlParam(r, "id"), urlParam(r, "photoID"), in)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondOK(w, r, http.StatusOK, photo)
}

// ReorderPhotos sets the display order of every photo of a trip.
//
//	@Summary	Reorder photos
//	@Tags		photos
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id		path		string					true	"Trip ID"
//	@Param		body	body		models.PhotoOrderInput	true	"Photo IDs in display order"
//	@Success	200		{object}	Response{data=[]models.TripPhoto}
//	@Router		/trips/{id}/photos/order [put]
func (h *Handler) ReorderPhotos(w http.ResponseWriter, r *http.Request) {
	var in models.PhotoOrderInput
	if !decodeJSON(w, r, &in) {
		return
	}
	list, err := h.svc.ReorderPhotos(r.Context(), viewerID(r), urlParam(r, "id"), in)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondOK(w, r, http.StatusOK, list)
}

// DeletePhoto removes a photo and its files.
//
//	@Summary	Delete a photo
//	@Tags		photos
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id		path		string	true	"Trip ID"
//	@Param		photoID	path		string	true	"Photo ID"
//	@Success	200		{object}	Response
//	@Router		/trips/{id}/photos/{photoID} [delete]
func (h *Handler) DeletePhoto(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeletePhoto(r.Context(), viewerID(r), urlParam(r, "id"), urlParam(r, "photoID")); err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondOK(w, r, http.StatusOK, messageResponse{Message: "Foto eliminada"})
}

// ReplaceLocations replaces a trip's location list.
//
//	@Summary	Replace trip locations
//	@Tags		locations
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id		path		string					true	"Trip ID"
//	@Param		body	body		models.LocationsInput	true	"Locations in order"
//	@Success	200		{object}	Response{data=[]models.TripLocation}
//	@Router		/trips/{id}/locations [put]
func (h *Handler) ReplaceLocations(w http.ResponseWriter, r *http.Request) {
	var in models.LocationsInput
	if !decodeJSON(w, r, &in) {
		return
	}
	locs, err := h.svc.ReplaceLocations(r.Context(), viewerID(r), urlParam(r, "id"), in)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondOK(w, r, http.StatusOK, locs)
}

// AppendLocation adds one location at the end of the list.
//
//	@Summary	Add a trip location
//	@Tags		locations
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id		path		string					true	"Trip ID"
//	@Param		body	body		models.LocationInput	true	"Location"
//	@Success	201		{object}	Response{data=models.TripLocation}
//	@Router		/trips/{id}/locations [post]
func (h *Handler) AppendLocation(w http.ResponseWriter, r *http.Request) {
	var in models.LocationInput
	if !decodeJSON(w, r, &in) {
		return
	}
	loc, err := h.svc.AppendLocation(r.Context(), viewerID(r), urlParam(r, "id"), in)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondOK(w, r, http.StatusCreated, loc)
}

// UploadGPX attaches a GPX track to a trip, replacing any previous one.
//
//	@Summary	Upload a GPX track
//	@Tags		gpx
//	@Accept		multipart/form-data
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id		path		string	true	"Trip ID"
//	@Param		file	formData	file	true	"GPX 1.0 or 1.1"
//	@Success	201		{object}	Response{data=models.GPXFile}
//	@Failure	400		{object}	Response
//	@Router		/trips/{id}/gpx [post]
func (h *Handler) UploadGPX(w http.ResponseWriter, r *http.Request) {
	maxBytes := h.cfg.Uploads.MaxGPXBytes
	f, hdr, ok := formFile(w, r, "file", maxBytes)
	if !ok {
		return
	}
	defer func() { _ = f.Close() }()

	data, err := io.ReadAll(io.LimitReader(f, maxBytes+1))
	if err != nil {
		respondValidation(w, r, "file", "No se pudo leer el archivo")
		return
	}
	file, err := h.svc.UploadGPX(r.Context(), viewerID(r), urlParam(r, "id"), hdr.Filename, data)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondOK(w, r, http.StatusCreated, file)
}

// GetGPX returns a trip's GPX telemetry.
//
//	@Summary	GPX telemetry
//	@Tags		gpx
//	@Produce	json
//	@Param		id	path		string	true	"Trip ID"
//	@Success	200	{object}	Response{data=models.GPXFile}
//	@Router		/trips/{id}/gpx [get]
func (h *Handler) GetGPX(w http.ResponseWriter, r *http.Request) {
	file, err := h.svc.GetGPX(r.Context(), viewerID(r), urlParam(r, "id"))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondOK(w, r, http.StatusOK, file)
}

// GetTrack returns the simplified track for map rendering.
//
//	@Summary	Simplified track
//	@Tags		gpx
//	@Produce	json
//	@Param		id	path		string	true	"Trip ID"
//	@Success	200	{object}	Response{data=models.GPXTrack}
//	@Router		/trips/{id}/gpx/track [get]
func (h *Handler) GetTrack(w http.ResponseWriter, r *http.Request) {
	track, err := h.svc.GetTrack(r.Context(), viewerID(r), urlParam(r, "id"))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondOK(w, r, http.StatusOK, track)
}

// DeleteGPX removes a trip's GPX. The trip keeps its distance.
//
//	@Summary	Delete the GPX track
//	@Tags		gpx
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id	path		string	true	"Trip ID"
//	@Success	200	{object}	Response
//	@Router		/trips/{id}/gpx [delete]
func (h *Handler) DeleteGPX(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteGPX(r.Context(), viewerID(r), urlParam(r, "id")); err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondOK(w, r, http.StatusOK, messageResponse{Message: "GPX eliminado"})
}
