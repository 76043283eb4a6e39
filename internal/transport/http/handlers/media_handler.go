package handlers

import (
	"errors"
	"mime/multipart"
	"net/http"

	"github.com/go-chi/chi/v5"

	authsvc "github.com/jack-boyd5/geartrade/internal/services/auth"
	mediasvc "github.com/jack-boyd5/geartrade/internal/services/media"
	"github.com/jack-boyd5/geartrade/internal/transport/http/dto"
	httperrors "github.com/jack-boyd5/geartrade/internal/transport/http/errors"
)

const maxPhotoUploadSize = 20 << 20 // 20 MiB

type MediaHandler struct {
	service *mediasvc.Service
}

func NewMediaHandler(service *mediasvc.Service) *MediaHandler {
	return &MediaHandler{service: service}
}

func (h *MediaHandler) ListingPhotoUpload(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "MEDIA_SERVICE_UNAVAILABLE", "media service is unavailable")
		return
	}

	listingID, ok := parseID(chi.URLParam(r, "listing_id"))
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "listing_id must be a positive integer")
		return
	}

	file, header, ok := formFile(w, r)
	if !ok {
		return
	}
	defer file.Close()

	isPrimary := r.FormValue("is_primary") == "true"

	url, err := h.service.UploadListingPhoto(
		r.Context(),
		identity.UserID,
		listingID,
		header.Filename,
		uploadContentType(header.Header.Get("Content-Type")),
		file,
		header.Size,
		isPrimary,
	)
	if err != nil {
		handleMediaError(w, err)
		return
	}

	httperrors.Write(w, http.StatusCreated, dto.UploadPhotoResponse{OK: true, URL: url})
}

func (h *MediaHandler) ProfilePhotoUpload(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "MEDIA_SERVICE_UNAVAILABLE", "media service is unavailable")
		return
	}

	file, header, ok := formFile(w, r)
	if !ok {
		return
	}
	defer file.Close()

	url, err := h.service.UploadProfilePhoto(
		r.Context(),
		identity.UserID,
		header.Filename,
		uploadContentType(header.Header.Get("Content-Type")),
		file,
		header.Size,
	)
	if err != nil {
		handleMediaError(w, err)
		return
	}

	httperrors.Write(w, http.StatusCreated, dto.UploadPhotoResponse{OK: true, URL: url})
}

func formFile(w http.ResponseWriter, r *http.Request) (multipart.File, *multipart.FileHeader, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, maxPhotoUploadSize)
	if err := r.ParseMultipartForm(maxPhotoUploadSize); err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid multipart form")
		return nil, nil, false
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", "file is required")
		return nil, nil, false
	}
	if header == nil || header.Size <= 0 {
		file.Close()
		writeBadRequest(w, "VALIDATION_ERROR", "file is empty")
		return nil, nil, false
	}
	return file, header, true
}

func uploadContentType(contentType string) string {
	if contentType == "" {
		return "application/octet-stream"
	}
	return contentType
}

func handleMediaError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, mediasvc.ErrValidation):
		writeBadRequest(w, "VALIDATION_ERROR", "invalid upload request")
	case errors.Is(err, mediasvc.ErrNotFound):
		writeNotFound(w, "LISTING_NOT_FOUND", "listing not found")
	case errors.Is(err, mediasvc.ErrForbidden):
		writeForbidden(w, "FORBIDDEN", "not the listing owner")
	default:
		writeInternal(w, "INTERNAL_ERROR", "failed to upload photo")
	}
}
