package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	authsvc "github.com/jack-boyd5/geartrade/internal/services/auth"
	listingssvc "github.com/jack-boyd5/geartrade/internal/services/listings"
	"github.com/jack-boyd5/geartrade/internal/transport/http/dto"
	httperrors "github.com/jack-boyd5/geartrade/internal/transport/http/errors"
)

type ListingsHandler struct {
	service *listingssvc.Service
}

func NewListingsHandler(service *listingssvc.Service) *ListingsHandler {
	return &ListingsHandler{service: service}
}

func (h *ListingsHandler) Create(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "LISTINGS_SERVICE_UNAVAILABLE", "listings service is unavailable")
		return
	}

	var req dto.CreateListingRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid request body")
		return
	}

	listingID, err := h.service.Create(r.Context(), identity.UserID, listingssvc.CreateInput{
		Make:        req.Make,
		Model:       req.Model,
		Year:        req.Year,
		Price:       req.Price,
		Mileage:     req.Mileage,
		Condition:   req.Condition,
		ListingType: req.ListingType,
		Description: req.Description,
		Emoji:       req.Emoji,
	})
	if err != nil {
		handleListingsError(w, err)
		return
	}

	httperrors.Write(w, http.StatusCreated, dto.CreateListingResponse{OK: true, ListingID: listingID})
}

func (h *ListingsHandler) Marketplace(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "LISTINGS_SERVICE_UNAVAILABLE", "listings service is unavailable")
		return
	}

	items, err := h.service.Marketplace(r.Context(), identity.UserID)
	if err != nil {
		handleListingsError(w, err)
		return
	}

	responseItems := make([]dto.ListingCardResponse, 0, len(items))
	for _, item := range items {
		responseItems = append(responseItems, mapListingCard(item))
	}

	httperrors.Write(w, http.StatusOK, dto.MarketplaceResponse{Items: responseItems})
}

func (h *ListingsHandler) Garage(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "LISTINGS_SERVICE_UNAVAILABLE", "listings service is unavailable")
		return
	}

	items, err := h.service.Garage(r.Context(), identity.UserID)
	if err != nil {
		handleListingsError(w, err)
		return
	}

	responseItems := make([]dto.GarageItemResponse, 0, len(items))
	for _, item := range items {
		responseItems = append(responseItems, dto.GarageItemResponse{
			ID:           item.ID,
			Make:         item.Make,
			Model:        item.Model,
			Year:         item.Year,
			Price:        item.Price,
			Mileage:      item.Mileage,
			Condition:    item.Condition,
			ListingType:  item.ListingType,
			Description:  item.Description,
			Emoji:        item.Emoji,
			ViewCount:    item.ViewCount,
			LikeCount:    item.LikeCount,
			PrimaryPhoto: item.PrimaryPhoto,
			CreatedAt:    item.CreatedAt,
		})
	}

	httperrors.Write(w, http.StatusOK, dto.GarageResponse{Items: responseItems})
}

func (h *ListingsHandler) Update(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "LISTINGS_SERVICE_UNAVAILABLE", "listings service is unavailable")
		return
	}

	listingID, ok := parseID(chi.URLParam(r, "listing_id"))
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "listing_id must be a positive integer")
		return
	}

	var req dto.UpdateListingRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid request body")
		return
	}

	err := h.service.Update(r.Context(), listingID, identity.UserID, listingssvc.UpdateInput{
		Price:       req.Price,
		Mileage:     req.Mileage,
		Condition:   req.Condition,
		Description: req.Description,
		IsActive:    req.IsActive,
	})
	if err != nil {
		handleListingsError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, dto.OKResponse{OK: true})
}

func (h *ListingsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "LISTINGS_SERVICE_UNAVAILABLE", "listings service is unavailable")
		return
	}

	listingID, ok := parseID(chi.URLParam(r, "listing_id"))
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "listing_id must be a positive integer")
		return
	}

	if err := h.service.Delete(r.Context(), listingID, identity.UserID); err != nil {
		handleListingsError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, dto.OKResponse{OK: true})
}

func (h *ListingsHandler) RecordView(w http.ResponseWriter, r *http.Request) {
	if _, ok := authsvc.IdentityFromContext(r.Context()); !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "LISTINGS_SERVICE_UNAVAILABLE", "listings service is unavailable")
		return
	}

	listingID, ok := parseID(chi.URLParam(r, "listing_id"))
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "listing_id must be a positive integer")
		return
	}

	if err := h.service.RecordView(r.Context(), listingID); err != nil {
		handleListingsError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, dto.OKResponse{OK: true})
}

func mapListingCard(item listingssvc.Card) dto.ListingCardResponse {
	return dto.ListingCardResponse{
		ID:            item.ID,
		OwnerID:       item.OwnerID,
		OwnerUsername: item.OwnerUsername,
		OwnerLocation: item.OwnerLocation,
		Make:          item.Make,
		Model:         item.Model,
		Year:          item.Year,
		Price:         item.Price,
		Mileage:       item.Mileage,
		Condition:     item.Condition,
		ListingType:   item.ListingType,
		Description:   item.Description,
		Emoji:         item.Emoji,
		ViewCount:     item.ViewCount,
		Photos:        item.Photos,
		CreatedAt:     item.CreatedAt,
	}
}

func handleListingsError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, listingssvc.ErrValidation):
		writeBadRequest(w, "VALIDATION_ERROR", "invalid listing request")
	case errors.Is(err, listingssvc.ErrNotFound):
		writeNotFound(w, "LISTING_NOT_FOUND", "listing not found")
	case errors.Is(err, listingssvc.ErrForbidden):
		writeForbidden(w, "FORBIDDEN", "not the listing owner")
	default:
		writeInternal(w, "INTERNAL_ERROR", "failed to process listing request")
	}
}
