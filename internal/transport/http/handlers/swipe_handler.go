package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/jack-boyd5/geartrade/internal/domain/enums"
	authsvc "github.com/jack-boyd5/geartrade/internal/services/auth"
	swipesvc "github.com/jack-boyd5/geartrade/internal/services/swipes"
	"github.com/jack-boyd5/geartrade/internal/transport/http/dto"
	httperrors "github.com/jack-boyd5/geartrade/internal/transport/http/errors"
)

type SwipeHandler struct {
	service *swipesvc.Service
}

func NewSwipeHandler(service *swipesvc.Service) *SwipeHandler {
	return &SwipeHandler{service: service}
}

func (h *SwipeHandler) Handle(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "SWIPE_SERVICE_UNAVAILABLE", "swipe service is unavailable")
		return
	}

	var req dto.SwipeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid request body")
		return
	}
	if req.ListingID <= 0 || strings.TrimSpace(req.Action) == "" {
		writeBadRequest(w, "VALIDATION_ERROR", "listing_id and action are required")
		return
	}

	action, err := enums.ParseSwipeAction(req.Action)
	if err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", "unsupported action")
		return
	}

	result, err := h.service.Swipe(r.Context(), identity.UserID, req.ListingID, action)
	if err != nil {
		switch {
		case errors.Is(err, swipesvc.ErrValidation):
			writeBadRequest(w, "VALIDATION_ERROR", "invalid swipe request")
		case errors.Is(err, swipesvc.ErrSelfInterest):
			writeBadRequest(w, "SELF_INTEREST", "cannot swipe on your own listing")
		case errors.Is(err, swipesvc.ErrInvalidTarget):
			// Missing or deactivated listings are not an error for the
			// swiping client, the card is simply gone.
			httperrors.Write(w, http.StatusOK, dto.SwipeResponse{OK: true, Matched: false})
		default:
			writeInternal(w, "INTERNAL_ERROR", "failed to process swipe")
		}
		return
	}

	httperrors.Write(w, http.StatusOK, dto.SwipeResponse{
		OK:                  true,
		Matched:             result.Matched,
		CounterpartUserID:   result.CounterpartUserID,
		CounterpartUsername: result.CounterpartUsername,
		MyListingID:         result.MyListingID,
	})
}
