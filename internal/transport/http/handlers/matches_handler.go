package handlers

import (
	"errors"
	"net/http"

	authsvc "github.com/jack-boyd5/geartrade/internal/services/auth"
	matchessvc "github.com/jack-boyd5/geartrade/internal/services/matches"
	"github.com/jack-boyd5/geartrade/internal/transport/http/dto"
	httperrors "github.com/jack-boyd5/geartrade/internal/transport/http/errors"
)

type MatchesHandler struct {
	service *matchessvc.Service
}

func NewMatchesHandler(service *matchessvc.Service) *MatchesHandler {
	return &MatchesHandler{service: service}
}

func (h *MatchesHandler) Handle(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "MATCHES_SERVICE_UNAVAILABLE", "matches service is unavailable")
		return
	}

	items, err := h.service.List(r.Context(), identity.UserID)
	if err != nil {
		switch {
		case errors.Is(err, matchessvc.ErrValidation):
			writeBadRequest(w, "VALIDATION_ERROR", "invalid matches request")
		default:
			writeInternal(w, "INTERNAL_ERROR", "failed to load matches")
		}
		return
	}

	responseItems := make([]dto.MatchItemResponse, 0, len(items))
	for _, item := range items {
		responseItems = append(responseItems, dto.MatchItemResponse{
			CounterpartUserID:   item.CounterpartUserID,
			CounterpartUsername: item.CounterpartUsername,
			CounterpartLocation: item.CounterpartLocation,
			MyListingID:         item.MyListingID,
			TheirListingID:      item.TheirListingID,
			TheirListingLabel:   item.TheirListingLabel,
			TheirListingEmoji:   item.TheirListingEmoji,
			UnreadCount:         item.UnreadCount,
			MatchedAt:           item.MatchedAt,
		})
	}

	httperrors.Write(w, http.StatusOK, dto.MatchesResponse{Items: responseItems})
}
