package handlers

import (
	"errors"
	"net/http"

	authsvc "github.com/jack-boyd5/geartrade/internal/services/auth"
	statssvc "github.com/jack-boyd5/geartrade/internal/services/stats"
	"github.com/jack-boyd5/geartrade/internal/transport/http/dto"
	httperrors "github.com/jack-boyd5/geartrade/internal/transport/http/errors"
)

type StatsHandler struct {
	service *statssvc.Service
}

func NewStatsHandler(service *statssvc.Service) *StatsHandler {
	return &StatsHandler{service: service}
}

func (h *StatsHandler) Handle(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "STATS_SERVICE_UNAVAILABLE", "stats service is unavailable")
		return
	}

	stats, err := h.service.ForUser(r.Context(), identity.UserID)
	if err != nil {
		switch {
		case errors.Is(err, statssvc.ErrValidation):
			writeBadRequest(w, "VALIDATION_ERROR", "invalid stats request")
		default:
			writeInternal(w, "INTERNAL_ERROR", "failed to load stats")
		}
		return
	}

	httperrors.Write(w, http.StatusOK, dto.StatsResponse{
		Matches:       stats.Matches,
		LikesGiven:    stats.LikesGiven,
		LikesReceived: stats.LikesReceived,
		Listings:      stats.Listings,
		TotalViews:    stats.TotalViews,
	})
}
