package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	authsvc "github.com/jack-boyd5/geartrade/internal/services/auth"
	swipesvc "github.com/jack-boyd5/geartrade/internal/services/swipes"
	httperrors "github.com/jack-boyd5/geartrade/internal/transport/http/errors"
)

func newSwipeRequest(body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/swipe", strings.NewReader(body))
	return req.WithContext(authsvc.WithIdentity(req.Context(), authsvc.Identity{UserID: 1, SID: "sid-1"}))
}

func TestSwipeRequiresIdentity(t *testing.T) {
	handler := NewSwipeHandler(swipesvc.NewService(swipesvc.Dependencies{}))

	rr := httptest.NewRecorder()
	handler.Handle(rr, httptest.NewRequest(http.MethodPost, "/api/swipe", strings.NewReader(`{"listing_id":20,"action":"like"}`)))

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("status: got %d want %d", rr.Code, http.StatusUnauthorized)
	}
}

func TestSwipeRejectsUnknownAction(t *testing.T) {
	handler := NewSwipeHandler(swipesvc.NewService(swipesvc.Dependencies{}))

	rr := httptest.NewRecorder()
	handler.Handle(rr, newSwipeRequest(`{"listing_id":20,"action":"superlike"}`))

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d want %d", rr.Code, http.StatusBadRequest)
	}

	var apiErr httperrors.APIError
	if err := json.NewDecoder(rr.Body).Decode(&apiErr); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	if apiErr.Code != "VALIDATION_ERROR" {
		t.Fatalf("unexpected error code: %q", apiErr.Code)
	}
}

func TestSwipeRejectsMissingFields(t *testing.T) {
	handler := NewSwipeHandler(swipesvc.NewService(swipesvc.Dependencies{}))

	cases := []string{
		`{"action":"like"}`,
		`{"listing_id":20}`,
		`{not json`,
	}
	for _, body := range cases {
		rr := httptest.NewRecorder()
		handler.Handle(rr, newSwipeRequest(body))
		if rr.Code != http.StatusBadRequest {
			t.Fatalf("body %s: status got %d want %d", body, rr.Code, http.StatusBadRequest)
		}
	}
}
