package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5"

	pgrepo "github.com/jack-boyd5/geartrade/internal/repo/postgres"
	authsvc "github.com/jack-boyd5/geartrade/internal/services/auth"
	messagingsvc "github.com/jack-boyd5/geartrade/internal/services/messaging"
	"github.com/jack-boyd5/geartrade/internal/transport/http/dto"
	httperrors "github.com/jack-boyd5/geartrade/internal/transport/http/errors"
)

type msgMatchStoreStub struct {
	exists bool
}

func (s msgMatchStoreStub) ExistsForPair(context.Context, int64, int64) (bool, error) {
	return s.exists, nil
}

type msgMessageStoreStub struct {
	unread int64
}

func (s msgMessageStoreStub) Create(context.Context, pgx.Tx, int64, int64, string) (int64, error) {
	return 1, nil
}

func (s msgMessageStoreStub) ListConversation(context.Context, pgx.Tx, int64, int64) ([]pgrepo.MessageRecord, error) {
	return nil, nil
}

func (s msgMessageStoreStub) MarkRead(context.Context, pgx.Tx, int64, int64) error {
	return nil
}

func (s msgMessageStoreStub) CountUnread(context.Context, int64) (int64, error) {
	return s.unread, nil
}

func newMessagingService(matched bool, unread int64) *messagingsvc.Service {
	return messagingsvc.NewService(messagingsvc.Dependencies{
		Matches:  msgMatchStoreStub{exists: matched},
		Messages: msgMessageStoreStub{unread: unread},
	}, 0)
}

func asUser(req *http.Request, userID int64) *http.Request {
	return req.WithContext(authsvc.WithIdentity(req.Context(), authsvc.Identity{UserID: userID, SID: "sid"}))
}

func TestSendMessageWithoutMatchReturns403(t *testing.T) {
	handler := NewMessagesHandler(newMessagingService(false, 0))

	body := `{"receiver_id":2,"content":"is it still available?"}`
	rr := httptest.NewRecorder()
	handler.Send(rr, asUser(httptest.NewRequest(http.MethodPost, "/api/messages", strings.NewReader(body)), 1))

	if rr.Code != http.StatusForbidden {
		t.Fatalf("status: got %d want %d", rr.Code, http.StatusForbidden)
	}

	var apiErr httperrors.APIError
	if err := json.NewDecoder(rr.Body).Decode(&apiErr); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	if apiErr.Code != "NOT_MATCHED" {
		t.Fatalf("unexpected error code: %q", apiErr.Code)
	}
}

func TestSendMessageRejectsSelf(t *testing.T) {
	handler := NewMessagesHandler(newMessagingService(true, 0))

	body := `{"receiver_id":1,"content":"hello me"}`
	rr := httptest.NewRecorder()
	handler.Send(rr, asUser(httptest.NewRequest(http.MethodPost, "/api/messages", strings.NewReader(body)), 1))

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d want %d", rr.Code, http.StatusBadRequest)
	}
}

func TestUnreadCount(t *testing.T) {
	handler := NewMessagesHandler(newMessagingService(true, 4))

	rr := httptest.NewRecorder()
	handler.UnreadCount(rr, asUser(httptest.NewRequest(http.MethodGet, "/api/messages/unread/count", nil), 1))

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d want %d", rr.Code, http.StatusOK)
	}

	var payload dto.UnreadCountResponse
	if err := json.NewDecoder(rr.Body).Decode(&payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload.Unread != 4 {
		t.Fatalf("unexpected unread count: %d", payload.Unread)
	}
}

func TestConversationRejectsBadUserParam(t *testing.T) {
	handler := NewMessagesHandler(newMessagingService(true, 0))

	req := asUser(httptest.NewRequest(http.MethodGet, "/api/messages/abc", nil), 1)
	req = req.WithContext(withURLParam(req.Context(), "other_user_id", "abc"))

	rr := httptest.NewRecorder()
	handler.Conversation(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d want %d", rr.Code, http.StatusBadRequest)
	}
}
