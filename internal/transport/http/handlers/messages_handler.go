package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	authsvc "github.com/jack-boyd5/geartrade/internal/services/auth"
	messagingsvc "github.com/jack-boyd5/geartrade/internal/services/messaging"
	"github.com/jack-boyd5/geartrade/internal/transport/http/dto"
	httperrors "github.com/jack-boyd5/geartrade/internal/transport/http/errors"
)

type MessagesHandler struct {
	service *messagingsvc.Service
}

func NewMessagesHandler(service *messagingsvc.Service) *MessagesHandler {
	return &MessagesHandler{service: service}
}

func (h *MessagesHandler) Send(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "MESSAGING_SERVICE_UNAVAILABLE", "messaging service is unavailable")
		return
	}

	var req dto.SendMessageRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid request body")
		return
	}

	messageID, err := h.service.SendMessage(r.Context(), identity.UserID, req.ReceiverID, req.Content)
	if err != nil {
		handleMessagingError(w, err)
		return
	}

	httperrors.Write(w, http.StatusCreated, dto.SendMessageResponse{OK: true, MessageID: messageID})
}

func (h *MessagesHandler) Conversation(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "MESSAGING_SERVICE_UNAVAILABLE", "messaging service is unavailable")
		return
	}

	otherID, ok := parseID(chi.URLParam(r, "other_user_id"))
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "other_user_id must be a positive integer")
		return
	}

	items, err := h.service.ListConversation(r.Context(), identity.UserID, otherID)
	if err != nil {
		handleMessagingError(w, err)
		return
	}

	responseItems := make([]dto.MessageItemResponse, 0, len(items))
	for _, item := range items {
		responseItems = append(responseItems, dto.MessageItemResponse{
			ID:         item.ID,
			SenderID:   item.SenderID,
			ReceiverID: item.ReceiverID,
			Content:    item.Content,
			IsRead:     item.IsRead,
			CreatedAt:  item.CreatedAt,
		})
	}

	httperrors.Write(w, http.StatusOK, dto.ConversationResponse{Items: responseItems})
}

func (h *MessagesHandler) UnreadCount(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "MESSAGING_SERVICE_UNAVAILABLE", "messaging service is unavailable")
		return
	}

	unread, err := h.service.UnreadTotal(r.Context(), identity.UserID)
	if err != nil {
		handleMessagingError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, dto.UnreadCountResponse{Unread: unread})
}

func handleMessagingError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, messagingsvc.ErrValidation):
		writeBadRequest(w, "VALIDATION_ERROR", "invalid message request")
	case errors.Is(err, messagingsvc.ErrNotMatched):
		writeForbidden(w, "NOT_MATCHED", "messaging requires a match")
	default:
		writeInternal(w, "INTERNAL_ERROR", "failed to process message")
	}
}
