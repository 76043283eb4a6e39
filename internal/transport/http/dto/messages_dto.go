package dto

import "time"

type SendMessageRequest struct {
	ReceiverID int64  `json:"receiver_id"`
	Content    string `json:"content"`
}

type SendMessageResponse struct {
	OK        bool  `json:"ok"`
	MessageID int64 `json:"message_id"`
}

type MessageItemResponse struct {
	ID         int64     `json:"id"`
	SenderID   int64     `json:"sender_id"`
	ReceiverID int64     `json:"receiver_id"`
	Content    string    `json:"content"`
	IsRead     bool      `json:"is_read"`
	CreatedAt  time.Time `json:"created_at"`
}

type ConversationResponse struct {
	Items []MessageItemResponse `json:"items"`
}

type UnreadCountResponse struct {
	Unread int64 `json:"unread"`
}
