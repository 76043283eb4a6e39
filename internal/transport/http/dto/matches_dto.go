package dto

import "time"

type MatchItemResponse struct {
	CounterpartUserID   int64     `json:"counterpart_user_id"`
	CounterpartUsername string    `json:"counterpart_username"`
	CounterpartLocation string    `json:"counterpart_location,omitempty"`
	MyListingID         int64     `json:"my_listing_id"`
	TheirListingID      int64     `json:"their_listing_id"`
	TheirListingLabel   string    `json:"their_listing_label"`
	TheirListingEmoji   string    `json:"their_listing_emoji,omitempty"`
	UnreadCount         int64     `json:"unread_count"`
	MatchedAt           time.Time `json:"matched_at"`
}

type MatchesResponse struct {
	Items []MatchItemResponse `json:"items"`
}
