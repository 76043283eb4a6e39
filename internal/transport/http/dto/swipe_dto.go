package dto

type SwipeRequest struct {
	ListingID int64  `json:"listing_id"`
	Action    string `json:"action"`
}

type SwipeResponse struct {
	OK                  bool   `json:"ok"`
	Matched             bool   `json:"matched"`
	CounterpartUserID   int64  `json:"counterpart_user_id,omitempty"`
	CounterpartUsername string `json:"counterpart_username,omitempty"`
	MyListingID         int64  `json:"my_listing_id,omitempty"`
}
