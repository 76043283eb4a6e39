package dto

import "time"

type CreateListingRequest struct {
	Make        string `json:"make"`
	Model       string `json:"model"`
	Year        int    `json:"year"`
	Price       int64  `json:"price"`
	Mileage     int64  `json:"mileage"`
	Condition   string `json:"condition"`
	ListingType string `json:"listing_type,omitempty"`
	Description string `json:"description,omitempty"`
	Emoji       string `json:"emoji,omitempty"`
}

type CreateListingResponse struct {
	OK        bool  `json:"ok"`
	ListingID int64 `json:"listing_id"`
}

type UpdateListingRequest struct {
	Price       *int64  `json:"price,omitempty"`
	Mileage     *int64  `json:"mileage,omitempty"`
	Condition   *string `json:"condition,omitempty"`
	Description *string `json:"description,omitempty"`
	IsActive    *bool   `json:"is_active,omitempty"`
}

type ListingCardResponse struct {
	ID            int64     `json:"id"`
	OwnerID       int64     `json:"owner_id"`
	OwnerUsername string    `json:"owner_username"`
	OwnerLocation string    `json:"owner_location,omitempty"`
	Make          string    `json:"make"`
	Model         string    `json:"model"`
	Year          int       `json:"year"`
	Price         int64     `json:"price"`
	Mileage       int64     `json:"mileage"`
	Condition     string    `json:"condition"`
	ListingType   string    `json:"listing_type"`
	Description   string    `json:"description,omitempty"`
	Emoji         string    `json:"emoji,omitempty"`
	ViewCount     int64     `json:"view_count"`
	Photos        []string  `json:"photos"`
	CreatedAt     time.Time `json:"created_at"`
}

type MarketplaceResponse struct {
	Items []ListingCardResponse `json:"items"`
}

type GarageItemResponse struct {
	ID           int64     `json:"id"`
	Make         string    `json:"make"`
	Model        string    `json:"model"`
	Year         int       `json:"year"`
	Price        int64     `json:"price"`
	Mileage      int64     `json:"mileage"`
	Condition    string    `json:"condition"`
	ListingType  string    `json:"listing_type"`
	Description  string    `json:"description,omitempty"`
	Emoji        string    `json:"emoji,omitempty"`
	ViewCount    int64     `json:"view_count"`
	LikeCount    int64     `json:"like_count"`
	PrimaryPhoto string    `json:"primary_photo,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

type GarageResponse struct {
	Items []GarageItemResponse `json:"items"`
}

type OKResponse struct {
	OK bool `json:"ok"`
}
