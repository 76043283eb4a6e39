package listings

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	pgrepo "github.com/jack-boyd5/geartrade/internal/repo/postgres"
)

var (
	ErrValidation = errors.New("validation error")
	ErrNotFound   = errors.New("listing not found")
	ErrForbidden  = errors.New("not the listing owner")
)

type ListingStore interface {
	Create(ctx context.Context, listing pgrepo.ListingRecord) (int64, error)
	OwnerOf(ctx context.Context, listingID int64) (int64, error)
	Marketplace(ctx context.Context, viewerID int64, limit int) ([]pgrepo.MarketplaceRecord, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]pgrepo.GarageRecord, error)
	Update(ctx context.Context, listingID, ownerID int64, update pgrepo.ListingUpdate) error
	SoftDelete(ctx context.Context, listingID, ownerID int64) error
	IncrementViewCount(ctx context.Context, listingID int64) error
}

type PhotoStore interface {
	ListByListing(ctx context.Context, listingID int64) ([]pgrepo.PhotoRecord, error)
}

type CreateInput struct {
	Make        string
	Model       string
	Year        int
	Price       int64
	Mileage     int64
	Condition   string
	ListingType string
	Description string
	Emoji       string
}

type UpdateInput struct {
	Price       *int64
	Mileage     *int64
	Condition   *string
	Description *string
	IsActive    *bool
}

type Card struct {
	ID            int64
	OwnerID       int64
	OwnerUsername string
	OwnerLocation string
	Make          string
	Model         string
	Year          int
	Price         int64
	Mileage       int64
	Condition     string
	ListingType   string
	Description   string
	Emoji         string
	ViewCount     int64
	Photos        []string
	CreatedAt     time.Time
}

type GarageItem struct {
	ID           int64
	Make         string
	Model        string
	Year         int
	Price        int64
	Mileage      int64
	Condition    string
	ListingType  string
	Description  string
	Emoji        string
	ViewCount    int64
	LikeCount    int64
	PrimaryPhoto string
	CreatedAt    time.Time
}

type Config struct {
	MarketplacePageSize int
}

type Service struct {
	listings ListingStore
	photos   PhotoStore
	cfg      Config
}

func NewService(listings ListingStore, photos PhotoStore, cfg Config) *Service {
	if cfg.MarketplacePageSize <= 0 {
		cfg.MarketplacePageSize = 20
	}
	return &Service{
		listings: listings,
		photos:   photos,
		cfg:      cfg,
	}
}

func (s *Service) Create(ctx context.Context, ownerID int64, input CreateInput) (int64, error) {
	if ownerID <= 0 {
		return 0, ErrValidation
	}
	if strings.TrimSpace(input.Make) == "" || strings.TrimSpace(input.Model) == "" {
		return 0, ErrValidation
	}
	if input.Year <= 0 || input.Price < 0 || input.Mileage < 0 {
		return 0, ErrValidation
	}
	if s.listings == nil {
		return 0, fmt.Errorf("listing store is nil")
	}

	listingType := strings.TrimSpace(input.ListingType)
	if listingType == "" {
		listingType = "both"
	}
	emoji := strings.TrimSpace(input.Emoji)
	if emoji == "" {
		emoji = "\U0001F697"
	}

	return s.listings.Create(ctx, pgrepo.ListingRecord{
		OwnerID:     ownerID,
		Make:        strings.TrimSpace(input.Make),
		Model:       strings.TrimSpace(input.Model),
		Year:        input.Year,
		Price:       input.Price,
		Mileage:     input.Mileage,
		Condition:   strings.TrimSpace(input.Condition),
		ListingType: listingType,
		Description: input.Description,
		Emoji:       emoji,
	})
}

// Marketplace returns the swipe deck for the viewer: active listings they do
// not own and have not acted on yet.
func (s *Service) Marketplace(ctx context.Context, viewerID int64) ([]Card, error) {
	if viewerID <= 0 {
		return nil, ErrValidation
	}
	if s.listings == nil {
		return nil, fmt.Errorf("listing store is nil")
	}

	rows, err := s.listings.Marketplace(ctx, viewerID, s.cfg.MarketplacePageSize)
	if err != nil {
		return nil, err
	}

	cards := make([]Card, 0, len(rows))
	for _, row := range rows {
		card := Card{
			ID:            row.Listing.ID,
			OwnerID:       row.Listing.OwnerID,
			OwnerUsername: row.OwnerUsername,
			OwnerLocation: row.OwnerLocation,
			Make:          row.Listing.Make,
			Model:         row.Listing.Model,
			Year:          row.Listing.Year,
			Price:         row.Listing.Price,
			Mileage:       row.Listing.Mileage,
			Condition:     row.Listing.Condition,
			ListingType:   row.Listing.ListingType,
			Description:   row.Listing.Description,
			Emoji:         row.Listing.Emoji,
			ViewCount:     row.Listing.ViewCount,
			CreatedAt:     row.Listing.CreatedAt,
		}
		if s.photos != nil {
			photos, err := s.photos.ListByListing(ctx, row.Listing.ID)
			if err != nil {
				return nil, err
			}
			for _, photo := range photos {
				card.Photos = append(card.Photos, photo.ObjectKey)
			}
		}
		cards = append(cards, card)
	}
	return cards, nil
}

func (s *Service) Garage(ctx context.Context, ownerID int64) ([]GarageItem, error) {
	if ownerID <= 0 {
		return nil, ErrValidation
	}
	if s.listings == nil {
		return nil, fmt.Errorf("listing store is nil")
	}

	rows, err := s.listings.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	items := make([]GarageItem, 0, len(rows))
	for _, row := range rows {
		item := GarageItem{
			ID:          row.Listing.ID,
			Make:        row.Listing.Make,
			Model:       row.Listing.Model,
			Year:        row.Listing.Year,
			Price:       row.Listing.Price,
			Mileage:     row.Listing.Mileage,
			Condition:   row.Listing.Condition,
			ListingType: row.Listing.ListingType,
			Description: row.Listing.Description,
			Emoji:       row.Listing.Emoji,
			ViewCount:   row.Listing.ViewCount,
			LikeCount:   row.LikeCount,
			CreatedAt:   row.Listing.CreatedAt,
		}
		if s.photos != nil {
			photos, err := s.photos.ListByListing(ctx, row.Listing.ID)
			if err != nil {
				return nil, err
			}
			for _, photo := range photos {
				if photo.IsPrimary {
					item.PrimaryPhoto = photo.ObjectKey
					break
				}
			}
		}
		items = append(items, item)
	}
	return items, nil
}

func (s *Service) Update(ctx context.Context, listingID, ownerID int64, input UpdateInput) error {
	if listingID <= 0 || ownerID <= 0 {
		return ErrValidation
	}
	if s.listings == nil {
		return fmt.Errorf("listing store is nil")
	}

	err := s.listings.Update(ctx, listingID, ownerID, pgrepo.ListingUpdate{
		Price:       input.Price,
		Mileage:     input.Mileage,
		Condition:   input.Condition,
		Description: input.Description,
		IsActive:    input.IsActive,
	})
	if err != nil {
		if errors.Is(err, pgrepo.ErrListingNotFound) {
			return s.notFoundOrForbidden(ctx, listingID)
		}
		return err
	}
	return nil
}

func (s *Service) Delete(ctx context.Context, listingID, ownerID int64) error {
	if listingID <= 0 || ownerID <= 0 {
		return ErrValidation
	}
	if s.listings == nil {
		return fmt.Errorf("listing store is nil")
	}

	if err := s.listings.SoftDelete(ctx, listingID, ownerID); err != nil {
		if errors.Is(err, pgrepo.ErrListingNotFound) {
			return s.notFoundOrForbidden(ctx, listingID)
		}
		return err
	}
	return nil
}

func (s *Service) RecordView(ctx context.Context, listingID int64) error {
	if listingID <= 0 {
		return ErrValidation
	}
	if s.listings == nil {
		return fmt.Errorf("listing store is nil")
	}
	return s.listings.IncrementViewCount(ctx, listingID)
}

// notFoundOrForbidden distinguishes a vanished listing from someone else's:
// the owner-scoped write touched zero rows either way.
func (s *Service) notFoundOrForbidden(ctx context.Context, listingID int64) error {
	if _, err := s.listings.OwnerOf(ctx, listingID); err != nil {
		if errors.Is(err, pgrepo.ErrListingNotFound) {
			return ErrNotFound
		}
		return err
	}
	return ErrForbidden
}
