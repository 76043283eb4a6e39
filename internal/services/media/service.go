package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrValidation = errors.New("validation error")
	ErrForbidden  = errors.New("not the listing owner")
	ErrNotFound   = errors.New("target not found")
)

type ListingStore interface {
	OwnerOf(ctx context.Context, listingID int64) (int64, error)
}

type PhotoStore interface {
	Add(ctx context.Context, listingID int64, objectKey string, isPrimary bool) (int64, error)
}

type UserStore interface {
	UpdateProfilePhoto(ctx context.Context, userID int64, objectKey string) error
}

type ObjectStorage interface {
	EnsureBucket(ctx context.Context) error
	PutPhoto(ctx context.Context, key string, body io.Reader, size int64, contentType string) error
}

type Service struct {
	listings ListingStore
	photos   PhotoStore
	users    UserStore
	storage  ObjectStorage
}

type Dependencies struct {
	Listings ListingStore
	Photos   PhotoStore
	Users    UserStore
	Storage  ObjectStorage
}

func NewService(deps Dependencies) *Service {
	return &Service{
		listings: deps.Listings,
		photos:   deps.Photos,
		users:    deps.Users,
		storage:  deps.Storage,
	}
}

func (s *Service) UploadListingPhoto(ctx context.Context, userID, listingID int64, fileName, contentType string, body io.Reader, size int64, isPrimary bool) (string, error) {
	if userID <= 0 || listingID <= 0 || body == nil || size <= 0 {
		return "", ErrValidation
	}
	if s.listings == nil || s.photos == nil || s.storage == nil {
		return "", fmt.Errorf("media dependencies are not configured")
	}

	ownerID, err := s.listings.OwnerOf(ctx, listingID)
	if err != nil {
		return "", ErrNotFound
	}
	if ownerID != userID {
		return "", ErrForbidden
	}

	if err := s.storage.EnsureBucket(ctx); err != nil {
		return "", fmt.Errorf("ensure bucket: %w", err)
	}

	objectKey := buildObjectKey(fmt.Sprintf("listings/%d", listingID), fileName)
	if err := s.storage.PutPhoto(ctx, objectKey, body, size, contentType); err != nil {
		return "", fmt.Errorf("store listing photo: %w", err)
	}

	if _, err := s.photos.Add(ctx, listingID, objectKey, isPrimary); err != nil {
		return "", fmt.Errorf("record listing photo: %w", err)
	}

	return objectKey, nil
}

func (s *Service) UploadProfilePhoto(ctx context.Context, userID int64, fileName, contentType string, body io.Reader, size int64) (string, error) {
	if userID <= 0 || body == nil || size <= 0 {
		return "", ErrValidation
	}
	if s.users == nil || s.storage == nil {
		return "", fmt.Errorf("media dependencies are not configured")
	}

	if err := s.storage.EnsureBucket(ctx); err != nil {
		return "", fmt.Errorf("ensure bucket: %w", err)
	}

	objectKey := buildObjectKey(fmt.Sprintf("profiles/%d", userID), fileName)
	if err := s.storage.PutPhoto(ctx, objectKey, body, size, contentType); err != nil {
		return "", fmt.Errorf("store profile photo: %w", err)
	}

	if err := s.users.UpdateProfilePhoto(ctx, userID, objectKey); err != nil {
		return "", fmt.Errorf("record profile photo: %w", err)
	}

	return objectKey, nil
}

func buildObjectKey(prefix, fileName string) string {
	ext := strings.ToLower(path.Ext(fileName))
	if ext == "" {
		ext = ".jpg"
	}
	return fmt.Sprintf("%s/%s%s", prefix, uuid.NewString(), ext)
}
