package swipes

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jack-boyd5/geartrade/internal/domain/enums"
	pgrepo "github.com/jack-boyd5/geartrade/internal/repo/postgres"
)

var (
	ErrValidation    = errors.New("validation error")
	ErrSelfInterest  = errors.New("cannot swipe on own listing")
	ErrInvalidTarget = errors.New("listing missing or inactive")
)

type ListingStore interface {
	GetForSwipe(ctx context.Context, tx pgx.Tx, listingID int64) (pgrepo.ListingRecord, error)
}

type InterestStore interface {
	Record(ctx context.Context, tx pgx.Tx, actorUserID, listingID int64, polarity enums.SwipeAction) (bool, enums.SwipeAction, error)
	FindReciprocalLike(ctx context.Context, tx pgx.Tx, likerUserID, ownerUserID int64) (int64, bool, error)
}

type MatchStore interface {
	Create(ctx context.Context, tx pgx.Tx, userID, otherID, userListingID, otherListingID int64) (bool, error)
	GetByPair(ctx context.Context, tx pgx.Tx, userID, otherID int64) (pgrepo.MatchRecord, error)
}

type UserStore interface {
	FindByID(ctx context.Context, userID int64) (pgrepo.UserRecord, error)
}

type SwipeResult struct {
	Created             bool
	Matched             bool
	CounterpartUserID   int64
	CounterpartUsername string
	MyListingID         int64
}

type Service struct {
	pool      *pgxpool.Pool
	listings  ListingStore
	interests InterestStore
	matches   MatchStore
	users     UserStore
	runTx     func(ctx context.Context, fn func(context.Context, pgx.Tx) error) error
}

type Dependencies struct {
	Pool      *pgxpool.Pool
	Listings  ListingStore
	Interests InterestStore
	Matches   MatchStore
	Users     UserStore
}

func NewService(deps Dependencies) *Service {
	s := &Service{
		pool:      deps.Pool,
		listings:  deps.Listings,
		interests: deps.Interests,
		matches:   deps.Matches,
		users:     deps.Users,
	}
	s.runTx = func(ctx context.Context, fn func(context.Context, pgx.Tx) error) error {
		return pgrepo.WithTx(ctx, s.pool, fn)
	}
	return s
}

// Swipe records the interest and, for likes, resolves the mutual-interest
// condition in the same transaction, so a committed like is always visible to
// the resolution that follows it.
func (s *Service) Swipe(ctx context.Context, userID, listingID int64, action enums.SwipeAction) (SwipeResult, error) {
	if userID <= 0 || listingID <= 0 {
		return SwipeResult{}, ErrValidation
	}
	if s.listings == nil || s.interests == nil || s.matches == nil {
		return SwipeResult{}, fmt.Errorf("swipe dependencies are not configured")
	}

	result, err := s.swipeTx(ctx, userID, listingID, action)
	if err != nil && isRetryable(err) {
		// one retry for transient storage failures; validation outcomes
		// are final
		result, err = s.swipeTx(ctx, userID, listingID, action)
	}
	if err != nil {
		return SwipeResult{}, err
	}

	if result.Matched && s.users != nil {
		counterpart, err := s.users.FindByID(ctx, result.CounterpartUserID)
		if err != nil {
			return SwipeResult{}, fmt.Errorf("load counterpart: %w", err)
		}
		result.CounterpartUsername = counterpart.Username
	}

	return result, nil
}

func (s *Service) swipeTx(ctx context.Context, userID, listingID int64, action enums.SwipeAction) (SwipeResult, error) {
	var result SwipeResult

	err := s.runTx(ctx, func(txCtx context.Context, tx pgx.Tx) error {
		listing, err := s.listings.GetForSwipe(txCtx, tx, listingID)
		if err != nil {
			if errors.Is(err, pgrepo.ErrListingNotFound) {
				return ErrInvalidTarget
			}
			return err
		}
		if listing.OwnerID == userID {
			return ErrSelfInterest
		}
		if !listing.IsActive {
			return ErrInvalidTarget
		}

		created, stored, err := s.interests.Record(txCtx, tx, userID, listingID, action)
		if err != nil {
			return err
		}
		result.Created = created

		// Resolution follows the ledger, not the request: a like on a
		// listing the actor already noped is ignored and must not mint a
		// match. A repeated like still resolves, so the retried call
		// reports the match that already exists.
		if !action.IsLike() || !stored.IsLike() {
			return nil
		}

		return s.resolve(txCtx, tx, userID, listingID, listing.OwnerID, &result)
	})
	if err != nil {
		return SwipeResult{}, err
	}

	return result, nil
}

// resolve checks whether the target's owner has already liked one of the
// actor's listings and, if so, creates the canonical match. A uniqueness
// conflict on the pair means the match already exists (possibly written by a
// concurrent swipe from the other side) and is reported as success.
func (s *Service) resolve(ctx context.Context, tx pgx.Tx, actorUserID, targetListingID, targetOwnerID int64, result *SwipeResult) error {
	reciprocalListingID, found, err := s.interests.FindReciprocalLike(ctx, tx, targetOwnerID, actorUserID)
	if err != nil {
		return err
	}
	if !found {
		return nil
	}

	created, err := s.matches.Create(ctx, tx, actorUserID, targetOwnerID, reciprocalListingID, targetListingID)
	if err != nil {
		return err
	}

	result.Matched = true
	result.CounterpartUserID = targetOwnerID
	result.MyListingID = reciprocalListingID

	if created {
		return nil
	}

	existing, err := s.matches.GetByPair(ctx, tx, actorUserID, targetOwnerID)
	if err != nil {
		return err
	}
	if existing.UserAID == actorUserID {
		result.MyListingID = existing.ListingAID
	} else {
		result.MyListingID = existing.ListingBID
	}

	return nil
}

func isSwipeSentinel(err error) bool {
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrSelfInterest) ||
		errors.Is(err, ErrInvalidTarget)
}

// isRetryable excludes validation outcomes, which are final, and context
// errors, which no second attempt can outrun.
func isRetryable(err error) bool {
	if isSwipeSentinel(err) {
		return false
	}
	return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
}
