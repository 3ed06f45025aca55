package store

import (
	"context"
	"encoding/json/v2"
	"errors"
	"fmt"
	"slices"

	"github.com/dgraph-io/badger/v4"

	"github.com/bookwormapp/bookworm-server/internal/domain"
)

// Ratings are keyed by user so one prefix scan yields everything the
// stats aggregator needs: rating:{userID}:{ratingID} → Rating JSON.
const ratingPrefix = "rating:"

func ratingKey(userID, ratingID string) []byte {
	return []byte(ratingPrefix + userID + ":" + ratingID)
}

// SaveRating stores a user's rating for a book.
func (s *Store) SaveRating(ctx context.Context, rating *domain.Rating) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if rating.ID == "" || rating.UserID == "" {
		return fmt.Errorf("rating needs id and user id: %w", ErrInvalidInput)
	}

	if err := s.set(ratingKey(rating.UserID, rating.ID), rating); err != nil {
		return fmt.Errorf("saving rating: %w", err)
	}
	return nil
}

// GetRating retrieves a single rating by user and rating ID.
func (s *Store) GetRating(ctx context.Context, userID, ratingID string) (*domain.Rating, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var rating domain.Rating
	if err := s.get(ratingKey(userID, ratingID), &rating); err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, fmt.Errorf("rating %s: %w", ratingID, ErrNotFound)
		}
		return nil, fmt.Errorf("getting rating: %w", err)
	}
	return &rating, nil
}

// ListUserRatings returns all ratings a user has submitted, newest first.
func (s *Store) ListUserRatings(ctx context.Context, userID string) ([]domain.Rating, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	prefix := []byte(ratingPrefix + userID + ":")
	var ratings []domain.Rating

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var rating domain.Rating
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &rating)
			})
			if err != nil {
				return fmt.Errorf("unmarshaling rating: %w", err)
			}
			ratings = append(ratings, rating)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	slices.SortFunc(ratings, func(a, b domain.Rating) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})

	return ratings, nil
}
