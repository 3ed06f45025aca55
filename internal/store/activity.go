package store

import (
	"context"
	"encoding/json/v2"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/bookwormapp/bookworm-server/internal/domain"
)

// Activity days are keyed for ascending date scans per user:
// actday:{userID}:{YYYY-MM-DD} → ActivityDay JSON.
const activityDayPrefix = "actday:"

const dayKeyFormat = "2006-01-02"

func activityDayKey(userID string, day time.Time) []byte {
	return []byte(activityDayPrefix + userID + ":" + day.Format(dayKeyFormat))
}

// RecordActivityDay adds an activity kind to the user's record for the day
// containing `at`. The read-modify-write runs in a single transaction so
// concurrent recorders cannot lose kinds.
func (s *Store) RecordActivityDay(ctx context.Context, userID string, kind domain.ActivityType, at time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	day := domain.DayOf(at)
	key := activityDayKey(userID, day)

	return s.db.Update(func(txn *badger.Txn) error {
		record := domain.ActivityDay{
			UserID: userID,
			Date:   day,
		}

		item, err := txn.Get(key)
		switch {
		case err == nil:
			if err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &record)
			}); err != nil {
				return fmt.Errorf("unmarshaling activity day: %w", err)
			}
		case !errors.Is(err, badger.ErrKeyNotFound):
			return fmt.Errorf("getting activity day: %w", err)
		}

		record.AddKind(kind)

		data, err := json.Marshal(&record)
		if err != nil {
			return fmt.Errorf("marshaling activity day: %w", err)
		}
		return txn.Set(key, data)
	})
}

// ListActivityDays returns the user's activity-day records on or after
// `since` (normalized to midnight UTC), in ascending date order.
func (s *Store) ListActivityDays(ctx context.Context, userID string, since time.Time) ([]domain.ActivityDay, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	prefix := []byte(activityDayPrefix + userID + ":")
	sinceDay := domain.DayOf(since)
	var days []domain.ActivityDay

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix

		it := txn.NewIterator(opts)
		defer it.Close()

		// Keys sort by date, so seeking to the since-day skips older records.
		seekKey := activityDayKey(userID, sinceDay)
		for it.Seek(seekKey); it.ValidForPrefix(prefix); it.Next() {
			var day domain.ActivityDay
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &day)
			})
			if err != nil {
				return fmt.Errorf("unmarshaling activity day: %w", err)
			}
			days = append(days, day)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return days, nil
}
