package gamification

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mentora-app/mentora/internal/database"
)

// ErrInvalidKind rejects kinds outside the recordable set.
var ErrInvalidKind = errors.New("invalid activity kind")

const statsColumns = `user_id, points, messages_sent, mindmaps_created, sessions_started,
	resources_added, current_streak, longest_streak, last_active_on, updated_at`

// Store persists the point ledger, aggregated stats and badges.
// Safe for concurrent use; Record serializes per user on a row lock.
type Store struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
	now    func() time.Time
}

// New creates a gamification store. Record needs the pool because the
// ledger, stats and badges move together in one transaction.
func New(pool *pgxpool.Pool, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{pool: pool, logger: logger, now: time.Now}
}

// Record registers one activity: appends the point event, extends the
// streak on the first activity of the day, updates the stats row and
// awards any newly earned badges. Everything happens in one transaction
// under a row lock on user_stats.
func (s *Store) Record(ctx context.Context, userID uuid.UUID, kind Kind, refID *uuid.UUID) (*Delta, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidKind, kind)
	}

	var delta Delta
	err := database.InTx(ctx, s.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx,
			`INSERT INTO user_stats (user_id) VALUES ($1) ON CONFLICT (user_id) DO NOTHING`,
			userID); err != nil {
			return fmt.Errorf("ensure stats row: %w", err)
		}

		var before Stats
		row := tx.QueryRow(ctx,
			`SELECT `+statsColumns+` FROM user_stats WHERE user_id = $1 FOR UPDATE`, userID)
		if err := scanStats(row, &before); err != nil {
			return fmt.Errorf("lock stats row: %w", err)
		}

		after := before
		today := dateUTC(s.now())

		// First activity of a calendar day extends or restarts the streak.
		streakDay := before.LastActiveOn == nil || dateUTC(*before.LastActiveOn).Before(today)
		if streakDay {
			yesterday := today.AddDate(0, 0, -1)
			if before.LastActiveOn != nil && dateUTC(*before.LastActiveOn).Equal(yesterday) {
				after.CurrentStreak = before.CurrentStreak + 1
			} else {
				after.CurrentStreak = 1
			}
			if after.CurrentStreak > after.LongestStreak {
				after.LongestStreak = after.CurrentStreak
			}
			after.LastActiveOn = &today
		}

		if _, err := tx.Exec(ctx,
			`INSERT INTO point_events (user_id, kind, points, ref_id) VALUES ($1, $2, $3, $4)`,
			userID, string(kind), kind.Points(), refID); err != nil {
			return fmt.Errorf("insert point event: %w", err)
		}

		granted := kind.Points()
		if streakDay {
			if _, err := tx.Exec(ctx,
				`INSERT INTO point_events (user_id, kind, points) VALUES ($1, $2, $3)`,
				userID, string(KindStreakDay), KindStreakDay.Points()); err != nil {
				return fmt.Errorf("insert streak event: %w", err)
			}
			granted += KindStreakDay.Points()
		}

		after.Points = before.Points + granted
		switch kind {
		case KindChatMessage:
			after.MessagesSent++
		case KindSessionStarted:
			after.SessionsStarted++
		case KindMindMapCreated:
			after.MindMapsCreated++
		case KindResourceAdded:
			after.ResourcesAdded++
		}

		if _, err := tx.Exec(ctx,
			`UPDATE user_stats SET points = $1, messages_sent = $2, mindmaps_created = $3,
			 sessions_started = $4, resources_added = $5, current_streak = $6,
			 longest_streak = $7, last_active_on = $8, updated_at = now()
			 WHERE user_id = $9`,
			after.Points, after.MessagesSent, after.MindMapsCreated,
			after.SessionsStarted, after.ResourcesAdded, after.CurrentStreak,
			after.LongestStreak, after.LastActiveOn, userID); err != nil {
			return fmt.Errorf("update stats: %w", err)
		}

		// ON CONFLICT DO NOTHING RETURNING yields only fresh awards,
		// which makes re-computation idempotent.
		for _, badge := range ComputeBadges(after) {
			var awarded string
			err := tx.QueryRow(ctx,
				`INSERT INTO user_badges (user_id, badge) VALUES ($1, $2)
				 ON CONFLICT DO NOTHING RETURNING badge`,
				userID, string(badge)).Scan(&awarded)
			if errors.Is(err, pgx.ErrNoRows) {
				continue
			}
			if err != nil {
				return fmt.Errorf("award badge %q: %w", badge, err)
			}
			delta.NewBadges = append(delta.NewBadges, badge)
		}

		delta.Points = granted
		delta.Total = after.Points
		delta.LevelBefore = LevelFor(before.Points)
		delta.LevelAfter = LevelFor(after.Points)
		delta.StreakDay = streakDay
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Debug("recorded activity",
		"user_id", userID, "kind", kind, "points", delta.Points,
		"total", delta.Total, "new_badges", len(delta.NewBadges))
	return &delta, nil
}

// Stats returns the user's aggregated stats. Users with no recorded
// activity get a zero-valued row, not an error.
func (s *Store) Stats(ctx context.Context, userID uuid.UUID) (*Stats, error) {
	var st Stats
	row := s.pool.QueryRow(ctx,
		`SELECT `+statsColumns+` FROM user_stats WHERE user_id = $1`, userID)
	err := scanStats(row, &st)
	if errors.Is(err, pgx.ErrNoRows) {
		return &Stats{UserID: userID}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get stats: %w", err)
	}
	return &st, nil
}

// Badges returns the user's earned badges, oldest first.
func (s *Store) Badges(ctx context.Context, userID uuid.UUID) ([]AwardedBadge, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT badge, awarded_at FROM user_badges WHERE user_id = $1 ORDER BY awarded_at ASC, badge ASC`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("list badges: %w", err)
	}
	defer rows.Close()

	var badges []AwardedBadge
	for rows.Next() {
		var b AwardedBadge
		var id string
		if err := rows.Scan(&id, &b.AwardedAt); err != nil {
			return nil, fmt.Errorf("scan badge: %w", err)
		}
		b.ID = BadgeID(id)
		badges = append(badges, b)
	}
	return badges, rows.Err()
}

func scanStats(row pgx.Row, st *Stats) error {
	return row.Scan(&st.UserID, &st.Points, &st.MessagesSent, &st.MindMapsCreated,
		&st.SessionsStarted, &st.ResourcesAdded, &st.CurrentStreak,
		&st.LongestStreak, &st.LastActiveOn, &st.UpdatedAt)
}
