package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/MrSnakeDoc/sniplink/internal/domain"
)

// ClickBreakdown aggregates a link's clicks at or after since by day, referrer and user agent.
func (s *Store) ClickBreakdown(ctx context.Context, linkID int64, since string) (*domain.ClickBreakdown, error) {
	b := &domain.ClickBreakdown{}
	var err error

	b.PerDay, err = s.countBy(ctx,
		`SELECT substr(clicked_at, 1, 10) AS day, COUNT(*) FROM clicks
		 WHERE link_id = ? AND clicked_at >= ? GROUP BY day`, linkID, since)
	if err != nil {
		return nil, fmt.Errorf("clicks per day: %w", err)
	}
	b.PerReferrer, err = s.countBy(ctx,
		`SELECT referrer, COUNT(*) FROM clicks
		 WHERE link_id = ? AND clicked_at >= ? GROUP BY referrer`, linkID, since)
	if err != nil {
		return nil, fmt.Errorf("clicks per referrer: %w", err)
	}
	b.PerAgent, err = s.countBy(ctx,
		`SELECT user_agent, COUNT(*) FROM clicks
		 WHERE link_id = ? AND clicked_at >= ? GROUP BY user_agent`, linkID, since)
	if err != nil {
		return nil, fmt.Errorf("clicks per user agent: %w", err)
	}
	return b, nil
}

// countBy runs a "SELECT key, COUNT(*) ... GROUP BY key" query. NULL keys count as "".
func (s *Store) countBy(ctx context.Context, query string, args ...any) (map[string]int64, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	out := map[string]int64{}
	for rows.Next() {
		var (
			key sql.NullString
			n   int64
		)
		if err := rows.Scan(&key, &n); err != nil {
			return nil, err
		}
		out[key.String] += n
	}
	return out, rows.Err()
}

// Totals counts active links and the clicks they hold.
func (s *Store) Totals(ctx context.Context) (links, clicks int64, err error) {
	err = s.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(SUM(clicks), 0) FROM links WHERE is_active = 1`,
	).Scan(&links, &clicks)
	if err != nil {
		return 0, 0, fmt.Errorf("link totals: %w", err)
	}
	return links, clicks, nil
}

// Stats summarizes active links. Clicks7d counts clicks at or after since.
func (s *Store) Stats(ctx context.Context, since string) (*domain.Stats, error) {
	links, clicks, err := s.Totals(ctx)
	if err != nil {
		return nil, err
	}
	st := &domain.Stats{TotalLinks: links, TotalClicks: clicks}
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM clicks c JOIN links l ON c.link_id = l.id
		 WHERE l.is_active = 1 AND c.clicked_at >= ?`, since,
	).Scan(&st.Clicks7d); err != nil {
		return nil, fmt.Errorf("recent clicks: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+linkColumns+` FROM links WHERE is_active = 1
		 ORDER BY clicks DESC, id ASC LIMIT 5`)
	if err != nil {
		return nil, fmt.Errorf("top links: %w", err)
	}
	st.TopLinks, err = collectLinks(rows)
	if err != nil {
		return nil, err
	}
	return st, nil
}
