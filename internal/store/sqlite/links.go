package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/MrSnakeDoc/sniplink/internal/domain"
)

const linkColumns = `id, code, long_url, title, created_at, expires_at, clicks, is_active`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLink(row rowScanner) (*domain.Link, error) {
	var (
		l         domain.Link
		title     sql.NullString
		expiresAt sql.NullString
		active    int
	)
	if err := row.Scan(&l.ID, &l.Code, &l.LongURL, &title, &l.CreatedAt, &expiresAt, &l.Clicks, &active); err != nil {
		return nil, err
	}
	l.Title = title.String
	l.ExpiresAt = expiresAt.String
	l.Status = domain.StatusActive
	if active == 0 {
		l.Status = domain.StatusInactive
	}
	return &l, nil
}

// FindLinkByCode returns the link with its tags, active or not.
func (s *Store) FindLinkByCode(ctx context.Context, code string) (*domain.Link, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+linkColumns+` FROM links WHERE code = ?`, code)
	link, err := scanLink(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find link %q: %w", code, err)
	}
	if err := s.attachTags(ctx, []*domain.Link{link}); err != nil {
		return nil, err
	}
	return link, nil
}

// CodeExists reports whether any row, active or not, holds code.
func (s *Store) CodeExists(ctx context.Context, code string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM links WHERE code = ? LIMIT 1`, code).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check code %q: %w", code, err)
	}
	return true, nil
}

// CreateLink inserts link and its tags in one transaction.
func (s *Store) CreateLink(ctx context.Context, link *domain.Link) error {
	names := make([]string, 0, len(link.Tags))
	for _, t := range link.Tags {
		names = append(names, t.Name)
	}

	var tags []domain.Tag
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		err := tx.QueryRowContext(ctx,
			`INSERT INTO links (code, long_url, title, created_at, expires_at, clicks, is_active)
			 VALUES (?, ?, ?, ?, ?, 0, 1) RETURNING id`,
			link.Code, link.LongURL, nullable(link.Title), link.CreatedAt, nullable(link.ExpiresAt),
		).Scan(&link.ID)
		if err != nil {
			if isUniqueViolation(err) {
				return domain.ErrCodeConflict
			}
			return fmt.Errorf("insert link: %w", err)
		}
		tags, err = setLinkTags(ctx, tx, link.ID, names)
		return err
	})
	if err != nil {
		return err
	}

	link.Tags = tags
	link.Clicks = 0
	link.Status = domain.StatusActive
	return nil
}

// RecordClick bumps links.clicks and inserts the click atomically. Inactive
// or unknown links return domain.ErrNotFound and record nothing.
func (s *Store) RecordClick(ctx context.Context, click domain.Click) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			`UPDATE links SET clicks = clicks + 1 WHERE id = ? AND is_active = 1`, click.LinkID)
		if err != nil {
			return fmt.Errorf("increment clicks: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("increment clicks: %w", err)
		}
		if n == 0 {
			return domain.ErrNotFound
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO clicks (link_id, clicked_at, referrer, user_agent) VALUES (?, ?, ?, ?)`,
			click.LinkID, click.ClickedAt, nullable(click.Referrer), click.UserAgent,
		); err != nil {
			return fmt.Errorf("insert click: %w", err)
		}
		return nil
	})
}

// UpdateLink applies a normalized patch to an active link.
func (s *Store) UpdateLink(ctx context.Context, code string, patch domain.LinkPatch) (*domain.Link, error) {
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var id int64
		err := tx.QueryRowContext(ctx, `SELECT id FROM links WHERE code = ? AND is_active = 1`, code).Scan(&id)
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("find link %q: %w", code, err)
		}

		var (
			sets []string
			args []any
		)
		if patch.URL != nil {
			sets = append(sets, "long_url = ?")
			args = append(args, *patch.URL)
		}
		if patch.Title != nil {
			sets = append(sets, "title = ?")
			args = append(args, nullable(*patch.Title))
		}
		if patch.ExpiresAt != nil {
			sets = append(sets, "expires_at = ?")
			args = append(args, nullable(*patch.ExpiresAt))
		}
		if len(sets) > 0 {
			args = append(args, id)
			if _, err := tx.ExecContext(ctx,
				`UPDATE links SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...); err != nil {
				return fmt.Errorf("update link %q: %w", code, err)
			}
		}
		if patch.Tags != nil {
			if _, err := setLinkTags(ctx, tx, id, *patch.Tags); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.FindLinkByCode(ctx, code)
}

// DeactivateLink soft-deletes a link. The code stays reserved.
func (s *Store) DeactivateLink(ctx context.Context, code string) error {
	res, err := s.db.ExecContext(ctx, `UPDATE links SET is_active = 0 WHERE code = ?`, code)
	if err != nil {
		return fmt.Errorf("deactivate link %q: %w", code, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deactivate link %q: %w", code, err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListLinks returns one page of active links, newest first, plus the total match count.
func (s *Store) ListLinks(ctx context.Context, f domain.ListFilter) ([]*domain.Link, int, error) {
	f = f.Normalize()

	where := []string{"l.is_active = 1"}
	var args []any
	if f.Query != "" {
		like := "%" + f.Query + "%"
		where = append(where, "(l.code LIKE ? OR l.long_url LIKE ? OR l.title LIKE ?)")
		args = append(args, like, like, like)
	}
	if f.Tag != "" {
		where = append(where, `l.id IN (SELECT lt.link_id FROM link_tags lt
			JOIN tags t ON lt.tag_id = t.id WHERE t.name = ?)`)
		args = append(args, f.Tag)
	}
	whereSQL := strings.Join(where, " AND ")

	var total int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM links l WHERE `+whereSQL, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count links: %w", err)
	}

	pageArgs := append(append([]any{}, args...), f.PerPage, f.Offset())
	rows, err := s.db.QueryContext(ctx,
		`SELECT l.id, l.code, l.long_url, l.title, l.created_at, l.expires_at, l.clicks, l.is_active
		 FROM links l WHERE `+whereSQL+` ORDER BY l.created_at DESC, l.id DESC LIMIT ? OFFSET ?`,
		pageArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("list links: %w", err)
	}
	links, err := collectLinks(rows)
	if err != nil {
		return nil, 0, err
	}
	if err := s.attachTags(ctx, links); err != nil {
		return nil, 0, err
	}
	return links, total, nil
}

// collectLinks drains and closes rows.
func collectLinks(rows *sql.Rows) ([]*domain.Link, error) {
	defer func() { _ = rows.Close() }()
	links := make([]*domain.Link, 0)
	for rows.Next() {
		l, err := scanLink(rows)
		if err != nil {
			return nil, fmt.Errorf("scan link: %w", err)
		}
		links = append(links, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate links: %w", err)
	}
	return links, nil
}
