package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/MrSnakeDoc/sniplink/internal/domain"
)

// setLinkTags replaces the tag set of a link. names must already be normalized.
func setLinkTags(ctx context.Context, tx *sql.Tx, linkID int64, names []string) ([]domain.Tag, error) {
	if _, err := tx.ExecContext(ctx, `DELETE FROM link_tags WHERE link_id = ?`, linkID); err != nil {
		return nil, fmt.Errorf("clear tags: %w", err)
	}

	tags := make([]domain.Tag, 0, len(names))
	for _, name := range names {
		if _, err := tx.ExecContext(ctx, `INSERT OR IGNORE INTO tags (name) VALUES (?)`, name); err != nil {
			return nil, fmt.Errorf("insert tag %q: %w", name, err)
		}
		var id int64
		if err := tx.QueryRowContext(ctx, `SELECT id FROM tags WHERE name = ?`, name).Scan(&id); err != nil {
			return nil, fmt.Errorf("lookup tag %q: %w", name, err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO link_tags (link_id, tag_id) VALUES (?, ?)`, linkID, id); err != nil {
			return nil, fmt.Errorf("attach tag %q: %w", name, err)
		}
		tags = append(tags, domain.Tag{ID: id, Name: name})
	}
	return tags, nil
}

// attachTags loads the tags of every link with a single query.
func (s *Store) attachTags(ctx context.Context, links []*domain.Link) error {
	if len(links) == 0 {
		return nil
	}
	byID := make(map[int64]*domain.Link, len(links))
	args := make([]any, 0, len(links))
	for _, l := range links {
		l.Tags = []domain.Tag{}
		byID[l.ID] = l
		args = append(args, l.ID)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT lt.link_id, t.id, t.name FROM link_tags lt
		 JOIN tags t ON t.id = lt.tag_id
		 WHERE lt.link_id IN (`+placeholders(len(args))+`)
		 ORDER BY t.name`, args...)
	if err != nil {
		return fmt.Errorf("load tags: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var (
			linkID int64
			t      domain.Tag
		)
		if err := rows.Scan(&linkID, &t.ID, &t.Name); err != nil {
			return fmt.Errorf("scan tag: %w", err)
		}
		if l := byID[linkID]; l != nil {
			l.Tags = append(l.Tags, t)
		}
	}
	return rows.Err()
}

// ListTags returns every tag with the number of links carrying it, by name.
func (s *Store) ListTags(ctx context.Context) ([]domain.Tag, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT t.id, t.name, COUNT(lt.link_id)
		 FROM tags t LEFT JOIN link_tags lt ON t.id = lt.tag_id
		 GROUP BY t.id, t.name ORDER BY t.name`)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	defer func() { _ = rows.Close() }()

	tags := make([]domain.Tag, 0)
	for rows.Next() {
		var t domain.Tag
		if err := rows.Scan(&t.ID, &t.Name, &t.LinkCount); err != nil {
			return nil, fmt.Errorf("scan tag: %w", err)
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}
