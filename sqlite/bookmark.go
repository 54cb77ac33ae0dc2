package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/fwojciec/briefly"
	"github.com/google/uuid"
)

// Ensure BookmarkService implements briefly.BookmarkService at compile time.
var _ briefly.BookmarkService = (*BookmarkService)(nil)

// BookmarkService implements briefly.BookmarkService using SQLite.
type BookmarkService struct {
	db *DB

	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time
}

// NewBookmarkService creates a new BookmarkService.
func NewBookmarkService(db *DB) *BookmarkService {
	return &BookmarkService{db: db, Now: time.Now}
}

// ToggleBookmark removes an existing bookmark with the same kind and URL or
// adds b, trimming the oldest bookmarks of its kind beyond the kind's limit.
func (s *BookmarkService) ToggleBookmark(ctx context.Context, b *briefly.Bookmark) (bool, error) {
	if err := b.Validate(); err != nil {
		return false, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	var existingID string
	err = tx.QueryRowContext(ctx, `SELECT id FROM bookmarks WHERE kind = ? AND url = ?`, b.Kind, b.URL).Scan(&existingID)
	switch {
	case err == nil:
		if _, err := tx.ExecContext(ctx, `DELETE FROM bookmarks WHERE id = ?`, existingID); err != nil {
			return false, err
		}
		b.ID = existingID
		return false, tx.Commit()
	case !errors.Is(err, sql.ErrNoRows):
		return false, err
	}

	b.ID = uuid.New().String()
	b.AddedAt = s.Now().UTC()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO bookmarks (id, kind, url, title, site_name, favicon, added_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, b.ID, b.Kind, b.URL, b.Title, b.SiteName, b.Favicon, formatTime(b.AddedAt)); err != nil {
		return false, err
	}

	if _, err := tx.ExecContext(ctx, `
		DELETE FROM bookmarks
		WHERE kind = ? AND id NOT IN (
			SELECT id FROM bookmarks WHERE kind = ?
			ORDER BY added_at DESC, rowid DESC
			LIMIT ?
		)
	`, b.Kind, b.Kind, b.Kind.Limit()); err != nil {
		return false, err
	}

	return true, tx.Commit()
}

// FindBookmarks retrieves bookmarks matching the filter, newest first.
func (s *BookmarkService) FindBookmarks(ctx context.Context, filter briefly.BookmarkFilter) ([]*briefly.Bookmark, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT id, kind, url, title, site_name, favicon, added_at FROM bookmarks WHERE 1=1")

	if filter.Kind != nil {
		query.WriteString(" AND kind = ?")
		args = append(args, *filter.Kind)
	}
	if filter.URL != nil {
		query.WriteString(" AND url = ?")
		args = append(args, *filter.URL)
	}

	query.WriteString(" ORDER BY added_at DESC, rowid DESC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bookmarks := []*briefly.Bookmark{}
	for rows.Next() {
		var b briefly.Bookmark
		var addedAt string

		if err := rows.Scan(&b.ID, &b.Kind, &b.URL, &b.Title, &b.SiteName, &b.Favicon, &addedAt); err != nil {
			return nil, err
		}
		if b.AddedAt, err = parseTime(addedAt, "added_at"); err != nil {
			return nil, err
		}
		bookmarks = append(bookmarks, &b)
	}

	return bookmarks, rows.Err()
}

// DeleteBookmark permanently removes a bookmark.
func (s *BookmarkService) DeleteBookmark(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM bookmarks WHERE id = ?", id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return briefly.Errorf(briefly.ENOTFOUND, "bookmark not found")
	}

	return nil
}
