package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"songdb/internal/songs"
	"songdb/internal/storage"
	"songdb/internal/storage/sqlite/ddl"
)

// The read side mirrors the queries the app issues against the bundled asset,
// so a built file can be checked from the command line.

func (r *Repository) selectSongs() string {
	cols := songs.Columns()
	quoted := make([]string, len(cols))
	for i, c := range cols {
		quoted[i] = ddl.QuoteIdent(c)
	}
	return "SELECT " + strings.Join(quoted, ", ") + " FROM " + ddl.QuoteFQN(r.cfg.Table)
}

// Get returns the song with the given musicId, or storage.ErrNotFound.
func (r *Repository) Get(ctx context.Context, musicID string) (songs.Song, error) {
	var s songs.Song
	err := r.db.QueryRowContext(ctx, r.selectSongs()+` WHERE "musicId" = ?`, musicID).
		Scan(&s.MusicID, &s.Artist, &s.Title, &s.Start)
	if errors.Is(err, sql.ErrNoRows) {
		return songs.Song{}, fmt.Errorf("sqlite: get %q: %w", musicID, storage.ErrNotFound)
	}
	if err != nil {
		return songs.Song{}, fmt.Errorf("sqlite: get %q: %w", musicID, err)
	}
	return s, nil
}

// List returns every song ordered by artist, then title.
func (r *Repository) List(ctx context.Context) ([]songs.Song, error) {
	return r.query(ctx, "list", r.selectSongs()+` ORDER BY "artista", "musica"`)
}

// Search matches musicId by prefix, or title or artist by substring. Code
// prefix matches sort first, then artist and title. limit <= 0 means no limit.
func (r *Repository) Search(ctx context.Context, q string, limit int) ([]songs.Song, error) {
	if limit <= 0 {
		limit = -1
	}
	stmt := r.selectSongs() + `
 WHERE "musicId" LIKE ?1 || '%'
    OR "musica" LIKE '%' || ?1 || '%'
    OR "artista" LIKE '%' || ?1 || '%'
 ORDER BY CASE WHEN "musicId" LIKE ?1 || '%' THEN 0 ELSE 1 END, "artista", "musica"
 LIMIT ?2`
	return r.query(ctx, "search", stmt, q, limit)
}

func (r *Repository) query(ctx context.Context, op, stmt string, args ...any) ([]songs.Song, error) {
	rows, err := r.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite: %s: %w", op, err)
	}
	defer rows.Close()

	var out []songs.Song
	for rows.Next() {
		var s songs.Song
		if err := rows.Scan(&s.MusicID, &s.Artist, &s.Title, &s.Start); err != nil {
			return nil, fmt.Errorf("sqlite: %s: scan: %w", op, err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: %s: %w", op, err)
	}
	return out, nil
}
