// Package items provides the PostgreSQL-backed repository for saved items.
package items

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/antonnoe/dossierfrankrijk/internal/common"
	"github.com/antonnoe/dossierfrankrijk/internal/dbx"
	"github.com/antonnoe/dossierfrankrijk/internal/server/models"
)

// PostgresRepository implements item storage over a dbx.DBTX
// (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// decodeMetadata turns the stored JSONB value into a map. Anything that is
// not a JSON object comes back as an empty map, never as nil or an error.
func decodeMetadata(raw []byte) map[string]any {
	if len(raw) == 0 {
		return map[string]any{}
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil || m == nil {
		return map[string]any{}
	}
	return m
}

// SelectByUser returns all items owned by userID, newest first.
func (r *PostgresRepository) SelectByUser(ctx context.Context, userID string) ([]*models.Item, error) {
	query := `
		SELECT id, user_id, folder_id, type, title, url, note_content, source, is_done, metadata, created_at
		FROM items
		WHERE user_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Item
	for rows.Next() {
		var item models.Item
		var rawMeta []byte
		if err := rows.Scan(
			&item.ID, &item.UserID, &item.FolderID, &item.Type, &item.Title,
			&item.URL, &item.NoteContent, &item.Source, &item.IsDone, &rawMeta, &item.CreatedAt,
		); err != nil {
			return nil, err
		}
		item.Metadata = decodeMetadata(rawMeta)
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// GetByID returns one item owned by userID.
// A missing row yields common.ErrorNotFound.
func (r *PostgresRepository) GetByID(ctx context.Context, userID, itemID string) (*models.Item, error) {
	query := `
		SELECT id, user_id, folder_id, type, title, url, note_content, source, is_done, metadata, created_at
		FROM items
		WHERE id = $1 AND user_id = $2
	`
	var item models.Item
	var rawMeta []byte
	err := r.db.QueryRowContext(ctx, query, itemID, userID).Scan(
		&item.ID, &item.UserID, &item.FolderID, &item.Type, &item.Title,
		&item.URL, &item.NoteContent, &item.Source, &item.IsDone, &rawMeta, &item.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	item.Metadata = decodeMetadata(rawMeta)
	return &item, nil
}

// Create inserts an item and returns it with the generated ID and creation
// timestamp filled in. A nil metadata map is stored as an empty object.
func (r *PostgresRepository) Create(ctx context.Context, item *models.Item) (*models.Item, error) {
	if item.Metadata == nil {
		item.Metadata = map[string]any{}
	}
	rawMeta, err := json.Marshal(item.Metadata)
	if err != nil {
		return nil, fmt.Errorf("metadata encode error: %w", err)
	}

	query := `
		INSERT INTO items (user_id, folder_id, type, title, url, note_content, source, is_done, metadata)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at
	`
	err = r.db.QueryRowContext(ctx, query,
		item.UserID, item.FolderID, item.Type, item.Title,
		item.URL, item.NoteContent, item.Source, item.IsDone, rawMeta,
	).Scan(&item.ID, &item.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return item, nil
}

// SetDone updates the completion flag of one item owned by userID.
// A missing row yields common.ErrorNotFound.
func (r *PostgresRepository) SetDone(ctx context.Context, userID, itemID string, done bool) error {
	query := `
		UPDATE items SET is_done = $1
		WHERE id = $2 AND user_id = $3
	`
	res, err := r.db.ExecContext(ctx, query, done, itemID, userID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

// Delete removes one item owned by userID.
// A missing row yields common.ErrorNotFound.
func (r *PostgresRepository) Delete(ctx context.Context, userID, itemID string) error {
	query := `
		DELETE FROM items
		WHERE id = $1 AND user_id = $2
	`
	res, err := r.db.ExecContext(ctx, query, itemID, userID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
