// Package snapshots provides the PostgreSQL-backed repository for archived
// article copies kept in object storage.
package snapshots

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/antonnoe/dossierfrankrijk/internal/common"
	"github.com/antonnoe/dossierfrankrijk/internal/dbx"
	"github.com/antonnoe/dossierfrankrijk/internal/server/models"
)

// PostgresRepository implements snapshot storage over a dbx.DBTX
// (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// CreateOrReplace upserts the snapshot row for an item. Re-archiving an item
// replaces the storage key and resets the upload status.
func (r *PostgresRepository) CreateOrReplace(ctx context.Context, snap *models.Snapshot) error {
	query := `
		INSERT INTO item_snapshots (item_id, user_id, storage_key, upload_status)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (item_id)
		DO UPDATE SET
			storage_key = EXCLUDED.storage_key,
			upload_status = EXCLUDED.upload_status
			WHERE item_snapshots.user_id = EXCLUDED.user_id
	`
	res, err := r.db.ExecContext(ctx, query, snap.ItemID, snap.UserID, snap.StorageKey, snap.UploadStatus)
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

// GetByItemID returns the snapshot for one item owned by userID.
func (r *PostgresRepository) GetByItemID(ctx context.Context, userID, itemID string) (*models.Snapshot, error) {
	query := `
		SELECT item_id, user_id, storage_key, upload_status
		FROM item_snapshots
		WHERE item_id = $1 AND user_id = $2
	`
	snap := &models.Snapshot{}
	err := r.db.QueryRowContext(ctx, query, itemID, userID).
		Scan(&snap.ItemID, &snap.UserID, &snap.StorageKey, &snap.UploadStatus)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return snap, nil
}

// MarkUploaded flips the upload status once the client confirms the presigned
// upload completed.
func (r *PostgresRepository) MarkUploaded(ctx context.Context, userID, itemID string) error {
	query := `
		UPDATE item_snapshots SET upload_status = 'uploaded'
		WHERE item_id = $1 AND user_id = $2
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
