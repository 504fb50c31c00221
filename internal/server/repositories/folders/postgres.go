// Package folders provides the PostgreSQL-backed repository for dossiers.
package folders

import (
	"context"
	"fmt"

	"github.com/antonnoe/dossierfrankrijk/internal/dbx"
	"github.com/antonnoe/dossierfrankrijk/internal/server/models"
)

// PostgresRepository implements folder storage over a dbx.DBTX
// (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// SelectByUser returns all folders owned by userID in ascending sort order.
func (r *PostgresRepository) SelectByUser(ctx context.Context, userID string) ([]*models.Folder, error) {
	query := `
		SELECT id, user_id, name, icon, parent_id, sort_order FROM folders
		WHERE user_id = $1
		ORDER BY sort_order
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Folder
	for rows.Next() {
		var f models.Folder
		if err := rows.Scan(&f.ID, &f.UserID, &f.Name, &f.Icon, &f.ParentID, &f.SortOrder); err != nil {
			return nil, err
		}
		result = append(result, &f)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// CreateAll inserts folders for userID one by one and returns the stored rows
// with generated IDs, preserving input order.
func (r *PostgresRepository) CreateAll(ctx context.Context, userID string, folders []*models.Folder) ([]*models.Folder, error) {
	query := `
		INSERT INTO folders (user_id, name, icon, parent_id, sort_order)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	result := make([]*models.Folder, 0, len(folders))
	for _, f := range folders {
		created := &models.Folder{
			UserID:    userID,
			Name:      f.Name,
			Icon:      f.Icon,
			ParentID:  f.ParentID,
			SortOrder: f.SortOrder,
		}
		err := r.db.QueryRowContext(ctx, query,
			userID, f.Name, f.Icon, f.ParentID, f.SortOrder).Scan(&created.ID)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, created)
	}
	return result, nil
}
