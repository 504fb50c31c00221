package snapshots

import (
	"context"

	"github.com/antonnoe/dossierfrankrijk/internal/server/models"
)

type Repository interface {
	CreateOrReplace(ctx context.Context, snap *models.Snapshot) error
	GetByItemID(ctx context.Context, userID, itemID string) (*models.Snapshot, error)
	MarkUploaded(ctx context.Context, userID, itemID string) error
}
