package items

import (
	"context"

	"github.com/antonnoe/dossierfrankrijk/internal/server/models"
)

type Repository interface {
	SelectByUser(ctx context.Context, userID string) ([]*models.Item, error)
	GetByID(ctx context.Context, userID, itemID string) (*models.Item, error)
	Create(ctx context.Context, item *models.Item) (*models.Item, error)
	SetDone(ctx context.Context, userID, itemID string, done bool) error
	Delete(ctx context.Context, userID, itemID string) error
}
