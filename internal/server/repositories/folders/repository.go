package folders

import (
	"context"

	"github.com/antonnoe/dossierfrankrijk/internal/server/models"
)

type Repository interface {
	SelectByUser(ctx context.Context, userID string) ([]*models.Folder, error)
	CreateAll(ctx context.Context, userID string, folders []*models.Folder) ([]*models.Folder, error)
}
