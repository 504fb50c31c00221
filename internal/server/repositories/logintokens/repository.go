package logintokens

import (
	"context"
	"time"

	"github.com/antonnoe/dossierfrankrijk/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, userID string, tokenHash string, validity time.Duration) error
	Find(ctx context.Context, tokenHash string) (*models.LoginToken, error)
	Delete(ctx context.Context, tokenHash string) error
}
