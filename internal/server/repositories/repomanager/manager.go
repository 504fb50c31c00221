// Package repomanager hands out per-table repositories bound to a DBTX, so a
// service can run several repositories inside one transaction.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/antonnoe/dossierfrankrijk/internal/dbx"
	"github.com/antonnoe/dossierfrankrijk/internal/server/repositories/folders"
	"github.com/antonnoe/dossierfrankrijk/internal/server/repositories/items"
	"github.com/antonnoe/dossierfrankrijk/internal/server/repositories/logintokens"
	"github.com/antonnoe/dossierfrankrijk/internal/server/repositories/refreshtokens"
	"github.com/antonnoe/dossierfrankrijk/internal/server/repositories/snapshots"
	"github.com/antonnoe/dossierfrankrijk/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Folders(db dbx.DBTX) folders.Repository
	Items(db dbx.DBTX) items.Repository
	LoginTokens(db dbx.DBTX) logintokens.Repository
	RefreshTokens(db dbx.DBTX) refreshtokens.Repository
	Snapshots(db dbx.DBTX) snapshots.Repository
}
