package services

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/antonnoe/dossierfrankrijk/internal/dbx"
	"github.com/antonnoe/dossierfrankrijk/internal/server/models"
	foldersrepo "github.com/antonnoe/dossierfrankrijk/internal/server/repositories/folders"
	itemsrepo "github.com/antonnoe/dossierfrankrijk/internal/server/repositories/items"
	logintokensrepo "github.com/antonnoe/dossierfrankrijk/internal/server/repositories/logintokens"
	refreshtokensrepo "github.com/antonnoe/dossierfrankrijk/internal/server/repositories/refreshtokens"
	snapshotsrepo "github.com/antonnoe/dossierfrankrijk/internal/server/repositories/snapshots"
	usersrepo "github.com/antonnoe/dossierfrankrijk/internal/server/repositories/users"
)

type errBoom struct{}

func (errBoom) Error() string { return "boom" }

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return db, mock
}

// --- fake repositories ---

type fakeUsersRepo struct {
	createOut *models.User
	createErr error

	byEmailOut *models.User
	byEmailErr error

	byIDOut *models.User
	byIDErr error
}

func (f *fakeUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	if f.createOut != nil {
		return f.createOut, nil
	}
	u.ID = "u-new"
	return u, nil
}

func (f *fakeUsersRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if f.byEmailErr != nil {
		return nil, f.byEmailErr
	}
	return f.byEmailOut, nil
}

func (f *fakeUsersRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	if f.byIDErr != nil {
		return nil, f.byIDErr
	}
	return f.byIDOut, nil
}

type fakeLoginTokensRepo struct {
	created map[string]string // hash -> userID

	findOut *models.LoginToken
	findErr error

	createErr error
	delErr    error
}

func (f *fakeLoginTokensRepo) Create(ctx context.Context, userID string, tokenHash string, validity time.Duration) error {
	if f.createErr != nil {
		return f.createErr
	}
	if f.created == nil {
		f.created = map[string]string{}
	}
	f.created[tokenHash] = userID
	return nil
}

func (f *fakeLoginTokensRepo) Find(ctx context.Context, tokenHash string) (*models.LoginToken, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	return f.findOut, nil
}

func (f *fakeLoginTokensRepo) Delete(ctx context.Context, tokenHash string) error {
	return f.delErr
}

type fakeRefreshRepo struct {
	findOut *models.RefreshToken
	findErr error

	createErr error
	delErr    error
}

func (f *fakeRefreshRepo) Create(ctx context.Context, userID string, token string, validity time.Duration) error {
	return f.createErr
}

func (f *fakeRefreshRepo) Find(ctx context.Context, token string) (*models.RefreshToken, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	return f.findOut, nil
}

func (f *fakeRefreshRepo) Delete(ctx context.Context, token string) error {
	return f.delErr
}

type fakeFoldersRepo struct {
	selectOut []*models.Folder
	selectErr error

	createOut []*models.Folder
	createErr error

	createdWith []*models.Folder
}

func (f *fakeFoldersRepo) SelectByUser(ctx context.Context, userID string) ([]*models.Folder, error) {
	if f.selectErr != nil {
		return nil, f.selectErr
	}
	return f.selectOut, nil
}

func (f *fakeFoldersRepo) CreateAll(ctx context.Context, userID string, folders []*models.Folder) ([]*models.Folder, error) {
	f.createdWith = folders
	if f.createErr != nil {
		return nil, f.createErr
	}
	if f.createOut != nil {
		return f.createOut, nil
	}
	out := make([]*models.Folder, len(folders))
	for i, fl := range folders {
		c := *fl
		c.ID = "f-" + c.Name
		c.UserID = userID
		out[i] = &c
	}
	return out, nil
}

type fakeItemsRepo struct {
	selectOut []*models.Item
	selectErr error

	createOut *models.Item
	createErr error

	getOut *models.Item
	getErr error

	setDoneErr error
	deleteErr  error

	lastSetDone  bool
	doneCalls    []bool
	lastItemID   string
	deleteCalled bool
	createCalled bool
	getCalled    bool
}

func (f *fakeItemsRepo) GetByID(ctx context.Context, userID, itemID string) (*models.Item, error) {
	f.getCalled = true
	f.lastItemID = itemID
	if f.getErr != nil {
		return nil, f.getErr
	}
	if f.getOut != nil {
		return f.getOut, nil
	}
	return &models.Item{ID: itemID, UserID: userID}, nil
}

func (f *fakeItemsRepo) SelectByUser(ctx context.Context, userID string) ([]*models.Item, error) {
	if f.selectErr != nil {
		return nil, f.selectErr
	}
	return f.selectOut, nil
}

func (f *fakeItemsRepo) Create(ctx context.Context, item *models.Item) (*models.Item, error) {
	f.createCalled = true
	if f.createErr != nil {
		return nil, f.createErr
	}
	if f.createOut != nil {
		return f.createOut, nil
	}
	item.ID = "i-new"
	item.CreatedAt = time.Now()
	return item, nil
}

func (f *fakeItemsRepo) SetDone(ctx context.Context, userID, itemID string, done bool) error {
	f.lastItemID = itemID
	f.lastSetDone = done
	f.doneCalls = append(f.doneCalls, done)
	return f.setDoneErr
}

func (f *fakeItemsRepo) Delete(ctx context.Context, userID, itemID string) error {
	f.deleteCalled = true
	f.lastItemID = itemID
	return f.deleteErr
}

type fakeSnapshotsRepo struct {
	upsertErr error
	getOut    *models.Snapshot
	getErr    error
	markErr   error

	lastUpsert *models.Snapshot
}

func (f *fakeSnapshotsRepo) CreateOrReplace(ctx context.Context, snap *models.Snapshot) error {
	f.lastUpsert = snap
	return f.upsertErr
}

func (f *fakeSnapshotsRepo) GetByItemID(ctx context.Context, userID, itemID string) (*models.Snapshot, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.getOut, nil
}

func (f *fakeSnapshotsRepo) MarkUploaded(ctx context.Context, userID, itemID string) error {
	return f.markErr
}

// --- fake repomanager ---

type fakeRepoManager struct {
	u  *fakeUsersRepo
	lt *fakeLoginTokensRepo
	rt *fakeRefreshRepo
	f  *fakeFoldersRepo
	i  *fakeItemsRepo
	sn *fakeSnapshotsRepo
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }

func (m *fakeRepoManager) Users(db dbx.DBTX) usersrepo.Repository { return m.u }

func (m *fakeRepoManager) LoginTokens(db dbx.DBTX) logintokensrepo.Repository { return m.lt }

func (m *fakeRepoManager) RefreshTokens(db dbx.DBTX) refreshtokensrepo.Repository { return m.rt }

func (m *fakeRepoManager) Folders(db dbx.DBTX) foldersrepo.Repository { return m.f }

func (m *fakeRepoManager) Items(db dbx.DBTX) itemsrepo.Repository { return m.i }

func (m *fakeRepoManager) Snapshots(db dbx.DBTX) snapshotsrepo.Repository { return m.sn }

// recordingMailer captures links instead of sending them.
type recordingMailer struct {
	to   string
	link string
	err  error
}

func (m *recordingMailer) SendMagicLink(ctx context.Context, to string, link string) error {
	if m.err != nil {
		return m.err
	}
	m.to = to
	m.link = link
	return nil
}
