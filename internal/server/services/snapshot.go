package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/antonnoe/dossierfrankrijk/internal/server/models"
	"github.com/antonnoe/dossierfrankrijk/internal/server/repositories/repomanager"
	"github.com/google/uuid"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	sc "github.com/antonnoe/dossierfrankrijk/internal/server/config"
)

// Indirections for the AWS SDK calls, swapped out in tests.
var (
	loadDefaultAWSConfig = awsconfig.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignPutObject(ctx, in, optFns...)
	}
	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignGetObject(ctx, in, optFns...)
	}
)

// SnapshotService hands out presigned object-storage URLs for archived copies
// of saved articles. The server never proxies snapshot bytes itself.
type SnapshotService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	config      *sc.Config
}

func NewSnapshotService(db *sql.DB, m repomanager.RepositoryManager, config *sc.Config) *SnapshotService {
	return &SnapshotService{
		db:          db,
		repomanager: m,
		config:      config,
	}
}

// RandomStorageKey returns a date-partitioned object key for a new snapshot.
func RandomStorageKey() string {
	d := time.Now()
	return fmt.Sprintf("snapshots/%d/%d/%d/%v", d.Year(), d.Month(), d.Day(), uuid.New())
}

func (s *SnapshotService) getPresignClient() (*s3.PresignClient, error) {
	cfg, err := loadDefaultAWSConfig(context.Background(),
		awsconfig.WithRegion(s.config.S3Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.config.S3RootUser,
			s.config.S3RootPassword,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(s.config.S3BaseEndpoint)
	})

	return newS3PresignClient(client), nil
}

// RequestUpload records a pending snapshot for itemID and returns a presigned
// PUT URL valid for 15 minutes. Re-archiving replaces the previous snapshot.
// The item must exist and belong to userID.
func (s *SnapshotService) RequestUpload(ctx context.Context, userID, itemID string) (string, error) {
	if _, err := s.repomanager.Items(s.db).GetByID(ctx, userID, itemID); err != nil {
		return "", err
	}

	presignClient, err := s.getPresignClient()
	if err != nil {
		return "", err
	}

	bucket := s.config.S3Bucket
	key := RandomStorageKey()

	req, err := presignPutObject(presignClient, ctx, &s3.PutObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(15*time.Minute))
	if err != nil {
		return "", err
	}

	snap := &models.Snapshot{
		ItemID:       itemID,
		UserID:       userID,
		StorageKey:   key,
		UploadStatus: "pending",
	}
	if err := s.repomanager.Snapshots(s.db).CreateOrReplace(ctx, snap); err != nil {
		return "", fmt.Errorf("error recording snapshot: %w", err)
	}

	return req.URL, nil
}

// MarkUploaded confirms a completed presigned upload.
func (s *SnapshotService) MarkUploaded(ctx context.Context, userID, itemID string) error {
	if err := s.repomanager.Snapshots(s.db).MarkUploaded(ctx, userID, itemID); err != nil {
		return fmt.Errorf("error updating snapshot: %w", err)
	}
	return nil
}

// DownloadURL returns a presigned GET URL for the archived copy of itemID.
func (s *SnapshotService) DownloadURL(ctx context.Context, userID, itemID string) (string, error) {
	snap, err := s.repomanager.Snapshots(s.db).GetByItemID(ctx, userID, itemID)
	if err != nil {
		return "", err
	}

	presignClient, err := s.getPresignClient()
	if err != nil {
		return "", err
	}

	bucket := s.config.S3Bucket

	req, err := presignGetObject(presignClient, ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &snap.StorageKey,
	}, s3.WithPresignExpires(15*time.Minute))
	if err != nil {
		return "", err
	}

	return req.URL, nil
}
