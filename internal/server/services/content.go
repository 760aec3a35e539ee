package services

import (
	"context"
	"database/sql"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"puzzlearchive/internal/archive/access"
	"puzzlearchive/internal/common"
	"puzzlearchive/internal/datex"
	sc "puzzlearchive/internal/server/config"
	"puzzlearchive/internal/server/repositories/repomanager"
)

// ContentService resolves presigned download URLs for unlocked items.
// Catalog metadata is globally readable; the payload is not: the same rule
// chain the client renders locks with is evaluated here, server-side, before
// a URL is ever issued.
type ContentService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	config      *sc.Config
}

func NewContentService(db *sql.DB, m repomanager.RepositoryManager, cfg *sc.Config) *ContentService {
	return &ContentService{
		db:          db,
		repomanager: m,
		config:      cfg,
	}
}

func (s *ContentService) getPresignClient() (*s3.PresignClient, error) {
	cfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(s.config.S3Region), // обязательный параметр
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.config.S3RootUser,     // MINIO_ROOT_USER
			s.config.S3RootPassword, // MINIO_ROOT_PASSWORD
			"",                      // токен (не нужен)
		)))
	if err != nil {
		return nil, err
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(s.config.S3BaseEndpoint)
	})

	return s3.NewPresignClient(client), nil
}

// URL runs the lock decision for (userID, puzzleID) and returns a presigned
// GET URL when the item is unlocked. A locked item is common.ErrContentLocked,
// an unknown one common.ErrNotFound.
func (s *ContentService) URL(ctx context.Context, userID, puzzleID string) (string, error) {

	entry, err := s.repomanager.Catalog(s.db).Get(ctx, puzzleID)
	if err != nil {
		return "", err
	}

	user, err := s.repomanager.Users(s.db).GetByID(ctx, userID)
	if err != nil {
		return "", err
	}

	completed, err := s.repomanager.Attempts(s.db).HasCompleted(ctx, userID, puzzleID)
	if err != nil {
		return "", err
	}

	hasGrant, err := s.repomanager.Grants(s.db).Has(ctx, userID, puzzleID)
	if err != nil {
		return "", err
	}

	now := time.Now()
	grants := access.NewGrantSet()
	if hasGrant {
		grants = access.NewGrantSet(puzzleID)
	}

	verdict := access.Evaluate(access.Input{
		PuzzleID:   puzzleID,
		ItemDate:   entry.ItemDate,
		Today:      datex.DateOf(now),
		WindowDays: s.config.FreeWindowDays,
		Completed:  completed,
		Entitled:   user.Entitled(now),
		Grants:     grants,
	})
	if verdict.Locked {
		return "", common.ErrContentLocked
	}

	presignClient, err := s.getPresignClient()
	if err != nil {
		return "", err
	}

	bucket := s.config.S3Bucket
	key := entry.ContentKey
	if key == "" {
		key = "content/" + entry.ID
	}

	req, err := presignClient.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(s.config.ContentURLValidity))
	if err != nil {
		return "", err
	}

	return req.URL, nil
}
