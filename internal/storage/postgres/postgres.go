package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/georgysavva/scany/v2/sqlscan"
	"github.com/lib/pq"
	"github.com/princekumarofficial/remix-service/internal/config"
	"github.com/princekumarofficial/remix-service/internal/types"
)

// Postgres error codes the store translates into domain errors.
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	codeInvalidTextRep      = "22P02"
)

type Postgres struct {
	Db *sql.DB
}

func NewPostgres(cfg *config.Config) (*Postgres, error) {
	connStr := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.PGSQL.Host, cfg.PGSQL.Port, cfg.PGSQL.User, cfg.PGSQL.Password, cfg.PGSQL.DBName, cfg.PGSQL.SSLMode)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err = db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	pg := &Postgres{Db: db}
	if err = pg.CreateTables(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return pg, nil
}

func (p *Postgres) Close() error {
	return p.Db.Close()
}

func (p *Postgres) CreateTables() error {
	queries := []string{
		`CREATE EXTENSION IF NOT EXISTS pgcrypto;`,
		`
		CREATE TABLE IF NOT EXISTS users (
			id SERIAL PRIMARY KEY,
			email VARCHAR(255) UNIQUE NOT NULL,
			password TEXT NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);
		`,
		`
		CREATE TABLE IF NOT EXISTS videos (
			video_id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			user_id VARCHAR(64) NOT NULL,
			parent_video_id UUID REFERENCES videos(video_id) ON DELETE RESTRICT,
			depth INTEGER NOT NULL CHECK (depth >= 1),
			source_video_url TEXT NOT NULL DEFAULT '',
			results_video_url TEXT NOT NULL,
			thumbnail_url TEXT NOT NULL,
			like_count BIGINT NOT NULL DEFAULT 0 CHECK (like_count >= 0),
			comment_count BIGINT NOT NULL DEFAULT 0 CHECK (comment_count >= 0),
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			CHECK ((parent_video_id IS NULL) = (depth = 1))
		);
		`,
		`CREATE INDEX IF NOT EXISTS idx_videos_parent_video_id ON videos(parent_video_id);`,
		`CREATE INDEX IF NOT EXISTS idx_videos_user_id ON videos(user_id);`,
	}

	for _, q := range queries {
		if _, err := p.Db.Exec(q); err != nil {
			return err
		}
	}

	return nil
}

const videoColumns = `
	video_id::text AS video_id,
	user_id,
	parent_video_id::text AS parent_video_id,
	depth,
	source_video_url,
	results_video_url,
	thumbnail_url,
	like_count,
	comment_count,
	created_at`

func (p *Postgres) GetVideoByID(ctx context.Context, videoID string) (types.VideoRecord, error) {
	var rec types.VideoRecord
	query := `SELECT` + videoColumns + ` FROM videos WHERE video_id = $1`

	err := sqlscan.Get(ctx, p.Db, &rec, query, videoID)
	if err != nil {
		if sqlscan.NotFound(err) || hasCode(err, codeInvalidTextRep) {
			return rec, fmt.Errorf("video %s: %w", videoID, types.ErrNotFound)
		}
		return rec, fmt.Errorf("failed to fetch video: %w", err)
	}

	return rec, nil
}

func (p *Postgres) InsertVideo(ctx context.Context, rec types.VideoRecord) (types.VideoRecord, error) {
	query := `
	INSERT INTO videos (user_id, parent_video_id, depth, source_video_url, results_video_url, thumbnail_url)
	VALUES ($1, $2, $3, $4, $5, $6)
	RETURNING video_id::text, created_at
	`

	err := p.Db.QueryRowContext(ctx, query,
		rec.UserID, rec.ParentVideoID, rec.Depth, rec.SourceVideoURL, rec.ResultsVideoURL, rec.ThumbnailURL,
	).Scan(&rec.VideoID, &rec.CreatedAt)
	if err != nil {
		// the parent vanished or never existed between the read and the insert
		if hasCode(err, codeForeignKeyViolation) || hasCode(err, codeInvalidTextRep) {
			return rec, types.ErrParentNotFound
		}
		return rec, fmt.Errorf("failed to insert video: %w", err)
	}

	rec.LikeCount = 0
	rec.CommentCount = 0
	return rec, nil
}

func (p *Postgres) ListChildVideos(ctx context.Context, parentVideoID string) ([]types.VideoRecord, error) {
	var children []types.VideoRecord
	query := `SELECT` + videoColumns + ` FROM videos WHERE parent_video_id = $1 ORDER BY created_at ASC`

	err := sqlscan.Select(ctx, p.Db, &children, query, parentVideoID)
	if err != nil {
		if hasCode(err, codeInvalidTextRep) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to list child videos: %w", err)
	}

	return children, nil
}

func (p *Postgres) FindDepthViolations(ctx context.Context, limit int) ([]types.DepthViolation, error) {
	var violations []types.DepthViolation
	query := `
	SELECT
		c.video_id::text AS video_id,
		c.parent_video_id::text AS parent_video_id,
		c.depth,
		p.depth AS parent_depth
	FROM videos c
	LEFT JOIN videos p ON p.video_id = c.parent_video_id
	WHERE
		(c.parent_video_id IS NULL AND c.depth <> 1)
		OR (c.parent_video_id IS NOT NULL AND (p.video_id IS NULL OR c.depth <> p.depth + 1))
	ORDER BY c.created_at ASC
	LIMIT NULLIF($1, 0)
	`

	if err := sqlscan.Select(ctx, p.Db, &violations, query, limit); err != nil {
		return nil, fmt.Errorf("failed to scan depth violations: %w", err)
	}

	slog.Debug("Depth audit query finished", slog.Int("violations", len(violations)))
	return violations, nil
}

func (p *Postgres) CreateUser(ctx context.Context, email, password string) (string, error) {
	var userID int
	query := `
	INSERT INTO users (email, password)
	VALUES ($1, $2)
	RETURNING id
	`

	err := p.Db.QueryRowContext(ctx, query, email, password).Scan(&userID)
	if err != nil {
		if hasCode(err, codeUniqueViolation) {
			return "", fmt.Errorf("email already registered: %w", types.ErrValidation)
		}
		return "", err
	}

	return fmt.Sprintf("%d", userID), nil
}

func (p *Postgres) GetUserByEmail(ctx context.Context, email string) (string, string, error) {
	var userID int
	var hashedPassword string
	query := `
	SELECT id, password FROM users WHERE email = $1
	`

	err := p.Db.QueryRowContext(ctx, query, email).Scan(&userID, &hashedPassword)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", "", types.ErrNotFound
		}
		return "", "", err
	}

	return fmt.Sprintf("%d", userID), hashedPassword, nil
}

func hasCode(err error, code pq.ErrorCode) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == code
}
