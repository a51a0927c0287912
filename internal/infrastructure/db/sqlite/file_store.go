package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rolemanagement/usermanager/internal/core/domain"
)

// FileStore implements ports.FileStore using SQLite BLOBs.
type FileStore struct {
	db *sql.DB
}

func NewFileStore(db *DB) *FileStore {
	return &FileStore{db: db.SQL}
}

func (s *FileStore) Save(ctx context.Context, f *domain.StoredFile) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO file_blobs (storage_key, content_type, size, data, created_at) VALUES (?, ?, ?, ?, ?)`,
		f.Key, f.ContentType, f.Size, f.Data, f.CreatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("save file blob: %w", err)
	}
	return nil
}

func (s *FileStore) Get(ctx context.Context, key string) (*domain.StoredFile, error) {
	f := &domain.StoredFile{}
	err := s.db.QueryRowContext(ctx,
		`SELECT storage_key, content_type, size, data, created_at FROM file_blobs WHERE storage_key = ?`, key,
	).Scan(&f.Key, &f.ContentType, &f.Size, &f.Data, &f.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrFileNotFound
		}
		return nil, fmt.Errorf("get file blob: %w", err)
	}
	return f, nil
}

func (s *FileStore) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM file_blobs WHERE storage_key = ?`, key); err != nil {
		return fmt.Errorf("delete file blob: %w", err)
	}
	return nil
}
