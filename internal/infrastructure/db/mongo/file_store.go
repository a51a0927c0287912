package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/rolemanagement/usermanager/internal/core/domain"
)

const collectionFiles = "file_blobs"

// FileStore keeps uploaded images as binary documents. Uploads are capped
// well below the 16MB document limit.
type FileStore struct {
	col *mongo.Collection
}

func NewFileStore(db *mongo.Database) *FileStore {
	return &FileStore{col: db.Collection(collectionFiles)}
}

type mongoFile struct {
	Key         string    `bson:"_id"`
	ContentType string    `bson:"content_type"`
	Size        int64     `bson:"size"`
	Data        []byte    `bson:"data"`
	CreatedAt   time.Time `bson:"created_at"`
}

func (s *FileStore) Save(ctx context.Context, file *domain.StoredFile) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := s.col.InsertOne(ctx, mongoFile{
		Key:         file.Key,
		ContentType: file.ContentType,
		Size:        file.Size,
		Data:        file.Data,
		CreatedAt:   file.CreatedAt.UTC(),
	})
	if err != nil {
		return fmt.Errorf("save file: %w", err)
	}
	return nil
}

func (s *FileStore) Get(ctx context.Context, key string) (*domain.StoredFile, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var f mongoFile
	if err := s.col.FindOne(ctx, bson.M{"_id": key}).Decode(&f); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrFileNotFound
		}
		return nil, fmt.Errorf("get file: %w", err)
	}
	return &domain.StoredFile{
		Key:         f.Key,
		ContentType: f.ContentType,
		Size:        f.Size,
		Data:        f.Data,
		CreatedAt:   f.CreatedAt.UTC(),
	}, nil
}

func (s *FileStore) Delete(ctx context.Context, key string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := s.col.DeleteOne(ctx, bson.M{"_id": key}); err != nil {
		return fmt.Errorf("delete file: %w", err)
	}
	return nil
}
