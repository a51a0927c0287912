package domain

import "time"

// StoredFile is an uploaded blob together with its metadata.
type StoredFile struct {
	Key         string
	ContentType string
	Size        int64
	Data        []byte
	CreatedAt   time.Time
}
