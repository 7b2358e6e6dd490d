package models

import "time"

// StoredFile is metadata for an uploaded file kept on local storage.
type StoredFile struct {
	ID           string    `db:"id" json:"id"`
	OriginalName string    `db:"original_name" json:"original_name"`
	StoredPath   string    `db:"stored_path" json:"-"`
	MimeType     string    `db:"mime_type" json:"mime_type"`
	SizeBytes    int64     `db:"size_bytes" json:"size_bytes"`
	UploadedBy   *string   `db:"uploaded_by" json:"uploaded_by,omitempty"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}
