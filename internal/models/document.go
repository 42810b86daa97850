package models

import "time"

// Document is an uploaded support file.
type Document struct {
	ID          string    `db:"id" json:"id"`
	PersonID    string    `db:"person_id" json:"person_id"`
	Kind        string    `db:"kind" json:"kind"`
	Filename    string    `db:"filename" json:"filename"`
	StoragePath string    `db:"storage_path" json:"-"`
	MimeType    string    `db:"mime_type" json:"mime_type"`
	SizeBytes   int64     `db:"size_bytes" json:"size_bytes"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	Review      *Review   `db:"-" json:"review,omitempty"`
}

// DocumentDownload pairs document metadata with a signed download link.
type DocumentDownload struct {
	Document  *Document `json:"document"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}
