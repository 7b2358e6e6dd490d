package models

import (
	"time"

	"github.com/lib/pq"
)

// Valid study material categories.
var MaterialCategories = []string{"lecture", "assignment", "exam", "worksheet", "reference"}

// Material is a downloadable study resource in the school library. The binary
// itself lives in upload storage; the material row carries the catalog entry
// and usage counters.
type Material struct {
	ID          string         `db:"id" json:"id"`
	Title       string         `db:"title" json:"title"`
	Description string         `db:"description" json:"description"`
	Subject     string         `db:"subject" json:"subject"`
	Grade       string         `db:"grade" json:"grade"`
	Category    string         `db:"category" json:"category"`
	Tags        pq.StringArray `db:"tags" json:"tags"`
	IsPublic    bool           `db:"is_public" json:"is_public"`
	FileID      string         `db:"file_id" json:"file_id"`
	FileName    string         `db:"file_name" json:"file_name"`
	FileType    string         `db:"file_type" json:"file_type"`
	MimeType    *string        `db:"mime_type" json:"mime_type,omitempty"`
	Views       int            `db:"views" json:"views"`
	Downloads   int            `db:"downloads" json:"downloads"`
	UploadedAt  time.Time      `db:"uploaded_at" json:"uploaded_at"`
}

// MaterialFilter captures listing criteria for materials.
type MaterialFilter struct {
	Subject  string
	Grade    string
	Category string
	Search   string
	Page     int
	PageSize int
}

// MaterialStats summarises library usage.
type MaterialStats struct {
	TotalMaterials int `db:"total_materials" json:"total_materials"`
	TotalViews     int `db:"total_views" json:"total_views"`
	TotalDownloads int `db:"total_downloads" json:"total_downloads"`
}
