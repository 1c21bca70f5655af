package entity

import "time"

type FileStatus string

const (
	FilePending  FileStatus = "pending"
	FileUploaded FileStatus = "uploaded"
)

// StoredFile tracks an object uploaded through a presigned URL.
type StoredFile struct {
	ID          string
	UserID      string
	ObjectKey   string
	Filename    string
	ContentType string
	SizeBytes   int64
	Status      FileStatus
	CreatedAt   time.Time
	UploadedAt  *time.Time
}
