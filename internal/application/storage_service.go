package application

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"path"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/fretvault/api/internal/domain/entity"
	repo "github.com/fretvault/api/internal/domain/repository"
	"github.com/fretvault/api/pkg/helpers"
)

// allowedContentTypes lists what may be uploaded. Guitar Pro files arrive as
// application/octet-stream, MusicXML as one of the xml types.
var allowedContentTypes = map[string]bool{
	"image/png":       true,
	"image/jpeg":      true,
	"image/gif":       true,
	"image/webp":      true,
	"application/pdf": true,
	"audio/mpeg":      true,
	"audio/wav":       true,
	"audio/x-wav":     true,
	"audio/ogg":       true,
	"audio/flac":      true,
	"audio/mp4":       true,
	"audio/aac":       true,

	"application/octet-stream":               true,
	"application/xml":                        true,
	"text/xml":                               true,
	"application/vnd.recordare.musicxml+xml": true,
	"application/vnd.recordare.musicxml":     true,
}

var extPattern = regexp.MustCompile(`^\.[a-z0-9]{1,10}$`)

type StorageService struct {
	Files          repo.FileRepository
	Store          ObjectStore // nil when storage is not configured
	PresignTTL     time.Duration
	MaxUploadBytes int64
	Logger         *logrus.Logger
}

func NewStorageService(files repo.FileRepository, store ObjectStore, ttl time.Duration, maxBytes int64, logger *logrus.Logger) *StorageService {
	return &StorageService{Files: files, Store: store, PresignTTL: ttl, MaxUploadBytes: maxBytes, Logger: logger}
}

type UploadInput struct {
	Filename    string
	ContentType string
	SizeBytes   int64
}

// PresignedUpload is what the client needs to PUT the object directly.
type PresignedUpload struct {
	File      *entity.StoredFile
	URL       string
	Method    string
	Headers   map[string]string
	ExpiresAt time.Time
}

type PresignedDownload struct {
	URL       string
	ExpiresAt time.Time
}

// NormalizeContentType strips parameters and lowercases a media type.
func NormalizeContentType(ct string) string {
	mt, _, err := mime.ParseMediaType(ct)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(ct))
	}
	return mt
}

// objectExtension picks the key suffix: the filename's extension when it is
// sane, otherwise the canonical extension of the content type.
func objectExtension(filename, contentType string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if extPattern.MatchString(ext) {
		return ext
	}
	if m := mimetype.Lookup(contentType); m != nil {
		return m.Extension()
	}
	return ""
}

func (s *StorageService) available() error {
	if s.Store == nil {
		return ErrStorageUnavailable
	}
	return nil
}

func (s *StorageService) owned(ctx context.Context, userID, fileID string) (*entity.StoredFile, error) {
	f, err := s.Files.GetByID(ctx, fileID)
	if err != nil {
		return nil, repoErr("get file", err)
	}
	if f.UserID != userID {
		return nil, ErrNotFound
	}
	return f, nil
}

// CreateUpload records a pending file and presigns a PUT for it.
func (s *StorageService) CreateUpload(ctx context.Context, userID string, in UploadInput) (*PresignedUpload, error) {
	if err := s.available(); err != nil {
		return nil, err
	}
	ct := NormalizeContentType(in.ContentType)
	if !allowedContentTypes[ct] {
		return nil, invalid("content_type", "is not an allowed file type")
	}
	if in.SizeBytes <= 0 {
		return nil, invalid("size_bytes", "must be greater than 0")
	}
	if s.MaxUploadBytes > 0 && in.SizeBytes > s.MaxUploadBytes {
		return nil, invalid("size_bytes", fmt.Sprintf("must be at most %d", s.MaxUploadBytes))
	}
	name := path.Base(strings.ReplaceAll(strings.TrimSpace(in.Filename), `\`, "/"))
	if name == "" || name == "." || name == "/" {
		return nil, invalid("filename", "is required")
	}

	key := "users/" + userID + "/" + uuid.NewString() + objectExtension(name, ct)
	f := &entity.StoredFile{
		UserID:      userID,
		ObjectKey:   key,
		Filename:    name,
		ContentType: ct,
		SizeBytes:   in.SizeBytes,
		Status:      entity.FilePending,
	}

	expires := time.Now().Add(s.PresignTTL)
	url, err := s.Store.PresignPut(ctx, key, ct, s.PresignTTL)
	if err != nil {
		return nil, fmt.Errorf("presign put: %w", err)
	}
	if err := s.Files.Create(ctx, f); err != nil {
		return nil, repoErr("create file", err)
	}
	return &PresignedUpload{
		File:      f,
		URL:       url,
		Method:    "PUT",
		Headers:   map[string]string{"Content-Type": ct},
		ExpiresAt: expires,
	}, nil
}

// CompleteUpload checks the object landed in the bucket and marks the file uploaded.
func (s *StorageService) CompleteUpload(ctx context.Context, userID, fileID string) (*entity.StoredFile, error) {
	if err := s.available(); err != nil {
		return nil, err
	}
	f, err := s.owned(ctx, userID, fileID)
	if err != nil {
		return nil, err
	}
	if f.Status == entity.FileUploaded {
		return f, nil
	}
	attrs, err := s.Store.Stat(ctx, f.ObjectKey)
	if errors.Is(err, helpers.ErrObjectNotFound) {
		return nil, ErrUploadMissing
	}
	if err != nil {
		return nil, fmt.Errorf("stat object: %w", err)
	}
	if s.MaxUploadBytes > 0 && attrs.Size > s.MaxUploadBytes {
		if dErr := s.Store.Delete(ctx, f.ObjectKey); dErr != nil && s.Logger != nil {
			s.Logger.WithError(dErr).WithField("key", f.ObjectKey).Warn("delete oversized object failed")
		}
		return nil, invalid("size_bytes", fmt.Sprintf("must be at most %d", s.MaxUploadBytes))
	}

	at := time.Now().UTC()
	if err := s.Files.MarkUploaded(ctx, f.ID, attrs.Size, at); err != nil {
		return nil, repoErr("mark uploaded", err)
	}
	f.Status = entity.FileUploaded
	f.SizeBytes = attrs.Size
	f.UploadedAt = &at
	return f, nil
}

func (s *StorageService) DownloadURL(ctx context.Context, userID, fileID string) (*PresignedDownload, error) {
	if err := s.available(); err != nil {
		return nil, err
	}
	f, err := s.owned(ctx, userID, fileID)
	if err != nil {
		return nil, err
	}
	if f.Status != entity.FileUploaded {
		return nil, ErrUploadMissing
	}
	expires := time.Now().Add(s.PresignTTL)
	url, err := s.Store.PresignGet(ctx, f.ObjectKey, f.Filename, s.PresignTTL)
	if err != nil {
		return nil, fmt.Errorf("presign get: %w", err)
	}
	return &PresignedDownload{URL: url, ExpiresAt: expires}, nil
}

func (s *StorageService) List(ctx context.Context, userID string) ([]entity.StoredFile, error) {
	out, err := s.Files.ListByUser(ctx, userID)
	return out, repoErr("list files", err)
}

// Delete removes the object (a missing object is fine) and then the record.
func (s *StorageService) Delete(ctx context.Context, userID, fileID string) error {
	if err := s.available(); err != nil {
		return err
	}
	f, err := s.owned(ctx, userID, fileID)
	if err != nil {
		return err
	}
	if err := s.Store.Delete(ctx, f.ObjectKey); err != nil && !errors.Is(err, helpers.ErrObjectNotFound) {
		return fmt.Errorf("delete object: %w", err)
	}
	return repoErr("delete file", s.Files.Delete(ctx, f.ID))
}
