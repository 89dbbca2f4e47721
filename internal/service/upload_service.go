package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/SNbappy/edugrid-smart-learning-platform-server/internal/dto"
	"github.com/SNbappy/edugrid-smart-learning-platform-server/internal/observability"
)

var (
	// ErrUploadTooLarge indicates the payload exceeded the configured limit.
	ErrUploadTooLarge = errors.New("file exceeds maximum allowed size")
	// ErrUploadTypeNotAllowed indicates the MIME type is not permitted.
	ErrUploadTypeNotAllowed = errors.New("file type not allowed")
)

// Attachment types accepted for submissions. Matches the extension
// groups the viewer understands.
var allowedUploadTypes = []string{
	"image/jpeg", "image/png", "image/gif", "image/webp", "image/svg+xml",
	"video/mp4", "video/webm",
	"audio/mpeg", "audio/wav", "audio/ogg",
	"application/pdf", "application/msword",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	"application/zip", "application/x-zip-compressed",
	"text/plain",
}

// FileStorage abstracts upload destinations.
type FileStorage interface {
	Upload(ctx context.Context, name string, reader io.Reader) (string, error)
}

// UploadService validates attachment files and stores them, returning
// the fields a submission payload references (fileUrl/fileName/...).
type UploadService interface {
	Upload(ctx context.Context, file *multipart.FileHeader) (dto.UploadResponse, error)
}

type uploadService struct {
	storage FileStorage
	logger  zerolog.Logger
	maxSize int64
	tracer  trace.Tracer
}

// NewUploadService constructs an upload service.
func NewUploadService(storage FileStorage, maxSizeMB int, logger zerolog.Logger) UploadService {
	if maxSizeMB <= 0 {
		maxSizeMB = 10
	}
	return &uploadService{
		storage: storage,
		logger:  logger.With().Str("component", "upload_service").Logger(),
		maxSize: int64(maxSizeMB) * 1024 * 1024,
		tracer:  otel.Tracer("github.com/SNbappy/edugrid-smart-learning-platform-server/internal/service/upload"),
	}
}

func (s *uploadService) Upload(ctx context.Context, file *multipart.FileHeader) (dto.UploadResponse, error) {
	ctx, span := s.tracer.Start(ctx, "upload.store")
	defer span.End()

	start := time.Now()
	defer func() {
		observability.UploadLatency().Observe(time.Since(start).Seconds())
	}()

	if file == nil {
		return dto.UploadResponse{}, fmt.Errorf("upload file is required")
	}

	span.SetAttributes(
		attribute.String("upload.original_name", strings.TrimSpace(file.Filename)),
		attribute.Int64("upload.request_size", file.Size),
	)

	if file.Size > s.maxSize {
		return dto.UploadResponse{}, ErrUploadTooLarge
	}

	reader, err := file.Open()
	if err != nil {
		return dto.UploadResponse{}, fmt.Errorf("failed to open file: %w", err)
	}
	defer reader.Close()

	content, err := io.ReadAll(io.LimitReader(reader, s.maxSize+1))
	if err != nil {
		return dto.UploadResponse{}, fmt.Errorf("failed to read file: %w", err)
	}
	if int64(len(content)) > s.maxSize {
		return dto.UploadResponse{}, ErrUploadTooLarge
	}

	detected := mimetype.Detect(content)
	if !uploadTypeAllowed(detected) {
		return dto.UploadResponse{}, fmt.Errorf("%w: %s", ErrUploadTypeNotAllowed, detected.String())
	}

	url, err := s.storage.Upload(ctx, file.Filename, bytes.NewReader(content))
	if err != nil {
		return dto.UploadResponse{}, fmt.Errorf("failed to store file: %w", err)
	}

	s.logger.Info().
		Str("file_name", file.Filename).
		Str("mime_type", detected.String()).
		Int("size", len(content)).
		Msg("attachment uploaded")

	return dto.UploadResponse{
		FileURL:  url,
		FileName: file.Filename,
		FileSize: int64(len(content)),
		FileType: detected.String(),
	}, nil
}

func uploadTypeAllowed(detected *mimetype.MIME) bool {
	for _, allowed := range allowedUploadTypes {
		if detected.Is(allowed) {
			return true
		}
	}
	return false
}
