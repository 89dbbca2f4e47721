package service

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"

	"github.com/SNbappy/edugrid-smart-learning-platform-server/internal/dto"
	"github.com/SNbappy/edugrid-smart-learning-platform-server/internal/models"
)

const fallbackAttachmentName = "Uploaded File"

// fileTypeFromExtension maps a filename extension onto the MIME type
// the viewing clients expect. The table is fixed; anything unknown is
// served as a generic binary.
func fileTypeFromExtension(extension string) string {
	ext := strings.ToLower(strings.TrimPrefix(extension, "."))

	switch ext {
	case "jpg", "jpeg":
		return "image/jpeg"
	case "png", "gif", "webp", "svg":
		return "image/" + ext
	case "mp4", "avi", "mov", "wmv", "flv", "webm":
		return "video/" + ext
	case "mp3":
		return "audio/mpeg"
	case "wav", "ogg", "m4a", "aac":
		return "audio/" + ext
	case "pdf":
		return "application/pdf"
	case "doc", "docx":
		return "application/msword"
	case "txt":
		return "text/plain"
	default:
		return "application/octet-stream"
	}
}

func extensionOf(name string) string {
	idx := strings.LastIndex(name, ".")
	if idx < 0 || idx == len(name)-1 {
		return ""
	}
	return name[idx+1:]
}

func fileNameFromURL(rawURL string) string {
	parts := strings.Split(rawURL, "/")
	return parts[len(parts)-1]
}

// attachmentFromURL synthesizes an attachment descriptor from a bare
// URL, deriving the display name from the last path segment.
func attachmentFromURL(rawURL string) models.Attachment {
	name := fileNameFromURL(rawURL)
	if name == "" {
		name = fallbackAttachmentName
	}
	fileType := fileTypeFromExtension(extensionOf(name))

	return models.Attachment{
		URL:          rawURL,
		Name:         name,
		OriginalName: name,
		Type:         fileType,
		Size:         nil,
		MimeType:     fileType,
	}
}

// SubmissionFactory normalizes the payloads of several client
// generations into the canonical submission shape. It has no I/O; the
// clock and id generator are injected so tests stay deterministic.
type SubmissionFactory struct {
	sanitizer *bluemonday.Policy
	now       func() time.Time
	newID     func() string
}

// NewSubmissionFactory constructs a factory with the UGC sanitizer for
// free-text content.
func NewSubmissionFactory() *SubmissionFactory {
	return &SubmissionFactory{
		sanitizer: bluemonday.UGCPolicy(),
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

// Build produces a fresh submission record from the request payload.
// Text is the first non-empty of submissionText/text, the primary URL
// the first non-empty of submissionUrl/fileUrl. Grading fields start
// nil and version at 1.
func (f *SubmissionFactory) Build(input dto.SubmissionRequest) models.Submission {
	text := input.SubmissionText
	if text == "" {
		text = input.Text
	}

	primaryURL := input.SubmissionURL
	if primaryURL == "" {
		primaryURL = input.FileURL
	}

	studentName := strings.TrimSpace(input.StudentName)
	if studentName == "" {
		studentName = localPart(input.StudentEmail)
	}

	id := f.newID()
	submission := models.Submission{
		ID:             id,
		LegacyID:       id,
		StudentEmail:   input.StudentEmail,
		StudentName:    studentName,
		SubmissionText: f.sanitizer.Sanitize(text),
		SubmissionURL:  primaryURL,
		SubmittedAt:    f.now(),
		Status:         models.SubmissionStatusSubmitted,
		Version:        1,
	}

	switch {
	case input.FileURL != "" && input.FileName != "":
		fileType := input.FileType
		inferred := fileTypeFromExtension(extensionOf(input.FileName))
		if fileType == "" {
			fileType = inferred
		}
		submission.Attachments = []models.Attachment{{
			URL:          input.FileURL,
			Name:         input.FileName,
			OriginalName: input.FileName,
			Type:         inferred,
			Size:         input.FileSize,
			MimeType:     fileType,
		}}
	case len(input.Attachments) > 0:
		submission.Attachments = normalizeAttachments(input.Attachments)
	case primaryURL != "":
		submission.Attachments = []models.Attachment{attachmentFromURL(primaryURL)}
	}

	return submission
}

func normalizeAttachments(payloads []dto.AttachmentPayload) []models.Attachment {
	attachments := make([]models.Attachment, 0, len(payloads))
	for _, payload := range payloads {
		name := payload.Name
		if name == "" {
			name = payload.OriginalName
		}
		if name == "" {
			name = fallbackAttachmentName
		}

		originalName := payload.OriginalName
		if originalName == "" {
			originalName = name
		}

		fileType := payload.Type
		if fileType == "" {
			fileType = payload.MimeType
		}
		if fileType == "" {
			fileType = "application/octet-stream"
		}

		mimeType := payload.MimeType
		if mimeType == "" {
			mimeType = fileType
		}

		attachments = append(attachments, models.Attachment{
			URL:          payload.URL,
			Name:         name,
			OriginalName: originalName,
			Type:         fileType,
			Size:         payload.Size,
			MimeType:     mimeType,
		})
	}

	return attachments
}

func localPart(email string) string {
	if at := strings.Index(email, "@"); at > 0 {
		return email[:at]
	}
	return email
}
