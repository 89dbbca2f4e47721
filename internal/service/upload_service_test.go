package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime/multipart"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

type fakeStorage struct {
	uploadedName string
	uploadedSize int
	err          error
}

func (f *fakeStorage) Upload(_ context.Context, name string, reader io.Reader) (string, error) {
	if f.err != nil {
		return "", f.err
	}

	content, err := io.ReadAll(reader)
	if err != nil {
		return "", err
	}
	f.uploadedName = name
	f.uploadedSize = len(content)

	return "https://cdn.example.com/uploads/" + name, nil
}

func multipartFile(t *testing.T, name string, content []byte) *multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", name)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	form, err := multipart.NewReader(&buf, writer.Boundary()).ReadForm(32 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { form.RemoveAll() })

	files := form.File["file"]
	require.Len(t, files, 1)
	return files[0]
}

func TestUploadStoresAllowedFile(t *testing.T) {
	storage := &fakeStorage{}
	svc := NewUploadService(storage, 10, zerolog.New(io.Discard))

	content := []byte("%PDF-1.4\n1 0 obj\n<<>>\nendobj\n")
	resp, err := svc.Upload(context.Background(), multipartFile(t, "notes.pdf", content))
	require.NoError(t, err)
	require.Equal(t, "https://cdn.example.com/uploads/notes.pdf", resp.FileURL)
	require.Equal(t, "notes.pdf", resp.FileName)
	require.Equal(t, int64(len(content)), resp.FileSize)
	require.Equal(t, "application/pdf", resp.FileType)
	require.Equal(t, "notes.pdf", storage.uploadedName)
	require.Equal(t, len(content), storage.uploadedSize)
}

func TestUploadRejectsOversizedFile(t *testing.T) {
	storage := &fakeStorage{}
	svc := NewUploadService(storage, 1, zerolog.New(io.Discard))

	big := bytes.Repeat([]byte("a"), 1024*1024+1)
	_, err := svc.Upload(context.Background(), multipartFile(t, "big.txt", big))
	require.ErrorIs(t, err, ErrUploadTooLarge)
	require.Empty(t, storage.uploadedName)
}

func TestUploadRejectsDisallowedType(t *testing.T) {
	storage := &fakeStorage{}
	svc := NewUploadService(storage, 10, zerolog.New(io.Discard))

	// gzip magic bytes; archives other than zip are not accepted.
	_, err := svc.Upload(context.Background(), multipartFile(t, "data.gz", []byte{0x1f, 0x8b, 0x08, 0x00, 0x00, 0x00, 0x00, 0x00}))
	require.ErrorIs(t, err, ErrUploadTypeNotAllowed)
	require.Empty(t, storage.uploadedName)
}

func TestUploadPropagatesStorageFailure(t *testing.T) {
	storage := &fakeStorage{err: errors.New("cloud unavailable")}
	svc := NewUploadService(storage, 10, zerolog.New(io.Discard))

	_, err := svc.Upload(context.Background(), multipartFile(t, "notes.txt", []byte("plain text body")))
	require.Error(t, err)
	require.Contains(t, err.Error(), "failed to store file")
}

func TestUploadRequiresFile(t *testing.T) {
	svc := NewUploadService(&fakeStorage{}, 10, zerolog.New(io.Discard))

	_, err := svc.Upload(context.Background(), nil)
	require.Error(t, err)
}
