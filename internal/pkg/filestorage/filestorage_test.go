package filestorage

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/escolar/internal/pkg/apperrors"
)

var pdfBytes = []byte("%PDF-1.4\n1 0 obj\n<< /Type /Catalog >>\nendobj\ntrailer\n<< /Root 1 0 R >>\n%%EOF\n")

func TestLocalStorage_SaveAndDelete(t *testing.T) {
	dir := t.TempDir()
	ls, err := NewLocalStorage(dir, "http://localhost:8080/")
	require.NoError(t, err)

	url, err := ls.Save(context.Background(), "documentos/a.pdf", bytes.NewReader(pdfBytes), "application/pdf")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/uploads/documentos/a.pdf", url)

	stored, err := os.ReadFile(filepath.Join(dir, "documentos", "a.pdf"))
	require.NoError(t, err)
	assert.Equal(t, pdfBytes, stored)

	require.NoError(t, ls.Delete(context.Background(), "documentos/a.pdf"))
	require.NoError(t, ls.Delete(context.Background(), "documentos/a.pdf"))
}

func TestLocalStorage_KeyStaysInsideBase(t *testing.T) {
	dir := t.TempDir()
	ls, err := NewLocalStorage(filepath.Join(dir, "base"), "")
	require.NoError(t, err)

	url, err := ls.Save(context.Background(), "../../escape.pdf", bytes.NewReader(pdfBytes), "application/pdf")
	require.NoError(t, err)
	assert.Equal(t, "/uploads/escape.pdf", url)
	assert.FileExists(t, filepath.Join(dir, "base", "escape.pdf"))

	_, err = ls.Save(context.Background(), "", bytes.NewReader(pdfBytes), "application/pdf")
	assert.Error(t, err)
}

type memoryStorage struct {
	objects map[string][]byte
}

func (m *memoryStorage) Save(_ context.Context, key string, body io.ReadSeeker, _ string) (string, error) {
	data, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	m.objects[key] = data
	return "mem://" + key, nil
}

func (m *memoryStorage) Delete(_ context.Context, key string) error {
	delete(m.objects, key)
	return nil
}

func TestDocumentUploader(t *testing.T) {
	store := &memoryStorage{objects: map[string][]byte{}}
	u := NewDocumentUploader(store, 1024)

	doc, err := u.Upload(context.Background(), bytes.NewReader(pdfBytes))
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", doc.ContentType)
	assert.True(t, strings.HasPrefix(doc.Key, DocumentPrefix+"/"))
	assert.True(t, strings.HasSuffix(doc.Key, ".pdf"))
	assert.Equal(t, "mem://"+doc.Key, doc.URL)
	assert.Equal(t, int64(len(pdfBytes)), doc.Size)
	assert.Equal(t, pdfBytes, store.objects[doc.Key])

	_, err = u.Upload(context.Background(), strings.NewReader("just some text"))
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	_, err = u.Upload(context.Background(), bytes.NewReader(nil))
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	small := NewDocumentUploader(store, 10)
	_, err = small.Upload(context.Background(), bytes.NewReader(pdfBytes))
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}

type fakeS3 struct {
	s3iface.S3API
	put *s3.PutObjectInput
}

func (f *fakeS3) PutObjectWithContext(_ aws.Context, in *s3.PutObjectInput, _ ...request.Option) (*s3.PutObjectOutput, error) {
	f.put = in
	return &s3.PutObjectOutput{}, nil
}

func TestS3Storage_Save(t *testing.T) {
	client := &fakeS3{}
	s := NewS3StorageWithClient(client, S3Config{Bucket: "docs", Region: "us-east-1"})

	url, err := s.Save(context.Background(), "documentos/x.pdf", bytes.NewReader(pdfBytes), "application/pdf")
	require.NoError(t, err)
	assert.Equal(t, "https://docs.s3.us-east-1.amazonaws.com/documentos/x.pdf", url)
	require.NotNil(t, client.put)
	assert.Equal(t, "docs", aws.StringValue(client.put.Bucket))
	assert.Equal(t, "application/pdf", aws.StringValue(client.put.ContentType))

	custom := NewS3StorageWithClient(client, S3Config{Bucket: "docs", Endpoint: "http://minio:9000/"})
	url, err = custom.Save(context.Background(), "k.pdf", bytes.NewReader(pdfBytes), "application/pdf")
	require.NoError(t, err)
	assert.Equal(t, "http://minio:9000/docs/k.pdf", url)
}
