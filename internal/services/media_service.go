package services

import (
	"context"
	"io"
	"path"
	"strings"

	"fithub/pkg/utils"

	"github.com/google/uuid"
	pkgerrors "github.com/pkg/errors"
	"gocloud.dev/blob"
)

// Upload is an image posted alongside a form.
type Upload struct {
	Filename    string
	ContentType string
	Body        io.Reader
}

type IMediaService interface {
	// Save stores the upload under prefix/ and returns its bucket key.
	Save(ctx context.Context, prefix string, upload *Upload) (string, error)
	Delete(ctx context.Context, key string) error
}

type mediaService struct {
	bucket *blob.Bucket
}

func NewMediaService(bucket *blob.Bucket) IMediaService {
	return &mediaService{bucket: bucket}
}

var allowedImageExt = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".webp": true,
}

func (m *mediaService) Save(ctx context.Context, prefix string, upload *Upload) (string, error) {
	if upload == nil || upload.Body == nil {
		return "", nil
	}
	ext := strings.ToLower(path.Ext(upload.Filename))
	if !allowedImageExt[ext] {
		return "", pkgerrors.Wrapf(utils.ErrInvalidInput, "unsupported image type %q", ext)
	}

	key := path.Join(prefix, uuid.NewString()+ext)
	w, err := m.bucket.NewWriter(ctx, key, &blob.WriterOptions{ContentType: upload.ContentType})
	if err != nil {
		return "", pkgerrors.Wrapf(err, "open writer for %s", key)
	}
	if _, err := io.Copy(w, upload.Body); err != nil {
		_ = w.Close()
		return "", pkgerrors.Wrapf(err, "write %s", key)
	}
	if err := w.Close(); err != nil {
		return "", pkgerrors.Wrapf(err, "close %s", key)
	}
	return key, nil
}

func (m *mediaService) Delete(ctx context.Context, key string) error {
	if key == "" {
		return nil
	}
	if err := m.bucket.Delete(ctx, key); err != nil {
		return pkgerrors.Wrapf(err, "delete %s", key)
	}
	return nil
}
