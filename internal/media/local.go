package media

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/iamhollywoodpro/strivetrack/internal/constants"
)

// BlobStore keeps file content in the record store.
type BlobStore interface {
	PutBlob(path, data string) error
	DeleteBlob(path string) error
}

// LocalBackend is the last tier. Files are stored as data URLs in the
// record store, capped at 5 MiB each.
type LocalBackend struct {
	blobs BlobStore
}

func NewLocalBackend(blobs BlobStore) *LocalBackend {
	return &LocalBackend{blobs: blobs}
}

func (l *LocalBackend) Tier() constants.StorageTier { return constants.TierFallback }

func (l *LocalBackend) HealthCheck(context.Context) error {
	if l.blobs == nil {
		return ErrNotReady
	}
	return nil
}

// LocalURLScheme prefixes the URL of locally stored media.
const LocalURLScheme = "local:"

func (l *LocalBackend) Upload(_ context.Context, f File, dir, name string) (Descriptor, error) {
	if f.Size() > constants.MaxLocalFileSize {
		return Descriptor{}, ErrSizeLimit
	}
	key := "media_" + joinPath(dir, name)
	dataURL := fmt.Sprintf("data:%s;base64,%s", contentType(f), base64.StdEncoding.EncodeToString(f.Data))
	if err := l.blobs.PutBlob(key, dataURL); err != nil {
		return Descriptor{}, fmt.Errorf("local storage write failed: %w", err)
	}
	return Descriptor{
		URL:         LocalURLScheme + key,
		Path:        key,
		StorageTier: l.Tier(),
		Size:        f.Size(),
		Type:        f.ContentType,
	}, nil
}

func (l *LocalBackend) Remove(_ context.Context, objectPath string) error {
	return l.blobs.DeleteBlob(objectPath)
}
