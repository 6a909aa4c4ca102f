package media

import (
	"context"
	"fmt"
	"net/http"

	"github.com/iamhollywoodpro/strivetrack/internal/backend"
	"github.com/iamhollywoodpro/strivetrack/internal/constants"
)

// ObjectStore is the slice of the hosted backend client the secondary tier uses.
type ObjectStore interface {
	Configured() bool
	Upload(ctx context.Context, token, bucket, path string, data []byte, contentType string) error
	List(ctx context.Context, token, bucket, prefix string) ([]backend.Object, error)
	PublicURL(bucket, path string) string
	Remove(ctx context.Context, token, bucket string, paths []string) error
}

// HostedBackend is the secondary tier: the hosted backend's storage bucket.
// It is usable only while a backend session token is present.
type HostedBackend struct {
	store  ObjectStore
	token  string
	bucket string
}

func NewHostedBackend(store ObjectStore, token string) *HostedBackend {
	return &HostedBackend{store: store, token: token, bucket: constants.MediaBucket}
}

func (h *HostedBackend) Tier() constants.StorageTier { return constants.TierSecondary }

func (h *HostedBackend) HealthCheck(context.Context) error {
	if h.store == nil || !h.store.Configured() {
		return fmt.Errorf("hosted backend not configured: %w", ErrNotReady)
	}
	if h.token == "" {
		return fmt.Errorf("no backend session: %w", ErrNotReady)
	}
	return nil
}

func (h *HostedBackend) Upload(ctx context.Context, f File, dir, name string) (Descriptor, error) {
	if err := h.HealthCheck(ctx); err != nil {
		return Descriptor{}, err
	}
	full := joinPath(dir, name)
	ct := f.ContentType
	if ct == "" {
		ct = http.DetectContentType(f.Data)
	}
	if err := h.store.Upload(ctx, h.token, h.bucket, full, f.Data, ct); err != nil {
		return Descriptor{}, err
	}
	return Descriptor{
		URL:         h.store.PublicURL(h.bucket, full),
		Path:        full,
		StorageTier: h.Tier(),
		Size:        f.Size(),
		Type:        f.ContentType,
	}, nil
}

func (h *HostedBackend) Remove(ctx context.Context, objectPath string) error {
	if err := h.HealthCheck(ctx); err != nil {
		return err
	}
	return h.store.Remove(ctx, h.token, h.bucket, []string{objectPath})
}

func (h *HostedBackend) objects(ctx context.Context, userID string) ([]backend.Object, error) {
	if err := h.HealthCheck(ctx); err != nil {
		return nil, err
	}
	all, err := h.store.List(ctx, h.token, h.bucket, userID)
	if err != nil {
		return nil, err
	}
	files := all[:0]
	for _, o := range all {
		if !o.IsFolder() {
			files = append(files, o)
		}
	}
	return files, nil
}

// CountMedia counts the files under the user's folder.
func (h *HostedBackend) CountMedia(ctx context.Context, userID string) (int, error) {
	files, err := h.objects(ctx, userID)
	if err != nil {
		return 0, err
	}
	return len(files), nil
}

func (h *HostedBackend) UsedBytes(ctx context.Context, userID string) (int64, int, error) {
	files, err := h.objects(ctx, userID)
	if err != nil {
		return 0, 0, err
	}
	var total int64
	for _, o := range files {
		total += o.Metadata.Size
	}
	return total, len(files), nil
}
