// Package media uploads progress photos through an ordered chain of storage
// tiers, falling back to the next ready tier when one fails.
package media

import (
	"context"
	"errors"
	"fmt"
	"path"
	"regexp"

	"github.com/iamhollywoodpro/strivetrack/internal/constants"
)

var (
	// ErrSizeLimit is terminal: the local tier is the last one in the chain.
	ErrSizeLimit = errors.New("file too large for local storage (max 5MB)")
	// ErrNoTierAvailable is returned when every ready tier failed.
	ErrNoTierAvailable = errors.New("no storage tier available")
	// ErrFileTooLarge rejects a file before any tier is tried. It also
	// matches ErrSizeLimit.
	ErrFileTooLarge error = sizeLimitError("file exceeds the 50MB upload limit")
	ErrNotReady           = errors.New("storage tier not ready")
)

type sizeLimitError string

func (e sizeLimitError) Error() string { return string(e) }

func (e sizeLimitError) Is(target error) bool { return target == ErrSizeLimit }

// File is an upload payload.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

func (f File) Size() int64 { return int64(len(f.Data)) }

// Descriptor is what a tier returns for a stored file.
type Descriptor struct {
	URL         string                `json:"url"`
	Path        string                `json:"path"`
	StorageTier constants.StorageTier `json:"storage_tier"`
	Size        int64                 `json:"size"`
	Type        string                `json:"type"`
}

// Backend is one storage tier.
type Backend interface {
	Tier() constants.StorageTier
	HealthCheck(ctx context.Context) error
	// Upload stores f under dir using the already generated object name.
	Upload(ctx context.Context, f File, dir, name string) (Descriptor, error)
}

// Remover is implemented by tiers that can delete stored objects.
type Remover interface {
	Remove(ctx context.Context, objectPath string) error
}

// Counter counts a user's objects held by a tier.
type Counter interface {
	CountMedia(ctx context.Context, userID string) (int, error)
}

// Sizer reports the bytes a user holds in a tier.
type Sizer interface {
	UsedBytes(ctx context.Context, userID string) (int64, int, error)
}

var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9.-]`)

// ObjectName builds the stored name `<unix millis>_<sanitized name>`.
func ObjectName(millis int64, name string) string {
	return fmt.Sprintf("%d_%s", millis, unsafeChars.ReplaceAllString(name, "_"))
}

func joinPath(dir, name string) string {
	if dir == "" {
		return name
	}
	return path.Join(dir, name)
}
