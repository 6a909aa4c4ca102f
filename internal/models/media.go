package models

import (
	"time"

	"github.com/iamhollywoodpro/strivetrack/internal/constants"
)

// MediaItem is a stored reference to an uploaded progress photo or video.
type MediaItem struct {
	ID          string                `json:"id"`
	Name        string                `json:"name"`
	Type        constants.MediaType   `json:"type"`
	URL         string                `json:"url"`
	Path        string                `json:"path"`
	UploadedAt  time.Time             `json:"uploaded_at"`
	Size        int64                 `json:"size"`
	FileType    string                `json:"file_type"`
	StorageTier constants.StorageTier `json:"storage_tier"`
}
