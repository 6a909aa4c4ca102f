package media

import (
	"context"

	"github.com/iamhollywoodpro/strivetrack/internal/constants"
	"github.com/iamhollywoodpro/strivetrack/internal/logger"
	"github.com/iamhollywoodpro/strivetrack/internal/models"
)

// Usage is the storage consumed by one user against the display limit of
// the tier reporting it.
type Usage struct {
	Tier      constants.StorageTier `json:"tier"`
	Cloud     bool                  `json:"cloud"`
	Used      int64                 `json:"used"`
	Limit     int64                 `json:"limit"`
	Remaining int64                 `json:"remaining"`
	Percent   float64               `json:"percent"`
	Items     int                   `json:"items"`
}

func newUsage(tier constants.StorageTier, cloud bool, used, limit int64, items int) Usage {
	u := Usage{Tier: tier, Cloud: cloud, Used: used, Limit: limit, Remaining: limit - used, Items: items}
	if limit > 0 {
		u.Percent = float64(used) / float64(limit) * 100
	}
	return u
}

// Usage reports cloud usage when the secondary tier is the first ready one
// and falls back to the locally held items otherwise.
func (s *Selector) Usage(ctx context.Context, userID string, items []models.MediaItem) Usage {
	if sz, ok := s.hostedTier().(Sizer); ok {
		used, n, err := sz.UsedBytes(ctx, userID)
		if err == nil {
			return newUsage(constants.TierSecondary, true, used, constants.CloudStorageLimit, n)
		}
		logger.Warn("Could not fetch cloud storage usage", "user", userID, "error", err)
	}

	var used int64
	n := 0
	for _, it := range items {
		if it.StorageTier != constants.TierFallback {
			continue
		}
		used += it.Size
		n++
	}
	return newUsage(constants.TierFallback, false, used, constants.MaxLocalFileSize, n)
}
