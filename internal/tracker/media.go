package tracker

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/iamhollywoodpro/strivetrack/internal/constants"
	"github.com/iamhollywoodpro/strivetrack/internal/logger"
	"github.com/iamhollywoodpro/strivetrack/internal/media"
	"github.com/iamhollywoodpro/strivetrack/internal/models"
	"github.com/iamhollywoodpro/strivetrack/internal/notifier"
	"github.com/iamhollywoodpro/strivetrack/internal/validation"
)

// UploadReport lists what a batch upload stored and what it did not.
type UploadReport struct {
	Items    []models.MediaItem `json:"items"`
	Failed   []media.Failure    `json:"failed,omitempty"`
	TimedOut bool               `json:"timed_out"`
}

// UploadMedia uploads files through the tier chain and appends every
// success to the media list in a single write.
func (s *Service) UploadMedia(ctx context.Context, files []media.File, typ constants.MediaType) (UploadReport, Outcome, error) {
	if err := validation.MediaType(typ); err != nil {
		return UploadReport{}, Outcome{}, err
	}
	if len(files) == 0 {
		return UploadReport{}, Outcome{}, &validation.Error{Field: "files", Message: "Please select files to upload first"}
	}

	res := s.selector.UploadBatch(ctx, files, s.repo.UserID(), s.upload)
	report := UploadReport{Failed: res.Failed, TimedOut: res.TimedOut}
	out := Outcome{}

	for _, f := range res.Failed {
		out.toast(notifier.LevelError, "Upload failed: %s - %v", f.Name, f.Err)
	}
	if res.TimedOut {
		out.toast(notifier.LevelWarning, "Upload timed out, saved %d of %d file(s)", len(res.Uploaded), len(files))
	}
	if len(res.Uploaded) == 0 {
		if len(res.Failed) > 0 {
			return report, out, errors.Join(media.ErrNoTierAvailable, res.Failed[0].Err)
		}
		return report, out, media.ErrNoTierAvailable
	}

	now := s.now()
	for _, r := range res.Uploaded {
		report.Items = append(report.Items, models.MediaItem{
			ID:          r.Name,
			Name:        r.File,
			Type:        typ,
			URL:         r.URL,
			Path:        r.Path,
			UploadedAt:  now,
			Size:        r.Size,
			FileType:    r.Type,
			StorageTier: r.StorageTier,
		})
	}
	err := s.repo.Media().Update(func(items []models.MediaItem) ([]models.MediaItem, error) {
		return append(items, report.Items...), nil
	})
	if err != nil {
		s.discardUploads(ctx, report.Items)
		report.Items = nil
		out.toast(notifier.LevelError, "Failed to save uploaded media: %v", err)
		return report, out, fmt.Errorf("failed to save media references: %w", err)
	}
	logger.Info("Stored media references", "user", s.repo.UserID(), "count", len(report.Items))

	out.Changed = true
	n := len(report.Items)
	out.toast(notifier.LevelSuccess, "Successfully uploaded %d file(s)! 📸 +%d pts", n, n*constants.PointsPerMedia)
	return report, out, s.settle(ctx, &out)
}

// discardUploads removes objects whose references could not be saved.
func (s *Service) discardUploads(ctx context.Context, items []models.MediaItem) {
	for _, it := range items {
		if err := s.selector.Remove(ctx, it); err != nil {
			logger.Warn("Failed to remove unsaved upload", "id", it.ID, "tier", it.StorageTier, "error", err)
		}
	}
}

// Media returns the stored references, newest first.
func (s *Service) Media() ([]models.MediaItem, error) {
	items, err := s.repo.Media().Load()
	if err != nil {
		return nil, err
	}
	slices.SortStableFunc(items, func(a, b models.MediaItem) int {
		return b.UploadedAt.Compare(a.UploadedAt)
	})
	return items, nil
}

// DeleteMedia removes the stored object and then its reference. An unknown
// id is a no-op.
func (s *Service) DeleteMedia(ctx context.Context, id string) (Outcome, error) {
	items, err := s.repo.Media().Load()
	if err != nil {
		return Outcome{}, err
	}
	i := slices.IndexFunc(items, func(m models.MediaItem) bool { return m.ID == id })
	if i < 0 {
		return Outcome{}, nil
	}
	if err := s.selector.Remove(ctx, items[i]); err != nil {
		return Outcome{}, err
	}
	if err := s.repo.Media().Save(slices.Delete(items, i, i+1)); err != nil {
		return Outcome{}, err
	}

	out := Outcome{Changed: true}
	out.toast(notifier.LevelSuccess, "Media deleted successfully")
	return out, s.settle(ctx, &out)
}

func (s *Service) StorageUsage(ctx context.Context) (media.Usage, error) {
	items, err := s.repo.Media().Load()
	if err != nil {
		return media.Usage{}, err
	}
	return s.selector.Usage(ctx, s.repo.UserID(), items), nil
}

// CleanOldMedia keeps the newest keep references and drops the rest.
// Locally held content of dropped items is freed; cloud objects stay.
func (s *Service) CleanOldMedia(ctx context.Context, keep int) (int, Outcome, error) {
	if keep <= 0 {
		keep = constants.DefaultKeepMedia
	}
	items, err := s.Media()
	if err != nil {
		return 0, Outcome{}, err
	}
	if len(items) <= keep {
		return 0, Outcome{}, nil
	}

	dropped := items[keep:]
	if err := s.repo.Media().Save(items[:keep]); err != nil {
		return 0, Outcome{}, err
	}
	for _, it := range dropped {
		if it.StorageTier != constants.TierFallback {
			continue
		}
		if err := s.selector.Remove(ctx, it); err != nil {
			logger.Warn("Failed to free local media", "id", it.ID, "error", err)
		}
	}

	out := Outcome{Changed: true}
	out.toast(notifier.LevelInfo, "Cleaned up %d old media files to free space", len(dropped))
	return len(dropped), out, s.settle(ctx, &out)
}
