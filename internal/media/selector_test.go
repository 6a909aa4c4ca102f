package media

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iamhollywoodpro/strivetrack/internal/constants"
	"github.com/iamhollywoodpro/strivetrack/internal/models"
)

type fakeBackend struct {
	tier      constants.StorageTier
	healthErr error
	uploadErr error
	delay     time.Duration

	mu      sync.Mutex
	uploads []string
	removed []string
}

func (f *fakeBackend) Tier() constants.StorageTier { return f.tier }

func (f *fakeBackend) HealthCheck(context.Context) error { return f.healthErr }

func (f *fakeBackend) Upload(_ context.Context, file File, dir, name string) (Descriptor, error) {
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	if f.uploadErr != nil {
		return Descriptor{}, f.uploadErr
	}
	f.mu.Lock()
	f.uploads = append(f.uploads, name)
	f.mu.Unlock()
	return Descriptor{
		URL:         "https://" + string(f.tier) + "/" + joinPath(dir, name),
		Path:        joinPath(dir, name),
		StorageTier: f.tier,
		Size:        file.Size(),
		Type:        file.ContentType,
	}, nil
}

func (f *fakeBackend) Remove(_ context.Context, p string) error {
	f.removed = append(f.removed, p)
	return nil
}

func (f *fakeBackend) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.uploads)
}

var testNow = time.Date(2024, 3, 13, 15, 0, 0, 0, time.UTC)

func newTestSelector(backends ...Backend) *Selector {
	s := NewSelector(backends, WithClock(func() time.Time { return testNow }))
	s.Probe(context.Background())
	return s
}

func photo(name string, size int) File {
	return File{Name: name, ContentType: "image/jpeg", Data: make([]byte, size)}
}

func TestObjectName(t *testing.T) {
	assert.Equal(t, "1710342000000_my_photo__1_.jpg", ObjectName(1710342000000, "my photo (1).jpg"))
	assert.Equal(t, "5_a-b.c", ObjectName(5, "a-b.c"))
}

func TestUploadPrefersPrimary(t *testing.T) {
	primary := &fakeBackend{tier: constants.TierPrimary}
	secondary := &fakeBackend{tier: constants.TierSecondary}
	local := &fakeBackend{tier: constants.TierFallback}
	s := newTestSelector(primary, secondary, local)

	res, err := s.Upload(context.Background(), photo("a.jpg", 10), "u1")
	require.NoError(t, err)
	assert.Equal(t, constants.TierPrimary, res.StorageTier)
	assert.Equal(t, "u1/1710342000000_a.jpg", res.Path)
	assert.Equal(t, int64(10), res.Size)
	assert.Equal(t, []Attempt{{Tier: constants.TierPrimary}}, res.Attempts)
	assert.Zero(t, secondary.count())
}

func TestUploadFallsThroughOnFailure(t *testing.T) {
	primary := &fakeBackend{tier: constants.TierPrimary, uploadErr: errors.New("boom")}
	secondary := &fakeBackend{tier: constants.TierSecondary}
	local := &fakeBackend{tier: constants.TierFallback}
	s := newTestSelector(primary, secondary, local)

	res, err := s.Upload(context.Background(), photo("a.jpg", 10), "u1")
	require.NoError(t, err)
	assert.Equal(t, constants.TierSecondary, res.StorageTier)
	require.Len(t, res.Attempts, 2)
	assert.Equal(t, "boom", res.Attempts[0].Err)
}

func TestUploadSkipsUnreadyTiers(t *testing.T) {
	primary := &fakeBackend{tier: constants.TierPrimary, healthErr: ErrNotReady}
	secondary := &fakeBackend{tier: constants.TierSecondary, healthErr: ErrNotReady}
	local := &fakeBackend{tier: constants.TierFallback}
	s := newTestSelector(primary, secondary, local)

	res, err := s.Upload(context.Background(), photo("a.jpg", 10), "u1")
	require.NoError(t, err)
	assert.Equal(t, constants.TierFallback, res.StorageTier)
	assert.Zero(t, primary.count())
	assert.Len(t, res.Attempts, 1)

	current, ok := s.Current()
	assert.True(t, ok)
	assert.Equal(t, constants.TierFallback, current)
}

func TestUploadPrimaryFailureSkipsUnreadySecondary(t *testing.T) {
	primary := &fakeBackend{tier: constants.TierPrimary, uploadErr: errors.New("down")}
	secondary := &fakeBackend{tier: constants.TierSecondary, healthErr: ErrNotReady}
	local := &fakeBackend{tier: constants.TierFallback}
	s := newTestSelector(primary, secondary, local)

	res, err := s.Upload(context.Background(), photo("a.jpg", 10), "u1")
	require.NoError(t, err)
	assert.Equal(t, constants.TierFallback, res.StorageTier)
	assert.Zero(t, secondary.count())
}

func TestUploadLocalSizeLimitIsTerminal(t *testing.T) {
	local := NewLocalBackend(newMemBlobs())
	s := newTestSelector(&fakeBackend{tier: constants.TierPrimary, healthErr: ErrNotReady}, local)

	_, err := s.Upload(context.Background(), photo("big.jpg", constants.MaxLocalFileSize+1), "u1")
	require.ErrorIs(t, err, ErrSizeLimit)
}

func TestUploadRejectsOversizeBeforeAnyTier(t *testing.T) {
	primary := &fakeBackend{tier: constants.TierPrimary}
	s := newTestSelector(primary)

	_, err := s.Upload(context.Background(), photo("huge.mov", constants.MaxUploadFileSize+1), "u1")
	require.ErrorIs(t, err, ErrFileTooLarge)
	assert.ErrorIs(t, err, ErrSizeLimit)
	assert.NotErrorIs(t, ErrSizeLimit, ErrFileTooLarge)
	assert.Zero(t, primary.count())
}

func TestUploadNoTierAvailable(t *testing.T) {
	s := newTestSelector(&fakeBackend{tier: constants.TierPrimary, healthErr: ErrNotReady})
	_, err := s.Upload(context.Background(), photo("a.jpg", 1), "u1")
	require.ErrorIs(t, err, ErrNoTierAvailable)

	s = newTestSelector(&fakeBackend{tier: constants.TierPrimary, uploadErr: errors.New("x")})
	_, err = s.Upload(context.Background(), photo("a.jpg", 1), "u1")
	require.ErrorIs(t, err, ErrNoTierAvailable)
	assert.Contains(t, err.Error(), "x")
}

func TestUploadNamesAreUnique(t *testing.T) {
	primary := &fakeBackend{tier: constants.TierPrimary}
	s := newTestSelector(primary)

	a, err := s.Upload(context.Background(), photo("a.jpg", 1), "u1")
	require.NoError(t, err)
	b, err := s.Upload(context.Background(), photo("a.jpg", 1), "u1")
	require.NoError(t, err)
	assert.NotEqual(t, a.Path, b.Path)
}

func TestStatusAndNilBackends(t *testing.T) {
	s := newTestSelector(nil, &fakeBackend{tier: constants.TierSecondary, healthErr: errors.New("offline")}, &fakeBackend{tier: constants.TierFallback})
	status := s.Status()
	require.Len(t, status, 2)
	assert.Equal(t, TierStatus{Tier: constants.TierSecondary, Ready: false, Error: "offline"}, status[0])
	assert.True(t, status[1].Ready)
	assert.Nil(t, s.Counter())
}

func TestRemove(t *testing.T) {
	local := &fakeBackend{tier: constants.TierFallback}
	s := newTestSelector(local)

	require.NoError(t, s.Remove(context.Background(), models.MediaItem{ID: "1", Path: "media_u1/1_a.jpg", StorageTier: constants.TierFallback}))
	assert.Equal(t, []string{"media_u1/1_a.jpg"}, local.removed)

	// Unknown tier only drops the reference.
	require.NoError(t, s.Remove(context.Background(), models.MediaItem{ID: "2", StorageTier: constants.TierPrimary}))
}

func TestUploadBatch(t *testing.T) {
	primary := &fakeBackend{tier: constants.TierPrimary}
	s := newTestSelector(primary)

	files := []File{photo("a.jpg", 1), photo("b.jpg", 1), photo("huge.mov", constants.MaxUploadFileSize+1), photo("c.jpg", 1)}
	res := s.UploadBatch(context.Background(), files, "u1", BatchOptions{Limit: 2})

	assert.False(t, res.TimedOut)
	assert.Len(t, res.Uploaded, 3)
	require.Len(t, res.Failed, 1)
	assert.Equal(t, "huge.mov", res.Failed[0].Name)
	assert.ErrorIs(t, res.Failed[0].Err, ErrFileTooLarge)
}

func TestUploadBatchSafetyTimeout(t *testing.T) {
	slow := &fakeBackend{tier: constants.TierPrimary, delay: 500 * time.Millisecond}
	s := newTestSelector(slow)

	start := time.Now()
	res := s.UploadBatch(context.Background(), []File{photo("a.jpg", 1), photo("b.jpg", 1)}, "u1", BatchOptions{Timeout: 50 * time.Millisecond})

	assert.True(t, res.TimedOut)
	assert.Empty(t, res.Uploaded)
	assert.Less(t, time.Since(start), 400*time.Millisecond)

	// The in-flight uploads are not cancelled.
	assert.Eventually(t, func() bool { return slow.count() == 2 }, 2*time.Second, 20*time.Millisecond)
}

func TestUsageFallsBackToLocalItems(t *testing.T) {
	s := newTestSelector(&fakeBackend{tier: constants.TierFallback})
	items := []models.MediaItem{
		{ID: "1", Size: 1024, StorageTier: constants.TierFallback},
		{ID: "2", Size: 4096, StorageTier: constants.TierPrimary},
		{ID: "3", Size: 1024, StorageTier: constants.TierFallback},
	}
	u := s.Usage(context.Background(), "u1", items)
	assert.False(t, u.Cloud)
	assert.Equal(t, int64(2048), u.Used)
	assert.Equal(t, int64(constants.MaxLocalFileSize), u.Limit)
	assert.Equal(t, 2, u.Items)
	assert.InDelta(t, 2048.0/float64(constants.MaxLocalFileSize)*100, u.Percent, 0.0001)
}
