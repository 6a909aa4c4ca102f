package storage

import (
	"fmt"

	"github.com/iamhollywoodpro/strivetrack/internal/models"
)

// Global record keys.
const (
	KeyUsers   = "strivetrack_users"
	KeySession = "strivetrack_session"
)

// Per-user collection names.
const (
	CollectionHabits       = "habits"
	CollectionCompletions  = "completions"
	CollectionGoals        = "goals"
	CollectionFoodLog      = "food_log"
	CollectionMedia        = "media"
	CollectionAchievements = "achievements"
	CollectionPoints       = "points"
	CollectionLoginCount   = "login_count"
	blobPrefix             = "blob_"
)

// Repository scopes every record to one user. Callers never build keys.
type Repository struct {
	kv     KV
	userID string
}

func NewRepository(kv KV, userID string) *Repository {
	return &Repository{kv: kv, userID: userID}
}

func (r *Repository) UserID() string { return r.userID }

func (r *Repository) prefix() string {
	return fmt.Sprintf("user_%s_", r.userID)
}

func (r *Repository) key(collection string) string {
	return r.prefix() + collection
}

func (r *Repository) Habits() Collection[[]models.Habit] {
	return NewCollection(r.kv, r.key(CollectionHabits), func() []models.Habit { return []models.Habit{} })
}

func (r *Repository) Completions() Collection[models.Completions] {
	return NewCollection(r.kv, r.key(CollectionCompletions), func() models.Completions { return models.Completions{} })
}

func (r *Repository) Goals() Collection[[]models.Goal] {
	return NewCollection(r.kv, r.key(CollectionGoals), func() []models.Goal { return []models.Goal{} })
}

func (r *Repository) FoodLog() Collection[[]models.FoodEntry] {
	return NewCollection(r.kv, r.key(CollectionFoodLog), func() []models.FoodEntry { return []models.FoodEntry{} })
}

func (r *Repository) Media() Collection[[]models.MediaItem] {
	return NewCollection(r.kv, r.key(CollectionMedia), func() []models.MediaItem { return []models.MediaItem{} })
}

func (r *Repository) Achievements() Collection[models.Unlocks] {
	return NewCollection(r.kv, r.key(CollectionAchievements), func() models.Unlocks { return models.Unlocks{} })
}

// Points is the cached total. It is never read back as a source of truth.
func (r *Repository) Points() Collection[int] {
	return NewCollection[int](r.kv, r.key(CollectionPoints), nil)
}

func (r *Repository) LoginCount() Collection[int] {
	return NewCollection[int](r.kv, r.key(CollectionLoginCount), nil)
}

// PutBlob stores locally held media content under path.
func (r *Repository) PutBlob(path, data string) error {
	return r.kv.Set(r.key(blobPrefix+path), data)
}

func (r *Repository) GetBlob(path string) (string, bool, error) {
	return r.kv.Get(r.key(blobPrefix + path))
}

func (r *Repository) DeleteBlob(path string) error {
	return r.kv.Delete(r.key(blobPrefix + path))
}

// Clear removes every record owned by the user.
func (r *Repository) Clear() error {
	keys, err := r.kv.Keys(r.prefix())
	if err != nil {
		return err
	}
	for _, k := range keys {
		if err := r.kv.Delete(k); err != nil {
			return err
		}
	}
	return nil
}
