package auth

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/iamhollywoodpro/strivetrack/internal/constants"
	"github.com/iamhollywoodpro/strivetrack/internal/models"
	"github.com/iamhollywoodpro/strivetrack/internal/storage"
)

// UserSummary is one registry entry with the activity an admin sees.
type UserSummary struct {
	models.User
	Online      bool `json:"online"`
	HabitsCount int  `json:"habits_count"`
	MediaCount  int  `json:"media_count"`
	// Points is the cached total from the user's last recompute.
	Points int `json:"points"`
}

// Directory lists the local registry with each user's record counts, oldest
// registration first.
func (a *Authenticator) Directory() ([]UserSummary, error) {
	users, err := a.Users()
	if err != nil {
		return nil, err
	}
	slices.SortFunc(users, func(x, y models.User) int {
		if c := x.RegisteredAt.Compare(y.RegisteredAt); c != 0 {
			return c
		}
		return cmp.Compare(x.Email, y.Email)
	})

	now := a.now()
	out := make([]UserSummary, 0, len(users))
	for _, u := range users {
		repo := storage.NewRepository(a.kv, u.ID)
		habits, err := repo.Habits().Load()
		if err != nil {
			return nil, fmt.Errorf("failed to load habits of %s: %w", u.ID, err)
		}
		media, err := repo.Media().Load()
		if err != nil {
			return nil, fmt.Errorf("failed to load media of %s: %w", u.ID, err)
		}
		pts, err := repo.Points().Load()
		if err != nil {
			return nil, fmt.Errorf("failed to load points of %s: %w", u.ID, err)
		}
		out = append(out, UserSummary{
			User:        u,
			Online:      u.LastLogin != nil && now.Sub(*u.LastLogin) < constants.OnlineWindow,
			HabitsCount: len(habits),
			MediaCount:  len(media),
			Points:      pts,
		})
	}
	return out, nil
}
