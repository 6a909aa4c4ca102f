package system

import (
	"fmt"

	"github.com/iamhollywoodpro/strivetrack/internal/cli"
	"github.com/iamhollywoodpro/strivetrack/internal/models"
	"github.com/iamhollywoodpro/strivetrack/internal/storage"
	"github.com/iamhollywoodpro/strivetrack/internal/validation"
)

type ValidateCmd struct {
	Fix bool `help:"Remove completion history of deleted habits."`
}

func (cmd *ValidateCmd) Run(ctx *cli.Context) error {
	sess, err := ctx.Session()
	if err != nil {
		return err
	}
	repo := storage.NewRepository(ctx.Store, sess.UserID())

	fmt.Println("Validating habits, goals and food log...")
	records, err := loadRecords(repo)
	if err != nil {
		return err
	}
	result := validation.New().ValidateRecords(records)
	fmt.Println()
	fmt.Println(result.FormatReport())

	if !cmd.Fix {
		return nil
	}
	var removed int
	err = repo.Completions().Update(func(c models.Completions) (models.Completions, error) {
		c, removed = validation.PruneOrphanCompletions(c, records.Habits)
		return c, nil
	})
	if err != nil {
		return fmt.Errorf("failed to prune completions: %w", err)
	}
	fmt.Printf("✓ Removed completion history of %d deleted habit(s)\n", removed)
	return nil
}

func loadRecords(repo *storage.Repository) (validation.Records, error) {
	var (
		r   validation.Records
		err error
	)
	if r.Habits, err = repo.Habits().Load(); err != nil {
		return r, fmt.Errorf("failed to load habits: %w", err)
	}
	if r.Completions, err = repo.Completions().Load(); err != nil {
		return r, fmt.Errorf("failed to load completions: %w", err)
	}
	if r.Goals, err = repo.Goals().Load(); err != nil {
		return r, fmt.Errorf("failed to load goals: %w", err)
	}
	if r.Food, err = repo.FoodLog().Load(); err != nil {
		return r, fmt.Errorf("failed to load food log: %w", err)
	}
	return r, nil
}
