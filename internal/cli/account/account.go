package account

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/huh"

	"github.com/iamhollywoodpro/strivetrack/internal/auth"
	"github.com/iamhollywoodpro/strivetrack/internal/cli"
	"github.com/iamhollywoodpro/strivetrack/internal/storage"
)

type LoginCmd struct {
	Email    string `arg:"" help:"Account email."`
	Password string `help:"Password. Prompted for when omitted." env:"STRIVETRACK_PASSWORD"`
}

func (c *LoginCmd) Run(ctx *cli.Context) error {
	if c.Password == "" {
		if err := promptPassword(&c.Password, nil); err != nil {
			return err
		}
	}

	a, err := ctx.Authenticator()
	if err != nil {
		return err
	}
	bg := context.Background()
	sess, err := a.Login(bg, c.Email, c.Password)
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	fmt.Printf("✓ Signed in as %s (%s)\n", sess.User.Name, modeOf(sess))
	return welcome(bg, ctx, sess)
}

type RegisterCmd struct {
	Email    string `arg:"" help:"Account email."`
	Name     string `help:"Display name. Defaults to the part of the email before @."`
	Password string `help:"Password. Prompted for when omitted." env:"STRIVETRACK_PASSWORD"`
	Confirm  string `help:"Password confirmation. Prompted for when omitted."`
}

func (c *RegisterCmd) Run(ctx *cli.Context) error {
	if c.Password == "" {
		if err := promptPassword(&c.Password, &c.Confirm); err != nil {
			return err
		}
	} else if c.Confirm == "" {
		c.Confirm = c.Password
	}

	a, err := ctx.Authenticator()
	if err != nil {
		return err
	}
	bg := context.Background()
	sess, err := a.Register(bg, auth.RegisterInput{
		Name:     c.Name,
		Email:    c.Email,
		Password: c.Password,
		Confirm:  c.Confirm,
	})
	if errors.Is(err, auth.ErrConfirmationRequired) {
		fmt.Println("ℹ Account created. Check your email to confirm it, then run 'strivetrack login'.")
		return nil
	}
	if err != nil {
		return fmt.Errorf("registration failed: %w", err)
	}

	fmt.Printf("✓ Account created for %s (%s)\n", sess.User.Email, modeOf(sess))
	return welcome(bg, ctx, sess)
}

type LogoutCmd struct {
	Purge bool `help:"Back up the database, then delete all of this account's data."`
}

func (c *LogoutCmd) Run(ctx *cli.Context) error {
	a, err := ctx.Authenticator()
	if err != nil {
		return err
	}
	sess, err := a.Logout(context.Background())
	if err != nil {
		return err
	}

	if c.Purge {
		ctx.PerformAutomaticBackup()
		if err := storage.NewRepository(ctx.Store, sess.UserID()).Clear(); err != nil {
			return fmt.Errorf("failed to delete account data: %w", err)
		}
		fmt.Println("✓ Account data deleted (a backup was taken first)")
	}
	fmt.Printf("✓ Signed out %s\n", sess.User.Email)
	return nil
}

type ResetPasswordCmd struct {
	Email string `arg:"" help:"Account email."`
}

func (c *ResetPasswordCmd) Run(ctx *cli.Context) error {
	a, err := ctx.Authenticator()
	if err != nil {
		return err
	}
	if err := a.ResetPassword(context.Background(), c.Email); err != nil {
		return err
	}
	fmt.Printf("✓ Password reset email sent to %s\n", c.Email)
	return nil
}

type WhoamiCmd struct{}

func (c *WhoamiCmd) Run(ctx *cli.Context) error {
	sess, err := ctx.Session()
	if err != nil {
		return err
	}
	fmt.Printf("%s <%s>\n", sess.User.Name, sess.User.Email)
	fmt.Printf("  id:      %s\n", sess.User.ID)
	fmt.Printf("  role:    %s\n", sess.User.Role)
	fmt.Printf("  mode:    %s\n", modeOf(sess))
	fmt.Printf("  expires: %s\n", sess.ExpiresAt.Format("2006-01-02 15:04"))
	return nil
}

func modeOf(sess *auth.Session) string {
	if sess.Online {
		return "cloud"
	}
	return "offline"
}

// welcome evaluates achievements for the fresh session so the login itself
// can unlock them.
func welcome(bg context.Context, ctx *cli.Context, sess *auth.Session) error {
	out, err := ctx.Service(bg, sess.UserID(), sess.BackendToken).Refresh(bg)
	if err != nil {
		return err
	}
	ctx.Deliver(bg, out)
	return nil
}

// promptPassword asks for the password, and for its confirmation when
// confirmation is non-nil.
func promptPassword(password, confirmation *string) error {
	fields := []huh.Field{
		huh.NewInput().
			Title("Password").
			EchoMode(huh.EchoModePassword).
			Value(password),
	}
	if confirmation != nil {
		fields = append(fields, huh.NewInput().
			Title("Confirm password").
			EchoMode(huh.EchoModePassword).
			Value(confirmation))
	}
	if err := huh.NewForm(huh.NewGroup(fields...)).Run(); err != nil {
		return fmt.Errorf("password prompt: %w", err)
	}
	return nil
}
