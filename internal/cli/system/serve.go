package system

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/iamhollywoodpro/strivetrack/internal/api"
	"github.com/iamhollywoodpro/strivetrack/internal/auth"
	"github.com/iamhollywoodpro/strivetrack/internal/cli"
	"github.com/iamhollywoodpro/strivetrack/internal/logger"
	"github.com/iamhollywoodpro/strivetrack/internal/tracker"
)

type ServeCmd struct {
	Listen string `help:"Address to listen on (default from config api.listen)." default:""`
}

func (cmd *ServeCmd) Run(ctx *cli.Context) error {
	a, err := ctx.Authenticator(auth.WithStateless())
	if err != nil {
		return err
	}
	// API tokens carry no backend session, so requests use the primary and
	// local tiers only.
	services := func(rc context.Context, claims *auth.Claims) (*tracker.Service, error) {
		return ctx.Service(rc, claims.UserID, ""), nil
	}
	srv := api.New(a, services)

	addr := cmd.Listen
	if addr == "" && ctx.Config != nil {
		addr = ctx.Config.API.Listen
	}
	if addr == "" {
		return errors.New("no listen address configured")
	}

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Listen(addr) }()
	fmt.Printf("✓ API listening on http://%s/api\n", addr)

	select {
	case err := <-errCh:
		return fmt.Errorf("api server stopped: %w", err)
	case <-sigCtx.Done():
	}

	fmt.Println("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("API shutdown failed", "error", err)
		return err
	}
	return nil
}
