package cli

import (
	"context"
	"errors"
	"net/http"

	"github.com/iamhollywoodpro/strivetrack/internal/auth"
	"github.com/iamhollywoodpro/strivetrack/internal/backend"
	"github.com/iamhollywoodpro/strivetrack/internal/backup"
	"github.com/iamhollywoodpro/strivetrack/internal/config"
	apperrors "github.com/iamhollywoodpro/strivetrack/internal/errors"
	"github.com/iamhollywoodpro/strivetrack/internal/keyring"
	"github.com/iamhollywoodpro/strivetrack/internal/logger"
	"github.com/iamhollywoodpro/strivetrack/internal/media"
	"github.com/iamhollywoodpro/strivetrack/internal/notifier"
	"github.com/iamhollywoodpro/strivetrack/internal/progress"
	"github.com/iamhollywoodpro/strivetrack/internal/storage"
	"github.com/iamhollywoodpro/strivetrack/internal/tracker"
)

type Context struct {
	Store    storage.Provider
	Config   *config.Config
	Notifier *notifier.Notifier
	// Secret signs session tokens. When nil it is read from the OS keyring.
	Secret []byte
	// HTTPClient is used by the media worker tier.
	HTTPClient *http.Client
}

// PerformAutomaticBackup creates an automatic backup and silently handles errors
func (c *Context) PerformAutomaticBackup() {
	mgr := backup.NewManager(c.Store.GetConfigPath())
	if _, err := mgr.Create(); err != nil {
		logger.Warn("Automatic backup failed", "error", err)
	}
}

func (c *Context) config() *config.Config {
	if c.Config == nil {
		return &config.Config{}
	}
	return c.Config
}

// Backend returns the hosted backend client, or nil when it is not configured.
func (c *Context) Backend() *backend.Client {
	cfg := c.config()
	if !cfg.BackendConfigured() {
		return nil
	}
	return backend.New(backend.Config{URL: cfg.Backend.URL, AnonKey: cfg.Backend.AnonKey})
}

func (c *Context) signingSecret() ([]byte, error) {
	if c.Secret != nil {
		return c.Secret, nil
	}
	secret, err := keyring.SigningSecret()
	if err != nil {
		return nil, apperrors.WithHint(err, "store one with 'strivetrack keyring set session-signing-secret <value>'")
	}
	c.Secret = secret
	return secret, nil
}

// Authenticator builds the session manager over the record store.
func (c *Context) Authenticator(opts ...auth.Option) (*auth.Authenticator, error) {
	secret, err := c.signingSecret()
	if err != nil {
		return nil, err
	}
	opts = append([]auth.Option{auth.WithAdminEmail(c.config().AdminEmail)}, opts...)

	// A nil *backend.Client must not become a non-nil auth.Backend.
	var b auth.Backend
	if client := c.Backend(); client != nil {
		b = client
	}
	return auth.New(c.Store, b, secret, opts...), nil
}

// Session returns the signed-in user's session.
func (c *Context) Session() (*auth.Session, error) {
	a, err := c.Authenticator()
	if err != nil {
		return nil, err
	}
	sess, err := a.Current()
	if errors.Is(err, auth.ErrNotLoggedIn) {
		return nil, apperrors.WithHint(err, "run 'strivetrack login' first")
	}
	return sess, err
}

// Selector builds the upload tier chain for userID and probes it. The
// hosted tier is only reachable with a backend token.
func (c *Context) Selector(ctx context.Context, userID, backendToken string, blobs media.BlobStore) *media.Selector {
	cfg := c.config()
	var backends []media.Backend

	switch cfg.Media.Primary {
	case config.PrimaryCloudinary:
		cld, err := media.NewCloudinaryBackend(cfg.Cloudinary.URL, cfg.Cloudinary.Folder)
		if err != nil {
			logger.Warn("Cloudinary tier disabled", "error", err)
		} else {
			backends = append(backends, cld)
		}
	case config.PrimaryWorker:
		if cfg.Worker.URL != "" {
			backends = append(backends, media.NewWorkerBackend(cfg.Worker.URL, userID, c.HTTPClient))
		}
	}
	if client := c.Backend(); client != nil && backendToken != "" {
		backends = append(backends, media.NewHostedBackend(client, backendToken))
	}
	backends = append(backends, media.NewLocalBackend(blobs))

	sel := media.NewSelector(backends)
	for _, st := range sel.Probe(ctx) {
		logger.Debug("Storage tier probed", "tier", st.Tier, "ready", st.Ready)
	}
	return sel
}

// Service builds the tracker for userID.
func (c *Context) Service(ctx context.Context, userID, backendToken string) *tracker.Service {
	cfg := c.config()
	repo := storage.NewRepository(c.Store, userID)
	calc := progress.New(
		progress.WithLocation(cfg.Location()),
		progress.WithWeekStart(cfg.WeekStartDay()),
	)
	return tracker.New(repo,
		tracker.WithCalculator(calc),
		tracker.WithSelector(c.Selector(ctx, userID, backendToken, repo)),
		tracker.WithUploadOptions(media.BatchOptions{Limit: cfg.Media.UploadConcurrency}),
	)
}

// Tracker builds the tracker for the signed-in user.
func (c *Context) Tracker(ctx context.Context) (*tracker.Service, *auth.Session, error) {
	sess, err := c.Session()
	if err != nil {
		return nil, nil, err
	}
	return c.Service(ctx, sess.UserID(), sess.BackendToken), sess, nil
}

// Deliver hands the outcome's events to the notifier. Delivery failures are
// logged and never fail the command.
func (c *Context) Deliver(ctx context.Context, out tracker.Outcome) {
	if c.Notifier == nil || len(out.Events) == 0 {
		return
	}
	if err := c.Notifier.Deliver(ctx, out.Events); err != nil {
		logger.Warn("Notification delivery failed", "error", err)
	}
}
