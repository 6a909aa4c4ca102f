// Package auth signs users in against the hosted backend, falling back to a
// local registry of bcrypt-hashed accounts when the backend is unreachable.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/iamhollywoodpro/strivetrack/internal/backend"
	"github.com/iamhollywoodpro/strivetrack/internal/constants"
	"github.com/iamhollywoodpro/strivetrack/internal/logger"
	"github.com/iamhollywoodpro/strivetrack/internal/models"
	"github.com/iamhollywoodpro/strivetrack/internal/storage"
	"github.com/iamhollywoodpro/strivetrack/internal/validation"
)

var (
	ErrLoginInProgress      = errors.New("login already in progress")
	ErrInvalidCredentials   = errors.New("invalid email or password")
	ErrUserExists           = errors.New("an account with this email already exists")
	ErrNotLoggedIn          = errors.New("not logged in")
	ErrSessionExpired       = fmt.Errorf("session expired: %w", ErrNotLoggedIn)
	ErrConfirmationRequired = errors.New("check your email to confirm your account")
	ErrOfflineReset         = errors.New("password reset is only available with a cloud connection")
)

// Backend is the slice of the hosted backend client used for auth.
type Backend interface {
	Configured() bool
	SignIn(ctx context.Context, email, password string) (*backend.AuthSession, error)
	SignUp(ctx context.Context, email, password, name string) (*backend.AuthUser, *backend.AuthSession, error)
	SignOut(ctx context.Context, accessToken string) error
	ResetPassword(ctx context.Context, email string) error
}

type Authenticator struct {
	kv         storage.KV
	backend    Backend
	signer     *Signer
	adminEmail string
	now        func() time.Time
	stateless  bool
	busy       atomic.Bool
}

type Option func(*Authenticator)

func WithAdminEmail(email string) Option {
	return func(a *Authenticator) { a.adminEmail = strings.ToLower(strings.TrimSpace(email)) }
}

func WithClock(now func() time.Time) Option {
	return func(a *Authenticator) { a.now = now }
}

// WithStateless skips persisting the session and the reentrancy guard, for
// servers that hand the token to the client. Logins are still counted.
func WithStateless() Option {
	return func(a *Authenticator) { a.stateless = true }
}

// New builds an authenticator. backend may be nil for offline use.
func New(kv storage.KV, b Backend, secret []byte, opts ...Option) *Authenticator {
	a := &Authenticator{kv: kv, backend: b, now: time.Now}
	for _, opt := range opts {
		opt(a)
	}
	a.signer = NewSigner(secret, func() time.Time { return a.now() })
	return a
}

func (a *Authenticator) Signer() *Signer { return a.signer }

func (a *Authenticator) online() bool {
	return a.backend != nil && a.backend.Configured()
}

func (a *Authenticator) roleFor(email string) constants.Role {
	if a.adminEmail != "" && strings.EqualFold(strings.TrimSpace(email), a.adminEmail) {
		return constants.RoleAdmin
	}
	return constants.RoleUser
}

func (a *Authenticator) guard() (func(), error) {
	if a.stateless {
		return func() {}, nil
	}
	if !a.busy.CompareAndSwap(false, true) {
		return nil, ErrLoginInProgress
	}
	return func() { a.busy.Store(false) }, nil
}

func displayName(name, email string) string {
	if strings.TrimSpace(name) != "" {
		return name
	}
	local, _, _ := strings.Cut(email, "@")
	return local
}

// Login signs in with the backend when configured and falls back to the
// local registry on any backend error.
func (a *Authenticator) Login(ctx context.Context, email, password string) (*Session, error) {
	release, err := a.guard()
	if err != nil {
		return nil, err
	}
	defer release()

	if err := validation.Login(email, password); err != nil {
		return nil, err
	}
	email = strings.TrimSpace(email)

	if a.online() {
		remote, err := a.backend.SignIn(ctx, email, password)
		if err == nil {
			user := models.User{
				ID:    remote.User.ID,
				Email: email,
				Name:  displayName(remote.User.Name(), email),
				Role:  a.roleFor(email),
			}
			if err := a.remember(user, password); err != nil {
				logger.Warn("Failed to cache account locally", "email", email, "error", err)
			}
			return a.start(user, remote.AccessToken)
		}
		logger.Warn("Backend login failed, using local accounts", "email", email, "error", err)
	}

	user, err := a.localLogin(email, password)
	if err != nil {
		return nil, err
	}
	return a.start(user, "")
}

func (a *Authenticator) localLogin(email, password string) (models.User, error) {
	var user models.User
	err := a.users().Update(func(users map[string]models.User) (map[string]models.User, error) {
		id, found := findByEmail(users, email)
		if found == nil || found.PasswordHash == "" {
			return nil, ErrInvalidCredentials
		}
		if bcrypt.CompareHashAndPassword([]byte(found.PasswordHash), []byte(password)) != nil {
			return nil, ErrInvalidCredentials
		}
		now := a.now()
		found.LastLogin = &now
		found.Role = a.roleFor(email)
		users[id] = *found
		user = *found
		return users, nil
	})
	return user, err
}

// RegisterInput is the sign-up form.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Confirm  string
}

// Register creates an account with the backend when configured. Duplicate
// accounts are reported; other backend errors fall back to a local account.
// A backend sign-up that needs email confirmation returns
// ErrConfirmationRequired without signing in.
func (a *Authenticator) Register(ctx context.Context, in RegisterInput) (*Session, error) {
	release, err := a.guard()
	if err != nil {
		return nil, err
	}
	defer release()

	if err := validation.Registration(in.Email, in.Password, in.Confirm); err != nil {
		return nil, err
	}
	email := strings.TrimSpace(in.Email)
	name := displayName(in.Name, email)

	if a.online() {
		remoteUser, remote, err := a.backend.SignUp(ctx, email, in.Password, name)
		switch {
		case err == nil && remote == nil:
			return nil, ErrConfirmationRequired
		case err == nil:
			user := models.User{ID: remoteUser.ID, Email: email, Name: name, Role: a.roleFor(email), RegisteredAt: a.now()}
			if err := a.remember(user, in.Password); err != nil {
				logger.Warn("Failed to cache account locally", "email", email, "error", err)
			}
			return a.start(user, remote.AccessToken)
		case backend.IsAlreadyRegistered(err):
			return nil, ErrUserExists
		default:
			logger.Warn("Backend registration failed, creating local account", "email", email, "error", err)
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	now := a.now()
	user := models.User{
		ID:           fmt.Sprintf("%s%d", constants.LocalUserIDStamp, now.UnixMilli()),
		Email:        email,
		Name:         name,
		Role:         a.roleFor(email),
		PasswordHash: string(hash),
		RegisteredAt: now,
		LastLogin:    &now,
	}
	err = a.users().Update(func(users map[string]models.User) (map[string]models.User, error) {
		if _, found := findByEmail(users, email); found != nil {
			return nil, ErrUserExists
		}
		for stamp := now.UnixMilli(); ; stamp++ {
			if _, taken := users[user.ID]; !taken {
				break
			}
			user.ID = fmt.Sprintf("%s%d", constants.LocalUserIDStamp, stamp+1)
		}
		users[user.ID] = user
		return users, nil
	})
	if err != nil {
		return nil, err
	}
	return a.start(user, "")
}

// remember upserts a backend account into the local registry so the same
// credentials work offline.
func (a *Authenticator) remember(user models.User, password string) error {
	if a.stateless {
		return nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	now := a.now()
	return a.users().Update(func(users map[string]models.User) (map[string]models.User, error) {
		if id, found := findByEmail(users, user.Email); found != nil && id != user.ID {
			delete(users, id)
		}
		existing, ok := users[user.ID]
		if ok && !existing.RegisteredAt.IsZero() {
			user.RegisteredAt = existing.RegisteredAt
		}
		if user.RegisteredAt.IsZero() {
			user.RegisteredAt = now
		}
		user.PasswordHash = string(hash)
		user.LastLogin = &now
		users[user.ID] = user
		return users, nil
	})
}

// start issues the session token, persists the session and counts the login.
func (a *Authenticator) start(user models.User, backendToken string) (*Session, error) {
	user.PasswordHash = ""
	online := backendToken != ""
	token, exp, err := a.signer.Issue(Claims{UserID: user.ID, Email: user.Email, Role: user.Role, Online: online})
	if err != nil {
		return nil, err
	}
	sess := &Session{User: user, Token: token, BackendToken: backendToken, Online: online, ExpiresAt: exp}

	if !a.stateless {
		if err := a.sessions().Save(sess); err != nil {
			return nil, fmt.Errorf("failed to save session: %w", err)
		}
	}
	repo := storage.NewRepository(a.kv, user.ID)
	if err := repo.LoginCount().Update(func(n int) (int, error) { return n + 1, nil }); err != nil {
		logger.Warn("Failed to count login", "user", user.ID, "error", err)
	}
	logger.Info("Signed in", "user", user.ID, "online", online, "role", user.Role)
	return sess, nil
}

// Current returns the persisted session and extends its expiry.
func (a *Authenticator) Current() (*Session, error) {
	sess, err := a.sessions().Load()
	if err != nil {
		return nil, err
	}
	if sess == nil || sess.Token == "" {
		return nil, ErrNotLoggedIn
	}
	if sess.Expired(a.now()) {
		if err := a.sessions().Delete(); err != nil {
			logger.Warn("Failed to remove expired session", "error", err)
		}
		return nil, ErrSessionExpired
	}
	if _, err := a.signer.Verify(sess.Token); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotLoggedIn, err)
	}
	return a.touch(sess)
}

// touch re-issues the token so activity pushes the expiry out.
func (a *Authenticator) touch(sess *Session) (*Session, error) {
	token, exp, err := a.signer.Issue(Claims{UserID: sess.User.ID, Email: sess.User.Email, Role: sess.User.Role, Online: sess.Online})
	if err != nil {
		return nil, err
	}
	sess.Token = token
	sess.ExpiresAt = exp
	if err := a.sessions().Save(sess); err != nil {
		logger.Warn("Failed to extend session", "error", err)
	}
	return sess, nil
}

// Logout signs out of the backend as a best effort and removes the session.
func (a *Authenticator) Logout(ctx context.Context) (*Session, error) {
	sess, err := a.sessions().Load()
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, ErrNotLoggedIn
	}
	if sess.BackendToken != "" && a.online() {
		if err := a.backend.SignOut(ctx, sess.BackendToken); err != nil {
			logger.Warn("Backend sign-out failed", "error", err)
		}
	}
	if err := a.sessions().Delete(); err != nil {
		return nil, fmt.Errorf("failed to remove session: %w", err)
	}
	return sess, nil
}

// ResetPassword asks the backend to send a recovery email.
func (a *Authenticator) ResetPassword(ctx context.Context, email string) error {
	if err := validation.Email(email); err != nil {
		return err
	}
	if !a.online() {
		return ErrOfflineReset
	}
	if err := a.backend.ResetPassword(ctx, strings.TrimSpace(email)); err != nil {
		return fmt.Errorf("failed to send password reset email: %w", err)
	}
	return nil
}

// Users lists the local registry without password hashes.
func (a *Authenticator) Users() ([]models.User, error) {
	users, err := a.users().Load()
	if err != nil {
		return nil, err
	}
	out := make([]models.User, 0, len(users))
	for _, u := range users {
		u.PasswordHash = ""
		out = append(out, u)
	}
	return out, nil
}

func (a *Authenticator) users() storage.Collection[map[string]models.User] {
	return storage.NewCollection(a.kv, storage.KeyUsers, func() map[string]models.User { return map[string]models.User{} })
}

func (a *Authenticator) sessions() storage.Collection[*Session] {
	return storage.NewCollection[*Session](a.kv, storage.KeySession, nil)
}

func findByEmail(users map[string]models.User, email string) (string, *models.User) {
	for id, u := range users {
		if strings.EqualFold(u.Email, email) {
			return id, &u
		}
	}
	return "", nil
}
