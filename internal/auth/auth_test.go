package auth

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iamhollywoodpro/strivetrack/internal/backend"
	"github.com/iamhollywoodpro/strivetrack/internal/constants"
	"github.com/iamhollywoodpro/strivetrack/internal/models"
	"github.com/iamhollywoodpro/strivetrack/internal/storage"
	"github.com/iamhollywoodpro/strivetrack/internal/validation"
)

var (
	testSecret = []byte("test-secret")
	testNow    = time.Date(2024, 3, 13, 15, 0, 0, 0, time.UTC)
)

type fakeBackend struct {
	configured bool
	signInErr  error
	signUpErr  error
	noSession  bool
	block      chan struct{}

	mu         sync.Mutex
	signedOut  []string
	resetEmail string
}

func (f *fakeBackend) Configured() bool { return f.configured }

func (f *fakeBackend) SignIn(_ context.Context, email, _ string) (*backend.AuthSession, error) {
	if f.block != nil {
		<-f.block
	}
	if f.signInErr != nil {
		return nil, f.signInErr
	}
	return &backend.AuthSession{
		AccessToken: "remote-token",
		User:        backend.AuthUser{ID: "remote-1", Email: email, UserMetadata: map[string]any{"name": "Remote"}},
	}, nil
}

func (f *fakeBackend) SignUp(_ context.Context, email, _, _ string) (*backend.AuthUser, *backend.AuthSession, error) {
	if f.signUpErr != nil {
		return nil, nil, f.signUpErr
	}
	user := &backend.AuthUser{ID: "remote-2", Email: email}
	if f.noSession {
		return user, nil, nil
	}
	return user, &backend.AuthSession{AccessToken: "remote-token", User: *user}, nil
}

func (f *fakeBackend) SignOut(_ context.Context, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.signedOut = append(f.signedOut, token)
	return nil
}

func (f *fakeBackend) ResetPassword(_ context.Context, email string) error {
	f.resetEmail = email
	return nil
}

func newAuth(kv storage.KV, b Backend, opts ...Option) *Authenticator {
	opts = append([]Option{WithClock(func() time.Time { return testNow })}, opts...)
	return New(kv, b, testSecret, opts...)
}

func register(t *testing.T, a *Authenticator, email, password string) *Session {
	t.Helper()
	sess, err := a.Register(context.Background(), RegisterInput{Email: email, Password: password, Confirm: password})
	require.NoError(t, err)
	return sess
}

func TestRegisterAndLoginOffline(t *testing.T) {
	kv := storage.NewMemoryStore()
	a := newAuth(kv, nil)

	sess := register(t, a, "ann@example.com", "secret1")
	assert.False(t, sess.Online)
	assert.Equal(t, "ann", sess.User.Name)
	assert.Equal(t, constants.RoleUser, sess.User.Role)
	assert.Empty(t, sess.User.PasswordHash)
	assert.Equal(t, testNow.Add(constants.SessionTTL), sess.ExpiresAt)

	_, err := a.Logout(context.Background())
	require.NoError(t, err)

	sess2, err := a.Login(context.Background(), "ANN@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, sess.User.ID, sess2.User.ID)

	n, err := storage.NewRepository(kv, sess.User.ID).LoginCount().Load()
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	a := newAuth(storage.NewMemoryStore(), nil)
	register(t, a, "ann@example.com", "secret1")

	_, err := a.Login(context.Background(), "ann@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = a.Login(context.Background(), "bob@example.com", "secret1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginValidatesInput(t *testing.T) {
	a := newAuth(storage.NewMemoryStore(), nil)
	_, err := a.Login(context.Background(), "not-an-email", "x")
	assert.True(t, validation.IsValidationError(err))
}

func TestRegisterDuplicateOffline(t *testing.T) {
	a := newAuth(storage.NewMemoryStore(), nil)
	register(t, a, "ann@example.com", "secret1")

	_, err := a.Register(context.Background(), RegisterInput{Email: "ann@example.com", Password: "secret2", Confirm: "secret2"})
	assert.ErrorIs(t, err, ErrUserExists)
}

func TestAdminRole(t *testing.T) {
	a := newAuth(storage.NewMemoryStore(), nil, WithAdminEmail("Boss@Example.com"))
	sess := register(t, a, "boss@example.com", "secret1")
	assert.True(t, sess.User.IsAdmin())

	claims, err := a.Signer().Verify(sess.Token)
	require.NoError(t, err)
	assert.Equal(t, constants.RoleAdmin, claims.Role)
	assert.Contains(t, claims.ID, constants.AdminIDStamp)
}

func TestLoginOnline(t *testing.T) {
	kv := storage.NewMemoryStore()
	b := &fakeBackend{configured: true}
	a := newAuth(kv, b)

	sess, err := a.Login(context.Background(), "ann@example.com", "secret1")
	require.NoError(t, err)
	assert.True(t, sess.Online)
	assert.Equal(t, "remote-1", sess.User.ID)
	assert.Equal(t, "Remote", sess.User.Name)
	assert.Equal(t, "remote-token", sess.BackendToken)

	// The backend account is cached so the same credentials work offline.
	b.signInErr = errors.New("network down")
	sess, err = a.Login(context.Background(), "ann@example.com", "secret1")
	require.NoError(t, err)
	assert.False(t, sess.Online)
	assert.Equal(t, "remote-1", sess.User.ID)

	users, err := a.Users()
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Empty(t, users[0].PasswordHash)
}

func TestRegisterOnline(t *testing.T) {
	t.Run("session", func(t *testing.T) {
		a := newAuth(storage.NewMemoryStore(), &fakeBackend{configured: true})
		sess := register(t, a, "ann@example.com", "secret1")
		assert.True(t, sess.Online)
		assert.Equal(t, "remote-2", sess.User.ID)
	})

	t.Run("confirmation required", func(t *testing.T) {
		kv := storage.NewMemoryStore()
		a := newAuth(kv, &fakeBackend{configured: true, noSession: true})
		_, err := a.Register(context.Background(), RegisterInput{Email: "ann@example.com", Password: "secret1", Confirm: "secret1"})
		assert.ErrorIs(t, err, ErrConfirmationRequired)
		_, err = a.Current()
		assert.ErrorIs(t, err, ErrNotLoggedIn)
	})

	t.Run("already registered", func(t *testing.T) {
		a := newAuth(storage.NewMemoryStore(), &fakeBackend{configured: true, signUpErr: &backend.APIError{Status: 422, Message: "User already registered"}})
		_, err := a.Register(context.Background(), RegisterInput{Email: "ann@example.com", Password: "secret1", Confirm: "secret1"})
		assert.ErrorIs(t, err, ErrUserExists)
	})

	t.Run("other error falls back to local", func(t *testing.T) {
		a := newAuth(storage.NewMemoryStore(), &fakeBackend{configured: true, signUpErr: errors.New("timeout")})
		sess := register(t, a, "ann@example.com", "secret1")
		assert.False(t, sess.Online)
		assert.Contains(t, sess.User.ID, constants.LocalUserIDStamp)
	})
}

func TestLoginInProgress(t *testing.T) {
	b := &fakeBackend{configured: true, block: make(chan struct{})}
	a := newAuth(storage.NewMemoryStore(), b)

	done := make(chan error, 1)
	go func() {
		_, err := a.Login(context.Background(), "ann@example.com", "secret1")
		done <- err
	}()

	require.Eventually(t, func() bool { return a.busy.Load() }, time.Second, 5*time.Millisecond)
	_, err := a.Login(context.Background(), "ann@example.com", "secret1")
	assert.ErrorIs(t, err, ErrLoginInProgress)

	close(b.block)
	require.NoError(t, <-done)
}

func TestCurrentExtendsAndExpires(t *testing.T) {
	kv := storage.NewMemoryStore()
	now := testNow
	a := New(kv, nil, testSecret, WithClock(func() time.Time { return now }))
	register(t, a, "ann@example.com", "secret1")

	now = now.Add(24 * time.Hour)
	sess, err := a.Current()
	require.NoError(t, err)
	assert.Equal(t, now.Add(constants.SessionTTL), sess.ExpiresAt)

	now = now.Add(constants.SessionTTL + time.Minute)
	_, err = a.Current()
	assert.ErrorIs(t, err, ErrSessionExpired)
	assert.ErrorIs(t, err, ErrNotLoggedIn)

	_, err = a.Current()
	assert.ErrorIs(t, err, ErrNotLoggedIn)
}

func TestLogout(t *testing.T) {
	kv := storage.NewMemoryStore()
	b := &fakeBackend{configured: true}
	a := newAuth(kv, b)

	_, err := a.Logout(context.Background())
	assert.ErrorIs(t, err, ErrNotLoggedIn)

	_, err = a.Login(context.Background(), "ann@example.com", "secret1")
	require.NoError(t, err)

	sess, err := a.Logout(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "remote-1", sess.User.ID)
	assert.Equal(t, []string{"remote-token"}, b.signedOut)

	_, ok, err := kv.Get(storage.KeySession)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStatelessDoesNotPersist(t *testing.T) {
	kv := storage.NewMemoryStore()
	a := newAuth(kv, nil, WithStateless())
	sess := register(t, a, "ann@example.com", "secret1")
	assert.NotEmpty(t, sess.Token)

	_, ok, err := kv.Get(storage.KeySession)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestResetPassword(t *testing.T) {
	a := newAuth(storage.NewMemoryStore(), nil)
	assert.ErrorIs(t, a.ResetPassword(context.Background(), "ann@example.com"), ErrOfflineReset)

	b := &fakeBackend{configured: true}
	a = newAuth(storage.NewMemoryStore(), b)
	require.NoError(t, a.ResetPassword(context.Background(), " ann@example.com "))
	assert.Equal(t, "ann@example.com", b.resetEmail)
}

func TestSignerRejectsForeignTokens(t *testing.T) {
	s := NewSigner(testSecret, func() time.Time { return testNow })
	token, _, err := s.Issue(Claims{UserID: "u1", Role: constants.RoleUser})
	require.NoError(t, err)

	_, err = NewSigner([]byte("other"), func() time.Time { return testNow }).Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	late := NewSigner(testSecret, func() time.Time { return testNow.Add(constants.SessionTTL + time.Second) })
	_, err = late.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	claims, err := s.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.Subject)
}

func TestRegisterSameMillisecondGetsDistinctIDs(t *testing.T) {
	kv := storage.NewMemoryStore()
	a := newAuth(kv, nil, WithStateless())
	first := register(t, a, "ann@example.com", "secret1")
	second := register(t, a, "bob@example.com", "secret2")
	assert.NotEqual(t, first.UserID(), second.UserID())

	users, err := a.Users()
	require.NoError(t, err)
	assert.Len(t, users, 2)
}

func TestDirectory(t *testing.T) {
	kv := storage.NewMemoryStore()
	now := testNow
	a := newAuth(kv, nil, WithStateless(), WithClock(func() time.Time { return now }))
	ann := register(t, a, "ann@example.com", "secret1")
	now = now.Add(10 * time.Minute)
	bob := register(t, a, "bob@example.com", "secret2")

	repo := storage.NewRepository(kv, ann.UserID())
	require.NoError(t, repo.Habits().Save([]models.Habit{{ID: "h1", Name: "Read"}, {ID: "h2", Name: "Run"}}))
	require.NoError(t, repo.Media().Save([]models.MediaItem{{ID: "m1"}}))
	require.NoError(t, repo.Points().Save(160))

	users, err := a.Directory()
	require.NoError(t, err)
	require.Len(t, users, 2)

	assert.Equal(t, ann.UserID(), users[0].ID)
	assert.False(t, users[0].Online, "last login is older than the online window")
	assert.Equal(t, 2, users[0].HabitsCount)
	assert.Equal(t, 1, users[0].MediaCount)
	assert.Equal(t, 160, users[0].Points)
	assert.Empty(t, users[0].PasswordHash)

	assert.Equal(t, bob.UserID(), users[1].ID)
	assert.True(t, users[1].Online)
	assert.Zero(t, users[1].HabitsCount)
	assert.Zero(t, users[1].Points)
}
