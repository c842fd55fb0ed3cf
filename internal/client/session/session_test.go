package session

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/diet-tracker/internal/domain"
)

func exerciseStore(t *testing.T, store TokenStore) {
	t.Helper()
	ctx := context.Background()

	tok, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, tok)

	require.NoError(t, store.Save(ctx, "first"))
	require.NoError(t, store.Save(ctx, "second"))
	tok, err = store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "second", tok)

	require.NoError(t, store.Clear(ctx))
	require.NoError(t, store.Clear(ctx))
	tok, err = store.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, tok)
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemoryStore())
}

func TestFileStore(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")
	store := NewFileStore(dir, "")
	assert.Equal(t, filepath.Join(dir, DefaultTokenKey), store.Path())
	exerciseStore(t, store)

	require.NoError(t, store.Save(context.Background(), "persisted"))
	info, err := os.Stat(store.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	reopened := NewFileStore(dir, DefaultTokenKey)
	tok, err := reopened.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "persisted", tok)
}

func TestRedisStore(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	store := NewRedisStore(client, "")
	exerciseStore(t, store)

	require.NoError(t, store.Save(context.Background(), "abc"))
	got, err := mr.Get(DefaultTokenKey)
	require.NoError(t, err)
	assert.Equal(t, "abc", got)

	mr.Close()
	_, err = store.Load(context.Background())
	assert.Error(t, err)
}

func testSession() Session {
	return Session{Identity: domain.Identity{ID: "u-1", Email: "a@b.c"}, FirstName: "Ada", DailyThreshold: 2100}
}

func TestManagerSignInAndOut(t *testing.T) {
	ctx := context.Background()
	tokens := NewMemoryStore()
	m := NewManager(tokens, nil)

	_, ok := m.Current()
	assert.False(t, ok)

	require.NoError(t, m.SignIn(ctx, testSession(), "tok-1"))
	sess, ok := m.Current()
	require.True(t, ok)
	assert.Equal(t, "u-1", sess.Identity.ID)
	tok, _ := m.Token(ctx)
	assert.Equal(t, "tok-1", tok)

	refreshed := testSession()
	refreshed.DailyThreshold = 1500
	require.NoError(t, m.SignIn(ctx, refreshed, ""))
	tok, _ = m.Token(ctx)
	assert.Equal(t, "tok-1", tok, "empty token keeps the stored one")
	sess, _ = m.Current()
	assert.Equal(t, 1500, sess.DailyThreshold)

	require.NoError(t, m.SignOut(ctx))
	_, ok = m.Current()
	assert.False(t, ok)
	tok, _ = m.Token(ctx)
	assert.Empty(t, tok)
}

func TestManagerUnauthorizedClearsAndNotifies(t *testing.T) {
	ctx := context.Background()
	m := NewManager(NewMemoryStore(), nil)
	require.NoError(t, m.SignIn(ctx, testSession(), "tok-1"))

	var notices []Notice
	m.Subscribe(func(n Notice) { notices = append(notices, n) })

	m.Unauthorized(ctx, 403)
	_, ok := m.Current()
	assert.False(t, ok)
	tok, _ := m.Token(ctx)
	assert.Empty(t, tok)
	require.Len(t, notices, 1)
	assert.Equal(t, Notice{Heading: NoticeHeading, Message: NoticeMessage, Status: 403}, notices[0])
}

func TestManagerUnauthorizedConcurrentTriggersConverge(t *testing.T) {
	ctx := context.Background()
	m := NewManager(NewMemoryStore(), nil)
	require.NoError(t, m.SignIn(ctx, testSession(), "tok-1"))

	var mu sync.Mutex
	count := 0
	m.Subscribe(func(Notice) {
		mu.Lock()
		count++
		mu.Unlock()
	})

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.Unauthorized(ctx, 401)
		}()
	}
	wg.Wait()

	_, ok := m.Current()
	assert.False(t, ok)
	tok, _ := m.Token(ctx)
	assert.Empty(t, tok)
	assert.Equal(t, 10, count)
}

func TestManagerRefreshKeepsClearedSessionCleared(t *testing.T) {
	ctx := context.Background()
	m := NewManager(NewMemoryStore(), nil)

	assert.False(t, m.Refresh(testSession()))
	_, ok := m.Current()
	assert.False(t, ok)

	require.NoError(t, m.SignIn(ctx, testSession(), "tok-1"))
	refreshed := testSession()
	refreshed.DailyThreshold = 1500
	assert.True(t, m.Refresh(refreshed))
	sess, _ := m.Current()
	assert.Equal(t, 1500, sess.DailyThreshold)

	other := testSession()
	other.Identity.ID = "u-2"
	assert.False(t, m.Refresh(other))

	m.Unauthorized(ctx, 401)
	assert.False(t, m.Refresh(refreshed))
	_, ok = m.Current()
	assert.False(t, ok)
}

func TestManagerRestoreRequiresStoredToken(t *testing.T) {
	ctx := context.Background()
	tokens := NewMemoryStore()
	m := NewManager(tokens, nil)

	ok, err := m.Restore(ctx, testSession(), "")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, tokens.Save(ctx, "tok-1"))
	ok, err = m.Restore(ctx, testSession(), "tok-1")
	require.NoError(t, err)
	assert.True(t, ok)

	m.Unauthorized(ctx, 403)
	ok, err = m.Restore(ctx, testSession(), "tok-1")
	require.NoError(t, err)
	assert.False(t, ok)
	_, signedIn := m.Current()
	assert.False(t, signedIn)
}

func TestManagerClearsRedisTokenWithCancelledContext(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	m := NewManager(NewRedisStore(client, ""), nil)
	require.NoError(t, m.SignIn(context.Background(), testSession(), "tok"))
	require.True(t, mr.Exists(DefaultTokenKey))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	m.Unauthorized(ctx, 401)

	_, ok := m.Current()
	assert.False(t, ok)
	assert.False(t, mr.Exists(DefaultTokenKey))

	require.NoError(t, m.SignIn(context.Background(), testSession(), "tok"))
	require.NoError(t, m.SignOut(ctx))
	assert.False(t, mr.Exists(DefaultTokenKey))
}
