package session

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront_client/internal/domain"
	"storefront_client/internal/storage"
)

func newTestManager(t *testing.T) (*Manager, string) {
	t.Helper()
	dir := t.TempDir()
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	store, err := storage.NewFileStore(dir, logger)
	require.NoError(t, err)
	return NewManager(store, logger), dir
}

func reopen(t *testing.T, dir string) *Manager {
	t.Helper()
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	store, err := storage.NewFileStore(dir, logger)
	require.NoError(t, err)
	return NewManager(store, logger)
}

func TestTokenLifecycle(t *testing.T) {
	m, _ := newTestManager(t)

	assert.Empty(t, m.Token())
	assert.False(t, m.HasValidToken())

	m.SetToken("tok-abc")
	assert.Equal(t, "tok-abc", m.Token())
	assert.True(t, m.HasValidToken())

	m.SetToken("tok-def")
	assert.Equal(t, "tok-def", m.Token(), "SetToken overwrites")

	m.Clear()
	assert.Empty(t, m.Token())
	assert.False(t, m.HasValidToken())
}

func TestSessionRestoredFromDisk(t *testing.T) {
	m, dir := newTestManager(t)
	m.SetToken("persisted")
	m.SetUser(&domain.User{ID: 1, Email: "a@b.c", Role: domain.RoleCustomer})

	restored := reopen(t, dir)
	assert.Equal(t, "persisted", restored.Token())
	require.NotNil(t, restored.User())
	assert.Equal(t, "a@b.c", restored.User().Email)
}

func TestClearRemovesProfile(t *testing.T) {
	m, dir := newTestManager(t)
	m.SetToken("tok")
	m.SetUser(&domain.User{ID: 1, Email: "a@b.c"})

	m.Clear()
	assert.Nil(t, m.User())

	restored := reopen(t, dir)
	assert.Empty(t, restored.Token())
	assert.Nil(t, restored.User())
}

func TestForceLogoutBroadcasts(t *testing.T) {
	m, _ := newTestManager(t)
	m.SetToken("tok")

	calls := 0
	m.OnLogout(func() { calls++ })
	m.OnLogout(func() { calls++ })

	m.ForceLogout()
	assert.Equal(t, 2, calls)
	assert.False(t, m.HasValidToken())
}

func TestCorruptedStateLooksUnauthenticated(t *testing.T) {
	m, dir := newTestManager(t)
	m.SetToken("tok")

	require.NoError(t, os.WriteFile(filepath.Join(dir, "state.json"), []byte("garbage"), 0600))

	restored := reopen(t, dir)
	assert.False(t, restored.HasValidToken(), "storage errors degrade to unauthenticated")
	assert.Nil(t, restored.User())
}
