package wishlist

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront_client/internal/storage"
)

func newTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	dir := t.TempDir()
	files, err := storage.NewFileStore(dir, logger)
	require.NoError(t, err)
	return NewStore(files, logger), dir
}

func TestAddRemoveHas(t *testing.T) {
	s, _ := newTestStore(t)

	assert.False(t, s.Has("p1"))
	s.Add("p1")
	s.Add("p2")
	assert.True(t, s.Has("p1"))
	assert.True(t, s.Has("p2"))

	s.Remove("p1")
	assert.False(t, s.Has("p1"))
	assert.True(t, s.Has("p2"))
}

func TestAddIgnoresEmptyID(t *testing.T) {
	s, _ := newTestStore(t)
	s.Add("")
	assert.Empty(t, s.IDs())
}

func TestAddIsIdempotent(t *testing.T) {
	s, _ := newTestStore(t)
	s.Add("p1")
	s.Add("p1")
	assert.Equal(t, []string{"p1"}, s.IDs())
}

func TestIDsSorted(t *testing.T) {
	s, _ := newTestStore(t)
	s.Add("zz")
	s.Add("aa")
	s.Add("mm")
	assert.Equal(t, []string{"aa", "mm", "zz"}, s.IDs())
}

func TestPersistsAcrossInstances(t *testing.T) {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	s, dir := newTestStore(t)
	s.Add("p1")
	s.Add("p2")
	s.Remove("p1")

	files, err := storage.NewFileStore(dir, logger)
	require.NoError(t, err)
	reopened := NewStore(files, logger)

	assert.Equal(t, []string{"p2"}, reopened.IDs())
}
