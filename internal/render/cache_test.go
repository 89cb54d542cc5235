package render

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/syssam/sqlgen/dialect"
)

func TestCacheKey(t *testing.T) {
	doc := []byte("statements: []\n")
	k := CacheKey(doc, dialect.MySQL, false)
	assert.Equal(t, k, CacheKey(doc, dialect.MySQL, false))
	assert.NotEqual(t, k, CacheKey(doc, dialect.Postgres, false))
	assert.NotEqual(t, k, CacheKey(doc, dialect.MySQL, true))
	assert.NotEqual(t, k, CacheKey([]byte("statements: [ ]\n"), dialect.MySQL, false))
}

func TestCache_SaveLoad(t *testing.T) {
	fs := afero.NewMemMapFs()
	c, err := LoadCache(fs, ".sqlgen-cache")
	require.NoError(t, err)
	assert.Zero(t, c.Len())

	e := CacheEntry{Dialect: dialect.SQLite, Text: "DROP TABLE IF EXISTS t;\n", Statements: 1}
	c.Set(1, e)
	c.Set(2, CacheEntry{Text: "x"})
	c.Delete(2)
	require.NoError(t, c.Save(fs, ".sqlgen-cache"))

	loaded, err := LoadCache(fs, ".sqlgen-cache")
	require.NoError(t, err)
	require.Equal(t, 1, loaded.Len())
	got, ok := loaded.Get(1)
	require.True(t, ok)
	assert.Equal(t, e, got)
	_, ok = loaded.Get(2)
	assert.False(t, ok)

	// Unchanged caches are not rewritten.
	require.NoError(t, fs.Remove(".sqlgen-cache"))
	loaded.Set(1, e)
	require.NoError(t, loaded.Save(fs, ".sqlgen-cache"))
	exists, err := afero.Exists(fs, ".sqlgen-cache")
	require.NoError(t, err)
	assert.False(t, exists)

	loaded.Clear()
	assert.Zero(t, loaded.Len())
	require.NoError(t, loaded.Save(fs, ".sqlgen-cache"))
	exists, err = afero.Exists(fs, ".sqlgen-cache")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestLoadCache_Version(t *testing.T) {
	fs := afero.NewMemMapFs()
	data, err := msgpack.Marshal(cacheFile{Version: cacheVersion + 1, Entries: map[uint64]CacheEntry{7: {Text: "old"}}})
	require.NoError(t, err)
	require.NoError(t, afero.WriteFile(fs, "cache", data, 0o644))
	c, err := LoadCache(fs, "cache")
	require.NoError(t, err)
	assert.Zero(t, c.Len())

	require.NoError(t, afero.WriteFile(fs, "cache", []byte("not msgpack"), 0o644))
	_, err = LoadCache(fs, "cache")
	require.Error(t, err)
}
