package file_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/flowforge/pkg/adapters/file"
	"github.com/aretw0/flowforge/pkg/domain"
	"github.com/aretw0/flowforge/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore_Contract(t *testing.T) {
	store := file.NewStore(filepath.Join(t.TempDir(), "nested", "context.json"))
	ports.RunContextStoreContract(t, store)
}

func TestFileStore_SurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "context.json")

	first := file.NewStore(path)
	require.NoError(t, first.Put(ctx, "greeting", domain.StringValue("hello")))
	require.NoError(t, first.Put(ctx, "empty", domain.Value{}))

	second := file.NewStore(path)
	v, found, err := second.Get(ctx, "greeting")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "hello", v.String())

	v, found, err = second.Get(ctx, "empty")
	require.NoError(t, err)
	require.True(t, found)
	assert.True(t, v.IsNull())

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files are left behind")
}

func TestFileStore_MissingFileIsEmpty(t *testing.T) {
	store := file.NewStore(filepath.Join(t.TempDir(), "absent.json"))
	snap, err := store.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Empty(t, snap)

	found, err := store.Update(context.Background(), "k", domain.StringValue("v"))
	require.NoError(t, err)
	assert.False(t, found)
	_, err = os.Stat(store.Path)
	assert.True(t, os.IsNotExist(err), "a read-only miss does not create the file")
}

func TestFileStore_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "context.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	_, _, err := file.NewStore(path).Get(context.Background(), "k")
	assert.Error(t, err)
}

func TestFileStore_DefaultPath(t *testing.T) {
	assert.Equal(t, filepath.Join(".flowforge", "context.json"), file.NewStore("").Path)
}
