package blob

import (
	"bytes"
	"context"
	"io"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stores(t *testing.T) map[string]Store {
	t.Helper()
	fsStore, err := NewFilesystem(filepath.Join(t.TempDir(), "blobs"))
	require.NoError(t, err)
	s3Store, _ := newFakeS3(t)
	return map[string]Store{
		"memory": NewMemory(),
		"fs":     fsStore,
		"s3":     s3Store,
	}
}

func TestStores_Contract(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			_, err := store.Put(ctx, "run/a.def", bytes.NewReader([]byte("alpha")), PutOptions{})
			require.NoError(t, err)
			_, err = store.Put(ctx, "run/b.def", bytes.NewReader([]byte("beta")), PutOptions{})
			require.NoError(t, err)
			_, err = store.Put(ctx, "other/c.def", bytes.NewReader([]byte("gamma")), PutOptions{})
			require.NoError(t, err)

			_, err = store.Put(ctx, "run/a.def", bytes.NewReader([]byte("again")), PutOptions{})
			assert.ErrorIs(t, err, ErrExists)

			info, err := store.Head(ctx, "run/b.def")
			require.NoError(t, err)
			assert.Equal(t, int64(4), info.Size)

			_, rc, err := store.Get(ctx, "run/a.def")
			require.NoError(t, err)
			data, err := io.ReadAll(rc)
			require.NoError(t, err)
			rc.Close()
			assert.Equal(t, "alpha", string(data))

			list, err := store.List(ctx, "run/")
			require.NoError(t, err)
			var keys []string
			for _, i := range list {
				keys = append(keys, i.Key)
			}
			assert.Equal(t, []string{"run/a.def", "run/b.def"}, keys)

			_, err = store.Head(ctx, "run/missing.def")
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestFilesystem_RejectsTraversal(t *testing.T) {
	s, err := NewFilesystem(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	for _, key := range []string{"", "../escape", "/abs", "a/../../b"} {
		_, err := s.Put(ctx, key, bytes.NewReader(nil), PutOptions{})
		assert.Error(t, err, "key %q", key)
	}

	_, err = NewFilesystem("")
	assert.Error(t, err)
}

func TestMemory_ClonesMetadata(t *testing.T) {
	m := NewMemory()
	md := map[string]string{"k": "v"}
	_, err := m.Put(context.Background(), "x", bytes.NewReader(nil), PutOptions{Metadata: md})
	require.NoError(t, err)

	md["k"] = "changed"
	info, err := m.Head(context.Background(), "x")
	require.NoError(t, err)
	assert.Equal(t, "v", info.Metadata["k"])
}
