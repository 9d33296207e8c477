package blob

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	objects map[string][]byte
	gets    int
}

func newFakeStore() *fakeStore {
	return &fakeStore{objects: make(map[string][]byte)}
}

func (f *fakeStore) Put(_ context.Context, projectID, name string, content []byte) error {
	key, err := objectKey(projectID, name)
	if err != nil {
		return err
	}
	f.objects[key] = content
	return nil
}

func (f *fakeStore) Get(_ context.Context, projectID, name string) ([]byte, error) {
	f.gets++
	key, err := objectKey(projectID, name)
	if err != nil {
		return nil, err
	}
	content, ok := f.objects[key]
	if !ok {
		return nil, ErrNotFound
	}
	return content, nil
}

func (f *fakeStore) URL(_ context.Context, projectID, name string) (string, error) {
	key, err := objectKey(projectID, name)
	if err != nil {
		return "", err
	}
	return "https://blobs.local/" + key, nil
}

func TestCachedStoreServesRepeatReadsFromCache(t *testing.T) {
	ctx := context.Background()
	inner := newFakeStore()
	cached, err := NewCachedStore(inner, 4)
	require.NoError(t, err)

	require.NoError(t, inner.Put(ctx, "p1", "src/app.ts", []byte("export {}")))

	got, err := cached.Get(ctx, "p1", "src/app.ts")
	require.NoError(t, err)
	assert.Equal(t, []byte("export {}"), got)
	assert.Equal(t, 1, inner.gets)

	_, err = cached.Get(ctx, "p1", "src/app.ts")
	require.NoError(t, err)
	assert.Equal(t, 1, inner.gets, "second read is a cache hit")
}

func TestCachedStorePutRefreshesEntry(t *testing.T) {
	ctx := context.Background()
	inner := newFakeStore()
	cached, err := NewCachedStore(inner, 4)
	require.NoError(t, err)

	require.NoError(t, cached.Put(ctx, "p1", "README.md", []byte("v1")))
	require.NoError(t, cached.Put(ctx, "p1", "README.md", []byte("v2")))

	got, err := cached.Get(ctx, "p1", "README.md")
	require.NoError(t, err)
	assert.Equal(t, []byte("v2"), got)
	assert.Zero(t, inner.gets, "write-through keeps the cache warm")
}

func TestCachedStoreMissPropagates(t *testing.T) {
	cached, err := NewCachedStore(newFakeStore(), 4)
	require.NoError(t, err)

	_, err = cached.Get(context.Background(), "p1", "missing.txt")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestObjectKeyValidation(t *testing.T) {
	key, err := objectKey("p1", "/src/index.ts")
	require.NoError(t, err)
	assert.Equal(t, "p1/src/index.ts", key)

	_, err = objectKey("", "a.txt")
	assert.Error(t, err)
	_, err = objectKey("p1", "  ")
	assert.Error(t, err)
}
