package info

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tableflip.dev/taskflow/pkg/store"
)

func TestBucketsNamesCatalogKeys(t *testing.T) {
	kv := store.NewMemoryKV()
	require.NoError(t, kv.Put(store.Notes.For("ana"), []byte("[]")))
	require.NoError(t, kv.Put("someone_elses_key", []byte("{}")))

	n := &Info{KV: kv}
	buckets, err := n.Buckets(context.Background())
	require.NoError(t, err)
	require.Len(t, buckets, 2)

	byKey := map[string]Bucket{}
	for _, b := range buckets {
		byKey[b.Key] = b
	}
	assert.True(t, byKey[store.Notes.For("ana")].Known)
	assert.Equal(t, store.Notes.Name, byKey[store.Notes.For("ana")].Name)
	assert.False(t, byKey["someone_elses_key"].Known)
}

func TestDoReportsEmptyStore(t *testing.T) {
	t.Setenv(ConfigPathEnv, "")
	var buf bytes.Buffer
	n := &Info{
		Config: &store.Settings{Path: "/tmp/taskflow", Store: store.BackendMemory},
		KV:     store.NewMemoryKV(),
		Out:    &buf,
	}
	require.NoError(t, n.Do(context.Background()))
	out := buf.String()
	assert.Contains(t, out, "Config.path: /tmp/taskflow")
	assert.Contains(t, out, "Config.store: memory")
	assert.Contains(t, out, "Identity: guest")
	assert.Contains(t, out, "no buckets")
}

func TestBucketsWithoutStore(t *testing.T) {
	_, err := (&Info{}).Buckets(context.Background())
	assert.Error(t, err)
}
