package kv

import (
	"context"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/cuemby/burrow/pkg/store"
	"github.com/cuemby/burrow/pkg/wire"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	s, err := store.Open(store.Config{Path: t.TempDir()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return NewService(s)
}

func TestPutGetDeleteOnDefaultTree(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	_, err := svc.PutKv(ctx, &wire.KeyValue{Key: []byte("a"), Value: []byte("1")})
	require.NoError(t, err)

	value, err := svc.GetKv(ctx, []byte("a"))
	require.NoError(t, err)
	assert.Equal(t, []byte("1"), value)

	_, err = svc.DeleteKv(ctx, []byte("a"))
	require.NoError(t, err)

	_, err = svc.GetKv(ctx, []byte("a"))
	require.Error(t, err)
	assert.Equal(t, codes.NotFound, status.Code(err))
}

// TestPutKvsAcrossTwoTrees mirrors spec.md §8 scenario 1: a batched put
// spanning two trees, one of them named by the raw bytes [4, 2, 0]
// base64-encoded into the wire request's map key.
func TestPutKvsAcrossTwoTrees(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	otherTree := base64.StdEncoding.EncodeToString([]byte{4, 2, 0})

	req := &wire.PutKVsRequest{
		Entries: map[string][]wire.KeyValue{
			"": {
				{Key: []byte("k1"), Value: []byte("v1")},
			},
			otherTree: {
				{Key: []byte("k2"), Value: []byte("v2")},
			},
		},
	}

	_, err := svc.PutKvs(ctx, req)
	require.NoError(t, err)

	v, err := svc.GetKv(ctx, []byte("k1"))
	require.NoError(t, err)
	assert.Equal(t, []byte("v1"), v)

	named, err := svc.store.OpenTree([]byte{4, 2, 0})
	require.NoError(t, err)
	v2, found, err := named.Get([]byte("k2"))
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []byte("v2"), v2)
}

func TestPutKvsRejectsBadBase64TreeName(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	req := &wire.PutKVsRequest{
		Entries: map[string][]wire.KeyValue{
			"not valid base64!!": {{Key: []byte("k"), Value: []byte("v")}},
		},
	}

	_, err := svc.PutKvs(ctx, req)
	require.Error(t, err)
	assert.Equal(t, codes.Internal, status.Code(err))
}

func TestDeleteKvsRemovesAcrossTrees(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	_, err := svc.PutKv(ctx, &wire.KeyValue{Key: []byte("k1"), Value: []byte("v1")})
	require.NoError(t, err)

	_, err = svc.DeleteKvs(ctx, &wire.DeleteKVsRequest{
		Entries: map[string][][]byte{"": {[]byte("k1")}},
	})
	require.NoError(t, err)

	_, err = svc.GetKv(ctx, []byte("k1"))
	assert.Equal(t, codes.NotFound, status.Code(err))
}

func TestExistAndBatchExist(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	_, err := svc.PutKv(ctx, &wire.KeyValue{Key: []byte("present"), Value: []byte("v")})
	require.NoError(t, err)

	found, err := svc.Exist(ctx, []byte("present"))
	require.NoError(t, err)
	assert.Equal(t, wire.Found, found)

	missing, err := svc.Exist(ctx, []byte("absent"))
	require.NoError(t, err)
	assert.Equal(t, wire.NotFound, missing)

	resp, err := svc.BatchExist(ctx, &wire.ExistsKVsRequest{
		Entries: map[string][][]byte{
			"":                     {[]byte("present"), []byte("absent")},
			"not valid base64!!!!": {[]byte("ignored")},
		},
	})
	require.NoError(t, err)

	inner, ok := resp.Entries[""]
	require.True(t, ok)
	assert.Equal(t, wire.Found, inner[base64.StdEncoding.EncodeToString([]byte("present"))])
	assert.Equal(t, wire.NotFound, inner[base64.StdEncoding.EncodeToString([]byte("absent"))])

	_, hasBadTree := resp.Entries["not valid base64!!!!"]
	assert.False(t, hasBadTree, "tree with undecodable name must be silently skipped")
}

func TestListResolvesEmptyTreeToDefault(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	_, err := svc.PutKv(ctx, &wire.KeyValue{Key: []byte("a"), Value: []byte("1")})
	require.NoError(t, err)
	_, err = svc.PutKv(ctx, &wire.KeyValue{Key: []byte("b"), Value: []byte("2")})
	require.NoError(t, err)

	values, err := svc.List(ctx, nil)
	require.NoError(t, err)
	require.Len(t, values.Entries, 2)
	assert.Equal(t, []byte("a"), values.Entries[0].Key)
	assert.Equal(t, []byte("b"), values.Entries[1].Key)
}

func TestHealthCheck(t *testing.T) {
	resp, err := newTestService(t).HealthCheck(context.Background())
	require.NoError(t, err)
	assert.True(t, resp.OK)
}
