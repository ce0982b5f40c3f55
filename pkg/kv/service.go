// Package kv implements the KV service (C3): the RPC methods of
// spec.md §4.3 against pkg/store's TreeStore and Batch, handling
// key-namespacing, base64-encoded tree names in map keys, and error
// mapping to grpc status codes.
//
// Grounded on original_source/db/src/rpc/kv_server.rs for exact method
// semantics (including the asymmetry between PutKvs/DeleteKvs, which fail
// the whole request on an undecodable tree name, and BatchExist, which
// silently skips that tree's entries instead) and on
// pkg/api/server.go's error-wrapping convention from the teacher repo.
package kv

import (
	"context"
	"encoding/base64"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/cuemby/burrow/pkg/metrics"
	"github.com/cuemby/burrow/pkg/store"
	"github.com/cuemby/burrow/pkg/wire"
)

// Service implements wire.KVServer against a *store.Store.
type Service struct {
	store *store.Store
}

// NewService wires the RPC-facing KV service to s.
func NewService(s *store.Store) *Service {
	return &Service{store: s}
}

func (s *Service) defaultTree() (*store.Tree, error) {
	return s.store.OpenTree(store.DefaultTreeName)
}

// resolveTreeName implements the single-value tree-name parameter rule:
// an empty byte string denotes Default; any other value is used as the raw
// tree name directly (no base64 involved — base64 only appears where a
// tree name must serve as a map key, see decodeWireTreeName).
func resolveTreeName(tree []byte) []byte {
	if len(tree) == 0 {
		return store.DefaultTreeName
	}
	return tree
}

// decodeWireTreeName implements the wire tree name rule used for PutKVs,
// DeleteKVs, and ExistsKVs map keys: empty string ⇒ Default; any other
// string is base64-decoded to raw bytes.
func decodeWireTreeName(wireName string) ([]byte, error) {
	if wireName == "" {
		return store.DefaultTreeName, nil
	}
	return base64.StdEncoding.DecodeString(wireName)
}

func (s *Service) flush(tree *store.Tree) error {
	if err := tree.FlushAsync(); err != nil {
		return err
	}
	return s.store.FlushAsync()
}

func internalErr(err error) error {
	return status.Errorf(codes.Internal, "%v", err)
}

func record(method string, timer *metrics.Timer, err error) {
	timer.ObserveDurationVec(metrics.KVRequestDuration, method)
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	metrics.KVRequestsTotal.WithLabelValues(method, outcome).Inc()
}

// GetKv looks up key in Default. A missing key is reported as NotFound, not
// Internal.
func (s *Service) GetKv(ctx context.Context, key []byte) ([]byte, error) {
	timer := metrics.NewTimer()
	tree, err := s.defaultTree()
	if err != nil {
		record("GetKv", timer, err)
		return nil, internalErr(err)
	}
	value, found, err := tree.Get(key)
	if err != nil {
		record("GetKv", timer, err)
		return nil, internalErr(err)
	}
	if !found {
		err := status.Error(codes.NotFound, "key not found")
		record("GetKv", timer, err)
		return nil, err
	}
	record("GetKv", timer, nil)
	return value, nil
}

// List performs a full scan of the given tree; an empty tree argument
// resolves to Default. A never-created tree is opened (and thus created)
// as a side effect and returns an empty Values.
func (s *Service) List(ctx context.Context, tree []byte) (*wire.Values, error) {
	timer := metrics.NewTimer()
	t, err := s.store.OpenTree(resolveTreeName(tree))
	if err != nil {
		record("List", timer, err)
		return nil, internalErr(err)
	}
	entries, err := t.Iter()
	if err != nil {
		record("List", timer, err)
		return nil, internalErr(err)
	}
	values := make([]wire.KeyValue, 0, len(entries))
	for _, e := range entries {
		values = append(values, wire.KeyValue{Key: e.Key, Value: e.Value})
	}
	record("List", timer, nil)
	return &wire.Values{Entries: values}, nil
}

// PutKv inserts into Default, then flushes tree then db.
func (s *Service) PutKv(ctx context.Context, kv *wire.KeyValue) (*wire.Empty, error) {
	timer := metrics.NewTimer()
	tree, err := s.defaultTree()
	if err != nil {
		record("PutKv", timer, err)
		return nil, internalErr(err)
	}
	if _, err := tree.Insert(kv.Key, kv.Value); err != nil {
		record("PutKv", timer, err)
		return nil, internalErr(err)
	}
	if err := s.flush(tree); err != nil {
		record("PutKv", timer, err)
		return nil, internalErr(err)
	}
	record("PutKv", timer, nil)
	return &wire.Empty{}, nil
}

// DeleteKv removes from Default, then flushes tree then db.
func (s *Service) DeleteKv(ctx context.Context, key []byte) (*wire.Empty, error) {
	timer := metrics.NewTimer()
	tree, err := s.defaultTree()
	if err != nil {
		record("DeleteKv", timer, err)
		return nil, internalErr(err)
	}
	if err := tree.Remove(key); err != nil {
		record("DeleteKv", timer, err)
		return nil, internalErr(err)
	}
	if err := s.flush(tree); err != nil {
		record("DeleteKv", timer, err)
		return nil, internalErr(err)
	}
	record("DeleteKv", timer, nil)
	return &wire.Empty{}, nil
}

// PutKvs applies the batched write algorithm of spec.md §4.3: for each
// wire-tree-name entry, decode it (fail-fast on bad base64), open the
// resolved tree, apply one atomic batch of inserts, then flush tree then
// db. Entries are independent; a failure on one tree does not roll back
// trees already applied earlier in the call.
func (s *Service) PutKvs(ctx context.Context, req *wire.PutKVsRequest) (*wire.Empty, error) {
	timer := metrics.NewTimer()
	for wireTreeName, items := range req.Entries {
		treeName, err := decodeWireTreeName(wireTreeName)
		if err != nil {
			record("PutKvs", timer, err)
			return nil, internalErr(err)
		}
		tree, err := s.store.OpenTree(treeName)
		if err != nil {
			record("PutKvs", timer, err)
			return nil, internalErr(err)
		}
		batch := store.NewBatch()
		for _, item := range items {
			batch.InsertRaw(item.Key, item.Value)
		}
		if err := tree.ApplyBatch(batch); err != nil {
			record("PutKvs", timer, err)
			return nil, internalErr(err)
		}
		if err := s.flush(tree); err != nil {
			record("PutKvs", timer, err)
			return nil, internalErr(err)
		}
	}
	record("PutKvs", timer, nil)
	return &wire.Empty{}, nil
}

// DeleteKvs mirrors PutKvs for removals.
func (s *Service) DeleteKvs(ctx context.Context, req *wire.DeleteKVsRequest) (*wire.Empty, error) {
	timer := metrics.NewTimer()
	for wireTreeName, keys := range req.Entries {
		treeName, err := decodeWireTreeName(wireTreeName)
		if err != nil {
			record("DeleteKvs", timer, err)
			return nil, internalErr(err)
		}
		tree, err := s.store.OpenTree(treeName)
		if err != nil {
			record("DeleteKvs", timer, err)
			return nil, internalErr(err)
		}
		batch := store.NewBatch()
		for _, key := range keys {
			batch.RemoveRaw(key)
		}
		if err := tree.ApplyBatch(batch); err != nil {
			record("DeleteKvs", timer, err)
			return nil, internalErr(err)
		}
		if err := s.flush(tree); err != nil {
			record("DeleteKvs", timer, err)
			return nil, internalErr(err)
		}
	}
	record("DeleteKvs", timer, nil)
	return &wire.Empty{}, nil
}

// Exist reports single-key presence in Default.
func (s *Service) Exist(ctx context.Context, key []byte) (wire.Exists, error) {
	timer := metrics.NewTimer()
	tree, err := s.defaultTree()
	if err != nil {
		record("Exist", timer, err)
		return 0, internalErr(err)
	}
	found, err := tree.Contains(key)
	if err != nil {
		record("Exist", timer, err)
		return 0, internalErr(err)
	}
	record("Exist", timer, nil)
	if found {
		return wire.Found, nil
	}
	return wire.NotFound, nil
}

// BatchExist reports per-tree presence, keyed by base64 of the input key.
// Unlike PutKvs/DeleteKvs, a tree name that fails to base64-decode is
// tolerated: that tree's entries are omitted from the response rather than
// failing the whole call, preserving the asymmetry in
// original_source/db/src/rpc/kv_server.rs.
func (s *Service) BatchExist(ctx context.Context, req *wire.ExistsKVsRequest) (*wire.ExistKVsResponse, error) {
	timer := metrics.NewTimer()
	resp := &wire.ExistKVsResponse{Entries: make(map[string]map[string]wire.Exists)}

	for wireTreeName, keys := range req.Entries {
		treeName, err := decodeWireTreeName(wireTreeName)
		if err != nil {
			continue
		}
		tree, err := s.store.OpenTree(treeName)
		if err != nil {
			continue
		}

		inner := make(map[string]wire.Exists, len(keys))
		for _, key := range keys {
			status := wire.NotFound
			if found, err := tree.Contains(key); err == nil && found {
				status = wire.Found
			}
			inner[base64.StdEncoding.EncodeToString(key)] = status
		}
		resp.Entries[wireTreeName] = inner
	}

	record("BatchExist", timer, nil)
	return resp, nil
}

// HealthCheck is a trivial liveness probe.
func (s *Service) HealthCheck(ctx context.Context) (*wire.HealthCheckResponse, error) {
	return &wire.HealthCheckResponse{OK: true}, nil
}
