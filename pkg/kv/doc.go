// Package kv wires pkg/store's TreeStore and Batch to the KV RPC surface
// defined in pkg/wire, implementing the GetKv/List/PutKv/PutKvs/DeleteKv/
// DeleteKvs/Exist/BatchExist/HealthCheck methods of spec.md §4.3.
package kv
