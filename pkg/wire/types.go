package wire

// Message and response types mirroring original_source/db/src/rpc/types.rs's
// tonic_rpc(cbor) trait definitions — field sets and the Exists discriminant
// values (Found = 0, NotFound = 1) are carried over exactly so an existing
// wire-compatible client would still decode these responses correctly.

// Empty is the zero-value response for operations with no payload.
type Empty struct{}

// Bytes wraps a single opaque byte string. Used for request/response
// parameters that are one raw value rather than a structured message — CBOR
// encodes the wrapped slice as a byte string on the wire.
type Bytes struct {
	Value []byte `cbor:"value"`
}

// KeyValue is one stored record.
type KeyValue struct {
	Key   []byte `cbor:"key"`
	Value []byte `cbor:"value"`
}

// Values is the response to List.
type Values struct {
	Entries []KeyValue `cbor:"entries"`
}

// Exists mirrors the source's explicit enum discriminants.
type Exists uint8

const (
	Found    Exists = 0
	NotFound Exists = 1
)

// Bool reports whether the status is Found.
func (e Exists) Bool() bool { return e == Found }

// ExistsResponse is the response to Exist.
type ExistsResponse struct {
	Status Exists `cbor:"status"`
}

// PutKVsRequest batches inserts across trees. The map key is the wire tree
// name: empty string denotes Default, any other string is base64 of the raw
// tree name bytes.
type PutKVsRequest struct {
	Entries map[string][]KeyValue `cbor:"entries"`
}

// DeleteKVsRequest batches removes across trees, keyed the same way as
// PutKVsRequest.
type DeleteKVsRequest struct {
	Entries map[string][][]byte `cbor:"entries"`
}

// ExistsKVsRequest batches presence checks across trees.
type ExistsKVsRequest struct {
	Entries map[string][][]byte `cbor:"entries"`
}

// ExistKVsResponse reports presence per tree per key; the inner map key is
// base64 of the original key bytes.
type ExistKVsResponse struct {
	Entries map[string]map[string]Exists `cbor:"entries"`
}

// HealthCheckResponse is the response to HealthCheck.
type HealthCheckResponse struct {
	OK bool `cbor:"ok"`
}

// PublishRequest is the request to Publish.
type PublishRequest struct {
	Topic   string `cbor:"topic"`
	Payload string `cbor:"payload"`
}

// Update is one pub/sub message delivered to a Subscribe stream.
type Update struct {
	Topic   string `cbor:"topic"`
	Payload string `cbor:"payload"`
}
