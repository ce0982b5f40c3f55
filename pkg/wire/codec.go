package wire

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
	"google.golang.org/grpc/encoding"
)

// CodecName is the grpc content-subtype this codec is registered under.
const CodecName = "cbor"

// Codec is a grpc/encoding.Codec backed by github.com/fxamacker/cbor/v2,
// standing in for the protobuf codec grpc-go uses by default. The original
// implementation used tonic_rpc's cbor macro for the same purpose
// (original_source/db/src/rpc/types.rs); no generated protobuf stub exists
// for this service, so request/response framing goes through this codec on
// both the server (grpc.ForceServerCodec) and the client
// (grpc.ForceCodec as a default call option).
type Codec struct{}

func (Codec) Name() string { return CodecName }

func (Codec) Marshal(v interface{}) ([]byte, error) {
	data, err := cbor.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("wire: cbor marshal: %w", err)
	}
	return data, nil
}

func (Codec) Unmarshal(data []byte, v interface{}) error {
	if err := cbor.Unmarshal(data, v); err != nil {
		return fmt.Errorf("wire: cbor unmarshal: %w", err)
	}
	return nil
}

func init() {
	encoding.RegisterCodec(Codec{})
}
