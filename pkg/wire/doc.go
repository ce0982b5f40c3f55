/*
Package wire is the RPC wire layer (A4): a CBOR grpc.Codec plus hand-written
ServiceDesc/Client pairs for the KV service (C3) and the PubSub service (C4),
standing in for protoc-gen-go-grpc output since no .proto definitions exist
for this service. Message shapes and the Exists discriminant are grounded on
original_source/db/src/rpc/types.rs.
*/
package wire
