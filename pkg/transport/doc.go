// Package transport composes the KV service, the optional PubSub service,
// and the grpc-go health service under a single listener, chosen among
// plaintext TCP, TLS TCP, and Unix Domain Socket at startup.
package transport
