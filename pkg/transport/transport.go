// Package transport implements the transport dispatcher (C6): it composes
// the KV service, the optional PubSub service, and grpc-go's built-in
// health service under one *grpc.Server, binding a plaintext TCP, TLS TCP,
// or Unix Domain Socket listener chosen at startup.
//
// Grounded structurally on pkg/api/server.go's NewServer/Start/Stop shape
// from the teacher repo, simplified from its mTLS client-certificate model
// (Server.NewServer's tls.RequestClientCert) down to identity-only server
// TLS, since this component performs no client-certificate verification.
package transport

import (
	"crypto/tls"
	"fmt"
	"net"
	"os"
	"path/filepath"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/cuemby/burrow/pkg/auth"
	"github.com/cuemby/burrow/pkg/kv"
	"github.com/cuemby/burrow/pkg/log"
	"github.com/cuemby/burrow/pkg/pubsub"
	"github.com/cuemby/burrow/pkg/wire"
)

// Kind selects the listener variant.
type Kind string

const (
	KindHTTP  Kind = "http"
	KindHTTPS Kind = "https"
	KindUDS   Kind = "uds"
)

// Connection is the tagged union of §6.1's rpc.connection config key: a
// TCP (host, port) pair for HTTP/HTTPS, or a socket path for UDS.
type Connection struct {
	Kind Kind
	Host string
	Port int
	Path string
}

// Options configures New.
type Options struct {
	Connection Connection

	// CertPEM/KeyPEM are required for KindHTTPS and ignored otherwise.
	CertPEM []byte
	KeyPEM  []byte

	// Token, if non-empty, wraps every service with the auth interceptor.
	Token string

	// EnablePubSub, when true, also registers the PubSub service, backed by
	// the broker passed to New.
	EnablePubSub bool
}

// Server owns the composed grpc.Server and its listener.
type Server struct {
	grpc     *grpc.Server
	listener net.Listener
}

// New builds the listener and the composed *grpc.Server described by opts,
// but does not yet accept connections; call Serve to run the accept loop.
func New(opts Options, service *kv.Service, broker *pubsub.Broker) (*Server, error) {
	listener, err := listen(opts.Connection, opts.CertPEM, opts.KeyPEM)
	if err != nil {
		return nil, err
	}

	serverOpts := []grpc.ServerOption{grpc.ForceServerCodec(wire.Codec{})}
	if opts.Token != "" {
		serverOpts = append(serverOpts,
			grpc.UnaryInterceptor(auth.UnaryInterceptor(opts.Token)),
			grpc.StreamInterceptor(auth.StreamInterceptor(opts.Token)),
		)
	}

	grpcServer := grpc.NewServer(serverOpts...)

	wire.RegisterKVServer(grpcServer, service)

	if opts.EnablePubSub {
		wire.RegisterPubSubServer(grpcServer, pubsub.NewService(broker))
	}

	healthServer := health.NewServer()
	healthServer.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(grpcServer, healthServer)

	return &Server{grpc: grpcServer, listener: listener}, nil
}

// listen builds the net.Listener for conn, wrapping it in a TLS listener
// for KindHTTPS.
func listen(conn Connection, certPEM, keyPEM []byte) (net.Listener, error) {
	switch conn.Kind {
	case KindHTTP:
		addr := fmt.Sprintf("%s:%d", conn.Host, conn.Port)
		lis, err := net.Listen("tcp", addr)
		if err != nil {
			return nil, fmt.Errorf("transport: listen %s: %w", addr, err)
		}
		return lis, nil

	case KindHTTPS:
		cert, err := tls.X509KeyPair(certPEM, keyPEM)
		if err != nil {
			return nil, fmt.Errorf("transport: loading server certificate: %w", err)
		}
		tlsConfig := &tls.Config{
			Certificates: []tls.Certificate{cert},
			NextProtos:   []string{"h2"},
		}
		addr := fmt.Sprintf("%s:%d", conn.Host, conn.Port)
		lis, err := net.Listen("tcp", addr)
		if err != nil {
			return nil, fmt.Errorf("transport: listen %s: %w", addr, err)
		}
		return tls.NewListener(lis, tlsConfig), nil

	case KindUDS:
		if err := os.MkdirAll(filepath.Dir(conn.Path), 0755); err != nil {
			return nil, fmt.Errorf("transport: creating socket directory: %w", err)
		}
		_ = os.Remove(conn.Path)
		lis, err := net.Listen("unix", conn.Path)
		if err != nil {
			return nil, fmt.Errorf("transport: listen %s: %w", conn.Path, err)
		}
		return lis, nil

	default:
		return nil, fmt.Errorf("transport: unknown connection kind %q", conn.Kind)
	}
}

// Serve runs the accept loop until the listener is closed by Stop.
func (s *Server) Serve() error {
	log.Logger.Info().Str("addr", s.listener.Addr().String()).Msg("transport: accepting connections")
	return s.grpc.Serve(s.listener)
}

// Stop stops accepting new connections and RPCs, then blocks until the
// in-flight ones have finished.
func (s *Server) Stop() {
	s.grpc.GracefulStop()
}

// Addr returns the bound listener address.
func (s *Server) Addr() net.Addr {
	return s.listener.Addr()
}
