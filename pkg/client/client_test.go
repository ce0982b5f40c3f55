package client_test

import (
	"context"
	"fmt"
	"net"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/cuemby/burrow/pkg/client"
	"github.com/cuemby/burrow/pkg/kv"
	"github.com/cuemby/burrow/pkg/pubsub"
	"github.com/cuemby/burrow/pkg/security"
	"github.com/cuemby/burrow/pkg/store"
	"github.com/cuemby/burrow/pkg/transport"
	"github.com/cuemby/burrow/pkg/wire"
)

func startServer(t *testing.T, opts transport.Options) *transport.Server {
	t.Helper()
	st, err := store.Open(store.Config{Path: t.TempDir()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	svc := kv.NewService(st)
	broker := pubsub.New()

	srv, err := transport.New(opts, svc, broker)
	require.NoError(t, err)

	go func() { _ = srv.Serve() }()
	t.Cleanup(srv.Stop)
	return srv
}

func tcpEndpoint(scheme string, addr net.Addr) string {
	tcpAddr := addr.(*net.TCPAddr)
	return fmt.Sprintf("%s://127.0.0.1:%d", scheme, tcpAddr.Port)
}

// TestPutGetOverHTTP is the plaintext TCP happy path underlying most of
// the other scenarios.
func TestPutGetOverHTTP(t *testing.T) {
	srv := startServer(t, transport.Options{Connection: transport.Connection{Kind: transport.KindHTTP, Host: "127.0.0.1", Port: 0}})

	c, err := client.NewClient(tcpEndpoint("http", srv.Addr()))
	require.NoError(t, err)
	defer c.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, c.Ready(ctx))

	require.NoError(t, c.Put([]byte("1"), []byte("2")))
	value, err := c.Get([]byte("1"))
	require.NoError(t, err)
	assert.Equal(t, []byte("2"), value)
}

// TestAuthRejectsRequestWithoutToken mirrors spec.md §8 scenario 2: a
// server configured with a bearer token rejects a client that omits it.
func TestAuthRejectsRequestWithoutToken(t *testing.T) {
	const token = "Bearer some-secret-tokennnnnnn"
	srv := startServer(t, transport.Options{
		Connection: transport.Connection{Kind: transport.KindHTTP, Host: "127.0.0.1", Port: 0},
		Token:      token,
	})

	authed, err := client.NewClient(tcpEndpoint("http", srv.Addr()), client.WithToken(token))
	require.NoError(t, err)
	defer authed.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, authed.Ready(ctx))

	unauthed, err := client.NewClient(tcpEndpoint("http", srv.Addr()))
	require.NoError(t, err)
	defer unauthed.Close()

	err = unauthed.Put([]byte("a"), []byte("b"))
	require.Error(t, err)
	assert.Equal(t, codes.Unauthenticated, status.Code(err))
}

// TestUDSPathCreatesParentDirectory mirrors spec.md §8 scenario 3.
func TestUDSPathCreatesParentDirectory(t *testing.T) {
	sockPath := filepath.Join(t.TempDir(), "nested", "test_server.ipc")
	startServer(t, transport.Options{Connection: transport.Connection{Kind: transport.KindUDS, Path: sockPath}})

	c, err := client.NewClient("unix://" + sockPath)
	require.NoError(t, err)
	defer c.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, c.Ready(ctx))

	require.NoError(t, c.Put([]byte("1"), []byte("2")))
	value, err := c.Get([]byte("1"))
	require.NoError(t, err)
	assert.Equal(t, []byte("2"), value)
}

// TestTLSPlaintextMismatchFails mirrors spec.md §8 scenario 4: a plaintext
// client against an HTTPS server fails transport instead of succeeding.
func TestTLSPlaintextMismatchFails(t *testing.T) {
	certPEM, keyPEM, err := security.GenerateSelfSigned([]string{"localhost"}, time.Hour, false, false)
	require.NoError(t, err)

	srv := startServer(t, transport.Options{
		Connection: transport.Connection{Kind: transport.KindHTTPS, Host: "127.0.0.1", Port: 0},
		CertPEM:    certPEM,
		KeyPEM:     keyPEM,
	})

	c, err := client.NewClient(tcpEndpoint("http", srv.Addr()), client.WithTimeout(2*time.Second))
	require.NoError(t, err)
	defer c.Close()

	err = c.Put([]byte("1"), []byte("2"))
	assert.Error(t, err)
}

// TestPubSubFanOutOverTheWire mirrors spec.md §8 scenario 5 end to end,
// through the transport and client instead of against the broker directly.
func TestPubSubFanOutOverTheWire(t *testing.T) {
	srv := startServer(t, transport.Options{
		Connection:   transport.Connection{Kind: transport.KindHTTP, Host: "127.0.0.1", Port: 0},
		EnablePubSub: true,
	})

	c, err := client.NewClient(tcpEndpoint("http", srv.Addr()))
	require.NoError(t, err)
	defer c.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, c.Ready(ctx))

	subCtx, cancelSub := context.WithCancel(context.Background())
	defer cancelSub()
	updates, err := c.Subscribe(subCtx, "foo")
	require.NoError(t, err)

	// Give the server time to register the subscription before publishing.
	time.Sleep(50 * time.Millisecond)

	require.NoError(t, c.Publish("foo", "fooval"))
	require.NoError(t, c.Publish("foo", "fooval2"))

	first := recvUpdate(t, updates)
	second := recvUpdate(t, updates)
	assert.Equal(t, "fooval", first.Payload)
	assert.Equal(t, "fooval2", second.Payload)
}

func recvUpdate(t *testing.T, updates <-chan wire.Update) wire.Update {
	t.Helper()
	select {
	case u := <-updates:
		return u
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for pubsub update")
		return wire.Update{}
	}
}
