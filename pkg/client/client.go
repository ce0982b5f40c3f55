// Package client implements the client handle (C7): a typed wrapper
// around a grpc.ClientConn that dials the matching transport (plaintext
// TCP, TLS TCP, or Unix Domain Socket), transparently attaches the bearer
// token, and exposes unary and streaming KV/pub-sub calls.
//
// Grounded on pkg/client/client.go's per-call
// `context.WithTimeout(context.Background(), 10*time.Second)` wrapper and
// grpc.Dial/grpc.WithTransportCredentials construction from the teacher
// repo, trimmed of its mTLS certificate-issuance flow (this service has no
// client-certificate identity) and retargeted at pkg/wire's hand-written
// KVClient/PubSubClient instead of generated protobuf stubs.
package client

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/url"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/cuemby/burrow/pkg/wire"
)

const defaultCallTimeout = 10 * time.Second

// Option configures NewClient.
type Option func(*options)

type options struct {
	token     string
	tlsConfig *tls.Config
	timeout   time.Duration
}

// WithToken attaches token as the "authorization" metadata on every
// outbound request, per spec.md §4.5's client-side rule: the token is
// sent verbatim, including any scheme prefix the caller wants.
func WithToken(token string) Option {
	return func(o *options) { o.token = token }
}

// WithRootCAs replaces the default TLS configuration (InsecureSkipVerify:
// true) with tlsConfig, used as given; passing one with RootCAs set opts
// into strict server-certificate verification against that pool. This
// is the §9 open question's resolved default: disabled unless the caller
// explicitly opts in.
func WithRootCAs(tlsConfig *tls.Config) Option {
	return func(o *options) { o.tlsConfig = tlsConfig }
}

// WithTimeout overrides the default 10-second per-call timeout.
func WithTimeout(d time.Duration) Option {
	return func(o *options) { o.timeout = d }
}

// Client is a typed remote handle to a burrow server.
type Client struct {
	conn    *grpc.ClientConn
	kv      wire.KVClient
	pubsub  wire.PubSubClient
	timeout time.Duration
}

// NewClient dials endpoint, whose scheme selects the transport: "http" for
// plaintext TCP, "https" for TLS TCP, "unix" for a Unix Domain Socket. The
// connection is lazily established; call Ready to wait for the server to
// come up.
func NewClient(endpoint string, opts ...Option) (*Client, error) {
	cfg := &options{timeout: defaultCallTimeout}
	for _, opt := range opts {
		opt(cfg)
	}

	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("client: parsing endpoint %q: %w", endpoint, err)
	}

	dialOpts := []grpc.DialOption{
		grpc.WithDefaultCallOptions(grpc.ForceCodec(wire.Codec{})),
	}

	var target string
	switch u.Scheme {
	case "unix":
		path := u.Path
		if path == "" {
			path = u.Opaque
		}
		target = "passthrough:///" + path
		dialOpts = append(dialOpts,
			grpc.WithTransportCredentials(insecure.NewCredentials()),
			grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
				var d net.Dialer
				return d.DialContext(ctx, "unix", path)
			}),
		)
	case "https":
		tlsConfig := cfg.tlsConfig
		if tlsConfig == nil {
			tlsConfig = &tls.Config{InsecureSkipVerify: true}
		}
		target = u.Host
		dialOpts = append(dialOpts, grpc.WithTransportCredentials(credentials.NewTLS(tlsConfig)))
	default:
		target = u.Host
		dialOpts = append(dialOpts, grpc.WithTransportCredentials(insecure.NewCredentials()))
	}

	if cfg.token != "" {
		dialOpts = append(dialOpts, grpc.WithPerRPCCredentials(tokenCredential{token: cfg.token}))
	}

	conn, err := grpc.Dial(target, dialOpts...)
	if err != nil {
		return nil, fmt.Errorf("client: dialing %q: %w", endpoint, err)
	}

	return &Client{
		conn:    conn,
		kv:      wire.NewKVClient(conn),
		pubsub:  wire.NewPubSubClient(conn),
		timeout: cfg.timeout,
	}, nil
}

// Close closes the underlying connection.
func (c *Client) Close() error {
	return c.conn.Close()
}

func (c *Client) callCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), c.timeout)
}

// Ready polls HealthCheck on a 250ms cadence until it observes ok = true,
// or ctx is cancelled. Callers supply their own outer deadline.
func (c *Client) Ready(ctx context.Context) error {
	ticker := time.NewTicker(250 * time.Millisecond)
	defer ticker.Stop()

	for {
		checkCtx, cancel := context.WithTimeout(ctx, c.timeout)
		resp, err := c.kv.HealthCheck(checkCtx)
		cancel()
		if err == nil && resp.OK {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// Put writes key/value into the Default tree.
func (c *Client) Put(key, value []byte) error {
	ctx, cancel := c.callCtx()
	defer cancel()
	_, err := c.kv.PutKv(ctx, &wire.KeyValue{Key: key, Value: value})
	return err
}

// Get reads key from the Default tree.
func (c *Client) Get(key []byte) ([]byte, error) {
	ctx, cancel := c.callCtx()
	defer cancel()
	return c.kv.GetKv(ctx, key)
}

// List scans tree (nil or empty selects Default).
func (c *Client) List(tree []byte) ([]wire.KeyValue, error) {
	ctx, cancel := c.callCtx()
	defer cancel()
	values, err := c.kv.List(ctx, tree)
	if err != nil {
		return nil, err
	}
	return values.Entries, nil
}

// PutMany applies a batched write across one or more trees, keyed by wire
// tree name (empty string ⇒ Default, else base64 of the raw tree name).
func (c *Client) PutMany(entries map[string][]wire.KeyValue) error {
	ctx, cancel := c.callCtx()
	defer cancel()
	_, err := c.kv.PutKvs(ctx, &wire.PutKVsRequest{Entries: entries})
	return err
}

// DeleteMany mirrors PutMany for removals.
func (c *Client) DeleteMany(entries map[string][][]byte) error {
	ctx, cancel := c.callCtx()
	defer cancel()
	_, err := c.kv.DeleteKvs(ctx, &wire.DeleteKVsRequest{Entries: entries})
	return err
}

// Exists reports single-key presence in the Default tree.
func (c *Client) Exists(key []byte) (wire.Exists, error) {
	ctx, cancel := c.callCtx()
	defer cancel()
	return c.kv.Exist(ctx, key)
}

// BatchExists reports presence across one or more trees, keyed the same
// way as PutMany.
func (c *Client) BatchExists(entries map[string][][]byte) (*wire.ExistKVsResponse, error) {
	ctx, cancel := c.callCtx()
	defer cancel()
	return c.kv.BatchExist(ctx, &wire.ExistsKVsRequest{Entries: entries})
}

// Publish sends payload to every subscriber currently registered on topic.
func (c *Client) Publish(topic, payload string) error {
	ctx, cancel := c.callCtx()
	defer cancel()
	_, err := c.pubsub.Publish(ctx, topic, payload)
	return err
}

// Subscribe opens a streaming subscription on topic and returns a channel
// of updates, closed when ctx is cancelled or the stream ends.
func (c *Client) Subscribe(ctx context.Context, topic string) (<-chan wire.Update, error) {
	stream, err := c.pubsub.Subscribe(ctx, topic)
	if err != nil {
		return nil, err
	}

	updates := make(chan wire.Update)
	go func() {
		defer close(updates)
		for {
			msg, err := stream.Recv()
			if err != nil {
				return
			}
			select {
			case updates <- *msg:
			case <-ctx.Done():
				return
			}
		}
	}()
	return updates, nil
}

type tokenCredential struct {
	token string
}

func (t tokenCredential) GetRequestMetadata(ctx context.Context, uri ...string) (map[string]string, error) {
	return map[string]string{"authorization": t.token}, nil
}

func (t tokenCredential) RequireTransportSecurity() bool { return false }

var _ credentials.PerRPCCredentials = tokenCredential{}
