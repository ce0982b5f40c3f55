package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

const testToken = "Bearer some-secret-tokennnnnnn"

func TestUnaryInterceptorAcceptsMatchingToken(t *testing.T) {
	interceptor := UnaryInterceptor(testToken)
	ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs(metadataKey, testToken))

	called := false
	_, err := interceptor(ctx, nil, &grpc.UnaryServerInfo{FullMethod: "/burrow.KeyValueStore/GetKv"},
		func(ctx context.Context, req interface{}) (interface{}, error) {
			called = true
			return "ok", nil
		})

	require.NoError(t, err)
	assert.True(t, called)
}

func TestUnaryInterceptorRejectsMissingOrWrongToken(t *testing.T) {
	interceptor := UnaryInterceptor(testToken)

	cases := []context.Context{
		context.Background(),
		metadata.NewIncomingContext(context.Background(), metadata.Pairs(metadataKey, "Bearer wrong")),
	}

	for _, ctx := range cases {
		called := false
		_, err := interceptor(ctx, nil, &grpc.UnaryServerInfo{FullMethod: "/burrow.KeyValueStore/GetKv"},
			func(ctx context.Context, req interface{}) (interface{}, error) {
				called = true
				return "ok", nil
			})

		require.Error(t, err)
		assert.Equal(t, codes.Unauthenticated, status.Code(err))
		assert.False(t, called)
	}
}

type fakeServerStream struct {
	grpc.ServerStream
	ctx context.Context
}

func (f *fakeServerStream) Context() context.Context { return f.ctx }

func TestStreamInterceptorRejectsWrongToken(t *testing.T) {
	interceptor := StreamInterceptor(testToken)
	stream := &fakeServerStream{ctx: metadata.NewIncomingContext(context.Background(), metadata.Pairs(metadataKey, "Bearer wrong"))}

	called := false
	err := interceptor(nil, stream, &grpc.StreamServerInfo{FullMethod: "/burrow.PubSub/Subscribe"},
		func(srv interface{}, ss grpc.ServerStream) error {
			called = true
			return nil
		})

	require.Error(t, err)
	assert.Equal(t, codes.Unauthenticated, status.Code(err))
	assert.False(t, called)
}
