// Package auth implements the auth interceptor (C5): a byte-exact bearer
// token check against the "authorization" metadata header, applied to the
// KV and PubSub services when a token is configured and skipped entirely
// when one is not.
//
// Grounded structurally on pkg/api/interceptor.go's
// grpc.UnaryServerInterceptor/grpc.StreamServerInterceptor shape from the
// teacher repo; the comparison itself follows
// original_source/db/src/rpc/server.rs's check_auth, which rejects on
// anything but an exact match of the "authorization" metadata value.
package auth

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/cuemby/burrow/pkg/metrics"
)

const metadataKey = "authorization"

func check(ctx context.Context, token string) error {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		metrics.AuthRejectedTotal.Inc()
		return status.Error(codes.Unauthenticated, "no valid auth token")
	}
	values := md.Get(metadataKey)
	if len(values) != 1 || values[0] != token {
		metrics.AuthRejectedTotal.Inc()
		return status.Error(codes.Unauthenticated, "no valid auth token")
	}
	return nil
}

// UnaryInterceptor rejects any unary call whose "authorization" metadata
// does not exactly equal token.
func UnaryInterceptor(token string) grpc.UnaryServerInterceptor {
	return func(
		ctx context.Context,
		req interface{},
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (interface{}, error) {
		if err := check(ctx, token); err != nil {
			return nil, err
		}
		return handler(ctx, req)
	}
}

// StreamInterceptor is the streaming counterpart of UnaryInterceptor, used
// for the PubSub service's Subscribe method.
func StreamInterceptor(token string) grpc.StreamServerInterceptor {
	return func(
		srv interface{},
		ss grpc.ServerStream,
		info *grpc.StreamServerInfo,
		handler grpc.StreamHandler,
	) error {
		if err := check(ss.Context(), token); err != nil {
			return err
		}
		return handler(srv, ss)
	}
}
