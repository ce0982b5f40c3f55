package wire

import (
	"context"

	"google.golang.org/grpc"
)

// PubSubServer is the server-side contract for the pub/sub service (C4).
// Subscribe is bidirectional-streaming: per
// original_source/db/src/rpc/pubsub_server.rs, the server reads exactly the
// first inbound message as the topic and never re-enters its receive loop
// after that — it hands the outbound stream to the caller immediately. This
// implementation preserves that discipline; see pkg/pubsub's
// Service.Subscribe for the resolved §9 open question.
type PubSubServer interface {
	Subscribe(stream SubscribeStream) error
	Publish(ctx context.Context, req *PublishRequest) (*Empty, error)
}

// SubscribeStream is the narrowed view of the bidirectional stream a
// Subscribe implementation needs: read one topic name, then push Updates
// until the stream's context is cancelled.
type SubscribeStream interface {
	Context() context.Context
	RecvTopic() (string, error)
	Send(*Update) error
}

type subscribeStream struct {
	grpc.ServerStream
}

func (s *subscribeStream) RecvTopic() (string, error) {
	var topic string
	if err := s.ServerStream.RecvMsg(&topic); err != nil {
		return "", err
	}
	return topic, nil
}

func (s *subscribeStream) Send(u *Update) error {
	return s.ServerStream.SendMsg(u)
}

func _PubSub_Subscribe_Handler(srv interface{}, stream grpc.ServerStream) error {
	return srv.(PubSubServer).Subscribe(&subscribeStream{ServerStream: stream})
}

func _PubSub_Publish_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(PublishRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(PubSubServer).Publish(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/burrow.PubSub/Publish"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(PubSubServer).Publish(ctx, req.(*PublishRequest))
	}
	return interceptor(ctx, in, info, handler)
}

// PubSubServiceDesc is the hand-written equivalent of a protoc-gen-go-grpc
// ServiceDesc for the PubSub service.
var PubSubServiceDesc = grpc.ServiceDesc{
	ServiceName: "burrow.PubSub",
	HandlerType: (*PubSubServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Publish", Handler: _PubSub_Publish_Handler},
	},
	Streams: []grpc.StreamDesc{
		{
			StreamName:    "Subscribe",
			Handler:       _PubSub_Subscribe_Handler,
			ServerStreams: true,
			ClientStreams: true,
		},
	},
	Metadata: "burrow/pubsub.proto",
}

// RegisterPubSubServer registers srv against s using PubSubServiceDesc.
func RegisterPubSubServer(s grpc.ServiceRegistrar, srv PubSubServer) {
	s.RegisterService(&PubSubServiceDesc, srv)
}

// PubSubClient is the client-side contract mirroring PubSubServer.
type PubSubClient interface {
	Publish(ctx context.Context, topic, payload string) (*Empty, error)
	Subscribe(ctx context.Context, topic string) (SubscribeClientStream, error)
}

// SubscribeClientStream is the client's view of an open Subscribe stream:
// it has already sent the topic and reads Updates back.
type SubscribeClientStream interface {
	Recv() (*Update, error)
	CloseSend() error
}

type pubSubClient struct {
	cc grpc.ClientConnInterface
}

// NewPubSubClient returns a thin client-side wrapper for the pub/sub service.
func NewPubSubClient(cc grpc.ClientConnInterface) PubSubClient {
	return &pubSubClient{cc: cc}
}

func (c *pubSubClient) Publish(ctx context.Context, topic, payload string) (*Empty, error) {
	out := new(Empty)
	req := &PublishRequest{Topic: topic, Payload: payload}
	if err := c.cc.Invoke(ctx, "/burrow.PubSub/Publish", req, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *pubSubClient) Subscribe(ctx context.Context, topic string) (SubscribeClientStream, error) {
	stream, err := c.cc.NewStream(ctx, &PubSubServiceDesc.Streams[0], "/burrow.PubSub/Subscribe")
	if err != nil {
		return nil, err
	}
	if err := stream.SendMsg(&topic); err != nil {
		return nil, err
	}
	if err := stream.CloseSend(); err != nil {
		return nil, err
	}
	return &subscribeClientStream{stream}, nil
}

type subscribeClientStream struct {
	grpc.ClientStream
}

func (s *subscribeClientStream) Recv() (*Update, error) {
	u := new(Update)
	if err := s.ClientStream.RecvMsg(u); err != nil {
		return nil, err
	}
	return u, nil
}
