package pubsub

import (
	"context"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/cuemby/burrow/pkg/log"
	"github.com/cuemby/burrow/pkg/wire"
)

// Service implements wire.PubSubServer against a Broker.
type Service struct {
	broker *Broker
}

// NewService wires the RPC-facing PubSub service to broker.
func NewService(broker *Broker) *Service {
	return &Service{broker: broker}
}

// Publish fans msg out to every current subscriber on req.Topic.
func (s *Service) Publish(ctx context.Context, req *wire.PublishRequest) (*wire.Empty, error) {
	s.broker.Publish(req.Topic, wire.Update{Topic: req.Topic, Payload: req.Payload})
	return &wire.Empty{}, nil
}

// Subscribe reads exactly the first inbound message as the topic name and
// never re-enters its receive loop afterward — matching
// original_source/db/src/rpc/pubsub_server.rs exactly, which resolves the
// spec's open question about additional inbound messages on the same
// stream: they are never read, because the server stops consuming the
// client-to-server half of the stream the moment it starts pumping the
// subscription into the server-to-client half.
func (s *Service) Subscribe(stream wire.SubscribeStream) error {
	topic, err := stream.RecvTopic()
	if err != nil {
		return status.Errorf(codes.Internal, "pubsub: reading topic: %v", err)
	}

	sink, unsubscribe := s.broker.Subscribe(topic)
	defer unsubscribe()

	topicLog := log.WithTopic(topic)
	topicLog.Debug().Msg("subscriber registered")

	for {
		select {
		case <-stream.Context().Done():
			return nil
		case msg, ok := <-sink.Messages():
			if !ok {
				return nil
			}
			if err := stream.Send(&msg); err != nil {
				return err
			}
		}
	}
}
