package wire

import (
	"context"

	"google.golang.org/grpc"
)

// KVServer is the server-side contract for the KV service (C3), named and
// shaped after original_source/db/src/rpc/types.rs's KeyValueStore trait.
// This stands in for what protoc-gen-go-grpc would otherwise generate from
// a .proto file — none exists for this service in the retrieved pack, so
// the service descriptor below is hand-written following the same shape.
type KVServer interface {
	GetKv(ctx context.Context, key []byte) ([]byte, error)
	List(ctx context.Context, tree []byte) (*Values, error)
	PutKv(ctx context.Context, kv *KeyValue) (*Empty, error)
	PutKvs(ctx context.Context, req *PutKVsRequest) (*Empty, error)
	DeleteKv(ctx context.Context, key []byte) (*Empty, error)
	DeleteKvs(ctx context.Context, req *DeleteKVsRequest) (*Empty, error)
	Exist(ctx context.Context, key []byte) (Exists, error)
	BatchExist(ctx context.Context, req *ExistsKVsRequest) (*ExistKVsResponse, error)
	HealthCheck(ctx context.Context) (*HealthCheckResponse, error)
}

func _KV_GetKv_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(Bytes)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		value, err := srv.(KVServer).GetKv(ctx, in.Value)
		if err != nil {
			return nil, err
		}
		return &Bytes{Value: value}, nil
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/burrow.KeyValueStore/GetKv"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		value, err := srv.(KVServer).GetKv(ctx, req.(*Bytes).Value)
		if err != nil {
			return nil, err
		}
		return &Bytes{Value: value}, nil
	}
	return interceptor(ctx, in, info, handler)
}

func _KV_List_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(Bytes)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(KVServer).List(ctx, in.Value)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/burrow.KeyValueStore/List"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(KVServer).List(ctx, req.(*Bytes).Value)
	}
	return interceptor(ctx, in, info, handler)
}

func _KV_PutKv_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(KeyValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(KVServer).PutKv(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/burrow.KeyValueStore/PutKv"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(KVServer).PutKv(ctx, req.(*KeyValue))
	}
	return interceptor(ctx, in, info, handler)
}

func _KV_PutKvs_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(PutKVsRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(KVServer).PutKvs(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/burrow.KeyValueStore/PutKvs"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(KVServer).PutKvs(ctx, req.(*PutKVsRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _KV_DeleteKv_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(Bytes)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(KVServer).DeleteKv(ctx, in.Value)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/burrow.KeyValueStore/DeleteKv"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(KVServer).DeleteKv(ctx, req.(*Bytes).Value)
	}
	return interceptor(ctx, in, info, handler)
}

func _KV_DeleteKvs_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(DeleteKVsRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(KVServer).DeleteKvs(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/burrow.KeyValueStore/DeleteKvs"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(KVServer).DeleteKvs(ctx, req.(*DeleteKVsRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _KV_Exist_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(Bytes)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		status, err := srv.(KVServer).Exist(ctx, in.Value)
		if err != nil {
			return nil, err
		}
		return &ExistsResponse{Status: status}, nil
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/burrow.KeyValueStore/Exist"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		status, err := srv.(KVServer).Exist(ctx, req.(*Bytes).Value)
		if err != nil {
			return nil, err
		}
		return &ExistsResponse{Status: status}, nil
	}
	return interceptor(ctx, in, info, handler)
}

func _KV_BatchExist_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(ExistsKVsRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(KVServer).BatchExist(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/burrow.KeyValueStore/BatchExist"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(KVServer).BatchExist(ctx, req.(*ExistsKVsRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _KV_HealthCheck_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(KVServer).HealthCheck(ctx)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/burrow.KeyValueStore/HealthCheck"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(KVServer).HealthCheck(ctx)
	}
	return interceptor(ctx, in, info, handler)
}

// KVServiceDesc is the hand-written equivalent of a protoc-gen-go-grpc
// ServiceDesc for the KeyValueStore service.
var KVServiceDesc = grpc.ServiceDesc{
	ServiceName: "burrow.KeyValueStore",
	HandlerType: (*KVServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "GetKv", Handler: _KV_GetKv_Handler},
		{MethodName: "List", Handler: _KV_List_Handler},
		{MethodName: "PutKv", Handler: _KV_PutKv_Handler},
		{MethodName: "PutKvs", Handler: _KV_PutKvs_Handler},
		{MethodName: "DeleteKv", Handler: _KV_DeleteKv_Handler},
		{MethodName: "DeleteKvs", Handler: _KV_DeleteKvs_Handler},
		{MethodName: "Exist", Handler: _KV_Exist_Handler},
		{MethodName: "BatchExist", Handler: _KV_BatchExist_Handler},
		{MethodName: "HealthCheck", Handler: _KV_HealthCheck_Handler},
	},
	Metadata: "burrow/kv.proto",
}

// RegisterKVServer registers srv against s using KVServiceDesc.
func RegisterKVServer(s grpc.ServiceRegistrar, srv KVServer) {
	s.RegisterService(&KVServiceDesc, srv)
}

// NewKVClient returns a thin client-side wrapper for the KV service.
func NewKVClient(cc grpc.ClientConnInterface) KVClient {
	return &kvClient{cc: cc}
}

// KVClient is the client-side contract mirroring KVServer.
type KVClient interface {
	GetKv(ctx context.Context, key []byte) ([]byte, error)
	List(ctx context.Context, tree []byte) (*Values, error)
	PutKv(ctx context.Context, kv *KeyValue) (*Empty, error)
	PutKvs(ctx context.Context, req *PutKVsRequest) (*Empty, error)
	DeleteKv(ctx context.Context, key []byte) (*Empty, error)
	DeleteKvs(ctx context.Context, req *DeleteKVsRequest) (*Empty, error)
	Exist(ctx context.Context, key []byte) (Exists, error)
	BatchExist(ctx context.Context, req *ExistsKVsRequest) (*ExistKVsResponse, error)
	HealthCheck(ctx context.Context) (*HealthCheckResponse, error)
}

type kvClient struct {
	cc grpc.ClientConnInterface
}

func (c *kvClient) GetKv(ctx context.Context, key []byte) ([]byte, error) {
	out := new(Bytes)
	if err := c.cc.Invoke(ctx, "/burrow.KeyValueStore/GetKv", &Bytes{Value: key}, out); err != nil {
		return nil, err
	}
	return out.Value, nil
}

func (c *kvClient) List(ctx context.Context, tree []byte) (*Values, error) {
	out := new(Values)
	if err := c.cc.Invoke(ctx, "/burrow.KeyValueStore/List", &Bytes{Value: tree}, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *kvClient) PutKv(ctx context.Context, kv *KeyValue) (*Empty, error) {
	out := new(Empty)
	if err := c.cc.Invoke(ctx, "/burrow.KeyValueStore/PutKv", kv, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *kvClient) PutKvs(ctx context.Context, req *PutKVsRequest) (*Empty, error) {
	out := new(Empty)
	if err := c.cc.Invoke(ctx, "/burrow.KeyValueStore/PutKvs", req, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *kvClient) DeleteKv(ctx context.Context, key []byte) (*Empty, error) {
	out := new(Empty)
	if err := c.cc.Invoke(ctx, "/burrow.KeyValueStore/DeleteKv", &Bytes{Value: key}, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *kvClient) DeleteKvs(ctx context.Context, req *DeleteKVsRequest) (*Empty, error) {
	out := new(Empty)
	if err := c.cc.Invoke(ctx, "/burrow.KeyValueStore/DeleteKvs", req, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *kvClient) Exist(ctx context.Context, key []byte) (Exists, error) {
	out := new(ExistsResponse)
	if err := c.cc.Invoke(ctx, "/burrow.KeyValueStore/Exist", &Bytes{Value: key}, out); err != nil {
		return 0, err
	}
	return out.Status, nil
}

func (c *kvClient) BatchExist(ctx context.Context, req *ExistsKVsRequest) (*ExistKVsResponse, error) {
	out := new(ExistKVsResponse)
	if err := c.cc.Invoke(ctx, "/burrow.KeyValueStore/BatchExist", req, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *kvClient) HealthCheck(ctx context.Context) (*HealthCheckResponse, error) {
	out := new(HealthCheckResponse)
	if err := c.cc.Invoke(ctx, "/burrow.KeyValueStore/HealthCheck", &Empty{}, out); err != nil {
		return nil, err
	}
	return out, nil
}
