package proto

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ServiceName полное имя gRPC сервиса
const ServiceName = "analyzer.v1.AnalyzerService"

// Полные имена методов
const (
	AnalyzerServiceCreateURLMethod = "/" + ServiceName + "/CreateURL"
	AnalyzerServiceGetURLMethod    = "/" + ServiceName + "/GetURL"
	AnalyzerServiceListURLsMethod  = "/" + ServiceName + "/ListURLs"
	AnalyzerServiceRunCheckMethod  = "/" + ServiceName + "/RunCheck"
	AnalyzerServiceGetStatsMethod  = "/" + ServiceName + "/GetStats"
)

// AnalyzerServiceServer интерфейс серверной части сервиса
type AnalyzerServiceServer interface {
	CreateURL(context.Context, *CreateURLRequest) (*CreateURLResponse, error)
	GetURL(context.Context, *GetURLRequest) (*GetURLResponse, error)
	ListURLs(context.Context, *ListURLsRequest) (*ListURLsResponse, error)
	RunCheck(context.Context, *RunCheckRequest) (*RunCheckResponse, error)
	GetStats(context.Context, *GetStatsRequest) (*GetStatsResponse, error)
}

// UnimplementedAnalyzerServiceServer возвращает Unimplemented для всех методов
type UnimplementedAnalyzerServiceServer struct{}

// CreateURL не реализован
func (UnimplementedAnalyzerServiceServer) CreateURL(context.Context, *CreateURLRequest) (*CreateURLResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method CreateURL not implemented")
}

// GetURL не реализован
func (UnimplementedAnalyzerServiceServer) GetURL(context.Context, *GetURLRequest) (*GetURLResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetURL not implemented")
}

// ListURLs не реализован
func (UnimplementedAnalyzerServiceServer) ListURLs(context.Context, *ListURLsRequest) (*ListURLsResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ListURLs not implemented")
}

// RunCheck не реализован
func (UnimplementedAnalyzerServiceServer) RunCheck(context.Context, *RunCheckRequest) (*RunCheckResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method RunCheck not implemented")
}

// GetStats не реализован
func (UnimplementedAnalyzerServiceServer) GetStats(context.Context, *GetStatsRequest) (*GetStatsResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetStats not implemented")
}

// RegisterAnalyzerServiceServer регистрирует реализацию сервиса в gRPC сервере
func RegisterAnalyzerServiceServer(s grpc.ServiceRegistrar, srv AnalyzerServiceServer) {
	s.RegisterService(&AnalyzerServiceDesc, srv)
}

func unaryHandler[Req any, Resp any](method string, call func(AnalyzerServiceServer, context.Context, *Req) (*Resp, error)) grpc.MethodHandler {
	return func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(AnalyzerServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: method}
		handler := func(ctx context.Context, req interface{}) (interface{}, error) {
			return call(srv.(AnalyzerServiceServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// AnalyzerServiceDesc описание сервиса для grpc.Server
var AnalyzerServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*AnalyzerServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "CreateURL",
			Handler:    unaryHandler(AnalyzerServiceCreateURLMethod, AnalyzerServiceServer.CreateURL),
		},
		{
			MethodName: "GetURL",
			Handler:    unaryHandler(AnalyzerServiceGetURLMethod, AnalyzerServiceServer.GetURL),
		},
		{
			MethodName: "ListURLs",
			Handler:    unaryHandler(AnalyzerServiceListURLsMethod, AnalyzerServiceServer.ListURLs),
		},
		{
			MethodName: "RunCheck",
			Handler:    unaryHandler(AnalyzerServiceRunCheckMethod, AnalyzerServiceServer.RunCheck),
		},
		{
			MethodName: "GetStats",
			Handler:    unaryHandler(AnalyzerServiceGetStatsMethod, AnalyzerServiceServer.GetStats),
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "analyzer/v1/analyzer.proto",
}

// AnalyzerServiceClient клиент сервиса
type AnalyzerServiceClient interface {
	CreateURL(ctx context.Context, in *CreateURLRequest, opts ...grpc.CallOption) (*CreateURLResponse, error)
	GetURL(ctx context.Context, in *GetURLRequest, opts ...grpc.CallOption) (*GetURLResponse, error)
	ListURLs(ctx context.Context, in *ListURLsRequest, opts ...grpc.CallOption) (*ListURLsResponse, error)
	RunCheck(ctx context.Context, in *RunCheckRequest, opts ...grpc.CallOption) (*RunCheckResponse, error)
	GetStats(ctx context.Context, in *GetStatsRequest, opts ...grpc.CallOption) (*GetStatsResponse, error)
}

type analyzerServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewAnalyzerServiceClient создаёт клиент поверх соединения.
// Все вызовы идут через JSON-кодек.
func NewAnalyzerServiceClient(cc grpc.ClientConnInterface) AnalyzerServiceClient {
	return &analyzerServiceClient{cc: cc}
}

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in interface{}, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *analyzerServiceClient) CreateURL(ctx context.Context, in *CreateURLRequest, opts ...grpc.CallOption) (*CreateURLResponse, error) {
	return invoke[CreateURLResponse](ctx, c.cc, AnalyzerServiceCreateURLMethod, in, opts)
}

func (c *analyzerServiceClient) GetURL(ctx context.Context, in *GetURLRequest, opts ...grpc.CallOption) (*GetURLResponse, error) {
	return invoke[GetURLResponse](ctx, c.cc, AnalyzerServiceGetURLMethod, in, opts)
}

func (c *analyzerServiceClient) ListURLs(ctx context.Context, in *ListURLsRequest, opts ...grpc.CallOption) (*ListURLsResponse, error) {
	return invoke[ListURLsResponse](ctx, c.cc, AnalyzerServiceListURLsMethod, in, opts)
}

func (c *analyzerServiceClient) RunCheck(ctx context.Context, in *RunCheckRequest, opts ...grpc.CallOption) (*RunCheckResponse, error) {
	return invoke[RunCheckResponse](ctx, c.cc, AnalyzerServiceRunCheckMethod, in, opts)
}

func (c *analyzerServiceClient) GetStats(ctx context.Context, in *GetStatsRequest, opts ...grpc.CallOption) (*GetStatsResponse, error) {
	return invoke[GetStatsResponse](ctx, c.cc, AnalyzerServiceGetStatsMethod, in, opts)
}
