package grpcserver

import (
	"context"

	"google.golang.org/grpc"

	"telugudb/internal/catalog"
	"telugudb/pkg/models"
)

const serviceName = "telugudb.catalog.v1.Catalog"

const (
	MethodListContent = "/" + serviceName + "/ListContent"
	MethodGetContent  = "/" + serviceName + "/GetContent"
	MethodGetStats    = "/" + serviceName + "/GetStats"
)

type ListContentRequest struct {
	Type     string `json:"type,omitempty"`
	Language string `json:"language,omitempty"`
	Category string `json:"category,omitempty"`
	Search   string `json:"search,omitempty"`
}

type ListContentResponse struct {
	Items []models.Content `json:"items"`
}

type GetContentRequest struct {
	ID string `json:"id"`
}

type GetContentResponse struct {
	Content *models.Content `json:"content"`
}

type StatsRequest struct{}

type StatsResponse struct {
	Stats catalog.Stats `json:"stats"`
}

// CatalogServer is the read side of the catalog over gRPC.
type CatalogServer interface {
	ListContent(context.Context, *ListContentRequest) (*ListContentResponse, error)
	GetContent(context.Context, *GetContentRequest) (*GetContentResponse, error)
	GetStats(context.Context, *StatsRequest) (*StatsResponse, error)
}

func RegisterCatalogServer(s grpc.ServiceRegistrar, srv CatalogServer) {
	s.RegisterService(&catalogServiceDesc, srv)
}

var catalogServiceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*CatalogServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "ListContent", Handler: listContentHandler},
		{MethodName: "GetContent", Handler: getContentHandler},
		{MethodName: "GetStats", Handler: getStatsHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "telugudb/catalog/v1/catalog",
}

func listContentHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(ListContentRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(CatalogServer).ListContent(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: MethodListContent}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(CatalogServer).ListContent(ctx, req.(*ListContentRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func getContentHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(GetContentRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(CatalogServer).GetContent(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: MethodGetContent}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(CatalogServer).GetContent(ctx, req.(*GetContentRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func getStatsHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(StatsRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(CatalogServer).GetStats(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: MethodGetStats}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(CatalogServer).GetStats(ctx, req.(*StatsRequest))
	}
	return interceptor(ctx, in, info, handler)
}

// CatalogClient calls the catalog service using the JSON codec.
type CatalogClient struct {
	cc grpc.ClientConnInterface
}

func NewCatalogClient(cc grpc.ClientConnInterface) *CatalogClient {
	return &CatalogClient{cc: cc}
}

func (c *CatalogClient) ListContent(ctx context.Context, in *ListContentRequest, opts ...grpc.CallOption) (*ListContentResponse, error) {
	out := new(ListContentResponse)
	if err := c.cc.Invoke(ctx, MethodListContent, in, out, withCodec(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *CatalogClient) GetContent(ctx context.Context, in *GetContentRequest, opts ...grpc.CallOption) (*GetContentResponse, error) {
	out := new(GetContentResponse)
	if err := c.cc.Invoke(ctx, MethodGetContent, in, out, withCodec(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *CatalogClient) GetStats(ctx context.Context, in *StatsRequest, opts ...grpc.CallOption) (*StatsResponse, error) {
	out := new(StatsResponse)
	if err := c.cc.Invoke(ctx, MethodGetStats, in, out, withCodec(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func withCodec(opts []grpc.CallOption) []grpc.CallOption {
	return append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
}
