package grpcserver

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"telugudb/internal/auth"
	"telugudb/internal/catalog"
	"telugudb/pkg/metrics"
	"telugudb/pkg/models"
)

type Server struct {
	Store catalog.Store
	log   zerolog.Logger
}

var _ CatalogServer = (*Server)(nil)

func NewServer(store catalog.Store, log zerolog.Logger) *Server {
	return &Server{Store: store, log: log.With().Str("component", "grpc").Logger()}
}

// New builds a grpc.Server with the catalog service registered behind the
// logging and admin key interceptors.
func New(store catalog.Store, gate *auth.Gate, log zerolog.Logger, opts ...grpc.ServerOption) *grpc.Server {
	svc := NewServer(store, log)
	opts = append(opts, grpc.ChainUnaryInterceptor(
		LoggingInterceptor(svc.log),
		AdminKeyInterceptor(gate, MethodGetStats),
	))
	s := grpc.NewServer(opts...)
	RegisterCatalogServer(s, svc)
	return s
}

func (s *Server) ListContent(ctx context.Context, req *ListContentRequest) (*ListContentResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request required")
	}
	f := catalog.Filter{
		Type:     models.ContentType(strings.TrimSpace(req.Type)),
		Language: strings.TrimSpace(req.Language),
		Category: strings.TrimSpace(req.Category),
		Search:   strings.TrimSpace(req.Search),
	}

	items, err := s.Store.List(ctx, f)
	if err != nil {
		s.log.Error().Err(err).Msg("list content")
		return nil, status.Error(codes.Internal, "list failed")
	}
	return &ListContentResponse{Items: items}, nil
}

func (s *Server) GetContent(ctx context.Context, req *GetContentRequest) (*GetContentResponse, error) {
	if req == nil || strings.TrimSpace(req.ID) == "" {
		return nil, status.Error(codes.InvalidArgument, "id required")
	}

	item, err := s.Store.Get(ctx, req.ID)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			return nil, status.Error(codes.NotFound, "not found")
		}
		s.log.Error().Err(err).Str("id", req.ID).Msg("get content")
		return nil, status.Error(codes.Internal, "get failed")
	}
	return &GetContentResponse{Content: item}, nil
}

func (s *Server) GetStats(ctx context.Context, _ *StatsRequest) (*StatsResponse, error) {
	items, err := s.Store.List(ctx, catalog.Filter{})
	if err != nil {
		s.log.Error().Err(err).Msg("fetch stats")
		return nil, status.Error(codes.Internal, "stats failed")
	}
	return &StatsResponse{Stats: catalog.ComputeStats(items)}, nil
}

// AdminKeyInterceptor requires a valid x-admin-key metadata value on the
// listed methods. Other methods pass through.
func AdminKeyInterceptor(gate *auth.Gate, methods ...string) grpc.UnaryServerInterceptor {
	protected := make(map[string]struct{}, len(methods))
	for _, m := range methods {
		protected[m] = struct{}{}
	}

	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		if _, ok := protected[info.FullMethod]; !ok {
			return handler(ctx, req)
		}

		var key string
		if md, ok := metadata.FromIncomingContext(ctx); ok {
			if vals := md.Get(auth.HeaderAdminKey); len(vals) > 0 {
				key = vals[0]
			}
		}
		if !gate.Authorize(key) {
			metrics.AdminAuthFailures.Inc()
			return nil, status.Error(codes.Unauthenticated, "unauthorized")
		}
		return handler(ctx, req)
	}
}

// LoggingInterceptor logs one line per call.
func LoggingInterceptor(log zerolog.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := handler(ctx, req)

		code := status.Code(err)
		ev := log.Info()
		if code != codes.OK && code != codes.NotFound && code != codes.Unauthenticated {
			ev = log.Error()
		}
		ev.Str("method", info.FullMethod).
			Str("code", code.String()).
			Dur("latency", time.Since(start)).
			Msg("grpc call")
		return resp, err
	}
}
