// Package grpc содержит внутренний gRPC API анализатора страниц
package grpc

import (
	"context"
	"errors"

	"github.com/tempizhere/pageanalyzer/internal/grpc/proto"
	"github.com/tempizhere/pageanalyzer/internal/service"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Server реализует gRPC сервис анализатора поверх service.Service
type Server struct {
	proto.UnimplementedAnalyzerServiceServer
	svc    *service.Service
	logger *zap.Logger
}

// NewServer создаёт новый gRPC сервер
func NewServer(svc *service.Service, logger *zap.Logger) *Server {
	return &Server{
		svc:    svc,
		logger: logger,
	}
}

// NewGRPCServer создаёт grpc.Server с зарегистрированным сервисом и интерцепторами.
// GetStats доступен только из trustedSubnet.
func NewGRPCServer(srv *Server, trustedSubnet string, logger *zap.Logger) *grpc.Server {
	s := grpc.NewServer(grpc.ChainUnaryInterceptor(
		LoggingInterceptor(logger),
		TrustedSubnetInterceptor(trustedSubnet, logger),
	))
	proto.RegisterAnalyzerServiceServer(s, srv)
	return s
}

// CreateURL добавляет адрес или возвращает существующий
func (s *Server) CreateURL(ctx context.Context, req *proto.CreateURLRequest) (*proto.CreateURLResponse, error) {
	u, created, err := s.svc.CreateURL(ctx, req.URL)
	if err != nil {
		return nil, s.mapError(err)
	}
	return &proto.CreateURLResponse{URL: u, Created: created}, nil
}

// GetURL возвращает адрес и его проверки
func (s *Server) GetURL(ctx context.Context, req *proto.GetURLRequest) (*proto.GetURLResponse, error) {
	if req.ID <= 0 {
		return nil, status.Error(codes.InvalidArgument, "id must be positive")
	}

	u, err := s.svc.GetURL(ctx, req.ID)
	if err != nil {
		return nil, s.mapError(err)
	}
	checks, err := s.svc.ListChecks(ctx, req.ID)
	if err != nil {
		return nil, s.mapError(err)
	}
	return &proto.GetURLResponse{URL: u, Checks: checks}, nil
}

// ListURLs возвращает все адреса
func (s *Server) ListURLs(ctx context.Context, _ *proto.ListURLsRequest) (*proto.ListURLsResponse, error) {
	items, err := s.svc.ListURLs(ctx)
	if err != nil {
		return nil, s.mapError(err)
	}
	return &proto.ListURLsResponse{URLs: items}, nil
}

// RunCheck проверяет адрес и возвращает сохранённый результат
func (s *Server) RunCheck(ctx context.Context, req *proto.RunCheckRequest) (*proto.RunCheckResponse, error) {
	if req.ID <= 0 {
		return nil, status.Error(codes.InvalidArgument, "id must be positive")
	}

	check, err := s.svc.RunCheck(ctx, req.ID)
	if err != nil {
		return nil, s.mapError(err)
	}
	return &proto.RunCheckResponse{Check: check}, nil
}

// GetStats возвращает статистику сервиса
func (s *Server) GetStats(ctx context.Context, _ *proto.GetStatsRequest) (*proto.GetStatsResponse, error) {
	stats, err := s.svc.Stats(ctx)
	if err != nil {
		return nil, s.mapError(err)
	}
	return &proto.GetStatsResponse{Stats: stats}, nil
}

// mapError преобразует ошибки бизнес-логики в gRPC статусы
func (s *Server) mapError(err error) error {
	var validationErr *service.ValidationError

	switch {
	case errors.As(err, &validationErr):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, service.ErrURLNotFound):
		return status.Error(codes.NotFound, "url not found")
	case errors.Is(err, service.ErrConnectionFailed):
		return status.Error(codes.Unavailable, err.Error())
	default:
		s.logger.Error("Unexpected error", zap.Error(err))
		return status.Error(codes.Internal, "internal server error")
	}
}
