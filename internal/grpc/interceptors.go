package grpc

import (
	"context"
	"net"
	"time"

	"github.com/tempizhere/pageanalyzer/internal/grpc/proto"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/peer"
	"google.golang.org/grpc/status"
)

// TrustedSubnetInterceptor ограничивает GetStats клиентами из доверенной подсети.
// Адрес клиента берётся из соединения. Пустая или некорректная подсеть запрещает доступ всем.
func TrustedSubnetInterceptor(trustedSubnet string, logger *zap.Logger) grpc.UnaryServerInterceptor {
	var network *net.IPNet
	if trustedSubnet != "" {
		_, parsed, err := net.ParseCIDR(trustedSubnet)
		if err != nil {
			logger.Error("Invalid trusted subnet", zap.String("subnet", trustedSubnet), zap.Error(err))
		} else {
			network = parsed
		}
	}

	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		if info.FullMethod != proto.AnalyzerServiceGetStatsMethod {
			return handler(ctx, req)
		}

		if network == nil {
			return nil, status.Error(codes.PermissionDenied, "trusted subnet not configured")
		}

		p, ok := peer.FromContext(ctx)
		if !ok || p.Addr == nil {
			return nil, status.Error(codes.PermissionDenied, "failed to get peer info")
		}

		clientIP := p.Addr.String()
		if tcpAddr, ok := p.Addr.(*net.TCPAddr); ok {
			clientIP = tcpAddr.IP.String()
		}

		ip := net.ParseIP(clientIP)
		if ip == nil || !network.Contains(ip) {
			logger.Warn("Access denied from untrusted IP", zap.String("ip", clientIP))
			return nil, status.Error(codes.PermissionDenied, "access denied")
		}

		return handler(ctx, req)
	}
}

// LoggingInterceptor создаёт интерцептор для логирования gRPC запросов
func LoggingInterceptor(logger *zap.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		start := time.Now()

		resp, err := handler(ctx, req)

		var clientIP string
		if p, ok := peer.FromContext(ctx); ok && p.Addr != nil {
			clientIP = p.Addr.String()
		}

		code := status.Code(err)
		fields := []zap.Field{
			zap.String("method", info.FullMethod),
			zap.String("client_ip", clientIP),
			zap.String("status_code", code.String()),
			zap.Duration("duration", time.Since(start)),
		}
		if code == codes.Internal || code == codes.Unknown {
			logger.Error("gRPC request", append(fields, zap.Error(err))...)
			return resp, err
		}
		if err != nil {
			fields = append(fields, zap.Error(err))
		}
		logger.Info("gRPC request", fields...)

		return resp, err
	}
}
