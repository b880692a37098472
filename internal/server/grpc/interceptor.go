package grpc

import (
	"context"
	"time"

	"github.com/dmitrijs2005/tilapp/internal/logging"
	"google.golang.org/grpc"
	"google.golang.org/grpc/status"
)

func (s *GRPCServer) loggingInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	start := time.Now()
	ctx = logging.WithAttrs(ctx, "rpc", info.FullMethod)
	resp, err := handler(ctx, req)

	code := status.Code(err)
	if err != nil {
		s.logger.Warn(ctx, "rpc failed", "code", code.String(), "latency", time.Since(start), "error", err)
		return resp, err
	}

	s.logger.Debug(ctx, "rpc handled", "code", code.String(), "latency", time.Since(start))
	return resp, nil
}
