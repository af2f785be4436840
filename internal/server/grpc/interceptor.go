package grpc

import (
	"context"
	"strings"
	"time"

	"github.com/dmitrijs2005/stockkeeper/internal/common"
	"github.com/dmitrijs2005/stockkeeper/internal/logging"
	"github.com/dmitrijs2005/stockkeeper/internal/server/models"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

type ctxKey string

const sessionKey ctxKey = "session"

// publicMethods are served without an access token.
var publicMethods = map[string]struct{}{
	FullMethod("Ping"):     {},
	FullMethod("Register"): {},
	FullMethod("Login"):    {},
}

func (s *GRPCServer) accessTokenInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {

	if _, ok := publicMethods[info.FullMethod]; ok {
		return handler(ctx, req)
	}

	var accessToken string
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		values := md.Get(common.AccessTokenHeaderName)
		if len(values) > 0 {
			accessToken = values[0]
		}
	}
	if len(accessToken) == 0 {
		return nil, status.Error(codes.Unauthenticated, "missing token")
	}

	sess, err := s.accounts.Authenticate(ctx, accessToken)
	if err != nil {
		if statusCode(err) == codes.Internal {
			s.logger.Error(ctx, "authentication failed", "error", err.Error())
		}
		return nil, toStatus(err)
	}

	ctx = logging.ContextWithAttrs(ctx, "account_id", sess.AccountID)
	return handler(context.WithValue(ctx, sessionKey, sess), req)
}

func (s *GRPCServer) metricsInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	start := time.Now()
	resp, err := handler(ctx, req)
	s.metrics.ObserveRequest(methodName(info.FullMethod), status.Code(err).String(), time.Since(start))
	return resp, err
}

func sessionFromContext(ctx context.Context) *models.Session {
	sess, _ := ctx.Value(sessionKey).(*models.Session)
	return sess
}

func methodName(fullMethod string) string {
	if i := strings.LastIndexByte(fullMethod, '/'); i >= 0 {
		return fullMethod[i+1:]
	}
	return fullMethod
}
