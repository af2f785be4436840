package grpc

import (
	"context"
	"net"

	"github.com/dmitrijs2005/stockkeeper/internal/logging"
	"github.com/dmitrijs2005/stockkeeper/internal/server/metrics"
	"github.com/dmitrijs2005/stockkeeper/internal/server/services"
	"google.golang.org/grpc"
)

// Services groups the business services exposed over gRPC.
type Services struct {
	Accounts  *services.AccountService
	TwoFactor *services.TwoFactorService
	Products  *services.ProductService
	Sales     *services.SaleService
	Reports   *services.ReportService
}

type GRPCServer struct {
	address   string
	accounts  *services.AccountService
	twoFactor *services.TwoFactorService
	products  *services.ProductService
	sales     *services.SaleService
	reports   *services.ReportService
	metrics   *metrics.Recorder
	logger    logging.Logger
}

var _ StockKeeperServer = (*GRPCServer)(nil)

// NewGRPCServer creates a server bound to address a. m may be nil.
func NewGRPCServer(a string, l logging.Logger, svc Services, m *metrics.Recorder) *GRPCServer {
	return &GRPCServer{
		address:   a,
		accounts:  svc.Accounts,
		twoFactor: svc.TwoFactor,
		products:  svc.Products,
		sales:     svc.Sales,
		reports:   svc.Reports,
		metrics:   m,
		logger:    l.With("module", "grpc_server"),
	}
}

func (s *GRPCServer) newServer() *grpc.Server {
	srv := grpc.NewServer(
		grpc.ForceServerCodec(Codec{}),
		grpc.ChainUnaryInterceptor(s.metricsInterceptor, s.accessTokenInterceptor),
	)
	srv.RegisterService(&ServiceDesc, s)
	return srv
}

// Run listens on the configured address and serves until ctx is done.
func (s *GRPCServer) Run(ctx context.Context) error {

	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	return s.Serve(ctx, listen)
}

// Serve accepts connections on lis until ctx is done, then stops
// gracefully.
func (s *GRPCServer) Serve(ctx context.Context, lis net.Listener) error {
	srv := s.newServer()

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", lis.Addr().String())

	if err := srv.Serve(lis); err != nil {
		return err
	}

	return nil
}
