package client

import (
	"context"
	"errors"
	"sync"

	"github.com/dmitrijs2005/stockkeeper/internal/common"
	gs "github.com/dmitrijs2005/stockkeeper/internal/server/grpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

var (
	ErrUnavailable  = errors.New("server unavailable")
	ErrUnauthorized = errors.New("unauthorized")
)

type GRPCClient struct {
	conn grpc.ClientConnInterface

	mu          sync.RWMutex
	accessToken string
	closeFn     func() error
}

func withAccessToken(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Set(common.AccessTokenHeaderName, token)

	return metadata.NewOutgoingContext(ctx, md)
}

// NewStockKeeperClient dials endpointURL lazily; the first call connects.
func NewStockKeeperClient(endpointURL string) (*GRPCClient, error) {
	conn, err := grpc.NewClient(endpointURL,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithDefaultCallOptions(grpc.ForceCodec(gs.Codec{})),
	)
	if err != nil {
		return nil, err
	}
	c := NewFromConn(conn)
	c.closeFn = conn.Close
	return c, nil
}

// NewFromConn wraps an existing connection. The connection must use
// gs.Codec for its calls.
func NewFromConn(conn grpc.ClientConnInterface) *GRPCClient {
	return &GRPCClient{conn: conn}
}

func (c *GRPCClient) Close() error {
	if c.closeFn == nil {
		return nil
	}
	return c.closeFn()
}

func (c *GRPCClient) token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.accessToken
}

func (c *GRPCClient) setToken(t string) {
	c.mu.Lock()
	c.accessToken = t
	c.mu.Unlock()
}

// LoggedIn reports whether the client holds an access token.
func (c *GRPCClient) LoggedIn() bool {
	return c.token() != ""
}

func (c *GRPCClient) invoke(ctx context.Context, method string, in, out any) error {
	if t := c.token(); t != "" {
		ctx = withAccessToken(ctx, t)
	}
	if err := c.conn.Invoke(ctx, gs.FullMethod(method), in, out); err != nil {
		return mapError(err)
	}
	return nil
}

// mapError turns transport failures into ErrUnavailable and
// ErrUnauthorized; other status errors pass through unchanged.
func mapError(err error) error {
	st, ok := status.FromError(err)
	if !ok {
		return err
	}
	switch st.Code() {
	case codes.Unavailable:
		return ErrUnavailable
	case codes.Unauthenticated:
		return errors.Join(ErrUnauthorized, err)
	default:
		return err
	}
}

func (c *GRPCClient) Ping(ctx context.Context) error {
	return c.invoke(ctx, "Ping", &gs.PingRequest{}, &gs.PingResponse{})
}

func (c *GRPCClient) Register(ctx context.Context, name, password string) (*gs.Account, error) {
	var resp gs.AccountResponse
	if err := c.invoke(ctx, "Register", &gs.CredentialsRequest{Name: name, Password: password}, &resp); err != nil {
		return nil, err
	}
	return &resp.Account, nil
}

// Login stores the access token on success. A response with
// TwoFactorRequired set carries no token; repeat the call with the code.
func (c *GRPCClient) Login(ctx context.Context, name, password, code string) (*gs.LoginResponse, error) {
	var resp gs.LoginResponse
	if err := c.invoke(ctx, "Login", &gs.LoginRequest{Name: name, Password: password, Code: code}, &resp); err != nil {
		return nil, err
	}
	if resp.AccessToken != "" {
		c.setToken(resp.AccessToken)
	}
	return &resp, nil
}

// Logout ends the server session and forgets the token even when the
// server call fails.
func (c *GRPCClient) Logout(ctx context.Context) error {
	err := c.invoke(ctx, "Logout", &gs.Empty{}, &gs.Empty{})
	c.setToken("")
	return err
}

func (c *GRPCClient) SelectShift(ctx context.Context, shift string) (*gs.Session, error) {
	var resp gs.SessionResponse
	if err := c.invoke(ctx, "SelectShift", &gs.SelectShiftRequest{Shift: shift}, &resp); err != nil {
		return nil, err
	}
	return &resp.Session, nil
}

func (c *GRPCClient) UpsertProduct(ctx context.Context, req *gs.UpsertProductRequest) (*gs.UpsertProductResponse, error) {
	var resp gs.UpsertProductResponse
	if err := c.invoke(ctx, "UpsertProduct", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *GRPCClient) ListProducts(ctx context.Context) ([]gs.Product, error) {
	var resp gs.ListProductsResponse
	if err := c.invoke(ctx, "ListProducts", &gs.Empty{}, &resp); err != nil {
		return nil, err
	}
	return resp.Products, nil
}

func (c *GRPCClient) ListAlerts(ctx context.Context) ([]gs.Alert, error) {
	var resp gs.ListAlertsResponse
	if err := c.invoke(ctx, "ListAlerts", &gs.Empty{}, &resp); err != nil {
		return nil, err
	}
	return resp.Alerts, nil
}

func (c *GRPCClient) AdjustStock(ctx context.Context, productID string, delta int64) (int64, error) {
	method, amount := "IncreaseStock", delta
	if delta < 0 {
		method, amount = "DecreaseStock", -delta
	}
	var resp gs.StockResponse
	if err := c.invoke(ctx, method, &gs.StockRequest{ID: productID, Amount: amount}, &resp); err != nil {
		return 0, err
	}
	return resp.Quantity, nil
}

func (c *GRPCClient) RecordSale(ctx context.Context, productID string, quantity int64) (*gs.Sale, error) {
	var resp gs.SaleResponse
	if err := c.invoke(ctx, "RecordSale", &gs.RecordSaleRequest{ProductID: productID, Quantity: quantity}, &resp); err != nil {
		return nil, err
	}
	return &resp.Sale, nil
}

func (c *GRPCClient) DailySales(ctx context.Context) (*gs.DailySalesResponse, error) {
	var resp gs.DailySalesResponse
	if err := c.invoke(ctx, "DailySales", &gs.Empty{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *GRPCClient) Report(ctx context.Context, granularity string) (*gs.ReportResponse, error) {
	var resp gs.ReportResponse
	if err := c.invoke(ctx, "Report", &gs.ReportRequest{Granularity: granularity}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
