package grpc

import (
	"context"

	"github.com/dmitrijs2005/stockkeeper/internal/common"
	"google.golang.org/grpc"
)

// StockKeeperServer is the set of unary methods served under
// common.ServiceName.
type StockKeeperServer interface {
	Ping(context.Context, *PingRequest) (*PingResponse, error)
	Register(context.Context, *CredentialsRequest) (*AccountResponse, error)
	Login(context.Context, *LoginRequest) (*LoginResponse, error)
	Logout(context.Context, *Empty) (*Empty, error)
	Whoami(context.Context, *Empty) (*SessionResponse, error)
	SelectShift(context.Context, *SelectShiftRequest) (*SessionResponse, error)

	BeginTwoFactor(context.Context, *Empty) (*BeginTwoFactorResponse, error)
	ConfirmTwoFactor(context.Context, *ConfirmTwoFactorRequest) (*Empty, error)
	DisableTwoFactor(context.Context, *CodeRequest) (*Empty, error)
	TwoFactorStatus(context.Context, *Empty) (*TwoFactorStatusResponse, error)

	CreateAccount(context.Context, *CredentialsRequest) (*AccountResponse, error)
	DeleteAccount(context.Context, *IDRequest) (*Empty, error)
	ListAccounts(context.Context, *Empty) (*ListAccountsResponse, error)

	UpsertProduct(context.Context, *UpsertProductRequest) (*UpsertProductResponse, error)
	SetProductFields(context.Context, *SetProductFieldsRequest) (*Empty, error)
	IncreaseStock(context.Context, *StockRequest) (*StockResponse, error)
	DecreaseStock(context.Context, *StockRequest) (*StockResponse, error)
	RemoveProduct(context.Context, *IDRequest) (*Empty, error)
	ListProducts(context.Context, *Empty) (*ListProductsResponse, error)
	ListAlerts(context.Context, *Empty) (*ListAlertsResponse, error)

	RecordSale(context.Context, *RecordSaleRequest) (*SaleResponse, error)
	Checkout(context.Context, *CheckoutRequest) (*CheckoutResponse, error)

	Report(context.Context, *ReportRequest) (*ReportResponse, error)
	StaffReport(context.Context, *ReportRequest) (*StaffReportResponse, error)
	Statistics(context.Context, *ReportRequest) (*StatisticsResponse, error)
	DailySales(context.Context, *Empty) (*DailySalesResponse, error)
	ExportStaffReport(context.Context, *ReportRequest) (*ExportResponse, error)
}

// FullMethod returns the "/service/method" path of a StockKeeper method.
func FullMethod(method string) string {
	return "/" + common.ServiceName + "/" + method
}

// ServiceDesc is registered by hand; messages travel through Codec, so no
// generated stubs are involved.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: common.ServiceName,
	HandlerType: (*StockKeeperServer)(nil),
	Methods: []grpc.MethodDesc{
		unary("Ping", StockKeeperServer.Ping),
		unary("Register", StockKeeperServer.Register),
		unary("Login", StockKeeperServer.Login),
		unary("Logout", StockKeeperServer.Logout),
		unary("Whoami", StockKeeperServer.Whoami),
		unary("SelectShift", StockKeeperServer.SelectShift),
		unary("BeginTwoFactor", StockKeeperServer.BeginTwoFactor),
		unary("ConfirmTwoFactor", StockKeeperServer.ConfirmTwoFactor),
		unary("DisableTwoFactor", StockKeeperServer.DisableTwoFactor),
		unary("TwoFactorStatus", StockKeeperServer.TwoFactorStatus),
		unary("CreateAccount", StockKeeperServer.CreateAccount),
		unary("DeleteAccount", StockKeeperServer.DeleteAccount),
		unary("ListAccounts", StockKeeperServer.ListAccounts),
		unary("UpsertProduct", StockKeeperServer.UpsertProduct),
		unary("SetProductFields", StockKeeperServer.SetProductFields),
		unary("IncreaseStock", StockKeeperServer.IncreaseStock),
		unary("DecreaseStock", StockKeeperServer.DecreaseStock),
		unary("RemoveProduct", StockKeeperServer.RemoveProduct),
		unary("ListProducts", StockKeeperServer.ListProducts),
		unary("ListAlerts", StockKeeperServer.ListAlerts),
		unary("RecordSale", StockKeeperServer.RecordSale),
		unary("Checkout", StockKeeperServer.Checkout),
		unary("Report", StockKeeperServer.Report),
		unary("StaffReport", StockKeeperServer.StaffReport),
		unary("Statistics", StockKeeperServer.Statistics),
		unary("DailySales", StockKeeperServer.DailySales),
		unary("ExportStaffReport", StockKeeperServer.ExportStaffReport),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "stockkeeper/v1",
}

func unary[Req, Resp any](name string, call func(StockKeeperServer, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(StockKeeperServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: FullMethod(name)}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(StockKeeperServer), ctx, req.(*Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}
