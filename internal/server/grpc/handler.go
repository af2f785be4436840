package grpc

import (
	"context"

	"github.com/dmitrijs2005/stockkeeper/internal/common"
	"github.com/dmitrijs2005/stockkeeper/internal/server/models"
	"github.com/dmitrijs2005/stockkeeper/internal/server/reports"
	"google.golang.org/grpc/codes"
)

// fail logs err and converts it to a status error. Client mistakes are
// logged at warn level, everything else at error level.
func (s *GRPCServer) fail(ctx context.Context, op string, err error) error {
	if statusCode(err) == codes.Internal {
		s.logger.Error(ctx, op+" failed", "error", err.Error())
	} else {
		s.logger.Warn(ctx, op+" rejected", "error", err.Error())
	}
	return toStatus(err)
}

func (s *GRPCServer) Ping(ctx context.Context, req *PingRequest) (*PingResponse, error) {

	return &PingResponse{Status: "OK"}, nil

}

func (s *GRPCServer) Register(ctx context.Context, req *CredentialsRequest) (*AccountResponse, error) {

	s.logger.Info(ctx, "Registration request")

	account, err := s.accounts.Register(ctx, req.Name, req.Password)
	if err != nil {
		return nil, s.fail(ctx, "register", err)
	}

	s.logger.Info(ctx, "Registered", "account", account.Name, "admin", account.IsAdmin)
	return &AccountResponse{Account: accountToMessage(account)}, nil
}

func (s *GRPCServer) Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error) {

	result, err := s.accounts.Login(ctx, req.Name, req.Password, req.Code)
	if err != nil {
		return nil, s.fail(ctx, "login", err)
	}

	if result.TwoFactorRequired {
		return &LoginResponse{TwoFactorRequired: true}, nil
	}

	sess := sessionToMessage(result.Session)
	return &LoginResponse{AccessToken: result.AccessToken, Session: &sess}, nil
}

func (s *GRPCServer) Logout(ctx context.Context, _ *Empty) (*Empty, error) {
	if err := s.accounts.Logout(ctx, sessionFromContext(ctx)); err != nil {
		return nil, s.fail(ctx, "logout", err)
	}
	return &Empty{}, nil
}

func (s *GRPCServer) Whoami(ctx context.Context, _ *Empty) (*SessionResponse, error) {
	sess := sessionFromContext(ctx)
	if sess == nil {
		return nil, toStatus(common.ErrorUnauthorized)
	}
	return &SessionResponse{Session: sessionToMessage(sess)}, nil
}

func (s *GRPCServer) SelectShift(ctx context.Context, req *SelectShiftRequest) (*SessionResponse, error) {
	sess, err := s.accounts.SelectShift(ctx, sessionFromContext(ctx), req.Shift)
	if err != nil {
		return nil, s.fail(ctx, "select shift", err)
	}
	return &SessionResponse{Session: sessionToMessage(sess)}, nil
}

func (s *GRPCServer) BeginTwoFactor(ctx context.Context, _ *Empty) (*BeginTwoFactorResponse, error) {
	e, err := s.twoFactor.Begin(ctx, sessionFromContext(ctx))
	if err != nil {
		return nil, s.fail(ctx, "begin two-factor", err)
	}
	return &BeginTwoFactorResponse{Secret: e.Secret, URI: e.URI}, nil
}

func (s *GRPCServer) ConfirmTwoFactor(ctx context.Context, req *ConfirmTwoFactorRequest) (*Empty, error) {
	if err := s.twoFactor.Confirm(ctx, sessionFromContext(ctx), req.Secret, req.Code); err != nil {
		return nil, s.fail(ctx, "confirm two-factor", err)
	}
	return &Empty{}, nil
}

func (s *GRPCServer) DisableTwoFactor(ctx context.Context, req *CodeRequest) (*Empty, error) {
	if err := s.twoFactor.Disable(ctx, sessionFromContext(ctx), req.Code); err != nil {
		return nil, s.fail(ctx, "disable two-factor", err)
	}
	return &Empty{}, nil
}

func (s *GRPCServer) TwoFactorStatus(ctx context.Context, _ *Empty) (*TwoFactorStatusResponse, error) {
	enabled, err := s.twoFactor.Status(ctx, sessionFromContext(ctx))
	if err != nil {
		return nil, s.fail(ctx, "two-factor status", err)
	}
	return &TwoFactorStatusResponse{Enabled: enabled}, nil
}

func (s *GRPCServer) CreateAccount(ctx context.Context, req *CredentialsRequest) (*AccountResponse, error) {
	account, err := s.accounts.CreateAccount(ctx, sessionFromContext(ctx), req.Name, req.Password)
	if err != nil {
		return nil, s.fail(ctx, "create account", err)
	}
	return &AccountResponse{Account: accountToMessage(account)}, nil
}

func (s *GRPCServer) DeleteAccount(ctx context.Context, req *IDRequest) (*Empty, error) {
	if err := s.accounts.DeleteAccount(ctx, sessionFromContext(ctx), req.ID); err != nil {
		return nil, s.fail(ctx, "delete account", err)
	}
	return &Empty{}, nil
}

func (s *GRPCServer) ListAccounts(ctx context.Context, _ *Empty) (*ListAccountsResponse, error) {
	list, err := s.accounts.ListAccounts(ctx, sessionFromContext(ctx))
	if err != nil {
		return nil, s.fail(ctx, "list accounts", err)
	}
	out := make([]Account, 0, len(list))
	for _, a := range list {
		out = append(out, accountToMessage(a))
	}
	return &ListAccountsResponse{Accounts: out}, nil
}

func (s *GRPCServer) UpsertProduct(ctx context.Context, req *UpsertProductRequest) (*UpsertProductResponse, error) {
	res, err := s.products.Upsert(ctx, models.ProductUpsert{
		Name:     req.Name,
		Price:    req.Price,
		Quantity: req.Quantity,
		Minimum:  req.Minimum,
		Category: categoryFromMessage(req.Category),
	})
	if err != nil {
		return nil, s.fail(ctx, "upsert product", err)
	}
	return &UpsertProductResponse{ID: res.ID, Created: res.Created}, nil
}

func (s *GRPCServer) SetProductFields(ctx context.Context, req *SetProductFieldsRequest) (*Empty, error) {
	in := models.ProductFields{Quantity: req.Quantity, Minimum: req.Minimum}
	if req.Category != nil {
		c := models.Category(*req.Category)
		in.Category = &c
	}
	if err := s.products.SetFields(ctx, req.ID, in); err != nil {
		return nil, s.fail(ctx, "set product fields", err)
	}
	return &Empty{}, nil
}

func (s *GRPCServer) IncreaseStock(ctx context.Context, req *StockRequest) (*StockResponse, error) {
	q, err := s.products.Increase(ctx, req.ID, req.Amount)
	if err != nil {
		return nil, s.fail(ctx, "increase stock", err)
	}
	return &StockResponse{Quantity: q}, nil
}

func (s *GRPCServer) DecreaseStock(ctx context.Context, req *StockRequest) (*StockResponse, error) {
	q, err := s.products.Decrease(ctx, req.ID, req.Amount)
	if err != nil {
		return nil, s.fail(ctx, "decrease stock", err)
	}
	return &StockResponse{Quantity: q}, nil
}

func (s *GRPCServer) RemoveProduct(ctx context.Context, req *IDRequest) (*Empty, error) {
	if err := s.products.Remove(ctx, req.ID); err != nil {
		return nil, s.fail(ctx, "remove product", err)
	}
	return &Empty{}, nil
}

func (s *GRPCServer) ListProducts(ctx context.Context, _ *Empty) (*ListProductsResponse, error) {
	list, err := s.products.List(ctx)
	if err != nil {
		return nil, s.fail(ctx, "list products", err)
	}
	out := make([]Product, 0, len(list))
	for _, p := range list {
		out = append(out, productToMessage(p))
	}
	return &ListProductsResponse{Products: out}, nil
}

func (s *GRPCServer) ListAlerts(ctx context.Context, _ *Empty) (*ListAlertsResponse, error) {
	alerts, err := s.products.ListAlerts(ctx)
	if err != nil {
		return nil, s.fail(ctx, "list alerts", err)
	}
	out := make([]Alert, 0, len(alerts))
	for _, a := range alerts {
		out = append(out, Alert{Product: productToMessage(a.Product), Shortfall: a.Shortfall})
	}
	return &ListAlertsResponse{Alerts: out}, nil
}

func (s *GRPCServer) RecordSale(ctx context.Context, req *RecordSaleRequest) (*SaleResponse, error) {
	sale, err := s.sales.RecordSale(ctx, sessionFromContext(ctx), req.ProductID, req.Quantity)
	if err != nil {
		return nil, s.fail(ctx, "record sale", err)
	}
	return &SaleResponse{Sale: saleToMessage(sale)}, nil
}

func (s *GRPCServer) Checkout(ctx context.Context, req *CheckoutRequest) (*CheckoutResponse, error) {
	res, err := s.sales.Checkout(ctx, sessionFromContext(ctx), checkoutLinesFromMessage(req.Lines))
	if err != nil {
		return nil, s.fail(ctx, "checkout", err)
	}

	out := &CheckoutResponse{Lines: make([]CheckoutLineResult, 0, len(res.Lines)), Succeeded: res.Succeeded}
	for _, l := range res.Lines {
		line := CheckoutLineResult{ProductID: l.ProductID}
		if l.Err != nil {
			line.Code = statusCode(l.Err).String()
			line.Error = l.Err.Error()
			if statusCode(l.Err) == codes.Internal {
				s.logger.Error(ctx, "checkout line failed", "product_id", l.ProductID, "error", l.Err.Error())
				line.Error = "internal error"
			}
		} else {
			sale := saleToMessage(l.Sale)
			line.Sale = &sale
		}
		out.Lines = append(out.Lines, line)
	}
	return out, nil
}

func (s *GRPCServer) Report(ctx context.Context, req *ReportRequest) (*ReportResponse, error) {
	g, err := reports.ParseGranularity(req.Granularity)
	if err != nil {
		return nil, s.fail(ctx, "report", err)
	}
	rep, err := s.reports.Aggregate(ctx, sessionFromContext(ctx), g, req.AsOf)
	if err != nil {
		return nil, s.fail(ctx, "report", err)
	}
	return &ReportResponse{Period: rep.Period, Rows: shiftCategoryRows(rep.Rows)}, nil
}

func (s *GRPCServer) StaffReport(ctx context.Context, req *ReportRequest) (*StaffReportResponse, error) {
	g, err := reports.ParseGranularity(req.Granularity)
	if err != nil {
		return nil, s.fail(ctx, "staff report", err)
	}
	rep, err := s.reports.AdminAggregateByAccount(ctx, sessionFromContext(ctx), g, req.AsOf)
	if err != nil {
		return nil, s.fail(ctx, "staff report", err)
	}
	return &StaffReportResponse{Period: rep.Period, Rows: accountRows(rep.Rows)}, nil
}

func (s *GRPCServer) Statistics(ctx context.Context, req *ReportRequest) (*StatisticsResponse, error) {
	g, err := reports.ParseGranularity(req.Granularity)
	if err != nil {
		return nil, s.fail(ctx, "statistics", err)
	}
	st, err := s.reports.AdminStatistics(ctx, sessionFromContext(ctx), g, req.AsOf)
	if err != nil {
		return nil, s.fail(ctx, "statistics", err)
	}
	return &StatisticsResponse{
		Period:        st.Period,
		Revenue:       st.Revenue,
		AverageTicket: st.AverageTicket,
		Count:         st.Count,
		Accounts:      st.Accounts,
	}, nil
}

func (s *GRPCServer) DailySales(ctx context.Context, _ *Empty) (*DailySalesResponse, error) {
	daily, err := s.reports.DailySalesWithTotal(ctx, sessionFromContext(ctx))
	if err != nil {
		return nil, s.fail(ctx, "daily sales", err)
	}
	out := &DailySalesResponse{Lines: make([]SaleLine, 0, len(daily.Lines)), Total: daily.Total}
	for _, l := range daily.Lines {
		out.Lines = append(out.Lines, SaleLine{
			Sale:        saleToMessage(&l.Sale),
			ProductName: l.ProductName,
			Category:    string(l.Category),
		})
	}
	return out, nil
}

func (s *GRPCServer) ExportStaffReport(ctx context.Context, req *ReportRequest) (*ExportResponse, error) {
	g, err := reports.ParseGranularity(req.Granularity)
	if err != nil {
		return nil, s.fail(ctx, "export staff report", err)
	}
	exp, err := s.reports.ExportStaffReport(ctx, sessionFromContext(ctx), g, req.AsOf)
	if err != nil {
		return nil, s.fail(ctx, "export staff report", err)
	}
	return &ExportResponse{Key: exp.Key, URL: exp.URL}, nil
}
