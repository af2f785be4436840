package grpc

import (
	"time"

	"github.com/dmitrijs2005/stockkeeper/internal/server/models"
	"github.com/dmitrijs2005/stockkeeper/internal/server/reports"
	"github.com/dmitrijs2005/stockkeeper/internal/server/services"
	"github.com/shopspring/decimal"
)

// Money values travel as decimal strings ("12.50").

type Empty struct{}

type PingRequest struct{}

type PingResponse struct {
	Status string `json:"status"`
}

type CredentialsRequest struct {
	Name     string `json:"name"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Name     string `json:"name"`
	Password string `json:"password"`
	Code     string `json:"code,omitempty"`
}

type Account struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	IsAdmin          bool      `json:"is_admin"`
	TwoFactorEnabled bool      `json:"two_factor_enabled"`
	CreatedAt        time.Time `json:"created_at"`
}

type AccountResponse struct {
	Account Account `json:"account"`
}

type ListAccountsResponse struct {
	Accounts []Account `json:"accounts"`
}

type Session struct {
	ID          string `json:"id"`
	AccountID   string `json:"account_id"`
	AccountName string `json:"account_name"`
	IsAdmin     bool   `json:"is_admin"`
	Shift       string `json:"shift,omitempty"`
}

type LoginResponse struct {
	TwoFactorRequired bool     `json:"two_factor_required"`
	AccessToken       string   `json:"access_token,omitempty"`
	Session           *Session `json:"session,omitempty"`
}

type SessionResponse struct {
	Session Session `json:"session"`
}

type SelectShiftRequest struct {
	Shift string `json:"shift"`
}

type BeginTwoFactorResponse struct {
	Secret string `json:"secret"`
	URI    string `json:"uri"`
}

type ConfirmTwoFactorRequest struct {
	Secret string `json:"secret"`
	Code   string `json:"code"`
}

type CodeRequest struct {
	Code string `json:"code"`
}

type TwoFactorStatusResponse struct {
	Enabled bool `json:"enabled"`
}

type IDRequest struct {
	ID string `json:"id"`
}

// UpsertProductRequest registers or merges a product. An empty Category
// keeps the stored one on merge and means "merchandise" on create.
type UpsertProductRequest struct {
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Quantity int64           `json:"quantity"`
	Minimum  *int64          `json:"minimum,omitempty"`
	Category string          `json:"category,omitempty"`
}

type UpsertProductResponse struct {
	ID      string `json:"id"`
	Created bool   `json:"created"`
}

type SetProductFieldsRequest struct {
	ID       string  `json:"id"`
	Quantity *int64  `json:"quantity,omitempty"`
	Minimum  *int64  `json:"minimum,omitempty"`
	Category *string `json:"category,omitempty"`
}

type StockRequest struct {
	ID     string `json:"id"`
	Amount int64  `json:"amount"`
}

type StockResponse struct {
	Quantity int64 `json:"quantity"`
}

type Product struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Quantity int64           `json:"quantity"`
	Minimum  int64           `json:"minimum"`
	Category string          `json:"category"`
}

type ListProductsResponse struct {
	Products []Product `json:"products"`
}

type Alert struct {
	Product   Product `json:"product"`
	Shortfall int64   `json:"shortfall"`
}

type ListAlertsResponse struct {
	Alerts []Alert `json:"alerts"`
}

type RecordSaleRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int64  `json:"quantity"`
}

type Sale struct {
	ID        string          `json:"id"`
	AccountID string          `json:"account_id"`
	ProductID string          `json:"product_id"`
	Quantity  int64           `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Total     decimal.Decimal `json:"total"`
	Shift     string          `json:"shift"`
	SoldAt    time.Time       `json:"sold_at"`
}

type SaleResponse struct {
	Sale Sale `json:"sale"`
}

type CheckoutLine struct {
	ProductID string `json:"product_id"`
	Quantity  int64  `json:"quantity"`
}

type CheckoutRequest struct {
	Lines []CheckoutLine `json:"lines"`
}

// CheckoutLineResult carries either the recorded sale or the status code
// and message of the line's failure.
type CheckoutLineResult struct {
	ProductID string `json:"product_id"`
	Sale      *Sale  `json:"sale,omitempty"`
	Code      string `json:"code,omitempty"`
	Error     string `json:"error,omitempty"`
}

type CheckoutResponse struct {
	Lines     []CheckoutLineResult `json:"lines"`
	Succeeded int                  `json:"succeeded"`
}

// ReportRequest selects a period by granularity ("day", "month", "year")
// and a reference instant; a zero AsOf means now.
type ReportRequest struct {
	Granularity string    `json:"granularity"`
	AsOf        time.Time `json:"as_of"`
}

type ShiftCategoryRow struct {
	Shift    string          `json:"shift"`
	Category string          `json:"category"`
	Revenue  decimal.Decimal `json:"revenue"`
	Count    int64           `json:"count"`
}

type ReportResponse struct {
	Period string             `json:"period"`
	Rows   []ShiftCategoryRow `json:"rows"`
}

type AccountRow struct {
	AccountID     string          `json:"account_id"`
	AccountName   string          `json:"account_name"`
	Revenue       decimal.Decimal `json:"revenue"`
	AverageTicket decimal.Decimal `json:"average_ticket"`
	Count         int64           `json:"count"`
	ActiveDays    int             `json:"active_days"`
}

type StaffReportResponse struct {
	Period string       `json:"period"`
	Rows   []AccountRow `json:"rows"`
}

type StatisticsResponse struct {
	Period        string          `json:"period"`
	Revenue       decimal.Decimal `json:"revenue"`
	AverageTicket decimal.Decimal `json:"average_ticket"`
	Count         int64           `json:"count"`
	Accounts      int             `json:"accounts"`
}

type SaleLine struct {
	Sale        Sale   `json:"sale"`
	ProductName string `json:"product_name"`
	Category    string `json:"category"`
}

type DailySalesResponse struct {
	Lines []SaleLine      `json:"lines"`
	Total decimal.Decimal `json:"total"`
}

type ExportResponse struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

func accountToMessage(a *models.Account) Account {
	return Account{
		ID:               a.ID,
		Name:             a.Name,
		IsAdmin:          a.IsAdmin,
		TwoFactorEnabled: a.TOTPEnabled,
		CreatedAt:        a.CreatedAt,
	}
}

func sessionToMessage(s *models.Session) Session {
	return Session{
		ID:          s.ID,
		AccountID:   s.AccountID,
		AccountName: s.AccountName,
		IsAdmin:     s.IsAdmin,
		Shift:       string(s.Shift),
	}
}

func productToMessage(p *models.Product) Product {
	return Product{
		ID:       p.ID,
		Name:     p.Name,
		Price:    p.Price,
		Quantity: p.Quantity,
		Minimum:  p.Minimum,
		Category: string(p.Category),
	}
}

func saleToMessage(s *models.Sale) Sale {
	return Sale{
		ID:        s.ID,
		AccountID: s.AccountID,
		ProductID: s.ProductID,
		Quantity:  s.Quantity,
		UnitPrice: s.UnitPrice,
		Total:     s.Total(),
		Shift:     string(s.Shift),
		SoldAt:    s.SoldAt,
	}
}

func categoryFromMessage(s string) *models.Category {
	if s == "" {
		return nil
	}
	c := models.Category(s)
	return &c
}

func checkoutLinesFromMessage(lines []CheckoutLine) []services.CheckoutLine {
	out := make([]services.CheckoutLine, 0, len(lines))
	for _, l := range lines {
		out = append(out, services.CheckoutLine{ProductID: l.ProductID, Quantity: l.Quantity})
	}
	return out
}

func shiftCategoryRows(rows []reports.ShiftCategoryRow) []ShiftCategoryRow {
	out := make([]ShiftCategoryRow, 0, len(rows))
	for _, r := range rows {
		out = append(out, ShiftCategoryRow{
			Shift:    string(r.Shift),
			Category: string(r.Category),
			Revenue:  r.Revenue,
			Count:    r.Count,
		})
	}
	return out
}

func accountRows(rows []reports.AccountRow) []AccountRow {
	out := make([]AccountRow, 0, len(rows))
	for _, r := range rows {
		out = append(out, AccountRow{
			AccountID:     r.AccountID,
			AccountName:   r.AccountName,
			Revenue:       r.Revenue,
			AverageTicket: r.AverageTicket,
			Count:         r.Count,
			ActiveDays:    r.ActiveDays,
		})
	}
	return out
}
