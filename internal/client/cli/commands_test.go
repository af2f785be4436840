package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/stockkeeper/internal/client/config"
	gs "github.com/dmitrijs2005/stockkeeper/internal/server/grpc"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAPI struct {
	loggedIn   bool
	needCode   bool
	logins     []string
	upserted   *gs.UpsertProductRequest
	adjusted   int64
	sold       int64
	products   []gs.Product
	alerts     []gs.Alert
	report     *gs.ReportResponse
	daily      *gs.DailySalesResponse
	pingErr    error
	shiftCalls []string
}

func (f *fakeAPI) Ping(context.Context) error { return f.pingErr }
func (f *fakeAPI) Register(_ context.Context, name, _ string) (*gs.Account, error) {
	return &gs.Account{Name: name, IsAdmin: true}, nil
}
func (f *fakeAPI) Login(_ context.Context, name, password, code string) (*gs.LoginResponse, error) {
	f.logins = append(f.logins, name+":"+password+":"+code)
	if password != "pw" {
		return nil, errors.New("unauthorized")
	}
	if f.needCode && code == "" {
		return &gs.LoginResponse{TwoFactorRequired: true}, nil
	}
	f.loggedIn = true
	return &gs.LoginResponse{AccessToken: "t", Session: &gs.Session{AccountName: name}}, nil
}
func (f *fakeAPI) Logout(context.Context) error { f.loggedIn = false; return nil }
func (f *fakeAPI) LoggedIn() bool               { return f.loggedIn }
func (f *fakeAPI) SelectShift(_ context.Context, shift string) (*gs.Session, error) {
	f.shiftCalls = append(f.shiftCalls, shift)
	return &gs.Session{Shift: shift}, nil
}
func (f *fakeAPI) UpsertProduct(_ context.Context, req *gs.UpsertProductRequest) (*gs.UpsertProductResponse, error) {
	f.upserted = req
	return &gs.UpsertProductResponse{ID: "p1", Created: true}, nil
}
func (f *fakeAPI) ListProducts(context.Context) ([]gs.Product, error) { return f.products, nil }
func (f *fakeAPI) ListAlerts(context.Context) ([]gs.Alert, error)     { return f.alerts, nil }
func (f *fakeAPI) AdjustStock(_ context.Context, _ string, delta int64) (int64, error) {
	f.adjusted += delta
	return 10 + f.adjusted, nil
}
func (f *fakeAPI) RecordSale(_ context.Context, _ string, qty int64) (*gs.Sale, error) {
	f.sold += qty
	price := decimal.RequireFromString("2.5")
	return &gs.Sale{Quantity: qty, UnitPrice: price, Total: price.Mul(decimal.NewFromInt(qty))}, nil
}
func (f *fakeAPI) DailySales(context.Context) (*gs.DailySalesResponse, error) { return f.daily, nil }
func (f *fakeAPI) Report(context.Context, string) (*gs.ReportResponse, error) { return f.report, nil }

func newTestApp(t *testing.T, api *fakeAPI, input string) (*App, *bytes.Buffer) {
	t.Helper()
	orig := readPassword
	readPassword = func(int) ([]byte, error) { return []byte("pw"), nil }
	t.Cleanup(func() { readPassword = orig })

	var out bytes.Buffer
	return newApp(&config.Config{RequestTimeout: time.Second}, api, strings.NewReader(input), &out), &out
}

func TestLogin_AsksForCodeWhenRequired(t *testing.T) {
	api := &fakeAPI{needCode: true}
	a, out := newTestApp(t, api, "alice\n123456\n")

	require.NoError(t, a.Login(context.Background()))
	assert.Equal(t, []string{"alice:pw:", "alice:pw:123456"}, api.logins)
	assert.Equal(t, "alice", a.userName)
	assert.Contains(t, out.String(), "Login successful")
	assert.True(t, a.isLoggedIn())
}

func TestRegister_PrintsRole(t *testing.T) {
	a, out := newTestApp(t, &fakeAPI{}, "boss\n")
	require.NoError(t, a.Register(context.Background()))
	assert.Contains(t, out.String(), "Registered boss (admin)")
}

func TestShift_UpdatesStatus(t *testing.T) {
	api := &fakeAPI{}
	a, _ := newTestApp(t, api, "")
	a.userName = "alice"

	assert.ErrorIs(t, a.Shift(context.Background(), nil), errUsage)
	require.NoError(t, a.Shift(context.Background(), []string{"night"}))
	assert.Equal(t, "(alice@night)", a.getStatus())
}

func TestAddProduct_OptionalFields(t *testing.T) {
	api := &fakeAPI{}
	a, out := newTestApp(t, api, "Widget\n2.50\n5\n\n\n")

	require.NoError(t, a.AddProduct(context.Background()))
	require.NotNil(t, api.upserted)
	assert.Equal(t, "Widget", api.upserted.Name)
	assert.True(t, api.upserted.Price.Equal(decimal.RequireFromString("2.5")))
	assert.Equal(t, int64(5), api.upserted.Quantity)
	assert.Nil(t, api.upserted.Minimum)
	assert.Empty(t, api.upserted.Category)
	assert.Contains(t, out.String(), "Created product p1")

	a, _ = newTestApp(t, api, "Widget\nabc\n")
	assert.Error(t, a.AddProduct(context.Background()))
}

func TestAddProduct_WithMinimumAndCategory(t *testing.T) {
	api := &fakeAPI{}
	a, _ := newTestApp(t, api, "Soap\n1\n3\n4\ncleaning\n")

	require.NoError(t, a.AddProduct(context.Background()))
	require.NotNil(t, api.upserted.Minimum)
	assert.Equal(t, int64(4), *api.upserted.Minimum)
	assert.Equal(t, "top_up", api.upserted.Category)
}

func TestRestockAndSell(t *testing.T) {
	api := &fakeAPI{}
	a, out := newTestApp(t, api, "")
	ctx := context.Background()

	assert.ErrorIs(t, a.Restock(ctx, []string{"p1"}), errUsage)
	require.NoError(t, a.Restock(ctx, []string{"p1", "-3"}))
	assert.Equal(t, int64(-3), api.adjusted)
	assert.Contains(t, out.String(), "Stock is now 7")

	require.NoError(t, a.Sell(ctx, []string{"p1"}))
	require.NoError(t, a.Sell(ctx, []string{"p1", "3"}))
	assert.Equal(t, int64(4), api.sold)
	assert.Contains(t, out.String(), "Sold 3 x 2.50 = 7.50")

	assert.Error(t, a.Sell(ctx, []string{"p1", "lots"}))
}

func TestListings(t *testing.T) {
	api := &fakeAPI{
		products: []gs.Product{{ID: "p1", Name: "Widget", Category: "cigarettes", Price: decimal.RequireFromString("2.5"), Quantity: 2, Minimum: 2}},
		alerts:   []gs.Alert{{Product: gs.Product{Name: "Widget", Quantity: 2, Minimum: 2}}},
		daily: &gs.DailySalesResponse{
			Lines: []gs.SaleLine{{ProductName: "Widget", Sale: gs.Sale{Quantity: 1, Total: decimal.RequireFromString("2.5")}}},
			Total: decimal.RequireFromString("2.5"),
		},
		report: &gs.ReportResponse{Period: "2024-03-01", Rows: []gs.ShiftCategoryRow{{Shift: "morning", Category: "cigarettes", Count: 1, Revenue: decimal.RequireFromString("2.5")}}},
	}
	a, out := newTestApp(t, api, "")
	ctx := context.Background()

	require.NoError(t, a.Products(ctx))
	require.NoError(t, a.Alerts(ctx))
	require.NoError(t, a.Daily(ctx))
	require.NoError(t, a.Report(ctx, nil))

	s := out.String()
	assert.Contains(t, s, "Widget")
	assert.Contains(t, s, "SHORTFALL")
	assert.Contains(t, s, "Period 2024-03-01")
	assert.Contains(t, s, "2.50")
}

func TestAlerts_Empty(t *testing.T) {
	a, out := newTestApp(t, &fakeAPI{}, "")
	require.NoError(t, a.Alerts(context.Background()))
	assert.Contains(t, out.String(), "No products at or below their minimum")
}

func TestRun_WarnsWhenServerUnreachable(t *testing.T) {
	orig := printlnFn
	printlnFn = func(...any) (int, error) { return 0, nil }
	t.Cleanup(func() { printlnFn = orig })

	a, out := newTestApp(t, &fakeAPI{pingErr: errors.New("down")}, "exit\n")
	a.Run(context.Background())
	assert.Contains(t, out.String(), "not reachable")
}
