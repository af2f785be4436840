package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/stockkeeper/internal/client/client"
	"github.com/dmitrijs2005/stockkeeper/internal/client/config"
	gs "github.com/dmitrijs2005/stockkeeper/internal/server/grpc"
)

// API is the part of the StockKeeper client the CLI uses.
type API interface {
	Ping(ctx context.Context) error
	Register(ctx context.Context, name, password string) (*gs.Account, error)
	Login(ctx context.Context, name, password, code string) (*gs.LoginResponse, error)
	Logout(ctx context.Context) error
	LoggedIn() bool
	SelectShift(ctx context.Context, shift string) (*gs.Session, error)
	UpsertProduct(ctx context.Context, req *gs.UpsertProductRequest) (*gs.UpsertProductResponse, error)
	ListProducts(ctx context.Context) ([]gs.Product, error)
	ListAlerts(ctx context.Context) ([]gs.Alert, error)
	AdjustStock(ctx context.Context, productID string, delta int64) (int64, error)
	RecordSale(ctx context.Context, productID string, quantity int64) (*gs.Sale, error)
	DailySales(ctx context.Context) (*gs.DailySalesResponse, error)
	Report(ctx context.Context, granularity string) (*gs.ReportResponse, error)
}

type App struct {
	config   *config.Config
	api      API
	closeFn  func() error
	reader   *bufio.Reader
	out      io.Writer
	userName string
	shift    string
}

func NewApp(c *config.Config) (*App, error) {
	apiClient, err := client.NewStockKeeperClient(c.ServerEndpointAddr)
	if err != nil {
		return nil, err
	}
	a := newApp(c, apiClient, os.Stdin, os.Stdout)
	a.closeFn = apiClient.Close
	return a, nil
}

func newApp(c *config.Config, api API, in io.Reader, out io.Writer) *App {
	return &App{config: c, api: api, reader: bufio.NewReader(in), out: out}
}

func (a *App) isLoggedIn() bool {
	return a.api.LoggedIn()
}

func (a *App) getStatus() string {
	s := ""
	if a.userName != "" {
		s = a.userName
	}
	if a.shift != "" {
		s += "@" + a.shift
	}
	if s != "" {
		s = fmt.Sprintf("(%s)", s)
	}
	return s
}

// Run greets the user and serves the REPL until EOF or "exit".
func (a *App) Run(ctx context.Context) {
	defer func() {
		if a.closeFn != nil {
			_ = a.closeFn()
		}
	}()

	fmt.Fprintln(a.out, "Welcome to StockKeeper CLI (type 'help' for commands)")

	pctx, cancel := a.callCtx(ctx)
	if err := a.api.Ping(pctx); err != nil {
		fmt.Fprintf(a.out, "warning: server %s is not reachable: %v\n", a.config.ServerEndpointAddr, err)
	}
	cancel()

	runREPL(ctx, a, a.getStatus, newLineReader(a.reader))
}

func (a *App) callCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if a.config.RequestTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, a.config.RequestTimeout)
}

func newLineReader(r *bufio.Reader) *lineReader {
	return &lineReader{r: r}
}

// lineReader lets the REPL and the prompts share one buffered reader.
type lineReader struct {
	r    *bufio.Reader
	line string
}

func (l *lineReader) Scan() bool {
	s, err := l.r.ReadString('\n')
	if err != nil && s == "" {
		return false
	}
	l.line = s
	return true
}

func (l *lineReader) Text() string { return l.line }
