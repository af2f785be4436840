package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"text/tabwriter"

	gs "github.com/dmitrijs2005/stockkeeper/internal/server/grpc"
	"github.com/shopspring/decimal"
)

var errUsage = errors.New("usage")

func (a *App) credentials() (string, string, error) {
	name, err := GetSimpleText(a.reader, "Account name", a.out)
	if err != nil {
		return "", "", err
	}
	password, err := GetPassword(a.out)
	if err != nil {
		return "", "", err
	}
	return name, password, nil
}

func (a *App) Register(ctx context.Context) error {
	name, password, err := a.credentials()
	if err != nil {
		return err
	}

	cctx, cancel := a.callCtx(ctx)
	defer cancel()
	acc, err := a.api.Register(cctx, name, password)
	if err != nil {
		return err
	}

	role := "staff"
	if acc.IsAdmin {
		role = "admin"
	}
	fmt.Fprintf(a.out, "Registered %s (%s)\n", acc.Name, role)
	return nil
}

// Login asks for the TOTP code only when the server requires one.
func (a *App) Login(ctx context.Context) error {
	name, password, err := a.credentials()
	if err != nil {
		return err
	}

	cctx, cancel := a.callCtx(ctx)
	defer cancel()
	resp, err := a.api.Login(cctx, name, password, "")
	if err != nil {
		return err
	}

	if resp.TwoFactorRequired {
		code, err := GetSimpleText(a.reader, "Authenticator code", a.out)
		if err != nil {
			return err
		}
		cctx2, cancel2 := a.callCtx(ctx)
		defer cancel2()
		if resp, err = a.api.Login(cctx2, name, password, code); err != nil {
			return err
		}
	}

	a.userName = name
	a.shift = ""
	if resp.Session != nil {
		a.shift = resp.Session.Shift
	}
	fmt.Fprintln(a.out, "Login successful")
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	cctx, cancel := a.callCtx(ctx)
	defer cancel()
	err := a.api.Logout(cctx)
	a.userName, a.shift = "", ""
	return err
}

func (a *App) Shift(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: shift <morning|night>", errUsage)
	}

	cctx, cancel := a.callCtx(ctx)
	defer cancel()
	sess, err := a.api.SelectShift(cctx, args[0])
	if err != nil {
		return err
	}
	a.shift = sess.Shift
	fmt.Fprintf(a.out, "Shift set to %s\n", sess.Shift)
	return nil
}

func (a *App) Products(ctx context.Context) error {
	cctx, cancel := a.callCtx(ctx)
	defer cancel()
	list, err := a.api.ListProducts(cctx)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tCATEGORY\tPRICE\tQTY\tMIN")
	for _, p := range list {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%d\n", p.ID, p.Name, p.Category, p.Price.StringFixed(2), p.Quantity, p.Minimum)
	}
	return w.Flush()
}

// AddProduct registers a product or merges into an existing one with the
// same name. Empty minimum and category answers keep the stored values.
func (a *App) AddProduct(ctx context.Context) error {
	name, err := GetSimpleText(a.reader, "Product name", a.out)
	if err != nil {
		return err
	}
	priceText, err := GetSimpleText(a.reader, "Unit price", a.out)
	if err != nil {
		return err
	}
	price, err := decimal.NewFromString(priceText)
	if err != nil {
		return fmt.Errorf("invalid price %q", priceText)
	}
	qty, err := GetInt(a.reader, "Quantity", a.out, 0)
	if err != nil {
		return err
	}
	req := &gs.UpsertProductRequest{Name: name, Price: price, Quantity: qty}

	minText, err := GetSimpleText(a.reader, "Minimum stock (empty to keep)", a.out)
	if err != nil {
		return err
	}
	if minText != "" {
		m, err := strconv.ParseInt(minText, 10, 64)
		if err != nil {
			return fmt.Errorf("not a number: %q", minText)
		}
		req.Minimum = &m
	}
	if req.Category, err = GetSimpleText(a.reader, "Category (empty to keep)", a.out); err != nil {
		return err
	}

	cctx, cancel := a.callCtx(ctx)
	defer cancel()
	res, err := a.api.UpsertProduct(cctx, req)
	if err != nil {
		return err
	}
	if res.Created {
		fmt.Fprintf(a.out, "Created product %s\n", res.ID)
	} else {
		fmt.Fprintf(a.out, "Merged into product %s\n", res.ID)
	}
	return nil
}

func (a *App) Restock(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("%w: restock <id> <delta>", errUsage)
	}
	delta, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil {
		return fmt.Errorf("not a number: %q", args[1])
	}

	cctx, cancel := a.callCtx(ctx)
	defer cancel()
	q, err := a.api.AdjustStock(cctx, args[0], delta)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Stock is now %d\n", q)
	return nil
}

func (a *App) Sell(ctx context.Context, args []string) error {
	if len(args) < 1 || len(args) > 2 {
		return fmt.Errorf("%w: sell <id> [qty]", errUsage)
	}
	qty := int64(1)
	if len(args) == 2 {
		n, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil {
			return fmt.Errorf("not a number: %q", args[1])
		}
		qty = n
	}

	cctx, cancel := a.callCtx(ctx)
	defer cancel()
	sale, err := a.api.RecordSale(cctx, args[0], qty)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Sold %d x %s = %s\n", sale.Quantity, sale.UnitPrice.StringFixed(2), sale.Total.StringFixed(2))
	return nil
}

func (a *App) Alerts(ctx context.Context) error {
	cctx, cancel := a.callCtx(ctx)
	defer cancel()
	alerts, err := a.api.ListAlerts(cctx)
	if err != nil {
		return err
	}
	if len(alerts) == 0 {
		fmt.Fprintln(a.out, "No products at or below their minimum")
		return nil
	}

	w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tQTY\tMIN\tSHORTFALL")
	for _, al := range alerts {
		fmt.Fprintf(w, "%s\t%d\t%d\t%d\n", al.Product.Name, al.Product.Quantity, al.Product.Minimum, al.Shortfall)
	}
	return w.Flush()
}

func (a *App) Daily(ctx context.Context) error {
	cctx, cancel := a.callCtx(ctx)
	defer cancel()
	daily, err := a.api.DailySales(cctx)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "TIME\tPRODUCT\tQTY\tTOTAL")
	for _, l := range daily.Lines {
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", l.Sale.SoldAt.Format("15:04"), l.ProductName, l.Sale.Quantity, l.Sale.Total.StringFixed(2))
	}
	fmt.Fprintf(w, "\t\t\t%s\n", daily.Total.StringFixed(2))
	return w.Flush()
}

func (a *App) Report(ctx context.Context, args []string) error {
	g := "day"
	if len(args) > 0 {
		g = args[0]
	}

	cctx, cancel := a.callCtx(ctx)
	defer cancel()
	rep, err := a.api.Report(cctx, g)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Period %s\n", rep.Period)
	w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "SHIFT\tCATEGORY\tSALES\tREVENUE")
	for _, r := range rep.Rows {
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", r.Shift, r.Category, r.Count, r.Revenue.StringFixed(2))
	}
	return w.Flush()
}
