package cli

import (
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for REPL output.
var printlnFn = fmt.Println

// execIface is the command surface the REPL dispatches to.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Shift(ctx context.Context, args []string) error
	Products(ctx context.Context) error
	AddProduct(ctx context.Context) error
	Restock(ctx context.Context, args []string) error
	Sell(ctx context.Context, args []string) error
	Alerts(ctx context.Context) error
	Daily(ctx context.Context) error
	Report(ctx context.Context, args []string) error
}

type lineSource interface {
	Scan() bool
	Text() string
}

// runREPL reads commands until EOF or "exit"/"quit".
//
//	Not logged in:  help, register, login, exit
//	Logged in:      help, shift <morning|night>, products, add,
//	                restock <id> <delta>, sell <id> [qty], alerts, daily,
//	                report [day|month|year], logout, exit
//
// Command errors are printed and the loop continues.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner lineSource) {
	for {
		printlnFn(fmt.Sprintf("sk %s> ", statusFn()))
		if !scanner.Scan() {
			return
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		var err error
		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: shift, products, add, restock, sell, alerts, daily, report, logout, exit")
			} else {
				printlnFn("Available commands: register, login, exit")
			}

		case "register":
			err = a.Register(ctx)

		case "login":
			err = a.Login(ctx)

		case "logout":
			err = a.Logout(ctx)

		case "shift":
			err = a.Shift(ctx, args)

		case "p", "products":
			err = a.Products(ctx)

		case "add":
			err = a.AddProduct(ctx)

		case "restock":
			err = a.Restock(ctx, args)

		case "sell":
			err = a.Sell(ctx, args)

		case "alerts":
			err = a.Alerts(ctx)

		case "daily":
			err = a.Daily(ctx)

		case "report":
			err = a.Report(ctx, args)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if err != nil {
			printlnFn("error:", err.Error())
		}
	}
}
