// Package cli provides the interactive StockKeeper terminal for cashiers
// and store managers.
//
// It wires configuration, the gRPC client and a line-oriented REPL. The
// prompt shows the logged-in account and the selected shift, e.g.
// "sk (alice@morning)> ".
//
// Key features:
//   - Register / Login (with an authenticator code when 2FA is enabled) / Logout
//   - Shift selection, required before selling
//   - Product listing, registration and restocking
//   - Sales, low-stock alerts, today's sales and period reports
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App and runREPL for details.
package cli
