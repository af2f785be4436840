package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/stockkeeper/internal/common"
	"github.com/dmitrijs2005/stockkeeper/internal/dbx"
	"github.com/dmitrijs2005/stockkeeper/internal/server/models"
)

// CheckoutLine is one cart entry.
type CheckoutLine struct {
	ProductID string
	Quantity  int64
}

// LineResult is the outcome of one cart entry; exactly one of Sale and Err
// is set.
type LineResult struct {
	ProductID string
	Sale      *models.Sale
	Err       error
}

type CheckoutResult struct {
	Lines     []LineResult
	Succeeded int
}

// SaleService records sales against the stock ledger.
type SaleService struct {
	deps Deps
}

func NewSaleService(d Deps) *SaleService {
	return &SaleService{deps: d.withDefaults()}
}

// RecordSale decrements the product and appends the sale in one
// transaction. The unit price is the one read by the decrement.
func (s *SaleService) RecordSale(ctx context.Context, sess *models.Session, productID string, quantity int64) (*models.Sale, error) {
	if err := requireSession(sess); err != nil {
		return nil, err
	}
	if productID == "" || quantity <= 0 {
		return nil, fmt.Errorf("%w: product and a positive quantity are required", common.ErrorInvalidInput)
	}
	if sess.Shift == "" {
		return nil, common.ErrorShiftNotSet
	}

	var sale *models.Sale
	err := s.deps.Tx.WithTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		price, _, err := s.deps.Repos.Products(tx).Take(ctx, productID, quantity)
		if err != nil {
			return err
		}
		sale, err = s.deps.Repos.Sales(tx).Create(ctx, &models.Sale{
			AccountID: sess.AccountID,
			ProductID: productID,
			Quantity:  quantity,
			UnitPrice: price,
			Shift:     sess.Shift,
			SoldAt:    s.deps.Now(),
		})
		return err
	})
	if err != nil {
		if errors.Is(err, common.ErrorInsufficientStock) {
			s.deps.Metrics.StockRejected()
		}
		return nil, fmt.Errorf("error recording sale: %w", err)
	}

	s.deps.Metrics.SaleRecorded(string(sale.Shift))
	s.deps.Logger.Debug(ctx, "sale recorded", "sale_id", sale.ID, "product_id", productID, "quantity", quantity)
	return sale, nil
}

// Checkout records every line independently. A failed line does not undo
// the lines before it.
func (s *SaleService) Checkout(ctx context.Context, sess *models.Session, lines []CheckoutLine) (*CheckoutResult, error) {
	if err := requireSession(sess); err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, fmt.Errorf("%w: empty cart", common.ErrorInvalidInput)
	}
	if sess.Shift == "" {
		return nil, common.ErrorShiftNotSet
	}

	res := &CheckoutResult{Lines: make([]LineResult, 0, len(lines))}
	for _, l := range lines {
		sale, err := s.RecordSale(ctx, sess, l.ProductID, l.Quantity)
		res.Lines = append(res.Lines, LineResult{ProductID: l.ProductID, Sale: sale, Err: err})
		if err == nil {
			res.Succeeded++
		}
	}
	return res, nil
}
