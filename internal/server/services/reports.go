package services

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/stockkeeper/internal/server/archive"
	"github.com/dmitrijs2005/stockkeeper/internal/server/models"
	"github.com/dmitrijs2005/stockkeeper/internal/server/reports"
	"github.com/shopspring/decimal"
)

type PeriodReport struct {
	Period string
	Rows   []reports.ShiftCategoryRow
}

type StaffReport struct {
	Period string
	Rows   []reports.AccountRow
}

type StaffStatistics struct {
	Period string
	reports.Statistics
}

type DailySales struct {
	Lines []*models.SaleLine
	Total decimal.Decimal
}

// ReportExport locates an archived report.
type ReportExport struct {
	Key string
	URL string
}

// ReportService builds sales reports. Periods are calendar units in loc.
type ReportService struct {
	deps Deps
	loc  *time.Location
}

func NewReportService(d Deps, loc *time.Location) *ReportService {
	if loc == nil {
		loc = time.UTC
	}
	return &ReportService{deps: d.withDefaults(), loc: loc}
}

// Aggregate reports the caller's sales in the period containing asOf (zero
// means now) by shift and current product category.
func (s *ReportService) Aggregate(ctx context.Context, sess *models.Session, g reports.Granularity, asOf time.Time) (*PeriodReport, error) {
	if err := requireSession(sess); err != nil {
		return nil, err
	}
	asOf = s.asOf(asOf)
	from, to := reports.PeriodBounds(g, asOf, s.loc)

	lines, err := s.deps.Repos.Sales(s.deps.Tx.Conn()).ListByAccount(ctx, sess.AccountID, from, to)
	if err != nil {
		return nil, fmt.Errorf("error loading sales: %w", err)
	}
	return &PeriodReport{
		Period: reports.PeriodKey(g, asOf, s.loc),
		Rows:   reports.ByShiftAndCategory(lines, g, s.loc),
	}, nil
}

// AdminAggregateByAccount reports every staff account's sales in the period.
func (s *ReportService) AdminAggregateByAccount(ctx context.Context, sess *models.Session, g reports.Granularity, asOf time.Time) (*StaffReport, error) {
	if err := requireAdmin(sess); err != nil {
		return nil, err
	}
	asOf = s.asOf(asOf)
	from, to := reports.PeriodBounds(g, asOf, s.loc)

	lines, err := s.deps.Repos.Sales(s.deps.Tx.Conn()).ListStaff(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("error loading sales: %w", err)
	}
	return &StaffReport{
		Period: reports.PeriodKey(g, asOf, s.loc),
		Rows:   reports.ByAccount(lines, s.loc),
	}, nil
}

// AdminStatistics totals staff sales in the period: revenue, number of
// sales, selling accounts and the average ticket.
func (s *ReportService) AdminStatistics(ctx context.Context, sess *models.Session, g reports.Granularity, asOf time.Time) (*StaffStatistics, error) {
	rep, err := s.AdminAggregateByAccount(ctx, sess, g, asOf)
	if err != nil {
		return nil, err
	}
	return &StaffStatistics{Period: rep.Period, Statistics: reports.Summarize(rep.Rows)}, nil
}

// DailySalesWithTotal lists the caller's sales of today, newest first.
func (s *ReportService) DailySalesWithTotal(ctx context.Context, sess *models.Session) (*DailySales, error) {
	if err := requireSession(sess); err != nil {
		return nil, err
	}
	from, to := reports.PeriodBounds(reports.Day, s.deps.Now(), s.loc)

	lines, err := s.deps.Repos.Sales(s.deps.Tx.Conn()).ListByAccount(ctx, sess.AccountID, from, to)
	if err != nil {
		return nil, fmt.Errorf("error loading sales: %w", err)
	}
	return &DailySales{Lines: lines, Total: reports.Total(lines)}, nil
}

// ExportStaffReport archives the staff report as CSV and returns a
// presigned link to it.
func (s *ReportService) ExportStaffReport(ctx context.Context, sess *models.Session, g reports.Granularity, asOf time.Time) (*ReportExport, error) {
	rep, err := s.AdminAggregateByAccount(ctx, sess, g, asOf)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := reports.WriteAccountCSV(&buf, rep.Period, rep.Rows); err != nil {
		return nil, fmt.Errorf("error rendering report: %w", err)
	}

	key := archive.NewReportKey("staff", rep.Period)
	if err := s.deps.Archive.Put(ctx, key, "text/csv", buf.Bytes()); err != nil {
		return nil, fmt.Errorf("error uploading report: %w", err)
	}
	url, err := s.deps.Archive.PresignGet(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("error presigning report: %w", err)
	}

	s.deps.Logger.Info(ctx, "staff report exported", "key", key)
	return &ReportExport{Key: key, URL: url}, nil
}

func (s *ReportService) asOf(t time.Time) time.Time {
	if t.IsZero() {
		return s.deps.Now()
	}
	return t
}
