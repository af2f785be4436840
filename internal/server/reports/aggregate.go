package reports

import (
	"sort"
	"time"

	"github.com/dmitrijs2005/stockkeeper/internal/server/models"
	"github.com/shopspring/decimal"
)

// ShiftCategoryRow is one group of an account's own report.
type ShiftCategoryRow struct {
	Period   string
	Shift    models.Shift
	Category models.Category
	Revenue  decimal.Decimal
	Count    int64
}

// AccountRow is one staff member's line in the admin report.
// AverageTicket is Revenue / Count rounded to cents.
type AccountRow struct {
	AccountID     string
	AccountName   string
	Revenue       decimal.Decimal
	AverageTicket decimal.Decimal
	Count         int64
	ActiveDays    int
}

// Statistics summarises staff sales over a period.
type Statistics struct {
	Revenue       decimal.Decimal
	AverageTicket decimal.Decimal
	Count         int64
	Accounts      int
}

type groupKey struct {
	period   string
	shift    models.Shift
	category models.Category
}

// ByShiftAndCategory groups lines by (period, shift, category). Count is the
// number of sale rows, not units. Rows are ordered by period, shift and
// category.
func ByShiftAndCategory(lines []*models.SaleLine, g Granularity, loc *time.Location) []ShiftCategoryRow {
	groups := make(map[groupKey]*ShiftCategoryRow)
	for _, l := range lines {
		k := groupKey{period: PeriodKey(g, l.SoldAt, loc), shift: l.Shift, category: l.Category}
		row, ok := groups[k]
		if !ok {
			row = &ShiftCategoryRow{Period: k.period, Shift: k.shift, Category: k.category, Revenue: decimal.Zero}
			groups[k] = row
		}
		row.Revenue = row.Revenue.Add(l.Total())
		row.Count++
	}

	result := make([]ShiftCategoryRow, 0, len(groups))
	for _, row := range groups {
		result = append(result, *row)
	}
	sort.Slice(result, func(i, j int) bool {
		a, b := result[i], result[j]
		if a.Period != b.Period {
			return a.Period < b.Period
		}
		if a.Shift != b.Shift {
			return a.Shift < b.Shift
		}
		return a.Category < b.Category
	})
	return result
}

// ByAccount groups lines by account. ActiveDays counts distinct calendar
// days in loc with at least one sale. Rows are ordered by revenue, highest
// first, then by name and id.
func ByAccount(lines []*models.SaleLine, loc *time.Location) []AccountRow {
	type acc struct {
		row  AccountRow
		days map[string]struct{}
	}
	groups := make(map[string]*acc)
	for _, l := range lines {
		a, ok := groups[l.AccountID]
		if !ok {
			a = &acc{
				row:  AccountRow{AccountID: l.AccountID, AccountName: l.AccountName, Revenue: decimal.Zero},
				days: make(map[string]struct{}),
			}
			groups[l.AccountID] = a
		}
		a.row.Revenue = a.row.Revenue.Add(l.Total())
		a.row.Count++
		a.days[PeriodKey(Day, l.SoldAt, loc)] = struct{}{}
	}

	result := make([]AccountRow, 0, len(groups))
	for _, a := range groups {
		a.row.ActiveDays = len(a.days)
		a.row.AverageTicket = averageTicket(a.row.Revenue, a.row.Count)
		result = append(result, a.row)
	}
	sort.Slice(result, func(i, j int) bool {
		a, b := result[i], result[j]
		if c := a.Revenue.Cmp(b.Revenue); c != 0 {
			return c > 0
		}
		if a.AccountName != b.AccountName {
			return a.AccountName < b.AccountName
		}
		return a.AccountID < b.AccountID
	})
	return result
}

// Summarize folds per-account rows into period totals. Accounts counts
// the staff members with at least one sale.
func Summarize(rows []AccountRow) Statistics {
	st := Statistics{Revenue: decimal.Zero}
	for _, r := range rows {
		st.Revenue = st.Revenue.Add(r.Revenue)
		st.Count += r.Count
	}
	st.Accounts = len(rows)
	st.AverageTicket = averageTicket(st.Revenue, st.Count)
	return st
}

func averageTicket(revenue decimal.Decimal, n int64) decimal.Decimal {
	if n == 0 {
		return decimal.Zero
	}
	return revenue.DivRound(decimal.NewFromInt(n), 2)
}

// Total sums the line totals.
func Total(lines []*models.SaleLine) decimal.Decimal {
	sum := decimal.Zero
	for _, l := range lines {
		sum = sum.Add(l.Total())
	}
	return sum
}
