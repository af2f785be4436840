package reports

import (
	"encoding/csv"
	"io"
	"strconv"
)

var accountCSVHeader = []string{"period", "account_id", "account", "revenue", "sales", "active_days", "average_ticket"}

// WriteAccountCSV renders the admin report for period as CSV with a header
// row. Revenue keeps two decimal places.
func WriteAccountCSV(w io.Writer, period string, rows []AccountRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(accountCSVHeader); err != nil {
		return err
	}
	for _, r := range rows {
		rec := []string{
			period,
			r.AccountID,
			r.AccountName,
			r.Revenue.StringFixed(2),
			strconv.FormatInt(r.Count, 10),
			strconv.Itoa(r.ActiveDays),
			r.AverageTicket.StringFixed(2),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
