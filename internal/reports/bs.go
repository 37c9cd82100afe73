package reports

import (
	"strings"
	"time"
)

// BuildBalanceSheet reports point-in-time closing balances, not period
// activity: only Asset and Liability accounts appear, assets in the debit
// column and liabilities in the credit column.
func BuildBalanceSheet(asOf time.Time, rows []AccountActivity) Report {
	report := Report{From: asOf, To: asOf, Lines: []Line{}}
	for _, row := range rows {
		switch strings.ToUpper(row.Type) {
		case "ASSET":
			report.add(Line{
				AccountName: row.AccountName,
				Category:    row.Category,
				Debit:       row.Closing,
			})
		case "LIABILITY":
			report.add(Line{
				AccountName: row.AccountName,
				Category:    row.Category,
				Credit:      row.Closing,
			})
		}
	}
	return report
}
