package reports

import (
	"strings"
	"time"
)

// BuildProfitLoss mirrors the trial balance's range-activity method but keeps
// only Income and Expense accounts: expense activity lands in the debit
// column, income activity in the credit column.
func BuildProfitLoss(from, to time.Time, rows []AccountActivity) Report {
	report := Report{From: from, To: to, Lines: []Line{}}
	for _, row := range rows {
		switch strings.ToUpper(row.Type) {
		case "EXPENSE":
			report.add(Line{
				AccountName: row.AccountName,
				Category:    row.Category,
				Debit:       row.DebitSum,
			})
		case "INCOME":
			report.add(Line{
				AccountName: row.AccountName,
				Category:    row.Category,
				Credit:      row.CreditSum,
			})
		}
	}
	return report
}
