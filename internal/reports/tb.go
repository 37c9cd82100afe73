package reports

import "time"

// BuildTrialBalance lists period-activity debit and credit totals for every
// account, including accounts with zero activity in the range.
func BuildTrialBalance(from, to time.Time, rows []AccountActivity) Report {
	report := Report{From: from, To: to, Lines: []Line{}}
	for _, row := range rows {
		report.add(Line{
			AccountName: row.AccountName,
			Category:    row.Category,
			Debit:       row.DebitSum,
			Credit:      row.CreditSum,
		})
	}
	return report
}
