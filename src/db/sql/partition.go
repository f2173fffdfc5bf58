package db

import "fmt"

// The ledger is partitioned into one expense and one income table per month,
// suffixed jan..dec; a year column inside each table carries multi-year data.
var monthSuffixes = [13]string{"", "jan", "feb", "mar", "apr", "may", "jun",
	"jul", "aug", "sep", "oct", "nov", "dec"}

func monthSuffix(monthID int) (string, error) {
	if monthID < 1 || monthID > 12 {
		return "", fmt.Errorf("invalid month id %d", monthID)
	}
	return monthSuffixes[monthID], nil
}

func expenseTable(monthID int) (string, error) {
	suffix, err := monthSuffix(monthID)
	if err != nil {
		return "", err
	}
	return "monthly_transactions_" + suffix, nil
}

func incomeTable(monthID int) (string, error) {
	suffix, err := monthSuffix(monthID)
	if err != nil {
		return "", err
	}
	return "monthly_income_" + suffix, nil
}
