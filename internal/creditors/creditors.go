// Package creditors holds the static creditor catalog served to the intake
// creditor-selection screen. A production deployment would source this from
// a database; the catalog is data, not logic.
package creditors

import "github.com/debtflyhq/debtfly/internal/types"

var catalog = []types.Creditor{
	{ID: "cred-001", Name: "Barclaycard", Category: types.CategoryCreditCard, Active: true},
	{ID: "cred-002", Name: "HSBC Credit Card", Category: types.CategoryCreditCard, Active: true},
	{ID: "cred-003", Name: "Lloyds Bank Credit Card", Category: types.CategoryCreditCard, Active: true},
	{ID: "cred-004", Name: "NatWest Credit Card", Category: types.CategoryCreditCard, Active: true},
	{ID: "cred-005", Name: "Santander Credit Card", Category: types.CategoryCreditCard, Active: true},
	{ID: "cred-006", Name: "Tesco Credit Card", Category: types.CategoryCreditCard, Active: true},
	{ID: "cred-007", Name: "Virgin Money Credit Card", Category: types.CategoryCreditCard, Active: true},
	{ID: "cred-010", Name: "Halifax Personal Loan", Category: types.CategoryPersonalLoan, Active: true},
	{ID: "cred-011", Name: "Zopa", Category: types.CategoryPersonalLoan, Active: true},
	{ID: "cred-012", Name: "Tesco Bank Loan", Category: types.CategoryPersonalLoan, Active: true},
	{ID: "cred-020", Name: "Lending Stream", Category: types.CategoryPaydayLoan, Active: true},
	{ID: "cred-021", Name: "Drafty", Category: types.CategoryPaydayLoan, Active: true},
	{ID: "cred-030", Name: "Argos Card", Category: types.CategoryStoreCard, Active: true},
	{ID: "cred-031", Name: "Very", Category: types.CategoryStoreCard, Active: true},
	{ID: "cred-040", Name: "NatWest Overdraft", Category: types.CategoryOverdraft, Active: true},
	{ID: "cred-041", Name: "Monzo Overdraft", Category: types.CategoryOverdraft, Active: true},
}

// Catalog returns all active creditors.
func Catalog() []types.Creditor {
	active := make([]types.Creditor, 0, len(catalog))
	for _, c := range catalog {
		if c.Active {
			active = append(active, c)
		}
	}
	return active
}

// ByID returns the creditor with the given id, or false.
func ByID(id string) (types.Creditor, bool) {
	for _, c := range catalog {
		if c.ID == id {
			return c, true
		}
	}
	return types.Creditor{}, false
}
