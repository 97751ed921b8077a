package plaid

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/plaid/plaid-go/v41/plaid"
	"github.com/shopspring/decimal"

	"fintrack-server/src/models"
)

const defaultCurrency = "USD"

// rawTransaction holds the fields we read off a Plaid transaction before validation.
type rawTransaction struct {
	ID                   string
	AccountID            string
	Amount               float64
	IsoCurrencyCode      string
	UnofficialCurrency   string
	Name                 string
	MerchantName         string
	Date                 string
	Pending              bool
	PendingTransactionID string
	Category             []string
	PrimaryCategory      string
	DetailedCategory     string
}

func rawTransactionFrom(t plaid.Transaction) rawTransaction {
	pfc := t.GetPersonalFinanceCategory()
	return rawTransaction{
		ID:                   t.GetTransactionId(),
		AccountID:            t.GetAccountId(),
		Amount:               t.GetAmount(),
		IsoCurrencyCode:      t.GetIsoCurrencyCode(),
		UnofficialCurrency:   t.GetUnofficialCurrencyCode(),
		Name:                 t.GetName(),
		MerchantName:         t.GetMerchantName(),
		Date:                 t.GetDate(),
		Pending:              t.GetPending(),
		PendingTransactionID: t.GetPendingTransactionId(),
		Category:             t.GetCategory(),
		PrimaryCategory:      pfc.GetPrimary(),
		DetailedCategory:     pfc.GetDetailed(),
	}
}

func parseTransaction(raw rawTransaction) (models.Transaction, error) {
	if strings.TrimSpace(raw.ID) == "" {
		return models.Transaction{}, errors.New("missing transaction id")
	}
	if math.IsNaN(raw.Amount) || math.IsInf(raw.Amount, 0) {
		return models.Transaction{}, fmt.Errorf("transaction %s: amount is not a finite number", raw.ID)
	}
	date, err := time.Parse(plaidDate, raw.Date)
	if err != nil {
		return models.Transaction{}, fmt.Errorf("transaction %s: bad date %q", raw.ID, raw.Date)
	}

	description := strings.TrimSpace(raw.Name)
	if description == "" {
		description = strings.TrimSpace(raw.MerchantName)
	}

	txn := models.Transaction{
		ExternalTransactionID: raw.ID,
		// Plaid reports money leaving the account as positive.
		Amount:       decimal.NewFromFloat(raw.Amount).Neg(),
		CurrencyCode: currencyOf(raw.IsoCurrencyCode, raw.UnofficialCurrency),
		Description:  description,
		Category:     categoryOf(raw),
		Date:         date,
		Pending:      raw.Pending,
	}
	if !raw.Pending {
		txn.PendingExternalID = raw.PendingTransactionID
	}
	return txn, nil
}

func categoryOf(raw rawTransaction) []string {
	out := make([]string, 0, len(raw.Category))
	for _, c := range raw.Category {
		if c = strings.TrimSpace(c); c != "" {
			out = append(out, c)
		}
	}
	if len(out) > 0 {
		return out
	}
	if raw.PrimaryCategory != "" {
		out = append(out, raw.PrimaryCategory)
	}
	if raw.DetailedCategory != "" && raw.DetailedCategory != raw.PrimaryCategory {
		out = append(out, raw.DetailedCategory)
	}
	return out
}

func currencyOf(iso, unofficial string) string {
	if c := strings.ToUpper(strings.TrimSpace(iso)); c != "" {
		return c
	}
	if c := strings.ToUpper(strings.TrimSpace(unofficial)); c != "" {
		return c
	}
	return defaultCurrency
}

type rawAccount struct {
	ID              string
	Name            string
	OfficialName    string
	Type            string
	Subtype         string
	Mask            string
	Current         *float64
	Available       *float64
	IsoCurrencyCode string
	Unofficial      string
}

func rawAccountFrom(a plaid.AccountBase) rawAccount {
	balances := a.GetBalances()
	raw := rawAccount{
		ID:              a.GetAccountId(),
		Name:            a.GetName(),
		OfficialName:    a.GetOfficialName(),
		Type:            string(a.GetType()),
		Subtype:         string(a.GetSubtype()),
		Mask:            a.GetMask(),
		IsoCurrencyCode: balances.GetIsoCurrencyCode(),
		Unofficial:      balances.GetUnofficialCurrencyCode(),
	}
	if v, ok := balances.GetCurrentOk(); ok && v != nil {
		raw.Current = v
	}
	if v, ok := balances.GetAvailableOk(); ok && v != nil {
		raw.Available = v
	}
	return raw
}

func parseAccount(raw rawAccount) (models.ExternalAccount, error) {
	if strings.TrimSpace(raw.ID) == "" {
		return models.ExternalAccount{}, errors.New("missing account id")
	}

	name := strings.TrimSpace(raw.Name)
	if name == "" {
		name = strings.TrimSpace(raw.OfficialName)
	}
	if name == "" {
		name = "Account"
		if raw.Mask != "" {
			name += " " + raw.Mask
		}
	}

	balance := decimal.Zero
	switch {
	case raw.Current != nil:
		if math.IsNaN(*raw.Current) || math.IsInf(*raw.Current, 0) {
			return models.ExternalAccount{}, fmt.Errorf("account %s: balance is not a finite number", raw.ID)
		}
		balance = decimal.NewFromFloat(*raw.Current)
	case raw.Available != nil:
		if math.IsNaN(*raw.Available) || math.IsInf(*raw.Available, 0) {
			return models.ExternalAccount{}, fmt.Errorf("account %s: balance is not a finite number", raw.ID)
		}
		balance = decimal.NewFromFloat(*raw.Available)
	}

	return models.ExternalAccount{
		ID:           raw.ID,
		Name:         name,
		Type:         raw.Type,
		Subtype:      raw.Subtype,
		Mask:         raw.Mask,
		Balance:      balance,
		CurrencyCode: currencyOf(raw.IsoCurrencyCode, raw.Unofficial),
	}, nil
}
