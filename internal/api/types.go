package api

import (
	"encoding/json"
	"strconv"
)

// Credentials is the login/signup response payload.
type Credentials struct {
	AccessToken string `json:"access_token"`
	User        User   `json:"user"`
}

// User is the tenant profile embedded in auth responses.
type User struct {
	ID    string `json:"id,omitempty"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

// PaymentMethod is a payout destination: either a direct M-Pesa number
// or a B2B paybill/account pair. All fields optional.
type PaymentMethod struct {
	MpesaNumber   string `json:"mpesa_number,omitempty"`
	PaybillNumber string `json:"paybill_number,omitempty"`
	AccountNumber string `json:"account_number,omitempty"`
}

// Empty reports whether no payout destination is configured.
func (m PaymentMethod) Empty() bool {
	return m.MpesaNumber == "" && m.PaybillNumber == "" && m.AccountNumber == ""
}

// Label resolves the method to the description shown in confirmation
// prompts, favouring the direct number over the B2B pair.
func (m PaymentMethod) Label() string {
	switch {
	case m.MpesaNumber != "":
		return "M-Pesa " + m.MpesaNumber
	case m.PaybillNumber != "" && m.AccountNumber != "":
		return "Paybill " + m.PaybillNumber + " • Acc " + m.AccountNumber
	case m.PaybillNumber != "":
		return "Paybill " + m.PaybillNumber
	case m.AccountNumber != "":
		return "Account " + m.AccountNumber
	default:
		return "your payout method"
	}
}

// TenantConfig is the tenant's gateway configuration.
type TenantConfig struct {
	AccountNo     string        `json:"account_no,omitempty"`
	LinkID        string        `json:"link_id,omitempty"`
	CallbackURL   *string       `json:"callback_url"`
	AutoPayout    bool          `json:"auto_payout"`
	PaymentMethod PaymentMethod `json:"payment_method"`
}

// ConfigUpdate is the full-replace PUT payload for tenant configuration.
// Empty strings are sent as nulls, matching the backend contract.
type ConfigUpdate struct {
	CallbackURL   *string             `json:"callback_url"`
	PaymentMethod PaymentMethodUpdate `json:"payment_method"`
	AutoPayout    bool                `json:"auto_payout"`
}

// PaymentMethodUpdate mirrors PaymentMethod with explicit nulls.
type PaymentMethodUpdate struct {
	MpesaNumber   *string `json:"mpesa_number"`
	PaybillNumber *string `json:"paybill_number"`
	AccountNumber *string `json:"account_number"`
}

// Dashboard is the tenant profile + config response.
type Dashboard struct {
	ID            string       `json:"id"`
	Name          string       `json:"name"`
	WalletBalance float64      `json:"wallet_balance"`
	Config        TenantConfig `json:"config"`
}

// WalletTotals aggregates credits and debits.
type WalletTotals struct {
	Credit float64 `json:"credit"`
	Debit  float64 `json:"debit"`
}

// Wallet is the tenant's balance summary.
type Wallet struct {
	Name      string       `json:"name"`
	AccountNo string       `json:"account_no"`
	Balance   float64      `json:"balance"`
	Totals    WalletTotals `json:"totals"`
}

// B2BAccount identifies a business-to-business payout destination.
type B2BAccount struct {
	PaybillNumber string `json:"paybill_number,omitempty"`
	AccountNumber string `json:"account_number,omitempty"`
}

// FlexString decodes a JSON string or number into a string. The backend
// serializes transaction ids and amounts as strings, but older responses
// carried bare numbers.
type FlexString string

// UnmarshalJSON implements json.Unmarshaler.
func (f *FlexString) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = FlexString(n.String())
	return nil
}

// Float parses the value as a decimal amount, defaulting to zero.
func (f FlexString) Float() float64 {
	v, err := strconv.ParseFloat(string(f), 64)
	if err != nil {
		return 0
	}
	return v
}

// Transaction is one immutable ledger entry.
type Transaction struct {
	ID                   FlexString  `json:"id"`
	TransactionRef       string      `json:"transaction_ref"`
	Type                 string      `json:"type"`
	Amount               FlexString  `json:"amount"`
	Status               string      `json:"status"`
	AccountNo            string      `json:"account_no,omitempty"`
	ReceivingMpesaNumber string      `json:"receiving_mpesa_number,omitempty"`
	B2BAccount           *B2BAccount `json:"b2b_account,omitempty"`
	Gateway              string      `json:"gateway,omitempty"`
	CreatedAt            string      `json:"created_at"`
}

// Pagination carries the opaque cursor for the next transaction page.
type Pagination struct {
	NextCursor string `json:"next_cursor"`
	HasMore    bool   `json:"has_more"`
}

// WalletPage is one page of the wallet endpoint.
type WalletPage struct {
	Wallet       Wallet        `json:"wallet"`
	Transactions []Transaction `json:"transactions"`
	Pagination   Pagination    `json:"pagination"`
}

// APIKey is the tenant's API key record. Key is empty once revoked.
type APIKey struct {
	Key       string  `json:"key"`
	CreatedAt string  `json:"created_at"`
	RevokedAt *string `json:"revoked_at"`
}

// Revoked reports whether the key has been soft-deleted.
func (k APIKey) Revoked() bool {
	return k.RevokedAt != nil && *k.RevokedAt != ""
}
