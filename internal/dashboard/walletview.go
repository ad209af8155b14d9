package dashboard

import (
	"context"
	"strings"

	"github.com/paytrack/paytrackctl/internal/api"
	"github.com/paytrack/paytrackctl/internal/format"
)

// WalletAPI is the slice of the API client the wallet view needs.
type WalletAPI interface {
	FetchWallet(ctx context.Context, cursor string, limit int) (*api.WalletPage, error)
}

// WalletView drives the wallet screen: balance summary plus an
// append-only, cursor-paginated transaction list.
type WalletView struct {
	client WalletAPI
	limit  int

	wallet       *api.Wallet
	transactions []api.Transaction
	cursor       string
	hasMore      bool
	loadingMore  bool
	pages        int
	err          string
}

// NewWalletView creates a wallet view. limit 0 uses the server default
// page size.
func NewWalletView(client WalletAPI, limit int) *WalletView {
	return &WalletView{client: client, limit: limit}
}

// Load fetches the first page, replacing any existing state.
func (v *WalletView) Load(ctx context.Context) error {
	page, err := v.client.FetchWallet(ctx, "", v.limit)
	if err != nil {
		v.err = err.Error()
		return err
	}
	v.wallet = &page.Wallet
	v.transactions = append([]api.Transaction(nil), page.Transactions...)
	v.cursor = page.Pagination.NextCursor
	v.hasMore = page.Pagination.HasMore
	v.pages = 1
	v.err = ""
	return nil
}

// LoadMore fetches the next page and appends its transactions. It is a
// no-op when no page is pending or a fetch is already in flight, so
// pagination requests stay serialized. The returned bool reports
// whether a request was issued.
func (v *WalletView) LoadMore(ctx context.Context) (bool, error) {
	if !v.hasMore || v.loadingMore {
		return false, nil
	}
	v.loadingMore = true
	defer func() { v.loadingMore = false }()

	page, err := v.client.FetchWallet(ctx, v.cursor, v.limit)
	if err != nil {
		v.err = err.Error()
		return true, err
	}
	v.transactions = append(v.transactions, page.Transactions...)
	v.cursor = page.Pagination.NextCursor
	v.hasMore = page.Pagination.HasMore
	v.pages++
	v.err = ""
	return true, nil
}

// LoadAll follows cursors until the backend reports no more pages, or
// maxPages is reached (0 means unlimited).
func (v *WalletView) LoadAll(ctx context.Context, maxPages int) error {
	if err := v.Load(ctx); err != nil {
		return err
	}
	for v.hasMore {
		if maxPages > 0 && v.pages >= maxPages {
			return nil
		}
		if _, err := v.LoadMore(ctx); err != nil {
			return err
		}
	}
	return nil
}

// Wallet returns the balance summary, or nil before Load.
func (v *WalletView) Wallet() *api.Wallet {
	return v.wallet
}

// Transactions returns the accumulated transaction list in the order
// the backend delivered it (reverse-chronological).
func (v *WalletView) Transactions() []api.Transaction {
	return v.transactions
}

// HasMore reports whether another page is available.
func (v *WalletView) HasMore() bool {
	return v.hasMore
}

// Cursor returns the pending pagination cursor, empty when exhausted.
func (v *WalletView) Cursor() string {
	return v.cursor
}

// PagesFetched returns how many pages have been loaded so far.
func (v *WalletView) PagesFetched() int {
	return v.pages
}

// Err returns the last captured error message, empty when clear.
func (v *WalletView) Err() string {
	return v.err
}

// MaskedAccount returns the wallet's own account number with only the
// last four characters visible.
func (v *WalletView) MaskedAccount() string {
	if v.wallet == nil || v.wallet.AccountNo == "" {
		return "••••"
	}
	n := v.wallet.AccountNo
	if len(n) <= 4 {
		return n
	}
	return strings.Repeat("•", len(n)-4) + n[len(n)-4:]
}

// Counterparty resolves a transaction's display counterparty: the
// direct M-Pesa recipient if present, else the B2B paybill/account
// pair, else the tenant's own account number. All identifiers are
// partially masked.
func Counterparty(t api.Transaction) string {
	if t.ReceivingMpesaNumber != "" {
		return "mpesa: " + format.Mask(t.ReceivingMpesaNumber)
	}
	if t.B2BAccount != nil && (t.B2BAccount.AccountNumber != "" || t.B2BAccount.PaybillNumber != "") {
		out := "b2b:"
		if t.B2BAccount.AccountNumber != "" {
			out += " account: " + format.MaskShort(t.B2BAccount.AccountNumber)
		}
		if t.B2BAccount.PaybillNumber != "" {
			out += " paybill: " + format.MaskShort(t.B2BAccount.PaybillNumber)
		}
		return out
	}
	if t.AccountNo != "" {
		return "mpesa: " + format.Mask(t.AccountNo)
	}
	return "-"
}
