package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return New(server.URL, server.Client(), func() string { return "test-token" }, nil)
}

func TestClient_AttachesHeaders(t *testing.T) {
	var gotAuth, gotContentType, gotRequestID string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotContentType = r.Header.Get("Content-Type")
		gotRequestID = r.Header.Get("X-Request-ID")
		w.Write([]byte(`{}`))
	})

	_, err := client.FetchDashboard(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "Bearer test-token", gotAuth)
	assert.Equal(t, "application/json", gotContentType)
	assert.NotEmpty(t, gotRequestID)
}

func TestClient_NoAuthHeaderWhenAnonymous(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{"access_token":"T","user":{"id":"t1"}}`))
	}))
	t.Cleanup(server.Close)

	client := New(server.URL, server.Client(), nil, nil)
	creds, err := client.Login(context.Background(), "a@b.co", "pw")
	require.NoError(t, err)

	assert.Empty(t, gotAuth)
	assert.Equal(t, "T", creds.AccessToken)
	assert.Equal(t, "t1", creds.User.ID)
}

func TestClient_ErrorMessageFromBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"message":"Invalid credentials"}`))
	})

	_, err := client.Login(context.Background(), "a@b.co", "wrong")
	require.Error(t, err)

	var reqErr *RequestError
	require.ErrorAs(t, err, &reqErr)
	assert.Equal(t, http.StatusUnauthorized, reqErr.Status)
	assert.Equal(t, "Invalid credentials", reqErr.Message)
}

func TestClient_ErrorFallsBackToRawText(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("upstream unavailable"))
	})

	_, err := client.FetchDashboard(context.Background())
	var reqErr *RequestError
	require.ErrorAs(t, err, &reqErr)
	assert.Equal(t, "upstream unavailable", reqErr.Message)
}

func TestClient_ErrorFieldIsNotExtracted(t *testing.T) {
	// Only the message field is read; other JSON shapes surface as
	// raw body text.
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"nope"}`))
	})

	_, err := client.FetchDashboard(context.Background())
	var reqErr *RequestError
	require.ErrorAs(t, err, &reqErr)
	assert.Equal(t, `{"error":"nope"}`, reqErr.Message)
}

func TestClient_ErrorGenericWhenBodyEmpty(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := client.FetchDashboard(context.Background())
	var reqErr *RequestError
	require.ErrorAs(t, err, &reqErr)
	assert.Equal(t, "Request failed (500)", reqErr.Message)
}

func TestClient_NetworkFailureIsRequestError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // force connection refused

	client := New(server.URL, nil, nil, nil)
	_, err := client.FetchDashboard(context.Background())

	var reqErr *RequestError
	require.ErrorAs(t, err, &reqErr)
	assert.Zero(t, reqErr.Status)
}

func TestClient_FetchWalletQuery(t *testing.T) {
	var gotQuery string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		json.NewEncoder(w).Encode(WalletPage{})
	})

	_, err := client.FetchWallet(context.Background(), "c2", 50)
	require.NoError(t, err)
	assert.Equal(t, "cursor=c2&limit=50", gotQuery)

	_, err = client.FetchWallet(context.Background(), "", 0)
	require.NoError(t, err)
	assert.Empty(t, gotQuery)
}

func TestClient_WalletPageDecoding(t *testing.T) {
	body := `{
		"wallet": {"name":"Acme","account_no":"ACC12345678","balance":500,"totals":{"credit":700,"debit":200}},
		"transactions": [{"id":1,"transaction_ref":"TX1","type":"credit","amount":100,"status":"success","created_at":"2025-08-01T10:00:00Z"}],
		"pagination": {"next_cursor":"c2","has_more":true}
	}`
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(body))
	})

	page, err := client.FetchWallet(context.Background(), "", 0)
	require.NoError(t, err)

	assert.Equal(t, 500.0, page.Wallet.Balance)
	require.Len(t, page.Transactions, 1)
	assert.Equal(t, FlexString("1"), page.Transactions[0].ID)
	assert.Equal(t, 100.0, page.Transactions[0].Amount.Float())
	assert.Equal(t, "c2", page.Pagination.NextCursor)
	assert.True(t, page.Pagination.HasMore)
}

func TestClient_KeyLifecycleMethods(t *testing.T) {
	type call struct {
		method string
		action string
	}
	var calls []call
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Action string `json:"action"`
		}
		json.NewDecoder(r.Body).Decode(&body)
		calls = append(calls, call{method: r.Method, action: body.Action})
		if r.Method == http.MethodDelete {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		w.Write([]byte(`{"key":"sk_abcd1234efgh","created_at":"2025-08-01T10:00:00Z","revoked_at":null}`))
	})

	ctx := context.Background()
	key, err := client.GenerateKey(ctx)
	require.NoError(t, err)
	assert.Equal(t, "sk_abcd1234efgh", key.Key)
	assert.False(t, key.Revoked())

	_, err = client.RegenerateKey(ctx)
	require.NoError(t, err)
	require.NoError(t, client.RevokeKey(ctx))

	want := []call{
		{method: http.MethodPost, action: "generate"},
		{method: http.MethodPatch, action: "regenerate"},
		{method: http.MethodDelete},
	}
	assert.Equal(t, want, calls)
}

func TestClient_ConfigUpdateSendsNulls(t *testing.T) {
	var gotBody map[string]any
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.Write([]byte(`{"config":{"callback_url":null,"auto_payout":false,"payment_method":{}}}`))
	})

	update := ConfigUpdate{
		CallbackURL:   nil,
		PaymentMethod: PaymentMethodUpdate{},
		AutoPayout:    false,
	}
	_, err := client.UpdateConfig(context.Background(), update)
	require.NoError(t, err)

	assert.Nil(t, gotBody["callback_url"])
	pm, ok := gotBody["payment_method"].(map[string]any)
	require.True(t, ok)
	assert.Nil(t, pm["mpesa_number"])
}

func TestPaymentMethodLabel(t *testing.T) {
	tests := []struct {
		name   string
		method PaymentMethod
		want   string
	}{
		{"mpesa wins", PaymentMethod{MpesaNumber: "254712345678", PaybillNumber: "1223"}, "M-Pesa 254712345678"},
		{"b2b pair", PaymentMethod{PaybillNumber: "1223", AccountNumber: "887766"}, "Paybill 1223 • Acc 887766"},
		{"paybill only", PaymentMethod{PaybillNumber: "1223"}, "Paybill 1223"},
		{"account only", PaymentMethod{AccountNumber: "887766"}, "Account 887766"},
		{"empty", PaymentMethod{}, "your payout method"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.method.Label())
		})
	}
}
