package cmd

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"
)

// configBackend serves a mutable tenant dashboard and records every
// PUT body it receives.
type configBackend struct {
	dashboard map[string]any
	puts      []string
}

func newConfigBackend(mpesaNumber string, autoPayout bool) *configBackend {
	callback := "https://callback.acme.co/hook"
	return &configBackend{
		dashboard: map[string]any{
			"id":             "3f8e2a40-0000-0000-0000-000000000000",
			"name":           "Acme",
			"wallet_balance": 1250.5,
			"config": map[string]any{
				"account_no":   "ACC12345678",
				"callback_url": callback,
				"auto_payout":  autoPayout,
				"payment_method": map[string]any{
					"mpesa_number": mpesaNumber,
				},
			},
		},
	}
}

func (b *configBackend) handler(t *testing.T) http.Handler {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("GET /tenants/dashboard/configs", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(b.dashboard)
	})
	mux.HandleFunc("PUT /tenants/dashboard/configs", func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		b.puts = append(b.puts, string(body))

		var update struct {
			CallbackURL   *string        `json:"callback_url"`
			AutoPayout    bool           `json:"auto_payout"`
			PaymentMethod map[string]any `json:"payment_method"`
		}
		if err := json.Unmarshal(body, &update); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		cfg := b.dashboard["config"].(map[string]any)
		cfg["callback_url"] = update.CallbackURL
		cfg["auto_payout"] = update.AutoPayout
		cfg["payment_method"] = update.PaymentMethod
		json.NewEncoder(w).Encode(b.dashboard)
	})
	return mux
}

func TestConfigShow_JSON(t *testing.T) {
	backend := newConfigBackend("254712345678", false)
	sessionDir := setupCmdTest(t, backend.handler(t))
	signIn(t, sessionDir)

	out, err := execute(t, "config", "show", "--json")
	if err != nil {
		t.Fatalf("config show failed: %v", err)
	}

	var d struct {
		Name   string `json:"name"`
		Config struct {
			AutoPayout bool `json:"auto_payout"`
		} `json:"config"`
	}
	if err := json.Unmarshal([]byte(out), &d); err != nil {
		t.Fatalf("decoding output: %v\n%s", err, out)
	}
	if d.Name != "Acme" {
		t.Errorf("name = %q, want Acme", d.Name)
	}
}

func TestConfigEdit_EnableWithYesFlag(t *testing.T) {
	backend := newConfigBackend("254712345678", false)
	sessionDir := setupCmdTest(t, backend.handler(t))
	signIn(t, sessionDir)

	if _, err := execute(t, "config", "edit", "--auto-payout", "--yes"); err != nil {
		t.Fatalf("config edit failed: %v", err)
	}

	if len(backend.puts) != 1 {
		t.Fatalf("expected exactly one PUT, got %d", len(backend.puts))
	}
	if !strings.Contains(backend.puts[0], `"auto_payout":true`) {
		t.Errorf("PUT body = %s, want auto_payout true", backend.puts[0])
	}
}

func TestConfigEdit_PromptAccepted(t *testing.T) {
	backend := newConfigBackend("254712345678", false)
	sessionDir := setupCmdTest(t, backend.handler(t))
	signIn(t, sessionDir)

	rootCmd.SetIn(strings.NewReader("y\n"))
	t.Cleanup(func() { rootCmd.SetIn(nil) })

	out, err := execute(t, "config", "edit", "--auto-payout")
	if err != nil {
		t.Fatalf("config edit failed: %v", err)
	}
	if !strings.Contains(out, "[y/N]") {
		t.Errorf("expected confirmation prompt, got:\n%s", out)
	}
	if len(backend.puts) != 1 {
		t.Errorf("expected one PUT after confirmation, got %d", len(backend.puts))
	}
}

func TestConfigEdit_PromptDeclined(t *testing.T) {
	backend := newConfigBackend("254712345678", false)
	sessionDir := setupCmdTest(t, backend.handler(t))
	signIn(t, sessionDir)

	rootCmd.SetIn(strings.NewReader("n\n"))
	t.Cleanup(func() { rootCmd.SetIn(nil) })

	if _, err := execute(t, "config", "edit", "--auto-payout"); err != nil {
		t.Fatalf("declined edit should not error: %v", err)
	}
	if len(backend.puts) != 0 {
		t.Errorf("declined confirmation must not save, got %d PUTs", len(backend.puts))
	}
}

func TestConfigEdit_EnableWithoutMethodRefused(t *testing.T) {
	backend := newConfigBackend("", false)
	sessionDir := setupCmdTest(t, backend.handler(t))
	signIn(t, sessionDir)

	_, err := execute(t, "config", "edit", "--auto-payout", "--yes")
	if err == nil {
		t.Fatal("expected refusal without a payout method")
	}
	if !strings.Contains(err.Error(), "cannot enable auto payout") {
		t.Errorf("error = %q", err.Error())
	}
	if len(backend.puts) != 0 {
		t.Errorf("refused edit must not save, got %d PUTs", len(backend.puts))
	}
}

func TestConfigEdit_MethodAndEnableTogether(t *testing.T) {
	backend := newConfigBackend("", false)
	sessionDir := setupCmdTest(t, backend.handler(t))
	signIn(t, sessionDir)

	_, err := execute(t, "config", "edit", "--mpesa-number", "254700000000", "--auto-payout", "--yes")
	if err != nil {
		t.Fatalf("config edit failed: %v", err)
	}
	if len(backend.puts) != 1 {
		t.Fatalf("expected one PUT, got %d", len(backend.puts))
	}
	if !strings.Contains(backend.puts[0], "254700000000") {
		t.Errorf("PUT body = %s, want new payout number", backend.puts[0])
	}
}

func TestConfigEdit_DisableSkipsConfirmation(t *testing.T) {
	backend := newConfigBackend("254712345678", true)
	sessionDir := setupCmdTest(t, backend.handler(t))
	signIn(t, sessionDir)

	// Empty stdin: if a prompt fired it would read EOF and cancel,
	// leaving zero PUTs.
	rootCmd.SetIn(strings.NewReader(""))
	t.Cleanup(func() { rootCmd.SetIn(nil) })

	if _, err := execute(t, "config", "edit", "--auto-payout=false"); err != nil {
		t.Fatalf("config edit failed: %v", err)
	}
	if len(backend.puts) != 1 {
		t.Fatalf("disabling must save without confirmation, got %d PUTs", len(backend.puts))
	}
	if !strings.Contains(backend.puts[0], `"auto_payout":false`) {
		t.Errorf("PUT body = %s, want auto_payout false", backend.puts[0])
	}
}

func TestConfigEdit_ClearedFieldsSentAsNull(t *testing.T) {
	backend := newConfigBackend("254712345678", false)
	sessionDir := setupCmdTest(t, backend.handler(t))
	signIn(t, sessionDir)

	if _, err := execute(t, "config", "edit", "--callback-url", ""); err != nil {
		t.Fatalf("config edit failed: %v", err)
	}
	if len(backend.puts) != 1 {
		t.Fatalf("expected one PUT, got %d", len(backend.puts))
	}
	if !strings.Contains(backend.puts[0], `"callback_url":null`) {
		t.Errorf("PUT body = %s, want callback_url null", backend.puts[0])
	}
	if !strings.Contains(backend.puts[0], `"paybill_number":null`) {
		t.Errorf("PUT body = %s, want absent paybill sent as null", backend.puts[0])
	}
}
