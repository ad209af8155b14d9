package cmd

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"
)

// keyBackend holds at most one key, mirroring the one-key-per-tenant
// rule, and records the methods it served.
type keyBackend struct {
	key     map[string]any
	methods []string
}

func (b *keyBackend) handler(t *testing.T) http.Handler {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/tenants/dashboard/key", func(w http.ResponseWriter, r *http.Request) {
		b.methods = append(b.methods, r.Method)
		switch r.Method {
		case http.MethodGet:
			if b.key == nil {
				w.WriteHeader(http.StatusNotFound)
				w.Write([]byte(`{"message":"Key not found"}`))
				return
			}
			json.NewEncoder(w).Encode(b.key)
		case http.MethodPost:
			if b.key != nil {
				w.WriteHeader(http.StatusBadRequest)
				w.Write([]byte(`{"message":"Key already exists"}`))
				return
			}
			b.key = map[string]any{"key": "sk_abcd1234efgh", "created_at": "2025-08-01T10:00:00Z"}
			json.NewEncoder(w).Encode(b.key)
		case http.MethodPatch:
			b.key = map[string]any{"key": "sk_wxyz9876stuv", "created_at": "2025-08-02T10:00:00Z"}
			json.NewEncoder(w).Encode(b.key)
		case http.MethodDelete:
			b.key = nil
			w.WriteHeader(http.StatusOK)
			w.Write([]byte(`{"message":"Key revoked"}`))
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	})
	return mux
}

func TestKeyShow_NoKey(t *testing.T) {
	backend := &keyBackend{}
	sessionDir := setupCmdTest(t, backend.handler(t))
	signIn(t, sessionDir)

	// A 404 means the tenant has no key yet; that is not an error.
	if _, err := execute(t, "key", "show"); err != nil {
		t.Fatalf("key show without a key should not error: %v", err)
	}
}

func TestKeyShow_MaskedJSON(t *testing.T) {
	backend := &keyBackend{key: map[string]any{"key": "sk_abcd1234efgh", "created_at": "2025-08-01T10:00:00Z"}}
	sessionDir := setupCmdTest(t, backend.handler(t))
	signIn(t, sessionDir)

	out, err := execute(t, "key", "show", "--json")
	if err != nil {
		t.Fatalf("key show failed: %v", err)
	}

	var payload struct {
		Key string `json:"key"`
	}
	if err := json.Unmarshal([]byte(out), &payload); err != nil {
		t.Fatalf("decoding output: %v\n%s", err, out)
	}
	if payload.Key != "sk_a*******efgh" {
		t.Errorf("key = %q, want masked value", payload.Key)
	}
	if strings.Contains(out, "sk_abcd1234efgh") {
		t.Error("raw key leaked into show output")
	}
}

func TestKeyGenerate(t *testing.T) {
	backend := &keyBackend{}
	sessionDir := setupCmdTest(t, backend.handler(t))
	signIn(t, sessionDir)

	out, err := execute(t, "key", "generate")
	if err != nil {
		t.Fatalf("key generate failed: %v", err)
	}
	if backend.key == nil {
		t.Fatal("backend holds no key after generate")
	}
	if strings.Contains(out, "sk_abcd1234efgh") {
		t.Error("raw key leaked into generate output")
	}
}

func TestKeyGenerate_AlreadyExists(t *testing.T) {
	backend := &keyBackend{key: map[string]any{"key": "sk_abcd1234efgh", "created_at": "2025-08-01T10:00:00Z"}}
	sessionDir := setupCmdTest(t, backend.handler(t))
	signIn(t, sessionDir)

	_, err := execute(t, "key", "generate")
	if err == nil {
		t.Fatal("expected error generating a second key")
	}
	if !strings.Contains(err.Error(), "Key already exists") {
		t.Errorf("error = %q, want backend message", err.Error())
	}
}

func TestKeyRegenerate_ReplacesInPlace(t *testing.T) {
	backend := &keyBackend{key: map[string]any{"key": "sk_abcd1234efgh", "created_at": "2025-08-01T10:00:00Z"}}
	sessionDir := setupCmdTest(t, backend.handler(t))
	signIn(t, sessionDir)

	if _, err := execute(t, "key", "regenerate"); err != nil {
		t.Fatalf("key regenerate failed: %v", err)
	}
	if got := backend.key["key"]; got != "sk_wxyz9876stuv" {
		t.Errorf("backend key = %v, want replaced value", got)
	}
	if backend.methods[len(backend.methods)-1] != http.MethodPatch {
		t.Errorf("methods = %v, want PATCH last", backend.methods)
	}
}

func TestKeyRevoke_WithYesFlag(t *testing.T) {
	backend := &keyBackend{key: map[string]any{"key": "sk_abcd1234efgh", "created_at": "2025-08-01T10:00:00Z"}}
	sessionDir := setupCmdTest(t, backend.handler(t))
	signIn(t, sessionDir)

	if _, err := execute(t, "key", "revoke", "--yes"); err != nil {
		t.Fatalf("key revoke failed: %v", err)
	}
	if backend.key != nil {
		t.Error("backend still holds a key after revoke")
	}
}

func TestKeyRevoke_PromptDeclined(t *testing.T) {
	backend := &keyBackend{key: map[string]any{"key": "sk_abcd1234efgh", "created_at": "2025-08-01T10:00:00Z"}}
	sessionDir := setupCmdTest(t, backend.handler(t))
	signIn(t, sessionDir)

	rootCmd.SetIn(strings.NewReader("n\n"))
	t.Cleanup(func() { rootCmd.SetIn(nil) })

	if _, err := execute(t, "key", "revoke"); err != nil {
		t.Fatalf("declined revoke should not error: %v", err)
	}
	if backend.key == nil {
		t.Error("declined revoke must not delete the key")
	}
	if len(backend.methods) != 0 {
		t.Errorf("declined revoke must not hit the backend, got %v", backend.methods)
	}
}

func TestKeyCopy_PrintsRawKey(t *testing.T) {
	backend := &keyBackend{key: map[string]any{"key": "sk_abcd1234efgh", "created_at": "2025-08-01T10:00:00Z"}}
	sessionDir := setupCmdTest(t, backend.handler(t))
	signIn(t, sessionDir)

	out, err := execute(t, "key", "copy")
	if err != nil {
		t.Fatalf("key copy failed: %v", err)
	}
	if !strings.Contains(out, "sk_abcd1234efgh") {
		t.Errorf("copy output = %q, want raw key", out)
	}
}

func TestKeyCopy_RevokedKey(t *testing.T) {
	revokedAt := "2025-08-03T10:00:00Z"
	backend := &keyBackend{key: map[string]any{
		"key":        "sk_abcd1234efgh",
		"created_at": "2025-08-01T10:00:00Z",
		"revoked_at": revokedAt,
	}}
	sessionDir := setupCmdTest(t, backend.handler(t))
	signIn(t, sessionDir)

	if _, err := execute(t, "key", "copy"); err == nil {
		t.Fatal("expected error copying a revoked key")
	}
}
