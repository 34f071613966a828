package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"sankalp/pkg/types"
)

func (e *testEnv) seedLedgerEntry(t *testing.T, entry *types.UserPolicy) *types.UserPolicy {
	t.Helper()
	status := entry.Status
	if err := e.ledger.PurchasePolicy(t.Context(), entry); err != nil {
		t.Fatalf("seed ledger entry: %v", err)
	}
	// PurchasePolicy stamps the status; keep the caller's override.
	stored := e.ledger.entries[entry.ID]
	if status != "" {
		stored.Status = status
	}
	clone := *stored
	return &clone
}

func TestHandlePurchasePolicy(t *testing.T) {
	env := newTestEnv()
	auth := env.authHeader("user-1")

	purchase := func(body string) *httptest.ResponseRecorder {
		req := postJSON(t, "/api/policies/purchase", body)
		req.Header.Set("Authorization", auth)
		return env.do(req)
	}

	t.Run("creates an active entry with a premium schedule", func(t *testing.T) {
		rr := purchase(`{
			"policy_id": "cat-1",
			"start_date": "2024-01-31",
			"end_date": "2025-01-31",
			"premium_amount": 1000,
			"payment_frequency": "Monthly"
		}`)

		if rr.Code != http.StatusCreated {
			t.Fatalf("status code: got %d, want %d, body %s", rr.Code, http.StatusCreated, rr.Body.String())
		}

		var out struct {
			PolicyNumber string `json:"policy_number"`
			ID           string `json:"id"`
		}
		if err := json.Unmarshal(rr.Body.Bytes(), &out); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if out.PolicyNumber == "" || out.ID == "" {
			t.Fatalf("expected policy number and id, got %+v", out)
		}

		entry := env.ledger.entries[out.ID]
		if entry == nil {
			t.Fatal("entry was not stored")
		}
		if entry.Status != types.PolicyStatusActive {
			t.Fatalf("status: got %s, want %s", entry.Status, types.PolicyStatusActive)
		}
		// Jan 31 + one month lands on the clamped end of February.
		wantNext := time.Date(2024, time.February, 29, 0, 0, 0, 0, time.UTC)
		if !entry.NextPremiumDate.Equal(wantNext) {
			t.Fatalf("next premium date: got %s, want %s", entry.NextPremiumDate, wantNext)
		}
	})

	t.Run("rejects an inverted date range", func(t *testing.T) {
		rr := purchase(`{
			"policy_id": "cat-1",
			"start_date": "2024-06-01",
			"end_date": "2024-01-01",
			"premium_amount": 1000,
			"payment_frequency": "Monthly"
		}`)

		if rr.Code != http.StatusBadRequest {
			t.Fatalf("status code: got %d, want %d", rr.Code, http.StatusBadRequest)
		}
	})

	t.Run("rejects an equal start and end date", func(t *testing.T) {
		rr := purchase(`{
			"policy_id": "cat-1",
			"start_date": "2024-06-01",
			"end_date": "2024-06-01",
			"premium_amount": 1000,
			"payment_frequency": "Monthly"
		}`)

		if rr.Code != http.StatusBadRequest {
			t.Fatalf("status code: got %d, want %d", rr.Code, http.StatusBadRequest)
		}
	})

	t.Run("rejects an unknown payment frequency", func(t *testing.T) {
		rr := purchase(`{
			"policy_id": "cat-1",
			"start_date": "2024-01-01",
			"end_date": "2025-01-01",
			"premium_amount": 1000,
			"payment_frequency": "Weekly"
		}`)

		if rr.Code != http.StatusBadRequest {
			t.Fatalf("status code: got %d, want %d", rr.Code, http.StatusBadRequest)
		}
	})

	t.Run("rejects an unknown catalog policy", func(t *testing.T) {
		rr := purchase(`{
			"policy_id": "cat-missing",
			"start_date": "2024-01-01",
			"end_date": "2025-01-01",
			"premium_amount": 1000,
			"payment_frequency": "Monthly"
		}`)

		if rr.Code != http.StatusNotFound {
			t.Fatalf("status code: got %d, want %d", rr.Code, http.StatusNotFound)
		}
	})
}

func TestHandleGetPolicy(t *testing.T) {
	env := newTestEnv()

	owned := env.seedLedgerEntry(t, &types.UserPolicy{
		UserID:          "user-1",
		PolicyID:        "cat-1",
		StartDate:       time.Now().AddDate(0, -1, 0),
		EndDate:         time.Now().AddDate(1, 0, 0),
		PremiumAmount:   1000,
		NextPremiumDate: time.Now().AddDate(0, 1, 0),
	})

	t.Run("owner can read the entry", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/policies/"+owned.ID, nil)
		req.Header.Set("Authorization", env.authHeader("user-1"))
		rr := env.do(req)

		if rr.Code != http.StatusOK {
			t.Fatalf("status code: got %d, want %d, body %s", rr.Code, http.StatusOK, rr.Body.String())
		}
	})

	t.Run("another user gets forbidden, not the entry", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/policies/"+owned.ID, nil)
		req.Header.Set("Authorization", env.authHeader("user-2"))
		rr := env.do(req)

		if rr.Code != http.StatusForbidden {
			t.Fatalf("status code: got %d, want %d", rr.Code, http.StatusForbidden)
		}
	})

	t.Run("unknown entry is not found", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/policies/up-missing", nil)
		req.Header.Set("Authorization", env.authHeader("user-1"))
		rr := env.do(req)

		if rr.Code != http.StatusNotFound {
			t.Fatalf("status code: got %d, want %d", rr.Code, http.StatusNotFound)
		}
	})

	t.Run("entry past its end date reads back expired", func(t *testing.T) {
		expired := env.seedLedgerEntry(t, &types.UserPolicy{
			UserID:    "user-1",
			PolicyID:  "cat-1",
			StartDate: time.Now().AddDate(-2, 0, 0),
			EndDate:   time.Now().AddDate(-1, 0, 0),
		})

		req := httptest.NewRequest(http.MethodGet, "/api/policies/"+expired.ID, nil)
		req.Header.Set("Authorization", env.authHeader("user-1"))
		rr := env.do(req)

		if rr.Code != http.StatusOK {
			t.Fatalf("status code: got %d, want %d", rr.Code, http.StatusOK)
		}

		var out types.UserPolicy
		if err := json.Unmarshal(rr.Body.Bytes(), &out); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if out.Status != types.PolicyStatusExpired {
			t.Fatalf("status: got %s, want %s", out.Status, types.PolicyStatusExpired)
		}

		// The transition is persisted, not just reported.
		if got := env.ledger.entries[expired.ID].Status; got != types.PolicyStatusExpired {
			t.Fatalf("stored status: got %s, want %s", got, types.PolicyStatusExpired)
		}
	})
}

func TestOwnedPolicy(t *testing.T) {
	env := newTestEnv()

	entry := env.seedLedgerEntry(t, &types.UserPolicy{
		UserID:    "user-1",
		PolicyID:  "cat-1",
		StartDate: time.Now(),
		EndDate:   time.Now().AddDate(1, 0, 0),
	})

	t.Run("foreign entry yields the ownership sentinel", func(t *testing.T) {
		_, err := env.svc.ownedPolicy(t.Context(), entry.ID, "user-2")
		if !errors.Is(err, types.ErrOwnershipViolation) {
			t.Fatalf("ownedPolicy error: got %v, want %v", err, types.ErrOwnershipViolation)
		}
	})

	t.Run("missing entry yields the not-found sentinel", func(t *testing.T) {
		_, err := env.svc.ownedPolicy(t.Context(), "up-missing", "user-1")
		if !errors.Is(err, types.ErrPolicyNotFound) {
			t.Fatalf("ownedPolicy error: got %v, want %v", err, types.ErrPolicyNotFound)
		}
	})

	t.Run("owner gets the entry", func(t *testing.T) {
		got, err := env.svc.ownedPolicy(t.Context(), entry.ID, "user-1")
		if err != nil {
			t.Fatalf("ownedPolicy: %v", err)
		}
		if got.ID != entry.ID {
			t.Fatalf("entry id: got %s, want %s", got.ID, entry.ID)
		}
	})
}

func TestListPoliciesRepeatable(t *testing.T) {
	env := newTestEnv()
	auth := env.authHeader("user-1")

	for i := 0; i < 3; i++ {
		env.seedLedgerEntry(t, &types.UserPolicy{
			UserID:    "user-1",
			PolicyID:  "cat-1",
			StartDate: time.Now(),
			EndDate:   time.Now().AddDate(1, 0, 0),
		})
	}

	list := func() string {
		req := httptest.NewRequest(http.MethodGet, "/api/policies", nil)
		req.Header.Set("Authorization", auth)
		rr := env.do(req)
		if rr.Code != http.StatusOK {
			t.Fatalf("status code: got %d, want %d", rr.Code, http.StatusOK)
		}
		return rr.Body.String()
	}

	first := list()
	for i := 0; i < 5; i++ {
		if again := list(); again != first {
			t.Fatalf("listing changed between reads:\nfirst: %s\nagain: %s", first, again)
		}
	}
}

func TestHandleCancelPolicy(t *testing.T) {
	env := newTestEnv()
	auth := env.authHeader("user-1")

	entry := env.seedLedgerEntry(t, &types.UserPolicy{
		UserID:    "user-1",
		PolicyID:  "cat-1",
		StartDate: time.Now(),
		EndDate:   time.Now().AddDate(1, 0, 0),
	})

	cancel := func(id, auth string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/policies/"+id+"/cancel", nil)
		req.Header.Set("Authorization", auth)
		return env.do(req)
	}

	t.Run("owner cancels an active entry", func(t *testing.T) {
		rr := cancel(entry.ID, auth)
		if rr.Code != http.StatusOK {
			t.Fatalf("status code: got %d, want %d, body %s", rr.Code, http.StatusOK, rr.Body.String())
		}
		if got := env.ledger.entries[entry.ID].Status; got != types.PolicyStatusCancelled {
			t.Fatalf("stored status: got %s, want %s", got, types.PolicyStatusCancelled)
		}
	})

	t.Run("cancelling twice conflicts", func(t *testing.T) {
		rr := cancel(entry.ID, auth)
		if rr.Code != http.StatusConflict {
			t.Fatalf("status code: got %d, want %d", rr.Code, http.StatusConflict)
		}
	})

	t.Run("expired entries cannot be cancelled", func(t *testing.T) {
		expired := env.seedLedgerEntry(t, &types.UserPolicy{
			UserID:    "user-1",
			PolicyID:  "cat-1",
			StartDate: time.Now().AddDate(-2, 0, 0),
			EndDate:   time.Now().AddDate(-1, 0, 0),
		})

		rr := cancel(expired.ID, auth)
		if rr.Code != http.StatusConflict {
			t.Fatalf("status code: got %d, want %d", rr.Code, http.StatusConflict)
		}
	})

	t.Run("non-owner cannot cancel", func(t *testing.T) {
		other := env.seedLedgerEntry(t, &types.UserPolicy{
			UserID:    "user-1",
			PolicyID:  "cat-1",
			StartDate: time.Now(),
			EndDate:   time.Now().AddDate(1, 0, 0),
		})

		rr := cancel(other.ID, env.authHeader("user-2"))
		if rr.Code != http.StatusForbidden {
			t.Fatalf("status code: got %d, want %d", rr.Code, http.StatusForbidden)
		}
	})
}

func TestHandlePayPremium(t *testing.T) {
	env := newTestEnv()
	auth := env.authHeader("user-1")

	pay := func(id string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/policies/"+id+"/premium/pay", nil)
		req.Header.Set("Authorization", auth)
		return env.do(req)
	}

	t.Run("active entry gets a client secret and an advanced due date", func(t *testing.T) {
		entry := env.seedLedgerEntry(t, &types.UserPolicy{
			UserID:           "user-1",
			PolicyID:         "cat-1",
			StartDate:        time.Date(2024, time.January, 31, 0, 0, 0, 0, time.UTC),
			EndDate:          time.Now().AddDate(1, 0, 0),
			PremiumAmount:    1000,
			PaymentFrequency: types.FrequencyMonthly,
			NextPremiumDate:  time.Date(2024, time.January, 31, 0, 0, 0, 0, time.UTC),
		})

		rr := pay(entry.ID)
		if rr.Code != http.StatusOK {
			t.Fatalf("status code: got %d, want %d, body %s", rr.Code, http.StatusOK, rr.Body.String())
		}

		var out struct {
			ClientSecret    string `json:"client_secret"`
			NextPremiumDate string `json:"next_premium_date"`
		}
		if err := json.Unmarshal(rr.Body.Bytes(), &out); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if out.ClientSecret != "cs_test_secret" {
			t.Fatalf("client secret: got %q, want %q", out.ClientSecret, "cs_test_secret")
		}
		if out.NextPremiumDate != "2024-02-29" {
			t.Fatalf("next premium date: got %q, want %q", out.NextPremiumDate, "2024-02-29")
		}
		if env.payments.calls != 1 {
			t.Fatalf("payment provider calls: got %d, want 1", env.payments.calls)
		}
	})

	t.Run("cancelled entry cannot pay", func(t *testing.T) {
		entry := env.seedLedgerEntry(t, &types.UserPolicy{
			UserID:           "user-1",
			PolicyID:         "cat-1",
			StartDate:        time.Now(),
			EndDate:          time.Now().AddDate(1, 0, 0),
			PaymentFrequency: types.FrequencyMonthly,
			Status:           types.PolicyStatusCancelled,
		})

		rr := pay(entry.ID)
		if rr.Code != http.StatusConflict {
			t.Fatalf("status code: got %d, want %d", rr.Code, http.StatusConflict)
		}
	})
}
