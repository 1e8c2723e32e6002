package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/minhng/tripfund/internal/auth"
	"github.com/minhng/tripfund/internal/config"
	"github.com/minhng/tripfund/internal/storage/sqlite"
	"github.com/minhng/tripfund/internal/suggest"
	"github.com/minhng/tripfund/internal/weather"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	cfg := &config.Config{}
	cfg.Server.Port = 0
	cfg.Server.CORSOrigins = "*"

	jwtManager := auth.NewJWTManager("0123456789abcdef0123456789abcdef", time.Hour)
	authenticator := auth.NewPasswordAuthenticator(store)

	// Unreachable providers: suggestion endpoints fall back to placeholders
	// and weather degrades to unavailable.
	suggestClient := suggest.New("http://127.0.0.1:1", "key", "gemini-2.5-flash", 200*time.Millisecond)
	weatherClient := weather.New("http://127.0.0.1:1", "key", 200*time.Millisecond)

	return New(cfg, store, jwtManager, authenticator, suggestClient, weatherClient)
}

func doJSON(t *testing.T, s *Server, method, path, token string, body any) (*http.Response, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := s.App().Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, path, err)
	}

	var decoded map[string]any
	raw, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &decoded); err != nil {
			t.Fatalf("%s %s returned non-JSON body %q", method, path, raw)
		}
	}
	return resp, decoded
}

func registerPlanner(t *testing.T, s *Server, email string) string {
	t.Helper()
	resp, body := doJSON(t, s, "POST", "/api/auth/register", "", map[string]any{
		"email":    email,
		"name":     "Planner",
		"password": "long-enough-pass",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("register returned %d: %v", resp.StatusCode, body)
	}
	token, _ := body["token"].(string)
	if token == "" {
		t.Fatal("register returned no token")
	}
	return token
}

func createTrip(t *testing.T, s *Server, token string, participants []string, amount string) map[string]any {
	t.Helper()
	resp, body := doJSON(t, s, "POST", "/api/trips", token, map[string]any{
		"name":                "Summer trip",
		"destination":         "Da Nang",
		"start_date":          "2026-07-10",
		"end_date":            "2026-07-12",
		"participants":        participants,
		"contribution_amount": amount,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create trip returned %d: %v", resp.StatusCode, body)
	}
	return body
}

func TestAuthEndpoints(t *testing.T) {
	s := newTestServer(t)

	token := registerPlanner(t, s, "a@example.com")

	resp, body := doJSON(t, s, "POST", "/api/auth/register", "", map[string]any{
		"email": "a@example.com", "name": "Dup", "password": "long-enough-pass",
	})
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("duplicate register returned %d: %v", resp.StatusCode, body)
	}

	resp, body = doJSON(t, s, "POST", "/api/auth/login", "", map[string]any{
		"email": "a@example.com", "password": "long-enough-pass",
	})
	if resp.StatusCode != http.StatusOK || body["token"] == "" {
		t.Errorf("login returned %d: %v", resp.StatusCode, body)
	}

	resp, _ = doJSON(t, s, "POST", "/api/auth/login", "", map[string]any{
		"email": "a@example.com", "password": "wrong-password",
	})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("bad login returned %d", resp.StatusCode)
	}

	resp, body = doJSON(t, s, "GET", "/api/auth/me", token, nil)
	if resp.StatusCode != http.StatusOK || body["email"] != "a@example.com" {
		t.Errorf("me returned %d: %v", resp.StatusCode, body)
	}
	if body["role"] != "planner" {
		t.Errorf("default role = %v, want planner", body["role"])
	}
}

func TestMutationsRequireAuth(t *testing.T) {
	s := newTestServer(t)

	resp, _ := doJSON(t, s, "POST", "/api/trips", "", map[string]any{"name": "x"})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("unauthenticated create returned %d, want 401", resp.StatusCode)
	}

	resp, _ = doJSON(t, s, "GET", "/api/trips", "garbage-token", nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("bad token returned %d, want 401", resp.StatusCode)
	}
}

func TestTripLifecycle(t *testing.T) {
	s := newTestServer(t)
	token := registerPlanner(t, s, "owner@example.com")

	created := createTrip(t, s, token, []string{"An", "Binh"}, "100.00")

	shortCode, _ := created["short_code"].(string)
	if shortCode == "" {
		t.Fatal("created trip has no short code")
	}
	contribs := created["contributions"].([]any)
	if len(contribs) != 2 {
		t.Fatalf("contributions = %v", contribs)
	}
	first := contribs[0].(map[string]any)
	if first["amount"] != "100.00" || first["paid"] != false {
		t.Errorf("initial contribution = %v", first)
	}
	if dc := created["day_count"].(float64); dc != 3 {
		t.Errorf("day_count = %v, want 3", dc)
	}
	if timeline := created["timeline"].([]any); len(timeline) != 3 {
		t.Errorf("skeleton timeline has %d events, want one per day", len(timeline))
	}

	// Public view by short code, no token.
	resp, body := doJSON(t, s, "GET", "/api/trips/"+shortCode, "", nil)
	if resp.StatusCode != http.StatusOK || body["id"] != created["id"] {
		t.Errorf("public view returned %d: %v", resp.StatusCode, body)
	}

	resp, body = doJSON(t, s, "PUT", "/api/trips/"+shortCode, token, map[string]any{
		"name": "Renamed trip",
	})
	if resp.StatusCode != http.StatusOK || body["name"] != "Renamed trip" {
		t.Errorf("update returned %d: %v", resp.StatusCode, body)
	}

	resp, body = doJSON(t, s, "GET", "/api/trips", token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list returned %d", resp.StatusCode)
	}
	if trips := body["trips"].([]any); len(trips) != 1 {
		t.Errorf("list returned %d trips, want 1", len(trips))
	}

	resp, body = doJSON(t, s, "POST", "/api/trips/"+shortCode+"/duplicate", token, nil)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("duplicate returned %d: %v", resp.StatusCode, body)
	}
	if body["name"] != "Renamed trip (copy)" {
		t.Errorf("duplicate name = %v", body["name"])
	}
	if body["short_code"] == shortCode {
		t.Error("duplicate reused the short code")
	}

	resp, _ = doJSON(t, s, "DELETE", "/api/trips/"+shortCode, token, nil)
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("delete returned %d", resp.StatusCode)
	}
	resp, _ = doJSON(t, s, "GET", "/api/trips/"+shortCode, "", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("deleted trip returned %d, want 404", resp.StatusCode)
	}
}

func TestOwnershipEnforced(t *testing.T) {
	s := newTestServer(t)
	owner := registerPlanner(t, s, "owner@example.com")
	other := registerPlanner(t, s, "other@example.com")

	created := createTrip(t, s, owner, []string{"An"}, "0")
	id := created["id"].(string)

	resp, _ := doJSON(t, s, "PUT", "/api/trips/"+id, other, map[string]any{"name": "hijack"})
	if resp.StatusCode != http.StatusForbidden {
		t.Errorf("foreign update returned %d, want 403", resp.StatusCode)
	}

	// An admin account may manage any trip.
	resp, body := doJSON(t, s, "POST", "/api/auth/register", "", map[string]any{
		"email": "admin@example.com", "name": "Admin", "password": "long-enough-pass", "role": "admin",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("admin register returned %d: %v", resp.StatusCode, body)
	}
	admin := body["token"].(string)

	resp, _ = doJSON(t, s, "PUT", "/api/trips/"+id, admin, map[string]any{"name": "admin edit"})
	if resp.StatusCode != http.StatusOK {
		t.Errorf("admin update returned %d, want 200", resp.StatusCode)
	}

	resp, body = doJSON(t, s, "GET", "/api/trips", admin, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("admin list returned %d", resp.StatusCode)
	}
	if trips := body["trips"].([]any); len(trips) != 1 {
		t.Errorf("admin list returned %d trips, want all trips", len(trips))
	}
}

func TestLedgerAndSettlementFlow(t *testing.T) {
	s := newTestServer(t)
	token := registerPlanner(t, s, "owner@example.com")

	created := createTrip(t, s, token, []string{"An", "Binh", "Chi"}, "100.00")
	id := created["id"].(string)

	// Everyone pays their initial contribution.
	for _, name := range []string{"An", "Binh", "Chi"} {
		resp, body := doJSON(t, s, "POST", "/api/trips/"+id+"/rounds/initial/toggle", token,
			map[string]any{"name": name})
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("toggle %s returned %d: %v", name, resp.StatusCode, body)
		}
	}

	// A fund-paid expense shared by all.
	resp, body := doJSON(t, s, "POST", "/api/trips/"+id+"/expenses", token, map[string]any{
		"description":    "Museum tickets",
		"amount":         "60.00",
		"participants":   []string{"An", "Binh", "Chi"},
		"paid_from_fund": true,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("add fund expense returned %d: %v", resp.StatusCode, body)
	}
	expenses := body["expenses"].([]any)
	if paidBy := expenses[0].(map[string]any)["paid_by"]; paidBy != "Fund" {
		t.Errorf("fund expense paid_by = %v", paidBy)
	}

	// A personal expense paid by An, shared by all.
	resp, body = doJSON(t, s, "POST", "/api/trips/"+id+"/expenses", token, map[string]any{
		"description":  "Dinner",
		"amount":       "90.00",
		"paid_by":      "An",
		"participants": []string{"An", "Binh", "Chi"},
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("add expense returned %d: %v", resp.StatusCode, body)
	}

	// Settlement is public.
	resp, body = doJSON(t, s, "GET", "/api/trips/"+id+"/settlement", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("settlement returned %d: %v", resp.StatusCode, body)
	}
	if body["fund_balance"] != "240.00" {
		t.Errorf("fund_balance = %v, want 240.00", body["fund_balance"])
	}
	if body["total_contributed"] != "300.00" || body["total_spent"] != "150.00" {
		t.Errorf("totals = %v / %v", body["total_contributed"], body["total_spent"])
	}

	// An fronted 90 and owes 50 in shares: +40. Binh and Chi each owe 20 from
	// the dinner beyond their fund share.
	balances := body["balances"].([]any)
	want := map[string]string{"An": "140.00", "Binh": "50.00", "Chi": "50.00"}
	for _, b := range balances {
		entry := b.(map[string]any)
		name := entry["participant"].(string)
		if entry["amount"] != want[name] {
			t.Errorf("balance[%s] = %v, want %v", name, entry["amount"], want[name])
		}
	}
	if txs := body["transactions"].([]any); len(txs) != 0 {
		t.Errorf("no debtors expected, got transactions %v", txs)
	}
}

func TestSettlementTransactions(t *testing.T) {
	s := newTestServer(t)
	token := registerPlanner(t, s, "owner@example.com")

	created := createTrip(t, s, token, []string{"An", "Binh"}, "0")
	id := created["id"].(string)

	resp, body := doJSON(t, s, "POST", "/api/trips/"+id+"/expenses", token, map[string]any{
		"description":  "Taxi",
		"amount":       "50.00",
		"paid_by":      "An",
		"participants": []string{"An", "Binh"},
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("add expense returned %d: %v", resp.StatusCode, body)
	}

	_, body = doJSON(t, s, "GET", "/api/trips/"+id+"/settlement", "", nil)
	txs := body["transactions"].([]any)
	if len(txs) != 1 {
		t.Fatalf("transactions = %v, want exactly one", txs)
	}
	tx := txs[0].(map[string]any)
	if tx["from"] != "Binh" || tx["to"] != "An" || tx["amount"] != "25.00" {
		t.Errorf("transaction = %v", tx)
	}
}

func TestParticipantEndpoints(t *testing.T) {
	s := newTestServer(t)
	token := registerPlanner(t, s, "owner@example.com")

	created := createTrip(t, s, token, []string{"An", "Binh"}, "100.00")
	id := created["id"].(string)

	resp, body := doJSON(t, s, "POST", "/api/trips/"+id+"/participants", token,
		map[string]any{"name": "Chi"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("add participant returned %d: %v", resp.StatusCode, body)
	}
	contribs := body["contributions"].([]any)
	last := contribs[len(contribs)-1].(map[string]any)
	if last["participant"] != "Chi" || last["amount"] != "100.00" {
		t.Errorf("new contribution = %v, want round-0 rate copied", last)
	}

	resp, _ = doJSON(t, s, "POST", "/api/trips/"+id+"/participants", token,
		map[string]any{"name": "Chi"})
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("duplicate participant returned %d, want 409", resp.StatusCode)
	}

	// An pays for something, then gets renamed: the expense must follow.
	doJSON(t, s, "POST", "/api/trips/"+id+"/expenses", token, map[string]any{
		"description":  "Coffee",
		"amount":       "10.00",
		"paid_by":      "An",
		"participants": []string{"An", "Binh"},
	})
	resp, body = doJSON(t, s, "PUT", "/api/trips/"+id+"/participants/An", token,
		map[string]any{"name": "Anna"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("rename returned %d: %v", resp.StatusCode, body)
	}
	expenses := body["expenses"].([]any)
	if paidBy := expenses[0].(map[string]any)["paid_by"]; paidBy != "Anna" {
		t.Errorf("expense paid_by after rename = %v", paidBy)
	}

	// Anna still holds a personal payment, so removal is locked.
	resp, _ = doJSON(t, s, "DELETE", "/api/trips/"+id+"/participants/Anna", token, nil)
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("removing a payer returned %d, want 409", resp.StatusCode)
	}

	resp, body = doJSON(t, s, "DELETE", "/api/trips/"+id+"/participants/Chi", token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("remove returned %d: %v", resp.StatusCode, body)
	}
	for _, p := range body["participants"].([]any) {
		if p == "Chi" {
			t.Error("Chi still present after removal")
		}
	}
}

func TestRoundEndpoints(t *testing.T) {
	s := newTestServer(t)
	token := registerPlanner(t, s, "owner@example.com")

	created := createTrip(t, s, token, []string{"An", "Binh"}, "100.00")
	id := created["id"].(string)

	resp, body := doJSON(t, s, "POST", "/api/trips/"+id+"/rounds", token, map[string]any{
		"amount":      "50.00",
		"description": "Hotel deposit",
		"date":        "2026-07-01",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("add round returned %d: %v", resp.StatusCode, body)
	}
	rounds := body["additional_contributions"].([]any)
	if len(rounds) != 1 {
		t.Fatalf("rounds = %v", rounds)
	}
	round := rounds[0].(map[string]any)
	roundID := round["id"].(string)
	if len(round["contributions"].([]any)) != 2 {
		t.Errorf("round defaulted to %d members, want all participants", len(round["contributions"].([]any)))
	}

	resp, body = doJSON(t, s, "POST", "/api/trips/"+id+"/rounds/"+roundID+"/toggle", token,
		map[string]any{"name": "An"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("toggle returned %d: %v", resp.StatusCode, body)
	}
	round = body["additional_contributions"].([]any)[0].(map[string]any)
	if paid := round["contributions"].([]any)[0].(map[string]any)["paid"]; paid != true {
		t.Errorf("toggle did not mark An paid: %v", round)
	}

	resp, body = doJSON(t, s, "PUT", "/api/trips/"+id+"/rounds/"+roundID, token,
		map[string]any{"amount": "75.00", "description": "Hotel balance"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("edit round returned %d: %v", resp.StatusCode, body)
	}
	round = body["additional_contributions"].([]any)[0].(map[string]any)
	c0 := round["contributions"].([]any)[0].(map[string]any)
	if round["amount"] != "75.00" || c0["amount"] != "75.00" {
		t.Errorf("round amounts after edit = %v", round)
	}
	if round["description"] != "Hotel balance" {
		t.Errorf("round description after edit = %v", round["description"])
	}
	if c0["paid"] != true {
		t.Error("edit reset the paid flag")
	}

	// Editing only the amount leaves the description alone.
	resp, body = doJSON(t, s, "PUT", "/api/trips/"+id+"/rounds/"+roundID, token,
		map[string]any{"amount": "80.00"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("edit round returned %d: %v", resp.StatusCode, body)
	}
	round = body["additional_contributions"].([]any)[0].(map[string]any)
	if round["description"] != "Hotel balance" {
		t.Errorf("amount-only edit changed description to %v", round["description"])
	}

	resp, body = doJSON(t, s, "PUT", "/api/trips/"+id+"/rounds/initial", token,
		map[string]any{"amount": "120.00"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("edit initial returned %d: %v", resp.StatusCode, body)
	}
	if amt := body["contributions"].([]any)[0].(map[string]any)["amount"]; amt != "120.00" {
		t.Errorf("initial amount after edit = %v", amt)
	}

	resp, _ = doJSON(t, s, "DELETE", "/api/trips/"+id+"/rounds/initial", token, nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("removing initial round returned %d, want 400", resp.StatusCode)
	}

	resp, body = doJSON(t, s, "DELETE", "/api/trips/"+id+"/rounds/"+roundID, token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("remove round returned %d: %v", resp.StatusCode, body)
	}
	if rounds := body["additional_contributions"].([]any); len(rounds) != 0 {
		t.Errorf("rounds after removal = %v", rounds)
	}
}

func TestValidationMapping(t *testing.T) {
	s := newTestServer(t)
	token := registerPlanner(t, s, "owner@example.com")

	created := createTrip(t, s, token, []string{"An"}, "0")
	id := created["id"].(string)

	cases := []struct {
		name string
		body map[string]any
		want int
	}{
		{"unknown beneficiary", map[string]any{
			"description": "x", "amount": "10.00", "paid_by": "An", "participants": []string{"Ghost"},
		}, http.StatusBadRequest},
		{"sub-cent amount", map[string]any{
			"description": "x", "amount": "10.001", "paid_by": "An", "participants": []string{"An"},
		}, http.StatusBadRequest},
		{"zero amount", map[string]any{
			"description": "x", "amount": "0", "paid_by": "An", "participants": []string{"An"},
		}, http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp, body := doJSON(t, s, "POST", fmt.Sprintf("/api/trips/%s/expenses", id), token, tc.body)
			if resp.StatusCode != tc.want {
				t.Errorf("returned %d (%v), want %d", resp.StatusCode, body, tc.want)
			}
		})
	}

	resp, _ := doJSON(t, s, "GET", "/api/trips/does-not-exist", "", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("missing trip returned %d, want 404", resp.StatusCode)
	}
}

func TestDashboardExtrasDegrade(t *testing.T) {
	s := newTestServer(t)
	token := registerPlanner(t, s, "owner@example.com")

	created := createTrip(t, s, token, []string{"An"}, "0")
	id := created["id"].(string)

	resp, body := doJSON(t, s, "GET", "/api/trips/"+id+"/suggestions/timeline?interests=food", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("timeline suggestions returned %d: %v", resp.StatusCode, body)
	}
	if suggestions := body["suggestions"].([]any); len(suggestions) == 0 {
		t.Error("expected placeholder timeline suggestions")
	}

	resp, body = doJSON(t, s, "GET", "/api/trips/"+id+"/suggestions/packing", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("packing suggestions returned %d: %v", resp.StatusCode, body)
	}
	if suggestions := body["suggestions"].([]any); len(suggestions) == 0 {
		t.Error("expected placeholder packing suggestions")
	}

	resp, body = doJSON(t, s, "GET", "/api/trips/"+id+"/weather", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("weather returned %d: %v", resp.StatusCode, body)
	}
	if body["available"] != false {
		t.Errorf("weather available = %v, want false", body["available"])
	}
}
