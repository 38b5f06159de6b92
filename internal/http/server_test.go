package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"budget/internal/core"
	"budget/internal/ledger"
	"budget/internal/storage"
	"budget/internal/storage/memory"
)

type failingPersister struct{ ledger.Persister }

func (failingPersister) Save(context.Context, core.Ledger) error {
	return errors.New("disk full")
}

func newTestServer(t *testing.T, opts Options) (*Server, *ledger.Store) {
	t.Helper()
	store := ledger.Open(context.Background(), storage.NewAdapter(memory.New(), nil))
	srv := NewServer(":0", store, opts)
	t.Cleanup(func() { _ = srv.Shutdown(context.Background()) })
	return srv, store
}

func do(t *testing.T, h http.Handler, method, path, contentType, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rr.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %s: %v", rr.Body.String(), err)
	}
	return v
}

func TestHealthAndReady(t *testing.T) {
	srv, _ := newTestServer(t, Options{})
	for _, path := range []string{"/healthz", "/readyz"} {
		rr := do(t, srv.Handler, http.MethodGet, path, "", "")
		if rr.Code != http.StatusOK {
			t.Fatalf("%s status=%d", path, rr.Code)
		}
	}
}

func TestAddEntriesAndSummary(t *testing.T) {
	srv, _ := newTestServer(t, Options{Currency: "USD"})

	rr := do(t, srv.Handler, http.MethodPost, "/api/income", "application/json", `{"amount": 500, "category": "Salary"}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("income status=%d body=%s", rr.Code, rr.Body.String())
	}
	rr = do(t, srv.Handler, http.MethodPost, "/api/expenses", "application/x-www-form-urlencoded", "amount=200&category=Food")
	if rr.Code != http.StatusCreated {
		t.Fatalf("expense status=%d body=%s", rr.Code, rr.Body.String())
	}
	res := decode[mutationResponse](t, rr)
	if !res.Applied || res.Entry == nil || res.Entry.Category != "Food" {
		t.Fatalf("unexpected mutation response: %+v", res)
	}

	sum := decode[summaryResponse](t, do(t, srv.Handler, http.MethodGet, "/api/summary", "", ""))
	if sum.TotalIncome != "500" || sum.TotalExpenses != "200" || sum.Balance != "300" {
		t.Fatalf("unexpected summary: %+v", sum)
	}
	if sum.Display["balance"] != "$300.00" {
		t.Fatalf("display balance = %q", sum.Display["balance"])
	}
	if len(sum.Breakdown) != 1 || sum.Breakdown[0].Category != "Food" {
		t.Fatalf("unexpected breakdown: %+v", sum.Breakdown)
	}
}

func TestJSONAmountKeepsPrecision(t *testing.T) {
	srv, store := newTestServer(t, Options{})
	rr := do(t, srv.Handler, http.MethodPost, "/api/expenses", "application/json", `{"amount": 0.1, "category": "Food"}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("status=%d", rr.Code)
	}
	rr = do(t, srv.Handler, http.MethodPost, "/api/expenses", "application/json", `{"amount": "0.2", "category": "Food"}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("status=%d", rr.Code)
	}
	if got := store.Summary().TotalExpenses.String(); got != "0.3" {
		t.Fatalf("TotalExpenses = %s, want 0.3", got)
	}
}

func TestRejectedInputReturns422(t *testing.T) {
	srv, store := newTestServer(t, Options{})
	if _, err := store.AddExpense(context.Background(), "10", "Food"); err != nil {
		t.Fatalf("seed: %v", err)
	}

	tests := []struct {
		name   string
		method string
		path   string
		body   string
	}{
		{"zero amount", http.MethodPost, "/api/expenses", `{"amount":"0","category":"Food"}`},
		{"non-numeric", http.MethodPost, "/api/income", `{"amount":"abc","category":"Salary"}`},
		{"over ceiling", http.MethodPost, "/api/expenses", `{"amount":1000001,"category":"Food"}`},
		{"unknown category", http.MethodPost, "/api/expenses", `{"amount":5,"category":"Yachts"}`},
		{"missing fields", http.MethodPost, "/api/income", `{}`},
		{"negative goal", http.MethodPut, "/api/budget-goal", `{"amount":-1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := do(t, srv.Handler, tt.method, tt.path, "application/json", tt.body)
			if rr.Code != http.StatusUnprocessableEntity {
				t.Fatalf("status=%d body=%s", rr.Code, rr.Body.String())
			}
			res := decode[mutationResponse](t, rr)
			if res.Applied || res.Error == "" {
				t.Fatalf("unexpected response: %+v", res)
			}
			if res.Summary.TotalExpenses != "10" {
				t.Fatalf("summary must be unchanged, got %+v", res.Summary)
			}
		})
	}
}

func TestMalformedBody(t *testing.T) {
	srv, _ := newTestServer(t, Options{})
	rr := do(t, srv.Handler, http.MethodPost, "/api/expenses", "application/json", `{"amount":`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status=%d", rr.Code)
	}
}

func TestBudgetGoalAndOverBudget(t *testing.T) {
	srv, store := newTestServer(t, Options{})
	_, _ = store.AddExpense(context.Background(), "300", "Housing")

	rr := do(t, srv.Handler, http.MethodPut, "/api/budget-goal", "application/json", `{"amount":"250"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", rr.Code, rr.Body.String())
	}
	res := decode[mutationResponse](t, rr)
	if !res.Summary.OverBudget || res.Summary.BudgetGoal != "250" {
		t.Fatalf("unexpected summary: %+v", res.Summary)
	}

	rr = do(t, srv.Handler, http.MethodPut, "/api/budget-goal", "application/x-www-form-urlencoded", "amount=0")
	res = decode[mutationResponse](t, rr)
	if rr.Code != http.StatusOK || res.Summary.OverBudget {
		t.Fatalf("goal 0 must clear over budget: %d %+v", rr.Code, res.Summary)
	}
}

func TestDeleteEntry(t *testing.T) {
	srv, store := newTestServer(t, Options{})
	added, _ := store.AddIncome(context.Background(), "42", "Gift")
	id := strconv.FormatInt(added.Entry.ID, 10)

	if rr := do(t, srv.Handler, http.MethodDelete, "/api/entries/expense/"+id, "", ""); rr.Code != http.StatusNotFound {
		t.Fatalf("wrong kind status=%d", rr.Code)
	}
	if rr := do(t, srv.Handler, http.MethodDelete, "/api/entries/savings/"+id, "", ""); rr.Code != http.StatusBadRequest {
		t.Fatalf("bad kind status=%d", rr.Code)
	}
	if rr := do(t, srv.Handler, http.MethodDelete, "/api/entries/income/abc", "", ""); rr.Code != http.StatusBadRequest {
		t.Fatalf("bad id status=%d", rr.Code)
	}

	rr := do(t, srv.Handler, http.MethodDelete, "/api/entries/income/"+id, "", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("delete status=%d body=%s", rr.Code, rr.Body.String())
	}
	res := decode[mutationResponse](t, rr)
	if !res.Applied || res.Summary.TotalIncome != "0" {
		t.Fatalf("unexpected response: %+v", res)
	}

	if rr := do(t, srv.Handler, http.MethodDelete, "/api/entries/income/"+id, "", ""); rr.Code != http.StatusNotFound {
		t.Fatalf("second delete status=%d", rr.Code)
	}
}

func TestLedgerAndChart(t *testing.T) {
	srv, store := newTestServer(t, Options{Currency: "USD", Palette: []string{"#000000"}})

	ch := decode[chartResponse](t, do(t, srv.Handler, http.MethodGet, "/api/chart", "", ""))
	if len(ch.Labels) != 1 || ch.Labels[0] != "No Expenses Yet" || ch.Values[0] != 1 {
		t.Fatalf("empty chart = %+v", ch)
	}

	ctx := context.Background()
	_, _ = store.AddExpense(ctx, "100", "Food")
	_, _ = store.AddExpense(ctx, "30", "Transport")

	ch = decode[chartResponse](t, do(t, srv.Handler, http.MethodGet, "/api/chart", "", ""))
	if len(ch.Colors) != 2 || ch.Colors[1] != "#000000" {
		t.Fatalf("colors = %v", ch.Colors)
	}

	l := decode[ledgerResponse](t, do(t, srv.Handler, http.MethodGet, "/api/ledger", "", ""))
	if len(l.Expenses) != 2 || l.Income == nil || l.BudgetGoal != "0" {
		t.Fatalf("unexpected ledger: %+v", l)
	}
	if l.Expenses[0].Display != "$100.00" {
		t.Fatalf("display = %q", l.Expenses[0].Display)
	}
}

func TestCategories(t *testing.T) {
	srv, _ := newTestServer(t, Options{})
	cats := decode[map[string][]string](t, do(t, srv.Handler, http.MethodGet, "/api/categories", "", ""))
	if len(cats["income"]) != 5 || len(cats["expense"]) != 8 {
		t.Fatalf("unexpected categories: %v", cats)
	}
}

func TestPersistenceFailureReturns500(t *testing.T) {
	store := ledger.Open(context.Background(), failingPersister{storage.NewAdapter(memory.New(), nil)})
	srv := NewServer(":0", store, Options{})
	defer srv.Shutdown(context.Background())

	rr := do(t, srv.Handler, http.MethodPost, "/api/expenses", "application/json", `{"amount":5,"category":"Food"}`)
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("status=%d", rr.Code)
	}
	if len(store.Snapshot().Expenses) != 0 {
		t.Fatalf("failed write must not change state")
	}
}

func TestMutationsAreRateLimited(t *testing.T) {
	srv, _ := newTestServer(t, Options{RateLimitPerMinute: 1})

	if rr := do(t, srv.Handler, http.MethodPost, "/api/expenses", "application/json", `{"amount":5,"category":"Food"}`); rr.Code != http.StatusCreated {
		t.Fatalf("first status=%d", rr.Code)
	}
	rr := do(t, srv.Handler, http.MethodPost, "/api/expenses", "application/json", `{"amount":5,"category":"Food"}`)
	if rr.Code != http.StatusTooManyRequests || rr.Header().Get("Retry-After") != "60" {
		t.Fatalf("second status=%d", rr.Code)
	}
	if rr := do(t, srv.Handler, http.MethodGet, "/api/summary", "", ""); rr.Code != http.StatusOK {
		t.Fatalf("reads must not be limited, status=%d", rr.Code)
	}
}

func TestSecurityHeadersAndRequestID(t *testing.T) {
	srv, _ := newTestServer(t, Options{})
	rr := do(t, srv.Handler, http.MethodGet, "/api/summary", "", "")
	if rr.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Fatalf("security headers missing")
	}
	if rr.Header().Get("X-Request-ID") == "" {
		t.Fatalf("request id header missing")
	}
	if got := srv.Metrics().TotalRequests; got != 1 {
		t.Fatalf("TotalRequests = %d", got)
	}
}

func TestRequestBodyParser(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		body        string
		want        string
		wantErr     bool
	}{
		{"json string", "application/json", `{"amount":" 12,50 "}`, "12,50", false},
		{"json number", "application/json", `{"amount":12.345678901234567890}`, "12.345678901234567890", false},
		{"form", "application/x-www-form-urlencoded", "amount=7", "7", false},
		{"control chars stripped", "application/x-www-form-urlencoded", "amount=7%00", "7", false},
		{"empty", "", "", "", false},
		{"trailing data", "application/json", `{"amount":1}{"amount":2}`, "", true},
		{"array", "application/json", `[1,2]`, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", tt.contentType)
			p := NewRequestBodyParser(httptest.NewRecorder(), req)
			err := p.Parse()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Parse() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && p.Get("amount") != tt.want {
				t.Fatalf("Get(amount) = %q, want %q", p.Get("amount"), tt.want)
			}
		})
	}
}
