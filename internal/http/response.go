package http

import (
	"encoding/json"
	"net/http"

	"github.com/shopspring/decimal"

	"budget/internal/core"
	"budget/internal/ledger"
	"budget/internal/log"
)

type entryResponse struct {
	ID       int64  `json:"id"`
	Amount   string `json:"amount"`
	Category string `json:"category"`
	Display  string `json:"display"`
}

type categoryAmountResponse struct {
	Category string `json:"category"`
	Amount   string `json:"amount"`
}

type summaryResponse struct {
	TotalIncome   string                   `json:"totalIncome"`
	TotalExpenses string                   `json:"totalExpenses"`
	Balance       string                   `json:"balance"`
	BudgetGoal    string                   `json:"budgetGoal"`
	OverBudget    bool                     `json:"overBudget"`
	Breakdown     []categoryAmountResponse `json:"breakdown"`
	Display       map[string]string        `json:"display"`
}

type ledgerResponse struct {
	Income     []entryResponse `json:"income"`
	Expenses   []entryResponse `json:"expenses"`
	BudgetGoal string          `json:"budgetGoal"`
}

type mutationResponse struct {
	Applied bool            `json:"applied"`
	Entry   *entryResponse  `json:"entry,omitempty"`
	Error   string          `json:"error,omitempty"`
	Summary summaryResponse `json:"summary"`
}

type chartResponse struct {
	Labels []string  `json:"labels"`
	Values []float64 `json:"values"`
	Colors []string  `json:"colors"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// responseBuilder renders domain values for one currency.
type responseBuilder struct {
	currency string
}

func (b responseBuilder) entry(e core.Entry) entryResponse {
	return entryResponse{
		ID:       e.ID,
		Amount:   e.Amount.String(),
		Category: e.Category,
		Display:  core.FormatAmount(e.Amount, b.currency),
	}
}

func (b responseBuilder) entries(entries []core.Entry) []entryResponse {
	out := make([]entryResponse, len(entries))
	for i, e := range entries {
		out[i] = b.entry(e)
	}
	return out
}

func (b responseBuilder) summary(s core.Summary) summaryResponse {
	breakdown := make([]categoryAmountResponse, len(s.Breakdown))
	for i, c := range s.Breakdown {
		breakdown[i] = categoryAmountResponse{Category: c.Name, Amount: c.Amount.String()}
	}
	format := func(d decimal.Decimal) string { return core.FormatAmount(d, b.currency) }
	return summaryResponse{
		TotalIncome:   s.TotalIncome.String(),
		TotalExpenses: s.TotalExpenses.String(),
		Balance:       s.Balance.String(),
		BudgetGoal:    s.BudgetGoal.String(),
		OverBudget:    s.OverBudget,
		Breakdown:     breakdown,
		Display: map[string]string{
			"totalIncome":   format(s.TotalIncome),
			"totalExpenses": format(s.TotalExpenses),
			"balance":       format(s.Balance),
			"budgetGoal":    format(s.BudgetGoal),
		},
	}
}

func (b responseBuilder) ledger(l core.Ledger) ledgerResponse {
	return ledgerResponse{
		Income:     b.entries(l.Income),
		Expenses:   b.entries(l.Expenses),
		BudgetGoal: l.BudgetGoal.String(),
	}
}

func (b responseBuilder) mutation(res ledger.Result) mutationResponse {
	out := mutationResponse{Applied: res.Applied, Summary: b.summary(res.Summary)}
	if res.Entry != nil {
		e := b.entry(*res.Entry)
		out.Entry = &e
	}
	return out
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.FromContext(r.Context()).WarnContext(r.Context(), "Failed writing response", log.FieldError, err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, errorResponse{Error: msg})
}
