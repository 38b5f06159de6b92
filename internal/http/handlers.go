package http

import (
	"net/http"
	"strconv"

	"budget/internal/chart"
	"budget/internal/core"
	"budget/internal/ledger"
	"budget/internal/log"
)

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, s.respond.summary(s.ledger.Summary()))
}

func (s *Server) handleLedger(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, s.respond.ledger(s.ledger.Snapshot()))
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	series := s.ledger.Chart()
	writeJSON(w, r, http.StatusOK, chartResponse{
		Labels: series.Labels,
		Values: series.Values,
		Colors: chart.Colors(len(series.Values), s.palette),
	})
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string][]string{
		core.Income.String():  core.Categories(core.Income),
		core.Expense.String(): core.Categories(core.Expense),
	})
}

func (s *Server) handleAddEntry(kind core.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p := NewRequestBodyParser(w, r)
		if err := p.Parse(); err != nil {
			log.FromContext(r.Context()).WarnContext(r.Context(), "Parse body error",
				log.FieldError, err, log.FieldKind, kind.String())
			writeError(w, r, http.StatusBadRequest, "malformed request body")
			return
		}

		add := s.ledger.AddExpense
		if kind == core.Income {
			add = s.ledger.AddIncome
		}
		res, err := add(r.Context(), p.Get("amount"), p.Get("category"))
		s.writeMutation(w, r, res, err, "amount must be between 0 and 1,000,000 and category must be one of "+kind.String()+" categories", http.StatusCreated)
	}
}

func (s *Server) handleSetBudgetGoal(w http.ResponseWriter, r *http.Request) {
	p := NewRequestBodyParser(w, r)
	if err := p.Parse(); err != nil {
		writeError(w, r, http.StatusBadRequest, "malformed request body")
		return
	}

	res, err := s.ledger.SetBudgetGoal(r.Context(), p.Get("amount"))
	s.writeMutation(w, r, res, err, "budget goal must be between 0 and 1,000,000", http.StatusOK)
}

func (s *Server) handleDeleteEntry(w http.ResponseWriter, r *http.Request) {
	kind, err := core.ParseKind(r.PathValue("kind"))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "kind must be income or expense")
		return
	}
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "id must be an integer")
		return
	}

	res, err := s.ledger.DeleteEntry(r.Context(), kind, id)
	if err == nil && !res.Applied {
		writeJSON(w, r, http.StatusNotFound, mutationResponse{
			Error:   "entry not found",
			Summary: s.respond.summary(res.Summary),
		})
		return
	}
	s.writeMutation(w, r, res, err, "", http.StatusOK)
}

// writeMutation maps a store result onto a response: persistence failure is
// 500, rejected input is 422 with the unchanged summary.
func (s *Server) writeMutation(w http.ResponseWriter, r *http.Request, res ledger.Result, err error, rejectMsg string, okStatus int) {
	if err != nil {
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Ledger mutation failed", log.FieldError, err)
		writeError(w, r, http.StatusInternalServerError, "failed to save ledger")
		return
	}

	body := s.respond.mutation(res)
	if !res.Applied {
		body.Error = rejectMsg
		writeJSON(w, r, http.StatusUnprocessableEntity, body)
		return
	}
	writeJSON(w, r, okStatus, body)
}
