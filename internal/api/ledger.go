package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/julianstephens/lifequest/internal/catalog"
	"github.com/julianstephens/lifequest/internal/constants"
	apperrors "github.com/julianstephens/lifequest/internal/errors"
	"github.com/julianstephens/lifequest/internal/ledger"
	"github.com/julianstephens/lifequest/internal/metrics"
	"github.com/julianstephens/lifequest/internal/models"
)

type entryRequest struct {
	Amount      int64            `json:"amount"`
	Kind        models.EntryKind `json:"kind"`
	Category    models.Category  `json:"category"`
	Description string           `json:"description"`
}

func (s *Server) mountLedger(r chi.Router, acct *ledger.Account) {
	r.Get("/balance", func(w http.ResponseWriter, r *http.Request) {
		balance, err := acct.CurrentBalance(r.Context())
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"currency": acct.Currency(),
			"balance":  balance,
		})
	})

	r.Get("/history", func(w http.ResponseWriter, r *http.Request) {
		limit, err := queryInt(r, "limit", constants.DefaultHistoryLimit)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		q := r.URL.Query()
		entries, err := acct.History(r.Context(), models.EntryKind(q.Get("kind")), models.Category(q.Get("category")), limit)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, entries)
	})

	r.Get("/stats", func(w http.ResponseWriter, r *http.Request) {
		days, err := queryInt(r, "days", constants.DefaultStatsWindow)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		stats, err := acct.Statistics(r.Context(), days)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, stats)
	})

	r.Route("/transactions", func(r chi.Router) {
		r.Post("/", func(w http.ResponseWriter, r *http.Request) {
			var req entryRequest
			if err := decodeJSON(w, r, &req); err != nil {
				writeServiceError(w, r, err)
				return
			}
			entry, err := acct.Record(r.Context(), req.Amount, req.Kind, req.Category, req.Description)
			if err != nil {
				writeServiceError(w, r, err)
				return
			}
			metrics.RecordLedgerEntry(string(entry.Currency), string(entry.Kind))
			writeJSON(w, http.StatusCreated, entry)
		})
		r.Get("/{id}", func(w http.ResponseWriter, r *http.Request) {
			entry, err := acct.Get(r.Context(), chi.URLParam(r, "id"))
			if err != nil {
				writeServiceError(w, r, err)
				return
			}
			writeJSON(w, http.StatusOK, entry)
		})
		r.Patch("/{id}", func(w http.ResponseWriter, r *http.Request) {
			var upd models.EntryUpdate
			if err := decodeJSON(w, r, &upd); err != nil {
				writeServiceError(w, r, err)
				return
			}
			entry, err := acct.Edit(r.Context(), chi.URLParam(r, "id"), upd)
			if err != nil {
				writeServiceError(w, r, err)
				return
			}
			writeJSON(w, http.StatusOK, entry)
		})
		r.Delete("/{id}", func(w http.ResponseWriter, r *http.Request) {
			if err := acct.Remove(r.Context(), chi.URLParam(r, "id")); err != nil {
				writeServiceError(w, r, err)
				return
			}
			w.WriteHeader(http.StatusNoContent)
		})
	})
}

type itemRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Cost        int64  `json:"cost"`
	// Stock defaults to unlimited when omitted.
	Stock *int `json:"stock"`
}

func (s *Server) mountCatalog(r chi.Router, cat *catalog.Catalog) {
	name := string(cat.Policy().Name)

	r.Get("/items", func(w http.ResponseWriter, r *http.Request) {
		available, err := queryBool(r, "available")
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		items, err := cat.List(r.Context(), available)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, items)
	})

	r.Post("/items", func(w http.ResponseWriter, r *http.Request) {
		var req itemRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeServiceError(w, r, err)
			return
		}
		stock := models.UnlimitedStock
		if req.Stock != nil {
			stock = *req.Stock
		}
		item, err := cat.Create(r.Context(), req.Title, req.Description, req.Cost, stock)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, item)
	})

	r.Get("/items/{id}", func(w http.ResponseWriter, r *http.Request) {
		item, err := cat.Get(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, item)
	})

	r.Patch("/items/{id}", func(w http.ResponseWriter, r *http.Request) {
		var upd models.ShopItemUpdate
		if err := decodeJSON(w, r, &upd); err != nil {
			writeServiceError(w, r, err)
			return
		}
		item, err := cat.Update(r.Context(), chi.URLParam(r, "id"), upd)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, item)
	})

	r.Delete("/items/{id}", func(w http.ResponseWriter, r *http.Request) {
		if err := cat.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
			writeServiceError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})

	r.Post("/items/{id}/purchase", func(w http.ResponseWriter, r *http.Request) {
		result, err := cat.Purchase(r.Context(), chi.URLParam(r, "id"))
		switch {
		case err == nil:
			metrics.RecordPurchase(name, "ok")
			metrics.RecordLedgerEntry(string(result.Entry.Currency), string(result.Entry.Kind))
		case apperrors.IsPreconditionFailed(err):
			metrics.RecordPurchase(name, "rejected")
		default:
			metrics.RecordPurchase(name, "error")
		}
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, result)
	})
}

type exchangeRequest struct {
	CoinAmount int64 `json:"coin_amount"`
	// Rate falls back to the configured default when omitted.
	Rate *float64 `json:"exchange_rate"`
}

func (s *Server) mountExchange(r chi.Router) {
	r.Post("/", func(w http.ResponseWriter, r *http.Request) {
		var req exchangeRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeServiceError(w, r, err)
			return
		}
		rate := s.app.ExchangeRate
		if req.Rate != nil {
			rate = *req.Rate
		}
		result, err := s.app.Exchange.ExchangeToPoints(r.Context(), req.CoinAmount, rate)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		metrics.RecordExchange(req.CoinAmount)
		metrics.RecordLedgerEntry(string(result.Debit.Currency), string(result.Debit.Kind))
		if result.Credit != nil {
			metrics.RecordLedgerEntry(string(result.Credit.Currency), string(result.Credit.Kind))
		}
		writeJSON(w, http.StatusOK, result)
	})

	r.Get("/history", func(w http.ResponseWriter, r *http.Request) {
		limit, err := queryInt(r, "limit", constants.DefaultExchangeLimit)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		records, err := s.app.Exchange.List(r.Context(), limit)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, records)
	})

	r.Post("/records", func(w http.ResponseWriter, r *http.Request) {
		var rec models.ExchangeRecord
		if err := decodeJSON(w, r, &rec); err != nil {
			writeServiceError(w, r, err)
			return
		}
		saved, err := s.app.Exchange.Record(r.Context(), rec)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, saved)
	})
}

// goalResponse adds the derived progress to a goal.
type goalResponse struct {
	models.Goal
	Progress float64 `json:"progress_percentage"`
}

func toGoalResponse(g models.Goal) goalResponse {
	return goalResponse{Goal: g, Progress: g.Progress()}
}

func (s *Server) mountGoals(r chi.Router) {
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		completed, err := queryBool(r, "completed")
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		list, err := s.app.Goals.List(r.Context(), models.Currency(r.URL.Query().Get("currency")), completed)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		out := make([]goalResponse, 0, len(list))
		for _, g := range list {
			out = append(out, toGoalResponse(g))
		}
		writeJSON(w, http.StatusOK, out)
	})

	r.Post("/", func(w http.ResponseWriter, r *http.Request) {
		var g models.Goal
		if err := decodeJSON(w, r, &g); err != nil {
			writeServiceError(w, r, err)
			return
		}
		created, err := s.app.Goals.Create(r.Context(), g)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, toGoalResponse(created))
	})

	r.Get("/{id}", func(w http.ResponseWriter, r *http.Request) {
		g, err := s.app.Goals.Get(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, toGoalResponse(g))
	})

	r.Patch("/{id}", func(w http.ResponseWriter, r *http.Request) {
		var upd models.GoalUpdate
		if err := decodeJSON(w, r, &upd); err != nil {
			writeServiceError(w, r, err)
			return
		}
		g, err := s.app.Goals.Update(r.Context(), chi.URLParam(r, "id"), upd)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, toGoalResponse(g))
	})

	r.Delete("/{id}", func(w http.ResponseWriter, r *http.Request) {
		if err := s.app.Goals.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
			writeServiceError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})
}
