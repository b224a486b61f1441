package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/julianstephens/lifequest/internal/constants"
	"github.com/julianstephens/lifequest/internal/models"
)

type eatRequest struct {
	ConsumedAt *time.Time `json:"consumed_at"`
}

func (s *Server) mountMeals(r chi.Router) {
	ml := s.app.Meals

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		recommended, err := queryBool(r, "recommended")
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		q := r.URL.Query()
		list, err := ml.List(r.Context(), models.MealFilter{
			Type:          models.MealType(q.Get("type")),
			Category:      models.MealCategory(q.Get("category")),
			IsRecommended: recommended,
		})
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, list)
	})

	r.Post("/", func(w http.ResponseWriter, r *http.Request) {
		var m models.Meal
		if err := decodeJSON(w, r, &m); err != nil {
			writeServiceError(w, r, err)
			return
		}
		created, err := ml.Create(r.Context(), m)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, created)
	})

	r.Get("/recommendations", func(w http.ResponseWriter, r *http.Request) {
		energy, err := queryInt(r, "energy", constants.DefaultEnergy)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		fatigue, err := queryInt(r, "fatigue", constants.DefaultFatigue)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		recs, err := ml.Recommend(r.Context(), energy, fatigue, models.MealType(r.URL.Query().Get("type")))
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, nonNil(recs))
	})

	r.Get("/history", func(w http.ResponseWriter, r *http.Request) {
		days, err := queryInt(r, "days", constants.DefaultMealHistDays)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		history, err := ml.History(r.Context(), days)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, history)
	})

	r.Get("/stats", func(w http.ResponseWriter, r *http.Request) {
		days, err := queryInt(r, "days", constants.DefaultMealHistDays)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		stats, err := ml.Statistics(r.Context(), days)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, stats)
	})

	r.Route("/{id}", func(r chi.Router) {
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			m, err := ml.Get(r.Context(), chi.URLParam(r, "id"))
			if err != nil {
				writeServiceError(w, r, err)
				return
			}
			writeJSON(w, http.StatusOK, m)
		})
		r.Patch("/", func(w http.ResponseWriter, r *http.Request) {
			var upd models.MealUpdate
			if err := decodeJSON(w, r, &upd); err != nil {
				writeServiceError(w, r, err)
				return
			}
			m, err := ml.Update(r.Context(), chi.URLParam(r, "id"), upd)
			if err != nil {
				writeServiceError(w, r, err)
				return
			}
			writeJSON(w, http.StatusOK, m)
		})
		r.Delete("/", func(w http.ResponseWriter, r *http.Request) {
			if err := ml.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
				writeServiceError(w, r, err)
				return
			}
			w.WriteHeader(http.StatusNoContent)
		})
		r.Post("/eat", func(w http.ResponseWriter, r *http.Request) {
			var req eatRequest
			if r.ContentLength != 0 {
				if err := decodeJSON(w, r, &req); err != nil {
					writeServiceError(w, r, err)
					return
				}
			}
			entry, err := ml.Consume(r.Context(), chi.URLParam(r, "id"), req.ConsumedAt)
			if err != nil {
				writeServiceError(w, r, err)
				return
			}
			writeJSON(w, http.StatusCreated, entry)
		})
	})
}
