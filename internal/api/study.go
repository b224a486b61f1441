package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/julianstephens/lifequest/internal/constants"
	"github.com/julianstephens/lifequest/internal/models"
)

func (s *Server) mountStudy(r chi.Router) {
	st := s.app.Study

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		completed, err := queryBool(r, "completed")
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		limit, err := queryInt(r, "limit", 0)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		q := r.URL.Query()
		items, err := st.List(r.Context(), models.StudyFilter{
			Subject:   models.Subject(q.Get("subject")),
			StudyType: models.StudyType(q.Get("type")),
			Completed: completed,
			Limit:     limit,
		})
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, items)
	})

	r.Post("/", func(w http.ResponseWriter, r *http.Request) {
		var item models.StudyItem
		if err := decodeJSON(w, r, &item); err != nil {
			writeServiceError(w, r, err)
			return
		}
		created, err := st.Create(r.Context(), item)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, created)
	})

	r.Get("/history", func(w http.ResponseWriter, r *http.Request) {
		days, err := queryInt(r, "days", constants.DefaultStudyHistDays)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		items, err := st.History(r.Context(), days)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, items)
	})

	r.Get("/stats", func(w http.ResponseWriter, r *http.Request) {
		stats, err := st.Statistics(r.Context())
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, stats)
	})

	r.Get("/recommendations", func(w http.ResponseWriter, r *http.Request) {
		limit, err := queryInt(r, "limit", constants.DefaultStudyLimit)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		recs, err := st.Recommend(r.Context(), limit)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, nonNil(recs))
	})

	r.Route("/{id}", func(r chi.Router) {
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			item, err := st.Get(r.Context(), chi.URLParam(r, "id"))
			if err != nil {
				writeServiceError(w, r, err)
				return
			}
			writeJSON(w, http.StatusOK, item)
		})
		r.Patch("/", func(w http.ResponseWriter, r *http.Request) {
			var upd models.StudyUpdate
			if err := decodeJSON(w, r, &upd); err != nil {
				writeServiceError(w, r, err)
				return
			}
			item, err := st.Update(r.Context(), chi.URLParam(r, "id"), upd)
			if err != nil {
				writeServiceError(w, r, err)
				return
			}
			writeJSON(w, http.StatusOK, item)
		})
		r.Delete("/", func(w http.ResponseWriter, r *http.Request) {
			if err := st.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
				writeServiceError(w, r, err)
				return
			}
			w.WriteHeader(http.StatusNoContent)
		})
	})
}

func (s *Server) mountTimetable(r chi.Router) {
	st := s.app.Study

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		day, err := queryIntPtr(r, "day")
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		entries, err := st.ListTimetable(r.Context(), day)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, entries)
	})

	r.Post("/", func(w http.ResponseWriter, r *http.Request) {
		var e models.TimetableEntry
		if err := decodeJSON(w, r, &e); err != nil {
			writeServiceError(w, r, err)
			return
		}
		created, err := st.AddTimetableEntry(r.Context(), e)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, created)
	})

	r.Get("/{id}", func(w http.ResponseWriter, r *http.Request) {
		e, err := st.GetTimetableEntry(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, e)
	})

	r.Patch("/{id}", func(w http.ResponseWriter, r *http.Request) {
		var upd models.TimetableUpdate
		if err := decodeJSON(w, r, &upd); err != nil {
			writeServiceError(w, r, err)
			return
		}
		e, err := st.UpdateTimetableEntry(r.Context(), chi.URLParam(r, "id"), upd)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, e)
	})

	r.Delete("/{id}", func(w http.ResponseWriter, r *http.Request) {
		if err := st.DeleteTimetableEntry(r.Context(), chi.URLParam(r, "id")); err != nil {
			writeServiceError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})
}
