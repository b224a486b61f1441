package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/julianstephens/lifequest/internal/constants"
	"github.com/julianstephens/lifequest/internal/logger"
	"github.com/julianstephens/lifequest/internal/models"
	"github.com/julianstephens/lifequest/internal/scheduler"
)

func (s *Server) mountTasks(r chi.Router) {
	t := s.app.Tasks

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
		list, err := t.List(r.Context(), models.TaskFilter{
			Type:      models.TaskType(q.Get("type")),
			Category:  q.Get("category"),
			Completed: completed,
			Limit:     limit,
		})
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, list)
	})

	r.Post("/", func(w http.ResponseWriter, r *http.Request) {
		var task models.Task
		if err := decodeJSON(w, r, &task); err != nil {
			writeServiceError(w, r, err)
			return
		}
		created, err := t.Create(r.Context(), task)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, created)
	})

	r.Get("/due", func(w http.ResponseWriter, r *http.Request) {
		days, err := queryInt(r, "days", 1)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		list, err := t.DueWithin(r.Context(), days)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, list)
	})

	r.Get("/overdue", func(w http.ResponseWriter, r *http.Request) {
		list, err := t.Overdue(r.Context())
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, nonNil(list))
	})

	r.Get("/daily", func(w http.ResponseWriter, r *http.Request) {
		list, err := t.Daily(r.Context())
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, list)
	})

	r.Get("/history", func(w http.ResponseWriter, r *http.Request) {
		limit, err := queryInt(r, "limit", constants.DefaultTaskHistLimit)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		list, err := t.History(r.Context(), limit)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, list)
	})

	r.Get("/stats", func(w http.ResponseWriter, r *http.Request) {
		stats, err := t.Statistics(r.Context())
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, stats)
	})

	r.Post("/reset-daily", func(w http.ResponseWriter, r *http.Request) {
		n, err := t.ResetDaily(r.Context())
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		logger.Info("Reset daily tasks", "count", n, "source", "api")
		writeJSON(w, http.StatusOK, map[string]int64{"reset": n})
	})

	r.Route("/reminders", func(r chi.Router) {
		r.Get("/upcoming", func(w http.ResponseWriter, r *http.Request) {
			hours, err := queryInt(r, "hours", constants.DefaultReminderHours)
			if err != nil {
				writeServiceError(w, r, err)
				return
			}
			list, err := t.Upcoming(r.Context(), hours)
			if err != nil {
				writeServiceError(w, r, err)
				return
			}
			writeJSON(w, http.StatusOK, nonNil(list))
		})
		r.Get("/overdue", func(w http.ResponseWriter, r *http.Request) {
			list, err := t.OverdueReminders(r.Context())
			if err != nil {
				writeServiceError(w, r, err)
				return
			}
			writeJSON(w, http.StatusOK, nonNil(list))
		})
		r.Get("/daily-reset", func(w http.ResponseWriter, r *http.Request) {
			list, err := t.DailyResetReminders(r.Context())
			if err != nil {
				writeServiceError(w, r, err)
				return
			}
			writeJSON(w, http.StatusOK, nonNil(list))
		})
	})

	r.Route("/{id}", func(r chi.Router) {
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			task, err := t.Get(r.Context(), chi.URLParam(r, "id"))
			if err != nil {
				writeServiceError(w, r, err)
				return
			}
			writeJSON(w, http.StatusOK, task)
		})
		r.Patch("/", func(w http.ResponseWriter, r *http.Request) {
			var upd models.TaskUpdate
			if err := decodeJSON(w, r, &upd); err != nil {
				writeServiceError(w, r, err)
				return
			}
			task, err := t.Update(r.Context(), chi.URLParam(r, "id"), upd)
			if err != nil {
				writeServiceError(w, r, err)
				return
			}
			writeJSON(w, http.StatusOK, task)
		})
		r.Delete("/", func(w http.ResponseWriter, r *http.Request) {
			if err := t.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
				writeServiceError(w, r, err)
				return
			}
			w.WriteHeader(http.StatusNoContent)
		})
		r.Post("/complete", func(w http.ResponseWriter, r *http.Request) {
			task, err := t.Complete(r.Context(), chi.URLParam(r, "id"))
			if err != nil {
				writeServiceError(w, r, err)
				return
			}
			writeJSON(w, http.StatusOK, task)
		})
		r.Post("/undo", func(w http.ResponseWriter, r *http.Request) {
			task, err := t.Undo(r.Context(), chi.URLParam(r, "id"))
			if err != nil {
				writeServiceError(w, r, err)
				return
			}
			writeJSON(w, http.StatusOK, task)
		})
		r.Post("/clone", func(w http.ResponseWriter, r *http.Request) {
			task, err := t.CloneFromHistory(r.Context(), chi.URLParam(r, "id"))
			if err != nil {
				writeServiceError(w, r, err)
				return
			}
			writeJSON(w, http.StatusCreated, task)
		})
	})
}

func (s *Server) mountSchedules(r chi.Router) {
	svc := s.app.Schedules

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		from, err := s.queryTime(r, "from")
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		to, err := s.queryTime(r, "to")
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		list, err := svc.List(r.Context(), from, to, models.ScheduleType(r.URL.Query().Get("type")))
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, list)
	})

	r.Post("/", func(w http.ResponseWriter, r *http.Request) {
		var sched models.Schedule
		if err := decodeJSON(w, r, &sched); err != nil {
			writeServiceError(w, r, err)
			return
		}
		created, err := svc.Create(r.Context(), sched)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, created)
	})

	r.Get("/today", func(w http.ResponseWriter, r *http.Request) {
		list, err := svc.Today(r.Context())
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, list)
	})

	r.Get("/week", func(w http.ResponseWriter, r *http.Request) {
		start, err := s.queryTime(r, "start")
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		list, err := svc.Week(r.Context(), start)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, list)
	})

	r.Get("/free-slots", func(w http.ResponseWriter, r *http.Request) {
		minDuration, err := queryIntPtr(r, "min_duration")
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		maxFatigue, err := queryIntPtr(r, "max_fatigue")
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		slots, err := svc.FreeSlots(r.Context(), scheduler.SlotQuery{
			Date:        r.URL.Query().Get("date"),
			MinDuration: minDuration,
			MaxFatigue:  maxFatigue,
		})
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, nonNil(slots))
	})

	r.Get("/conflicts", func(w http.ResponseWriter, r *http.Request) {
		result, err := svc.Conflicts(r.Context(), r.URL.Query().Get("date"))
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		result.Conflicts = nonNil(result.Conflicts)
		writeJSON(w, http.StatusOK, result)
	})

	r.Route("/{id}", func(r chi.Router) {
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			sched, err := svc.Get(r.Context(), chi.URLParam(r, "id"))
			if err != nil {
				writeServiceError(w, r, err)
				return
			}
			writeJSON(w, http.StatusOK, sched)
		})
		r.Patch("/", func(w http.ResponseWriter, r *http.Request) {
			var upd models.ScheduleUpdate
			if err := decodeJSON(w, r, &upd); err != nil {
				writeServiceError(w, r, err)
				return
			}
			sched, err := svc.Update(r.Context(), chi.URLParam(r, "id"), upd)
			if err != nil {
				writeServiceError(w, r, err)
				return
			}
			writeJSON(w, http.StatusOK, sched)
		})
		r.Delete("/", func(w http.ResponseWriter, r *http.Request) {
			if err := svc.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
				writeServiceError(w, r, err)
				return
			}
			w.WriteHeader(http.StatusNoContent)
		})
		r.Post("/complete", func(w http.ResponseWriter, r *http.Request) {
			sched, err := svc.Complete(r.Context(), chi.URLParam(r, "id"))
			if err != nil {
				writeServiceError(w, r, err)
				return
			}
			writeJSON(w, http.StatusOK, sched)
		})
		r.Post("/undo", func(w http.ResponseWriter, r *http.Request) {
			sched, err := svc.Undo(r.Context(), chi.URLParam(r, "id"))
			if err != nil {
				writeServiceError(w, r, err)
				return
			}
			writeJSON(w, http.StatusOK, sched)
		})
	})
}

// nonNil keeps empty results encoding as [] rather than null.
func nonNil[T any](list []T) []T {
	if list == nil {
		return []T{}
	}
	return list
}
