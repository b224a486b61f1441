package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/lifequest/internal/app"
	"github.com/julianstephens/lifequest/internal/config"
	apperrors "github.com/julianstephens/lifequest/internal/errors"
	"github.com/julianstephens/lifequest/internal/models"
	"github.com/julianstephens/lifequest/internal/storage/storagetest"
)

var testNow = time.Date(2024, 4, 2, 8, 0, 0, 0, time.UTC)

func newTestServer(t *testing.T, mutate func(*config.Config)) http.Handler {
	t.Helper()
	cfg := config.Default()
	cfg.Schedule.Timezone = "UTC"
	cfg.Server.RateLimit = 0
	if mutate != nil {
		mutate(&cfg)
	}
	a, err := app.New(storagetest.New(t), cfg, func() time.Time { return testNow })
	require.NoError(t, err)
	return NewServer(a, cfg.Server).Handler()
}

func do(t *testing.T, h http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if s, ok := body.(string); ok {
			buf.WriteString(s)
		} else {
			require.NoError(t, json.NewEncoder(&buf).Encode(body))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v), rec.Body.String())
}

type errorBody struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err    error
		status int
		typ    string
	}{
		{apperrors.NotFoundf("task %s", "x"), http.StatusNotFound, "not_found"},
		{apperrors.PreconditionFailedf("broke"), http.StatusConflict, "precondition_failed"},
		{apperrors.InvalidInputf("bad"), http.StatusBadRequest, "invalid_input"},
		{assert.AnError, http.StatusInternalServerError, "internal"},
	}
	for _, tt := range tests {
		status, typ := statusFor(tt.err)
		assert.Equal(t, tt.status, status, tt.err.Error())
		assert.Equal(t, tt.typ, typ, tt.err.Error())
	}
}

func TestHealth(t *testing.T) {
	h := newTestServer(t, nil)
	rec := do(t, h, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	decode(t, rec, &body)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "sqlite", body["database"])
}

func TestLedgerAndShopFlow(t *testing.T) {
	h := newTestServer(t, nil)

	rec := do(t, h, http.MethodPost, "/api/coins/transactions", map[string]interface{}{
		"amount": 100, "kind": "earned", "category": "daily_login", "description": "first login",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var entry models.LedgerEntry
	decode(t, rec, &entry)
	assert.EqualValues(t, 100, entry.BalanceAfter)

	rec = do(t, h, http.MethodPost, "/api/shop/items", map[string]interface{}{"title": "Coffee", "cost": 30})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var coffee models.ShopItem
	decode(t, rec, &coffee)
	assert.Equal(t, models.UnlimitedStock, coffee.Stock)

	rec = do(t, h, http.MethodPost, "/api/shop/items/"+coffee.ID+"/purchase", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var bought models.PurchaseResult
	decode(t, rec, &bought)
	assert.EqualValues(t, 70, bought.Entry.BalanceAfter)
	assert.Equal(t, 1, bought.Item.UsedCount)

	rec = do(t, h, http.MethodPost, "/api/shop/items", map[string]interface{}{"title": "Console", "cost": 500, "stock": 1})
	require.Equal(t, http.StatusCreated, rec.Code)
	var console models.ShopItem
	decode(t, rec, &console)

	rec = do(t, h, http.MethodPost, "/api/shop/items/"+console.ID+"/purchase", nil)
	require.Equal(t, http.StatusConflict, rec.Code)
	var eb errorBody
	decode(t, rec, &eb)
	assert.Equal(t, "precondition_failed", eb.Error.Type)
	assert.Contains(t, eb.Error.Message, "insufficient coins")

	rec = do(t, h, http.MethodGet, "/api/coins/balance", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var balance struct {
		Currency string `json:"currency"`
		Balance  int64  `json:"balance"`
	}
	decode(t, rec, &balance)
	assert.Equal(t, "coins", balance.Currency)
	assert.EqualValues(t, 70, balance.Balance)

	rec = do(t, h, http.MethodGet, "/api/coins/history?limit=10", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var history []models.LedgerEntry
	decode(t, rec, &history)
	assert.Len(t, history, 2)
}

func TestExchangeUsesDefaultRate(t *testing.T) {
	h := newTestServer(t, func(c *config.Config) { c.Exchange.DefaultRate = 2 })

	rec := do(t, h, http.MethodPost, "/api/coins/transactions", map[string]interface{}{
		"amount": 50, "kind": "earned", "category": "gaming",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = do(t, h, http.MethodPost, "/api/exchange", map[string]interface{}{"coin_amount": 20})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var result models.ExchangeResult
	decode(t, rec, &result)
	assert.EqualValues(t, 40, result.PointAmount)
	assert.EqualValues(t, 30, result.Debit.BalanceAfter)

	rec = do(t, h, http.MethodPost, "/api/exchange", map[string]interface{}{"coin_amount": 500, "exchange_rate": 1.5})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = do(t, h, http.MethodGet, "/api/exchange/history", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var records []models.ExchangeRecord
	decode(t, rec, &records)
	require.Len(t, records, 1)
	assert.EqualValues(t, 2, records[0].ExchangeRate)
}

func TestRequestValidation(t *testing.T) {
	h := newTestServer(t, nil)

	tests := []struct {
		name   string
		method string
		path   string
		body   interface{}
		status int
	}{
		{"negative amount", http.MethodPost, "/api/points/transactions",
			map[string]interface{}{"amount": -5, "kind": "earned", "category": "exercise"}, http.StatusBadRequest},
		{"unknown field", http.MethodPost, "/api/goals", `{"title":"x","currency":"points","target_amount":10,"bogus":1}`, http.StatusBadRequest},
		{"malformed json", http.MethodPost, "/api/tasks", `{"title":`, http.StatusBadRequest},
		{"bad limit", http.MethodGet, "/api/points/history?limit=ten", nil, http.StatusBadRequest},
		{"bad bool", http.MethodGet, "/api/goals?completed=perhaps", nil, http.StatusBadRequest},
		{"missing task", http.MethodGet, "/api/tasks/does-not-exist", nil, http.StatusNotFound},
		{"missing meal", http.MethodPost, "/api/meals/does-not-exist/eat", nil, http.StatusNotFound},
		{"energy out of range", http.MethodGet, "/api/meals/recommendations?energy=150", nil, http.StatusBadRequest},
		{"unknown route", http.MethodGet, "/api/nowhere", nil, http.StatusNotFound},
		{"wrong method", http.MethodPut, "/api/points/balance", nil, http.StatusMethodNotAllowed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
			var eb errorBody
			decode(t, rec, &eb)
			assert.NotEmpty(t, eb.Error.Message)
		})
	}
}

func TestTaskLifecycle(t *testing.T) {
	h := newTestServer(t, nil)

	rec := do(t, h, http.MethodPost, "/api/tasks", map[string]interface{}{
		"title": "File taxes", "deadline": "2024-04-02T10:00:00Z", "reward": 20,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var task models.Task
	decode(t, rec, &task)
	assert.Equal(t, models.TaskTypeNormal, task.Type)

	rec = do(t, h, http.MethodGet, "/api/tasks/due?days=1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var due []models.Task
	decode(t, rec, &due)
	require.Len(t, due, 1)

	rec = do(t, h, http.MethodGet, "/api/tasks/reminders/upcoming?hours=4", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var reminders []models.Reminder
	decode(t, rec, &reminders)
	require.Len(t, reminders, 1)
	assert.Equal(t, time.Date(2024, 4, 2, 9, 30, 0, 0, time.UTC), reminders[0].RemindAt.UTC())

	rec = do(t, h, http.MethodPost, "/api/tasks/"+task.ID+"/complete", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &task)
	assert.True(t, task.Completed)
	require.NotNil(t, task.CompletedAt)

	rec = do(t, h, http.MethodGet, "/api/tasks/overdue", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	rec = do(t, h, http.MethodDelete, "/api/tasks/"+task.ID, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = do(t, h, http.MethodGet, "/api/tasks/"+task.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestFreeSlotsAndConflicts(t *testing.T) {
	h := newTestServer(t, nil)

	rec := do(t, h, http.MethodPost, "/api/schedules", map[string]interface{}{
		"title":         "Standup",
		"start_time":    "2024-04-02T09:00:00Z",
		"end_time":      "2024-04-02T10:00:00Z",
		"schedule_type": "fixed",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = do(t, h, http.MethodGet, "/api/schedules/free-slots?date=2024-04-02&min_duration=60", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var slots []models.FreeSlot
	decode(t, rec, &slots)
	require.Len(t, slots, 2)
	total := slots[0].DurationMin + slots[1].DurationMin
	assert.Equal(t, 180+780, total)

	rec = do(t, h, http.MethodGet, "/api/schedules/free-slots?max_fatigue=11", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodGet, "/api/schedules/conflicts?date=2024-04-02", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"conflicts":[]}`, rec.Body.String())

	rec = do(t, h, http.MethodGet, "/api/schedules/today", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var today []models.Schedule
	decode(t, rec, &today)
	assert.Len(t, today, 1)
}

func TestMealsAndStudy(t *testing.T) {
	h := newTestServer(t, nil)

	rec := do(t, h, http.MethodPost, "/api/meals", map[string]interface{}{
		"name": "Salmon bowl", "meal_type": "lunch", "category": "healthy",
		"calories": 650, "energy_boost": 8, "fatigue_reduction": 6,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var meal models.Meal
	decode(t, rec, &meal)

	rec = do(t, h, http.MethodGet, "/api/meals/recommendations?energy=20&fatigue=80", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var recs []models.MealRecommendation
	decode(t, rec, &recs)
	require.Len(t, recs, 1)
	assert.Equal(t, meal.ID, recs[0].Meal.ID)

	rec = do(t, h, http.MethodPost, "/api/meals/"+meal.ID+"/eat", nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = do(t, h, http.MethodGet, "/api/meals/stats", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var stats models.MealStats
	decode(t, rec, &stats)
	assert.Equal(t, 1, stats.TotalMeals)
	assert.Equal(t, models.MealHealthy, stats.MostConsumedCategory)

	rec = do(t, h, http.MethodPost, "/api/study", map[string]interface{}{
		"title": "Linear algebra", "subject": "math", "estimated_hours": 4, "completed_hours": 1,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var item models.StudyItem
	decode(t, rec, &item)
	assert.Equal(t, 25, item.Progress)

	rec = do(t, h, http.MethodGet, "/api/study/recommendations", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var studyRecs []models.StudyRecommendation
	decode(t, rec, &studyRecs)
	require.Len(t, studyRecs, 1)

	rec = do(t, h, http.MethodPost, "/api/timetable", map[string]interface{}{
		"day_of_week": 1, "start_time": "09:00", "end_time": "10:30", "subject": "math", "title": "Calculus",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = do(t, h, http.MethodGet, "/api/timetable?day=1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var entries []models.TimetableEntry
	decode(t, rec, &entries)
	assert.Len(t, entries, 1)

	rec = do(t, h, http.MethodGet, "/api/timetable?day=9", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRateLimit(t *testing.T) {
	h := newTestServer(t, func(c *config.Config) {
		c.Server.RateLimit = 1
		c.Server.RateBurst = 1
	})

	first := do(t, h, http.MethodGet, "/api/version", nil)
	require.Equal(t, http.StatusOK, first.Code)

	second := do(t, h, http.MethodGet, "/api/version", nil)
	require.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.Equal(t, "1", second.Header().Get("Retry-After"))

	// health sits outside the limited group
	assert.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/health", nil).Code)
}

func TestRateLimiterCleanup(t *testing.T) {
	rl := NewRateLimiter(10, 10)
	rl.getLimiter("10.0.0.1")
	rl.getLimiter("10.0.0.2")
	require.Equal(t, 2, rl.size())

	rl.limiters["10.0.0.1"].lastSeen = time.Now().Add(-2 * time.Hour)
	rl.Cleanup(time.Hour)
	assert.Equal(t, 1, rl.size())
	_, kept := rl.limiters["10.0.0.2"]
	assert.True(t, kept)
}

func TestCORSPreflight(t *testing.T) {
	h := newTestServer(t, nil)
	rec := do(t, h, http.MethodOptions, "/api/tasks", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.True(t, strings.Contains(rec.Header().Get("Access-Control-Allow-Methods"), "PATCH"))
}
