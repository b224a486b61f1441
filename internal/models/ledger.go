package models

import "time"

type Currency string

const (
	CurrencyPoints Currency = "points"
	CurrencyCoins  Currency = "coins"
)

type EntryKind string

const (
	KindEarned   EntryKind = "earned"
	KindSpent    EntryKind = "spent"
	KindBonus    EntryKind = "bonus"
	KindPenalty  EntryKind = "penalty"
	KindExchange EntryKind = "exchange"
)

// IsEarning reports whether the kind adds to a balance.
func (k EntryKind) IsEarning() bool {
	return k == KindEarned || k == KindBonus
}

type Category string

const (
	CategoryTaskCompletion Category = "task_completion"
	CategoryStudyProgress  Category = "study_progress"
	CategoryMealHealthy    Category = "meal_healthy"
	CategoryExercise       Category = "exercise"
	CategoryDailyLogin     Category = "daily_login"
	CategoryDailyGoal      Category = "daily_goal"
	CategoryWeeklyGoal     Category = "weekly_goal"
	CategoryMonthlyGoal    Category = "monthly_goal"
	CategoryShopping       Category = "shopping"
	CategoryGaming         Category = "gaming"
	CategoryEntertainment  Category = "entertainment"
	CategoryOther          Category = "other"
)

var currencyKinds = map[Currency][]EntryKind{
	CurrencyPoints: {KindEarned, KindSpent, KindBonus, KindPenalty},
	CurrencyCoins:  {KindEarned, KindSpent, KindBonus, KindPenalty, KindExchange},
}

var currencyCategories = map[Currency][]Category{
	CurrencyPoints: {
		CategoryTaskCompletion, CategoryStudyProgress, CategoryMealHealthy, CategoryExercise,
		CategoryDailyGoal, CategoryWeeklyGoal, CategoryShopping, CategoryEntertainment, CategoryOther,
	},
	CurrencyCoins: {
		CategoryTaskCompletion, CategoryStudyProgress, CategoryDailyLogin, CategoryWeeklyGoal,
		CategoryMonthlyGoal, CategoryShopping, CategoryGaming, CategoryEntertainment, CategoryOther,
	},
}

// Valid reports whether c is a known currency.
func (c Currency) Valid() bool {
	_, ok := currencyKinds[c]
	return ok
}

// AllowsKind reports whether entries of kind k may be recorded in currency c.
func (c Currency) AllowsKind(k EntryKind) bool {
	for _, allowed := range currencyKinds[c] {
		if allowed == k {
			return true
		}
	}
	return false
}

// AllowsCategory reports whether cat is a category of currency c.
func (c Currency) AllowsCategory(cat Category) bool {
	for _, allowed := range currencyCategories[c] {
		if allowed == cat {
			return true
		}
	}
	return false
}

// Kinds lists the entry kinds accepted by c.
func (c Currency) Kinds() []EntryKind { return currencyKinds[c] }

// Categories lists the categories accepted by c.
func (c Currency) Categories() []Category { return currencyCategories[c] }

type LedgerEntry struct {
	ID           string    `json:"id"`
	Currency     Currency  `json:"currency"`
	Seq          int64     `json:"seq"`
	Amount       int64     `json:"amount"`
	Kind         EntryKind `json:"kind"`
	Category     Category  `json:"category"`
	Description  string    `json:"description,omitempty"`
	BalanceAfter int64     `json:"balance_after"`
	CreatedAt    time.Time `json:"created_at"`
}

// Delta is the signed effect of the entry on the running balance.
func (e LedgerEntry) Delta() int64 {
	if e.Kind.IsEarning() {
		return e.Amount
	}
	return -e.Amount
}

// EntryUpdate carries the subset of fields an edit touches.
type EntryUpdate struct {
	Amount       *int64     `json:"amount,omitempty"`
	Kind         *EntryKind `json:"kind,omitempty"`
	Category     *Category  `json:"category,omitempty"`
	Description  *string    `json:"description,omitempty"`
	BalanceAfter *int64     `json:"balance_after,omitempty"`
}

type LedgerFilter struct {
	Currency  Currency
	Kind      EntryKind
	Category  Category
	Since     *time.Time
	FromSeq   int64 // inclusive, 0 = unbounded
	BeforeSeq int64 // exclusive, 0 = unbounded
	Ascending bool
	Limit     int
}

type CategoryTotal struct {
	Category Category `json:"category"`
	Amount   int64    `json:"amount"`
}

type PeriodTotals struct {
	Earned       int64               `json:"total_earned"`
	Spent        int64               `json:"total_spent"`
	ByKind       map[EntryKind]int64 `json:"by_kind"`
	Transactions int                 `json:"transactions"`
}

// Add counts e into the totals. Earned and Spent track only their own kinds.
func (p *PeriodTotals) Add(e LedgerEntry) {
	if p.ByKind == nil {
		p.ByKind = make(map[EntryKind]int64)
	}
	switch e.Kind {
	case KindEarned:
		p.Earned += e.Amount
	case KindSpent:
		p.Spent += e.Amount
	}
	p.ByKind[e.Kind] += e.Amount
	p.Transactions++
}

type LedgerStats struct {
	Currency          Currency        `json:"currency"`
	WindowDays        int             `json:"window_days"`
	CurrentBalance    int64           `json:"current_balance"`
	Window            PeriodTotals    `json:"window"`
	ThisMonth         PeriodTotals    `json:"this_month"`
	TopEarnCategories []CategoryTotal `json:"top_categories"`
}
