package recommend

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/julianstephens/lifequest/internal/constants"
	"github.com/julianstephens/lifequest/internal/models"
)

// DaysUntil is the whole number of days from now to deadline, rounded down.
// Past deadlines are negative.
func DaysUntil(deadline, now time.Time) int {
	return int(math.Floor(deadline.Sub(now).Hours() / 24))
}

func deadlineScore(days int) float64 {
	switch {
	case days <= 0:
		return 50
	case days <= 3:
		return 40
	case days <= 7:
		return 30
	case days <= 14:
		return 20
	default:
		return 10
	}
}

func progressScore(progress int) float64 {
	switch {
	case progress < 25:
		return 15
	case progress < 50:
		return 10
	case progress < 75:
		return 5
	default:
		return 0
	}
}

// StudyScore favours urgent, important, hard and barely started items.
func StudyScore(item models.StudyItem, now time.Time) float64 {
	score := float64(item.Priority * 20)
	if item.Deadline != nil {
		score += deadlineScore(DaysUntil(*item.Deadline, now))
	}
	score += progressScore(item.Progress)
	score += float64(item.Difficulty * 5)
	return score
}

// StudyReason explains StudyScore in a few words.
func StudyReason(item models.StudyItem, now time.Time) string {
	var reasons []string

	if item.Priority >= 4 {
		reasons = append(reasons, "high priority")
	}
	if item.Deadline != nil {
		days := DaysUntil(*item.Deadline, now)
		if days <= 0 {
			reasons = append(reasons, "overdue")
		} else if days <= 3 {
			reasons = append(reasons, "deadline approaching")
		}
	}
	if item.Progress < 25 {
		reasons = append(reasons, "little progress")
	}
	if item.Difficulty >= 4 {
		reasons = append(reasons, "challenging")
	}

	if len(reasons) == 0 {
		return "keep going"
	}
	return strings.Join(reasons, ", ")
}

// RecommendStudy ranks incomplete items and returns at most limit of them.
// Equal scores are ordered by earliest deadline (none last), then title.
func RecommendStudy(items []models.StudyItem, now time.Time, limit int) []models.StudyRecommendation {
	if limit <= 0 {
		limit = constants.DefaultStudyLimit
	}

	recs := make([]models.StudyRecommendation, 0, len(items))
	for _, item := range items {
		if item.Completed {
			continue
		}
		recs = append(recs, models.StudyRecommendation{
			Item:   item,
			Score:  StudyScore(item, now),
			Reason: StudyReason(item, now),
		})
	}

	sort.SliceStable(recs, func(i, j int) bool {
		a, b := recs[i], recs[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		switch {
		case a.Item.Deadline != nil && b.Item.Deadline != nil:
			if !a.Item.Deadline.Equal(*b.Item.Deadline) {
				return a.Item.Deadline.Before(*b.Item.Deadline)
			}
		case a.Item.Deadline != nil:
			return true
		case b.Item.Deadline != nil:
			return false
		}
		return a.Item.Title < b.Item.Title
	})

	if len(recs) > limit {
		recs = recs[:limit]
	}
	return recs
}
