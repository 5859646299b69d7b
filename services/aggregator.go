package services

import (
	"EmotionTrackerGo/models"
	"sort"
	"time"
)

// Aggregate counts records with start <= Timestamp < end per normalized emotion.
// Entries come out in the order each label first appears in records. Percentages use every
// counted record as the denominator, unknown included.
func Aggregate(records []models.EmotionRecord, start, end time.Time) []models.SummaryEntry {
	counts := make(map[models.EmotionLabel]int)
	var order []models.EmotionLabel
	total := 0

	for _, r := range records {
		if r.Timestamp.Before(start) || !r.Timestamp.Before(end) {
			continue
		}
		label, ok := models.ParseEmotion(string(r.Emotion))
		if !ok {
			label = models.Unknown
		}
		if _, seen := counts[label]; !seen {
			order = append(order, label)
		}
		counts[label]++
		total++
	}

	entries := make([]models.SummaryEntry, 0, len(order))
	for _, label := range order {
		entries = append(entries, models.SummaryEntry{
			Emotion:    label,
			Count:      counts[label],
			Percentage: percentage(counts[label], total),
		})
	}
	return entries
}

func percentage(count, total int) float64 {
	if total == 0 {
		return 0
	}
	return 100 * float64(count) / float64(total)
}

// Total sums the counts of a summary.
func Total(entries []models.SummaryEntry) int {
	total := 0
	for _, e := range entries {
		total += e.Count
	}
	return total
}

// ForDisplay drops unknown entries and orders the rest by count, highest first.
// Percentages are left as computed.
func ForDisplay(entries []models.SummaryEntry) []models.SummaryEntry {
	out := make([]models.SummaryEntry, 0, len(entries))
	for _, e := range entries {
		if e.Emotion == models.Unknown {
			continue
		}
		out = append(out, e)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Count > out[j].Count
	})
	return out
}

// RecentWindow is [now-d, now] expressed as a half-open interval.
func RecentWindow(now time.Time, d time.Duration) (start, end time.Time) {
	now = now.UTC()
	return now.Add(-d), now.Add(time.Nanosecond)
}

// WeekWindow returns Monday 00:00 UTC of t's week and the following Monday.
func WeekWindow(t time.Time) (start, end time.Time) {
	t = t.UTC()
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	offset := (int(day.Weekday()) + 6) % 7
	start = day.AddDate(0, 0, -offset)
	return start, start.AddDate(0, 0, 7)
}
