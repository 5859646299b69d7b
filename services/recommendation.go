package services

import (
	"EmotionTrackerGo/models"
	"fmt"
	"strings"
)

// NotEnoughDataMessage is returned when there is nothing to base a recommendation on.
const NotEnoughDataMessage = "Not enough data for a recommendation yet. Keep the camera running for a little longer."

// Dominant returns the emotion with the highest count, its share of the total and the total.
// Equal counts keep the entry seen first. ok is false for an empty or all-zero summary.
func Dominant(summary []models.SummaryEntry) (label models.EmotionLabel, pct float64, ok bool) {
	best := -1
	total := 0
	for i, e := range summary {
		total += e.Count
		if best < 0 || e.Count > summary[best].Count {
			best = i
		}
	}
	if best < 0 || total == 0 {
		return "", 0, false
	}
	return summary[best].Emotion, percentage(summary[best].Count, total), true
}

// Recommend turns a summary into a one-line suggestion based on the dominant emotion's valence.
func Recommend(summary []models.SummaryEntry) string {
	dominant, pct, ok := Dominant(summary)
	if !ok {
		return NotEnoughDataMessage
	}

	name := strings.ToLower(string(dominant))
	switch dominant.Valence() {
	case models.ValencePositive:
		return fmt.Sprintf("You have mostly been feeling %s (%.1f%%). Great work, keep doing what lifts you up and take a moment to note what is going well.", name, pct)
	case models.ValenceNegative:
		return fmt.Sprintf("You have mostly been feeling %s (%.1f%%). Try a short break, a few slow breaths, or talk to someone you trust.", name, pct)
	default:
		return fmt.Sprintf("You have mostly been feeling %s (%.1f%%). A short walk, some water and a stretch can help keep things balanced.", name, pct)
	}
}

var suggestions = map[models.EmotionLabel][]string{
	models.Happy: {
		"Write down 3 things you're grateful for.",
		"Share positivity by messaging someone you appreciate.",
		"Do a quick joyful activity like dancing or listening to music.",
	},
	models.Sad: {
		"Talk to a friend or someone you trust.",
		"Write your emotions in a journal.",
		"Watch something uplifting or calming.",
	},
	models.Angry: {
		"Take 5-10 deep breaths slowly.",
		"Go for a short walk to release frustration.",
		"Step away from the situation temporarily.",
	},
	models.Fear: {
		"Practice slow breathing for 60 seconds.",
		"Remind yourself what is under your control.",
		"Talk to someone supportive to reduce anxiety.",
	},
	models.Disgust: {
		"Step away from whatever is bothering you for a few minutes.",
		"Name what triggered the feeling and write it down.",
		"Refocus on something you enjoy.",
	},
	models.Neutral: {
		"Take a short mindful walk.",
		"Drink water and stretch your body.",
		"Plan the next task with clarity.",
	},
	models.Surprise: {
		"Pause and take a moment to process the situation.",
		"Identify whether the surprise is good or bad.",
		"Write down how this surprise may affect your goals.",
	},
}

// Suggestions returns concrete actions for an emotion, or nil when none are defined.
func Suggestions(label models.EmotionLabel) []string {
	list := suggestions[label]
	if list == nil {
		return nil
	}
	return append([]string(nil), list...)
}

// ReportRecommendation builds the multi-line text used in the PDF report, comparing the
// dominant emotion with the weekly goal when one is set.
func ReportRecommendation(summary []models.SummaryEntry, goal *models.WeeklyGoal) string {
	dominant, _, ok := Dominant(summary)
	if !ok {
		return "No emotion data available."
	}

	bullets := "\n- No suggestions available."
	if list := Suggestions(dominant); len(list) > 0 {
		bullets = "\n- " + strings.Join(list, "\n- ")
	}

	if goal == nil {
		return fmt.Sprintf("Your dominant emotion for this period was %s.\nSuggested actions:%s", dominant, bullets)
	}

	target := models.EmotionLabel(strings.ToLower(string(goal.TargetEmotion)))
	if dominant == target {
		return fmt.Sprintf("Your dominant emotion for this period was %s, which aligns well with your weekly goal (%s).\nRecommended actions to maintain this positive state:%s",
			dominant, target, bullets)
	}
	return fmt.Sprintf("Your dominant emotion for this period was %s, which does not fully match your weekly goal (%s).\nHere are some helpful activities:%s",
		dominant, target, bullets)
}
