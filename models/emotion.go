package models

import "strings"

// EmotionLabel is one value of the closed emotion vocabulary.
type EmotionLabel string

const (
	Happy    EmotionLabel = "happy"
	Sad      EmotionLabel = "sad"
	Angry    EmotionLabel = "angry"
	Fear     EmotionLabel = "fear"
	Disgust  EmotionLabel = "disgust"
	Surprise EmotionLabel = "surprise"
	Neutral  EmotionLabel = "neutral"
	Unknown  EmotionLabel = "unknown"
)

// AllEmotions lists the vocabulary in display order.
var AllEmotions = []EmotionLabel{Happy, Sad, Angry, Fear, Disgust, Surprise, Neutral, Unknown}

// aliases folds spellings used by common classifiers onto the vocabulary.
var aliases = map[string]EmotionLabel{
	"happiness": Happy,
	"joy":       Happy,
	"sadness":   Sad,
	"anger":     Angry,
	"fearful":   Fear,
	"scared":    Fear,
	"disgusted": Disgust,
	"surprised": Surprise,
	"calm":      Neutral,
}

// ParseEmotion normalizes a raw label. Labels outside the vocabulary become Unknown;
// ok is false only when the label is blank.
func ParseEmotion(raw string) (label EmotionLabel, ok bool) {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return "", false
	}
	for _, e := range AllEmotions {
		if string(e) == s {
			return e, true
		}
	}
	if e, found := aliases[s]; found {
		return e, true
	}
	return Unknown, true
}

// IsKnown reports whether the label is a concrete emotion, i.e. in the vocabulary and not Unknown.
func (e EmotionLabel) IsKnown() bool {
	for _, k := range AllEmotions {
		if k == e {
			return e != Unknown
		}
	}
	return false
}

// Valence buckets an emotion for recommendations.
type Valence int

const (
	ValenceNeutral Valence = iota
	ValencePositive
	ValenceNegative
)

// Valence classifies the label; anything not positive or negative is neutral.
func (e EmotionLabel) Valence() Valence {
	switch EmotionLabel(strings.ToLower(string(e))) {
	case Happy, Surprise:
		return ValencePositive
	case Sad, Angry, Fear, Disgust:
		return ValenceNegative
	default:
		return ValenceNeutral
	}
}

func (v Valence) String() string {
	switch v {
	case ValencePositive:
		return "positive"
	case ValenceNegative:
		return "negative"
	default:
		return "neutral"
	}
}
