package services

import (
	"EmotionTrackerGo/models"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

// ParseDetection normalizes a classifier response into a DetectionResult. The shapes tried,
// in order:
//
//	{"predictions": [{"emotion": "sad", "confidence": 40}, ...]}
//	[{"emotion": "sad", "confidence": 0.4}, ...]
//	{"emotion": "sad", "confidence": 0.4}
//	{"emotions": {"sad": 0.4, "happy": 0.1, ...}}   (also as array items)
//
// "label" is accepted for "emotion" and "score" for "confidence". Lists resolve to the
// candidate with the highest confidence, first one on ties. ok is false when no label
// can be resolved.
func ParseDetection(raw []byte) (result *models.DetectionResult, ok bool) {
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, false
	}

	switch v := doc.(type) {
	case map[string]any:
		if preds, isList := v["predictions"].([]any); isList {
			return bestCandidate(preds)
		}
		return candidateFrom(v)
	case []any:
		return bestCandidate(v)
	}
	return nil, false
}

func bestCandidate(items []any) (*models.DetectionResult, bool) {
	var best *models.DetectionResult
	bestScore := math.Inf(-1)
	for _, item := range items {
		m, isObj := item.(map[string]any)
		if !isObj {
			continue
		}
		c, ok := candidateFrom(m)
		if !ok {
			continue
		}
		// absent confidence loses to any present one
		score := -1.0
		if c.Confidence != nil {
			score = *c.Confidence
		}
		if best == nil || score > bestScore {
			best, bestScore = c, score
		}
	}
	return best, best != nil
}

func candidateFrom(m map[string]any) (*models.DetectionResult, bool) {
	if raw, found := firstKey(m, "emotion", "label"); found {
		s, isStr := raw.(string)
		if !isStr {
			return nil, false
		}
		label, ok := models.ParseEmotion(s)
		if !ok {
			return nil, false
		}
		conf, _ := firstKey(m, "confidence", "score")
		return &models.DetectionResult{Emotion: label, Confidence: NormalizeConfidence(conf)}, true
	}
	if scores, isObj := m["emotions"].(map[string]any); isObj {
		return dominantScore(scores)
	}
	return nil, false
}

// dominantScore picks the highest scoring label from a per-emotion score map. Keys are
// visited alphabetically so ties resolve the same way every time.
func dominantScore(scores map[string]any) (*models.DetectionResult, bool) {
	keys := make([]string, 0, len(scores))
	for k := range scores {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var best *models.DetectionResult
	bestScore := math.Inf(-1)
	for _, k := range keys {
		label, ok := models.ParseEmotion(k)
		if !ok {
			continue
		}
		conf := NormalizeConfidence(scores[k])
		if conf == nil {
			continue
		}
		if *conf > bestScore {
			best = &models.DetectionResult{Emotion: label, Confidence: conf}
			bestScore = *conf
		}
	}
	return best, best != nil
}

func firstKey(m map[string]any, keys ...string) (any, bool) {
	for _, k := range keys {
		if v, found := m[k]; found {
			return v, true
		}
	}
	return nil, false
}

// NormalizeConfidence maps a raw confidence onto [0,1]. Values above 1 are read as
// percentages and divided by 100, then the result is clamped. Numeric strings are
// accepted; anything that is not a finite number yields nil.
func NormalizeConfidence(raw any) *float64 {
	var f float64
	switch v := raw.(type) {
	case float64:
		f = v
	case float32:
		f = float64(v)
	case int:
		f = float64(v)
	case int64:
		f = float64(v)
	case json.Number:
		parsed, err := v.Float64()
		if err != nil {
			return nil
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return nil
		}
		f = parsed
	default:
		return nil
	}

	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	if f > 1 {
		f /= 100
	}
	f = math.Max(0, math.Min(1, f))
	return &f
}
