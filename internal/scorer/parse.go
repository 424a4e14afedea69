package scorer

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/water-intel/internal/model"
)

// parsedScore is the decoded provider reply before validation.
type parsedScore struct {
	Score        float64
	ProviderTier int // 0 when absent or unreadable
	Breakdown    map[string]float64
}

// parseReply decodes a provider reply. The returned reason is empty on success.
func parseReply(text string) (*parsedScore, Reason, error) {
	body := cleanJSON(text)
	if body == "" {
		return nil, ReasonMalformed, eris.New("empty reply")
	}

	dec := json.NewDecoder(bytes.NewReader([]byte(body)))
	dec.UseNumber()
	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return nil, ReasonMalformed, eris.Wrap(err, "decode reply")
	}

	scoreVal, ok := raw["score"]
	if !ok || scoreVal == nil {
		return nil, ReasonMissingFields, eris.New("reply has no score")
	}
	score, ok := toFloat(scoreVal)
	if !ok {
		return nil, ReasonMalformed, eris.Errorf("score %v is not a number", scoreVal)
	}
	if math.IsNaN(score) || score < 0 || score > 100 {
		return nil, ReasonOutOfRange, eris.Errorf("score %v outside 0-100", score)
	}

	rawBreakdown, ok := raw["breakdown"].(map[string]any)
	if !ok {
		return nil, ReasonMissingFields, eris.New("reply has no breakdown object")
	}

	out := &parsedScore{
		Score:     score,
		Breakdown: normalizeBreakdown(rawBreakdown),
	}
	if t, ok := toFloat(raw["tier"]); ok {
		out.ProviderTier = int(t)
	}
	return out, "", nil
}

// cleanJSON extracts a JSON object from text that may contain markdown code
// fences or surrounding prose.
func cleanJSON(text string) string {
	text = strings.TrimSpace(text)

	if strings.HasPrefix(text, "```json") {
		text = strings.TrimPrefix(text, "```json")
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
	} else if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start >= 0 && end > start {
		text = text[start : end+1]
	}

	return strings.TrimSpace(text)
}

// normalizeBreakdown maps provider keys ("Infrastructure Budget",
// "1. cities served", "apl") onto the canonical criterion names. Keys that
// match no criterion are dropped.
func normalizeBreakdown(raw map[string]any) map[string]float64 {
	out := make(map[string]float64, len(model.Criteria))
	for k, v := range raw {
		key := canonicalCriterion(k)
		if key == "" {
			continue
		}
		f, ok := toFloat(v)
		if !ok {
			continue
		}
		out[key] = f
	}
	return out
}

func canonicalCriterion(k string) string {
	k = strings.ToLower(k)
	switch {
	case strings.Contains(k, "apl"), strings.Contains(k, "spec"), strings.Contains(k, "alignment"):
		return model.CriterionAPLAlignment
	case strings.Contains(k, "budget"):
		return model.CriterionBudget
	case strings.Contains(k, "cit"), strings.Contains(k, "served"):
		return model.CriterionCitiesServed
	case strings.Contains(k, "project"):
		return model.CriterionProjectActivity
	case strings.Contains(k, "support"):
		return model.CriterionInternalSupport
	default:
		return ""
	}
}

// toFloat accepts a JSON number, a numeric string, or an object carrying
// the points under "score", "points" or "value".
func toFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case json.Number:
		f, err := x.Float64()
		return f, err == nil
	case float64:
		return x, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		return f, err == nil
	case map[string]any:
		for _, k := range []string{"score", "points", "value"} {
			if inner, ok := x[k]; ok {
				return toFloat(inner)
			}
		}
	}
	return 0, false
}
