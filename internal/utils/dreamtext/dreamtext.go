// Package dreamtext contains the text-processing helpers for AI dream
// analysis replies: splitting a free-text completion into labeled sections,
// pulling a sentiment score out of a section, and extracting theme and
// symbol candidates.
package dreamtext

import (
	"regexp"
	"strconv"
	"strings"
)

// FallbackTheme is returned when no theme candidate survives filtering.
const FallbackTheme = "General Dream"

var (
	headerRegex       = regexp.MustCompile(`^\d+\.\s*(.*?):$|^([^:]+):$`)
	scoreRegex        = regexp.MustCompile(`SCORE:\s*([-+]?\d*\.?\d+)`)
	fragmentSplit     = regexp.MustCompile(`[.,!?\n]`)
	leadingNonLetters = regexp.MustCompile(`^[^a-zA-Z]+`)
	themePrefix       = regexp.MustCompile(`(?i)^(the theme of|theme:|themes:|symbol:|symbols:)`)
)

// Sections splits an AI reply into a label -> body mapping. A header line is
// either "<number>. <label>:" or "<label>:" with nothing after the colon;
// subsequent non-blank lines up to the next header form that section's body,
// trimmed and newline-joined. A repeated label overwrites the earlier body.
func Sections(reply string) map[string]string {
	sections := make(map[string]string)

	var currentLabel string
	var currentBody []string

	flush := func() {
		if currentLabel != "" && len(currentBody) > 0 {
			sections[currentLabel] = strings.TrimSpace(strings.Join(currentBody, "\n"))
		}
	}

	for _, line := range strings.Split(reply, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}

		if m := headerRegex.FindStringSubmatch(trimmed); m != nil {
			flush()
			label := m[1]
			if label == "" {
				label = m[2]
			}
			currentLabel = strings.TrimSpace(label)
			currentBody = nil
			continue
		}

		currentBody = append(currentBody, trimmed)
	}
	flush()

	return sections
}

// SentimentScore extracts a sentiment score from a section body. It prefers
// an explicit "SCORE: <number>" token, then falls back to positive/negative
// keyword heuristics, and defaults to 0 (neutral). The result is clamped to
// [-1, 1].
func SentimentScore(section string) float64 {
	if m := scoreRegex.FindStringSubmatch(section); m != nil {
		if score, err := strconv.ParseFloat(m[1], 64); err == nil {
			return clamp(score)
		}
	}

	lower := strings.ToLower(section)
	switch {
	case strings.Contains(lower, "positive"):
		if strings.Contains(lower, "very") {
			return 1
		}
		return 0.5
	case strings.Contains(lower, "negative"):
		if strings.Contains(lower, "very") {
			return -1
		}
		return -0.5
	}
	return 0
}

// Themes extracts theme candidates from a block of analysis text. Fragments
// are sentence-like pieces that mention themes or symbolism, stripped of
// boilerplate and kept only within a reasonable length for a theme name.
func Themes(text string) []string {
	var themes []string
	for _, fragment := range fragmentSplit.Split(text, -1) {
		lower := strings.ToLower(strings.TrimSpace(fragment))
		if !strings.Contains(lower, "theme") &&
			!strings.Contains(lower, "symbol") &&
			!strings.Contains(lower, "represent") &&
			!strings.Contains(lower, "signif") {
			continue
		}

		cleaned := strings.TrimSpace(fragment)
		cleaned = leadingNonLetters.ReplaceAllString(cleaned, "")
		cleaned = themePrefix.ReplaceAllString(cleaned, "")
		cleaned = strings.TrimSpace(cleaned)

		if len(cleaned) > 0 && len(cleaned) < 50 {
			themes = append(themes, cleaned)
		}
	}

	if len(themes) == 0 {
		return []string{FallbackTheme}
	}
	return themes
}

// Symbols extracts symbol names from a symbols section, dropping the
// per-symbol meanings that follow a ':', '|' or '-'.
func Symbols(text string) []string {
	var symbols []string
	for _, part := range strings.FieldsFunc(text, func(r rune) bool {
		return r == ',' || r == '\n'
	}) {
		s := strings.TrimSpace(part)
		if s == "" {
			continue
		}
		if idx := strings.IndexAny(s, ":|-"); idx >= 0 {
			s = strings.TrimSpace(s[:idx])
		}
		if s != "" {
			symbols = append(symbols, s)
		}
	}
	return symbols
}

// MoodRating is a named mood with an intensity on a 1-5 scale.
type MoodRating struct {
	Name      string
	Intensity int
}

var moodCategories = map[string]float64{
	"Happy":    1,
	"Excited":  1,
	"Peaceful": 1,
	"Neutral":  0,
	"Confused": 0,
	"Anxious":  -1,
	"Scared":   -1,
	"Sad":      -1,
	"Angry":    -1,
}

// MoodSentiment derives a sentiment score from a dream's moods when no AI
// score exists. Each mood contributes its category score weighted by
// intensity/5; unknown moods count as neutral. Returns 0 for no moods.
func MoodSentiment(moods []MoodRating) float64 {
	var total float64
	var counted int

	for _, mood := range moods {
		if mood.Name == "" || mood.Intensity == 0 {
			continue
		}
		base := moodCategories[mood.Name]
		total += base * (float64(mood.Intensity) / 5)
		counted++
	}

	if counted == 0 {
		return 0
	}
	return total / float64(counted)
}

func clamp(score float64) float64 {
	if score > 1 {
		return 1
	}
	if score < -1 {
		return -1
	}
	return score
}
