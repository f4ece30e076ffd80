package dreamtext

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSections(t *testing.T) {
	reply := "1. Analysis:\nLine one.\n2. Sentiment:\nSCORE: 0.7 - positive tone"

	sections := Sections(reply)

	assert.Equal(t, "Line one.", sections["Analysis"])
	assert.Equal(t, "SCORE: 0.7 - positive tone", sections["Sentiment"])
}

func TestSectionsMultilineBodiesAndBlankLines(t *testing.T) {
	reply := "Psychological interpretation:\n  First thought.  \n\nSecond thought.\nLucid dreaming potential:\nPractice reality checks."

	sections := Sections(reply)

	assert.Equal(t, "First thought.\nSecond thought.", sections["Psychological interpretation"])
	assert.Equal(t, "Practice reality checks.", sections["Lucid dreaming potential"])
}

func TestSectionsHeaderWithoutBodyIsAbsent(t *testing.T) {
	sections := Sections("1. Themes:\n2. Symbols:\nwater - change")

	_, ok := sections["Themes"]
	assert.False(t, ok)
	assert.Equal(t, "water - change", sections["Symbols"])
}

func TestSectionsRepeatedLabelOverwrites(t *testing.T) {
	sections := Sections("Analysis:\nfirst\nAnalysis:\nsecond")

	assert.Equal(t, "second", sections["Analysis"])
}

func TestSentimentScoreExplicit(t *testing.T) {
	assert.Equal(t, 0.7, SentimentScore("SCORE: 0.7 - positive tone"))
	assert.Equal(t, -0.5, SentimentScore("SCORE: -0.5 because of the chase"))
}

func TestSentimentScoreClamped(t *testing.T) {
	assert.Equal(t, 1.0, SentimentScore("SCORE: 7 off the charts"))
	assert.Equal(t, -1.0, SentimentScore("SCORE: -3.2"))
}

func TestSentimentScoreKeywordFallback(t *testing.T) {
	assert.Equal(t, -1.0, SentimentScore("This dream feels very negative overall"))
	assert.Equal(t, -0.5, SentimentScore("A negative undertone"))
	assert.Equal(t, 1.0, SentimentScore("Very Positive imagery"))
	assert.Equal(t, 0.5, SentimentScore("a positive mood"))
	assert.Equal(t, 0.0, SentimentScore("hard to say"))
}

func TestThemes(t *testing.T) {
	themes := Themes("The dream had no clear theme. The ocean represents calm")

	assert.Contains(t, themes, "The dream had no clear theme")
	assert.Contains(t, themes, "The ocean represents calm")
}

func TestThemesStripsBoilerplate(t *testing.T) {
	themes := Themes("1. Theme: flying and freedom")

	assert.Equal(t, []string{"flying and freedom"}, themes)
}

func TestThemesLengthBounds(t *testing.T) {
	long := "this theme fragment keeps going well past the fifty character limit for a theme"
	themes := Themes(long)

	assert.Equal(t, []string{FallbackTheme}, themes)
}

func TestThemesFallbackOnEmptyInput(t *testing.T) {
	assert.Equal(t, []string{FallbackTheme}, Themes(""))
}

func TestSymbols(t *testing.T) {
	symbols := Symbols("Water: emotions, Flight - freedom\nTeeth | anxiety")

	assert.Equal(t, []string{"Water", "Flight", "Teeth"}, symbols)
}

func TestMoodSentiment(t *testing.T) {
	score := MoodSentiment([]MoodRating{
		{Name: "Happy", Intensity: 5},
		{Name: "Anxious", Intensity: 5},
	})
	assert.Equal(t, 0.0, score)

	score = MoodSentiment([]MoodRating{{Name: "Scared", Intensity: 5}})
	assert.Equal(t, -1.0, score)

	score = MoodSentiment([]MoodRating{{Name: "Peaceful", Intensity: 3}})
	assert.InDelta(t, 0.6, score, 1e-9)
}

func TestMoodSentimentEmptyAndUnknown(t *testing.T) {
	assert.Equal(t, 0.0, MoodSentiment(nil))
	assert.Equal(t, 0.0, MoodSentiment([]MoodRating{{Name: "Wistful", Intensity: 4}}))
}
