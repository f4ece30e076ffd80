package services

import (
	"sort"
	"time"

	"github.com/pmarkota/dreamlog-backend/internal/utils/dreamtext"
)

// DayBucket aggregates the dreams recorded on one weekday or in one hour
// of the day.
type DayBucket struct {
	Total          int     `json:"total"`
	Lucid          int     `json:"lucid"`
	LucidityRate   float64 `json:"lucidity_rate"`
	AverageClarity float64 `json:"average_clarity"`
}

// HourStat is one entry of the best-lucidity ranking.
type HourStat struct {
	Hour         int     `json:"hour"`
	Total        int     `json:"total"`
	LucidityRate float64 `json:"lucidity_rate"`
}

// TimingPatterns buckets dreams by weekday (Sunday first) and by hour of
// the recorded dream_date.
type TimingPatterns struct {
	Weekdays      [7]DayBucket  `json:"weekdays"`
	Hours         [24]DayBucket `json:"hours"`
	TopLucidHours []HourStat    `json:"top_lucid_hours"`
}

// MoodPattern summarizes one mood across a user's dreams.
type MoodPattern struct {
	Count            int            `json:"count"`
	AverageIntensity float64        `json:"average_intensity"`
	Intensities      []DayIntensity `json:"intensities"`
}

// DayIntensity records a mood's intensity on one dream date.
type DayIntensity struct {
	Date      string `json:"date"`
	Intensity int    `json:"intensity"`
}

// InsightStats are the overall journal statistics.
type InsightStats struct {
	TotalDreams         int     `json:"total_dreams"`
	LucidDreams         int     `json:"lucid_dreams"`
	LucidityRate        float64 `json:"lucidity_rate"`
	AverageClarity      float64 `json:"average_clarity"`
	AverageSleepQuality float64 `json:"average_sleep_quality"`
	AverageSentiment    float64 `json:"average_sentiment"`
}

// ThemeAnalysis counts theme, symbol and tag occurrences across analyses.
type ThemeAnalysis struct {
	Themes  map[string]int `json:"themes"`
	Symbols map[string]int `json:"symbols"`
	Tags    map[string]int `json:"tags"`
}

// MoodThemeAnalysis relates moods to lucidity and recurring themes.
type MoodThemeAnalysis struct {
	MoodFrequency map[string]int `json:"mood_frequency"`
	LucidMoods    map[string]int `json:"lucid_moods"`
	NonLucidMoods map[string]int `json:"non_lucid_moods"`
	CommonThemes  []string       `json:"common_themes"`
}

// dreamFacts is the flattened input the aggregators work over: one dream
// plus its resolved moods and, when present, its stored analysis.
type dreamFacts struct {
	Date         time.Time
	IsLucid      bool
	Clarity      int
	SleepQuality int
	Moods        []dreamtext.MoodRating
	Tags         []string
	Themes       []string
	Symbols      []string
	Sentiment    *float64
}

func aggregateStats(facts []dreamFacts) InsightStats {
	stats := InsightStats{}
	stats.TotalDreams = len(facts)
	if len(facts) == 0 {
		return stats
	}

	var claritySum, sleepSum, sentimentSum float64
	for _, f := range facts {
		if f.IsLucid {
			stats.LucidDreams++
		}
		claritySum += float64(f.Clarity)
		sleepSum += float64(f.SleepQuality)
		if f.Sentiment != nil {
			sentimentSum += *f.Sentiment
		} else {
			sentimentSum += dreamtext.MoodSentiment(f.Moods)
		}
	}

	n := float64(len(facts))
	stats.LucidityRate = float64(stats.LucidDreams) / n * 100
	stats.AverageClarity = claritySum / n
	stats.AverageSleepQuality = sleepSum / n
	stats.AverageSentiment = sentimentSum / n
	return stats
}

func aggregateMoodPatterns(facts []dreamFacts) map[string]*MoodPattern {
	patterns := map[string]*MoodPattern{}
	for _, f := range facts {
		date := f.Date.Format("2006-01-02")
		for _, mood := range f.Moods {
			p, ok := patterns[mood.Name]
			if !ok {
				p = &MoodPattern{Intensities: []DayIntensity{}}
				patterns[mood.Name] = p
			}
			p.Count++
			p.AverageIntensity = (p.AverageIntensity*float64(p.Count-1) + float64(mood.Intensity)) / float64(p.Count)
			p.Intensities = append(p.Intensities, DayIntensity{Date: date, Intensity: mood.Intensity})
		}
	}
	return patterns
}

func aggregateThemes(facts []dreamFacts) ThemeAnalysis {
	analysis := ThemeAnalysis{
		Themes:  map[string]int{},
		Symbols: map[string]int{},
		Tags:    map[string]int{},
	}
	for _, f := range facts {
		for _, theme := range f.Themes {
			analysis.Themes[theme]++
		}
		for _, symbol := range f.Symbols {
			analysis.Symbols[symbol]++
		}
		for _, tag := range f.Tags {
			analysis.Tags[tag]++
		}
	}
	return analysis
}

func aggregateTiming(facts []dreamFacts) TimingPatterns {
	tp := TimingPatterns{TopLucidHours: []HourStat{}}
	for _, f := range facts {
		addToBucket(&tp.Weekdays[int(f.Date.Weekday())], f)
		addToBucket(&tp.Hours[f.Date.Hour()], f)
	}

	for i := range tp.Weekdays {
		finishBucket(&tp.Weekdays[i])
	}
	for i := range tp.Hours {
		finishBucket(&tp.Hours[i])
	}

	for hour, bucket := range tp.Hours {
		if bucket.Total > 0 {
			tp.TopLucidHours = append(tp.TopLucidHours, HourStat{
				Hour:         hour,
				Total:        bucket.Total,
				LucidityRate: bucket.LucidityRate,
			})
		}
	}
	sort.SliceStable(tp.TopLucidHours, func(i, j int) bool {
		return tp.TopLucidHours[i].LucidityRate > tp.TopLucidHours[j].LucidityRate
	})
	if len(tp.TopLucidHours) > 5 {
		tp.TopLucidHours = tp.TopLucidHours[:5]
	}
	return tp
}

// addToBucket grows the bucket's running clarity mean. The divisor is the
// bucket total, so dreams with an unset clarity pull the mean toward zero
// without contributing a value. That matches the journal's historical
// numbers, which existing users expect to stay stable.
func addToBucket(b *DayBucket, f dreamFacts) {
	b.Total++
	if f.IsLucid {
		b.Lucid++
	}
	if f.Clarity != 0 {
		b.AverageClarity = (b.AverageClarity*float64(b.Total-1) + float64(f.Clarity)) / float64(b.Total)
	}
}

func finishBucket(b *DayBucket) {
	if b.Total > 0 {
		b.LucidityRate = float64(b.Lucid) / float64(b.Total) * 100
	}
}

func aggregateMoodThemes(facts []dreamFacts) MoodThemeAnalysis {
	out := MoodThemeAnalysis{
		MoodFrequency: map[string]int{},
		LucidMoods:    map[string]int{},
		NonLucidMoods: map[string]int{},
		CommonThemes:  []string{},
	}
	themeCounts := map[string]int{}
	for _, f := range facts {
		for _, mood := range f.Moods {
			out.MoodFrequency[mood.Name]++
			if f.IsLucid {
				out.LucidMoods[mood.Name]++
			} else {
				out.NonLucidMoods[mood.Name]++
			}
		}
		for _, theme := range f.Themes {
			themeCounts[theme]++
		}
	}

	type themeCount struct {
		name  string
		count int
	}
	ranked := make([]themeCount, 0, len(themeCounts))
	for name, count := range themeCounts {
		ranked = append(ranked, themeCount{name, count})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].count != ranked[j].count {
			return ranked[i].count > ranked[j].count
		}
		return ranked[i].name < ranked[j].name
	})
	for i, tc := range ranked {
		if i == 5 {
			break
		}
		out.CommonThemes = append(out.CommonThemes, tc.name)
	}
	return out
}
