package engine

import (
	"math"
	"time"

	"github.com/vsradar/vsradar/pkg/source"
)

// Game and scoring constants. These are the product rules, not
// configuration.
const (
	EpochLength = 24 * time.Hour
	NewsTTL     = 180 * time.Second

	StartingPoints = 1000
	BoostCost      = 100

	MaxVideos = 12
	MaxNews   = 7

	videoBaseScore   = 30
	videoBoostWeight = 50
	videoDecayCap    = 40 // hours of freshness bonus

	newsSourceWeight  = 8
	newsMentionWeight = 3
	newsRecencyCap    = 24 // hours
)

// VideoScore computes the viral score for one video given its
// community-wide boost total. Fresh videos get a decaying bonus; the
// one-hour age floor keeps brand-new entries from exceeding the cap.
// Rounded to one decimal.
func VideoScore(v source.Video, totalBoosts int, now time.Time) float64 {
	ageHours := now.Sub(v.FirstSeen).Hours()
	if ageHours < 1 {
		ageHours = 1
	}
	timeScore := videoDecayCap - ageHours
	if timeScore < 0 {
		timeScore = 0
	}
	score := videoBaseScore + videoBoostWeight*float64(totalBoosts) + timeScore
	return math.Round(score*10) / 10
}

// NewsScore computes the trending score for a headline cluster. Source
// diversity outweighs raw repetition so a single noisy feed can't flood
// the list; recency is a bounded bonus. Rounded to two decimals.
func NewsScore(c *Cluster, now time.Time) float64 {
	ageHours := now.Sub(c.PublishedAt).Hours()
	if ageHours < 0 {
		ageHours = 0
	}
	recency := newsRecencyCap - ageHours
	if recency < 0 {
		recency = 0
	}
	score := newsSourceWeight*float64(c.UniqueSources()) +
		newsMentionWeight*float64(c.Mentions) +
		recency
	return math.Round(score*100) / 100
}
