package analysis

import (
	"math"
	"sort"
	"time"
)

// Scoring bonuses. Base scores come from Tables.SeverityScores; the bonus
// structure itself is fixed.
const (
	recencyBonusFresh  = 30 // anomaly is less than an hour old
	recencyBonusRecent = 15 // anomaly is less than six hours old
	criticalityBonus   = 20 // sensor type is in the critical set
	deviationBonusCap  = 30
	deviationWeight    = 2

	freshWindow  = time.Hour
	recentWindow = 6 * time.Hour
)

// Tier thresholds over the final score.
const (
	tierHighThreshold   = 80
	tierMediumThreshold = 50
)

// scoreAnomaly computes the priority score and tier for one record against
// a fixed reference time. The reference time is sampled once per analysis
// pass so all records in the pass are scored consistently.
func (t *Tables) scoreAnomaly(rec AnomalyRecord, now time.Time) ScoredAnomaly {
	score := t.severityScore(rec.Severity)

	observedAt, parsed := parseTimestamp(rec.Timestamp)
	if parsed {
		age := now.Sub(observedAt)
		switch {
		case age < freshWindow:
			score += recencyBonusFresh
		case age < recentWindow:
			score += recencyBonusRecent
		}
	}
	// Unparseable timestamps earn no recency bonus: stale until proven fresh.

	if t.isCriticalSensor(rec.SensorType) {
		score += criticalityBonus
	}

	if rec.Deviation != nil {
		score += math.Min(math.Abs(*rec.Deviation)*deviationWeight, deviationBonusCap)
	}

	return ScoredAnomaly{
		AnomalyRecord: rec,
		PriorityScore: score,
		Priority:      tierForScore(score),
		observedAt:    observedAt,
	}
}

// tierForScore discretizes a priority score into a tier.
func tierForScore(score float64) Priority {
	switch {
	case score >= tierHighThreshold:
		return PriorityHigh
	case score >= tierMediumThreshold:
		return PriorityMedium
	default:
		return PriorityLow
	}
}

// scoreAll scores every record against the shared reference time and sorts
// the result by descending score. The sort is stable so records with equal
// scores keep their input order, which keeps clustering deterministic.
func (t *Tables) scoreAll(records []AnomalyRecord, now time.Time) []ScoredAnomaly {
	scored := make([]ScoredAnomaly, 0, len(records))
	for _, rec := range records {
		scored = append(scored, t.scoreAnomaly(rec, now))
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].PriorityScore > scored[j].PriorityScore
	})

	return scored
}
