package analysis

// recommend emits remediation suggestions for a cluster based on its
// primary anomaly. Type-specific rules come first, sensor-specific rules
// are appended after them, and the combined list is truncated to the
// configured cap, so sensor suggestions are the first to be dropped.
func (t *Tables) recommend(cluster Cluster) []Recommendation {
	primary := cluster.Primary

	recs := make([]Recommendation, 0, t.MaxRecommendations)
	recs = append(recs, t.TypeRecommendations[primary.Type]...)
	recs = append(recs, t.SensorRecommendations[primary.SensorType]...)

	if len(recs) > t.MaxRecommendations {
		recs = recs[:t.MaxRecommendations]
	}

	return recs
}
