package analysis

import (
	"github.com/google/uuid"
)

// clusterNamespace seeds name-based cluster IDs. Identical input must yield
// identical reports, IDs included, so the ID is derived from the primary
// anomaly rather than drawn at random.
var clusterNamespace = uuid.MustParse("c4b3a2d1-7e6f-4a5b-9c8d-0e1f2a3b4c5d")

// clusterID derives a stable ID from the cluster's primary anomaly. The
// greedy pass guarantees at most one primary per physical sensor, so the
// primary's identity is unique within a report.
func clusterID(primary ScoredAnomaly) string {
	name := primary.SensorType + "|" + primary.SensorID + "|" + primary.Type + "|" + primary.Timestamp
	return uuid.NewSHA1(clusterNamespace, []byte(name)).String()
}

// buildClusters groups score-sorted anomalies into clusters with a greedy
// forward-only pass. Each unclaimed anomaly seeds a cluster and claims every
// later unclaimed anomaly related to it. Because iteration follows the score
// order, an anomaly can only attach to a cluster whose primary outranks it;
// it is never re-assigned to a cluster discovered later.
//
// The claimed bitset makes the pass pure with respect to its input: the
// slice is never reordered or mutated.
func (t *Tables) buildClusters(scored []ScoredAnomaly) []Cluster {
	clusters := make([]Cluster, 0, len(scored))
	claimed := make([]bool, len(scored))

	for i := range scored {
		if claimed[i] {
			continue
		}
		claimed[i] = true

		cluster := Cluster{
			ID:      clusterID(scored[i]),
			Primary: scored[i],
			Related: []ScoredAnomaly{},
		}

		for j := i + 1; j < len(scored); j++ {
			if claimed[j] {
				continue
			}
			if t.related(scored[i], scored[j]) {
				cluster.Related = append(cluster.Related, scored[j])
				claimed[j] = true
			}
		}

		clusters = append(clusters, cluster)
	}

	return clusters
}

// related decides whether two anomalies likely share a cause. True when
// they come from the same physical sensor, or when they are close in time
// and their sensor types are a known correlated pair. Records with
// unparseable timestamps never satisfy the temporal rule.
func (t *Tables) related(a, b ScoredAnomaly) bool {
	if a.SensorType == b.SensorType && a.SensorID == b.SensorID {
		return true
	}

	if a.observedAt.IsZero() || b.observedAt.IsZero() {
		return false
	}

	gap := a.observedAt.Sub(b.observedAt)
	if gap < 0 {
		gap = -gap
	}
	if gap > t.ClusterWindow {
		return false
	}

	return t.isCorrelatedPair(a.SensorType, b.SensorType)
}
