package analysis

// Anomaly types with dedicated fallback causes when no signature matches.
const (
	anomalyTypeThresholdBreach = "threshold_breach"
	anomalyTypeOffline         = "offline"
)

// genericRootCause is reported when nothing more specific can be inferred.
const genericRootCause = "Unusual sensor behavior detected"

// inferRootCause derives a best-guess cause for a cluster from its primary
// anomaly. The signature table maps "<sensor_type>_<anomaly_type>" to
// candidate causes ordered by likelihood; the first candidate wins. Unknown
// signatures fall back to per-type templates and finally to a generic
// string, so inference never fails.
func (t *Tables) inferRootCause(cluster Cluster) string {
	primary := cluster.Primary

	key := primary.SensorType + "_" + primary.Type
	if candidates, ok := t.RootCauseSignatures[key]; ok && len(candidates) > 0 {
		return candidates[0]
	}

	label := t.SensorLabel(primary.SensorType)
	switch primary.Type {
	case anomalyTypeThresholdBreach:
		return label + " exceeded configured limits"
	case anomalyTypeOffline:
		return label + " sensor connection lost"
	default:
		return genericRootCause
	}
}
