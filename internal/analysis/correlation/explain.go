package correlation

// Relationship describes the physically expected association between two
// metrics in a controlled-environment deployment. Pairs are unordered;
// lookups normalize the key.
type Relationship struct {
	MetricA string `json:"metric_a" yaml:"metric_a"`
	MetricB string `json:"metric_b" yaml:"metric_b"`

	// ExpectedSign is the sign that matches the physics, DirectionNone
	// if no expectation.
	ExpectedSign Direction `json:"expected" yaml:"expected"`

	Text string `json:"text" yaml:"text"`
}

// Relationships is an expected-association table. Deployments with
// different physics (supplemental CO2, unlit propagation rooms) supply
// their own; a nil table is treated as DefaultRelationships.
type Relationships []Relationship

// DefaultRelationships returns the expected associations for a standard
// greenhouse deployment.
func DefaultRelationships() Relationships {
	return Relationships{
		{
			MetricA:      "temperature",
			MetricB:      "humidity",
			ExpectedSign: DirectionNegative,
			Text:         "Warmer air holds more moisture, so relative humidity normally falls as temperature rises.",
		},
		{
			MetricA:      "temperature",
			MetricB:      "vpd",
			ExpectedSign: DirectionPositive,
			Text:         "Vapor pressure deficit rises with temperature when absolute moisture stays constant.",
		},
		{
			MetricA:      "humidity",
			MetricB:      "vpd",
			ExpectedSign: DirectionNegative,
			Text:         "Vapor pressure deficit falls as relative humidity climbs.",
		},
		{
			MetricA:      "light_level",
			MetricB:      "temperature",
			ExpectedSign: DirectionPositive,
			Text:         "Lamps and sunlight add heat, so temperature normally tracks light level.",
		},
		{
			MetricA:      "soil_moisture",
			MetricB:      "humidity",
			ExpectedSign: DirectionPositive,
			Text:         "Evaporation from wet substrate raises air humidity.",
		},
		{
			MetricA:      "co2",
			MetricB:      "light_level",
			ExpectedSign: DirectionNegative,
			Text:         "Photosynthesis consumes CO2 while lights are on.",
		},
	}
}

const defaultExplanation = "No established physical relationship between these metrics in this deployment."

// lookup finds the expected association for an unordered pair.
func (rels Relationships) lookup(a, b string) (Relationship, bool) {
	for _, rel := range rels {
		if (rel.MetricA == a && rel.MetricB == b) || (rel.MetricA == b && rel.MetricB == a) {
			return rel, true
		}
	}
	return Relationship{}, false
}

// Explain produces a sentence describing an observed coefficient between
// two metrics: what the relationship looks like, what physics expects, and
// whether the observation matches. It never fails; unknown pairs get the
// generic explanation.
func (rels Relationships) Explain(a, b string, r float64) string {
	if rels == nil {
		rels = DefaultRelationships()
	}
	cls := Classify(r)

	rel, known := rels.lookup(a, b)
	if !known {
		return "Observed " + cls.Label + ". " + defaultExplanation
	}

	verdict := ""
	switch {
	case cls.Strength == StrengthWeak:
		// A weak coefficient supports no verdict either way.
		verdict = " The observed relationship is too weak to judge."
	case cls.Direction == rel.ExpectedSign:
		verdict = " The observed relationship matches expectations."
	default:
		verdict = " The observed relationship is unusual for these metrics and may indicate a control fault."
	}

	return "Observed " + cls.Label + ". " + rel.Text + verdict
}
