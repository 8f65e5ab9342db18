package prediction

// Summary is the single consolidated verdict over all four roles.
type Summary struct {
	Status         string             `json:"status"`
	OverallRisk    float64            `json:"overall_risk"`
	Predictions    map[string]float64 `json:"predictions"`
	Recommendation []string           `json:"recommendation"`
	HighestRisk    string             `json:"highest_risk"`
	RiskPercentage float64            `json:"risk_percentage"`
}

const (
	StatusHealthy  = "Healthy"
	StatusWarning  = "Warning"
	StatusCritical = "Critical"
)

var (
	criticalRecommendations = []string{
		"Immediate backup recommended",
		"Consider drive replacement",
		"Monitor system closely",
	}
	warningRecommendations = []string{
		"Backup data soon",
		"Monitor drive health regularly",
		"Consider preventive maintenance",
	}
	healthyRecommendations = []string{
		"Drive health is good",
		"Continue regular monitoring",
		"No immediate action required",
	}
)

// Reduce folds the four per-role assessments into one Summary. It is a
// pure function: identical inputs always yield an identical summary.
// Ties on the maximum risk resolve to the first role in the canonical
// order (Wear-Out, Thermal, Power, Controller).
func Reduce(assessments map[Role]RiskAssessment) Summary {
	predictions := make(map[string]float64, len(Roles))

	highest := Roles[0]
	highestRisk := assessments[Roles[0]].RiskPercentage
	for _, role := range Roles {
		risk := assessments[role].RiskPercentage
		predictions[role.Label()] = risk
		if risk > highestRisk {
			highest = role
			highestRisk = risk
		}
	}

	var status string
	var recommendation []string
	switch {
	case highestRisk >= 70:
		status = StatusCritical
		recommendation = criticalRecommendations
	case highestRisk >= 50:
		status = StatusWarning
		recommendation = warningRecommendations
	default:
		status = StatusHealthy
		recommendation = healthyRecommendations
	}

	// Copy the band's recommendation list so callers can't mutate it.
	recs := make([]string, len(recommendation))
	copy(recs, recommendation)

	return Summary{
		Status:         status,
		OverallRisk:    highestRisk,
		Predictions:    predictions,
		Recommendation: recs,
		HighestRisk:    highest.Label(),
		RiskPercentage: highestRisk,
	}
}
