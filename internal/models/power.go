package models

// PowerModel scores power-integrity risk, dominated by unsafe shutdowns
// with the raw error rates as secondary evidence.
type PowerModel struct {
	weightedModel
}

func NewPowerModel() *PowerModel {
	return &PowerModel{weightedModel{
		name: "power",
		factors: []factorDef{
			{feature: "Unsafe_Shutdowns", weight: 0.60, baseline: 50},
			{feature: "Write_Error_Rate", weight: 0.20, baseline: 100},
			{feature: "Read_Error_Rate", weight: 0.20, baseline: 100},
		},
	}}
}
