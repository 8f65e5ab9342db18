package types

import "time"

// Telemetry is a single device reading: feature name to numeric value.
// Keys outside the recognized feature set are carried through untouched
// but no model is required to consume them.
type Telemetry map[string]float64

// Features is the recognized feature set, in the order the API reports it.
var Features = []string{
	"Power_On_Hours",
	"Total_TBW_TB",
	"Total_TBR_TB",
	"Temperature_C",
	"Percent_Life_Used",
	"Media_Errors",
	"Unsafe_Shutdowns",
	"CRC_Errors",
	"Read_Error_Rate",
	"Write_Error_Rate",
}

// FeatureDefaults are the initial values the frontend seeds its form with.
var FeatureDefaults = map[string]float64{
	"Power_On_Hours":    1000,
	"Total_TBW_TB":      50.0,
	"Total_TBR_TB":      40.0,
	"Temperature_C":     35.0,
	"Percent_Life_Used": 5.0,
	"Media_Errors":      0,
	"Unsafe_Shutdowns":  0,
	"CRC_Errors":        0,
	"Read_Error_Rate":   0.5,
	"Write_Error_Rate":  0.3,
}

// Normalize returns a copy of t in which every recognized feature is
// present, defaulted to 0 when absent. Unrecognized keys are preserved.
func (t Telemetry) Normalize() Telemetry {
	out := make(Telemetry, len(Features)+len(t))
	for k, v := range t {
		out[k] = v
	}
	for _, f := range Features {
		if _, ok := out[f]; !ok {
			out[f] = 0
		}
	}
	return out
}

// Metadata accompanies every prediction response.
type Metadata struct {
	Timestamp        time.Time `json:"timestamp"`
	PredictorsLoaded bool      `json:"predictors_loaded"`
}
