package prediction

// DefaultTempThreshold is the static thermal threshold (°C) used when
// the device-specific threshold cannot be resolved.
const DefaultTempThreshold = 84

// fallbackTable is the fixed per-role substitute used when a role's model
// is absent or errors during a request. The exact numbers are part of the
// API contract and must not drift.
var fallbackTable = map[Role]RiskAssessment{
	RoleWearout: {
		RiskPercentage: 25,
		Contributions:  map[string]float64{"Power_On_Hours": 50, "Percent_Life_Used": 50},
		Status:         "Fallback",
	},
	RoleThermal: {
		RiskPercentage: 25,
		Contributions:  map[string]float64{"Temperature_C": 100},
		Status:         "Thermal fallback",
	},
	RolePower: {
		RiskPercentage: 20,
		Contributions:  map[string]float64{"Unsafe_Shutdowns": 100},
		Status:         "Fallback",
	},
	RoleController: {
		RiskPercentage: 20,
		Contributions:  map[string]float64{"Media_Errors": 50, "CRC_Errors": 50},
		Status:         "Fallback",
	},
}

// Fallback returns the fixed substitute assessment for a role. The copy
// is deep so callers can never alias the table's contribution maps.
func Fallback(role Role) RiskAssessment {
	entry := fallbackTable[role]
	contribs := make(map[string]float64, len(entry.Contributions))
	for k, v := range entry.Contributions {
		contribs[k] = v
	}
	entry.Contributions = contribs
	return entry
}

// GenericFallback is the process-wide degraded assessment, used for all
// four roles only when the predictor subsystem failed to initialize.
func GenericFallback() RiskAssessment {
	return RiskAssessment{
		RiskPercentage: 25,
		Contributions:  map[string]float64{"Fallback": 100},
		Status:         "Fallback Mode",
	}
}
