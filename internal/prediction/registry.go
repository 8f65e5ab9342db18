package prediction

// Registry is the immutable process-wide set of risk models, constructed
// once at startup and injected into the orchestrator. A registry with any
// missing slot is considered not loaded: the whole subsystem degrades to
// the generic fallback, matching the startup failure policy.
type Registry struct {
	wearout    RiskModel
	thermal    ThresholdAwareRiskModel
	power      RiskModel
	controller RiskModel
}

// NewRegistry builds a registry from the four role slots.
func NewRegistry(wearout RiskModel, thermal ThresholdAwareRiskModel, power, controller RiskModel) *Registry {
	return &Registry{
		wearout:    wearout,
		thermal:    thermal,
		power:      power,
		controller: controller,
	}
}

// Loaded reports whether every role has a model. False means the process
// started without predictors and serves generic fallbacks forever; there
// is no re-initialization at run time.
func (r *Registry) Loaded() bool {
	if r == nil {
		return false
	}
	return r.wearout != nil && r.thermal != nil && r.power != nil && r.controller != nil
}

// Model returns the RiskModel bound to a role. The thermal slot is
// returned through its plain predict capability; the orchestrator uses
// Thermal() when it has a resolved threshold.
func (r *Registry) Model(role Role) RiskModel {
	if r == nil {
		return nil
	}
	switch role {
	case RoleWearout:
		return r.wearout
	case RoleThermal:
		return r.thermal
	case RolePower:
		return r.power
	case RoleController:
		return r.controller
	}
	return nil
}

// Thermal returns the threshold-aware thermal slot.
func (r *Registry) Thermal() ThresholdAwareRiskModel {
	if r == nil {
		return nil
	}
	return r.thermal
}
