package prediction

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/drivesentinel/drive-sentinel/internal/types"
)

// Observer receives per-role assessment outcomes, typically for metrics.
type Observer interface {
	RecordAssessment(role string, fallback bool)
}

// Orchestrator produces exactly one RiskAssessment per role. A failure in
// any role - a missing model, a returned error, even a panic - is absorbed
// into that role's fallback and never affects the other three.
type Orchestrator struct {
	registry         *Registry
	resolver         ThresholdResolver
	observer         Observer
	thresholdTimeout time.Duration
}

// NewOrchestrator wires the orchestrator with its collaborators. resolver
// and observer may be nil; a nil or unloaded registry puts the whole
// subsystem into generic fallback mode.
func NewOrchestrator(registry *Registry, resolver ThresholdResolver, observer Observer) *Orchestrator {
	return &Orchestrator{
		registry:         registry,
		resolver:         resolver,
		observer:         observer,
		thresholdTimeout: 3 * time.Second,
	}
}

// PredictorsLoaded reports whether the real models initialized at startup.
func (o *Orchestrator) PredictorsLoaded() bool {
	return o.registry.Loaded()
}

// Assess evaluates all four roles against one normalized telemetry
// reading. The returned map always holds exactly four well-formed
// entries; it never returns an error.
func (o *Orchestrator) Assess(ctx context.Context, t types.Telemetry) map[Role]RiskAssessment {
	t = t.Normalize()

	results := make(map[Role]RiskAssessment, len(Roles))

	if !o.registry.Loaded() {
		for _, role := range Roles {
			results[role] = GenericFallback()
			o.observe(role, true)
		}
		return results
	}

	// Roles are pure functions of the shared read-only telemetry, so they
	// run concurrently; the map is only handed out once all four landed.
	var mu sync.Mutex
	var wg sync.WaitGroup
	for _, role := range Roles {
		wg.Add(1)
		go func(role Role) {
			defer wg.Done()
			assessment, err := o.assessRole(ctx, role, t)
			fellBack := err != nil
			if fellBack {
				slog.Warn("Risk model failed, using fallback", "role", role, "error", err)
				assessment = Fallback(role)
			}
			o.observe(role, fellBack)
			mu.Lock()
			results[role] = assessment
			mu.Unlock()
		}(role)
	}
	wg.Wait()

	return results
}

// assessRole evaluates one role, converting panics into errors so a
// crashing model degrades exactly like an erroring one.
func (o *Orchestrator) assessRole(ctx context.Context, role Role, t types.Telemetry) (assessment RiskAssessment, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("model panic: %v", r)
		}
	}()

	if role == RoleThermal {
		thermal := o.registry.Thermal()
		if thermal == nil {
			return RiskAssessment{}, fmt.Errorf("thermal model unavailable")
		}
		return thermal.PredictWithThreshold(t, o.resolveThreshold(ctx))
	}

	model := o.registry.Model(role)
	if model == nil {
		return RiskAssessment{}, fmt.Errorf("%s model unavailable", role)
	}
	return model.Predict(t)
}

// resolveThreshold asks the resolver for the device threshold under a
// bounded timeout. Any failure degrades silently to the static default;
// threshold resolution must never sink the thermal assessment.
func (o *Orchestrator) resolveThreshold(ctx context.Context) float64 {
	if o.resolver == nil {
		return DefaultTempThreshold
	}

	ctx, cancel := context.WithTimeout(ctx, o.thresholdTimeout)
	defer cancel()

	threshold, err := o.resolver.TempThreshold(ctx)
	if err != nil || threshold <= 0 {
		if err != nil {
			slog.Debug("Threshold resolution failed, using default", "error", err, "default", DefaultTempThreshold)
		}
		return DefaultTempThreshold
	}
	return threshold
}

func (o *Orchestrator) observe(role Role, fallback bool) {
	if o.observer != nil {
		o.observer.RecordAssessment(string(role), fallback)
	}
}
