package skill

import "github.com/prometheus/client_golang/prometheus"

// Rejection reasons for EffectsRejected.
const (
	RejectInvalidContext = "invalid_context"
	RejectInvalidEffect  = "invalid_effect"
	RejectInvalidTarget  = "invalid_target"
	RejectStackLevel     = "stack_level"
)

// EffectsApplied counts successful effect applications by mode.
// Use RegisterMetrics to register this with a Prometheus registry.
var EffectsApplied = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "statforge_skill_effects_applied_total",
		Help: "Total number of skill effects applied",
	},
	[]string{"mode"},
)

// EffectsRemoved counts effect removals by mode.
var EffectsRemoved = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "statforge_skill_effects_removed_total",
		Help: "Total number of skill effects removed",
	},
	[]string{"mode"},
)

// EffectExecutions counts base-value executions by mode.
var EffectExecutions = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "statforge_skill_effect_executions_total",
		Help: "Total number of skill effect executions",
	},
	[]string{"mode"},
)

// EffectsRejected counts failed applications by reason.
var EffectsRejected = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "statforge_skill_effects_rejected_total",
		Help: "Total number of rejected skill effect applications",
	},
	[]string{"reason"},
)

// EffectsActive tracks live effects across all systems.
var EffectsActive = prometheus.NewGauge(
	prometheus.GaugeOpts{
		Name: "statforge_skill_effects_active",
		Help: "Number of currently active skill effects",
	},
)

// RegisterMetrics registers skill metrics with reg.
// Panics if registration fails (following prometheus convention).
func RegisterMetrics(reg prometheus.Registerer) {
	reg.MustRegister(EffectsApplied)
	reg.MustRegister(EffectsRemoved)
	reg.MustRegister(EffectExecutions)
	reg.MustRegister(EffectsRejected)
	reg.MustRegister(EffectsActive)
}
