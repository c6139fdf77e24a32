package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// World store metrics
	WorldVersion = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "goapsim_world_version",
			Help: "Current global world store version",
		},
	)

	EntitiesTotal = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "goapsim_entities_total",
			Help: "Total number of spawned entities currently in the world",
		},
	)

	CommitsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "goapsim_commits_total",
			Help: "Total number of TryCommit calls by result",
		},
		[]string{"result"},
	)

	ShardTouchesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "goapsim_shard_touches_total",
			Help: "Total number of per-shard gate acquisitions across all commits",
		},
	)

	AutoConsumeDespawnsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "goapsim_auto_consume_despawns_total",
			Help: "Total number of entities despawned by the auto-consume sweep",
		},
	)

	// Reservation metrics
	ReservationAcquiresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "goapsim_reservation_acquires_total",
			Help: "Total number of tryAcquireAll calls by outcome",
		},
		[]string{"outcome"},
	)

	ReservationPreemptionsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "goapsim_reservation_preemptions_total",
			Help: "Total number of soft-mode reservation pre-emptions",
		},
	)

	ReservationsHeld = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "goapsim_reservations_held",
			Help: "Current number of outstanding reservation tokens",
		},
	)

	// Actor host metrics
	ActorsActive = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "goapsim_actors_active",
			Help: "Number of actor hosts currently running",
		},
	)

	ActorLoopStateTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "goapsim_actor_loop_state_total",
			Help: "Total number of actor loop iterations landing in each diagnostic state",
		},
		[]string{"state"},
	)

	ActorLoopIterationDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "goapsim_actor_loop_iteration_duration_seconds",
			Help:    "Wall-clock time of one actor loop iteration",
			Buckets: prometheus.DefBuckets,
		},
	)

	PlansComputedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "goapsim_plans_computed_total",
			Help: "Total number of plans returned by the planner, including empty plans",
		},
	)

	StepExecutionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "goapsim_step_executions_total",
			Help: "Total number of executed steps by activity name and progress result",
		},
		[]string{"activity", "progress"},
	)

	// Post-commit effect dispatch metrics
	EffectDispatchOpsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "goapsim_effect_dispatch_ops_total",
			Help: "Total number of post-commit domain operations dispatched, by domain",
		},
		[]string{"domain"},
	)

	// Domain tick metrics
	DomainTickDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "goapsim_domain_tick_duration_seconds",
			Help:    "Time taken by one domain system's tick call",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"domain"},
	)

	DomainTickErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "goapsim_domain_tick_errors_total",
			Help: "Total number of domain tick calls that returned an error",
		},
		[]string{"domain"},
	)

	WorldTickCyclesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "goapsim_world_tick_cycles_total",
			Help: "Total number of domain tick cycles completed",
		},
	)

	WorldTickCycleDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "goapsim_world_tick_cycle_duration_seconds",
			Help:    "Time taken for a full domain tick cycle across all subsystems",
			Buckets: prometheus.DefBuckets,
		},
	)

	// Persistence metrics
	PersistenceSaveDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "goapsim_persistence_save_duration_seconds",
			Help:    "Time taken to write a persistence archive",
			Buckets: prometheus.DefBuckets,
		},
	)

	PersistenceLoadDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "goapsim_persistence_load_duration_seconds",
			Help:    "Time taken to read a persistence archive",
			Buckets: prometheus.DefBuckets,
		},
	)
)

func init() {
	// Register world store metrics
	prometheus.MustRegister(WorldVersion)
	prometheus.MustRegister(EntitiesTotal)
	prometheus.MustRegister(CommitsTotal)
	prometheus.MustRegister(ShardTouchesTotal)
	prometheus.MustRegister(AutoConsumeDespawnsTotal)

	// Register reservation metrics
	prometheus.MustRegister(ReservationAcquiresTotal)
	prometheus.MustRegister(ReservationPreemptionsTotal)
	prometheus.MustRegister(ReservationsHeld)

	// Register actor host metrics
	prometheus.MustRegister(ActorsActive)
	prometheus.MustRegister(ActorLoopStateTotal)
	prometheus.MustRegister(ActorLoopIterationDuration)
	prometheus.MustRegister(PlansComputedTotal)
	prometheus.MustRegister(StepExecutionsTotal)

	// Register effect dispatch metrics
	prometheus.MustRegister(EffectDispatchOpsTotal)

	// Register domain tick metrics
	prometheus.MustRegister(DomainTickDuration)
	prometheus.MustRegister(DomainTickErrorsTotal)
	prometheus.MustRegister(WorldTickCyclesTotal)
	prometheus.MustRegister(WorldTickCycleDuration)

	// Register persistence metrics
	prometheus.MustRegister(PersistenceSaveDuration)
	prometheus.MustRegister(PersistenceLoadDuration)
}

// Handler returns the Prometheus HTTP handler for scraping. The simulation
// core itself has no network surface; a hosting process wires this in if
// it wants one.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Timer is a helper for timing operations.
type Timer struct {
	start time.Time
}

// NewTimer creates a new timer.
func NewTimer() *Timer {
	return &Timer{start: time.Now()}
}

// ObserveDuration records the duration to a histogram.
func (t *Timer) ObserveDuration(histogram prometheus.Histogram) {
	duration := time.Since(t.start).Seconds()
	histogram.Observe(duration)
}

// ObserveDurationVec records the duration to a histogram vec with labels.
func (t *Timer) ObserveDurationVec(histogram prometheus.ObserverVec, labels ...string) {
	duration := time.Since(t.start).Seconds()
	histogram.WithLabelValues(labels...).Observe(duration)
}

// Duration returns the elapsed time since the timer started.
func (t *Timer) Duration() time.Duration {
	return time.Since(t.start)
}
