/*
Package metrics provides Prometheus metrics collection and exposition for
the simulation core.

The metrics package defines and registers all simulation metrics using the
Prometheus client library, providing observability into world store commit
throughput, reservation contention, actor loop health, domain tick timing,
and persistence latency. Metrics are exposed via an HTTP endpoint for
scraping by Prometheus servers, for hosting processes that choose to run
one; the core itself has no network surface.

# Architecture

	┌──────────────────── METRICS SYSTEM ──────────────────────┐
	│                                                            │
	│  ┌────────────────────────────────────────────┐          │
	│  │          Prometheus Registry                │          │
	│  │  - Global DefaultRegistry                   │          │
	│  │  - MustRegister at package init             │          │
	│  └──────────────────┬─────────────────────────┘          │
	│                     │                                      │
	│  ┌──────────────────▼─────────────────────────┐          │
	│  │              Metric Types                   │          │
	│  │                                              │          │
	│  │  Gauge: Instant values (world version)      │          │
	│  │  Counter: Monotonic increases (commits)     │          │
	│  │  Histogram: Distributions (tick latency)    │          │
	│  └──────────────────┬─────────────────────────┘          │
	│                     │                                      │
	│  ┌──────────────────▼─────────────────────────┐          │
	│  │           Metric Categories                 │          │
	│  │                                              │          │
	│  │  World store: version, entities, commits    │          │
	│  │  Reservations: acquires, pre-emptions       │          │
	│  │  Actor hosts: loop state, plan/step counts  │          │
	│  │  Domain tick: per-subsystem duration        │          │
	│  │  Persistence: save/load duration            │          │
	│  └──────────────────┬─────────────────────────┘          │
	│                     │                                      │
	│  ┌──────────────────▼─────────────────────────┐          │
	│  │          HTTP Metrics Endpoint              │          │
	│  │  - Path: /metrics (caller-mounted)          │          │
	│  │  - Format: Prometheus text exposition       │          │
	│  │  - Handler: promhttp.Handler()              │          │
	│  └────────────────────────────────────────────┘           │
	└────────────────────────────────────────────────────────┘

# Core Components

Metric Registry:
  - Global Prometheus DefaultRegistry
  - All metrics registered at package init
  - Thread-safe for concurrent updates

Gauge Metrics:
  - Instant value that can go up or down
  - Examples: world version, entities total, reservations held
  - Operations: Set, Inc, Dec, Add, Sub

Counter Metrics:
  - Monotonically increasing value
  - Examples: commits total, reservation acquires total
  - Operations: Inc, Add (cannot decrease)

Histogram Metrics:
  - Distribution of observed values
  - Buckets for latency percentiles (p50, p95, p99)
  - Examples: actor loop iteration duration, domain tick duration

Timer Helper:
  - Convenience wrapper for timing operations
  - Start timer, observe duration to histogram
  - Supports label values for histogram vectors

# Metrics Catalog

World Store Metrics:

goapsim_world_version:
  - Type: Gauge
  - Description: Current global world store version

goapsim_entities_total:
  - Type: Gauge
  - Description: Total number of spawned entities currently in the world

goapsim_commits_total{result}:
  - Type: Counter
  - Description: Total TryCommit calls by result ("committed", "conflict")

goapsim_shard_touches_total:
  - Type: Counter
  - Description: Total per-shard gate acquisitions across all commits

goapsim_auto_consume_despawns_total:
  - Type: Counter
  - Description: Total entities despawned by the auto-consume sweep

Reservation Metrics:

goapsim_reservation_acquires_total{outcome}:
  - Type: Counter
  - Description: Total tryAcquireAll calls by outcome ("granted", "denied")

goapsim_reservation_preemptions_total:
  - Type: Counter
  - Description: Total soft-mode reservation pre-emptions

goapsim_reservations_held:
  - Type: Gauge
  - Description: Current number of outstanding reservation tokens

Actor Host Metrics:

goapsim_actors_active:
  - Type: Gauge
  - Description: Number of actor hosts currently running

goapsim_actor_loop_state_total{state}:
  - Type: Counter
  - Description: Total actor loop iterations landing in each diagnostic state

goapsim_actor_loop_iteration_duration_seconds:
  - Type: Histogram
  - Description: Wall-clock time of one actor loop iteration

goapsim_plans_computed_total:
  - Type: Counter
  - Description: Total plans returned by the planner, including empty plans

goapsim_step_executions_total{activity, progress}:
  - Type: Counter
  - Description: Total executed steps by activity name and progress result

Effect Dispatch Metrics:

goapsim_effect_dispatch_ops_total{domain}:
  - Type: Counter
  - Description: Total post-commit domain operations dispatched, by domain

Domain Tick Metrics:

goapsim_domain_tick_duration_seconds{domain}:
  - Type: Histogram
  - Description: Time taken by one domain system's tick call

goapsim_domain_tick_errors_total{domain}:
  - Type: Counter
  - Description: Total domain tick calls that returned an error

goapsim_world_tick_cycles_total:
  - Type: Counter
  - Description: Total domain tick cycles completed

goapsim_world_tick_cycle_duration_seconds:
  - Type: Histogram
  - Description: Time for a full domain tick cycle across all subsystems

Persistence Metrics:

goapsim_persistence_save_duration_seconds:
  - Type: Histogram
  - Description: Time taken to write a persistence archive

goapsim_persistence_load_duration_seconds:
  - Type: Histogram
  - Description: Time taken to read a persistence archive

# Usage

Updating Gauge Metrics:

	import "github.com/cuemby/goapsim/pkg/metrics"

	metrics.EntitiesTotal.Set(float64(len(snap.AllThings())))
	metrics.ActorsActive.Inc()
	metrics.ActorsActive.Dec()

Updating Counter Metrics:

	metrics.CommitsTotal.WithLabelValues("committed").Inc()
	metrics.StepExecutionsTotal.WithLabelValues("chop_wood", "completed").Inc()

Recording Histogram Observations:

	timer := metrics.NewTimer()
	result := world.TryCommit(batch)
	timer.ObserveDurationVec(metrics.DomainTickDuration, "inventory")

Complete Example:

	package main

	import (
		"net/http"
		"github.com/cuemby/goapsim/pkg/metrics"
	)

	func main() {
		metrics.WorldVersion.Set(0)

		timer := metrics.NewTimer()
		runOneTick()
		timer.ObserveDuration(metrics.WorldTickCycleDuration)

		http.Handle("/metrics", metrics.Handler())
		http.ListenAndServe(":9090", nil)
	}

# Integration Points

This package integrates with:

  - pkg/worldtick: Updates domain tick duration, tick error, and cycle
    metrics inline
  - Collector (this package): Samples world version and entity count from
    pkg/worldstore, reservations held from pkg/reservation, and actor host
    health from pkg/actorhost
  - The remaining catalog entries (commits, shard touches, auto-consume
    despawns, reservation acquires and pre-emptions, actor loop and step
    metrics, effect dispatch, persistence durations) are registered but
    not updated by any package in this module
  - Prometheus: Scrapes /metrics endpoint when mounted by the host process

# Design Patterns

Package Init Registration:
  - All metrics registered in init() function
  - MustRegister panics on duplicate registration

Label Discipline:
  - Use WithLabelValues for cardinality-bounded labels
  - Never label by entity id, actor id, or timestamp
  - Keep label count low (< 5 per metric)

Timer Pattern:
  - Create timer at operation start
  - Explicitly call ObserveDuration / ObserveDurationVec
  - Supports both simple and vector histograms

# Performance Characteristics

Metric Update Overhead:
  - Gauge set/inc: ~50ns per operation
  - Counter inc: ~50ns per operation
  - Histogram observe: ~200ns per operation
  - Negligible next to a commit's lock acquisition

Cardinality Management:
  - Low cardinality: result, outcome, state, domain (< 20 values)
  - Avoid: entity ids, actor ids, timestamps (unbounded)

# See Also

  - Prometheus documentation: https://prometheus.io/docs/
  - Prometheus client library: https://github.com/prometheus/client_golang
*/
package metrics
