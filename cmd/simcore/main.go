package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/cuemby/goapsim/pkg/log"
	"github.com/cuemby/goapsim/pkg/metrics"
	"github.com/cuemby/goapsim/pkg/persistence"
	"github.com/cuemby/goapsim/pkg/types"
)

var (
	// Version information (set via ldflags during build).
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "simcore",
	Short: "simcore - GOAP simulation core demo harness",
	Long: `simcore drives the concurrent GOAP simulation core in-process: a
world store, a reservation service, one actor host per villager, the
domain tick driver, and the resource-gathering systems (fishing, crop,
animal, mining, foraging) plus inventory, currency, shop, relationship,
skill, and quest.

This binary is ambient demo tooling around the core, not part of its
contract.`,
	Version: Version,
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"simcore version %s\nCommit: %s\nBuilt: %s\n",
		Version, Commit, BuildTime,
	))

	rootCmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().Bool("log-json", false, "Output logs in JSON format")

	cobra.OnInitialize(initLogging)

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(snapshotCmd)
}

func initLogging() {
	logLevel, _ := rootCmd.PersistentFlags().GetString("log-level")
	logJSON, _ := rootCmd.PersistentFlags().GetBool("log-json")

	log.Init(log.Config{
		Level:      log.Level(logLevel),
		JSONOutput: logJSON,
	})
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the simulation core until interrupted",
	RunE: func(cmd *cobra.Command, args []string) error {
		actors, _ := cmd.Flags().GetInt("actors")
		seed, _ := cmd.Flags().GetInt64("seed")
		logDir, _ := cmd.Flags().GetString("log-dir")
		metricsAddr, _ := cmd.Flags().GetString("metrics-addr")
		duration, _ := cmd.Flags().GetDuration("duration")
		snapshotOut, _ := cmd.Flags().GetString("save-on-exit")

		actorIds := make([]types.EntityId, actors)
		for i := range actorIds {
			actorIds[i] = types.EntityId(fmt.Sprintf("villager-%d", i+1))
		}

		core, err := buildSimcore(actorIds, seed, logDir)
		if err != nil {
			return err
		}

		metrics.SetVersion(Version)
		metrics.RegisterComponent("worldtick", true, "running")

		mux := http.NewServeMux()
		mux.Handle("/metrics", metrics.Handler())
		mux.Handle("/health", metrics.HealthHandler())
		mux.Handle("/ready", metrics.ReadyHandler())
		mux.Handle("/live", metrics.LivenessHandler())
		metricsServer := &http.Server{Addr: metricsAddr, Handler: mux}
		go func() {
			if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				fmt.Fprintf(os.Stderr, "metrics server error: %v\n", err)
			}
		}()

		fmt.Println("Starting simcore...")
		fmt.Printf("  Actors: %d\n", actors)
		fmt.Printf("  World log: %s\n", logDir)
		fmt.Printf("  Metrics: http://%s/metrics\n", metricsAddr)
		core.Start()
		fmt.Println("✓ Simulation core running")

		stop := make(chan os.Signal, 1)
		signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

		if duration > 0 {
			select {
			case <-stop:
			case <-time.After(duration):
				fmt.Println("Run duration elapsed")
			}
		} else {
			<-stop
		}

		fmt.Println("Stopping simcore...")
		core.Stop()
		_ = metricsServer.Close()

		if snapshotOut != "" {
			if err := saveSnapshot(core, snapshotOut); err != nil {
				return fmt.Errorf("save-on-exit: %w", err)
			}
			fmt.Printf("✓ Snapshot written to %s\n", snapshotOut)
		}

		fmt.Println("✓ Simulation core stopped")
		return nil
	},
}

func init() {
	runCmd.Flags().Int("actors", 3, "Number of villager actors to spawn")
	runCmd.Flags().Int64("seed", 1, "RNG seed for every domain system and actor")
	runCmd.Flags().String("log-dir", "./simcore-logs", "Directory for the append-only world log")
	runCmd.Flags().String("metrics-addr", "127.0.0.1:9090", "Metrics/health HTTP listen address")
	runCmd.Flags().Duration("duration", 0, "Stop automatically after this long (0 = run until interrupted)")
	runCmd.Flags().String("save-on-exit", "", "Write a snapshot archive to this path before exiting")
}

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Save or load a simulation core snapshot archive",
}

var snapshotSaveCmd = &cobra.Command{
	Use:   "save <path>",
	Short: "Build a fresh demo world and immediately save it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		seed, _ := cmd.Flags().GetInt64("seed")
		actors, _ := cmd.Flags().GetInt("actors")
		logDir, _ := cmd.Flags().GetString("log-dir")

		actorIds := make([]types.EntityId, actors)
		for i := range actorIds {
			actorIds[i] = types.EntityId(fmt.Sprintf("villager-%d", i+1))
		}

		core, err := buildSimcore(actorIds, seed, logDir)
		if err != nil {
			return err
		}
		defer core.worldLog.Close()

		if err := saveSnapshot(core, args[0]); err != nil {
			return err
		}
		fmt.Printf("✓ Snapshot written to %s\n", args[0])
		return nil
	},
}

var snapshotLoadCmd = &cobra.Command{
	Use:   "load <path>",
	Short: "Load a snapshot archive into a fresh demo world and print its manifest",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		seed, _ := cmd.Flags().GetInt64("seed")
		actors, _ := cmd.Flags().GetInt("actors")
		logDir, _ := cmd.Flags().GetString("log-dir")

		actorIds := make([]types.EntityId, actors)
		for i := range actorIds {
			actorIds[i] = types.EntityId(fmt.Sprintf("villager-%d", i+1))
		}

		core, err := buildSimcore(actorIds, seed, logDir)
		if err != nil {
			return err
		}
		defer core.worldLog.Close()

		manifest, err := loadSnapshot(core, args[0])
		if err != nil {
			return err
		}
		fmt.Printf("✓ Loaded snapshot (version %d, tick %d, saved %s)\n", manifest.Version, manifest.Tick, manifest.SavedAtUtc)
		for name := range manifest.Chunks {
			fmt.Printf("  chunk: %s\n", name)
		}
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{snapshotSaveCmd, snapshotLoadCmd} {
		c.Flags().Int64("seed", 1, "RNG seed for every domain system and actor")
		c.Flags().Int("actors", 3, "Number of villager actors in the scratch world")
		c.Flags().String("log-dir", "./simcore-logs", "Directory for the append-only world log")
	}
	snapshotCmd.AddCommand(snapshotSaveCmd)
	snapshotCmd.AddCommand(snapshotLoadCmd)
}

// saveSnapshot captures every collaborator's state into one ZIP archive,
// matching the chunk roster persistence.Load expects on the way back in.
func saveSnapshot(core *simcore, path string) error {
	return persistence.Save(path, core.world.Snapshot().Version(), time.Now().UTC().Format(time.RFC3339), snapshotChunks(core))
}

func loadSnapshot(core *simcore, path string) (persistence.Manifest, error) {
	return persistence.Load(path, snapshotChunks(core))
}

func snapshotChunks(core *simcore) []persistence.Chunk {
	return []persistence.Chunk{
		{
			Name: "world",
			Save: func() any { return core.world.CaptureState() },
			Load: jsonLoader(core.world.ApplyState),
		},
		{
			Name: "reservations",
			Save: func() any { return core.reservations.CaptureState() },
			Load: func(data []byte) error {
				var tokens []types.ReservationToken
				if err := json.Unmarshal(data, &tokens); err != nil {
					return err
				}
				core.reservations.ApplyState(tokens)
				return nil
			},
		},
		{Name: "inventory", Save: func() any { return core.inventory.CaptureState() }, Load: stateLoader(core.inventory.ApplyState)},
		{Name: "currency", Save: func() any { return core.currency.CaptureState() }, Load: stateLoader(core.currency.ApplyState)},
		{Name: "shop", Save: func() any { return core.shop.CaptureState() }, Load: stateLoader(core.shop.ApplyState)},
		{Name: "relationship", Save: func() any { return core.relationship.CaptureState() }, Load: stateLoader(core.relationship.ApplyState)},
		{Name: "skill", Save: func() any { return core.skill.CaptureState() }, Load: stateLoader(core.skill.ApplyState)},
		{Name: "quest", Save: func() any { return core.quest.CaptureState() }, Load: stateLoader(core.quest.ApplyState)},
		{Name: "weather", Save: func() any { return core.weather.CaptureState() }, Load: stateLoader(core.weather.ApplyState)},
		{Name: "fishing", Save: func() any { return core.fishing.CaptureState() }, Load: stateLoader(core.fishing.ApplyState)},
		{Name: "crop", Save: func() any { return core.crop.CaptureState() }, Load: stateLoader(core.crop.ApplyState)},
		{Name: "animal", Save: func() any { return core.animal.CaptureState() }, Load: stateLoader(core.animal.ApplyState)},
		{Name: "mining", Save: func() any { return core.mining.CaptureState() }, Load: stateLoader(core.mining.ApplyState)},
		{Name: "foraging", Save: func() any { return core.foraging.CaptureState() }, Load: stateLoader(core.foraging.ApplyState)},
	}
}

// stateLoader adapts a CaptureState/ApplyState pair (Save returns T,
// ApplyState takes T) into the persistence.Chunk Load contract.
func stateLoader[T any](apply func(T)) func([]byte) error {
	return func(data []byte) error {
		var state T
		if err := json.Unmarshal(data, &state); err != nil {
			return err
		}
		apply(state)
		return nil
	}
}

// jsonLoader adapts an ApplyState that returns an error (WorldStore is
// the only such collaborator: grid-size mismatch is a load-time error).
func jsonLoader[T any](apply func(T) error) func([]byte) error {
	return func(data []byte) error {
		var state T
		if err := json.Unmarshal(data, &state); err != nil {
			return err
		}
		return apply(state)
	}
}
