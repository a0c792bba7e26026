// Command agentsim runs a scripted social simulation over a persona roster:
// agents interact round by round, their emotions evolve, relations shift, and
// the final state is reported and persisted.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/Sean220557/agentsim/internal/config"
	"github.com/Sean220557/agentsim/internal/emotion"
	"github.com/Sean220557/agentsim/internal/importer"
	"github.com/Sean220557/agentsim/internal/llm"
	"github.com/Sean220557/agentsim/internal/manager"
	"github.com/Sean220557/agentsim/internal/notify"
	"github.com/Sean220557/agentsim/internal/relation"
	"github.com/Sean220557/agentsim/internal/storage"
	"github.com/Sean220557/agentsim/internal/storage/postgres"
	"github.com/Sean220557/agentsim/internal/storage/sqlite"
	"github.com/Sean220557/agentsim/pkg/types"
)

var (
	personaPath = flag.String("personas", "personas.yaml", "Path to the persona bootstrap file")
	rounds      = flag.Int("rounds", 20, "Number of interaction rounds to simulate")
	seed        = flag.Int64("seed", 0, "Random seed (0 uses the current time)")
	resume      = flag.Bool("resume", false, "Resume from the stored snapshot instead of starting fresh")
	watch       = flag.Bool("watch", false, "Keep running and reload personas when the file changes")
	reportAgent = flag.String("report", "", "Print reports for one agent only (default: all)")
)

// eventTypes is the pool the scripted loop draws from. Positive events
// dominate slightly so a default run trends toward a connected roster.
var eventTypes = []types.InteractionType{
	types.InteractionCooperation,
	types.InteractionConversation,
	types.InteractionHelp,
	types.InteractionPraise,
	types.InteractionSupport,
	types.InteractionAlliance,
	types.InteractionCompetition,
	types.InteractionConflict,
	types.InteractionCriticism,
	types.InteractionIgnore,
}

func main() {
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	store, closeStore, err := openStore(cfg)
	if err != nil {
		log.Fatalf("Failed to open snapshot store: %v", err)
	}
	defer closeStore()

	personas, err := importer.LoadPersonas(*personaPath)
	if err != nil {
		log.Fatalf("Failed to load personas: %v", err)
	}

	gen := newGenerator(cfg)
	m := manager.NewManager(manager.Config{HistoryCap: cfg.Simulation.HistoryCap})

	ctx := context.Background()
	if *resume {
		switch err := m.LoadSnapshot(ctx, store); {
		case errors.Is(err, storage.ErrNoSnapshot):
			log.Printf("No snapshot found, starting fresh")
		case err != nil:
			log.Fatalf("Failed to load snapshot: %v", err)
		default:
			log.Printf("Resumed %d agents from snapshot", len(m.Graph().Agents()))
		}
	}
	seedRoster(m, gen, personas)

	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(rngSeed))
	log.Printf("Simulating %d rounds over %d agents (seed %d)", *rounds, len(personas), rngSeed)

	runRounds(ctx, m, gen, personas, rng, *rounds)

	method, err := relation.ParseNormalizeMethod(cfg.Simulation.NormalizeMethod)
	if err != nil {
		log.Printf("Warning: %v, using minmax", err)
		method = relation.NormalizeMinMax
	}
	if err := m.NormalizeAllRelations(method); err != nil {
		log.Printf("Warning: normalize: %v", err)
	}
	m.ApplyTimeDecay(time.Now(), cfg.Simulation.DecayRate)

	printResults(m, personas)

	if err := m.SaveSnapshot(ctx, store); err != nil {
		log.Fatalf("Failed to save snapshot: %v", err)
	}
	log.Printf("Snapshot saved")

	if *watch {
		runWatch(ctx, m, gen, store)
	}
}

// openStore builds the snapshot store selected by the configuration and
// returns it with its cleanup function.
func openStore(cfg *config.Config) (storage.SnapshotStore, func(), error) {
	switch cfg.Storage.Engine {
	case "json":
		store := storage.NewJSONFileStore(filepath.Join(cfg.Storage.DataPath, "snapshot.json"))
		return store, func() {}, nil
	case "sqlite":
		if err := os.MkdirAll(cfg.Storage.DataPath, 0o755); err != nil {
			return nil, nil, err
		}
		store, err := sqlite.Open(filepath.Join(cfg.Storage.DataPath, "agentsim.db"))
		if err != nil {
			return nil, nil, err
		}
		return store, func() { _ = store.Close() }, nil
	case "postgres":
		store, err := postgres.Open(cfg.Storage.PostgresDSN)
		if err != nil {
			return nil, nil, err
		}
		return store, func() { _ = store.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage engine %q", cfg.Storage.Engine)
	}
}

// newGenerator wires the emotion generator, with the LLM synthesizer behind
// it when enabled. Keyword appraisal covers synthesizer failures either way.
func newGenerator(cfg *config.Config) *emotion.Generator {
	if !cfg.Synthesizer.Enabled {
		return emotion.NewGenerator(nil)
	}

	client := llm.NewClient(llm.Config{
		BaseURL:           cfg.Synthesizer.BaseURL,
		Model:             cfg.Synthesizer.Model,
		Timeout:           cfg.Synthesizer.Timeout,
		RequestsPerSecond: cfg.Synthesizer.RequestsPerSecond,
	})
	if err := client.HealthCheck(context.Background()); err != nil {
		log.Printf("Synthesizer unreachable, continuing with keyword appraisal: %v", err)
	}
	return emotion.NewGenerator(client)
}

// seedRoster registers personas and records each one's declared starting mood.
func seedRoster(m *manager.Manager, gen *emotion.Generator, personas []types.Persona) {
	m.InitializeFromPersonas(personas)
	for _, p := range personas {
		if p.Mood == "" {
			continue
		}
		mood := gen.ParseMood(p.Mood)
		if err := m.RecordEmotion(p.ID, mood); err != nil {
			log.Printf("Warning: seed mood for %q: %v", p.ID, err)
		}
	}
}

// runRounds drives the scripted interaction loop: each round a random pair
// interacts, both participants' emotions evolve from the event, and the
// relation pair updates under emotional modulation.
func runRounds(ctx context.Context, m *manager.Manager, gen *emotion.Generator, personas []types.Persona, rng *rand.Rand, rounds int) {
	if len(personas) < 2 {
		log.Printf("Need at least two personas to simulate interactions")
		return
	}

	for round := 0; round < rounds; round++ {
		i := rng.Intn(len(personas))
		j := rng.Intn(len(personas) - 1)
		if j >= i {
			j++
		}
		from, to := personas[i], personas[j]

		event := eventTypes[rng.Intn(len(eventTypes))]
		scene := fmt.Sprintf("%s between %s and %s", event, from.ID, to.ID)

		fromMood := nextMood(ctx, m, gen, from, scene)
		toMood := nextMood(ctx, m, gen, to, scene)

		if err := m.ProcessInteractionEvent(from.ID, to.ID, event, &fromMood, &toMood, scene); err != nil {
			log.Printf("Warning: round %d: %v", round, err)
		}
	}
}

// nextMood evolves the persona's latest recorded emotion toward the scene, or
// appraises the scene from scratch for an agent with no history yet.
func nextMood(ctx context.Context, m *manager.Manager, gen *emotion.Generator, p types.Persona, scene string) types.EmotionProfile {
	history := m.EmotionHistory(p.ID)
	if len(history) == 0 {
		return gen.GenerateFromContext(ctx, scene, p.Personality())
	}
	return gen.EvolveEmotion(history[len(history)-1], scene, p.Personality())
}

func printResults(m *manager.Manager, personas []types.Persona) {
	fmt.Println(m.Graph().RenderMatrix())

	for _, p := range personas {
		if *reportAgent != "" && p.ID != *reportAgent {
			continue
		}
		report, err := m.GenerateRelationReport(p.ID)
		if err != nil {
			log.Printf("Warning: report for %q: %v", p.ID, err)
			continue
		}
		fmt.Println(report)
		fmt.Println(emotion.GenerateEmotionReport(m.EmotionHistory(p.ID), p.ID))
	}
}

// runWatch keeps the process alive and re-seeds the roster whenever the
// persona file changes, until interrupted.
func runWatch(ctx context.Context, m *manager.Manager, gen *emotion.Generator, store storage.SnapshotStore) {
	watcher := notify.NewPersonaWatcher(*personaPath, func(path string) {
		personas, err := importer.LoadPersonas(path)
		if err != nil {
			log.Printf("Ignoring persona change: %v", err)
			return
		}
		seedRoster(m, gen, personas)
		log.Printf("Personas reloaded: %d agents", len(personas))
	})
	if err := watcher.Start(); err != nil {
		log.Fatalf("Failed to start persona watcher: %v", err)
	}
	defer watcher.Stop()

	log.Println("Watching for persona changes, press Ctrl+C to stop")
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	if err := m.SaveSnapshot(ctx, store); err != nil {
		log.Printf("Warning: final snapshot: %v", err)
	}
	log.Println("Simulation stopped")
}
