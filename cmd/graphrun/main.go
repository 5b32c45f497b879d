// Command graphrun executes a declarative pipeline file.
//
// It loads the pipeline, assembles the dependency graph, exports the
// batch, optionally archives it to SQLite, and runs each step as a
// shell command, honoring the declared ordering. Independent steps run
// concurrently.
//
// Usage:
//
//	graphrun -pipeline release.yaml
//	graphrun -pipeline release.yaml -db runs.db -workers 8
//	graphrun -pipeline release.yaml -watch -metrics :9090
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	osexec "os/exec"
	"os/signal"
	"sort"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/example/taskgraph/internal/config"
	"github.com/example/taskgraph/internal/sched"
	"github.com/example/taskgraph/internal/storage"
	"github.com/example/taskgraph/internal/storage/sqlite"
	"github.com/example/taskgraph/pkg/graph"
	"github.com/example/taskgraph/pkg/id"
)

func main() {
	var (
		pipelinePath = flag.String("pipeline", "", "path to the pipeline YAML file (required)")
		dbPath       = flag.String("db", "", "SQLite archive for exported batches (empty disables archiving)")
		workers      = flag.Int("workers", 4, "maximum number of steps running at once")
		metricsAddr  = flag.String("metrics", "", "address to serve Prometheus metrics on (empty disables)")
		watch        = flag.Bool("watch", false, "re-run the pipeline whenever the file changes")
		dryRun       = flag.Bool("dry-run", false, "print the exported batch without executing")
	)
	flag.Parse()

	if *pipelinePath == "" {
		fmt.Fprintln(os.Stderr, "graphrun: -pipeline is required")
		flag.Usage()
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var archive *sqlite.Store
	if *dbPath != "" {
		store, err := sqlite.New(*dbPath)
		if err != nil {
			log.Fatalf("graphrun: open archive %s: %v", *dbPath, err)
		}
		defer store.Close()
		if err := store.Migrate(ctx); err != nil {
			log.Fatalf("graphrun: migrate archive: %v", err)
		}
		archive = store
	}

	if *metricsAddr != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.Handler())
			log.Printf("graphrun: serving metrics on %s", *metricsAddr)
			if err := http.ListenAndServe(*metricsAddr, mux); err != nil {
				log.Printf("graphrun: metrics server: %v", err)
			}
		}()
	}

	r := &runner{
		archive: archive,
		sched:   sched.New(runStep, *workers),
		dryRun:  *dryRun,
	}

	if !*watch {
		p, err := config.Load(*pipelinePath)
		if err != nil {
			log.Fatalf("graphrun: %v", err)
		}
		if err := r.run(ctx, p); err != nil {
			log.Fatalf("graphrun: %v", err)
		}
		return
	}

	loader, err := config.NewLoader(*pipelinePath)
	if err != nil {
		log.Fatalf("graphrun: %v", err)
	}
	pipelines := make(chan *config.Pipeline, 1)
	loader.OnChange(func(p *config.Pipeline) {
		select {
		case pipelines <- p:
		default:
			log.Printf("graphrun: run in progress, dropping reload")
		}
	})
	stopWatch, err := loader.Watch()
	if err != nil {
		log.Fatalf("graphrun: %v", err)
	}
	defer stopWatch()

	if err := r.run(ctx, loader.Pipeline()); err != nil {
		log.Printf("graphrun: %v", err)
	}
	for {
		select {
		case <-ctx.Done():
			return
		case p := <-pipelines:
			if err := r.run(ctx, p); err != nil {
				log.Printf("graphrun: %v", err)
			}
		}
	}
}

type runner struct {
	archive *sqlite.Store
	sched   *sched.Scheduler[config.Step]
	dryRun  bool
}

func (r *runner) run(ctx context.Context, p *config.Pipeline) error {
	batch := config.Build(p).Export()
	runID := id.NewRunShort()
	log.Printf("graphrun: run %s: pipeline %q, %d steps", runID, p.Name, len(batch))

	if r.dryRun {
		printBatch(batch)
		return nil
	}

	if r.archive != nil {
		rec := storage.Record(runID, batch, func(s config.Step) string { return s.ID })
		if err := r.archive.Save(ctx, rec); err != nil {
			return fmt.Errorf("archive run %s: %w", runID, err)
		}
	}

	execErr := r.sched.Execute(ctx, batch)

	if r.archive != nil {
		msg := ""
		if execErr != nil {
			msg = execErr.Error()
		}
		if err := r.archive.MarkExecuted(ctx, runID, msg); err != nil {
			log.Printf("graphrun: mark run %s executed: %v", runID, err)
		}
	}
	return execErr
}

// printBatch renders the exported batch in creation order.
func printBatch(batch graph.Batch[config.Step]) {
	sorted := make(graph.Batch[config.Step], len(batch))
	copy(sorted, batch)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Label.Seq < sorted[j].Label.Seq })
	for _, e := range sorted {
		fmt.Printf("%s  %-20s after=%v\n", e.Label, e.Task.ID, e.After)
	}
}

// runStep executes one pipeline step as a shell command.
func runStep(ctx context.Context, nodeID graph.NodeID, step config.Step) error {
	log.Printf("graphrun: %s: starting step %s", nodeID, step.ID)
	cmd := osexec.CommandContext(ctx, "/bin/sh", "-c", step.Run)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("step %s: %w", step.ID, err)
	}
	return nil
}
