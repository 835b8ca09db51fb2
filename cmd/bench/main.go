// Command bench measures workspace open and save costs on a generated
// document set, and how much the summary-only asset index defers.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/driftwork/drift"
)

func main() {
	count := flag.Int("count", 1000, "Number of documents to generate")
	assets := flag.Int("assets", 200, "Number of assets to generate")
	keep := flag.Bool("keep", false, "Keep the benchmark workspace after running")
	flag.Parse()

	benchDir, err := os.MkdirTemp("", "drift_bench_")
	if err != nil {
		panic(err)
	}
	defer func() {
		if !*keep {
			os.RemoveAll(benchDir)
		} else {
			fmt.Printf("Keeping bench dir: %s\n", benchDir)
		}
	}()

	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelWarn}))

	ws, err := drift.Open(ctx, benchDir,
		drift.WithLogger(logger),
		drift.WithAutoInit(true),
	)
	if err != nil {
		panic(err)
	}

	fmt.Printf("Generating %d documents and %d assets in %s...\n", *count, *assets, benchDir)
	startGen := time.Now()
	for i := 0; i < *count; i++ {
		doc := drift.Document{
			"id":    fmt.Sprintf("doc_%d", i),
			"title": fmt.Sprintf("Document %d", i),
			"tags":  []string{"benchmark"},
		}
		if err := ws.Documents.Add(doc); err != nil {
			panic(err)
		}
	}
	for i := 0; i < *assets; i++ {
		payload := drift.Document{"index": i, "blob": "payload data"}
		if _, err := ws.Assets.Add(payload, fmt.Sprintf("gen/asset_%d.yaml", i)); err != nil {
			panic(err)
		}
	}
	fmt.Printf("Staging took: %v\n", time.Since(startGen))

	startSave := time.Now()
	if err := ws.SaveAll(ctx); err != nil {
		panic(err)
	}
	fmt.Printf("Save took: %v\n", time.Since(startSave))

	// Reopen cold: documents load eagerly, assets only as summaries.
	startOpen := time.Now()
	ws2, err := drift.Open(ctx, benchDir, drift.WithMustExist(true), drift.WithLogger(logger))
	if err != nil {
		panic(err)
	}
	fmt.Printf("Cold open: %v (documents: %d, asset summaries: %d, payloads loaded: %d)\n",
		time.Since(startOpen), ws2.Documents.Len(), len(ws2.Assets.Summaries()), len(ws2.Assets.LoadedAssets()))

	// Touch every asset to measure the deferred cost.
	startLoad := time.Now()
	for _, s := range ws2.Assets.Summaries() {
		if _, err := ws2.Assets.Get(ctx, s.ID); err != nil {
			panic(err)
		}
	}
	fmt.Printf("Loading %d payloads: %v\n", len(ws2.Assets.LoadedAssets()), time.Since(startLoad))
}
