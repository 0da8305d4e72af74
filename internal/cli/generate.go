package cli

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"pydocgen/internal/analyzer"
	"pydocgen/internal/cache"
	"pydocgen/internal/config"
	"pydocgen/internal/explain"
	"pydocgen/internal/report"
	"pydocgen/internal/watcher"
)

var (
	outputFlag      string
	quietFlag       bool
	watchFlag       bool
	concurrencyFlag int
	noCacheFlag     bool
	modelFlag       string
)

// generateCmd represents the generate command
var generateCmd = &cobra.Command{
	Use:   "generate <file.py>",
	Short: "Analyze a Python script and write an explained PDF",
	Long: `Generate parses a Python source file, breaks it into imports, classes,
functions, and loose top-level statements, asks the configured chat model to
explain each segment, and writes the result as a PDF.

A script that fails to parse still produces a document; its sections are
simply empty.

Examples:
  # Document a script (writes script_detailed_summary.pdf)
  pydocgen generate script.py

  # Pick the output path and silence progress bars
  pydocgen generate script.py -o docs/script.pdf --quiet

  # Regenerate on every save
  pydocgen generate script.py --watch

  # Four explanation requests in flight at a time
  pydocgen generate script.py --concurrency 4
`,
	Args: cobra.ExactArgs(1),
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)
	generateCmd.Flags().StringVarP(&outputFlag, "output", "o", "", "Output PDF path (default: derived from the input name)")
	generateCmd.Flags().BoolVarP(&quietFlag, "quiet", "q", false, "Disable progress bars and non-error output")
	generateCmd.Flags().BoolVarP(&watchFlag, "watch", "w", false, "Watch the input file and regenerate on change")
	generateCmd.Flags().IntVarP(&concurrencyFlag, "concurrency", "c", 1, "Simultaneous explanation requests")
	generateCmd.Flags().BoolVar(&noCacheFlag, "no-cache", false, "Bypass the explanation cache")
	generateCmd.Flags().StringVar(&modelFlag, "model", "", "Override the configured chat model")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	scriptPath := args[0]

	// Set up context with cancellation for Ctrl+C
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Println("\nInterrupted! Cancelling...")
		cancel()
	}()

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if modelFlag != "" {
		cfg.Explainer.Model = modelFlag
	}

	// The collaborator client is the one thing that must exist before any
	// file I/O: a missing credential aborts the run here.
	client, err := explain.NewClient(explain.Options{
		BaseURL:        cfg.Explainer.BaseURL,
		Model:          cfg.Explainer.Model,
		APIKeyEnv:      cfg.Explainer.APIKeyEnv,
		MaxTokens:      cfg.Explainer.MaxTokens,
		TimeoutSeconds: cfg.Explainer.TimeoutSeconds,
	})
	if err != nil {
		return fmt.Errorf("failed to create explanation client: %w", err)
	}

	var explCache explain.Cache
	if cfg.Cache.Enabled && !noCacheFlag {
		location := cfg.Cache.Location
		if location == "" {
			location = cache.DefaultPath()
		}
		store, err := cache.Open(location)
		if err != nil {
			// Cache trouble degrades to uncached operation.
			log.Printf("Warning: explanation cache unavailable: %v", err)
		} else {
			defer store.Close()
			explCache = store.ForModel(client.Model())
		}
	}

	requester := explain.NewRequester(client, explain.RequesterOptions{
		Cache:       explCache,
		Progress:    NewCLIProgressReporter(quietFlag),
		Concurrency: concurrencyFlag,
	})
	anlz := analyzer.New(requester)

	outputPath := outputFlag
	if outputPath == "" {
		outputPath = outputPathFor(scriptPath, cfg.Output.Suffix)
	}

	if err := generateDocument(ctx, anlz, scriptPath, outputPath); err != nil {
		return err
	}

	if !watchFlag {
		return nil
	}

	// Watch mode: regenerate on every settled change until interrupted.
	fw, err := watcher.New(scriptPath)
	if err != nil {
		return fmt.Errorf("failed to watch %s: %w", scriptPath, err)
	}
	defer fw.Stop()

	if !quietFlag {
		log.Printf("Watching %s for changes...", scriptPath)
	}
	if err := fw.Start(ctx, func() {
		if err := generateDocument(ctx, anlz, scriptPath, outputPath); err != nil {
			log.Printf("Regeneration failed: %v", err)
		}
	}); err != nil {
		return fmt.Errorf("watch mode failed: %w", err)
	}

	<-ctx.Done()
	return nil
}

// generateDocument runs the pipeline once: analyze, render, log the result.
func generateDocument(ctx context.Context, anlz *analyzer.Analyzer, scriptPath, outputPath string) error {
	analysis, err := anlz.Analyze(ctx, scriptPath)
	if err != nil {
		return err
	}

	scriptName := filepath.Base(scriptPath)
	if err := report.WritePDF(analysis, scriptName, outputPath); err != nil {
		return err
	}

	log.Printf("Detailed documentation saved as %s", outputPath)
	return nil
}

// outputPathFor derives the output file name by replacing the input's
// extension with the configured suffix. The document lands in the working
// directory, not next to the input.
func outputPathFor(scriptPath, suffix string) string {
	base := filepath.Base(scriptPath)
	return strings.TrimSuffix(base, filepath.Ext(base)) + suffix
}
