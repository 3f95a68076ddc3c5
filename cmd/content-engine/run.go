// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/content-engine/internal/critique"
	"github.com/pdiddy/content-engine/internal/curate"
	"github.com/pdiddy/content-engine/internal/generate"
	"github.com/pdiddy/content-engine/internal/pipeline"
	"github.com/pdiddy/content-engine/internal/publish"
	"github.com/pdiddy/content-engine/internal/research"
	"github.com/pdiddy/content-engine/internal/revise"
	"github.com/pdiddy/content-engine/internal/store"
	"github.com/pdiddy/content-engine/internal/websearch"
	"github.com/pdiddy/content-engine/internal/write"
	"github.com/pdiddy/content-engine/pkg/types"
)

var runCmd = &cobra.Command{
	Use:   "run [topic]",
	Short: "Run the full pipeline on a topic",
	Long: `Run takes a topic through research, curation, drafting, critique,
revision, and publication, producing a markdown article with YAML
frontmatter in the output directory.

The run is fail-fast: the first stage error aborts with no partial
output. Every stage execution is recorded in the run history database.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runPipeline,
}

func runPipeline(cmd *cobra.Command, args []string) error {
	topic := strings.Join(args, " ")
	cfg := pipelineConfig(cmd)

	generator, err := generate.NewClaudeBackend(cfg.AI, nil)
	if err != nil {
		return err
	}
	searcher, err := websearch.NewBraveBackend(cfg.Search, nil)
	if err != nil {
		return err
	}

	stages := []pipeline.Stage{
		research.New(generator, searcher, cfg.Search.MaxResults, os.Stderr),
		curate.New(generator, os.Stderr),
		write.New(generator),
		critique.New(generator),
		revise.New(generator),
		publish.New(publish.NewFileSink(cfg.Publish.OutputDir)),
	}

	tracers := pipeline.MultiTracer{pipeline.LogTracer{W: os.Stderr}}

	noHistory, _ := cmd.Flags().GetBool("no-history")
	if !noHistory {
		history, err := store.NewStore(cfg.Store)
		if err != nil {
			return err
		}
		defer history.Close()
		tracers = append(tracers, history.Tracer())
	}

	runner := pipeline.NewRunner(stages, tracers, os.Stderr)

	out, err := runner.Run(context.Background(), topic)
	if err != nil {
		return err
	}

	published, ok := out.(types.PublishedRecord)
	if !ok {
		return fmt.Errorf("unexpected final record %T", out)
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(published)
	}

	fmt.Printf("published %q\n", published.Title)
	fmt.Printf("  %s (%d words, %d min read)\n", published.Location, published.WordCount, published.ReadingTime)
	return nil
}

// pipelineConfig assembles the run configuration: flags win over config
// file values, API keys fall back to .secrets/.
func pipelineConfig(cmd *cobra.Command) types.PipelineConfig {
	model, _ := cmd.Flags().GetString("model")
	if model == "" {
		model = viper.GetString("ai.model")
	}
	if model == "" {
		model = "claude-sonnet-4-5"
	}
	maxTokens, _ := cmd.Flags().GetInt("max-tokens")
	if maxTokens == 0 {
		maxTokens = viper.GetInt("ai.max_tokens")
	}
	searchResults, _ := cmd.Flags().GetInt("search-results")
	if searchResults == 0 {
		searchResults = viper.GetInt("search.max_results")
	}
	if searchResults == 0 {
		searchResults = 8
	}
	outputDir, _ := cmd.Flags().GetString("output-dir")
	if outputDir == "" {
		outputDir = viper.GetString("publish.output_dir")
	}
	if outputDir == "" {
		outputDir = "output/articles"
	}
	historyDir, _ := cmd.Flags().GetString("history-dir")
	if historyDir == "" {
		historyDir = viper.GetString("store.dir")
	}
	if historyDir == "" {
		historyDir = "output/history"
	}

	return types.PipelineConfig{
		AI: types.AIConfig{
			Model:      model,
			APIKey:     secretDefault("anthropic-api-key", viper.GetString("ai.api_key")),
			MaxTokens:  maxTokens,
			MaxRetries: viper.GetInt("ai.max_retries"),
		},
		Search: types.SearchConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:   30 * time.Second,
				UserAgent: "content-engine/" + version,
			},
			APIKey:     secretDefault("brave-api-key", viper.GetString("search.api_key")),
			MaxResults: searchResults,
			MaxRetries: viper.GetInt("search.max_retries"),
		},
		Publish: types.PublishConfig{OutputDir: outputDir},
		Store:   types.StoreConfig{Dir: historyDir},
	}
}

func init() {
	runCmd.Flags().String("model", "", "AI model identifier for generation (default claude-sonnet-4-5)")
	runCmd.Flags().Int("max-tokens", 0, "maximum tokens per generation call (0 = default)")
	runCmd.Flags().Int("search-results", 0, "web search results to request (0 = default 8)")
	runCmd.Flags().String("output-dir", "", "directory for published articles (default output/articles)")
	runCmd.Flags().String("history-dir", "", "directory for the run history database (default output/history)")
	runCmd.Flags().Bool("no-history", false, "skip recording the run in the history database")
	runCmd.Flags().Bool("json", false, "print the published record as JSON")

	rootCmd.AddCommand(runCmd)
}
