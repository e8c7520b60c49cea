package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/RyanLisse/hgg-roborail-rag-sub002/pkg/agent"
	"github.com/RyanLisse/hgg-roborail-rag-sub002/pkg/classifier"
	"github.com/RyanLisse/hgg-roborail-rag-sub002/pkg/config"
	"github.com/RyanLisse/hgg-roborail-rag-sub002/pkg/orchestrator"
	"github.com/RyanLisse/hgg-roborail-rag-sub002/pkg/provider"
	"github.com/RyanLisse/hgg-roborail-rag-sub002/pkg/retrieval"
	"github.com/RyanLisse/hgg-roborail-rag-sub002/pkg/router"
	"github.com/RyanLisse/hgg-roborail-rag-sub002/pkg/schema"
)

var configFile string

func main() {
	rootCmd := &cobra.Command{
		Use:   "roborail",
		Short: "Document assistant with intent routing and retrieval",
		Long: `Roborail answers natural-language requests over technical documentation.
Each request is classified by intent and complexity, routed to the best
worker variant, and executed with retrieval context, retries and fallback.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "path to config file")

	rootCmd.AddCommand(askCmd())
	rootCmd.AddCommand(routeCmd())
	rootCmd.AddCommand(healthCmd())
	rootCmd.AddCommand(agentsCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func askCmd() *cobra.Command {
	var stream bool
	var model string
	var sources []string
	var contextFiles []string

	cmd := &cobra.Command{
		Use:   "ask [query]",
		Short: "Route a query and print the answer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := buildApp(contextFiles)
			if err != nil {
				return err
			}
			defer app.close()

			req := &schema.Request{
				Query:   args[0],
				Options: &schema.RequestOptions{Model: model, Stream: stream},
			}
			if len(sources) > 0 {
				req.Context = &schema.RequestContext{Sources: sources}
			}

			ctx := cmd.Context()
			if stream {
				return runStreaming(ctx, app.orchestrator, req)
			}

			resp, err := app.orchestrator.Process(ctx, req)
			if err != nil {
				return err
			}
			printResponse(resp)
			return nil
		},
	}

	cmd.Flags().BoolVar(&stream, "stream", false, "stream the answer as it is produced")
	cmd.Flags().StringVar(&model, "model", "", "override the generation model")
	cmd.Flags().StringSliceVar(&sources, "sources", nil, "restrict retrieval sources")
	cmd.Flags().StringSliceVar(&contextFiles, "context-file", nil, "files to index before answering")
	return cmd
}

func routeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "route [query]",
		Short: "Show the routing decision for a query without executing it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := buildApp(nil)
			if err != nil {
				return err
			}
			defer app.close()

			decision, err := app.router.Route(cmd.Context(), &schema.Request{Query: args[0]})
			if err != nil {
				return err
			}

			out, err := json.MarshalIndent(decision, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(out))
			return nil
		},
	}
}

func healthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Probe every worker and report availability",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := buildApp(nil)
			if err != nil {
				return err
			}
			defer app.close()

			report := app.orchestrator.DetailedHealthCheck(cmd.Context(), providerHealth(app.cfg))
			printHealth(report)
			if report.Status == orchestrator.StatusUnhealthy {
				return fmt.Errorf("no workers available")
			}
			return nil
		},
	}
}

func agentsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "agents",
		Short: "List worker variants and their capabilities",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := buildApp(nil)
			if err != nil {
				return err
			}
			defer app.close()

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "AGENT\tSTREAMING\tTOOLS\tMAX TOKENS\tTEMPERATURE")
			caps := app.orchestrator.Capabilities()
			for _, t := range agent.Types {
				c, ok := caps[t]
				if !ok {
					continue
				}
				fmt.Fprintf(w, "%s\t%v\t%v\t%d\t%.1f\n",
					t, c.SupportsStreaming, c.RequiresTools, c.DefaultMaxTokens, c.DefaultTemperature)
			}
			return w.Flush()
		},
	}
}

func runStreaming(ctx context.Context, o *orchestrator.Orchestrator, req *schema.Request) error {
	events, err := o.ProcessStream(ctx, req)
	if err != nil {
		return err
	}

	var final *schema.Response
	for ev := range events {
		switch {
		case ev.Err != nil:
			return ev.Err
		case ev.Response != nil:
			final = ev.Response
		default:
			fmt.Print(ev.Chunk)
		}
	}
	fmt.Println()

	if final != nil {
		printMetadata(final)
		if final.Failed() {
			return fmt.Errorf("%s: %s", final.Error.Code, final.Error.Message)
		}
	}
	return nil
}

func printResponse(resp *schema.Response) {
	fmt.Println(resp.Content)
	printMetadata(resp)
	if resp.Failed() {
		color.Red("error: %s (%s)", resp.Error.Message, resp.Error.Code)
	}
}

func printMetadata(resp *schema.Response) {
	dim := color.New(color.Faint)
	dim.Printf("\n[%s  confidence=%.2f  %s]\n",
		resp.Agent, resp.Metadata.Confidence, resp.Metadata.RoutingSummary)
	for _, s := range resp.Metadata.Sources {
		dim.Printf("  source %s (%.2f): %s\n", s.Source, s.Score, s.Snippet)
	}
}

func printHealth(report *orchestrator.HealthReport) {
	switch report.Status {
	case orchestrator.StatusHealthy:
		color.Green("status: %s", report.Status)
	case orchestrator.StatusDegraded:
		color.Yellow("status: %s", report.Status)
	default:
		color.Red("status: %s", report.Status)
	}

	for _, t := range agent.Types {
		h, ok := report.Agents[t]
		if !ok {
			continue
		}
		if h.Available {
			color.Green("  %-10s ok      %s", t, h.Latency.Round(time.Millisecond))
		} else {
			color.Red("  %-10s down    %s", t, h.Error)
		}
	}
	if report.Provider != nil {
		if report.Provider.Configured {
			color.Green("  %-10s ok", report.Provider.Name)
		} else {
			color.Red("  %-10s down    %s", report.Provider.Name, report.Provider.Error)
		}
	}
	fmt.Printf("mean latency: %s  success rate: %.0f%%\n",
		report.MeanLatency.Round(time.Millisecond), report.SuccessRate*100)
}

// providerHealth derives the upstream backend's health from static config.
func providerHealth(cfg *config.Config) orchestrator.ProviderHealth {
	ph := orchestrator.ProviderHealth{Name: cfg.Models.Provider, Configured: true}
	var missing string
	switch cfg.Models.Provider {
	case "anthropic":
		if !cfg.Providers.Anthropic.Configured() {
			missing = "ANTHROPIC_API_KEY is not set"
		}
	case "openai":
		if !cfg.Providers.OpenAI.Configured() {
			missing = "OPENAI_API_KEY is not set"
		}
	case "google":
		if !cfg.Providers.Google.Configured() {
			missing = "GEMINI_API_KEY is not set"
		}
	}
	if missing != "" {
		ph.Configured = false
		ph.Error = missing
	}
	return ph
}

// app bundles the wired components behind the CLI commands.
type app struct {
	orchestrator *orchestrator.Orchestrator
	router       *router.Router
	cfg          *config.Config
	logger       *zap.Logger
}

func (a *app) close() {
	_ = a.logger.Sync()
}

func buildApp(contextFiles []string) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	logger, err := cfg.BuildLogger()
	if err != nil {
		return nil, fmt.Errorf("building logger: %w", err)
	}

	prov, err := buildProvider(cfg)
	if err != nil {
		return nil, err
	}

	retriever, err := buildRetriever(contextFiles)
	if err != nil {
		return nil, err
	}

	clsOpts := []classifier.Option{classifier.WithLogger(logger)}
	if cfg.Classifier.KeywordFile != "" {
		table, err := classifier.LoadKeywordTable(cfg.Classifier.KeywordFile)
		if err != nil {
			return nil, fmt.Errorf("loading keyword table: %w", err)
		}
		clsOpts = append(clsOpts, classifier.WithKeywordTable(table))
	}
	cls := classifier.New(prov, cfg.Models.Classifier, clsOpts...)

	rt := router.New(cls, router.NewSourceResolver(retriever, logger), router.WithLogger(logger))
	registry := agent.NewRegistry(prov, retriever)

	orch := orchestrator.New(registry, rt,
		orchestrator.WithTimeout(cfg.Execution.Timeout),
		orchestrator.WithMaxRetries(cfg.Execution.MaxRetries),
		orchestrator.WithHealthTimeout(cfg.Execution.HealthTimeout),
		orchestrator.WithDefaultModel(cfg.Models.Default),
		orchestrator.WithLogger(logger),
	)

	return &app{orchestrator: orch, router: rt, cfg: cfg, logger: logger}, nil
}

func loadConfig() (*config.Config, error) {
	if configFile != "" {
		return config.LoadFromPath(configFile)
	}
	return config.Load()
}

func buildProvider(cfg *config.Config) (provider.Provider, error) {
	switch cfg.Models.Provider {
	case "anthropic":
		if !cfg.Providers.Anthropic.Configured() {
			return nil, fmt.Errorf("ANTHROPIC_API_KEY is not set")
		}
		return provider.NewAnthropicProvider(cfg.Providers.Anthropic.APIKey)
	case "openai":
		if !cfg.Providers.OpenAI.Configured() {
			return nil, fmt.Errorf("OPENAI_API_KEY is not set")
		}
		return provider.NewOpenAIProvider(cfg.Providers.OpenAI.APIKey)
	case "google":
		if !cfg.Providers.Google.Configured() {
			return nil, fmt.Errorf("GEMINI_API_KEY is not set")
		}
		return provider.NewGoogleProvider(cfg.Providers.Google.APIKey)
	case "mock":
		return provider.NewMockProvider(), nil
	default:
		return nil, fmt.Errorf("unknown provider %q", cfg.Models.Provider)
	}
}

func buildRetriever(contextFiles []string) (retrieval.Retriever, error) {
	index := retrieval.NewMemoryIndex()
	for _, path := range contextFiles {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading context file: %w", err)
		}
		index.Store(retrieval.Document{
			ID:      filepath.Base(path),
			Content: string(data),
			Source:  retrieval.SourceMemory,
		})
	}
	return index, nil
}
