package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hanbit-labs/postgate/pkg/breaker"
	"github.com/hanbit-labs/postgate/pkg/config"
	"github.com/hanbit-labs/postgate/pkg/executor"
	"github.com/hanbit-labs/postgate/pkg/orchestrator"
	"github.com/hanbit-labs/postgate/pkg/prompt"
	"github.com/hanbit-labs/postgate/pkg/provider"
	"github.com/hanbit-labs/postgate/pkg/qa"
	"github.com/hanbit-labs/postgate/pkg/request"
	"github.com/hanbit-labs/postgate/pkg/router"
)

var verboseFlag bool

func main() {
	// Local runs may keep keys in a .env next to the binary.
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:   "postgate",
		Short: "Multi-provider AI generation orchestrator for blog content",
		Long: `Postgate routes content requests to the best-fitting LLM provider,
falls back across providers on failure, and can run a closed-loop
quality pass that reviews and revises its own output.`,
	}

	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(generateCmd())
	rootCmd.AddCommand(providersCmd())
	rootCmd.AddCommand(validateCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func generateCmd() *cobra.Command {
	var topicFlag string
	var audienceFlag string
	var toneFlag string
	var providerFlag string
	var qaFlag bool
	var jsonFlag bool

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a blog post for a topic",
		Long: `Generates a blog post. The expert router picks the provider whose
profile best fits the topic, audience, and tone; failed providers are
skipped via the fallback chain.

Use --qa to run the quality pipeline: the draft is reviewed by the
same provider and approved, revised, or regenerated based on the
review verdict.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(topicFlag) == "" {
				return fmt.Errorf("--topic is required")
			}

			req := request.Context{Topic: topicFlag}

			var err error
			if req.Audience, err = request.ParseAudience(audienceFlag); err != nil {
				return err
			}
			if req.Tone, err = request.ParseTone(toneFlag); err != nil {
				return err
			}
			if providerFlag != "" {
				if req.Override, err = provider.Parse(providerFlag); err != nil {
					return err
				}
			}

			logger, err := buildLogger()
			if err != nil {
				return err
			}
			defer logger.Sync()

			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			adapters, err := createAdapters(cfg)
			if err != nil {
				return err
			}
			if len(adapters) == 0 {
				return fmt.Errorf("no provider API keys configured; run `postgate validate`")
			}

			b := breaker.New()
			orch := orchestrator.New(
				adapters,
				router.New(b),
				b,
				executor.New(executor.WithLogger(logger)),
				orchestrator.WithCooldown(cfg.Cooldown),
				orchestrator.WithLogger(logger),
			)

			ctx := context.Background()
			genPrompt := prompt.BuildPost(req)

			if qaFlag {
				result, err := qa.New(orch, logger).Run(ctx, req, genPrompt)
				if err != nil {
					return err
				}
				return printQAResult(result, jsonFlag)
			}

			result, err := orch.Generate(ctx, req, genPrompt)
			if err != nil {
				return err
			}
			return printResult(result, jsonFlag)
		},
	}

	cmd.Flags().StringVar(&topicFlag, "topic", "", "post topic (required)")
	cmd.Flags().StringVar(&audienceFlag, "audience", "general", "target audience (general, beginner, intermediate, expert, professional)")
	cmd.Flags().StringVar(&toneFlag, "tone", "friendly", "writing tone (friendly, professional, humorous, serious)")
	cmd.Flags().StringVar(&providerFlag, "provider", "", "pin a provider (anthropic, openai, google, deepseek)")
	cmd.Flags().BoolVar(&qaFlag, "qa", false, "run the quality review pipeline")
	cmd.Flags().BoolVar(&jsonFlag, "json", false, "emit the full result as JSON")

	return cmd
}

func printResult(result *orchestrator.Result, asJSON bool) error {
	if asJSON {
		return emitJSON(result)
	}

	fmt.Fprintf(os.Stderr, "Provider: %s (%s)\n", result.UsedProvider, result.Selection.Reasoning)
	for _, a := range result.Attempts {
		if a.Outcome == orchestrator.OutcomeFailure {
			fmt.Fprintf(os.Stderr, "Skipped %s: %s\n", a.Provider, a.Kind)
		}
	}
	fmt.Println(result.Content)
	return nil
}

func printQAResult(result *qa.Result, asJSON bool) error {
	if asJSON {
		return emitJSON(result)
	}

	fmt.Fprintf(os.Stderr, "Provider: %s\n", result.UsedProvider)
	for _, step := range result.Steps {
		fmt.Fprintf(os.Stderr, "Stage %s: %s\n", step.Stage, step.Detail)
	}
	fmt.Fprintf(os.Stderr, "Score: %.1f -> %.1f (%.0f%%)\n",
		result.Metrics.OriginalScore,
		result.Metrics.ImprovedScore,
		result.Metrics.ImprovementPercent)
	fmt.Println(result.FinalContent)
	return nil
}

func emitJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

func providersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "providers",
		Short: "List providers and their expert profiles",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "PROVIDER\tMODEL\tAUDIENCES\tSTRENGTHS\tTIMEOUT\tSTATUS")

			for _, desc := range provider.Descriptors() {
				status := "ready"
				if err := config.ValidateKey(desc.ID, cfg.Key(desc.ID)); err != nil {
					status = "no key"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
					desc.ID,
					desc.Model,
					strings.Join(desc.Audiences, ", "),
					strings.Join(desc.Strengths, ", "),
					desc.Timeout,
					status)
			}

			return w.Flush()
		},
	}
}

func validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check provider configuration and API key shapes",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			ready := 0
			for _, id := range provider.All() {
				if err := config.ValidateKey(id, cfg.Key(id)); err != nil {
					fmt.Printf("%-10s %v\n", id, err)
					continue
				}
				fmt.Printf("%-10s ok\n", id)
				ready++
			}

			if ready == 0 {
				return fmt.Errorf("no usable provider keys configured")
			}
			fmt.Printf("\n%d of %d providers configured.\n", ready, len(provider.All()))
			return nil
		},
	}
}

func createAdapters(cfg *config.Config) (map[provider.ID]provider.Adapter, error) {
	adapters := make(map[provider.ID]provider.Adapter)

	if cfg.HasProvider(provider.Anthropic) {
		a, err := provider.NewAnthropicAdapter(cfg.AnthropicAPIKey)
		if err != nil {
			return nil, err
		}
		adapters[provider.Anthropic] = a
	}
	if cfg.HasProvider(provider.OpenAI) {
		a, err := provider.NewOpenAIAdapter(cfg.OpenAIAPIKey)
		if err != nil {
			return nil, err
		}
		adapters[provider.OpenAI] = a
	}
	if cfg.HasProvider(provider.Google) {
		a, err := provider.NewGoogleAdapter(cfg.GoogleAPIKey)
		if err != nil {
			return nil, err
		}
		adapters[provider.Google] = a
	}
	if cfg.HasProvider(provider.DeepSeek) {
		a, err := provider.NewDeepSeekAdapter(cfg.DeepSeekAPIKey)
		if err != nil {
			return nil, err
		}
		adapters[provider.DeepSeek] = a
	}

	return adapters, nil
}

func buildLogger() (*zap.Logger, error) {
	if verboseFlag {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	return cfg.Build()
}
