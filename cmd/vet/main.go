// Command vet screens a character profile from the command line, without a
// running server. Useful for one-off checks and for piping exported
// profiles through the engine in scripts.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/skarkon/crowsnest/internal/analysis"
	"github.com/skarkon/crowsnest/internal/evaluators"
	"github.com/skarkon/crowsnest/internal/logging"
	"github.com/skarkon/crowsnest/internal/rules"
	"github.com/skarkon/crowsnest/internal/scoring"
	"github.com/skarkon/crowsnest/internal/watchlist"
)

var (
	watchlistPath  string
	targetTimezone string
	modelPath      string
	asJSON         bool
	logLevel       string
)

func main() {
	root := &cobra.Command{
		Use:   "vet",
		Short: "Screen character profiles for recruitment risk",
	}

	analyze := &cobra.Command{
		Use:   "analyze <profile.json>",
		Short: "Run a full risk analysis on a profile file",
		Args:  cobra.ExactArgs(1),
		RunE:  runAnalyze,
	}
	analyze.Flags().StringVar(&watchlistPath, "watchlist", "", "YAML watchlist of hostile entities (defaults built in)")
	analyze.Flags().StringVar(&targetTimezone, "timezone", "", "corp primary timezone: EU, US, or AU")
	analyze.Flags().StringVar(&modelPath, "model", "", "trained model weights file")
	analyze.Flags().BoolVar(&asJSON, "json", false, "print the full verdict as JSON")
	analyze.Flags().StringVar(&logLevel, "log-level", "warn", "log level")
	root.AddCommand(analyze)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	logger := logging.New(logLevel, "text")

	raw, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read profile: %w", err)
	}
	var profile analysis.Profile
	if err := json.Unmarshal(raw, &profile); err != nil {
		return fmt.Errorf("parse profile: %w", err)
	}

	var watch *watchlist.List
	if watchlistPath != "" {
		watch, err = watchlist.Load(watchlistPath)
		if err != nil {
			return fmt.Errorf("load watchlist: %w", err)
		}
	} else {
		watch = watchlist.Default()
	}

	scorer, err := scoring.LoadLogistic(modelPath)
	if err != nil {
		return fmt.Errorf("load model: %w", err)
	}

	registry := analysis.NewRegistry()
	registry.Register(evaluators.NewCorpHistory(watch))
	registry.Register(evaluators.NewCombat(watch))
	registry.Register(evaluators.NewFinance())
	registry.Register(evaluators.NewActivity(targetTimezone))
	registry.Register(evaluators.NewAssets(watch))
	registry.Register(evaluators.NewStandings(watch))
	registry.Register(evaluators.NewSocial(watch))
	registry.Register(evaluators.NewModelScore(scorer))
	registry.Register(evaluators.NewCustom(rules.NewMemoryStore(), logger))

	engine := analysis.NewEngine(registry).WithLogger(logger)

	verdict, err := engine.Evaluate(context.Background(), &profile, "cli")
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	if asJSON {
		out, err := json.MarshalIndent(verdict, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	}

	printVerdict(verdict)
	return nil
}

func printVerdict(v *analysis.Verdict) {
	fmt.Printf("%s (%d)\n", v.CharacterName, v.CharacterID)
	fmt.Printf("Risk: %s (confidence %.2f)\n", strings.ToUpper(string(v.OverallRisk)), v.Confidence)
	fmt.Printf("Flags: %d red, %d yellow, %d green\n\n", v.RedCount, v.YellowCount, v.GreenCount)

	for _, f := range v.Flags {
		fmt.Printf("[%s] %s: %s\n", strings.ToUpper(string(f.Severity)), f.Code, f.Reason)
	}
	if len(v.Recommendations) > 0 {
		fmt.Println("\nRecommendations:")
		for _, r := range v.Recommendations {
			fmt.Printf("- %s\n", r)
		}
	}
	if len(v.Errors) > 0 {
		fmt.Println("\nEvaluator errors (partial result):")
		for _, e := range v.Errors {
			fmt.Printf("- %s\n", e)
		}
	}
}
