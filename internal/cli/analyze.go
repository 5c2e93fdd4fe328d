package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/lacuna/internal/analysis"
)

var analyzeTimeout time.Duration

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze ingested papers for themes, contradictions, and gaps",
	Long: `Analyze runs the full analysis pipeline over every ingested paper:
- Cluster claims into research themes
- Map relationships between themes
- Detect contradictions between claims from different papers
- Identify knowledge gaps in the research landscape

Results are persisted after each stage, so a failed run keeps the
stages that completed.

Example:
  lacuna analyze
  lacuna analyze --llm-provider openai --llm-model gpt-4o-mini
  lacuna analyze questions`,
	RunE: runAnalyze,
}

// questionsCmd generates research questions for the latest analysis
var questionsCmd = &cobra.Command{
	Use:   "questions",
	Short: "Generate research questions from the latest analysis",
	Long: `Generate 1-3 concrete research questions for every knowledge gap
found by the latest completed analysis. Questions are persisted onto
that analysis.`,
	RunE: runQuestions,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	analyzeCmd.AddCommand(questionsCmd)

	analyzeCmd.PersistentFlags().DurationVar(&analyzeTimeout, "timeout", 30*time.Minute, "total analysis timeout")
	analyzeCmd.PersistentFlags().StringVar(&llmProvider, "llm-provider", "", "LLM provider (openai, anthropic, ollama)")
	analyzeCmd.PersistentFlags().StringVar(&llmModel, "llm-model", "", "LLM model name")
	analyzeCmd.PersistentFlags().BoolVar(&noCache, "no-cache", false, "disable completion cache")
}

func newAnalyzer() (*analysis.Analyzer, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	ex, err := newExtractor(cfg)
	if err != nil {
		return nil, err
	}

	st, err := openStore(cfg)
	if err != nil {
		return nil, err
	}

	return analysis.NewAnalyzer(st, ex, cfg), nil
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), analyzeTimeout)
	defer cancel()

	analyzer, err := newAnalyzer()
	if err != nil {
		return err
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Running analysis...\n\n")
	}

	result, err := analyzer.Run(ctx)
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	fmt.Fprintf(os.Stderr, "✓ Analysis %s complete\n\n", result.ID)
	fmt.Fprintf(os.Stderr, "  Papers:         %d\n", len(result.PaperIDs))
	fmt.Fprintf(os.Stderr, "  Themes:         %d\n", len(result.Themes))
	fmt.Fprintf(os.Stderr, "  Relationships:  %d\n", len(result.Relationships))
	fmt.Fprintf(os.Stderr, "  Contradictions: %d\n", len(result.Contradictions))
	fmt.Fprintf(os.Stderr, "  Gaps:           %d\n", len(result.Gaps))
	fmt.Fprintf(os.Stderr, "\nRun 'lacuna analyze questions' to generate research questions.\n")

	return nil
}

func runQuestions(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), analyzeTimeout)
	defer cancel()

	analyzer, err := newAnalyzer()
	if err != nil {
		return err
	}

	questions, err := analyzer.GenerateQuestions(ctx)
	if err != nil {
		return fmt.Errorf("generate questions: %w", err)
	}

	if len(questions) == 0 {
		fmt.Fprintf(os.Stderr, "No gaps in the latest analysis: nothing to ask.\n")
		return nil
	}

	fmt.Fprintf(os.Stderr, "✓ Generated %d research questions\n\n", len(questions))
	for _, q := range questions {
		fmt.Printf("[%.2f] %s\n", q.PriorityScore, q.Question)
		fmt.Printf("       %s\n", q.Rationale)
		if q.SuggestedMethodology != "" {
			fmt.Printf("       Methodology: %s\n", q.SuggestedMethodology)
		}
		fmt.Println()
	}

	return nil
}
