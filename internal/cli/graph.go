package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ppiankov/lacuna/internal/graph"
)

var graphOut string

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Export the knowledge graph of the latest analysis",
	Long: `Graph exports the latest analysis as a renderable knowledge graph:
theme nodes sized by density, typed relationship edges, and gap nodes
linked to the themes they touch.

Example:
  lacuna graph
  lacuna graph --json graph.json`,
	RunE: runGraph,
}

func init() {
	rootCmd.AddCommand(graphCmd)

	graphCmd.Flags().StringVar(&graphOut, "json", "", "output JSON path (default: stdout)")
}

func runGraph(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	st, err := openStore(cfg)
	if err != nil {
		return err
	}

	analysis, ok := st.GetLatestAnalysis()
	if !ok {
		return fmt.Errorf("no analysis found: run 'lacuna analyze' first")
	}

	data := graph.Build(&analysis)

	out, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal graph: %w", err)
	}

	if graphOut == "" {
		fmt.Println(string(out))
		return nil
	}

	if err := os.WriteFile(graphOut, out, 0o644); err != nil {
		return fmt.Errorf("write graph: %w", err)
	}

	fmt.Fprintf(os.Stderr, "✓ Wrote %d nodes and %d edges to %s\n", len(data.Nodes), len(data.Edges), graphOut)
	return nil
}
