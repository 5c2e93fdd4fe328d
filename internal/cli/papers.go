package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

// papersCmd represents the papers command
var papersCmd = &cobra.Command{
	Use:   "papers",
	Short: "Manage ingested papers",
	Long:  `List and delete papers in the local store.`,
}

var papersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List ingested papers",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		st, err := openStore(cfg)
		if err != nil {
			return err
		}

		papers := st.GetAllPapers()
		if len(papers) == 0 {
			fmt.Fprintf(os.Stderr, "No papers ingested. Run 'lacuna ingest <file>' first.\n")
			return nil
		}

		for _, p := range papers {
			fmt.Printf("%s  [%s]  %s\n", p.ID, p.Status, p.Title)
			if len(p.Authors) > 0 {
				fmt.Printf("  Authors: %s\n", strings.Join(p.Authors, ", "))
			}
			fmt.Printf("  Source: %s (%s), %d chunks, %d claims\n",
				p.Filename, p.SourceType, len(p.Chunks), len(p.ClaimIDs))
		}

		fmt.Fprintf(os.Stderr, "\n%d papers\n", len(papers))
		return nil
	},
}

var papersDeleteCmd = &cobra.Command{
	Use:   "delete <paper-id>",
	Short: "Delete a paper and its claims",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		st, err := openStore(cfg)
		if err != nil {
			return err
		}

		deleted, err := st.DeletePaper(args[0])
		if err != nil {
			return err
		}
		if !deleted {
			return fmt.Errorf("paper not found: %s", args[0])
		}

		fmt.Fprintf(os.Stderr, "✓ Deleted %s\n", args[0])
		return nil
	},
}

var claimsCmd = &cobra.Command{
	Use:   "claims <paper-id>",
	Short: "List the claims extracted from a paper",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		st, err := openStore(cfg)
		if err != nil {
			return err
		}

		if _, ok := st.GetPaper(args[0]); !ok {
			return fmt.Errorf("paper not found: %s", args[0])
		}

		claims := st.GetClaimsByPaper(args[0])
		for _, c := range claims {
			fmt.Printf("%s  (%s, %s)\n  %s\n", c.ID, c.Type, c.Confidence, c.Statement)
		}

		fmt.Fprintf(os.Stderr, "\n%d claims\n", len(claims))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(papersCmd)
	rootCmd.AddCommand(claimsCmd)
	papersCmd.AddCommand(papersListCmd)
	papersCmd.AddCommand(papersDeleteCmd)
}
