package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/CodMac/go-treesitter-code-tokenizer/index"
)

var vocabTop int

var vocabCmd = &cobra.Command{
	Use:   "vocab [index.db]",
	Short: "Show the most frequent tokens of a token index",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := cfg.Index.Path
		if len(args) == 1 {
			path = args[0]
		}
		if path == "" {
			return fmt.Errorf("no index given (argument or index.path)")
		}

		ix, err := index.Open(path)
		if err != nil {
			return err
		}
		defer ix.Close()

		snippets, err := ix.Snippets()
		if err != nil {
			return err
		}
		top, err := ix.Top(vocabTop)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintf(w, "# %d snippets\n", snippets)
		for _, tc := range top {
			fmt.Fprintf(w, "%d\t%s\n", tc.Count, tc.Token)
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(vocabCmd)
	vocabCmd.Flags().IntVarP(&vocabTop, "top", "n", 50, "number of tokens to show")
}
