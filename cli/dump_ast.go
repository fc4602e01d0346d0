package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/CodMac/go-treesitter-code-tokenizer/output"
)

var dumpEntries bool

var dumpASTCmd = &cobra.Command{
	Use:   "dump-ast <path>",
	Short: "Show the wrap level and syntax tree chosen for a snippet",
	Long: `Dump-ast parses the snippet the same way serve does and prints the
accepted wrap level (RAW, CLASS, CLASS+METHOD) followed by the tree as
an S-expression. With --entries the unsorted extracted entries are
printed as JSONL instead, positions relative to the wrapped source.`,
	Args: cobra.ExactArgs(1),
	RunE: runDumpAST,
}

func init() {
	rootCmd.AddCommand(dumpASTCmd)
	dumpASTCmd.Flags().BoolVar(&dumpEntries, "entries", false, "print extracted entries instead of the tree")
}

func runDumpAST(cmd *cobra.Command, args []string) error {
	content, err := readSnippet(cmd, args[0])
	if err != nil {
		return err
	}

	proc, _, err := newProcessor()
	if err != nil {
		return err
	}
	defer proc.Close()

	out := cmd.OutOrStdout()
	if dumpEntries {
		entries, err := proc.Entries(content)
		if err != nil {
			return err
		}
		_, err = output.WriteEntries(out, entries)
		return err
	}

	unit, err := proc.Unit(content)
	if err != nil {
		return err
	}
	defer unit.Close()

	fmt.Fprintf(out, "level: %s\n", unit.Level)
	fmt.Fprintln(out, unit.Root.ToSexp())
	return nil
}
