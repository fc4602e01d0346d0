package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var fileCmd = &cobra.Command{
	Use:   "file <path> [extractSequence keepImports keepComments keepLiterals [keepUnknownMethodCalls]]",
	Short: "Process a single file and print the plain result",
	Args:  cobra.RangeArgs(1, 6),
	RunE:  runFile,
}

func init() {
	rootCmd.AddCommand(fileCmd)
}

func runFile(cmd *cobra.Command, args []string) error {
	cfg.ApplyPositional(args[1:])

	content, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", args[0], err)
	}

	proc, mode, err := newProcessor()
	if err != nil {
		return err
	}
	defer proc.Close()

	fmt.Fprintln(cmd.OutOrStdout(), proc.Process(mode, string(content)))
	return nil
}
