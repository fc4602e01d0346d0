package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/CodMac/go-treesitter-code-tokenizer/index"
	"github.com/CodMac/go-treesitter-code-tokenizer/model"
	"github.com/CodMac/go-treesitter-code-tokenizer/output"
	"github.com/CodMac/go-treesitter-code-tokenizer/parser"
	"github.com/CodMac/go-treesitter-code-tokenizer/tokenizer"
)

var (
	tokenizeUnique bool
	tokenizeIndex  string
	tokenizeJSON   bool
)

var tokenizeCmd = &cobra.Command{
	Use:   "tokenize <path>...",
	Short: "Split processed snippets into tokens",
	Long: `Tokenize processes each file with the configured mode and splits the
result into tokens, one per line:

  extract  sequence entries with their category prefix removed
  rewrite  leaf tokens of the rewritten code (comments skipped)

Use "-" to read a single snippet from stdin. With --index (or index.path
in the config) token frequencies are accumulated in a sqlite database;
identical snippets are only counted once.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runTokenize,
}

func init() {
	rootCmd.AddCommand(tokenizeCmd)
	tokenizeCmd.Flags().BoolVarP(&tokenizeUnique, "unique", "u", false, "drop repeated tokens, keeping first occurrence")
	tokenizeCmd.Flags().StringVar(&tokenizeIndex, "index", "", "sqlite token index to update (default from config)")
	tokenizeCmd.Flags().BoolVar(&tokenizeJSON, "json", false, "print code tokens as JSONL with positions (rewrite mode)")
}

func runTokenize(cmd *cobra.Command, args []string) error {
	proc, mode, err := newProcessor()
	if err != nil {
		return err
	}
	defer proc.Close()

	lexer, err := parser.NewParser(proc.Language)
	if err != nil {
		return err
	}
	defer lexer.Close()

	indexPath := cfg.Index.Path
	if tokenizeIndex != "" {
		indexPath = tokenizeIndex
	}
	var ix *index.Index
	if indexPath != "" {
		ix, err = index.Open(indexPath)
		if err != nil {
			return err
		}
		defer ix.Close()
	}

	out := cmd.OutOrStdout()
	for _, path := range args {
		content, err := readSnippet(cmd, path)
		if err != nil {
			return err
		}
		result := proc.Process(mode, content)

		var tokens []string
		switch mode {
		case model.ModeExtract:
			tokens = tokenizer.SequenceTokens(result, tokenizeUnique)
		default:
			codeTokens := tokenizer.CodeTokens(lexer, result)
			if tokenizeJSON {
				writer := output.NewJSONLWriter(out)
				for _, t := range codeTokens {
					if err := writer.Write(t); err != nil {
						return err
					}
				}
			}
			tokens = tokenizer.Values(codeTokens)
			if tokenizeUnique {
				tokens = tokenizer.Unique(tokens)
			}
		}

		if !tokenizeJSON || mode == model.ModeExtract {
			if len(tokens) > 0 {
				fmt.Fprintln(out, strings.Join(tokens, "\n"))
			}
		}

		if ix != nil && result != model.ErrorMessage {
			added, err := ix.AddSnippet(content, tokens)
			if err != nil {
				return err
			}
			slog.Debug("index.snippet", "path", path, "added", added, "tokens", len(tokens))
		}
	}
	return nil
}

func readSnippet(cmd *cobra.Command, path string) (string, error) {
	if path == "-" {
		b, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(b), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return string(b), nil
}
