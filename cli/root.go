package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/CodMac/go-treesitter-code-tokenizer/config"
	"github.com/CodMac/go-treesitter-code-tokenizer/core"
	"github.com/CodMac/go-treesitter-code-tokenizer/model"
	"github.com/CodMac/go-treesitter-code-tokenizer/processor"
)

var (
	cfgFile  string
	langFlag string
	verbose  bool

	// cfg 在 PersistentPreRunE 中加载，子命令只读
	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "codetok",
	Short: "Tokenize and normalize source code snippets",
	Long: `codetok turns (possibly incomplete) source snippets into either a
semantic entry sequence (imports, comments, declarations, creations,
resolved method calls) or a rewritten snippet with literals anonymized.

Snippets that are not complete compilation units are wrapped in a
class and, if needed, a method body before parsing.`,
	SilenceUsage:      true,
	PersistentPreRunE: initConfig,
}

// Execute 由 main.main() 调用
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file or directory (default is ./.codetok.yaml)")
	rootCmd.PersistentFlags().StringVar(&langFlag, "lang", string(model.LangJava), "snippet language")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
}

// initConfig 加载配置并初始化日志。stdout 留给协议与结果，日志一律写 stderr。
func initConfig(cmd *cobra.Command, args []string) error {
	loaded, err := config.NewLoader(cfgFile).Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	cfg = loaded

	level, err := config.ParseLogLevel(cfg.Log.Level)
	if err != nil {
		return err
	}
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	return nil
}

func language() (model.Language, error) {
	return model.ParseLanguage(langFlag)
}

// globalContext 加载内置类型表与 types.files 中的附加类型
func globalContext(lang model.Language) (*core.GlobalContext, error) {
	gc, err := core.NewGlobalContextFor(lang, cfg.Types.Files...)
	if err != nil {
		return nil, fmt.Errorf("failed to load type universe: %w", err)
	}
	slog.Debug("types.loaded", "lang", lang, "types", gc.Len(), "files", len(cfg.Types.Files))
	return gc, nil
}

// newProcessor 按当前配置创建单个 Processor，能力缺失时立即失败
func newProcessor() (*processor.Processor, model.Mode, error) {
	mode, err := model.ParseMode(cfg.Mode)
	if err != nil {
		return nil, "", err
	}
	lang, err := language()
	if err != nil {
		return nil, "", err
	}
	gc, err := globalContext(lang)
	if err != nil {
		return nil, "", err
	}
	proc, err := processor.NewProcessor(lang, cfg.Options(), gc)
	if err != nil {
		return nil, "", err
	}
	return proc, mode, nil
}
