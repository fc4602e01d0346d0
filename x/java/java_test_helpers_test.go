package java_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/CodMac/go-treesitter-code-tokenizer/model"
	"github.com/CodMac/go-treesitter-code-tokenizer/processor"
	_ "github.com/CodMac/go-treesitter-code-tokenizer/x/java" // 注册 Java
)

func getTestFilePath(name string) string {
	currentDir, _ := filepath.Abs(filepath.Dir("."))
	return filepath.Join(currentDir, "testdata", name)
}

func readTestFile(t *testing.T, name string) string {
	t.Helper()
	content, err := os.ReadFile(getTestFilePath(name))
	require.NoError(t, err)
	return string(content)
}

func newProcessor(t *testing.T, opts model.Options) *processor.Processor {
	t.Helper()
	proc, err := processor.NewProcessor(model.LangJava, opts, nil)
	require.NoError(t, err)
	t.Cleanup(proc.Close)
	return proc
}

func extract(t *testing.T, opts model.Options, fragment string) string {
	t.Helper()
	out, err := newProcessor(t, opts).Extract(fragment)
	require.NoError(t, err)
	return out
}

func rewrite(t *testing.T, opts model.Options, fragment string) string {
	t.Helper()
	out, err := newProcessor(t, opts).Rewrite(fragment)
	require.NoError(t, err)
	return out
}
