package main_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CodMac/go-treesitter-code-tokenizer/model"
	"github.com/CodMac/go-treesitter-code-tokenizer/parser"
	_ "github.com/CodMac/go-treesitter-code-tokenizer/x/java" // 确保注册 Java 语言
)

// getTestFilePath 辅助函数，用于获取测试文件路径
func getTestFilePath(name string) string {
	currentDir, _ := filepath.Abs(filepath.Dir("."))
	return filepath.Join(currentDir, "x", "java", "testdata", name)
}

func readTestFile(t *testing.T, name string) string {
	t.Helper()
	content, err := os.ReadFile(getTestFilePath(name))
	require.NoError(t, err)
	return string(content)
}

func TestTreeSitterParser_WrapAndParse(t *testing.T) {
	javaParser, err := parser.NewParser(model.LangJava)
	require.NoError(t, err)
	defer javaParser.Close()

	tests := []struct {
		name  string
		file  string
		level model.WrapLevel
	}{
		{"compilation unit", "Greeter.java", model.WrapRaw},
		{"statements", "Snippet.txt", model.WrapClassMethod},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fragment := readTestFile(t, tt.file)
			unit, err := parser.WrapAndParse(javaParser, fragment)
			require.NoError(t, err)
			defer unit.Close()

			assert.Equal(t, tt.level, unit.Level)
			assert.Equal(t, "program", unit.Root.Kind())
			assert.False(t, unit.Root.HasError())
			assert.Equal(t, fragment, string(unit.Fragment()))

			w := parser.WrapperFor(tt.level)
			assert.Equal(t, w.Prefix+fragment+w.Suffix, string(unit.Source))
		})
	}

	t.Run("parse failure", func(t *testing.T) {
		_, err := parser.WrapAndParse(javaParser, readTestFile(t, "Broken.txt"))
		assert.ErrorIs(t, err, parser.ErrParseFailure)
	})
}

func TestTreeSitterParser_UnknownLanguage(t *testing.T) {
	_, err := parser.NewParser(model.Language("cobol"))
	assert.Error(t, err)
}
