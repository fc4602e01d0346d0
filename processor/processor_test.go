package processor_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CodMac/go-treesitter-code-tokenizer/collector"
	"github.com/CodMac/go-treesitter-code-tokenizer/core"
	"github.com/CodMac/go-treesitter-code-tokenizer/model"
	"github.com/CodMac/go-treesitter-code-tokenizer/parser"
	"github.com/CodMac/go-treesitter-code-tokenizer/processor"
	"github.com/CodMac/go-treesitter-code-tokenizer/rewriter"
	_ "github.com/CodMac/go-treesitter-code-tokenizer/x/java" // 确保注册 Java
	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_java "github.com/tree-sitter/tree-sitter-java/bindings/go"
)

func TestNewProcessor_UnknownLanguage(t *testing.T) {
	_, err := processor.NewProcessor(model.Language("cobol"), model.Options{}, nil)
	assert.Error(t, err)
}

func TestProcessor_Process(t *testing.T) {
	proc, err := processor.NewProcessor(model.LangJava, model.Options{KeepDeclarations: true}, nil)
	require.NoError(t, err)
	defer proc.Close()

	tests := []struct {
		name     string
		mode     model.Mode
		fragment string
		want     string
	}{
		{"extract", model.ModeExtract, "int a = 5;", "_VAR_int"},
		{"rewrite", model.ModeRewrite, "int a = 5;", "int a = __integer__;"},
		{"empty extract", model.ModeExtract, "", ""},
		{"parse failure", model.ModeExtract, "}{", model.ErrorMessage},
		{"unknown mode", model.Mode("tokenize"), "int a;", model.ErrorMessage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, proc.Process(tt.mode, tt.fragment))
		})
	}

	t.Run("processor is reusable after failure", func(t *testing.T) {
		assert.Equal(t, model.ErrorMessage, proc.Process(model.ModeRewrite, "{{{"))
		assert.Equal(t, "x = __integer__;", proc.Process(model.ModeRewrite, "x = 1;"))
	})
}

// panicking 在抽取与改写时都会 panic
type panicking struct{}

func (panicking) CollectDefinitions(*parser.Unit) (*core.FileContext, error) {
	panic("collector exploded")
}

func (panicking) CollectEntries(*core.GlobalContext, *core.FileContext, *parser.Unit, model.Options) ([]*model.Entry, error) {
	panic("collector exploded")
}

func (panicking) Edits(*parser.Unit, model.Options) ([]rewriter.Edit, error) {
	panic("rewriter exploded")
}

func TestProcessor_ProcessRecoversPanic(t *testing.T) {
	lang := model.Language("java-panicking")
	model.RegisterLanguage(lang, sitter.NewLanguage(tree_sitter_java.Language()))
	collector.RegisterCollector(lang, panicking{})
	rewriter.RegisterRewriter(lang, panicking{})

	gc, err := core.NewGlobalContextFor(model.LangJava)
	require.NoError(t, err)
	proc, err := processor.NewProcessor(lang, model.Options{}, gc)
	require.NoError(t, err)
	defer proc.Close()

	assert.Equal(t, model.ErrorMessage, proc.Process(model.ModeExtract, "class A {}"))
	assert.Equal(t, model.ErrorMessage, proc.Process(model.ModeRewrite, "class A {}"))
}

func TestProcessor_SharedUniverse(t *testing.T) {
	gc, err := core.NewGlobalContextFor(model.LangJava)
	require.NoError(t, err)
	require.NoError(t, gc.LoadYAML([]byte(`
types:
  - name: com.acme.Widget
    methods:
      spin: void
`)))

	proc, err := processor.NewProcessor(model.LangJava, model.Options{}, gc)
	require.NoError(t, err)
	defer proc.Close()

	out, err := proc.Extract("import com.acme.Widget;\nclass A { void f(Widget w) { w.spin(); } }")
	require.NoError(t, err)
	assert.Equal(t, "_MC_Widget.spin", out)
}

func TestBatchProcessor_ProcessFiles(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"a.java": "int a = 1;",
		"b.java": "String s = \"x\";\ns.trim();",
		"c.java": "}{",
	}
	var paths []string
	for _, name := range []string{"a.java", "b.java", "c.java", "missing.java"} {
		path := filepath.Join(dir, name)
		if content, ok := files[name]; ok {
			require.NoError(t, os.WriteFile(path, []byte(content), 0644))
		}
		paths = append(paths, path)
	}

	bp := processor.NewBatchProcessor(model.LangJava, model.ModeExtract, model.Options{KeepDeclarations: true}, 2, nil)
	seen := make(chan processor.Result, len(paths))
	bp.OnResult = func(r processor.Result) { seen <- r }

	results, err := bp.ProcessFiles(context.Background(), paths)
	require.NoError(t, err)
	require.Len(t, results, 4)
	assert.Len(t, seen, 4)

	// 结果顺序与输入一致
	assert.Equal(t, paths[0], results[0].Path)
	assert.Equal(t, "_VAR_int", results[0].Output)
	assert.Equal(t, "_VAR_String, _MC_String.trim", results[1].Output)
	assert.Equal(t, model.ErrorMessage, results[2].Output)
	assert.Empty(t, results[2].Error)
	assert.Equal(t, model.ErrorMessage, results[3].Output)
	assert.NotEmpty(t, results[3].Error)

	for _, r := range results {
		assert.Equal(t, "extract", r.Mode)
	}
}

func TestBatchProcessor_Empty(t *testing.T) {
	bp := processor.NewBatchProcessor(model.LangJava, model.ModeRewrite, model.Options{}, 0, nil)
	assert.Positive(t, bp.Workers)

	results, err := bp.ProcessFiles(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, results)
}
