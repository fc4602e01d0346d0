package java_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CodMac/go-treesitter-code-tokenizer/model"
)

func TestJavaRewriter_Literals(t *testing.T) {
	tests := []struct {
		name     string
		fragment string
		want     string
	}{
		{"integer", "int a = 5;", "int a = __integer__;"},
		{"hex integer", "int a = 0xFF;", "int a = __integer__;"},
		{"long", "long a = 10L;", "long a = __long__;"},
		{"double", "double d = 1.5;", "double d = __double__;"},
		{"float", "float f = 2.0f;", "float f = __double__;"},
		{"char", "char c = 'x';", "char c = __char__;"},
		{"string", `String s = "a, b";`, "String s = __string__;"},
		{"boolean", "boolean b = true || false;", "boolean b = __boolean__ || __boolean__;"},
		{"null", "Object o = null;", "Object o = null;"},
		{"text block", "String s = \"\"\"\n    hi\n    \"\"\";", "String s = unk;"},
		{"call arguments", `f("x", 'y', 3);`, "f(__string__, __char__, __integer__);"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, rewrite(t, model.Options{}, tt.fragment))
		})
	}

	t.Run("keep literals", func(t *testing.T) {
		assert.Equal(t, `f("x", 3);`, rewrite(t, model.Options{KeepLiterals: true}, `f("x", 3);`))
	})
}

func TestJavaRewriter_File(t *testing.T) {
	fragment := "package com.acme;\n\nimport java.util.List;\n\n// greeting\npublic class A {\n    long id = 10L; // trailing\n    String s = \"hi\";\n}\n"

	t.Run("strip everything", func(t *testing.T) {
		want := "public class A {\n    long id = __long__;\n    String s = __string__;\n}"
		assert.Equal(t, want, rewrite(t, model.Options{}, fragment))
	})

	t.Run("keep imports and comments", func(t *testing.T) {
		want := "package com.acme;\n\nimport java.util.List;\n\n// greeting\npublic class A {\n    long id = __long__; // trailing\n    String s = __string__;\n}"
		assert.Equal(t, want, rewrite(t, model.Options{KeepImports: true, KeepComments: true}, fragment))
	})
}

func TestJavaRewriter_Dedent(t *testing.T) {
	fragment := "    if (flag == true) {\n        char c = 'x';\n        double d = 1.5;\n    }\n"
	want := "if (flag == __boolean__) {\n    char c = __char__;\n    double d = __double__;\n}"

	assert.Equal(t, want, rewrite(t, model.Options{}, fragment))

	t.Run("first line without indentation", func(t *testing.T) {
		fragment := "int a = 5;\n    int b = 6;"
		assert.Equal(t, "int a = __integer__;\nint b = __integer__;", rewrite(t, model.Options{}, fragment))
	})
}

func TestJavaRewriter_Idempotent(t *testing.T) {
	fragments := []string{
		"int a = 5; // five",
		readTestFile(t, "Greeter.java"),
		readTestFile(t, "Snippet.txt"),
		"/* block */ void f() { g(1L, 'c', \"s\", 2.5, false, null); }",
	}

	for _, opts := range []model.Options{{}, {KeepComments: true}, {KeepImports: true, KeepLiterals: true}} {
		for _, f := range fragments {
			once := rewrite(t, opts, f)
			require.NotEqual(t, model.ErrorMessage, once)
			assert.Equal(t, once, rewrite(t, opts, once), "rewrite(rewrite(x)) differs for %q", f)
		}
	}
}

// 全部保留时，输出就是去掉公共缩进与首尾空白的原片段 (每个包装层级都成立)
func TestJavaRewriter_RoundTrip(t *testing.T) {
	keepAll := model.Options{KeepImports: true, KeepComments: true, KeepLiterals: true}

	tests := []struct {
		name     string
		fragment string
		level    model.WrapLevel
	}{
		{"raw", "import a.B;\n// c\nclass A { int x = 1; }", model.WrapRaw},
		{"class", "void f() {\n    g(\"s\");\n}", model.WrapClass},
		{"class method", "g(1, \"a\"); // call\nint y = 2;", model.WrapClassMethod},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			unit := parseUnit(t, tt.fragment)
			assert.Equal(t, tt.level, unit.Level)
			assert.Equal(t, tt.fragment, string(unit.Fragment()))

			assert.Equal(t, strings.TrimSpace(tt.fragment), rewrite(t, keepAll, tt.fragment))
		})
	}
}

// 能在 RAW 层级解析的片段不会被包装
func TestJavaRewriter_LevelZeroStability(t *testing.T) {
	fragments := []string{
		"class A {}",
		"package p;\nimport java.util.List;\ninterface I { void f(); }",
		"enum E { X, Y }",
		"// only a comment",
	}

	for _, f := range fragments {
		unit := parseUnit(t, f)
		assert.Equal(t, model.WrapRaw, unit.Level, f)
		assert.Equal(t, 0, unit.Prefix)
		assert.Equal(t, 0, unit.Suffix)
	}
}
