package java_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CodMac/go-treesitter-code-tokenizer/core"
	"github.com/CodMac/go-treesitter-code-tokenizer/model"
	"github.com/CodMac/go-treesitter-code-tokenizer/parser"
	"github.com/CodMac/go-treesitter-code-tokenizer/x/java"
	sitter "github.com/tree-sitter/go-tree-sitter"
)

// resolveFirstCall 解析片段中 (先序) 名为 method 的第一个调用
func resolveFirstCall(t *testing.T, fragment, method string) (string, error) {
	t.Helper()
	unit := parseUnit(t, fragment)

	fc, err := java.NewJavaCollector().CollectDefinitions(unit)
	require.NoError(t, err)
	gc, err := core.NewGlobalContextFor(model.LangJava)
	require.NoError(t, err)

	var call *sitter.Node
	parser.Walk(unit.Root, func(n *sitter.Node) bool {
		if call != nil {
			return false
		}
		if n.Kind() == java.KindMethodInvocation {
			if name := n.ChildByFieldName("name"); name != nil && unit.Text(name) == method {
				call = n
				return false
			}
		}
		return true
	})
	require.NotNil(t, call, "no call to %s", method)

	return gc.ResolveCall(fc, call)
}

func TestJavaResolver_Resolved(t *testing.T) {
	tests := []struct {
		name     string
		fragment string
		method   string
		want     string
	}{
		{"string local", "String s = \"abc\";\nint n = s.length();", "length", "java.lang.String.length"},
		{"string literal receiver", `"abc".toUpperCase();`, "toUpperCase", "java.lang.String.toUpperCase"},
		{"chain through return type", "StringBuilder sb = new StringBuilder();\nsb.append(1).reverse();", "reverse", "java.lang.StringBuilder.reverse"},
		{"inherited jdk method", "import java.util.ArrayList;\nclass A { void f() { ArrayList<String> l = new ArrayList<>(); l.size(); } }", "size", "java.util.Collection.size"},
		{"object fallback", "Runnable r = null;\nr.hashCode();", "hashCode", "java.lang.Object.hashCode"},
		{"system field", `System.out.flush();`, "flush", "java.io.PrintStream.flush"},
		{"static call on type", "Math.abs(-1);", "abs", "java.lang.Math.abs"},
		{"parameter", "void f(String p) { p.trim(); }", "trim", "java.lang.String.trim"},
		{"for each variable", "for (String s : xs) { s.isEmpty(); }", "isEmpty", "java.lang.String.isEmpty"},
		{"catch parameter", "try { } catch (RuntimeException e) { e.getMessage(); }", "getMessage", "java.lang.Throwable.getMessage"},
		{"cast", "((String) o).length();", "length", "java.lang.String.length"},
		{"var from initializer", "var sb = new StringBuilder();\nsb.toString();", "toString", "java.lang.StringBuilder.toString"},
		{"this", "class A { void g() {} void f() { this.g(); } }", "g", "A.g"},
		{"bare call in fragment class", "class A { int g() { return 1; } void f() { g(); } }", "g", "A.g"},
		{"fragment class inherits jdk", "import java.util.ArrayList;\nclass A extends ArrayList<String> { void f() { clear(); } }", "clear", "java.util.Collection.clear"},
		{"static import", "import static java.lang.Math.max;\nclass A { int f() { return max(1, 2); } }", "max", "java.lang.Math.max"},
		{"static import of unknown type", "import static org.junit.Assert.assertEquals;\nclass T { void t() { assertEquals(1, 2); } }", "assertEquals", "org.junit.Assert.assertEquals"},
		{"single type import", "import java.util.Optional;\nclass A { void f(Optional<String> o) { o.isPresent(); } }", "isPresent", "java.util.Optional.isPresent"},
		{"record accessor", "record P(String name) { int f() { return name().length(); } }", "name", "P.name"},
		{"anonymous class", "Runnable r = new Runnable() { public void run() { toString(); } };", "toString", "java.lang.Object.toString"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			qn, err := resolveFirstCall(t, tt.fragment, tt.method)
			require.NoError(t, err)
			assert.Equal(t, tt.want, qn)
		})
	}
}

func TestJavaResolver_Unresolved(t *testing.T) {
	tests := []struct {
		name     string
		fragment string
		method   string
		hint     string // 空表示诊断不可识别
	}{
		{"unknown variable", "x.foo();", "foo", "x"},
		{"unknown declared type", "Foo foo = new Foo();\nfoo.bar();", "bar", "Foo"},
		{"unknown super type", "class A extends Base { void f() { helper(); } }", "helper", "Base"},
		{"unknown method on known type", "String s = \"\";\ns.frobnicate();", "frobnicate", "String"},
		{"qualified type name", "com.acme.Widget.create();", "create", "Widget"},
		{"unimported jdk type", "try { } catch (IOException e) { e.getMessage(); }", "getMessage", "IOException"},
		{"lambda parameter", "xs.forEach(x -> x.run());", "run", ""},
		{"bare unknown", "foo();", "foo", ""},
		{"primitive receiver", "int i = 0;\ni.toString();", "toString", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := resolveFirstCall(t, tt.fragment, tt.method)
			require.Error(t, err)

			var resErr *core.ResolutionError
			require.ErrorAs(t, err, &resErr)

			hint, ok := core.ParseUnsolvedOwner(err.Error())
			if tt.hint == "" {
				assert.False(t, ok, "diagnostic %q should not be recognized", err.Error())
				return
			}
			require.True(t, ok, "diagnostic %q should be recognized", err.Error())
			assert.Equal(t, tt.hint, hint)
		})
	}
}

// 调用状态机：解析成功 / 诊断提示 / 未知调用按选项输出或丢弃
func TestJavaResolver_CallPolicy(t *testing.T) {
	fragment := "xs.forEach(x -> x.run());\nfoo();"

	assert.Equal(t, "_MC_xs.forEach", extract(t, model.Options{}, fragment))
	assert.Equal(t, "_MC_xs.forEach, _UMC_run, _UMC_foo", extract(t, model.Options{KeepUnknownCalls: true}, fragment))
}

// var 初始化表达式引用自身 (或相互引用) 时推断必须终止，调用按未知处理
func TestJavaResolver_CyclicVarInitializer(t *testing.T) {
	tests := []struct {
		name     string
		fragment string
		method   string
		want     string
	}{
		{"self reference", "void f() { var a = a.foo(); }", "foo", "_UMC_foo"},
		{"mutual fields", "var a = b.x(); var b = a.y();", "x", "_UMC_x, _UMC_y"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := resolveFirstCall(t, tt.fragment, tt.method)
			require.Error(t, err)
			_, ok := core.ParseUnsolvedOwner(err.Error())
			assert.False(t, ok, "diagnostic %q should not be recognized", err.Error())

			assert.Equal(t, tt.want, extract(t, model.Options{KeepUnknownCalls: true}, tt.fragment))
			assert.Empty(t, extract(t, model.Options{}, tt.fragment))
		})
	}
}

func TestJavaResolver_DeepChain(t *testing.T) {
	fragment := `"s"` + strings.Repeat(".trim()", 100) + ";"

	_, err := resolveFirstCall(t, fragment, "trim")
	assert.Error(t, err)
	assert.NotEqual(t, model.ErrorMessage, extract(t, model.Options{KeepUnknownCalls: true}, fragment))
}
