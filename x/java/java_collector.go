package java

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/CodMac/go-treesitter-code-tokenizer/core"
	"github.com/CodMac/go-treesitter-code-tokenizer/metrics"
	"github.com/CodMac/go-treesitter-code-tokenizer/model"
	"github.com/CodMac/go-treesitter-code-tokenizer/noisefilter"
	"github.com/CodMac/go-treesitter-code-tokenizer/parser"
	sitter "github.com/tree-sitter/go-tree-sitter"
)

// --- Tree-sitter Queries ---

const (
	JavaImportQuery  = `(import_declaration) @import`
	JavaCommentQuery = `[(line_comment) (block_comment)] @comment`
	// 变量声明：字段/常量/局部变量的每个声明子，外加 for-each 与 try-with-resources 变量
	JavaDeclarationQuery = `
       [
          (variable_declarator) @declarator
          (enhanced_for_statement) @foreach
          (resource type: (_)) @resource
       ]
    `
	JavaCreationQuery = `(object_creation_expression) @creation`
	JavaCallQuery     = `(method_invocation) @call`
)

type javaQueries struct {
	imports      *sitter.Query
	comments     *sitter.Query
	declarations *sitter.Query
	creations    *sitter.Query
	calls        *sitter.Query
}

var (
	queriesOnce sync.Once
	queries     *javaQueries
	queriesErr  error
)

// loadQueries 编译一次查询，之后由所有请求共享 (Query 只读)
func loadQueries() (*javaQueries, error) {
	queriesOnce.Do(func() {
		tsLang, err := model.GetLanguage(model.LangJava)
		if err != nil {
			queriesErr = err
			return
		}
		compile := func(src string) *sitter.Query {
			if queriesErr != nil {
				return nil
			}
			q, qErr := sitter.NewQuery(tsLang, strings.TrimSpace(src))
			if qErr != nil {
				queriesErr = fmt.Errorf("failed to create query: %s", qErr.Error())
				return nil
			}
			return q
		}
		q := &javaQueries{
			imports:      compile(JavaImportQuery),
			comments:     compile(JavaCommentQuery),
			declarations: compile(JavaDeclarationQuery),
			creations:    compile(JavaCreationQuery),
			calls:        compile(JavaCallQuery),
		}
		if queriesErr == nil {
			queries = q
		}
	})
	return queries, queriesErr
}

type Collector struct{}

func NewJavaCollector() *Collector {
	return &Collector{}
}

// ================ 声明收集 ================

func (c *Collector) CollectDefinitions(unit *parser.Unit) (*core.FileContext, error) {
	if unit == nil || unit.Root == nil {
		return nil, fmt.Errorf("collect definitions: empty unit")
	}
	fCtx := core.NewFileContext(unit.Root, unit.Source, unit.Level)

	// 1. 处理顶级声明 (Package & Imports)
	c.processTopLevelDeclarations(fCtx)

	// 2. 收集片段内声明的类型
	parser.Walk(fCtx.RootNode, func(n *sitter.Node) bool {
		if typeDeclarationKinds[n.Kind()] {
			relName := typeRelName(n, fCtx.SourceBytes)
			if relName != "" {
				def := buildTypeDef(n, fCtx.SourceBytes)
				def.QualifiedName = buildQualifiedName(fCtx.PackageName, relName)
				fCtx.AddDefinition(def, relName)
			}
		}
		return true
	})

	return fCtx, nil
}

func (c *Collector) processTopLevelDeclarations(fCtx *core.FileContext) {
	for i := uint(0); i < fCtx.RootNode.NamedChildCount(); i++ {
		child := fCtx.RootNode.NamedChild(i)
		if child == nil {
			continue
		}

		switch child.Kind() {
		case KindPackageDeclaration:
			for j := uint(0); j < child.NamedChildCount(); j++ {
				sub := child.NamedChild(j)
				if sub.Kind() == "scoped_identifier" || sub.Kind() == KindIdentifier {
					fCtx.PackageName = compactName(parser.NodeText(sub, fCtx.SourceBytes))
					break
				}
			}
		case KindImportDeclaration:
			c.handleImport(child, fCtx)
		}
	}
}

func (c *Collector) handleImport(node *sitter.Node, fCtx *core.FileContext) {
	name, isStatic, isWildcard := importParts(node, fCtx.SourceBytes)
	if name == "" {
		return
	}

	pos := model.Position{Line: int(node.StartPosition().Row) + 1, Column: int(node.StartPosition().Column) + 1}
	entry := &core.ImportEntry{
		RawImportPath: name,
		IsWildcard:    isWildcard,
		IsStatic:      isStatic,
		Location:      &pos,
	}

	alias := core.WildcardKey
	if !isWildcard {
		alias = core.SimpleName(name)
	}
	entry.Alias = alias
	fCtx.AddImport(alias, entry)
}

// importParts 返回导入的名字 (通配符导入不含 ".*")
func importParts(node *sitter.Node, src []byte) (name string, isStatic, isWildcard bool) {
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		switch child.Kind() {
		case "static":
			isStatic = true
		case "asterisk":
			isWildcard = true
		case "scoped_identifier", KindIdentifier:
			name = compactName(parser.NodeText(child, src))
		}
	}
	return name, isStatic, isWildcard
}

// ================ 条目抽取 ================

func (c *Collector) CollectEntries(gc *core.GlobalContext, fc *core.FileContext, unit *parser.Unit, opts model.Options) ([]*model.Entry, error) {
	q, err := loadQueries()
	if err != nil {
		return nil, err
	}

	entries := make([]*model.Entry, 0)

	// 1. 导入
	if opts.KeepImports {
		for _, n := range captureNodes(q.imports, unit) {
			name, _, _ := importParts(n, unit.Source)
			if name != "" {
				entries = append(entries, model.NewEntry(model.Import, name, unit.PositionOf(n)))
			}
		}
	}

	// 2. 注释
	if opts.KeepComments {
		for _, n := range captureNodes(q.comments, unit) {
			content := normalizeComment(commentContent(unit.Text(n)))
			if strings.HasPrefix(content, "TODO Auto-generated") {
				continue
			}
			entries = append(entries, model.NewEntry(model.Comment, content, unit.PositionOf(n)))
		}
	}

	// 3. 变量声明
	if opts.KeepDeclarations {
		for _, n := range captureNodes(q.declarations, unit) {
			if e := declarationEntry(unit, n); e != nil {
				entries = append(entries, e)
			}
		}
	}

	// 4. 对象创建
	for _, n := range captureNodes(q.creations, unit) {
		if typ := n.ChildByFieldName("type"); typ != nil {
			entries = append(entries, model.NewEntry(model.Creation, normalizeType(unit.Text(typ)), unit.PositionOf(n)))
		}
	}

	// 5. 方法调用 (先序)
	filter := noisefilter.GetNoiseFilter(unit.Language)
	for _, n := range captureNodes(q.calls, unit) {
		if e := resolveCallEntry(gc, fc, unit, n, opts, filter); e != nil {
			entries = append(entries, e)
		}
	}

	return entries, nil
}

// resolveCallEntry 是单个调用的解析状态机：
// 解析成功 -> _MC_owner.method (打印类调用丢弃)；诊断可识别 -> _MC_hint.method；否则按 KeepUnknownCalls 决定 _UMC_ 或丢弃。
func resolveCallEntry(gc *core.GlobalContext, fc *core.FileContext, unit *parser.Unit, call *sitter.Node, opts model.Options, filter noisefilter.NoiseFilter) *model.Entry {
	pos := unit.PositionOf(call)
	written := unit.Text(call.ChildByFieldName("name"))

	qn, err := gc.ResolveCall(fc, call)
	if err == nil {
		if filter.IsNoise(qn) {
			metrics.CallResolutions.WithLabelValues("suppressed").Inc()
			return nil
		}
		slices := strings.Split(qn, ".")
		payload := slices[len(slices)-1]
		if len(slices) >= 2 {
			payload = slices[len(slices)-2] + "." + payload
		}
		metrics.CallResolutions.WithLabelValues("resolved").Inc()
		return model.NewEntry(model.MethodCall, payload, pos)
	}

	if owner, ok := core.ParseUnsolvedOwner(err.Error()); ok {
		metrics.CallResolutions.WithLabelValues("hinted").Inc()
		return model.NewEntry(model.MethodCall, owner+"."+written, pos)
	}

	if opts.KeepUnknownCalls {
		metrics.CallResolutions.WithLabelValues("unknown").Inc()
		return model.NewEntry(model.UnknownCall, written, pos)
	}
	metrics.CallResolutions.WithLabelValues("dropped").Inc()
	return nil
}

func declarationEntry(unit *parser.Unit, n *sitter.Node) *model.Entry {
	switch n.Kind() {
	case KindVariableDeclarator:
		parent := n.Parent()
		if parent == nil {
			return nil
		}
		switch parent.Kind() {
		case KindFieldDeclaration, KindConstantDeclaration, KindLocalVariable:
		default:
			return nil
		}
		typ := parent.ChildByFieldName("type")
		if typ == nil {
			return nil
		}
		return model.NewEntry(model.Variable, declaredType(unit.Text(typ), n.ChildByFieldName("dimensions"), unit.Source), unit.PositionOf(n))

	case KindEnhancedFor, KindResource:
		typ, name := n.ChildByFieldName("type"), n.ChildByFieldName("name")
		if typ == nil || name == nil {
			return nil
		}
		return model.NewEntry(model.Variable, declaredType(unit.Text(typ), n.ChildByFieldName("dimensions"), unit.Source), unit.PositionOf(name))
	}
	return nil
}

// declaredType 返回声明类型，声明子上的维度追加在类型后 (int a[] -> int[])
func declaredType(typeText string, dims *sitter.Node, src []byte) string {
	t := normalizeType(typeText)
	if dims != nil {
		t += strings.Repeat("[]", strings.Count(parser.NodeText(dims, src), "["))
	}
	return t
}

// captureNodes 执行查询，按先序 (起始位置升序，外层在前) 返回捕获的节点
func captureNodes(q *sitter.Query, unit *parser.Unit) []*sitter.Node {
	qc := sitter.NewQueryCursor()
	defer qc.Close()

	var nodes []*sitter.Node
	matches := qc.Matches(q, unit.Root, unit.Source)
	for {
		match := matches.Next()
		if match == nil {
			break
		}
		for _, capture := range match.Captures {
			node := capture.Node
			nodes = append(nodes, &node)
		}
	}

	sort.SliceStable(nodes, func(i, j int) bool {
		if nodes[i].StartByte() != nodes[j].StartByte() {
			return nodes[i].StartByte() < nodes[j].StartByte()
		}
		return nodes[i].EndByte() > nodes[j].EndByte()
	})
	return nodes
}

// ================ 文本规整 ================

// commentContent 去掉注释标记 (//, /*, /**, */)
func commentContent(text string) string {
	switch {
	case strings.HasPrefix(text, "//"):
		return text[2:]
	case strings.HasPrefix(text, "/**") && len(text) >= 5:
		return strings.TrimSuffix(text[3:], "*/")
	case strings.HasPrefix(text, "/*"):
		return strings.TrimSuffix(text[2:], "*/")
	}
	return text
}

// normalizeComment: 去首尾空白，逗号换成空格，连续空白合并为一个空格
func normalizeComment(content string) string {
	content = strings.ReplaceAll(strings.TrimSpace(content), ",", " ")
	return strings.Join(strings.Fields(content), " ")
}

// normalizeType 统一类型写法中的空白：Map< String ,Integer > -> Map<String, Integer>
func normalizeType(text string) string {
	var sb strings.Builder
	fields := strings.Fields(text)
	for i, f := range fields {
		if i > 0 {
			prev := fields[i-1]
			if !endsWithPunct(prev) && !startsWithPunct(f) {
				sb.WriteByte(' ')
			}
		}
		sb.WriteString(f)
	}
	return strings.ReplaceAll(sb.String(), ",", ", ")
}

func endsWithPunct(s string) bool {
	return strings.HasSuffix(s, "<") || strings.HasSuffix(s, ".") || strings.HasSuffix(s, ",") || strings.HasSuffix(s, "[")
}

func startsWithPunct(s string) bool {
	return strings.HasPrefix(s, "<") || strings.HasPrefix(s, ">") || strings.HasPrefix(s, ".") ||
		strings.HasPrefix(s, ",") || strings.HasPrefix(s, "[") || strings.HasPrefix(s, "]")
}

func compactName(s string) string {
	return strings.Join(strings.Fields(s), "")
}

// ================ 类型定义 ================

func buildQualifiedName(parentQN, name string) string {
	if parentQN == "" || parentQN == "." {
		return name
	}
	return parentQN + "." + name
}

// typeRelName 返回类型声明相对于包的名字，嵌套类型形如 Outer.Inner
func typeRelName(node *sitter.Node, src []byte) string {
	var parts []string
	for n := node; n != nil; n = n.Parent() {
		if !typeDeclarationKinds[n.Kind()] {
			continue
		}
		name := n.ChildByFieldName("name")
		if name == nil {
			return ""
		}
		parts = append([]string{parser.NodeText(name, src)}, parts...)
	}
	return strings.Join(parts, ".")
}

// buildTypeDef 从类型声明 (或匿名类的 class_body) 构建 TypeDef，成员类型保留源码写法
func buildTypeDef(node *sitter.Node, src []byte) *core.TypeDef {
	def := &core.TypeDef{
		Kind:    core.KindClass,
		Methods: make(map[string]string),
		Fields:  make(map[string]string),
		Node:    node,
	}
	if name := node.ChildByFieldName("name"); name != nil {
		def.Name = parser.NodeText(name, src)
	}

	switch node.Kind() {
	case KindInterfaceDeclaration:
		def.Kind = core.KindInterface
	case KindEnumDeclaration:
		def.Kind = core.KindEnum
		def.SuperTypes = append(def.SuperTypes, "java.lang.Enum")
	case KindRecordDeclaration:
		def.Kind = core.KindRecord
		def.SuperTypes = append(def.SuperTypes, "java.lang.Record")
		if params := node.ChildByFieldName("parameters"); params != nil {
			for i := uint(0); i < params.NamedChildCount(); i++ {
				p := params.NamedChild(i)
				typ, name := p.ChildByFieldName("type"), p.ChildByFieldName("name")
				if typ == nil || name == nil {
					continue
				}
				component := parser.NodeText(name, src)
				def.Fields[component] = normalizeType(parser.NodeText(typ, src))
				def.Methods[component] = def.Fields[component]
			}
		}
	case KindAnnotationDeclaration:
		def.Kind = core.KindAnnotation
	}

	// 父类与接口
	if sc := node.ChildByFieldName("superclass"); sc != nil {
		if t := sc.NamedChild(0); t != nil {
			def.SuperTypes = append(def.SuperTypes, normalizeType(parser.NodeText(t, src)))
		}
	}
	for i := uint(0); i < node.NamedChildCount(); i++ {
		child := node.NamedChild(i)
		if child.Kind() != "super_interfaces" && child.Kind() != "extends_interfaces" {
			continue
		}
		if list := parser.FindNamedChildOfType(child, "type_list"); list != nil {
			for j := uint(0); j < list.NamedChildCount(); j++ {
				def.SuperTypes = append(def.SuperTypes, normalizeType(parser.NodeText(list.NamedChild(j), src)))
			}
		}
	}

	body := node.ChildByFieldName("body")
	if node.Kind() == "class_body" {
		body = node
	}
	if body != nil {
		collectMembers(body, def, src)
	}
	return def
}

func collectMembers(body *sitter.Node, def *core.TypeDef, src []byte) {
	for i := uint(0); i < body.NamedChildCount(); i++ {
		member := body.NamedChild(i)
		switch member.Kind() {
		case KindMethodDeclaration:
			name, typ := member.ChildByFieldName("name"), member.ChildByFieldName("type")
			if name == nil || typ == nil {
				continue
			}
			// 重载只保留第一个声明
			if _, ok := def.Methods[parser.NodeText(name, src)]; !ok {
				def.Methods[parser.NodeText(name, src)] = normalizeType(parser.NodeText(typ, src))
			}
		case KindFieldDeclaration, KindConstantDeclaration:
			typ := member.ChildByFieldName("type")
			if typ == nil {
				continue
			}
			for j := uint(0); j < member.NamedChildCount(); j++ {
				decl := member.NamedChild(j)
				if decl.Kind() != KindVariableDeclarator {
					continue
				}
				if name := decl.ChildByFieldName("name"); name != nil {
					def.Fields[parser.NodeText(name, src)] = declaredType(parser.NodeText(typ, src), decl.ChildByFieldName("dimensions"), src)
				}
			}
		case "enum_constant":
			if name := member.ChildByFieldName("name"); name != nil && def.Name != "" {
				def.Fields[parser.NodeText(name, src)] = def.Name
			}
		case "enum_body_declarations":
			collectMembers(member, def, src)
		}
	}
}
