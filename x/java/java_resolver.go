package java

import (
	"strings"
	"unicode"

	"github.com/CodMac/go-treesitter-code-tokenizer/core"
	"github.com/CodMac/go-treesitter-code-tokenizer/parser"
	sitter "github.com/tree-sitter/go-tree-sitter"
)

const (
	objectQN = "java.lang.Object"
	stringQN = "java.lang.String"
	classQN  = "java.lang.Class"
)

// SymbolResolver 基于文本的类型推断：不需要 classpath，只依赖片段本身与类型宇宙。
type SymbolResolver struct{}

func NewJavaSymbolResolver() *SymbolResolver {
	return &SymbolResolver{}
}

func (j *SymbolResolver) BuildQualifiedName(parentQN, name string) string {
	return buildQualifiedName(parentQN, name)
}

func (j *SymbolResolver) ResolveCall(gc *core.GlobalContext, fc *core.FileContext, call *sitter.Node) (string, error) {
	if call == nil || call.Kind() != KindMethodInvocation {
		return "", core.Unsupported("node is not a method invocation")
	}

	in := &inference{gc: gc, fc: fc, src: fc.SourceBytes, context: contextName(call, fc.SourceBytes)}
	m, err := in.invoke(call)
	if err != nil {
		return "", err
	}
	return j.BuildQualifiedName(m.owner.QualifiedName, m.name), nil
}

// resolvedMethod 是一次成功解析的方法：声明类型、方法名、返回类型写法
type resolvedMethod struct {
	owner   *core.TypeDef
	name    string
	returns string
}

// variable 是作用域中找到的变量声明
type variable struct {
	typeText string
	dims     int
	value    *sitter.Node
	untyped  bool // lambda 推断参数
}

// maxInferenceDepth 限制一次调用解析中表达式类型推断的嵌套层数
const maxInferenceDepth = 64

type inference struct {
	gc      *core.GlobalContext
	fc      *core.FileContext
	src     []byte
	context string

	depth   int
	pending map[uint]bool // 正在推断的 var 初始化表达式 (按起始字节)
}

func (in *inference) text(n *sitter.Node) string {
	return parser.NodeText(n, in.src)
}

// ================ 方法调用 ================

func (in *inference) invoke(call *sitter.Node) (*resolvedMethod, error) {
	nameNode := call.ChildByFieldName("name")
	if nameNode == nil {
		return nil, core.Unsupported("method invocation without name")
	}
	name := in.text(nameNode)

	object := call.ChildByFieldName("object")
	if object == nil {
		return in.bareCall(call, name)
	}

	recv, err := in.typeOf(object)
	if err != nil {
		return nil, err
	}
	return in.member(recv, name)
}

func (in *inference) member(recv *core.TypeDef, name string) (*resolvedMethod, error) {
	m, missing := in.findMethod(recv, name)
	if m != nil {
		return m, nil
	}
	if missing != "" {
		return nil, core.Unsolved(in.context, missing)
	}
	return nil, core.Unsolved(in.context, recv.Name)
}

// bareCall 解析无接收者的调用：外围类型 (含父类)，然后静态导入
func (in *inference) bareCall(call *sitter.Node, name string) (*resolvedMethod, error) {
	var missing string
	for _, def := range in.enclosingTypes(call) {
		m, miss := in.findMethod(def, name)
		if m != nil {
			return m, nil
		}
		if missing == "" {
			missing = miss
		}
	}

	for _, imp := range in.fc.Imports[name] {
		if !imp.IsStatic || imp.IsWildcard {
			continue
		}
		ownerQN := parentName(imp.RawImportPath)
		if def, ok := in.gc.Lookup(in.fc, ownerQN); ok {
			if m, _ := in.findMethod(def, name); m != nil {
				return m, nil
			}
		}
		// 类型不在宇宙中，但静态导入本身已经给出了声明类型
		return &resolvedMethod{owner: &core.TypeDef{QualifiedName: ownerQN, Name: core.SimpleName(ownerQN)}, name: name}, nil
	}

	for _, imp := range in.fc.Wildcards(true) {
		if def, ok := in.gc.Lookup(in.fc, imp.RawImportPath); ok {
			if m, _ := in.findMethod(def, name); m != nil {
				return m, nil
			}
		}
	}

	if missing != "" {
		return nil, core.Unsolved(in.context, missing)
	}
	return nil, core.Unsupported("no method %s in scope", name)
}

// findMethod 沿父类型链查找方法；找不到时返回第一个无法解析的父类型简单名
func (in *inference) findMethod(def *core.TypeDef, name string) (*resolvedMethod, string) {
	var missing string
	visited := make(map[*core.TypeDef]bool)
	queue := []*core.TypeDef{def}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if visited[cur] {
			continue
		}
		visited[cur] = true

		if ret, ok := cur.Methods[name]; ok {
			return &resolvedMethod{owner: cur, name: name, returns: ret}, ""
		}
		for _, st := range cur.SuperTypes {
			sdef, ok := in.resolveTypeName(baseType(st))
			if !ok {
				if missing == "" {
					missing = core.SimpleName(baseType(st))
				}
				continue
			}
			queue = append(queue, sdef)
		}
	}

	if obj, ok := in.gc.Lookup(nil, objectQN); ok && !visited[obj] {
		if ret, ok := obj.Methods[name]; ok {
			return &resolvedMethod{owner: obj, name: name, returns: ret}, ""
		}
	}
	return nil, missing
}

// findField 沿父类型链查找字段，返回字段类型写法
func (in *inference) findField(def *core.TypeDef, name string) (string, bool) {
	visited := make(map[*core.TypeDef]bool)
	queue := []*core.TypeDef{def}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if visited[cur] {
			continue
		}
		visited[cur] = true

		if t, ok := cur.Fields[name]; ok {
			return t, true
		}
		for _, st := range cur.SuperTypes {
			if sdef, ok := in.resolveTypeName(baseType(st)); ok {
				queue = append(queue, sdef)
			}
		}
	}
	return "", false
}

// ================ 表达式类型推断 ================

func (in *inference) typeOf(expr *sitter.Node) (*core.TypeDef, error) {
	if in.depth >= maxInferenceDepth {
		return nil, core.Unsupported("type inference nested deeper than %d", maxInferenceDepth)
	}
	in.depth++
	defer func() { in.depth-- }()

	switch expr.Kind() {
	case KindIdentifier:
		name := in.text(expr)
		if v, ok := in.lookupVariable(name, expr); ok {
			return in.variableType(name, v)
		}
		for _, def := range in.enclosingTypes(expr) {
			if t, ok := in.findField(def, name); ok {
				return in.typeFromText(t)
			}
		}
		if def, ok := in.resolveTypeName(name); ok {
			return def, nil
		}
		return nil, core.Unsolved(in.context, name)

	case "this":
		if types := in.enclosingTypes(expr); len(types) > 0 {
			return types[0], nil
		}
		return nil, core.Unsupported("this outside of a type")

	case "super":
		types := in.enclosingTypes(expr)
		if len(types) == 0 {
			return nil, core.Unsupported("super outside of a type")
		}
		if supers := types[0].SuperTypes; len(supers) > 0 {
			return in.typeFromText(supers[0])
		}
		return in.lookupQN(objectQN)

	case "string_literal":
		return in.lookupQN(stringQN)

	case "class_literal":
		return in.lookupQN(classQN)

	case KindObjectCreation, "cast_expression":
		typ := expr.ChildByFieldName("type")
		if typ == nil {
			return nil, core.Unsupported("%s without type", expr.Kind())
		}
		return in.typeFromText(in.text(typ))

	case "array_creation_expression", "array_initializer":
		return in.lookupQN(objectQN)

	case "parenthesized_expression":
		if inner := expr.NamedChild(0); inner != nil {
			return in.typeOf(inner)
		}
		return nil, core.Unsupported("empty parenthesized expression")

	case KindMethodInvocation:
		m, err := in.invoke(expr)
		if err != nil {
			return nil, err
		}
		if m.returns == "" {
			return nil, core.Unsupported("return type of %s is unknown", m.name)
		}
		return in.typeFromText(m.returns)

	case KindFieldAccess:
		return in.fieldAccessType(expr)
	}

	return nil, core.Unsupported("cannot infer type of %s receiver", expr.Kind())
}

func (in *inference) fieldAccessType(expr *sitter.Node) (*core.TypeDef, error) {
	qualified := isQualifiedName(expr)
	if qualified {
		name := compactName(in.text(expr))
		if def, ok := in.resolveTypeName(name); ok {
			return def, nil
		}
		// 形如 com.acme.Widget 的全限定名：包名小写开头，类型名大写开头
		if looksLikeQualifiedType(name) {
			if left := leftmostNode(expr); left != nil {
				if _, isVar := in.lookupVariable(in.text(left), left); !isVar {
					return nil, core.Unsolved(in.context, core.SimpleName(name))
				}
			}
		}
	}

	object, field := expr.ChildByFieldName("object"), expr.ChildByFieldName("field")
	if object == nil || field == nil {
		return nil, core.Unsupported("incomplete field access")
	}
	recv, err := in.typeOf(object)
	if err != nil {
		return nil, err
	}

	fieldName := in.text(field)
	t, ok := in.findField(recv, fieldName)
	if !ok {
		return nil, core.Unsolved(in.context, fieldName)
	}
	return in.typeFromText(t)
}

func (in *inference) variableType(name string, v variable) (*core.TypeDef, error) {
	switch {
	case v.untyped:
		return nil, core.Unsupported("cannot infer type of lambda parameter %s", name)
	case v.dims > 0:
		return in.lookupQN(objectQN)
	case v.typeText == "var":
		if v.value == nil {
			return nil, core.Unsupported("var %s without initializer", name)
		}
		key := v.value.StartByte()
		if in.pending[key] {
			return nil, core.Unsupported("cyclic var initializer of %s", name)
		}
		if in.pending == nil {
			in.pending = make(map[uint]bool)
		}
		in.pending[key] = true
		defer delete(in.pending, key)
		return in.typeOf(v.value)
	}
	return in.typeFromText(v.typeText)
}

// typeFromText 把类型写法解析为 TypeDef；数组按 Object 处理，基本类型没有方法
func (in *inference) typeFromText(text string) (*core.TypeDef, error) {
	if strings.HasSuffix(strings.TrimSpace(text), "...") {
		return in.lookupQN(objectQN)
	}
	base := baseType(text)
	if strings.HasSuffix(base, "]") {
		return in.lookupQN(objectQN)
	}
	if primitiveTypes[base] {
		return nil, core.Unsupported("primitive type %s has no methods", base)
	}
	if def, ok := in.resolveTypeName(base); ok {
		return def, nil
	}
	return nil, core.Unsolved(in.context, core.SimpleName(base))
}

func (in *inference) lookupQN(qn string) (*core.TypeDef, error) {
	if def, ok := in.gc.Lookup(in.fc, qn); ok {
		return def, nil
	}
	return nil, core.Unsolved(in.context, core.SimpleName(qn))
}

// resolveTypeName 的查找顺序：片段内声明、单类型导入、java.lang、通配符导入、同包、全限定名
func (in *inference) resolveTypeName(name string) (*core.TypeDef, bool) {
	name = compactName(name)
	if name == "" {
		return nil, false
	}

	if defs := in.fc.DefinitionsBySN[name]; len(defs) > 0 {
		return defs[0], true
	}

	first, rest := name, ""
	if i := strings.Index(name, "."); i >= 0 {
		first, rest = name[:i], name[i:]
	}
	for _, imp := range in.fc.Imports[first] {
		if imp.IsWildcard || imp.IsStatic {
			continue
		}
		if def, ok := in.gc.Lookup(in.fc, imp.RawImportPath+rest); ok {
			return def, true
		}
	}
	if rest != "" {
		if defs := in.fc.DefinitionsBySN[first]; len(defs) > 0 {
			if def, ok := in.gc.Lookup(in.fc, defs[0].QualifiedName+rest); ok {
				return def, true
			}
		}
	}

	if def, ok := in.gc.Lookup(in.fc, "java.lang."+name); ok {
		return def, true
	}
	for _, imp := range in.fc.Wildcards(false) {
		if def, ok := in.gc.Lookup(in.fc, imp.RawImportPath+"."+name); ok {
			return def, true
		}
	}
	if in.fc.PackageName != "" {
		if def, ok := in.gc.Lookup(in.fc, in.fc.PackageName+"."+name); ok {
			return def, true
		}
	}
	return in.gc.Lookup(in.fc, name)
}

// ================ 作用域 ================

// lookupVariable 由内向外查找变量：局部变量 (必须先于使用处声明)、参数、循环变量、资源、字段
func (in *inference) lookupVariable(name string, at *sitter.Node) (variable, bool) {
	before := at.StartByte()

	for scope := at.Parent(); scope != nil; scope = scope.Parent() {
		switch scope.Kind() {
		case "block", "switch_block_statement_group", "constructor_body":
			for i := uint(0); i < scope.NamedChildCount(); i++ {
				c := scope.NamedChild(i)
				if c.StartByte() >= before {
					break
				}
				if c.Kind() == KindLocalVariable {
					if v, ok := in.declaratorIn(c, name); ok {
						return v, true
					}
				}
			}

		case KindMethodDeclaration, KindConstructorDeclaration, "compact_constructor_declaration":
			if v, ok := in.parameterIn(scope.ChildByFieldName("parameters"), name); ok {
				return v, true
			}

		case "lambda_expression":
			params := scope.ChildByFieldName("parameters")
			if params == nil {
				continue
			}
			switch params.Kind() {
			case KindIdentifier:
				if in.text(params) == name {
					return variable{untyped: true}, true
				}
			case "inferred_parameters":
				for i := uint(0); i < params.NamedChildCount(); i++ {
					if in.text(params.NamedChild(i)) == name {
						return variable{untyped: true}, true
					}
				}
			case "formal_parameters":
				if v, ok := in.parameterIn(params, name); ok {
					return v, true
				}
			}

		case KindEnhancedFor, KindResource:
			if v, ok := in.namedTypedIn(scope, name); ok {
				return v, true
			}

		case "for_statement":
			for i := uint(0); i < scope.NamedChildCount(); i++ {
				c := scope.NamedChild(i)
				if c.Kind() == KindLocalVariable {
					if v, ok := in.declaratorIn(c, name); ok {
						return v, true
					}
				}
			}

		case "catch_clause":
			if p := parser.FindNamedChildOfType(scope, "catch_formal_parameter"); p != nil {
				if n := p.ChildByFieldName("name"); n != nil && in.text(n) == name {
					if ct := parser.FindNamedChildOfType(p, "catch_type"); ct != nil && ct.NamedChild(0) != nil {
						return variable{typeText: in.text(ct.NamedChild(0))}, true
					}
				}
			}

		case "try_with_resources_statement":
			if spec := scope.ChildByFieldName("resources"); spec != nil {
				for i := uint(0); i < spec.NamedChildCount(); i++ {
					if v, ok := in.namedTypedIn(spec.NamedChild(i), name); ok {
						return v, true
					}
				}
			}

		case "class_body", "interface_body", "enum_body_declarations", "annotation_type_body":
			for i := uint(0); i < scope.NamedChildCount(); i++ {
				c := scope.NamedChild(i)
				if c.Kind() == KindFieldDeclaration || c.Kind() == KindConstantDeclaration {
					if v, ok := in.declaratorIn(c, name); ok {
						return v, true
					}
				}
			}

		case KindRecordDeclaration:
			if v, ok := in.parameterIn(scope.ChildByFieldName("parameters"), name); ok {
				return v, true
			}
		}
	}
	return variable{}, false
}

func (in *inference) declaratorIn(decl *sitter.Node, name string) (variable, bool) {
	typ := decl.ChildByFieldName("type")
	if typ == nil {
		return variable{}, false
	}
	for i := uint(0); i < decl.NamedChildCount(); i++ {
		d := decl.NamedChild(i)
		if d.Kind() != KindVariableDeclarator {
			continue
		}
		if n := d.ChildByFieldName("name"); n != nil && in.text(n) == name {
			return variable{
				typeText: in.text(typ),
				dims:     in.dims(d.ChildByFieldName("dimensions")),
				value:    d.ChildByFieldName("value"),
			}, true
		}
	}
	return variable{}, false
}

func (in *inference) parameterIn(params *sitter.Node, name string) (variable, bool) {
	if params == nil {
		return variable{}, false
	}
	for i := uint(0); i < params.NamedChildCount(); i++ {
		p := params.NamedChild(i)
		switch p.Kind() {
		case "formal_parameter":
			if v, ok := in.namedTypedIn(p, name); ok {
				return v, true
			}
		case "spread_parameter":
			d := parser.FindNamedChildOfType(p, KindVariableDeclarator)
			if d == nil {
				continue
			}
			if n := d.ChildByFieldName("name"); n != nil && in.text(n) == name {
				return variable{typeText: "Object", dims: 1}, true
			}
		}
	}
	return variable{}, false
}

// namedTypedIn 匹配带 type/name/dimensions 字段的节点 (参数、for-each、资源)
func (in *inference) namedTypedIn(n *sitter.Node, name string) (variable, bool) {
	nameNode, typ := n.ChildByFieldName("name"), n.ChildByFieldName("type")
	if nameNode == nil || typ == nil || in.text(nameNode) != name {
		return variable{}, false
	}
	return variable{
		typeText: in.text(typ),
		dims:     in.dims(n.ChildByFieldName("dimensions")),
		value:    n.ChildByFieldName("value"),
	}, true
}

func (in *inference) dims(n *sitter.Node) int {
	if n == nil {
		return 0
	}
	return strings.Count(in.text(n), "[")
}

// enclosingTypes 由内向外返回外围类型，匿名类以其父类型的写法命名
func (in *inference) enclosingTypes(at *sitter.Node) []*core.TypeDef {
	var types []*core.TypeDef
	for n := at.Parent(); n != nil; n = n.Parent() {
		if typeDeclarationKinds[n.Kind()] {
			qn := buildQualifiedName(in.fc.PackageName, typeRelName(n, in.src))
			if def, ok := in.fc.DefinitionsByQN[qn]; ok {
				types = append(types, def)
			} else {
				def := buildTypeDef(n, in.src)
				def.QualifiedName = qn
				types = append(types, def)
			}
			continue
		}
		if n.Kind() == "class_body" && n.Parent() != nil && n.Parent().Kind() == KindObjectCreation {
			if typ := n.Parent().ChildByFieldName("type"); typ != nil {
				def := buildTypeDef(n, in.src)
				def.QualifiedName = baseType(in.text(typ))
				def.Name = core.SimpleName(def.QualifiedName)
				def.SuperTypes = []string{in.text(typ)}
				types = append(types, def)
			}
		}
	}
	return types
}

// contextName 返回诊断中使用的上下文：外围方法名或类型名
func contextName(n *sitter.Node, src []byte) string {
	for p := n.Parent(); p != nil; p = p.Parent() {
		switch {
		case p.Kind() == KindMethodDeclaration || p.Kind() == KindConstructorDeclaration || typeDeclarationKinds[p.Kind()]:
			if name := p.ChildByFieldName("name"); name != nil {
				return parser.NodeText(name, src)
			}
		}
	}
	return "fragment"
}

// ================ 名字处理 ================

// baseType 去掉泛型参数与注解：@NonNull Map<K, V>[] -> Map[]
func baseType(text string) string {
	var sb strings.Builder
	depth := 0
	for _, r := range text {
		switch {
		case r == '<':
			depth++
		case r == '>':
			if depth > 0 {
				depth--
			}
		case depth == 0:
			sb.WriteRune(r)
		}
	}
	fields := strings.Fields(sb.String())
	var kept []string
	for _, f := range fields {
		if !strings.HasPrefix(f, "@") {
			kept = append(kept, f)
		}
	}
	return strings.Join(kept, "")
}

func parentName(qn string) string {
	if i := strings.LastIndex(qn, "."); i >= 0 {
		return qn[:i]
	}
	return qn
}

func isQualifiedName(n *sitter.Node) bool {
	switch n.Kind() {
	case KindIdentifier:
		return true
	case KindFieldAccess:
		object, field := n.ChildByFieldName("object"), n.ChildByFieldName("field")
		return object != nil && field != nil && field.Kind() == KindIdentifier && isQualifiedName(object)
	}
	return false
}

func leftmostNode(n *sitter.Node) *sitter.Node {
	for n != nil && n.Kind() == KindFieldAccess {
		n = n.ChildByFieldName("object")
	}
	if n == nil || n.Kind() != KindIdentifier {
		return nil
	}
	return n
}

// looksLikeQualifiedType: 除最后一段外都小写开头，最后一段大写开头
func looksLikeQualifiedType(name string) bool {
	parts := strings.Split(name, ".")
	if len(parts) < 2 {
		return false
	}
	for i, p := range parts {
		if p == "" {
			return false
		}
		upper := unicode.IsUpper([]rune(p)[0])
		if i == len(parts)-1 {
			return upper
		}
		if upper {
			return false
		}
	}
	return false
}
