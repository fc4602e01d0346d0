package java

// --- Tree-sitter Java 节点类型 ---

const (
	KindProgram            = "program"
	KindPackageDeclaration = "package_declaration"
	KindImportDeclaration  = "import_declaration"
	KindLineComment        = "line_comment"
	KindBlockComment       = "block_comment"

	KindClassDeclaration      = "class_declaration"
	KindInterfaceDeclaration  = "interface_declaration"
	KindEnumDeclaration       = "enum_declaration"
	KindRecordDeclaration     = "record_declaration"
	KindAnnotationDeclaration = "annotation_type_declaration"
	KindModuleDeclaration     = "module_declaration"

	KindMethodDeclaration      = "method_declaration"
	KindConstructorDeclaration = "constructor_declaration"
	KindFieldDeclaration       = "field_declaration"
	KindConstantDeclaration    = "constant_declaration"
	KindLocalVariable          = "local_variable_declaration"
	KindVariableDeclarator     = "variable_declarator"
	KindEnhancedFor            = "enhanced_for_statement"
	KindResource               = "resource"

	KindObjectCreation   = "object_creation_expression"
	KindMethodInvocation = "method_invocation"
	KindFieldAccess      = "field_access"
	KindIdentifier       = "identifier"
)

// --- 字面量占位符 ---

const (
	PlaceholderChar    = "__char__"
	PlaceholderDouble  = "__double__"
	PlaceholderInteger = "__integer__"
	PlaceholderLong    = "__long__"
	PlaceholderString  = "__string__"
	PlaceholderBoolean = "__boolean__"
	PlaceholderNull    = "null"
	PlaceholderUnknown = "unk"
)

var typeDeclarationKinds = map[string]bool{
	KindClassDeclaration:      true,
	KindInterfaceDeclaration:  true,
	KindEnumDeclaration:       true,
	KindRecordDeclaration:     true,
	KindAnnotationDeclaration: true,
}

var primitiveTypes = map[string]bool{
	"boolean": true, "byte": true, "char": true, "short": true,
	"int": true, "long": true, "float": true, "double": true, "void": true,
}
