package java

import _ "embed"

// builtinTypes 是内置的 JDK 类型表，启动时注册到 core
//
//go:embed jdk_types.yaml
var builtinTypes []byte
