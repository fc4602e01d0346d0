package rewriter

import (
	"fmt"
	"sort"
	"strings"

	"github.com/CodMac/go-treesitter-code-tokenizer/model"
	"github.com/CodMac/go-treesitter-code-tokenizer/parser"
)

// Edit 描述对包装源码 [Start, End) 区间的一次修改
type Edit struct {
	Start  uint
	End    uint
	Text   string
	Remove bool // 删除节点；删除后空出的行会整行去掉
}

// Rewriter 根据选项为解析单元生成编辑列表。语法树本身不会被修改。
type Rewriter interface {
	Edits(unit *parser.Unit, opts model.Options) ([]Edit, error)
}

var rewriterMap = make(map[model.Language]Rewriter)

// RegisterRewriter 注册一个语言与其对应的 Rewriter
func RegisterRewriter(lang model.Language, rw Rewriter) {
	rewriterMap[lang] = rw
}

// GetRewriter 根据语言类型获取对应的 Rewriter 实例。
func GetRewriter(lang model.Language) (Rewriter, error) {
	rw, ok := rewriterMap[lang]
	if !ok {
		return nil, fmt.Errorf("no rewriter registered for language: %s", lang)
	}
	return rw, nil
}

// Rewrite 生成编辑列表并渲染出去掉包装后的片段
func Rewrite(unit *parser.Unit, opts model.Options) (string, error) {
	rw, err := GetRewriter(unit.Language)
	if err != nil {
		return "", err
	}
	edits, err := rw.Edits(unit, opts)
	if err != nil {
		return "", fmt.Errorf("failed to build edits: %w", err)
	}
	return Render(unit, edits), nil
}

// 删除标记，渲染时用来识别被删除节点所在的行
const removedMark = "\x00"

// Render 只在片段区间内应用编辑，包装部分永远不会出现在输出中。
// 层级 >= 1 时去掉公共缩进，最后去掉首尾空白。
func Render(unit *parser.Unit, edits []Edit) string {
	fragStart, fragEnd := unit.FragmentRange()

	sorted := make([]Edit, 0, len(edits))
	for _, e := range edits {
		if e.Start < fragStart {
			e.Start = fragStart
		}
		if e.End > fragEnd {
			e.End = fragEnd
		}
		if e.Start >= e.End {
			continue
		}
		sorted = append(sorted, e)
	}
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Start < sorted[j].Start })

	var sb strings.Builder
	cursor := fragStart
	for _, e := range sorted {
		// 与前一个编辑重叠 (嵌套节点) 时以外层为准
		if e.Start < cursor {
			continue
		}
		sb.Write(unit.Source[cursor:e.Start])
		if e.Remove {
			sb.WriteString(removedMark)
		} else {
			sb.WriteString(e.Text)
		}
		cursor = e.End
	}
	sb.Write(unit.Source[cursor:fragEnd])

	out := dropRemovedLines(sb.String())
	if unit.Level != model.WrapRaw {
		out = DedentBody(out)
	}
	return strings.TrimSpace(out)
}

// dropRemovedLines 去掉因删除而变空的行；行尾被删除的注释连同其前面的空白一起去掉
func dropRemovedLines(s string) string {
	if !strings.Contains(s, removedMark) {
		return s
	}

	lines := strings.Split(s, "\n")
	kept := lines[:0]
	for _, line := range lines {
		if !strings.Contains(line, removedMark) {
			kept = append(kept, line)
			continue
		}
		line = strings.ReplaceAll(line, removedMark, "")
		if strings.TrimSpace(line) == "" {
			continue
		}
		kept = append(kept, strings.TrimRight(line, " \t\r"))
	}
	return strings.Join(kept, "\n")
}

// Dedent 去掉所有非空行共同的前导空白
func Dedent(s string) string {
	lines := strings.Split(s, "\n")

	var prefix string
	first := true
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		indent := leadingSpace(line)
		if first {
			prefix, first = indent, false
			continue
		}
		prefix = commonPrefix(prefix, indent)
		if prefix == "" {
			return s
		}
	}
	if prefix == "" {
		return s
	}

	for i, line := range lines {
		lines[i] = strings.TrimPrefix(line, prefix)
	}
	return strings.Join(lines, "\n")
}

// DedentBody 与 Dedent 相同，但首个非空行不参与公共缩进的计算：
// 片段首行紧跟包装前缀，其缩进与后续行无关。首行只去掉与公共缩进重合的部分。
func DedentBody(s string) string {
	lines := strings.Split(s, "\n")

	head := -1
	for i, line := range lines {
		if strings.TrimSpace(line) != "" {
			head = i
			break
		}
	}
	if head < 0 {
		return s
	}

	var prefix string
	found := false
	for _, line := range lines[head+1:] {
		if strings.TrimSpace(line) == "" {
			continue
		}
		if !found {
			prefix, found = leadingSpace(line), true
			continue
		}
		prefix = commonPrefix(prefix, leadingSpace(line))
		if prefix == "" {
			break
		}
	}
	if !found {
		return Dedent(s)
	}
	if prefix == "" {
		return s
	}

	for i, line := range lines {
		if i == head {
			lines[i] = line[len(commonPrefix(leadingSpace(line), prefix)):]
			continue
		}
		lines[i] = strings.TrimPrefix(line, prefix)
	}
	return strings.Join(lines, "\n")
}

func leadingSpace(line string) string {
	return line[:len(line)-len(strings.TrimLeft(line, " \t"))]
}

func commonPrefix(a, b string) string {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	i := 0
	for i < n && a[i] == b[i] {
		i++
	}
	return a[:i]
}
