package tokenizer

import (
	"strings"

	"github.com/CodMac/go-treesitter-code-tokenizer/model"
	"github.com/CodMac/go-treesitter-code-tokenizer/processor"
)

// SequenceTokens 把抽取得到的序列拆成 token 并去掉类别前缀；__ERROR__ 与空序列得到空结果
func SequenceTokens(sequence string, unique bool) []string {
	if sequence == "" || sequence == model.ErrorMessage {
		return []string{}
	}

	parts := strings.Split(sequence, processor.SequenceSeparator)
	tokens := make([]string, 0, len(parts))
	for _, p := range parts {
		tokens = append(tokens, model.TrimCategory(p))
	}
	if unique {
		tokens = Unique(tokens)
	}
	return tokens
}

// Unique 去重并保持首次出现的顺序
func Unique(tokens []string) []string {
	seen := make(map[string]bool, len(tokens))
	out := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}
