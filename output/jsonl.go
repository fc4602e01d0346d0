package output

import (
	"encoding/json"
	"io"
	"os"
	"sync"

	"github.com/CodMac/go-treesitter-code-tokenizer/model"
	"github.com/CodMac/go-treesitter-code-tokenizer/processor"
)

// JSONLWriter 每行写一个 JSON 对象，可被多个 goroutine 同时使用
type JSONLWriter struct {
	mu      sync.Mutex
	encoder *json.Encoder
}

func NewJSONLWriter(w io.Writer) *JSONLWriter {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return &JSONLWriter{
		encoder: enc,
	}
}

func (w *JSONLWriter) Write(v interface{}) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.encoder.Encode(v)
}

// ExportResults 把批处理结果写入文件，返回写入的行数
func ExportResults(path string, results []processor.Result) (int, error) {
	f, err := os.Create(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	writer := NewJSONLWriter(f)
	count := 0
	for _, res := range results {
		if err := writer.Write(res); err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}

// WriteEntries 按给定顺序写出条目 (调试用，保留位置信息)
func WriteEntries(w io.Writer, entries []*model.Entry) (int, error) {
	writer := NewJSONLWriter(w)
	count := 0
	for _, e := range entries {
		if err := writer.Write(e); err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}
