package processor

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"runtime"

	"github.com/CodMac/go-treesitter-code-tokenizer/core"
	"github.com/CodMac/go-treesitter-code-tokenizer/model"
	"golang.org/x/sync/errgroup"
)

// Result 是批处理中单个文件的结果
type Result struct {
	Path   string `json:"path"`
	Mode   string `json:"mode"`
	Output string `json:"output"`
	Error  string `json:"error,omitempty"`
}

// BatchProcessor 并发处理文件列表，每个 worker 持有自己的 Processor，共享只读的类型宇宙。
type BatchProcessor struct {
	Language model.Language
	Options  model.Options
	Mode     model.Mode
	Workers  int // 并发协程数量
	Global   *core.GlobalContext

	// OnResult 在每个文件处理完后调用 (可能来自不同 goroutine)
	OnResult func(Result)
}

// NewBatchProcessor 创建 BatchProcessor 实例
func NewBatchProcessor(lang model.Language, mode model.Mode, opts model.Options, workers int, gc *core.GlobalContext) *BatchProcessor {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &BatchProcessor{
		Language: lang,
		Options:  opts,
		Mode:     mode,
		Workers:  workers,
		Global:   gc,
	}
}

// ProcessFiles 返回与输入顺序一致的结果。单个文件读取失败记录在其 Result 中，不中断整体。
func (bp *BatchProcessor) ProcessFiles(ctx context.Context, filePaths []string) ([]Result, error) {
	if len(filePaths) == 0 {
		return nil, nil
	}

	if bp.Global == nil {
		gc, err := core.NewGlobalContextFor(bp.Language)
		if err != nil {
			return nil, fmt.Errorf("failed to load type universe: %w", err)
		}
		bp.Global = gc
	}

	results := make([]Result, len(filePaths))
	jobs := make(chan int)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer close(jobs)
		for i := range filePaths {
			select {
			case jobs <- i:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return nil
	})

	for w := 0; w < bp.Workers; w++ {
		g.Go(func() error {
			// 确保每个 worker 都有自己的 parser
			proc, err := NewProcessor(bp.Language, bp.Options, bp.Global)
			if err != nil {
				return err
			}
			defer proc.Close()

			for i := range jobs {
				results[i] = bp.processFile(proc, filePaths[i])
				if bp.OnResult != nil {
					bp.OnResult(results[i])
				}
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (bp *BatchProcessor) processFile(proc *Processor, path string) Result {
	res := Result{Path: path, Mode: string(bp.Mode)}

	content, err := os.ReadFile(path)
	if err != nil {
		slog.Warn("batch.file.err", "path", path, "err", err)
		res.Error = err.Error()
		res.Output = model.ErrorMessage
		return res
	}

	res.Output = proc.Process(bp.Mode, string(content))
	return res
}
