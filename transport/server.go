package transport

import (
	"bufio"
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/CodMac/go-treesitter-code-tokenizer/model"
	"github.com/google/uuid"
)

// maxLineBytes 限制单行请求 (base64 编码后) 的大小
const maxLineBytes = 64 * 1024 * 1024

// Handler 处理一个解码后的片段，返回要回写的文本
type Handler func(fragment string) string

// Server 是基于行的请求/响应循环：每行是一段 UTF-8 文本的 base64 (标准编码)。
// 请求按顺序逐个处理，每个响应写出后立即 flush。
type Server struct {
	handler Handler
	session string
}

func NewServer(handler Handler) *Server {
	return &Server{
		handler: handler,
		session: uuid.NewString(),
	}
}

func (s *Server) Session() string {
	return s.session
}

// Serve 读取请求直到 __END__ 或输入结束。单行解码失败回写 __ERROR__ 并继续，保持请求与响应一一对应。
func (s *Server) Serve(ctx context.Context, r io.Reader, w io.Writer) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	bw := bufio.NewWriter(w)

	slog.Info("serve.session.start", "session", s.session)
	requests := 0
	defer func() {
		slog.Info("serve.session.end", "session", s.session, "requests", requests)
	}()

	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}

		line := strings.TrimSpace(scanner.Text())
		decoded, err := base64.StdEncoding.DecodeString(line)
		if err != nil {
			slog.Warn("serve.decode.failed", "session", s.session, "err", err)
			if err := s.send(bw, model.ErrorMessage); err != nil {
				return err
			}
			continue
		}

		msg := string(decoded)
		switch msg {
		case model.StartMessage:
			if err := s.send(bw, msg); err != nil {
				return err
			}
			continue
		case model.EndMessage:
			return s.send(bw, msg)
		}

		requests++
		if err := s.send(bw, s.handler(msg)); err != nil {
			return err
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read request: %w", err)
	}
	return nil
}

func (s *Server) send(bw *bufio.Writer, msg string) error {
	if _, err := bw.WriteString(Encode(msg)); err != nil {
		return fmt.Errorf("failed to write response: %w", err)
	}
	if err := bw.WriteByte('\n'); err != nil {
		return fmt.Errorf("failed to write response: %w", err)
	}
	return bw.Flush()
}

// Encode 把文本编码为一行协议消息 (不含换行)
func Encode(msg string) string {
	return base64.StdEncoding.EncodeToString([]byte(msg))
}

// Decode 解码一行协议消息
func Decode(line string) (string, error) {
	b, err := base64.StdEncoding.DecodeString(strings.TrimSpace(line))
	if err != nil {
		return "", err
	}
	return string(b), nil
}
