package transport

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/exec"

	"github.com/CodMac/go-treesitter-code-tokenizer/model"
)

// ErrHandshake 表示服务端没有按协议回显 __START__ / __END__
var ErrHandshake = errors.New("transport handshake failed")

// DefaultMaxMessages 是客户端自动重启服务进程前发送的消息数
const DefaultMaxMessages = 200000

// Client 是行协议的客户端，一次只允许一个未完成的请求。
type Client struct {
	// MaxMessages 达到后重启服务进程，0 表示不重启 (只对 StartProcess 创建的客户端生效)
	MaxMessages int

	r    *bufio.Reader
	w    io.Writer
	sent int

	// 由 StartProcess 设置
	ctx  context.Context
	name string
	args []string
	cmd  *exec.Cmd
}

// NewClient 在给定的读写端上完成 __START__ 握手
func NewClient(r io.Reader, w io.Writer) (*Client, error) {
	c := &Client{MaxMessages: DefaultMaxMessages}
	if err := c.attach(r, w); err != nil {
		return nil, err
	}
	return c, nil
}

// StartProcess 启动服务进程 (例如 "codetok serve true") 并完成握手
func StartProcess(ctx context.Context, name string, args ...string) (*Client, error) {
	c := &Client{MaxMessages: DefaultMaxMessages, ctx: ctx, name: name, args: args}
	if err := c.spawn(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Client) spawn() error {
	cmd := exec.CommandContext(c.ctx, c.name, c.args...)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("failed to open stdin: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("failed to open stdout: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start %s: %w", c.name, err)
	}
	c.cmd = cmd

	if err := c.attach(stdout, stdin); err != nil {
		_ = cmd.Process.Kill()
		_ = cmd.Wait()
		return err
	}
	slog.Info("client.connected", "cmd", c.name, "pid", cmd.Process.Pid)
	return nil
}

func (c *Client) attach(r io.Reader, w io.Writer) error {
	c.r = bufio.NewReader(r)
	c.w = w
	c.sent = 0

	reply, err := c.roundTrip(model.StartMessage)
	if err != nil {
		return err
	}
	if reply != model.StartMessage {
		return fmt.Errorf("%w: got %q", ErrHandshake, reply)
	}
	return nil
}

// Send 发送一个片段并等待结果
func (c *Client) Send(fragment string) (string, error) {
	if c.cmd != nil && c.MaxMessages > 0 && c.sent >= c.MaxMessages {
		if err := c.Restart(); err != nil {
			return "", err
		}
	}
	c.sent++

	reply, err := c.roundTrip(fragment)
	if err != nil {
		var decodeErr *decodeError
		if errors.As(err, &decodeErr) {
			slog.Warn("client.decode.failed", "err", err)
			if c.cmd != nil {
				if rerr := c.Restart(); rerr != nil {
					return "", rerr
				}
			}
			return model.ErrorMessage, nil
		}
		return "", err
	}
	return reply, nil
}

// Restart 结束当前服务进程并重新启动
func (c *Client) Restart() error {
	if c.cmd == nil {
		return fmt.Errorf("client is not attached to a process")
	}
	slog.Info("client.restart", "cmd", c.name, "messages", c.sent)
	_ = c.cmd.Process.Kill()
	_ = c.cmd.Wait()
	return c.spawn()
}

// Close 发送 __END__，等待回显并回收进程
func (c *Client) Close() error {
	reply, err := c.roundTrip(model.EndMessage)
	if c.cmd != nil {
		if closer, ok := c.w.(io.Closer); ok {
			_ = closer.Close()
		}
		_ = c.cmd.Wait()
	}
	if err != nil {
		return err
	}
	if reply != model.EndMessage {
		return fmt.Errorf("%w: got %q on close", ErrHandshake, reply)
	}
	return nil
}

type decodeError struct{ err error }

func (e *decodeError) Error() string { return "failed to decode response: " + e.err.Error() }
func (e *decodeError) Unwrap() error { return e.err }

func (c *Client) roundTrip(msg string) (string, error) {
	if _, err := io.WriteString(c.w, Encode(msg)+"\n"); err != nil {
		return "", fmt.Errorf("failed to write request: %w", err)
	}
	line, err := c.r.ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("failed to read response: %w", err)
	}
	reply, err := Decode(line)
	if err != nil {
		return "", &decodeError{err: err}
	}
	return reply, nil
}
