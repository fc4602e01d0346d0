package transport

import (
	"bufio"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CodMac/go-treesitter-code-tokenizer/model"
)

func upper(s string) string {
	if s == "fail" {
		return model.ErrorMessage
	}
	return strings.ToUpper(s)
}

// startServer 在管道上启动服务端，返回客户端使用的读写端
func startServer(t *testing.T, handler Handler) (io.Reader, io.WriteCloser, <-chan error) {
	t.Helper()
	reqR, reqW := io.Pipe()
	respR, respW := io.Pipe()

	done := make(chan error, 1)
	go func() {
		err := NewServer(handler).Serve(context.Background(), reqR, respW)
		respW.Close()
		done <- err
	}()
	t.Cleanup(func() { reqW.Close() })
	return respR, reqW, done
}

func TestServer_Serve(t *testing.T) {
	input := strings.Join([]string{
		Encode(model.StartMessage),
		Encode("hello"),
		"!!not base64!!",
		Encode("fail"),
		Encode("多字节 ok"),
		Encode(model.EndMessage),
		Encode("after end"),
	}, "\n") + "\n"

	var out strings.Builder
	err := NewServer(upper).Serve(context.Background(), strings.NewReader(input), &out)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	var decoded []string
	for _, l := range lines {
		d, err := Decode(l)
		require.NoError(t, err)
		decoded = append(decoded, d)
	}
	assert.Equal(t, []string{
		model.StartMessage,
		"HELLO",
		model.ErrorMessage,
		model.ErrorMessage,
		"多字节 OK",
		model.EndMessage,
	}, decoded)
}

func TestServer_EOFWithoutEnd(t *testing.T) {
	var out strings.Builder
	err := NewServer(upper).Serve(context.Background(), strings.NewReader(Encode("a")+"\n"), &out)
	require.NoError(t, err)
	assert.Equal(t, Encode("A")+"\n", out.String())
}

func TestServer_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out strings.Builder
	err := NewServer(upper).Serve(ctx, strings.NewReader(Encode("a")+"\n"), &out)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestServer_Session(t *testing.T) {
	a, b := NewServer(upper), NewServer(upper)
	assert.NotEmpty(t, a.Session())
	assert.NotEqual(t, a.Session(), b.Session())
}

func TestClient_RoundTrip(t *testing.T) {
	r, w, done := startServer(t, upper)

	client, err := NewClient(r, w)
	require.NoError(t, err)

	for _, msg := range []string{"one", "two\nlines", ""} {
		reply, err := client.Send(msg)
		require.NoError(t, err)
		assert.Equal(t, strings.ToUpper(msg), reply)
	}

	reply, err := client.Send("fail")
	require.NoError(t, err)
	assert.Equal(t, model.ErrorMessage, reply)

	require.NoError(t, client.Close())
	require.NoError(t, <-done)
}

func TestClient_HandshakeFailure(t *testing.T) {
	reqR, reqW := io.Pipe()
	respR, respW := io.Pipe()

	// 服务端不回显 __START__
	go func() {
		br := bufio.NewReader(reqR)
		_, _ = br.ReadString('\n')
		_, _ = io.WriteString(respW, Encode("nope")+"\n")
	}()

	_, err := NewClient(respR, reqW)
	assert.ErrorIs(t, err, ErrHandshake)
}

func TestClient_BadResponse(t *testing.T) {
	reqR, reqW := io.Pipe()
	respR, respW := io.Pipe()

	go func() {
		br := bufio.NewReader(reqR)
		_, _ = br.ReadString('\n')
		_, _ = io.WriteString(respW, Encode(model.StartMessage)+"\n")
		_, _ = br.ReadString('\n')
		_, _ = io.WriteString(respW, "%%%\n")
	}()

	client, err := NewClient(respR, reqW)
	require.NoError(t, err)

	// 无法解码的响应折叠为 __ERROR__
	reply, err := client.Send("x")
	require.NoError(t, err)
	assert.Equal(t, model.ErrorMessage, reply)
}
