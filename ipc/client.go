package ipc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/lixenwraith/liquid-glass/command"
	"github.com/lixenwraith/liquid-glass/glass"
)

// Client talks to a control server over its websocket endpoint
// Command and Watch share the connection reader and must not run concurrently
type Client struct {
	conn   *websocket.Conn
	mu     sync.Mutex
	nextID uint64
}

// baseURL normalizes addr to an http URL without a trailing slash
func baseURL(addr string) string {
	if !strings.HasPrefix(addr, "http://") && !strings.HasPrefix(addr, "https://") {
		addr = "http://" + addr
	}
	return strings.TrimSuffix(addr, "/")
}

// Dial connects to the server at addr (host:port or http URL)
func Dial(ctx context.Context, addr string) (*Client, error) {
	u := baseURL(addr)
	u = "ws" + strings.TrimPrefix(u, "http") + "/v1/ws"

	conn, _, err := websocket.Dial(ctx, u, nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", u, err)
	}
	return &Client{conn: conn}, nil
}

// Command executes line in node's scope and waits for its result
// Config events arriving meanwhile are discarded
func (c *Client) Command(ctx context.Context, node glass.NodeID, line string) (command.Result, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.nextID++
	id := c.nextID
	if err := wsjson.Write(ctx, c.conn, Message{Type: TypeCommand, ID: id, Command: line, Node: node}); err != nil {
		return command.Result{}, fmt.Errorf("send command: %w", err)
	}

	for {
		var msg Message
		if err := wsjson.Read(ctx, c.conn, &msg); err != nil {
			return command.Result{}, fmt.Errorf("read result: %w", err)
		}
		if msg.ID != id {
			continue
		}
		switch msg.Type {
		case TypeResult:
			if msg.Result == nil {
				return command.Result{}, fmt.Errorf("empty result for command %d", id)
			}
			return *msg.Result, nil
		case TypeError:
			return command.Result{}, fmt.Errorf("server: %s", msg.Error)
		}
	}
}

// Watch calls fn for each config event until ctx ends or the server closes
func (c *Client) Watch(ctx context.Context, fn func(ConfigReply)) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for {
		var msg Message
		if err := wsjson.Read(ctx, c.conn, &msg); err != nil {
			if ctx.Err() != nil || websocket.CloseStatus(err) == websocket.StatusGoingAway {
				return nil
			}
			return fmt.Errorf("read event: %w", err)
		}
		if msg.Type == TypeConfig && msg.Config != nil {
			fn(*msg.Config)
		}
	}
}

// Close ends the session with a normal closure
func (c *Client) Close() error {
	return c.conn.Close(websocket.StatusNormalClosure, "")
}

// PostScript uploads a directive script to POST /v1/script
func PostScript(ctx context.Context, addr string, node glass.NodeID, script []byte) (ScriptReply, error) {
	u := baseURL(addr) + "/v1/script"
	if node != 0 {
		u += "?node=" + strconv.FormatUint(uint64(node), 10)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(script))
	if err != nil {
		return ScriptReply{}, err
	}
	req.Header.Set("Content-Type", "text/plain")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return ScriptReply{}, fmt.Errorf("post script: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return ScriptReply{}, fmt.Errorf("read reply: %w", err)
	}

	var reply ScriptReply
	err = json.Unmarshal(body, &reply)
	if err != nil || (resp.StatusCode != http.StatusOK && reply.Result.Error == "") {
		return ScriptReply{}, fmt.Errorf("server returned %s: %s", resp.Status, strings.TrimSpace(string(body)))
	}
	return reply, nil
}
