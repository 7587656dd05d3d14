package access

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/golang/glog"
	"golang.org/x/net/proxy"

	fx "github.com/robotalks/gate.go/pkg/framework"
)

// DefaultTimeout bounds a whole Authorize call.
const DefaultTimeout = 5 * time.Second

// Client connects to the authorization server.
type Client struct {
	// Server is host:port; host may resolve to several addresses.
	Server string
	// Timeout bounds Authorize; zero means DefaultTimeout.
	Timeout time.Duration
	// SOCKS5 is an optional proxy address.
	SOCKS5 string

	// LookupHost resolves the server host; nil uses net.DefaultResolver.
	LookupHost func(ctx context.Context, host string) ([]string, error)
	Dialer     net.Dialer
}

// contextDialer is implemented by the SOCKS5 dialer of x/net/proxy.
type contextDialer interface {
	DialContext(ctx context.Context, network, address string) (net.Conn, error)
}

// NewClient creates a Client for server.
func NewClient(server string) *Client {
	return &Client{Server: server, Timeout: DefaultTimeout}
}

// Dial connects to the first reachable address of the server.
func (c *Client) Dial(ctx context.Context) (*Conn, error) {
	host, port, err := net.SplitHostPort(c.Server)
	if err != nil {
		return nil, fmt.Errorf("access: server %q: %w", c.Server, err)
	}
	if c.SOCKS5 != "" {
		return c.dialProxy(ctx)
	}
	lookup := c.LookupHost
	if lookup == nil {
		lookup = net.DefaultResolver.LookupHost
	}
	addrs, err := lookup(ctx, host)
	if err != nil {
		return nil, fmt.Errorf("access: resolve %q: %w", host, err)
	}
	var errs fx.AggregatedError
	for _, addr := range addrs {
		target := net.JoinHostPort(addr, port)
		conn, err := c.Dialer.DialContext(ctx, "tcp", target)
		if err == nil {
			glog.V(2).Infof("access: connected to %s", target)
			return &Conn{Conn: conn}, nil
		}
		glog.V(2).Infof("access: dial %s: %v", target, err)
		errs.Add(err)
		if ctx.Err() != nil {
			break
		}
	}
	if err := errs.Aggregate(); err != nil {
		return nil, fmt.Errorf("access: connect %s: %w", c.Server, err)
	}
	return nil, fmt.Errorf("access: no address for %q", host)
}

func (c *Client) dialProxy(ctx context.Context) (*Conn, error) {
	// no forward dialer: the proxy connection and handshake then follow ctx
	dialer, err := proxy.SOCKS5("tcp", c.SOCKS5, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("access: socks5 %s: %w", c.SOCKS5, err)
	}
	cd, ok := dialer.(contextDialer)
	if !ok {
		return nil, fmt.Errorf("access: socks5 %s: dialer %T does not accept a context", c.SOCKS5, dialer)
	}
	// the proxy resolves the server name
	conn, err := cd.DialContext(ctx, "tcp", c.Server)
	if err != nil {
		return nil, fmt.Errorf("access: connect %s via %s: %w", c.Server, c.SOCKS5, err)
	}
	return &Conn{Conn: conn}, nil
}

// Authorize performs a complete access check. Any failure, including
// the timeout, returns false with the error.
func (c *Client) Authorize(ctx context.Context, req Request) (bool, error) {
	timeout := c.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	conn, err := c.Dial(ctx)
	if err != nil {
		return false, err
	}
	if deadline, ok := ctx.Deadline(); ok {
		conn.SetDeadline(deadline)
	}
	var resp string
	err = fx.RunWithContextCloser(ctx, conn, func() error {
		if err := conn.SendRequest(req); err != nil {
			return err
		}
		resp, err = conn.ReceiveResponse()
		return err
	})
	if err != nil {
		return false, fmt.Errorf("access: %s: %w", req, err)
	}
	granted := IsGranted(resp)
	glog.V(1).Infof("access: %s -> %q granted=%v", req, resp, granted)
	return granted, nil
}
