package newsapi

import (
	"context"
	"net"
	"net/url"
	"time"
)

// Connectivity reports whether the network is reachable right now.
type Connectivity interface {
	Online(ctx context.Context) bool
}

// AlwaysOnline skips the probe.
type AlwaysOnline struct{}

func (AlwaysOnline) Online(context.Context) bool { return true }

// DialProbe treats a successful TCP dial to Addr as "online".
type DialProbe struct {
	Addr    string
	Timeout time.Duration
}

// NewDialProbe probes addr, or the host of baseURL when addr is empty.
func NewDialProbe(addr, baseURL string, timeout time.Duration) *DialProbe {
	if addr == "" {
		addr = hostPort(baseURL)
	}
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &DialProbe{Addr: addr, Timeout: timeout}
}

func (p *DialProbe) Online(ctx context.Context) bool {
	if p == nil || p.Addr == "" {
		return true
	}
	d := net.Dialer{Timeout: p.Timeout}
	conn, err := d.DialContext(ctx, "tcp", p.Addr)
	if err != nil {
		return false
	}
	_ = conn.Close()
	return true
}

func hostPort(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Hostname() == "" {
		return ""
	}
	if port := u.Port(); port != "" {
		return net.JoinHostPort(u.Hostname(), port)
	}
	if u.Scheme == "http" {
		return net.JoinHostPort(u.Hostname(), "80")
	}
	return net.JoinHostPort(u.Hostname(), "443")
}
