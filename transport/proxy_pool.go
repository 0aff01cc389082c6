package transport

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/net/proxy"
)

const (
	DirectHost      = "direct"
	defaultCooldown = 30 * time.Second
)

// ProxyPool hands out HTTP clients round-robin, skipping proxies that are on a
// rate-limit cooldown or were used less than minInterval ago.
type ProxyPool struct {
	logger      *slog.Logger
	clients     []*http.Client
	hosts       []string
	index       atomic.Uint64
	cooldowns   map[int]time.Time
	lastUsed    map[int]time.Time
	successes   map[int]int
	failures    map[int]int
	mu          sync.RWMutex
	minInterval time.Duration
	cooldown    time.Duration
}

type ProxyStats struct {
	Successes int
	Failures  int
}

// NewProxyPool builds one client per distinct proxy URL. socks5:// proxies
// dial through golang.org/x/net/proxy, http(s):// proxies use the standard
// proxy transport. An empty list yields a pool with a single direct client.
func NewProxyPool(logger *slog.Logger, proxyURLs []string, minInterval time.Duration) (*ProxyPool, error) {
	pool := &ProxyPool{
		logger:      logger,
		cooldowns:   make(map[int]time.Time),
		lastUsed:    make(map[int]time.Time),
		successes:   make(map[int]int),
		failures:    make(map[int]int),
		minInterval: minInterval,
		cooldown:    defaultCooldown,
	}

	seen := make(map[string]bool)
	for _, proxyURL := range proxyURLs {
		if proxyURL == "" || seen[proxyURL] {
			continue
		}
		seen[proxyURL] = true

		parsed, err := url.Parse(proxyURL)
		if err != nil {
			return nil, errors.Wrap(err, "parse proxy url")
		}
		client, err := createClient(parsed)
		if err != nil {
			return nil, errors.Wrapf(err, "create client for proxy %s", parsed.Host)
		}
		pool.clients = append(pool.clients, client)
		pool.hosts = append(pool.hosts, parsed.Host)
	}

	if len(pool.clients) == 0 {
		pool.clients = []*http.Client{{Transport: http.DefaultTransport.(*http.Transport).Clone()}}
		pool.hosts = []string{DirectHost}
		pool.minInterval = 0
	}

	logger.Info("proxy pool created", "count", len(pool.clients), "hosts", pool.hosts)
	return pool, nil
}

func createClient(parsed *url.URL) (*http.Client, error) {
	client := &http.Client{}

	switch parsed.Scheme {
	case "http", "https":
		client.Transport = &http.Transport{Proxy: http.ProxyURL(parsed)}
	case "socks5", "socks5h":
		var auth *proxy.Auth
		if parsed.User != nil {
			password, _ := parsed.User.Password()
			auth = &proxy.Auth{
				User:     parsed.User.Username(),
				Password: password,
			}
		}

		dialer, err := proxy.SOCKS5("tcp", parsed.Host, auth, proxy.Direct)
		if err != nil {
			return nil, err
		}

		client.Transport = &http.Transport{
			DialContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
				if cd, ok := dialer.(proxy.ContextDialer); ok {
					return cd.DialContext(ctx, network, addr)
				}
				return dialer.Dial(network, addr)
			},
		}
	default:
		return nil, errors.Errorf("unsupported proxy scheme %q", parsed.Scheme)
	}

	return client, nil
}

// Next returns the next usable client and its host label. When every proxy is
// busy it waits for the soonest one, or until ctx is done.
func (p *ProxyPool) Next(ctx context.Context) (*http.Client, string, error) {
	n := len(p.clients)

	for {
		p.mu.Lock()
		now := time.Now()

		for attempt := 0; attempt < n; attempt++ {
			i := int((p.index.Add(1) - 1) % uint64(n))

			if until, ok := p.cooldowns[i]; ok && now.Before(until) {
				continue
			}
			if last, ok := p.lastUsed[i]; ok && now.Sub(last) < p.minInterval {
				continue
			}

			p.lastUsed[i] = now
			p.mu.Unlock()
			return p.clients[i], p.hosts[i], nil
		}

		var soonest time.Time
		for i := 0; i < n; i++ {
			availableAt := p.lastUsed[i].Add(p.minInterval)
			if until, ok := p.cooldowns[i]; ok && until.After(availableAt) {
				availableAt = until
			}
			if soonest.IsZero() || availableAt.Before(soonest) {
				soonest = availableAt
			}
		}
		p.mu.Unlock()

		wait := time.Until(soonest)
		if wait <= 0 {
			continue
		}
		p.logger.Debug("all proxies busy, waiting", "wait_ms", wait.Milliseconds())

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, "", errors.Wrap(ctx.Err(), "wait for proxy")
		case <-timer.C:
		}
	}
}

// MarkRateLimited puts a proxy on cooldown. The direct client has nothing to
// rotate to and is left alone.
func (p *ProxyPool) MarkRateLimited(host string) {
	if host == DirectHost {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if i := p.indexOf(host); i >= 0 {
		p.cooldowns[i] = time.Now().Add(p.cooldown)
		p.logger.Debug("proxy on cooldown", "host", host, "duration_seconds", p.cooldown.Seconds())
	}
}

func (p *ProxyPool) MarkSuccess(host string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if i := p.indexOf(host); i >= 0 {
		p.successes[i]++
	}
}

func (p *ProxyPool) MarkFailure(host string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if i := p.indexOf(host); i >= 0 {
		p.failures[i]++
	}
}

// Stats returns success and failure counts keyed by proxy host.
func (p *ProxyPool) Stats() map[string]ProxyStats {
	p.mu.RLock()
	defer p.mu.RUnlock()

	stats := make(map[string]ProxyStats, len(p.hosts))
	for i, h := range p.hosts {
		stats[h] = ProxyStats{Successes: p.successes[i], Failures: p.failures[i]}
	}
	return stats
}

func (p *ProxyPool) indexOf(host string) int {
	for i, h := range p.hosts {
		if h == host {
			return i
		}
	}
	return -1
}
