// Package proxy turns proxy URLs from PROXIES or proxy.txt into HTTP transports.
package proxy

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	xproxy "golang.org/x/net/proxy"
)

var ErrUnsupportedProxy = errors.New("unsupported proxy")

// NewTransport returns a transport that routes through proxyURL. http and https proxies use
// CONNECT; socks5 and socks5h dial through x/net/proxy. On any error the transport is nil and
// the caller is expected to continue without a proxy.
func NewTransport(proxyURL string) (http.RoundTripper, error) {
	raw := strings.TrimSpace(proxyURL)
	if raw == "" {
		return nil, fmt.Errorf("%w: empty url", ErrUnsupportedProxy)
	}
	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedProxy, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("%w: missing host in %q", ErrUnsupportedProxy, proxyURL)
	}

	base := &http.Transport{
		MaxIdleConns:          10,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: time.Second,
	}

	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		base.Proxy = http.ProxyURL(u)
		return base, nil
	case "socks5", "socks5h":
		dialer, err := xproxy.FromURL(u, xproxy.Direct)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnsupportedProxy, err)
		}
		if cd, ok := dialer.(xproxy.ContextDialer); ok {
			base.DialContext = cd.DialContext
		} else {
			base.DialContext = func(_ context.Context, network, addr string) (net.Conn, error) {
				return dialer.Dial(network, addr)
			}
		}
		return base, nil
	default:
		return nil, fmt.Errorf("%w: scheme %q", ErrUnsupportedProxy, u.Scheme)
	}
}
