package runner

import (
	"net/http"
	"sync"
)

// ClientFactory builds an API client. A nil transport means a direct connection.
type ClientFactory func(transport http.RoundTripper) API

// TransportFactory builds a transport for a proxy URL, or returns an error when the proxy
// cannot be used.
type TransportFactory func(proxyURL string) (http.RoundTripper, error)

// ClientPool keeps one API client per proxy URL so that all sends of an account reuse the
// same connection settings.
type ClientPool struct {
	mu           sync.Mutex
	clients      map[string]API
	newClient    ClientFactory
	newTransport TransportFactory
	display      Display
}

func NewClientPool(newClient ClientFactory, newTransport TransportFactory, display Display) *ClientPool {
	if display == nil {
		display = nopDisplay{}
	}
	return &ClientPool{
		clients:      make(map[string]API),
		newClient:    newClient,
		newTransport: newTransport,
		display:      display,
	}
}

// ClientFor returns the client for proxyURL; "" is the direct client. A proxy whose transport
// cannot be built falls back to the direct client, once per URL.
func (p *ClientPool) ClientFor(proxyURL string) API {
	p.mu.Lock()
	defer p.mu.Unlock()

	if c, ok := p.clients[proxyURL]; ok {
		return c
	}
	if proxyURL == "" || p.newTransport == nil {
		return p.directLocked(proxyURL)
	}

	rt, err := p.newTransport(proxyURL)
	if err != nil || rt == nil {
		p.display.Log(LevelWarning, "Proxy unavailable, continuing without proxy: "+describeErr(err))
		return p.directLocked(proxyURL)
	}
	c := p.newClient(rt)
	p.clients[proxyURL] = c
	return c
}

func (p *ClientPool) directLocked(key string) API {
	c, ok := p.clients[""]
	if !ok {
		c = p.newClient(nil)
		p.clients[""] = c
	}
	p.clients[key] = c
	return c
}

// Size reports how many distinct clients have been built.
func (p *ClientPool) Size() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	seen := make(map[API]struct{}, len(p.clients))
	for _, c := range p.clients {
		seen[c] = struct{}{}
	}
	return len(seen)
}

func describeErr(err error) string {
	if err == nil {
		return "no transport"
	}
	return err.Error()
}
