package proxy

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTransport_HTTPProxy(t *testing.T) {
	var proxied string
	proxySrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		proxied = r.URL.String()
		fmt.Fprint(w, "via proxy")
	}))
	defer proxySrv.Close()

	rt, err := NewTransport(proxySrv.URL)
	require.NoError(t, err)

	client := &http.Client{Transport: rt}
	resp, err := client.Get("http://wallet.example.invalid/api/getAccountInfo")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	assert.Equal(t, "via proxy", string(body))
	assert.Equal(t, "http://wallet.example.invalid/api/getAccountInfo", proxied)
}

func TestNewTransport_BareHostDefaultsToHTTP(t *testing.T) {
	rt, err := NewTransport("user:pass@127.0.0.1:3128")
	require.NoError(t, err)

	tr, ok := rt.(*http.Transport)
	require.True(t, ok)
	req := &http.Request{URL: &url.URL{Scheme: "https", Host: "wallet.fastset.xyz"}}
	u, err := tr.Proxy(req)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:3128", u.Host)
	assert.Equal(t, "user", u.User.Username())
}

func TestNewTransport_Socks5(t *testing.T) {
	rt, err := NewTransport("socks5://127.0.0.1:1080")
	require.NoError(t, err)
	tr, ok := rt.(*http.Transport)
	require.True(t, ok)
	assert.Nil(t, tr.Proxy)
	assert.NotNil(t, tr.DialContext)
}

func TestNewTransport_Unavailable(t *testing.T) {
	for _, raw := range []string{"", "ftp://127.0.0.1:21", "http://", "http://[::1"} {
		rt, err := NewTransport(raw)
		assert.ErrorIs(t, err, ErrUnsupportedProxy, raw)
		assert.Nil(t, rt, raw)
	}
}
