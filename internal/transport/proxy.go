package transport

import (
	"context"
	"errors"
	"fmt"
	"net"

	"golang.org/x/net/proxy"
)

// ErrProxyNoContext is returned when the SOCKS5 dialer cannot honor contexts.
var ErrProxyNoContext = errors.New("proxy dialer does not support contexts")

// socks5DialContext returns a DialContext function that connects through the
// SOCKS5 proxy at addr.
func socks5DialContext(addr string) (func(ctx context.Context, network, address string) (net.Conn, error), error) {
	if _, _, err := net.SplitHostPort(addr); err != nil {
		return nil, fmt.Errorf("invalid proxy address %q: %w", addr, err)
	}

	dialer, err := proxy.SOCKS5("tcp", addr, nil, proxy.Direct)
	if err != nil {
		return nil, fmt.Errorf("failed to create SOCKS5 dialer: %w", err)
	}

	cd, ok := dialer.(proxy.ContextDialer)
	if !ok {
		return nil, ErrProxyNoContext
	}
	return cd.DialContext, nil
}
