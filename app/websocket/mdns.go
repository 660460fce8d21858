package websocket

import (
	"fmt"

	"github.com/grandcat/zeroconf"
)

// ServiceType is the mDNS service under which the server is advertised
const ServiceType = "_restaurantpos._tcp"

// Announce advertises the HTTP server on the local network so waiter and
// kitchen devices can find it without configuration. Call Shutdown on the
// result to withdraw the announcement.
func Announce(instance string, port int) (*zeroconf.Server, error) {
	server, err := zeroconf.Register(
		instance,
		ServiceType,
		"local.",
		port,
		[]string{"version=1.0", "path=/ws"},
		nil, // all interfaces
	)
	if err != nil {
		return nil, fmt.Errorf("failed to register mDNS service: %w", err)
	}
	return server, nil
}
