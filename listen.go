package minihttpd

import (
	"context"
	"net"
	"strings"
)

// Listen opens addr, which may carry a "tcp:", "tcp4:", "tcp6:" or
// "unix:" prefix; a bare address is TCP. Go listeners set SO_REUSEADDR
// on Unix already.
func Listen(ctx context.Context, addr string) (net.Listener, error) {
	var lc net.ListenConfig
	protos := strings.SplitN(addr, ":", 2)
	switch protos[0] {
	case "unix", "tcp", "tcp4", "tcp6":
		if len(protos) == 2 {
			return lc.Listen(ctx, protos[0], protos[1])
		}
	}
	return lc.Listen(ctx, "tcp", addr)
}
