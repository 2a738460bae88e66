package web

import (
	"context"
	"net"
	"net/http"

	"github.com/JonMunkholm/sqluploader/internal/core"
)

// withRequestMetadata copies the client address and User-Agent into ctx so
// batch logs can be correlated with the request.
func withRequestMetadata(ctx context.Context, r *http.Request) context.Context {
	// RemoteAddr was already rewritten by TrustedRealIP.
	ip := r.RemoteAddr
	if host, _, err := net.SplitHostPort(ip); err == nil {
		ip = host
	}
	return core.WithClient(ctx, ip, r.Header.Get("User-Agent"))
}
