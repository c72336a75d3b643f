package web

import (
	"context"
	"net/http"
	"time"
)

// The gateway treats a slow acknowledgment as a failed delivery and
// retries, so settlement gets a hard deadline shorter than the gateway's.
const ipnHandleTimeout = 10 * time.Second

func contextWithIPNTimeout(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), ipnHandleTimeout)
}
