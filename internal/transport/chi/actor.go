package chi

import (
	"net/http"
	"strings"

	"github.com/kailas-cloud/ongsearch/internal/domain/actor"
)

// Actor headers set by the upstream gateway.
const (
	HeaderUserID         = "X-User-ID"
	HeaderOrganizationID = "X-Organization-ID"
)

// ActorMiddleware stores the caller identifiers from the request headers in the context.
// Missing headers leave the corresponding field empty.
func ActorMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		a := actor.Actor{
			UserID:         strings.TrimSpace(r.Header.Get(HeaderUserID)),
			OrganizationID: strings.TrimSpace(r.Header.Get(HeaderOrganizationID)),
		}
		if a.IsZero() {
			next.ServeHTTP(w, r)
			return
		}
		next.ServeHTTP(w, r.WithContext(actor.WithActor(r.Context(), a)))
	})
}
