package middleware

import (
	"net"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/teamstore/keeper/pkg/config"
	"github.com/teamstore/keeper/pkg/identity"
)

// Claims are the token claims the middleware consumes. The object id is the
// only claim the core trusts; the rest seed first-sight provisioning.
type Claims struct {
	DisplayName string `json:"name"`
	Upn         string `json:"upn"`
	TenantID    string `json:"tid"`
	ObjectID    string `json:"oid"`
	jwt.RegisteredClaims
}

// Authenticator validates bearer tokens and attaches a per-request identity
// scope to the context. Every request gets a fresh scope; nothing is shared
// across requests.
type Authenticator struct {
	keyFunc jwt.Keyfunc
	methods []string
}

// NewHMACAuthenticator creates an authenticator for HS256-signed tokens.
func NewHMACAuthenticator(secret []byte) *Authenticator {
	return &Authenticator{
		keyFunc: func(*jwt.Token) (interface{}, error) { return secret, nil },
		methods: []string{jwt.SigningMethodHS256.Alg()},
	}
}

// NewAuthenticator creates an authenticator with a caller-supplied key
// function, for RS256 tokens issued by an external identity provider.
func NewAuthenticator(keyFunc jwt.Keyfunc, methods ...string) *Authenticator {
	if len(methods) == 0 {
		methods = []string{jwt.SigningMethodRS256.Alg()}
	}
	return &Authenticator{keyFunc: keyFunc, methods: methods}
}

// Middleware validates the Authorization header and stores a scope on the
// request context. Requests without a valid token are rejected before any
// handler runs.
func (a *Authenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			http.Error(w, "Authorization missing", http.StatusUnauthorized)
			return
		}

		tokenStr, ok := strings.CutPrefix(authHeader, "Bearer ")
		if !ok {
			http.Error(w, "Malformed authorization header", http.StatusUnauthorized)
			return
		}

		claims := &Claims{}
		_, err := jwt.ParseWithClaims(tokenStr, claims, a.keyFunc, jwt.WithValidMethods(a.methods))
		if err != nil {
			http.Error(w, "Invalid authorization token", http.StatusUnauthorized)
			return
		}
		if claims.ObjectID == "" {
			http.Error(w, "Token carries no object id", http.StatusUnauthorized)
			return
		}

		scope := identity.NewScope(&identity.Principal{
			ObjectID:    claims.ObjectID,
			DisplayName: claims.DisplayName,
			Upn:         claims.Upn,
			TenantID:    claims.TenantID,
		}).WithRemoteIP(clientIP(r))

		next.ServeHTTP(w, r.WithContext(identity.Set(r.Context(), scope)))
	})
}

// clientIP resolves the request origin. X-Forwarded-For is honoured only
// when the direct peer is a configured trusted proxy; otherwise spoofed
// headers would end up on the audit trail.
func clientIP(r *http.Request) net.IP {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}

	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" && config.Get().IsTrustedProxy(host) {
		first := strings.TrimSpace(strings.Split(forwarded, ",")[0])
		if ip := net.ParseIP(first); ip != nil {
			return ip
		}
	}

	return net.ParseIP(host)
}
