package server

import (
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/sngm3741/cafe-finder/api/internal/cafe/domain"
	"github.com/sngm3741/cafe-finder/api/internal/config"
	commonhttp "github.com/sngm3741/cafe-finder/api/internal/interfaces/http/common"
)

var errInvalidToken = errors.New("access token is invalid")

type authClaims struct {
	jwt.RegisteredClaims
	Name              string   `json:"name,omitempty"`
	PreferredUsername string   `json:"preferred_username,omitempty"`
	Roles             []string `json:"roles,omitempty"`
}

// principal maps token claims onto the caller seen by the core. Unknown role
// names are ignored; a token without roles acts as a plain USER.
func (c *authClaims) principal() domain.Principal {
	p := domain.Principal{ID: c.Subject, Username: c.PreferredUsername}
	if p.Username == "" {
		p.Username = c.Name
	}
	for _, name := range c.Roles {
		role, ok := domain.ParseRole(name)
		if ok && !p.Has(role) {
			p.Roles = append(p.Roles, role)
		}
	}
	if len(p.Roles) == 0 {
		p.Roles = []domain.Role{domain.RoleUser}
	}
	return p
}

type authenticator struct {
	logger   *zap.Logger
	configs  []config.JWTConfig
	audience string
}

// middleware verifies the bearer token and stores the principal in context.
func (a *authenticator) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := strings.TrimSpace(r.Header.Get("Authorization"))
		if authHeader == "" {
			commonhttp.WriteMessage(a.logger, w, http.StatusUnauthorized, "missing Authorization header")
			return
		}

		const bearerPrefix = "Bearer "
		if !strings.HasPrefix(authHeader, bearerPrefix) {
			commonhttp.WriteMessage(a.logger, w, http.StatusUnauthorized, "a Bearer token is required")
			return
		}

		tokenString := strings.TrimSpace(strings.TrimPrefix(authHeader, bearerPrefix))
		if tokenString == "" {
			commonhttp.WriteMessage(a.logger, w, http.StatusUnauthorized, "access token is empty")
			return
		}

		claims, err := a.parse(tokenString)
		if err != nil {
			a.logger.Debug("token rejected", zap.Error(err))
			commonhttp.WriteMessage(a.logger, w, http.StatusUnauthorized, err.Error())
			return
		}

		ctx := commonhttp.ContextWithPrincipal(r.Context(), claims.principal())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// parse tries each configured issuer in turn and returns the first set of
// claims whose signature, issuer, audience and subject all check out.
func (a *authenticator) parse(tokenString string) (*authClaims, error) {
	if len(a.configs) == 0 {
		return nil, fmt.Errorf("authentication is not configured")
	}

	for _, cfg := range a.configs {
		claims := &authClaims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
			if token.Method != jwt.SigningMethodHS256 {
				return nil, fmt.Errorf("unexpected signing method: %s", token.Method.Alg())
			}
			return cfg.Secret, nil
		}, jwt.WithLeeway(30*time.Second))

		if err != nil || !token.Valid {
			continue
		}
		if cfg.Issuer != "" && claims.Issuer != cfg.Issuer {
			continue
		}
		if claims.Subject == "" {
			continue
		}
		if a.audience != "" && !slices.Contains(claims.Audience, a.audience) {
			continue
		}
		return claims, nil
	}

	return nil, errInvalidToken
}
