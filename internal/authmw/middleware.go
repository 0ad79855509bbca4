package authmw

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/MicahParks/keyfunc/v2"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"kyri56xcaesar/pms-dash/internal/utils"
)

const identityKey = "kc.identity"

type KeycloakAuth struct {
	Issuer   string // e.g. http://localhost:8080/realms/myrealm
	Audience string // checked only when set
	ClientID string // for client roles under resource_access[ClientID].roles

	Keyfunc jwt.Keyfunc
	Methods []string
	// optional clock skew
	Leeway time.Duration

	jwks *keyfunc.JWKS
}

// NewKeycloakAuth fetches the realm JWKS once and keeps it refreshed in the
// background.
func NewKeycloakAuth(jwksURL, issuer, audience, clientID string) (*KeycloakAuth, error) {
	jwks, err := keyfunc.Get(jwksURL, keyfunc.Options{
		RefreshInterval:  time.Hour,
		RefreshRateLimit: time.Minute * 5,
		RefreshTimeout:   time.Second * 10,
	})
	if err != nil {
		return nil, err
	}

	return &KeycloakAuth{
		Issuer:   issuer,
		Audience: audience,
		ClientID: clientID,
		Keyfunc:  jwks.Keyfunc,
		Methods:  []string{"RS256"},
		Leeway:   30 * time.Second,
		jwks:     jwks,
	}, nil
}

// Close stops the background JWKS refresh.
func (a *KeycloakAuth) Close() {
	if a.jwks != nil {
		a.jwks.EndBackground()
	}
}

type KCClaims struct {
	jwt.RegisteredClaims

	PreferredUsername string `json:"preferred_username"`
	Email             string `json:"email"`
	Name              string `json:"name"`

	RealmAccess struct {
		Roles []string `json:"roles"`
	} `json:"realm_access"`

	ResourceAccess map[string]struct {
		Roles []string `json:"roles"`
	} `json:"resource_access"`
}

// Identity is the caller as seen by handlers.
type Identity struct {
	Subject  string
	Username string
	Email    string
	Roles    []string
}

func (a *KeycloakAuth) RequireRoles(anyOf ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr, err := extractAccessToken(c)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}

		opts := []jwt.ParserOption{
			jwt.WithIssuer(a.Issuer),
			jwt.WithLeeway(a.Leeway),
			jwt.WithValidMethods(a.Methods),
		}
		if a.Audience != "" {
			opts = append(opts, jwt.WithAudience(a.Audience))
		}

		claims := &KCClaims{}
		if _, err := jwt.ParseWithClaims(tokenStr, claims, a.Keyfunc, opts...); err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		id := Identity{
			Subject:  claims.Subject,
			Username: claims.PreferredUsername,
			Email:    claims.Email,
			Roles:    collectRoles(claims, a.ClientID),
		}
		c.Set(identityKey, id)

		if !hasAnyRole(id.Roles, anyOf...) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "insufficient role"})
			return
		}

		c.Next()
	}
}

// IdentityFrom returns the identity stored by RequireRoles.
func IdentityFrom(c *gin.Context) (Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return Identity{}, false
	}
	id, ok := v.(Identity)
	return id, ok
}

// --- helpers ---

func extractAccessToken(c *gin.Context) (string, error) {
	// 1) Authorization: Bearer <token>
	authz := c.GetHeader("Authorization")
	if strings.HasPrefix(strings.ToLower(authz), "bearer ") {
		return strings.TrimSpace(authz[7:]), nil
	}

	// 2) cookie fallback
	if cookie, err := c.Cookie("access_token"); err == nil && cookie != "" {
		return cookie, nil
	}

	return "", errors.New("missing access token")
}

func collectRoles(claims *KCClaims, clientID string) []string {
	out := make([]string, 0, 16)

	// realm roles
	out = append(out, claims.RealmAccess.Roles...)

	// client roles (resource_access)
	if clientID != "" && claims.ResourceAccess != nil {
		if ra, ok := claims.ResourceAccess[clientID]; ok {
			out = append(out, ra.Roles...)
		}
	}

	return utils.Uniq(out)
}

func hasAnyRole(userRoles []string, anyOf ...string) bool {
	for _, required := range anyOf {
		if utils.Contains(userRoles, required) {
			return true
		}
	}
	return false
}
