package authmw

import (
	"crypto/rand"
	"crypto/rsa"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Nerzal/gocloak/v13"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testIssuer = "http://kc.local/realms/pms"

func newTestAuth(t *testing.T) (*KeycloakAuth, *rsa.PrivateKey) {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	return &KeycloakAuth{
		Issuer:   testIssuer,
		Audience: "pms-dash",
		ClientID: "pms-dash",
		Keyfunc:  func(*jwt.Token) (any, error) { return &key.PublicKey, nil },
		Methods:  []string{"RS256"},
	}, key
}

func sign(t *testing.T, key *rsa.PrivateKey, realmRoles, clientRoles []string) string {
	t.Helper()
	claims := KCClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    testIssuer,
			Subject:   "sub-1",
			Audience:  jwt.ClaimStrings{"pms-dash"},
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		PreferredUsername: "alex",
		Email:             "alex@example.com",
	}
	claims.RealmAccess.Roles = realmRoles
	claims.ResourceAccess = map[string]struct {
		Roles []string `json:"roles"`
	}{"pms-dash": {Roles: clientRoles}}

	s, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(key)
	require.NoError(t, err)
	return s
}

func newRouter(a *KeycloakAuth) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/w", a.RequireRoles("leader", "admin"), func(c *gin.Context) {
		id, _ := IdentityFrom(c)
		c.JSON(http.StatusOK, gin.H{"user": id.Username})
	})
	return r
}

func TestRequireRoles(t *testing.T) {
	a, key := newTestAuth(t)
	r := newRouter(a)

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"missing token", "", http.StatusUnauthorized},
		{"garbage token", "Bearer nope", http.StatusUnauthorized},
		{"realm role", "Bearer " + sign(t, key, []string{"leader"}, nil), http.StatusOK},
		{"client role", "bearer " + sign(t, key, nil, []string{"admin"}), http.StatusOK},
		{"insufficient role", "Bearer " + sign(t, key, []string{"student"}, nil), http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/w", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestRequireRoles_CookieFallback(t *testing.T) {
	a, key := newTestAuth(t)
	r := newRouter(a)

	req := httptest.NewRequest(http.MethodGet, "/w", nil)
	req.AddCookie(&http.Cookie{Name: "access_token", Value: sign(t, key, []string{"admin"}, nil)})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user":"alex"}`, w.Body.String())
}

func TestCollectRoles(t *testing.T) {
	claims := &KCClaims{}
	claims.RealmAccess.Roles = []string{"leader", "", "leader"}
	claims.ResourceAccess = map[string]struct {
		Roles []string `json:"roles"`
	}{
		"pms-dash": {Roles: []string{"admin", "leader"}},
		"other":    {Roles: []string{"root"}},
	}

	assert.Equal(t, []string{"leader", "admin"}, collectRoles(claims, "pms-dash"))
	assert.Equal(t, []string{"leader"}, collectRoles(claims, ""))
}

func TestMemberFromUser(t *testing.T) {
	_, ok := memberFromUser(nil)
	assert.False(t, ok)
	_, ok = memberFromUser(&gocloak.User{})
	assert.False(t, ok)

	attrs := map[string][]string{"role": {"Developer"}, "avatar": {"https://a/x.png"}}
	m, ok := memberFromUser(&gocloak.User{
		ID:         gocloak.StringP("kc-1"),
		Username:   gocloak.StringP("dana"),
		FirstName:  gocloak.StringP("Dana"),
		LastName:   gocloak.StringP("Lee"),
		Email:      gocloak.StringP("dana@example.com"),
		Attributes: &attrs,
	})
	require.True(t, ok)
	assert.Equal(t, "Dana Lee", m.Name)
	assert.Equal(t, "Developer", m.Role)
	assert.Equal(t, "https://a/x.png", m.Avatar)

	m, _ = memberFromUser(&gocloak.User{ID: gocloak.StringP("kc-2"), Username: gocloak.StringP("sam")})
	assert.Equal(t, "sam", m.Name)
	assert.Equal(t, defaultRole, m.Role)
}
