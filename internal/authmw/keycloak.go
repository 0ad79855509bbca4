package authmw

import (
	"context"
	"fmt"
	"strings"

	"github.com/Nerzal/gocloak/v13"

	"kyri56xcaesar/pms-dash/internal/board"
)

const defaultRole = "Member"

// Directory reads realm users from Keycloak so they can join the roster.
type Directory struct {
	Client       *gocloak.GoCloak
	Realm        string
	clientID     string
	clientSecret string
}

func NewDirectory(baseURL, realm, clientID, clientSecret string) *Directory {
	return &Directory{
		Client:       gocloak.NewClient("http://" + baseURL),
		Realm:        realm,
		clientID:     clientID,
		clientSecret: clientSecret,
	}
}

func (d *Directory) login(ctx context.Context) (*gocloak.JWT, error) {
	return d.Client.LoginClient(ctx, d.clientID, d.clientSecret, d.Realm)
}

// Members lists enabled realm users as team members.
func (d *Directory) Members(ctx context.Context, max int) ([]board.TeamMember, error) {
	jwt, err := d.login(ctx)
	if err != nil {
		return nil, fmt.Errorf("keycloak auth failed: %w", err)
	}

	users, err := d.Client.GetUsers(ctx, jwt.AccessToken, d.Realm, gocloak.GetUsersParams{
		Max:     gocloak.IntP(max),
		Enabled: gocloak.BoolP(true),
	})
	if err != nil {
		return nil, fmt.Errorf("list realm users: %w", err)
	}

	out := make([]board.TeamMember, 0, len(users))
	for _, u := range users {
		if m, ok := memberFromUser(u); ok {
			out = append(out, m)
		}
	}
	return out, nil
}

// memberFromUser maps a Keycloak user; the "role" and "avatar" attributes
// fill the matching member fields.
func memberFromUser(u *gocloak.User) (board.TeamMember, bool) {
	if u == nil || gocloak.PString(u.ID) == "" {
		return board.TeamMember{}, false
	}

	name := strings.TrimSpace(gocloak.PString(u.FirstName) + " " + gocloak.PString(u.LastName))
	if name == "" {
		name = gocloak.PString(u.Username)
	}

	m := board.TeamMember{
		ID:    gocloak.PString(u.ID),
		Name:  name,
		Role:  defaultRole,
		Email: gocloak.PString(u.Email),
	}
	if u.Attributes != nil {
		attrs := *u.Attributes
		if v := attrs["role"]; len(v) > 0 && v[0] != "" {
			m.Role = v[0]
		}
		if v := attrs["avatar"]; len(v) > 0 {
			m.Avatar = v[0]
		}
	}
	return m, true
}
