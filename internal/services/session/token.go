package session

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	apperrors "github.com/louisbranch/familyhub/internal/platform/errors"
)

// Identity is the principal embedded in a bearer token.
type Identity struct {
	ID   string
	Name string
	Role string
}

// IsZero reports whether no identity is set.
func (i Identity) IsZero() bool {
	return i == Identity{}
}

// Claims is the client-side view of a decoded token.
type Claims struct {
	Identity  Identity
	ExpiresAt time.Time
}

type principal struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// DecodeToken reads the claims of token without verifying its signature.
// The backend is the verifier; the client only needs the principal and
// expiry. Tokens without an exp claim are rejected.
func DecodeToken(token string) (Claims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return Claims{}, apperrors.New(apperrors.CodeTokenInvalid, "token is empty")
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return Claims{}, apperrors.Wrap(apperrors.CodeTokenInvalid, "token is malformed", err)
	}

	exp, err := claims.GetExpirationTime()
	if err != nil {
		return Claims{}, apperrors.Wrap(apperrors.CodeTokenInvalid, "token exp is malformed", err)
	}
	if exp == nil {
		return Claims{}, apperrors.New(apperrors.CodeTokenInvalid, "token exp is required")
	}

	p := subjectPrincipal(claims["sub"])
	if p.Name == "" {
		p.Name = stringClaim(claims, "name")
	}
	if p.Email == "" {
		p.Email = stringClaim(claims, "email")
	}
	if p.Role == "" {
		p.Role = stringClaim(claims, "role")
	}

	identity := Identity{Name: p.Name, Role: p.Role}
	switch {
	case p.Email != "":
		identity.ID = p.Email
	case p.ID != "":
		identity.ID = p.ID
	default:
		identity.ID = p.Name
	}
	if identity.ID == "" {
		return Claims{}, apperrors.New(apperrors.CodeTokenInvalid, "token has no principal")
	}
	if identity.Name == "" {
		identity.Name = identity.ID
	}
	return Claims{Identity: identity, ExpiresAt: exp.Time.UTC()}, nil
}

// subjectPrincipal reads sub as an embedded JSON principal, accepting both
// a JSON string and an object. Any other string is the plain principal id.
func subjectPrincipal(raw any) principal {
	var p principal
	switch sub := raw.(type) {
	case string:
		sub = strings.TrimSpace(sub)
		if strings.HasPrefix(sub, "{") && json.Unmarshal([]byte(sub), &p) == nil {
			break
		}
		p = principal{ID: sub}
	case map[string]any:
		if data, err := json.Marshal(sub); err == nil {
			_ = json.Unmarshal(data, &p)
		}
	}
	p.ID = strings.TrimSpace(p.ID)
	p.Name = strings.TrimSpace(p.Name)
	p.Email = strings.TrimSpace(p.Email)
	p.Role = strings.TrimSpace(p.Role)
	return p
}

func stringClaim(claims jwt.MapClaims, name string) string {
	value, _ := claims[name].(string)
	return strings.TrimSpace(value)
}
