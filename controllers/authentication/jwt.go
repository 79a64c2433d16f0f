package authentication

import (
	"errors"
	"time"

	"aimex-backend/services/social"

	"github.com/dgrijalva/jwt-go"
)

// Claims is the application JWT payload. Subject holds the provider-scoped
// user id; role data lives in Groups and Permissions.
type Claims struct {
	Email       string                 `json:"email,omitempty"`
	Name        string                 `json:"name,omitempty"`
	Provider    string                 `json:"provider"`
	Company     string                 `json:"company,omitempty"`
	Groups      []string               `json:"groups"`
	Permissions []string               `json:"permissions"`
	Instagram   map[string]interface{} `json:"instagram,omitempty"`
	jwt.StandardClaims
}

// buildClaims maps a resolved identity onto the token payload. Instagram
// business and creator accounts get the business group and publishing
// permissions; everyone else is a plain user.
func buildClaims(identity *social.Identity, expiresAt time.Time) *Claims {
	isBusiness := identity.IsBusiness()

	company := titleCase(identity.Provider) + " User"
	groups := []string{"user"}
	permissions := []string{"post:read", "model:read"}

	if isBusiness {
		company = titleCase(identity.Provider) + " Business User"
		groups = []string{"business", "user"}
		permissions = []string{
			"post:read", "post:write", "model:read", "model:write",
			"insights:read", "business:manage",
		}
	}

	claims := &Claims{
		Email:       identity.Email,
		Name:        identity.Name,
		Provider:    identity.Provider,
		Company:     company,
		Groups:      groups,
		Permissions: permissions,
		StandardClaims: jwt.StandardClaims{
			Subject:   identity.ID,
			ExpiresAt: expiresAt.Unix(),
			IssuedAt:  time.Now().Unix(),
		},
	}

	if identity.Provider == "instagram" {
		claims.Instagram = map[string]interface{}{
			"username":             identity.Username,
			"account_type":         identity.AccountType,
			"is_business_verified": isBusiness,
			"business_features": map[string]bool{
				"insights":           isBusiness,
				"content_publishing": isBusiness,
				"message_management": isBusiness,
				"comment_management": true,
			},
		}
	}

	return claims
}

func (h *Handler) createAccessToken(claims *Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(h.JWTSecret)
}

func (h *Handler) verifyToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return h.JWTSecret, nil
	})
	if err != nil || !token.Valid {
		return nil, errors.New("invalid or expired token")
	}
	return claims, nil
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	if s[0] >= 'a' && s[0] <= 'z' {
		return string(s[0]-'a'+'A') + s[1:]
	}
	return s
}
