package devgateway

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AuthService issues and verifies the HMAC tokens the dev gateway hands
// out on auth.login.
type AuthService struct{ hmac []byte }

func NewAuthService(secret string) *AuthService { return &AuthService{hmac: []byte(secret)} }

type Claims struct {
	Sub      string `json:"sub"` // user id
	Username string `json:"username"`
	Role     string `json:"role"` // "teacher" or "student"
	jwt.RegisteredClaims
}

var errBadToken = errors.New("bad token")

func (a *AuthService) Issue(userID, username, role string) (string, error) {
	now := time.Now()
	claims := &Claims{
		Sub:      userID,
		Username: username,
		Role:     role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "litclass-dev",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(8 * time.Hour)),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(a.hmac)
}

func (a *AuthService) Parse(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return a.hmac, nil
	})
	if err != nil || !token.Valid {
		return nil, errBadToken
	}
	c, ok := token.Claims.(*Claims)
	if !ok {
		return nil, errBadToken
	}
	return c, nil
}
