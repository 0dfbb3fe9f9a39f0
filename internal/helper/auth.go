package helper

import (
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/namnguyen191/Natours-API/internal/domain"
)

// Auth signs and verifies session tokens. The secret and lifetime are
// process-wide configuration, fixed at startup.
type Auth struct {
	Secret     string
	TTL        time.Duration
	BcryptCost int
}

func SetupAuth(secret string, ttl time.Duration, bcryptCost int) Auth {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return Auth{
		Secret:     secret,
		TTL:        ttl,
		BcryptCost: bcryptCost,
	}
}

// TokenClaims is what a verified session token asserts.
type TokenClaims struct {
	UserID   uint
	IssuedAt time.Time
}

func (a Auth) GenerateToken(userID uint) (string, error) {
	if userID == 0 {
		return "", domain.ErrInvalidInput
	}

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":  userID,
		"iat": now.Unix(),
		"exp": now.Add(a.TTL).Unix(),
	})

	tokenStr, err := token.SignedString([]byte(a.Secret))
	if err != nil {
		return "", domain.ErrInvalidToken
	}
	return tokenStr, nil
}

func (a Auth) VerifyToken(tokenString string) (TokenClaims, error) {
	tokenString = strings.TrimSpace(tokenString)
	if tokenString == "" {
		return TokenClaims{}, domain.ErrInvalidToken
	}

	// support both:
	// - "Bearer <token>"
	// - "<token>"
	if strings.HasPrefix(strings.ToLower(tokenString), "bearer ") {
		parts := strings.SplitN(tokenString, " ", 2)
		if len(parts) != 2 || strings.TrimSpace(parts[1]) == "" {
			return TokenClaims{}, domain.ErrInvalidToken
		}
		tokenString = strings.TrimSpace(parts[1])
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, domain.ErrInvalidToken
		}
		return []byte(a.Secret), nil
	})
	if err != nil || !token.Valid {
		return TokenClaims{}, domain.ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return TokenClaims{}, domain.ErrInvalidToken
	}

	id, ok := claims["id"].(float64)
	if !ok || id <= 0 {
		return TokenClaims{}, domain.ErrInvalidToken
	}
	iat, ok := claims["iat"].(float64)
	if !ok {
		return TokenClaims{}, domain.ErrInvalidToken
	}
	exp, ok := claims["exp"].(float64)
	if !ok || float64(time.Now().Unix()) > exp {
		return TokenClaims{}, domain.ErrInvalidToken
	}

	return TokenClaims{
		UserID:   uint(id),
		IssuedAt: time.Unix(int64(iat), 0),
	}, nil
}

func (a Auth) HashPassword(plain string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), a.BcryptCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

func (a Auth) VerifyPassword(plain, hashed string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain)); err != nil {
		return domain.ErrUnauthorized
	}
	return nil
}
