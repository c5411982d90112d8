package service

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/mentorlink/sphere-api/internal/core/domain"
)

// Token purposes. A token minted for one purpose is rejected when presented
// for another.
const (
	PurposeLogin         = "login"
	PurposeVerifyEmail   = "verify_email"
	PurposePasswordReset = "password_reset"
)

// Fixed expiries per token purpose.
const (
	LoginTokenTTL  = 7 * 24 * time.Hour
	VerifyTokenTTL = 24 * time.Hour
	ResetTokenTTL  = time.Hour
)

// Claims are the fields embedded in every bearer token.
type Claims struct {
	jwt.RegisteredClaims
	UserID     string `json:"user_id"`
	Username   string `json:"username,omitempty"`
	Email      string `json:"email,omitempty"`
	IsMentor   bool   `json:"is_mentor,omitempty"`
	IsStudent  bool   `json:"is_student,omitempty"`
	IsVerified bool   `json:"is_verified,omitempty"`
	Purpose    string `json:"purpose"`
}

// TokenIssuer mints and verifies HS256 tokens with a single shared secret.
type TokenIssuer struct {
	secret []byte
}

func NewTokenIssuer(secret string) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret)}
}

// Mint signs claims with the given purpose and time-to-live.
func (t *TokenIssuer) Mint(claims Claims, purpose string, ttl time.Duration) (string, error) {
	claims.Purpose = purpose
	claims.RegisteredClaims = jwt.RegisteredClaims{
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.secret)
}

// Verify parses tokenString and checks signature, expiry, and purpose.
// Any failure is reported as ErrInvalidToken; callers cannot distinguish a
// forged token from an expired one.
func (t *TokenIssuer) Verify(tokenString, purpose string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(tk *jwt.Token) (interface{}, error) {
		if tk.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return t.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, domain.ErrInvalidToken
	}
	if claims.Purpose != purpose {
		return nil, domain.ErrInvalidToken
	}
	return claims, nil
}
