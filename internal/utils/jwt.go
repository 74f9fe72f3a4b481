package utils

import (
	"strconv"
	"time"

	"arena/internal/models"

	"github.com/golang-jwt/jwt/v5"
)

// TokenIssuer identifies tokens minted by this service's tooling. Real
// traffic carries tokens from the platform's identity service; SignToken
// exists for local development and tests.
const TokenIssuer = "arena"

// SignToken creates an HS256 token carrying the wallet service's claims.
func SignToken(userID uint, email, role string, secret []byte, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := models.UserClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    TokenIssuer,
			Subject:   strconv.FormatUint(uint64(userID), 10),
		},
		UserID: userID,
		Email:  email,
		Role:   role,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}
