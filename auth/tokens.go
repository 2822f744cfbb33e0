package auth

import (
	"errors"
	"log"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"ecommerce-platform/models"
)

// TokenTTL bounds the lifetime of every issued bearer token.
const TokenTTL = 24 * time.Hour

func jwtSecret() []byte {
	return []byte(os.Getenv("JWT_SECRET"))
}

// IssueToken signs a bearer token for the user and persists the backing
// AuthToken row. The token is only accepted while that row exists, which
// makes logout an immediate revocation and keeps sessions valid across
// instances.
func IssueToken(db *gorm.DB, user *models.User) (string, time.Time, error) {
	jti := uuid.NewString()
	expiresAt := time.Now().Add(TokenTTL)

	record := models.AuthToken{
		ID:        jti,
		UserID:    user.ID,
		Role:      user.Role,
		ExpiresAt: expiresAt,
	}
	if err := db.Create(&record).Error; err != nil {
		return "", time.Time{}, err
	}

	claims := jwt.MapClaims{
		"jti":     jti,
		"user_id": user.ID,
		"role":    user.Role,
		"exp":     expiresAt.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(jwtSecret())
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// ValidateToken parses a bearer token and resolves it against the token
// store. Any signature, expiry, or revocation problem comes back as
// ErrUnauthenticated.
func ValidateToken(db *gorm.DB, tokenString string) (*models.AuthToken, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return jwtSecret(), nil
	})
	if err != nil || !token.Valid {
		return nil, models.ErrUnauthenticated
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, models.ErrUnauthenticated
	}
	jti, _ := claims["jti"].(string)
	if jti == "" {
		return nil, models.ErrUnauthenticated
	}

	var record models.AuthToken
	if err := db.First(&record, "id = ?", jti).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrUnauthenticated
		}
		return nil, err
	}
	if time.Now().After(record.ExpiresAt) {
		return nil, models.ErrUnauthenticated
	}
	return &record, nil
}

// RevokeToken deletes the backing row; the bearer token stops working on
// the next request. Revoking an unknown token is a no-op.
func RevokeToken(db *gorm.DB, jti string) error {
	return db.Delete(&models.AuthToken{}, "id = ?", jti).Error
}

// SweepExpiredTokens removes every token past its expiry and reports how
// many rows went away.
func SweepExpiredTokens(db *gorm.DB) (int64, error) {
	result := db.Delete(&models.AuthToken{}, "expires_at < ?", time.Now())
	return result.RowsAffected, result.Error
}

// StartTokenSweep runs SweepExpiredTokens on a fixed interval. Run it on
// its own goroutine from main.
func StartTokenSweep(db *gorm.DB, interval time.Duration) {
	for {
		time.Sleep(interval)
		removed, err := SweepExpiredTokens(db)
		if err != nil {
			log.Printf("❌ Token sweep failed: %v", err)
			continue
		}
		if removed > 0 {
			log.Printf("🗑️ Token sweep removed %d expired tokens", removed)
		}
	}
}
