package services

import (
	"errors"
	"fmt"
	"time"

	config "github.com/anjiri1684/neighborhood_hub/configs"
	"github.com/anjiri1684/neighborhood_hub/models"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

func IssueToken(user *models.User) (string, error) {
	hours := config.ConfigInt("JWT_EXPIRE_HOURS", 72)
	claims := jwt.MapClaims{
		"user_id": user.ID.String(),
		"role":    user.Role,
		"exp":     timeNow().Add(time.Duration(hours) * time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(config.Config("JWT_SECRET")))
}

func ParseToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(config.Config("JWT_SECRET")), nil
	})
	if err != nil {
		return nil, err
	}
	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, errors.New("invalid token")
}

func UserIDFromClaims(claims jwt.MapClaims) (uuid.UUID, error) {
	raw, ok := claims["user_id"].(string)
	if !ok {
		return uuid.Nil, errors.New("token has no user_id claim")
	}
	return uuid.Parse(raw)
}
