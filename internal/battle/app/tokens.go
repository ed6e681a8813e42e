package app

import (
	"time"

	"Skirmish/internal/shared/security"
)

// JWTIssuer 用 JWT_SECRET 签发席位令牌。
func JWTIssuer(ttl time.Duration) TokenIssuer {
	return func(matchID string, playerID int) (string, error) {
		return security.Award(matchID, playerID, ttl)
	}
}

func JWTParser() TokenParser {
	return func(token string) (string, int, error) {
		_, claims, err := security.ParseToken(token)
		if err != nil {
			return "", 0, err
		}
		return claims.MatchID, claims.PlayerID, nil
	}
}
