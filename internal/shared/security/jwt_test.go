package security

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestAward_缺少JWT_SECRET应失败(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	if _, err := Award("m1", 1, 0); !errors.Is(err, ErrJWTSecretMissing) {
		t.Fatalf("期望 JWT_SECRET 为空时返回 ErrJWTSecretMissing，实际 %v", err)
	}
}

func TestAwardParse_正常签发并解析(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret-123")

	token, err := Award("m-42", 3, time.Minute)
	if err != nil {
		t.Fatalf("Award err=%v", err)
	}

	_, claims, err := ParseToken(token)
	if err != nil {
		t.Fatalf("ParseToken err=%v", err)
	}
	if claims.MatchID != "m-42" || claims.PlayerID != 3 {
		t.Fatalf("期望 claims 为 m-42/3，实际 %+v", claims)
	}
}

func TestParseToken_过期或换密钥失败(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret-a")
	token, err := Award("m1", 1, time.Minute)
	if err != nil {
		t.Fatalf("Award err=%v", err)
	}

	t.Setenv("JWT_SECRET", "secret-b")
	if _, _, err := ParseToken(token); !errors.Is(err, jwt.ErrTokenSignatureInvalid) {
		t.Fatalf("期望签名校验失败，实际 %v", err)
	}

	t.Setenv("JWT_SECRET", "secret-a")
	past := time.Now().Add(-time.Hour)
	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		MatchID:  "m1",
		PlayerID: 1,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(past),
			IssuedAt:  jwt.NewNumericDate(past.Add(-time.Hour)),
		},
	}).SignedString([]byte("secret-a"))
	if err != nil {
		t.Fatalf("sign err=%v", err)
	}
	if _, _, err := ParseToken(expired); !errors.Is(err, jwt.ErrTokenExpired) {
		t.Fatalf("期望过期 token 解析失败，实际 %v", err)
	}
}
