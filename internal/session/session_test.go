package session

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func TestTokenState(t *testing.T) {
	tests := []struct {
		name  string
		token string
		want  State
	}{
		{
			name:  "empty token",
			token: "",
			want:  NotAuthenticated,
		},
		{
			name:  "garbage token",
			token: "not.a.jwt",
			want:  NotAuthenticated,
		},
		{
			name: "expired token",
			token: signedToken(t, jwt.MapClaims{
				"exp": time.Now().Add(-time.Hour).Unix(),
			}),
			want: NotAuthenticated,
		},
		{
			name: "live token",
			token: signedToken(t, jwt.MapClaims{
				"exp": time.Now().Add(time.Hour).Unix(),
			}),
			want: Checking,
		},
		{
			name:  "no expiry claim defers to the server",
			token: signedToken(t, jwt.MapClaims{"sub": "someone"}),
			want:  Checking,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TokenState(tt.token); got != tt.want {
				t.Errorf("TokenState() = %v, want %v", got, tt.want)
			}
		})
	}
}
