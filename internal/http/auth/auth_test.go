package auth_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/folio/internal/http/auth"
)

const secret = "s3cret"

func sign(t *testing.T, method jwt.SigningMethod, key any, exp time.Time) string {
	t.Helper()

	tok, err := jwt.NewWithClaims(method, jwt.MapClaims{"sub": "me", "exp": exp.Unix()}).SignedString(key)
	require.NoError(t, err)

	return tok
}

func TestRequireToken(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusTeapot) })

	type testCase struct {
		name   string
		secret string
		header string
		want   int
	}

	tests := []testCase{
		{name: "Disabled", secret: "", want: http.StatusTeapot},
		{name: "Missing", secret: secret, want: http.StatusUnauthorized},
		{
			name:   "Valid",
			secret: secret,
			header: "Bearer " + sign(t, jwt.SigningMethodHS256, []byte(secret), time.Now().Add(time.Hour)),
			want:   http.StatusTeapot,
		},
		{
			name:   "Expired",
			secret: secret,
			header: "Bearer " + sign(t, jwt.SigningMethodHS256, []byte(secret), time.Now().Add(-time.Hour)),
			want:   http.StatusUnauthorized,
		},
		{
			name:   "WrongKey",
			secret: secret,
			header: "Bearer " + sign(t, jwt.SigningMethodHS256, []byte("other"), time.Now().Add(time.Hour)),
			want:   http.StatusUnauthorized,
		},
		{
			name:   "WrongAlgorithm",
			secret: secret,
			header: "Bearer " + sign(t, jwt.SigningMethodHS512, []byte(secret), time.Now().Add(time.Hour)),
			want:   http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/categories", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			rec := httptest.NewRecorder()
			auth.RequireToken(tt.secret)(ok).ServeHTTP(rec, req)

			assert.Equal(t, tt.want, rec.Code)
		})
	}
}
