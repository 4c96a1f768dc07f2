package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jws"
	"github.com/lestrrat-go/jwx/v2/jwt"

	"github.com/noah-isme/backend-arena/internal/common"
)

// Verifier checks bearer tokens minted by the external auth provider and
// extracts the session identity they carry.
type Verifier struct {
	Secret    []byte
	Issuer    string
	Audience  string
	ClockSkew time.Duration
	Algorithm jwa.SignatureAlgorithm
	Now       func() time.Time
}

// ParseSession validates the token and returns the embedded session.
func (v Verifier) ParseSession(token string) (common.Session, error) {
	var zero common.Session
	trimmed := strings.TrimSpace(token)
	if trimmed == "" {
		return zero, unauthorized("missing token", nil)
	}

	algorithm, err := extractTokenAlgorithm(trimmed)
	if err != nil {
		return zero, unauthorized("invalid token", err)
	}
	expected := v.Algorithm
	if expected == "" {
		expected = jwa.HS256
	}
	if algorithm != expected {
		return zero, unauthorized("invalid token", fmt.Errorf("unexpected token algorithm %s", algorithm))
	}

	parsed, err := jwt.ParseString(trimmed, jwt.WithKey(algorithm, v.Secret))
	if err != nil {
		return zero, unauthorized("invalid token", err)
	}

	now := time.Now()
	if v.Now != nil {
		now = v.Now()
	}
	options := []jwt.ValidateOption{
		jwt.WithClock(jwt.ClockFunc(func() time.Time { return now })),
	}
	if v.ClockSkew > 0 {
		options = append(options, jwt.WithAcceptableSkew(v.ClockSkew))
	}
	if v.Issuer != "" {
		options = append(options, jwt.WithIssuer(v.Issuer))
	}
	if v.Audience != "" {
		options = append(options, jwt.WithAudience(v.Audience))
	}
	if err := jwt.Validate(parsed, options...); err != nil {
		return zero, unauthorized("invalid token", err)
	}
	if parsed.Subject() == "" {
		return zero, unauthorized("invalid token", errors.New("auth: token missing subject"))
	}

	session := common.Session{UserID: parsed.Subject()}
	if email, ok := parsed.Get("email"); ok {
		if s, ok := email.(string); ok {
			session.Email = s
		}
	}
	if phone, ok := parsed.Get("phone"); ok {
		if s, ok := phone.(string); ok {
			session.Phone = s
		}
	}
	return session, nil
}

func extractTokenAlgorithm(token string) (jwa.SignatureAlgorithm, error) {
	message, err := jws.ParseString(token)
	if err != nil {
		return "", err
	}
	signatures := message.Signatures()
	if len(signatures) == 0 {
		return "", errors.New("auth: token contains no signatures")
	}
	headers := signatures[0].ProtectedHeaders()
	if headers == nil {
		return "", errors.New("auth: token missing protected headers")
	}
	alg := headers.Algorithm()
	if alg == "" {
		return "", errors.New("auth: token missing algorithm")
	}
	return alg, nil
}

func unauthorized(message string, err error) *common.AppError {
	return common.NewAppError(common.CodeUnauthorized, message, http.StatusUnauthorized, err)
}
