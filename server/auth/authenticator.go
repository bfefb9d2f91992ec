// Package auth implements stateless bearer-token authentication. Tokens are
// HMAC-signed JWTs minted by the external account backend; this server only
// verifies them. Running without a secret switches the server into
// single-user mode where every request resolves to user 1.
package auth

import (
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
)

// Account tiers carried in the token's "tier" claim.
const (
	TierFree    = "free"
	TierPremium = "premium"
)

const issuer = "moodtracker"

// User is the resolved identity of a request.
type User struct {
	ID      int32
	Premium bool
}

// Claims is the JWT payload. The registered subject carries the numeric
// user ID.
type Claims struct {
	Tier string `json:"tier,omitempty"`
	jwt.RegisteredClaims
}

// Authenticator verifies bearer tokens against a shared HMAC secret.
type Authenticator struct {
	secret      []byte
	premiumOpen bool
}

// New creates an authenticator. An empty secret enables single-user mode;
// premiumOpen grants premium features to every resolved user.
func New(secret string, premiumOpen bool) *Authenticator {
	return &Authenticator{secret: []byte(secret), premiumOpen: premiumOpen}
}

// SingleUser reports whether token verification is disabled.
func (a *Authenticator) SingleUser() bool {
	return len(a.secret) == 0
}

// Authenticate resolves an Authorization header value to a user.
func (a *Authenticator) Authenticate(authHeader string) (*User, error) {
	if a.SingleUser() {
		return &User{ID: 1, Premium: a.premiumOpen}, nil
	}

	tokenString, err := extractToken(authHeader)
	if err != nil {
		return nil, err
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return a.secret, nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "parse token")
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 32)
	if err != nil || userID <= 0 {
		return nil, errors.Errorf("invalid token subject %q", claims.Subject)
	}

	return &User{
		ID:      int32(userID),
		Premium: a.premiumOpen || claims.Tier == TierPremium,
	}, nil
}

// IssueToken signs a token for a user. Used by the token subcommand and by
// tests; production tokens come from the account backend.
func (a *Authenticator) IssueToken(userID int32, tier string, ttl time.Duration) (string, error) {
	if a.SingleUser() {
		return "", errors.New("cannot issue tokens without a secret")
	}
	if userID <= 0 {
		return "", errors.Errorf("invalid user id %d", userID)
	}

	now := time.Now()
	claims := &Claims{
		Tier: tier,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(int64(userID), 10),
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
	if err != nil {
		return "", errors.Wrap(err, "sign token")
	}
	return signed, nil
}

func extractToken(authHeader string) (string, error) {
	if authHeader == "" {
		return "", errors.New("missing authorization header")
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", errors.New("invalid authorization header format")
	}
	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", errors.New("empty token")
	}
	return token, nil
}
