package auth

import (
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"aidanwoods.dev/go-paseto"
)

const (
	tokenIssuer   = "booknotes-server"
	tokenAudience = "booknotes-client"

	claimUserID = "user_id"
)

// ErrTokenExpired is returned for a session token past its exp claim.
var ErrTokenExpired = errors.New("session token expired")

// TokenService seals session references into PASETO v4.local tokens.
// The token only names a session; the session record stays authoritative.
type TokenService struct {
	symmetricKey paseto.V4SymmetricKey
	now          func() time.Time
}

// NewTokenService creates a token service from a 64-character hex key.
func NewTokenService(keyHex string) (*TokenService, error) {
	if len(keyHex) != keyHexLength {
		return nil, fmt.Errorf("PASETO v4 key must be exactly %d hex characters, got %d", keyHexLength, len(keyHex))
	}

	keyBytes, err := hex.DecodeString(keyHex)
	if err != nil {
		return nil, fmt.Errorf("invalid hex string for PASETO key: %w", err)
	}

	key, err := paseto.V4SymmetricKeyFromBytes(keyBytes)
	if err != nil {
		return nil, fmt.Errorf("create PASETO symmetric key: %w", err)
	}

	return &TokenService{symmetricKey: key, now: time.Now}, nil
}

// Issue encrypts claims into a token string.
func (s *TokenService) Issue(claims SessionClaims) (string, error) {
	if claims.SessionID == "" || claims.UserID == "" {
		return "", errors.New("session id and user id are required")
	}

	issuedAt := claims.IssuedAt
	if issuedAt.IsZero() {
		issuedAt = s.now()
	}

	token := paseto.NewToken()
	token.SetIssuer(tokenIssuer)
	token.SetAudience(tokenAudience)
	token.SetSubject(claims.UserID)
	token.SetIssuedAt(issuedAt)
	token.SetNotBefore(issuedAt)
	token.SetJti(claims.SessionID)
	if !claims.ExpiresAt.IsZero() {
		token.SetExpiration(claims.ExpiresAt)
	}
	if err := token.Set(claimUserID, claims.UserID); err != nil {
		return "", fmt.Errorf("set user claim: %w", err)
	}

	return token.V4Encrypt(s.symmetricKey, nil), nil
}

// Parse decrypts a token and returns its claims. Tokens without an exp claim
// are accepted; tokens past their exp claim fail with ErrTokenExpired.
func (s *TokenService) Parse(tokenString string) (*SessionClaims, error) {
	if tokenString == "" {
		return nil, errors.New("empty token")
	}

	parser := paseto.NewParserWithoutExpiryCheck()
	parser.AddRule(paseto.ForAudience(tokenAudience))
	parser.AddRule(paseto.IssuedBy(tokenIssuer))

	token, err := parser.ParseV4Local(s.symmetricKey, tokenString, nil)
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	claims := &SessionClaims{}
	if claims.SessionID, err = token.GetJti(); err != nil {
		return nil, fmt.Errorf("missing session id: %w", err)
	}
	if claims.UserID, err = token.GetString(claimUserID); err != nil {
		return nil, fmt.Errorf("missing user id: %w", err)
	}
	if iat, err := token.GetIssuedAt(); err == nil {
		claims.IssuedAt = iat
	}
	if exp, err := token.GetExpiration(); err == nil {
		claims.ExpiresAt = exp
		if !s.now().Before(exp) {
			return nil, ErrTokenExpired
		}
	}

	return claims, nil
}
