package intake

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/bookline/internal/config"
)

// TokenSigner issues and verifies the bearer token returned with a created
// booking. The token binds the caller to the generated customer id so a later
// cancellation can prove ownership without an account system.
type TokenSigner struct {
	secret []byte
}

func NewTokenSigner(cfg config.Config) *TokenSigner {
	return &TokenSigner{secret: []byte(cfg.Intake.TokenSecret)}
}

func (s *TokenSigner) Issue(customerID snowflake.ID) string {
	payload := customerID.String()
	return payload + "." + s.sign(payload)
}

// Verify returns the customer id embedded in the token, or false for a
// missing, malformed or forged token.
func (s *TokenSigner) Verify(token string) (snowflake.ID, bool) {
	payload, signature, found := strings.Cut(strings.TrimSpace(token), ".")
	if !found {
		return 0, false
	}
	if !hmac.Equal([]byte(signature), []byte(s.sign(payload))) {
		return 0, false
	}
	id, err := snowflake.ParseString(payload)
	if err != nil {
		return 0, false
	}
	return id, true
}

func (s *TokenSigner) sign(payload string) string {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(payload))
	return hex.EncodeToString(mac.Sum(nil))
}
