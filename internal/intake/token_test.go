package intake

import (
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/bookline/internal/config"
	"github.com/stretchr/testify/assert"
)

func TestTokenRoundTrip(t *testing.T) {
	signer := NewTokenSigner(config.Config{Intake: config.IntakeConfig{TokenSecret: "s3cret"}})
	customerID := snowflake.ID(1234567890)

	token := signer.Issue(customerID)
	parsed, ok := signer.Verify(token)
	assert.True(t, ok)
	assert.Equal(t, customerID, parsed)
}

func TestTokenRejectsForgeries(t *testing.T) {
	signer := NewTokenSigner(config.Config{Intake: config.IntakeConfig{TokenSecret: "s3cret"}})
	other := NewTokenSigner(config.Config{Intake: config.IntakeConfig{TokenSecret: "different"}})

	token := signer.Issue(snowflake.ID(42))

	_, ok := other.Verify(token)
	assert.False(t, ok, "wrong secret")

	_, ok = signer.Verify("")
	assert.False(t, ok)

	_, ok = signer.Verify("42")
	assert.False(t, ok, "missing signature")

	_, ok = signer.Verify("43." + token[len("42."):])
	assert.False(t, ok, "tampered customer id")
}
