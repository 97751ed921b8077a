package util

import (
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/plaid/plaid-go/v41/plaid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type webhookFixture struct {
	key     *ecdsa.PrivateKey
	fetches atomic.Int32
}

func newWebhookFixture(t *testing.T) *webhookFixture {
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)
	return &webhookFixture{key: key}
}

func (f *webhookFixture) fetch(_ context.Context, kid string) (*plaid.JWKPublicKey, error) {
	f.fetches.Add(1)
	return &plaid.JWKPublicKey{
		Kid: kid,
		Kty: "EC",
		Crv: "P-256",
		X:   base64.RawURLEncoding.EncodeToString(f.key.X.FillBytes(make([]byte, 32))),
		Y:   base64.RawURLEncoding.EncodeToString(f.key.Y.FillBytes(make([]byte, 32))),
	}, nil
}

func (f *webhookFixture) sign(t *testing.T, body []byte, iat time.Time) http.Header {
	sum := sha256.Sum256(body)
	token := jwt.NewWithClaims(jwt.SigningMethodES256, jwt.MapClaims{
		"iat":                 iat.Unix(),
		"request_body_sha256": hex.EncodeToString(sum[:]),
	})
	token.Header["kid"] = "kid-1"
	signed, err := token.SignedString(f.key)
	require.NoError(t, err)

	h := http.Header{}
	h.Set("Plaid-Verification", signed)
	return h
}

func TestWebhookVerifier_Verify(t *testing.T) {
	f := newWebhookFixture(t)
	v, err := NewWebhookVerifier(f.fetch)
	require.NoError(t, err)
	defer v.Close()

	body := []byte(`{"webhook_type":"TRANSACTIONS","webhook_code":"DEFAULT_UPDATE","item_id":"item-1"}`)
	now := time.Now()

	require.NoError(t, v.Verify(context.Background(), body, f.sign(t, body, now)))
	require.NoError(t, v.Verify(context.Background(), body, f.sign(t, body, now)))
	assert.Equal(t, int32(1), f.fetches.Load(), "key should be cached after first fetch")
}

func TestWebhookVerifier_Rejects(t *testing.T) {
	f := newWebhookFixture(t)
	v, err := NewWebhookVerifier(f.fetch)
	require.NoError(t, err)
	defer v.Close()

	body := []byte(`{"webhook_type":"TRANSACTIONS"}`)

	t.Run("MissingHeader", func(t *testing.T) {
		assert.Error(t, v.Verify(context.Background(), body, http.Header{}))
	})

	t.Run("TamperedBody", func(t *testing.T) {
		headers := f.sign(t, body, time.Now())
		assert.Error(t, v.Verify(context.Background(), []byte(`{"webhook_type":"ITEM"}`), headers))
	})

	t.Run("Stale", func(t *testing.T) {
		headers := f.sign(t, body, time.Now().Add(-10*time.Minute))
		assert.Error(t, v.Verify(context.Background(), body, headers))
	})

	t.Run("WrongKey", func(t *testing.T) {
		other := newWebhookFixture(t)
		headers := other.sign(t, body, time.Now())
		assert.Error(t, v.Verify(context.Background(), body, headers))
	})

	t.Run("WrongAlgorithm", func(t *testing.T) {
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"iat": time.Now().Unix()})
		token.Header["kid"] = "kid-1"
		signed, err := token.SignedString([]byte("secret"))
		require.NoError(t, err)
		h := http.Header{}
		h.Set("Plaid-Verification", signed)
		assert.Error(t, v.Verify(context.Background(), body, h))
	})
}
