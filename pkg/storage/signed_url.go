package storage

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var (
	ErrTokenInvalid = errors.New("invalid download token")
	ErrTokenExpired = errors.New("download token expired")
)

// Grant is a signed, time-limited permission to download one document.
type Grant struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// SignedURLSigner creates and validates download tokens bound to a document id.
type SignedURLSigner struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewSignedURLSigner constructs a signer with the provided secret and TTL.
func NewSignedURLSigner(secret string, ttl time.Duration) *SignedURLSigner {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &SignedURLSigner{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Sign issues a token for documentID.
func (s *SignedURLSigner) Sign(documentID string) (Grant, error) {
	if documentID == "" {
		return Grant{}, fmt.Errorf("document id required")
	}
	if len(s.secret) == 0 {
		return Grant{}, fmt.Errorf("signing secret missing")
	}
	expiresAt := s.now().Add(s.ttl).Truncate(time.Second)
	payload := base64.RawURLEncoding.EncodeToString([]byte(documentID + "|" + strconv.FormatInt(expiresAt.Unix(), 10)))
	return Grant{Token: payload + "." + s.mac(payload), ExpiresAt: expiresAt}, nil
}

// Verify checks the token signature, expiry and that it was issued for documentID.
func (s *SignedURLSigner) Verify(token, documentID string) error {
	payload, signature, ok := strings.Cut(token, ".")
	if !ok || !hmac.Equal([]byte(signature), []byte(s.mac(payload))) {
		return ErrTokenInvalid
	}
	raw, err := base64.RawURLEncoding.DecodeString(payload)
	if err != nil {
		return ErrTokenInvalid
	}
	id, rawExp, ok := strings.Cut(string(raw), "|")
	if !ok || id != documentID {
		return ErrTokenInvalid
	}
	exp, err := strconv.ParseInt(rawExp, 10, 64)
	if err != nil {
		return ErrTokenInvalid
	}
	if s.now().After(time.Unix(exp, 0)) {
		return ErrTokenExpired
	}
	return nil
}

func (s *SignedURLSigner) mac(payload string) string {
	m := hmac.New(sha256.New, s.secret)
	_, _ = m.Write([]byte(payload))
	return hex.EncodeToString(m.Sum(nil))
}
