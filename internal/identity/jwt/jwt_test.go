package jwt

import (
	"strings"
	"testing"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/rantaucash/rantaucash-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time { return c.t }

func newTestAuthenticator(secret string, clock *fakeClock) *Authenticator {
	return NewAuthenticator(Config{SecretKey: secret}, WithClock(clock.Now))
}

func TestIssueVerify_RoundTrip(t *testing.T) {
	clock := &fakeClock{t: time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)}
	a := newTestAuthenticator("secret", clock)

	token, err := a.Issue(domain.Claims{UserID: "user-1", Role: domain.RolePenghuni})
	require.NoError(t, err)
	assert.Len(t, strings.Split(token, "."), 3)

	claims, err := a.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, domain.RolePenghuni, claims.Role)
}

func TestIssue_ExpiresInOneHour(t *testing.T) {
	issued := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)
	a := newTestAuthenticator("secret", &fakeClock{t: issued})

	token, err := a.Issue(domain.Claims{UserID: "user-1", Role: domain.RoleAdmin})
	require.NoError(t, err)

	parsed := &Claims{}
	_, _, err = gojwt.NewParser().ParseUnverified(token, parsed)
	require.NoError(t, err)
	assert.Equal(t, issued.Add(time.Hour).Unix(), parsed.ExpiresAt.Unix())
	assert.Equal(t, "user-1", parsed.UserID)
	assert.Equal(t, domain.RoleAdmin, parsed.Role)
}

func TestVerify_Expired(t *testing.T) {
	clock := &fakeClock{t: time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)}
	a := newTestAuthenticator("secret", clock)

	token, err := a.Issue(domain.Claims{UserID: "user-1", Role: domain.RolePenghuni})
	require.NoError(t, err)

	clock.t = clock.t.Add(59 * time.Minute)
	_, err = a.Verify(token)
	require.NoError(t, err, "still valid inside the hour")

	clock.t = clock.t.Add(2 * time.Minute)
	_, err = a.Verify(token)
	assert.ErrorIs(t, err, domain.ErrTokenExpired)
}

func TestVerify_WrongSecret(t *testing.T) {
	clock := &fakeClock{t: time.Now()}
	issuer := newTestAuthenticator("other-secret", clock)
	verifier := newTestAuthenticator("secret", clock)

	token, err := issuer.Issue(domain.Claims{UserID: "user-1", Role: domain.RoleAdmin})
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	assert.ErrorIs(t, err, domain.ErrTokenSignatureInvalid)
}

func TestVerify_WrongSecretAndExpired(t *testing.T) {
	clock := &fakeClock{t: time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)}
	token, err := newTestAuthenticator("other-secret", clock).Issue(domain.Claims{UserID: "u"})
	require.NoError(t, err)

	clock.t = clock.t.Add(48 * time.Hour)
	_, err = newTestAuthenticator("secret", clock).Verify(token)
	assert.ErrorIs(t, err, domain.ErrTokenSignatureInvalid, "signature is checked before expiry")
}

func TestVerify_Malformed(t *testing.T) {
	a := newTestAuthenticator("secret", &fakeClock{t: time.Now()})

	for _, token := range []string{"", "not-a-token", "a.b.c", "eyJhbGciOiJIUzI1NiJ9.e30"} {
		_, err := a.Verify(token)
		assert.ErrorIs(t, err, domain.ErrTokenMalformed, "token %q", token)
	}
}

func TestVerify_RejectsOtherAlgorithms(t *testing.T) {
	token := gojwt.NewWithClaims(gojwt.SigningMethodNone, Claims{
		UserID: "user-1",
		Role:   domain.RoleAdmin,
		RegisteredClaims: gojwt.RegisteredClaims{
			ExpiresAt: gojwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	signed, err := token.SignedString(gojwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = newTestAuthenticator("secret", &fakeClock{t: time.Now()}).Verify(signed)
	assert.ErrorIs(t, err, domain.ErrTokenSignatureInvalid)
}

func TestVerify_MissingExpiry(t *testing.T) {
	token := gojwt.NewWithClaims(gojwt.SigningMethodHS256, Claims{UserID: "user-1"})
	signed, err := token.SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = newTestAuthenticator("secret", &fakeClock{t: time.Now()}).Verify(signed)
	assert.ErrorIs(t, err, domain.ErrTokenMalformed)
}
