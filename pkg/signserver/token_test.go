package signserver

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mhfrontier/launcher/pkg/datastore"
)

func testAccount() *datastore.Account {
	return &datastore.Account{ID: 42, Username: "hunter", Rights: 6}
}

func TestTokenIssueAndVerify(t *testing.T) {
	ti := NewTokenIssuer("secret", time.Hour)
	issued := time.Unix(1700000000, 0)
	ti.now = func() time.Time { return issued }

	token, expiry, err := ti.Issue(testAccount())
	require.NoError(t, err)
	require.Equal(t, issued.Add(time.Hour), expiry)

	claims, err := ti.Verify(token)
	require.NoError(t, err)
	require.Equal(t, int64(42), claims.UserID)
	require.Equal(t, "hunter", claims.Username)
	require.Equal(t, uint32(6), claims.Rights)
	require.NotEmpty(t, claims.ID, "tokens carry a unique jti")
}

func TestTokenExpiry(t *testing.T) {
	ti := NewTokenIssuer("secret", time.Hour)
	now := time.Unix(1700000000, 0)
	ti.now = func() time.Time { return now }

	token, _, err := ti.Issue(testAccount())
	require.NoError(t, err)

	now = now.Add(time.Hour + time.Minute)
	_, err = ti.Verify(token)
	require.Error(t, err)
}

func TestTokenWrongSecret(t *testing.T) {
	token, _, err := NewTokenIssuer("secret-a", time.Hour).Issue(testAccount())
	require.NoError(t, err)

	_, err = NewTokenIssuer("secret-b", time.Hour).Verify(token)
	require.Error(t, err)
}

func TestTokenGarbage(t *testing.T) {
	ti := NewTokenIssuer("secret", time.Hour)
	_, err := ti.Verify("not-a-token")
	require.Error(t, err)
}
