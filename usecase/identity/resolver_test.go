package identity

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Poco-dev/todo-bot/domain"
)

const testBotToken = "12345:test-bot-token"

func newTestResolver() *Resolver {
	signer := NewTokenSigner("test-secret", "todo-bot", time.Hour)
	return NewResolver(signer, testBotToken, nil)
}

// signInitData produces a valid Telegram init-data payload for the given
// user JSON, signed the way Telegram clients sign it.
func signInitData(t *testing.T, botToken, userJSON string) string {
	t.Helper()

	values := url.Values{}
	values.Set("auth_date", "1700000000")
	values.Set("query_id", "AAAA")
	values.Set("user", userJSON)

	pairs := make([]string, 0, len(values))
	for key := range values {
		pairs = append(pairs, key+"="+values.Get(key))
	}
	sort.Strings(pairs)

	secret := hmac.New(sha256.New, []byte("WebAppData"))
	secret.Write([]byte(botToken))
	mac := hmac.New(sha256.New, secret.Sum(nil))
	mac.Write([]byte(strings.Join(pairs, "\n")))

	values.Set("hash", hex.EncodeToString(mac.Sum(nil)))
	return values.Encode()
}

func TestResolveExplicitParameterWinsOverHeader(t *testing.T) {
	r := newTestResolver()

	owner, err := r.Resolve(Request{UserID: "42", HeaderUserID: "7"})
	require.NoError(t, err)
	require.Equal(t, int64(42), owner.ID)
}

func TestResolveMalformedParameterFallsThroughToHeader(t *testing.T) {
	r := newTestResolver()

	owner, err := r.Resolve(Request{UserID: "not-a-number", HeaderUserID: "7"})
	require.NoError(t, err)
	require.Equal(t, int64(7), owner.ID)
}

func TestResolveNothingYieldsUnidentified(t *testing.T) {
	r := newTestResolver()

	_, err := r.Resolve(Request{})
	require.ErrorIs(t, err, domain.ErrUnidentified)
}

func TestResolveLaunchTokenRoundtrip(t *testing.T) {
	signer := NewTokenSigner("test-secret", "todo-bot", time.Hour)
	r := NewResolver(signer, testBotToken, nil)

	token, err := signer.Mint(domain.Identity{ID: 42, Username: "alice"})
	require.NoError(t, err)

	owner, err := r.Resolve(Request{LaunchToken: token})
	require.NoError(t, err)
	require.Equal(t, domain.Identity{ID: 42, Username: "alice"}, owner)
}

func TestResolveTamperedTokenIsUnidentified(t *testing.T) {
	signer := NewTokenSigner("test-secret", "todo-bot", time.Hour)
	r := NewResolver(signer, testBotToken, nil)

	token, err := signer.Mint(domain.Identity{ID: 42})
	require.NoError(t, err)

	_, err = r.Resolve(Request{LaunchToken: token + "x"})
	require.ErrorIs(t, err, domain.ErrUnidentified)
}

func TestResolveTokenSignedWithOtherSecretIsUnidentified(t *testing.T) {
	other := NewTokenSigner("other-secret", "todo-bot", time.Hour)
	token, err := other.Mint(domain.Identity{ID: 42})
	require.NoError(t, err)

	_, err = newTestResolver().Resolve(Request{LaunchToken: token})
	require.ErrorIs(t, err, domain.ErrUnidentified)
}

func TestResolveValidInitData(t *testing.T) {
	r := newTestResolver()
	initData := signInitData(t, testBotToken, `{"id":99,"first_name":"Bob","username":"bobby"}`)

	owner, err := r.Resolve(Request{InitData: initData})
	require.NoError(t, err)
	require.Equal(t, domain.Identity{ID: 99, Username: "bobby"}, owner)
}

func TestResolveInitDataFallsBackToFirstName(t *testing.T) {
	r := newTestResolver()
	initData := signInitData(t, testBotToken, `{"id":99,"first_name":"Bob"}`)

	owner, err := r.Resolve(Request{InitData: initData})
	require.NoError(t, err)
	require.Equal(t, "Bob", owner.Username)
}

func TestResolveForgedInitDataIsUnidentified(t *testing.T) {
	r := newTestResolver()
	initData := signInitData(t, "0000:wrong-token", `{"id":99,"username":"mallory"}`)

	_, err := r.Resolve(Request{InitData: initData})
	require.ErrorIs(t, err, domain.ErrUnidentified)
}

func TestVerifyInitDataRejectsMissingHash(t *testing.T) {
	_, err := VerifyInitData("user=%7B%22id%22%3A1%7D", testBotToken)
	require.Error(t, err)
}

func TestTokenSignerRejectsExpiredToken(t *testing.T) {
	signer := NewTokenSigner("test-secret", "todo-bot", time.Nanosecond)

	token, err := signer.Mint(domain.Identity{ID: 42})
	require.NoError(t, err)

	time.Sleep(10 * time.Millisecond)
	_, err = signer.Verify(token)
	require.Error(t, err)
}

func TestTokenSignerRejectsZeroIdentity(t *testing.T) {
	signer := NewTokenSigner("test-secret", "todo-bot", time.Hour)

	_, err := signer.Mint(domain.Identity{})
	require.ErrorIs(t, err, domain.ErrInvalidPayload)
}
