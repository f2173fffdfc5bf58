package tink

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c := NewClient("client-id", "client-secret")
	c.SetBaseURL(srv.URL)
	return c
}

func TestClientAccessTokenForm(t *testing.T) {
	var form url.Values
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		form = r.PostForm
		assert.Equal(t, "/oauth/token", r.URL.Path)
		w.Write([]byte(`{"access_token":"tok","token_type":"bearer","expires_in":1800}`))
	})

	token, err := c.ClientAccessToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "tok", token.AccessToken)
	assert.Equal(t, int64(1800), token.ExpiresIn)
	assert.Equal(t, "client_credentials", form.Get("grant_type"))
	assert.Equal(t, "client-id", form.Get("client_id"))
	assert.Equal(t, "authorization:grant,user:create", form.Get("scope"))
}

func TestUserAccessTokenIDHint(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "user:abc123", r.PostForm.Get("id_hint"))
		assert.Equal(t, "client-id", r.PostForm.Get("actor_client_id"))
		w.Write([]byte(`{"access_token":"user-tok"}`))
	})

	token, err := c.UserAccessToken(context.Background(), "abc123")
	require.NoError(t, err)
	assert.Equal(t, "user-tok", token.AccessToken)
}

func TestDelegateAuthorizationCode(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/oauth/authorization-grant/delegate", r.URL.Path)
		assert.Equal(t, "Bearer admin-tok", r.Header.Get("Authorization"))
		require.NoError(t, r.ParseForm())
		assert.Equal(t, tinkLinkActorClientID, r.PostForm.Get("actor_client_id"))
		assert.Equal(t, "tink-user", r.PostForm.Get("user_id"))
		w.Write([]byte(`{"code":"auth-code"}`))
	}).WithAccessToken("admin-tok")

	code, err := c.DelegateAuthorizationCode(context.Background(), "tink-user", "maria")
	require.NoError(t, err)
	assert.Equal(t, "auth-code", code)
}

func TestListTransactionsAccountFilter(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/transactions/list", r.URL.Path)
		assert.Equal(t, []string{"a1", "a2"}, r.URL.Query()["accountIdIn"])
		w.Write([]byte(`{"transactions":[{"id":"t1","accountId":"a1","amount":-12.5,"description":"MERCADONA"}]}`))
	}).WithAccessToken("tok")

	txs, err := c.ListTransactions(context.Background(), []string{"a1", "a2"})
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, "t1", txs[0].ID)
	assert.Equal(t, -12.5, txs[0].Amount)
}

func TestRequestsRequireAccessToken(t *testing.T) {
	c := NewClient("id", "secret")

	_, err := c.ListAccounts(context.Background())
	assert.ErrorIs(t, err, ErrNoAccessToken)
	_, err = c.ListTransactions(context.Background(), nil)
	assert.ErrorIs(t, err, ErrNoAccessToken)
	err = c.DeleteCredentials(context.Background(), "cred")
	assert.ErrorIs(t, err, ErrNoAccessToken)
}

func TestDeleteCredentialsTolerates404(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		w.WriteHeader(http.StatusNotFound)
	}).WithAccessToken("tok")

	assert.NoError(t, c.DeleteCredentials(context.Background(), "cred-1"))
}

func TestAPIErrorMessageExtraction(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"errorMessage":"invalid market"}`))
	}).WithAccessToken("tok")

	_, err := c.ListProviders(context.Background(), "XX", "")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, "invalid market", apiErr.Message)
}

func TestConnectAccountsURL(t *testing.T) {
	c := NewClient("client-id", "secret")
	raw := c.ConnectAccountsURL("https://app.example/callback", "ES", "es_ES", "auth-code", true)

	u, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "/1.0/transactions/connect-accounts", u.Path)
	q := u.Query()
	assert.Equal(t, "client-id", q.Get("client_id"))
	assert.Equal(t, "https://app.example/callback", q.Get("redirect_uri"))
	assert.Equal(t, "ES", q.Get("market"))
	assert.Equal(t, "es_ES", q.Get("locale"))
	assert.Equal(t, "true", q.Get("test"))
	assert.Equal(t, "auth-code", q.Get("authorization_code"))
}
