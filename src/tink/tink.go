package tink

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	APIBase  = "https://api.tink.com/api/v1"
	LinkBase = "https://link.tink.com/1.0"
)

// APIError carries the provider's HTTP status and a human-readable message
// extracted from the response body.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("tink: %s (status %d)", e.Message, e.Status)
}

var ErrNoAccessToken = errors.New("tink: access token not set")

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
	Scope       string `json:"scope"`
}

type UserResponse struct {
	UserID         string `json:"user_id"`
	ExternalUserID string `json:"external_user_id"`
}

type FinancialInstitution struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type Provider struct {
	Name                 string               `json:"name"`
	DisplayName          string               `json:"displayName"`
	Type                 string               `json:"type"`
	Status               string               `json:"status"`
	Market               string               `json:"market"`
	Capability           []string             `json:"capability"`
	AccessType           string               `json:"accessType"`
	Image                string               `json:"image"`
	FinancialInstitution FinancialInstitution `json:"financialInstitution"`
}

type Credentials struct {
	ID                string `json:"id"`
	ProviderName      string `json:"providerName"`
	Type              string `json:"type"`
	Status            string `json:"status"`
	StatusPayload     string `json:"statusPayload"`
	StatusUpdated     int64  `json:"statusUpdated"`
	Updated           int64  `json:"updated"`
	UserID            string `json:"userId"`
	SessionExpiryDate int64  `json:"sessionExpiryDate"`
}

type Account struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Type          string  `json:"type"`
	Balance       float64 `json:"balance"`
	CurrencyCode  string  `json:"currencyCode"`
	CredentialsID string  `json:"credentialsId"`
	Excluded      bool    `json:"excluded"`
	Favored       bool    `json:"favored"`
	Closed        bool    `json:"closed"`
	AccountNumber string  `json:"accountNumber"`
	UserID        string  `json:"userId"`
}

// Transaction is the provider's wire shape, immutable as received. Date and
// Timestamp are unix milliseconds.
type Transaction struct {
	ID                   string  `json:"id"`
	AccountID            string  `json:"accountId"`
	Amount               float64 `json:"amount"`
	CurrencyCode         string  `json:"currencyCode"`
	Date                 int64   `json:"date"`
	Description          string  `json:"description"`
	Type                 string  `json:"type"`
	Pending              bool    `json:"pending"`
	Timestamp            int64   `json:"timestamp"`
	OriginalAmount       float64 `json:"originalAmount"`
	OriginalCurrencyCode string  `json:"originalCurrencyCode"`
}

// Client is a stateless request wrapper around the provider's OAuth and
// accounts/transactions endpoints. It does not retry; transient failures
// propagate to the caller.
type Client struct {
	clientID     string
	clientSecret string
	baseURL      string
	linkURL      string
	httpClient   *http.Client
	accessToken  string
}

func NewClient(clientID, clientSecret string) *Client {
	return &Client{
		clientID:     clientID,
		clientSecret: clientSecret,
		baseURL:      APIBase,
		linkURL:      LinkBase,
		httpClient:   &http.Client{Timeout: 30 * time.Second},
	}
}

// SetBaseURL points the client at a different API base (sandbox, test server).
func (c *Client) SetBaseURL(base string) {
	c.baseURL = strings.TrimRight(base, "/")
}

func (c *Client) SetAccessToken(token string) {
	c.accessToken = token
}

// WithAccessToken returns a copy of the client bound to the given token, so
// concurrent requests can carry different tokens safely.
func (c *Client) WithAccessToken(token string) *Client {
	clone := *c
	clone.accessToken = token
	return &clone
}

// ClientAccessToken obtains a client-credentials token scoped for user
// creation and authorization grants.
func (c *Client) ClientAccessToken(ctx context.Context) (*TokenResponse, error) {
	form := url.Values{
		"client_id":     {c.clientID},
		"client_secret": {c.clientSecret},
		"grant_type":    {"client_credentials"},
		"scope":         {"authorization:grant,user:create"},
	}
	var token TokenResponse
	if err := c.postForm(ctx, "/oauth/token", form, &token); err != nil {
		return nil, err
	}
	return &token, nil
}

// UserAccessToken obtains a delegated token scoped to one provider user.
func (c *Client) UserAccessToken(ctx context.Context, userID string) (*TokenResponse, error) {
	form := url.Values{
		"client_id":       {c.clientID},
		"client_secret":   {c.clientSecret},
		"grant_type":      {"client_credentials"},
		"scope":           {"accounts:read,transactions:read,credentials:read"},
		"actor_client_id": {c.clientID},
		"id_hint":         {"user:" + userID},
	}
	var token TokenResponse
	if err := c.postForm(ctx, "/oauth/token", form, &token); err != nil {
		return nil, err
	}
	return &token, nil
}

// tinkLinkActorClientID is Tink Link's public actor client id, the same for
// every integration.
const tinkLinkActorClientID = "df05e4b379934cd09963197cc855bfe9"

// DelegateAuthorizationCode grants Tink Link the right to act for one user
// and returns the short-lived authorization code to embed in the Link URL.
func (c *Client) DelegateAuthorizationCode(ctx context.Context, userID, username string) (string, error) {
	if c.accessToken == "" {
		return "", ErrNoAccessToken
	}
	form := url.Values{
		"user_id":         {userID},
		"id_hint":         {username},
		"actor_client_id": {tinkLinkActorClientID},
		"scope":           {"authorization:read,authorization:grant,credentials:refresh,credentials:read,credentials:write,providers:read,user:read"},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/oauth/authorization-grant/delegate", strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+c.accessToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	var out struct {
		Code string `json:"code"`
	}
	if err := c.do(req, &out); err != nil {
		return "", err
	}
	return out.Code, nil
}

// ExchangeCode trades a Tink Link authorization code for a user access token.
func (c *Client) ExchangeCode(ctx context.Context, code string) (*TokenResponse, error) {
	form := url.Values{
		"code":          {code},
		"client_id":     {c.clientID},
		"client_secret": {c.clientSecret},
		"grant_type":    {"authorization_code"},
	}
	var token TokenResponse
	if err := c.postForm(ctx, "/oauth/token", form, &token); err != nil {
		return nil, err
	}
	return &token, nil
}

func (c *Client) CreateUser(ctx context.Context, externalUserID, market, locale string) (*UserResponse, error) {
	if c.accessToken == "" {
		return nil, ErrNoAccessToken
	}
	payload := map[string]string{
		"external_user_id": externalUserID,
		"market":           market,
		"locale":           locale,
	}
	var user UserResponse
	if err := c.postJSON(ctx, "/user/create", payload, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) ListProviders(ctx context.Context, market, capability string) ([]Provider, error) {
	if c.accessToken == "" {
		return nil, ErrNoAccessToken
	}
	path := "/providers?market=" + url.QueryEscape(market)
	if capability != "" {
		path += "&capability=" + url.QueryEscape(capability)
	}
	var resp struct {
		Providers []Provider `json:"providers"`
	}
	if err := c.get(ctx, path, &resp); err != nil {
		return nil, err
	}
	return resp.Providers, nil
}

func (c *Client) ListCredentials(ctx context.Context) ([]Credentials, error) {
	if c.accessToken == "" {
		return nil, ErrNoAccessToken
	}
	var resp struct {
		Credentials []Credentials `json:"credentials"`
	}
	if err := c.get(ctx, "/credentials/list", &resp); err != nil {
		return nil, err
	}
	return resp.Credentials, nil
}

func (c *Client) ListAccounts(ctx context.Context) ([]Account, error) {
	if c.accessToken == "" {
		return nil, ErrNoAccessToken
	}
	var resp struct {
		Accounts []Account `json:"accounts"`
	}
	if err := c.get(ctx, "/accounts/list", &resp); err != nil {
		return nil, err
	}
	return resp.Accounts, nil
}

// ListTransactions lists the user's transactions, optionally filtered to a
// set of provider account ids.
func (c *Client) ListTransactions(ctx context.Context, accountIDs []string) ([]Transaction, error) {
	if c.accessToken == "" {
		return nil, ErrNoAccessToken
	}
	path := "/transactions/list"
	if len(accountIDs) > 0 {
		params := url.Values{}
		for _, id := range accountIDs {
			params.Add("accountIdIn", id)
		}
		path += "?" + params.Encode()
	}
	var resp struct {
		Transactions []Transaction `json:"transactions"`
	}
	if err := c.get(ctx, path, &resp); err != nil {
		return nil, err
	}
	return resp.Transactions, nil
}

// DeleteCredentials disconnects a bank. A 404 means the credential is already
// gone and is not an error.
func (c *Client) DeleteCredentials(ctx context.Context, credentialsID string) error {
	if c.accessToken == "" {
		return ErrNoAccessToken
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.baseURL+"/credentials/"+url.PathEscape(credentialsID), nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.accessToken)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 && resp.StatusCode != http.StatusNotFound {
		return readAPIError(resp)
	}
	return nil
}

// RefreshCredentials asks the provider to re-sync a bank connection.
func (c *Client) RefreshCredentials(ctx context.Context, credentialsID string) error {
	if c.accessToken == "" {
		return ErrNoAccessToken
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/credentials/"+url.PathEscape(credentialsID)+"/refresh", nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.accessToken)
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return readAPIError(resp)
	}
	return nil
}

// ConnectAccountsURL builds the Tink Link URL the front end redirects to for
// the transactions connect-accounts flow.
func (c *Client) ConnectAccountsURL(redirectURI, market, locale, authorizationCode string, test bool) string {
	params := url.Values{}
	params.Set("client_id", c.clientID)
	params.Set("redirect_uri", redirectURI)
	params.Set("market", market)
	params.Set("locale", locale)
	if test {
		params.Set("test", "true")
	} else {
		params.Set("test", "false")
	}
	params.Set("authorization_code", authorizationCode)
	return c.linkURL + "/transactions/connect-accounts?" + params.Encode()
}

func (c *Client) postForm(ctx context.Context, path string, form url.Values, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.do(req, out)
}

func (c *Client) postJSON(ctx context.Context, path string, payload interface{}, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, strings.NewReader(string(body)))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.accessToken)
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.accessToken)
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out interface{}) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return readAPIError(resp)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// readAPIError reads the body as text and, when it parses as JSON, pulls out
// the provider's message field for a readable error.
func readAPIError(resp *http.Response) error {
	body, _ := io.ReadAll(resp.Body)
	message := strings.TrimSpace(string(body))
	var parsed struct {
		Message      string `json:"message"`
		ErrorField   string `json:"error"`
		ErrorMessage string `json:"errorMessage"`
	}
	if err := json.Unmarshal(body, &parsed); err == nil {
		switch {
		case parsed.Message != "":
			message = parsed.Message
		case parsed.ErrorField != "":
			message = parsed.ErrorField
		case parsed.ErrorMessage != "":
			message = parsed.ErrorMessage
		}
	}
	if message == "" {
		message = resp.Status
	}
	return &APIError{Status: resp.StatusCode, Message: message}
}
