package vcs

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *GitHubClient {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	c := NewGitHubClient(server.URL+"/", "secret")
	c.HTTP = server.Client()
	return c
}

func TestCreatePullRequestSuccess(t *testing.T) {
	var got NewPullRequest
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/repos/acme/shop/pulls", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"number": 7, "html_url": "https://github.com/acme/shop/pull/7"}`))
	})

	pr, err := c.CreatePullRequest(context.Background(), Repository{Owner: "acme", Name: "shop"}, NewPullRequest{
		Title: "Upgrade laravel from 9 to 10",
		Body:  "body",
		Head:  "upgrade-laravel-9-to-10",
		Base:  "main",
	})
	require.NoError(t, err)
	assert.Equal(t, 7, pr.Number)
	assert.Equal(t, "https://github.com/acme/shop/pull/7", pr.HTMLURL)
	assert.Equal(t, "upgrade-laravel-9-to-10", got.Head)
	assert.Equal(t, "main", got.Base)
}

func TestCreatePullRequestAPIErrorIsNotRetried(t *testing.T) {
	calls := 0
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		calls++
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"message": "Validation Failed"}`))
	})

	_, err := c.CreatePullRequest(context.Background(), Repository{Owner: "acme", Name: "shop"}, NewPullRequest{})
	require.Error(t, err)
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnprocessableEntity, apiErr.StatusCode)
	assert.Equal(t, "Validation Failed", apiErr.Message)
	assert.Contains(t, err.Error(), "Validation Failed")
	assert.Equal(t, 1, calls)
}

func TestCreatePullRequestNonJSONError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("<html>bad gateway</html>"))
	})
	_, err := c.CreatePullRequest(context.Background(), Repository{Owner: "a", Name: "b"}, NewPullRequest{})
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Empty(t, apiErr.Message)
}

func TestCreatePullRequestDecodeFailure(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte("not json"))
	})
	_, err := c.CreatePullRequest(context.Background(), Repository{Owner: "a", Name: "b"}, NewPullRequest{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode")
}

func TestCreatePullRequestMissingToken(t *testing.T) {
	c := NewGitHubClient("", "")
	assert.Equal(t, DefaultAPIURL, c.APIURL)
	_, err := c.CreatePullRequest(context.Background(), Repository{Owner: "a", Name: "b"}, NewPullRequest{})
	assert.ErrorIs(t, err, ErrMissingCredential)
}

func TestGitCreatePullRequestResolvesRemote(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repos/acme/shop/pulls", r.URL.Path)
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"number": 1}`))
	})
	g, _ := newFakeGit(map[string]string{"remote get-url origin": "git@github.com:acme/shop.git"}, nil)
	g.GitHub = c

	pr, err := g.CreatePullRequest(context.Background(), PROptions{Remote: "origin", Head: "h", Base: "main"})
	require.NoError(t, err)
	assert.Equal(t, 1, pr.Number)
}
