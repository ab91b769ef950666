package vcs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/conn-castle/ladder/internal/messages"
)

// DefaultAPIURL is the public GitHub REST endpoint.
const DefaultAPIURL = "https://api.github.com"

var defaultHTTPClient = &http.Client{Timeout: 30 * time.Second}

// GitHubClient opens pull requests through the GitHub REST API.
type GitHubClient struct {
	APIURL string
	Token  string
	HTTP   *http.Client
}

// NewGitHubClient returns a client for apiURL, or DefaultAPIURL when empty.
func NewGitHubClient(apiURL string, token string) *GitHubClient {
	if strings.TrimSpace(apiURL) == "" {
		apiURL = DefaultAPIURL
	}
	return &GitHubClient{APIURL: strings.TrimRight(apiURL, "/"), Token: token, HTTP: defaultHTTPClient}
}

// NewPullRequest is the request body for opening a pull request.
type NewPullRequest struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	Head  string `json:"head"`
	Base  string `json:"base"`
}

// PullRequest is the subset of the API response callers need.
type PullRequest struct {
	Number  int    `json:"number"`
	URL     string `json:"url"`
	HTMLURL string `json:"html_url"`
}

// APIError reports a non-success response from the GitHub API.
type APIError struct {
	StatusCode int
	Status     string
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf(messages.VCSAPIErrorFmt, e.Status)
	}
	return fmt.Sprintf(messages.VCSAPIErrorMessageFmt, e.Status, e.Message)
}

type apiErrorResponse struct {
	Message string `json:"message"`
}

// CreatePullRequest opens pr against repo. It never retries: a retried POST
// could open a duplicate pull request.
func (c *GitHubClient) CreatePullRequest(ctx context.Context, repo Repository, pr NewPullRequest) (*PullRequest, error) {
	if c.Token == "" {
		return nil, ErrMissingCredential
	}
	payload, err := json.Marshal(pr)
	if err != nil {
		return nil, fmt.Errorf(messages.VCSEncodeRequestFmt, err)
	}
	url := fmt.Sprintf("%s/repos/%s/%s/pulls", c.APIURL, repo.Owner, repo.Name)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf(messages.VCSCreateRequestFmt, err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.Token)
	req.Header.Set("User-Agent", "ladder")

	client := c.HTTP
	if client == nil {
		client = defaultHTTPClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf(messages.VCSSendRequestFmt, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusCreated {
		return nil, apiErrorFromResponse(resp)
	}
	var out PullRequest
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf(messages.VCSDecodeResponseFmt, err)
	}
	return &out, nil
}

func apiErrorFromResponse(resp *http.Response) *APIError {
	apiErr := &APIError{StatusCode: resp.StatusCode, Status: resp.Status}
	body, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return apiErr
	}
	var decoded apiErrorResponse
	if json.Unmarshal(body, &decoded) == nil {
		apiErr.Message = decoded.Message
	}
	return apiErr
}
