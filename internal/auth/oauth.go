package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"
)

const defaultGitHubAPIURL = "https://api.github.com"

// GitHubUser is the portion of the GitHub /user API response we care about.
//
// GitHub API docs: https://docs.github.com/en/rest/users/users#get-the-authenticated-user
type GitHubUser struct {
	ID    int64  `json:"id"`    // stable numeric ID
	Login string `json:"login"` // GitHub username
	Name  string `json:"name"`  // display name, may be empty
	Email string `json:"email"` // empty if hidden in GitHub settings
}

// SplitName turns GitHub's single display name into forenames and surname.
// Everything before the last space is treated as forenames. When the profile
// has no name, the login stands in for the forenames.
func (u *GitHubUser) SplitName() (forenames, surname string) {
	name := strings.TrimSpace(u.Name)
	if name == "" {
		return u.Login, ""
	}
	if i := strings.LastIndex(name, " "); i > 0 {
		return strings.TrimSpace(name[:i]), strings.TrimSpace(name[i+1:])
	}
	return name, ""
}

// NoReplyEmail is used when the GitHub account hides its email address, so
// every account still has a unique email.
func (u *GitHubUser) NoReplyEmail() string {
	if u.Email != "" {
		return u.Email
	}
	return fmt.Sprintf("%d+%s@users.noreply.github.com", u.ID, u.Login)
}

// GitHubProvider wraps golang.org/x/oauth2 for the GitHub Authorization Code flow:
// redirect to GitHub, receive a short-lived code on the callback, exchange it
// server-to-server for an access token and read the profile with that token.
type GitHubProvider struct {
	config *oauth2.Config
	apiURL string
}

// NewGitHubProvider creates a GitHubProvider with the given credentials.
// callbackURL must match the "Authorization callback URL" registered on GitHub.
func NewGitHubProvider(clientID, clientSecret, callbackURL string) *GitHubProvider {
	return &GitHubProvider{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  callbackURL,
			Scopes:       []string{"read:user", "user:email"},
			Endpoint:     github.Endpoint,
		},
		apiURL: defaultGitHubAPIURL,
	}
}

// WithEndpoints points the provider at a different OAuth server and API base
// URL. Tests use it with an httptest server.
func (p *GitHubProvider) WithEndpoints(endpoint oauth2.Endpoint, apiURL string) *GitHubProvider {
	p.config.Endpoint = endpoint
	p.apiURL = strings.TrimRight(apiURL, "/")
	return p
}

// AuthURL returns the URL to redirect the user to. state is echoed back on
// the callback and must match the value stored in the state cookie.
func (p *GitHubProvider) AuthURL(state string) string {
	return p.config.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

// Exchange trades the authorization code for the caller's GitHub profile.
func (p *GitHubProvider) Exchange(ctx context.Context, code string) (*GitHubUser, error) {
	oauthToken, err := p.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("auth: exchanging OAuth code: %w", err)
	}

	// The returned client adds "Authorization: Bearer <token>" to every request.
	client := p.config.Client(ctx, oauthToken)

	resp, err := client.Get(p.apiURL + "/user")
	if err != nil {
		return nil, fmt.Errorf("auth: calling GitHub /user API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("auth: GitHub /user API returned status %d", resp.StatusCode)
	}

	var ghUser GitHubUser
	if err := json.NewDecoder(resp.Body).Decode(&ghUser); err != nil {
		return nil, fmt.Errorf("auth: decoding GitHub /user response: %w", err)
	}
	if ghUser.ID == 0 {
		return nil, fmt.Errorf("auth: GitHub returned an invalid user (ID = 0)")
	}

	return &ghUser, nil
}
