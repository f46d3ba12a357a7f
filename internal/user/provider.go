package user

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"
	"golang.org/x/oauth2/google"
)

// ProviderUser is the minimal profile an identity provider hands back
// after a successful exchange. Locale is a BCP-47 tag when the provider
// exposes one; it seeds the learner's native language on first login.
type ProviderUser struct {
	Sub       string
	Email     string
	Name      string
	AvatarURL string
	Locale    string
}

// Provider is one OAuth2 identity backend. Constructors return nil when
// the provider is not configured, and the handler skips nil providers.
type Provider interface {
	Name() string
	AuthURL(state string) string
	Exchange(ctx context.Context, code string) (*ProviderUser, error)
}

// fetchJSON issues an authenticated GET and decodes the body into out.
// Identity endpoints report errors via status codes, not error bodies,
// so anything but 200 fails the login.
func fetchJSON(ctx context.Context, client *http.Client, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s returned status %d", url, resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

const googleUserInfoURL = "https://www.googleapis.com/oauth2/v3/userinfo"

type GoogleProvider struct {
	config      *oauth2.Config
	userInfoURL string
}

func NewGoogleProvider(clientID, clientSecret, redirectURL string) *GoogleProvider {
	if clientID == "" || clientSecret == "" {
		return nil
	}
	return &GoogleProvider{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Scopes:       []string{"openid", "profile", "email"},
			Endpoint:     google.Endpoint,
		},
		userInfoURL: googleUserInfoURL,
	}
}

func (p *GoogleProvider) Name() string {
	return "google"
}

func (p *GoogleProvider) AuthURL(state string) string {
	return p.config.AuthCodeURL(state, oauth2.AccessTypeOffline)
}

func (p *GoogleProvider) Exchange(ctx context.Context, code string) (*ProviderUser, error) {
	token, err := p.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("google: exchange code: %w", err)
	}

	var info struct {
		Sub     string `json:"sub"`
		Email   string `json:"email"`
		Name    string `json:"name"`
		Picture string `json:"picture"`
		Locale  string `json:"locale"`
	}
	if err := fetchJSON(ctx, p.config.Client(ctx, token), p.userInfoURL, &info); err != nil {
		return nil, fmt.Errorf("google: fetch userinfo: %w", err)
	}

	return &ProviderUser{
		Sub:       info.Sub,
		Email:     info.Email,
		Name:      info.Name,
		AvatarURL: info.Picture,
		Locale:    info.Locale,
	}, nil
}

const githubAPIBase = "https://api.github.com"

type GitHubProvider struct {
	config  *oauth2.Config
	apiBase string
}

func NewGitHubProvider(clientID, clientSecret, redirectURL string) *GitHubProvider {
	if clientID == "" || clientSecret == "" {
		return nil
	}
	return &GitHubProvider{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Scopes:       []string{"read:user", "user:email"},
			Endpoint:     github.Endpoint,
		},
		apiBase: githubAPIBase,
	}
}

func (p *GitHubProvider) Name() string {
	return "github"
}

func (p *GitHubProvider) AuthURL(state string) string {
	return p.config.AuthCodeURL(state)
}

func (p *GitHubProvider) Exchange(ctx context.Context, code string) (*ProviderUser, error) {
	token, err := p.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("github: exchange code: %w", err)
	}
	client := p.config.Client(ctx, token)

	var info struct {
		ID        int64  `json:"id"`
		Login     string `json:"login"`
		Name      string `json:"name"`
		Email     string `json:"email"`
		AvatarURL string `json:"avatar_url"`
	}
	if err := fetchJSON(ctx, client, p.apiBase+"/user", &info); err != nil {
		return nil, fmt.Errorf("github: fetch profile: %w", err)
	}

	// The profile email is empty when the user keeps it private; the
	// emails endpoint still lists it for the user:email scope.
	email := info.Email
	if email == "" {
		email, err = p.primaryEmail(ctx, client)
		if err != nil {
			return nil, fmt.Errorf("github: fetch emails: %w", err)
		}
	}

	name := info.Name
	if name == "" {
		name = info.Login
	}

	return &ProviderUser{
		Sub:       fmt.Sprintf("%d", info.ID),
		Email:     email,
		Name:      name,
		AvatarURL: info.AvatarURL,
	}, nil
}

// primaryEmail prefers the primary verified address, then any verified
// one. Unverified addresses never reach an account; a learner's
// transcripts must not be claimable through a spoofed email.
func (p *GitHubProvider) primaryEmail(ctx context.Context, client *http.Client) (string, error) {
	var emails []struct {
		Email    string `json:"email"`
		Primary  bool   `json:"primary"`
		Verified bool   `json:"verified"`
	}
	if err := fetchJSON(ctx, client, p.apiBase+"/user/emails", &emails); err != nil {
		return "", err
	}

	for _, e := range emails {
		if e.Primary && e.Verified {
			return e.Email, nil
		}
	}
	for _, e := range emails {
		if e.Verified {
			return e.Email, nil
		}
	}
	return "", nil
}
