package social

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"golang.org/x/oauth2"
)

var instagramEndpoint = oauth2.Endpoint{
	AuthURL:  "https://api.instagram.com/oauth/authorize",
	TokenURL: "https://api.instagram.com/oauth/access_token",
}

const instagramGraphURL = "https://graph.instagram.com"

type InstagramProvider struct {
	oauthConfig *oauth2.Config
	graphURL    string
}

func NewInstagram(appID, appSecret, redirectURL string) *InstagramProvider {
	return &InstagramProvider{
		oauthConfig: &oauth2.Config{
			ClientID:     appID,
			ClientSecret: appSecret,
			RedirectURL:  redirectURL,
			Scopes:       []string{"user_profile", "user_media"},
			Endpoint:     instagramEndpoint,
		},
		graphURL: instagramGraphURL,
	}
}

func (p *InstagramProvider) Name() string {
	return "instagram"
}

func (p *InstagramProvider) AuthCodeURL(state string) string {
	return p.oauthConfig.AuthCodeURL(state)
}

func (p *InstagramProvider) Exchange(ctx context.Context, code, redirectURI string) (*Identity, error) {
	cfg := *p.oauthConfig
	if redirectURI != "" {
		cfg.RedirectURL = redirectURI
	}

	token, err := cfg.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange Instagram authorization code: %w", err)
	}

	// Instagram returns the account id alongside the token.
	userID := extraString(token, "user_id")
	if userID == "" {
		return nil, errors.New("Instagram did not return a user_id")
	}

	endpoint := fmt.Sprintf("%s/%s?fields=id,username,account_type,media_count&access_token=%s",
		p.graphURL, userID, url.QueryEscape(token.AccessToken))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to get Instagram user info: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to get Instagram user info: status %d", resp.StatusCode)
	}

	var userData struct {
		ID          json.Number `json:"id"`
		Username    string      `json:"username"`
		AccountType string      `json:"account_type"`
		MediaCount  int         `json:"media_count"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&userData); err != nil {
		return nil, fmt.Errorf("failed to parse Instagram user info: %w", err)
	}

	accountType := userData.AccountType
	if accountType == "" {
		accountType = "PERSONAL"
	}

	id := userData.ID.String()
	if id == "" {
		id = userID
	}

	return &Identity{
		Provider:    "instagram",
		ID:          id,
		Name:        userData.Username,
		Username:    userData.Username,
		AccountType: accountType,
		MediaCount:  userData.MediaCount,
	}, nil
}

// extraString reads a token extra that providers serialize either as a
// string or as a JSON number.
func extraString(token *oauth2.Token, key string) string {
	switch v := token.Extra(key).(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case json.Number:
		return v.String()
	default:
		return ""
	}
}
