package oauth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/browser"
	"github.com/zalando/go-keyring"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"golang.org/x/oauth2/microsoft"
	"google.golang.org/api/gmail/v1"

	"github.com/example/ibozctl/internal/api"
	"github.com/example/ibozctl/internal/config"
	"github.com/example/ibozctl/internal/log"
)

const (
	callbackPath   = "/oauth2callback"
	keyringService = "ibozctl"
	defaultTenant  = "common"

	outlookMailReadScope = "https://outlook.office.com/IMAP.AccessAsUser.All"
	graphMailReadScope   = "https://graph.microsoft.com/Mail.Read"
	offlineAccessScope   = "offline_access"
)

var (
	ErrNotConfigured = errors.New("no oauth client configured for provider")
	ErrUnsupported   = errors.New("provider does not support oauth")
)

// Config builds the oauth2 configuration for provider from the client
// registered in the ibozctl config file.
func Config(provider api.Provider, cfg config.OAuthConfig) (*oauth2.Config, error) {
	switch provider {
	case api.ProviderGmail:
		if !cfg.Gmail.Configured() {
			return nil, fmt.Errorf("%w: %s", ErrNotConfigured, provider)
		}
		return &oauth2.Config{
			ClientID:     cfg.Gmail.ClientID,
			ClientSecret: cfg.Gmail.ClientSecret,
			Endpoint:     google.Endpoint,
			Scopes:       []string{gmail.GmailModifyScope, gmail.GmailReadonlyScope},
		}, nil
	case api.ProviderOutlook:
		if !cfg.Outlook.Configured() {
			return nil, fmt.Errorf("%w: %s", ErrNotConfigured, provider)
		}
		tenant := strings.TrimSpace(cfg.Outlook.Tenant)
		if tenant == "" {
			tenant = defaultTenant
		}
		return &oauth2.Config{
			ClientID:     cfg.Outlook.ClientID,
			ClientSecret: cfg.Outlook.ClientSecret,
			Endpoint:     microsoft.AzureADEndpoint(tenant),
			Scopes:       []string{graphMailReadScope, outlookMailReadScope, offlineAccessScope},
		}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, provider)
	}
}

// Token returns a valid access token for username, refreshing a cached token
// or running the browser flow when none is usable.
func Token(
	ctx context.Context,
	provider api.Provider,
	cfg config.OAuthConfig,
	username string,
) (*oauth2.Token, error) {
	if strings.TrimSpace(username) == "" {
		return nil, errors.New("missing username for oauth")
	}
	oauthCfg, err := Config(provider, cfg)
	if err != nil {
		return nil, err
	}
	return token(ctx, oauthCfg, provider, username)
}

func token(
	ctx context.Context,
	oauthCfg *oauth2.Config,
	provider api.Provider,
	username string,
) (*oauth2.Token, error) {
	tok, err := tokenFromKeyring(provider, username)
	if err != nil {
		if !errors.Is(err, keyring.ErrNotFound) {
			return nil, fmt.Errorf("unable to load oauth token from keyring: %w", err)
		}
		tok = nil
	}

	if tok == nil {
		log.Printf("No token found for %s/%s, starting authentication...", provider, username)
		tok, err = tokenFromWeb(ctx, oauthCfg, username)
		if err != nil {
			return nil, err
		}
		saveToken(provider, username, tok)
		return tok, nil
	}

	newTok, err := oauthCfg.TokenSource(ctx, tok).Token()
	if err != nil {
		log.Printf("Token refresh failed for %s/%s, re-authenticating...", provider, username)
		tok, err = tokenFromWeb(ctx, oauthCfg, username)
		if err != nil {
			return nil, err
		}
		saveToken(provider, username, tok)
		return tok, nil
	}
	if newTok.AccessToken != tok.AccessToken {
		saveToken(provider, username, newTok)
	}
	return newTok, nil
}

func saveToken(provider api.Provider, username string, tok *oauth2.Token) {
	if err := saveTokenToKeyring(provider, username, tok); err != nil {
		log.Printf("Unable to cache oauth token in keyring: %v", err)
	}
}

func tokenFromWeb(ctx context.Context, config *oauth2.Config, username string) (*oauth2.Token, error) {
	if config == nil {
		return nil, errors.New("missing oauth config")
	}

	var lc net.ListenConfig
	listener, err := lc.Listen(ctx, "tcp", "127.0.0.1:0")
	if err != nil {
		return nil, fmt.Errorf("unable to start oauth callback server: %w", err)
	}
	defer listener.Close()

	cfg := *config
	cfg.RedirectURL = fmt.Sprintf("http://%s%s", listener.Addr().String(), callbackPath)

	state, err := randomState()
	if err != nil {
		return nil, err
	}

	pkceVerifier, pkceChallenge, err := generatePKCE()
	if err != nil {
		return nil, err
	}

	authURL := cfg.AuthCodeURL(
		state,
		oauth2.AccessTypeOffline,
		oauth2.SetAuthURLParam("prompt", "consent"),
		oauth2.SetAuthURLParam("login_hint", username),
		oauth2.SetAuthURLParam("code_challenge_method", "S256"),
		oauth2.SetAuthURLParam("code_challenge", pkceChallenge),
	)

	log.Printf("Authentication required for %s", username)
	if err := browser.OpenURL(authURL); err != nil {
		log.Printf("Open this URL to authorize: %v", authURL)
	} else {
		log.Printf("If your browser does not open, visit: %v", authURL)
	}

	codeCh := make(chan string, 1)
	errCh := make(chan error, 1)
	fail := func(err error) {
		select {
		case errCh <- err:
		default:
		}
	}

	mux := http.NewServeMux()
	mux.HandleFunc(callbackPath, func(w http.ResponseWriter, r *http.Request) {
		code, err := callbackCode(r, state)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			fail(err)
			return
		}
		_, _ = w.Write([]byte("ibozctl authentication complete. You can close this window."))
		select {
		case codeCh <- code:
		default:
		}
	})

	server := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			fail(err)
		}
	}()
	defer func() { _ = server.Shutdown(context.Background()) }()

	waitCtx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	select {
	case code := <-codeCh:
		tok, err := cfg.Exchange(
			ctx,
			code,
			oauth2.SetAuthURLParam("code_verifier", pkceVerifier),
		)
		if err != nil {
			return nil, fmt.Errorf("unable to retrieve token: %w", err)
		}
		return tok, nil
	case err := <-errCh:
		return nil, err
	case <-waitCtx.Done():
		return nil, errors.New("timed out waiting for oauth callback")
	}
}

// callbackCode validates the redirect request and extracts the
// authorization code.
func callbackCode(r *http.Request, state string) (string, error) {
	query := r.URL.Query()
	if query.Get("state") != state {
		return "", errors.New("oauth state mismatch")
	}
	if errText := query.Get("error"); errText != "" {
		return "", fmt.Errorf("oauth error: %s", errText)
	}
	code := query.Get("code")
	if code == "" {
		return "", errors.New("oauth callback missing code")
	}
	return code, nil
}

func generatePKCE() (string, string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", "", fmt.Errorf("unable to generate PKCE verifier: %w", err)
	}
	verifier := base64.RawURLEncoding.EncodeToString(buf)
	sum := sha256.Sum256([]byte(verifier))
	challenge := base64.RawURLEncoding.EncodeToString(sum[:])
	return verifier, challenge, nil
}

func randomState() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("unable to generate oauth state: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

func tokenFromKeyring(provider api.Provider, username string) (*oauth2.Token, error) {
	value, err := keyring.Get(keyringService, keyringAccount(provider, username))
	if err != nil {
		return nil, err
	}

	var tok oauth2.Token
	if err := json.Unmarshal([]byte(value), &tok); err != nil {
		return nil, err
	}
	return &tok, nil
}

func saveTokenToKeyring(provider api.Provider, username string, token *oauth2.Token) error {
	if token == nil {
		return errors.New("missing oauth token")
	}
	data, err := json.Marshal(token)
	if err != nil {
		return err
	}
	log.Printf("Saving credential to keyring for: %s/%s", provider, username)
	return keyring.Set(keyringService, keyringAccount(provider, username), string(data))
}

// DeleteToken forgets the cached token for username.
func DeleteToken(provider api.Provider, username string) error {
	if strings.TrimSpace(username) == "" {
		return nil
	}
	if err := keyring.Delete(keyringService, keyringAccount(provider, username)); err != nil &&
		!errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("unable to delete token from keyring: %w", err)
	}
	return nil
}

func keyringAccount(provider api.Provider, username string) string {
	return string(provider) + ":" + strings.ToLower(strings.TrimSpace(username))
}
