package google

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/oauth2"
)

var requiredScopes = []string{
	"https://www.googleapis.com/auth/calendar.readonly",
}

// refreshWindow is how long before expiry a stored token is treated as
// stale and refreshed proactively.
const refreshWindow = 5 * time.Minute

// ErrNoToken is returned when no stored token exists yet.
var ErrNoToken = errors.New("google: not authenticated, run 'tracky calendar auth' first")

// tokenFilePath returns the path to the stored token file.
func tokenFilePath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".tracky", "auth", "google_tokens.json"), nil
}

// OAuth2Config returns the oauth2.Config for Google Calendar using the
// provided client credentials and loopback redirect port.
func OAuth2Config(clientID, clientSecret string, redirectPort int) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Scopes:       requiredScopes,
		RedirectURL:  fmt.Sprintf("http://127.0.0.1:%d/callback", redirectPort),
		Endpoint: oauth2.Endpoint{
			AuthURL:   "https://accounts.google.com/o/oauth2/auth",
			TokenURL:  "https://oauth2.googleapis.com/token",
			AuthStyle: oauth2.AuthStyleInParams,
		},
	}
}

// stale reports whether the token should be refreshed before use.
// A token within refreshWindow of its expiry counts as stale.
func stale(tok *oauth2.Token, now time.Time) bool {
	if tok == nil || tok.AccessToken == "" {
		return true
	}
	if tok.Expiry.IsZero() {
		return false
	}
	return !tok.Expiry.After(now.Add(refreshWindow))
}

// loadToken loads a previously saved token from disk.
func loadToken() (*oauth2.Token, error) {
	path, err := tokenFilePath()
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading token file: %w", err)
	}
	var tok oauth2.Token
	if err := json.Unmarshal(data, &tok); err != nil {
		return nil, fmt.Errorf("corrupt token file (delete %s to re-authenticate): %w", path, err)
	}
	return &tok, nil
}

// saveToken persists a token to disk.
func saveToken(tok *oauth2.Token) error {
	path, err := tokenFilePath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating auth directory: %w", err)
	}
	data, err := json.MarshalIndent(tok, "", "  ")
	if err != nil {
		return fmt.Errorf("marshalling token: %w", err)
	}
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o600); err != nil {
		return fmt.Errorf("writing token file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("saving token file: %w", err)
	}
	return nil
}

// randomState returns a hex state parameter for the consent URL.
func randomState() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generating state: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// callbackResult is what the loopback handler hands back to Authorize.
type callbackResult struct {
	code string
	err  error
}

// callbackHandler captures the authorization code from the consent redirect.
// It validates the state parameter and reports exactly one result.
func callbackHandler(state string, results chan<- callbackResult) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if errMsg := q.Get("error"); errMsg != "" {
			http.Error(w, "Authorization failed. You can close this window.", http.StatusBadRequest)
			results <- callbackResult{err: fmt.Errorf("consent denied: %s", errMsg)}
			return
		}
		if q.Get("state") != state {
			http.Error(w, "State mismatch. You can close this window.", http.StatusBadRequest)
			results <- callbackResult{err: errors.New("oauth state mismatch")}
			return
		}
		code := q.Get("code")
		if code == "" {
			http.Error(w, "Missing authorization code.", http.StatusBadRequest)
			results <- callbackResult{err: errors.New("redirect missing authorization code")}
			return
		}
		fmt.Fprintln(w, "Authorized. You can close this window and return to the terminal.")
		results <- callbackResult{code: code}
	}
}

// Authorize runs the browser consent flow: it prints the consent URL, waits
// on a loopback HTTP listener for the redirect carrying the authorization
// code, exchanges the code for tokens, and persists them.
func Authorize(ctx context.Context, cfg *oauth2.Config, redirectPort int) error {
	state, err := randomState()
	if err != nil {
		return err
	}

	ln, err := net.Listen("tcp", fmt.Sprintf("127.0.0.1:%d", redirectPort))
	if err != nil {
		return fmt.Errorf("cannot listen on redirect port %d: %w", redirectPort, err)
	}

	results := make(chan callbackResult, 1)
	mux := http.NewServeMux()
	mux.Handle("/callback", callbackHandler(state, results))
	srv := &http.Server{Handler: mux}
	go func() {
		if err := srv.Serve(ln); err != nil && err != http.ErrServerClosed {
			results <- callbackResult{err: fmt.Errorf("callback listener: %w", err)}
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	authURL := cfg.AuthCodeURL(state,
		oauth2.AccessTypeOffline,
		oauth2.SetAuthURLParam("prompt", "consent"),
	)

	fmt.Println()
	fmt.Println("To sign in, open the following page in your browser:")
	fmt.Printf("  %s\n", authURL)
	fmt.Println()
	fmt.Println("Waiting for the consent redirect...")

	var res callbackResult
	select {
	case <-ctx.Done():
		return ctx.Err()
	case res = <-results:
	}
	if res.err != nil {
		return res.err
	}

	tok, err := cfg.Exchange(ctx, res.code)
	if err != nil {
		return fmt.Errorf("exchanging authorization code: %w", err)
	}
	if err := saveToken(tok); err != nil {
		return err
	}
	fmt.Println("Authentication successful.")
	return nil
}

// GetToken returns a usable token, refreshing and persisting it when it is
// within the refresh window of expiry. Returns ErrNoToken when the user has
// never authenticated.
func GetToken(ctx context.Context, cfg *oauth2.Config) (*oauth2.Token, error) {
	tok, err := loadToken()
	if err != nil {
		// Corrupt token — warn and treat as absent.
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		tok = nil
	}
	if tok == nil {
		return nil, ErrNoToken
	}

	if !stale(tok, time.Now()) {
		return tok, nil
	}

	if tok.RefreshToken == "" {
		return nil, ErrNoToken
	}
	ts := cfg.TokenSource(ctx, tok)
	refreshed, err := ts.Token()
	if err != nil {
		return nil, fmt.Errorf("token refresh failed (re-run 'tracky calendar auth'): %w", err)
	}
	if err := saveToken(refreshed); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not save refreshed token: %v\n", err)
	}
	return refreshed, nil
}
