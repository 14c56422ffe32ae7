// Package auth retrieves the dashboard bearer token.
//
// The platform issues a session token that the web dashboard stores in a
// cookie named "token". The CLI reads the same token, either directly
// from the ENCORE_TOKEN environment variable or from a browser-exported
// cookies file at ~/.encore-cli/cookies.txt (Netscape format).
package auth

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
)

const (
	credentialDir = ".encore-cli"
	cookieFile    = "cookies.txt"

	// tokenCookieName is the cookie the platform issues at sign-in.
	tokenCookieName = "token"
)

// Token retrieves the session bearer token from available sources.
// Priority order:
//  1. ENCORE_TOKEN environment variable
//  2. Browser-exported cookies file at ~/.encore-cli/cookies.txt
func Token() (string, error) {
	if tok := os.Getenv("ENCORE_TOKEN"); tok != "" {
		log.Debug().Msg("Using token from environment variable")
		return tok, nil
	}

	tok, err := fromCookieFile()
	if err == nil && tok != "" {
		log.Debug().Msg("Using token from exported cookies file")
		return tok, nil
	}

	log.Error().Err(err).Msg("Failed to retrieve session token")
	return "", fmt.Errorf("session token not found. Set ENCORE_TOKEN or export your browser cookies to ~/%s/%s", credentialDir, cookieFile)
}

// ClearCached removes the cached token cookie. Called on a 401 response:
// the session is terminal and the user must sign in again in the browser
// before re-exporting cookies.
func ClearCached() {
	path, err := cookiePath()
	if err != nil {
		return
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return
	}

	var kept []string
	removed := false
	for _, line := range strings.Split(string(data), "\n") {
		if name, _, ok := parseCookieLine(line); ok && name == tokenCookieName {
			removed = true
			continue
		}
		kept = append(kept, line)
	}
	if !removed {
		return
	}
	if err := os.WriteFile(path, []byte(strings.Join(kept, "\n")), 0600); err != nil {
		log.Warn().Err(err).Str("file", path).Msg("Failed to clear cached token cookie")
		return
	}
	log.Info().Str("file", path).Msg("Cleared cached token cookie")
}

// fromCookieFile reads the token cookie from the exported cookies file.
func fromCookieFile() (string, error) {
	path, err := cookiePath()
	if err != nil {
		return "", err
	}

	fi, err := os.Stat(path)
	if os.IsNotExist(err) {
		return "", fmt.Errorf("cookies file not found at %s", path)
	}
	if err != nil {
		return "", err
	}

	// The token grants full account access; warn when the file is
	// readable by anyone but the owner.
	if mode := fi.Mode().Perm(); mode&0077 != 0 {
		log.Warn().
			Str("file", path).
			Str("permissions", fmt.Sprintf("%04o", mode)).
			Msg("Cookies file has insecure permissions (should be 0600)")
	}

	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if name, value, ok := parseCookieLine(scanner.Text()); ok && name == tokenCookieName {
			return value, nil
		}
	}
	if err := scanner.Err(); err != nil {
		return "", err
	}
	return "", fmt.Errorf("no %q cookie in %s", tokenCookieName, path)
}

// parseCookieLine parses one Netscape cookies.txt line into (name, value).
// Format: domain \t includeSubdomains \t path \t secure \t expiry \t name \t value
func parseCookieLine(line string) (name, value string, ok bool) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return "", "", false
	}
	fields := strings.Split(line, "\t")
	if len(fields) != 7 {
		return "", "", false
	}
	return fields[5], fields[6], true
}

// cookiePath returns the full path to the exported cookies file.
func cookiePath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, credentialDir, cookieFile), nil
}
