package cookies

import (
	"bufio"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"
)

// httpOnlyPrefix marks HttpOnly cookies in exports from some browsers.
const httpOnlyPrefix = "#HttpOnly_"

// Parse reads a Netscape cookies.txt export. The credential blob is treated
// as pre-validated: malformed lines are skipped rather than rejected.
// Format: domain flag path secure expiration name value
func Parse(r io.Reader) ([]*http.Cookie, error) {
	var cookies []*http.Cookie
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		httpOnly := false
		if strings.HasPrefix(line, httpOnlyPrefix) {
			httpOnly = true
			line = strings.TrimPrefix(line, httpOnlyPrefix)
		}
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.Split(line, "\t")
		if len(parts) < 7 {
			continue
		}

		expiresUnix, _ := strconv.ParseInt(parts[4], 10, 64)
		cookie := &http.Cookie{
			Name:     parts[5],
			Value:    parts[6],
			Domain:   parts[0],
			Path:     parts[2],
			Secure:   strings.EqualFold(parts[3], "TRUE"),
			HttpOnly: httpOnly,
		}
		if expiresUnix > 0 {
			cookie.Expires = time.Unix(expiresUnix, 0)
		}
		cookies = append(cookies, cookie)
	}

	return cookies, scanner.Err()
}

// FromEnv loads cookies from a raw blob (the COOKIES variable) or, when the
// blob is empty, from a cookies.txt path. Both empty means no credentials,
// which is valid: public live streams resolve unauthenticated.
func FromEnv(blob, path string) ([]*http.Cookie, error) {
	if strings.TrimSpace(blob) != "" {
		return Parse(strings.NewReader(blob))
	}
	if path == "" {
		return nil, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cookie file: %w", err)
	}
	defer f.Close()
	return Parse(f)
}
