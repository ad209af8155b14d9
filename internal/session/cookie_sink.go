package session

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// CookieMaxAge mirrors the browser dashboard's 7-day session cookie.
const CookieMaxAge = 7 * 24 * time.Hour

// CookieSink stores session values as cookie-style lines
// ("name=value; expires=<unix>") in a jar file. Entries past their
// expiry are ignored on read and dropped on the next write. It is the
// secondary sink, kept so a wiped credentials file does not log the
// user out.
type CookieSink struct {
	path string
	now  func() time.Time
}

// NewCookieSink creates a cookie jar sink at path.
func NewCookieSink(path string) *CookieSink {
	return &CookieSink{path: path, now: time.Now}
}

type cookieEntry struct {
	value   string
	expires time.Time
}

func (c *CookieSink) read() (map[string]cookieEntry, error) {
	file, err := os.Open(c.path)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]cookieEntry{}, nil
	}
	if err != nil {
		return nil, err
	}
	defer file.Close()

	entries := map[string]cookieEntry{}
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		name, entry, ok := parseCookieLine(line)
		if !ok {
			// Malformed lines are skipped, not fatal.
			continue
		}
		if entry.expires.Before(c.now()) {
			continue
		}
		entries[name] = entry
	}
	return entries, scanner.Err()
}

func parseCookieLine(line string) (string, cookieEntry, bool) {
	pair, attrs, _ := strings.Cut(line, ";")
	name, rawValue, ok := strings.Cut(strings.TrimSpace(pair), "=")
	if !ok || name == "" {
		return "", cookieEntry{}, false
	}
	value, err := url.QueryUnescape(rawValue)
	if err != nil {
		return "", cookieEntry{}, false
	}
	entry := cookieEntry{value: value}
	for _, attr := range strings.Split(attrs, ";") {
		k, v, _ := strings.Cut(strings.TrimSpace(attr), "=")
		if strings.EqualFold(k, "expires") {
			unix, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				return "", cookieEntry{}, false
			}
			entry.expires = time.Unix(unix, 0)
		}
	}
	if entry.expires.IsZero() {
		return "", cookieEntry{}, false
	}
	return name, entry, true
}

func (c *CookieSink) write(entries map[string]cookieEntry) error {
	if err := os.MkdirAll(filepath.Dir(c.path), 0o700); err != nil {
		return err
	}
	var b strings.Builder
	b.WriteString("# paytrackctl cookie jar\n")
	for name, entry := range entries {
		fmt.Fprintf(&b, "%s=%s; expires=%d\n", name, url.QueryEscape(entry.value), entry.expires.Unix())
	}
	return os.WriteFile(c.path, []byte(b.String()), 0o600)
}

// Set stores a value under name with a fresh 7-day expiry.
func (c *CookieSink) Set(name, value string) error {
	entries, err := c.read()
	if err != nil {
		entries = map[string]cookieEntry{}
	}
	entries[name] = cookieEntry{value: value, expires: c.now().Add(CookieMaxAge)}
	return c.write(entries)
}

// Get returns the unexpired value for name, or empty if absent.
func (c *CookieSink) Get(name string) (string, error) {
	entries, err := c.read()
	if err != nil {
		return "", err
	}
	return entries[name].value, nil
}

// Delete removes name from the jar.
func (c *CookieSink) Delete(name string) error {
	entries, err := c.read()
	if err != nil {
		return err
	}
	if _, ok := entries[name]; !ok {
		return nil
	}
	delete(entries, name)
	return c.write(entries)
}
