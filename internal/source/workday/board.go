package workday

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// board is a Workday career site, e.g.
// https://acme.wd5.myworkdayjobs.com/en-US/External
type board struct {
	Scheme string
	Host   string
	Tenant string
	Site   string
	Locale string
}

func parseBoardURL(raw string) (board, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return board{}, errors.New("empty board url")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return board{}, err
	}
	if u.Scheme == "" {
		u.Scheme = "https"
	}
	if u.Host == "" {
		return board{}, fmt.Errorf("missing host in %q", raw)
	}
	host := strings.Split(u.Host, ".")
	if len(host) < 3 {
		return board{}, fmt.Errorf("unexpected host %q", u.Host)
	}

	segs := strings.Split(strings.Trim(u.Path, "/"), "/")
	if segs[0] == "" {
		return board{}, fmt.Errorf("no site in %q", raw)
	}
	locale := ""
	if len(segs) >= 2 && isLocale(segs[0]) {
		locale = strings.ToLower(segs[0][:2]) + "-" + strings.ToUpper(segs[0][3:])
		segs = segs[1:]
	}

	return board{
		Scheme: u.Scheme,
		Host:   u.Host,
		Tenant: host[0],
		Site:   segs[len(segs)-1],
		Locale: locale,
	}, nil
}

// isLocale accepts en-US, en-us and the like.
func isLocale(s string) bool {
	if len(s) != 5 || s[2] != '-' {
		return false
	}
	for _, c := range s[:2] + s[3:] {
		if !(c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z') {
			return false
		}
	}
	return true
}

func (b board) origin() string { return b.Scheme + "://" + b.Host }

func (b board) jobsEndpoint() string {
	ep := fmt.Sprintf("%s/wday/cxs/%s/%s/jobs", b.origin(), b.Tenant, b.Site)
	if b.Locale != "" {
		ep += "?locale=" + url.QueryEscape(b.Locale)
	}
	return ep
}

func (b board) jobURL(p posting) string {
	if u := strings.TrimSpace(p.ExternalURL); u != "" {
		return u
	}
	path := strings.TrimSpace(p.ExternalPath)
	switch {
	case path == "":
		return ""
	case strings.HasPrefix(path, "http://"), strings.HasPrefix(path, "https://"):
		return path
	case !strings.HasPrefix(path, "/"):
		path = "/" + path
	}
	// externalPath is relative to the site, not the host.
	return fmt.Sprintf("%s/%s%s", b.origin(), b.Site, path)
}
