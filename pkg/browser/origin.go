package browser

import (
	"fmt"
	"net/url"

	"github.com/gobwas/glob"
)

// originPolicy decides whether navigation to a URL is permitted, based
// on allow and block glob patterns matched against the URL's origin
// (scheme://host[:port]) and bare host.
type originPolicy struct {
	allowed []glob.Glob
	blocked []glob.Glob
}

func newOriginPolicy(allowed, blocked []string) (*originPolicy, error) {
	p := &originPolicy{}

	for _, pattern := range allowed {
		g, err := glob.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid allowed origin pattern %q: %w", pattern, err)
		}
		p.allowed = append(p.allowed, g)
	}
	for _, pattern := range blocked {
		g, err := glob.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid blocked origin pattern %q: %w", pattern, err)
		}
		p.blocked = append(p.blocked, g)
	}

	return p, nil
}

// check returns an error when navigation to rawURL is denied. A block
// match always wins; an empty allow list permits everything not blocked.
func (p *originPolicy) check(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("cannot parse url %q: %w", rawURL, err)
	}

	origin := u.Scheme + "://" + u.Host

	for _, g := range p.blocked {
		if g.Match(origin) || g.Match(u.Host) {
			return fmt.Errorf("navigation to %s is blocked by origin policy", origin)
		}
	}

	if len(p.allowed) == 0 {
		return nil
	}
	for _, g := range p.allowed {
		if g.Match(origin) || g.Match(u.Host) {
			return nil
		}
	}
	return fmt.Errorf("navigation to %s is not in the allowed origins", origin)
}
