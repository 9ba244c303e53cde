package modules

import (
	"fmt"
	"net/url"

	"github.com/glyphterm/glyph/internal/capability"
	"github.com/glyphterm/glyph/internal/platform"
)

// URL exposes URL parsing and query escaping.
type URL struct{}

// NewURL creates the url module.
func NewURL() *URL { return &URL{} }

func (m *URL) Name() string             { return "url" }
func (m *URL) Platforms() platform.Mask { return platform.Any }

func (m *URL) Register(b *capability.Binder) error {
	fns := map[string]capability.Func{
		"parse":  m.parse,
		"encode": m.encode,
		"decode": m.decode,
	}
	for name, fn := range fns {
		if err := b.Func(name, fn); err != nil {
			return err
		}
	}
	return nil
}

func (m *URL) parse(args []interface{}) (interface{}, error) {
	raw, err := argString(args, 0, "url")
	if err != nil {
		return nil, err
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parse url %q: %w", raw, err)
	}

	query := make(map[string]interface{})
	for k, vs := range u.Query() {
		if len(vs) == 1 {
			query[k] = vs[0]
		} else {
			items := make([]interface{}, len(vs))
			for i, v := range vs {
				items[i] = v
			}
			query[k] = items
		}
	}

	out := map[string]interface{}{
		"scheme":   u.Scheme,
		"host":     u.Host,
		"hostname": u.Hostname(),
		"port":     u.Port(),
		"path":     u.Path,
		"query":    query,
		"fragment": u.Fragment,
	}
	if u.User != nil {
		out["user"] = u.User.Username()
	}
	return out, nil
}

func (m *URL) encode(args []interface{}) (interface{}, error) {
	s, err := argString(args, 0, "text")
	if err != nil {
		return nil, err
	}
	return url.QueryEscape(s), nil
}

func (m *URL) decode(args []interface{}) (interface{}, error) {
	s, err := argString(args, 0, "text")
	if err != nil {
		return nil, err
	}
	out, err := url.QueryUnescape(s)
	if err != nil {
		return nil, fmt.Errorf("decode %q: %w", s, err)
	}
	return out, nil
}
