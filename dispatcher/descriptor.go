package dispatcher

import (
	"encoding/json"
	"fmt"
	"maps"
	"net/url"
	"strings"

	"github.com/jrsteele09/clinic-console/cache"
	"github.com/jrsteele09/clinic-console/internal/errors"
	"github.com/jrsteele09/clinic-console/internal/utils"
)

// Params are the path and query parameters of a request. Parameters named in
// the path template are substituted; the rest become the query string.
type Params map[string]string

// TagSpec declares a tag. With neither IDParam nor IDField set it is a
// type-only tag. IDParam takes the id from the request parameters, IDField
// from a top level field of the JSON response.
type TagSpec struct {
	Type    cache.TagType
	IDParam string
	IDField string
}

func Type(t cache.TagType) TagSpec {
	return TagSpec{Type: t}
}

func ByParam(t cache.TagType, param string) TagSpec {
	return TagSpec{Type: t, IDParam: param}
}

func ByField(t cache.TagType, field string) TagSpec {
	return TagSpec{Type: t, IDField: field}
}

// resolve returns the tag and whether it could be resolved. A nil body means
// the response is not known yet.
func (s TagSpec) resolve(params Params, body json.RawMessage) (cache.Tag, bool) {
	switch {
	case s.IDParam != "":
		id := params[s.IDParam]
		return cache.IDTag(s.Type, id), id != ""
	case s.IDField != "":
		if body == nil {
			return cache.Tag{}, false
		}
		var fields map[string]any
		if err := json.Unmarshal(body, &fields); err != nil {
			return cache.Tag{}, false
		}
		id, ok := utils.ToString(fields[s.IDField])
		return cache.IDTag(s.Type, id), ok && id != ""
	default:
		return cache.TypeTag(s.Type), true
	}
}

func resolveTags(specs []TagSpec, params Params, body json.RawMessage) []cache.Tag {
	tags := make([]cache.Tag, 0, len(specs))
	for _, s := range specs {
		if tag, ok := s.resolve(params, body); ok {
			tags = append(tags, tag)
		}
	}
	return tags
}

// Query describes a read endpoint.
type Query struct {
	Name     string
	Path     string    // Template such as /api/patients/{id}
	Defaults Params    // Applied when the caller leaves a parameter empty
	Provides []TagSpec // Tags attached to the cached result
}

// Key is the cache key for params: the resolved request target.
func (q Query) Key(params Params) (string, error) {
	return resolveTarget(q.Path, q.withDefaults(params))
}

func (q Query) withDefaults(params Params) Params {
	if len(q.Defaults) == 0 {
		return params
	}
	merged := maps.Clone(q.Defaults)
	for k, v := range params {
		if v != "" {
			merged[k] = v
		}
	}
	return merged
}

// Mutation describes a write endpoint.
type Mutation struct {
	Name        string
	Method      string
	Path        string
	Invalidates []TagSpec
	Public      bool // Sent without treating 401 as a lost session, e.g. login
}

func (m Mutation) Target(params Params) (string, error) {
	return resolveTarget(m.Path, params)
}

func resolveTarget(template string, params Params) (string, error) {
	used := map[string]bool{}
	var b strings.Builder

	rest := template
	for {
		open := strings.IndexByte(rest, '{')
		if open < 0 {
			b.WriteString(rest)
			break
		}
		end := strings.IndexByte(rest[open:], '}')
		if end < 0 {
			return "", fmt.Errorf("unterminated parameter in %q", template)
		}
		name := rest[open+1 : open+end]
		value := params[name]
		if value == "" {
			return "", fmt.Errorf("%w: %s in %s", errors.ErrMissingParam, name, template)
		}
		b.WriteString(rest[:open])
		b.WriteString(url.PathEscape(value))
		used[name] = true
		rest = rest[open+end+1:]
	}

	query := url.Values{}
	for k, v := range params {
		if !used[k] && v != "" {
			query.Set(k, v)
		}
	}
	if len(query) > 0 {
		// Encode sorts by key, giving one key per distinct request.
		b.WriteString("?")
		b.WriteString(query.Encode())
	}
	return b.String(), nil
}
