package gofetch

import (
	"net/http"
	"net/url"
	"strings"
)

// compose produces an immutable WireRequest from a Request in the
// context of a Client (§4.1). It is the one place URL assembly, header
// merge, override resolution, body realization and task-kind selection
// happen.
func compose(c *Client, r *Request) (*WireRequest, *Error) {
	target, err := composeURL(c, r)
	if err != nil {
		return nil, err
	}

	header := make(http.Header)
	copyHeader(header, c.Headers)

	var bodySource BodySource
	if r.Body != nil {
		encoded, serr := r.Body.Serialize()
		if serr != nil {
			return nil, classifyBodyError(serr)
		}
		copyHeader(header, encoded.Headers)
		if encoded.IsStream() {
			bodySource = BodySource{OpenStream: encoded.Open, Length: encoded.Length}
		} else {
			bodySource = BodySource{Bytes: encoded.Bytes, Length: encoded.Length}
		}
	}

	copyHeader(header, r.Header)

	cachePolicy := c.CachePolicy
	if r.CachePolicy != nil {
		cachePolicy = *r.CachePolicy
	}

	timeout := c.Timeout
	if r.Timeout != nil {
		timeout = *r.Timeout
	}

	security := c.Security
	if r.Security != nil {
		security = r.Security
	}

	followRedirects, followCopy, customRedirect := resolveRedirectPolicy(c, r)

	wire := &WireRequest{
		Method:          r.Method,
		URL:             target,
		Header:          header,
		Body:            bodySource,
		Cache:           cachePolicy,
		Timeout:         timeout,
		HandleCookies:   c.HandleCookies,
		PartialData:     r.PartialData,
		FollowRedirects: followRedirects,
		FollowCopy:      followCopy,
		CustomRedirect:  customRedirect,
		Security:        security,
	}
	wire.TaskKind = selectTaskKind(wire, r)

	if r.Modifier != nil {
		if merr := r.Modifier(wire); merr != nil {
			return nil, newError(CodeFailedBuildingWireRequest, "modifier rejected wire request", merr)
		}
	}

	return wire, nil
}

// composeURL implements §4.1's URL assembly rule exactly: a request
// carrying its own host wins outright (client common query still
// appended); otherwise the client's base URL supplies scheme/host/port
// and the request's path is appended with exactly one separating "/".
func composeURL(c *Client, r *Request) (string, *Error) {
	if r.RawURL != "" {
		u, err := url.Parse(r.RawURL)
		if err != nil {
			return "", newError(CodeInvalidURL, "invalid raw url", err)
		}
		if u.Host != "" {
			mergeQuery(u, r.Query, c.CommonQuery)
			return u.String(), nil
		}
	}

	if r.Host != "" {
		u := &url.URL{Scheme: r.Scheme, Host: joinHostPort(r.Host, r.Port), Path: r.Path}
		if u.Scheme == "" {
			u.Scheme = "https"
		}
		mergeQuery(u, r.Query, c.CommonQuery)
		return u.String(), nil
	}

	if c.BaseURL == nil {
		return "", newError(CodeInvalidURL, "neither request nor client supplies a host", nil)
	}

	u := *c.BaseURL
	u.Path = joinPath(u.Path, r.Path)
	mergeQuery(&u, r.Query, c.CommonQuery)
	return u.String(), nil
}

func joinHostPort(host, port string) string {
	if port == "" {
		return host
	}
	return host + ":" + port
}

func joinPath(base, reqPath string) string {
	if reqPath == "" {
		return base
	}
	baseEndsSlash := strings.HasSuffix(base, "/")
	reqStartsSlash := strings.HasPrefix(reqPath, "/")
	switch {
	case baseEndsSlash && reqStartsSlash:
		return base + reqPath[1:]
	case !baseEndsSlash && !reqStartsSlash:
		return base + "/" + reqPath
	default:
		return base + reqPath
	}
}

func mergeQuery(u *url.URL, requestQuery, commonQuery url.Values) {
	q := u.Query()
	for k, vs := range requestQuery {
		for _, v := range vs {
			q.Add(k, v)
		}
	}
	for k, vs := range commonQuery {
		for _, v := range vs {
			q.Add(k, v)
		}
	}
	u.RawQuery = q.Encode()
}

// copyHeader merges src into dst, later calls overwriting earlier ones
// by case-insensitive name — net/http.Header already normalizes names,
// so a plain Set-per-key loop gives us the "later tier wins" rule
// (§4.1 "Header merge") for free.
func copyHeader(dst, src http.Header) {
	for k, vs := range src {
		if len(vs) == 0 {
			continue
		}
		dst.Del(k)
		for _, v := range vs {
			dst.Add(k, v)
		}
	}
}

func resolveRedirectPolicy(c *Client, r *Request) (follow bool, followCopy bool, custom func(*http.Request, []*http.Request) (*http.Request, error)) {
	mode := c.FollowRedirects
	customFn := c.CustomRedirect
	if r.RedirectMode != RedirectInherit {
		mode = r.RedirectMode
		if r.CustomRedirect != nil {
			customFn = r.CustomRedirect
		}
	}

	switch mode {
	case RedirectRefuse:
		return false, false, nil
	case RedirectFollowCopy:
		return true, true, nil
	case RedirectFollow:
		if customFn != nil {
			return true, false, customFn
		}
		return true, false, nil
	default:
		return true, false, nil
	}
}

// selectTaskKind implements §4.1's task-kind decision tree.
func selectTaskKind(wire *WireRequest, r *Request) TaskKind {
	switch {
	case wire.Body.IsStream():
		return TaskUploadStream
	case r.TransferMode == TransferLargeData && len(r.PartialData) > 0:
		return TaskDownloadResume
	case r.TransferMode == TransferLargeData:
		return TaskDownload
	default:
		return TaskData
	}
}

func classifyBodyError(err error) *Error {
	if e, ok := err.(*Error); ok {
		return e
	}
	return newError(CodeFailedBuildingWireRequest, "body serialization failed", err)
}
