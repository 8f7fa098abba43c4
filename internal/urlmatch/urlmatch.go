// Package urlmatch implements the generic URL template matcher (spec
// component C2): deciding whether a concrete request target matches a
// template with "{name}" placeholders, and extracting the values bound to
// those placeholders. It is pure string manipulation, grounded on the
// teacher's habit (HnustLzh2-http/app/mux.go) of splitting paths on "/" and
// comparing segments, generalized to placeholders and to the query string.
package urlmatch

import "strings"

const placeholderOpen, placeholderClose = '{', '}'

// Match reports whether template and url have the same structure: same
// query presence, same path-segment count, same query-pair count, and every
// segment/pair either matches literally or the template side is a
// "{placeholder}".
func Match(template, url string) bool {
	tPath, tQuery, tHasQuery := splitQuery(template)
	uPath, uQuery, uHasQuery := splitQuery(url)
	if tHasQuery != uHasQuery {
		return false
	}

	tSegs := strings.Split(tPath, "/")
	uSegs := strings.Split(uPath, "/")
	if len(tSegs) != len(uSegs) {
		return false
	}
	for i := range tSegs {
		if !segmentMatches(tSegs[i], uSegs[i]) {
			return false
		}
	}

	if !tHasQuery {
		return true
	}
	return queryMatches(tQuery, uQuery)
}

// Params returns the placeholder bindings for a template known to match
// url (callers should check Match first; Params does not re-validate
// structure: on a path segment-count mismatch it returns an empty map, and
// on a query pair-count mismatch it returns only the path bindings).
func Params(template, url string) map[string]string {
	params := map[string]string{}

	tPath, tQuery, tHasQuery := splitQuery(template)
	uPath, uQuery, uHasQuery := splitQuery(url)

	tSegs := strings.Split(tPath, "/")
	uSegs := strings.Split(uPath, "/")
	if len(tSegs) != len(uSegs) {
		return params
	}
	for i, tSeg := range tSegs {
		if name, ok := placeholderName(tSeg); ok {
			params[name] = uSegs[i]
		}
	}

	if !tHasQuery || !uHasQuery {
		return params
	}
	tPairs := strings.Split(tQuery, "&")
	uPairs := strings.Split(uQuery, "&")
	if len(tPairs) != len(uPairs) {
		return params
	}
	for i, tPair := range tPairs {
		tKey, tVal, _ := strings.Cut(tPair, "=")
		uKey, uVal, _ := strings.Cut(uPairs[i], "=")
		if name, ok := placeholderName(tKey); ok {
			params[name] = uKey
		}
		if name, ok := placeholderName(tVal); ok {
			params[name] = uVal
		}
	}
	return params
}

func splitQuery(s string) (path, query string, hasQuery bool) {
	if i := strings.IndexByte(s, '?'); i >= 0 {
		return s[:i], s[i+1:], true
	}
	return s, "", false
}

func placeholderName(segment string) (string, bool) {
	if len(segment) >= 2 && segment[0] == placeholderOpen && segment[len(segment)-1] == placeholderClose {
		return segment[1 : len(segment)-1], true
	}
	return "", false
}

func segmentMatches(tSeg, uSeg string) bool {
	if _, ok := placeholderName(tSeg); ok {
		return true
	}
	return tSeg == uSeg
}

func queryMatches(tQuery, uQuery string) bool {
	tPairs := strings.Split(tQuery, "&")
	uPairs := strings.Split(uQuery, "&")
	if len(tPairs) != len(uPairs) {
		return false
	}
	for i, tPair := range tPairs {
		tKey, tVal, _ := strings.Cut(tPair, "=")
		uKey, uVal, _ := strings.Cut(uPairs[i], "=")
		if !segmentMatches(tKey, uKey) {
			return false
		}
		if !segmentMatches(tVal, uVal) {
			return false
		}
	}
	return true
}
