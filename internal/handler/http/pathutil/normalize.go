// Package pathutil maps request paths onto a fixed set of metric and span labels.
package pathutil

import "strings"

// OtherPath is the label used for any path outside the known routes.
const OtherPath = "/other"

// knownPaths are the routes served by the API. Anything else, including
// scanner noise, collapses into OtherPath.
var knownPaths = map[string]struct{}{
	"/":              {},
	"/api/feed-url":  {},
	"/api/headlines": {},
	"/api/dashboard": {},
	"/api/export":    {},
	"/api/presets":   {},
	"/health":        {},
	"/live":          {},
	"/ready":         {},
	"/metrics":       {},
}

// NormalizePath returns the label for path. Query strings and a trailing
// slash are ignored.
//
//	NormalizePath("/api/headlines?max=20") // "/api/headlines"
//	NormalizePath("/api/dashboard/")       // "/api/dashboard"
//	NormalizePath("/wp-login.php")         // "/other"
func NormalizePath(path string) string {
	if idx := strings.IndexByte(path, '?'); idx != -1 {
		path = path[:idx]
	}
	if len(path) > 1 && path[len(path)-1] == '/' {
		path = path[:len(path)-1]
	}
	if _, ok := knownPaths[path]; ok {
		return path
	}
	return OtherPath
}

// GetExpectedCardinality returns the number of distinct labels NormalizePath can produce.
func GetExpectedCardinality() int {
	return len(knownPaths) + 1
}
