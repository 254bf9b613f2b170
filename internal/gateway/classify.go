package gateway

import "strings"

// Classification is what the gateway knows about a request path before it
// looks at any credentials.
type Classification int

const (
	// PathSkipped is for static assets and API routes, which the gateway
	// never evaluates auth for.
	PathSkipped Classification = iota
	// PathLogin is the login form path.
	PathLogin
	// PathProtected is a recognized dashboard navigation.
	PathProtected
	// PathUnclassified is any other navigation; it is sent to the canonical
	// landing path unconditionally so the gateway never evaluates auth for a
	// path it does not recognize.
	PathUnclassified
)

// defaultProtectedPaths mirrors the sections of the dashboard.
var defaultProtectedPaths = []string{"/products", "/brands", "/categories", "/users"}

type classifier struct {
	loginPath      string
	protectedPaths []string
}

// Classify derives the classification of a request path. Skipped paths are
// API routes, the assets prefix, the favicon and any path containing a dot.
func (cl classifier) Classify(path string) Classification {
	if path == "" {
		path = "/"
	}
	if strings.HasPrefix(path, "/api/") || path == "/api" ||
		strings.HasPrefix(path, "/assets/") || path == "/assets" ||
		path == "/favicon.ico" ||
		strings.Contains(path, ".") {
		return PathSkipped
	}
	if path == cl.loginPath {
		return PathLogin
	}
	if path == "/" {
		return PathProtected
	}
	for _, protected := range cl.protectedPaths {
		if path == protected || strings.HasPrefix(path, protected+"/") {
			return PathProtected
		}
	}
	return PathUnclassified
}
