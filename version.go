package castwave

import (
	"encoding/json"
	"fmt"
	"os"
	"runtime"
)

// Version is the castwave-go library version.
const Version = "1.2.0"

// userAgent is the plain User-Agent header value.
func userAgent() string {
	return "Castwave/v1 GoBindings/" + Version
}

// clientUserAgent builds the X-Castwave-Client-User-Agent header: a JSON
// fingerprint of the bindings and runtime, generated fresh per request. If
// JSON encoding ever fails the raw fallback string is sent instead, so the
// header is never silently dropped.
func clientUserAgent() string {
	hostname, _ := os.Hostname()
	fingerprint := map[string]string{
		"bindings_version": Version,
		"lang":             "go",
		"lang_version":     runtime.Version(),
		"platform":         runtime.GOOS + "/" + runtime.GOARCH,
		"publisher":        "castwave",
		"hostname":         hostname,
	}
	encoded, err := json.Marshal(fingerprint)
	if err != nil {
		return fmt.Sprintf("castwave-go/%s (%s; %s/%s; json-fallback)",
			Version, runtime.Version(), runtime.GOOS, runtime.GOARCH)
	}
	return string(encoded)
}
