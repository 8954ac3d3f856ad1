package engine

import (
	"strings"

	"FgdcMigrator/internal/diag"
	"FgdcMigrator/internal/schema"
)

var restrictedMarkers = []string{"restricted", "by request", "registration"}

var placeholderConstraints = map[string]struct{}{
	"none": {}, "n/a": {}, "not applicable": {}, "not specified": {},
}

// classifyAccess maps a free-text access constraint to the access-right
// enumeration. Open phrasing wins, restricted phrasing forces a companion
// condition string, and anything else defaults to open.
func classifyAccess(accconst string) (right, conditions string) {
	lower := strings.ToLower(strings.TrimSpace(accconst))

	switch lower {
	case "none", "open", "public":
		return "open", ""
	}

	for _, marker := range restrictedMarkers {
		if strings.Contains(lower, marker) {
			return "restricted", accconst
		}
	}

	return "open", ""
}

// detectLicense resolves a use-constraint statement against the license
// registry. Placeholder texts substitute the default permissive id with a
// warning; the returned id never falls outside the registry.
func detectLicense(useconst, fieldPath string, c *diag.Collector) (string, bool) {
	if useconst == "" {
		return "", false
	}

	lower := strings.ToLower(strings.TrimSpace(useconst))

	if _, placeholder := placeholderConstraints[lower]; placeholder {
		c.Warn(fieldPath, "invalid_license_detected", useconst, "Valid license identifier",
			"Placeholder constraint text, substituting default license "+schema.DefaultLicense)
		return schema.DefaultLicense, true
	}

	for _, entry := range schema.LicenseRegistry {
		for _, pattern := range entry.Patterns {
			if pattern.MatchString(lower) {
				return entry.ID, true
			}
		}
	}

	return "", false
}
