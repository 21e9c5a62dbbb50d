package auth

import (
	"regexp"
	"strings"
)

var slugPattern = regexp.MustCompile(`[^a-z0-9]+`)

// GenerateOrgSlug derives the public status-page slug from an
// organization name: lowercased, runs of non-alphanumerics collapsed to
// a single dash, leading and trailing dashes trimmed.
func GenerateOrgSlug(orgName string) string {
	slug := strings.ToLower(orgName)
	slug = slugPattern.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}
