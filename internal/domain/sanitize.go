package domain

import "strings"

// SanitizeSiteName makes a site name safe for use as an archive file name and
// object key component.
//
// Replacements:
//
//	/ \ → _
//	: → -
//	whitespace → _
//
// Leading and trailing dots are stripped so a name can never resolve to "." or "..".
func SanitizeSiteName(name string) string {
	clean := strings.Trim(strings.TrimSpace(name), ".")
	if clean == "" {
		return "unknown"
	}
	replacer := strings.NewReplacer("/", "_", "\\", "_", ":", "-", " ", "_", "\t", "_")
	return replacer.Replace(clean)
}

// SiteArchiveName is the object name of a site archive inside a backup unit.
func SiteArchiveName(site string) string {
	return SanitizeSiteName(site) + ".tar.gz"
}
