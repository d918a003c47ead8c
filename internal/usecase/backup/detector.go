package backup

import (
	"fmt"
	"strings"

	"github.com/bnema/wpbackup/internal/domain"
)

// selectSites resolves requested site names against the configured sites.
// An empty request selects every configured site.
func selectSites(configured []domain.Site, requested []string) ([]domain.Site, error) {
	if len(requested) == 0 {
		if len(configured) == 0 {
			return nil, fmt.Errorf("%w: no sites configured", domain.ErrSiteNotFound)
		}
		return configured, nil
	}

	selected := make([]domain.Site, 0, len(requested))
	for _, name := range requested {
		site, err := findSite(configured, name)
		if err != nil {
			return nil, err
		}
		selected = append(selected, site)
	}
	return selected, nil
}

func findSite(configured []domain.Site, name string) (domain.Site, error) {
	for _, site := range configured {
		if strings.EqualFold(site.Name, name) {
			return site, nil
		}
	}
	return domain.Site{}, fmt.Errorf("%w: %q", domain.ErrSiteNotFound, name)
}

// mergeCredentials overlays every non-empty field of override onto detected.
func mergeCredentials(detected, override domain.DBCredentials) domain.DBCredentials {
	merged := detected
	if override.Name != "" {
		merged.Name = override.Name
	}
	if override.User != "" {
		merged.User = override.User
	}
	if override.Password != "" {
		merged.Password = override.Password
	}
	if override.Host != "" {
		merged.Host = override.Host
	}
	if override.Port > 0 {
		merged.Port = override.Port
	}
	if override.Socket != "" {
		merged.Socket = override.Socket
	}
	return merged
}

// hostLabel renders the database endpoint for logs and run logs.
func hostLabel(creds domain.DBCredentials) string {
	switch {
	case creds.Socket != "":
		return creds.Socket
	case creds.Port > 0:
		return fmt.Sprintf("%s:%d", creds.Host, creds.Port)
	case creds.Host != "":
		return creds.Host
	default:
		return "localhost"
	}
}
