package offboard

import (
	"strings"
	"time"
)

// Config carries offboarding policy. Values are passed in explicitly;
// nothing here is process-global.
type Config struct {
	// ArchiveRDN is prepended to the marker when deriving the archive OU.
	ArchiveRDN string
	// MarkerRDN is the OU component the location path is split on.
	MarkerRDN string
	// ExcludedGroups are group CNs that are never stripped. Entries ending
	// in '*' match as a prefix wildcard.
	ExcludedGroups []string
	// Now is the clock used for the disablement date. Defaults to time.Now.
	Now func() time.Time
}

func DefaultConfig() Config {
	return Config{
		ArchiveRDN: "OU=NoLongerEmployed",
		MarkerRDN:  "OU=Users",
		ExcludedGroups: []string{
			"All Employees",
			"Domain Users",
			"AllUserObjects*",
		},
	}
}

func (c Config) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}

// IsExcludedGroup reports whether a group CN is protected from removal.
func (c Config) IsExcludedGroup(cn string) bool {
	cn = strings.ToLower(strings.TrimSpace(cn))
	for _, pattern := range c.ExcludedGroups {
		p := strings.ToLower(strings.TrimSpace(pattern))
		if strings.HasSuffix(p, "*") {
			if strings.HasPrefix(cn, strings.TrimSuffix(p, "*")) {
				return true
			}
		} else if cn == p {
			return true
		}
	}
	return false
}
