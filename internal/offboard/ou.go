package offboard

import (
	"fmt"
	"strings"
)

// ArchiveDN derives the archive location for a user's current location path.
// The path is split on the configured marker RDN (exactly one occurrence
// required) and reassembled as "<archive>,<marker><suffix after the marker>",
// so the derived path keeps the source path's suffix below the marker.
func (c Config) ArchiveDN(location string) (string, error) {
	components := splitDN(location)

	markerIdx := -1
	for i, comp := range components {
		if strings.EqualFold(strings.TrimSpace(comp), c.MarkerRDN) {
			if markerIdx >= 0 {
				return "", fmt.Errorf("marker %s appears more than once in %q", c.MarkerRDN, location)
			}
			markerIdx = i
		}
	}
	if markerIdx < 0 {
		return "", fmt.Errorf("marker %s not found in %q", c.MarkerRDN, location)
	}

	parts := append([]string{c.ArchiveRDN, c.MarkerRDN}, components[markerIdx+1:]...)
	return strings.Join(parts, ","), nil
}

// splitDN splits a DN into RDN components on unescaped commas.
func splitDN(dn string) []string {
	var components []string
	start := 0
	for i := 0; i < len(dn); i++ {
		if dn[i] == ',' && (i == 0 || dn[i-1] != '\\') {
			components = append(components, strings.TrimSpace(dn[start:i]))
			start = i + 1
		}
	}
	components = append(components, strings.TrimSpace(dn[start:]))
	return components
}
