package active_directory

import (
	"strings"
)

func NormalizeDN(dn string) string {
	return strings.ToLower(strings.TrimSpace(dn))
}

// FirstRDN returns the leading relative DN of a distinguished name,
// e.g. "CN=Jane Smith" for "CN=Jane Smith,OU=Users,DC=corp,DC=example,DC=com".
// Commas escaped with a backslash inside the RDN value are respected.
func FirstRDN(dn string) string {
	for i := 0; i < len(dn); i++ {
		if dn[i] == ',' && (i == 0 || dn[i-1] != '\\') {
			return strings.TrimSpace(dn[:i])
		}
	}
	return strings.TrimSpace(dn)
}

// RDNValue returns the value part of the leading RDN, with escaped
// commas unescaped. Group DNs from memberOf are keyed by this value.
func RDNValue(dn string) string {
	rdn := FirstRDN(dn)
	if idx := strings.Index(rdn, "="); idx >= 0 {
		rdn = rdn[idx+1:]
	}
	return strings.ReplaceAll(rdn, `\,`, ",")
}

// ParentDN returns everything after the leading RDN.
func ParentDN(dn string) string {
	rdn := FirstRDN(dn)
	rest := strings.TrimPrefix(dn, rdn)
	return strings.TrimSpace(strings.TrimPrefix(rest, ","))
}
