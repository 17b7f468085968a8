// Package wifinet validates that a reported access point belongs to the
// campus deployment. Full BSSIDs differ across access points of the same
// site, but the first four octets (vendor + site) are stable, so matching
// is done on that prefix rather than the whole address.
package wifinet

import "strings"

const prefixOctets = 4

// Prefix returns the first four colon-separated octets of a BSSID,
// lowercased, or "" when the input has fewer than four octets.
func Prefix(bssid string) string {
	if bssid == "" {
		return ""
	}
	parts := strings.Split(bssid, ":")
	if len(parts) < prefixOctets {
		return ""
	}
	return strings.ToLower(strings.Join(parts[:prefixOctets], ":"))
}

// SameCampus reports whether got shares a valid prefix with the expected
// campus BSSID. It is false when either prefix cannot be derived.
func SameCampus(expected, got string) bool {
	ep := Prefix(expected)
	gp := Prefix(got)
	return ep != "" && ep == gp
}
