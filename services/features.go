package services

import "strings"

// HasFeature reports whether any free-text feature matches name. The match
// is a case-insensitive substring test in both directions, so "Pool" matches
// "Private pool" and "Sea view terrace" matches "Terrace".
func HasFeature(features []string, name string) bool {
	n := strings.ToLower(strings.TrimSpace(name))
	if n == "" {
		return false
	}
	for _, f := range features {
		lf := strings.ToLower(strings.TrimSpace(f))
		if lf == "" {
			continue
		}
		if strings.Contains(lf, n) || strings.Contains(n, lf) {
			return true
		}
	}
	return false
}
