package util

import (
	"strings"
)

// ParseIds splits a comma separated id list, dropping blanks and duplicates.
func ParseIds(csv string) []string {
	split := strings.Split(csv, ",")
	ids := make([]string, 0, len(split))
	seen := make(map[string]bool, len(split))
	for _, s := range split {
		s = strings.TrimSpace(s)
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		ids = append(ids, s)
	}
	return ids
}
