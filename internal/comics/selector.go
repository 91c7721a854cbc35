package comics

import "strings"

// Filter keeps the entries named in only, a comma separated list, in
// configuration order. An empty list keeps everything.
func Filter(all []Entry, only string) []Entry {
	wanted := map[string]bool{}
	for n := range strings.SplitSeq(only, ",") {
		n = strings.TrimSpace(n)
		if n != "" {
			wanted[n] = true
		}
	}

	if len(wanted) == 0 {
		return all
	}

	out := []Entry{}
	for _, e := range all {
		if wanted[e.Name] {
			out = append(out, e)
		}
	}

	return out
}

// Missing returns the names in only that match no entry.
func Missing(all []Entry, only string) []string {
	have := map[string]bool{}
	for _, e := range all {
		have[e.Name] = true
	}

	var out []string
	for n := range strings.SplitSeq(only, ",") {
		n = strings.TrimSpace(n)
		if n != "" && !have[n] {
			out = append(out, n)
		}
	}

	return out
}
