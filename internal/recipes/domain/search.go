package domain

import "strings"

// MaxInQuery is the most values a Firestore "in" filter accepts.
const MaxInQuery = 10

// Filter keeps recipes whose name or description contains query, ignoring
// case. A blank query keeps everything.
func Filter(recipes []Recipe, query string) []Recipe {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return recipes
	}

	out := make([]Recipe, 0, len(recipes))
	for _, r := range recipes {
		if strings.Contains(strings.ToLower(r.Name), q) || strings.Contains(strings.ToLower(r.Description), q) {
			out = append(out, r)
		}
	}
	return out
}

// Chunk splits ids into consecutive groups of at most size after dropping
// blanks and duplicates.
func Chunk(ids []string, size int) [][]string {
	if size < 1 {
		size = MaxInQuery
	}

	seen := make(map[string]struct{}, len(ids))
	clean := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		clean = append(clean, id)
	}

	var chunks [][]string
	for start := 0; start < len(clean); start += size {
		end := min(start+size, len(clean))
		chunks = append(chunks, clean[start:end])
	}
	return chunks
}
