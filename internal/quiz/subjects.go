package quiz

import (
	"fmt"
	"strconv"
	"strings"
)

// SubjectGroup binds a subject label to the test ids that belong to it.
type SubjectGroup struct {
	Subject string
	TestIDs []int64
}

// SubjectMapping is the ordered subject-to-test assignment. It replaces
// the literal id ranges the deployment started with; the default below
// reproduces those exactly.
type SubjectMapping []SubjectGroup

// ParseSubjectMapping parses "python:1,2;java:3,4;cpp:5,6".
func ParseSubjectMapping(s string) (SubjectMapping, error) {
	var m SubjectMapping
	for _, part := range strings.Split(s, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name, ids, ok := strings.Cut(part, ":")
		if !ok {
			return nil, fmt.Errorf("subject mapping: missing ':' in %q", part)
		}
		g := SubjectGroup{Subject: strings.TrimSpace(name)}
		if g.Subject == "" {
			return nil, fmt.Errorf("subject mapping: empty subject in %q", part)
		}
		for _, raw := range strings.Split(ids, ",") {
			raw = strings.TrimSpace(raw)
			if raw == "" {
				continue
			}
			id, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("subject mapping: bad test id %q: %w", raw, err)
			}
			g.TestIDs = append(g.TestIDs, id)
		}
		if len(g.TestIDs) == 0 {
			return nil, fmt.Errorf("subject mapping: no test ids for %q", g.Subject)
		}
		m = append(m, g)
	}
	if len(m) == 0 {
		return nil, fmt.Errorf("subject mapping: empty")
	}
	return m, nil
}
