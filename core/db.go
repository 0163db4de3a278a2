package core

import "github.com/volatiletech/null/v8"

// Scope is the query restriction derived from a caller's school affiliation
// and applied by repositories before any list query runs. The zero value
// applies no restriction.
type Scope struct {
	SchoolID null.String
}

// Restricted reports whether the scope limits queries to a single school.
func (s Scope) Restricted() bool {
	return s.SchoolID.Valid
}
