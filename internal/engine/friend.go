package engine

import "fmt"

// Friend is a name and birthday record.
// It is a plain value: two friends are the same only if both fields match,
// and the registry may hold several identical ones.
type Friend struct {
	// Name is the display label. Never empty once validated.
	Name string

	// Birthday is a dd.mm.yyyy string. It is kept verbatim, so a date the
	// calendar does not know (31.02.2000) is still a valid birthday.
	Birthday string
}

// String renders the list label "Name (Birthday)".
func (f Friend) String() string {
	return fmt.Sprintf("%s (%s)", f.Name, f.Birthday)
}
