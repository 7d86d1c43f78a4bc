package gnucash

import "fmt"

// Percent is a display-only ratio expressed in percent. Percentages are
// the one place floating point is acceptable: sub-cent error is
// immaterial for them, unlike for stored monetary values.
type Percent float64

func (p Percent) String() string { return fmt.Sprintf("%.2f%%", float64(p)) }

func (p Percent) SignedString() string { return fmt.Sprintf("%+.2f%%", float64(p)) }
