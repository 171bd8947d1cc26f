package month

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/riskibarqy/fpl-league-analyzer/internal/domain/gameweek"
)

// DefaultMapping splits the season into ten reporting months.
const DefaultMapping = "1-4,5-8,9-12,13-16,17-20,21-24,25-28,29-32,33-36,37-38"

var ErrInvalidMapping = errors.New("invalid month mapping")

type MappingError struct {
	Input  string
	Reason string
}

func (e *MappingError) Error() string {
	return fmt.Sprintf("%s %q: %s", ErrInvalidMapping, e.Input, e.Reason)
}

func (e *MappingError) Is(target error) bool {
	return target == ErrInvalidMapping
}

// Month is a contiguous gameweek window. Number is its 1-based position in the mapping.
type Month struct {
	Number int
	Start  int
	End    int
}

func (m Month) Contains(gw int) bool {
	return gw >= m.Start && gw <= m.End
}

// Definition is an ordered, non-overlapping partition of gameweeks into months.
// Gaps are allowed; a gameweek outside every month belongs to none.
type Definition struct {
	months []Month
}

func ParseMapping(raw string) (Definition, error) {
	input := strings.TrimSpace(raw)
	if input == "" {
		return Definition{}, &MappingError{Input: raw, Reason: "mapping is empty"}
	}

	parts := strings.Split(input, ",")
	months := make([]Month, 0, len(parts))
	for i, part := range parts {
		token := strings.TrimSpace(part)
		bounds := strings.Split(token, "-")
		if len(bounds) != 2 {
			return Definition{}, &MappingError{Input: raw, Reason: fmt.Sprintf("range %q must look like start-end", token)}
		}

		start, err := strconv.Atoi(strings.TrimSpace(bounds[0]))
		if err != nil {
			return Definition{}, &MappingError{Input: raw, Reason: fmt.Sprintf("range %q has a non-integer start", token)}
		}
		end, err := strconv.Atoi(strings.TrimSpace(bounds[1]))
		if err != nil {
			return Definition{}, &MappingError{Input: raw, Reason: fmt.Sprintf("range %q has a non-integer end", token)}
		}
		if start > end {
			return Definition{}, &MappingError{Input: raw, Reason: fmt.Sprintf("range %q starts after it ends", token)}
		}
		if start < gameweek.MinGameweek || end > gameweek.MaxGameweek {
			return Definition{}, &MappingError{Input: raw, Reason: fmt.Sprintf("range %q is outside gameweeks %d..%d", token, gameweek.MinGameweek, gameweek.MaxGameweek)}
		}
		if n := len(months); n > 0 && start <= months[n-1].End {
			return Definition{}, &MappingError{Input: raw, Reason: fmt.Sprintf("range %q overlaps or precedes %d-%d", token, months[n-1].Start, months[n-1].End)}
		}

		months = append(months, Month{Number: i + 1, Start: start, End: end})
	}

	return Definition{months: months}, nil
}

func MustParseMapping(raw string) Definition {
	def, err := ParseMapping(raw)
	if err != nil {
		panic(err)
	}
	return def
}

func (d Definition) Months() []Month {
	return append([]Month(nil), d.months...)
}

func (d Definition) Len() int {
	return len(d.months)
}

func (d Definition) IsZero() bool {
	return len(d.months) == 0
}

func (d Definition) Month(number int) (Month, bool) {
	if number < 1 || number > len(d.months) {
		return Month{}, false
	}
	return d.months[number-1], true
}

// MonthOf returns the month containing gw.
func (d Definition) MonthOf(gw int) (Month, bool) {
	for _, m := range d.months {
		if m.Contains(gw) {
			return m, true
		}
		if gw < m.Start {
			break
		}
	}
	return Month{}, false
}

// String renders the canonical form, e.g. "1-4,5-9".
func (d Definition) String() string {
	var b strings.Builder
	for i, m := range d.months {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Itoa(m.Start))
		b.WriteByte('-')
		b.WriteString(strconv.Itoa(m.End))
	}
	return b.String()
}
