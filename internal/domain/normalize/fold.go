package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/okian/orgpulse/internal/domain/model"
)

// Fold reduces s to a comparison key: diacritics stripped, case folded and
// inner whitespace collapsed, so "Comunicação  Oral" matches "comunicacao oral".
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := transform.String(t, s)
	if err != nil {
		stripped = s
	}
	return cases.Fold().String(strings.Join(strings.Fields(stripped), " "))
}

// Index resolves competency names to ids for assignment lists that carry
// names instead of ids.
type Index struct {
	byName map[string]int64
}

// NewIndex builds a name index. When names collide the first id wins.
func NewIndex(competencies []model.Competency) *Index {
	idx := &Index{byName: make(map[string]int64, len(competencies))}
	for _, c := range competencies {
		key := Fold(c.Name)
		if key == "" || c.ID == 0 {
			continue
		}
		if _, exists := idx.byName[key]; !exists {
			idx.byName[key] = c.ID
		}
	}
	return idx
}

// Resolve returns the id registered for name.
func (i *Index) Resolve(name string) (int64, bool) {
	if i == nil {
		return 0, false
	}
	id, ok := i.byName[Fold(name)]
	return id, ok
}

// Len returns the number of indexed names.
func (i *Index) Len() int {
	if i == nil {
		return 0
	}
	return len(i.byName)
}
