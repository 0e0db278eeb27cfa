package people

import (
	"fmt"
	"strings"

	"github.com/zoobzio/lensz"
)

// MainstreamRank is the worst rank an artiste can hold and still count as
// mainstream.
const MainstreamRank = 10

const (
	youngestToOldestPrefix = "Du plus jeune au plus âgé: "
	youngestToOldestSep    = ", "
	youngestToOldestSuffix = "."
)

var errNilRoster = fmt.Errorf("%w: nil person list", lensz.ErrInvalidArgument)

var (
	byAge  = lensz.By(func(p Person) int { return p.Age })
	byName = lensz.By(func(p Person) string { return p.Name })
)

func nameOf(p Person) string { return p.Name }

func ageOf(p Person) int { return p.Age }

// IsMale reports whether the sex tag is "m" or "homme", ignoring case.
func IsMale(p Person) bool {
	return strings.EqualFold(p.Sex, "m") || strings.EqualFold(p.Sex, "homme")
}

// HasInitial returns a predicate matching names that start with letter.
// The match is case-sensitive.
func HasInitial(letter string) lensz.Predicate[Person] {
	return func(p Person) bool {
		return strings.HasPrefix(p.Name, letter)
	}
}

// IsMainstream reports whether a is ranked within MainstreamRank.
func IsMainstream(a Artiste) bool {
	return a.Rank <= MainstreamRank
}

// FollowsMainstream reports whether p follows at least one mainstream artiste.
func FollowsMainstream(p Person) bool {
	return lensz.AnyMatch(p.Artistes, IsMainstream)
}

// NamesSortedByAge returns names ordered from youngest to oldest.
// Persons of equal age keep their roster order.
func NamesSortedByAge(persons []Person) ([]string, error) {
	if persons == nil {
		return nil, errNilRoster
	}
	return lensz.Map(lensz.SortStable(persons, byAge), nameOf), nil
}

// DisplayYoungestToOldest renders the age ordering as a sentence, for
// example "Du plus jeune au plus âgé: Léa, Paul." An empty roster renders
// the prefix immediately followed by the final period.
func DisplayYoungestToOldest(persons []Person) (string, error) {
	names, err := NamesSortedByAge(persons)
	if err != nil {
		return "", err
	}
	return lensz.Join(names, youngestToOldestSep, youngestToOldestPrefix, youngestToOldestSuffix), nil
}

// AverageAge returns the mean age of the roster.
// An empty roster fails with lensz.ErrInvalidArgument.
func AverageAge(persons []Person) (float64, error) {
	if persons == nil {
		return 0, errNilRoster
	}
	return lensz.Average(persons, ageOf)
}

// AverageAgeMale returns the mean age of persons whose sex tag is "m" or
// "homme" in any case. It fails with lensz.ErrInvalidArgument when nobody
// matches.
func AverageAgeMale(persons []Person) (float64, error) {
	if persons == nil {
		return 0, errNilRoster
	}
	return lensz.Average(lensz.Keep(persons, IsMale), ageOf)
}

// AverageAgeByInitial returns the mean age of persons whose name starts
// with letter. It fails with lensz.ErrInvalidArgument when nobody matches.
func AverageAgeByInitial(persons []Person, letter string) (float64, error) {
	if persons == nil {
		return 0, errNilRoster
	}
	return lensz.Average(lensz.Keep(persons, HasInitial(letter)), ageOf)
}

// GroupBySex partitions the roster by observed sex tag. Tags are compared
// exactly; "M" and "m" form different groups.
func GroupBySex(persons []Person) (map[string][]Person, error) {
	if persons == nil {
		return nil, errNilRoster
	}
	return lensz.GroupBy(persons, func(p Person) string { return p.Sex }), nil
}

// AverageAgeBySex returns the mean age per observed sex tag.
func AverageAgeBySex(persons []Person) (map[string]float64, error) {
	if persons == nil {
		return nil, errNilRoster
	}
	return lensz.AverageBy(persons, func(p Person) string { return p.Sex }, ageOf), nil
}

// MainstreamListeners returns, sorted by name, the persons following at
// least one artiste ranked within MainstreamRank. Equal names keep roster
// order.
func MainstreamListeners(persons []Person) ([]Person, error) {
	if persons == nil {
		return nil, errNilRoster
	}
	return lensz.SortStable(lensz.Keep(persons, FollowsMainstream), byName), nil
}

// MainstreamListenersLoop computes the same result as MainstreamListeners
// with explicit loops.
func MainstreamListenersLoop(persons []Person) ([]Person, error) {
	if persons == nil {
		return nil, errNilRoster
	}
	listeners := []Person{}
	for _, p := range persons {
		for _, a := range p.Artistes {
			if a.Rank <= MainstreamRank {
				listeners = append(listeners, p)
				break
			}
		}
	}
	// insertion sort keeps equal names in roster order
	for i := 1; i < len(listeners); i++ {
		for j := i; j > 0 && listeners[j].Name < listeners[j-1].Name; j-- {
			listeners[j], listeners[j-1] = listeners[j-1], listeners[j]
		}
	}
	return listeners, nil
}
