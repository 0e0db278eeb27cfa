// Package people answers questions about a roster of persons and the
// artistes they follow: age orderings, averages by sex or initial, who
// listens to mainstream music, and safe lookups along optional references.
//
// Every query is a pure function over a caller-supplied []Person. Inputs are
// never mutated, and a nil roster is rejected with lensz.ErrInvalidArgument.
package people

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Roster errors.
var (
	ErrUnknownChief  = errors.New("unknown chief")
	ErrDuplicateName = errors.New("duplicate person name")
	ErrChiefCycle    = errors.New("chief reference cycle")
)

// Artiste is a followed artist. Lower rank means more popular.
type Artiste struct {
	Name string `yaml:"name" validate:"required"`
	Rank int    `yaml:"rank" validate:"gte=0"`
}

// Person is a roster entry.
//
// Chief is an optional, non-owning reference to the person's superior.
// Artistes is ordered and may be empty.
type Person struct {
	Chief    *Person   `yaml:"-" validate:"-"`
	Name     string    `yaml:"name" validate:"required"`
	Sex      string    `yaml:"sex" validate:"required"`
	Artistes []Artiste `yaml:"artistes" validate:"dive"`
	Age      int       `yaml:"age" validate:"gte=0,lte=150"`
}

var validate = validator.New()

// Validate checks p and every superior reachable through Chief.
// A chief chain that loops back on itself is reported as ErrChiefCycle.
func Validate(p *Person) error {
	seen := make(map[*Person]struct{})
	for cur := p; cur != nil; cur = cur.Chief {
		if _, ok := seen[cur]; ok {
			return fmt.Errorf("%w: through %q", ErrChiefCycle, cur.Name)
		}
		seen[cur] = struct{}{}
		if err := validate.Struct(cur); err != nil {
			return fmt.Errorf("person %q: %w", cur.Name, err)
		}
	}
	return nil
}

// ValidateAll validates every person in the roster.
func ValidateAll(persons []Person) error {
	for i := range persons {
		if err := Validate(&persons[i]); err != nil {
			return err
		}
	}
	return nil
}
