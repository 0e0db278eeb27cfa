package password

import (
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/zoobzio/lensz"
	"gopkg.in/yaml.v3"
)

// Policy holds the tunable thresholds of the strength rules.
type Policy struct {
	MinLength int `yaml:"min_length" validate:"gte=1"`
	MaxLength int `yaml:"max_length" validate:"gtefield=MinLength"`
	MaxRun    int `yaml:"max_run" validate:"gte=1"`
}

// DefaultPolicy requires 8 to 128 characters and forbids any character
// repeated three or more times in a row.
var DefaultPolicy = Policy{
	MinLength: 8,
	MaxLength: 128,
	MaxRun:    2,
}

var validate = validator.New()

// Validate checks that the thresholds are consistent.
func (p Policy) Validate() error {
	if err := validate.Struct(p); err != nil {
		return fmt.Errorf("%w: %v", lensz.ErrInvalidArgument, err)
	}
	return nil
}

// LoadPolicy reads a YAML policy. Keys missing from the document keep
// their DefaultPolicy value.
//
//	min_length: 12
//	max_run: 3
func LoadPolicy(r io.Reader) (Policy, error) {
	p := DefaultPolicy
	if err := yaml.NewDecoder(r).Decode(&p); err != nil && err != io.EOF {
		return Policy{}, fmt.Errorf("decode policy: %w", err)
	}
	if err := p.Validate(); err != nil {
		return Policy{}, err
	}
	return p, nil
}

// Rules returns the eight strength rules in evaluation order, with the
// length and repetition thresholds taken from p.
func (p Policy) Rules() []lensz.Rule[string] {
	return []lensz.Rule[string]{
		NotBlank,
		HasUppercase,
		HasLowercase,
		HasDigit,
		HasSpecial,
		lensz.NewRule(LongEnoughName, func(s string) bool {
			return utf8.RuneCountInString(s) >= p.MinLength
		}),
		lensz.NewRule(NotTooLongName, func(s string) bool {
			return utf8.RuneCountInString(s) <= p.MaxLength
		}),
		lensz.NewRule(NoTripleRepeatName, func(s string) bool {
			return longestRun(s) <= p.MaxRun
		}),
	}
}

// Strong returns the logical AND of p's rules.
func (p Policy) Strong() lensz.Predicate[string] {
	return lensz.AllRules(p.Rules()...)
}
