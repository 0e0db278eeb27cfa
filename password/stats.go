package password

import (
	"context"
	"log/slog"
	"unicode/utf8"

	"github.com/zoobzio/clockz"
	"github.com/zoobzio/lensz"
)

// Connector names used by Stats.
const (
	WithNumbersName         lensz.Name = "with-numbers"
	WithUpperAndLowerName   lensz.Name = "with-uppercase-and-lowercase"
	WithSpecialCharsName    lensz.Name = "with-special-chars"
	OnlyOneLastSpecialName  lensz.Name = "only-one-last-special-char"
	SpecialCharPositionName lensz.Name = "special-char-position"
)

// Option configures a Stats.
type Option func(*Stats)

// WithPolicy replaces DefaultPolicy.
func WithPolicy(p Policy) Option {
	return func(s *Stats) {
		s.policy = p
	}
}

// WithWorkers evaluates filters over up to n goroutines. Output order is
// unaffected. n <= 1 keeps evaluation on the calling goroutine and routes
// it through the observable connectors.
func WithWorkers(n int) Option {
	return func(s *Stats) {
		s.workers = n
	}
}

// WithLogger sets the logger used for aggregation summaries.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Stats) {
		s.logger = logger
	}
}

// WithClock sets the clock every connector takes timestamps from.
func WithClock(clock clockz.Clock) Option {
	return func(s *Stats) {
		s.clock = clock
	}
}

// Stats aggregates collections of passwords.
//
// Every aggregation takes a lensz.Source so that the collection can be
// traversed afresh on each call. Results preserve source order and never
// deduplicate.
type Stats struct {
	policy  Policy
	logger  *slog.Logger
	clock   clockz.Clock
	filters map[lensz.Name]*lensz.Filter[string]
	ruleSet []lensz.Name
	index   *lensz.Index[string, int]
	workers int
}

// NewStats builds a Stats. The policy is validated up front.
func NewStats(opts ...Option) (*Stats, error) {
	s := &Stats{
		policy: DefaultPolicy,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	if err := s.policy.Validate(); err != nil {
		return nil, err
	}

	rules := s.policy.Rules()
	s.filters = make(map[lensz.Name]*lensz.Filter[string], len(rules)+5)
	for _, r := range rules {
		s.ruleSet = append(s.ruleSet, r.Name)
		s.filters[r.Name] = lensz.NewRuleFilter(r)
	}
	s.filters[StrongName] = lensz.NewFilter(StrongName, s.policy.Strong())
	s.filters[WithNumbersName] = lensz.NewFilter(WithNumbersName, HasDigit.Predicate)
	s.filters[WithUpperAndLowerName] = lensz.NewFilter(WithUpperAndLowerName,
		HasUppercase.Predicate.And(HasLowercase.Predicate))
	s.filters[WithSpecialCharsName] = lensz.NewFilter(WithSpecialCharsName, HasSpecial.Predicate)
	s.filters[OnlyOneLastSpecialName] = lensz.NewFilter(OnlyOneLastSpecialName,
		HasSpecial.Predicate.And(firstSpecialIsLast))
	s.index = lensz.NewIndex[string, int](SpecialCharPositionName, SpecialCharPositions)

	if s.clock != nil {
		for _, f := range s.filters {
			f.WithClock(s.clock)
		}
		s.index.WithClock(s.clock)
	}
	return s, nil
}

// firstSpecialIsLast holds when the first special character sits on the
// last rune.
func firstSpecialIsLast(s string) bool {
	positions := SpecialCharPositions(s)
	if len(positions) == 0 {
		return false
	}
	return positions[0] == utf8.RuneCountInString(s)-1
}

// Policy returns the policy in effect.
func (s *Stats) Policy() Policy {
	return s.policy
}

// Filter returns the connector registered under name, for attaching hooks
// or reading metrics. Names are the rule names, StrongName and the
// connector names declared in this package.
func (s *Stats) Filter(name lensz.Name) (*lensz.Filter[string], bool) {
	f, ok := s.filters[name]
	return f, ok
}

// Positions returns the special-character position index.
func (s *Stats) Positions() *lensz.Index[string, int] {
	return s.index
}

// IsStrong reports whether password satisfies every rule of the policy.
func (s *Stats) IsStrong(password string) bool {
	return s.filters[StrongName].Test(password)
}

func (s *Stats) keep(ctx context.Context, name lensz.Name, src lensz.Source[string]) ([]string, error) {
	f := s.filters[name]
	var (
		kept []string
		err  error
	)
	if s.workers > 1 {
		kept, err = lensz.ParallelKeep(ctx, src.Collect(), f.Predicate(), s.workers)
	} else {
		kept, err = f.Apply(ctx, src)
	}
	if err != nil {
		s.logger.DebugContext(ctx, "password filter failed", "filter", name, "error", err)
		return nil, err
	}
	s.logger.DebugContext(ctx, "password filter applied", "filter", name, "kept", len(kept))
	return kept, nil
}

// AllWithNumbers returns the passwords containing at least one digit.
func (s *Stats) AllWithNumbers(ctx context.Context, src lensz.Source[string]) ([]string, error) {
	return s.keep(ctx, WithNumbersName, src)
}

// AllWithUppercaseAndLowercase returns the passwords containing at least
// one uppercase and one lowercase letter.
func (s *Stats) AllWithUppercaseAndLowercase(ctx context.Context, src lensz.Source[string]) ([]string, error) {
	return s.keep(ctx, WithUpperAndLowerName, src)
}

// AllWithSpecialChars returns the passwords containing at least one
// special character.
func (s *Stats) AllWithSpecialChars(ctx context.Context, src lensz.Source[string]) ([]string, error) {
	return s.keep(ctx, WithSpecialCharsName, src)
}

// AllStrong returns the passwords satisfying every rule of the policy.
func (s *Stats) AllStrong(ctx context.Context, src lensz.Source[string]) ([]string, error) {
	return s.keep(ctx, StrongName, src)
}

// AllWithOnlyOneLastSpecialChar returns the passwords whose first special
// character is their last character, which also makes it the only one.
func (s *Stats) AllWithOnlyOneLastSpecialChar(ctx context.Context, src lensz.Source[string]) ([]string, error) {
	return s.keep(ctx, OnlyOneLastSpecialName, src)
}

// CountBySpecialCharPosition tallies, for every position, how many special
// characters sit there across the collection. "b1op!" and "#bli!" give
// {0: 1, 4: 2}.
func (s *Stats) CountBySpecialCharPosition(ctx context.Context, src lensz.Source[string]) (map[int]int, error) {
	counts, err := s.index.Count(ctx, src)
	if err != nil {
		return nil, err
	}
	s.logger.DebugContext(ctx, "special positions counted", "positions", len(counts))
	return counts, nil
}

// AllBySpecialCharPosition lists, for every position, the passwords with a
// special character there. A password appears under each of its special
// positions, in source order.
func (s *Stats) AllBySpecialCharPosition(ctx context.Context, src lensz.Source[string]) (map[int][]string, error) {
	groups, err := s.index.Group(ctx, src)
	if err != nil {
		return nil, err
	}
	s.logger.DebugContext(ctx, "special positions grouped", "positions", len(groups))
	return groups, nil
}

// Classify returns, for every rule of the policy and for StrongName, the
// passwords satisfying it. Every name is present, with an empty slice when
// nothing matches.
func (s *Stats) Classify(ctx context.Context, src lensz.Source[string]) (map[lensz.Name][]string, error) {
	names := append(append([]lensz.Name{}, s.ruleSet...), StrongName)
	out := make(map[lensz.Name][]string, len(names))
	for _, name := range names {
		kept, err := s.keep(ctx, name, src)
		if err != nil {
			return nil, err
		}
		out[name] = kept
	}
	return out, nil
}

// Close releases the observability resources of every connector.
func (s *Stats) Close() error {
	for _, f := range s.filters {
		_ = f.Close() //nolint:errcheck
	}
	return s.index.Close()
}
