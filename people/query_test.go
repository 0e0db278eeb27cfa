package people

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zoobzio/lensz"
)

func loadRoster(t *testing.T) []Person {
	t.Helper()
	f, err := os.Open("testdata/persons.yaml")
	require.NoError(t, err)
	defer f.Close()

	persons, err := LoadFixtures(f)
	require.NoError(t, err)
	require.Len(t, persons, 6)
	return persons
}

func TestNamesSortedByAge(t *testing.T) {
	persons := loadRoster(t)

	names, err := NamesSortedByAge(persons)
	require.NoError(t, err)
	assert.Equal(t, []string{"Léa", "Jean", "Anne", "Paul", "Hugo", "Marie"}, names)

	t.Run("ages are non-decreasing", func(t *testing.T) {
		ages := make(map[string]int, len(persons))
		for _, p := range persons {
			ages[p.Name] = p.Age
		}
		require.Len(t, names, len(persons))
		for i := 1; i < len(names); i++ {
			assert.LessOrEqual(t, ages[names[i-1]], ages[names[i]])
		}
	})

	t.Run("input untouched", func(t *testing.T) {
		assert.Equal(t, "Paul", persons[0].Name)
		assert.Equal(t, "Anne", persons[5].Name)
	})

	t.Run("nil roster", func(t *testing.T) {
		_, err := NamesSortedByAge(nil)
		assert.ErrorIs(t, err, lensz.ErrInvalidArgument)
	})
}

func TestDisplayYoungestToOldest(t *testing.T) {
	persons := loadRoster(t)

	got, err := DisplayYoungestToOldest(persons)
	require.NoError(t, err)
	assert.Equal(t, "Du plus jeune au plus âgé: Léa, Jean, Anne, Paul, Hugo, Marie.", got)

	t.Run("empty roster", func(t *testing.T) {
		got, err := DisplayYoungestToOldest([]Person{})
		require.NoError(t, err)
		assert.Equal(t, "Du plus jeune au plus âgé: .", got)
	})

	t.Run("single person", func(t *testing.T) {
		got, err := DisplayYoungestToOldest([]Person{{Name: "Solo", Age: 3}})
		require.NoError(t, err)
		assert.Equal(t, "Du plus jeune au plus âgé: Solo.", got)
	})
}

func TestAverageAge(t *testing.T) {
	got, err := AverageAge([]Person{{Age: 20}, {Age: 30}})
	require.NoError(t, err)
	assert.Equal(t, 25.0, got)

	got, err = AverageAge(loadRoster(t))
	require.NoError(t, err)
	assert.InDelta(t, 176.0/6.0, got, 1e-9)

	_, err = AverageAge([]Person{})
	assert.ErrorIs(t, err, lensz.ErrInvalidArgument)

	_, err = AverageAge(nil)
	assert.ErrorIs(t, err, lensz.ErrInvalidArgument)
}

func TestAverageAgeMale(t *testing.T) {
	persons := loadRoster(t)

	got, err := AverageAgeMale(persons)
	require.NoError(t, err)
	// Paul (M), Jean (homme), Hugo (m)
	assert.InDelta(t, 29.0, got, 1e-9)

	t.Run("tag variants", func(t *testing.T) {
		for _, sex := range []string{"M", "m", "homme", "Homme", "HOMME"} {
			assert.True(t, IsMale(Person{Sex: sex}), sex)
		}
		for _, sex := range []string{"F", "femme", "", "male", "hommes"} {
			assert.False(t, IsMale(Person{Sex: sex}), sex)
		}
	})

	t.Run("nobody matches", func(t *testing.T) {
		_, err := AverageAgeMale([]Person{{Name: "Léa", Sex: "F", Age: 19}})
		assert.ErrorIs(t, err, lensz.ErrInvalidArgument)
	})
}

func TestAverageAgeByInitial(t *testing.T) {
	persons := loadRoster(t)

	got, err := AverageAgeByInitial(persons, "M")
	require.NoError(t, err)
	assert.Equal(t, 45.0, got)

	got, err = AverageAgeByInitial(persons, "Pa")
	require.NoError(t, err)
	assert.Equal(t, 31.0, got)

	_, err = AverageAgeByInitial(persons, "m")
	assert.ErrorIs(t, err, lensz.ErrInvalidArgument, "prefix match is case-sensitive")

	_, err = AverageAgeByInitial(persons, "Z")
	assert.ErrorIs(t, err, lensz.ErrInvalidArgument)
}

func TestAverageAgeBySex(t *testing.T) {
	persons := loadRoster(t)

	got, err := AverageAgeBySex(persons)
	require.NoError(t, err)
	require.Len(t, got, 4)
	assert.InDelta(t, 31.0, got["M"], 1e-9)
	assert.InDelta(t, 31.0, got["m"], 1e-9)
	assert.InDelta(t, 25.0, got["homme"], 1e-9)
	assert.InDelta(t, 89.0/3.0, got["F"], 1e-9)

	empty, err := AverageAgeBySex([]Person{})
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestGroupBySexPartitions(t *testing.T) {
	persons := loadRoster(t)

	groups, err := GroupBySex(persons)
	require.NoError(t, err)

	type identity struct {
		name string
		age  int
	}
	seen := make(map[identity]int)
	total := 0
	for sex, group := range groups {
		for _, p := range group {
			assert.Equal(t, sex, p.Sex)
			seen[identity{p.Name, p.Age}]++
			total++
		}
	}
	assert.Equal(t, len(persons), total)
	for _, p := range persons {
		assert.Equal(t, 1, seen[identity{p.Name, p.Age}], p.Name)
	}
}

func TestMainstreamListeners(t *testing.T) {
	persons := loadRoster(t)

	listeners, err := MainstreamListeners(persons)
	require.NoError(t, err)
	assert.Equal(t, []string{"Anne", "Hugo", "Marie", "Paul"}, lensz.Map(listeners, nameOf))

	t.Run("idempotent", func(t *testing.T) {
		again, err := MainstreamListeners(listeners)
		require.NoError(t, err)
		assert.Equal(t, listeners, again)
	})

	t.Run("loop rendition agrees", func(t *testing.T) {
		loop, err := MainstreamListenersLoop(persons)
		require.NoError(t, err)
		assert.Equal(t, listeners, loop)
	})

	t.Run("equal names keep roster order", func(t *testing.T) {
		twins := []Person{
			{Name: "Zed", Age: 1, Artistes: []Artiste{{Name: "a", Rank: 1}}},
			{Name: "Max", Age: 2, Artistes: []Artiste{{Name: "b", Rank: 2}}},
			{Name: "Max", Age: 3, Artistes: []Artiste{{Name: "c", Rank: 3}}},
		}
		got, err := MainstreamListeners(twins)
		require.NoError(t, err)
		require.Len(t, got, 3)
		assert.Equal(t, []int{2, 3, 1}, lensz.Map(got, ageOf))

		loop, err := MainstreamListenersLoop(twins)
		require.NoError(t, err)
		assert.Equal(t, got, loop)
	})

	t.Run("rank boundary", func(t *testing.T) {
		assert.True(t, IsMainstream(Artiste{Rank: MainstreamRank}))
		assert.False(t, IsMainstream(Artiste{Rank: MainstreamRank + 1}))
	})

	t.Run("nil roster", func(t *testing.T) {
		_, err := MainstreamListeners(nil)
		assert.ErrorIs(t, err, lensz.ErrInvalidArgument)
		_, err = MainstreamListenersLoop(nil)
		assert.ErrorIs(t, err, lensz.ErrInvalidArgument)
	})
}
