package people

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

type fixturePerson struct {
	Person `yaml:",inline"`
	Chief  string `yaml:"chief"`
}

type fixtureFile struct {
	Persons []fixturePerson `yaml:"persons"`
}

// LoadFixtures reads a YAML roster of the form
//
//	persons:
//	  - name: Paul
//	    age: 31
//	    sex: M
//	    chief: Marie
//	    artistes:
//	      - {name: Stromae, rank: 3}
//
// Chief references are resolved by name against the same document. Every
// loaded person is validated.
func LoadFixtures(r io.Reader) ([]Person, error) {
	var doc fixtureFile
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil && err != io.EOF {
		return nil, fmt.Errorf("decode fixtures: %w", err)
	}

	byName := make(map[string]*Person, len(doc.Persons))
	ptrs := make([]*Person, len(doc.Persons))
	for i := range doc.Persons {
		p := doc.Persons[i].Person
		if _, dup := byName[p.Name]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateName, p.Name)
		}
		ptrs[i] = &p
		byName[p.Name] = ptrs[i]
	}

	for i, fp := range doc.Persons {
		if fp.Chief == "" {
			continue
		}
		chief, ok := byName[fp.Chief]
		if !ok {
			return nil, fmt.Errorf("%w: %q (chief of %q)", ErrUnknownChief, fp.Chief, fp.Name)
		}
		ptrs[i].Chief = chief
	}

	persons := make([]Person, len(ptrs))
	for i, p := range ptrs {
		if err := Validate(p); err != nil {
			return nil, err
		}
		persons[i] = *p
	}
	return persons, nil
}
