package server

import (
	"fmt"
	"os"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// Fixture is the YAML seed file of the reference service:
//
//	layout:            # optional, defaults to DefaultLayout()
//	  - name: network
//	    apply_path: system/apply
//	    collections:
//	      - {name: devices, id_field: name}
//	      - {name: connections, id_field: id}
//	data:
//	  network:
//	    devices:
//	      - {name: eth0, type: ethernet, state: connected}
//	    connections:
//	      - {id: eth0, interface: eth0, method4: auto, status: up}
type Fixture struct {
	Layout []RootSpec                             `yaml:"layout"`
	Data   map[string]map[string][]map[string]any `yaml:"data"`
}

// LoadFixture reads a fixture file
func LoadFixture(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixture: %w", err)
	}
	return ParseFixture(data)
}

// ParseFixture parses fixture YAML
func ParseFixture(data []byte) (*Fixture, error) {
	var f Fixture
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse fixture: %w", err)
	}
	return &f, nil
}

// NewStoreFromFixture builds a store with the fixture layout (or the default
// one) and seeds it with the fixture data.
func NewStoreFromFixture(f *Fixture) (*Store, error) {
	layout := DefaultLayout()
	if f != nil && len(f.Layout) > 0 {
		layout = f.Layout
	}
	store, err := NewStore(layout)
	if err != nil {
		return nil, err
	}
	if f == nil {
		return store, nil
	}

	for rootName, collections := range f.Data {
		for name, items := range collections {
			records := make([][]byte, 0, len(items))
			for i, item := range items {
				body, err := json.Marshal(item)
				if err != nil {
					return nil, fmt.Errorf("fixture %s/%s[%d]: %w", rootName, name, i, err)
				}
				records = append(records, body)
			}
			if err := store.Seed(rootName, name, records); err != nil {
				return nil, err
			}
		}
	}
	return store, nil
}
