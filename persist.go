package main

import (
	"log"

	"github.com/Tiqsif/platformer-template/movement"
	"github.com/Tiqsif/platformer-template/prefabs"
	"github.com/quasilyte/gdata"
)

const (
	appName  = "platformer-template"
	statsKey = "stats"
)

// Store keeps tuned stats between runs. A nil manager turns every call into
// a no-op.
type Store struct {
	m *gdata.Manager
}

func OpenStore() *Store {
	m, err := gdata.Open(gdata.Config{AppName: appName})
	if err != nil {
		log.Printf("Warning: could not open save data: %v", err)
		return &Store{}
	}
	return &Store{m: m}
}

// LoadStats returns the saved stats, or false when nothing was saved.
func (s *Store) LoadStats() (movement.Stats, bool) {
	if s == nil || s.m == nil {
		return movement.Stats{}, false
	}
	data, err := s.m.LoadItem(statsKey)
	if err != nil {
		log.Printf("Warning: could not load saved stats: %v", err)
		return movement.Stats{}, false
	}
	if data == nil {
		return movement.Stats{}, false
	}
	spec, err := prefabs.ParsePlayerSpec(data)
	if err != nil {
		log.Printf("Warning: could not parse saved stats: %v", err)
		return movement.Stats{}, false
	}
	return spec.Stats, true
}

func (s *Store) SaveStats(stats movement.Stats) error {
	if s == nil || s.m == nil {
		return nil
	}
	data, err := prefabs.MarshalStats(stats)
	if err != nil {
		return err
	}
	if err := s.m.SaveItem(statsKey, data); err != nil {
		log.Printf("Warning: could not save stats: %v", err)
		return err
	}
	return nil
}
