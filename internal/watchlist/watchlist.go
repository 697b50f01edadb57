// Package watchlist holds the hostile-entity configuration shared by the
// evaluators: hostile corp/alliance/region sets, the high-sec region list,
// and the support-ship allow-list.
//
// The active list is an immutable Snapshot behind an atomic pointer.
// Evaluators read snapshots lock-free; mutation (admin edit, file reload)
// builds a fresh Snapshot and swaps it in, so in-flight analyses never see a
// half-updated set.
package watchlist

import (
	"fmt"
	"os"
	"sync"
	"sync/atomic"

	"gopkg.in/yaml.v3"
)

// Snapshot is one immutable view of the watchlist. Never mutate a Snapshot
// after publishing it.
type Snapshot struct {
	hostileCorps     map[int64]struct{}
	hostileAlliances map[int64]struct{}
	hostileRegions   map[string]struct{}
	highSecRegions   map[string]struct{}
	supportShips     map[string]struct{}
}

// IsHostileCorp reports whether the corp ID is on the watchlist.
func (s *Snapshot) IsHostileCorp(id int64) bool {
	_, ok := s.hostileCorps[id]
	return ok
}

// IsHostileAlliance reports whether the alliance ID is on the watchlist.
func (s *Snapshot) IsHostileAlliance(id int64) bool {
	_, ok := s.hostileAlliances[id]
	return ok
}

// IsHostileEntity reports whether either ID is on the watchlist.
func (s *Snapshot) IsHostileEntity(corpID, allianceID int64) bool {
	return s.IsHostileCorp(corpID) || s.IsHostileAlliance(allianceID)
}

// IsHostileRegion reports whether the named region is hostile-controlled.
func (s *Snapshot) IsHostileRegion(name string) bool {
	_, ok := s.hostileRegions[name]
	return ok
}

// IsHighSec reports whether the named region is high-security space.
func (s *Snapshot) IsHighSec(name string) bool {
	_, ok := s.highSecRegions[name]
	return ok
}

// IsSupportShip reports whether the ship is on the logistics/support allow-list.
func (s *Snapshot) IsSupportShip(name string) bool {
	_, ok := s.supportShips[name]
	return ok
}

// File is the on-disk YAML shape of a watchlist.
type File struct {
	HostileCorps     []int64  `yaml:"hostile_corps"`
	HostileAlliances []int64  `yaml:"hostile_alliances"`
	HostileRegions   []string `yaml:"hostile_regions"`
	HighSecRegions   []string `yaml:"highsec_regions"`
	SupportShips     []string `yaml:"support_ships"`
}

// defaultHighSecRegions are the empire regions where carebear-only killboards
// live. Used when the watchlist file doesn't override them.
var defaultHighSecRegions = []string{
	"The Forge", "Domain", "Sinq Laison", "Heimatar", "Metropolis",
	"Essence", "The Citadel", "Lonetrek", "Tash-Murkon", "Kador",
}

// defaultSupportShips are logistics and support hulls whose regular use is a
// positive signal for fleet-focused corps.
var defaultSupportShips = []string{
	"Guardian", "Basilisk", "Oneiros", "Scimitar", "Nestor",
	"Deacon", "Kirin", "Thalia", "Scalpel",
	"Exequror", "Osprey", "Augoror", "Burst", "Bantam", "Inquisitor",
}

// List is the mutable holder that publishes snapshots. Readers are lock-free;
// writers serialize on mu so concurrent mutations never lose each other's
// entries.
type List struct {
	mu      sync.Mutex
	current atomic.Pointer[Snapshot]
}

// Provider is the read side handed to evaluators.
type Provider interface {
	Current() *Snapshot
}

// New creates a list from a parsed file, applying defaults for sections the
// file leaves empty.
func New(f File) *List {
	l := &List{}
	l.current.Store(build(f))
	return l
}

// Default creates a list with no hostile entities and the built-in high-sec
// and support-ship sets.
func Default() *List {
	return New(File{})
}

// Load reads and parses a YAML watchlist file.
func Load(path string) (*List, error) {
	f, err := parseFile(path)
	if err != nil {
		return nil, err
	}
	return New(f), nil
}

// Current returns the active snapshot.
func (l *List) Current() *Snapshot {
	return l.current.Load()
}

// Replace swaps in a freshly built snapshot. In-flight readers keep the
// snapshot they already hold.
func (l *List) Replace(f File) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.current.Store(build(f))
}

// AddHostileCorp publishes a new snapshot with the corp added. Copy-on-write:
// the existing snapshot is never touched.
func (l *List) AddHostileCorp(id int64) {
	l.mu.Lock()
	defer l.mu.Unlock()

	next := l.current.Load().clone()
	next.hostileCorps[id] = struct{}{}
	l.current.Store(next)
}

// AddHostileAlliance publishes a new snapshot with the alliance added.
func (l *List) AddHostileAlliance(id int64) {
	l.mu.Lock()
	defer l.mu.Unlock()

	next := l.current.Load().clone()
	next.hostileAlliances[id] = struct{}{}
	l.current.Store(next)
}

func parseFile(path string) (File, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return File{}, fmt.Errorf("watchlist: read %s: %w", path, err)
	}
	var f File
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return File{}, fmt.Errorf("watchlist: parse %s: %w", path, err)
	}
	return f, nil
}

func build(f File) *Snapshot {
	s := &Snapshot{
		hostileCorps:     make(map[int64]struct{}, len(f.HostileCorps)),
		hostileAlliances: make(map[int64]struct{}, len(f.HostileAlliances)),
		hostileRegions:   make(map[string]struct{}, len(f.HostileRegions)),
		highSecRegions:   make(map[string]struct{}),
		supportShips:     make(map[string]struct{}),
	}
	for _, id := range f.HostileCorps {
		s.hostileCorps[id] = struct{}{}
	}
	for _, id := range f.HostileAlliances {
		s.hostileAlliances[id] = struct{}{}
	}
	for _, r := range f.HostileRegions {
		s.hostileRegions[r] = struct{}{}
	}

	highsec := f.HighSecRegions
	if len(highsec) == 0 {
		highsec = defaultHighSecRegions
	}
	for _, r := range highsec {
		s.highSecRegions[r] = struct{}{}
	}

	ships := f.SupportShips
	if len(ships) == 0 {
		ships = defaultSupportShips
	}
	for _, sh := range ships {
		s.supportShips[sh] = struct{}{}
	}
	return s
}

func (s *Snapshot) clone() *Snapshot {
	next := &Snapshot{
		hostileCorps:     make(map[int64]struct{}, len(s.hostileCorps)+1),
		hostileAlliances: make(map[int64]struct{}, len(s.hostileAlliances)+1),
		hostileRegions:   make(map[string]struct{}, len(s.hostileRegions)),
		highSecRegions:   make(map[string]struct{}, len(s.highSecRegions)),
		supportShips:     make(map[string]struct{}, len(s.supportShips)),
	}
	for k := range s.hostileCorps {
		next.hostileCorps[k] = struct{}{}
	}
	for k := range s.hostileAlliances {
		next.hostileAlliances[k] = struct{}{}
	}
	for k := range s.hostileRegions {
		next.hostileRegions[k] = struct{}{}
	}
	for k := range s.highSecRegions {
		next.highSecRegions[k] = struct{}{}
	}
	for k := range s.supportShips {
		next.supportShips[k] = struct{}{}
	}
	return next
}
