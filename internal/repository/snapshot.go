package repository

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"

	"BaseballMVP/internal/domain/models"
	domrepo "BaseballMVP/internal/domain/repository"
	xutil "BaseballMVP/pkg/util"
)

type aggKey struct {
	player string
	role   models.Role
	window models.Window
}

type leagueKey struct {
	role   models.Role
	window models.Window
}

// Snapshot is an immutable in-memory AggregateStore. It is built once at
// startup and read concurrently afterwards without locking.
type Snapshot struct {
	aggs     map[aggKey]models.RoleAggregate
	league   map[leagueKey]models.RoleAggregate
	profiles map[string]models.PlayerProfile
	players  map[models.Role]int

	fingerprint string
}

// NewSnapshot validates rows, canonicalizes player ids and computes league totals.
// Any inconsistency is reported as models.ErrDataUnavailable.
func NewSnapshot(aggs []models.RoleAggregate, profiles []models.PlayerProfile) (*Snapshot, error) {
	s := &Snapshot{
		aggs:     make(map[aggKey]models.RoleAggregate, len(aggs)),
		league:   make(map[leagueKey]models.RoleAggregate),
		profiles: make(map[string]models.PlayerProfile, len(profiles)),
		players:  make(map[models.Role]int),
	}
	seen := make(map[models.Role]map[string]struct{})

	for i, a := range aggs {
		id, ok := xutil.CanonicalID(a.PlayerID)
		if !ok {
			return nil, fmt.Errorf("%w: aggregate %d: invalid player id", models.ErrDataUnavailable, i)
		}
		a.PlayerID = id
		if !a.Role.Valid() {
			return nil, fmt.Errorf("%w: aggregate %d: unknown role %q", models.ErrDataUnavailable, i, a.Role)
		}
		if !a.Window.Valid() {
			return nil, fmt.Errorf("%w: aggregate %d: unknown window %q", models.ErrDataUnavailable, i, a.Window)
		}
		if err := checkCounts(a); err != nil {
			return nil, fmt.Errorf("%w: aggregate %d (%s/%s/%s): %v", models.ErrDataUnavailable, i, id, a.Role, a.Window, err)
		}
		k := aggKey{player: id, role: a.Role, window: a.Window}
		if _, dup := s.aggs[k]; dup {
			return nil, fmt.Errorf("%w: duplicate aggregate %s/%s/%s", models.ErrDataUnavailable, id, a.Role, a.Window)
		}
		s.aggs[k] = a

		lk := leagueKey{role: a.Role, window: a.Window}
		tot := s.league[lk]
		tot.Role, tot.Window = a.Role, a.Window
		tot.Add(a)
		s.league[lk] = tot

		if seen[a.Role] == nil {
			seen[a.Role] = make(map[string]struct{})
		}
		seen[a.Role][id] = struct{}{}
	}
	for role, ids := range seen {
		s.players[role] = len(ids)
	}

	for i, p := range profiles {
		id, ok := xutil.CanonicalID(p.PlayerID)
		if !ok {
			return nil, fmt.Errorf("%w: profile %d: invalid player id", models.ErrDataUnavailable, i)
		}
		if _, dup := s.profiles[id]; dup {
			return nil, fmt.Errorf("%w: duplicate profile %s", models.ErrDataUnavailable, id)
		}
		p.PlayerID = id
		s.profiles[id] = p
	}
	s.fingerprint = s.digest()
	return s, nil
}

// digest hashes the canonicalized rows in a fixed order, so the same data
// loaded from a file or from ClickHouse yields the same value.
func (s *Snapshot) digest() string {
	aggs := make([]models.RoleAggregate, 0, len(s.aggs))
	for _, a := range s.aggs {
		aggs = append(aggs, a)
	}
	sort.Slice(aggs, func(i, j int) bool {
		a, b := aggs[i], aggs[j]
		if a.PlayerID != b.PlayerID {
			return a.PlayerID < b.PlayerID
		}
		if a.Role != b.Role {
			return a.Role < b.Role
		}
		return a.Window < b.Window
	})
	profiles := make([]models.PlayerProfile, 0, len(s.profiles))
	for _, p := range s.profiles {
		profiles = append(profiles, p)
	}
	sort.Slice(profiles, func(i, j int) bool { return profiles[i].PlayerID < profiles[j].PlayerID })

	b, _ := json.Marshal(struct {
		Aggregates []models.RoleAggregate  `json:"a"`
		Profiles   []models.PlayerProfile `json:"p"`
	}{aggs, profiles})
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:8])
}

// Fingerprint identifies the loaded rows. It changes whenever any count or
// profile field does.
func (s *Snapshot) Fingerprint() string { return s.fingerprint }

func checkCounts(a models.RoleAggregate) error {
	if a.PA < 0 || a.Hits < 0 || a.Strikeouts < 0 || a.Walks < 0 {
		return fmt.Errorf("negative count")
	}
	if a.Hits > a.PA || a.Strikeouts > a.PA || a.Walks > a.PA {
		return fmt.Errorf("count exceeds plate appearances")
	}
	if a.Hits+a.Strikeouts+a.Walks > a.PA {
		return fmt.Errorf("outcomes exceed plate appearances")
	}
	return nil
}

func (s *Snapshot) Aggregate(playerID string, role models.Role, window models.Window) (models.RoleAggregate, bool) {
	a, ok := s.aggs[aggKey{player: playerID, role: role, window: window}]
	return a, ok
}

func (s *Snapshot) League(role models.Role, window models.Window) models.RoleAggregate {
	return s.league[leagueKey{role: role, window: window}]
}

func (s *Snapshot) Profile(playerID string) (models.PlayerProfile, bool) {
	p, ok := s.profiles[playerID]
	return p, ok
}

func (s *Snapshot) Players(role models.Role) int {
	return s.players[role]
}

// PlayerIDs lists players with aggregates for role, sorted.
func (s *Snapshot) PlayerIDs(role models.Role) []string {
	set := make(map[string]struct{})
	for k := range s.aggs {
		if k.role == role {
			set[k.player] = struct{}{}
		}
	}
	out := make([]string, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

var _ domrepo.AggregateStore = (*Snapshot)(nil)
