package engine

import (
	"fmt"
	"maps"
	"slices"
	"sort"
	"strings"
)

// allocateID returns the smallest positive id not held by a connected player.
// Ids freed by a disconnect are reused by later joiners.
func (s *State) allocateID() int {
	id := 1
	for {
		if _, used := s.Names[id]; !used {
			return id
		}
		id++
	}
}

// normalizeName trims the requested name and substitutes a default for an
// empty one. Cache restoration keys on this name, before de-duplication.
func normalizeName(id int, requested string) string {
	name := strings.TrimSpace(requested)
	if name == "" {
		name = fmt.Sprintf("Player %d", id)
	}
	return name
}

// dedupeName appends an incrementing numeric suffix until the name is unique
// among currently connected players.
func (s *State) dedupeName(name string) string {
	taken := make(map[string]bool, len(s.Names))
	for _, n := range s.Names {
		taken[n] = true
	}
	final := name
	for n := 2; taken[final]; n++ {
		final = fmt.Sprintf("%s %d", name, n)
	}
	return final
}

// connectedIDs returns the sorted ids of currently connected players.
func (s *State) connectedIDs() []int {
	return slices.Sorted(maps.Keys(s.Names))
}

// PlayerCount is the number of currently connected players.
func (s *State) PlayerCount() int {
	return len(s.Names)
}

// RankEntry is one row of the score ranking as sent to clients.
type RankEntry struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Score int    `json:"score"`
}

// Ranking returns connected players sorted by score descending, ties broken
// by id so the order is stable across broadcasts.
func (s *State) Ranking() []RankEntry {
	ranking := make([]RankEntry, 0, len(s.Scores))
	for _, id := range s.connectedIDs() {
		ranking = append(ranking, RankEntry{ID: id, Name: s.Names[id], Score: s.Scores[id]})
	}
	sort.SliceStable(ranking, func(i, j int) bool {
		return ranking[i].Score > ranking[j].Score
	})
	return ranking
}
