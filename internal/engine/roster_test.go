package engine

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoster_NameAssignment(t *testing.T) {
	cases := []struct {
		name      string
		existing  []string
		requested string
		want      string
	}{
		{name: "empty falls back to default", requested: "", want: "Player 2"},
		{name: "whitespace falls back to default", requested: "   ", want: "Player 2"},
		{name: "trimmed", requested: "  bob  ", want: "bob"},
		{name: "collision gets suffix", existing: []string{"bob"}, requested: "bob", want: "bob 2"},
		{name: "suffix increments past taken ones", existing: []string{"bob", "bob 2"}, requested: "bob", want: "bob 3"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := NewState()
			s.Join("occupant") // id 1, so the subject gets id 2
			for _, n := range tc.existing {
				s.Join(n)
			}

			info, _ := s.Join(tc.requested)
			if len(tc.existing) > 0 {
				// Suffix cases allocate later ids; only the name matters.
				assert.Equal(t, tc.want, info.Name)
			} else {
				require.Equal(t, 2, info.PlayerID)
				assert.Equal(t, tc.want, info.Name)
			}
		})
	}
}

func TestRoster_NamesStayDistinct(t *testing.T) {
	s := NewState()
	for i := 0; i < 6; i++ {
		s.Join("clone")
	}
	s.Leave(3)
	s.Join("clone")

	seen := map[string]bool{}
	for id, name := range s.Names {
		require.False(t, seen[name], "duplicate name %q for player %d", name, id)
		seen[name] = true
	}
}

func TestRoster_IDsAlwaysSmallestUnused(t *testing.T) {
	s := NewState()
	for i := 0; i < 5; i++ {
		s.Join(fmt.Sprintf("p%d", i))
	}
	s.Leave(2)
	s.Leave(4)

	info, _ := s.Join("again")
	assert.Equal(t, 2, info.PlayerID)
	info, _ = s.Join("again")
	assert.Equal(t, 4, info.PlayerID)
	info, _ = s.Join("again")
	assert.Equal(t, 6, info.PlayerID)
}

func TestRoster_RankingSortedByScore(t *testing.T) {
	s := NewState()
	s.Join("a") // 1
	s.Join("b") // 2
	s.Join("c") // 3
	s.Scores[2] = 50
	s.Scores[3] = 20

	ranking := s.Ranking()
	require.Len(t, ranking, 3)
	assert.Equal(t, 2, ranking[0].ID)
	assert.Equal(t, 3, ranking[1].ID)
	assert.Equal(t, 1, ranking[2].ID)
}
