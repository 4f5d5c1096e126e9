package logic

import (
	"fmt"
	"math/rand/v2"
	"sort"
	"sync"

	"github.com/futchampions/tracker-api/internal/catalog"
	"github.com/futchampions/tracker-api/internal/models"
)

// FeedbackSelector picks post-game text from the catalog pools.
// Safe for concurrent use.
type FeedbackSelector struct {
	pools catalog.Feedback
	mu    sync.Mutex
	rng   *rand.Rand
}

// NewFeedbackSelector uses rng for pool picks; nil seeds a fresh PCG source.
func NewFeedbackSelector(pools catalog.Feedback, rng *rand.Rand) *FeedbackSelector {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &FeedbackSelector{pools: pools, rng: rng}
}

// Select builds feedback for game. history is every game the user has logged
// for the version, including game itself.
func (s *FeedbackSelector) Select(game models.Game, history []models.Game) models.Feedback {
	var fb models.Feedback
	if game.Result.IsWin() {
		fb.Encouragement = s.pick(s.pools.EncouragementWin)
		fb.Analysis = s.pick(s.pools.AnalysisWin)
	} else {
		fb.Encouragement = s.pick(s.pools.EncouragementLoss)
		fb.Analysis = s.pick(s.pools.AnalysisLoss)
	}

	fb.Milestones = s.milestones(game, history)

	if wins := leadingWins(mostRecentFirst(history), s.pools.Streak.Window); s.pools.Streak.MinWins > 0 && wins >= s.pools.Streak.MinWins {
		fb.Streak = fmt.Sprintf("You're on fire! %d wins in a row.", wins)
	}
	return fb
}

func (s *FeedbackSelector) pick(pool []string) string {
	if len(pool) == 0 {
		return ""
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return pool[s.rng.IntN(len(pool))]
}

func (s *FeedbackSelector) milestones(game models.Game, history []models.Game) []string {
	var out []string
	m := s.pools.Milestones
	total := len(history)

	if m.FirstGame > 0 && total == m.FirstGame {
		out = append(out, "First game logged! Welcome to the grind.")
	}
	if m.Games > 0 && total == m.Games {
		out = append(out, fmt.Sprintf("%d games played. That's dedication.", m.Games))
	}

	if m.Goals > 0 {
		goals := 0
		for _, g := range history {
			goals += g.UserGoals
		}
		if goals >= m.Goals && goals-game.UserGoals < m.Goals {
			out = append(out, fmt.Sprintf("%d career goals! Keep finding the net.", m.Goals))
		}
	}
	return out
}

// mostRecentFirst returns a copy ordered newest to oldest
func mostRecentFirst(games []models.Game) []models.Game {
	sorted := append([]models.Game(nil), games...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].CreatedAt.After(sorted[j].CreatedAt) })
	return sorted
}

// leadingWins counts consecutive wins from the start of the first window
// games of recent.
func leadingWins(recent []models.Game, window int) int {
	if len(recent) > window {
		recent = recent[:window]
	}
	wins := 0
	for _, g := range recent {
		if !g.Result.IsWin() {
			break
		}
		wins++
	}
	return wins
}
