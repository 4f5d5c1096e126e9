package logic

import (
	"math/rand/v2"
	"slices"
	"strings"
	"sync"
	"testing"

	"github.com/futchampions/tracker-api/internal/catalog"
)

func testPools() catalog.Feedback {
	return catalog.Feedback{
		EncouragementWin:  []string{"win-a", "win-b"},
		EncouragementLoss: []string{"loss-a", "loss-b"},
		AnalysisWin:       []string{"aw"},
		AnalysisLoss:      []string{"al"},
		Milestones:        catalog.Milestones{FirstGame: 1, Games: 10, Goals: 5},
		Streak:            catalog.Streak{Window: 5, MinWins: 3},
	}
}

func newTestSelector() *FeedbackSelector {
	return NewFeedbackSelector(testPools(), rand.New(rand.NewPCG(1, 2)))
}

func TestFeedbackSelector_PoolsFollowResult(t *testing.T) {
	s := newTestSelector()
	pools := testPools()

	history := sequence("LW")
	fb := s.Select(history[1], history)
	if !slices.Contains(pools.EncouragementWin, fb.Encouragement) {
		t.Errorf("win encouragement %q not from win pool", fb.Encouragement)
	}
	if fb.Analysis != "aw" {
		t.Errorf("Analysis = %q, want aw", fb.Analysis)
	}

	history = sequence("WL")
	fb = s.Select(history[1], history)
	if !slices.Contains(pools.EncouragementLoss, fb.Encouragement) {
		t.Errorf("loss encouragement %q not from loss pool", fb.Encouragement)
	}
	if fb.Analysis != "al" {
		t.Errorf("Analysis = %q, want al", fb.Analysis)
	}
}

func TestFeedbackSelector_Deterministic(t *testing.T) {
	history := sequence("WWLWL")
	a, b := newTestSelector(), newTestSelector()
	for i := range history {
		fa := a.Select(history[i], history[:i+1])
		fb := b.Select(history[i], history[:i+1])
		if fa.Encouragement != fb.Encouragement {
			t.Fatalf("game %d: %q != %q with the same seed", i, fa.Encouragement, fb.Encouragement)
		}
	}
}

func TestFeedbackSelector_Milestones(t *testing.T) {
	s := newTestSelector()

	history := sequence("W")
	fb := s.Select(history[0], history)
	if len(fb.Milestones) != 1 || !strings.HasPrefix(fb.Milestones[0], "First game") {
		t.Errorf("first game milestones = %v", fb.Milestones)
	}

	// Every game in sequence scores once, so goal five is crossed on game five
	history = sequence("LLLLL")
	fb = s.Select(history[4], history)
	if len(fb.Milestones) != 1 || !strings.HasPrefix(fb.Milestones[0], "5 career goals") {
		t.Errorf("goal milestones = %v", fb.Milestones)
	}

	history = sequence("LLLLLL")
	fb = s.Select(history[5], history)
	if len(fb.Milestones) != 0 {
		t.Errorf("goal milestone must fire once, got %v", fb.Milestones)
	}

	history = sequence("LLLLLLLLLL")
	history[9].UserGoals = 0
	fb = s.Select(history[9], history)
	if len(fb.Milestones) != 1 || !strings.HasPrefix(fb.Milestones[0], "10 games") {
		t.Errorf("games milestones = %v", fb.Milestones)
	}
}

func TestFeedbackSelector_Streak(t *testing.T) {
	tests := []struct {
		pattern string
		want    string
	}{
		{"WW", ""},
		{"LWWW", "You're on fire! 3 wins in a row."},
		{"WWWWWWW", "You're on fire! 5 wins in a row."},
		{"WWWL", ""},
	}
	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			history := sequence(tt.pattern)
			fb := newTestSelector().Select(history[len(history)-1], history)
			if fb.Streak != tt.want {
				t.Errorf("Streak = %q, want %q", fb.Streak, tt.want)
			}
		})
	}
}

func TestFeedbackSelector_EmptyPools(t *testing.T) {
	s := NewFeedbackSelector(catalog.Feedback{}, nil)
	history := sequence("W")
	fb := s.Select(history[0], history)
	if fb.Encouragement != "" || fb.Analysis != "" {
		t.Errorf("empty pools should yield empty text, got %+v", fb)
	}
}

func TestFeedbackSelector_Concurrent(t *testing.T) {
	s := newTestSelector()
	history := sequence("WLW")

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_ = s.Select(history[2], history)
			}
		}()
	}
	wg.Wait()
}
