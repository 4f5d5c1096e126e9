package logic

import (
	"bytes"

	"github.com/futchampions/tracker-api/internal/models"
)

// ChunkWindow is an inclusive range of game ordinals
type ChunkWindow struct {
	Start int
	End   int
}

// Fixed run windows. They never move with the number of games logged.
var (
	WindowBeginning = ChunkWindow{Start: 1, End: 5}
	WindowMiddle    = ChunkWindow{Start: 6, End: 10}
	WindowEnd       = ChunkWindow{Start: 11, End: 15}
)

// Contains reports whether a game ordinal falls inside the window
func (w ChunkWindow) Contains(gameNumber int) bool {
	return gameNumber >= w.Start && gameNumber <= w.End
}

// CalculateChunk folds the games inside one window into a chunk record
func CalculateChunk(games []models.Game, w ChunkWindow) models.ChunkRecord {
	var c models.ChunkRecord
	for _, g := range games {
		if !w.Contains(g.GameNumber) {
			continue
		}
		if g.Result.IsWin() {
			c.Wins++
		} else if g.Result.IsLoss() {
			c.Losses++
		}
		c.GoalsFor += g.UserGoals
		c.GoalsAgainst += g.OpponentGoals
		c.GameCount++
	}
	return c
}

// CalculateRunChunks computes the three window records for a run.
// A nil run or one without games yields three zero chunks.
func CalculateRunChunks(run *models.WeeklyRun) models.RunChunkStats {
	if run == nil {
		return models.RunChunkStats{}
	}
	return models.RunChunkStats{
		RunID:     run.ID,
		Beginning: CalculateChunk(run.Games, WindowBeginning),
		Middle:    CalculateChunk(run.Games, WindowMiddle),
		End:       CalculateChunk(run.Games, WindowEnd),
	}
}

// CalculateAllChunks computes chunk records for every run, preserving order
func CalculateAllChunks(runs []models.WeeklyRun) []models.RunChunkStats {
	out := make([]models.RunChunkStats, 0, len(runs))
	for i := range runs {
		out = append(out, CalculateRunChunks(&runs[i]))
	}
	return out
}

// FindChunkExtremes scans per-run chunk stats and keeps the best and worst
// instance of each window independently. Windows without games are skipped.
func FindChunkExtremes(stats []models.RunChunkStats) models.ChunkExtremes {
	var ex models.ChunkExtremes
	for _, s := range stats {
		ex.BestBeginning, ex.WorstBeginning = pickExtremes(ex.BestBeginning, ex.WorstBeginning, s, s.Beginning)
		ex.BestMiddle, ex.WorstMiddle = pickExtremes(ex.BestMiddle, ex.WorstMiddle, s, s.Middle)
		ex.BestEnd, ex.WorstEnd = pickExtremes(ex.BestEnd, ex.WorstEnd, s, s.End)
	}
	return ex
}

// AnalyzeChunks is the history-wide view: per-run records plus extremes
func AnalyzeChunks(runs []models.WeeklyRun) models.ChunkAnalytics {
	stats := CalculateAllChunks(runs)
	return models.ChunkAnalytics{
		Runs:     stats,
		Extremes: FindChunkExtremes(stats),
	}
}

func pickExtremes(best, worst *models.ChunkPick, s models.RunChunkStats, c models.ChunkRecord) (*models.ChunkPick, *models.ChunkPick) {
	if c.GameCount == 0 {
		return best, worst
	}
	cand := &models.ChunkPick{RunID: s.RunID, Chunk: c}
	if best == nil || betterChunk(cand, best) {
		best = cand
	}
	if worst == nil || worseChunk(cand, worst) {
		worst = cand
	}
	return best, worst
}

// betterChunk: more wins, then fewer losses. Full ties go to the lower run
// ID so the pick does not depend on scan order.
func betterChunk(a, b *models.ChunkPick) bool {
	if a.Chunk.Wins != b.Chunk.Wins {
		return a.Chunk.Wins > b.Chunk.Wins
	}
	if a.Chunk.Losses != b.Chunk.Losses {
		return a.Chunk.Losses < b.Chunk.Losses
	}
	return bytes.Compare(a.RunID[:], b.RunID[:]) < 0
}

// worseChunk: fewer wins, then more losses, then lower run ID.
func worseChunk(a, b *models.ChunkPick) bool {
	if a.Chunk.Wins != b.Chunk.Wins {
		return a.Chunk.Wins < b.Chunk.Wins
	}
	if a.Chunk.Losses != b.Chunk.Losses {
		return a.Chunk.Losses > b.Chunk.Losses
	}
	return bytes.Compare(a.RunID[:], b.RunID[:]) < 0
}
