// Package catalog holds the static achievement definitions and feedback text
// pools. Built-in defaults can be replaced from a YAML file and individual
// thresholds tuned through FUT_CATALOG_ environment variables.
package catalog

import (
	"fmt"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/futchampions/tracker-api/internal/models"
)

const envPrefix = "FUT_CATALOG_"

// Milestones are the cumulative totals that trigger a milestone message
type Milestones struct {
	FirstGame int `koanf:"first_game"`
	Games     int `koanf:"games"`
	Goals     int `koanf:"goals"`
}

// Streak configures the recent-form message
type Streak struct {
	Window  int `koanf:"window"`
	MinWins int `koanf:"min_wins"`
}

// Feedback holds the text pools the feedback selector draws from
type Feedback struct {
	EncouragementWin  []string   `koanf:"encouragement_win"`
	EncouragementLoss []string   `koanf:"encouragement_loss"`
	AnalysisWin       []string   `koanf:"analysis_win"`
	AnalysisLoss      []string   `koanf:"analysis_loss"`
	Milestones        Milestones `koanf:"milestones"`
	Streak            Streak     `koanf:"streak"`
}

type Catalog struct {
	Achievements []models.AchievementDefinition `koanf:"achievements"`
	Feedback     Feedback                       `koanf:"feedback"`
}

// Load layers built-in defaults, the optional YAML file at path, and
// FUT_CATALOG_ env vars (double underscore separates levels, e.g.
// FUT_CATALOG_FEEDBACK__MILESTONES__GAMES=50).
func Load(path string) (*Catalog, error) {
	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load catalog file %s: %w", path, err)
		}
	}

	envProvider := env.Provider(envPrefix, ".", func(s string) string {
		s = strings.TrimPrefix(s, envPrefix)
		return strings.ReplaceAll(strings.ToLower(s), "__", ".")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("load catalog env: %w", err)
	}

	cat := Default()
	// A file-supplied list replaces the defaults instead of merging into them
	if k.Exists("achievements") {
		cat.Achievements = nil
	}
	if err := k.UnmarshalWithConf("", cat, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}

	if err := cat.Validate(); err != nil {
		return nil, err
	}
	return cat, nil
}

// Validate rejects catalogs the selectors and evaluator cannot work with
func (c *Catalog) Validate() error {
	seen := make(map[string]bool, len(c.Achievements))
	for _, def := range c.Achievements {
		if def.ID == "" {
			return fmt.Errorf("achievement with empty id")
		}
		if seen[def.ID] {
			return fmt.Errorf("duplicate achievement id %q", def.ID)
		}
		seen[def.ID] = true
		if def.Target <= 0 {
			return fmt.Errorf("achievement %q: target must be positive", def.ID)
		}
		if !knownMetric(def.Metric) {
			return fmt.Errorf("achievement %q: unknown metric %q", def.ID, def.Metric)
		}
	}

	fb := c.Feedback
	if len(fb.EncouragementWin) == 0 || len(fb.EncouragementLoss) == 0 ||
		len(fb.AnalysisWin) == 0 || len(fb.AnalysisLoss) == 0 {
		return fmt.Errorf("feedback pools must not be empty")
	}
	if fb.Streak.Window <= 0 || fb.Streak.MinWins <= 0 || fb.Streak.MinWins > fb.Streak.Window {
		return fmt.Errorf("invalid streak window %d/%d", fb.Streak.MinWins, fb.Streak.Window)
	}
	return nil
}

func knownMetric(m models.Metric) bool {
	switch m {
	case models.MetricTotalGames, models.MetricTotalWins, models.MetricTotalGoals,
		models.MetricCleanSheets, models.MetricCurrentWinStreak, models.MetricLongestWinStreak:
		return true
	}
	return false
}
