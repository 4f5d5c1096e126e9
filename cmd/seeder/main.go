package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"math/rand/v2"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/futchampions/tracker-api/internal/models"
)

// Seeds one weekly run through the public API and logs a full set of games
func main() {
	var (
		apiURL  = flag.String("url", "http://localhost:8080/api/v1", "API base URL")
		userArg = flag.String("user", "", "User ID (random when empty)")
		version = flag.String("version", "FC26", "Game version")
		games   = flag.Int("games", 15, "Games to log (max 15)")
		winRate = flag.Float64("win-rate", 0.6, "Probability of a win")
	)
	flag.Parse()

	userID := uuid.New()
	if *userArg != "" {
		userID = uuid.MustParse(*userArg)
	}

	c := &client{base: *apiURL, userID: userID, http: &http.Client{Timeout: 5 * time.Second}}

	var run models.WeeklyRun
	err := c.post("/runs", models.CreateRunRequest{
		GameVersion: *version,
		Name:        "Seeded run " + time.Now().Format("2006-01-02"),
		TargetWins:  11,
	}, &run)
	if err != nil {
		log.Fatalf("Failed to create run: %v", err)
	}
	fmt.Printf("Created run %s for user %s\n", run.ID, userID)

	for i := 0; i < *games && i < 15; i++ {
		req := models.LogGameRequest{
			Result:        models.ResultLoss,
			UserGoals:     rand.IntN(3),
			OpponentSkill: 1000 + rand.IntN(1000),
		}
		req.OpponentGoals = req.UserGoals + 1 + rand.IntN(2)
		if rand.Float64() < *winRate {
			req.Result = models.ResultWin
			req.OpponentGoals = rand.IntN(3)
			req.UserGoals = req.OpponentGoals + 1 + rand.IntN(2)
		}

		var resp models.LogGameResponse
		if err := c.post("/runs/"+run.ID.String()+"/games", req, &resp); err != nil {
			log.Fatalf("Failed to log game %d: %v", i+1, err)
		}
		fmt.Printf("Game %2d: %-4s %d-%d", resp.Game.GameNumber, resp.Game.Result, resp.Game.UserGoals, resp.Game.OpponentGoals)
		if resp.Feedback != nil {
			fmt.Printf("  %s", resp.Feedback.Encouragement)
		}
		fmt.Println()
	}

	var chunks models.RunChunkStats
	if err := c.get("/runs/"+run.ID.String()+"/chunks", &chunks); err != nil {
		log.Fatalf("Failed to fetch chunks: %v", err)
	}
	fmt.Printf("Beginning %d-%d, Middle %d-%d, End %d-%d\n",
		chunks.Beginning.Wins, chunks.Beginning.Losses,
		chunks.Middle.Wins, chunks.Middle.Losses,
		chunks.End.Wins, chunks.End.Losses)
}

type client struct {
	base   string
	userID uuid.UUID
	http   *http.Client
}

func (c *client) post(path string, body, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequest("POST", c.base+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *client) get(path string, out interface{}) error {
	req, err := http.NewRequest("GET", c.base+path, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *client) do(req *http.Request, out interface{}) error {
	req.Header.Set("X-User-ID", c.userID.String())

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%s: %s", resp.Status, bytes.TrimSpace(body))
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
