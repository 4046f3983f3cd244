package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/cepsu/cFork-OPR/internal/bot"
	"github.com/cepsu/cFork-OPR/internal/config"
	redisrepo "github.com/cepsu/cFork-OPR/internal/repository/redis"
	"github.com/cepsu/cFork-OPR/pkg/grimdark"
)

// consoleNarrator prints combat narration to stdout, keeping logs on stderr.
type consoleNarrator struct{}

func (consoleNarrator) Say(line string) { fmt.Println(line) }

func main() {
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	var (
		redPath      string
		bluePath     string
		scenarioPath string
		seed         int64
		rounds       int
		objectives   int
		strategyRed  string
		strategyBlue string
		redisURL     string
		jsonOut      bool
		quiet        bool
	)

	flag.StringVar(&redPath, "red", "", "Red army list file")
	flag.StringVar(&bluePath, "blue", "", "Blue army list file")
	flag.StringVar(&scenarioPath, "scenario", "", "YAML scenario file (flags override its values)")
	flag.Int64Var(&seed, "seed", 0, "Dice seed (0 = random)")
	flag.IntVar(&rounds, "rounds", 0, "Rounds to play (0 = ruleset default)")
	flag.IntVar(&objectives, "objectives", 0, "Objective markers (0 = default)")
	flag.StringVar(&strategyRed, "strategy-red", "", "Red strategy: tactical, hold, random")
	flag.StringVar(&strategyBlue, "strategy-blue", "", "Blue strategy: tactical, hold, random")
	flag.StringVar(&redisURL, "redis", "", "Publish live snapshots to this redis URL")
	flag.BoolVar(&jsonOut, "json", false, "Print the result as JSON")
	flag.BoolVar(&quiet, "quiet", false, "Suppress combat narration")

	flag.Parse()

	scn := &config.Scenario{}
	if scenarioPath != "" {
		var err error
		scn, err = config.LoadScenario(scenarioPath)
		if err != nil {
			log.Fatal().Err(err).Msg("Scenario load failed")
		}
	}
	if redPath == "" {
		redPath = scn.RedList
	}
	if bluePath == "" {
		bluePath = scn.BlueList
	}
	if redPath == "" || bluePath == "" {
		log.Fatal().Msg("Both army lists are required (-red/-blue flags or a scenario file)")
	}
	if seed == 0 {
		seed = scn.Seed
	}
	if rounds == 0 {
		rounds = scn.Rounds
	}
	if objectives == 0 {
		objectives = scn.Objectives
	}
	if strategyRed == "" {
		strategyRed = scn.RedStrategy
	}
	if strategyBlue == "" {
		strategyBlue = scn.BlueStrategy
	}

	redList, err := os.ReadFile(redPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", redPath).Msg("Red army list unreadable")
	}
	blueList, err := os.ReadFile(bluePath)
	if err != nil {
		log.Fatal().Err(err).Str("path", bluePath).Msg("Blue army list unreadable")
	}

	cfg := bot.ArenaConfig{
		Name:         scn.Name,
		RedList:      string(redList),
		BlueList:     string(blueList),
		RedStrategy:  strategyRed,
		BlueStrategy: strategyBlue,
		MaxRounds:    rounds,
		Objectives:   objectives,
		Seed:         seed,
		Terrain:      scn.Terrain,
	}
	if !quiet {
		cfg.Narrator = consoleNarrator{}
	}

	if redisURL != "" {
		client, err := redisrepo.NewClient(redisURL)
		if err != nil {
			log.Fatal().Err(err).Msg("Redis connection failed")
		}
		defer client.Close()
		cfg.BattleID = uuid.NewString()
		cfg.Renderer = redisrepo.NewPublisher(client, cfg.BattleID)
		log.Info().Str("battleId", cfg.BattleID).Msg("Publishing live snapshots")
	}

	result, err := bot.RunGame(context.Background(), cfg, nil)
	if err != nil {
		log.Fatal().Err(err).Msg("Battle failed")
	}

	if jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		enc.Encode(result)
		return
	}

	winner := result.Winner
	if winner == "" {
		winner = "draw"
	}
	fmt.Printf("\n%s\n", result.Name)
	fmt.Printf("  result:     %s after %d rounds (seed %d)\n", winner, result.Rounds, result.Seed)
	fmt.Printf("  objectives: Red %d - %d Blue\n",
		result.Objectives[string(grimdark.SideRed)], result.Objectives[string(grimdark.SideBlue)])
	fmt.Printf("  survivors:  Red %d - %d Blue\n",
		result.Survivors[string(grimdark.SideRed)], result.Survivors[string(grimdark.SideBlue)])
}
