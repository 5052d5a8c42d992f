package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/dom/draft-queue/internal/api/handlers"
	"github.com/dom/draft-queue/internal/domain"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	// Global flags
	apiURL := "http://localhost:8080"
	if envURL := os.Getenv("API_URL"); envURL != "" {
		apiURL = envURL
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "full":
		fullCmd(apiURL, args)
	case "populate":
		populateCmd(apiURL, args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`Session Simulator - Development tool for exercising draft queues

USAGE:
  simulator <command> [options]

COMMANDS:
  full      Create a session, fill it with bots and optionally play it to the end
  populate  Add bots to an existing session
  help      Show this help message

ENVIRONMENT:
  API_URL   Backend API URL (default: http://localhost:8080)

EXAMPLES:
  # Draft queue with 7 bots, leaving 1 slot for you
  simulator full

  # Full ranked session played to the end
  simulator full --variant=ranked --count=8 --play

  # Add 3 bots to an existing session
  simulator populate --session=<id> --count=3`)
}

func fail(step string, err error) {
	fmt.Printf("FAILED\n  %s: %v\n", step, err)
	os.Exit(1)
}

func fullCmd(apiURL string, args []string) {
	fs := flag.NewFlagSet("full", flag.ExitOnError)
	variant := fs.String("variant", string(domain.VariantDraft), "Variant to queue for")
	count := fs.Int("count", 7, "Number of bots to join")
	play := fs.Bool("play", false, "Pick teams, score and vote to end once the session forms")
	fs.Parse(args)

	cfg, err := domain.LookupGameConfig(domain.Variant(*variant))
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	if *count < 1 || *count > cfg.MaxToStart {
		fmt.Printf("Error: --count must be between 1 and %d\n", cfg.MaxToStart)
		os.Exit(1)
	}

	client := NewAPIClient(apiURL)

	fmt.Println("=== Session Simulator: Full Flow ===")
	fmt.Println()

	fmt.Print("Registering bots... ")
	bots := make(map[domain.PlayerID]*Bot, *count)
	var order []*Bot
	for i := 0; i < *count; i++ {
		bot, err := client.RegisterBot(fmt.Sprintf("Bot%d", i))
		if err != nil {
			fail("register", err)
		}
		bots[bot.ID] = bot
		order = append(order, bot)
	}
	fmt.Printf("OK (%d)\n", len(order))

	fmt.Printf("Creating %s session... ", cfg.Variant)
	summary, err := client.CreateSession(order[0].Token, cfg.Variant)
	if err != nil {
		fail("create", err)
	}
	sessionID := summary.SessionID.String()
	fmt.Printf("OK (%s)\n", sessionID)

	var out *handlers.CommandResponse
	for i, bot := range order {
		out, err = client.Command(bot.Token, sessionID, "join", nil)
		if err != nil {
			fail(bot.DisplayName, err)
		}
		fmt.Printf("  [%d/%d] %s joined\n", i+1, *count, bot.DisplayName)
	}

	if out.Session.Status == domain.StatusQueueing {
		fmt.Println()
		fmt.Println("=========================================")
		fmt.Printf("  SESSION WAITING FOR %d MORE PLAYER(S)\n", out.Session.OpenSlots)
		fmt.Println("=========================================")
		fmt.Println()
		fmt.Printf("  Session ID: %s\n", sessionID)
		fmt.Printf("  Ping:       %s\n", out.Session.Ping)
		fmt.Println()
		return
	}

	if !*play {
		fmt.Println()
		fmt.Printf("Session formed: %s\n", out.Session.Status)
		return
	}

	playSession(client, sessionID, bots, order[0])
}

// playSession drives a formed session to its end.
func playSession(client *APIClient, sessionID string, bots map[domain.PlayerID]*Bot, anyone *Bot) {
	summary, err := client.GetSession(anyone.Token, sessionID)
	if err != nil {
		fail("get", err)
	}

	starter := anyone
	if len(summary.Teams) > 0 && summary.Teams[0].Captain != "" {
		fmt.Print("Captains picking... ")
		for pick := 0; ; pick++ {
			var open []domain.PlayerView
			for _, p := range summary.Roster {
				if p.Team == domain.NoTeam {
					open = append(open, p)
				}
			}
			if len(open) == 0 {
				break
			}
			team := summary.Teams[pick%len(summary.Teams)]
			if team.PlayersNeeded == 0 {
				team = summary.Teams[(pick+1)%len(summary.Teams)]
			}
			captain := bots[team.Captain]
			out, err := client.Command(captain.Token, sessionID, fmt.Sprintf("teams/%d/players", team.Index),
				&handlers.CommandRequest{PlayerID: open[0].ID})
			if err != nil {
				fail("pick", err)
			}
			summary = &out.Session
		}
		fmt.Println("OK")
		starter = bots[summary.Teams[0].Captain]
	}

	fmt.Print("Starting match play... ")
	out, err := client.Command(starter.Token, sessionID, "start", nil)
	if err != nil {
		fail("start", err)
	}
	summary = &out.Session
	fmt.Println("OK")

	if summary.Teams[0].ScoreCeiling > 0 {
		fmt.Print("Scoring... ")
		for i := 0; i < summary.Teams[0].ScoreCeiling; i++ {
			out, err = client.Command(starter.Token, sessionID, "teams/0/score", &handlers.CommandRequest{Delta: 1})
			if err != nil {
				fail("score", err)
			}
		}
		summary = &out.Session
		fmt.Printf("OK (%s)\n", summary.ScoreLine)
	}

	fmt.Print("Voting to end... ")
	for _, team := range summary.Teams {
		for _, member := range team.Members {
			out, err = client.Command(bots[member.ID].Token, sessionID, "end", nil)
			if err != nil {
				fail("end", err)
			}
			if out.Ended {
				fmt.Println("OK")
				fmt.Println()
				fmt.Printf("Session %s finished\n", sessionID)
				return
			}
		}
	}
	fmt.Println("not enough votes")
}

func populateCmd(apiURL string, args []string) {
	fs := flag.NewFlagSet("populate", flag.ExitOnError)
	sessionID := fs.String("session", "", "Session ID (required)")
	count := fs.Int("count", 1, "Number of bots to add")
	fs.Parse(args)

	if *sessionID == "" {
		fmt.Println("Error: --session is required")
		os.Exit(1)
	}

	client := NewAPIClient(apiURL)

	for i := 0; i < *count; i++ {
		bot, err := client.RegisterBot(fmt.Sprintf("Bot%d", i))
		if err != nil {
			fail("register", err)
		}
		out, err := client.Command(bot.Token, *sessionID, "join", nil)
		if err != nil {
			fail(bot.DisplayName, err)
		}
		fmt.Printf("  [%d/%d] %s joined (%s, %d open)\n", i+1, *count, bot.DisplayName, out.Session.Status, out.Session.OpenSlots)
	}
}
