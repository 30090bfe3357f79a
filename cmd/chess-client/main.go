// Package main is a text client that plays against a remote chess-server.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/chzyer/readline"
	"github.com/joho/godotenv"

	"chessarchive/internal/cli"
	"chessarchive/internal/client"
	"chessarchive/internal/core"
)

const requestTimeout = 10 * time.Second

type session struct {
	api    *client.Client
	out    io.Writer
	gameID string
	turn   string
}

func main() {
	_ = godotenv.Load()

	defaultURL := os.Getenv("CHESS_API_URL")
	if defaultURL == "" {
		defaultURL = "http://localhost:8080"
	}
	apiURL := flag.String("api", defaultURL, "Server base URL")
	flag.Parse()

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "chess> ",
		HistoryFile:     ".chess_client_history",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer rl.Close()

	s := &session{api: client.New(*apiURL), out: rl.Stdout()}

	if h, err := s.api.Health(context.Background()); err != nil {
		fmt.Fprintf(s.out, "Server unreachable: %v\n", err)
	} else {
		fmt.Fprintf(s.out, "Connected to %s (storage: %s)\n", *apiURL, h.Storage)
	}
	fmt.Fprintln(s.out, "Type 'help' for commands")

	for {
		if s.gameID != "" {
			rl.SetPrompt(fmt.Sprintf("chess [%s %s]> ", s.gameID[:8], s.turn))
		} else {
			rl.SetPrompt("chess> ")
		}

		line, err := rl.Readline()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue
		}

		cmd := cli.ParseCommand(line)
		if cmd.Type == cli.CmdQuit {
			break
		}
		if err := s.execute(cmd); err != nil {
			fmt.Fprintf(s.out, "Error: %v\n", err)
		}
	}
}

func (s *session) execute(cmd *cli.Command) error {
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	switch cmd.Type {
	case cli.CmdNone:
		return nil
	case cli.CmdHelp:
		fmt.Fprintln(s.out, "new | <from><to> | undo | save [location] | load <location> | list | fen | quit")
		return nil
	case cli.CmdNew:
		return s.track(s.api.CreateGame(ctx))
	case cli.CmdLoad:
		if len(cmd.Args) < 1 {
			return fmt.Errorf("usage: load <location>")
		}
		return s.track(s.api.Load(ctx, cmd.Args[0]))
	case cli.CmdList:
		archives, err := s.api.ListArchives(ctx)
		if err != nil {
			return err
		}
		for _, a := range archives {
			fmt.Fprintf(s.out, "%-24s %3d moves  %s to move\n", a.Location, a.Steps, a.ColorToMove)
		}
		return nil
	}

	if s.gameID == "" {
		return fmt.Errorf("no active game, use 'new' or 'load <location>'")
	}

	switch cmd.Type {
	case cli.CmdMove:
		if len(cmd.Args) != 2 {
			return fmt.Errorf("usage: <from><to>, e.g. e2e4")
		}
		return s.track(s.api.MakeMove(ctx, s.gameID, cmd.Args[0], cmd.Args[1]))
	case cli.CmdUndo:
		return s.track(s.api.Undo(ctx, s.gameID))
	case cli.CmdSave:
		var location string
		if len(cmd.Args) > 0 {
			location = cmd.Args[0]
		}
		resp, err := s.api.Save(ctx, s.gameID, location)
		if err != nil {
			return err
		}
		fmt.Fprintf(s.out, "Saved to %s\n", resp.Location)
	case cli.CmdFEN, cli.CmdHistory:
		g, err := s.api.GetGame(ctx, s.gameID)
		if err != nil {
			return err
		}
		fmt.Fprintf(s.out, "%s %s (%d moves)\n", g.FEN, g.Turn, g.Steps)
	default:
		return fmt.Errorf("command not available remotely")
	}
	return nil
}

// track adopts the game in resp and prints its board
func (s *session) track(resp *core.GameResponse, err error) error {
	if err != nil {
		return err
	}
	s.gameID = resp.GameID
	s.turn = resp.Turn

	if m := resp.LastMove; m != nil {
		msg := fmt.Sprintf("%s: %s-%s", m.Player, m.From, m.To)
		if m.Captured != "" {
			msg += " captures " + m.Captured
		}
		fmt.Fprintln(s.out, msg)
	}

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()
	b, err := s.api.GetBoard(ctx, s.gameID)
	if err != nil {
		return err
	}
	fmt.Fprintln(s.out, b.Board)
	return nil
}
