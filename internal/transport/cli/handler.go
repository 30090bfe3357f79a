package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"chessarchive/internal/cli"
	"chessarchive/internal/core"
	"chessarchive/internal/service"
)

type CLIHandler struct {
	svc    *service.Service
	view   *cli.CLI
	gameID string

	autosaveEvery int
}

// New creates a handler; autosaveEvery > 0 enables autosave for every game started
func New(svc *service.Service, view *cli.CLI, autosaveEvery int) *CLIHandler {
	return &CLIHandler{
		svc:           svc,
		view:          view,
		autosaveEvery: autosaveEvery,
	}
}

// Run is the command loop; it returns on quit or input error
func (h *CLIHandler) Run() {
	for {
		h.view.ShowPrompt(h.getPrompt())

		cmd, err := h.view.GetCommand()
		if err != nil {
			break
		}
		if !h.ProcessCommand(cmd) {
			break
		}
	}
}

func (h *CLIHandler) getPrompt() string {
	if h.gameID == "" {
		return "> "
	}
	snap, err := h.svc.GetGame(h.gameID)
	if err != nil {
		return "> "
	}
	return fmt.Sprintf("[%s]> ", snap.Turn.Short())
}

// GameID is the active session, empty when none
func (h *CLIHandler) GameID() string {
	return h.gameID
}

// ProcessCommand handles one command; returns false to exit
func (h *CLIHandler) ProcessCommand(cmd *cli.Command) bool {
	switch cmd.Type {
	case cli.CmdQuit:
		return false

	case cli.CmdNone:
		return true

	case cli.CmdNew:
		h.switchTo(h.svc.CreateGame())
		h.view.ShowMessage("Game started.")
		h.showBoard()

	case cli.CmdMove:
		if !h.requireGame() {
			return true
		}
		if len(cmd.Args) != 2 {
			h.view.ShowMessage("Usage: <from><to> or <from> <to>, e.g. e2e4")
			return true
		}
		h.handleMove(cmd.Args[0], cmd.Args[1])

	case cli.CmdUndo:
		if !h.requireGame() {
			return true
		}
		before, _ := h.svc.GetGame(h.gameID)
		snap, err := h.svc.Undo(h.gameID)
		if err != nil {
			h.view.ShowError(err)
			return true
		}
		if snap.Steps == before.Steps {
			h.view.ShowMessage("Nothing to undo.")
			return true
		}
		h.view.ShowMessage("Move undone")
		h.showBoard()

	case cli.CmdSave:
		if !h.requireGame() {
			return true
		}
		var location string
		if len(cmd.Args) > 0 {
			location = cmd.Args[0]
		}
		loc, err := h.svc.Save(context.Background(), h.gameID, location)
		if err != nil {
			h.view.ShowError(err)
			return true
		}
		h.view.ShowMessage(fmt.Sprintf("Saved to %s", loc))

	case cli.CmdLoad:
		if len(cmd.Args) < 1 {
			h.view.ShowMessage("Usage: load <location>")
			return true
		}
		snap, err := h.svc.Load(context.Background(), cmd.Args[0])
		if err != nil {
			h.view.ShowError(err)
			return true
		}
		h.switchTo(snap)
		h.view.ShowMessage(fmt.Sprintf("Loaded %s (%d moves, %s to move)", cmd.Args[0], snap.Steps, snap.Turn))
		h.showBoard()

	case cli.CmdList:
		records, err := h.svc.List(context.Background())
		if err != nil {
			h.view.ShowError(err)
			return true
		}
		if len(records) == 0 {
			h.view.ShowMessage("No saved games.")
			return true
		}
		for _, r := range records {
			h.view.ShowMessage(fmt.Sprintf("%-24s %3d moves  %s to move  %s",
				r.ID, r.Steps, r.ColorToMove, r.SavedAt.Local().Format("2006-01-02 15:04")))
		}

	case cli.CmdAutosave:
		if !h.requireGame() {
			return true
		}
		if len(cmd.Args) < 1 {
			h.view.ShowMessage("Usage: autosave <moves> [location]")
			return true
		}
		n, err := strconv.Atoi(cmd.Args[0])
		if err != nil || n < 1 {
			h.view.ShowMessage("Autosave interval must be a positive number of moves.")
			return true
		}
		var location string
		if len(cmd.Args) > 1 {
			location = cmd.Args[1]
		}
		if err := h.enableAutosave(n, location); err != nil {
			h.view.ShowError(err)
			return true
		}
		h.view.ShowMessage(fmt.Sprintf("Autosave every %d moves", n))

	case cli.CmdColor:
		if len(cmd.Args) < 1 {
			h.view.ShowMessage("Usage: color <off|brown|green|gray>")
			return true
		}
		theme := cli.ColorTheme(cmd.Args[0])
		if err := h.view.SetTheme(theme); err != nil {
			h.view.ShowError(err)
			return true
		}
		h.view.ShowMessage(fmt.Sprintf("Color theme set to: %s", theme))
		if h.gameID != "" {
			h.showBoard()
		}

	case cli.CmdFEN:
		if !h.requireGame() {
			return true
		}
		snap, _ := h.svc.GetGame(h.gameID)
		b := snap.Board
		h.view.ShowMessage(fmt.Sprintf("%s %s", b.FEN(), snap.Turn.Short()))

	case cli.CmdHistory:
		if !h.requireGame() {
			return true
		}
		steps, err := h.svc.History(h.gameID)
		if err != nil {
			h.view.ShowError(err)
			return true
		}
		h.view.ShowGameHistory(steps)

	case cli.CmdHelp:
		h.view.ShowHelp()
	}

	return true
}

func (h *CLIHandler) handleMove(fromArg, toArg string) {
	from, err := core.ParseSquare(fromArg)
	if err != nil {
		h.view.ShowError(fmt.Errorf("invalid move: %v", err))
		return
	}
	to, err := core.ParseSquare(toArg)
	if err != nil {
		h.view.ShowError(fmt.Errorf("invalid move: %v", err))
		return
	}

	snap, err := h.svc.Move(h.gameID, from, to)
	if err != nil {
		h.view.ShowError(fmt.Errorf("invalid move: %v", err))
		return
	}
	if m := snap.LastMove; m != nil {
		h.view.ShowMove(m.Player, m.From, m.To, m.Captured)
	}
	h.showBoard()
}

func (h *CLIHandler) switchTo(snap service.Snapshot) {
	if h.gameID != "" {
		_ = h.svc.DeleteGame(h.gameID)
	}
	h.gameID = snap.ID

	if h.autosaveEvery > 0 {
		if err := h.enableAutosave(h.autosaveEvery, snap.Location); err != nil && !errors.Is(err, service.ErrStorageDisabled) {
			h.view.ShowError(err)
		}
	}
}

func (h *CLIHandler) enableAutosave(n int, location string) error {
	return h.svc.EnableAutosave(h.gameID, n, location, func(loc string, err error) {
		if err != nil {
			h.view.ShowError(fmt.Errorf("autosave: %w", err))
			return
		}
		h.view.ShowMessage(fmt.Sprintf("Autosaved to %s", loc))
	})
}

func (h *CLIHandler) requireGame() bool {
	if h.gameID == "" {
		h.view.ShowMessage("No active game. Use 'new' or 'load <location>'.")
		return false
	}
	return true
}

func (h *CLIHandler) showBoard() {
	snap, err := h.svc.GetGame(h.gameID)
	if err != nil {
		return
	}
	b := snap.Board
	h.view.DisplayBoard(&b)
}
