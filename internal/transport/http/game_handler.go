package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"chessarchive/internal/archive"
	"chessarchive/internal/core"
	"chessarchive/internal/game"
	"chessarchive/internal/service"
	"chessarchive/internal/storage"
)

// CreateGame starts a session at the standard opening
func (h *HTTPHandler) CreateGame(c *fiber.Ctx) error {
	snap := h.svc.CreateGame()
	return c.Status(fiber.StatusCreated).JSON(buildGameResponse(snap))
}

func (h *HTTPHandler) GetGame(c *fiber.Ctx) error {
	snap, err := h.svc.GetGame(c.Params("gameId"))
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(buildGameResponse(snap))
}

func (h *HTTPHandler) DeleteGame(c *fiber.Ctx) error {
	if err := h.svc.DeleteGame(c.Params("gameId")); err != nil {
		return h.writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// MakeMove plays {from,to} given in algebraic notation
func (h *HTTPHandler) MakeMove(c *fiber.Ctx) error {
	req, ok := validatedBody[core.MoveRequest](c)
	if !ok {
		return fiber.NewError(fiber.StatusBadRequest, "missing move")
	}

	from, err := core.ParseSquare(req.From)
	if err != nil {
		return badMove(c, err)
	}
	to, err := core.ParseSquare(req.To)
	if err != nil {
		return badMove(c, err)
	}

	snap, err := h.svc.Move(c.Params("gameId"), from, to)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(buildGameResponse(snap))
}

func (h *HTTPHandler) UndoMove(c *fiber.Ctx) error {
	snap, err := h.svc.Undo(c.Params("gameId"))
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(buildGameResponse(snap))
}

func (h *HTTPHandler) GetBoard(c *fiber.Ctx) error {
	snap, err := h.svc.GetGame(c.Params("gameId"))
	if err != nil {
		return h.writeError(c, err)
	}
	b := snap.Board
	return c.JSON(core.BoardResponse{
		FEN:   b.FEN(),
		Board: b.ToASCII(),
	})
}

// GetArchive returns the session's history as a persisted document
func (h *HTTPHandler) GetArchive(c *fiber.Ctx) error {
	data, err := h.svc.Export(c.Params("gameId"))
	if err != nil {
		return h.writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Send(data)
}

func (h *HTTPHandler) SaveGame(c *fiber.Ctx) error {
	gameID := c.Params("gameId")
	var location string
	if req, ok := validatedBody[core.SaveRequest](c); ok {
		location = req.Location
	}

	loc, err := h.svc.Save(c.UserContext(), gameID, location)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(core.SaveResponse{GameID: gameID, Location: loc})
}

func (h *HTTPHandler) LoadGame(c *fiber.Ctx) error {
	req, ok := validatedBody[core.LoadRequest](c)
	if !ok {
		return fiber.NewError(fiber.StatusBadRequest, "missing location")
	}

	snap, err := h.svc.Load(c.UserContext(), req.Location)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(buildGameResponse(snap))
}

// ImportGame installs a session from a raw archive document in the body
func (h *HTTPHandler) ImportGame(c *fiber.Ctx) error {
	body := append([]byte(nil), c.Body()...)
	if len(body) == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "empty document")
	}

	snap, err := h.svc.Import(body)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(buildGameResponse(snap))
}

func (h *HTTPHandler) ListArchives(c *fiber.Ctx) error {
	records, err := h.svc.List(c.UserContext())
	if err != nil {
		return h.writeError(c, err)
	}

	out := make([]core.ArchiveInfo, 0, len(records))
	for _, r := range records {
		out = append(out, core.ArchiveInfo{
			Location:    r.ID,
			CreatedAt:   r.CreatedAt.Unix(),
			SavedAt:     r.SavedAt.Unix(),
			Steps:       r.Steps,
			ColorToMove: r.ColorToMove,
			FEN:         r.FEN,
		})
	}
	return c.JSON(out)
}

func badMove(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusBadRequest).JSON(core.ErrorResponse{
		Error:   "invalid move",
		Code:    core.ErrInvalidMove,
		Details: err.Error(),
	})
}

// writeError maps service, game and archive errors onto status codes
func (h *HTTPHandler) writeError(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	resp := core.ErrorResponse{Error: "internal server error", Code: core.ErrInternalError, Details: err.Error()}

	var aerr *archive.Error
	switch {
	case errors.Is(err, service.ErrGameNotFound):
		status, resp.Error, resp.Code = fiber.StatusNotFound, "game not found", core.ErrGameNotFound
	case errors.Is(err, storage.ErrNotFound):
		status, resp.Error, resp.Code = fiber.StatusNotFound, "archive not found", core.ErrGameNotFound
	case errors.Is(err, service.ErrStorageDisabled):
		status, resp.Error, resp.Code = fiber.StatusServiceUnavailable, "storage disabled", core.ErrStorageDisabled
	case errors.Is(err, service.ErrNoHistory):
		status, resp.Error, resp.Code = fiber.StatusConflict, "no recorded moves", core.ErrNoHistory
	case errors.Is(err, game.ErrNotYourTurn):
		status, resp.Error, resp.Code = fiber.StatusBadRequest, "not your turn", core.ErrNotYourTurn
	case errors.Is(err, game.ErrNoPiece), errors.Is(err, game.ErrIllegalMove):
		status, resp.Error, resp.Code = fiber.StatusBadRequest, "invalid move", core.ErrInvalidMove
	case errors.As(err, &aerr):
		resp.Code = aerr.Code
		if aerr.Code == core.ErrPersistFailed {
			resp.Error = "save failed"
		} else {
			status, resp.Error = fiber.StatusUnprocessableEntity, "archive rejected"
		}
	}

	if status >= fiber.StatusInternalServerError {
		h.log.Error("request failed",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.String("code", resp.Code),
			zap.Error(err))
	}
	return c.Status(status).JSON(resp)
}

func buildGameResponse(snap service.Snapshot) core.GameResponse {
	b := snap.Board
	resp := core.GameResponse{
		GameID:    snap.ID,
		FEN:       b.FEN(),
		Turn:      snap.Turn.Short(),
		Steps:     snap.Steps,
		CanSave:   snap.CanSave,
		Location:  snap.Location,
		CreatedAt: snap.CreatedAt.Unix(),
	}
	if m := snap.LastMove; m != nil {
		resp.LastMove = &core.MoveInfo{
			From:   m.From.String(),
			To:     m.To.String(),
			Player: m.Player.Short(),
		}
		if !m.Captured.IsEmpty() {
			resp.LastMove.Captured = m.Captured.Kind.String()
		}
	}
	return resp
}
