package core

// Request types

type MoveRequest struct {
	From string `json:"from" validate:"required,len=2"`
	To   string `json:"to" validate:"required,len=2"`
}

type SaveRequest struct {
	Location string `json:"location,omitempty" validate:"omitempty,max=255,excludesall=/\\"`
}

type LoadRequest struct {
	Location string `json:"location" validate:"required,max=255,excludesall=/\\"`
}

// Response types

type GameResponse struct {
	GameID    string    `json:"gameId"`
	FEN       string    `json:"fen"`
	Turn      string    `json:"turn"` // "w" or "b"
	Steps     int       `json:"steps"`
	CanSave   bool      `json:"canSave"`
	Location  string    `json:"location,omitempty"`
	LastMove  *MoveInfo `json:"lastMove,omitempty"`
	CreatedAt int64     `json:"createdAt"`
}

type MoveInfo struct {
	From     string `json:"from"`
	To       string `json:"to"`
	Player   string `json:"player"` // "w" or "b"
	Captured string `json:"captured,omitempty"`
}

type BoardResponse struct {
	FEN   string `json:"fen"`
	Board string `json:"board"` // ASCII representation
}

type SaveResponse struct {
	GameID   string `json:"gameId"`
	Location string `json:"location"`
}

type ArchiveInfo struct {
	Location    string `json:"location"`
	CreatedAt   int64  `json:"createdAt"`
	SavedAt     int64  `json:"savedAt"`
	Steps       int    `json:"steps"`
	ColorToMove string `json:"colorToMove"`
	FEN         string `json:"fen,omitempty"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code"`
	Details string `json:"details,omitempty"`
}
