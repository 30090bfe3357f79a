package core

// Archive error codes
const (
	ErrMalformedBoardSize = "MALFORMED_BOARD_SIZE"
	ErrDuplicateOccupant  = "DUPLICATE_OCCUPANT"
	ErrMisplacedPiece     = "MISPLACED_PIECE"
	ErrIllegalMove        = "ILLEGAL_MOVE"
	ErrSnapshotMismatch   = "SNAPSHOT_MISMATCH"
	ErrTurnMismatch       = "TURN_MISMATCH"
	ErrDocumentUnreadable = "DOCUMENT_UNREADABLE"
	ErrPersistFailed      = "PERSIST_FAILED"
)

// Transport error codes
const (
	ErrGameNotFound      = "GAME_NOT_FOUND"
	ErrInvalidMove       = "INVALID_MOVE"
	ErrNotYourTurn       = "NOT_YOUR_TURN"
	ErrNoHistory         = "NO_HISTORY"
	ErrStorageDisabled   = "STORAGE_DISABLED"
	ErrRateLimitExceeded = "RATE_LIMIT_EXCEEDED"
	ErrInvalidContent    = "INVALID_CONTENT_TYPE"
	ErrInvalidRequest    = "INVALID_REQUEST"
	ErrInternalError     = "INTERNAL_ERROR"
)
