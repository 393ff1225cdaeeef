package dungeon

// RoomType represents the category of a dungeon cell
type RoomType int

const (
	RoomTypeCombat RoomType = iota // Default: hostile rooms with enemies
	RoomTypeStart                  // Entry cell, left edge of the grid
	RoomTypeBoss                   // Boss cell, right edge of the grid
	RoomTypeSafe                   // Rest stops spread along the main path
	RoomTypeReward                 // Dead-end treasure rooms off the main path
	RoomTypePuzzle                 // Off-path rooms with a puzzle element
)

// String returns the string representation of a RoomType
func (t RoomType) String() string {
	switch t {
	case RoomTypeStart:
		return "start"
	case RoomTypeBoss:
		return "boss"
	case RoomTypeSafe:
		return "safe"
	case RoomTypeReward:
		return "reward"
	case RoomTypePuzzle:
		return "puzzle"
	case RoomTypeCombat:
		return "combat"
	default:
		return "unknown"
	}
}

// IsSafe returns true if no enemies spawn in this room type
func (t RoomType) IsSafe() bool {
	return t == RoomTypeStart || t == RoomTypeSafe
}

// ParseRoomType converts a string to a RoomType
func ParseRoomType(s string) (RoomType, bool) {
	switch s {
	case "start":
		return RoomTypeStart, true
	case "boss":
		return RoomTypeBoss, true
	case "safe":
		return RoomTypeSafe, true
	case "reward":
		return RoomTypeReward, true
	case "puzzle":
		return RoomTypePuzzle, true
	case "combat":
		return RoomTypeCombat, true
	default:
		return RoomTypeCombat, false
	}
}
