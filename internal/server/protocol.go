package server

import (
	"github.com/emberhollow/delvegen/internal/populate"
	"github.com/emberhollow/delvegen/internal/room"
	"github.com/emberhollow/delvegen/internal/tilemap"
)

// clientMessage is what the browser sends over the WebSocket.
type clientMessage struct {
	Type      string `json:"type"` // start | move | interact
	Seed      int64  `json:"seed,omitempty"`
	Story     string `json:"story,omitempty"`
	Mode      string `json:"mode,omitempty"`
	MapNumber int    `json:"map_number,omitempty"`
	Direction string `json:"direction,omitempty"`
	ObjectID  string `json:"object_id,omitempty"`
}

// serverMessage is what the server sends back.
type serverMessage struct {
	Type    string       `json:"type"` // room | interaction | error
	Room    *roomPayload `json:"room,omitempty"`
	Object  *objPayload  `json:"object,omitempty"`
	Message string       `json:"message,omitempty"`
}

type pointPayload struct {
	X int `json:"x"`
	Y int `json:"y"`
}

type tilePayload struct {
	Type     string `json:"type"`
	Walkable bool   `json:"walkable"`
	Color    string `json:"color"`
	Emoji    string `json:"emoji,omitempty"`
}

type objPayload struct {
	ID              string       `json:"id"`
	Kind            string       `json:"kind"`
	Position        pointPayload `json:"position"`
	Sprite          string       `json:"sprite"`
	InteractionText string       `json:"interaction_text"`
	HasInteracted   bool         `json:"has_interacted"`
	EnemyLevel      int          `json:"enemy_level,omitempty"`
}

type roomPayload struct {
	ID          string          `json:"id"`
	RoomNumber  int             `json:"room_number"`
	Type        string          `json:"type"`
	Biome       string          `json:"biome"`
	Description string          `json:"description"`
	SceneImage  string          `json:"scene_image,omitempty"`
	Width       int             `json:"width"`
	Height      int             `json:"height"`
	TileSize    int             `json:"tile_size"`
	Tiles       [][]tilePayload `json:"tiles"`
	Spawn       pointPayload    `json:"spawn"`
	PathPoints  []pointPayload  `json:"path_points"`
	Objects     []objPayload    `json:"objects"`
	Exits       []string        `json:"exits"`
}

func toPoint(p tilemap.Point) pointPayload {
	return pointPayload{X: p.X, Y: p.Y}
}

func toObject(o *populate.Object) objPayload {
	return objPayload{
		ID:              o.ID,
		Kind:            o.Kind.String(),
		Position:        pointPayload{X: o.Position.X, Y: o.Position.Y},
		Sprite:          o.Sprite,
		InteractionText: o.InteractionText,
		HasInteracted:   o.HasInteracted,
		EnemyLevel:      o.EnemyLevel,
	}
}

// toRoomPayload flattens a room for the wire, with the spawn remapped for
// the direction the player entered from.
func toRoomPayload(r *room.Room, spawn tilemap.Point, exits []string) *roomPayload {
	tm := r.TileMap
	tiles := make([][]tilePayload, tm.Height)
	for y := 0; y < tm.Height; y++ {
		row := make([]tilePayload, tm.Width)
		for x := 0; x < tm.Width; x++ {
			t := tm.Tiles[y][x]
			row[x] = tilePayload{
				Type:     t.Type,
				Walkable: t.Walkable,
				Color:    t.Color,
				Emoji:    t.Emoji,
			}
		}
		tiles[y] = row
	}

	points := make([]pointPayload, len(tm.PathPoints))
	for i, p := range tm.PathPoints {
		points[i] = toPoint(p)
	}

	objects := make([]objPayload, len(r.Objects))
	for i, o := range r.Objects {
		objects[i] = toObject(o)
	}

	return &roomPayload{
		ID:          r.ID,
		RoomNumber:  r.RoomNumber,
		Type:        r.Type,
		Biome:       r.Biome,
		Description: r.Description,
		SceneImage:  r.GetSceneImage(),
		Width:       tm.Width,
		Height:      tm.Height,
		TileSize:    tm.TileSize,
		Tiles:       tiles,
		Spawn:       toPoint(spawn),
		PathPoints:  points,
		Objects:     objects,
		Exits:       exits,
	}
}
