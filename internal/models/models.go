package models

// Document field names used on the wire.
const (
	FieldMarkup = "markup"
	FieldStyle  = "style"
	FieldScript = "script"
)

// Document is the shared three-pane workspace of a room. Each field is
// replaced wholesale on update; there is no merging.
type Document struct {
	Markup string `json:"markup"`
	Style  string `json:"style"`
	Script string `json:"script"`
}

// Field returns the named document field. ok is false for unknown names.
func (d Document) Field(name string) (value string, ok bool) {
	switch name {
	case FieldMarkup:
		return d.Markup, true
	case FieldStyle:
		return d.Style, true
	case FieldScript:
		return d.Script, true
	}
	return "", false
}

// SetField overwrites the named field. Unknown names are rejected.
func (d *Document) SetField(name, value string) bool {
	switch name {
	case FieldMarkup:
		d.Markup = value
	case FieldStyle:
		d.Style = value
	case FieldScript:
		d.Script = value
	default:
		return false
	}
	return true
}

// Frame is the envelope for every websocket message in both directions.
type Frame struct {
	Type string      `json:"type"`
	Data interface{} `json:"data,omitempty"`
}

// Client -> server frame types.
const (
	MsgCreateRoom = "createRoom"
	MsgJoinRoom   = "joinRoom"
	MsgRejoinRoom = "rejoinRoom"
	MsgCodeUpdate = "codeUpdate"
	MsgDeleteRoom = "deleteRoom"
	MsgLeaveRoom  = "leaveRoom"
)

// Server -> client frame types.
const (
	MsgRoomCreated = "roomCreated"
	MsgJoinedRoom  = "joinedRoom"
	MsgCodeUpdated = "codeUpdated"
	MsgUserJoined  = "userJoined"
	MsgUserLeft    = "userLeft"
	MsgRoomDeleted = "roomDeleted"
	MsgLeftRoom    = "leftRoom"
	MsgError       = "error"
)

// RoomRequest is the payload of joinRoom, rejoinRoom, deleteRoom and leaveRoom.
type RoomRequest struct {
	RoomID string `json:"roomId"`
}

// CodeUpdate overwrites one document field. The wire name for the field is
// "type", matching the client's editor tabs.
type CodeUpdate struct {
	RoomID string `json:"roomId"`
	Field  string `json:"type"`
	Value  string `json:"value"`
}

type RoomCreated struct {
	RoomID    string `json:"roomId"`
	IsCreator bool   `json:"isCreator"`
}

type JoinedRoom struct {
	RoomID    string   `json:"roomId"`
	Code      Document `json:"code"`
	IsCreator bool     `json:"isCreator"`
}

type CodeUpdated struct {
	Field string `json:"type"`
	Value string `json:"value"`
}

type UserEvent struct {
	UserID string `json:"userId"`
}

type ErrorMessage struct {
	Message string `json:"message"`
}
