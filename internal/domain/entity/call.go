package entity

import "time"

// CallSession is the set of credentials a client needs to join a video room.
type CallSession struct {
	CallID    string    `json:"call_id"`
	Provider  string    `json:"provider"`
	AppID     string    `json:"app_id,omitempty"`
	RoomID    string    `json:"room_id"`
	UserID    string    `json:"user_id"`
	UserName  string    `json:"user_name"`
	Token     string    `json:"token,omitempty"`
	ExpiresAt time.Time `json:"expires_at"`
}

// CallJoin is a request to enter a room.
type CallJoin struct {
	RoomID   string
	UserID   string
	UserName string
}

// MaxCallDuration bounds a reported call length.
const MaxCallDuration = 7 * 24 * time.Hour

// CallEnd is reported by the client SDK when a call finishes.
type CallEnd struct {
	CallID   string
	Reason   string
	Duration time.Duration
}
