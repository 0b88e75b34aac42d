package dto

import "time"

// Request DTOs

type JoinCallRequest struct {
	RoomID   string `json:"room_id" validate:"required,notblank,max=128"`
	UserID   string `json:"user_id" validate:"required,notblank,max=128"`
	UserName string `json:"user_name" validate:"required,notblank,max=255"`
}

type EndCallRequest struct {
	Reason          string `json:"reason" validate:"required,notblank,max=64"`
	DurationSeconds int64  `json:"duration_seconds" validate:"gte=0,lte=604800"`
}

// Response DTOs

type CallSessionResponse struct {
	CallID    string    `json:"call_id"`
	Provider  string    `json:"provider"`
	AppID     string    `json:"app_id,omitempty"`
	RoomID    string    `json:"room_id"`
	UserID    string    `json:"user_id"`
	UserName  string    `json:"user_name"`
	Token     string    `json:"token,omitempty"`
	ExpiresAt time.Time `json:"expires_at"`
}
