package dto

import (
	"telehealth-directory/internal/domain/entity"
	"time"
)

// Request DTOs

type AuditLogQuery struct {
	Action string `validate:"omitempty,max=100"`
	Actor  string `validate:"omitempty,max=255"`
	Limit  int    `validate:"gte=0,lte=200"`
	Offset int    `validate:"gte=0"`
}

// Response DTOs

type AuditLogResponse struct {
	ID        int64       `json:"id"`
	Actor     string      `json:"actor,omitempty"`
	Action    string      `json:"action"`
	Metadata  entity.JSON `json:"metadata"`
	CreatedAt time.Time   `json:"created_at"`
}

type AuditLogListResponse struct {
	Logs  []AuditLogResponse `json:"logs"`
	Total int64              `json:"total"`
}
