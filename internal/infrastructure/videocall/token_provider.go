package videocall

import (
	"context"
	"errors"
	"time"

	"telehealth-directory/internal/domain/entity"
	"telehealth-directory/internal/domain/gateway"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var ErrMissingParticipant = errors.New("room id and user id are required")

// RoomClaims is the payload of a room token.
type RoomClaims struct {
	AppID    string `json:"app_id"`
	RoomID   string `json:"room_id"`
	UserID   string `json:"user_id"`
	UserName string `json:"user_name"`
	jwt.RegisteredClaims
}

type TokenProvider struct {
	appID     string
	appSecret []byte
	ttl       time.Duration
	now       func() time.Time
}

func NewTokenProvider(appID, appSecret string, ttl time.Duration) *TokenProvider {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &TokenProvider{
		appID:     appID,
		appSecret: []byte(appSecret),
		ttl:       ttl,
		now:       time.Now,
	}
}

var _ gateway.VideoCallProvider = (*TokenProvider)(nil)

func (p *TokenProvider) Name() string {
	return ProviderToken
}

func (p *TokenProvider) Join(ctx context.Context, req entity.CallJoin) (*entity.CallSession, error) {
	if req.RoomID == "" || req.UserID == "" {
		return nil, ErrMissingParticipant
	}

	callID := uuid.New().String()
	now := p.now()
	expiresAt := now.Add(p.ttl)

	claims := RoomClaims{
		AppID:    p.appID,
		RoomID:   req.RoomID,
		UserID:   req.UserID,
		UserName: req.UserName,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        callID,
			Subject:   req.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(p.appSecret)
	if err != nil {
		return nil, err
	}

	return &entity.CallSession{
		CallID:    callID,
		Provider:  ProviderToken,
		AppID:     p.appID,
		RoomID:    req.RoomID,
		UserID:    req.UserID,
		UserName:  req.UserName,
		Token:     token,
		ExpiresAt: expiresAt,
	}, nil
}
