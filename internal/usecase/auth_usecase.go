package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"telehealth-directory/internal/converter"
	"telehealth-directory/internal/delivery/dto"
	"telehealth-directory/internal/domain/entity"
	"telehealth-directory/internal/domain/gateway"
	"telehealth-directory/internal/service"
	"telehealth-directory/pkg/jwt"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

var (
	ErrInvalidCredentials = errors.New("invalid identity credential")
	ErrNotAdmin           = errors.New("account is not an administrator")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrTokenRevoked       = errors.New("token has been revoked")
)

type AuthUsecase interface {
	Login(ctx context.Context, req *dto.AdminLoginRequest) (*dto.TokenResponse, error)
	Logout(ctx context.Context, email, accessTokenID, refreshTokenID string) error
	RefreshToken(ctx context.Context, req *dto.RefreshTokenRequest) (*dto.TokenResponse, error)
	GetCurrentAdmin(ctx context.Context, email, accessTokenID string) (*dto.AdminResponse, error)
}

type authUsecase struct {
	log          *logrus.Logger
	identity     gateway.IdentityProvider
	allowList    entity.AdminAllowList
	jwtService   *jwt.JWTService
	redisClient  *redis.Client
	auditService service.AuditService
}

func NewAuthUsecase(
	log *logrus.Logger,
	identity gateway.IdentityProvider,
	allowList entity.AdminAllowList,
	jwtService *jwt.JWTService,
	redisClient *redis.Client,
	auditService service.AuditService,
) AuthUsecase {
	return &authUsecase{
		log:          log,
		identity:     identity,
		allowList:    allowList,
		jwtService:   jwtService,
		redisClient:  redisClient,
		auditService: auditService,
	}
}

// AccessTokenKey is the Redis key that marks an access token as live.
func AccessTokenKey(email, tokenID string) string {
	return fmt.Sprintf("access_token:%s:%s", email, tokenID)
}

// RefreshTokenKey is the Redis key that marks a refresh token as live.
func RefreshTokenKey(email, tokenID string) string {
	return fmt.Sprintf("refresh_token:%s:%s", email, tokenID)
}

func (u *authUsecase) Login(ctx context.Context, req *dto.AdminLoginRequest) (*dto.TokenResponse, error) {
	identity, err := u.identity.Verify(ctx, req.IDToken)
	if err != nil {
		u.log.Warnf("Failed to verify identity credential: %+v", err)
		return nil, ErrInvalidCredentials
	}

	if !u.allowList.Contains(identity.Email) {
		u.log.WithField("email", identity.Email).Warn("Rejected admin login for account outside allow-list")
		return nil, ErrNotAdmin
	}

	session := &entity.AdminSession{
		Email:   identity.Email,
		Name:    identity.Name,
		LoginAt: time.Now().UTC(),
	}

	tokens, err := u.issueTokens(ctx, session)
	if err != nil {
		return nil, err
	}

	if err := u.auditService.Record(ctx, identity.Email, entity.AuditActionAdminLogin, entity.JSON{"name": identity.Name}); err != nil {
		u.log.Warnf("Failed to create audit log: %+v", err)
	}

	return tokens, nil
}

func (u *authUsecase) Logout(ctx context.Context, email, accessTokenID, refreshTokenID string) error {
	keys := []string{AccessTokenKey(email, accessTokenID)}
	if refreshTokenID != "" {
		keys = append(keys, RefreshTokenKey(email, refreshTokenID))
	}

	if err := u.redisClient.Del(ctx, keys...).Err(); err != nil {
		u.log.Warnf("Failed to delete admin tokens: %+v", err)
		return err
	}

	if err := u.auditService.Record(ctx, email, entity.AuditActionAdminLogout, nil); err != nil {
		u.log.Warnf("Failed to create audit log: %+v", err)
	}

	return nil
}

func (u *authUsecase) RefreshToken(ctx context.Context, req *dto.RefreshTokenRequest) (*dto.TokenResponse, error) {
	claims, err := u.jwtService.ValidateToken(req.RefreshToken)
	if err != nil {
		return nil, ErrInvalidToken
	}

	if claims.TokenType != jwt.RefreshToken {
		return nil, ErrInvalidToken
	}

	refreshKey := RefreshTokenKey(claims.Email, claims.TokenID)
	session, err := u.loadSession(ctx, refreshKey)
	if err != nil {
		return nil, err
	}

	// The allow-list may have shrunk since the session started
	if !u.allowList.Contains(session.Email) {
		if err := u.redisClient.Del(ctx, refreshKey).Err(); err != nil {
			u.log.Warnf("Failed to revoke refresh token for removed admin: %+v", err)
		}
		return nil, ErrNotAdmin
	}

	if err := u.redisClient.Del(ctx, refreshKey).Err(); err != nil {
		u.log.Warnf("Failed to delete old refresh token: %+v", err)
		return nil, err
	}

	return u.issueTokens(ctx, session)
}

func (u *authUsecase) GetCurrentAdmin(ctx context.Context, email, accessTokenID string) (*dto.AdminResponse, error) {
	session, err := u.loadSession(ctx, AccessTokenKey(email, accessTokenID))
	if err != nil {
		return nil, err
	}
	return converter.AdminSessionToResponse(session), nil
}

// issueTokens signs a token pair and persists the session record under both
// token keys.
func (u *authUsecase) issueTokens(ctx context.Context, session *entity.AdminSession) (*dto.TokenResponse, error) {
	accessToken, accessTokenID, err := u.jwtService.GenerateAccessToken(session.Email, session.Name)
	if err != nil {
		u.log.Warnf("Failed to generate access token: %+v", err)
		return nil, err
	}

	refreshToken, refreshTokenID, err := u.jwtService.GenerateRefreshToken(session.Email, session.Name)
	if err != nil {
		u.log.Warnf("Failed to generate refresh token: %+v", err)
		return nil, err
	}

	accessSession := *session
	accessSession.TokenID = accessTokenID
	accessSession.ExpiresAt = time.Now().UTC().Add(u.jwtService.GetAccessExpiry())

	refreshSession := *session
	refreshSession.TokenID = refreshTokenID
	refreshSession.ExpiresAt = time.Now().UTC().Add(u.jwtService.GetRefreshExpiry())

	pipe := u.redisClient.TxPipeline()
	if err := u.storeSession(ctx, pipe, AccessTokenKey(session.Email, accessTokenID), &accessSession, u.jwtService.GetAccessExpiry()); err != nil {
		return nil, err
	}
	if err := u.storeSession(ctx, pipe, RefreshTokenKey(session.Email, refreshTokenID), &refreshSession, u.jwtService.GetRefreshExpiry()); err != nil {
		return nil, err
	}
	if _, err := pipe.Exec(ctx); err != nil {
		u.log.Warnf("Failed to store admin session in Redis: %+v", err)
		return nil, err
	}

	return &dto.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(u.jwtService.GetAccessExpiry().Seconds()),
	}, nil
}

func (u *authUsecase) storeSession(ctx context.Context, pipe redis.Pipeliner, key string, session *entity.AdminSession, ttl time.Duration) error {
	payload, err := json.Marshal(session)
	if err != nil {
		u.log.Warnf("Failed to encode admin session: %+v", err)
		return err
	}
	pipe.Set(ctx, key, payload, ttl)
	return nil
}

func (u *authUsecase) loadSession(ctx context.Context, key string) (*entity.AdminSession, error) {
	payload, err := u.redisClient.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrTokenRevoked
	}
	if err != nil {
		u.log.Warnf("Failed to read admin session from Redis: %+v", err)
		return nil, err
	}

	var session entity.AdminSession
	if err := json.Unmarshal(payload, &session); err != nil {
		u.log.Warnf("Failed to decode admin session: %+v", err)
		return nil, ErrTokenRevoked
	}
	return &session, nil
}
