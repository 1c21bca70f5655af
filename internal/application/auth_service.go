package application

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/fretvault/api/config"
	"github.com/fretvault/api/internal/domain/entity"
	repo "github.com/fretvault/api/internal/domain/repository"
	"github.com/fretvault/api/pkg/helpers"
	"github.com/fretvault/api/pkg/mailer"
	mailtpl "github.com/fretvault/api/pkg/mailer/templates"
)

const resetTokenTTL = 30 * time.Minute

type AuthService struct {
	Users      repo.UserRepository
	Workspaces repo.WorkspaceRepository
	JWT        *helpers.JWTManager
	Redis      *redis.Client
	Publisher  JobPublisher // optional
	Config     *config.Config
	Logger     *logrus.Logger
}

func NewAuthService(users repo.UserRepository, workspaces repo.WorkspaceRepository, jwt *helpers.JWTManager,
	rdb *redis.Client, pub JobPublisher, cfg *config.Config, logger *logrus.Logger) *AuthService {
	return &AuthService{
		Users:      users,
		Workspaces: workspaces,
		JWT:        jwt,
		Redis:      rdb,
		Publisher:  pub,
		Config:     cfg,
		Logger:     logger,
	}
}

type TokenPair struct {
	AccessToken        string
	AccessTokenExpiry  time.Time
	RefreshToken       string
	RefreshTokenExpiry time.Time
}

type RegisterInput struct {
	Email    string
	Password string
	Name     string
}

type UpdateProfileInput struct {
	Name      *string
	AvatarURL *string
}

type resetToken struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}

func nowRFC3339() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}

const maxRegisterAttempts = 3

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates the account together with its personal workspace and signs the user in.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*entity.User, TokenPair, error) {
	email := normalizeEmail(in.Email)
	if _, err := s.Users.GetByEmail(ctx, email); err == nil {
		return nil, TokenPair{}, ErrEmailTaken
	} else if !errors.Is(err, repo.ErrNotFound) {
		return nil, TokenPair{}, repoErr("lookup user", err)
	}

	hash, err := helpers.HashPassword(in.Password)
	if err != nil {
		return nil, TokenPair{}, err
	}
	u := &entity.User{Email: email, Password: hash, Name: strings.TrimSpace(in.Name)}
	ws := &entity.Workspace{Name: u.Name + "'s workspace", Kind: entity.WorkspacePersonal}
	for attempt := 1; ; attempt++ {
		if ws.Slug, err = uniqueWorkspaceSlug(ctx, s.Workspaces, ws.Name); err != nil {
			return nil, TokenPair{}, err
		}
		err = s.Users.CreateWithWorkspace(ctx, u, ws)
		if err == nil {
			break
		}
		if !errors.Is(err, repo.ErrConflict) {
			return nil, TokenPair{}, repoErr("create user", err)
		}
		// The conflict is either the email or a workspace slug claimed since the check.
		if _, lerr := s.Users.GetByEmail(ctx, email); lerr == nil {
			return nil, TokenPair{}, ErrEmailTaken
		}
		if attempt == maxRegisterAttempts {
			return nil, TokenPair{}, repoErr("create user", err)
		}
	}

	pair, err := s.IssueTokens(ctx, u)
	if err != nil {
		return nil, TokenPair{}, err
	}

	s.enqueue(ctx, mailer.EmailJob{
		To:       u.Email,
		Template: mailtpl.Welcome,
		Data:     mailtpl.NewWelcomeData(s.Config, u.Name, u.Email),
	})
	return u, pair, nil
}

// Authenticate validates email/password and returns the user without issuing tokens.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*entity.User, error) {
	u, err := s.Users.GetByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, repo.ErrNotFound) {
		helpers.BurnCompare(password)
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, repoErr("lookup user", err)
	}
	if !helpers.CompareHashAndPassword(u.Password, password) {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*entity.User, TokenPair, error) {
	u, err := s.Authenticate(ctx, email, password)
	if err != nil {
		return nil, TokenPair{}, err
	}
	pair, err := s.IssueTokens(ctx, u)
	if err != nil {
		return nil, TokenPair{}, err
	}
	return u, pair, nil
}

func (s *AuthService) signPair(userID, sid string) (TokenPair, error) {
	access, aexp, err := s.JWT.GenerateAccessToken(userID, sid)
	if err != nil {
		return TokenPair{}, fmt.Errorf("generate access token: %w", err)
	}
	refresh, rexp, err := s.JWT.GenerateRefreshToken(userID, sid)
	if err != nil {
		return TokenPair{}, fmt.Errorf("generate refresh token: %w", err)
	}
	return TokenPair{AccessToken: access, AccessTokenExpiry: aexp, RefreshToken: refresh, RefreshTokenExpiry: rexp}, nil
}

// IssueTokens generates access/refresh tokens and records a session in Redis.
func (s *AuthService) IssueTokens(ctx context.Context, u *entity.User) (TokenPair, error) {
	sid := uuid.NewString()
	pair, err := s.signPair(u.ID, sid)
	if err != nil {
		helpers.LogError(s.Logger, "issue tokens failed", err, logrus.Fields{"user_id": u.ID})
		return TokenPair{}, err
	}

	if s.Redis != nil {
		key := helpers.KeySession(u.ID)
		pipe := s.Redis.Pipeline()
		pipe.HSet(ctx, key, map[string]any{
			"user_id":    u.ID,
			"email":      u.Email,
			"name":       u.Name,
			"sid":        sid,
			"created_at": nowRFC3339(),
		})
		pipe.Expire(ctx, key, s.Config.SessionTTL)
		if _, err := pipe.Exec(ctx); err != nil {
			return TokenPair{}, fmt.Errorf("store session: %w", err)
		}
	}
	return pair, nil
}

// SessionValid reports whether sid is the live session of userID.
func (s *AuthService) SessionValid(ctx context.Context, userID, sid string) (bool, error) {
	if s.Redis == nil {
		return true, nil
	}
	cur, err := s.Redis.HGet(ctx, helpers.KeySession(userID), "sid").Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return cur == sid, nil
}

// Refresh validates the refresh token against the stored session and rotates both tokens.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*entity.User, TokenPair, error) {
	claims, err := s.JWT.ParseRefreshToken(refreshToken)
	if err != nil {
		return nil, TokenPair{}, ErrInvalidCredentials
	}
	ok, err := s.SessionValid(ctx, claims.UserID, claims.SessionID)
	if err != nil {
		return nil, TokenPair{}, fmt.Errorf("read session: %w", err)
	}
	if !ok {
		return nil, TokenPair{}, ErrInvalidCredentials
	}
	u, err := s.Users.GetByID(ctx, claims.UserID)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, TokenPair{}, ErrInvalidCredentials
	}
	if err != nil {
		return nil, TokenPair{}, repoErr("lookup user", err)
	}

	sid := uuid.NewString()
	pair, err := s.signPair(u.ID, sid)
	if err != nil {
		return nil, TokenPair{}, err
	}
	if s.Redis != nil {
		key := helpers.KeySession(u.ID)
		pipe := s.Redis.Pipeline()
		pipe.HSet(ctx, key, map[string]any{
			"sid":        sid,
			"updated_at": nowRFC3339(),
		})
		pipe.Expire(ctx, key, s.Config.SessionTTL)
		if _, err := pipe.Exec(ctx); err != nil {
			return nil, TokenPair{}, fmt.Errorf("rotate session: %w", err)
		}
	}
	return u, pair, nil
}

func (s *AuthService) Logout(ctx context.Context, userID string) error {
	if s.Redis == nil {
		return nil
	}
	return helpers.RedisDel(ctx, s.Redis, helpers.KeySession(userID))
}

func (s *AuthService) Me(ctx context.Context, userID string) (*entity.User, error) {
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		return nil, repoErr("get user", err)
	}
	return u, nil
}

// UpdateProfile with ctx, RFC3339 timestamps, and TTL preservation
func (s *AuthService) UpdateProfile(ctx context.Context, userID string, in UpdateProfileInput) (*entity.User, error) {
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		return nil, repoErr("get user", err)
	}
	if in.Name != nil {
		u.Name = strings.TrimSpace(*in.Name)
	}
	if in.AvatarURL != nil {
		u.AvatarURL = strings.TrimSpace(*in.AvatarURL)
	}
	if err := s.Users.Update(ctx, u); err != nil {
		return nil, repoErr("update user", err)
	}

	if s.Redis != nil {
		key := helpers.KeySession(u.ID)
		if n, _ := s.Redis.Exists(ctx, key).Result(); n > 0 {
			if err := s.Redis.HSet(ctx, key, map[string]any{
				"name":       u.Name,
				"updated_at": nowRFC3339(),
			}).Err(); err != nil && s.Logger != nil {
				s.Logger.WithError(err).WithField("key", key).Warn("redis session update failed")
			}
		}
	}
	return u, nil
}

// ForgotPassword stores a one-time reset token and mails the link. Unknown
// emails succeed silently so the endpoint does not reveal accounts.
func (s *AuthService) ForgotPassword(ctx context.Context, email, ip string) error {
	u, err := s.Users.GetByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, repo.ErrNotFound) {
		return nil
	}
	if err != nil {
		return repoErr("lookup user", err)
	}
	if s.Redis == nil {
		return errors.New("password reset requires redis")
	}

	token, err := helpers.GenToken(32)
	if err != nil {
		return err
	}
	if err := helpers.RedisSetJSON(ctx, s.Redis, helpers.KeyResetToken(token), resetToken{UserID: u.ID, Email: u.Email}, resetTokenTTL); err != nil {
		return fmt.Errorf("store reset token: %w", err)
	}

	s.enqueue(ctx, mailer.EmailJob{
		To:       u.Email,
		Template: mailtpl.ResetPassword,
		Data: mailtpl.NewResetPasswordData(s.Config, u.Name, u.Email, s.resetURL(token),
			mailtpl.WithIP(ip), mailtpl.WithTime(time.Now()), mailtpl.WithExpiresIn(resetTokenTTL)),
	})
	return nil
}

func (s *AuthService) resetURL(token string) string {
	u, err := url.Parse(s.Config.ResetPasswordURL)
	if err != nil {
		return s.Config.ResetPasswordURL + "?token=" + url.QueryEscape(token)
	}
	q := u.Query()
	q.Set("token", token)
	u.RawQuery = q.Encode()
	return u.String()
}

// ResetPassword consumes the token, stores the new hash and ends the current session.
func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	if s.Redis == nil {
		return ErrInvalidToken
	}
	var rt resetToken
	found, err := helpers.RedisTakeJSON(ctx, s.Redis, helpers.KeyResetToken(token), &rt)
	if err != nil {
		return fmt.Errorf("read reset token: %w", err)
	}
	if !found {
		return ErrInvalidToken
	}
	hash, err := helpers.HashPassword(newPassword)
	if err != nil {
		return err
	}
	if err := s.Users.UpdatePassword(ctx, rt.UserID, hash); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrInvalidToken
		}
		return repoErr("update password", err)
	}
	return s.Logout(ctx, rt.UserID)
}

// enqueue publishes a job when a publisher is configured. Failures are logged only.
func (s *AuthService) enqueue(ctx context.Context, job mailer.EmailJob) {
	publishEmail(ctx, s.Publisher, s.Config, s.Logger, job)
}

func publishEmail(ctx context.Context, pub JobPublisher, cfg *config.Config, logger *logrus.Logger, job mailer.EmailJob) {
	if pub == nil || (cfg != nil && !cfg.MailSendEnabled) {
		return
	}
	if err := pub.PublishJSON(ctx, job); err != nil {
		helpers.LogError(logger, "enqueue email failed", err, logrus.Fields{"template": job.Template, "to": job.To})
	}
}
