package user

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/SmartFleet/SmartFleet/internal/common/apperr"
	"github.com/SmartFleet/SmartFleet/internal/common/auth"
	"github.com/SmartFleet/SmartFleet/internal/common/config"
)

const accessTokenTTL = 24 * time.Hour

// Service 账号注册、登录与查询。
type Service struct {
	repo    *Repo
	authCfg config.AuthConfig
}

func NewService(repo *Repo, authCfg config.AuthConfig) *Service {
	return &Service{repo: repo, authCfg: authCfg}
}

// RegisterInput 注册入参。Roles 为空时默认 user。
type RegisterInput struct {
	Username string
	Password string
	Nickname string
	Phone    string
	Email    string
	Roles    []string
}

func (s *Service) Register(ctx context.Context, in RegisterInput) (*User, error) {
	if s == nil || s.repo == nil {
		return nil, fmt.Errorf("service not initialized")
	}
	username := strings.TrimSpace(in.Username)
	if username == "" || in.Password == "" {
		return nil, apperr.Validation("username/password required")
	}
	roles := in.Roles
	if len(roles) == 0 {
		roles = []string{RoleUser}
	}
	for _, r := range roles {
		if !ValidRole(strings.TrimSpace(r)) {
			return nil, apperr.Validation("unknown role %q", r)
		}
	}

	if _, err := s.repo.FindByUsername(ctx, username); err == nil {
		return nil, apperr.Conflict("username %s already exists", username)
	} else if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	salt, err := GenerateSaltHex()
	if err != nil {
		return nil, err
	}
	hash, err := HashPassword(in.Password, salt)
	if err != nil {
		return nil, err
	}
	u := &User{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: hash,
		PasswordSalt: salt,
		Nickname:     strings.TrimSpace(in.Nickname),
		Phone:        strings.TrimSpace(in.Phone),
		Email:        strings.TrimSpace(in.Email),
		Roles:        RolesJoin(roles),
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// LoginResult 登录结果：用户信息与访问令牌。
type LoginResult struct {
	User      *User
	Token     string
	ExpiresAt time.Time
}

func (s *Service) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	if s == nil || s.repo == nil {
		return nil, fmt.Errorf("service not initialized")
	}
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, apperr.Validation("username/password required")
	}
	u, err := s.repo.FindByUsername(ctx, username)
	if err == gorm.ErrRecordNotFound {
		return nil, apperr.Unauthorized("invalid username or password")
	}
	if err != nil {
		return nil, err
	}
	if !VerifyPassword(password, u.PasswordSalt, u.PasswordHash) {
		return nil, apperr.Unauthorized("invalid username or password")
	}
	token, expiresAt, err := auth.GenerateAccessToken(s.authCfg, u.ID, u.RolesSlice(), accessTokenTTL)
	if err != nil {
		return nil, err
	}
	return &LoginResult{User: u, Token: token, ExpiresAt: expiresAt}, nil
}

func (s *Service) Get(ctx context.Context, id string) (*User, error) {
	if s == nil || s.repo == nil {
		return nil, fmt.Errorf("service not initialized")
	}
	u, err := s.repo.FindByID(ctx, id)
	if err == gorm.ErrRecordNotFound {
		return nil, apperr.NotFound("user not found: %s", id)
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (s *Service) List(ctx context.Context, offset, limit int) ([]User, int64, error) {
	if s == nil || s.repo == nil {
		return nil, 0, fmt.Errorf("service not initialized")
	}
	return s.repo.List(ctx, offset, limit)
}
