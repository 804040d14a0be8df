package service

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/cbonilla3189/happyfans/internal/model"
	"github.com/cbonilla3189/happyfans/internal/repository"
	"github.com/cbonilla3189/happyfans/internal/session"
	"github.com/cbonilla3189/happyfans/pkg/logger"
)

// bcrypt 只接受前 72 字节
const maxPasswordBytes = 72

// RegisterInput 注册表单
type RegisterInput struct {
	Email    string `form:"email" validate:"required,email,max=150"`
	Name     string `form:"name" validate:"max=100"`
	Password string `form:"password" validate:"required,min=8"`
	Confirm  string `form:"confirm" validate:"required,eqfield=Password"`
}

// LoginInput 登录表单
type LoginInput struct {
	Email    string `form:"email" validate:"required"`
	Password string `form:"password" validate:"required"`
}

// Session 登录成功后的会话
type Session struct {
	Token     string
	ExpiresAt time.Time
	User      *model.User
}

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*model.User, error)
	Login(ctx context.Context, in LoginInput) (*Session, error)
	// Logout 无会话时为空操作
	Logout(ctx context.Context, token string) error
	// CurrentUser 令牌缺失、无效或用户不存在时返回 nil
	CurrentUser(ctx context.Context, token string) *model.User
	SessionTTL() time.Duration
}

type authService struct {
	users     repository.UserRepository
	sessions  *session.Manager
	validate  *validator.Validate
	cost      int
	dummyHash []byte
}

type AuthOption func(*authService)

// WithBcryptCost 测试中使用 bcrypt.MinCost
func WithBcryptCost(cost int) AuthOption {
	return func(s *authService) { s.cost = cost }
}

func NewAuthService(users repository.UserRepository, sessions *session.Manager, opts ...AuthOption) (AuthService, error) {
	s := &authService{users: users, sessions: sessions, validate: newValidator(), cost: bcrypt.DefaultCost}
	for _, opt := range opts {
		opt(s)
	}
	// 邮箱不存在时也比较一次，使两条失败路径耗时一致
	hash, err := bcrypt.GenerateFromPassword([]byte("happyfans-dummy-password"), s.cost)
	if err != nil {
		return nil, fmt.Errorf("init dummy hash: %w", err)
	}
	s.dummyHash = hash
	return s, nil
}

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		if name := f.Tag.Get("form"); name != "" {
			return name
		}
		return strings.ToLower(f.Name)
	})
	return v
}

func (s *authService) SessionTTL() time.Duration { return s.sessions.TTL() }

func (s *authService) Register(ctx context.Context, in RegisterInput) (*model.User, error) {
	in.Email = model.NormalizeEmail(in.Email)
	in.Name = strings.TrimSpace(in.Name)
	if err := s.validate.Struct(in); err != nil {
		return nil, translate(err)
	}
	if len(in.Password) > maxPasswordBytes {
		return nil, newValidationError("password", fmt.Sprintf("must be at most %d bytes", maxPasswordBytes))
	}

	existing, err := s.users.FindByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, repository.ErrDuplicateEmail
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u, err := s.users.Create(ctx, in.Email, in.Name, string(hash))
	if err != nil {
		return nil, err
	}
	logger.Info("user registered", zap.Uint("user_id", u.ID))
	return u, nil
}

func (s *authService) Login(ctx context.Context, in LoginInput) (*Session, error) {
	in.Email = model.NormalizeEmail(in.Email)
	if err := s.validate.Struct(in); err != nil {
		return nil, translate(err)
	}

	u, err := s.users.FindByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if u == nil {
		_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(in.Password))
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(in.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, exp, err := s.sessions.Issue(u.ID)
	if err != nil {
		return nil, err
	}
	return &Session{Token: token, ExpiresAt: exp, User: u}, nil
}

func (s *authService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return s.sessions.Revoke(ctx, token)
}

func (s *authService) CurrentUser(ctx context.Context, token string) *model.User {
	if token == "" {
		return nil
	}
	claims, err := s.sessions.Parse(ctx, token)
	if err != nil {
		if !errors.Is(err, session.ErrInvalidToken) && !errors.Is(err, session.ErrRevoked) {
			logger.Warn("resolve session failed", zap.Error(err))
		}
		return nil
	}
	u, err := s.users.FindByIDString(ctx, claims.UserID())
	if err != nil {
		logger.Warn("load session user failed", zap.Error(err))
		return nil
	}
	return u
}

func translate(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	ve := &ValidationError{Fields: make(map[string]string, len(verrs))}
	for _, fe := range verrs {
		ve.Fields[fe.Field()] = message(fe)
	}
	return ve
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "email":
		return "invalid email address"
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "eqfield":
		return "passwords do not match"
	default:
		return "invalid value"
	}
}
