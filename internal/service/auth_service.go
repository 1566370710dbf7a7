package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/d60-Lab/mini-threads/internal/model"
	"github.com/d60-Lab/mini-threads/internal/repository"
	"github.com/d60-Lab/mini-threads/pkg/jwtauth"
)

var (
	ErrDuplicateUsername = errors.New("username already taken")
	// ErrInvalidCredentials 用户不存在和密码错误统一返回，避免探测用户名
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUserNotFound       = errors.New("user not found")
)

// AuthService 账号注册/登录与身份解析
type AuthService interface {
	Register(ctx context.Context, username, password string) (*model.User, string, error)
	Login(ctx context.Context, username, password string) (*model.User, string, error)
	GetByID(ctx context.Context, id string) (*model.User, error)
	ListUsers(ctx context.Context) ([]*model.User, error)
}

type authService struct {
	userRepo repository.UserRepository
	tokens   *jwtauth.Manager
}

func NewAuthService(userRepo repository.UserRepository, tokens *jwtauth.Manager) AuthService {
	return &authService{userRepo: userRepo, tokens: tokens}
}

// Register 用户名去首尾空白后按大小写敏感精确匹配；
// 竞态下的重名由唯一索引兜底，同样映射为 ErrDuplicateUsername
func (s *authService) Register(ctx context.Context, username, password string) (*model.User, string, error) {
	username = strings.TrimSpace(username)
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", err
	}
	u := &model.User{ID: uuid.New().String(), Username: username, Password: string(hash)}
	if err := s.userRepo.Create(ctx, u); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, "", ErrDuplicateUsername
		}
		return nil, "", err
	}
	token, err := s.tokens.Generate(u.ID)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

func (s *authService) Login(ctx context.Context, username, password string) (*model.User, string, error) {
	username = strings.TrimSpace(username)
	u, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)) != nil {
		return nil, "", ErrInvalidCredentials
	}
	token, err := s.tokens.Generate(u.ID)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

func (s *authService) GetByID(ctx context.Context, id string) (*model.User, error) {
	u, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

func (s *authService) ListUsers(ctx context.Context) ([]*model.User, error) {
	return s.userRepo.List(ctx)
}
