package services

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"

	"pos-api/models"
	"pos-api/store"
	"pos-api/utils"
)

var ErrInvalidCredentials = errors.New("invalid username or password")

type LoginInput struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type AuthResponse struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

type AuthService interface {
	Login(ctx context.Context, input LoginInput) (*AuthResponse, error)
}

type authService struct {
	repo   store.Repository
	secret string
}

func NewAuthService(repo store.Repository, secret string) AuthService {
	return &authService{repo: repo, secret: secret}
}

func (s *authService) Login(ctx context.Context, input LoginInput) (*AuthResponse, error) {
	user, err := s.repo.GetUserByUsername(ctx, input.Username)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := utils.GenerateToken(s.secret, *user)
	if err != nil {
		return nil, err
	}

	return &AuthResponse{Token: token, User: *user}, nil
}
