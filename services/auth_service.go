package services

import (
	"fmt"
	"time"

	"portal-chat/auth"
	"portal-chat/domain"
	"portal-chat/errors"
	"portal-chat/repositories"
)

type IAuthService interface {
	Login(email, password string) (Token, *auth.CustomClaims, error)
	Register(email, name, password string, role domain.Role) (Token, error)
}

type Token string

type AuthService struct {
	userRepository repositories.IUserRepository
	tokenDuration  time.Duration
}

func NewAuthService(repo repositories.IUserRepository, tokenDuration time.Duration) IAuthService {
	return &AuthService{userRepository: repo, tokenDuration: tokenDuration}
}

func (s *AuthService) Register(email, name, password string, role domain.Role) (Token, error) {
	valReq := auth.RegisterRequest{
		Email:    email,
		Name:     name,
		Password: password,
	}

	// Validation runs before any expensive cryptographic operation.
	if err := auth.ValidateRegister(valReq); err != nil {
		return "", fmt.Errorf("%w: %v", errors.ErrInvalidPassword, err)
	}

	// Hashing happens in the service layer so the repository never sees
	// plain passwords.
	hashedPassword, err := auth.HashPassword(password)
	if err != nil {
		return "", fmt.Errorf("hashing failed: %w", err)
	}

	userID, err := s.userRepository.CreateUser(email, name, hashedPassword, role)
	if err != nil {
		return "", err
	}

	token, err := auth.GenerateToken(userID, name, role, s.tokenDuration)
	if err != nil {
		return "", errors.ErrTokenGeneration
	}
	return Token(token), nil
}

func (s *AuthService) Login(email, password string) (Token, *auth.CustomClaims, error) {
	user, err := s.userRepository.GetUserByEmail(email)
	if err != nil {
		// Generic error to prevent user enumeration.
		return "", nil, errors.ErrInvalidCredentials
	}

	match, err := auth.ComparePassword(password, user.PasswordHash)
	if err != nil || !match {
		return "", nil, errors.ErrInvalidCredentials
	}

	token, err := auth.GenerateToken(user.ID, user.Name, user.Role, s.tokenDuration)
	if err != nil {
		return "", nil, errors.ErrTokenGeneration
	}

	claims := &auth.CustomClaims{UserID: user.ID, Name: user.Name, Role: user.Role}
	return Token(token), claims, nil
}
