package service

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/Chidipothusiritha/ftransaction-2025/internal/models"
	"github.com/Chidipothusiritha/ftransaction-2025/internal/repository"
	"github.com/Chidipothusiritha/ftransaction-2025/internal/utils"
)

var emailRe = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// AuthService handles customer registration and login. Token issuance is
// stateless (JWT); no server-side session is kept.
type AuthService struct {
	auth      *repository.AuthRepository
	accounts  *repository.AccountRepository
	jwtSecret string
	logger    *zap.Logger
}

func NewAuthService(auth *repository.AuthRepository, accounts *repository.AccountRepository, jwtSecret string, logger *zap.Logger) *AuthService {
	return &AuthService{auth: auth, accounts: accounts, jwtSecret: jwtSecret, logger: logger}
}

// Register creates the customer, their credential (password + step-up PIN)
// and a default checking account, then issues a token.
func (s *AuthService) Register(ctx context.Context, name, email, password, pin string) (string, *models.Customer, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if !emailRe.MatchString(email) {
		return "", nil, errors.New("invalid email")
	}
	if len(password) < 6 {
		return "", nil, errors.New("password must be at least 6 characters")
	}

	passwordHash, err := utils.HashSecret(password)
	if err != nil {
		return "", nil, err
	}

	pinHash := ""
	if pin != "" {
		if pinHash, err = utils.HashSecret(pin); err != nil {
			return "", nil, err
		}
	}

	customer := &models.Customer{Name: name, Email: email}
	if customer.Name == "" {
		customer.Name = strings.SplitN(email, "@", 2)[0]
	}
	if err := s.auth.CreateCustomer(ctx, customer); err != nil {
		return "", nil, err
	}

	cred := &models.Credential{
		CustomerID:   customer.ID,
		Email:        email,
		PasswordHash: passwordHash,
		PINHash:      pinHash,
	}
	if err := s.auth.CreateCredential(ctx, cred); err != nil {
		return "", nil, err
	}

	account := &models.Account{
		CustomerID:  customer.ID,
		AccountType: "checking",
		Balance:     decimal.Zero,
		Status:      "active",
	}
	if err := s.accounts.Create(ctx, account); err != nil {
		return "", nil, err
	}

	token, err := utils.GenerateToken(customer.ID, s.jwtSecret)
	if err != nil {
		return "", nil, err
	}

	s.logger.Info("customer registered", zap.Int("customer_id", customer.ID))
	return token, customer, nil
}

// Login verifies the password and issues a token
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	cred, err := s.auth.GetCredentialByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrCredentialNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", err
	}

	if err := utils.CompareSecret(cred.PasswordHash, password); err != nil {
		return "", ErrInvalidCredentials
	}

	if err := s.auth.UpdateLastLogin(ctx, cred.CustomerID); err != nil {
		s.logger.Warn("failed to stamp last login", zap.Error(err), zap.Int("customer_id", cred.CustomerID))
	}

	return utils.GenerateToken(cred.CustomerID, s.jwtSecret)
}

// SetPIN stores a new step-up PIN for the customer
func (s *AuthService) SetPIN(ctx context.Context, customerID int, pin string) error {
	if len(pin) < 4 {
		return errors.New("PIN must be at least 4 digits")
	}
	pinHash, err := utils.HashSecret(pin)
	if err != nil {
		return err
	}
	return s.auth.SetPIN(ctx, customerID, pinHash)
}
