package auth

import (
	"context"
	"errors"
	"time"

	"tradezone/internal/market"
	"tradezone/internal/types"

	"github.com/golang-jwt/jwt/v5"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

type Service struct {
	store        *market.Store
	issuer       string
	secret       []byte
	ttl          time.Duration
	userBalance  decimal.Decimal
	adminBalance decimal.Decimal
	provisioner  Provisioner
}

// Provisioner seeds holdings for newly registered admin accounts.
type Provisioner interface {
	SeedAdminHoldings(ctx context.Context, userID string) error
}

func NewService(store *market.Store, issuer string, secret []byte, ttl time.Duration, userBalance, adminBalance decimal.Decimal) *Service {
	return &Service{
		store:        store,
		issuer:       issuer,
		secret:       secret,
		ttl:          ttl,
		userBalance:  userBalance,
		adminBalance: adminBalance,
	}
}

func (s *Service) SetProvisioner(p Provisioner) {
	s.provisioner = p
}

func (s *Service) Register(ctx context.Context, email, password string, role types.Role) (string, error) {
	if email == "" || password == "" {
		return "", errors.New("email and password required")
	}
	if role == "" {
		role = types.RoleUser
	}
	if role != types.RoleUser && role != types.RoleAdmin {
		return "", errors.New("invalid role")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	balance := s.userBalance
	if role == types.RoleAdmin {
		balance = s.adminBalance
	}
	userID, err := s.store.CreateProfile(ctx, email, string(hash), role, balance)
	if err != nil {
		return "", err
	}
	if role == types.RoleAdmin && s.provisioner != nil {
		if err := s.provisioner.SeedAdminHoldings(ctx, userID); err != nil {
			return "", err
		}
	}
	return userID, nil
}

func (s *Service) Login(ctx context.Context, email, password string) (string, error) {
	userID, hash, _, err := s.store.GetCredentials(ctx, email)
	if err != nil {
		if errors.Is(err, market.ErrNotFound) {
			return "", errors.New("invalid credentials")
		}
		return "", err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return "", errors.New("invalid credentials")
	}
	return s.signToken(userID)
}

func (s *Service) signToken(userID string) (string, error) {
	now := time.Now().UTC()
	claims := jwt.RegisteredClaims{
		Issuer:    s.issuer,
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(s.secret)
}

func (s *Service) ParseToken(token string) (string, error) {
	parsed, err := jwt.ParseWithClaims(token, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return s.secret, nil
	})
	if err != nil {
		return "", err
	}
	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok || !parsed.Valid {
		return "", errors.New("invalid token")
	}
	if claims.Issuer != s.issuer {
		return "", errors.New("invalid issuer")
	}
	if claims.Subject == "" {
		return "", errors.New("invalid subject")
	}
	return claims.Subject, nil
}

// IsAdmin re-fetches the caller's role from the store on every check;
// roles are never cached in the token.
func (s *Service) IsAdmin(ctx context.Context, userID string) (bool, error) {
	profile, err := s.store.GetProfile(ctx, userID)
	if err != nil {
		if errors.Is(err, market.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return profile.Role == types.RoleAdmin, nil
}
