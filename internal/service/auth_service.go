package service

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/Luni-4/volunteers-shifts/config"
	"github.com/Luni-4/volunteers-shifts/internal/dto"
	"github.com/Luni-4/volunteers-shifts/internal/model"
	"github.com/Luni-4/volunteers-shifts/internal/repository"
	"github.com/Luni-4/volunteers-shifts/pkg/jwt"
)

var (
	ErrUnknownCard       = errors.New("numero di tessera non presente")
	ErrVolunteerDisabled = errors.New("volontario non abilitato")
	ErrUnknownSurname    = errors.New("cognome non presente")
	ErrSurnameMismatch   = errors.New("il cognome non corrisponde al numero di tessera")
	ErrInvalidPassword   = errors.New("la password inserita non è corretta")
	ErrSessionRevoked    = errors.New("sessione terminata")
	ErrVolunteerNotFound = errors.New("volontario non trovato")
)

// SessionStore revoked session ids
type SessionStore interface {
	RevokeSession(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// AuthService volunteer and administrator sessions
type AuthService interface {
	VolunteerLogin(ctx context.Context, req *dto.VolunteerLoginRequest) (*dto.SessionResponse, error)
	AdminLogin(ctx context.Context, req *dto.AdminLoginRequest) (*dto.SessionResponse, error)
	// Authenticate verifies a session token and its revocation
	Authenticate(ctx context.Context, token string) (*jwt.Claims, error)
	Logout(ctx context.Context, claims *jwt.Claims) error
	Me(ctx context.Context, claims *jwt.Claims) (*dto.MeResponse, error)
}

type authService struct {
	repo      *repository.Repository
	jwtMgr    *jwt.Manager
	sessions  SessionStore
	adminHash []byte
	logger    *zap.Logger
}

// NewAuthService creates an AuthService. The administrator password is
// hashed once here; sessions may be nil (no logout revocation).
func NewAuthService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	sessions SessionStore,
	logger *zap.Logger,
) (AuthService, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.Auth.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	return &authService{
		repo:      repo,
		jwtMgr:    jwtMgr,
		sessions:  sessions,
		adminHash: hash,
		logger:    logger,
	}, nil
}

// NormalizeSurname trims the surname and upper-cases its first letter
func NormalizeSurname(s string) string {
	s = strings.TrimSpace(s)
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

func (s *authService) VolunteerLogin(ctx context.Context, req *dto.VolunteerLoginRequest) (*dto.SessionResponse, error) {
	// 1. card id
	volunteer, err := s.activeVolunteer(ctx, req.CardID)
	if err != nil {
		return nil, err
	}

	// 2. surname known at all
	surname := NormalizeSurname(req.Surname)
	known, err := s.repo.Volunteer.ExistsSurname(ctx, surname)
	if err != nil {
		s.logger.Error("verifica cognome fallita", zap.Error(err))
		return nil, err
	}
	if !known {
		return nil, ErrUnknownSurname
	}

	// 3. surname of this card
	if volunteer.Surname != surname {
		return nil, ErrSurnameMismatch
	}

	return s.issue(volunteer, jwt.RoleVolunteer)
}

func (s *authService) AdminLogin(ctx context.Context, req *dto.AdminLoginRequest) (*dto.SessionResponse, error) {
	volunteer, err := s.activeVolunteer(ctx, req.CardID)
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword(s.adminHash, []byte(req.Password)); err != nil {
		s.logger.Warn("password amministratore errata", zap.Int("card_id", req.CardID))
		return nil, ErrInvalidPassword
	}

	return s.issue(volunteer, jwt.RoleAdmin)
}

func (s *authService) activeVolunteer(ctx context.Context, cardID int) (*model.Volunteer, error) {
	volunteer, err := s.repo.Volunteer.GetByCardID(ctx, cardID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUnknownCard
		}
		s.logger.Error("ricerca volontario fallita", zap.Int("card_id", cardID), zap.Error(err))
		return nil, err
	}
	if volunteer.Disabled {
		return nil, ErrVolunteerDisabled
	}
	return volunteer, nil
}

func (s *authService) issue(v *model.Volunteer, role string) (*dto.SessionResponse, error) {
	token, _, err := s.jwtMgr.GenerateSessionToken(v.CardID, role)
	if err != nil {
		s.logger.Error("generazione sessione fallita", zap.Error(err))
		return nil, err
	}

	s.logger.Info("accesso eseguito", zap.Int("card_id", v.CardID), zap.String("role", role))

	return &dto.SessionResponse{
		Token:     token,
		ExpiresIn: int(s.jwtMgr.TTL().Seconds()),
		CardID:    v.CardID,
		Name:      v.Name,
		Surname:   v.Surname,
		Role:      role,
	}, nil
}

func (s *authService) Authenticate(ctx context.Context, token string) (*jwt.Claims, error) {
	claims, err := s.jwtMgr.ParseToken(token)
	if err != nil {
		return nil, err
	}
	if s.sessions == nil {
		return claims, nil
	}

	revoked, err := s.sessions.IsRevoked(ctx, claims.ID)
	if err != nil {
		// Redis down: sessions stay valid until they expire
		s.logger.Warn("verifica revoca sessione fallita", zap.Error(err))
		return claims, nil
	}
	if revoked {
		return nil, ErrSessionRevoked
	}
	return claims, nil
}

func (s *authService) Logout(ctx context.Context, claims *jwt.Claims) error {
	if s.sessions == nil || claims == nil || claims.ExpiresAt == nil {
		return nil
	}
	ttl := time.Until(claims.ExpiresAt.Time)
	if err := s.sessions.RevokeSession(ctx, claims.ID, ttl); err != nil {
		s.logger.Error("revoca sessione fallita", zap.Error(err))
		return err
	}
	return nil
}

func (s *authService) Me(ctx context.Context, claims *jwt.Claims) (*dto.MeResponse, error) {
	v, err := s.repo.Volunteer.GetByCardID(ctx, claims.CardID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVolunteerNotFound
		}
		s.logger.Error("ricerca volontario fallita", zap.Error(err))
		return nil, err
	}
	resp := &dto.MeResponse{
		CardID:  v.CardID,
		Name:    v.Name,
		Surname: v.Surname,
		Role:    claims.Role,
	}
	if claims.ExpiresAt != nil {
		resp.ExpiresAt = claims.ExpiresAt.Time.Format(time.RFC3339)
	}
	return resp, nil
}
