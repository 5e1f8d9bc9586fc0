// internal/service/auth/auth.go
package auth

import (
	"context"
	"fmt"
	"time"

	"projexa-service/internal/domain/auth"
	xerrors "projexa-service/internal/pkg/errors"
	"projexa-service/internal/pkg/jwt"
	"projexa-service/internal/pkg/session"
	"projexa-service/internal/repository/postgres"
	"projexa-service/internal/service/email"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type AuthService struct {
	userRepo       *postgres.UserRepository
	jwtManager     *jwt.Manager
	sessionManager *session.Manager
	emailSender    *email.EmailSender
	logger         *zap.Logger
}

func NewAuthService(
	userRepo *postgres.UserRepository,
	jwtManager *jwt.Manager,
	sessionManager *session.Manager,
	emailSender *email.EmailSender,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		userRepo:       userRepo,
		jwtManager:     jwtManager,
		sessionManager: sessionManager,
		emailSender:    emailSender,
		logger:         logger,
	}
}

// ========== Registration ==========

// Register creates a new user account and logs it in.
func (s *AuthService) Register(ctx context.Context, req *auth.RegisterRequest, ipAddress, userAgent string) (*auth.LoginResponse, error) {
	if _, err := s.userRepo.FindByEmail(ctx, req.Email); err == nil {
		return nil, xerrors.ErrDuplicateEntry
	} else if !xerrors.Is(err, xerrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &auth.User{
		Email:        req.Email,
		PasswordHash: string(hashedPassword),
		FullName:     req.FullName,
		Role:         auth.RoleMember,
	}
	if req.Phone != "" {
		user.Phone.String = req.Phone
		user.Phone.Valid = true
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	go func() {
		body := fmt.Sprintf("<p>Hello %s,</p><p>Your Projexa account has been created. You can now sign in and start managing your projects.</p>", user.FullName)
		if err := s.emailSender.Send(user.Email, "Welcome to Projexa", body); err != nil {
			s.logger.Error("failed to send welcome email", zap.Error(err))
		}
	}()

	return s.issueSession(ctx, user, ipAddress, userAgent)
}

// ========== Login / Logout ==========

// Login authenticates a user with email and password.
func (s *AuthService) Login(ctx context.Context, req *auth.LoginRequest, ipAddress, userAgent string) (*auth.LoginResponse, error) {
	user, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		if xerrors.Is(err, xerrors.ErrNotFound) {
			return nil, xerrors.ErrUnauthorized
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, xerrors.ErrUnauthorized
	}

	return s.issueSession(ctx, user, ipAddress, userAgent)
}

func (s *AuthService) issueSession(ctx context.Context, user *auth.User, ipAddress, userAgent string) (*auth.LoginResponse, error) {
	token, jti, err := s.jwtManager.GenerateAccessToken(user.ID, user.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	now := time.Now()
	if err := s.sessionManager.Create(ctx, &session.Data{
		JTI:        jti,
		IdentityID: user.ID,
		Email:      user.Email,
		Role:       user.Role,
		IPAddress:  ipAddress,
		UserAgent:  userAgent,
		LoginAt:    now,
		ExpiresAt:  now.Add(s.jwtManager.AccessTTL()),
	}); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return &auth.LoginResponse{Token: token, User: user}, nil
}

// ValidateToken verifies the access token, its blacklist status and backing session.
func (s *AuthService) ValidateToken(ctx context.Context, token string) (*jwt.Claims, error) {
	claims, err := s.jwtManager.VerifyAccessToken(token)
	if err != nil {
		return nil, xerrors.ErrUnauthorized
	}

	blacklisted, err := s.sessionManager.IsTokenBlacklisted(ctx, claims.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check blacklist: %w", err)
	}
	if blacklisted {
		return nil, xerrors.ErrUnauthorized
	}

	if _, err := s.sessionManager.Get(ctx, claims.IdentityID, claims.ID); err != nil {
		return nil, xerrors.ErrSessionExpired
	}

	return claims, nil
}

// Logout blacklists the current token and removes its session.
func (s *AuthService) Logout(ctx context.Context, identityID int64, jti string) error {
	if err := s.sessionManager.BlacklistToken(ctx, jti, time.Now().Add(s.jwtManager.AccessTTL())); err != nil {
		s.logger.Error("failed to blacklist token", zap.Error(err))
	}
	return s.sessionManager.Delete(ctx, identityID, jti)
}

// LogoutAll removes every session of the user.
func (s *AuthService) LogoutAll(ctx context.Context, identityID int64) error {
	return s.sessionManager.DeleteAll(ctx, identityID)
}

// ========== Password management ==========

func (s *AuthService) ChangePassword(ctx context.Context, identityID int64, req *auth.ChangePasswordRequest) error {
	user, err := s.userRepo.FindByID(ctx, identityID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.CurrentPassword)); err != nil {
		return xerrors.ErrUnauthorized
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.userRepo.UpdatePassword(ctx, identityID, string(hashed)); err != nil {
		return err
	}

	// Revoke other sessions so the old password cannot keep a live token around.
	if err := s.sessionManager.DeleteAll(ctx, identityID); err != nil {
		s.logger.Error("failed to revoke sessions after password change", zap.Error(err))
	}
	return nil
}

// ForgotPassword issues a short-lived reset token and mails it. Always
// succeeds from the caller's point of view so email enumeration is not possible.
func (s *AuthService) ForgotPassword(ctx context.Context, req *auth.ForgotPasswordRequest) {
	user, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		if !xerrors.Is(err, xerrors.ErrNotFound) {
			s.logger.Error("failed to look up user for password reset", zap.Error(err))
		}
		return
	}

	token, _, err := s.jwtManager.GenerateResetToken(user.ID)
	if err != nil {
		s.logger.Error("failed to generate reset token", zap.Error(err))
		return
	}

	go func() {
		body := fmt.Sprintf(
			"<p>Hello %s,</p><p>Use the token below to reset your Projexa password. It expires in 30 minutes.</p><p><code>%s</code></p><p>If you did not request this, you can ignore this email.</p>",
			user.FullName, token,
		)
		if err := s.emailSender.Send(user.Email, "Reset your Projexa password", body); err != nil {
			s.logger.Error("failed to send reset email", zap.Error(err))
		}
	}()
}

func (s *AuthService) ResetPassword(ctx context.Context, req *auth.ResetPasswordRequest) error {
	claims, err := s.jwtManager.VerifyResetToken(req.Token)
	if err != nil {
		return xerrors.ErrUnauthorized
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.userRepo.UpdatePassword(ctx, claims.IdentityID, string(hashed)); err != nil {
		return err
	}

	if err := s.sessionManager.DeleteAll(ctx, claims.IdentityID); err != nil {
		s.logger.Error("failed to revoke sessions after password reset", zap.Error(err))
	}
	return nil
}

// ========== Profile ==========

func (s *AuthService) GetProfile(ctx context.Context, identityID int64) (*auth.User, error) {
	return s.userRepo.FindByID(ctx, identityID)
}

func (s *AuthService) UpdateProfile(ctx context.Context, identityID int64, req *auth.UpdateProfileRequest) (*auth.User, error) {
	if err := s.userRepo.UpdateProfile(ctx, identityID, req); err != nil {
		return nil, err
	}
	return s.userRepo.FindByID(ctx, identityID)
}

// ListUsers returns a paginated listing for administrators.
func (s *AuthService) ListUsers(ctx context.Context, page, pageSize int) ([]auth.User, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return s.userRepo.List(ctx, page, pageSize)
}
