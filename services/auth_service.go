package services

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"civic-issues-be/apperrors"
	"civic-issues-be/models"
	"civic-issues-be/notify"
	"civic-issues-be/repository"
	"civic-issues-be/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	verificationTokenBytes = 32
	resetTokenTTL          = 10 * time.Minute
	otpTTL                 = 10 * time.Minute
)

// AuthService covers registration, verification, login and password recovery.
type AuthService struct {
	users       repository.UserRepository
	otps        repository.OTPStore
	tokens      *utils.TokenManager
	mailer      notify.Mailer
	sms         notify.SMSSender
	logger      *slog.Logger
	frontendURL string
	now         func() time.Time
	// background runs side-channel sends; tests swap it for a synchronous call.
	background func(logger *slog.Logger, op, recipient string, send func(ctx context.Context) error)
}

type AuthDeps struct {
	Users       repository.UserRepository
	OTPs        repository.OTPStore
	Tokens      *utils.TokenManager
	Mailer      notify.Mailer
	SMS         notify.SMSSender
	Logger      *slog.Logger
	FrontendURL string
}

func NewAuthService(deps AuthDeps) *AuthService {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthService{
		users:       deps.Users,
		otps:        deps.OTPs,
		tokens:      deps.Tokens,
		mailer:      deps.Mailer,
		sms:         deps.SMS,
		logger:      logger,
		frontendURL: strings.TrimRight(deps.FrontendURL, "/"),
		now:         time.Now,
		background:  notify.Background,
	}
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Phone    string
}

// Session is what a successful login hands back to the client.
type Session struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates an unverified citizen account and mails the
// verification link. A mail failure does not fail registration.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*models.User, error) {
	email := normalizeEmail(input.Email)
	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return nil, apperrors.Conflict("User already exists with this email")
	} else if !apperrors.Is(err, apperrors.CodeNotFound) {
		return nil, err
	}

	token, err := utils.RandomToken(verificationTokenBytes)
	if err != nil {
		return nil, apperrors.Internal("Failed to generate verification token", err)
	}

	now := s.now()
	user := &models.User{
		Name:              strings.TrimSpace(input.Name),
		Email:             email,
		Phone:             input.Phone,
		Password:          input.Password,
		Role:              models.RoleCitizen,
		VerificationToken: token,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := user.HashPassword(); err != nil {
		return nil, apperrors.Internal("Failed to hash password", err)
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.sendVerification(user)
	return user, nil
}

func (s *AuthService) sendVerification(user *models.User) {
	body := notify.VerifyEmailBody(s.frontendURL, user.VerificationToken)
	s.background(s.logger, "verification email", user.Email, func(ctx context.Context) error {
		return s.mailer.SendMail(ctx, user.Email, notify.VerifySubject, body)
	})
}

func (s *AuthService) session(user *models.User) (*Session, error) {
	token, err := s.tokens.Generate(user.ID.Hex())
	if err != nil {
		return nil, apperrors.Internal("Failed to generate token", err)
	}
	return &Session{Token: token, User: user}, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*Session, error) {
	user, err := s.users.FindByEmail(ctx, normalizeEmail(email))
	if apperrors.Is(err, apperrors.CodeNotFound) {
		return nil, apperrors.Unauthorized("Invalid credentials")
	}
	if err != nil {
		return nil, err
	}
	if !user.ComparePassword(password) {
		return nil, apperrors.Unauthorized("Invalid credentials")
	}
	if !user.IsVerified {
		return nil, apperrors.Unauthorized("Please verify your email before logging in")
	}
	return s.session(user)
}

func (s *AuthService) VerifyEmail(ctx context.Context, token string) error {
	user, err := s.users.FindByVerificationToken(ctx, token)
	if apperrors.Is(err, apperrors.CodeNotFound) {
		return apperrors.Validation("Invalid or expired verification token")
	}
	if err != nil {
		return err
	}

	user.IsVerified = true
	user.VerificationToken = ""
	user.UpdatedAt = s.now()
	return s.users.Update(ctx, user)
}

func (s *AuthService) ResendVerification(ctx context.Context, email string) error {
	user, err := s.users.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return err
	}
	if user.IsVerified {
		return apperrors.Conflict("Account is already verified")
	}

	token, err := utils.RandomToken(verificationTokenBytes)
	if err != nil {
		return apperrors.Internal("Failed to generate verification token", err)
	}
	user.VerificationToken = token
	user.UpdatedAt = s.now()
	if err := s.users.Update(ctx, user); err != nil {
		return err
	}

	s.sendVerification(user)
	return nil
}

// SendOTP texts a fresh code to phone. Delivery is the whole point here, so
// an SMS failure is returned.
func (s *AuthService) SendOTP(ctx context.Context, phone string) error {
	otp, err := utils.RandomOTP()
	if err != nil {
		return apperrors.Internal("Failed to generate OTP", err)
	}
	if err := s.otps.Save(ctx, phone, otp, otpTTL); err != nil {
		return err
	}
	if err := s.sms.SendSMS(ctx, phone, notify.OTPMessage(otp)); err != nil {
		return apperrors.Internal("Failed to send OTP", err)
	}
	return nil
}

func (s *AuthService) VerifyOTP(ctx context.Context, phone, otp string) (*Session, error) {
	stored, err := s.otps.Get(ctx, phone)
	if err != nil {
		return nil, err
	}
	if stored == "" || stored != otp {
		return nil, apperrors.Validation("Invalid OTP")
	}

	user, err := s.users.FindByPhone(ctx, phone)
	if apperrors.Is(err, apperrors.CodeNotFound) {
		return nil, apperrors.Validation("Invalid OTP")
	}
	if err != nil {
		return nil, err
	}

	user.IsVerified = true
	user.VerificationToken = ""
	user.UpdatedAt = s.now()
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	if err := s.otps.Delete(ctx, phone); err != nil {
		s.logger.Warn("failed to delete used otp", "phone", phone, "error", err)
	}
	return s.session(user)
}

// ForgotPassword mails a reset link valid for ten minutes. Unlike the
// verification mail, a send failure is returned to the caller.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.users.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return err
	}

	token, err := utils.RandomToken(verificationTokenBytes)
	if err != nil {
		return apperrors.Internal("Failed to generate reset token", err)
	}
	now := s.now()
	expires := now.Add(resetTokenTTL)
	user.ResetPasswordToken = token
	user.ResetPasswordExpires = &expires
	user.UpdatedAt = now
	if err := s.users.Update(ctx, user); err != nil {
		return err
	}

	if err := s.mailer.SendMail(ctx, user.Email, notify.ResetSubject, notify.ResetPasswordBody(s.frontendURL, token)); err != nil {
		return apperrors.Internal("Failed to send reset email", err)
	}
	return nil
}

func (s *AuthService) ResetPassword(ctx context.Context, token, password string) error {
	user, err := s.users.FindByResetToken(ctx, token)
	if err != nil && !apperrors.Is(err, apperrors.CodeNotFound) {
		return err
	}
	now := s.now()
	if user == nil || !user.ResetTokenValid(token, now) {
		return apperrors.Validation("Invalid or expired reset token")
	}

	user.Password = password
	if err := user.HashPassword(); err != nil {
		return apperrors.Internal("Failed to hash password", err)
	}
	user.ResetPasswordToken = ""
	user.ResetPasswordExpires = nil
	user.UpdatedAt = now
	return s.users.Update(ctx, user)
}

// Authenticate resolves a bearer token to its account.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*models.User, error) {
	userID, err := s.tokens.Parse(token)
	if err != nil {
		return nil, apperrors.Unauthorized("Invalid authorization token")
	}
	id, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, apperrors.Unauthorized("Invalid token claims")
	}
	user, err := s.users.FindByID(ctx, id)
	if apperrors.Is(err, apperrors.CodeNotFound) {
		return nil, apperrors.Unauthorized("User no longer exists")
	}
	return user, err
}

type ProfileInput struct {
	Name  *string
	Phone *string
}

func (s *AuthService) UpdateProfile(ctx context.Context, user *models.User, input ProfileInput) (*models.User, error) {
	if input.Name != nil {
		user.Name = strings.TrimSpace(*input.Name)
	}
	if input.Phone != nil {
		user.Phone = *input.Phone
	}
	user.UpdatedAt = s.now()
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
