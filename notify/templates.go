package notify

import (
	"fmt"
	"html"
	"net/url"
)

const (
	VerifySubject = "Verify Your Account - Civic Issues Platform"
	ResetSubject  = "Password Reset - Civic Issues Platform"
)

func link(frontendURL, path, token string) string {
	return html.EscapeString(fmt.Sprintf("%s%s?token=%s", frontendURL, path, url.QueryEscape(token)))
}

func VerifyEmailBody(frontendURL, token string) string {
	return fmt.Sprintf(`<h2>Welcome to Civic Issues Platform!</h2>
<p>Please click the link below to verify your account:</p>
<a href="%s">Verify Account</a>
<p>This link will expire in 24 hours.</p>`, link(frontendURL, "/verify-email", token))
}

func ResetPasswordBody(frontendURL, token string) string {
	return fmt.Sprintf(`<h2>Password Reset Request</h2>
<p>You requested a password reset. Click the link below to reset your password:</p>
<a href="%s">Reset Password</a>
<p>This link will expire in 10 minutes.</p>
<p>If you didn't request this, please ignore this email.</p>`, link(frontendURL, "/reset-password", token))
}

func OTPMessage(otp string) string {
	return fmt.Sprintf("Your OTP for Civic Issues Platform is: %s. Valid for 10 minutes.", otp)
}
