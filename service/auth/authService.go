// Package authsvc authenticates the single admin account that runs the
// dashboard. There is no user table: the credential lives in configuration as
// an email plus a bcrypt hash, and a successful login mints a signed session
// token for the protected admin routes.
package authsvc

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/InkaFilipinka/scooter-website-sub000/util/jwt"
)

type ErrCode string

const (
	ErrInvalidCreds ErrCode = "INVALID_CREDENTIALS"
)

type codedError struct {
	code   ErrCode
	reason string
}

func (e codedError) Error() string {
	if e.reason != "" {
		return string(e.code) + ": " + e.reason
	}
	return string(e.code)
}
func (e codedError) Code() ErrCode           { return e.code }
func makeErr(c ErrCode, reason string) error { return codedError{code: c, reason: reason} }

// Code extracts error code
func Code(err error) ErrCode {
	var ce interface{ Code() ErrCode }
	if errors.As(err, &ce) {
		return ce.Code()
	}
	return ""
}

const sessionTTLHours = 24

type Session struct {
	Token     string `json:"token"`
	Role      string `json:"role"`
	ExpiresIn int    `json:"expiresInHours"`
}

type Service interface {
	Login(ctx context.Context, email, password string) (*Session, error)
}

type service struct {
	adminEmail string
	adminHash  string
	jwtSecret  string
}

func New(adminEmail, adminPasswordHash, jwtSecret string) Service {
	return &service{adminEmail: adminEmail, adminHash: adminPasswordHash, jwtSecret: jwtSecret}
}

func (s *service) Login(ctx context.Context, email, password string) (*Session, error) {
	// Compare the hash even on an email mismatch so both failure paths cost
	// roughly the same.
	match := strings.EqualFold(strings.TrimSpace(email), s.adminEmail)
	err := bcrypt.CompareHashAndPassword([]byte(s.adminHash), []byte(password))
	if !match || err != nil {
		return nil, makeErr(ErrInvalidCreds, "wrong email or password")
	}

	token, err := jwt.Issue(s.jwtSecret, s.adminEmail, "admin", sessionTTLHours)
	if err != nil {
		return nil, err
	}
	return &Session{Token: token, Role: "admin", ExpiresIn: sessionTTLHours}, nil
}
