package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	chat_errors "team-chat/pkg/errors"
)

func newAuthFixture() *AuthService {
	return NewAuthService(newStubUserRepo(), "test-secret", time.Hour)
}

func TestRegisterLoginRoundTrip(t *testing.T) {
	req := require.New(t)
	auth := newAuthFixture()

	registered, err := auth.Register(context.Background(), RegisterInput{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "correct horse battery",
	})
	req.NoError(err)
	req.NotEmpty(registered.AccessToken)

	claims, err := auth.ParseAccessToken(registered.AccessToken)
	req.NoError(err)
	req.Equal(registered.User.ID.String(), claims.UserID)

	logged, err := auth.Login(context.Background(), LoginInput{
		Email:    "alice@example.com",
		Password: "correct horse battery",
	})
	req.NoError(err)
	req.Equal(registered.User.ID, logged.User.ID)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	req := require.New(t)
	auth := newAuthFixture()

	in := RegisterInput{Username: "alice", Email: "alice@example.com", Password: "password123"}
	_, err := auth.Register(context.Background(), in)
	req.NoError(err)

	_, err = auth.Register(context.Background(), in)
	req.ErrorIs(err, chat_errors.ErrAlreadyExists)
}

func TestLoginWrongPassword(t *testing.T) {
	req := require.New(t)
	auth := newAuthFixture()

	_, err := auth.Register(context.Background(), RegisterInput{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "password123",
	})
	req.NoError(err)

	_, err = auth.Login(context.Background(), LoginInput{Email: "alice@example.com", Password: "wrong"})
	req.ErrorIs(err, chat_errors.ErrUnauthorized)
}

func TestParseAccessTokenRejectsGarbage(t *testing.T) {
	req := require.New(t)
	auth := newAuthFixture()

	_, err := auth.ParseAccessToken("")
	req.ErrorIs(err, chat_errors.ErrUnauthorized)

	_, err = auth.ParseAccessToken("not.a.token")
	req.ErrorIs(err, chat_errors.ErrUnauthorized)
}
