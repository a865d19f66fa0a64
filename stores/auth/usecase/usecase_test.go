package usecase

import (
	"testing"

	"github.com/niftybay/goapi/base/ctx"
	"github.com/niftybay/goapi/domain"
	"github.com/stretchr/testify/suite"
)

var mockCtx = ctx.Background()

type authSuite struct {
	suite.Suite
	im domain.AuthUsecase
}

func TestAuth(t *testing.T) {
	suite.Run(t, new(authSuite))
}

func (s *authSuite) SetupTest() {
	s.im = New("test-secret")
}

func (s *authSuite) TestSignAndParseRoundTrip() {
	address := domain.Address("0x00000000000000000000000000000000000000A1")

	token, err := s.im.SignToken(mockCtx, address)
	s.NoError(err)
	s.NotEmpty(token)

	parsed, err := s.im.ParseToken(mockCtx, token)
	s.NoError(err)
	s.Equal(string(address.ToLower()), parsed)
}

func (s *authSuite) TestParseRejectsGarbage() {
	_, err := s.im.ParseToken(mockCtx, "not-a-token")
	s.Error(err)
}

func (s *authSuite) TestParseRejectsForeignSecret() {
	token, err := New("other-secret").SignToken(mockCtx, "0x00000000000000000000000000000000000000a1")
	s.NoError(err)

	_, err = s.im.ParseToken(mockCtx, token)
	s.Error(err)
}
