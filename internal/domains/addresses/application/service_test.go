package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/finprodb/shop-api/internal/domains/addresses/adapters/memory"
	"github.com/finprodb/shop-api/internal/domains/addresses/domain"
	"github.com/finprodb/shop-api/internal/domains/addresses/ports"
)

type AddressServiceSuite struct {
	suite.Suite
	ctx context.Context
	svc *Service
}

func (s *AddressServiceSuite) SetupTest() {
	s.ctx = context.Background()
	s.svc = NewService(memory.NewRepository())
}

func str(v string) *string { return &v }
func yes() *bool           { v := true; return &v }

func fields(label string) *domain.Fields {
	return &domain.Fields{Label: str(label), AddressLine: str("Jl. " + label), Phone: str("0812")}
}

func (s *AddressServiceSuite) defaults(userID int64) []int64 {
	list, err := s.svc.List(s.ctx, userID)
	s.Require().NoError(err)
	var ids []int64
	for _, a := range list {
		if a.IsDefault {
			ids = append(ids, a.ID)
		}
	}
	return ids
}

func (s *AddressServiceSuite) TestFirstAddressBecomesDefault() {
	first, err := s.svc.Create(s.ctx, 1, fields("Home"))
	s.Require().NoError(err)
	s.True(first.IsDefault)

	second, err := s.svc.Create(s.ctx, 1, fields("Office"))
	s.Require().NoError(err)
	s.False(second.IsDefault)
	s.Equal([]int64{first.ID}, s.defaults(1))
}

func (s *AddressServiceSuite) TestExplicitDefaultIsExclusive() {
	first, _ := s.svc.Create(s.ctx, 1, fields("Home"))
	f := fields("Office")
	f.IsDefault = yes()
	second, err := s.svc.Create(s.ctx, 1, f)
	s.Require().NoError(err)
	s.Equal([]int64{second.ID}, s.defaults(1))

	_, err = s.svc.Update(s.ctx, 1, first.ID, &domain.Fields{IsDefault: yes()})
	s.Require().NoError(err)
	s.Equal([]int64{first.ID}, s.defaults(1))

	picked, err := s.svc.SetDefault(s.ctx, 1, second.ID)
	s.Require().NoError(err)
	s.True(picked.IsDefault)
	s.Equal([]int64{second.ID}, s.defaults(1))
}

func (s *AddressServiceSuite) TestDeletingDefaultPromotesNewest() {
	home, _ := s.svc.Create(s.ctx, 1, fields("Home"))
	_, _ = s.svc.Create(s.ctx, 1, fields("Office"))
	gym, _ := s.svc.Create(s.ctx, 1, fields("Gym"))

	s.Require().NoError(s.svc.Delete(s.ctx, 1, home.ID))
	s.Equal([]int64{gym.ID}, s.defaults(1))

	def, err := s.svc.Default(s.ctx, 1)
	s.Require().NoError(err)
	s.Equal(gym.ID, def.ID)
}

func (s *AddressServiceSuite) TestOtherUsersAddressesAreInvisible() {
	home, _ := s.svc.Create(s.ctx, 1, fields("Home"))

	_, err := s.svc.Get(s.ctx, 2, home.ID)
	s.ErrorIs(err, ports.ErrNotFound)
	_, err = s.svc.Update(s.ctx, 2, home.ID, fields("X"))
	s.ErrorIs(err, ports.ErrNotFound)
	s.ErrorIs(s.svc.Delete(s.ctx, 2, home.ID), ports.ErrNotFound)
	_, err = s.svc.SetDefault(s.ctx, 2, home.ID)
	s.ErrorIs(err, ports.ErrNotFound)
	_, err = s.svc.Default(s.ctx, 2)
	s.ErrorIs(err, ports.ErrNotFound)
}

func TestAddressServiceSuite(t *testing.T) {
	suite.Run(t, new(AddressServiceSuite))
}

func TestCreateValidation(t *testing.T) {
	svc := NewService(memory.NewRepository())
	_, err := svc.Create(context.Background(), 1, &domain.Fields{Label: str("Home")})
	require.ErrorIs(t, err, ErrInvalidInput)
	assert.ErrorIs(t, err, domain.ErrAddressLineRequired)

	_, err = svc.Create(context.Background(), 1, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidRequest)
}
