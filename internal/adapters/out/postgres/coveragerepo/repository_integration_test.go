package coveragerepo_test

import (
	"context"
	"testing"
	"time"

	"aqualink/internal/adapters/out/postgres/coveragerepo"
	"aqualink/internal/adapters/out/postgres/pgtest"
	"aqualink/internal/core/domain/model/coverage"
	"aqualink/internal/core/domain/model/kernel"
	"aqualink/internal/pkg/errs"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type MockAggregateTracker struct {
	mock.Mock
}

func (m *MockAggregateTracker) TrackAggregate(id kernel.UUID, aggregate any) {
	m.Called(id, aggregate)
}

type CoverageRepositoryTestSuite struct {
	suite.Suite
	ctx      context.Context
	database *pgtest.Database
	repo     *coveragerepo.GormCoverageRepository
	tracker  *MockAggregateTracker
}

func (suite *CoverageRepositoryTestSuite) SetupSuite() {
	suite.ctx = context.Background()

	database, err := pgtest.Start(suite.ctx)
	suite.Require().NoError(err)
	suite.database = database
}

func (suite *CoverageRepositoryTestSuite) SetupTest() {
	suite.Require().NoError(suite.database.Truncate())
	suite.tracker = &MockAggregateTracker{}
	suite.repo = coveragerepo.NewGormCoverageRepository(suite.database.DB, suite.tracker)
}

func (suite *CoverageRepositoryTestSuite) TearDownSuite() {
	if suite.database != nil {
		suite.Require().NoError(suite.database.Terminate(suite.ctx))
	}
}

func TestCoverageRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(CoverageRepositoryTestSuite))
}

func (suite *CoverageRepositoryTestSuite) areas(pairs ...string) []kernel.Area {
	areas := make([]kernel.Area, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		a, err := kernel.NewArea(pairs[i], pairs[i+1])
		suite.Require().NoError(err)
		areas = append(areas, a)
	}
	return areas
}

func (suite *CoverageRepositoryTestSuite) TestSave_InsertThenReplace() {
	now := time.Now().UTC().Truncate(time.Microsecond)
	c, err := coverage.NewCoverage(kernel.NewUUID(), now)
	suite.Require().NoError(err)
	suite.tracker.On("TrackAggregate", c.ProviderID(), c).Twice()

	suite.Require().NoError(c.ReplaceAreas(suite.areas("Gampaha", "Negombo", "Colombo", "Dehiwala"), now))
	c.SetAvailability(true, now)
	suite.Require().NoError(suite.repo.Save(suite.ctx, c))

	loaded, err := suite.repo.Get(suite.ctx, c.ProviderID())
	suite.Require().NoError(err)
	suite.True(loaded.IsAvailable())
	suite.Equal(suite.areas("Colombo", "Dehiwala", "Gampaha", "Negombo"), loaded.Areas())

	later := now.Add(time.Minute)
	suite.Require().NoError(c.ReplaceAreas(suite.areas("Kandy", "Peradeniya"), later))
	c.SetAvailability(false, later)
	suite.Require().NoError(suite.repo.Save(suite.ctx, c))

	loaded, err = suite.repo.GetForUpdate(suite.ctx, c.ProviderID())
	suite.Require().NoError(err)
	suite.False(loaded.IsAvailable())
	suite.Equal(suite.areas("Kandy", "Peradeniya"), loaded.Areas())
	suite.True(later.Equal(loaded.UpdatedAt()))
	suite.tracker.AssertExpectations(suite.T())
}

func (suite *CoverageRepositoryTestSuite) TestSave_EmptyAreas() {
	c, err := coverage.NewCoverage(kernel.NewUUID(), time.Now().UTC())
	suite.Require().NoError(err)
	suite.tracker.On("TrackAggregate", c.ProviderID(), c).Once()

	suite.Require().NoError(suite.repo.Save(suite.ctx, c))

	loaded, err := suite.repo.Get(suite.ctx, c.ProviderID())
	suite.Require().NoError(err)
	suite.Empty(loaded.Areas())
	suite.False(loaded.IsAvailable())
}

func (suite *CoverageRepositoryTestSuite) TestGet_NotFound() {
	_, err := suite.repo.Get(suite.ctx, kernel.NewUUID())
	suite.ErrorIs(err, errs.ErrObjectNotFound)
}
