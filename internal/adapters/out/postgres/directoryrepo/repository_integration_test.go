package directoryrepo_test

import (
	"context"
	"testing"

	"aqualink/internal/adapters/out/postgres/directoryrepo"
	"aqualink/internal/adapters/out/postgres/pgtest"
	"aqualink/internal/core/domain/model/kernel"

	"github.com/stretchr/testify/suite"
)

type DirectoryTestSuite struct {
	suite.Suite
	ctx       context.Context
	database  *pgtest.Database
	directory *directoryrepo.GormDirectory
}

func (suite *DirectoryTestSuite) SetupSuite() {
	suite.ctx = context.Background()

	database, err := pgtest.Start(suite.ctx)
	suite.Require().NoError(err)
	suite.database = database
}

func (suite *DirectoryTestSuite) SetupTest() {
	suite.Require().NoError(suite.database.Truncate())
	suite.directory = directoryrepo.NewGormDirectory(suite.database.DB)
}

func (suite *DirectoryTestSuite) TearDownSuite() {
	if suite.database != nil {
		suite.Require().NoError(suite.database.Terminate(suite.ctx))
	}
}

func TestDirectoryTestSuite(t *testing.T) {
	suite.Run(t, new(DirectoryTestSuite))
}

func (suite *DirectoryTestSuite) TestFindCustomers() {
	known := kernel.NewUUID()
	suite.Require().NoError(suite.database.DB.Create(&directoryrepo.CustomerDTO{
		ID: known.Bytes(), Name: "Nimal Perera", Phone: "+94771234567",
	}).Error)

	found, err := suite.directory.FindCustomers(suite.ctx, []kernel.UUID{known, kernel.NewUUID()})

	suite.Require().NoError(err)
	suite.Require().Len(found, 1)
	suite.Equal("Nimal Perera", found[known].Name)
	suite.Equal("+94771234567", found[known].Phone)
}

func (suite *DirectoryTestSuite) TestFindProducts() {
	productID := kernel.NewUUID()
	sellerID := kernel.NewUUID()
	suite.Require().NoError(suite.database.DB.Create(&directoryrepo.ProductDTO{
		ID: productID.Bytes(), SellerID: sellerID.Bytes(), Name: "Fish tank 60L", Price: "12500.00",
	}).Error)

	found, err := suite.directory.FindProducts(suite.ctx, []kernel.UUID{productID})

	suite.Require().NoError(err)
	suite.Require().Contains(found, productID)
	suite.Equal(sellerID, found[productID].SellerID)
	suite.Equal("12500", found[productID].Price.Trim(0).String())
}

func (suite *DirectoryTestSuite) TestEmptyInput() {
	customers, err := suite.directory.FindCustomers(suite.ctx, nil)
	suite.Require().NoError(err)
	suite.Empty(customers)

	products, err := suite.directory.FindProducts(suite.ctx, nil)
	suite.Require().NoError(err)
	suite.Empty(products)
}
