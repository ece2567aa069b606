package service

import (
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/nurpe/dealership-contracts/internal/model"
	"github.com/nurpe/dealership-contracts/internal/repository"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "test.db")
	database, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	err = database.AutoMigrate(
		&model.Company{},
		&model.User{},
		&model.Customer{},
		&model.CarModel{},
		&model.Car{},
		&model.Contract{},
		&model.Meeting{},
		&model.ContractDocument{},
		&model.ContractDocumentLink{},
	)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return database
}

// fixture seeds one company with two users, a customer and two cars in
// possession.
type fixture struct {
	db        *gorm.DB
	store     *repository.Store
	company   model.Company
	operator  model.User
	other     model.User
	customer  model.Customer
	sedan     model.CarModel
	suv       model.CarModel
	car       model.Car
	secondCar model.Car
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db := newTestDB(t)
	f := &fixture{
		db:    db,
		store: repository.NewStore(db),
	}

	f.company = model.Company{ID: uuid.New(), CompanyName: "River Motors", CompanyCode: "RIV-001"}
	mustCreate(t, db, &f.company)

	f.operator = model.User{
		ID:             uuid.New(),
		Name:           "Kim Dealer",
		Email:          "kim@rivermotors.test",
		EmployeeNumber: "E-100",
		Password:       "x",
		CompanyID:      f.company.ID,
	}
	mustCreate(t, db, &f.operator)

	f.other = model.User{
		ID:             uuid.New(),
		Name:           "Lee Dealer",
		Email:          "lee@rivermotors.test",
		EmployeeNumber: "E-101",
		Password:       "x",
		CompanyID:      f.company.ID,
	}
	mustCreate(t, db, &f.other)

	f.customer = model.Customer{
		ID:        uuid.New(),
		Name:      "Park Customer",
		Email:     "park@example.test",
		CompanyID: f.company.ID,
	}
	mustCreate(t, db, &f.customer)

	f.sedan = model.CarModel{ID: uuid.New(), Model: "Avante", Manufacturer: "Hyundai", Type: "Sedan"}
	mustCreate(t, db, &f.sedan)
	f.suv = model.CarModel{ID: uuid.New(), Model: "Tucson", Manufacturer: "Hyundai", Type: "SUV"}
	mustCreate(t, db, &f.suv)

	f.car = model.Car{
		ID:                uuid.New(),
		CarNumber:         "12가3456",
		CarModelID:        f.sedan.ID,
		ManufacturingYear: 2021,
		Price:             20000,
		Status:            model.CarStatusPossession,
		CompanyID:         f.company.ID,
	}
	mustCreate(t, db, &f.car)

	f.secondCar = model.Car{
		ID:                uuid.New(),
		CarNumber:         "34나5678",
		CarModelID:        f.suv.ID,
		ManufacturingYear: 2022,
		Price:             35000,
		Status:            model.CarStatusPossession,
		CompanyID:         f.company.ID,
	}
	mustCreate(t, db, &f.secondCar)

	return f
}

func (f *fixture) contractService() *ContractService {
	return NewContractService(f.store, nil, nil, zerolog.Nop())
}

func mustCreate(t *testing.T, db *gorm.DB, value interface{}) {
	t.Helper()
	if err := db.Create(value).Error; err != nil {
		t.Fatalf("seed %T: %v", value, err)
	}
}

func carStatus(t *testing.T, db *gorm.DB, id uuid.UUID) model.CarStatus {
	t.Helper()
	var car model.Car
	if err := db.First(&car, "id = ?", id).Error; err != nil {
		t.Fatalf("load car: %v", err)
	}
	return car.Status
}

func countRows(t *testing.T, db *gorm.DB, value interface{}, query string, args ...interface{}) int64 {
	t.Helper()
	var count int64
	if err := db.Model(value).Where(query, args...).Count(&count).Error; err != nil {
		t.Fatalf("count %T: %v", value, err)
	}
	return count
}
