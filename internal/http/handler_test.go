package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/nurpe/dealership-contracts/internal/auth"
	"github.com/nurpe/dealership-contracts/internal/http/middleware"
	"github.com/nurpe/dealership-contracts/internal/model"
	"github.com/nurpe/dealership-contracts/internal/repository"
	"github.com/nurpe/dealership-contracts/internal/service"
)

const testSecret = "handler-test-secret"

type testEnv struct {
	router   *gin.Engine
	db       *gorm.DB
	company  model.Company
	operator model.User
	customer model.Customer
	car      model.Car
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := filepath.Join(t.TempDir(), "test.db")
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	err = db.AutoMigrate(
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

	env := &testEnv{db: db}
	env.company = model.Company{ID: uuid.New(), CompanyName: "River Motors", CompanyCode: "RIV-001"}
	seed(t, db, &env.company)

	env.operator = model.User{
		ID:             uuid.New(),
		Name:           "Kim Dealer",
		Email:          "kim@rivermotors.test",
		EmployeeNumber: "E-100",
		Password:       "x",
		CompanyID:      env.company.ID,
	}
	seed(t, db, &env.operator)

	env.customer = model.Customer{
		ID:        uuid.New(),
		Name:      "Park Customer",
		Email:     "park@example.test",
		CompanyID: env.company.ID,
	}
	seed(t, db, &env.customer)

	carModel := model.CarModel{ID: uuid.New(), Model: "Avante", Manufacturer: "Hyundai", Type: "Sedan"}
	seed(t, db, &carModel)
	env.car = model.Car{
		ID:         uuid.New(),
		CarNumber:  "12가3456",
		CarModelID: carModel.ID,
		Price:      20000,
		Status:     model.CarStatusPossession,
		CompanyID:  env.company.ID,
	}
	seed(t, db, &env.car)

	store := repository.NewStore(db)
	log := zerolog.Nop()
	contracts := service.NewContractService(store, nil, nil, log)
	dashboard := service.NewDashboardService(store, nil, nil, log)
	documents := service.NewDocumentService(store, log)

	handler := NewHandler(contracts, dashboard, documents, log)
	env.router = NewRouter(handler, middleware.Auth(auth.NewParser(testSecret)), "test")
	return env
}

func seed(t *testing.T, db *gorm.DB, value interface{}) {
	t.Helper()
	if err := db.Create(value).Error; err != nil {
		t.Fatalf("seed %T: %v", value, err)
	}
}

func (e *testEnv) token(t *testing.T, userID uuid.UUID) string {
	t.Helper()
	claims := auth.Claims{
		UserID:    userID.String(),
		CompanyID: e.company.ID.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func (e *testEnv) request(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	recorder := httptest.NewRecorder()
	e.router.ServeHTTP(recorder, req)
	return recorder
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)
	res := env.request(t, http.MethodGet, "/health", "", nil)
	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.Code)
	}
}

func TestAuthRequired(t *testing.T) {
	env := newTestEnv(t)

	res := env.request(t, http.MethodGet, "/contracts", "", nil)
	if res.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", res.Code)
	}

	res = env.request(t, http.MethodGet, "/contracts", "not-a-token", nil)
	if res.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 with a bad token, got %d", res.Code)
	}
}

func TestCreateContractEndpoint(t *testing.T) {
	env := newTestEnv(t)
	token := env.token(t, env.operator.ID)

	res := env.request(t, http.MethodPost, "/contracts", token, gin.H{
		"carId":      env.car.ID.String(),
		"customerId": env.customer.ID.String(),
		"meetings": []gin.H{
			{"date": "2024-01-10", "alarms": []string{"1d"}},
		},
	})
	if res.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", res.Code, res.Body.String())
	}

	var contract struct {
		ID            uuid.UUID `json:"id"`
		Status        string    `json:"status"`
		ContractPrice int64     `json:"contractPrice"`
	}
	if err := json.Unmarshal(res.Body.Bytes(), &contract); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if contract.Status != "carInspection" {
		t.Fatalf("expected status carInspection, got %s", contract.Status)
	}
	if contract.ContractPrice != 20000 {
		t.Fatalf("expected price 20000, got %d", contract.ContractPrice)
	}
}

func TestCreateContractEndpoint_BadBody(t *testing.T) {
	env := newTestEnv(t)
	token := env.token(t, env.operator.ID)

	res := env.request(t, http.MethodPost, "/contracts", token, gin.H{
		"carId": "not-a-uuid",
	})
	if res.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", res.Code)
	}
}

func TestListContractsEndpoint_InvalidSearchBy(t *testing.T) {
	env := newTestEnv(t)
	token := env.token(t, env.operator.ID)

	res := env.request(t, http.MethodGet, "/contracts?searchBy=carNumber&keyword=12", token, nil)
	if res.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", res.Code, res.Body.String())
	}
}

func TestListContractsEndpoint_Buckets(t *testing.T) {
	env := newTestEnv(t)
	token := env.token(t, env.operator.ID)

	res := env.request(t, http.MethodPost, "/contracts", token, gin.H{
		"carId":      env.car.ID.String(),
		"customerId": env.customer.ID.String(),
	})
	if res.Code != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d", res.Code)
	}

	res = env.request(t, http.MethodGet, "/contracts", token, nil)
	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.Code)
	}

	var buckets map[string]struct {
		TotalItemCount int `json:"totalItemCount"`
	}
	if err := json.Unmarshal(res.Body.Bytes(), &buckets); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	for _, status := range model.ContractStatuses {
		if _, ok := buckets[string(status)]; !ok {
			t.Fatalf("missing bucket %s", status)
		}
	}
	if buckets["carInspection"].TotalItemCount != 1 {
		t.Fatalf("expected 1 carInspection contract, got %d", buckets["carInspection"].TotalItemCount)
	}
}

func TestGetContractEndpoint_NotFound(t *testing.T) {
	env := newTestEnv(t)
	token := env.token(t, env.operator.ID)

	res := env.request(t, http.MethodGet, fmt.Sprintf("/contracts/%s", uuid.New()), token, nil)
	if res.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", res.Code)
	}
}

func TestDeleteContractEndpoint(t *testing.T) {
	env := newTestEnv(t)
	token := env.token(t, env.operator.ID)

	res := env.request(t, http.MethodPost, "/contracts", token, gin.H{
		"carId":      env.car.ID.String(),
		"customerId": env.customer.ID.String(),
	})
	if res.Code != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d", res.Code)
	}
	var created struct {
		ID uuid.UUID `json:"id"`
	}
	if err := json.Unmarshal(res.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	res = env.request(t, http.MethodDelete, fmt.Sprintf("/contracts/%s", created.ID), token, nil)
	if res.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d: %s", res.Code, res.Body.String())
	}

	var car model.Car
	if err := env.db.First(&car, "id = ?", env.car.ID).Error; err != nil {
		t.Fatalf("load car: %v", err)
	}
	if car.Status != model.CarStatusPossession {
		t.Fatalf("expected car back in possession, got %s", car.Status)
	}
}

func TestDocumentEndpoints(t *testing.T) {
	env := newTestEnv(t)
	token := env.token(t, env.operator.ID)

	res := env.request(t, http.MethodPost, "/contract-documents", token, gin.H{
		"fileName": "purchase-agreement.pdf",
	})
	if res.Code != http.StatusCreated {
		t.Fatalf("register: expected 201, got %d: %s", res.Code, res.Body.String())
	}
	var doc struct {
		ID       uuid.UUID `json:"id"`
		FileName string    `json:"fileName"`
	}
	if err := json.Unmarshal(res.Body.Bytes(), &doc); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if doc.FileName != "purchase-agreement.pdf" {
		t.Fatalf("unexpected file name %q", doc.FileName)
	}

	res = env.request(t, http.MethodGet, fmt.Sprintf("/contract-documents/%s", doc.ID), token, nil)
	if res.Code != http.StatusOK {
		t.Fatalf("get: expected 200, got %d", res.Code)
	}

	res = env.request(t, http.MethodGet, "/contract-documents/not-a-uuid", token, nil)
	if res.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for a malformed id, got %d", res.Code)
	}
}

func TestDashboardEndpoint(t *testing.T) {
	env := newTestEnv(t)
	token := env.token(t, env.operator.ID)

	res := env.request(t, http.MethodGet, "/dashboard", token, nil)
	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", res.Code, res.Body.String())
	}

	var dashboard model.Dashboard
	if err := json.Unmarshal(res.Body.Bytes(), &dashboard); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if dashboard.MonthlySales != 0 || dashboard.GrowthRate != 0 {
		t.Fatalf("expected an empty dashboard, got %+v", dashboard)
	}
}
