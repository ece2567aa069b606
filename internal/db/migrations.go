package db

import (
	"fmt"

	"gorm.io/gorm"
)

var migrationStatements = []string{
	`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`,
	`DO $$
	BEGIN
		IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'car_status') THEN
			CREATE TYPE car_status AS ENUM ('possession', 'contractProceeding', 'contractCompleted');
		END IF;
		IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'contract_status') THEN
			CREATE TYPE contract_status AS ENUM ('carInspection', 'priceNegotiation', 'contractDraft', 'contractSuccessful', 'contractFailed');
		END IF;
	END
	$$;`,
	`CREATE TABLE IF NOT EXISTS companies (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		company_name VARCHAR(128) NOT NULL,
		company_code VARCHAR(64) NOT NULL
	);`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_companies_company_code ON companies (company_code);`,
	`CREATE TABLE IF NOT EXISTS users (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		name VARCHAR(128) NOT NULL,
		email VARCHAR(256) NOT NULL,
		employee_number VARCHAR(64) NOT NULL,
		phone_number VARCHAR(32),
		password VARCHAR(256) NOT NULL,
		is_admin BOOLEAN NOT NULL DEFAULT FALSE,
		company_id UUID NOT NULL REFERENCES companies(id)
	);`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_users_email ON users (email);`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_users_employee_number ON users (employee_number);`,
	`CREATE TABLE IF NOT EXISTS customers (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		name VARCHAR(128) NOT NULL,
		gender VARCHAR(16),
		phone_number VARCHAR(32),
		age_group VARCHAR(16),
		region VARCHAR(32),
		email VARCHAR(256),
		company_id UUID NOT NULL REFERENCES companies(id)
	);`,
	`CREATE TABLE IF NOT EXISTS car_models (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		model VARCHAR(128) NOT NULL,
		manufacturer VARCHAR(128) NOT NULL,
		type VARCHAR(64) NOT NULL
	);`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_car_models_model ON car_models (model);`,
	`CREATE TABLE IF NOT EXISTS cars (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		car_number VARCHAR(32) NOT NULL,
		car_model_id UUID NOT NULL REFERENCES car_models(id),
		manufacturing_year INT NOT NULL,
		mileage BIGINT NOT NULL DEFAULT 0,
		price BIGINT NOT NULL,
		accident_count INT NOT NULL DEFAULT 0,
		explanation TEXT,
		accident_details TEXT,
		status car_status NOT NULL DEFAULT 'possession',
		company_id UUID NOT NULL REFERENCES companies(id)
	);`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_cars_car_number ON cars (car_number);`,
	`CREATE INDEX IF NOT EXISTS idx_cars_company_status ON cars (company_id, status);`,
	`CREATE TABLE IF NOT EXISTS contracts (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		status contract_status NOT NULL DEFAULT 'carInspection',
		contract_price BIGINT NOT NULL,
		resolution_date TIMESTAMPTZ,
		car_id UUID NOT NULL REFERENCES cars(id),
		customer_id UUID NOT NULL REFERENCES customers(id),
		user_id UUID NOT NULL REFERENCES users(id),
		company_id UUID NOT NULL REFERENCES companies(id),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_contracts_company_status ON contracts (company_id, status);`,
	`CREATE INDEX IF NOT EXISTS idx_contracts_car_id ON contracts (car_id);`,
	`CREATE TABLE IF NOT EXISTS meetings (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		contract_id UUID NOT NULL REFERENCES contracts(id) ON DELETE CASCADE,
		date TIMESTAMPTZ NOT NULL,
		alarms JSONB NOT NULL DEFAULT '[]'
	);`,
	`CREATE INDEX IF NOT EXISTS idx_meetings_contract_id ON meetings (contract_id);`,
	`CREATE TABLE IF NOT EXISTS contract_documents (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		file_name VARCHAR(256) NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE TABLE IF NOT EXISTS contract_document_links (
		contract_id UUID NOT NULL REFERENCES contracts(id) ON DELETE CASCADE,
		contract_document_id UUID NOT NULL REFERENCES contract_documents(id),
		PRIMARY KEY (contract_id, contract_document_id)
	);`,
}

func runMigrations(db *gorm.DB) error {
	for i, stmt := range migrationStatements {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}
	return nil
}
