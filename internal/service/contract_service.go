package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/nurpe/dealership-contracts/internal/model"
	"github.com/nurpe/dealership-contracts/internal/repository"
)

// Notifier delivers the contract-document email. Implementations are
// best-effort; the lifecycle never depends on the outcome.
type Notifier interface {
	SendContractDocumentEmail(toEmail, customerName string, fileNames []string, contractID uuid.UUID) error
}

// PDFGenerator renders a single contract summary.
type PDFGenerator interface {
	Generate(contract model.Contract) ([]byte, error)
}

type ContractService struct {
	store    *repository.Store
	notifier Notifier
	pdf      PDFGenerator
	log      zerolog.Logger
	now      func() time.Time
}

func NewContractService(store *repository.Store, notifier Notifier, pdf PDFGenerator, log zerolog.Logger) *ContractService {
	return &ContractService{
		store:    store,
		notifier: notifier,
		pdf:      pdf,
		log:      log,
		now:      time.Now,
	}
}

type MeetingInput struct {
	Date   time.Time
	Alarms []string
}

type CreateContractInput struct {
	CarID      uuid.UUID
	CustomerID uuid.UUID
	Meetings   []MeetingInput
}

// UpdateContractInput is a sparse patch. Nil fields keep the current
// value; a non-nil Meetings or DocumentIDs slice replaces the whole
// set, empty included.
type UpdateContractInput struct {
	UserID         *uuid.UUID
	CustomerID     *uuid.UUID
	CarID          *uuid.UUID
	Status         *model.ContractStatus
	ContractPrice  *int64
	ResolutionDate *time.Time
	Meetings       *[]MeetingInput
	DocumentIDs    *[]uuid.UUID
}

// Create opens a contract on a car still in possession. The car price
// is snapshotted into the contract and the car moves to
// contractProceeding, all in one transaction.
func (s *ContractService) Create(ctx context.Context, operatorID uuid.UUID, input CreateContractInput) (*ContractView, error) {
	if input.CarID == uuid.Nil || input.CustomerID == uuid.Nil {
		return nil, fmt.Errorf("%w: carId and customerId are required", ErrInvalidInput)
	}

	companyID, err := s.store.GetCompanyIDForUser(ctx, operatorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: operator company", ErrInvalidInput)
		}
		return nil, err
	}

	var contractID uuid.UUID
	err = s.store.Transaction(ctx, func(tx *repository.Store) error {
		car, err := tx.GetCar(ctx, input.CarID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: car", ErrNotFound)
			}
			return err
		}
		if car.CompanyID != companyID {
			return fmt.Errorf("%w: car", ErrNotFound)
		}
		if car.Status != model.CarStatusPossession {
			return fmt.Errorf("%w: car is not in possession", ErrConflict)
		}

		customer, err := tx.GetCustomer(ctx, input.CustomerID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: customer", ErrNotFound)
			}
			return err
		}
		if customer.CompanyID != companyID {
			return fmt.Errorf("%w: customer", ErrNotFound)
		}

		// Conditional update is the double-booking guard: a concurrent
		// create loses here and the whole transaction rolls back.
		claimed, err := tx.ClaimCar(ctx, car.ID, model.CarStatusPossession, model.CarStatusContractProceeding)
		if err != nil {
			return err
		}
		if !claimed {
			return fmt.Errorf("%w: car is already under contract", ErrConflict)
		}

		contract := &model.Contract{
			Status:        model.ContractStatusCarInspection,
			ContractPrice: car.Price,
			CarID:         car.ID,
			CustomerID:    customer.ID,
			UserID:        operatorID,
			CompanyID:     companyID,
		}
		if err := tx.CreateContract(ctx, contract); err != nil {
			return err
		}
		contractID = contract.ID

		return tx.ReplaceMeetings(ctx, contract.ID, toMeetings(input.Meetings))
	})
	if err != nil {
		return nil, err
	}

	return s.loadView(ctx, contractID)
}

// Update patches a contract. Only the assigned user may touch it.
// Meeting and document sets are replaced wholesale when present, the
// car status follows the status mapping, and everything lands in one
// transaction. The document email goes out after commit.
func (s *ContractService) Update(ctx context.Context, contractID, operatorID uuid.UUID, input UpdateContractInput) (*ContractView, error) {
	if input.Status != nil && !input.Status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, *input.Status)
	}

	var notification *documentNotification
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		contract, err := tx.GetContract(ctx, contractID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: contract", ErrNotFound)
			}
			return err
		}
		if contract.UserID != operatorID {
			return fmt.Errorf("%w: contract belongs to another user", ErrForbidden)
		}

		if input.UserID != nil {
			user, err := tx.GetUser(ctx, *input.UserID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("%w: user", ErrNotFound)
				}
				return err
			}
			if user.CompanyID != contract.CompanyID {
				return fmt.Errorf("%w: user", ErrNotFound)
			}
			contract.UserID = user.ID
		}
		if input.CustomerID != nil {
			customer, err := tx.GetCustomer(ctx, *input.CustomerID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("%w: customer", ErrNotFound)
				}
				return err
			}
			if customer.CompanyID != contract.CompanyID {
				return fmt.Errorf("%w: customer", ErrNotFound)
			}
			contract.CustomerID = customer.ID
		}

		if input.ContractPrice != nil {
			contract.ContractPrice = *input.ContractPrice
		}
		if input.ResolutionDate != nil {
			contract.ResolutionDate = input.ResolutionDate
		}

		oldCarID := contract.CarID
		carChanged := input.CarID != nil && *input.CarID != oldCarID
		statusChanged := input.Status != nil && *input.Status != contract.Status
		if input.Status != nil {
			contract.Status = *input.Status
		}
		if statusChanged && contract.Status == model.ContractStatusSuccessful && contract.ResolutionDate == nil {
			resolved := s.now()
			contract.ResolutionDate = &resolved
		}

		if input.Meetings != nil {
			if err := tx.ReplaceMeetings(ctx, contract.ID, toMeetings(*input.Meetings)); err != nil {
				return err
			}
		}
		if input.DocumentIDs != nil {
			fileNames, err := s.replaceDocuments(ctx, tx, contract, *input.DocumentIDs)
			if err != nil {
				return err
			}
			customer, err := tx.GetCustomer(ctx, contract.CustomerID)
			if err != nil {
				return err
			}
			notification = &documentNotification{
				contractID:   contract.ID,
				toEmail:      customer.Email,
				customerName: customer.Name,
				fileNames:    fileNames,
			}
		}

		if carChanged {
			newCar, err := tx.GetCar(ctx, *input.CarID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("%w: car", ErrNotFound)
				}
				return err
			}
			if newCar.CompanyID != contract.CompanyID {
				return fmt.Errorf("%w: car", ErrNotFound)
			}

			claimed, err := tx.ClaimCar(ctx, newCar.ID, model.CarStatusPossession, contract.Status.CarStatus())
			if err != nil {
				return err
			}
			if !claimed {
				return fmt.Errorf("%w: car is already under contract", ErrConflict)
			}

			contract.CarID = newCar.ID
			contract.ContractPrice = newCar.Price

			// Release the previous car unless another active contract
			// still claims it.
			active, err := tx.ActiveContractExistsForCar(ctx, oldCarID, contract.ID)
			if err != nil {
				return err
			}
			if !active {
				if err := tx.UpdateCarStatus(ctx, oldCarID, model.CarStatusPossession); err != nil {
					return err
				}
			}
		} else if statusChanged {
			if err := tx.UpdateCarStatus(ctx, contract.CarID, contract.Status.CarStatus()); err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("%w: car", ErrNotFound)
				}
				return err
			}
		}

		return tx.SaveContract(ctx, contract)
	})
	if err != nil {
		return nil, err
	}

	if notification != nil {
		s.notifyDocuments(*notification)
	}

	return s.loadView(ctx, contractID)
}

// Delete removes the contract and returns its car to possession.
func (s *ContractService) Delete(ctx context.Context, contractID, operatorID uuid.UUID) error {
	return s.store.Transaction(ctx, func(tx *repository.Store) error {
		contract, err := tx.GetContract(ctx, contractID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: contract", ErrNotFound)
			}
			return err
		}
		if contract.UserID != operatorID {
			return fmt.Errorf("%w: contract belongs to another user", ErrForbidden)
		}

		if err := tx.DeleteContract(ctx, contract.ID); err != nil {
			return err
		}
		if err := tx.UpdateCarStatus(ctx, contract.CarID, model.CarStatusPossession); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: car", ErrNotFound)
			}
			return err
		}
		return nil
	})
}

// searchByValues is the closed set the list endpoint accepts.
var searchByValues = map[string]struct{}{
	"customerName": {},
	"userName":     {},
}

// List groups the company's contracts into one bucket per status.
func (s *ContractService) List(ctx context.Context, operatorID uuid.UUID, searchBy, keyword string) (map[string]ContractBucket, error) {
	if searchBy != "" {
		if _, ok := searchByValues[searchBy]; !ok {
			return nil, fmt.Errorf("%w: searchBy must be one of customerName, userName", ErrInvalidInput)
		}
	}

	companyID, err := s.store.GetCompanyIDForUser(ctx, operatorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: operator", ErrNotFound)
		}
		return nil, err
	}

	contracts, err := s.store.ListContracts(ctx, companyID, repository.ContractSearch{By: searchBy, Keyword: keyword})
	if err != nil {
		return nil, err
	}

	buckets := make(map[string]ContractBucket, len(model.ContractStatuses))
	for _, status := range model.ContractStatuses {
		buckets[string(status)] = ContractBucket{Data: []ContractView{}}
	}
	for _, contract := range contracts {
		bucket := buckets[string(contract.Status)]
		bucket.Data = append(bucket.Data, newContractView(contract))
		bucket.TotalItemCount = len(bucket.Data)
		buckets[string(contract.Status)] = bucket
	}
	return buckets, nil
}

// Get returns one contract. Any employee of the owning company may
// read it; mutation stays restricted to the assigned user.
func (s *ContractService) Get(ctx context.Context, contractID, operatorID uuid.UUID) (*ContractView, error) {
	companyID, err := s.store.GetCompanyIDForUser(ctx, operatorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: operator", ErrNotFound)
		}
		return nil, err
	}

	contract, err := s.store.GetContract(ctx, contractID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: contract", ErrNotFound)
		}
		return nil, err
	}
	if contract.CompanyID != companyID {
		return nil, fmt.Errorf("%w: contract", ErrNotFound)
	}
	view := newContractView(*contract)
	return &view, nil
}

// ExportPDF renders the contract summary document.
func (s *ContractService) ExportPDF(ctx context.Context, contractID, operatorID uuid.UUID) (string, []byte, error) {
	companyID, err := s.store.GetCompanyIDForUser(ctx, operatorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, fmt.Errorf("%w: operator", ErrNotFound)
		}
		return "", nil, err
	}
	contract, err := s.store.GetContract(ctx, contractID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, fmt.Errorf("%w: contract", ErrNotFound)
		}
		return "", nil, err
	}
	if contract.CompanyID != companyID {
		return "", nil, fmt.Errorf("%w: contract", ErrNotFound)
	}

	content, err := s.pdf.Generate(*contract)
	if err != nil {
		return "", nil, err
	}
	fileName := fmt.Sprintf("contract-%s.pdf", contract.ID)
	return fileName, content, nil
}

type CarOption struct {
	ID        uuid.UUID `json:"id"`
	CarNumber string    `json:"carNumber"`
	Model     string    `json:"model"`
	Price     int64     `json:"price"`
}

// ListAvailableCars returns the company's cars open for a new
// contract, for the contract form picker.
func (s *ContractService) ListAvailableCars(ctx context.Context, operatorID uuid.UUID) ([]CarOption, error) {
	companyID, err := s.store.GetCompanyIDForUser(ctx, operatorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: operator", ErrNotFound)
		}
		return nil, err
	}
	cars, err := s.store.ListAvailableCars(ctx, companyID)
	if err != nil {
		return nil, err
	}
	options := make([]CarOption, 0, len(cars))
	for _, car := range cars {
		options = append(options, CarOption{
			ID:        car.ID,
			CarNumber: car.CarNumber,
			Model:     car.CarModel.Model,
			Price:     car.Price,
		})
	}
	return options, nil
}

func (s *ContractService) ListCustomers(ctx context.Context, operatorID uuid.UUID) ([]ItemRef, error) {
	companyID, err := s.store.GetCompanyIDForUser(ctx, operatorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: operator", ErrNotFound)
		}
		return nil, err
	}
	customers, err := s.store.ListCustomers(ctx, companyID)
	if err != nil {
		return nil, err
	}
	refs := make([]ItemRef, 0, len(customers))
	for _, customer := range customers {
		refs = append(refs, ItemRef{ID: customer.ID, Name: customer.Name})
	}
	return refs, nil
}

func (s *ContractService) ListUsers(ctx context.Context, operatorID uuid.UUID) ([]ItemRef, error) {
	companyID, err := s.store.GetCompanyIDForUser(ctx, operatorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: operator", ErrNotFound)
		}
		return nil, err
	}
	users, err := s.store.ListUsers(ctx, companyID)
	if err != nil {
		return nil, err
	}
	refs := make([]ItemRef, 0, len(users))
	for _, user := range users {
		refs = append(refs, ItemRef{ID: user.ID, Name: user.Name})
	}
	return refs, nil
}

type documentNotification struct {
	contractID   uuid.UUID
	toEmail      string
	customerName string
	fileNames    []string
}

// notifyDocuments fires the customer email after the transaction has
// committed. Failures are logged, never surfaced.
func (s *ContractService) notifyDocuments(n documentNotification) {
	if s.notifier == nil || n.toEmail == "" {
		return
	}
	go func() {
		if err := s.notifier.SendContractDocumentEmail(n.toEmail, n.customerName, n.fileNames, n.contractID); err != nil {
			s.log.Error().
				Err(err).
				Str("contract_id", n.contractID.String()).
				Msg("contract document email failed")
		}
	}()
}

func (s *ContractService) replaceDocuments(ctx context.Context, tx *repository.Store, contract *model.Contract, documentIDs []uuid.UUID) ([]string, error) {
	ids := dedupe(documentIDs)
	docs, err := tx.GetDocuments(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(docs) != len(ids) {
		return nil, fmt.Errorf("%w: document", ErrNotFound)
	}
	if err := tx.ReplaceDocumentLinks(ctx, contract.ID, ids); err != nil {
		return nil, err
	}
	fileNames := make([]string, 0, len(docs))
	for _, doc := range docs {
		fileNames = append(fileNames, doc.FileName)
	}
	return fileNames, nil
}

func (s *ContractService) loadView(ctx context.Context, contractID uuid.UUID) (*ContractView, error) {
	contract, err := s.store.GetContract(ctx, contractID)
	if err != nil {
		return nil, err
	}
	view := newContractView(*contract)
	return &view, nil
}

func toMeetings(inputs []MeetingInput) []model.Meeting {
	meetings := make([]model.Meeting, 0, len(inputs))
	for _, input := range inputs {
		meetings = append(meetings, model.Meeting{
			Date:   input.Date,
			Alarms: append([]string(nil), input.Alarms...),
		})
	}
	return meetings
}

func dedupe(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	result := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		result = append(result, id)
	}
	return result
}
