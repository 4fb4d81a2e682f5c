package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/motordesk/motordesk/pkg/auth"
	"github.com/motordesk/motordesk/pkg/model"
	"github.com/motordesk/motordesk/pkg/store/postgres"
)

// contractStore is the slice of ContractRepository the lifecycle needs.
type contractStore interface {
	contractAggregates
	Create(ctx context.Context, contract *model.Contract) error
	GetByID(ctx context.Context, companyID, id uuid.UUID) (*model.Contract, error)
	List(ctx context.Context, companyID uuid.UUID, filter postgres.ContractFilter) ([]model.Contract, int64, error)
	Update(ctx context.Context, companyID, id uuid.UUID, updates map[string]interface{}) error
	Delete(ctx context.Context, companyID, id uuid.UUID) error
	ReplaceMeetings(ctx context.Context, contractID uuid.UUID, meetings []model.Meeting) error
}

type carStore interface {
	carStatusWriter
	GetByID(ctx context.Context, companyID, id uuid.UUID) (*model.Car, error)
}

type customerStore interface {
	GetByID(ctx context.Context, companyID, id uuid.UUID) (*model.Customer, error)
}

type documentStore interface {
	Associate(ctx context.Context, companyID, documentID, contractID uuid.UUID, newName string) error
}

type contractRepos struct {
	Contracts contractStore
	Cars      carStore
	Customers customerStore
	Documents documentStore
}

// contractDB hands out repositories bound to the root connection or to a
// single transaction. The lifecycle methods only see these interfaces, so
// the same code runs against postgres and against in-memory fakes.
type contractDB interface {
	Repos() contractRepos
	InTx(ctx context.Context, fn func(r contractRepos) error) error
}

type storeContractDB struct {
	store *postgres.Store
}

func (s storeContractDB) repos(db *gorm.DB) contractRepos {
	return contractRepos{
		Contracts: postgres.NewContractRepository(db),
		Cars:      postgres.NewCarRepository(db),
		Customers: postgres.NewCustomerRepository(db),
		Documents: postgres.NewDocumentRepository(db),
	}
}

func (s storeContractDB) Repos() contractRepos {
	return s.repos(s.store.DB())
}

func (s storeContractDB) InTx(ctx context.Context, fn func(r contractRepos) error) error {
	return s.store.WithTx(ctx, func(tx *gorm.DB) error {
		return fn(s.repos(tx))
	})
}

type ContractService struct {
	db     contractDB
	logger *zap.Logger
}

func NewContractService(store *postgres.Store, logger *zap.Logger) *ContractService {
	return &ContractService{db: storeContractDB{store: store}, logger: logger}
}

type MeetingInput struct {
	Date   time.Time
	Alarms []time.Time
}

// DocumentRef re-associates an already-uploaded document to the contract,
// optionally renaming it.
type DocumentRef struct {
	ID      uuid.UUID
	NewName string
}

type CreateContractInput struct {
	CarID        uuid.UUID
	CustomerID   uuid.UUID
	UserID       *uuid.UUID // assigned salesperson; defaults to the actor
	Status       model.ContractStatus
	Price        int64
	ContractDate *time.Time
	Meetings     []MeetingInput
	Documents    []DocumentRef
}

type UpdateContractInput struct {
	Status       *model.ContractStatus
	Price        *int64
	ContractDate *time.Time
	ResolvedAt   *time.Time
	CarID        *uuid.UUID
	CustomerID   *uuid.UUID
	Meetings     *[]MeetingInput // nil leaves the set alone, non-nil replaces it
	Documents    []DocumentRef
}

// Create persists the contract with its nested meetings, re-associates any
// referenced documents, and refreshes the tenant aggregates, all in one
// transaction.
func (s *ContractService) Create(ctx context.Context, actor auth.Identity, input CreateContractInput) (*model.Contract, error) {
	assignedTo := actor.UserID
	if input.UserID != nil {
		assignedTo = *input.UserID
	}

	var created *model.Contract
	err := s.db.InTx(ctx, func(r contractRepos) error {
		if _, err := r.Cars.GetByID(ctx, actor.CompanyID, input.CarID); err != nil {
			return translateNotFound(err)
		}
		if _, err := r.Customers.GetByID(ctx, actor.CompanyID, input.CustomerID); err != nil {
			return translateNotFound(err)
		}

		contract := &model.Contract{
			CompanyID:    actor.CompanyID,
			CarID:        input.CarID,
			CustomerID:   input.CustomerID,
			UserID:       assignedTo,
			Status:       input.Status,
			Price:        input.Price,
			ContractDate: input.ContractDate,
			Meetings:     buildMeetings(input.Meetings),
		}
		if err := r.Contracts.Create(ctx, contract); err != nil {
			return err
		}

		for _, ref := range input.Documents {
			if err := r.Documents.Associate(ctx, actor.CompanyID, ref.ID, contract.ID, ref.NewName); err != nil {
				return translateNotFound(err)
			}
		}

		if _, err := RefreshAggregates(ctx, r.Contracts, r.Cars, actor.CompanyID,
			&contract.CustomerID, &contract.CarID); err != nil {
			return err
		}

		loaded, err := r.Contracts.GetByID(ctx, actor.CompanyID, contract.ID)
		if err != nil {
			return err
		}
		created = loaded
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("contract created",
		zap.String("contract_id", created.ID.String()),
		zap.String("company_id", actor.CompanyID.String()))
	return created, nil
}

func (s *ContractService) Update(ctx context.Context, actor auth.Identity, contractID uuid.UUID, input UpdateContractInput) (*model.Contract, error) {
	var updated *model.Contract
	err := s.db.InTx(ctx, func(r contractRepos) error {
		contract, err := r.Contracts.GetByID(ctx, actor.CompanyID, contractID)
		if err != nil {
			return translateNotFound(err)
		}
		if CanModifyContract(actor, contract) != DecisionAllowed {
			return ErrForbidden
		}

		updates := map[string]interface{}{}
		if input.Status != nil {
			updates["status"] = *input.Status
		}
		if input.Price != nil {
			updates["price"] = *input.Price
		}
		if input.ContractDate != nil {
			updates["contract_date"] = *input.ContractDate
		}
		if input.ResolvedAt != nil {
			updates["resolved_at"] = *input.ResolvedAt
		}
		if input.CarID != nil {
			if _, err := r.Cars.GetByID(ctx, actor.CompanyID, *input.CarID); err != nil {
				return translateNotFound(err)
			}
			updates["car_id"] = *input.CarID
		}
		if input.CustomerID != nil {
			if _, err := r.Customers.GetByID(ctx, actor.CompanyID, *input.CustomerID); err != nil {
				return translateNotFound(err)
			}
			updates["customer_id"] = *input.CustomerID
		}
		if len(updates) > 0 {
			if err := r.Contracts.Update(ctx, actor.CompanyID, contractID, updates); err != nil {
				return err
			}
		}

		if input.Meetings != nil {
			if err := r.Contracts.ReplaceMeetings(ctx, contractID, buildMeetings(*input.Meetings)); err != nil {
				return err
			}
		}

		for _, ref := range input.Documents {
			if err := r.Documents.Associate(ctx, actor.CompanyID, ref.ID, contractID, ref.NewName); err != nil {
				return translateNotFound(err)
			}
		}

		affectedCustomer := contract.CustomerID
		if input.CustomerID != nil {
			affectedCustomer = *input.CustomerID
		}
		affectedCar := contract.CarID
		if input.CarID != nil {
			affectedCar = *input.CarID
		}
		if _, err := RefreshAggregates(ctx, r.Contracts, r.Cars, actor.CompanyID,
			&affectedCustomer, &affectedCar); err != nil {
			return err
		}

		// Reassigning the contract also changes the aggregates of the car
		// and customer it used to point at; without this pass the old
		// car's derived status goes stale.
		var staleCustomer, staleCar *uuid.UUID
		if input.CustomerID != nil && *input.CustomerID != contract.CustomerID {
			previous := contract.CustomerID
			staleCustomer = &previous
		}
		if input.CarID != nil && *input.CarID != contract.CarID {
			previous := contract.CarID
			staleCar = &previous
		}
		if staleCustomer != nil || staleCar != nil {
			if _, err := RefreshAggregates(ctx, r.Contracts, r.Cars, actor.CompanyID,
				staleCustomer, staleCar); err != nil {
				return err
			}
		}

		loaded, err := r.Contracts.GetByID(ctx, actor.CompanyID, contractID)
		if err != nil {
			return err
		}
		updated = loaded
		return nil
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

// Delete removes the contract and refreshes aggregates using the customer
// and car ids captured before the delete.
func (s *ContractService) Delete(ctx context.Context, actor auth.Identity, contractID uuid.UUID) error {
	return s.db.InTx(ctx, func(r contractRepos) error {
		contract, err := r.Contracts.GetByID(ctx, actor.CompanyID, contractID)
		if err != nil {
			return translateNotFound(err)
		}
		if CanModifyContract(actor, contract) != DecisionAllowed {
			return ErrForbidden
		}

		customerID := contract.CustomerID
		carID := contract.CarID

		if err := r.Contracts.Delete(ctx, actor.CompanyID, contractID); err != nil {
			return err
		}

		_, err = RefreshAggregates(ctx, r.Contracts, r.Cars, actor.CompanyID, &customerID, &carID)
		return err
	})
}

func (s *ContractService) Get(ctx context.Context, actor auth.Identity, contractID uuid.UUID) (*model.Contract, error) {
	contract, err := s.db.Repos().Contracts.GetByID(ctx, actor.CompanyID, contractID)
	if err != nil {
		return nil, translateNotFound(err)
	}
	return contract, nil
}

func (s *ContractService) List(ctx context.Context, actor auth.Identity, filter postgres.ContractFilter) ([]model.Contract, int64, error) {
	return s.db.Repos().Contracts.List(ctx, actor.CompanyID, filter)
}

func buildMeetings(inputs []MeetingInput) []model.Meeting {
	if len(inputs) == 0 {
		return nil
	}
	meetings := make([]model.Meeting, 0, len(inputs))
	for _, input := range inputs {
		alarms := make([]string, 0, len(input.Alarms))
		for _, alarm := range input.Alarms {
			alarms = append(alarms, alarm.UTC().Format(time.RFC3339))
		}
		meetings = append(meetings, model.Meeting{
			Date:   input.Date,
			Alarms: alarms,
		})
	}
	return meetings
}
