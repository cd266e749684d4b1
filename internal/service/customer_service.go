package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/fabrikk-as/console-api/internal/domain"
	"github.com/fabrikk-as/console-api/internal/mapper"
	"github.com/fabrikk-as/console-api/internal/repository"
)

// CustomerService manages the customer register
type CustomerService struct {
	repo   *repository.CustomerRepository
	logger *zap.Logger
}

func NewCustomerService(repo *repository.CustomerRepository, logger *zap.Logger) *CustomerService {
	return &CustomerService{repo: repo, logger: logger}
}

func (s *CustomerService) Create(ctx context.Context, req *domain.CreateCustomerRequest) (*domain.CustomerDTO, error) {
	customer := &domain.Customer{
		Name:          req.Name,
		OrgNumber:     req.OrgNumber,
		Email:         req.Email,
		Phone:         req.Phone,
		Address:       req.Address,
		City:          req.City,
		PostalCode:    req.PostalCode,
		Country:       req.Country,
		ContactPerson: req.ContactPerson,
		ContactEmail:  req.ContactEmail,
		ContactPhone:  req.ContactPhone,
		Status:        req.Status,
	}
	if customer.Country == "" {
		customer.Country = "Norway"
	}
	if customer.Status == "" {
		customer.Status = domain.CustomerStatusActive
	}

	if err := s.repo.Create(ctx, customer); err != nil {
		return nil, fmt.Errorf("failed to create customer: %w", err)
	}

	s.logger.Info("customer created",
		zap.String("customer_id", customer.ID.String()),
		zap.String("name", customer.Name))

	dto := mapper.ToCustomerDTO(customer)
	return &dto, nil
}

func (s *CustomerService) GetByID(ctx context.Context, id uuid.UUID) (*domain.CustomerDTO, error) {
	customer, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCustomerNotFound
		}
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}
	dto := mapper.ToCustomerDTO(customer)
	return &dto, nil
}

func (s *CustomerService) Update(ctx context.Context, id uuid.UUID, req *domain.CreateCustomerRequest) (*domain.CustomerDTO, error) {
	customer, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCustomerNotFound
		}
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}

	customer.Name = req.Name
	customer.OrgNumber = req.OrgNumber
	customer.Email = req.Email
	customer.Phone = req.Phone
	customer.Address = req.Address
	customer.City = req.City
	customer.PostalCode = req.PostalCode
	if req.Country != "" {
		customer.Country = req.Country
	}
	customer.ContactPerson = req.ContactPerson
	customer.ContactEmail = req.ContactEmail
	customer.ContactPhone = req.ContactPhone
	if req.Status != "" {
		customer.Status = req.Status
	}

	if err := s.repo.Update(ctx, customer); err != nil {
		return nil, fmt.Errorf("failed to update customer: %w", err)
	}

	dto := mapper.ToCustomerDTO(customer)
	return &dto, nil
}

func (s *CustomerService) List(ctx context.Context, page, pageSize int, status *domain.CustomerStatus) (*domain.ListResponse[domain.CustomerDTO], error) {
	customers, total, err := s.repo.List(ctx, page, pageSize, status)
	if err != nil {
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}

	dtos := make([]domain.CustomerDTO, 0, len(customers))
	for i := range customers {
		dtos = append(dtos, mapper.ToCustomerDTO(&customers[i]))
	}

	return &domain.ListResponse[domain.CustomerDTO]{
		Items:      dtos,
		TotalCount: total,
		Page:       page,
		PageSize:   pageSize,
	}, nil
}

func (s *CustomerService) Search(ctx context.Context, query string, limit int) ([]domain.CustomerDTO, error) {
	customers, err := s.repo.Search(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search customers: %w", err)
	}
	dtos := make([]domain.CustomerDTO, 0, len(customers))
	for i := range customers {
		dtos = append(dtos, mapper.ToCustomerDTO(&customers[i]))
	}
	return dtos, nil
}
