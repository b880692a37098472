package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/tilapp/internal/common"
	"github.com/dmitrijs2005/tilapp/internal/server/models"
	"github.com/dmitrijs2005/tilapp/internal/server/repositories/repomanager"
)

type CategoryService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewCategoryService(db *sql.DB, m repomanager.RepositoryManager) *CategoryService {
	return &CategoryService{db: db, repomanager: m}
}

func (s *CategoryService) Create(ctx context.Context, name string) (*models.Category, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: category name is required", common.ErrorValidation)
	}
	c := &models.Category{Name: name}
	if err := s.repomanager.Categories(s.db).Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *CategoryService) Get(ctx context.Context, id int64) (*models.Category, error) {
	return s.repomanager.Categories(s.db).GetByID(ctx, id)
}

func (s *CategoryService) List(ctx context.Context) ([]*models.Category, error) {
	return s.repomanager.Categories(s.db).List(ctx)
}

// Acronyms lists the acronyms tagged with the category.
func (s *CategoryService) Acronyms(ctx context.Context, id int64) ([]*models.Acronym, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	return s.repomanager.Acronyms(s.db).ListByCategory(ctx, id)
}

// FindOrCreate returns the category with exactly this name, creating it if
// needed. When a concurrent caller wins the insert, its row is returned.
func (s *CategoryService) FindOrCreate(ctx context.Context, name string) (*models.Category, error) {
	repo := s.repomanager.Categories(s.db)

	c, err := repo.GetByName(ctx, name)
	if err == nil {
		return c, nil
	}
	if !errors.Is(err, common.ErrorNotFound) {
		return nil, err
	}

	c, err = s.Create(ctx, name)
	if errors.Is(err, common.ErrConstraintViolation) {
		return repo.GetByName(ctx, name)
	}
	return c, err
}
