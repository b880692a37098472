package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/tilapp/internal/common"
	"github.com/dmitrijs2005/tilapp/internal/dbx"
	"github.com/dmitrijs2005/tilapp/internal/logging"
	"github.com/dmitrijs2005/tilapp/internal/server/models"
	"github.com/dmitrijs2005/tilapp/internal/server/reconcile"
	"github.com/dmitrijs2005/tilapp/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

// AcronymService manages acronyms and their categories.
type AcronymService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	categories  *CategoryService
	reconciler  *reconcile.Reconciler
}

// NewAcronymService builds the service. parallelism bounds the concurrent
// category operations of a single SyncCategories call.
func NewAcronymService(db *sql.DB, m repomanager.RepositoryManager, categories *CategoryService, parallelism int, logger logging.Logger) *AcronymService {
	s := &AcronymService{db: db, repomanager: m, categories: categories}
	s.reconciler = reconcile.New(tagStore{s}, parallelism, logger)
	return s
}

func validateAcronym(short, long string) (string, string, error) {
	short, long = strings.TrimSpace(short), strings.TrimSpace(long)
	if short == "" || long == "" {
		return "", "", fmt.Errorf("%w: short and long are required", common.ErrorValidation)
	}
	return short, long, nil
}

func (s *AcronymService) List(ctx context.Context) ([]*models.Acronym, error) {
	return s.repomanager.Acronyms(s.db).List(ctx)
}

func (s *AcronymService) Get(ctx context.Context, id string) (*models.Acronym, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	return s.repomanager.Acronyms(s.db).GetByID(ctx, id)
}

// Create stores a new acronym owned by userID.
func (s *AcronymService) Create(ctx context.Context, userID, short, long string) (*models.Acronym, error) {
	short, long, err := validateAcronym(short, long)
	if err != nil {
		return nil, err
	}
	a := &models.Acronym{ID: uuid.NewString(), Short: short, Long: long, UserID: userID}
	if err := s.repomanager.Acronyms(s.db).Create(ctx, a); err != nil {
		return nil, fmt.Errorf("error creating acronym: %w", err)
	}
	return a, nil
}

// Update replaces short and long and makes userID the owner.
func (s *AcronymService) Update(ctx context.Context, id, userID, short, long string) (*models.Acronym, error) {
	short, long, err := validateAcronym(short, long)
	if err != nil {
		return nil, err
	}
	a, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	a.Short, a.Long, a.UserID = short, long, userID
	if err := s.repomanager.Acronyms(s.db).Update(ctx, a); err != nil {
		return nil, fmt.Errorf("error updating acronym: %w", err)
	}
	return a, nil
}

// Delete removes the acronym together with its category links.
func (s *AcronymService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return s.repomanager.InTx(ctx, s.db, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.AcronymCategories(tx).DeleteByAcronym(ctx, id); err != nil {
			return err
		}
		return s.repomanager.Acronyms(tx).Delete(ctx, id)
	})
}

// Search returns acronyms whose short or long form equals term.
func (s *AcronymService) Search(ctx context.Context, term string) ([]*models.Acronym, error) {
	if term == "" {
		return nil, fmt.Errorf("%w: search term is required", common.ErrorValidation)
	}
	return s.repomanager.Acronyms(s.db).Search(ctx, term)
}

func (s *AcronymService) First(ctx context.Context) (*models.Acronym, error) {
	return s.repomanager.Acronyms(s.db).First(ctx)
}

func (s *AcronymService) Sorted(ctx context.Context) ([]*models.Acronym, error) {
	return s.repomanager.Acronyms(s.db).Sorted(ctx)
}

// Owner returns the user who owns the acronym.
func (s *AcronymService) Owner(ctx context.Context, id string) (*models.User, error) {
	a, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.repomanager.Users(s.db).GetByID(ctx, a.UserID)
}

func (s *AcronymService) Categories(ctx context.Context, id string) ([]*models.Category, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	return s.repomanager.Categories(s.db).ListByAcronym(ctx, id)
}

// AttachCategory links the acronym to an existing category. Attaching an
// already linked category is a no-op.
func (s *AcronymService) AttachCategory(ctx context.Context, id string, categoryID int64) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if _, err := s.categories.Get(ctx, categoryID); err != nil {
		return err
	}
	return s.attach(ctx, id, categoryID)
}

func (s *AcronymService) attach(ctx context.Context, id string, categoryID int64) error {
	repo := s.repomanager.AcronymCategories(s.db)
	ok, err := repo.Exists(ctx, id, categoryID)
	if err != nil {
		return err
	}
	if ok {
		return nil
	}
	err = repo.Create(ctx, &models.AcronymCategory{ID: uuid.NewString(), AcronymID: id, CategoryID: categoryID})
	if errors.Is(err, common.ErrConstraintViolation) {
		// lost a race with a concurrent attach of the same pair
		if ok, e := repo.Exists(ctx, id, categoryID); e == nil && ok {
			return nil
		}
	}
	return err
}

// DetachCategory removes the link between the acronym and the category.
func (s *AcronymService) DetachCategory(ctx context.Context, id string, categoryID int64) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if _, err := s.categories.Get(ctx, categoryID); err != nil {
		return err
	}
	return s.repomanager.AcronymCategories(s.db).Delete(ctx, id, categoryID)
}

// SyncCategories makes the acronym's categories equal to names, creating
// categories that do not exist yet. Empty names are ignored. On partial
// failure the applied changes stay and the error is a
// *reconcile.PartialFailureError.
func (s *AcronymService) SyncCategories(ctx context.Context, id string, names []string) (*reconcile.Result, error) {
	current, err := s.Categories(ctx, id)
	if err != nil {
		return nil, err
	}
	target := make([]string, 0, len(names))
	for _, n := range names {
		if n != "" {
			target = append(target, n)
		}
	}
	return s.reconciler.Reconcile(ctx, id, current, target)
}

type tagStore struct{ s *AcronymService }

func (t tagStore) FindOrCreateTag(ctx context.Context, name string) (*models.Category, error) {
	return t.s.categories.FindOrCreate(ctx, name)
}

func (t tagStore) Attach(ctx context.Context, id string, tag *models.Category) error {
	return t.s.attach(ctx, id, tag.ID)
}

func (t tagStore) Detach(ctx context.Context, id string, tag *models.Category) error {
	return t.s.repomanager.AcronymCategories(t.s.db).Delete(ctx, id, tag.ID)
}
