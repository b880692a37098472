package inmemory

import (
	"context"

	"github.com/dmitrijs2005/tilapp/internal/common"
	"github.com/dmitrijs2005/tilapp/internal/server/models"
)

// AcronymRepository implements acronyms.Repository. Lists come back in
// insertion order.
type AcronymRepository struct{ s *Store }

func (r *AcronymRepository) Create(_ context.Context, a *models.Acronym) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.acronyms[a.ID]; ok {
		return violation("acronyms_pkey")
	}
	if _, ok := r.s.users[a.UserID]; !ok {
		return violation("acronyms_user_id_fkey")
	}
	r.s.acronyms[a.ID] = *a
	r.s.acronymSeq = append(r.s.acronymSeq, a.ID)
	return nil
}

func (r *AcronymRepository) GetByID(_ context.Context, id string) (*models.Acronym, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	a, ok := r.s.acronyms[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &a, nil
}

func (r *AcronymRepository) Update(_ context.Context, a *models.Acronym) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.acronyms[a.ID]; !ok {
		return common.ErrorNotFound
	}
	if _, ok := r.s.users[a.UserID]; !ok {
		return violation("acronyms_user_id_fkey")
	}
	r.s.acronyms[a.ID] = *a
	return nil
}

func (r *AcronymRepository) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.acronyms[id]; !ok {
		return common.ErrorNotFound
	}
	for k := range r.s.links {
		if k.acronymID == id {
			return violation("acronym_categories_acronym_id_fkey")
		}
	}
	delete(r.s.acronyms, id)
	for i, v := range r.s.acronymSeq {
		if v == id {
			r.s.acronymSeq = append(r.s.acronymSeq[:i], r.s.acronymSeq[i+1:]...)
			break
		}
	}
	return nil
}

func (r *AcronymRepository) filter(keep func(models.Acronym) bool) []*models.Acronym {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	result := []*models.Acronym{}
	for _, id := range r.s.acronymSeq {
		a := r.s.acronyms[id]
		if keep(a) {
			result = append(result, &a)
		}
	}
	return result
}

func (r *AcronymRepository) List(_ context.Context) ([]*models.Acronym, error) {
	return r.filter(func(models.Acronym) bool { return true }), nil
}

func (r *AcronymRepository) ListByUser(_ context.Context, userID string) ([]*models.Acronym, error) {
	return r.filter(func(a models.Acronym) bool { return a.UserID == userID }), nil
}

func (r *AcronymRepository) ListByCategory(_ context.Context, categoryID int64) ([]*models.Acronym, error) {
	return r.filter(func(a models.Acronym) bool {
		_, ok := r.s.links[linkKey{acronymID: a.ID, categoryID: categoryID}]
		return ok
	}), nil
}

func (r *AcronymRepository) Search(_ context.Context, term string) ([]*models.Acronym, error) {
	return r.filter(func(a models.Acronym) bool { return a.Short == term || a.Long == term }), nil
}

func (r *AcronymRepository) First(ctx context.Context) (*models.Acronym, error) {
	all, _ := r.List(ctx)
	if len(all) == 0 {
		return nil, common.ErrorNotFound
	}
	return all[0], nil
}

func (r *AcronymRepository) Sorted(ctx context.Context) ([]*models.Acronym, error) {
	all, _ := r.List(ctx)
	sortAcronymsByShort(all)
	return all, nil
}

// CategoryRepository implements categories.Repository.
type CategoryRepository struct{ s *Store }

func (r *CategoryRepository) Create(_ context.Context, c *models.Category) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.categoryIDs[c.Name]; ok {
		return violation("categories_name_key")
	}
	r.s.nextCatID++
	c.ID = r.s.nextCatID
	r.s.categories[c.ID] = *c
	r.s.categoryIDs[c.Name] = c.ID
	return nil
}

func (r *CategoryRepository) GetByID(_ context.Context, id int64) (*models.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	c, ok := r.s.categories[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &c, nil
}

func (r *CategoryRepository) GetByName(_ context.Context, name string) (*models.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	id, ok := r.s.categoryIDs[name]
	if !ok {
		return nil, common.ErrorNotFound
	}
	c := r.s.categories[id]
	return &c, nil
}

func (r *CategoryRepository) List(_ context.Context) ([]*models.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	return r.collect(func(models.Category) bool { return true }), nil
}

func (r *CategoryRepository) ListByAcronym(_ context.Context, acronymID string) ([]*models.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	return r.collect(func(c models.Category) bool {
		_, ok := r.s.links[linkKey{acronymID: acronymID, categoryID: c.ID}]
		return ok
	}), nil
}

// collect walks categories in id order. Callers hold the lock.
func (r *CategoryRepository) collect(keep func(models.Category) bool) []*models.Category {
	result := []*models.Category{}
	for id := int64(1); id <= r.s.nextCatID; id++ {
		c, ok := r.s.categories[id]
		if ok && keep(c) {
			result = append(result, &c)
		}
	}
	return result
}

// AcronymCategoryRepository implements acronymcategories.Repository.
type AcronymCategoryRepository struct{ s *Store }

func (r *AcronymCategoryRepository) Create(_ context.Context, link *models.AcronymCategory) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.acronyms[link.AcronymID]; !ok {
		return violation("acronym_categories_acronym_id_fkey")
	}
	if _, ok := r.s.categories[link.CategoryID]; !ok {
		return violation("acronym_categories_category_id_fkey")
	}
	key := linkKey{acronymID: link.AcronymID, categoryID: link.CategoryID}
	if _, ok := r.s.links[key]; ok {
		return violation("acronym_categories_acronym_id_category_id_key")
	}
	r.s.links[key] = *link
	return nil
}

func (r *AcronymCategoryRepository) Exists(_ context.Context, acronymID string, categoryID int64) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	_, ok := r.s.links[linkKey{acronymID: acronymID, categoryID: categoryID}]
	return ok, nil
}

func (r *AcronymCategoryRepository) Delete(_ context.Context, acronymID string, categoryID int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	delete(r.s.links, linkKey{acronymID: acronymID, categoryID: categoryID})
	return nil
}

func (r *AcronymCategoryRepository) DeleteByAcronym(_ context.Context, acronymID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for k := range r.s.links {
		if k.acronymID == acronymID {
			delete(r.s.links, k)
		}
	}
	return nil
}
