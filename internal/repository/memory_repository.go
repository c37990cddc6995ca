package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/tempizhere/pageanalyzer/internal/models"
)

// MemoryRepository реализует интерфейс Repository с использованием map
type MemoryRepository struct {
	mutex       sync.RWMutex
	urls        map[int64]models.URL
	byName      map[string]int64
	checks      map[int64][]models.URLCheck
	lastURLID   int64
	lastCheckID int64
	now         func() time.Time
}

// NewMemoryRepository создаёт новый экземпляр MemoryRepository
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		urls:   make(map[int64]models.URL),
		byName: make(map[string]int64),
		checks: make(map[int64][]models.URLCheck),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// CreateURL сохраняет адрес или возвращает существующий
func (r *MemoryRepository) CreateURL(_ context.Context, name string) (models.URL, bool, error) {
	return r.createURL(name, nil)
}

// createURL создаёт адрес. Если persist вернул ошибку, состояние не меняется.
func (r *MemoryRepository) createURL(name string, persist func(models.URL) error) (models.URL, bool, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if id, exists := r.byName[name]; exists {
		return r.urls[id], false, nil
	}
	u := models.URL{ID: r.lastURLID + 1, Name: name, CreatedAt: r.now()}
	if persist != nil {
		if err := persist(u); err != nil {
			return models.URL{}, false, err
		}
	}
	r.putURL(u)
	return u, true, nil
}

// FindURL возвращает адрес по ID
func (r *MemoryRepository) FindURL(_ context.Context, id int64) (models.URL, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	u, exists := r.urls[id]
	if !exists {
		return models.URL{}, ErrNotFound
	}
	return u, nil
}

// ListURLs возвращает адреса с последней проверкой, новые первыми
func (r *MemoryRepository) ListURLs(_ context.Context) ([]models.URLListItem, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	items := make([]models.URLListItem, 0, len(r.urls))
	for _, u := range r.urls {
		item := models.URLListItem{URL: u}
		if checks := r.checks[u.ID]; len(checks) > 0 {
			last := checks[len(checks)-1]
			at, code := last.CreatedAt, last.StatusCode
			item.LastCheckAt = &at
			item.LastStatusCode = &code
		}
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID > items[j].ID })
	return items, nil
}

// CreateCheck добавляет проверку к существующему адресу
func (r *MemoryRepository) CreateCheck(_ context.Context, check models.URLCheck) (models.URLCheck, error) {
	return r.createCheck(check, nil)
}

// createCheck добавляет проверку. Если persist вернул ошибку, состояние не меняется.
func (r *MemoryRepository) createCheck(check models.URLCheck, persist func(models.URLCheck) error) (models.URLCheck, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, exists := r.urls[check.URLID]; !exists {
		return models.URLCheck{}, ErrNotFound
	}
	check.ID = r.lastCheckID + 1
	check.CreatedAt = r.now()
	if persist != nil {
		if err := persist(check); err != nil {
			return models.URLCheck{}, err
		}
	}
	r.putCheck(check)
	return check, nil
}

// ListChecks возвращает проверки адреса, новые первыми
func (r *MemoryRepository) ListChecks(_ context.Context, urlID int64) ([]models.URLCheck, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	stored := r.checks[urlID]
	checks := make([]models.URLCheck, 0, len(stored))
	for i := len(stored) - 1; i >= 0; i-- {
		checks = append(checks, stored[i])
	}
	return checks, nil
}

// Stats считает адреса и проверки
func (r *MemoryRepository) Stats(_ context.Context) (models.Stats, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	s := models.Stats{URLs: len(r.urls)}
	for _, checks := range r.checks {
		s.Checks += len(checks)
	}
	return s, nil
}

// putURL кладёт адрес с готовым ID, вызывается под блокировкой
func (r *MemoryRepository) putURL(u models.URL) {
	r.urls[u.ID] = u
	r.byName[u.Name] = u.ID
	if u.ID > r.lastURLID {
		r.lastURLID = u.ID
	}
}

// putCheck кладёт проверку с готовым ID, вызывается под блокировкой
func (r *MemoryRepository) putCheck(c models.URLCheck) {
	r.checks[c.URLID] = append(r.checks[c.URLID], c)
	if c.ID > r.lastCheckID {
		r.lastCheckID = c.ID
	}
}
