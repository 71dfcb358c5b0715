package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Windi-Fikriyansyah/platform_be_valentine/internal/models"
)

// fileDB keeps every collection in memory and rewrites one JSON file per
// collection on change. A single mutex serializes all mutations, which is
// the whole concurrency story this backend needs: one process, small data.
type fileDB struct {
	dir string

	mu         sync.Mutex
	orders     []models.Order
	valentines []models.Valentine
	users      []models.User
}

// NewFileStores opens (or initializes) the flat-file backend under dir.
func NewFileStores(dir string) (Stores, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Stores{}, fmt.Errorf("file store: %w", err)
	}
	db := &fileDB{dir: dir}
	if err := loadJSON(filepath.Join(dir, "orders.json"), &db.orders); err != nil {
		return Stores{}, err
	}
	if err := loadJSON(filepath.Join(dir, "valentines.json"), &db.valentines); err != nil {
		return Stores{}, err
	}
	if err := loadJSON(filepath.Join(dir, "users.json"), &db.users); err != nil {
		return Stores{}, err
	}
	return Stores{
		Orders:     &fileOrderStore{db: db},
		Valentines: &fileValentineStore{db: db},
		Users:      &fileUserStore{db: db},
	}, nil
}

func loadJSON(path string, v interface{}) error {
	b, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("file store: %w", err)
	}
	if err := json.Unmarshal(b, v); err != nil {
		return fmt.Errorf("file store: corrupt %s: %w", filepath.Base(path), err)
	}
	return nil
}

// saveJSON writes via temp file + rename so a crash mid-write never leaves
// a truncated collection behind.
func saveJSON(path string, v interface{}) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("file store: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return fmt.Errorf("file store: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("file store: %w", err)
	}
	return nil
}

func (db *fileDB) saveOrders() error {
	return saveJSON(filepath.Join(db.dir, "orders.json"), db.orders)
}

func (db *fileDB) saveValentines() error {
	return saveJSON(filepath.Join(db.dir, "valentines.json"), db.valentines)
}

func (db *fileDB) saveUsers() error {
	return saveJSON(filepath.Join(db.dir, "users.json"), db.users)
}

type fileOrderStore struct {
	db *fileDB
}

func (s *fileOrderStore) Create(o *models.Order) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	for i := range s.db.orders {
		if s.db.orders[i].OrderID == o.OrderID {
			return ErrDuplicateID
		}
	}
	if o.CreatedAt.IsZero() {
		o.CreatedAt = time.Now()
	}
	s.db.orders = append(s.db.orders, *o)
	return s.db.saveOrders()
}

func (s *fileOrderStore) FindByID(orderID string) (*models.Order, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	for i := range s.db.orders {
		if s.db.orders[i].OrderID == orderID {
			cp := s.db.orders[i]
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (s *fileOrderStore) FindByOwner(userID uuid.UUID) ([]models.Order, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	var out []models.Order
	for i := range s.db.orders {
		if s.db.orders[i].UserID != nil && *s.db.orders[i].UserID == userID {
			out = append(out, s.db.orders[i])
		}
	}
	sort.SliceStable(out, func(a, b int) bool {
		return out[a].CreatedAt.After(out[b].CreatedAt)
	})
	return out, nil
}

func (s *fileOrderStore) FindByStatus(status models.OrderStatus) ([]models.Order, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	var out []models.Order
	for i := range s.db.orders {
		if s.db.orders[i].Status == status {
			out = append(out, s.db.orders[i])
		}
	}
	sort.SliceStable(out, func(a, b int) bool {
		ta, tb := out[a].SubmittedAt, out[b].SubmittedAt
		if ta == nil || tb == nil {
			return tb == nil && ta != nil
		}
		return ta.Before(*tb)
	})
	return out, nil
}

func (s *fileOrderStore) Update(orderID string, mutate func(*models.Order) error) (*models.Order, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	for i := range s.db.orders {
		if s.db.orders[i].OrderID != orderID {
			continue
		}
		cp := s.db.orders[i]
		if err := mutate(&cp); err != nil {
			return nil, err // stored record untouched
		}
		s.db.orders[i] = cp
		if err := s.db.saveOrders(); err != nil {
			return nil, err
		}
		out := cp
		return &out, nil
	}
	return nil, ErrNotFound
}

func (s *fileOrderStore) CountByStatus() (map[models.OrderStatus]int64, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	counts := make(map[models.OrderStatus]int64)
	for i := range s.db.orders {
		counts[s.db.orders[i].Status]++
	}
	return counts, nil
}

func (s *fileOrderStore) PaidRevenue() (int64, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	var total int64
	for i := range s.db.orders {
		if s.db.orders[i].Status == models.OrderStatusPaid {
			total += s.db.orders[i].Amount
		}
	}
	return total, nil
}

type fileValentineStore struct {
	db *fileDB
}

func (s *fileValentineStore) Create(v *models.Valentine) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	for i := range s.db.valentines {
		if s.db.valentines[i].ValentineID == v.ValentineID {
			return ErrDuplicateID
		}
	}
	if v.CreatedAt.IsZero() {
		v.CreatedAt = time.Now()
	}
	s.db.valentines = append(s.db.valentines, *v)
	return s.db.saveValentines()
}

func (s *fileValentineStore) FindByID(valentineID string) (*models.Valentine, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	for i := range s.db.valentines {
		if s.db.valentines[i].ValentineID == valentineID {
			cp := s.db.valentines[i]
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (s *fileValentineStore) FindByOwner(userID uuid.UUID) ([]models.Valentine, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	var out []models.Valentine
	for i := range s.db.valentines {
		if s.db.valentines[i].UserID != nil && *s.db.valentines[i].UserID == userID {
			out = append(out, s.db.valentines[i])
		}
	}
	sort.SliceStable(out, func(a, b int) bool {
		return out[a].CreatedAt.After(out[b].CreatedAt)
	})
	return out, nil
}

func (s *fileValentineStore) IncrementViews(valentineID string) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	for i := range s.db.valentines {
		if s.db.valentines[i].ValentineID == valentineID {
			s.db.valentines[i].Views++
			return s.db.saveValentines()
		}
	}
	return ErrNotFound
}

func (s *fileValentineStore) Count() (int64, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	return int64(len(s.db.valentines)), nil
}

func (s *fileValentineStore) TotalViews() (int64, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	var total int64
	for i := range s.db.valentines {
		total += s.db.valentines[i].Views
	}
	return total, nil
}

type fileUserStore struct {
	db *fileDB
}

func (s *fileUserStore) Create(u *models.User) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	for i := range s.db.users {
		if s.db.users[i].Email == u.Email {
			return ErrDuplicateID
		}
	}
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	now := time.Now()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	u.UpdatedAt = now
	s.db.users = append(s.db.users, *u)
	return s.db.saveUsers()
}

func (s *fileUserStore) FindByEmail(email string) (*models.User, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	for i := range s.db.users {
		if s.db.users[i].Email == email {
			cp := s.db.users[i]
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (s *fileUserStore) FindByID(id uuid.UUID) (*models.User, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	for i := range s.db.users {
		if s.db.users[i].ID == id {
			cp := s.db.users[i]
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (s *fileUserStore) Count() (int64, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	return int64(len(s.db.users)), nil
}
