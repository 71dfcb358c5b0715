package store

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Windi-Fikriyansyah/platform_be_valentine/internal/models"
)

// NewGormStores wires the postgres-backed implementation. The *gorm.DB must
// be opened with TranslateError so unique-index violations surface as
// gorm.ErrDuplicatedKey.
func NewGormStores(db *gorm.DB) Stores {
	return Stores{
		Orders:     &gormOrderStore{db: db},
		Valentines: &gormValentineStore{db: db},
		Users:      &gormUserStore{db: db},
	}
}

func translateGormErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicateID
	default:
		return err
	}
}

type gormOrderStore struct {
	db *gorm.DB
}

func (s *gormOrderStore) Create(o *models.Order) error {
	return translateGormErr(s.db.Create(o).Error)
}

func (s *gormOrderStore) FindByID(orderID string) (*models.Order, error) {
	var o models.Order
	if err := s.db.Where("order_id = ?", orderID).First(&o).Error; err != nil {
		return nil, translateGormErr(err)
	}
	return &o, nil
}

func (s *gormOrderStore) FindByOwner(userID uuid.UUID) ([]models.Order, error) {
	var out []models.Order
	err := s.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&out).Error
	return out, err
}

func (s *gormOrderStore) FindByStatus(status models.OrderStatus) ([]models.Order, error) {
	var out []models.Order
	err := s.db.Where("status = ?", status).Order("submitted_at ASC").Find(&out).Error
	return out, err
}

func (s *gormOrderStore) Update(orderID string, mutate func(*models.Order) error) (*models.Order, error) {
	var out models.Order
	err := s.db.Transaction(func(tx *gorm.DB) error {
		q := tx.Where("order_id = ?", orderID)
		if tx.Dialector.Name() != "sqlite" {
			// sqlite has no row locks; its single-writer model already
			// serializes concurrent mutators.
			q = q.Clauses(clause.Locking{Strength: "UPDATE"})
		}
		if err := q.First(&out).Error; err != nil {
			return translateGormErr(err)
		}
		if err := mutate(&out); err != nil {
			return err
		}
		return tx.Save(&out).Error
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *gormOrderStore) CountByStatus() (map[models.OrderStatus]int64, error) {
	var rows []struct {
		Status models.OrderStatus
		Total  int64
	}
	err := s.db.Model(&models.Order{}).
		Select("status, count(*) as total").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[models.OrderStatus]int64, len(rows))
	for _, r := range rows {
		counts[r.Status] = r.Total
	}
	return counts, nil
}

func (s *gormOrderStore) PaidRevenue() (int64, error) {
	var total int64
	err := s.db.Model(&models.Order{}).
		Select("coalesce(sum(amount), 0)").
		Where("status = ?", models.OrderStatusPaid).
		Scan(&total).Error
	return total, err
}

type gormValentineStore struct {
	db *gorm.DB
}

func (s *gormValentineStore) Create(v *models.Valentine) error {
	return translateGormErr(s.db.Create(v).Error)
}

func (s *gormValentineStore) FindByID(valentineID string) (*models.Valentine, error) {
	var v models.Valentine
	if err := s.db.Where("valentine_id = ?", valentineID).First(&v).Error; err != nil {
		return nil, translateGormErr(err)
	}
	return &v, nil
}

func (s *gormValentineStore) FindByOwner(userID uuid.UUID) ([]models.Valentine, error) {
	var out []models.Valentine
	err := s.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&out).Error
	return out, err
}

func (s *gormValentineStore) IncrementViews(valentineID string) error {
	res := s.db.Model(&models.Valentine{}).
		Where("valentine_id = ?", valentineID).
		UpdateColumn("views", gorm.Expr("views + 1"))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *gormValentineStore) Count() (int64, error) {
	var n int64
	err := s.db.Model(&models.Valentine{}).Count(&n).Error
	return n, err
}

func (s *gormValentineStore) TotalViews() (int64, error) {
	var total int64
	err := s.db.Model(&models.Valentine{}).
		Select("coalesce(sum(views), 0)").
		Scan(&total).Error
	return total, err
}

type gormUserStore struct {
	db *gorm.DB
}

func (s *gormUserStore) Create(u *models.User) error {
	return translateGormErr(s.db.Create(u).Error)
}

func (s *gormUserStore) FindByEmail(email string) (*models.User, error) {
	var u models.User
	if err := s.db.Where("email = ?", email).First(&u).Error; err != nil {
		return nil, translateGormErr(err)
	}
	return &u, nil
}

func (s *gormUserStore) FindByID(id uuid.UUID) (*models.User, error) {
	var u models.User
	if err := s.db.First(&u, "id = ?", id).Error; err != nil {
		return nil, translateGormErr(err)
	}
	return &u, nil
}

func (s *gormUserStore) Count() (int64, error) {
	var n int64
	err := s.db.Model(&models.User{}).Count(&n).Error
	return n, err
}
