package repository

import (
	"time"

	maildomain "github.com/KrasilnikovaKateryna/detect-autogenerated-emails-bot/internal/mail/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// NewsRepository is the record sink for classified messages.
type NewsRepository interface {
	InsertAuto(news *maildomain.AutoNews) error
	InsertUser(news *maildomain.UserNews) error
	InsertManyAuto(news []*maildomain.AutoNews) error
	InsertManyUser(news []*maildomain.UserNews) error
	ListAuto(limit, offset int) ([]*maildomain.AutoNews, int64, error)
	ListUser(limit, offset int) ([]*maildomain.UserNews, int64, error)
	// ClearAll wipes both tables for a full-refresh run.
	ClearAll() error
}

// newsRepository implements NewsRepository using GORM
type newsRepository struct {
	db *gorm.DB
}

// NewNewsRepository creates a new GORM-based NewsRepository
func NewNewsRepository(db *gorm.DB) NewsRepository {
	return &newsRepository{db: db}
}

func (r *newsRepository) InsertAuto(news *maildomain.AutoNews) error {
	if news.ID == "" {
		news.ID = uuid.New().String()
	}
	news.CreatedAt = time.Now()
	return r.db.Create(news).Error
}

func (r *newsRepository) InsertUser(news *maildomain.UserNews) error {
	if news.ID == "" {
		news.ID = uuid.New().String()
	}
	news.CreatedAt = time.Now()
	return r.db.Create(news).Error
}

func (r *newsRepository) InsertManyAuto(news []*maildomain.AutoNews) error {
	if len(news) == 0 {
		return nil
	}
	now := time.Now()
	for _, n := range news {
		if n.ID == "" {
			n.ID = uuid.New().String()
		}
		n.CreatedAt = now
	}
	return r.db.Create(&news).Error
}

func (r *newsRepository) InsertManyUser(news []*maildomain.UserNews) error {
	if len(news) == 0 {
		return nil
	}
	now := time.Now()
	for _, n := range news {
		if n.ID == "" {
			n.ID = uuid.New().String()
		}
		n.CreatedAt = now
	}
	return r.db.Create(&news).Error
}

func (r *newsRepository) ListAuto(limit, offset int) ([]*maildomain.AutoNews, int64, error) {
	var news []*maildomain.AutoNews
	var total int64

	if err := r.db.Model(&maildomain.AutoNews{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.db.Order("created_at DESC").Limit(limit).Offset(offset).Find(&news).Error
	return news, total, err
}

func (r *newsRepository) ListUser(limit, offset int) ([]*maildomain.UserNews, int64, error) {
	var news []*maildomain.UserNews
	var total int64

	if err := r.db.Model(&maildomain.UserNews{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.db.Order("created_at DESC").Limit(limit).Offset(offset).Find(&news).Error
	return news, total, err
}

func (r *newsRepository) ClearAll() error {
	if err := r.db.Where("1 = 1").Delete(&maildomain.AutoNews{}).Error; err != nil {
		return err
	}
	return r.db.Where("1 = 1").Delete(&maildomain.UserNews{}).Error
}
