package repository

import (
	"errors"

	repo "github.com/ModawnAI/lotte-crm/internal/repository"

	"gorm.io/gorm"
)

// gormのエラーをrepositoryの共通エラーに寄せる
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return repo.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return repo.ErrDuplicate
	}
	return err
}

func applyLimit(q *gorm.DB, limit int) *gorm.DB {
	if limit > 0 {
		return q.Limit(limit)
	}
	return q
}
