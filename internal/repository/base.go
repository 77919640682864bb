package repository

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// baseRepository 单表通用读写，具体仓库按需嵌入
type baseRepository[T any] struct {
	db *gorm.DB
}

func (r baseRepository[T]) Create(entity *T) error {
	return r.db.Omit(clause.Associations).Create(entity).Error
}

// Update 整行保存，不级联写入关联
func (r baseRepository[T]) Update(entity *T) error {
	return r.db.Omit(clause.Associations).Save(entity).Error
}

func (r baseRepository[T]) Delete(id uint) error {
	var zero T
	return r.db.Delete(&zero, id).Error
}

// GetByID 不存在时返回 (nil, nil)
func (r baseRepository[T]) GetByID(id uint) (*T, error) {
	var entity T
	if err := r.db.First(&entity, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &entity, nil
}

// firstOrNil 执行查询并把未找到转换为 (nil, nil)
func firstOrNil[T any](query *gorm.DB) (*T, error) {
	var entity T
	if err := query.First(&entity).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &entity, nil
}
