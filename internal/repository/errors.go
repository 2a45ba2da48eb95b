package repository

import "errors"

var (
	ErrNotFound = errors.New("not found")
	// 条件付き更新の前提が崩れた（他の更新と競合）
	ErrConflict = errors.New("conflict")
	// 一意制約違反（SKUなど）
	ErrDuplicate = errors.New("duplicate")
)
