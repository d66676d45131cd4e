package service

import "errors"

var (
	// ErrValidation 在输入缺失或格式不正确时返回，携带字段级描述
	ErrValidation = errors.New("invalid input")
	// ErrUnauthorized 表示凭证或令牌无效，对外只暴露统一的提示
	ErrUnauthorized = errors.New("invalid credentials")
	// ErrConflict 在已存在 owner 时再次注册返回
	ErrConflict = errors.New("profile already exists")
	// ErrNotFound 在 profile、link 不存在或用户名被保留时返回
	ErrNotFound = errors.New("not found")
)
