package policy

import "errors"

var (
	// ErrPolicyNotFound возвращается, когда конфигурация салона не найдена
	ErrPolicyNotFound = errors.New("policy.repository: policy config not found")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("policy.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("policy.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("policy.repository: failed to scan row")

	// ErrEncodeTiers возвращается при ошибке сериализации ступеней штрафов
	ErrEncodeTiers = errors.New("policy.repository: failed to encode cancellation fee tiers")
)
