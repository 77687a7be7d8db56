package wizard

import "errors"

var (
	// ErrSessionNotFound возвращается, когда сессия не найдена или истекла
	ErrSessionNotFound = errors.New("wizard: session not found")

	// ErrInvalidStep возвращается при операции, недопустимой на текущем шаге
	ErrInvalidStep = errors.New("wizard: operation is not allowed on this step")

	// ErrStepIncomplete возвращается, когда на текущем шаге заполнены не все поля
	ErrStepIncomplete = errors.New("wizard: current step is incomplete")

	// ErrSubmitInFlight возвращается при повторном submit, пока первый не завершился
	ErrSubmitInFlight = errors.New("wizard: submit is already in flight")

	// ErrAlreadySubmitted возвращается при любой операции после успешного submit
	ErrAlreadySubmitted = errors.New("wizard: session is already submitted")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("wizard: invalid input data")

	// ErrInternal возвращается при внутренних ошибках
	ErrInternal = errors.New("wizard: internal error")
)
