package backends

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// ErrUnauthenticated — вызов без токена, требующий аутентификации.
// Запрос к сети при этом не отправляется.
var ErrUnauthenticated = errors.New("пользователь не аутентифицирован")

// BackendError — ответ backend-сервиса со статусом вне 2xx.
type BackendError struct {
	// Service — имя backend-сервиса.
	Service string
	// Endpoint — относительный путь запроса.
	Endpoint string
	// StatusCode — HTTP-статус ответа.
	StatusCode int
	// Code — машиночитаемый код ошибки из тела ответа, если есть.
	Code string
	// Message — сообщение об ошибке из тела ответа.
	Message string
}

func (e *BackendError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s %s: %d %s", e.Service, e.Endpoint, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s %s: %d %s", e.Service, e.Endpoint, e.StatusCode, http.StatusText(e.StatusCode))
}

// parseBackendError разбирает тело ошибочного ответа.
// Поддерживаются оба формата backend-сервисов:
// {"error":{"code":"...","message":"..."}} и {"message":"..."}.
func parseBackendError(service, endpoint string, resp *http.Response) *BackendError {
	be := &BackendError{
		Service:    service,
		Endpoint:   endpoint,
		StatusCode: resp.StatusCode,
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if err != nil || len(body) == 0 {
		return be
	}

	var envelope struct {
		Error *struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
		Code    string `json:"code"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil {
		switch {
		case envelope.Error != nil:
			be.Code = envelope.Error.Code
			be.Message = envelope.Error.Message
		case envelope.Message != "":
			be.Code = envelope.Code
			be.Message = envelope.Message
		}
	}

	if be.Message == "" {
		// Нераспознанное тело — сохраняем как есть
		be.Message = strings.TrimSpace(string(body))
	}

	return be
}
