package backends

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// TokenSource поставляет access token текущего вызова.
// Пустой токен без ошибки означает «не аутентифицирован».
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// TokenSourceFunc — адаптер функции к интерфейсу TokenSource.
type TokenSourceFunc func(ctx context.Context) (string, error)

// Token реализует TokenSource.
func (f TokenSourceFunc) Token(ctx context.Context) (string, error) {
	return f(ctx)
}

// LoginNotifier получает уведомление о вызове без токена.
// Обычно это перенаправление пользователя на страницу входа.
type LoginNotifier interface {
	RequireLogin(ctx context.Context)
}

// LoginNotifierFunc — адаптер функции к интерфейсу LoginNotifier.
type LoginNotifierFunc func(ctx context.Context)

// RequireLogin реализует LoginNotifier.
func (f LoginNotifierFunc) RequireLogin(ctx context.Context) {
	f(ctx)
}

// CallOptions — опции одного вызова фасада.
type CallOptions struct {
	// SkipAuth — не требовать и не прикладывать токен (login, refresh).
	SkipAuth bool
	// Query — параметры строки запроса.
	Query url.Values
}

// Facade — единая точка входа для запросов к backend-сервисам.
// Для каждого вызова: находит клиент сервиса, читает токен, прикладывает
// Authorization: Bearer, а при отсутствии токена уведомляет LoginNotifier
// ровно один раз и завершает вызов ошибкой ErrUnauthenticated, не
// отправляя запрос. Ретраев и преобразования ответов нет.
type Facade struct {
	registry *Registry
	tokens   TokenSource
	login    LoginNotifier
	logger   *slog.Logger
}

// NewFacade создаёт фасад запросов.
func NewFacade(registry *Registry, tokens TokenSource, login LoginNotifier, logger *slog.Logger) *Facade {
	return &Facade{
		registry: registry,
		tokens:   tokens,
		login:    login,
		logger:   logger.With(slog.String("component", "backends_facade")),
	}
}

// Get выполняет GET-запрос.
func (f *Facade) Get(ctx context.Context, service, endpoint string, opts *CallOptions, out any) error {
	return f.doJSON(ctx, http.MethodGet, service, endpoint, nil, opts, out)
}

// Post выполняет POST-запрос с JSON-телом.
func (f *Facade) Post(ctx context.Context, service, endpoint string, body any, opts *CallOptions, out any) error {
	return f.doJSON(ctx, http.MethodPost, service, endpoint, body, opts, out)
}

// Put выполняет PUT-запрос с JSON-телом.
func (f *Facade) Put(ctx context.Context, service, endpoint string, body any, opts *CallOptions, out any) error {
	return f.doJSON(ctx, http.MethodPut, service, endpoint, body, opts, out)
}

// Patch выполняет PATCH-запрос с JSON-телом.
func (f *Facade) Patch(ctx context.Context, service, endpoint string, body any, opts *CallOptions, out any) error {
	return f.doJSON(ctx, http.MethodPatch, service, endpoint, body, opts, out)
}

// Delete выполняет DELETE-запрос.
func (f *Facade) Delete(ctx context.Context, service, endpoint string, opts *CallOptions, out any) error {
	return f.doJSON(ctx, http.MethodDelete, service, endpoint, nil, opts, out)
}

// PostMultipart выполняет POST-запрос с multipart/form-data телом.
func (f *Facade) PostMultipart(ctx context.Context, service, endpoint string, form *MultipartForm, opts *CallOptions, out any) error {
	body, contentType, err := form.encode()
	if err != nil {
		return fmt.Errorf("ошибка сборки multipart-формы: %w", err)
	}
	return f.do(ctx, http.MethodPost, service, endpoint, body, contentType, opts, out)
}

// doJSON сериализует body в JSON и выполняет запрос.
func (f *Facade) doJSON(ctx context.Context, method, service, endpoint string, body any, opts *CallOptions, out any) error {
	var reader io.Reader
	contentType := ""

	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("ошибка сериализации тела запроса: %w", err)
		}
		reader = bytes.NewReader(payload)
		contentType = "application/json"
	}

	return f.do(ctx, method, service, endpoint, reader, contentType, opts, out)
}

// do — машина состояний одного вызова:
// resolve-client → read-token → (authorized-dispatch | unauthorized-redirect) → settle.
func (f *Facade) do(ctx context.Context, method, service, endpoint string, body io.Reader, contentType string, opts *CallOptions, out any) error {
	if opts == nil {
		opts = &CallOptions{}
	}

	client, err := f.registry.GetInstance(service)
	if err != nil {
		return err
	}

	token := ""
	if !opts.SkipAuth {
		token, err = f.tokens.Token(ctx)
		if err != nil {
			return fmt.Errorf("ошибка чтения токена: %w", err)
		}
		if token == "" {
			unauthenticatedCallsTotal.Inc()
			f.logger.Warn("Вызов без токена — перенаправление на вход",
				slog.String("service", service),
				slog.String("endpoint", endpoint),
			)
			if f.login != nil {
				f.login.RequireLogin(ctx)
			}
			return ErrUnauthenticated
		}
	}

	// Значение токена в лог не попадает — только факт его наличия
	f.logger.Debug("Запрос к backend-сервису",
		slog.String("method", method),
		slog.String("service", service),
		slog.String("endpoint", endpoint),
		slog.Bool("has_token", token != ""),
	)

	target := client.baseURL + endpoint
	if len(opts.Query) > 0 {
		target += "?" + opts.Query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return fmt.Errorf("ошибка создания запроса: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := client.httpClient.Do(req)
	backendRequestDuration.WithLabelValues(service, method).Observe(time.Since(start).Seconds())
	if err != nil {
		backendRequestsTotal.WithLabelValues(service, method, "error").Inc()
		return fmt.Errorf("ошибка запроса к %s: %w", service, err)
	}
	defer resp.Body.Close()

	backendRequestsTotal.WithLabelValues(service, method, strconv.Itoa(resp.StatusCode)).Inc()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return parseBackendError(service, endpoint, resp)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("ошибка декодирования ответа %s %s: %w", service, endpoint, err)
	}
	return nil
}

// --- Multipart ---

// MultipartForm — текстовые поля и файлы multipart/form-data запроса.
type MultipartForm struct {
	fields []formField
	files  []formFile
}

type formField struct {
	name  string
	value string
}

type formFile struct {
	field    string
	fileName string
	content  []byte
}

// NewMultipartForm создаёт пустую multipart-форму.
func NewMultipartForm() *MultipartForm {
	return &MultipartForm{}
}

// AddField добавляет текстовое поле.
func (m *MultipartForm) AddField(name, value string) {
	m.fields = append(m.fields, formField{name: name, value: value})
}

// AddFile добавляет файл под именем поля field.
func (m *MultipartForm) AddFile(field, fileName string, content []byte) {
	m.files = append(m.files, formFile{field: field, fileName: fileName, content: content})
}

// encode собирает тело запроса и возвращает его вместе с Content-Type.
func (m *MultipartForm) encode() (io.Reader, string, error) {
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)

	for _, f := range m.fields {
		if err := w.WriteField(f.name, f.value); err != nil {
			return nil, "", fmt.Errorf("ошибка записи поля %q: %w", f.name, err)
		}
	}

	for _, f := range m.files {
		part, err := w.CreateFormFile(f.field, f.fileName)
		if err != nil {
			return nil, "", fmt.Errorf("ошибка создания файла %q: %w", f.fileName, err)
		}
		if _, err := part.Write(f.content); err != nil {
			return nil, "", fmt.Errorf("ошибка записи файла %q: %w", f.fileName, err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("ошибка завершения multipart-формы: %w", err)
	}

	return buf, w.FormDataContentType(), nil
}
