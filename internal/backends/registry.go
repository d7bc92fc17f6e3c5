// Пакет backends — HTTP-клиенты backend-сервисов и единый фасад запросов.
// Реестр лениво создаёт по одному клиенту на именованный сервис; фасад
// добавляет bearer-токен и перехватывает неаутентифицированные вызовы.
package backends

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"
)

// Имена backend-сервисов.
const (
	// ServiceAuth — сервис аутентификации и identity.
	ServiceAuth = "auth"
	// ServiceUserProfiles — сервис профилей пользователей.
	ServiceUserProfiles = "userProfiles"
	// ServiceOffersManager — сервис управления объявлениями.
	ServiceOffersManager = "offersManager"
	// ServiceOffersSearcher — сервис поиска объявлений.
	ServiceOffersSearcher = "offersSearcher"
)

// Client — HTTP-клиент одного backend-сервиса.
type Client struct {
	name       string
	baseURL    string
	httpClient *http.Client
}

// newClient создаёт клиент сервиса с нормализованным базовым URL.
func newClient(name, baseURL string, timeout time.Duration) *Client {
	return &Client{
		name:    name,
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Name возвращает имя сервиса.
func (c *Client) Name() string {
	return c.name
}

// BaseURL возвращает нормализованный базовый URL сервиса.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Registry — реестр клиентов backend-сервисов.
// Клиент создаётся лениво при первом обращении и кэшируется:
// два вызова GetInstance с одним именем возвращают один и тот же экземпляр.
type Registry struct {
	mu      sync.Mutex
	urls    map[string]string
	timeout time.Duration
	clients map[string]*Client
	logger  *slog.Logger
}

// NewRegistry создаёт реестр по отображению имя сервиса → базовый URL.
func NewRegistry(urls map[string]string, timeout time.Duration, logger *slog.Logger) *Registry {
	return &Registry{
		urls:    urls,
		timeout: timeout,
		clients: make(map[string]*Client),
		logger:  logger.With(slog.String("component", "backends_registry")),
	}
}

// GetInstance возвращает клиент сервиса, создавая его при первом обращении.
func (r *Registry) GetInstance(name string) (*Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if client, ok := r.clients[name]; ok {
		return client, nil
	}

	baseURL, ok := r.urls[name]
	if !ok {
		return nil, fmt.Errorf("неизвестный backend-сервис: %q", name)
	}

	client := newClient(name, baseURL, r.timeout)
	r.clients[name] = client

	r.logger.Debug("Создан клиент backend-сервиса",
		slog.String("service", name),
		slog.String("base_url", client.baseURL),
	)

	return client, nil
}

// ResetAll сбрасывает кэш клиентов (logout, изоляция тестов).
func (r *Registry) ResetAll() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clients = make(map[string]*Client)
}
