package backends

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"
)

// staticToken — TokenSource с фиксированным значением.
func staticToken(token string) TokenSource {
	return TokenSourceFunc(func(ctx context.Context) (string, error) {
		return token, nil
	})
}

// countingNotifier считает уведомления о необходимости входа.
type countingNotifier struct {
	calls atomic.Int32
}

func (n *countingNotifier) RequireLogin(ctx context.Context) {
	n.calls.Add(1)
}

// newTestFacade создаёт фасад, у которого все сервисы указывают на server.
func newTestFacade(server *httptest.Server, tokens TokenSource, login LoginNotifier) *Facade {
	urls := map[string]string{
		ServiceAuth:           server.URL,
		ServiceUserProfiles:   server.URL,
		ServiceOffersManager:  server.URL,
		ServiceOffersSearcher: server.URL,
	}
	registry := NewRegistry(urls, 5*time.Second, testLogger())
	return NewFacade(registry, tokens, login, testLogger())
}

// TestFacade_NoTokenShortCircuit проверяет, что вызов без токена не доходит
// до сети и уведомляет о входе ровно один раз.
func TestFacade_NoTokenShortCircuit(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	defer server.Close()

	notifier := &countingNotifier{}
	f := newTestFacade(server, staticToken(""), notifier)

	err := f.Get(context.Background(), ServiceAuth, "/api/auth/me", nil, nil)
	if !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("Get() вернул %v, ожидается ErrUnauthenticated", err)
	}

	if got := hits.Load(); got != 0 {
		t.Errorf("Запрос дошёл до сети %d раз, ожидается 0", got)
	}
	if got := notifier.calls.Load(); got != 1 {
		t.Errorf("RequireLogin вызван %d раз, ожидается ровно 1", got)
	}
}

// TestFacade_BearerHeader проверяет точное значение заголовка Authorization.
func TestFacade_BearerHeader(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{}`)
	}))
	defer server.Close()

	f := newTestFacade(server, staticToken("token-xyz-123"), nil)

	var out map[string]any
	if err := f.Get(context.Background(), ServiceUserProfiles, "/api/admin/users", nil, &out); err != nil {
		t.Fatalf("Get() вернул ошибку: %v", err)
	}

	if gotAuth != "Bearer token-xyz-123" {
		t.Errorf("Authorization = %q, ожидается %q", gotAuth, "Bearer token-xyz-123")
	}
}

// TestFacade_SkipAuth проверяет, что с SkipAuth заголовок не прикладывается
// и отсутствие токена не является ошибкой.
func TestFacade_SkipAuth(t *testing.T) {
	var gotAuth string
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		gotAuth = r.Header.Get("Authorization")
		io.WriteString(w, `{}`)
	}))
	defer server.Close()

	notifier := &countingNotifier{}
	f := newTestFacade(server, staticToken(""), notifier)

	var out map[string]any
	err := f.Post(context.Background(), ServiceAuth, "/api/Auth/login",
		map[string]string{"email": "a@b.c", "password": "pw"},
		&CallOptions{SkipAuth: true}, &out)
	if err != nil {
		t.Fatalf("Post() с SkipAuth вернул ошибку: %v", err)
	}

	if hits.Load() != 1 {
		t.Errorf("Запрос дошёл до сети %d раз, ожидается 1", hits.Load())
	}
	if gotAuth != "" {
		t.Errorf("Authorization = %q, ожидается пустой заголовок", gotAuth)
	}
	if notifier.calls.Load() != 0 {
		t.Error("RequireLogin не должен вызываться при SkipAuth")
	}
}

// TestFacade_PostJSONBody проверяет сериализацию тела запроса.
func TestFacade_PostJSONBody(t *testing.T) {
	var gotBody map[string]any
	var gotContentType string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
		json.NewDecoder(r.Body).Decode(&gotBody)
		io.WriteString(w, `{"id":"42"}`)
	}))
	defer server.Close()

	f := newTestFacade(server, staticToken("tok"), nil)

	var out struct {
		ID string `json:"id"`
	}
	err := f.Post(context.Background(), ServiceAuth, "/api/roles",
		map[string]any{"name": "moderator"}, nil, &out)
	if err != nil {
		t.Fatalf("Post() вернул ошибку: %v", err)
	}

	if gotContentType != "application/json" {
		t.Errorf("Content-Type = %q, ожидается application/json", gotContentType)
	}
	if gotBody["name"] != "moderator" {
		t.Errorf("Тело запроса = %v, ожидается name=moderator", gotBody)
	}
	if out.ID != "42" {
		t.Errorf("Ответ id = %q, ожидается 42", out.ID)
	}
}

// TestFacade_QueryParams проверяет передачу параметров строки запроса.
func TestFacade_QueryParams(t *testing.T) {
	var gotQuery url.Values
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		io.WriteString(w, `{}`)
	}))
	defer server.Close()

	f := newTestFacade(server, staticToken("tok"), nil)

	query := url.Values{}
	query.Set("page", "3")
	query.Set("pageSize", "25")

	var out map[string]any
	err := f.Get(context.Background(), ServiceOffersManager, "/api/admin/offers",
		&CallOptions{Query: query}, &out)
	if err != nil {
		t.Fatalf("Get() вернул ошибку: %v", err)
	}

	if gotQuery.Get("page") != "3" || gotQuery.Get("pageSize") != "25" {
		t.Errorf("Query = %v, ожидается page=3 pageSize=25", gotQuery)
	}
}

// TestFacade_BackendErrorMessage проверяет разбор формата {"message": ...}.
func TestFacade_BackendErrorMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		io.WriteString(w, `{"message":"Название обязательно"}`)
	}))
	defer server.Close()

	f := newTestFacade(server, staticToken("tok"), nil)

	err := f.Post(context.Background(), ServiceOffersManager, "/api/admin/offers", map[string]any{}, nil, nil)
	if err == nil {
		t.Fatal("Post() должен вернуть ошибку")
	}

	var be *BackendError
	if !errors.As(err, &be) {
		t.Fatalf("Ошибка %v не является BackendError", err)
	}
	if be.StatusCode != http.StatusUnprocessableEntity {
		t.Errorf("StatusCode = %d, ожидается 422", be.StatusCode)
	}
	if be.Message != "Название обязательно" {
		t.Errorf("Message = %q, ожидается сообщение backend", be.Message)
	}
	if be.Service != ServiceOffersManager {
		t.Errorf("Service = %q, ожидается offersManager", be.Service)
	}
}

// TestFacade_BackendErrorEnvelope проверяет разбор формата {"error":{...}}.
func TestFacade_BackendErrorEnvelope(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		io.WriteString(w, `{"error":{"code":"NOT_FOUND","message":"Объявление не найдено"}}`)
	}))
	defer server.Close()

	f := newTestFacade(server, staticToken("tok"), nil)

	err := f.Get(context.Background(), ServiceOffersSearcher, "/api/admin/offers/99", nil, nil)

	var be *BackendError
	if !errors.As(err, &be) {
		t.Fatalf("Ошибка %v не является BackendError", err)
	}
	if be.Code != "NOT_FOUND" {
		t.Errorf("Code = %q, ожидается NOT_FOUND", be.Code)
	}
	if be.Message != "Объявление не найдено" {
		t.Errorf("Message = %q, ожидается сообщение backend", be.Message)
	}
}

// TestFacade_PostMultipart проверяет сборку multipart-формы: текстовые
// поля и файлы под полями images/videos.
func TestFacade_PostMultipart(t *testing.T) {
	type received struct {
		fields map[string]string
		files  map[string][]string
	}
	var got received

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("ParseMultipartForm: %v", err)
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		got.fields = map[string]string{}
		for name, values := range r.MultipartForm.Value {
			got.fields[name] = values[0]
		}
		got.files = map[string][]string{}
		for name, headers := range r.MultipartForm.File {
			for _, h := range headers {
				got.files[name] = append(got.files[name], h.Filename)
			}
		}
		io.WriteString(w, `{"id":"7"}`)
	}))
	defer server.Close()

	f := newTestFacade(server, staticToken("tok"), nil)

	form := NewMultipartForm()
	form.AddField("title", "Квартира у моря")
	form.AddField("price", "1500")
	form.AddFile("images", "image_0.jpg", []byte("jpeg-bytes"))
	form.AddFile("images", "image_1.jpg", []byte("jpeg-bytes"))
	form.AddFile("videos", "video_0.mp4", []byte("mp4-bytes"))

	var out struct {
		ID string `json:"id"`
	}
	err := f.PostMultipart(context.Background(), ServiceOffersManager, "/api/Offers/CreateOffer", form, nil, &out)
	if err != nil {
		t.Fatalf("PostMultipart() вернул ошибку: %v", err)
	}

	if got.fields["title"] != "Квартира у моря" || got.fields["price"] != "1500" {
		t.Errorf("Поля формы = %v, ожидаются title и price", got.fields)
	}
	if len(got.files["images"]) != 2 || got.files["images"][0] != "image_0.jpg" {
		t.Errorf("Файлы images = %v, ожидаются image_0.jpg и image_1.jpg", got.files["images"])
	}
	if len(got.files["videos"]) != 1 || got.files["videos"][0] != "video_0.mp4" {
		t.Errorf("Файлы videos = %v, ожидается video_0.mp4", got.files["videos"])
	}
	if out.ID != "7" {
		t.Errorf("Ответ id = %q, ожидается 7", out.ID)
	}
}

// TestFacade_NoContent проверяет обработку 204 без тела.
func TestFacade_NoContent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	f := newTestFacade(server, staticToken("tok"), nil)

	var out map[string]any
	if err := f.Delete(context.Background(), ServiceAuth, "/api/roles/5", nil, &out); err != nil {
		t.Fatalf("Delete() вернул ошибку: %v", err)
	}
}
