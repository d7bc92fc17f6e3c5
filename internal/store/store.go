// Пакет store — контейнеры состояния ресурсов админки.
// Каждый контейнер хранит коллекцию, выбранный элемент, флаг загрузки,
// текст последней ошибки и пагинацию под общим мьютексом. Действия
// выполняют вызов сервиса и согласуют локальное состояние с результатом;
// при гонке действий побеждает последняя запись.
package store

import (
	"errors"

	"github.com/ashirdev/ashare/admin-gateway/internal/backends"
)

// Pagination — состояние постраничного вывода коллекции.
type Pagination struct {
	Page            int
	PageSize        int
	TotalCount      int
	TotalPages      int
	HasNextPage     bool
	HasPreviousPage bool
}

// errorMessage возвращает сообщение backend-ошибки, если оно есть,
// иначе запасной текст ресурса.
func errorMessage(err error, fallback string) string {
	var be *backends.BackendError
	if errors.As(err, &be) && be.Message != "" {
		return be.Message
	}
	return fallback
}
