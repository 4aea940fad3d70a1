package repository

import (
	"errors"

	"github.com/lib/pq"
)

// ErrNotFound возвращается при отсутствии записи
var ErrNotFound = errors.New("record not found")

// ErrDuplicate возвращается при нарушении уникальности ключа (серийный номер, имя сотрудника)
var ErrDuplicate = errors.New("record already exists")

// ErrReadOnlyField возвращается при попытке записать вычисляемое или неизвестное поле
var ErrReadOnlyField = errors.New("field is read-only")

// uniqueViolation код ошибки Postgres unique_violation
const uniqueViolation = "23505"

// isUniqueViolation проверяет, что ошибка драйвера означает дубликат ключа
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == uniqueViolation
	}
	return false
}
