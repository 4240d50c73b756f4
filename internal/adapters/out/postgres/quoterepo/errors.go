package quoterepo

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const pgUniqueViolation = "23505"

// isUniqueViolation reports whether err is a unique violation on index. With
// TranslateError enabled GORM hides the constraint name, so gorm.ErrDuplicatedKey
// only matches when index is empty.
func isUniqueViolation(err error, index string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation && (index == "" || pgErr.ConstraintName == index)
	}
	return index == "" && errors.Is(err, gorm.ErrDuplicatedKey)
}
