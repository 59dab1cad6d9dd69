package handler

import (
	"errors"

	"tempo/internal/errorx"
)

// badRequest turns a request parsing failure into a 400. Errors that
// already carry a status pass through.
func badRequest(err error) error {
	var ce *errorx.CodeError
	if errors.As(err, &ce) {
		return err
	}
	return errorx.BadRequest(err.Error())
}
