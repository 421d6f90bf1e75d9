package iogeo

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/gnames/gn"
	"github.com/p1data/p1db/pkg/errcode"
)

func NotFoundError(address string) error {
	msg := "Address <em>%s</em> is not found"
	vars := []any{address}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.GeocodeNotFoundError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: no results for %q", fn, address),
	}
}

// IsNotFound reports if err means the address has no match, as opposed to
// a failing service.
func IsNotFound(err error) bool {
	var gnErr *gn.Error
	return errors.As(err, &gnErr) && gnErr.Code == errcode.GeocodeNotFoundError
}
