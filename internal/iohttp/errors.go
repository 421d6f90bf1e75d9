package iohttp

import (
	"fmt"
	"runtime"

	"github.com/gnames/gn"
	"github.com/p1data/p1db/pkg/errcode"
)

func RequestError(service string, err error) error {
	msg := "Service <em>%s</em> is not reachable"
	vars := []any{service}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.ServiceRequestError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: %s request: %w", fn, service, err),
	}
}

func StatusError(service string, status int, body string) error {
	msg := "Service <em>%s</em> answered with status %d"
	vars := []any{service, status}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.ServiceStatusError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: %s status %d: %s",
			fn, service, status, body),
	}
}

func DecodeError(service string, err error) error {
	msg := "Cannot understand the answer of <em>%s</em>"
	vars := []any{service}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.ServiceDecodeError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: %s answer: %w", fn, service, err),
	}
}

func NotConfiguredError(service, setting string) error {
	msg := "Service <em>%s</em> is not configured, set <em>%s</em>"
	vars := []any{service, setting}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.ServiceNotConfiguredError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: %s has no %s", fn, service, setting),
	}
}
