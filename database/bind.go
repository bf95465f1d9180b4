package database

import (
	"fmt"
	"reflect"
)

// Bind returns the positional arguments for a prepared statement: element i
// is bound to placeholder i+1. Channels, funcs and unsafe pointers fail with
// ErrUnbindableParameter. Every other value is handed to the driver, whose own
// converter decides; a value it rejects fails at execution with a KindBind
// RichError.
func Bind(params []any) ([]any, error) {
	args := make([]any, len(params))
	for i, p := range params {
		if err := checkBindable(p); err != nil {
			return nil, fmt.Errorf("%w: parameter %d of type %T: %v", ErrUnbindableParameter, i+1, p, err)
		}
		args[i] = p
	}
	return args, nil
}

func checkBindable(p any) error {
	if p == nil {
		return nil
	}
	switch k := reflect.TypeOf(p).Kind(); k {
	case reflect.Chan, reflect.Func, reflect.UnsafePointer:
		return fmt.Errorf("no driver accepts a %s", k)
	default:
		return nil
	}
}
