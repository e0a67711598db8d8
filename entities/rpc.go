package entities

import "errors"

type RPCError struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

type RPCBaseRes struct {
	ID       uint64    `json:"id"`
	RPCError *RPCError `json:"error"`
}

// Err returns the error carried by the response, if any.
func (r RPCBaseRes) Err() error {
	if r.RPCError == nil {
		return nil
	}
	return errors.New(r.RPCError.Message)
}
