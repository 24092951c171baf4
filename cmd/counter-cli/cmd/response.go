// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"time"
)

type Response struct {
	// The index of the step that generated this response.
	ID int `json:"id"`
	// The result of the step.
	Result Result `json:"result"`
	// The error message if available.
	Error string `json:"error,omitempty"`
}

type Result struct {
	// The account address the step acted on.
	Key string `json:"key,omitempty"`
	// The id of the call that was executed.
	CallID string `json:"callId,omitempty"`
	// The counter after the step has completed.
	Count *uint32 `json:"count,omitempty"`
	// An optional message.
	Msg       string `json:"msg,omitempty"`
	Timestamp int64  `json:"timestamp"`
}

func newResponse(id int) *Response {
	return &Response{
		ID: id,
		Result: Result{
			Timestamp: time.Now().Unix(),
		},
	}
}

func (r *Response) setCount(count uint32) {
	r.Result.Count = &count
}

// Print writes [r] as a single JSON line.
func (r *Response) Print(w io.Writer) error {
	b, err := json.Marshal(r)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}
