// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package process

import (
	"bytes"
	"errors"
	"fmt"
	"testing"
)

type codedError int

func (c codedError) Error() string { return fmt.Sprintf("exit %d", int(c)) }
func (c codedError) ExitCode() int { return int(c) }

func TestReport(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		code int
		text string
	}{
		{name: "plain", err: errors.New("data directory missing"), code: 1, text: "error: data directory missing\n"},
		{name: "coded", err: codedError(3), code: 3, text: "error: exit 3\n"},
		{name: "wrapped coded", err: fmt.Errorf("opening: %w", codedError(4)), code: 4, text: "error: opening: exit 4\n"},
		{name: "zero code", err: codedError(0), code: 1, text: "error: exit 0\n"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			var buffer bytes.Buffer
			if code := report(&buffer, test.err); code != test.code {
				t.Errorf("report() = %d, want %d", code, test.code)
			}
			if buffer.String() != test.text {
				t.Errorf("output = %q, want %q", buffer.String(), test.text)
			}
		})
	}
}
