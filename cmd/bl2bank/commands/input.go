// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"fmt"
	"io"
	"os"
)

// readText returns the contents of path, or of stdin when path is
// empty or "-".
func (s *session) readText(path string) (string, error) {
	if path == "" || path == "-" {
		data, err := io.ReadAll(s.env.Stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return string(data), nil
}

// optionalArg returns args[index], or "" when there are fewer args.
func optionalArg(args []string, index int) string {
	if index < len(args) {
		return args[index]
	}
	return ""
}
