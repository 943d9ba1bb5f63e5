//go:build tools

// Package chat_relay pins the code generators run by go generate.
package chat_relay

import (
	_ "go.uber.org/mock/mockgen" // mocks/
)
