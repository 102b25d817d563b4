// Package protocol defines the broadcast vocabulary shared by the page relay
// and the content-side adapters: chain families, request kinds, message tags
// and the Message envelope that travels over the bus.
package protocol

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownChainFamily is returned when a chain family name cannot be parsed.
var ErrUnknownChainFamily = errors.New("unknown chain family")

// ChainFamily identifies one of the supported wallet ecosystems. Its value is
// the upper-case suffix used in every message tag (e.g. "SOLANA").
type ChainFamily string

const (
	Ethereum ChainFamily = "ETHEREUM"
	Solana   ChainFamily = "SOLANA"
	Starknet ChainFamily = "STARKNET"
)

// Families lists every supported chain family in a stable order.
var Families = []ChainFamily{Ethereum, Solana, Starknet}

// Valid reports whether f is one of the supported chain families.
func (f ChainFamily) Valid() bool {
	switch f {
	case Ethereum, Solana, Starknet:
		return true
	}
	return false
}

// String returns the lower-case name, as used on the command line and in logs.
func (f ChainFamily) String() string {
	return strings.ToLower(string(f))
}

// ParseChainFamily parses a chain family name case-insensitively.
// "evm" is accepted as an alias for ethereum.
func ParseChainFamily(s string) (ChainFamily, error) {
	switch f := ChainFamily(strings.ToUpper(strings.TrimSpace(s))); f {
	case Ethereum, Solana, Starknet:
		return f, nil
	case "EVM":
		return Ethereum, nil
	}

	return "", fmt.Errorf("%w: %q", ErrUnknownChainFamily, s)
}

// Kind is the kind of wallet request carried by a message.
type Kind uint8

const (
	KindConnect Kind = iota + 1
	KindSign
)

func (k Kind) String() string {
	switch k {
	case KindConnect:
		return "connect"
	case KindSign:
		return "sign"
	}
	return "unknown"
}
