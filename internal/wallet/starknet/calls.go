package starknet

import (
	"encoding/json"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/gabapcia/blinkrelay/internal/pkg/validator"
)

// Call is one contract invocation in the wallet API shape.
type Call struct {
	ContractAddress string   `json:"contract_address" validate:"required,startswith=0x,hexadecimal"`
	EntryPoint      string   `json:"entry_point" validate:"required"`
	Calldata        []string `json:"calldata"`
}

// inputCall accepts both the wallet API field names and the starknet.js
// ones (contractAddress, entrypoint).
type inputCall struct {
	ContractAddress      string            `json:"contract_address"`
	ContractAddressCamel string            `json:"contractAddress"`
	EntryPoint           string            `json:"entry_point"`
	EntryPointLower      string            `json:"entrypoint"`
	Calldata             []json.RawMessage `json:"calldata"`
}

func (c inputCall) normalize() (Call, error) {
	call := Call{
		ContractAddress: firstNonEmpty(c.ContractAddress, c.ContractAddressCamel),
		EntryPoint:      firstNonEmpty(c.EntryPoint, c.EntryPointLower),
		Calldata:        make([]string, 0, len(c.Calldata)),
	}

	for i, raw := range c.Calldata {
		felt, err := parseFelt(raw)
		if err != nil {
			return Call{}, fmt.Errorf("calldata[%d]: %w", i, err)
		}
		call.Calldata = append(call.Calldata, felt)
	}

	if err := validator.Validate(call); err != nil {
		return Call{}, err
	}

	return call, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// parseFelt renders a calldata element (JSON number, decimal string or hex
// string) as a 0x-prefixed hex felt.
func parseFelt(raw json.RawMessage) (string, error) {
	s := strings.TrimSpace(string(raw))
	if strings.HasPrefix(s, `"`) {
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", err
		}
	}

	base := 10
	digits := s
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		base, digits = 16, s[2:]
	}

	v, ok := new(big.Int).SetString(digits, base)
	if !ok || v.Sign() < 0 {
		return "", fmt.Errorf("invalid felt %s", raw)
	}

	return hexutil.EncodeBig(v), nil
}

// decodeCalls parses a serialized invocation: a single call, an array of
// calls, or an object with a calls array.
func decodeCalls(serialized string) ([]Call, error) {
	serialized = strings.TrimSpace(serialized)

	var inputs []inputCall
	switch {
	case strings.HasPrefix(serialized, "["):
		if err := json.Unmarshal([]byte(serialized), &inputs); err != nil {
			return nil, err
		}
	case strings.HasPrefix(serialized, "{"):
		var wrapper struct {
			Calls []inputCall `json:"calls"`
		}
		if err := json.Unmarshal([]byte(serialized), &wrapper); err != nil {
			return nil, err
		}
		if wrapper.Calls != nil {
			inputs = wrapper.Calls
			break
		}

		var single inputCall
		if err := json.Unmarshal([]byte(serialized), &single); err != nil {
			return nil, err
		}
		inputs = []inputCall{single}
	default:
		return nil, fmt.Errorf("transaction is not a JSON object or array")
	}

	if len(inputs) == 0 {
		return nil, fmt.Errorf("transaction has no calls")
	}

	calls := make([]Call, 0, len(inputs))
	for i, in := range inputs {
		call, err := in.normalize()
		if err != nil {
			return nil, fmt.Errorf("call %d: %w", i, err)
		}
		calls = append(calls, call)
	}

	return calls, nil
}
