package ethereum

import (
	"encoding/json"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rlp"
)

const (
	accessListTxType = 0x01
	dynamicFeeTxType = 0x02
)

// txFields gives the positions of to, value and data inside the RLP list of
// each supported transaction type.
var txFields = map[byte][3]int{
	0:                {3, 4, 5},
	accessListTxType: {4, 5, 6},
	dynamicFeeTxType: {5, 6, 7},
}

// sendParams is the eth_sendTransaction request object. From is filled in by
// the driver from the connected account.
type sendParams struct {
	From  string `json:"from"`
	To    string `json:"to,omitempty"`
	Value string `json:"value"`
	Data  string `json:"data,omitempty"`
}

// decodeTransaction extracts the recipient, value and calldata of a
// serialized transaction. It accepts 0x-prefixed RLP (legacy, EIP-2930 and
// EIP-1559, signed or not) and the JSON object {to, value, data}.
func decodeTransaction(serialized string) (sendParams, error) {
	serialized = strings.TrimSpace(serialized)
	if strings.HasPrefix(serialized, "{") {
		return decodeJSONTransaction(serialized)
	}

	raw, err := hexutil.Decode(serialized)
	if err != nil {
		return sendParams{}, err
	}
	if len(raw) == 0 {
		return sendParams{}, fmt.Errorf("empty transaction")
	}

	var txType byte
	if raw[0] < 0xc0 {
		txType, raw = raw[0], raw[1:]
	}

	positions, ok := txFields[txType]
	if !ok {
		return sendParams{}, fmt.Errorf("unsupported transaction type 0x%02x", txType)
	}

	var fields []rlp.RawValue
	if err := rlp.DecodeBytes(raw, &fields); err != nil {
		return sendParams{}, err
	}
	if len(fields) <= positions[2] {
		return sendParams{}, fmt.Errorf("transaction has %d fields, want more than %d", len(fields), positions[2])
	}

	var (
		to    []byte
		value big.Int
		data  []byte
	)
	if err := rlp.DecodeBytes(fields[positions[0]], &to); err != nil {
		return sendParams{}, fmt.Errorf("to: %w", err)
	}
	if err := rlp.DecodeBytes(fields[positions[1]], &value); err != nil {
		return sendParams{}, fmt.Errorf("value: %w", err)
	}
	if err := rlp.DecodeBytes(fields[positions[2]], &data); err != nil {
		return sendParams{}, fmt.Errorf("data: %w", err)
	}

	params := sendParams{Value: hexutil.EncodeBig(&value)}
	switch len(to) {
	case 0:
	case common.AddressLength:
		params.To = common.BytesToAddress(to).Hex()
	default:
		return sendParams{}, fmt.Errorf("to: invalid address length %d", len(to))
	}
	if len(data) > 0 {
		params.Data = hexutil.Encode(data)
	}

	return params, nil
}

type jsonTransaction struct {
	To    string          `json:"to"`
	Value json.RawMessage `json:"value"`
	Data  string          `json:"data"`
}

func decodeJSONTransaction(serialized string) (sendParams, error) {
	var tx jsonTransaction
	if err := json.Unmarshal([]byte(serialized), &tx); err != nil {
		return sendParams{}, err
	}

	if tx.To != "" && !common.IsHexAddress(tx.To) {
		return sendParams{}, fmt.Errorf("to: invalid address %q", tx.To)
	}

	value, err := parseQuantity(tx.Value)
	if err != nil {
		return sendParams{}, fmt.Errorf("value: %w", err)
	}

	params := sendParams{
		Value: hexutil.EncodeBig(value),
	}
	if tx.To != "" {
		params.To = common.HexToAddress(tx.To).Hex()
	}
	if tx.Data != "" && tx.Data != "0x" {
		data, err := hexutil.Decode(tx.Data)
		if err != nil {
			return sendParams{}, fmt.Errorf("data: %w", err)
		}
		params.Data = hexutil.Encode(data)
	}

	return params, nil
}

// parseQuantity reads a value given as a JSON number, a decimal string or a
// 0x-prefixed hex string. Missing values are zero.
func parseQuantity(raw json.RawMessage) (*big.Int, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return new(big.Int), nil
	}

	s := string(raw)
	if strings.HasPrefix(s, `"`) {
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, err
		}
	}
	if s == "" {
		return new(big.Int), nil
	}

	base := 10
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		s, base = s[2:], 16
		if s == "" {
			return new(big.Int), nil
		}
	}

	v, ok := new(big.Int).SetString(s, base)
	if !ok || v.Sign() < 0 {
		return nil, fmt.Errorf("invalid quantity %s", raw)
	}
	return v, nil
}
