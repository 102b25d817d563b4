package protocol

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/gabapcia/blinkrelay/internal/pkg/validator"

	"github.com/google/uuid"
)

// ErrUnknownType is returned by Decode and Validate for tags outside the
// relay vocabulary.
var ErrUnknownType = errors.New("unknown message type")

// Message is the envelope broadcast between the two endpoints. Only the fields
// relevant to its Type are populated; the JSON names match the wire format the
// browser extension used.
type Message struct {
	Type        Type   `json:"type"`
	ID          string `json:"id,omitempty"`
	Chain       string `json:"chain,omitempty"`
	Transaction string `json:"transaction,omitempty"`
	Account     string `json:"account,omitempty"`
	TxHash      string `json:"txHash,omitempty"`
	Signature   string `json:"signature,omitempty"`
	Error       string `json:"error,omitempty"`
}

// Route decodes the message tag. It returns false for announcements.
func (m Message) Route() (Route, bool) {
	return ParseType(m.Type)
}

// Result returns the value carried by a signed response: the transaction hash
// for Ethereum-family and Starknet, the signature for Solana.
func (m Message) Result() string {
	if m.TxHash != "" {
		return m.TxHash
	}
	return m.Signature
}

// newID returns a fresh correlation identifier.
func newID() string {
	return uuid.Must(uuid.NewV7()).String()
}

// NewConnectRequest builds a CONNECT_WALLET_<FAMILY> request. chain is the
// optional target chain id and is only meaningful for Ethereum.
func NewConnectRequest(family ChainFamily, chain string) Message {
	return Message{
		Type:  RequestType(KindConnect, family),
		ID:    newID(),
		Chain: chain,
	}
}

// NewSignRequest builds a SIGN_TRANSACTION_<FAMILY> request carrying the raw
// serialized transaction.
func NewSignRequest(family ChainFamily, chain, transaction string) Message {
	return Message{
		Type:        RequestType(KindSign, family),
		ID:          newID(),
		Chain:       chain,
		Transaction: transaction,
	}
}

// NewConnected answers a connect request with the connected account.
func NewConnected(req Message, family ChainFamily, account string) Message {
	return Message{
		Type:    SuccessType(KindConnect, family),
		ID:      req.ID,
		Account: account,
	}
}

// NewSigned answers a sign request. Solana responses carry a signature, the
// other families a transaction hash.
func NewSigned(req Message, family ChainFamily, result string) Message {
	msg := Message{
		Type: SuccessType(KindSign, family),
		ID:   req.ID,
	}

	if family == Solana {
		msg.Signature = result
	} else {
		msg.TxHash = result
	}

	return msg
}

// NewFailure answers a request with an error broadcast carrying only the
// message text.
func NewFailure(req Message, route Route, errMsg string) Message {
	if errMsg == "" {
		errMsg = "unknown error"
	}

	return Message{
		Type:  ErrorType(route.Kind, route.Family),
		ID:    req.ID,
		Error: errMsg,
	}
}

// NewAnnouncement builds a PAGE_SCRIPT_LOADED or ETHEREUM_READY message.
func NewAnnouncement(t Type) Message {
	return Message{Type: t}
}

type connectRequestSchema struct {
	ID    string `validate:"required"`
	Chain string `validate:"omitempty,max=128"`
}

type signRequestSchema struct {
	ID          string `validate:"required"`
	Transaction string `validate:"required"`
}

type connectedSchema struct {
	ID      string `validate:"required"`
	Account string `validate:"required"`
}

type signedSchema struct {
	ID     string `validate:"required"`
	Result string `validate:"required"`
}

type failureSchema struct {
	ID    string `validate:"required"`
	Error string `validate:"required"`
}

// Validate checks m against the schema of the variant its tag selects.
func (m Message) Validate() error {
	if IsAnnouncement(m.Type) {
		return nil
	}

	route, ok := m.Route()
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownType, m.Type)
	}

	var schema any
	switch {
	case route.Outcome == OutcomeFailure:
		schema = failureSchema{ID: m.ID, Error: m.Error}
	case route.Kind == KindConnect && route.Outcome == OutcomeRequest:
		schema = connectRequestSchema{ID: m.ID, Chain: m.Chain}
	case route.Kind == KindConnect:
		schema = connectedSchema{ID: m.ID, Account: m.Account}
	case route.Outcome == OutcomeRequest:
		schema = signRequestSchema{ID: m.ID, Transaction: m.Transaction}
	default:
		schema = signedSchema{ID: m.ID, Result: m.Result()}
	}

	if err := validator.Validate(schema); err != nil {
		return fmt.Errorf("invalid %s message: %w", m.Type, err)
	}

	return nil
}

// Encode serializes a validated message to its JSON wire form.
func Encode(m Message) ([]byte, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return json.Marshal(m)
}

// Decode parses a JSON frame and validates it against its variant schema.
func Decode(data []byte) (Message, error) {
	var m Message
	if err := json.Unmarshal(data, &m); err != nil {
		return Message{}, err
	}

	if err := m.Validate(); err != nil {
		return Message{}, err
	}

	return m, nil
}
