package protocol

import "strings"

// Type is the tag of a broadcast message. Both endpoints dispatch on it.
type Type string

const (
	// TypePageScriptLoaded is broadcast by the page relay once it is listening.
	TypePageScriptLoaded Type = "PAGE_SCRIPT_LOADED"

	// TypeEthereumReady is broadcast by the page relay when an Ethereum-family
	// provider is available. It is advisory only.
	TypeEthereumReady Type = "ETHEREUM_READY"
)

const (
	prefixConnectRequest = "CONNECT_WALLET_"
	prefixConnected      = "WALLET_CONNECTED_"
	prefixConnectError   = "WALLET_CONNECTION_ERROR_"
	prefixSignRequest    = "SIGN_TRANSACTION_"
	prefixSigned         = "TRANSACTION_SIGNED_"
	prefixSignError      = "TRANSACTION_SIGN_ERROR_"
)

// Outcome tells which leg of an exchange a tag belongs to.
type Outcome uint8

const (
	OutcomeRequest Outcome = iota + 1
	OutcomeSuccess
	OutcomeFailure
)

// Route is the decoded meaning of a request or response tag.
type Route struct {
	Kind    Kind
	Family  ChainFamily
	Outcome Outcome
}

// Type returns the tag this route was parsed from.
func (r Route) Type() Type {
	switch r.Outcome {
	case OutcomeRequest:
		return RequestType(r.Kind, r.Family)
	case OutcomeSuccess:
		return SuccessType(r.Kind, r.Family)
	case OutcomeFailure:
		return ErrorType(r.Kind, r.Family)
	}
	return ""
}

type routePrefix struct {
	prefix  string
	kind    Kind
	outcome Outcome
}

var routePrefixes = []routePrefix{
	{prefixConnectError, KindConnect, OutcomeFailure},
	{prefixConnectRequest, KindConnect, OutcomeRequest},
	{prefixConnected, KindConnect, OutcomeSuccess},
	{prefixSignError, KindSign, OutcomeFailure},
	{prefixSignRequest, KindSign, OutcomeRequest},
	{prefixSigned, KindSign, OutcomeSuccess},
}

// RequestType returns the client-to-page tag for a request, e.g. CONNECT_WALLET_SOLANA.
func RequestType(kind Kind, family ChainFamily) Type {
	switch kind {
	case KindConnect:
		return Type(prefixConnectRequest + string(family))
	case KindSign:
		return Type(prefixSignRequest + string(family))
	}
	return ""
}

// SuccessType returns the page-to-client tag for a fulfilled request.
func SuccessType(kind Kind, family ChainFamily) Type {
	switch kind {
	case KindConnect:
		return Type(prefixConnected + string(family))
	case KindSign:
		return Type(prefixSigned + string(family))
	}
	return ""
}

// ErrorType returns the page-to-client tag for a rejected request.
func ErrorType(kind Kind, family ChainFamily) Type {
	switch kind {
	case KindConnect:
		return Type(prefixConnectError + string(family))
	case KindSign:
		return Type(prefixSignError + string(family))
	}
	return ""
}

// ParseType decodes a request or response tag. Announcements and unknown tags
// return false.
func ParseType(t Type) (Route, bool) {
	s := string(t)
	for _, p := range routePrefixes {
		suffix, ok := strings.CutPrefix(s, p.prefix)
		if !ok {
			continue
		}

		family := ChainFamily(suffix)
		if !family.Valid() {
			return Route{}, false
		}

		return Route{Kind: p.kind, Family: family, Outcome: p.outcome}, true
	}

	return Route{}, false
}

// IsAnnouncement reports whether t is one of the one-shot page announcements.
func IsAnnouncement(t Type) bool {
	return t == TypePageScriptLoaded || t == TypeEthereumReady
}
