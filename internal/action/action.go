// Package action fetches the JSON descriptor behind an action API URL and
// tells which chain family the action targets.
package action

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gabapcia/blinkrelay/internal/pkg/validator"
	"github.com/gabapcia/blinkrelay/internal/protocol"
	"github.com/hashicorp/go-retryablehttp"
)

// maxDescriptorSize caps the response body read from an action API.
const maxDescriptorSize = 1 << 20

// ErrUnexpectedStatus is returned for non-200 action API responses.
var ErrUnexpectedStatus = errors.New("unexpected status")

// Descriptor is the part of an action API response the relay cares about.
type Descriptor struct {
	IsEthereum  bool   `json:"isEthereum"`
	IsStarknet  bool   `json:"isStarknet"`
	Chain       Chain  `json:"chain"`
	Title       string `json:"title"`
	Label       string `json:"label"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

// Family is Ethereum when isEthereum is set, Starknet when isStarknet is,
// Solana otherwise.
func (d Descriptor) Family() protocol.ChainFamily {
	switch {
	case d.IsEthereum:
		return protocol.Ethereum
	case d.IsStarknet:
		return protocol.Starknet
	default:
		return protocol.Solana
	}
}

// ChainID is the Ethereum chain the action runs on, or "".
func (d Descriptor) ChainID() string {
	if !d.IsEthereum {
		return ""
	}
	return string(d.Chain)
}

// Chain is a chain id given either as a JSON string or a JSON number.
type Chain string

func (c *Chain) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*c = ""
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*c = Chain(s)
		return nil
	}

	n, err := strconv.ParseUint(string(data), 10, 64)
	if err != nil {
		return fmt.Errorf("chain: %w", err)
	}
	*c = Chain(strconv.FormatUint(n, 10))
	return nil
}

// Resolver fetches action descriptors.
type Resolver interface {
	Resolve(ctx context.Context, apiURL string) (Descriptor, error)
}

type resolver struct {
	httpClient *retryablehttp.Client
}

var _ Resolver = (*resolver)(nil)

// NewResolver returns a Resolver using httpClient.
func NewResolver(httpClient *retryablehttp.Client) *resolver {
	return &resolver{httpClient: httpClient}
}

func (r *resolver) Resolve(ctx context.Context, apiURL string) (Descriptor, error) {
	if err := validator.Var(apiURL, "required,http_url"); err != nil {
		return Descriptor{}, fmt.Errorf("action url: %w", err)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return Descriptor{}, err
	}
	req.Header.Set("Accept", "application/json")

	res, err := r.httpClient.Do(req)
	if err != nil {
		return Descriptor{}, err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return Descriptor{}, fmt.Errorf("%w %d from %s", ErrUnexpectedStatus, res.StatusCode, apiURL)
	}

	var d Descriptor
	if err := json.NewDecoder(io.LimitReader(res.Body, maxDescriptorSize)).Decode(&d); err != nil {
		return Descriptor{}, fmt.Errorf("decode action: %w", err)
	}

	return d, nil
}
