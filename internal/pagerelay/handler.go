package pagerelay

import (
	"context"

	"github.com/gabapcia/blinkrelay/internal/protocol"
	"github.com/gabapcia/blinkrelay/internal/wallet"
)

// handler answers one request message.
type handler func(ctx context.Context, req protocol.Message) (protocol.Message, error)

// buildHandlers registers a connect and a sign handler for every configured
// driver. Requests for other families go unanswered.
func buildHandlers(drivers map[protocol.ChainFamily]wallet.Driver, st *state) map[protocol.Type]handler {
	handlers := make(map[protocol.Type]handler, 2*len(drivers))
	for family, driver := range drivers {
		if driver == nil || !family.Valid() {
			continue
		}

		handlers[protocol.RequestType(protocol.KindConnect, family)] = connectHandler(family, driver, st.session(family))
		handlers[protocol.RequestType(protocol.KindSign, family)] = signHandler(family, driver, st.session(family))
	}

	return handlers
}

func connectFunc(driver wallet.Driver, req protocol.Message) func(context.Context) (string, error) {
	return func(ctx context.Context) (string, error) {
		return driver.Connect(ctx, wallet.ConnectOptions{ChainID: req.Chain})
	}
}

func connectHandler(family protocol.ChainFamily, driver wallet.Driver, sess *session) handler {
	return func(ctx context.Context, req protocol.Message) (protocol.Message, error) {
		account, err := sess.replace(ctx, connectFunc(driver, req))
		if err != nil {
			return protocol.Message{}, err
		}

		return protocol.NewConnected(req, family, account), nil
	}
}

// signHandler connects first when the family has no session yet.
func signHandler(family protocol.ChainFamily, driver wallet.Driver, sess *session) handler {
	return func(ctx context.Context, req protocol.Message) (protocol.Message, error) {
		from, err := sess.ensure(ctx, connectFunc(driver, req))
		if err != nil {
			return protocol.Message{}, err
		}

		result, err := driver.Sign(ctx, from, req.Transaction)
		if err != nil {
			return protocol.Message{}, err
		}

		return protocol.NewSigned(req, family, result), nil
	}
}
