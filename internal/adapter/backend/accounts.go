package backend

import (
	"context"
	"fmt"
	"net/http"

	"github.com/fincalc/finsync/internal/domain"
	"github.com/fincalc/finsync/internal/wire"
)

// Accounts fetches the authoritative account list.
func (c *Client) Accounts(ctx context.Context) ([]domain.Account, error) {
	var payloads []wire.AccountPayload
	if err := c.do(ctx, http.MethodGet, "accounts", "", nil, &payloads); err != nil {
		return nil, err
	}

	accounts := make([]domain.Account, 0, len(payloads))
	for _, p := range payloads {
		account, err := p.Domain()
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrDecodingFailed, err)
		}
		accounts = append(accounts, account)
	}
	return accounts, nil
}

// CreateAccount creates an account remotely from the snapshot's request fields
// and returns the confirmed entity with its backend-assigned id. key must stay
// the same across retries of this creation.
func (c *Client) CreateAccount(ctx context.Context, key string, account domain.Account) (domain.Account, error) {
	var payload wire.AccountPayload
	if err := c.do(ctx, http.MethodPost, "accounts", key, wire.AccountToRequest(account), &payload); err != nil {
		return domain.Account{}, err
	}
	return decodeAccount(payload)
}

// UpdateAccount updates an account remotely and returns the confirmed entity.
func (c *Client) UpdateAccount(ctx context.Context, key string, id int64, account domain.Account) (domain.Account, error) {
	var payload wire.AccountPayload
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("accounts/%d", id), key, wire.AccountToRequest(account), &payload); err != nil {
		return domain.Account{}, err
	}
	return decodeAccount(payload)
}

// DeleteAccount deletes an account remotely. The endpoint returns no content.
func (c *Client) DeleteAccount(ctx context.Context, key string, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("accounts/%d", id), key, nil, nil)
}

func decodeAccount(payload wire.AccountPayload) (domain.Account, error) {
	account, err := payload.Domain()
	if err != nil {
		return domain.Account{}, fmt.Errorf("%w: %w", ErrDecodingFailed, err)
	}
	return account, nil
}
