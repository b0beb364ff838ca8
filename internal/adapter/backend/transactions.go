package backend

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/fincalc/finsync/internal/domain"
	"github.com/fincalc/finsync/internal/wire"
)

const periodDateLayout = "2006-01-02"

// TransactionsForPeriod fetches all transactions of an account within the
// inclusive date range.
func (c *Client) TransactionsForPeriod(ctx context.Context, accountID int64, from, to time.Time) ([]domain.Transaction, error) {
	query := url.Values{}
	query.Set("startDate", from.Format(periodDateLayout))
	query.Set("endDate", to.Format(periodDateLayout))
	endpoint := fmt.Sprintf("transactions/account/%d/period?%s", accountID, query.Encode())

	var payloads []wire.TransactionPayload
	if err := c.do(ctx, http.MethodGet, endpoint, "", nil, &payloads); err != nil {
		return nil, err
	}

	transactions := make([]domain.Transaction, 0, len(payloads))
	for _, p := range payloads {
		tx, err := p.Domain()
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrDecodingFailed, err)
		}
		transactions = append(transactions, tx)
	}
	return transactions, nil
}

// CreateTransaction creates a transaction remotely from the snapshot's request
// fields and returns the confirmed entity with its backend-assigned id.
func (c *Client) CreateTransaction(ctx context.Context, key string, tx domain.Transaction) (domain.Transaction, error) {
	var payload wire.TransactionPayload
	if err := c.do(ctx, http.MethodPost, "transactions", key, wire.TransactionToRequest(tx), &payload); err != nil {
		return domain.Transaction{}, err
	}
	return decodeTransaction(payload)
}

// UpdateTransaction updates a transaction remotely and returns the confirmed entity.
func (c *Client) UpdateTransaction(ctx context.Context, key string, id int64, tx domain.Transaction) (domain.Transaction, error) {
	var payload wire.TransactionPayload
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("transactions/%d", id), key, wire.TransactionToRequest(tx), &payload); err != nil {
		return domain.Transaction{}, err
	}
	return decodeTransaction(payload)
}

// DeleteTransaction deletes a transaction remotely. The endpoint returns no content.
func (c *Client) DeleteTransaction(ctx context.Context, key string, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("transactions/%d", id), key, nil, nil)
}

func decodeTransaction(payload wire.TransactionPayload) (domain.Transaction, error) {
	tx, err := payload.Domain()
	if err != nil {
		return domain.Transaction{}, fmt.Errorf("%w: %w", ErrDecodingFailed, err)
	}
	return tx, nil
}
