package wire

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fincalc/finsync/internal/domain"
)

func TestAccountPayload_Domain(t *testing.T) {
	payload := AccountPayload{
		ID:       1,
		Name:     "Checking",
		Balance:  "1000.50",
		Currency: "RUB",
	}

	account, err := payload.Domain()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !account.Balance.Equal(decimal.RequireFromString("1000.50")) {
		t.Errorf("expected balance 1000.50, got %s", account.Balance)
	}
}

func TestAccountPayload_Domain_MalformedBalance(t *testing.T) {
	payload := AccountPayload{ID: 1, Balance: "lots"}

	_, err := payload.Domain()
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected a ParseError, got %T", err)
	}
	if parseErr.Field != "balance" || parseErr.Value != "lots" {
		t.Errorf("ParseError must name the offending field and value, got %+v", parseErr)
	}
}

func TestTransactionPayload_Domain_MalformedAmount(t *testing.T) {
	payload := TransactionPayload{
		ID:      1,
		Account: AccountBriefPayload{ID: 1, Balance: "0"},
		Amount:  "NaN-ish",
	}

	_, err := payload.Domain()
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected a ParseError, got %v", err)
	}
	if parseErr.Field != "amount" {
		t.Errorf("expected field amount, got %q", parseErr.Field)
	}
}

func TestCategoryPayload_DirectionMapping(t *testing.T) {
	income := CategoryPayload{ID: 1, Name: "Salary", IsIncome: true}.Domain()
	if income.Direction != domain.DirectionIncome {
		t.Errorf("isIncome=true must map to income, got %s", income.Direction)
	}

	outcome := CategoryPayload{ID: 2, Name: "Rent", IsIncome: false}.Domain()
	if outcome.Direction != domain.DirectionOutcome {
		t.Errorf("isIncome=false must map to outcome, got %s", outcome.Direction)
	}

	back := CategoryToPayload(income)
	if !back.IsIncome {
		t.Error("round trip dropped the income flag")
	}
}

func TestTransactionRoundTrip(t *testing.T) {
	comment := "rent for June"
	original := domain.Transaction{
		ID: 5,
		Account: domain.AccountBrief{
			ID: 1, Name: "Checking",
			Balance: decimal.RequireFromString("900.00"), Currency: "RUB",
		},
		Category: domain.Category{
			ID: 2, Name: "Rent", Emoji: "🏠", Direction: domain.DirectionOutcome,
		},
		Amount:          decimal.RequireFromString("100.00"),
		TransactionDate: time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC),
		Comment:         &comment,
	}

	decoded, err := TransactionToPayload(original).Domain()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !decoded.Amount.Equal(original.Amount) {
		t.Errorf("amount changed: %s vs %s", original.Amount, decoded.Amount)
	}
	if decoded.Comment == nil || *decoded.Comment != comment {
		t.Error("comment lost in round trip")
	}
	if decoded.Category.Direction != domain.DirectionOutcome {
		t.Errorf("direction changed: %s", decoded.Category.Direction)
	}
	if !decoded.TransactionDate.Equal(original.TransactionDate) {
		t.Errorf("date changed: %v vs %v", original.TransactionDate, decoded.TransactionDate)
	}
}
