package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fincalc/finsync/internal/adapter/http/dto"
)

type syncServiceStub struct {
	replayFn  func(ctx context.Context) (int, error)
	pendingFn func(ctx context.Context) (int, error)
}

func (s *syncServiceStub) ReplayPending(ctx context.Context) (int, error) {
	return s.replayFn(ctx)
}

func (s *syncServiceStub) PendingCount(ctx context.Context) (int, error) {
	return s.pendingFn(ctx)
}

func TestSyncHandler_Replay(t *testing.T) {
	handler := NewSyncHandler([]SyncTarget{
		{Kind: "account", Service: &syncServiceStub{
			replayFn: func(ctx context.Context) (int, error) { return 0, nil },
		}},
		{Kind: "transaction", Service: &syncServiceStub{
			replayFn: func(ctx context.Context) (int, error) { return 2, nil },
		}},
	})

	req := httptest.NewRequest(http.MethodPost, "/sync", nil)
	rec := httptest.NewRecorder()

	handler.Replay(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp dto.SyncResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Remaining["account"] != 0 || resp.Remaining["transaction"] != 2 {
		t.Errorf("unexpected remaining counts: %+v", resp.Remaining)
	}
}

func TestSyncHandler_Pending(t *testing.T) {
	handler := NewSyncHandler([]SyncTarget{
		{Kind: "category", Service: &syncServiceStub{
			pendingFn: func(ctx context.Context) (int, error) { return 3, nil },
		}},
	})

	req := httptest.NewRequest(http.MethodGet, "/sync/pending", nil)
	rec := httptest.NewRecorder()

	handler.Pending(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp dto.PendingResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Pending["category"] != 3 {
		t.Errorf("unexpected pending counts: %+v", resp.Pending)
	}
}
