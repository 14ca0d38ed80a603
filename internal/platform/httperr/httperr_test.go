package httperr

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/SlpAus/life-gacha-backend/internal/ledger"
)

func TestStatus(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("wrap: %w", ledger.ErrNotFound), http.StatusNotFound},
		{ledger.ErrVoucherNotFound, http.StatusNotFound},
		{ledger.ErrAlreadyClaimed, http.StatusConflict},
		{ledger.ErrInsufficientFunds, http.StatusPaymentRequired},
		{ledger.ErrInsufficientTickets, http.StatusPaymentRequired},
		{ledger.ErrInvalidCatalogEntry, http.StatusBadRequest},
		{fmt.Errorf("%w (%w): 4242", ledger.ErrCatalogEntryMissing, ledger.ErrInvalidCatalogEntry), http.StatusNotFound},
		{fmt.Errorf("%w: disk full", ledger.ErrStorageFailure), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		if got := Status(tc.err); got != tc.want {
			t.Errorf("Status(%v) = %d, want %d", tc.err, got, tc.want)
		}
	}
}
