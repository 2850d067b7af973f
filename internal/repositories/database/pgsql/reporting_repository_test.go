package pgsql

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// Balances must ignore both halves of a void pair: the voided original through
// its status, the reversal through its link. If only the status were filtered,
// the reversal's swapped lines would survive alone and shift every balance it
// touches.
func TestBalanceQueriesExcludeVoidPairs(t *testing.T) {
	queries := map[string]string{
		"trial balance":           trialBalanceQuery,
		"movements by kinds":      movementsByKindsQuery,
		"movement by code prefix": movementByCodePrefixQuery,
		"account lines":           accountLinesQuery,
		"open result accounts":    openResultAccountsQuery,
	}

	for name, query := range queries {
		assert.True(t, strings.Contains(query, "e.status = 'CONFIRMED'"), "%s query must count confirmed entries only", name)
		assert.True(t, strings.Contains(query, "e.reversal_of_entry_id IS NULL"), "%s query must exclude reversal entries", name)
	}
}
