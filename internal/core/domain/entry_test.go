package domain_test

import (
	"testing"

	"github.com/contaula/contaula/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestJournalEntry_IsBalanced(t *testing.T) {
	tests := []struct {
		name  string
		entry domain.JournalEntry
		want  bool
	}{
		{
			name: "simple balanced entry",
			entry: domain.JournalEntry{
				Lines: []domain.JournalLine{
					{Debit: decimal.NewFromFloat(100.00), Credit: decimal.Zero},
					{Debit: decimal.Zero, Credit: decimal.NewFromFloat(100.00)},
				},
			},
			want: true,
		},
		{
			name: "split credit still balances",
			entry: domain.JournalEntry{
				Lines: []domain.JournalLine{
					{Debit: decimal.NewFromFloat(250.50), Credit: decimal.Zero},
					{Debit: decimal.Zero, Credit: decimal.NewFromFloat(200.00)},
					{Debit: decimal.Zero, Credit: decimal.NewFromFloat(50.50)},
				},
			},
			want: true,
		},
		{
			name: "off by a cent",
			entry: domain.JournalEntry{
				Lines: []domain.JournalLine{
					{Debit: decimal.NewFromFloat(100.00), Credit: decimal.Zero},
					{Debit: decimal.Zero, Credit: decimal.NewFromFloat(99.99)},
				},
			},
			want: false,
		},
		{
			name:  "empty entry balances trivially",
			entry: domain.JournalEntry{},
			want:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.entry.IsBalanced())
		})
	}
}

func TestJournalEntry_Totals(t *testing.T) {
	entry := domain.JournalEntry{
		Lines: []domain.JournalLine{
			{Debit: decimal.NewFromFloat(1200.00), Credit: decimal.Zero},
			{Debit: decimal.NewFromFloat(300.00), Credit: decimal.Zero},
			{Debit: decimal.Zero, Credit: decimal.NewFromFloat(1500.00)},
		},
	}

	assert.True(t, entry.TotalDebit().Equal(decimal.NewFromFloat(1500.00)))
	assert.True(t, entry.TotalCredit().Equal(decimal.NewFromFloat(1500.00)))
}

func TestJournalLine_Amount(t *testing.T) {
	debitLine := domain.JournalLine{Debit: decimal.NewFromFloat(75.00), Credit: decimal.Zero}
	assert.True(t, debitLine.IsDebit())
	assert.True(t, debitLine.Amount().Equal(decimal.NewFromFloat(75.00)))

	creditLine := domain.JournalLine{Debit: decimal.Zero, Credit: decimal.NewFromFloat(75.00)}
	assert.False(t, creditLine.IsDebit())
	assert.True(t, creditLine.Amount().Equal(decimal.NewFromFloat(75.00)))
}

func TestJournalEntry_IsReversal(t *testing.T) {
	originalID := "entry_001"

	assert.False(t, (&domain.JournalEntry{}).IsReversal())
	assert.True(t, (&domain.JournalEntry{ReversalOfID: &originalID}).IsReversal())
}
