package domain_test

import (
	"testing"

	"github.com/contaula/contaula/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestNormalBalanceFor(t *testing.T) {
	tests := []struct {
		name    string
		kind    domain.AccountKind
		want    domain.BalanceSide
		wantErr bool
	}{
		{name: "asset is debit natured", kind: domain.Asset, want: domain.DebitBalance},
		{name: "cost of sales is debit natured", kind: domain.CostOfSales, want: domain.DebitBalance},
		{name: "expense is debit natured", kind: domain.Expense, want: domain.DebitBalance},
		{name: "liability is credit natured", kind: domain.Liability, want: domain.CreditBalance},
		{name: "equity is credit natured", kind: domain.Equity, want: domain.CreditBalance},
		{name: "revenue is credit natured", kind: domain.Revenue, want: domain.CreditBalance},
		{name: "unknown kind errors", kind: domain.AccountKind("INTANGIBLE"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := domain.NormalBalanceFor(tt.kind)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestAccount_CanPost(t *testing.T) {
	tests := []struct {
		name        string
		account     domain.Account
		hasChildren bool
		want        bool
	}{
		{
			name:    "active leaf without children",
			account: domain.Account{IsLeaf: true, Active: true},
			want:    true,
		},
		{
			name:        "leaf with children",
			account:     domain.Account{IsLeaf: true, Active: true},
			hasChildren: true,
			want:        false,
		},
		{
			name:    "aggregator account",
			account: domain.Account{IsLeaf: false, Active: true},
			want:    false,
		},
		{
			name:    "inactive leaf",
			account: domain.Account{IsLeaf: true, Active: false},
			want:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.account.CanPost(tt.hasChildren))
		})
	}
}

func TestAccount_IsDescendantCode(t *testing.T) {
	parent := domain.Account{Code: "1.1"}

	assert.True(t, parent.IsDescendantCode("1.1.1"))
	assert.True(t, parent.IsDescendantCode("1.1.1.01"))
	assert.False(t, parent.IsDescendantCode("1.1"), "an account is not its own descendant")
	assert.False(t, parent.IsDescendantCode("1.2"))
	assert.False(t, parent.IsDescendantCode("2.1.1"))
}

func TestAccount_SignedAmount(t *testing.T) {
	debit := decimal.NewFromFloat(150.00)
	credit := decimal.NewFromFloat(40.00)

	asset := domain.Account{NormalBalance: domain.DebitBalance}
	assert.True(t, asset.SignedAmount(debit, credit).Equal(decimal.NewFromFloat(110.00)))

	revenue := domain.Account{NormalBalance: domain.CreditBalance}
	assert.True(t, revenue.SignedAmount(debit, credit).Equal(decimal.NewFromFloat(-110.00)))
}
