// Package mapping converts between persistence models and domain types.
package mapping

import (
	"github.com/contaula/contaula/internal/core/domain"
	"github.com/contaula/contaula/internal/models"
)

func toModelAudit(d domain.AuditFields) models.AuditFields {
	return models.AuditFields{
		CreatedAt:     d.CreatedAt,
		CreatedBy:     d.CreatedBy,
		LastUpdatedAt: d.LastUpdatedAt,
		LastUpdatedBy: d.LastUpdatedBy,
	}
}

func toDomainAudit(m models.AuditFields) domain.AuditFields {
	return domain.AuditFields{
		CreatedAt:     m.CreatedAt,
		CreatedBy:     m.CreatedBy,
		LastUpdatedAt: m.LastUpdatedAt,
		LastUpdatedBy: m.LastUpdatedBy,
	}
}

// ToModelEntry converts a domain entry header for storage. Lines are handled
// separately. A zero sequence number maps to NULL.
func ToModelEntry(d domain.JournalEntry) models.JournalEntry {
	m := models.JournalEntry{
		EntryID:      d.EntryID,
		EntryDate:    d.EntryDate,
		Description:  d.Description,
		Status:       string(d.Status),
		ReversalOfID: d.ReversalOfID,
		ReversedByID: d.ReversedByID,
		VoidedBy:     d.VoidedBy,
		VoidedAt:     d.VoidedAt,
		VoidReason:   d.VoidReason,
		AuditFields:  toModelAudit(d.AuditFields),
	}
	if d.SequenceNumber != 0 {
		seq := d.SequenceNumber
		m.SequenceNumber = &seq
	}
	return m
}

// ToDomainEntry converts a stored entry header back to the domain type.
func ToDomainEntry(m models.JournalEntry) domain.JournalEntry {
	d := domain.JournalEntry{
		EntryID:      m.EntryID,
		EntryDate:    m.EntryDate,
		Description:  m.Description,
		Status:       domain.EntryStatus(m.Status),
		ReversalOfID: m.ReversalOfID,
		ReversedByID: m.ReversedByID,
		VoidedBy:     m.VoidedBy,
		VoidedAt:     m.VoidedAt,
		VoidReason:   m.VoidReason,
		AuditFields:  toDomainAudit(m.AuditFields),
	}
	if m.SequenceNumber != nil {
		d.SequenceNumber = *m.SequenceNumber
	}
	return d
}

// ToModelLine converts a domain line for storage.
func ToModelLine(d domain.JournalLine) models.JournalLine {
	return models.JournalLine{
		LineID:       d.LineID,
		EntryID:      d.EntryID,
		AccountID:    d.AccountID,
		Detail:       d.Detail,
		Debit:        d.Debit,
		Credit:       d.Credit,
		ThirdPartyID: d.ThirdPartyID,
		AuditFields:  toModelAudit(d.AuditFields),
	}
}

// ToDomainLine converts a stored line back to the domain type.
func ToDomainLine(m models.JournalLine) domain.JournalLine {
	return domain.JournalLine{
		LineID:       m.LineID,
		EntryID:      m.EntryID,
		AccountID:    m.AccountID,
		Detail:       m.Detail,
		Debit:        m.Debit,
		Credit:       m.Credit,
		ThirdPartyID: m.ThirdPartyID,
		AuditFields:  toDomainAudit(m.AuditFields),
	}
}

// ToDomainLineSlice converts stored lines back to domain types.
func ToDomainLineSlice(ms []models.JournalLine) []domain.JournalLine {
	lines := make([]domain.JournalLine, len(ms))
	for i, m := range ms {
		lines[i] = ToDomainLine(m)
	}
	return lines
}

// ToModelAccount converts a domain account for storage.
func ToModelAccount(d domain.Account) models.Account {
	return models.Account{
		AccountID:       d.AccountID,
		Code:            d.Code,
		Name:            d.Name,
		Kind:            string(d.Kind),
		NormalBalance:   string(d.NormalBalance),
		IsBalanceSheet:  d.IsBalanceSheet,
		IsLeaf:          d.IsLeaf,
		ParentAccountID: d.ParentAccountID,
		Description:     d.Description,
		Active:          d.Active,
		AuditFields:     toModelAudit(d.AuditFields),
	}
}

// ToDomainAccount converts a stored account back to the domain type.
func ToDomainAccount(m models.Account) domain.Account {
	return domain.Account{
		AccountID:       m.AccountID,
		Code:            m.Code,
		Name:            m.Name,
		Kind:            domain.AccountKind(m.Kind),
		NormalBalance:   domain.BalanceSide(m.NormalBalance),
		IsBalanceSheet:  m.IsBalanceSheet,
		IsLeaf:          m.IsLeaf,
		ParentAccountID: m.ParentAccountID,
		Description:     m.Description,
		Active:          m.Active,
		AuditFields:     toDomainAudit(m.AuditFields),
	}
}

// ToModelPeriod converts a domain period for storage.
func ToModelPeriod(d domain.AccountingPeriod) models.AccountingPeriod {
	return models.AccountingPeriod{
		PeriodID:    d.PeriodID,
		Year:        d.Year,
		Month:       d.Month,
		Status:      string(d.Status),
		ClosedBy:    d.ClosedBy,
		ClosedAt:    d.ClosedAt,
		AuditFields: toModelAudit(d.AuditFields),
	}
}

// ToDomainPeriod converts a stored period back to the domain type.
func ToDomainPeriod(m models.AccountingPeriod) domain.AccountingPeriod {
	return domain.AccountingPeriod{
		PeriodID:    m.PeriodID,
		Year:        m.Year,
		Month:       m.Month,
		Status:      domain.PeriodStatus(m.Status),
		ClosedBy:    m.ClosedBy,
		ClosedAt:    m.ClosedAt,
		AuditFields: toDomainAudit(m.AuditFields),
	}
}

// ToModelUser converts a domain user for storage.
func ToModelUser(d domain.User) models.User {
	return models.User{
		UserID:       d.UserID,
		Username:     d.Username,
		Email:        d.Email,
		PasswordHash: d.PasswordHash,
		AuditFields:  toModelAudit(d.AuditFields),
	}
}

// ToDomainUser converts a stored user back to the domain type.
func ToDomainUser(m models.User) domain.User {
	return domain.User{
		UserID:       m.UserID,
		Username:     m.Username,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		AuditFields:  toDomainAudit(m.AuditFields),
	}
}
