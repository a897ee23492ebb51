package mapping

import (
	"github.com/SscSPs/school_fees_ledger/internal/core/domain"
	"github.com/SscSPs/school_fees_ledger/internal/models"
)

// ToModelFeeStructure converts a domain FeeStructure to a model FeeStructure
func ToModelFeeStructure(d domain.FeeStructure) models.FeeStructure {
	items := make([]models.FeeLineItem, len(d.LineItems))
	for i, item := range d.LineItems {
		items[i] = models.FeeLineItem{Name: item.Name, Amount: item.Amount}
	}
	return models.FeeStructure{
		FeeStructureID: d.FeeStructureID,
		AcademicYear:   d.AcademicYear,
		Term:           d.Term,
		GradeID:        d.GradeID,
		LineItems:      items,
		TotalAmount:    d.TotalAmount,
		DueDate:        d.DueDate,
		AuditFields:    ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainFeeStructure converts a model FeeStructure to a domain FeeStructure
func ToDomainFeeStructure(m models.FeeStructure) domain.FeeStructure {
	items := make([]domain.FeeLineItem, len(m.LineItems))
	for i, item := range m.LineItems {
		items[i] = domain.FeeLineItem{Name: item.Name, Amount: item.Amount}
	}
	return domain.FeeStructure{
		FeeStructureID: m.FeeStructureID,
		Period:         domain.Period{AcademicYear: m.AcademicYear, Term: m.Term},
		GradeID:        m.GradeID,
		LineItems:      items,
		TotalAmount:    m.TotalAmount,
		DueDate:        m.DueDate,
		AuditFields:    ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelDiscountSetting converts a domain DiscountSetting to a model DiscountSetting
func ToModelDiscountSetting(d domain.DiscountSetting) models.DiscountSetting {
	return models.DiscountSetting{
		DiscountType: string(d.DiscountType),
		Percentage:   d.Percentage,
		IsEnabled:    d.IsEnabled,
		AuditFields:  ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainDiscountSetting converts a model DiscountSetting to a domain DiscountSetting
func ToDomainDiscountSetting(m models.DiscountSetting) domain.DiscountSetting {
	return domain.DiscountSetting{
		DiscountType: domain.DiscountType(m.DiscountType),
		Percentage:   m.Percentage,
		IsEnabled:    m.IsEnabled,
		AuditFields:  ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainLearnerSummary converts a model Learner to the ledger's learner view
func ToDomainLearnerSummary(m models.Learner) domain.LearnerSummary {
	return domain.LearnerSummary{
		LearnerID:        m.LearnerID,
		AdmissionNumber:  m.AdmissionNumber,
		FullName:         m.FullName,
		GradeID:          m.GradeID,
		IsStaffChild:     m.IsStaffChild,
		HasActiveSibling: m.HasActiveSibling,
		BursaryFlag:      m.BursaryFlag,
		GuardianName:     derefString(m.GuardianName),
		GuardianPhone:    derefString(m.GuardianPhone),
		GuardianEmail:    derefString(m.GuardianEmail),
	}
}

// ToDomainAcademicPeriod converts a model AcademicPeriod to a domain AcademicPeriod
func ToDomainAcademicPeriod(m models.AcademicPeriod) domain.AcademicPeriod {
	return domain.AcademicPeriod{
		Period:    domain.Period{AcademicYear: m.AcademicYear, Term: m.Term},
		StartDate: m.StartDate,
		EndDate:   m.EndDate,
		IsCurrent: m.IsCurrent,
	}
}
