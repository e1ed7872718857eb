package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"rirekisho/pkg/domain"
)

func TestRequiredFields(t *testing.T) {
	tests := []struct {
		tier domain.VisaTier
		want []FieldPath
	}{
		{domain.TierEngineer, []FieldPath{FieldTechSkills, FieldJLPTLevel, FieldReason}},
		{domain.TierSSW, []FieldPath{FieldSSWCerts, FieldTechSkills, FieldPhysicalStats}},
		{domain.TierTITP, []FieldPath{FieldFamilyDetails, FieldPhysicalStats, FieldReason, FieldSelfPR}},
	}
	for _, tt := range tests {
		t.Run(tt.tier.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, RequiredFields(tt.tier))
		})
	}
}

func TestIsRequired(t *testing.T) {
	assert.True(t, IsRequired(domain.TierEngineer, FieldJLPTLevel))
	assert.False(t, IsRequired(domain.TierEngineer, FieldFamilyDetails))
	assert.True(t, IsRequired(domain.TierTITP, FieldFamilyDetails))
	assert.False(t, IsRequired(domain.TierSSW, FieldReason))
}

func TestTierSections(t *testing.T) {
	assert.Empty(t, TierSections(domain.TierEngineer))
	assert.Equal(t, []Section{SectionPhysical}, TierSections(domain.TierSSW))
	assert.Equal(t, []Section{SectionFamily, SectionPhysical}, TierSections(domain.TierTITP))

	assert.True(t, HasSection(domain.TierTITP, SectionFamily))
	assert.False(t, HasSection(domain.TierEngineer, SectionPhysical))
}

// Every tier-required field must have a complete entry in the static table;
// a gap without a section or question would render as an empty row.
func TestFieldTableCoversRequiredFields(t *testing.T) {
	for _, tier := range []domain.VisaTier{domain.TierEngineer, domain.TierSSW, domain.TierTITP} {
		for _, field := range RequiredFields(tier) {
			assert.NotEmpty(t, FieldSection(field), "section for %s", field)
			assert.NotEmpty(t, FieldQuestion(field), "question for %s", field)
			assert.True(t, FieldImportance(field).IsValid(), "importance for %s", field)
		}
	}
}

func TestFieldImportanceUnknownDefaultsLow(t *testing.T) {
	assert.Equal(t, domain.ImportanceLow, FieldImportance(FieldPath("no.such.field")))
}
