package domain

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

func (g Gender) Valid() bool {
	switch g {
	case GenderMale, GenderFemale, GenderOther:
		return true
	}
	return false
}

type Direction string

const (
	DirectionLeft  Direction = "left"
	DirectionRight Direction = "right"
)

func (d Direction) Valid() bool {
	return d == DirectionLeft || d == DirectionRight
}

type AgentStatus string

const (
	AgentPending  AgentStatus = "pending"
	AgentActive   AgentStatus = "active"
	AgentInactive AgentStatus = "inactive"
)

func (s AgentStatus) Valid() bool {
	switch s {
	case AgentPending, AgentActive, AgentInactive:
		return true
	}
	return false
}

type OutreachStatus string

const (
	OutreachPending   OutreachStatus = "pending"
	OutreachContacted OutreachStatus = "contacted"
	OutreachMatched   OutreachStatus = "matched"
	OutreachRejected  OutreachStatus = "rejected"
)

func (s OutreachStatus) Valid() bool {
	switch s {
	case OutreachPending, OutreachContacted, OutreachMatched, OutreachRejected:
		return true
	}
	return false
}

type IncomeRange string

const (
	IncomePreferNotToSay IncomeRange = "prefer_not_to_say"
	IncomeUnder50K       IncomeRange = "0-50K"
	Income50To100K       IncomeRange = "50K-100K"
	Income100To150K      IncomeRange = "100K-150K"
	Income150To200K      IncomeRange = "150K-200K"
	IncomeOver200K       IncomeRange = "200K+"
)

func (r IncomeRange) Valid() bool {
	switch r {
	case IncomePreferNotToSay, IncomeUnder50K, Income50To100K, Income100To150K, Income150To200K, IncomeOver200K:
		return true
	}
	return false
}

type Education string

const (
	EducationHighSchool Education = "high_school"
	EducationAssociate  Education = "associate"
	EducationBachelor   Education = "bachelor"
	EducationMaster     Education = "master"
	EducationPhD        Education = "phd"
	EducationOther      Education = "other"
)

func (e Education) Valid() bool {
	switch e {
	case EducationHighSchool, EducationAssociate, EducationBachelor, EducationMaster, EducationPhD, EducationOther:
		return true
	}
	return false
}

type Industry string

const (
	IndustryEngineering       Industry = "engineering"
	IndustryEducation         Industry = "education"
	IndustryFinancialServices Industry = "financial_services"
	IndustryHealthcare        Industry = "healthcare"
	IndustryLegal             Industry = "legal"
	IndustryMarketing         Industry = "marketing"
	IndustryRealEstate        Industry = "real_estate"
	IndustryTechnology        Industry = "technology"
	IndustryHospitality       Industry = "hospitality"
	IndustryGovernment        Industry = "government"
	IndustryArtsEntertainment Industry = "arts_entertainment"
	IndustryOther             Industry = "other"
)

func (i Industry) Valid() bool {
	switch i {
	case IndustryEngineering, IndustryEducation, IndustryFinancialServices, IndustryHealthcare,
		IndustryLegal, IndustryMarketing, IndustryRealEstate, IndustryTechnology,
		IndustryHospitality, IndustryGovernment, IndustryArtsEntertainment, IndustryOther:
		return true
	}
	return false
}
