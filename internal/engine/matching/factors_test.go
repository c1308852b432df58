package matching

import (
	"strings"
	"testing"

	"readiness-workers/internal/engine/scoring"
	"readiness-workers/internal/models"

	"github.com/stretchr/testify/assert"
)

// ==========================
// Test Helper Functions
// ==========================

type scores struct {
	overall, pmf, reg, dig, logi, inv int
}

func resultWith(s scores, registered bool) *scoring.Result {
	return &scoring.Result{
		OverallScore: s.overall,
		ScoreBreakdown: scoring.ScoreBreakdown{
			scoring.ProductMarketFit:        s.pmf,
			scoring.RegulatoryCompatibility: s.reg,
			scoring.DigitalReadiness:        s.dig,
			scoring.LogisticsPotential:      s.logi,
			scoring.ScalabilityAutomation:   50,
			scoring.FounderTeamStrength:     50,
			scoring.InvestmentReadiness:     s.inv,
		},
		Registered: boolPtr(registered),
	}
}

// healthy clears every need threshold.
var healthy = scores{overall: 75, pmf: 70, reg: 85, dig: 75, logi: 70, inv: 75}

func with(base scores, edit func(*scores)) scores {
	edit(&base)
	return base
}

func testBusiness(p *models.BusinessProfile, r *scoring.Result) *business {
	if p == nil {
		p = &models.BusinessProfile{}
	}
	if r == nil {
		r = resultWith(healthy, true)
	}
	return newBusiness(p, r)
}

func wantTierPrefix(t *testing.T, score int, justification, strong, moderate, weak string) {
	t.Helper()
	switch {
	case score >= 80:
		assert.True(t, strings.HasPrefix(justification, strong), justification)
	case score >= 50:
		assert.True(t, strings.HasPrefix(justification, moderate), justification)
	default:
		assert.True(t, strings.HasPrefix(justification, weak), justification)
	}
}

// ==========================
// Sub-score Tests
// ==========================

func TestIndustryExpertise(t *testing.T) {
	tests := []struct {
		name        string
		industry    string
		specialties []string
		wantScore   int
		wantText    string
	}{
		{"exact industry in specialty", "Retail", []string{"Retail law", "contracts"}, industryExact, "Specialises in retail"},
		{"partial keyword overlap", "Food & Beverage", []string{"Food safety audits"}, industryPartial, "Related expertise: Food safety audits"},
		{"short keywords are ignored", "Tea bar", []string{"tea importing", "bar licensing"}, industryBaseline, "No listed specialism in tea bar"},
		{"no overlap", "Fintech", []string{"employment law"}, industryBaseline, "No listed specialism in fintech"},
		{"unknown industry", "", []string{"retail"}, industryBaseline, "No listed specialism in the business's industry"},
		{"placeholder specialties", "Retail", []string{"n/a", "none"}, industryBaseline, "No listed specialism"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := testBusiness(&models.BusinessProfile{Industry: tt.industry}, nil)
			f := industryExpertise(b, models.PartnerRecord{Specialties: tt.specialties})
			assert.Equal(t, tt.wantScore, f.Score)
			assert.Equal(t, WeightIndustryExpertise, f.Weight)
			assert.Contains(t, f.Justification, tt.wantText)
		})
	}
}

func TestStageMatch(t *testing.T) {
	tests := []struct {
		name      string
		size      string
		partner   models.PartnerRecord
		wantScore int
		wantText  string
	}{
		{"specialty hit", "micro (1-9)", models.PartnerRecord{Specialties: []string{"Startup incorporation"}}, stageHit, "Works with micro businesses (startup)"},
		{"description hit", "micro (1-9)", models.PartnerRecord{Description: "We support early-stage founders"}, stageHit, "(early-stage)"},
		{"sme phrasing for small firms", "small (10-49)", models.PartnerRecord{Specialties: []string{"SME bookkeeping"}}, stageHit, "Works with small businesses"},
		{"enterprise partner for a large firm", "large (250+)", models.PartnerRecord{Description: "Corporate and enterprise clients"}, stageHit, "Works with large businesses"},
		{"no stage phrasing", "micro (1-9)", models.PartnerRecord{Specialties: []string{"enterprise"}}, stageDefault, "No stated focus on micro businesses"},
		{"unknown size", "", models.PartnerRecord{Specialties: []string{"startup"}}, stageDefault, "Company size unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := testBusiness(&models.BusinessProfile{CompanySize: tt.size}, nil)
			f := stageMatch(b, tt.partner)
			assert.Equal(t, tt.wantScore, f.Score)
			assert.Contains(t, f.Justification, tt.wantText)
		})
	}
}

func TestGeographicRelevance(t *testing.T) {
	tests := []struct {
		name      string
		markets   []string
		location  string
		wantScore int
		wantText  string
	}{
		{"same city", []string{"London"}, "London", geoExact, "a target market"},
		{"country market served by city", []string{"UK"}, "London, UK", geoExact, "a target market"},
		{"city inside a wider market name", []string{"Greater London"}, "London", geoExact, "a target market"},
		{"prefix of another country", []string{"Ukraine"}, "UK", geoDefault, "outside the target markets"},
		{"partial word", []string{"London"}, "Lo", geoDefault, "outside the target markets"},
		{"major city outside the markets", []string{"Scotland"}, "Glasgow", geoCity, "major UK business hub (glasgow)"},
		{"nationwide coverage", []string{"Wales"}, "Nationwide", geoGeneric, "Serves clients Nationwide"},
		{"remote coverage", nil, "Remote", geoGeneric, "Serves clients Remote"},
		{"elsewhere", []string{"London"}, "Paris", geoDefault, "outside the target markets"},
		{"no location", []string{"London"}, "", geoDefault, "No location listed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := testBusiness(&models.BusinessProfile{TargetMarkets: tt.markets}, nil)
			f := geographicRelevance(b, models.PartnerRecord{Location: tt.location})
			assert.Equal(t, tt.wantScore, f.Score)
			assert.Contains(t, f.Justification, tt.wantText)
		})
	}
}

func TestServiceDepth(t *testing.T) {
	tests := []struct {
		name        string
		specialties []string
		wantScore   int
	}{
		{"five specialties", []string{"a", "b", "c", "d", "e"}, depthBroad},
		{"six specialties", []string{"a", "b", "c", "d", "e", "f"}, depthBroad},
		{"three specialties", []string{"a", "b", "c"}, depthModerate},
		{"four specialties", []string{"a", "b", "c", "d"}, depthModerate},
		{"two specialties", []string{"a", "b"}, depthNarrow},
		{"placeholders do not count", []string{"none", "n/a", "seo"}, depthNarrow},
		{"none listed", nil, depthNarrow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := serviceDepth(models.PartnerRecord{Specialties: tt.specialties})
			assert.Equal(t, tt.wantScore, f.Score)
			wantTierPrefix(t, f.Score, f.Justification, "Broad", "Focused", "Narrow")
		})
	}
}

// ==========================
// Category Ladder Tests
// ==========================

func TestNeedAlignment_Ladders(t *testing.T) {
	online := true
	offline := false

	tests := []struct {
		name       string
		category   string
		profile    models.BusinessProfile
		scores     scores
		registered bool
		wantScore  int
	}{
		{"legal unregistered", CategoryLegal, models.BusinessProfile{}, healthy, false, 95},
		{"legal few compliance items", CategoryLegal, models.BusinessProfile{ComplianceCompleted: []string{"GDPR"}}, healthy, true, 75},
		{"legal low regulatory", CategoryLegal, models.BusinessProfile{ComplianceCompleted: []string{"GDPR", "VAT"}}, with(healthy, func(s *scores) { s.reg = 40 }), true, 70},
		{"legal in place", CategoryLegal, models.BusinessProfile{ComplianceCompleted: []string{"GDPR", "VAT"}}, healthy, true, 50},

		{"accounting low investment", CategoryAccounting, models.BusinessProfile{}, with(healthy, func(s *scores) { s.inv = 30 }), true, 85},
		{"accounting unregistered", CategoryAccounting, models.BusinessProfile{}, healthy, false, 80},
		{"accounting moderate investment", CategoryAccounting, models.BusinessProfile{}, with(healthy, func(s *scores) { s.inv = 55 }), true, 70},
		{"accounting in place", CategoryAccounting, models.BusinessProfile{}, healthy, true, 50},

		{"marketing low digital", CategoryMarketing, models.BusinessProfile{HasEcommerce: &online}, with(healthy, func(s *scores) { s.dig = 30 }), true, 90},
		{"marketing no online sales", CategoryMarketing, models.BusinessProfile{HasEcommerce: &offline}, healthy, true, 75},
		{"marketing moderate digital", CategoryMarketing, models.BusinessProfile{HasEcommerce: &online}, with(healthy, func(s *scores) { s.dig = 55 }), true, 70},
		{"marketing established", CategoryMarketing, models.BusinessProfile{HasEcommerce: &online}, healthy, true, 50},

		{"logistics product-based low potential", CategoryLogistics, models.BusinessProfile{Industry: "Fashion retail"}, with(healthy, func(s *scores) { s.logi = 40 }), true, 90},
		{"logistics product-based", CategoryLogistics, models.BusinessProfile{Industry: "Food manufacturing"}, healthy, true, 75},
		{"logistics service business low potential", CategoryLogistics, models.BusinessProfile{Industry: "Consulting"}, with(healthy, func(s *scores) { s.logi = 40 }), true, 60},
		{"logistics service business", CategoryLogistics, models.BusinessProfile{Industry: "Software"}, healthy, true, 40},

		{"consulting low overall", CategoryConsulting, models.BusinessProfile{}, with(healthy, func(s *scores) { s.overall = 45 }), true, 80},
		{"consulting weak product-market fit", CategoryConsulting, models.BusinessProfile{}, with(healthy, func(s *scores) { s.pmf = 40 }), true, 70},
		{"consulting solid", CategoryConsulting, models.BusinessProfile{}, healthy, true, 50},

		{"compliance low regulatory", CategoryCompliance, models.BusinessProfile{ComplianceCompleted: []string{"GDPR"}}, with(healthy, func(s *scores) { s.reg = 30 }), true, 90},
		{"compliance nothing completed", CategoryCompliance, models.BusinessProfile{}, healthy, true, 80},
		{"compliance moderate regulatory", CategoryCompliance, models.BusinessProfile{ComplianceCompleted: []string{"GDPR"}}, with(healthy, func(s *scores) { s.reg = 60 }), true, 65},
		{"compliance advanced", CategoryCompliance, models.BusinessProfile{ComplianceCompleted: []string{"GDPR"}}, healthy, true, 45},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			profile := tt.profile
			b := testBusiness(&profile, resultWith(tt.scores, tt.registered))
			f := needAlignment(tt.category, b)
			assert.Equal(t, tt.wantScore, f.Score)
			assert.Equal(t, WeightNeedAlignment, f.Weight)
			wantTierPrefix(t, f.Score, f.Justification, "Strong need: ", "Moderate need: ", "Limited need: ")
		})
	}
}

func TestUrgencyFor_Ladders(t *testing.T) {
	tests := []struct {
		name       string
		category   string
		industry   string
		scores     scores
		registered bool
		want       Urgency
	}{
		{"legal unregistered", CategoryLegal, "", healthy, false, UrgencyHigh},
		{"legal low regulatory", CategoryLegal, "", with(healthy, func(s *scores) { s.reg = 45 }), true, UrgencyMedium},
		{"legal in place", CategoryLegal, "", healthy, true, UrgencyLow},

		{"accounting low investment", CategoryAccounting, "", with(healthy, func(s *scores) { s.inv = 35 }), true, UrgencyHigh},
		{"accounting moderate investment", CategoryAccounting, "", with(healthy, func(s *scores) { s.inv = 59 }), true, UrgencyMedium},
		{"accounting in place", CategoryAccounting, "", healthy, true, UrgencyLow},

		{"marketing low digital", CategoryMarketing, "", with(healthy, func(s *scores) { s.dig = 39 }), true, UrgencyHigh},
		{"marketing moderate digital", CategoryMarketing, "", with(healthy, func(s *scores) { s.dig = 40 }), true, UrgencyMedium},
		{"marketing strong", CategoryMarketing, "", healthy, true, UrgencyLow},

		{"logistics product-based low potential", CategoryLogistics, "Retail", with(healthy, func(s *scores) { s.logi = 49 }), true, UrgencyHigh},
		{"logistics product-based", CategoryLogistics, "Retail", with(healthy, func(s *scores) { s.logi = 50 }), true, UrgencyMedium},
		{"logistics service business", CategoryLogistics, "Consulting", with(healthy, func(s *scores) { s.logi = 20 }), true, UrgencyLow},

		{"consulting low overall", CategoryConsulting, "", with(healthy, func(s *scores) { s.overall = 39 }), true, UrgencyHigh},
		{"consulting moderate overall", CategoryConsulting, "", with(healthy, func(s *scores) { s.overall = 59 }), true, UrgencyMedium},
		{"consulting prepared", CategoryConsulting, "", with(healthy, func(s *scores) { s.overall = 60 }), true, UrgencyLow},

		{"compliance low regulatory", CategoryCompliance, "", with(healthy, func(s *scores) { s.reg = 39 }), true, UrgencyHigh},
		{"compliance moderate regulatory", CategoryCompliance, "", with(healthy, func(s *scores) { s.reg = 69 }), true, UrgencyMedium},
		{"compliance advanced", CategoryCompliance, "", with(healthy, func(s *scores) { s.reg = 70 }), true, UrgencyLow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := testBusiness(&models.BusinessProfile{Industry: tt.industry}, resultWith(tt.scores, tt.registered))
			urgency, reason := urgencyFor(tt.category, b)
			assert.Equal(t, tt.want, urgency)
			assert.NotEmpty(t, reason)
		})
	}
}

func TestEngine_Match_AllCategories(t *testing.T) {
	engine := createTestEngine(t)
	pool := []models.PartnerRecord{
		partner("log-1", "Logistics", "Birmingham", true, "retail fulfilment", "warehousing", "startup"),
		partner("con-1", "consulting", "London", true, "market entry", "startup strategy"),
		partner("cmp-1", "compliance", "UK-wide", false, "GDPR", "trading standards", "product safety"),
	}
	profile := retailProfile()
	result := resultWith(with(healthy, func(s *scores) {
		s.overall = 35
		s.reg = 30
		s.logi = 40
	}), false)

	recs := engine.Match(pool, profile, result)
	assert.Len(t, recs, 3)
	for _, category := range []string{CategoryLogistics, CategoryConsulting, CategoryCompliance} {
		rec := findCategory(recs, category)
		if assert.NotNil(t, rec, category) {
			assert.Equal(t, UrgencyHigh, rec.Urgency, category)
			assert.Len(t, rec.Partners, 1)
			assert.NotNil(t, rec.Partners[0].RelevantCaseStudy)
		}
	}
}
