package matching

// Matching vocabularies. Entries are lower case and matched as substrings.
var (
	ProductBasedIndustries = []string{
		"retail", "e-commerce", "ecommerce", "manufacturing", "food", "wholesale",
		"consumer goods", "fashion", "beverage", "furniture", "cosmetics",
	}

	// StageKeywords maps a company-size bracket to the phrasing partners use for it.
	StageKeywords = map[string][]string{
		"micro":  {"startup", "start-up", "seed", "early-stage", "early stage", "new business"},
		"small":  {"sme", "small business", "growing", "growth"},
		"medium": {"sme", "mid-market", "growing", "scale-up", "scaleup"},
		"large":  {"enterprise", "mid-market", "corporate"},
	}

	MajorCities = []string{
		"london", "manchester", "birmingham", "leeds", "glasgow", "edinburgh", "bristol",
		"liverpool", "cardiff", "belfast", "newcastle", "sheffield", "nottingham",
	}

	GenericCoverage = []string{"uk-wide", "uk wide", "nationwide", "national", "remote", "online"}
)

// Sub-score ladders.
const (
	relevanceFloor = 10

	industryExact    = 95
	industryPartial  = 70
	industryBaseline = 45
	minKeywordLength = 4

	stageHit     = 90
	stageDefault = 70

	geoExact   = 95
	geoCity    = 80
	geoGeneric = 75
	geoDefault = 60

	depthBroad    = 85
	depthModerate = 75
	depthNarrow   = 65
)

// topN is how many partners each category keeps.
func topN(category string) int {
	if category == CategoryLegal || category == CategoryAccounting {
		return 3
	}
	return 2
}

// CaseStudies is the static reference library, keyed by category. Each category's
// first entry is its fallback.
var CaseStudies = map[string][]CaseStudy{
	CategoryLegal: {
		{
			Title:    "Incorporating a UK subsidiary ahead of launch",
			Industry: "technology",
			Summary:  "A software start-up set up a UK limited company, shareholder agreements and IP assignment before signing its first customer.",
			Outcome:  "Trading within six weeks with contracts reviewed for UK law",
		},
		{
			Title:    "Product liability review for an importer",
			Industry: "retail",
			Summary:  "A consumer products retailer reviewed labelling, returns terms and supplier contracts for UK consumer law.",
			Outcome:  "Launched on two UK marketplaces without listing takedowns",
		},
		{
			Title:    "Licensing a food brand for UK distribution",
			Industry: "food",
			Summary:  "A specialty food producer structured a distribution licence and trademark filing for the UK market.",
			Outcome:  "Secured a regional wholesale agreement in the first quarter",
		},
	},
	CategoryAccounting: {
		{
			Title:    "VAT and payroll setup for a first UK hire",
			Industry: "professional services",
			Summary:  "A consultancy registered for VAT and PAYE and moved bookkeeping to a cloud ledger before its first UK employee started.",
			Outcome:  "First quarterly VAT return filed on time",
		},
		{
			Title:    "Investor-ready accounts for a scale-up",
			Industry: "technology",
			Summary:  "A SaaS company restated management accounts and built a three-year forecast for a seed round.",
			Outcome:  "Closed its funding round with clean due diligence",
		},
		{
			Title:    "Import VAT and duty planning",
			Industry: "retail",
			Summary:  "An online retailer modelled landed cost, postponed VAT accounting and duty relief for UK stock.",
			Outcome:  "Cut cash tied up in import VAT by two months",
		},
	},
	CategoryMarketing: {
		{
			Title:    "Localising an online store for UK shoppers",
			Industry: "retail",
			Summary:  "A fashion brand switched to GBP pricing, UK sizing and local reviews, then ran a paid social launch.",
			Outcome:  "Doubled UK conversion rate within three months",
		},
		{
			Title:    "B2B lead generation for a software vendor",
			Industry: "technology",
			Summary:  "A SaaS vendor rebuilt its website messaging for UK buyers and ran account-based campaigns on LinkedIn.",
			Outcome:  "Forty qualified UK leads in the first campaign",
		},
	},
	CategoryLogistics: {
		{
			Title:    "Third-party fulfilment for a direct-to-consumer brand",
			Industry: "retail",
			Summary:  "A homeware brand moved UK orders to a fulfilment centre with next-day courier integration.",
			Outcome:  "Delivery times cut from five days to one",
		},
		{
			Title:    "Cold-chain distribution for a food producer",
			Industry: "food",
			Summary:  "A chilled food producer set up bonded warehousing and temperature-controlled delivery to UK retailers.",
			Outcome:  "Listed with two supermarket chains",
		},
		{
			Title:    "Inbound freight consolidation for a manufacturer",
			Industry: "manufacturing",
			Summary:  "A component manufacturer consolidated EU shipments through a single UK customs broker and warehouse.",
			Outcome:  "Freight costs reduced by 18 percent",
		},
	},
	CategoryConsulting: {
		{
			Title:    "UK market-entry strategy",
			Industry: "technology",
			Summary:  "A platform company validated UK pricing and channel partners before committing to a local team.",
			Outcome:  "Entered the UK with three reseller partners",
		},
		{
			Title:    "Operational readiness review",
			Industry: "manufacturing",
			Summary:  "A manufacturer assessed UK supplier options, hiring plans and grant eligibility.",
			Outcome:  "Secured a regional growth grant",
		},
	},
	CategoryCompliance: {
		{
			Title:    "GDPR programme for a data-driven business",
			Industry: "technology",
			Summary:  "An analytics company appointed a UK representative, registered with the ICO and documented its processing.",
			Outcome:  "Passed its first enterprise customer security review",
		},
		{
			Title:    "Product safety conformity for consumer goods",
			Industry: "retail",
			Summary:  "A toy retailer obtained UKCA marking and set up a responsible person for product safety.",
			Outcome:  "Cleared for sale through UK marketplaces",
		},
		{
			Title:    "Food hygiene and labelling compliance",
			Industry: "food",
			Summary:  "A bakery brand registered its premises and reworked allergen labelling for UK regulations.",
			Outcome:  "Five-star hygiene rating at first inspection",
		},
	},
}
