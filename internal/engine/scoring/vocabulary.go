package scoring

// Keyword vocabularies. All entries are lower case and matched as substrings,
// except the timelines, which are matched as whole words.
var (
	HighGrowthIndustries = []string{
		"technology", "software", "saas", "fintech", "healthtech", "e-commerce",
		"ecommerce", "renewable", "clean energy", "artificial intelligence", "biotech",
		"cybersecurity",
	}

	NearTermTimelines = []string{
		"immediate", "immediately", "asap", "now", "0-3", "1-3", "within 3 months", "next 3 months",
		"this quarter",
	}

	MediumTermTimelines = []string{
		"3-6", "6-12", "within 6 months", "within 12 months", "this year", "next year",
	}

	// TimelineNegations void a timeline keyword that directly follows them ("not now").
	TimelineNegations = []string{"not", "no", "never"}

	IncorporatedEntityTypes = []string{"limited", "ltd", "plc", "llp", "cic"}

	UnincorporatedEntityTypes = []string{"sole trader", "partnership"}

	LogisticsKeywords = []string{
		"logistics", "distribution", "warehouse", "fulfillment", "fulfilment",
		"shipping", "supply chain", "delivery",
	}

	TechnologyIndustryKeywords = []string{
		"technology", "software", "saas", "tech", "digital", "platform", "mobile app",
		"fintech", "it services", "artificial intelligence",
	}

	AutomationFeatureKeywords = []string{
		"booking", "crm", "automation", "chatbot", "api", "integration",
		"online payment", "e-commerce", "ecommerce", "inventory", "scheduling",
		"self-service", "analytics",
	}

	TechnologyInvestmentKeywords = []string{
		"technology", "software", "automation", "digital", "ai ", "artificial intelligence",
		"machine learning", "systems", "platform", "tools",
	}
)

// Company size brackets inferred from free-text size descriptions.
type sizeBracket int

const (
	sizeUnknown sizeBracket = iota
	sizeMicro
	sizeSmall
	sizeMedium
	sizeLarge
)

var sizeKeywords = []struct {
	bracket  sizeBracket
	keywords []string
}{
	{sizeLarge, []string{"large", "250+", "enterprise"}},
	{sizeMedium, []string{"medium", "50-249", "50-250"}},
	{sizeSmall, []string{"small", "10-49", "10-50"}},
	{sizeMicro, []string{"micro", "1-9", "startup", "start-up", "sole", "solo"}},
}

func (s sizeBracket) String() string {
	switch s {
	case sizeMicro:
		return "micro"
	case sizeSmall:
		return "small"
	case sizeMedium:
		return "medium"
	case sizeLarge:
		return "large"
	default:
		return "unknown"
	}
}

// CompanySizeBracket classifies free-text company size as micro, small, medium, large
// or unknown.
func CompanySizeBracket(size string) string {
	return parseSize(size).String()
}
