package stubanalysis

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"idea-analyzer/internal/analysis"
	"idea-analyzer/internal/scoring"
)

const rubricMax = 25

var businessNamePattern = regexp.MustCompile(`\b[A-Z][a-z]+ [A-Z][a-z]+\b`)

type industry struct {
	name     string
	keywords []string
}

// Checked in order; the first match wins.
var industries = []industry{
	{"technology", []string{"app", "software", "digital", "online", "platform", "tech", "ai", "system"}},
	{"food", []string{"restaurant", "food", "catering", "kitchen", "cook", "meal", "dining"}},
	{"retail", []string{"store", "shop", "retail", "sales", "products", "merchandise"}},
	{"service", []string{"service", "consulting", "support", "help", "assistance"}},
	{"manufacturing", []string{"production", "factory", "manufacturing", "goods"}},
	{"agriculture", []string{"farm", "organic", "crops", "agricultural", "farming"}},
	{"healthcare", []string{"health", "medical", "clinic", "treatment", "care"}},
	{"education", []string{"education", "training", "learning", "school", "course"}},
}

// document is the tokenized submission the rules run against.
type document struct {
	text  string
	words map[string]bool
	name  string
}

func newDocument(text string) document {
	words := map[string]bool{}
	for _, w := range strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}) {
		words[w] = true
	}
	name := businessNamePattern.FindString(text)
	if name == "" {
		name = "This venture"
	}
	return document{text: text, words: words, name: name}
}

func (d document) mentions(terms ...string) bool {
	for _, t := range terms {
		if d.words[t] {
			return true
		}
	}
	return false
}

func (d document) industry() string {
	for _, ind := range industries {
		if d.mentions(ind.keywords...) {
			return ind.name
		}
	}
	return "general"
}

// Analyze runs the rule-based canvas, SWOT and rubric scoring over text.
func Analyze(text string) analysis.AnalysisResult {
	doc := newDocument(strings.TrimSpace(text))
	ind := doc.industry()

	res := analysis.AnalysisResult{
		BusinessCanvas: canvasFor(ind, doc.name),
		LocalImpact:    localImpact(doc),
	}
	res.Opportunities, res.Threats = opportunitiesAndThreats(doc, ind)
	res.Rubrics = scoreRubrics(doc, res.BusinessCanvas)

	total := 0
	for _, r := range res.Rubrics {
		total += r.Score
	}
	res.OverallScore = &total
	res.TrafficLightBand = scoring.Classify(total)
	res.Strengths, res.DetailedFeedback = summaryFor(res.TrafficLightBand)
	res.Weaknesses, res.Improvements = gapsFor(res.Rubrics, total)
	if len(res.Improvements) == 0 {
		res.Improvements = recommendationsFor(ind)
	}
	return res
}

func canvasFor(ind, name string) analysis.Canvas {
	c := analysis.Canvas{
		CostStructure:         field("Key costs for %s: personnel, operational overhead, marketing, technology infrastructure, regulatory compliance", name),
		RevenueStreams:        field("Product or service sales, subscriptions, partnerships, premium services"),
		CustomerRelationships: field("Personalized service, community building, feedback loops, loyalty programs"),
	}
	switch ind {
	case "technology":
		c.KeyPartners = field("Technology vendors, cloud providers, development partners, integration specialists")
		c.KeyActivities = field("Software development, user experience design, data analytics, customer support")
		c.KeyResources = field("Development team, technology infrastructure, intellectual property, user data")
		c.ValueProposition = field("%s streamlines processes with technology, improves user experience", name)
		c.Channels = field("Online platform, mobile app, digital marketing, partner networks")
		c.CustomerSegments = field("Tech-savvy consumers, businesses seeking digital transformation, early adopters")
	case "food":
		c.KeyPartners = field("Local suppliers, food distributors, delivery services, equipment providers")
		c.KeyActivities = field("Food preparation, quality control, customer service, inventory management")
		c.KeyResources = field("Kitchen facilities, skilled staff, supplier relationships, location")
		c.ValueProposition = field("%s offers fresh ingredients, quality meals, friendly service", name)
		c.Channels = field("Physical location, delivery apps, online ordering, social media")
		c.CustomerSegments = field("Local community, busy professionals, families")
	case "agriculture":
		c.KeyPartners = field("Local farmers, certification bodies, distribution networks, equipment suppliers")
		c.KeyActivities = field("Crop production, quality assurance, harvesting, packaging, distribution")
		c.KeyResources = field("Agricultural land, farming equipment, skilled labor, certifications")
		c.ValueProposition = field("%s provides sustainable produce, environmental responsibility", name)
		c.Channels = field("Farmers markets, organic stores, direct-to-consumer sales, wholesale")
		c.CustomerSegments = field("Health-conscious consumers, organic retailers, restaurants")
	default:
		c.KeyPartners = field("Strategic suppliers, distribution partners, industry associations supporting %s", name)
		c.KeyActivities = field("Production, marketing, customer service, quality management")
		c.KeyResources = field("Skilled workforce, operational facilities, brand reputation, customer relationships")
		c.ValueProposition = field("%s delivers quality offerings, competitive pricing", name)
		c.Channels = field("Direct sales, online presence, partnerships, traditional marketing")
		c.CustomerSegments = field("Primary market segment, niche customer groups")
	}
	return c
}

func field(format string, args ...any) analysis.CanvasField {
	if len(args) == 0 {
		return analysis.CanvasField{Details: format}
	}
	return analysis.CanvasField{Details: fmt.Sprintf(format, args...)}
}

// items counts the comma-separated entries of a canvas slot.
func items(f analysis.CanvasField) int {
	details := f.Details
	if i := strings.Index(details, ":"); i >= 0 {
		details = details[i+1:]
	}
	n := 0
	for _, part := range strings.Split(details, ",") {
		if strings.TrimSpace(part) != "" {
			n++
		}
	}
	return n
}

func opportunitiesAndThreats(doc document, ind string) ([]string, []string) {
	var opps, threats []string
	if doc.mentions("innovative", "new", "unique", "first", "novel") {
		opps = append(opps, "First-mover advantage in an emerging market segment")
	}
	if doc.mentions("local", "community", "regional") {
		opps = append(opps, "Expansion potential to neighbouring markets")
	}
	if doc.mentions("online", "digital", "internet", "technology") {
		opps = append(opps, "Scalability through digital channels")
	} else {
		opps = append(opps, "Digital transformation and online presence development")
	}
	if doc.mentions("competition", "competitor", "competitors", "rivals") {
		threats = append(threats, "Competitive market with established players")
	}
	switch ind {
	case "technology":
		opps = append(opps, "Growing demand for digital solutions")
		threats = append(threats, "Rapid technological change")
	case "food":
		opps = append(opps, "Growing food delivery and convenience market")
		threats = append(threats, "Food safety regulations and supply chain risks")
	case "agriculture":
		opps = append(opps, "Increasing demand for organic and local products")
		threats = append(threats, "Weather dependency and seasonal variation")
	}
	if len(threats) == 0 {
		threats = []string{"Economic uncertainty", "New market entrants", "Changing customer preferences"}
	}
	return opps, threats
}

func localImpact(doc document) string {
	if doc.mentions("local", "community") {
		return doc.name + " shows a strong commitment to local economic development through job creation, community engagement and local supply chains."
	}
	return doc.name + " could create regional economic impact through employment, tax revenue and demand for related local businesses."
}

func scoreRubrics(doc document, c analysis.Canvas) []analysis.Rubric {
	return []analysis.Rubric{
		completeness(doc, c),
		clarity(doc, c),
		feasibility(c),
		innovation(doc, c),
	}
}

func completeness(doc document, c analysis.Canvas) analysis.Rubric {
	present := 0
	for _, e := range c.Entries() {
		if strings.TrimSpace(e.Details) != "" {
			present++
		}
	}
	score := present * 15 / len(analysis.Slots)
	var notes []string
	switch {
	case present >= 7:
		notes = append(notes, "Comprehensive business model coverage")
	case present >= 5:
		notes = append(notes, "Good coverage of key business components")
	default:
		notes = append(notes, "Several business model components need development")
	}
	if doc.mentions("revenue", "cost", "costs", "profit", "financial", "budget", "investment") {
		score += 5
		notes = append(notes, "Financial considerations included")
	} else {
		notes = append(notes, "Financial planning needs more detail")
	}
	if doc.mentions("market", "customer", "customers", "competition", "target", "segment") {
		score += 5
		notes = append(notes, "Market analysis present")
	} else {
		notes = append(notes, "Market analysis requires expansion")
	}
	return rubric("completeness", score, notes)
}

func clarity(doc document, c analysis.Canvas) analysis.Rubric {
	score := 0
	var notes []string
	switch n := len(doc.text); {
	case n > 500:
		score += 8
		notes = append(notes, "Detailed description provided")
	case n > 200:
		score += 5
		notes = append(notes, "Adequate detail level")
	default:
		notes = append(notes, "More detailed description needed")
	}
	score += tiered(items(c.ValueProposition), &notes, tier{2, 8, "Clear value propositions"}, tier{1, 5, "Basic value proposition identified"}, "Value proposition needs clarification")
	score += tiered(items(c.CustomerSegments), &notes, tier{2, 9, "Well-defined customer segments"}, tier{1, 6, "Customer segment identified"}, "Customer segments need definition")
	return rubric("clarity", score, notes)
}

func feasibility(c analysis.Canvas) analysis.Rubric {
	score := 0
	var notes []string
	score += tiered(items(c.KeyResources), &notes, tier{3, 8, "Key resources well identified"}, tier{1, 5, "Basic resources identified"}, "Resource planning needs attention")
	score += tiered(items(c.RevenueStreams), &notes, tier{2, 8, "Multiple revenue streams identified"}, tier{1, 5, "Revenue model present"}, "Revenue model needs development")
	score += tiered(items(c.CostStructure), &notes, tier{3, 9, "Comprehensive cost analysis"}, tier{1, 6, "Basic cost awareness"}, "Cost structure needs analysis")
	return rubric("feasibility", score, notes)
}

func innovation(doc document, c analysis.Canvas) analysis.Rubric {
	score := 0
	var notes []string
	if doc.mentions("digital", "technology", "online", "app", "platform", "ai", "automation") {
		score += 8
		notes = append(notes, "Technology integration identified")
	}
	if doc.mentions("sustainable", "environmental", "social", "impact", "green", "eco") {
		score += 8
		notes = append(notes, "Sustainability considerations present")
	}
	if doc.mentions("unique", "innovative", "first", "new", "different", "breakthrough") {
		score += 9
		notes = append(notes, "Innovative elements identified")
	} else if items(c.ValueProposition) > 0 {
		score += 5
		notes = append(notes, "Value differentiation present")
	}
	if len(notes) == 0 {
		notes = append(notes, "More innovative elements could strengthen the business")
	}
	return rubric("innovation", score, notes)
}

type tier struct {
	min    int
	points int
	note   string
}

func tiered(n int, notes *[]string, high, low tier, none string) int {
	switch {
	case n >= high.min:
		*notes = append(*notes, high.note)
		return high.points
	case n >= low.min:
		*notes = append(*notes, low.note)
		return low.points
	default:
		*notes = append(*notes, none)
		return 0
	}
}

func rubric(name string, score int, notes []string) analysis.Rubric {
	if score > rubricMax {
		score = rubricMax
	}
	return analysis.Rubric{Name: name, Score: score, MaxScore: rubricMax, Feedback: strings.Join(notes, "; ")}
}

func summaryFor(band scoring.Band) ([]string, string) {
	switch band {
	case scoring.BandGreen:
		return []string{"Comprehensive business planning", "Clear value proposition", "Well-structured approach"},
			"Excellent business plan with a strong foundation across all areas. Ready for implementation."
	case scoring.BandYellow:
		return []string{"Good foundation", "Clear direction", "Solid core concept"},
			"Good business plan with room for enhancement in specific areas. Continue developing key components."
	default:
		return []string{"Initial concept present", "Foundation to build upon"},
			"Business plan requires substantial development across multiple areas. Focus on core business model components."
	}
}

var rubricGaps = map[string][2]string{
	"completeness": {"Incomplete business model components", "Develop all nine Business Model Canvas components thoroughly"},
	"clarity":      {"Lacks clarity in key areas", "Describe value propositions and customer segments in more detail"},
	"feasibility":  {"Feasibility concerns", "Strengthen resource planning and validate the revenue model"},
	"innovation":   {"Limited innovation elements", "Incorporate more innovative or differentiating factors"},
}

func gapsFor(rubrics []analysis.Rubric, total int) ([]string, []string) {
	var weaknesses, improvements []string
	for _, r := range rubrics {
		if r.Score >= 15 {
			continue
		}
		if gap, ok := rubricGaps[r.Name]; ok {
			weaknesses = append(weaknesses, gap[0])
			improvements = append(improvements, gap[1])
		}
	}
	if total < 70 {
		improvements = append(improvements,
			"Conduct thorough market research and competitor analysis",
			"Develop detailed financial projections and funding requirements",
			"Create a comprehensive go-to-market strategy",
		)
	}
	return weaknesses, improvements
}

func recommendationsFor(ind string) []string {
	switch ind {
	case "technology":
		return []string{"Build a robust MVP with an iterative release process", "Focus on user acquisition and retention metrics"}
	case "food":
		return []string{"Ensure compliance with food safety regulations", "Consider delivery and online ordering"}
	case "agriculture":
		return []string{"Obtain organic certifications", "Develop weather risk management strategies"}
	default:
		return []string{"Establish key performance indicators", "Build a team with complementary expertise"}
	}
}
