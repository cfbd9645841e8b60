package analysis

// NotSpecified is the sentinel the analysis service uses for an unfilled canvas slot.
const NotSpecified = "Not specified"

// Slot describes one canvas slot: its raw key, display title and placeholder.
type Slot struct {
	Key         string
	Title       string
	Placeholder string
	field       func(*Canvas) *CanvasField
}

// Slots is the canonical slot order.
var Slots = []Slot{
	{
		Key:         "keyPartners",
		Title:       "Key Partners",
		Placeholder: "Strategic partnerships, suppliers and alliances the business will rely on.",
		field:       func(c *Canvas) *CanvasField { return &c.KeyPartners },
	},
	{
		Key:         "keyActivities",
		Title:       "Key Activities",
		Placeholder: "Core activities the business must perform to deliver its value proposition.",
		field:       func(c *Canvas) *CanvasField { return &c.KeyActivities },
	},
	{
		Key:         "keyResources",
		Title:       "Key Resources",
		Placeholder: "Essential physical, human, financial and intellectual resources for operations.",
		field:       func(c *Canvas) *CanvasField { return &c.KeyResources },
	},
	{
		Key:         "valueProposition",
		Title:       "Value Proposition",
		Placeholder: "The core value the business delivers to its customers.",
		field:       func(c *Canvas) *CanvasField { return &c.ValueProposition },
	},
	{
		Key:         "customerRelationships",
		Title:       "Customer Relationships",
		Placeholder: "How the business will engage with and retain its customers.",
		field:       func(c *Canvas) *CanvasField { return &c.CustomerRelationships },
	},
	{
		Key:         "channels",
		Title:       "Channels",
		Placeholder: "Distribution and sales channels used to reach customers.",
		field:       func(c *Canvas) *CanvasField { return &c.Channels },
	},
	{
		Key:         "customerSegments",
		Title:       "Customer Segments",
		Placeholder: "Target customer groups the business intends to serve.",
		field:       func(c *Canvas) *CanvasField { return &c.CustomerSegments },
	},
	{
		Key:         "costStructure",
		Title:       "Cost Structure",
		Placeholder: "Major cost components required to run the business.",
		field:       func(c *Canvas) *CanvasField { return &c.CostStructure },
	},
	{
		Key:         "revenueStreams",
		Title:       "Revenue Streams",
		Placeholder: "How the business will generate revenue from each customer segment.",
		field:       func(c *Canvas) *CanvasField { return &c.RevenueStreams },
	},
}

// SlotByKey finds a slot definition by its raw key.
func SlotByKey(key string) (Slot, bool) {
	for _, s := range Slots {
		if s.Key == key {
			return s, true
		}
	}
	return Slot{}, false
}

// PlaceholderCanvas returns a canvas with every slot set to its placeholder.
func PlaceholderCanvas() Canvas {
	var c Canvas
	for _, s := range Slots {
		s.field(&c).Details = s.Placeholder
	}
	return c
}
