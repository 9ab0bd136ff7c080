package content

// Pages and the keys each typed page owns. Lists are stored as JSON arrays,
// everything else as plain text.
const (
	PageHomepage  = "homepage"
	PagePortfolio = "portfolio"

	SectionHero    = "hero"
	SectionPresent = "present"
	SectionPast    = "past"
	SectionSocial  = "social"
	SectionMain    = "main"

	KeyLine1       = "line1"
	KeyLine2       = "line2"
	KeySubtitle    = "subtitle"
	KeyTitle       = "title"
	KeyDescription = "description"
	KeyItems       = "items"
)

// isListKey reports whether values under key are JSON-encoded lists.
func isListKey(key string) bool {
	return key == KeyItems
}

// LinkItem is one row of a list section: a label with an optional link.
type LinkItem struct {
	Text string `json:"text" validate:"required,max=500"`
	Link string `json:"link" validate:"omitempty,max=2000"`
}

type Hero struct {
	Line1    string `json:"line1" validate:"max=500"`
	Line2    string `json:"line2" validate:"max=500"`
	Subtitle string `json:"subtitle" validate:"max=1000"`
}

type ListSection struct {
	Title string     `json:"title" validate:"max=500"`
	Items []LinkItem `json:"items" validate:"dive"`
}

type SocialSection struct {
	Items []LinkItem `json:"items" validate:"dive"`
}

// Homepage is the typed view over the "homepage" page.
type Homepage struct {
	Hero    Hero          `json:"hero"`
	Present ListSection   `json:"present"`
	Past    ListSection   `json:"past"`
	Social  SocialSection `json:"social"`
}

// Portfolio is the typed view over the "portfolio" page (section "main").
type Portfolio struct {
	Title       string     `json:"title" validate:"max=500"`
	Description string     `json:"description" validate:"max=5000"`
	Items       []LinkItem `json:"items" validate:"dive"`
}

func nonNil(items []LinkItem) []LinkItem {
	if items == nil {
		return []LinkItem{}
	}
	return items
}
