package domain

// ClauseTemplate is a reviewed, SME-friendly clause that reviewers can
// use as a starting point for a rewrite.
type ClauseTemplate struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Text        string `json:"text"`
}

// DefaultTemplates returns the built-in template library.
func DefaultTemplates() []ClauseTemplate {
	return []ClauseTemplate{
		{
			Title:       "Limited Liability Clause (SME-friendly)",
			Description: "Caps liability to contract value and excludes indirect damages.",
			Text: "Except for liability arising from gross negligence or willful misconduct, each party's " +
				"aggregate liability shall not exceed the total fees paid under this Agreement.",
		},
		{
			Title:       "Mutual Indemnity (Balanced)",
			Description: "Mutual indemnity limited to direct damages.",
			Text:        "Each party shall indemnify the other only for direct losses caused by breach.",
		},
	}
}
