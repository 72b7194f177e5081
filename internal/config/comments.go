package config

// Comments is the single source of truth for the giscus discussion widget.
// Both the after-body comments widget and the embed appended to content
// pages read from it.
//
// Mapping is used by the after-body widget and EmbedMapping by the embed
// appended after the article; the two historically differ (url vs title)
// and are kept as separate, explicit fields.
type Comments struct {
	Provider         string `yaml:"provider"`
	Repo             string `yaml:"repo"`
	RepoID           string `yaml:"repo_id"`
	Category         string `yaml:"category"`
	CategoryID       string `yaml:"category_id"`
	Mapping          string `yaml:"mapping"`
	EmbedMapping     string `yaml:"embed_mapping"`
	Strict           *bool  `yaml:"strict,omitempty"`
	ReactionsEnabled *bool  `yaml:"reactions_enabled,omitempty"`
	EmitMetadata     bool   `yaml:"emit_metadata"`
	InputPosition    string `yaml:"input_position"`
	Theme            string `yaml:"theme"`
	Lang             string `yaml:"lang"`
	Loading          string `yaml:"loading"`
}

// GiscusScriptURL is the hosted giscus client.
const GiscusScriptURL = "https://giscus.app/client.js"

// DefaultComments returns the site's giscus configuration.
func DefaultComments() Comments {
	return Comments{
		Provider:         "giscus",
		Repo:             "sys27/sys27",
		RepoID:           "R_kgDOLw20Lw",
		Category:         "General",
		CategoryID:       "DIC_kwDOLw20L84Ce0bA",
		Mapping:          "url",
		EmbedMapping:     "title",
		Strict:           boolPtr(true),
		ReactionsEnabled: boolPtr(true),
		EmitMetadata:     false,
		InputPosition:    "bottom",
		Theme:            "dark_tritanopia",
		Lang:             "en",
		Loading:          "lazy",
	}
}

// IsStrict reports whether strict title matching is enabled (default true).
func (c Comments) IsStrict() bool { return c.Strict == nil || *c.Strict }

// HasReactions reports whether reactions are enabled (default true).
func (c Comments) HasReactions() bool { return c.ReactionsEnabled == nil || *c.ReactionsEnabled }

func boolPtr(b bool) *bool { return &b }
