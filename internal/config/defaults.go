package config

// Default values applied by ApplyDefaults.
const (
	DefaultSiteTitle        = "Digital Garden"
	DefaultLocale           = "en-US"
	DefaultContentDir       = "./content"
	DefaultOutputDir        = "./public"
	DefaultStatePath        = ".garden/state.db"
	DefaultPreviewPort      = 8080
	DefaultNotifySubject    = "garden.build.completed"
	DefaultRecentNotesTitle = "Recent Notes"
	DefaultRecentNotesLimit = 5
	DefaultGiscusProvider   = "giscus"
)

// DefaultIgnorePatterns mirrors the folders a notes vault usually keeps private.
var DefaultIgnorePatterns = []string{"private", "templates", ".obsidian"}

// DefaultDateSources is the default date resolution chain.
var DefaultDateSources = []DateSource{DateSourceFrontmatter, DateSourceGit, DateSourceState, DateSourceFilesystem}

// DefaultFooterLinks returns the outbound profile links shown in the footer.
func DefaultFooterLinks() []Link {
	return []Link{
		{Label: "GitHub", URL: "https://github.com/sys27"},
		{Label: "LinkedIn", URL: "https://www.linkedin.com/in/dmytrokyshchenko/"},
		{Label: "StackOverflow", URL: "https://stackoverflow.com/users/743754/exploding-kitten"},
	}
}

// ApplyDefaults fills every unset field. It is idempotent.
func ApplyDefaults(cfg *Config) {
	if cfg.Site.Title == "" {
		cfg.Site.Title = DefaultSiteTitle
	}
	if cfg.Site.Locale == "" {
		cfg.Site.Locale = DefaultLocale
	}
	if cfg.Content.Directory == "" {
		cfg.Content.Directory = DefaultContentDir
	}
	if cfg.Content.Ignore == nil {
		cfg.Content.Ignore = append([]string(nil), DefaultIgnorePatterns...)
	}
	if cfg.Output.Directory == "" {
		cfg.Output.Directory = DefaultOutputDir
	}
	if len(cfg.Build.DateSources) == 0 {
		cfg.Build.DateSources = append([]DateSource(nil), DefaultDateSources...)
	} else {
		for i, ds := range cfg.Build.DateSources {
			if parsed, err := ParseDateSource(string(ds)); err == nil {
				cfg.Build.DateSources[i] = parsed
			}
		}
	}
	applyCommentDefaults(&cfg.Comments)
	if len(cfg.Footer.Links) == 0 {
		cfg.Footer.Links = DefaultFooterLinks()
	}
	if cfg.RecentNotes.Title == "" {
		cfg.RecentNotes.Title = DefaultRecentNotesTitle
	}
	if cfg.RecentNotes.Limit == 0 {
		cfg.RecentNotes.Limit = DefaultRecentNotesLimit
	}
	if cfg.State.Path == "" && !cfg.State.Disabled {
		cfg.State.Path = DefaultStatePath
	}
	if cfg.Preview.Port == 0 {
		cfg.Preview.Port = DefaultPreviewPort
	}
	if cfg.Notify.Subject == "" {
		cfg.Notify.Subject = DefaultNotifySubject
	}
}

// applyCommentDefaults fills unset giscus fields from DefaultComments so a
// config that only overrides, say, the theme keeps the site's identifiers.
func applyCommentDefaults(c *Comments) {
	d := DefaultComments()
	if c.Provider == "" {
		c.Provider = d.Provider
	}
	if c.Repo == "" {
		c.Repo = d.Repo
	}
	if c.RepoID == "" {
		c.RepoID = d.RepoID
	}
	if c.Category == "" {
		c.Category = d.Category
	}
	if c.CategoryID == "" {
		c.CategoryID = d.CategoryID
	}
	if c.Mapping == "" {
		c.Mapping = d.Mapping
	}
	if c.EmbedMapping == "" {
		c.EmbedMapping = d.EmbedMapping
	}
	if c.Strict == nil {
		c.Strict = d.Strict
	}
	if c.ReactionsEnabled == nil {
		c.ReactionsEnabled = d.ReactionsEnabled
	}
	if c.InputPosition == "" {
		c.InputPosition = d.InputPosition
	}
	if c.Theme == "" {
		c.Theme = d.Theme
	}
	if c.Lang == "" {
		c.Lang = d.Lang
	}
	if c.Loading == "" {
		c.Loading = d.Loading
	}
}
