package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	ferrors "github.com/sys27/garden/internal/foundation/errors"
)

func TestParse_EmptyAppliesDefaults(t *testing.T) {
	cfg, err := Parse(nil)
	require.NoError(t, err)

	require.Equal(t, DefaultSiteTitle, cfg.Site.Title)
	require.Equal(t, DefaultContentDir, cfg.Content.Directory)
	require.Equal(t, DefaultOutputDir, cfg.Output.Directory)
	require.True(t, cfg.Output.ShouldClean())
	require.Equal(t, DefaultDateSources, cfg.Build.DateSources)
	require.Equal(t, "Recent Notes", cfg.RecentNotes.Title)
	require.Equal(t, 5, cfg.RecentNotes.Limit)
	require.Equal(t, DefaultComments(), cfg.Comments)
	require.True(t, cfg.State.Enabled())
	require.Equal(t, DefaultPreviewPort, cfg.Preview.Port)
}

func TestDefaultFooterLinks_OrderAndValues(t *testing.T) {
	links := DefaultFooterLinks()
	require.Equal(t, []Link{
		{Label: "GitHub", URL: "https://github.com/sys27"},
		{Label: "LinkedIn", URL: "https://www.linkedin.com/in/dmytrokyshchenko/"},
		{Label: "StackOverflow", URL: "https://stackoverflow.com/users/743754/exploding-kitten"},
	}, links)
}

func TestDefaultComments_Literals(t *testing.T) {
	c := DefaultComments()
	require.Equal(t, "giscus", c.Provider)
	require.Equal(t, "sys27/sys27", c.Repo)
	require.Equal(t, "R_kgDOLw20Lw", c.RepoID)
	require.Equal(t, "General", c.Category)
	require.Equal(t, "DIC_kwDOLw20L84Ce0bA", c.CategoryID)
	require.Equal(t, "url", c.Mapping)
	require.Equal(t, "title", c.EmbedMapping)
	require.True(t, c.IsStrict())
	require.True(t, c.HasReactions())
	require.False(t, c.EmitMetadata)
	require.Equal(t, "bottom", c.InputPosition)
}

func TestParse_PartialCommentsKeepIdentifiers(t *testing.T) {
	cfg, err := Parse([]byte("comments:\n  theme: light\n  strict: false\n"))
	require.NoError(t, err)
	require.Equal(t, "light", cfg.Comments.Theme)
	require.False(t, cfg.Comments.IsStrict())
	require.Equal(t, "R_kgDOLw20Lw", cfg.Comments.RepoID)
}

func TestParse_ExpandsEnvironment(t *testing.T) {
	t.Setenv("GARDEN_TEST_TITLE", "From Env")
	cfg, err := Parse([]byte("site:\n  title: ${GARDEN_TEST_TITLE}\n"))
	require.NoError(t, err)
	require.Equal(t, "From Env", cfg.Site.Title)
}

func TestParse_UnknownFieldRejected(t *testing.T) {
	_, err := Parse([]byte("sitee:\n  title: x\n"))
	require.Error(t, err)
	require.True(t, ferrors.HasCategory(err, ferrors.CategoryConfig))
}

func TestParse_NormalizesDateSources(t *testing.T) {
	cfg, err := Parse([]byte("build:\n  date_sources: [ Git , FRONTMATTER ]\n"))
	require.NoError(t, err)
	require.Equal(t, []DateSource{DateSourceGit, DateSourceFrontmatter}, cfg.Build.DateSources)
}

func TestValidate_Errors(t *testing.T) {
	cases := map[string]string{
		"base url":        "site:\n  base_url: example.com\n",
		"same dirs":       "content:\n  directory: ./x\noutput:\n  directory: ./x\n",
		"nested content":  "content:\n  directory: ./public/content\noutput:\n  directory: ./public\n",
		"negative conc":   "build:\n  concurrency: -1\n",
		"bad date source": "build:\n  date_sources: [moon]\n",
		"bad provider":    "comments:\n  provider: disqus\n",
		"bad repo":        "comments:\n  repo: sys27\n",
		"bad mapping":     "comments:\n  mapping: hash\n",
		"bad position":    "comments:\n  input_position: middle\n",
		"footer url":      "footer:\n  links:\n    - label: Home\n      url: ftp://x\n",
		"footer dup":      "footer:\n  links:\n    - {label: A, url: 'https://a'}\n    - {label: A, url: 'https://b'}\n",
		"limit":           "recent_notes:\n  limit: -2\n",
		"port":            "preview:\n  port: 70000\n",
		"interval":        "preview:\n  rebuild_interval: 10ms\n",
		"nats":            "notify:\n  nats_url: localhost\n",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(doc))
			require.Error(t, err)
			require.True(t, ferrors.HasCategory(err, ferrors.CategoryValidation), "got %v", err)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	require.True(t, ferrors.HasCategory(err, ferrors.CategoryConfig))
}

func TestInit_WritesLoadableConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "garden.yaml")
	require.NoError(t, Init(path, false))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "https://example.com", cfg.Site.BaseURL)
	require.Equal(t, DefaultFooterLinks(), cfg.Footer.Links)

	err = Init(path, false)
	require.Error(t, err)
	require.NoError(t, Init(path, true))
}

func TestLoad_ReadsDotEnv(t *testing.T) {
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	require.NoError(t, os.WriteFile(".env", []byte("GARDEN_DOTENV_TITLE=Dotenv Garden\n"), 0o644))
	require.NoError(t, os.WriteFile("garden.yaml", []byte("site:\n  title: ${GARDEN_DOTENV_TITLE}\n"), 0o644))
	t.Cleanup(func() { _ = os.Unsetenv("GARDEN_DOTENV_TITLE") })

	cfg, err := Load("garden.yaml")
	require.NoError(t, err)
	require.Equal(t, "Dotenv Garden", cfg.Site.Title)
}
