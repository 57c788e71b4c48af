package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "zinepress/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// SourceConfig holds settings for the bookmark source stage.
type SourceConfig struct {
	HTTPConfig `yaml:",inline"`

	// APIBase is the bookmarking service API root used for the
	// credential handshake (default "https://api.pinboard.in/v1").
	APIBase string `json:"api_base" yaml:"api_base"`

	// FeedBase is the bookmarking service feed root the unread feed is
	// read from (default "https://feeds.pinboard.in").
	FeedBase string `json:"feed_base" yaml:"feed_base"`

	// MaxItems is the maximum number of unread bookmarks to include in
	// one anthology, oldest first (default 20).
	MaxItems int `json:"max_items" yaml:"max_items"`

	// FeedCount is how many unread entries to request from the feed so
	// the oldest MaxItems can be selected (default 400).
	FeedCount int `json:"feed_count" yaml:"feed_count"`
}

// SimplifyBackend identifies the content simplification backend.
type SimplifyBackend string

const (
	BackendParserAPI   SimplifyBackend = "parser-api"
	BackendReadability SimplifyBackend = "readability"
)

// SimplifyConfig holds settings for the content simplification stage.
type SimplifyConfig struct {
	HTTPConfig `yaml:",inline"`

	// Backend selects the simplifier: parser-api or readability.
	Backend SimplifyBackend `json:"backend" yaml:"backend"`

	// ParserBase is the remote content-extraction API root
	// (default "https://readability.com/api/content/v1").
	ParserBase string `json:"parser_base" yaml:"parser_base"`

	// ParserToken authenticates calls to the remote parser API.
	ParserToken string `json:"parser_token,omitempty" yaml:"parser_token,omitempty"`

	// FetchImages controls whether images referenced by articles are
	// downloaded into the bundle (default true).
	FetchImages bool `json:"fetch_images" yaml:"fetch_images"`
}

// AssemblyConfig holds settings for the bundle assembly stage.
type AssemblyConfig struct {
	// Title is the anthology title shown on the device (default
	// "Pinboard Unread").
	Title string `json:"title" yaml:"title"`

	// Language is the dc:language value in the bundle manifest (default "en").
	Language string `json:"language" yaml:"language"`
}

// CompileTool identifies the external e-book compiler binary.
type CompileTool string

const (
	ToolKindlegen    CompileTool = "kindlegen"
	ToolEbookConvert CompileTool = "ebook-convert"
)

// CompileConfig holds settings for the e-book compilation stage.
type CompileConfig struct {
	// Tool selects the compiler binary: kindlegen or ebook-convert.
	// Empty means detect, trying kindlegen first.
	Tool CompileTool `json:"tool,omitempty" yaml:"tool,omitempty"`

	// KeepStaging leaves the intermediate bundle directory in place
	// after the run for inspection.
	KeepStaging bool `json:"keep_staging" yaml:"keep_staging"`
}

// PipelineConfig groups all stage configurations for one run.
type PipelineConfig struct {
	Source   SourceConfig   `json:"source" yaml:"source"`
	Simplify SimplifyConfig `json:"simplify" yaml:"simplify"`
	Assembly AssemblyConfig `json:"assembly" yaml:"assembly"`
	Compile  CompileConfig  `json:"compile" yaml:"compile"`
}
