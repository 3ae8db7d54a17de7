package config

// SiteConfig holds per-host overrides for crawling a particular site.
// This is how authenticated crawls and site-specific politeness are
// configured without growing the CLI flag surface.
type SiteConfig struct {
	// Cookie is an HTTP cookie sent when crawling this site.
	// Format: "name=value" or "name1=value1; name2=value2"
	Cookie string `yaml:"cookie,omitempty"`

	// Headers are custom HTTP headers sent with requests to this site.
	Headers map[string]string `yaml:"headers,omitempty"`

	// Depth overrides the global max depth for this site.
	// Zero means the global setting is used.
	Depth int `yaml:"depth,omitempty"`

	// IgnorePatterns are URL path globs skipped during crawling
	// (e.g. "/logout*", "/admin/*").
	IgnorePatterns []string `yaml:"ignorePatterns,omitempty"`

	// FollowPatterns, when set, restrict crawling to matching paths.
	FollowPatterns []string `yaml:"followPatterns,omitempty"`
}

// File represents the structure of the .scrapv2 configuration file.
type File struct {
	// Sites maps hostnames to their overrides. Keys are bare hosts,
	// optionally with a port (e.g. "docs.example.com").
	Sites map[string]SiteConfig `yaml:"sites,omitempty"`

	// Defaults apply to every site unless overridden per host.
	Defaults SiteConfig `yaml:"defaults,omitempty"`
}

// SiteConfig returns the settings for host, merging per-host values over
// the file's defaults.
func (cf *File) SiteConfig(host string) SiteConfig {
	result := cf.Defaults

	site, ok := cf.Sites[host]
	if !ok {
		return result
	}
	if site.Cookie != "" {
		result.Cookie = site.Cookie
	}
	if site.Depth != 0 {
		result.Depth = site.Depth
	}
	if len(site.Headers) > 0 {
		if result.Headers == nil {
			result.Headers = make(map[string]string)
		}
		for k, v := range site.Headers {
			result.Headers[k] = v
		}
	}
	if len(site.IgnorePatterns) > 0 {
		result.IgnorePatterns = site.IgnorePatterns
	}
	if len(site.FollowPatterns) > 0 {
		result.FollowPatterns = site.FollowPatterns
	}
	return result
}
