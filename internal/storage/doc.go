// Package storage persists fetched pages and their assets as a local
// mirror of the crawled site.
//
// The mirror layout follows the site's own URL structure: each page is
// written under <output>/<host>/<path>, with directory-style URLs
// becoming index.html files. Assets referenced by a page (images,
// stylesheets, scripts) are downloaded next to it, each kind
// individually toggleable, plus any extra file extensions the user
// listed.
//
// Storage failures never abort a crawl. The Mirror reports errors to
// its caller, which logs them and moves on.
package storage
