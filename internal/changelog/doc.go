// Package changelog assembles release-note fragments into versioned release
// notes and renders them as RST or Markdown documents. Fragment bodies pass
// through untouched so an archived release can reproduce any fragment
// verbatim.
package changelog
