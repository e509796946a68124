// Package archive stores published releases and the verbatim bodies of the
// fragments they consumed, so a note can be recovered after its source file
// was pruned from the corpus.
package archive
