// Package doccomment recovers Nix documentation comments from source files.
//
// The Nix parser does not keep comments, so a doc comment cannot be read off
// the syntax tree. Instead, given the [Pos] of a definition, this package
// reads the source text in front of that position and checks, with a small
// pattern grammar (see [go.jacobcolvin.com/nixdoc/doccomment/grammar]),
// whether a "/** ... */" block is the last thing before it:
//
//	{
//	  /**
//	    Adds two numbers.
//	  */
//	  add = a: b: a + b;
//	}
//
// Only simple, well understood shapes are recognized: the comment may be
// followed by whitespace, "#" line comments, a single attribute path
// assignment and curried lambda parameters wrapped in any number of opening
// parentheses. Any other shape yields no documentation. Reporting nothing is
// always preferred to reporting the wrong comment.
//
// Typical usage goes through [LookupDoc], which never fails:
//
//	doc := doccomment.LookupDoc(doccomment.Pos{
//	    Origin: doccomment.SourcePath{Path: "lib/trivial.nix"},
//	    Line:   61,
//	    Column: 9,
//	})
//	if !doc.IsEmpty() {
//	    fmt.Println(doc.Comment())
//	}
//
// Use [NewFinder] to read from an [fs.FS], log lookup failures, or get the
// underlying error via [Finder.Find].
//
// Tab characters are counted as a single column when unindenting.
package doccomment
