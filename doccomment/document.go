package doccomment

// EmptyDoc is the [Doc] returned when no documentation is found.
// It is the zero value; comparing against it is equivalent to [Doc.IsEmpty].
var EmptyDoc = Doc{}

// Doc is the documentation recovered for a definition. It cannot be modified
// once created.
type Doc struct {
	rawComment   string
	comment      string
	timesApplied int
}

// NewDoc creates a [Doc] from a raw comment, normalizing it with [Normalize].
// An empty raw comment yields [EmptyDoc].
func NewDoc(rawComment string, timesApplied int) Doc {
	if rawComment == "" {
		return EmptyDoc
	}

	return Doc{
		rawComment:   rawComment,
		comment:      Normalize(rawComment),
		timesApplied: max(timesApplied, 0),
	}
}

// RawComment returns the comment as it appears in the source, including its
// delimiters and original indentation.
func (d Doc) RawComment() string {
	return d.rawComment
}

// Comment returns the normalized documentation text.
func (d Doc) Comment() string {
	return d.comment
}

// TimesApplied returns how many more arguments the documented function takes
// before it produces the value at the looked up position.
//
// It is only populated when the [Finder] was created with
// [WithTimesApplied]; otherwise it is always 0.
func (d Doc) TimesApplied() int {
	return d.timesApplied
}

// IsEmpty reports whether no documentation was found.
func (d Doc) IsEmpty() bool {
	return d.rawComment == ""
}
