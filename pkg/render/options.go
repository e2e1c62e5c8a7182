package render

// Options carry per-call presentation data.
type Options struct {
	// Title heads the output; renderers omit the heading when empty.
	Title string
	// Subtitle is shown under the title, typically the creator description.
	Subtitle string
	// Theme and Variant select the theme manifest used by renderers that
	// style their output. Empty values use the renderer default.
	Theme   string
	Variant string
	// Width wraps terminal output; zero keeps the renderer default.
	Width int
}
