package fallback

// Context is the built-in run context used when no engine provides one.
// Meta is shared by reference with every stage of the run.
type Context struct {
	cfg  map[string]any
	meta map[string]any
}

// NewContext wraps cfg; a nil or empty cfg becomes an empty mapping.
func NewContext(cfg map[string]any) *Context {
	if len(cfg) == 0 {
		cfg = map[string]any{}
	}
	return &Context{cfg: cfg, meta: map[string]any{}}
}

func (c *Context) Cfg() map[string]any  { return c.cfg }
func (c *Context) Meta() map[string]any { return c.meta }

func (c *Context) SetMeta(key string, value any) {
	c.meta[key] = value
}
