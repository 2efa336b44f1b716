package chart

// State is the load lifecycle of one chart collection.
type State string

const (
	NotLoaded State = "not_loaded"
	Loading   State = "loading"
	Loaded    State = "loaded"
	LoadError State = "load_error"
)

// View is a read-only copy of one collection's slice of state. Items and
// Err are never both populated.
type View[T any] struct {
	State State  `json:"state"`
	Items []T    `json:"items"`
	Err   string `json:"error,omitempty"`
}

// collection holds one sub-resource's records and load state. All access
// goes through the store's lock.
type collection[T any] struct {
	state State
	items []T
	err   string
	id    func(T) string
}

func newCollection[T any](id func(T) string) *collection[T] {
	return &collection[T]{state: NotLoaded, id: id}
}

func (c *collection[T]) beginLoad() {
	c.state = Loading
	c.err = ""
}

func (c *collection[T]) resolve(items []T) {
	c.state = Loaded
	c.items = items
	c.err = ""
}

func (c *collection[T]) fail(msg string) {
	c.state = LoadError
	c.items = nil
	c.err = msg
}

// prepend puts a freshly created record ahead of everything already loaded.
func (c *collection[T]) prepend(item T) {
	c.items = append([]T{item}, c.items...)
}

// removeByID filters out the record with the given id. A missing id leaves
// the collection untouched.
func (c *collection[T]) removeByID(id string) {
	kept := make([]T, 0, len(c.items))
	for _, item := range c.items {
		if c.id(item) != id {
			kept = append(kept, item)
		}
	}
	c.items = kept
}

func (c *collection[T]) view() View[T] {
	return View[T]{
		State: c.state,
		Items: append([]T(nil), c.items...),
		Err:   c.err,
	}
}
