package pipeline

import "github.com/yourusername/go-subgraph-bench/edgelist"

type options struct {
	policy edgelist.Policy
	source string
}

// Option tunes how a stage reads its input.
type Option func(*options)

// WithPolicy sets the malformed-line policy. The default is edgelist.Skip.
func WithPolicy(p edgelist.Policy) Option {
	return func(o *options) { o.policy = p }
}

// WithSource names the input in errors and logs, usually its file path.
func WithSource(name string) Option {
	return func(o *options) { o.source = name }
}

func newOptions(opts []Option) options {
	o := options{policy: edgelist.Skip}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func (o options) reader(extra ...edgelist.Option) []edgelist.Option {
	return append([]edgelist.Option{edgelist.WithPolicy(o.policy), edgelist.WithPath(o.source)}, extra...)
}
