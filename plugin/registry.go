package plugin

import "fmt"

// OutputOptions carries what any output constructor may need
type OutputOptions struct {
	Path      string
	BatchSize int
}

// Outputs is a global map of OutputAdapter plugins.
var Outputs = map[string]func(OutputOptions) (OutputAdapter, error){
	"memory": func(OutputOptions) (OutputAdapter, error) {
		return NewMemoryOutput(), nil
	},
	"badger": func(o OutputOptions) (OutputAdapter, error) {
		return NewBadgerOutput(o.Path, o.BatchSize)
	},
}

// OutputLookup builds the named output.
// "none" and "" mean no journal: nil adapter, nil error.
func OutputLookup(name string, o OutputOptions) (OutputAdapter, error) {
	if name == "" || name == "none" {
		return nil, nil
	}
	factory, ok := Outputs[name]
	if !ok {
		return nil, fmt.Errorf("unknown output: %s", name)
	}
	return factory(o)
}
