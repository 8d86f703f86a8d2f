package lang

// Bindings is one complete name-to-value table.
type Bindings map[string]Value

// Env holds the single active binding table. There is no parent chain: a
// function call replaces the whole table and restores it afterwards.
type Env struct {
	values Bindings
}

// NewEnv creates an empty environment.
func NewEnv() *Env {
	return &Env{values: make(Bindings)}
}

// Define binds name to value in the active table, overwriting any previous binding.
func (e *Env) Define(name string, val Value) {
	e.values[name] = val
}

// Get retrieves a binding from the active table.
func (e *Env) Get(name string) (Value, bool) {
	val, ok := e.values[name]
	return val, ok
}

// Install makes table the active bindings and returns the table it replaced.
func (e *Env) Install(table Bindings) Bindings {
	saved := e.values
	if table == nil {
		table = make(Bindings)
	}
	e.values = table
	return saved
}

// Restore reinstates a table previously returned by Install.
func (e *Env) Restore(saved Bindings) {
	e.values = saved
}

// Len reports the number of active bindings.
func (e *Env) Len() int {
	return len(e.values)
}
