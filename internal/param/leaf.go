package param

// Leaf holds a single raw value.
type Leaf struct {
	metadata
	value any
	units string
}

// NewLeaf creates a leaf with the given id and raw value.
func NewLeaf(id string, value any) *Leaf {
	return &Leaf{metadata: metadata{id: id}, value: value}
}

func (l *Leaf) Kind() Kind { return KindLeaf }

// Units returns the unit the raw value is expressed in.
func (l *Leaf) Units() string { return l.units }

// SetUnits sets the unit the raw value is expressed in.
func (l *Leaf) SetUnits(units string) { l.units = units }

func (l *Leaf) Value() any { return l.value }

// SetValue replaces the raw value. It never fails.
func (l *Leaf) SetValue(v any) error {
	l.value = v
	return nil
}

func (l *Leaf) Transform() (any, error) { return l.apply(l.value) }

func (l *Leaf) Traverse(visit Visitor) { visit(l) }
