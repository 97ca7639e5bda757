package types

// State is a region that holds cities.
type State struct {
	Base `mapstructure:"-"`

	Name string `mapstructure:"name"`
}

// NewState returns a State with an empty name.
func NewState() *State {
	s := &State{}
	s.init()
	return s
}

func (s *State) Kind() string                     { return KindState }
func (s *State) Serialize() Fields                { return s.serialize(s, KindState) }
func (s *State) Set(name string, value any) error { return s.set(s, name, value) }
func (s *State) String() string                   { return s.format(s, KindState) }
