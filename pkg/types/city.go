package types

// City belongs to a State through StateID.
type City struct {
	Base `mapstructure:"-"`

	Name    string `mapstructure:"name"`
	StateID string `mapstructure:"state_id"`
}

// NewCity returns a City with empty fields.
func NewCity() *City {
	c := &City{}
	c.init()
	return c
}

func (c *City) Kind() string                     { return KindCity }
func (c *City) Serialize() Fields                { return c.serialize(c, KindCity) }
func (c *City) Set(name string, value any) error { return c.set(c, name, value) }
func (c *City) String() string                   { return c.format(c, KindCity) }
