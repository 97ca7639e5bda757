package types

// Amenity is a feature a Place can offer.
type Amenity struct {
	Base `mapstructure:"-"`

	Name string `mapstructure:"name"`
}

// NewAmenity returns an Amenity with an empty name.
func NewAmenity() *Amenity {
	a := &Amenity{}
	a.init()
	return a
}

func (a *Amenity) Kind() string                     { return KindAmenity }
func (a *Amenity) Serialize() Fields                { return a.serialize(a, KindAmenity) }
func (a *Amenity) Set(name string, value any) error { return a.set(a, name, value) }
func (a *Amenity) String() string                   { return a.format(a, KindAmenity) }
