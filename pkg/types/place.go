package types

// Place is a rental listing in a City.
type Place struct {
	Base `mapstructure:"-"`

	CityID          string   `mapstructure:"city_id"`
	Name            string   `mapstructure:"name"`
	Description     string   `mapstructure:"description"`
	NumberRooms     int      `mapstructure:"number_rooms"`
	NumberBathrooms int      `mapstructure:"number_bathrooms"`
	MaxGuest        int      `mapstructure:"max_guest"`
	PriceByNight    int      `mapstructure:"price_by_night"`
	Latitude        float64  `mapstructure:"latitude"`
	Longitude       float64  `mapstructure:"longitude"`
	AmenityIDs      []string `mapstructure:"amenity_ids"`
}

// NewPlace returns a Place with zero counts and coordinates and its own
// empty amenity list.
func NewPlace() *Place {
	p := &Place{AmenityIDs: []string{}}
	p.init()
	return p
}

func (p *Place) Kind() string                     { return KindPlace }
func (p *Place) Serialize() Fields                { return p.serialize(p, KindPlace) }
func (p *Place) Set(name string, value any) error { return p.set(p, name, value) }
func (p *Place) String() string                   { return p.format(p, KindPlace) }
