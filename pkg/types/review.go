package types

// Review is a User's text about a Place.
type Review struct {
	Base `mapstructure:"-"`

	PlaceID string `mapstructure:"place_id"`
	UserID  string `mapstructure:"user_id"`
	Text    string `mapstructure:"text"`
}

// NewReview returns a Review with empty fields.
func NewReview() *Review {
	r := &Review{}
	r.init()
	return r
}

func (r *Review) Kind() string                     { return KindReview }
func (r *Review) Serialize() Fields                { return r.serialize(r, KindReview) }
func (r *Review) Set(name string, value any) error { return r.set(r, name, value) }
func (r *Review) String() string                   { return r.format(r, KindReview) }
