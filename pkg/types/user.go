package types

// User is an account holder.
type User struct {
	Base `mapstructure:"-"`

	Email     string `mapstructure:"email"`
	Password  string `mapstructure:"password"`
	FirstName string `mapstructure:"first_name"`
	LastName  string `mapstructure:"last_name"`
}

// NewUser returns a User with empty text fields.
func NewUser() *User {
	u := &User{}
	u.init()
	return u
}

func (u *User) Kind() string                     { return KindUser }
func (u *User) Serialize() Fields                { return u.serialize(u, KindUser) }
func (u *User) Set(name string, value any) error { return u.set(u, name, value) }
func (u *User) String() string                   { return u.format(u, KindUser) }
