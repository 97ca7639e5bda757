package types

// BaseModel is the generic variant. It declares no fields of its own;
// everything assigned to it is kept as an extra field.
type BaseModel struct {
	Base `mapstructure:"-"`
}

// NewBaseModel returns a BaseModel with a fresh id and timestamps.
func NewBaseModel() *BaseModel {
	m := &BaseModel{}
	m.init()
	return m
}

func (m *BaseModel) Kind() string                     { return KindBaseModel }
func (m *BaseModel) Serialize() Fields                { return m.serialize(m, KindBaseModel) }
func (m *BaseModel) Set(name string, value any) error { return m.set(m, name, value) }
func (m *BaseModel) String() string                   { return m.format(m, KindBaseModel) }
