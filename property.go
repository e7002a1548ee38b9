package srzone

// PropertyType is the type tag of a property value.
type PropertyType uint16

const (
	TypeString               PropertyType = 0
	TypeData                 PropertyType = 1
	TypeTransform            PropertyType = 2
	TypeTransformOrientation PropertyType = 3
)

// Payload sizes of the fixed-size property types.
const (
	TransformSize            = 12
	TransformOrientationSize = 28
)

var propertyTypeNames = [...]string{
	TypeString:               "string",
	TypeData:                 "data",
	TypeTransform:            "compressed transform",
	TypeTransformOrientation: "compressed transform with quaternion orientation",
}

// String returns the name of the type, or "unknown".
func (t PropertyType) String() string {
	if int(t) < len(propertyTypeNames) {
		return propertyTypeNames[t]
	}
	return "unknown"
}

// Known returns whether the type tag has a known value layout.
func (t PropertyType) Known() bool {
	return int(t) < len(propertyTypeNames)
}

// Property is one value of an object.
type Property struct {
	// NameHash identifies the field the property sets. It is not verified.
	NameHash int32
	Value    Value
	// Padding holds the bytes that followed the value up to the next 4-byte
	// boundary in the file they were read from. It is written back only when
	// its length still matches the gap.
	Padding RawBlock
}

// Value is a property value. It is one of ValueString, ValueData,
// ValueTransform, or ValueTransformOrientation.
type Value interface {
	// Type returns the type tag of the value.
	Type() PropertyType
	isValue()
}

// ValueString is a null-terminated string.
type ValueString string

func (ValueString) Type() PropertyType { return TypeString }
func (ValueString) isValue()           {}

// ValueData is an uninterpreted value with an arbitrary tag.
type ValueData struct {
	Tag   PropertyType
	Bytes RawBlock
}

func (v ValueData) Type() PropertyType { return v.Tag }
func (ValueData) isValue()             {}

// ValueTransform is a position.
type ValueTransform struct {
	Position Vector3
}

func (ValueTransform) Type() PropertyType { return TypeTransform }
func (ValueTransform) isValue()           {}

// ValueTransformOrientation is a position and a quaternion orientation.
type ValueTransformOrientation struct {
	Position    Vector3
	Orientation Quaternion
}

func (ValueTransformOrientation) Type() PropertyType { return TypeTransformOrientation }
func (ValueTransformOrientation) isValue()           {}
