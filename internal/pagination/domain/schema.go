package domain

import (
	"reflect"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/google/uuid"
)

// Kind clasifica el tipo declarado de un campo.
type Kind int

const (
	KindOther Kind = iota
	KindString
	KindBool
	KindChar
	KindInt
	KindUint
	KindFloat
	KindTime
	KindUUID
	KindStruct
	KindCollection
)

var kindNames = map[Kind]string{
	KindOther:      "other",
	KindString:     "string",
	KindBool:       "bool",
	KindChar:       "char",
	KindInt:        "int",
	KindUint:       "uint",
	KindFloat:      "float",
	KindTime:       "time",
	KindUUID:       "uuid",
	KindStruct:     "struct",
	KindCollection: "collection",
}

func (k Kind) String() string { return kindNames[k] }

// Filterable indica si el campo admite filtros: tipos primitivos de valor o texto.
func (k Kind) Filterable() bool {
	switch k {
	case KindString, KindBool, KindChar, KindInt, KindUint, KindFloat, KindTime, KindUUID:
		return true
	}
	return false
}

// Numeric indica int, uint o float.
func (k Kind) Numeric() bool {
	return k == KindInt || k == KindUint || k == KindFloat
}

var (
	timeType = reflect.TypeOf(time.Time{})
	uuidType = reflect.TypeOf(uuid.UUID{})
	charType = reflect.TypeOf(Char(0))
)

func kindOf(t reflect.Type) Kind {
	switch t {
	case timeType:
		return KindTime
	case uuidType:
		return KindUUID
	case charType:
		return KindChar
	}
	switch t.Kind() {
	case reflect.String:
		return KindString
	case reflect.Bool:
		return KindBool
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return KindInt
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return KindUint
	case reflect.Float32, reflect.Float64:
		return KindFloat
	case reflect.Struct:
		return KindStruct
	case reflect.Slice, reflect.Array, reflect.Map:
		return KindCollection
	}
	return KindOther
}

// ---------------- Field ----------------

// Field es una ruta resuelta contra el esquema de una entidad.
// Es inmutable y se comparte entre llamadas.
type Field struct {
	// Path es la ruta canónica (nombres json) separada por puntos.
	Path string
	// Type es el tipo declarado del último segmento, sin puntero.
	Type     reflect.Type
	Kind     Kind
	Nullable bool
	// Column es el nombre de columna SQL (segmentos unidos con "_").
	Column string
	// DocPath es la ruta del documento en Mongo (segmentos unidos con ".").
	DocPath string

	index [][]int
}

// Value lee el campo de una entidad (valor o puntero).
// Devuelve false si algún puntero del camino es nil.
func (f *Field) Value(entity reflect.Value) (any, bool) {
	v := entity
	for _, idx := range f.index {
		for _, i := range idx {
			for v.Kind() == reflect.Pointer {
				if v.IsNil() {
					return nil, false
				}
				v = v.Elem()
			}
			v = v.Field(i)
		}
	}
	for v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return nil, false
		}
		v = v.Elem()
	}
	return v.Interface(), true
}

// Target devuelve el campo direccionable dentro de entity, reservando los punteros
// intermedios que falten. entity debe ser un struct direccionable.
func (f *Field) Target(entity reflect.Value) reflect.Value {
	v := entity
	for _, idx := range f.index {
		for _, i := range idx {
			for v.Kind() == reflect.Pointer {
				if v.IsNil() {
					v.Set(reflect.New(v.Type().Elem()))
				}
				v = v.Elem()
			}
			v = v.Field(i)
		}
	}
	return v
}

// ---------------- Schema ----------------

// Schema describe los campos alcanzables de un tipo de entidad.
type Schema struct {
	typ    reflect.Type
	fields sync.Map // path -> resolution

	leavesOnce sync.Once
	leaves     []*Field
}

type resolution struct {
	field *Field
	err   error
}

var schemas sync.Map // reflect.Type -> *Schema

// SchemaFor devuelve el esquema cacheado de T.
func SchemaFor[T any]() *Schema {
	return SchemaOf(reflect.TypeOf((*T)(nil)).Elem())
}

// SchemaOf devuelve el esquema cacheado de t (se ignoran los punteros).
func SchemaOf(t reflect.Type) *Schema {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if s, ok := schemas.Load(t); ok {
		return s.(*Schema)
	}
	s, _ := schemas.LoadOrStore(t, &Schema{typ: t})
	return s.(*Schema)
}

// Type devuelve el tipo de la entidad.
func (s *Schema) Type() reflect.Type { return s.typ }

// Resolve traduce una ruta con puntos ("address.city") a un Field.
// Falla con ErrUnknownField si algún segmento no existe y con
// ErrCollectionFieldUnsupported si un segmento intermedio es una colección.
func (s *Schema) Resolve(path string) (*Field, error) {
	if r, ok := s.fields.Load(path); ok {
		res := r.(resolution)
		return res.field, res.err
	}
	f, err := s.resolve(path)
	s.fields.Store(path, resolution{field: f, err: err})
	return f, err
}

func (s *Schema) resolve(path string) (*Field, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fieldError(ErrUnknownField, path)
	}
	segments := strings.Split(path, ".")

	f := &Field{}
	var names, columns, docs []string
	t := s.typ
	for i, seg := range segments {
		if i > 0 {
			switch kindOf(t) {
			case KindCollection:
				return nil, fieldError(ErrCollectionFieldUnsupported, path)
			case KindStruct:
			default:
				return nil, fieldError(ErrUnknownField, path)
			}
		}
		sf, ok := lookupMember(t, seg)
		if !ok {
			return nil, fieldError(ErrUnknownField, path)
		}
		names = append(names, memberName(sf))
		columns = append(columns, columnName(sf))
		docs = append(docs, docName(sf))
		f.index = append(f.index, sf.Index)

		t = sf.Type
		if t.Kind() == reflect.Pointer {
			f.Nullable = true
			t = t.Elem()
		}
	}

	f.Path = strings.Join(names, ".")
	f.Type = t
	f.Kind = kindOf(t)
	f.Column = strings.Join(columns, "_")
	f.DocPath = strings.Join(docs, ".")
	return f, nil
}

// Leaves lista los campos escalares de la entidad, incluidos los de registros
// relacionados de un solo valor. Las colecciones y los campos con db:"-" se omiten.
func (s *Schema) Leaves() []*Field {
	s.leavesOnce.Do(func() {
		s.leaves = collectLeaves(s.typ, nil, 0)
	})
	return s.leaves
}

const maxLeafDepth = 5

func collectLeaves(t reflect.Type, parent *Field, depth int) []*Field {
	var out []*Field
	for _, sf := range reflect.VisibleFields(t) {
		if sf.Anonymous || !sf.IsExported() || tagName(sf, "db") == "-" {
			continue
		}
		ft := sf.Type
		nullable := parent != nil && parent.Nullable
		if ft.Kind() == reflect.Pointer {
			nullable = true
			ft = ft.Elem()
		}
		f := &Field{
			Path:     memberName(sf),
			Type:     ft,
			Kind:     kindOf(ft),
			Nullable: nullable,
			Column:   columnName(sf),
			DocPath:  docName(sf),
			index:    [][]int{sf.Index},
		}
		if parent != nil {
			f.Path = parent.Path + "." + f.Path
			f.Column = parent.Column + "_" + f.Column
			f.DocPath = parent.DocPath + "." + f.DocPath
			f.index = append(append([][]int{}, parent.index...), sf.Index)
		}
		switch f.Kind {
		case KindStruct:
			if depth < maxLeafDepth {
				out = append(out, collectLeaves(ft, f, depth+1)...)
			}
		case KindCollection, KindOther:
		default:
			out = append(out, f)
		}
	}
	return out
}

// ---------------- Helpers de nombres ----------------

func lookupMember(t reflect.Type, name string) (reflect.StructField, bool) {
	var fallback reflect.StructField
	found := false
	for _, sf := range reflect.VisibleFields(t) {
		if sf.Anonymous || !sf.IsExported() {
			continue
		}
		if tagName(sf, "json") == name {
			return sf, true
		}
		if !found && strings.EqualFold(sf.Name, name) {
			fallback, found = sf, true
		}
	}
	return fallback, found
}

func tagName(sf reflect.StructField, key string) string {
	tag, ok := sf.Tag.Lookup(key)
	if !ok {
		return ""
	}
	name, _, _ := strings.Cut(tag, ",")
	return name
}

func memberName(sf reflect.StructField) string {
	if n := tagName(sf, "json"); n != "" && n != "-" {
		return n
	}
	return sf.Name
}

func columnName(sf reflect.StructField) string {
	if n := tagName(sf, "db"); n != "" && n != "-" {
		return n
	}
	return snakeCase(sf.Name)
}

func docName(sf reflect.StructField) string {
	if n := tagName(sf, "bson"); n != "" && n != "-" {
		return n
	}
	return strings.ToLower(sf.Name)
}

// snakeCase: BirthDate -> birth_date, HTTPPort -> http_port, ID -> id.
func snakeCase(s string) string {
	runes := []rune(s)
	var b strings.Builder
	for i, r := range runes {
		if unicode.IsUpper(r) {
			if i > 0 {
				prev := runes[i-1]
				nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
				if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
					b.WriteByte('_')
				}
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
