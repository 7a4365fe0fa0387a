package edm

// Version is the OData/CSDL version advertised by the service
const Version = "4.0"

// Annotation terms understood by the server when resolving storage details
const (
	TermNamespace       = "ODataServer"
	TermEmbedded        = TermNamespace + ".Embedded"
	TermMongoCollection = TermNamespace + ".MongoCollection"
	TermPrefix          = TermNamespace + ".Prefix"

	// LegacyTermNamespace is accepted in place of TermNamespace
	LegacyTermNamespace = "PythonODataServer"
)

// Edmx is the root of an entity data model definition
type Edmx struct {
	DataServices *DataServices `mapstructure:"DataServices"`
	References   []*Reference  `mapstructure:"References"`

	processed  bool
	schemas    map[string]*Schema
	entitySets map[string]*EntitySet
}

// DataServices groups the schemas of the model
type DataServices struct {
	Schemas []*Schema `mapstructure:"Schemas"`
}

// Reference points to an external CSDL document
type Reference struct {
	Uri         string        `mapstructure:"Uri"`
	Includes    []*Include    `mapstructure:"Includes"`
	Annotations []*Annotation `mapstructure:"Annotations"`
}

// Include imports a namespace from a referenced document
type Include struct {
	Namespace string `mapstructure:"Namespace"`
	Alias     string `mapstructure:"Alias"`
}

// Schema is a namespace of model elements
type Schema struct {
	Namespace        string             `mapstructure:"Namespace"`
	Alias            string             `mapstructure:"Alias"`
	Actions          []*Action          `mapstructure:"Actions"`
	Annotations      []*Annotation      `mapstructure:"Annotations"`
	ComplexTypes     []*ComplexType     `mapstructure:"ComplexTypes"`
	EntityContainers []*EntityContainer `mapstructure:"EntityContainers"`
	EntityTypes      []*EntityType      `mapstructure:"EntityTypes"`
}

// Key lists the properties identifying an entity
type Key struct {
	PropertyRefs []*PropertyRef `mapstructure:"PropertyRefs"`
}

// PropertyRef references a key property, optionally through a path alias
type PropertyRef struct {
	Name  string `mapstructure:"Name"`
	Alias string `mapstructure:"Alias"`
}

// KeyName is the name under which the key value is exposed
func (r *PropertyRef) KeyName() string {
	if r.Alias != "" {
		return r.Alias
	}
	return r.Name
}

// Property is a structural property of an entity or complex type
type Property struct {
	Name            string        `mapstructure:"Name"`
	Type            string        `mapstructure:"Type"`
	Nullable        bool          `mapstructure:"Nullable"`
	MaxLength       *int          `mapstructure:"MaxLength"`
	Precision       *int          `mapstructure:"Precision"`
	Scale           *int          `mapstructure:"Scale"`
	Unicode         *bool         `mapstructure:"Unicode"`
	SRID            *int          `mapstructure:"SRID"`
	ConcurrencyMode string        `mapstructure:"ConcurrencyMode"`
	Annotations     []*Annotation `mapstructure:"Annotations"`
}

// OnDelete describes the action applied to related entities on deletion
type OnDelete struct {
	Action string `mapstructure:"Action"`
}

// NavigationProperty relates an entity type to another one
type NavigationProperty struct {
	Name           string        `mapstructure:"Name"`
	Type           string        `mapstructure:"Type"`
	Nullable       bool          `mapstructure:"Nullable"`
	Partner        string        `mapstructure:"Partner"`
	ContainsTarget *bool         `mapstructure:"ContainsTarget"`
	OnDelete       *OnDelete     `mapstructure:"OnDelete"`
	Annotations    []*Annotation `mapstructure:"Annotations"`

	entityType   *EntityType
	isCollection bool
	isEmbedded   bool
}

// EntityType returns the resolved target type
func (n *NavigationProperty) EntityType() *EntityType { return n.entityType }

// IsCollection reports whether the property targets a collection of entities
func (n *NavigationProperty) IsCollection() bool { return n.isCollection }

// IsEmbedded reports whether related entities are stored inside the parent document
func (n *NavigationProperty) IsEmbedded() bool { return n.isEmbedded }

// EntityType describes the structure of an entity
type EntityType struct {
	Name                 string                `mapstructure:"Name"`
	Key                  *Key                  `mapstructure:"Key"`
	Properties           []*Property           `mapstructure:"Properties"`
	NavigationProperties []*NavigationProperty `mapstructure:"NavigationProperties"`
	BaseType             string                `mapstructure:"BaseType"`
	Abstract             *bool                 `mapstructure:"Abstract"`
	OpenType             *bool                 `mapstructure:"OpenType"`
	HasStream            *bool                 `mapstructure:"HasStream"`
	Annotations          []*Annotation         `mapstructure:"Annotations"`

	schema          *Schema
	resolving       bool
	resolved        bool
	keyProperties   []string
	propertyList    []*Property
	properties      map[string]*Property
	navProperties   map[string]*NavigationProperty
	navList         []*NavigationProperty
	virtualEntities map[string]struct{}
}

// QualifiedName returns Namespace.Name
func (t *EntityType) QualifiedName() string {
	if t.schema == nil {
		return t.Name
	}
	return t.schema.Namespace + "." + t.Name
}

// KeyProperties returns the names of the key properties in declaration order
func (t *EntityType) KeyProperties() []string { return t.keyProperties }

// IsKey reports whether name is a key property
func (t *EntityType) IsKey(name string) bool {
	for _, k := range t.keyProperties {
		if k == name {
			return true
		}
	}
	return false
}

// PropertyList returns every structural property, inherited ones first
func (t *EntityType) PropertyList() []*Property { return t.propertyList }

// Property looks up a structural property
func (t *EntityType) Property(name string) (*Property, bool) {
	p, ok := t.properties[name]
	return p, ok
}

// NavProperty looks up a navigation property
func (t *EntityType) NavProperty(name string) (*NavigationProperty, bool) {
	p, ok := t.navProperties[name]
	return p, ok
}

// NavProperties returns the navigation properties, inherited ones first
func (t *EntityType) NavProperties() []*NavigationProperty { return t.navList }

// IsVirtual reports whether the navigation property name is stored embedded
func (t *EntityType) IsVirtual(name string) bool {
	_, ok := t.virtualEntities[name]
	return ok
}

// VirtualEntities returns the names of the embedded navigation properties
func (t *EntityType) VirtualEntities() map[string]struct{} { return t.virtualEntities }

// ComplexType is a structured type without key
type ComplexType struct {
	Name                 string                `mapstructure:"Name"`
	BaseType             string                `mapstructure:"BaseType"`
	Abstract             *bool                 `mapstructure:"Abstract"`
	OpenType             *bool                 `mapstructure:"OpenType"`
	HasStream            *bool                 `mapstructure:"HasStream"`
	Properties           []*Property           `mapstructure:"Properties"`
	NavigationProperties []*NavigationProperty `mapstructure:"NavigationProperties"`
	Annotations          []*Annotation         `mapstructure:"Annotations"`
}

// NavigationPropertyBinding binds a navigation path to a target entity set
type NavigationPropertyBinding struct {
	Path   string `mapstructure:"Path"`
	Target string `mapstructure:"Target"`
}

// EntitySet is an addressable collection of entities
type EntitySet struct {
	Name                       string                       `mapstructure:"Name"`
	EntityType                 string                       `mapstructure:"EntityType"`
	IncludeInServiceDocument   *bool                        `mapstructure:"IncludeInServiceDocument"`
	NavigationPropertyBindings []*NavigationPropertyBinding `mapstructure:"NavigationPropertyBindings"`
	Annotations                []*Annotation                `mapstructure:"Annotations"`

	entityType      *EntityType
	mongoCollection string
	prefix          string
	bindings        map[string]*EntitySet
}

// InServiceDocument reports whether the set is listed in the service document
func (s *EntitySet) InServiceDocument() bool {
	return s.IncludeInServiceDocument == nil || *s.IncludeInServiceDocument
}

// Type returns the resolved entity type of the set
func (s *EntitySet) Type() *EntityType { return s.entityType }

// MongoCollection returns the collection storing the set
func (s *EntitySet) MongoCollection() string { return s.mongoCollection }

// Prefix returns the document path where entities are stored, "" for top level documents
func (s *EntitySet) Prefix() string { return s.prefix }

// Binding returns the entity set bound to a navigation path
func (s *EntitySet) Binding(path string) *EntitySet { return s.bindings[path] }

// EntityContainer groups entity sets
type EntityContainer struct {
	Name        string        `mapstructure:"Name"`
	EntitySets  []*EntitySet  `mapstructure:"EntitySets"`
	Annotations []*Annotation `mapstructure:"Annotations"`
}

// Parameter is an action parameter
type Parameter struct {
	Name        string        `mapstructure:"Name"`
	Type        string        `mapstructure:"Type"`
	Nullable    *bool         `mapstructure:"Nullable"`
	MaxLength   *int          `mapstructure:"MaxLength"`
	Precision   *int          `mapstructure:"Precision"`
	Scale       *int          `mapstructure:"Scale"`
	SRID        *int          `mapstructure:"SRID"`
	Unicode     *bool         `mapstructure:"Unicode"`
	Annotations []*Annotation `mapstructure:"Annotations"`
}

// ReturnType describes what an action returns
type ReturnType struct {
	Type      string `mapstructure:"Type"`
	Nullable  *bool  `mapstructure:"Nullable"`
	MaxLength *int   `mapstructure:"MaxLength"`
	Precision *int   `mapstructure:"Precision"`
	Scale     *int   `mapstructure:"Scale"`
	SRID      *int   `mapstructure:"SRID"`
}

// Action is advertised in metadata only, it cannot be invoked
type Action struct {
	Name          string        `mapstructure:"Name"`
	IsBound       bool          `mapstructure:"IsBound"`
	EntitySetPath string        `mapstructure:"EntitySetPath"`
	Parameters    []*Parameter  `mapstructure:"Parameters"`
	ReturnType    *ReturnType   `mapstructure:"ReturnType"`
	Annotations   []*Annotation `mapstructure:"Annotations"`
}
