package ast

// Shape describes the expected structure of a field value
type Shape int

const (
	// ShapeScalar is a plain string value
	ShapeScalar Shape = iota
	// ShapeBool is a boolean flag
	ShapeBool
	// ShapeLocalized is a mapping from language code to text
	ShapeLocalized
	// ShapeStringList is an ordered list of strings
	ShapeStringList
	// ShapeResourceList is a list whose items are mappings or strings
	ShapeResourceList
	// ShapeContact is a contact mapping or the "sbx-default" keyword
	ShapeContact
)

// String returns a human-readable shape name used in error messages
func (s Shape) String() string {
	switch s {
	case ShapeScalar:
		return "string"
	case ShapeBool:
		return "boolean"
	case ShapeLocalized:
		return "text or mapping of language code to text"
	case ShapeStringList:
		return "list of strings"
	case ShapeResourceList:
		return "list of mappings or strings"
	case ShapeContact:
		return "contact mapping or 'sbx-default'"
	default:
		return "unknown"
	}
}

// Field names recognized in description files
const (
	FieldID                = "id"
	FieldAbstract          = "abstract"
	FieldParent            = "parent"
	FieldType              = "type"
	FieldName              = "name"
	FieldTask              = "task"
	FieldDescription       = "description"
	FieldShortDescription  = "short_description"
	FieldPluginURL         = "plugin_url"
	FieldAnalysisUnit      = "analysis_unit"
	FieldTools             = "tools"
	FieldModels            = "models"
	FieldExample           = "example"
	FieldExampleOutput     = "example_output"
	FieldExampleExtra      = "example_extra"
	FieldTrainedOn         = "trained_on"
	FieldTagset            = "tagset"
	FieldEvaluationResults = "evaluation_results"
	FieldLicense           = "license"
	FieldAnnotations       = "annotations"
	FieldContactInfo       = "contact_info"
	FieldKeywords          = "keywords"
	FieldSparvHandler      = "sparv_handler"
)

// DefaultContactKeyword selects the catalog's default contact record
const DefaultContactKeyword = "sbx-default"

// Record types
const (
	TypeAnalysis = "analysis"
	TypeUtility  = "utility"
)

// Schema lists every recognized field and its expected shape
var Schema = map[string]Shape{
	FieldID:                ShapeScalar,
	FieldAbstract:          ShapeBool,
	FieldParent:            ShapeScalar,
	FieldType:              ShapeScalar,
	FieldName:              ShapeLocalized,
	FieldTask:              ShapeScalar,
	FieldDescription:       ShapeLocalized,
	FieldShortDescription:  ShapeLocalized,
	FieldPluginURL:         ShapeScalar,
	FieldAnalysisUnit:      ShapeScalar,
	FieldTools:             ShapeResourceList,
	FieldModels:            ShapeResourceList,
	FieldExample:           ShapeScalar,
	FieldExampleOutput:     ShapeScalar,
	FieldExampleExtra:      ShapeScalar,
	FieldTrainedOn:         ShapeResourceList,
	FieldTagset:            ShapeScalar,
	FieldEvaluationResults: ShapeLocalized,
	FieldLicense:           ShapeScalar,
	FieldAnnotations:       ShapeStringList,
	FieldContactInfo:       ShapeContact,
	FieldKeywords:          ShapeStringList,
	FieldSparvHandler:      ShapeScalar,
}

// LookupShape returns the shape of a recognized field
func LookupShape(field string) (Shape, bool) {
	s, ok := Schema[field]
	return s, ok
}
