package interpret

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/spigell/talent-scout/internal/ai"
)

var (
	//go:embed schemas/requirement.json
	requirementSchemaJSON string

	//go:embed schemas/document.json
	documentSchemaJSON string

	requirementSchema = mustSchema("requirement", requirementSchemaJSON)
	documentSchema    = mustSchema("document", documentSchemaJSON)
)

var invalidValueTypes = map[string]bool{
	"enum":       true,
	"pattern":    true,
	"number_gte": true,
	"number_lte": true,
	"number_gt":  true,
	"number_lt":  true,
}

func mustSchema(name, src string) *gojsonschema.Schema {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(src))
	if err != nil {
		panic(fmt.Sprintf("compile %s schema: %v", name, err))
	}
	return schema
}

// check validates the extracted JSON document against schema and reports
// the first offending field.
func check(schema *gojsonschema.Schema, doc string) error {
	result, err := schema.Validate(gojsonschema.NewStringLoader(doc))
	if err != nil {
		return &ai.MalformedOutputError{Kind: ai.KindUnparsable, Cause: err}
	}
	if result.Valid() {
		return nil
	}

	errs := result.Errors()
	first := errs[0]

	kind := ai.KindSchema
	if invalidValueTypes[first.Type()] {
		kind = ai.KindInvalidValue
	}

	details := make([]string, 0, len(errs))
	for _, e := range errs {
		details = append(details, e.String())
	}

	return &ai.MalformedOutputError{
		Kind:   kind,
		Field:  fieldName(first),
		Detail: strings.Join(details, "; "),
	}
}

func fieldName(e gojsonschema.ResultError) string {
	if e.Type() == "required" {
		if prop, ok := e.Details()["property"].(string); ok {
			return prop
		}
	}
	return e.Field()
}
