package model

import (
	_ "embed"
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed cv.schema.json
var cvSchema []byte

// ValidateMap validates a generic map against the bilingual resume schema.
// The generation collaborator may return malformed or partial JSON, so the
// shape is checked before anything downstream trusts it.
func ValidateMap(m map[string]interface{}) error {
	schemaLoader := gojsonschema.NewBytesLoader(cvSchema)
	docLoader := gojsonschema.NewGoLoader(m)

	res, err := gojsonschema.Validate(schemaLoader, docLoader)
	if err != nil {
		return err
	}
	if res.Valid() {
		return nil
	}
	// collect errors
	msgs := ""
	for _, e := range res.Errors() {
		msgs += fmt.Sprintf("%s; ", e.String())
	}
	return fmt.Errorf("schema validation failed: %s", msgs)
}
