package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func variant() map[string]interface{} {
	return map[string]interface{}{
		"objective": "Profissional com experiência",
		"skills":    []interface{}{"Go"},
		"education": []interface{}{
			map[string]interface{}{"course": "Gestão", "institution": "UAN"},
		},
		"experience": []interface{}{
			map[string]interface{}{"role": "Analista", "company": "TransAngola"},
		},
	}
}

func TestValidateMap(t *testing.T) {
	t.Run("valid bilingual document", func(t *testing.T) {
		require.NoError(t, ValidateMap(map[string]interface{}{"pt": variant(), "en": variant()}))
	})

	t.Run("missing language variant", func(t *testing.T) {
		assert.Error(t, ValidateMap(map[string]interface{}{"pt": variant()}))
	})

	t.Run("empty objective", func(t *testing.T) {
		v := variant()
		v["objective"] = ""
		assert.Error(t, ValidateMap(map[string]interface{}{"pt": v, "en": variant()}))
	})

	t.Run("empty skills", func(t *testing.T) {
		v := variant()
		v["skills"] = []interface{}{}
		assert.Error(t, ValidateMap(map[string]interface{}{"pt": variant(), "en": v}))
	})

	t.Run("experience entry missing company", func(t *testing.T) {
		v := variant()
		v["experience"] = []interface{}{map[string]interface{}{"role": "Analista"}}
		assert.Error(t, ValidateMap(map[string]interface{}{"pt": v, "en": variant()}))
	})
}
