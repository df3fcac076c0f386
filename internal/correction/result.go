package correction

import (
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/fixspelling/fixspell/internal/prompts/correct"
)

// Result is a correction result. While streaming it is a partial snapshot;
// fields stay empty until the model starts emitting them.
type Result struct {
	FixedText   string `json:"fixedText"`
	Explanation string `json:"explanation"`
}

func (r *Result) set(key, value string) {
	switch key {
	case "fixedText":
		r.FixedText = value
	case "explanation":
		r.Explanation = value
	}
}

// extends reports whether next only grows the fields of r.
func (r Result) extends(prev Result) bool {
	return hasPrefix(r.FixedText, prev.FixedText) && hasPrefix(r.Explanation, prev.Explanation)
}

func hasPrefix(s, prefix string) bool {
	return len(s) >= len(prefix) && s[:len(prefix)] == prefix
}

var resultSchema = mustCompileResultSchema()

func mustCompileResultSchema() *jsonschema.Schema {
	raw, err := json.Marshal(correct.ResultSchema())
	if err != nil {
		panic(fmt.Sprintf("correction: marshal result schema: %v", err))
	}
	return jsonschema.MustCompileString("result.json", string(raw))
}

// DecodeResult decodes complete model output and checks it against the
// result schema: exactly fixedText and explanation, both strings.
func DecodeResult(data []byte) (Result, error) {
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrNonConforming, err)
	}
	if err := resultSchema.Validate(doc); err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrNonConforming, err)
	}

	var res Result
	if err := json.Unmarshal(data, &res); err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrNonConforming, err)
	}
	return res, nil
}
