package model

import (
	"encoding/json"

	"github.com/go-faster/errors"
)

// Variables are the GraphQL variables sent with every catalog query
type Variables struct {
	StoreID int    `json:"storeId"`
	Size    int    `json:"size"`
	From    int    `json:"from"`
	Slug    string `json:"slug"`
}

// QueryDocument is the request body posted to the catalog API.
// Query is taken verbatim from the template file; Variables are always
// overwritten by the caller before a request is made. Any other top-level
// key of the template (extensions, persisted query hashes) is kept in
// Extra and posted back unchanged.
type QueryDocument struct {
	OperationName string
	Query         string
	Variables     Variables
	Extra         map[string]json.RawMessage
}

// UnmarshalJSON reads a query template. A variables block that does not fit
// Variables is ignored since it is replaced before posting.
func (d *QueryDocument) UnmarshalJSON(b []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(b, &fields); err != nil {
		return err
	}

	var doc QueryDocument
	for key, raw := range fields {
		switch key {
		case "query":
			if err := json.Unmarshal(raw, &doc.Query); err != nil {
				return errors.Wrap(err, "query")
			}
		case "operationName":
			if err := json.Unmarshal(raw, &doc.OperationName); err != nil {
				return errors.Wrap(err, "operationName")
			}
		case "variables":
			var v Variables
			if json.Unmarshal(raw, &v) == nil {
				doc.Variables = v
			}
		default:
			if doc.Extra == nil {
				doc.Extra = make(map[string]json.RawMessage)
			}
			doc.Extra[key] = raw
		}
	}
	*d = doc
	return nil
}

// MarshalJSON writes the request body: Extra keys plus operationName,
// query and variables.
func (d QueryDocument) MarshalJSON() ([]byte, error) {
	out := make(map[string]interface{}, len(d.Extra)+3)
	for k, v := range d.Extra {
		out[k] = v
	}
	if d.OperationName != "" {
		out["operationName"] = d.OperationName
	}
	out["query"] = d.Query
	out["variables"] = d.Variables
	return json.Marshal(out)
}
