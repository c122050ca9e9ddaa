// Package metadata normalizes the free-form transaction payload attached
// to a document into the flat key set consumed by the template renderer
// and the signing gateway.
//
// Submitted payloads nest party and property details under seller, buyer,
// property and financial sub-objects, while older clients send the same
// data as flat legacy keys (sellerName, price, ...). Normalization runs
// exactly once, when the document is created; after that every consumer
// reads the flat map and no fallback logic exists at render time.
package metadata

import (
	"strconv"
	"time"

	"github.com/fortiva/propflow/internal/models"
)

// rule maps one canonical flat key to its sources, in fallback order:
// the nested group field first, then any flat legacy keys.
type rule struct {
	key    string
	group  string
	field  string
	legacy []string
}

var rules = []rule{
	// Agreement scalars (top-level only)
	{key: "agreementPlace", legacy: []string{"agreementPlace"}},
	{key: "stateName", legacy: []string{"stateName"}},
	{key: "jurisdictionCity", legacy: []string{"jurisdictionCity"}},
	{key: "arbitrationCity", legacy: []string{"arbitrationCity"}},

	// Seller
	{key: "sellerName", group: "seller", field: "name", legacy: []string{"sellerName"}},
	{key: "sellerParentName", group: "seller", field: "parentName", legacy: []string{"sellerParentName"}},
	{key: "sellerAge", group: "seller", field: "age", legacy: []string{"sellerAge"}},
	{key: "sellerOccupation", group: "seller", field: "occupation", legacy: []string{"sellerOccupation"}},
	{key: "sellerAddress", group: "seller", field: "address", legacy: []string{"sellerAddress"}},
	{key: "sellerPAN", group: "seller", field: "pan", legacy: []string{"sellerPAN"}},
	{key: "sellerAadhaar", group: "seller", field: "aadhaar", legacy: []string{"sellerAadhaar"}},

	// Buyer
	{key: "buyerName", group: "buyer", field: "name", legacy: []string{"buyerName"}},
	{key: "buyerParentName", group: "buyer", field: "parentName", legacy: []string{"buyerParentName"}},
	{key: "buyerAge", group: "buyer", field: "age", legacy: []string{"buyerAge"}},
	{key: "buyerOccupation", group: "buyer", field: "occupation", legacy: []string{"buyerOccupation"}},
	{key: "buyerAddress", group: "buyer", field: "address", legacy: []string{"buyerAddress"}},
	{key: "buyerPAN", group: "buyer", field: "pan", legacy: []string{"buyerPAN"}},
	{key: "buyerAadhaar", group: "buyer", field: "aadhaar", legacy: []string{"buyerAadhaar"}},

	// Property
	{key: "propertyType", group: "property", field: "type", legacy: []string{"propertyType"}},
	{key: "propertyAddress", group: "property", field: "address", legacy: []string{"propertyAddress"}},
	{key: "surveyNo", group: "property", field: "surveyNo", legacy: []string{"surveyNo"}},
	{key: "municipalNo", group: "property", field: "municipalNo", legacy: []string{"municipalNo"}},
	{key: "area", group: "property", field: "area", legacy: []string{"area"}},
	{key: "builtUpArea", group: "property", field: "builtUpArea", legacy: []string{"builtUpArea"}},
	{key: "carpetArea", group: "property", field: "carpetArea", legacy: []string{"carpetArea"}},
	{key: "boundaryNorth", group: "property", field: "boundaryNorth", legacy: []string{"boundaryNorth"}},
	{key: "boundarySouth", group: "property", field: "boundarySouth", legacy: []string{"boundarySouth"}},
	{key: "boundaryEast", group: "property", field: "boundaryEast", legacy: []string{"boundaryEast"}},
	{key: "boundaryWest", group: "property", field: "boundaryWest", legacy: []string{"boundaryWest"}},

	// Financial
	{key: "saleAmount", group: "financial", field: "saleAmount", legacy: []string{"saleAmount", "price"}},
	{key: "saleAmountWords", group: "financial", field: "saleAmountWords", legacy: []string{"saleAmountWords"}},
	{key: "earnestMoney", group: "financial", field: "earnestMoney", legacy: []string{"earnestMoney"}},
	{key: "balanceAmount", group: "financial", field: "balanceAmount", legacy: []string{"balanceAmount"}},
	{key: "paymentMode", group: "financial", field: "paymentMode", legacy: []string{"paymentMode"}},

	// Legal scalars and witnesses (top-level only)
	{key: "reraNumber", legacy: []string{"reraNumber"}},
	{key: "stampDutyBearer", legacy: []string{"stampDutyBearer"}},
	{key: "witness1Name", legacy: []string{"witness1Name"}},
	{key: "witness1Address", legacy: []string{"witness1Address"}},
	{key: "witness2Name", legacy: []string{"witness2Name"}},
	{key: "witness2Address", legacy: []string{"witness2Address"}},
}

// Flatten builds the canonical flat field map from a raw payload.
// Keys with no resolvable value are omitted; the renderer substitutes its
// own [key] marker for anything missing. createdAt seeds the agreement
// date fields when the payload does not carry them explicitly.
func Flatten(meta models.JSONB, createdAt time.Time) map[string]string {
	out := make(map[string]string, len(rules)+3)

	for _, r := range rules {
		if r.group != "" {
			if group, ok := meta[r.group].(map[string]interface{}); ok {
				if v, ok := stringify(group[r.field]); ok {
					out[r.key] = v
					continue
				}
			}
		}
		for _, lk := range r.legacy {
			if v, ok := stringify(meta[lk]); ok {
				out[r.key] = v
				break
			}
		}
	}

	// Agreement date defaults to the creation date.
	setDefault(out, meta, "agreementDay", strconv.Itoa(createdAt.Day()))
	setDefault(out, meta, "agreementMonth", createdAt.Month().String())
	setDefault(out, meta, "agreementYear", strconv.Itoa(createdAt.Year()))

	return out
}

func setDefault(out map[string]string, meta models.JSONB, key, fallback string) {
	if v, ok := stringify(meta[key]); ok {
		out[key] = v
		return
	}
	out[key] = fallback
}

// stringify renders a scalar payload value the way the wire format does:
// numbers without exponent notation, booleans as true/false. Nested
// objects, arrays, nils and empty strings do not resolve.
func stringify(v interface{}) (string, bool) {
	switch val := v.(type) {
	case string:
		if val == "" {
			return "", false
		}
		return val, true
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64), true
	case int:
		return strconv.Itoa(val), true
	case int64:
		return strconv.FormatInt(val, 10), true
	case bool:
		return strconv.FormatBool(val), true
	default:
		return "", false
	}
}
