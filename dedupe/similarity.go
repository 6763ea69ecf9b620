package dedupe

import (
	"github.com/vortex-fintech/go-profile/foundation/contact"
	"github.com/vortex-fintech/go-profile/foundation/similarity"
)

// AddressSimilarity scores two addresses in [0, 1].
//
// Primary line, city and state present in both records contribute an edit
// distance ratio; postcode and country id present in both contribute an
// exact match score. The result is the mean of the contributions, or 0 when
// no field is present in both. Fields present in only one record are
// ignored.
func AddressSimilarity(a, b contact.Address) float64 {
	return addressSimilarity(a, b, false)
}

// addressSimilarity with penalize set scores a field present in only one
// record as 0 instead of skipping it.
func addressSimilarity(a, b contact.Address, penalize bool) float64 {
	scores := make([]float64, 0, 5)

	add := func(x, y string, score func(string, string) float64) {
		switch {
		case x != "" && y != "":
			scores = append(scores, score(x, y))
		case penalize && (x != "" || y != ""):
			scores = append(scores, 0)
		}
	}

	add(a.Primary, b.Primary, similarity.Ratio)
	add(a.City, b.City, similarity.Ratio)
	add(a.State, b.State, similarity.Ratio)
	add(a.Postcode, b.Postcode, similarity.Exact)

	switch {
	case a.CountryID != 0 && b.CountryID != 0:
		if a.CountryID == b.CountryID {
			scores = append(scores, 1)
		} else {
			scores = append(scores, 0)
		}
	case penalize && (a.CountryID != 0 || b.CountryID != 0):
		scores = append(scores, 0)
	}

	return similarity.Mean(scores)
}
